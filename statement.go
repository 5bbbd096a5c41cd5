/*
Copyright 2024 Recon Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package recon

import (
	"fmt"
	"strings"
	"time"

	"github.com/helgekrogh/recon/internal/reconerror"
	"github.com/helgekrogh/recon/model"
)

// Statement format tags. Formats are declared explicitly by the caller; there
// is no content-based auto-detection.
const (
	FormatCAMT  = "camt"  // ISO 20022 CAMT.053/054 XML
	FormatMT940 = "mt940" // SWIFT MT940 text
)

// ParseStatement converts raw statement content into normalized bank
// movements, dispatching on the declared format tag.
//
// Parameters:
// - content: The raw statement bytes.
// - format: The declared format tag (FormatCAMT or FormatMT940).
//
// Returns:
// - []*model.BankMovement: The normalized movements, in statement order.
// - error: A PARSE_ERROR for a malformed document, or UNSUPPORTED_FORMAT for
//   an unknown tag. Individual malformed entries are skipped, not raised.
func (s *Reconciler) ParseStatement(content []byte, format string) ([]*model.BankMovement, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCAMT:
		return s.parseCAMT(content)
	case FormatMT940:
		return s.parseMT940(content)
	default:
		return nil, reconerror.New(reconerror.ErrUnsupportedFormat, fmt.Sprintf("unsupported statement format: %q", format), nil)
	}
}

// parseDate tries the date layouts that appear across both statement formats.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// fallbackDate is the degraded-but-non-fatal booking date used when an entry
// carries no parseable date: today, truncated to the day.
func fallbackDate() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
