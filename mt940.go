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
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/helgekrogh/recon/internal/reconerror"
	"github.com/helgekrogh/recon/model"
)

const mt940StatementLineTag = ":61:"

// parseMT940 converts MT940 text into bank movements. The document is split
// on the :61: statement-line tag; everything before the first tag (header
// blocks, account identification) is ignored. A document with zero statement
// lines parses to an empty movement list.
func (s *Reconciler) parseMT940(content []byte) ([]*model.BankMovement, error) {
	if !utf8.Valid(content) {
		return nil, reconerror.New(reconerror.ErrParse, "MT940 document is not valid text", nil)
	}
	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	segments := strings.Split(text, mt940StatementLineTag)
	movements := make([]*model.BankMovement, 0, len(segments))
	for _, segment := range segments[1:] {
		movement, ok := s.mt940SegmentToMovement(segment)
		if !ok {
			continue
		}
		movements = append(movements, movement)
	}
	return movements, nil
}

// mt940SegmentToMovement normalizes one :61: segment. The first line carries
// a YYMMDD value date, an optional MMDD entry date, a debit/credit marker and
// a comma-decimal amount; the following lines (usually an :86: block) carry
// the remittance text.
func (s *Reconciler) mt940SegmentToMovement(segment string) (*model.BankMovement, bool) {
	lines := strings.Split(segment, "\n")
	first := strings.TrimSpace(lines[0])

	bookingDate, rest, ok := parseMT940Date(first)
	if !ok {
		logrus.Warnf("MT940 statement line %q has no parseable date, falling back to today", first)
		bookingDate = fallbackDate()
		rest = first
	}

	amount, rest, err := parseMT940Amount(rest)
	if err != nil {
		// Unified with the CAMT policy: a statement line without a parseable
		// amount is dropped instead of becoming a phantom zero movement.
		logrus.Warnf("skipping MT940 statement line %q: %v", first, err)
		return nil, false
	}

	return &model.BankMovement{
		MovementID:     model.GenerateUUIDWithSuffix("mov"),
		BookingDate:    bookingDate,
		Amount:         amount,
		Currency:       s.conf.Parser.DefaultCurrency,
		Reference:      strings.TrimSpace(rest),
		RemittanceInfo: mt940Remittance(lines[1:]),
		Status:         model.MovementStatusPending,
	}, true
}

// parseMT940Date reads the leading 6-digit YYMMDD date. Two-digit years map
// to 20YY. Returns the remainder of the line after the date.
func parseMT940Date(line string) (time.Time, string, bool) {
	if len(line) < 6 || !allDigits(line[:6]) {
		return time.Time{}, line, false
	}
	t, err := time.Parse("20060102", "20"+line[:6])
	if err != nil {
		return time.Time{}, line, false
	}
	return t, line[6:], true
}

// parseMT940Amount reads the optional 4-digit entry date, the debit/credit
// marker and the amount from the remainder of a :61: line. Debits produce a
// negative amount. Returns the unread tail of the line, which carries the
// transaction type code and bank reference.
func parseMT940Amount(rest string) (decimal.Decimal, string, error) {
	// Optional MMDD entry date between the value date and the marker.
	if len(rest) >= 4 && allDigits(rest[:4]) {
		rest = rest[4:]
	}

	negative := false
	if strings.HasPrefix(rest, "R") && len(rest) > 1 && (rest[1] == 'C' || rest[1] == 'D') {
		negative = rest[1] == 'D'
		rest = rest[2:]
	} else if strings.HasPrefix(rest, "C") || strings.HasPrefix(rest, "D") {
		negative = rest[0] == 'D'
		rest = rest[1:]
	}

	start := 0
	if len(rest) == 0 || !unicode.IsDigit(rune(rest[0])) {
		// Degraded lines (e.g. an unparseable value date) can leave junk in
		// front of the amount; fall back to the first digit run.
		start = strings.IndexFunc(rest, unicode.IsDigit)
		if start < 0 {
			return decimal.Decimal{}, rest, reconerror.New(reconerror.ErrParse, "statement line carries no amount", nil)
		}
		if start > 0 && (rest[start-1] == 'C' || rest[start-1] == 'D') {
			negative = rest[start-1] == 'D'
		}
	}
	end := start
	for end < len(rest) && (unicode.IsDigit(rune(rest[end])) || rest[end] == ',') {
		end++
	}
	token := strings.TrimSuffix(rest[start:end], ",")
	if token == "" {
		return decimal.Decimal{}, rest, reconerror.New(reconerror.ErrParse, "statement line carries no amount", nil)
	}

	amount, err := decimal.NewFromString(strings.Replace(token, ",", ".", 1))
	if err != nil {
		return decimal.Decimal{}, rest, reconerror.New(reconerror.ErrParse, "unparseable amount "+token, err.Error())
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, rest[end:], nil
}

// mt940Remittance joins the lines following a :61: line into free remittance
// text. An :86: information block belongs to the statement line and is kept
// with its tag stripped; any other tag ends the segment's text.
func mt940Remittance(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":86:") {
			line = strings.TrimSpace(strings.TrimPrefix(line, ":86:"))
			if line != "" {
				parts = append(parts, line)
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			break
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
