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
	"encoding/xml"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/wacul/ptr"

	"github.com/helgekrogh/recon/internal/reconerror"
	"github.com/helgekrogh/recon/model"
)

// camtDocument is a deliberately loose mapping of the ISO 20022 envelope.
// Bank exports differ in which wrapper they use, so both the camt.053
// statement shape and the camt.054 notification shape are accepted, plus
// documents whose root already is the statement list.
type camtDocument struct {
	Statements    []camtStatement `xml:"BkToCstmrStmt>Stmt"`
	Notifications []camtStatement `xml:"BkToCstmrDbtCdtNtfctn>Ntfctn"`
	RootEntries   []camtStatement `xml:"Stmt"`
}

type camtStatement struct {
	Currency string      `xml:"Acct>Ccy"`
	Entries  []camtEntry `xml:"Ntry"`
}

type camtEntry struct {
	Amount         camtAmount       `xml:"Amt"`
	CreditDebit    string           `xml:"CdtDbtInd"`
	BookingDate    camtDate         `xml:"BookgDt"`
	ValueDate      camtDate         `xml:"ValDt"`
	EntryRef       string           `xml:"NtryRef"`
	ServicerRef    string           `xml:"AcctSvcrRef"`
	AdditionalInfo string           `xml:"AddtlNtryInf"`
	Details        []camtTxnDetails `xml:"NtryDtls>TxDtls"`
}

type camtAmount struct {
	Value    string `xml:",chardata"`
	Currency string `xml:"Ccy,attr"`
}

type camtDate struct {
	Date     string `xml:"Dt"`
	DateTime string `xml:"DtTm"`
}

type camtTxnDetails struct {
	Unstructured []string `xml:"RmtInf>Ustrd"`
	CreditorRef  string   `xml:"RmtInf>Strd>CdtrRefInf>Ref"`
}

// parseCAMT converts a CAMT.053/054 XML document into bank movements. A
// document that cannot be decoded at all fails the parse; a malformed
// individual entry is logged and skipped so one bad line does not reject the
// whole statement.
func (s *Reconciler) parseCAMT(content []byte) ([]*model.BankMovement, error) {
	var doc camtDocument
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, reconerror.New(reconerror.ErrParse, "malformed CAMT document", err.Error())
	}

	statements := doc.Statements
	statements = append(statements, doc.Notifications...)
	statements = append(statements, doc.RootEntries...)

	movements := make([]*model.BankMovement, 0)
	for _, stmt := range statements {
		for _, entry := range stmt.Entries {
			movement, ok := s.camtEntryToMovement(entry, stmt.Currency)
			if !ok {
				continue
			}
			movements = append(movements, movement)
		}
	}
	return movements, nil
}

// camtEntryToMovement normalizes a single statement entry. The second return
// value is false when the entry has to be dropped.
func (s *Reconciler) camtEntryToMovement(entry camtEntry, statementCurrency string) (*model.BankMovement, bool) {
	amount, err := parseCAMTAmount(entry.Amount.Value)
	if err != nil {
		// An entry without a parseable amount is dropped rather than stored
		// as zero, so it cannot corrupt the reconciliation statistics.
		logrus.Warnf("skipping CAMT entry with unparseable amount %q: %v", entry.Amount.Value, err)
		return nil, false
	}
	if strings.EqualFold(strings.TrimSpace(entry.CreditDebit), "DBIT") {
		amount = amount.Neg()
	}

	currency := strings.TrimSpace(entry.Amount.Currency)
	if currency == "" {
		currency = strings.TrimSpace(statementCurrency)
	}
	if currency == "" {
		currency = s.conf.Parser.DefaultCurrency
	}

	bookingDate, ok := parseDate(firstNonEmpty(entry.BookingDate.Date, entry.BookingDate.DateTime))
	if !ok {
		logrus.Warnf("CAMT entry has no parseable booking date, falling back to today")
		bookingDate = fallbackDate()
	}

	movement := &model.BankMovement{
		MovementID:     model.GenerateUUIDWithSuffix("mov"),
		BookingDate:    bookingDate,
		Amount:         amount,
		Currency:       currency,
		Reference:      firstNonEmpty(entry.EntryRef, entry.ServicerRef),
		RemittanceInfo: camtRemittance(entry),
		Status:         model.MovementStatusPending,
	}
	if valueDate, ok := parseDate(firstNonEmpty(entry.ValueDate.Date, entry.ValueDate.DateTime)); ok {
		movement.ValueDate = ptr.Time(valueDate)
	}
	return movement, true
}

// camtRemittance extracts the free payment text: additional entry info first,
// then unstructured remittance lines, then the structured creditor reference.
func camtRemittance(entry camtEntry) string {
	if info := strings.TrimSpace(entry.AdditionalInfo); info != "" {
		return info
	}
	for _, details := range entry.Details {
		unstructured := make([]string, 0, len(details.Unstructured))
		for _, line := range details.Unstructured {
			if line = strings.TrimSpace(line); line != "" {
				unstructured = append(unstructured, line)
			}
		}
		if len(unstructured) > 0 {
			return strings.Join(unstructured, " ")
		}
		if ref := strings.TrimSpace(details.CreditorRef); ref != "" {
			return ref
		}
	}
	return ""
}

// parseCAMTAmount parses an ISO amount, tolerating a comma decimal separator.
func parseCAMTAmount(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, ",", ".")
	return decimal.NewFromString(value)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
