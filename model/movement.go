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
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement status values set by the reconciliation engine.
const (
	MovementStatusPending    = "pending"    // Not yet matched against a candidate.
	MovementStatusReconciled = "reconciled" // Matched and accepted by the engine.
)

// BankMovement is a single normalized statement line, produced by the
// statement parsers and consumed by the matcher. Amount is always present;
// entries without a parseable amount are dropped at parse time so a phantom
// zero never reaches the reconciliation statistics.
type BankMovement struct {
	MovementID     string          `json:"movement_id"`
	BookingDate    time.Time       `json:"booking_date"`
	ValueDate      *time.Time      `json:"value_date,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	RemittanceInfo string          `json:"remittance_info,omitempty"`
	Status         string          `json:"status"`
}

// MatchableText returns the free text of the movement used for reference
// matching: the bank reference and the remittance description combined.
func (m *BankMovement) MatchableText() string {
	if m.Reference == "" {
		return m.RemittanceInfo
	}
	if m.RemittanceInfo == "" {
		return m.Reference
	}
	return m.Reference + " " + m.RemittanceInfo
}

// Candidate is an externally supplied match target, typically an open invoice
// or an existing ledger transaction. The matcher treats candidates as
// read-only; a claimed candidate is tracked per matching run, never mutated.
type Candidate struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   *time.Time      `json:"date,omitempty"`
}
