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

import "time"

// Reconciliation result statuses.
const (
	StatusPending  = "pending"  // Created without an accepted match.
	StatusAuto     = "auto"     // Matched automatically, or approved after manual review.
	StatusManual   = "manual"   // Assigned by a human operator.
	StatusDisputed = "disputed" // Rejected by a human operator; terminal for the engine.
)

// Reconciliation event types, appended for every status transition.
const (
	EventCreated         = "created"
	EventAutoMatched     = "auto_matched"
	EventManuallyMatched = "manually_matched"
	EventDisputed        = "disputed"
	EventApproved        = "approved"
)

// MatchResult is the matcher's verdict for a single movement. An empty
// MatchedCandidateID means the movement is unmatched; Score then carries the
// best score that was found, possibly zero.
type MatchResult struct {
	Movement           *BankMovement `json:"movement"`
	MatchedCandidateID string        `json:"matched_candidate_id,omitempty"`
	Score              float64       `json:"score"`
}

// Matched reports whether the matcher accepted a candidate for this movement.
func (r *MatchResult) Matched() bool {
	return r.MatchedCandidateID != ""
}

// ReconciliationResult is the persisted unit of reconciliation state, one per
// movement over time, keyed by MovementID. The status field is mutated in
// place on transitions; the full transition history lives in the event log.
type ReconciliationResult struct {
	ResultID           string    `json:"result_id"`
	MovementID         string    `json:"movement_id"`
	MatchedCandidateID string    `json:"matched_candidate_id,omitempty"`
	Score              float64   `json:"score"`
	Status             string    `json:"status"`
	DisputeReason      string    `json:"dispute_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ReconciliationEvent records a single transition of a reconciliation result,
// with the acting user when the transition was human-initiated.
type ReconciliationEvent struct {
	EventID     string    `json:"event_id"`
	MovementID  string    `json:"movement_id"`
	Type        string    `json:"type"`
	CandidateID string    `json:"candidate_id,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReconciliationRun captures one execution of the automatic reconciliation,
// mirroring how statement batches are tracked operationally.
type ReconciliationRun struct {
	RunID       string     `json:"run_id"`
	Status      string     `json:"status"`
	Matched     int        `json:"matched"`
	Unmatched   int        `json:"unmatched"`
	IsDryRun    bool       `json:"is_dry_run"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ReconciliationSummary aggregates a result set. Pending is derived from the
// other counters rather than counted, which guards against double counting.
type ReconciliationSummary struct {
	Total            int     `json:"total"`
	AutoReconciled   int     `json:"auto_reconciled"`
	ManualReconciled int     `json:"manual_reconciled"`
	Pending          int     `json:"pending"`
	Disputed         int     `json:"disputed"`
	SuccessRate      float64 `json:"success_rate"`
}

// ReconciliationStats extends the summary with the mean score over all stored
// results, for reporting.
type ReconciliationStats struct {
	ReconciliationSummary
	AverageScore float64 `json:"average_score"`
}

// ReconciliationReport is the export bundle: stats, the full result list and
// the time of export.
type ReconciliationReport struct {
	Summary    ReconciliationStats     `json:"summary"`
	Results    []*ReconciliationResult `json:"results"`
	ExportedAt time.Time               `json:"exported_at"`
}

// MatchSuggestion is a ranked candidate proposal for the manual workflow.
type MatchSuggestion struct {
	CandidateID string  `json:"candidate_id"`
	Score       float64 `json:"score"`
	Similarity  float64 `json:"similarity"`
}

// ReconciliationResults bundles the outcome of one automatic run.
type ReconciliationResults struct {
	Run     *ReconciliationRun      `json:"run"`
	Results []*ReconciliationResult `json:"results"`
	Summary ReconciliationSummary   `json:"summary"`
}
