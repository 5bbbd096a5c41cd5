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
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/wacul/ptr"
	"go.opentelemetry.io/otel"

	"github.com/helgekrogh/recon/internal/reconerror"
	"github.com/helgekrogh/recon/model"
)

// Status constants representing the various states a reconciliation run can be in.
const (
	StatusStarted   = "started"   // Indicates the run has started.
	StatusCompleted = "completed" // Indicates the run is finished successfully.
	StatusFailed    = "failed"    // Indicates the run has failed.
)

// PerformOptions tunes a single automatic reconciliation run.
type PerformOptions struct {
	// DryRun computes matches and the summary without persisting results,
	// mutating movement statuses or recording the run.
	DryRun bool
}

// PerformReconciliation runs the matcher over the given movements and
// candidates and upserts one reconciliation result per movement: matched
// movements become status "auto" and are marked reconciled, unmatched ones
// become "pending". Each processed movement also gets a transition event
// appended, and the run itself is recorded with its matched/unmatched
// counters.
//
// Calls are serialized internally; the greedy claim-on-accept matching and
// the per-movement upserts must not interleave across concurrent runs over
// the same store.
//
// Parameters:
// - ctx: The context controlling the run.
// - movements: The parsed movements to reconcile. Their Status field is
//   mutated in place unless the run is a dry run.
// - candidates: The open invoices or ledger transactions to match against.
// - opts: Run options.
//
// Returns:
// - *model.ReconciliationResults: The run record, per-movement results and
//   the aggregate summary.
// - error: If persisting any result fails.
func (s *Reconciler) PerformReconciliation(ctx context.Context, movements []*model.BankMovement, candidates []*model.Candidate, opts PerformOptions) (*model.ReconciliationResults, error) {
	s.performMu.Lock()
	defer s.performMu.Unlock()

	ctx, span := otel.Tracer("recon.reconciliation").Start(ctx, "PerformReconciliation")
	defer span.End()

	run := &model.ReconciliationRun{
		RunID:     model.GenerateUUIDWithSuffix("run"),
		Status:    StatusStarted,
		IsDryRun:  opts.DryRun,
		StartedAt: time.Now(),
	}
	if !opts.DryRun {
		if err := s.store.RecordRun(ctx, run); err != nil {
			return nil, errors.Wrap(err, "recording reconciliation run")
		}
	}

	matchResults := s.MatchMovements(movements, candidates)

	results := make([]*model.ReconciliationResult, 0, len(matchResults))
	matched, unmatched := 0, 0
	for _, matchResult := range matchResults {
		if matchResult.Matched() {
			matched++
		} else {
			unmatched++
		}

		result, err := s.applyMatchResult(ctx, matchResult, opts.DryRun)
		if err != nil {
			if !opts.DryRun {
				run.Status = StatusFailed
				if updateErr := s.store.UpdateRun(ctx, run); updateErr != nil {
					logrus.Errorf("updating failed run %s: %v", run.RunID, updateErr)
				}
			}
			return nil, err
		}
		results = append(results, result)
	}

	run.Status = StatusCompleted
	run.Matched = matched
	run.Unmatched = unmatched
	run.CompletedAt = ptr.Time(time.Now())
	if !opts.DryRun {
		if err := s.store.UpdateRun(ctx, run); err != nil {
			return nil, errors.Wrap(err, "completing reconciliation run")
		}
	}
	logrus.Infof("reconciliation run %s completed: %d matched, %d unmatched", run.RunID, matched, unmatched)

	return &model.ReconciliationResults{
		Run:     run,
		Results: results,
		Summary: computeSummary(results),
	}, nil
}

// applyMatchResult upserts the reconciliation result for one movement and
// mutates the movement's own status. An existing result for the movement is
// overwritten in place, keeping its identity and creation time.
func (s *Reconciler) applyMatchResult(ctx context.Context, matchResult *model.MatchResult, dryRun bool) (*model.ReconciliationResult, error) {
	movement := matchResult.Movement
	now := time.Now()

	result := &model.ReconciliationResult{
		ResultID:   model.GenerateUUIDWithSuffix("recon"),
		MovementID: movement.MovementID,
		Score:      matchResult.Score,
		Status:     model.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	eventType := model.EventCreated
	movementStatus := model.MovementStatusPending
	if matchResult.Matched() {
		result.MatchedCandidateID = matchResult.MatchedCandidateID
		result.Status = model.StatusAuto
		eventType = model.EventAutoMatched
		movementStatus = model.MovementStatusReconciled
	}

	if dryRun {
		return result, nil
	}

	if existing, err := s.store.GetResult(ctx, movement.MovementID); err != nil {
		return nil, errors.Wrap(err, "loading existing result")
	} else if existing != nil {
		result.ResultID = existing.ResultID
		result.CreatedAt = existing.CreatedAt
	}

	if err := s.store.UpsertResult(ctx, result); err != nil {
		return nil, errors.Wrapf(err, "persisting result for movement %s", movement.MovementID)
	}
	movement.Status = movementStatus
	s.appendEvent(ctx, &model.ReconciliationEvent{
		MovementID:  movement.MovementID,
		Type:        eventType,
		CandidateID: result.MatchedCandidateID,
	})
	return result, nil
}

// ManualReconciliation assigns a candidate to a movement by explicit human
// decision. It upserts: a new result is created with status "manual" when the
// movement has never been processed, otherwise the existing result's
// candidate and status are overwritten. The score is pinned to 1.0 to mark
// the assignment as a human call rather than a computed confidence. Repeated
// identical calls are idempotent.
func (s *Reconciler) ManualReconciliation(ctx context.Context, movementID, candidateID, userID string) (*model.ReconciliationResult, error) {
	if err := validateManualInput(movementID, candidateID, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	result, err := s.store.GetResult(ctx, movementID)
	if err != nil {
		return nil, errors.Wrap(err, "loading existing result")
	}
	if result == nil {
		result = &model.ReconciliationResult{
			ResultID:   model.GenerateUUIDWithSuffix("recon"),
			MovementID: movementID,
			CreatedAt:  now,
		}
	}
	result.MatchedCandidateID = candidateID
	result.Score = 1.0
	result.Status = model.StatusManual
	result.DisputeReason = ""
	result.UpdatedAt = now

	if err := s.store.UpsertResult(ctx, result); err != nil {
		return nil, errors.Wrap(err, "persisting manual reconciliation")
	}
	s.appendEvent(ctx, &model.ReconciliationEvent{
		MovementID:  movementID,
		Type:        model.EventManuallyMatched,
		CandidateID: candidateID,
		UserID:      userID,
	})
	return result, nil
}

// DisputeReconciliation marks a movement's reconciliation as disputed.
// Disputing a movement with no result is a silent no-op returning nil, not an
// error: reconciliation operations are exploratory by nature and probing
// state should not require catching exceptions. Disputes are terminal for the
// engine; only a fresh manual assignment leaves the state.
func (s *Reconciler) DisputeReconciliation(ctx context.Context, movementID, reason, userID string) (*model.ReconciliationResult, error) {
	result, err := s.store.GetResult(ctx, movementID)
	if err != nil {
		return nil, errors.Wrap(err, "loading existing result")
	}
	if result == nil {
		return nil, nil
	}

	result.Status = model.StatusDisputed
	result.DisputeReason = reason
	result.UpdatedAt = time.Now()
	if err := s.store.UpsertResult(ctx, result); err != nil {
		return nil, errors.Wrap(err, "persisting dispute")
	}
	s.appendEvent(ctx, &model.ReconciliationEvent{
		MovementID: movementID,
		Type:       model.EventDisputed,
		Reason:     reason,
		UserID:     userID,
	})
	return result, nil
}

// ApproveReconciliation confirms a prior manual match, transitioning the
// result from "manual" back to "auto". Any other current status, disputed
// included, is left untouched and returned unchanged; approving an unknown
// movement returns nil.
func (s *Reconciler) ApproveReconciliation(ctx context.Context, movementID, userID string) (*model.ReconciliationResult, error) {
	result, err := s.store.GetResult(ctx, movementID)
	if err != nil {
		return nil, errors.Wrap(err, "loading existing result")
	}
	if result == nil {
		return nil, nil
	}
	if result.Status != model.StatusManual {
		return result, nil
	}

	result.Status = model.StatusAuto
	result.UpdatedAt = time.Now()
	if err := s.store.UpsertResult(ctx, result); err != nil {
		return nil, errors.Wrap(err, "persisting approval")
	}
	s.appendEvent(ctx, &model.ReconciliationEvent{
		MovementID: movementID,
		Type:       model.EventApproved,
		UserID:     userID,
	})
	return result, nil
}

// GetHistory returns the append-only transition log of a movement, oldest
// first. The mutable result carries only the current status; the history is
// reconstructed from these events.
func (s *Reconciler) GetHistory(ctx context.Context, movementID string) ([]*model.ReconciliationEvent, error) {
	return s.store.GetEvents(ctx, movementID)
}

// appendEvent stamps and stores a transition event. An event that cannot be
// appended is logged, not raised: the audit trail must never fail the
// operation it records.
func (s *Reconciler) appendEvent(ctx context.Context, event *model.ReconciliationEvent) {
	event.EventID = model.GenerateUUIDWithSuffix("event")
	event.CreatedAt = time.Now()
	if err := s.store.AppendEvent(ctx, event); err != nil {
		logrus.Errorf("appending %s event for movement %s: %v", event.Type, event.MovementID, err)
	}
}

// computeSummary aggregates a result set. Pending is derived from the other
// counters, which guards against double counting, and the success rate never
// divides by zero.
func computeSummary(results []*model.ReconciliationResult) model.ReconciliationSummary {
	summary := model.ReconciliationSummary{Total: len(results)}
	for _, result := range results {
		switch result.Status {
		case model.StatusAuto:
			summary.AutoReconciled++
		case model.StatusManual:
			summary.ManualReconciled++
		case model.StatusDisputed:
			summary.Disputed++
		}
	}
	summary.Pending = summary.Total - summary.AutoReconciled - summary.ManualReconciled - summary.Disputed
	if summary.Total > 0 {
		summary.SuccessRate = float64(summary.AutoReconciled+summary.ManualReconciled) / float64(summary.Total)
	}
	return summary
}

func validateManualInput(movementID, candidateID, userID string) error {
	err := validation.Errors{
		"movement_id":  validation.Validate(movementID, validation.Required),
		"candidate_id": validation.Validate(candidateID, validation.Required),
		"user_id":      validation.Validate(userID, validation.Required),
	}.Filter()
	if err != nil {
		return reconerror.New(reconerror.ErrInvalidInput, "invalid manual reconciliation request", err.Error())
	}
	return nil
}
