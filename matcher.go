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
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/helgekrogh/recon/model"
)

// MatchMovements assigns candidates to movements with a greedy scan: movements
// are processed in input order, and each one claims the unclaimed candidate
// with the strictly highest score. Ties break to the earliest candidate index,
// so the assignment is deterministic for a given input order. The result is
// not a globally optimal assignment; it is the simple, explainable "first
// movement wins" semantics the manual-review workflow depends on.
//
// Candidates are read-only; claims are tracked in a set of claimed candidate
// ids scoped to this call, so no candidate is ever assigned twice within a
// run.
//
// Parameters:
// - movements: The normalized movements, in statement order.
// - candidates: The externally supplied match targets (open invoices or
//   ledger transactions), in caller-defined order.
//
// Returns:
// - []*model.MatchResult: One result per movement. An unaccepted movement
//   carries the best score that was found, possibly zero.
func (s *Reconciler) MatchMovements(movements []*model.BankMovement, candidates []*model.Candidate) []*model.MatchResult {
	claimed := make(map[string]bool, len(candidates))
	results := make([]*model.MatchResult, 0, len(movements))

	for _, movement := range movements {
		bestScore := 0.0
		bestIndex := -1
		for i, candidate := range candidates {
			if claimed[candidate.ID] {
				continue
			}
			score := s.scoreCandidate(movement, candidate)
			if score > bestScore {
				bestScore = score
				bestIndex = i
			}
		}

		result := &model.MatchResult{Movement: movement, Score: bestScore}
		if bestIndex >= 0 && bestScore > s.conf.Matcher.AcceptanceThreshold {
			result.MatchedCandidateID = candidates[bestIndex].ID
			claimed[candidates[bestIndex].ID] = true
		}
		results = append(results, result)
	}
	return results
}

// scoreCandidate computes the compatibility score of one movement/candidate
// pair from three weak signals: exact amount, date proximity and a reference
// hit. With the default weights the score is bounded by 100 (50+30+20).
func (s *Reconciler) scoreCandidate(movement *model.BankMovement, candidate *model.Candidate) float64 {
	m := s.conf.Matcher
	score := 0.0

	tolerance, err := decimal.NewFromString(m.AmountTolerance)
	if err != nil {
		tolerance = decimal.NewFromFloat(0.001)
	}
	if candidate.Amount.Sub(movement.Amount).Abs().LessThan(tolerance) {
		score += m.AmountWeight
	}

	if candidate.Date != nil && !movement.BookingDate.IsZero() {
		days := math.Abs(movement.BookingDate.Sub(*candidate.Date).Hours() / 24)
		switch {
		case days <= float64(m.TightWindowDays):
			score += m.DateTightWeight
		case days <= float64(m.LooseWindowDays):
			score += m.DateLooseWeight
		}
	}

	if candidate.ID != "" && strings.Contains(movement.MatchableText(), candidate.ID) {
		score += m.ReferenceWeight
	}

	return score
}
