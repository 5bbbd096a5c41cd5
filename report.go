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

	"github.com/pkg/errors"

	"github.com/helgekrogh/recon/model"
)

// GetResults returns all stored reconciliation results in insertion order.
func (s *Reconciler) GetResults(ctx context.Context) ([]*model.ReconciliationResult, error) {
	return s.store.GetResults(ctx)
}

// GetResult returns the reconciliation result for a movement, or nil when the
// movement has never been processed.
func (s *Reconciler) GetResult(ctx context.Context, movementID string) (*model.ReconciliationResult, error) {
	return s.store.GetResult(ctx, movementID)
}

// GetStats aggregates all stored results into the standard summary plus the
// mean score. Side-effect free.
func (s *Reconciler) GetStats(ctx context.Context) (*model.ReconciliationStats, error) {
	results, err := s.store.GetResults(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading results")
	}

	stats := &model.ReconciliationStats{ReconciliationSummary: computeSummary(results)}
	if len(results) > 0 {
		total := 0.0
		for _, result := range results {
			total += result.Score
		}
		stats.AverageScore = total / float64(len(results))
	}
	return stats, nil
}

// ExportReport bundles the stats, the full result list and an export
// timestamp into a single JSON-serializable report.
func (s *Reconciler) ExportReport(ctx context.Context) (*model.ReconciliationReport, error) {
	stats, err := s.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	results, err := s.store.GetResults(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading results")
	}
	return &model.ReconciliationReport{
		Summary:    *stats,
		Results:    results,
		ExportedAt: time.Now().UTC(),
	}, nil
}
