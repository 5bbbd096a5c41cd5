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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wacul/ptr"

	"github.com/helgekrogh/recon/model"
)

func TestGetStats(t *testing.T) {
	reconciler := newTestReconciler(t)
	ctx := context.Background()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	movements := []*model.BankMovement{
		testMovement("150.00", date, "Payment for INV-1"),
		testMovement("42.00", date, "nothing matches this"),
	}
	candidates := []*model.Candidate{testCandidate("INV-1", "150.00", ptr.Time(date))}

	_, err := reconciler.PerformReconciliation(ctx, movements, candidates, PerformOptions{})
	require.NoError(t, err)

	stats, err := reconciler.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.AutoReconciled)
	assert.Equal(t, 1, stats.Pending)
	// Scores 100 (matched) and 0 (the only candidate was already claimed):
	// mean 50.
	assert.InDelta(t, 50.0, stats.AverageScore, 1e-9)
}

func TestGetStatsEmpty(t *testing.T) {
	reconciler := newTestReconciler(t)

	stats, err := reconciler.GetStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.SuccessRate)
	assert.Zero(t, stats.AverageScore)
}

func TestExportReport(t *testing.T) {
	reconciler := newTestReconciler(t)
	ctx := context.Background()

	_, err := reconciler.ManualReconciliation(ctx, "m1", "c1", "user-1")
	require.NoError(t, err)

	before := time.Now().UTC()
	report, err := reconciler.ExportReport(ctx)
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, 1, report.Summary.ManualReconciled)
	assert.False(t, report.ExportedAt.Before(before))

	// The bundle must serialize cleanly for the HTTP layer above the engine.
	payload, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "\"exported_at\"")
	assert.Contains(t, string(payload), "\"average_score\"")
}
