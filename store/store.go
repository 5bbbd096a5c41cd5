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

package store

import (
	"context"

	"github.com/helgekrogh/recon/model"
)

// Store defines the persistence boundary of the reconciliation engine,
// grouping related functionalities. The engine ships with an in-memory
// implementation; a persistent backend only needs to satisfy this interface.
type Store interface {
	result
	event
	run
}

// result defines methods for handling reconciliation results. Results are
// keyed by movement ID; lookups for unknown movements return (nil, nil) so
// callers can probe state without handling not-found errors.
type result interface {
	UpsertResult(ctx context.Context, result *model.ReconciliationResult) error               // Creates or replaces the result for a movement
	GetResult(ctx context.Context, movementID string) (*model.ReconciliationResult, error)    // Retrieves the result for a movement, nil if absent
	GetResults(ctx context.Context) ([]*model.ReconciliationResult, error)                    // Retrieves all results in insertion order
}

// event defines methods for the append-only transition log.
type event interface {
	AppendEvent(ctx context.Context, event *model.ReconciliationEvent) error                 // Appends a transition event
	GetEvents(ctx context.Context, movementID string) ([]*model.ReconciliationEvent, error)  // Retrieves a movement's events in append order
}

// run defines methods for tracking automatic reconciliation runs.
type run interface {
	RecordRun(ctx context.Context, run *model.ReconciliationRun) error                 // Records a new reconciliation run
	UpdateRun(ctx context.Context, run *model.ReconciliationRun) error                 // Updates a run's status and counters
	GetRun(ctx context.Context, runID string) (*model.ReconciliationRun, error)        // Retrieves a run by ID, nil if absent
}
