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
	"sync"

	"github.com/helgekrogh/recon/model"
)

// MemoryStore is the default Store implementation: a mutex-guarded in-memory
// map keyed by movement ID, preserving insertion order for listings. State
// lives only for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]*model.ReconciliationResult
	order   []string
	events  map[string][]*model.ReconciliationEvent
	runs    map[string]*model.ReconciliationRun
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results: make(map[string]*model.ReconciliationResult),
		events:  make(map[string][]*model.ReconciliationEvent),
		runs:    make(map[string]*model.ReconciliationRun),
	}
}

func (s *MemoryStore) UpsertResult(_ context.Context, result *model.ReconciliationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.results[result.MovementID]; !exists {
		s.order = append(s.order, result.MovementID)
	}
	cp := *result
	s.results[result.MovementID] = &cp
	return nil
}

func (s *MemoryStore) GetResult(_ context.Context, movementID string) (*model.ReconciliationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[movementID]
	if !ok {
		return nil, nil
	}
	cp := *result
	return &cp, nil
}

func (s *MemoryStore) GetResults(_ context.Context) ([]*model.ReconciliationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*model.ReconciliationResult, 0, len(s.order))
	for _, movementID := range s.order {
		cp := *s.results[movementID]
		results = append(results, &cp)
	}
	return results, nil
}

func (s *MemoryStore) AppendEvent(_ context.Context, event *model.ReconciliationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *event
	s.events[event.MovementID] = append(s.events[event.MovementID], &cp)
	return nil
}

func (s *MemoryStore) GetEvents(_ context.Context, movementID string) ([]*model.ReconciliationEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.events[movementID]
	events := make([]*model.ReconciliationEvent, 0, len(stored))
	for _, event := range stored {
		cp := *event
		events = append(events, &cp)
	}
	return events, nil
}

func (s *MemoryStore) RecordRun(_ context.Context, run *model.ReconciliationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *run
	s.runs[run.RunID] = &cp
	return nil
}

func (s *MemoryStore) UpdateRun(_ context.Context, run *model.ReconciliationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *run
	s.runs[run.RunID] = &cp
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, runID string) (*model.ReconciliationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return nil, nil
	}
	cp := *run
	return &cp, nil
}
