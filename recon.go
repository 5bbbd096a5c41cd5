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
	"sync"

	"github.com/helgekrogh/recon/config"
	"github.com/helgekrogh/recon/store"
)

// Reconciler is the reconciliation engine: it parses bank statements into
// normalized movements, matches them against externally supplied candidates
// and tracks the resulting reconciliation state through its store.
//
// Candidate fetching and every outer surface (HTTP, CLI, persistence engine)
// belong to the caller; the Reconciler only consumes and produces in-memory
// data.
type Reconciler struct {
	store store.Store
	conf  *config.Configuration

	// performMu serializes automatic reconciliation runs. The matcher's
	// claim-on-accept behavior and the result upserts are not designed for
	// concurrent interleaving over the same store.
	performMu sync.Mutex
}

// NewReconciler initializes a new Reconciler backed by the given store.
// It fetches the loaded configuration; call config.InitConfig (or
// config.MockConfig) first, or use NewReconcilerWithConfig to pass one
// explicitly.
//
// Parameters:
// - s store.Store: The store for reconciliation state.
//
// Returns:
// - *Reconciler: A pointer to the newly created Reconciler instance.
// - error: An error if the configuration is not available.
func NewReconciler(s store.Store) (*Reconciler, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	return &Reconciler{store: s, conf: configuration}, nil
}

// NewReconcilerWithConfig initializes a new Reconciler with an explicit
// configuration, bypassing the global config store.
func NewReconcilerWithConfig(s store.Store, conf *config.Configuration) *Reconciler {
	if conf == nil {
		conf = config.Default()
	}
	return &Reconciler{store: s, conf: conf}
}

// Store exposes the underlying store, mainly so callers can swap probing and
// persistence concerns into their own layers.
func (s *Reconciler) Store() store.Store {
	return s.store
}
