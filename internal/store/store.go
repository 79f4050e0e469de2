// Package store holds the process-wide snapshot. The snapshot is immutable
// after construction; readers always see either the previous complete
// snapshot or the new one, never a partial state.
package store

import (
	"sync"

	"countyq/internal/models"
)

// Store guards the current snapshot behind a single pointer swap.
type Store struct {
	mu   sync.RWMutex
	snap *models.Snapshot
}

// New creates an empty store. Current returns nil until the first Swap.
func New() *Store {
	return &Store{}
}

// Swap replaces the current snapshot wholesale.
func (s *Store) Swap(snap *models.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Current returns the current snapshot, or nil before the first ingest.
// Callers must not mutate the returned snapshot.
func (s *Store) Current() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Loaded reports whether an ingest pass has completed at least once.
func (s *Store) Loaded() bool {
	return s.Current() != nil
}
