package telemetry

import (
	"sync"
	"time"
)

// Store holds the most recent snapshot shared between ingestion goroutines and
// the render loop. Readers always receive a copy. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	snap    Snapshot
	updated time.Time
	now     func() time.Time
}

// NewStore returns a store seeded with initial.
func NewStore(initial Snapshot) *Store {
	return &Store{snap: initial, now: time.Now}
}

// Snapshot returns a copy of the current values.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Update applies fn to the stored snapshot and records the arrival time. A
// non-nil error from fn discards the change.
func (s *Store) Update(fn func(*Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snap
	if err := fn(&next); err != nil {
		return err
	}
	s.snap = next
	s.updated = s.now()
	return nil
}

// SetLostConnection flips the connection-health flag without counting as a
// data arrival.
func (s *Store) SetLostConnection(lost bool) {
	s.mu.Lock()
	s.snap.LostConnection = lost
	s.mu.Unlock()
}

// LastUpdate reports when data last arrived. The zero time means never.
func (s *Store) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}
