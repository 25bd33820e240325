package store

import (
	"sync"

	"netpulse/internal/domain"
)

// Store keeps the single latest ProbeResult per target. One slot per target,
// overwritten in place, never deleted; concurrent workers race to Set and the
// later write wins. Reads and writes are guarded so no partial result is ever
// visible.
type Store struct {
	mu      sync.RWMutex
	targets []domain.Target
	results map[domain.TargetID]domain.ProbeResult
}

// New builds a store over the registry's target list. The list fixes the row
// order returned by Snapshot.
func New(targets []domain.Target) *Store {
	return &Store{
		targets: targets,
		results: make(map[domain.TargetID]domain.ProbeResult, len(targets)),
	}
}

// Set overwrites the latest result for a target.
func (s *Store) Set(id domain.TargetID, r domain.ProbeResult) {
	s.mu.Lock()
	s.results[id] = r
	s.mu.Unlock()
}

// Get returns the latest result and whether one has been recorded yet.
func (s *Store) Get(id domain.TargetID) (domain.ProbeResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[id]
	return r, ok
}

// Snapshot returns every target that has a result, in registry order, plus
// aggregate counts.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.Snapshot{Rows: make([]domain.Row, 0, len(s.targets))}
	for _, t := range s.targets {
		r, ok := s.results[t.ID()]
		if !ok {
			continue
		}
		snap.Rows = append(snap.Rows, domain.Row{Target: t, Result: r})
		switch r.Status {
		case domain.StatusChecking:
			snap.Summary.Checking++
		case domain.StatusUp:
			snap.Summary.Up++
		case domain.StatusUpOpaque:
			snap.Summary.UpOpaque++
		case domain.StatusSlow:
			snap.Summary.Slow++
		case domain.StatusDown:
			snap.Summary.Down++
		}
	}
	return snap
}
