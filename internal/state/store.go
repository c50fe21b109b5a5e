package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/panegrid/internal/layout"
)

// Snapshot represents the latest arrangement available to the UI.
type Snapshot struct {
	Layout              layout.Layout
	Env                 string
	View                string
	Filter              string
	Views               []string // saved view names, sorted
	Cols                int
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int    // Number of consecutive poll failures
	LastSeq             uint64 // highest event sequence applied
}

// IsOffline returns true when the backend has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Frame is what the layout loop publishes after applying a batch.
type Frame struct {
	Layout layout.Layout
	Env    string
	View   string
	Filter string
	Views  []string
	Cols   int
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Publish replaces the arrangement. Poll health is left untouched.
func (s *Store) Publish(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Layout = f.Layout.Clone()
	s.snapshot.Env = f.Env
	s.snapshot.View = f.View
	s.snapshot.Filter = f.Filter
	s.snapshot.Views = cloneNames(f.Views)
	s.snapshot.Cols = f.Cols
	s.snapshot.LastUpdated = time.Now()
}

// RecordError notes a failed poll. The previous arrangement is kept.
func (s *Store) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

// RecordSuccess clears the failure state after a successful poll.
func (s *Store) RecordSuccess(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq > s.snapshot.LastSeq {
		s.snapshot.LastSeq = seq
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Layout = s.snapshot.Layout.Clone()
	snap.Views = cloneNames(s.snapshot.Views)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	dup := slices.Clone(names)
	slices.Sort(dup)
	return dup
}
