package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/bike-sharing-dashboard/internal/rental"
)

var (
	// ErrNotFound is returned when no dataset has been loaded yet.
	ErrNotFound = errors.New("no dataset loaded")
)

// MemoryStore is a concurrency-safe in-memory holder of loaded tables.
// The newest snapshot is the current one; older ones stay listed by
// GET /api/v1/dataset until retention drops them.
type MemoryStore struct {
	mu sync.RWMutex

	history []rental.Snapshot

	// retention configuration
	maxHistory int // max number of snapshots kept
}

// NewMemoryStore creates a new MemoryStore.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
	}
}

// SaveTable makes t the current table and enforces retention.
func (s *MemoryStore) SaveTable(t *rental.Table) {
	if t == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, rental.Snapshot{Table: t, StoredAt: time.Now().UTC()})

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		over := len(s.history) - s.maxHistory
		s.history = append([]rental.Snapshot(nil), s.history[over:]...)
	}
}

// Current returns the most recently saved table.
func (s *MemoryStore) Current() (*rental.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.history) == 0 {
		return nil, ErrNotFound
	}
	return s.history[len(s.history)-1].Table, nil
}

// History returns the retained snapshots, oldest first.
func (s *MemoryStore) History() []rental.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]rental.Snapshot, len(s.history))
	copy(out, s.history)
	return out
}
