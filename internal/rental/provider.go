package rental

import (
	"context"
	"time"
)

// Source abstracts where the usage dataset comes from (local CSV file, remote URL).
type Source interface {
	Name() string
	Load(ctx context.Context) (*Table, error)
}

// Snapshot is one loaded version of the dataset.
type Snapshot struct {
	Table    *Table
	StoredAt time.Time
}

// Store is the contract the in-memory table store must satisfy.
type Store interface {
	SaveTable(t *Table)
	Current() (*Table, error)
	// History returns the retained snapshots, oldest first. The last one is current.
	History() []Snapshot
}
