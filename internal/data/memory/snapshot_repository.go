// Package memory keeps snapshots in process memory. It backs tests and the
// memory persistence backend, where durability is not wanted.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/cooperative-society-ledger/internal/domain/snapshot"
)

// SnapshotRepository stores the latest document as encoded JSON, so a Load
// behaves like reading it back from a real store.
type SnapshotRepository struct {
	mu      sync.RWMutex
	data    []byte
	version uint64
	events  []shared.Event
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

func (r *SnapshotRepository) Load(_ context.Context) (*snapshot.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.data == nil {
		return nil, nil
	}
	return snapshot.Parse(r.data)
}

func (r *SnapshotRepository) Save(_ context.Context, doc *snapshot.Document, events []shared.Event) error {
	data, err := doc.Marshal()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.data != nil && doc.StateVersion <= r.version {
		return snapshot.ErrStaleSnapshot{StateVersion: doc.StateVersion}
	}

	r.data = data
	r.version = doc.StateVersion
	r.events = append(r.events, events...)
	return nil
}

// Events returns every event saved so far, oldest first
func (r *SnapshotRepository) Events() []shared.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.events)
}
