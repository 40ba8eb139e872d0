package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/relviz/internal/catalog"
	"github.com/roach88/relviz/internal/ir"
)

// Memory keeps catalog revisions in process memory.
//
// It encodes and decodes snapshots exactly like Store, so a catalog loaded
// from Memory never shares state with the one that was saved.
type Memory struct {
	mu        sync.Mutex
	cfg       config
	revisions []memoryRevision
	failSave  error
}

type memoryRevision struct {
	Revision
	snapshot []byte
}

// NewMemory returns an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	return &Memory{cfg: newConfig(opts)}
}

// FailSave makes every subsequent Save return err. FailSave(nil) restores
// normal saving.
func (m *Memory) FailSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSave = err
}

// Load returns the newest saved catalog or the initial catalog.
func (m *Memory) Load(ctx context.Context) (*catalog.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.revisions) == 0 {
		return initialCatalog(m.cfg), nil
	}
	latest := m.revisions[len(m.revisions)-1]
	return decodeVerified(latest.snapshot, latest.Hash)
}

// Save appends c as the newest revision.
func (m *Memory) Save(ctx context.Context, c *catalog.Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSave != nil {
		return m.failSave
	}

	snapshot, err := EncodeCatalog(c)
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	m.revisions = append(m.revisions, memoryRevision{
		Revision: Revision{
			Seq:    int64(len(m.revisions) + 1),
			ID:     m.cfg.gen.Generate(),
			Key:    m.cfg.key,
			Hash:   ir.CatalogHash(snapshot),
			Tables: c.Len(),
			Rows:   countRows(c),
		},
		snapshot: snapshot,
	})
	return nil
}

// Revisions returns the saved revisions, oldest first.
func (m *Memory) Revisions(ctx context.Context) ([]Revision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Revision, len(m.revisions))
	for i, r := range m.revisions {
		out[i] = r.Revision
	}
	return out, nil
}
