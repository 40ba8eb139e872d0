package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// RevisionGenerator generates unique revision ids.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type RevisionGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 revision ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined revision ids for testing.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
//
//	gen := NewFixedGenerator("rev-1", "rev-2")
//	gen.Generate() // "rev-1"
//	gen.Generate() // "rev-2"
//	gen.Generate() // panic: all ids exhausted
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// SequentialGenerator returns a FixedGenerator yielding prefix-1 … prefix-n.
func SequentialGenerator(prefix string, n int) *FixedGenerator {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s-%d", prefix, i+1)
	}
	return NewFixedGenerator(ids...)
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed, so a test that saves more often
// than expected fails loudly.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic(fmt.Sprintf("FixedGenerator: all %d ids exhausted", len(g.ids)))
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// Revision describes one saved catalog.
type Revision struct {
	Seq    int64  `json:"seq"`
	ID     string `json:"id"`
	Key    string `json:"key"`
	Hash   string `json:"hash"`
	Tables int    `json:"tables"`
	Rows   int    `json:"rows"`
}
