package testutil

import (
	"fmt"
	"sync"
)

// CountingGenerator yields revision ids "<prefix>-0001", "<prefix>-0002", ...
//
// Unlike store.FixedGenerator it never runs out, and it can be reset so
// the same scenario produces identical revision ids on every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type CountingGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewCountingGenerator creates a generator starting at 0.
// If prefix is empty, "rev" is used.
func NewCountingGenerator(prefix string) *CountingGenerator {
	if prefix == "" {
		prefix = "rev"
	}
	return &CountingGenerator{prefix: prefix}
}

// Generate returns the next revision id.
//
// Implements store.RevisionGenerator.
func (g *CountingGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%04d", g.prefix, g.seq)
}

// Current returns how many ids have been generated.
func (g *CountingGenerator) Current() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence. The next Generate returns "<prefix>-0001".
func (g *CountingGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
