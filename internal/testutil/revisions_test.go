package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountingGenerator_Sequence(t *testing.T) {
	gen := NewCountingGenerator("snap")
	assert.Equal(t, int64(0), gen.Current())

	assert.Equal(t, "snap-0001", gen.Generate())
	assert.Equal(t, "snap-0002", gen.Generate())
	assert.Equal(t, int64(2), gen.Current())
}

func TestCountingGenerator_DefaultPrefix(t *testing.T) {
	gen := NewCountingGenerator("")
	assert.Equal(t, "rev-0001", gen.Generate())
}

func TestCountingGenerator_Reset(t *testing.T) {
	gen := NewCountingGenerator("")
	gen.Generate()
	gen.Generate()

	gen.Reset()
	assert.Equal(t, int64(0), gen.Current())
	assert.Equal(t, "rev-0001", gen.Generate())
}

func TestCountingGenerator_ThreadSafe(t *testing.T) {
	gen := NewCountingGenerator("")
	const workers = 50
	const calls = 40

	var wg sync.WaitGroup
	results := make([][]string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < calls; j++ {
				results[idx] = append(results[idx], gen.Generate())
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, ids := range results {
		for _, id := range ids {
			require.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, workers*calls)
	assert.Equal(t, int64(workers*calls), gen.Current())
}
