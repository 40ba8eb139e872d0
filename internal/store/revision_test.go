package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}

	a := gen.Generate()
	b := gen.Generate()
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("x", "y")
	assert.Equal(t, "x", gen.Generate())
	assert.Equal(t, "y", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestSequentialGenerator(t *testing.T) {
	gen := SequentialGenerator("rev", 3)
	assert.Equal(t, "rev-1", gen.Generate())
	assert.Equal(t, "rev-2", gen.Generate())
	assert.Equal(t, "rev-3", gen.Generate())
}
