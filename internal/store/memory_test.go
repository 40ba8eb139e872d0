package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relviz/internal/catalog"
	"github.com/roach88/relviz/internal/ir"
)

func TestMemory_LoadInitial(t *testing.T) {
	ctx := context.Background()

	c, err := NewMemory().Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	c, err = NewMemory(WithoutBootstrap()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestMemory_SaveLoadIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(WithGenerator(SequentialGenerator("rev", 1)))

	c := catalog.Bootstrap()
	require.NoError(t, m.Save(ctx, c))

	// Mutating after save must not leak into the stored revision
	require.NoError(t, c.WithTable("users", func(tbl *ir.Table) error {
		tbl.Rows = nil
		return nil
	}))

	loaded, err := m.Load(ctx)
	require.NoError(t, err)
	users, _ := loaded.Table("users")
	assert.Len(t, users.Rows, 3)
}

func TestMemory_FailSave(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(WithGenerator(SequentialGenerator("rev", 1)))
	boom := errors.New("disk full")

	m.FailSave(boom)
	assert.ErrorIs(t, m.Save(ctx, catalog.New()), boom)

	revs, err := m.Revisions(ctx)
	require.NoError(t, err)
	assert.Empty(t, revs)

	m.FailSave(nil)
	require.NoError(t, m.Save(ctx, catalog.New()))

	revs, err = m.Revisions(ctx)
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.Equal(t, "rev-1", revs[0].ID)
	assert.Equal(t, int64(1), revs[0].Seq)
}
