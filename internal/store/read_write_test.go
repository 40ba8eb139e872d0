package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relviz/internal/catalog"
	"github.com/roach88/relviz/internal/ir"
)

func TestLoad_EmptyStoreReturnsBootstrap(t *testing.T) {
	s := createTestStore(t)

	c, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "users"}, c.Names())
}

func TestLoad_WithoutBootstrap(t *testing.T) {
	s := createTestStore(t, WithoutBootstrap())

	c, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithGenerator(SequentialGenerator("rev", 2)))

	require.NoError(t, s.Save(ctx, mixedCatalog(t)))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"events"}, loaded.Names())

	events, _ := loaded.Table("events")
	require.Len(t, events.Rows, 2)
	assert.Equal(t, ir.Boolean(true), events.Rows[0].Get("public"))
}

func TestSave_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithGenerator(SequentialGenerator("rev", 2)))

	first := catalog.Bootstrap()
	require.NoError(t, s.Save(ctx, first))

	second := first.Clone()
	require.NoError(t, second.WithTable("users", func(tbl *ir.Table) error {
		tbl.Rows = tbl.Rows[:1]
		return nil
	}))
	require.NoError(t, s.Save(ctx, second))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	users, _ := loaded.Table("users")
	assert.Len(t, users.Rows, 1)
}

func TestRevisions(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithGenerator(NewFixedGenerator("rev-a", "rev-b")))

	revs, err := s.Revisions(ctx)
	require.NoError(t, err)
	assert.NotNil(t, revs)
	assert.Empty(t, revs)

	require.NoError(t, s.Save(ctx, catalog.Bootstrap()))
	require.NoError(t, s.Save(ctx, catalog.New()))

	revs, err = s.Revisions(ctx)
	require.NoError(t, err)
	require.Len(t, revs, 2)

	assert.Equal(t, "rev-a", revs[0].ID)
	assert.Equal(t, DefaultKey, revs[0].Key)
	assert.Equal(t, 2, revs[0].Tables)
	assert.Equal(t, 6, revs[0].Rows)
	assert.Len(t, revs[0].Hash, 64)

	assert.Equal(t, "rev-b", revs[1].ID)
	assert.Equal(t, 0, revs[1].Tables)
	assert.Less(t, revs[0].Seq, revs[1].Seq)
}

func TestLoadRevision(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithGenerator(NewFixedGenerator("rev-a", "rev-b")))

	require.NoError(t, s.Save(ctx, catalog.Bootstrap()))
	require.NoError(t, s.Save(ctx, catalog.New()))

	old, err := s.LoadRevision(ctx, "rev-a")
	require.NoError(t, err)
	assert.Equal(t, 2, old.Len())

	_, err = s.LoadRevision(ctx, "rev-z")
	assert.Error(t, err)
}

func TestKeys_AreIndependent(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/shared.db"

	a, err := Open(path, WithKey("a"), WithGenerator(SequentialGenerator("a", 1)))
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.Save(ctx, catalog.New()))

	b, err := Open(path, WithKey("b"))
	require.NoError(t, err)
	defer b.Close()

	loaded, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len(), "key b has no revisions yet and falls back to the seed")

	loaded, err = a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestLoad_DetectsTamperedSnapshot(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithGenerator(SequentialGenerator("rev", 1)))
	require.NoError(t, s.Save(ctx, catalog.Bootstrap()))

	_, err := s.db.Exec(`UPDATE catalog_revisions SET snapshot = '{"tables":[],"version":1}'`)
	require.NoError(t, err)

	_, err = s.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hash mismatch")
}

func TestSaveLoad_KeepsTextBytes(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	decomposed := "Rene\u0301"

	c := catalog.New()
	require.NoError(t, c.CreateTable("people", []ir.Column{{Name: "name", Type: ir.TypeText}, {Name: "born", Type: ir.TypeDate}}))
	require.NoError(t, c.WithTable("people", func(tbl *ir.Table) error {
		tbl.Rows = append(tbl.Rows, ir.Row{
			{Column: "name", Value: ir.Text(decomposed)},
			{Column: "born", Value: ir.Date("2024-01-02")},
		})
		return nil
	}))
	require.NoError(t, s.Save(ctx, c))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	tbl, ok := loaded.Table("people")
	require.True(t, ok)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, ir.Text(decomposed), tbl.Rows[0].Get("name"))
	assert.NotEqual(t, ir.Text("Ren\u00e9"), tbl.Rows[0].Get("name"))
}
