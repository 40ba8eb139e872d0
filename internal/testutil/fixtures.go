package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/relviz/internal/engine"
	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/store"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewEngine opens an engine over an in-memory store seeded with the
// users/orders bootstrap catalog. Revision ids come from a CountingGenerator.
func NewEngine(t testing.TB, opts ...engine.Option) (*engine.Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory(store.WithGenerator(NewCountingGenerator("")))
	opts = append([]engine.Option{engine.WithLogger(DiscardLogger())}, opts...)
	eng, err := engine.Open(context.Background(), mem, opts...)
	require.NoError(t, err)
	return eng, mem
}

// NewEmptyEngine is NewEngine without the bootstrap tables.
func NewEmptyEngine(t testing.TB, opts ...engine.Option) (*engine.Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory(store.WithoutBootstrap(), store.WithGenerator(NewCountingGenerator("")))
	opts = append([]engine.Option{engine.WithLogger(DiscardLogger())}, opts...)
	eng, err := engine.Open(context.Background(), mem, opts...)
	require.NoError(t, err)
	return eng, mem
}

// RowText flattens a row into column -> display text. Null reads as "NULL".
func RowText(r ir.Row) map[string]string {
	out := make(map[string]string, len(r))
	for _, c := range r {
		out[c.Column] = r.Get(c.Column).String()
	}
	return out
}

// Column returns the display text of one column across rows.
func Column(rows []ir.Row, key string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Get(key).String()
	}
	return out
}
