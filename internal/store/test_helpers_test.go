package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/relviz/internal/catalog"
	"github.com/roach88/relviz/internal/ir"
)

// createTestStore opens a store in a temporary directory.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mixedCatalog returns a catalog exercising every value variant.
func mixedCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	err := c.CreateTable("events", []ir.Column{
		{Name: "id", Type: ir.TypeNumber},
		{Name: "title", Type: ir.TypeText},
		{Name: "on", Type: ir.TypeDate},
		{Name: "public", Type: ir.TypeBoolean},
		{Name: "note", Type: ir.TypeText},
	})
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	err = c.WithTable("events", func(tbl *ir.Table) error {
		tbl.Rows = append(tbl.Rows,
			ir.Row{
				{Column: "id", Value: ir.Number(1)},
				{Column: "title", Value: ir.Text("Launch <beta> & co")},
				{Column: "on", Value: ir.Date("2024-03-01")},
				{Column: "public", Value: ir.Boolean(true)},
				{Column: "note", Value: ir.Null{}},
			},
			ir.Row{
				{Column: "title", Value: ir.Text("2024-03-02")},
				{Column: "id", Value: ir.Number(2.5)},
				{Column: "on", Value: ir.Null{}},
				{Column: "public", Value: ir.Boolean(false)},
				{Column: "note", Value: ir.Text("")},
			},
		)
		return nil
	})
	if err != nil {
		t.Fatalf("WithTable: %v", err)
	}
	return c
}
