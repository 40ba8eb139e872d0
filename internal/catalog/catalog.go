// Package catalog owns the set of named tables for one relviz session.
//
// A Catalog is the only place tables live. The engine reads it for SELECT and
// mutates it through WithTable for INSERT, UPDATE and DELETE. Table values are
// treated as immutable once published: WithTable edits a deep copy and swaps
// it in only on success, so a Clone taken before a mutation never observes it.
package catalog

import (
	"fmt"
	"sort"

	"github.com/roach88/relviz/internal/ir"
)

// Catalog maps table names to tables.
type Catalog struct {
	tables map[string]*ir.Table
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{tables: make(map[string]*ir.Table)}
}

// CreateTable adds an empty table with the given columns.
//
// Returns DUPLICATE_TABLE if the name is taken and INVALID_QUERY for an
// empty name, no columns, blank or repeated column names, or an unknown
// declared type.
func (c *Catalog) CreateTable(name string, columns []ir.Column) error {
	if name == "" {
		return ir.NewInvalidQueryError("table name is required")
	}
	if _, exists := c.tables[name]; exists {
		return ir.NewDuplicateTableError(name)
	}
	if len(columns) == 0 {
		return ir.NewInvalidQueryError("table %q needs at least one column", name)
	}

	seen := make(map[string]bool, len(columns))
	cols := make([]ir.Column, len(columns))
	for i, col := range columns {
		if col.Name == "" {
			return ir.NewInvalidQueryError("table %q: column %d has no name", name, i)
		}
		if seen[col.Name] {
			return ir.NewInvalidQueryError("table %q: duplicate column %q", name, col.Name)
		}
		seen[col.Name] = true

		typ, err := ir.ParseColumnType(string(col.Type))
		if err != nil {
			return ir.NewInvalidQueryError("table %q: column %q: %v", name, col.Name, err)
		}
		cols[i] = ir.Column{Name: col.Name, Type: typ}
	}

	c.tables[name] = &ir.Table{Name: name, Columns: cols}
	return nil
}

// Table returns the named table. The returned table must not be modified.
func (c *Catalog) Table(name string) (*ir.Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Lookup returns the named table or an UNKNOWN_TABLE error.
func (c *Catalog) Lookup(name string) (*ir.Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, ir.NewUnknownTableError(name)
	}
	return t, nil
}

// WithTable runs fn on a deep copy of the named table. The copy replaces the
// stored table only if fn returns nil; on error the catalog is unchanged.
func (c *Catalog) WithTable(name string, fn func(*ir.Table) error) error {
	t, err := c.Lookup(name)
	if err != nil {
		return err
	}
	working := t.Clone()
	if err := fn(working); err != nil {
		return err
	}
	c.tables[name] = working
	return nil
}

// Put stores t under its own name, replacing any existing table.
// Used by persisters when rebuilding a catalog from a snapshot.
func (c *Catalog) Put(t *ir.Table) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("catalog: cannot store unnamed table")
	}
	c.tables[t.Name] = t
	return nil
}

// Clone returns a snapshot of the catalog. Tables are shared until one side
// mutates through WithTable, which always installs a fresh copy.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{tables: make(map[string]*ir.Table, len(c.tables))}
	for name, t := range c.tables {
		out.tables[name] = t
	}
	return out
}

// Names returns the table names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tables returns the tables in name order.
func (c *Catalog) Tables() []*ir.Table {
	names := c.Names()
	out := make([]*ir.Table, len(names))
	for i, name := range names {
		out[i] = c.tables[name]
	}
	return out
}

// Len returns the number of tables.
func (c *Catalog) Len() int {
	return len(c.tables)
}
