package engine

import (
	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/queryir"
)

// scope is the ordered set of tables a SELECT has brought in so far.
// Column refs resolve only against tables in scope.
type scope struct {
	tables []*ir.Table
}

func newScope(base *ir.Table) *scope {
	return &scope{tables: []*ir.Table{base}}
}

func (s *scope) add(t *ir.Table) {
	s.tables = append(s.tables, t)
}

func (s *scope) lookup(name string) *ir.Table {
	for _, t := range s.tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// snapshot returns the tables in scope; later adds do not affect it.
func (s *scope) snapshot() []*ir.Table {
	return append([]*ir.Table(nil), s.tables...)
}

// resolve returns the qualified key for ref if its table is in scope and
// declares the column.
func (s *scope) resolve(ref queryir.ColumnRef) (string, bool) {
	t := s.lookup(ref.Table)
	if t == nil || !t.HasColumn(ref.Column) {
		return "", false
	}
	return ir.Qualify(t.Name, ref.Column), true
}

// columns returns every qualified column of every table in scope, in order.
func (s *scope) columns() []string {
	var out []string
	for _, t := range s.tables {
		out = append(out, t.QualifiedColumns()...)
	}
	return out
}

// bindConditions resolves mutation conditions against the target table.
// Refs without a table default to t; refs to any other table are unknown.
func bindConditions(t *ir.Table, conds []queryir.Condition) ([]queryir.Condition, error) {
	out := make([]queryir.Condition, len(conds))
	for i, c := range conds {
		ref := c.Column
		if ref.Table == "" {
			ref.Table = t.Name
		}
		if ref.Table != t.Name || !t.HasColumn(ref.Column) {
			return nil, ir.NewUnknownColumnError(ref.Table, ref.Column)
		}
		c.Column = ref
		out[i] = c
	}
	return out, nil
}
