package engine

import (
	"fmt"

	"github.com/roach88/relviz/internal/catalog"
	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/queryir"
)

// plannedJoin is a JoinSpec resolved against the catalog.
type plannedJoin struct {
	kind      queryir.JoinKind
	right     *ir.Table
	leftScope []*ir.Table
	leftKey   string
	rightKey  string
}

// selectPlan is a fully resolved SELECT. Building it performs every
// structural check, so executing it cannot fail.
type selectPlan struct {
	base       *ir.Table
	joins      []plannedJoin
	conditions []queryir.Condition
	columns    []string
	star       bool
}

// planSelect resolves tables, join columns, condition columns and
// projections in that order, returning the first structural error.
func (e *Engine) planSelect(c *catalog.Catalog, sel queryir.Select) (*selectPlan, error) {
	base, err := c.Lookup(sel.From)
	if err != nil {
		return nil, err
	}
	sc := newScope(base)
	plan := &selectPlan{base: base, star: sel.Star()}

	for _, j := range sel.Joins {
		right, err := c.Lookup(j.Table)
		if err != nil {
			return nil, err
		}
		if sc.lookup(j.Table) != nil {
			return nil, ir.NewInvalidJoinError(j.Table, fmt.Sprintf("table %q is already part of the query", j.Table))
		}

		pj := plannedJoin{kind: j.Kind, right: right, leftScope: sc.snapshot()}
		if j.Kind != queryir.JoinCross {
			leftKey, ok := sc.resolve(j.Left)
			if !ok {
				return nil, ir.NewInvalidJoinError(j.Table, fmt.Sprintf("left column %s is not available before joining %s", j.Left, j.Table))
			}
			if j.Right.Table != j.Table || !right.HasColumn(j.Right.Column) {
				return nil, ir.NewInvalidJoinError(j.Table, fmt.Sprintf("right column %s is not a column of %s", j.Right, j.Table))
			}
			pj.leftKey = leftKey
			pj.rightKey = ir.Qualify(j.Table, j.Right.Column)
		}
		plan.joins = append(plan.joins, pj)
		sc.add(right)
	}

	for _, cond := range sel.Where {
		if _, ok := sc.resolve(cond.Column); !ok {
			return nil, ir.NewUnknownColumnError(cond.Column.Table, cond.Column.Column)
		}
		plan.conditions = append(plan.conditions, cond)
	}

	if plan.star {
		plan.columns = sc.columns()
		return plan, nil
	}

	seen := make(map[string]bool, len(sel.Columns))
	for _, ref := range sel.Columns {
		key, ok := sc.resolve(ref)
		if !ok {
			if !e.lenientProjection {
				return nil, ir.NewUnknownColumnError(ref.Table, ref.Column)
			}
			key = ref.String()
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		plan.columns = append(plan.columns, key)
	}
	return plan, nil
}

// run executes the plan: base rows, joins in order, filter, project.
func (p *selectPlan) run() []ir.Row {
	rows := qualifiedRows(p.base)
	for _, j := range p.joins {
		rows = Join(j.kind, rows, j.leftScope, j.right, j.leftKey, j.rightKey)
	}

	filtered := make([]ir.Row, 0, len(rows))
	for _, r := range rows {
		if MatchesAll(r, p.conditions) {
			filtered = append(filtered, r)
		}
	}

	if p.star {
		return filtered
	}

	out := make([]ir.Row, len(filtered))
	for i, r := range filtered {
		projected := make(ir.Row, len(p.columns))
		for k, col := range p.columns {
			projected[k] = ir.Cell{Column: col, Value: r.Get(col)}
		}
		out[i] = projected
	}
	return out
}

func (e *Engine) executeSelect(c *catalog.Catalog, sel queryir.Select) (*Result, error) {
	plan, err := e.planSelect(c, sel)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("select planned",
		"from", sel.From,
		"joins", len(plan.joins),
		"conditions", len(plan.conditions),
		"columns", plan.columns,
	)

	rows := plan.run()
	return &Result{
		Kind:    queryir.KindSelect,
		Table:   sel.From,
		Columns: plan.columns,
		Rows:    rows,
	}, nil
}

// applyCreate adds the table to c.
func (e *Engine) applyCreate(c *catalog.Catalog, cr queryir.Create) (*Result, int, error) {
	if err := c.CreateTable(cr.Table, cr.Columns); err != nil {
		return nil, 0, err
	}
	t, _ := c.Table(cr.Table)
	return &Result{
		Kind:    queryir.KindCreate,
		Table:   cr.Table,
		Columns: t.ColumnNames(),
	}, 0, nil
}

// applyInsert appends one row to the target table in c.
//
// The row carries every declared column in order. A missing or empty id is
// generated as 1 + the largest numeric id; other missing columns are Null.
func (e *Engine) applyInsert(c *catalog.Catalog, ins queryir.Insert) (*Result, int, error) {
	var res *Result
	err := c.WithTable(ins.Table, func(t *ir.Table) error {
		supplied := make(map[string]string, len(ins.Values))
		for _, a := range ins.Values {
			if !t.HasColumn(a.Column) {
				return ir.NewUnknownColumnError(t.Name, a.Column)
			}
			supplied[a.Column] = a.Value
		}

		row := make(ir.Row, 0, len(t.Columns))
		for _, col := range t.Columns {
			raw, ok := supplied[col.Name]
			var v ir.Value
			switch {
			case col.Name == ir.IDColumn && raw == "":
				v = ir.Number(ir.NextID(t.Rows))
			case ok:
				v = ir.CoerceAs(raw, col.Type)
			default:
				v = ir.Null{}
			}
			row = append(row, ir.Cell{Column: col.Name, Value: v})
		}
		t.Rows = append(t.Rows, row)

		res = &Result{
			Kind:    queryir.KindInsert,
			Table:   t.Name,
			Columns: t.ColumnNames(),
			Rows:    []ir.Row{row.Clone()},
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return res, 1, nil
}

// applyUpdate rewrites the set columns of every matching row in c.
// Rows that do not match are left untouched.
func (e *Engine) applyUpdate(c *catalog.Catalog, upd queryir.Update) (*Result, int, error) {
	var res *Result
	updated := 0
	err := c.WithTable(upd.Table, func(t *ir.Table) error {
		for _, a := range upd.Set {
			if !t.HasColumn(a.Column) {
				return ir.NewUnknownColumnError(t.Name, a.Column)
			}
		}
		conds, err := bindConditions(t, upd.Where)
		if err != nil {
			return err
		}

		for i, r := range t.Rows {
			if !MatchesAll(t.QualifyRow(r), conds) {
				continue
			}
			for _, a := range upd.Set {
				col, _ := t.Column(a.Column)
				r = r.Set(a.Column, ir.CoerceAs(a.Value, col.Type))
			}
			t.Rows[i] = r
			updated++
		}

		res = &Result{
			Kind:    queryir.KindUpdate,
			Table:   t.Name,
			Columns: t.ColumnNames(),
			Rows:    cloneRows(t.Rows),
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return res, updated, nil
}

// applyDelete removes every row for which the conjunction of conditions is
// true. With legacy delete enabled a row is removed when any single
// condition holds, and an empty condition list removes nothing.
func (e *Engine) applyDelete(c *catalog.Catalog, del queryir.Delete) (*Result, int, error) {
	var res *Result
	removed := 0
	err := c.WithTable(del.Table, func(t *ir.Table) error {
		conds, err := bindConditions(t, del.Where)
		if err != nil {
			return err
		}

		kept := make([]ir.Row, 0, len(t.Rows))
		for _, r := range t.Rows {
			q := t.QualifyRow(r)
			var remove bool
			if e.legacyDelete {
				remove = MatchesAny(q, conds)
			} else {
				remove = MatchesAll(q, conds)
			}
			if remove {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		t.Rows = kept

		res = &Result{
			Kind:    queryir.KindDelete,
			Table:   t.Name,
			Columns: t.ColumnNames(),
			Rows:    cloneRows(kept),
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return res, removed, nil
}

func cloneRows(rows []ir.Row) []ir.Row {
	out := make([]ir.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
