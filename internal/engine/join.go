package engine

import (
	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/queryir"
)

// Join combines the rows accumulated so far with the rows of right.
//
// left holds qualified rows covering every table in leftScope. leftKey and
// rightKey are the qualified join columns; CROSS ignores them. Merged rows
// keep left columns first, then right columns in declared order.
//
//   - INNER: every matching (left, right) pair, left order then right order
//   - LEFT:  each left row once, with its first matching right row or Nulls
//   - RIGHT: each right row once, with its first matching left row or Nulls
//     for every table in leftScope
//   - FULL:  the LEFT result, then right rows no left row matched
//   - CROSS: Cartesian product
func Join(kind queryir.JoinKind, left []ir.Row, leftScope []*ir.Table, right *ir.Table, leftKey, rightKey string) []ir.Row {
	rightRows := qualifiedRows(right)

	matches := func(l, r ir.Row) bool {
		return ir.Equal(l.Get(leftKey), r.Get(rightKey))
	}

	switch kind {
	case queryir.JoinInner:
		var out []ir.Row
		for _, l := range left {
			for _, r := range rightRows {
				if matches(l, r) {
					out = append(out, l.Merge(r))
				}
			}
		}
		return out

	case queryir.JoinLeft:
		return leftJoin(left, rightRows, right, matches)

	case queryir.JoinRight:
		out := make([]ir.Row, 0, len(rightRows))
		for _, r := range rightRows {
			merged := false
			for _, l := range left {
				if matches(l, r) {
					out = append(out, l.Merge(r))
					merged = true
					break
				}
			}
			if !merged {
				out = append(out, nullScopeRow(leftScope).Merge(r))
			}
		}
		return out

	case queryir.JoinFull:
		out := leftJoin(left, rightRows, right, matches)
		for _, r := range rightRows {
			matched := false
			for _, l := range left {
				if matches(l, r) {
					matched = true
					break
				}
			}
			if !matched {
				out = append(out, nullScopeRow(leftScope).Merge(r))
			}
		}
		return out

	case queryir.JoinCross:
		out := make([]ir.Row, 0, len(left)*len(rightRows))
		for _, l := range left {
			for _, r := range rightRows {
				out = append(out, l.Merge(r))
			}
		}
		return out

	default:
		return nil
	}
}

func leftJoin(left, rightRows []ir.Row, right *ir.Table, matches func(l, r ir.Row) bool) []ir.Row {
	out := make([]ir.Row, 0, len(left))
	for _, l := range left {
		merged := false
		for _, r := range rightRows {
			if matches(l, r) {
				out = append(out, l.Merge(r))
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, l.Merge(right.NullRow()))
		}
	}
	return out
}

// qualifiedRows returns t's rows keyed by qualified column names.
func qualifiedRows(t *ir.Table) []ir.Row {
	out := make([]ir.Row, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = t.QualifyRow(r)
	}
	return out
}

// nullScopeRow returns a row with every column of every scope table set to Null.
func nullScopeRow(scope []*ir.Table) ir.Row {
	var out ir.Row
	for _, t := range scope {
		out = append(out, t.NullRow()...)
	}
	return out
}
