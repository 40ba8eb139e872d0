package engine

import (
	"strings"

	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/queryir"
)

// Matches evaluates one condition against a row.
//
// The condition's column is looked up by its qualified name; a missing
// column reads as Null. Evaluation never fails: comparisons that have no
// meaning for the value's variant are false.
//
//   - = uses ir.Equal against the literal, so Null never matches; != is
//     its negation and holds for Null
//   - > < >= <= order Number against numeric literals and Date against
//     ISO-8601 literals
//   - LIKE is a case-sensitive substring test on Text and Date
func Matches(row ir.Row, cond queryir.Condition) bool {
	v := row.Get(cond.Column.String())
	lit := cond.Value

	switch cond.Op {
	case queryir.OpEq:
		return ir.Equal(v, ir.Text(lit))
	case queryir.OpNe:
		return !ir.Equal(v, ir.Text(lit))
	case queryir.OpGt:
		cmp, ok := ir.Compare(v, lit)
		return ok && cmp > 0
	case queryir.OpLt:
		cmp, ok := ir.Compare(v, lit)
		return ok && cmp < 0
	case queryir.OpGe:
		cmp, ok := ir.Compare(v, lit)
		return ok && cmp >= 0
	case queryir.OpLe:
		cmp, ok := ir.Compare(v, lit)
		return ok && cmp <= 0
	case queryir.OpLike:
		switch val := v.(type) {
		case ir.Text:
			return strings.Contains(string(val), lit)
		case ir.Date:
			return strings.Contains(string(val), lit)
		default:
			return false
		}
	default:
		return false
	}
}

// MatchesAll reports whether every condition holds. An empty list is true.
func MatchesAll(row ir.Row, conds []queryir.Condition) bool {
	for _, c := range conds {
		if !Matches(row, c) {
			return false
		}
	}
	return true
}

// MatchesAny reports whether at least one condition holds. An empty list is false.
func MatchesAny(row ir.Row, conds []queryir.Condition) bool {
	for _, c := range conds {
		if Matches(row, c) {
			return true
		}
	}
	return false
}
