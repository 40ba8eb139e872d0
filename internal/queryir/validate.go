package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/relviz/internal/ir"
)

// ValidationResult contains the structural and portability analysis of a query.
//
// Portability compares relviz semantics with what a SQL database would do
// with the rendered text. Non-portable queries still execute; warnings tell
// the user where the displayed SQL and the executed result can diverge.
type ValidationResult struct {
	// Err is the first structural problem found, an INVALID_QUERY error.
	// Nil means the query is well formed.
	Err error

	// IsPortable indicates the rendered SQL means the same thing elsewhere.
	IsPortable bool

	// Warnings lists non-portable features used in the query.
	Warnings []string
}

// Check reports the first structural problem in q as an INVALID_QUERY error.
// It does not consult a catalog: unknown tables and columns are detected at
// execution time.
func Check(q Query) error {
	v := &validator{}
	v.validateQuery(q)
	return v.err
}

// Validate checks q structurally and collects portability warnings.
//
// Validate is a pure function with no side effects.
func Validate(q Query) ValidationResult {
	v := &validator{warnings: []string{}}
	v.validateQuery(q)
	return ValidationResult{
		Err:        v.err,
		IsPortable: len(v.warnings) == 0,
		Warnings:   v.warnings,
	}
}

// validator accumulates the first error and all warnings during traversal.
type validator struct {
	err      error
	warnings []string
}

func (v *validator) fail(format string, args ...any) {
	if v.err == nil {
		v.err = ir.NewInvalidQueryError(format, args...)
	}
}

func (v *validator) addWarning(format string, args ...any) {
	if v.warnings != nil {
		v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
	}
}

func (v *validator) validateQuery(q Query) {
	switch query := Normalize(q).(type) {
	case nil:
		v.fail("nil query")
	case Create:
		v.validateCreate(query)
	case Select:
		v.validateSelect(query)
	case Insert:
		v.requireTable(query.Table)
		v.validateAssignments("INSERT", query.Values)
	case Update:
		v.requireTable(query.Table)
		if len(query.Set) == 0 {
			v.fail("UPDATE %s has no SET columns", query.Table)
		}
		v.validateAssignments("UPDATE", query.Set)
		v.validateConditions(query.Where, false)
	case Delete:
		v.requireTable(query.Table)
		v.validateConditions(query.Where, false)
	default:
		v.fail("unknown query type %T", q)
	}
}

func (v *validator) requireTable(name string) {
	if strings.TrimSpace(name) == "" {
		v.fail("table name is required")
	}
}

func (v *validator) validateCreate(c Create) {
	v.requireTable(c.Table)
	if len(c.Columns) == 0 {
		v.fail("CREATE TABLE %s has no columns", c.Table)
	}
	seen := make(map[string]bool, len(c.Columns))
	for _, col := range c.Columns {
		if col.Name == "" {
			v.fail("CREATE TABLE %s has a column without a name", c.Table)
			continue
		}
		if seen[col.Name] {
			v.fail("CREATE TABLE %s declares %q twice", c.Table, col.Name)
		}
		seen[col.Name] = true
		if _, err := ir.ParseColumnType(string(col.Type)); err != nil {
			v.fail("column %q: %v", col.Name, err)
		}
	}
}

func (v *validator) validateSelect(sel Select) {
	v.requireTable(sel.From)

	for _, ref := range sel.Columns {
		v.requireRef("projection", ref, true)
	}

	for i, j := range sel.Joins {
		v.validateJoin(i, j)
	}

	v.validateConditions(sel.Where, true)
}

func (v *validator) validateJoin(i int, j JoinSpec) {
	if j.Table == "" {
		v.fail("join %d has no table", i)
	}
	switch {
	case j.Kind == JoinInner:
	case j.Kind.Outer():
		v.addWarning("%s JOIN %s keeps only the first matching row per unmatched side; a SQL database returns every match", j.Kind, j.Table)
	case j.Kind == JoinCross:
		return
	default:
		v.fail("join %d has unknown kind %q", i, j.Kind)
		return
	}
	v.requireRef(fmt.Sprintf("join %d left side", i), j.Left, true)
	v.requireRef(fmt.Sprintf("join %d right side", i), j.Right, true)
}

func (v *validator) requireRef(what string, ref ColumnRef, qualified bool) {
	if ref.Column == "" {
		v.fail("%s has no column", what)
		return
	}
	if qualified && ref.Table == "" {
		v.fail("%s %q must be qualified as table.column", what, ref.Column)
	}
}

func (v *validator) validateConditions(conds []Condition, qualified bool) {
	for _, c := range conds {
		v.requireRef("condition", c.Column, qualified)
		switch c.Op {
		case OpEq:
			if strings.EqualFold(c.Value, "null") {
				v.addWarning("%s compared to the text 'null'; NULL values never match =", c.Column)
			}
		case OpNe:
			v.addWarning("!= on %s keeps rows where it is NULL; a SQL database needs IS NOT for the same rows", c.Column)
		case OpGt, OpLt, OpGe, OpLe:
		case OpLike:
			if strings.ContainsAny(c.Value, "%_") {
				v.addWarning("LIKE on %s matches %q literally as a substring; wildcards are not interpreted", c.Column, c.Value)
			} else {
				v.addWarning("LIKE on %s executes as a substring match; a SQL database needs '%%%s%%' for the same rows", c.Column, c.Value)
			}
		default:
			v.fail("condition on %s has unknown operator %q", c.Column, c.Op)
		}
	}
}

func (v *validator) validateAssignments(verb string, as []Assignment) {
	seen := make(map[string]bool, len(as))
	for _, a := range as {
		if a.Column == "" {
			v.fail("%s assigns a value without a column", verb)
			continue
		}
		if seen[a.Column] {
			v.fail("%s assigns %q twice", verb, a.Column)
		}
		seen[a.Column] = true
	}
}
