package harness

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/relviz/internal/engine"
	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/queryir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Executed steps for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nSteps:\n")
		for _, ev := range e.Trace {
			status := "ok"
			if ev.Error != "" {
				status = ev.Error
			}
			fmt.Fprintf(&buf, "  [%d] %s %s (%s)\n", ev.Step, ev.Kind, ev.Table, status)
		}
	}

	return buf.String()
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Engine *engine.Engine
	Ctx    context.Context
}

// EvaluateAssertions evaluates all assertions against the final catalog.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertRowCount:
			err = assertRowCount(actx, a)
		case AssertTableContains:
			err = assertTableContains(actx, a)
		case AssertTables:
			err = assertTables(actx, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err == nil {
			continue
		}
		if ae, ok := err.(*AssertionError); ok {
			ae.Trace = result.Trace
		}
		errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
	}
	return errs
}

// selectTable reads every row of a table through the engine, filtered by
// where. Bare condition columns refer to the table.
func selectTable(actx *AssertionContext, table string, where []queryir.ConditionDoc) (*engine.Result, error) {
	sel := queryir.Select{From: table}
	for _, cd := range where {
		ref, err := queryir.ParseColumnRef(cd.Column)
		if err != nil {
			return nil, err
		}
		if ref.Table == "" {
			ref.Table = table
		}
		op, err := queryir.ParseOperator(cd.Op)
		if err != nil {
			return nil, err
		}
		sel.Where = append(sel.Where, queryir.Where(ref, op, string(cd.Value)))
	}
	return actx.Engine.Execute(actx.Ctx, sel)
}

// assertRowCount checks the number of rows matching the filter.
func assertRowCount(actx *AssertionContext, a Assertion) error {
	res, err := selectTable(actx, a.Table, a.Where)
	if err != nil {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("query table %s", a.Table),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}
	if len(res.Rows) != a.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d rows in %s%s", a.Count, a.Table, formatWhere(a.Where)),
			Actual:   fmt.Sprintf("%d rows", len(res.Rows)),
		}
	}
	return nil
}

// assertTableContains checks that at least one row matches the expected
// cells (subset semantics). Bare column names refer to the table.
func assertTableContains(actx *AssertionContext, a Assertion) error {
	res, err := selectTable(actx, a.Table, nil)
	if err != nil {
		return &AssertionError{
			Type:     AssertTableContains,
			Expected: fmt.Sprintf("query table %s", a.Table),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}

	want := make(map[string]queryir.Literal, len(a.Row))
	for k, v := range a.Row {
		if !strings.Contains(k, ".") {
			k = ir.Qualify(a.Table, k)
		}
		want[k] = v
	}

	for _, r := range res.Rows {
		if matchRow(r, want) == "" {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTableContains,
		Expected: fmt.Sprintf("row in %s matching %s", a.Table, formatRow(want)),
		Actual:   fmt.Sprintf("no match among %d rows", len(res.Rows)),
	}
}

// assertTables checks the catalog's table names, ignoring order.
func assertTables(actx *AssertionContext, a Assertion) error {
	got := actx.Engine.Catalog().Names()
	want := append([]string(nil), a.Names...)
	sort.Strings(want)
	if !equalStrings(want, got) {
		return &AssertionError{
			Type:     AssertTables,
			Expected: fmt.Sprintf("tables %v", want),
			Actual:   fmt.Sprintf("tables %v", got),
		}
	}
	return nil
}

// matchRow checks expected cells against a row (subset match).
// Returns "" on match, otherwise a description of the first mismatch.
func matchRow(row ir.Row, want map[string]queryir.Literal) string {
	for _, key := range ir.SortedKeys(want) {
		if !row.Has(key) {
			return fmt.Sprintf("column %q not present in %v", key, row.Keys())
		}
		if !cellMatches(row.Get(key), string(want[key])) {
			return fmt.Sprintf("column %q: expected %q, got %s", key, string(want[key]), row.Get(key))
		}
	}
	return ""
}

// cellMatches compares a stored value with expected text. Empty text
// expects Null; numbers compare numerically.
func cellMatches(v ir.Value, want string) bool {
	if ir.IsNull(v) {
		return want == ""
	}
	return ir.Equal(v, ir.Text(want))
}

// formatWhere creates a human-readable description of filter conditions.
func formatWhere(where []queryir.ConditionDoc) string {
	if len(where) == 0 {
		return ""
	}
	parts := make([]string, len(where))
	for i, cd := range where {
		parts[i] = fmt.Sprintf("%s %s %q", cd.Column, cd.Op, string(cd.Value))
	}
	return " where " + strings.Join(parts, " AND ")
}

func formatRow(row map[string]queryir.Literal) string {
	parts := make([]string, 0, len(row))
	for _, k := range ir.SortedKeys(row) {
		parts = append(parts, fmt.Sprintf("%s=%q", k, string(row[k])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
