package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/relviz/internal/engine"
	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/queryir"
	"github.com/roach88/relviz/internal/querysql"
	"github.com/roach88/relviz/internal/store"
	"github.com/roach88/relviz/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios against a fresh in-memory persister with
// deterministic revision ids.
type Harness struct {
	store  *store.Memory
	engine *engine.Engine
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory persister for isolation.
//
// Execution flow:
// 1. Seed the catalog (bootstrap or empty)
// 2. Execute steps in order, checking each expect clause
// 3. Evaluate assertions against the final catalog
// 4. Return result with pass/fail, trace, and errors
//
// The returned error reports harness failures only; failed expectations
// are recorded in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, testutil.DiscardLogger())
}

// RunWithLogger is Run with an explicit engine logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	ctx := context.Background()

	storeOpts := []store.Option{store.WithGenerator(testutil.NewCountingGenerator(""))}
	if scenario.Seed == SeedEmpty {
		storeOpts = append(storeOpts, store.WithoutBootstrap())
	}
	mem := store.NewMemory(storeOpts...)

	engOpts := []engine.Option{engine.WithLogger(logger)}
	if scenario.LegacyDelete {
		engOpts = append(engOpts, engine.WithLegacyDelete())
	}
	if scenario.Lenient {
		engOpts = append(engOpts, engine.WithLenientProjection())
	}
	eng, err := engine.Open(ctx, mem, engOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}

	h := &Harness{store: mem, engine: eng, logger: logger}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	actx := &AssertionContext{Engine: eng, Ctx: ctx}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	result.Tables = eng.Catalog().Names()
	return result, nil
}

// executeStep runs one step, records it in the trace and checks its
// expect clause.
func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) error {
	ev := TraceEvent{Step: index + 1, Table: step.Table}

	q, err := step.ToQuery()
	if err == nil {
		ev.Kind = string(queryir.KindOf(q))
		ev.SQL = querysql.Render(q)

		var res *engine.Result
		res, err = h.engine.Execute(ctx, q)
		if err == nil {
			ev.Columns = res.Columns
			ev.Rows = res.Rows
			ev.Affected = res.Affected
		}
	}
	if err != nil {
		code := ir.CodeOf(err)
		if code == "" {
			return err
		}
		ev.Error = string(code)
	}

	if ev.Error == "" && ev.Kind != string(queryir.KindSelect) {
		revs, revErr := h.store.Revisions(ctx)
		if revErr != nil {
			return revErr
		}
		if len(revs) > 0 {
			ev.Revision = revs[len(revs)-1].ID
		}
	}

	result.AddTrace(ev)
	h.logger.Debug("step executed", "step", ev.Step, "kind", ev.Kind, "table", ev.Table, "error", ev.Error)

	for _, msg := range checkExpect(ev, step.Expect) {
		result.AddError(fmt.Sprintf("step %d (%s %s): %s", ev.Step, step.Op, step.Table, msg))
	}
	return nil
}

// checkExpect compares a traced step with its expect clause.
// A nil clause requires success.
func checkExpect(ev TraceEvent, expect *ExpectClause) []string {
	if expect == nil {
		if ev.Error != "" {
			return []string{fmt.Sprintf("unexpected error %s", ev.Error)}
		}
		return nil
	}

	if expect.Error != "" {
		if ev.Error != expect.Error {
			return []string{fmt.Sprintf("expected error %s, got %q", expect.Error, ev.Error)}
		}
		return nil
	}
	if ev.Error != "" {
		return []string{fmt.Sprintf("unexpected error %s", ev.Error)}
	}

	var errs []string
	if expect.SQL != "" && expect.SQL != ev.SQL {
		errs = append(errs, fmt.Sprintf("sql mismatch:\n  expected: %q\n  actual:   %q", expect.SQL, ev.SQL))
	}
	if expect.Rows != nil && *expect.Rows != len(ev.Rows) {
		errs = append(errs, fmt.Sprintf("expected %d rows, got %d", *expect.Rows, len(ev.Rows)))
	}
	if expect.Affected != nil && *expect.Affected != ev.Affected {
		errs = append(errs, fmt.Sprintf("expected %d affected rows, got %d", *expect.Affected, ev.Affected))
	}
	if expect.Columns != nil && !equalStrings(expect.Columns, ev.Columns) {
		errs = append(errs, fmt.Sprintf("expected columns %v, got %v", expect.Columns, ev.Columns))
	}
	if expect.Result != nil {
		if len(expect.Result) != len(ev.Rows) {
			errs = append(errs, fmt.Sprintf("expected %d result rows, got %d", len(expect.Result), len(ev.Rows)))
		} else {
			for i, want := range expect.Result {
				if msg := matchRow(ev.Rows[i], want); msg != "" {
					errs = append(errs, fmt.Sprintf("row %d: %s", i, msg))
				}
			}
		}
	}
	return errs
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
