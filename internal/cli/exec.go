package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/relviz/internal/queryir"
	"github.com/roach88/relviz/internal/querysql"
)

// ExecOptions holds flags for the exec command.
type ExecOptions struct {
	*RootOptions
	KeepGoing bool
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExecOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "exec <file>",
		Short: "Execute a query document",
		Long: `Execute the queries in a JSON, YAML or CUE query document, in order.

A document holds one query (op, table, ...) or a "queries" list. Execution
stops at the first failing query unless --keep-going is set. Use "-" to read
YAML or JSON from stdin.

Example:
  relviz exec ./queries/report.yaml
  relviz exec ./queries/seed.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			queries, err := LoadQueries(args[0], cmd.InOrStdin())
			if err != nil {
				return outputLoadError(formatter, err)
			}
			formatter.VerboseLog("Loaded %d quer%s from %s", len(queries), plural(len(queries), "y", "ies"), args[0])
			if opts.KeepGoing {
				return executeEach(opts.RootOptions, cmd, formatter, queries)
			}
			return executeQueries(opts.RootOptions, cmd, formatter, queries)
		},
	}

	cmd.Flags().BoolVar(&opts.KeepGoing, "keep-going", false, "continue after a failing query")

	return cmd
}

// executeQueries opens a session and runs queries in order, stopping at
// the first failure. JSON output is one response holding every result.
func executeQueries(opts *RootOptions, cmd *cobra.Command, formatter *OutputFormatter, queries []queryir.Query) error {
	ctx := commandContext(cmd)
	sess, err := openSession(ctx, opts, cmd)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return err
	}
	defer sess.Close()

	views := make([]ResultView, 0, len(queries))
	for i, q := range queries {
		sql := querysql.Render(q)
		res, err := sess.engine.Execute(ctx, q)
		if err != nil {
			if formatter.Format != "json" {
				fmt.Fprintln(formatter.Writer, sql)
			}
			_ = formatter.Error(errorCode(err), err.Error(), map[string]any{"query": i, "sql": sql})
			return WrapExitError(exitCodeFor(err), fmt.Sprintf("query %d failed", i+1), err)
		}

		view := newResultView(sql, res, queryir.Validate(q).Warnings)
		if formatter.Format == "json" {
			views = append(views, view)
			continue
		}
		if i > 0 {
			fmt.Fprintln(formatter.Writer)
		}
		if err := WriteResult(formatter.Writer, view); err != nil {
			return err
		}
	}

	if formatter.Format == "json" {
		if len(views) == 1 {
			return formatter.Success(views[0])
		}
		return formatter.Success(views)
	}
	return nil
}

// ExecItem is the JSON form of one query run with --keep-going.
type ExecItem struct {
	Result *ResultView `json:"result,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

// executeEach runs every query, reporting failures and continuing.
// Returns ExitFailure when any query failed.
func executeEach(opts *RootOptions, cmd *cobra.Command, formatter *OutputFormatter, queries []queryir.Query) error {
	ctx := commandContext(cmd)
	sess, err := openSession(ctx, opts, cmd)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return err
	}
	defer sess.Close()

	items := make([]ExecItem, 0, len(queries))
	failed := 0
	for i, q := range queries {
		sql := querysql.Render(q)
		res, err := sess.engine.Execute(ctx, q)
		if err != nil {
			failed++
			items = append(items, ExecItem{Error: &CLIError{Code: errorCode(err), Message: err.Error()}})
			if formatter.Format != "json" {
				if i > 0 {
					fmt.Fprintln(formatter.Writer)
				}
				fmt.Fprintln(formatter.Writer, sql)
				_ = formatter.Error(errorCode(err), err.Error(), nil)
			}
			continue
		}

		view := newResultView(sql, res, queryir.Validate(q).Warnings)
		items = append(items, ExecItem{Result: &view})
		if formatter.Format != "json" {
			if i > 0 {
				fmt.Fprintln(formatter.Writer)
			}
			if err := WriteResult(formatter.Writer, view); err != nil {
				return err
			}
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(items); err != nil {
			return err
		}
	}
	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d queries failed", failed, len(queries)))
	}
	return nil
}

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Parameterized bool
}

// RenderedQuery is the JSON form of one rendered query.
type RenderedQuery struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Print the SQL for a query document without executing it",
		Long: `Print the SQL text for each query in a query document. Nothing is executed
and the database is not opened.

With --parameterized the output is SQLite SQL with quoted identifiers and
? placeholders, followed by the parameter values.

Example:
  relviz render ./queries/report.yaml
  relviz render ./queries/report.yaml --parameterized --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Parameterized, "parameterized", false, "print parameterized SQLite SQL")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	queries, err := LoadQueries(path, cmd.InOrStdin())
	if err != nil {
		return outputLoadError(formatter, err)
	}

	rendered := make([]RenderedQuery, 0, len(queries))
	for i, q := range queries {
		if err := queryir.Check(q); err != nil {
			_ = formatter.Error(errorCode(err), err.Error(), map[string]any{"query": i})
			return WrapExitError(ExitFailure, fmt.Sprintf("query %d is invalid", i+1), err)
		}
		if !opts.Parameterized {
			rendered = append(rendered, RenderedQuery{SQL: querysql.Render(q)})
			continue
		}
		sql, params, err := querysql.Compile(q)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), map[string]any{"query": i})
			return WrapExitError(ExitFailure, fmt.Sprintf("query %d cannot be compiled", i+1), err)
		}
		rendered = append(rendered, RenderedQuery{SQL: sql, Params: params})
	}

	if formatter.Format == "json" {
		return formatter.Success(rendered)
	}

	w := formatter.Writer
	for i, r := range rendered {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, r.SQL)
		if r.Params != nil {
			params, err := json.Marshal(r.Params)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "-- params: %s\n", params)
		}
	}
	return nil
}

// outputLoadError reports a query document that could not be loaded.
// Missing or unreadable files are command errors; malformed documents are
// query failures.
func outputLoadError(formatter *OutputFormatter, err error) error {
	code := errorCode(err)
	_ = formatter.Error(code, err.Error(), nil)
	if code == ErrCodeNotFound {
		return WrapExitError(ExitCommandError, "failed to load query document", err)
	}
	return WrapExitError(ExitFailure, "failed to load query document", err)
}
