package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/roach88/relviz/internal/engine"
	"github.com/roach88/relviz/internal/ir"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Query or validation failure (unknown table, failed scenario, etc.)
	ExitCommandError = 2 // Command error (invalid paths, database errors, etc.)
)

// Error codes for failures that are not engine errors.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeLoadFailed  = "E004" // Query document could not be decoded
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE evaluation failed
	ErrCodeBadFlag     = "E008" // Malformed command-line value
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// exitCodeFor maps an engine error to an exit code: persistence failures
// are command errors, every other engine error is a query failure.
func exitCodeFor(err error) int {
	if ir.IsPersistenceFailure(err) {
		return ExitCommandError
	}
	return ExitFailure
}

// errorCode returns the engine error code of err, or ErrCodeGeneric.
func errorCode(err error) string {
	if code := ir.CodeOf(err); code != "" {
		return string(code)
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return ErrCodeGeneric
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // UNKNOWN_TABLE, E001, etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// ResultView is the JSON form of one executed query.
type ResultView struct {
	Kind     string   `json:"kind"`
	Table    string   `json:"table"`
	SQL      string   `json:"sql"`
	Columns  []string `json:"columns"`
	Rows     []ir.Row `json:"rows"`
	Affected int      `json:"affected"`
	Warnings []string `json:"warnings,omitempty"`
}

func newResultView(sql string, res *engine.Result, warnings []string) ResultView {
	rows := res.Rows
	if rows == nil {
		rows = []ir.Row{}
	}
	cols := res.Columns
	if cols == nil {
		cols = []string{}
	}
	return ResultView{
		Kind:     string(res.Kind),
		Table:    res.Table,
		SQL:      sql,
		Columns:  cols,
		Rows:     rows,
		Affected: res.Affected,
		Warnings: warnings,
	}
}

// WriteResult prints the SQL text, a result table and a summary line.
func WriteResult(w io.Writer, v ResultView) error {
	fmt.Fprintln(w, v.SQL)
	for _, warn := range v.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	fmt.Fprintln(w)

	if len(v.Columns) > 0 && len(v.Rows) > 0 {
		if err := WriteTable(w, v.Columns, v.Rows); err != nil {
			return err
		}
	}

	switch v.Kind {
	case "SELECT":
		fmt.Fprintf(w, "(%d %s)\n", len(v.Rows), plural(len(v.Rows), "row", "rows"))
	case "CREATE":
		fmt.Fprintf(w, "table %s created\n", v.Table)
	default:
		fmt.Fprintf(w, "%d %s affected\n", v.Affected, plural(v.Affected, "row", "rows"))
	}
	return nil
}

// WriteTable prints rows as aligned columns. Null cells print as NULL.
func WriteTable(w io.Writer, columns []string, rows []ir.Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))

	rule := make([]string, len(columns))
	for i, c := range columns {
		rule[i] = strings.Repeat("-", len(c))
	}
	fmt.Fprintln(tw, strings.Join(rule, "\t"))

	for _, r := range rows {
		cells := make([]string, len(columns))
		for i, c := range columns {
			cells[i] = r.Get(c).String()
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
