package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/relviz/internal/queryir"
	"github.com/roach88/relviz/internal/querysql"
)

// QueryValidation is the validation outcome of one query.
type QueryValidation struct {
	Index      int      `json:"index"`
	SQL        string   `json:"sql,omitempty"`
	Valid      bool     `json:"valid"`
	Error      string   `json:"error,omitempty"`
	IsPortable bool     `json:"is_portable"`
	Warnings   []string `json:"warnings,omitempty"`
}

// ValidationResult holds validation results for a document.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Queries []QueryValidation `json:"queries"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a query document without executing it",
		Long: `Check every query in a query document for structural problems and report
portability warnings: places where the displayed SQL and the executed
result can differ (LIKE substring matching, outer joins keeping only the
first match, comparisons against the literal "null").

Tables and columns are not checked against the catalog.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	queries, err := LoadQueries(path, cmd.InOrStdin())
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Validating %d quer%s from %s", len(queries), plural(len(queries), "y", "ies"), path)

	result := ValidateQueries(queries)
	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputValidationText(formatter, result)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

// ValidateQueries validates each query.
func ValidateQueries(queries []queryir.Query) ValidationResult {
	result := ValidationResult{Valid: true, Queries: make([]QueryValidation, 0, len(queries))}
	for i, q := range queries {
		v := queryir.Validate(q)
		qv := QueryValidation{
			Index:      i,
			Valid:      v.Err == nil,
			IsPortable: v.IsPortable,
			Warnings:   v.Warnings,
		}
		if v.Err != nil {
			qv.Error = v.Err.Error()
			result.Valid = false
		} else {
			qv.SQL = querysql.Render(q)
		}
		result.Queries = append(result.Queries, qv)
	}
	return result
}

func outputValidationText(formatter *OutputFormatter, result ValidationResult) {
	w := formatter.Writer
	for _, qv := range result.Queries {
		switch {
		case !qv.Valid:
			fmt.Fprintf(w, "✗ query %d: %s\n", qv.Index+1, qv.Error)
		case !qv.IsPortable:
			fmt.Fprintf(w, "! query %d: valid, not portable\n", qv.Index+1)
		default:
			fmt.Fprintf(w, "✓ query %d: valid\n", qv.Index+1)
		}
		for _, warn := range qv.Warnings {
			fmt.Fprintf(w, "    warning: %s\n", warn)
		}
	}

	fmt.Fprintln(w)
	if result.Valid {
		fmt.Fprintln(w, "✓ All queries valid")
	} else {
		fmt.Fprintln(w, "✗ Validation failed")
	}
}
