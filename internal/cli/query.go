package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/queryir"
)

// QueryFlags holds the flags that describe a query on the command line.
// They are collected into a queryir.Document so command-line and file
// queries share one conversion path.
type QueryFlags struct {
	Columns []string // --column name:TYPE (create) or --columns t.c,... (select)
	Values  []string // --value col=text / --set col=text
	Joins   []string // --join KIND,table,left,right
	Where   []string // --where column,op,literal
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &QueryFlags{}
	cmd := &cobra.Command{
		Use:   "create <table>",
		Short: "Create a table",
		Long: `Create a table with the given columns.

Types are TEXT, NUMBER, BOOLEAN or DATE (default TEXT).

Example:
  relviz create products --column id:NUMBER --column title:TEXT`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlagQuery(rootOpts, cmd, "create", args[0], flags)
		},
	}
	cmd.Flags().StringArrayVar(&flags.Columns, "column", nil, "column as name[:TYPE] (repeatable)")
	return cmd
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &QueryFlags{}
	cmd := &cobra.Command{
		Use:   "insert <table>",
		Short: "Insert a row",
		Long: `Insert one row. Values are raw text: numeric text is stored as a number,
empty text as NULL. A missing id is generated.

Example:
  relviz insert users --value name="Ada Lovelace" --value age=36`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlagQuery(rootOpts, cmd, "insert", args[0], flags)
		},
	}
	cmd.Flags().StringArrayVar(&flags.Values, "value", nil, "value as column=text (repeatable)")
	return cmd
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &QueryFlags{}
	cmd := &cobra.Command{
		Use:   "select <table>",
		Short: "Select rows, optionally joining other tables",
		Long: `Select rows from a table. Bare column names refer to <table>.

Examples:
  relviz select users
  relviz select users --columns users.name,orders.product \
    --join LEFT,orders,users.id,orders.user_id --where users.age,>,30`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlagQuery(rootOpts, cmd, "select", args[0], flags)
		},
	}
	cmd.Flags().StringSliceVar(&flags.Columns, "columns", nil, "projected columns (default *)")
	cmd.Flags().StringArrayVar(&flags.Joins, "join", nil, "join as KIND,table,left.col,right.col (repeatable)")
	cmd.Flags().StringArrayVar(&flags.Where, "where", nil, "condition as column,op,literal (repeatable)")
	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &QueryFlags{}
	cmd := &cobra.Command{
		Use:   "update <table>",
		Short: "Update rows matching every condition",
		Long: `Update the rows matching every --where condition (all rows without one).

Example:
  relviz update users --set age=33 --where id,=,2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlagQuery(rootOpts, cmd, "update", args[0], flags)
		},
	}
	cmd.Flags().StringArrayVar(&flags.Values, "set", nil, "assignment as column=text (repeatable)")
	cmd.Flags().StringArrayVar(&flags.Where, "where", nil, "condition as column,op,literal (repeatable)")
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &QueryFlags{}
	cmd := &cobra.Command{
		Use:   "delete <table>",
		Short: "Delete rows matching every condition",
		Long: `Delete the rows matching every --where condition (all rows without one).
With --legacy-delete a row is deleted when ANY condition matches.

Example:
  relviz delete orders --where product,=,Mouse`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlagQuery(rootOpts, cmd, "delete", args[0], flags)
		},
	}
	cmd.Flags().StringArrayVar(&flags.Where, "where", nil, "condition as column,op,literal (repeatable)")
	return cmd
}

func runFlagQuery(opts *RootOptions, cmd *cobra.Command, op, table string, flags *QueryFlags) error {
	formatter := newFormatter(opts, cmd)

	doc, err := flags.Document(op, table)
	if err != nil {
		_ = formatter.Error(ErrCodeBadFlag, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}
	q, err := doc.ToQuery()
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid query", err)
	}
	return executeQueries(opts, cmd, formatter, []queryir.Query{q})
}

// Document builds the query document described by the flags.
func (f *QueryFlags) Document(op, table string) (queryir.Document, error) {
	doc := queryir.Document{Op: op, Table: table}

	switch op {
	case "create":
		for _, spec := range f.Columns {
			col, err := parseColumnSpec(spec)
			if err != nil {
				return doc, err
			}
			doc.Schema = append(doc.Schema, col)
		}
	case "select":
		doc.Columns = f.Columns
	}

	for _, spec := range f.Values {
		a, err := parseAssignment(spec)
		if err != nil {
			return doc, err
		}
		if op == "update" {
			doc.Set = append(doc.Set, a)
		} else {
			doc.Values = append(doc.Values, a)
		}
	}

	for _, spec := range f.Joins {
		j, err := parseJoin(spec)
		if err != nil {
			return doc, err
		}
		doc.Joins = append(doc.Joins, j)
	}

	for _, spec := range f.Where {
		c, err := parseCondition(spec)
		if err != nil {
			return doc, err
		}
		doc.Where = append(doc.Where, c)
	}

	return doc, nil
}

// parseColumnSpec parses "name" or "name:TYPE".
func parseColumnSpec(spec string) (ir.Column, error) {
	name, typ, found := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return ir.Column{}, fmt.Errorf("column %q: name is empty", spec)
	}
	if !found {
		return ir.Column{Name: name, Type: ir.TypeText}, nil
	}
	t, err := ir.ParseColumnType(typ)
	if err != nil {
		return ir.Column{}, fmt.Errorf("column %q: %w", spec, err)
	}
	return ir.Column{Name: name, Type: t}, nil
}

// parseAssignment parses "column=text". Text may be empty or contain "=".
func parseAssignment(spec string) (queryir.Assignment, error) {
	col, val, found := strings.Cut(spec, "=")
	col = strings.TrimSpace(col)
	if !found || col == "" {
		return queryir.Assignment{}, fmt.Errorf("value %q: expected column=text", spec)
	}
	return queryir.Set(col, val), nil
}

// parseJoin parses "KIND,table,left,right" or "CROSS,table".
func parseJoin(spec string) (queryir.JoinDoc, error) {
	parts := strings.Split(spec, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch {
	case len(parts) == 2:
		return queryir.JoinDoc{Kind: parts[0], Table: parts[1]}, nil
	case len(parts) == 4:
		return queryir.JoinDoc{Kind: parts[0], Table: parts[1], Left: parts[2], Right: parts[3]}, nil
	default:
		return queryir.JoinDoc{}, fmt.Errorf("join %q: expected KIND,table,left,right", spec)
	}
}

// parseCondition parses "column,op,literal". The literal keeps any
// further commas.
func parseCondition(spec string) (queryir.ConditionDoc, error) {
	parts := strings.SplitN(spec, ",", 3)
	if len(parts) != 3 {
		return queryir.ConditionDoc{}, fmt.Errorf("condition %q: expected column,op,literal", spec)
	}
	return queryir.ConditionDoc{
		Column: strings.TrimSpace(parts[0]),
		Op:     strings.TrimSpace(parts[1]),
		Value:  queryir.Literal(parts[2]),
	}, nil
}
