package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/relviz/internal/catalog"
	"github.com/roach88/relviz/internal/ir"
)

// TableInfo describes one table for the tables command.
type TableInfo struct {
	Name    string      `json:"name"`
	Columns []ir.Column `json:"columns"`
	Rows    int         `json:"rows"`
}

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	var showRows bool

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables in the catalog",
		Long: `List every table with its columns and row count.

Example:
  relviz tables
  relviz tables --rows`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			sess, err := openSession(commandContext(cmd), rootOpts, cmd)
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return err
			}
			defer sess.Close()
			return outputCatalog(formatter, sess.engine.Catalog(), showRows)
		},
	}

	cmd.Flags().BoolVar(&showRows, "rows", false, "print every row")

	return cmd
}

func outputCatalog(formatter *OutputFormatter, c *catalog.Catalog, showRows bool) error {
	tables := c.Tables()

	if formatter.Format == "json" {
		infos := make([]TableInfo, len(tables))
		for i, t := range tables {
			infos[i] = TableInfo{Name: t.Name, Columns: t.Columns, Rows: len(t.Rows)}
		}
		return formatter.Success(infos)
	}

	w := formatter.Writer
	if len(tables) == 0 {
		fmt.Fprintln(w, "No tables.")
		return nil
	}

	if !showRows {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TABLE\tCOLUMNS\tROWS")
		for _, t := range tables {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", t.Name, formatColumns(t.Columns), len(t.Rows))
		}
		return tw.Flush()
	}

	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n", t.Name, formatColumns(t.Columns))
		if len(t.Rows) > 0 {
			if err := WriteTable(w, t.ColumnNames(), t.Rows); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "(%d %s)\n", len(t.Rows), plural(len(t.Rows), "row", "rows"))
	}
	return nil
}

func formatColumns(cols []ir.Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.Name + " " + string(c.Type)
	}
	return strings.Join(parts, ", ")
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var revision string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved catalog revisions",
		Long: `List the catalog revisions saved under the storage key, oldest first.
Every successful mutation saves one revision.

With --revision the tables of that revision are printed instead.

Example:
  relviz history
  relviz history --revision 01939c5e-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			ctx := commandContext(cmd)
			sess, err := openSession(ctx, rootOpts, cmd)
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return err
			}
			defer sess.Close()

			if revision != "" {
				c, err := sess.store.LoadRevision(ctx, revision)
				if err != nil {
					_ = formatter.Error(errorCode(err), err.Error(), nil)
					return WrapExitError(ExitCommandError, "failed to load revision", err)
				}
				return outputCatalog(formatter, c, true)
			}

			revs, err := sess.store.Revisions(ctx)
			if err != nil {
				_ = formatter.Error(errorCode(err), err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to list revisions", err)
			}

			if formatter.Format == "json" {
				return formatter.Success(revs)
			}
			if len(revs) == 0 {
				fmt.Fprintln(formatter.Writer, "No revisions saved.")
				return nil
			}
			tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SEQ\tID\tTABLES\tROWS\tHASH")
			for _, r := range revs {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", r.Seq, r.ID, r.Tables, r.Rows, shortHash(r.Hash))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&revision, "revision", "", "print the tables of one revision")

	return cmd
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
