package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	Database     string // SQLite path
	Key          string // storage key
	NoSeed       bool   // start from an empty catalog instead of users/orders
	LegacyDelete bool   // OR-combine DELETE conditions
	Lenient      bool   // read unknown SELECT columns as NULL instead of failing
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// DefaultDatabase is the SQLite file used when --db is not given.
const DefaultDatabase = "relviz.db"

// NewRootCommand creates the root command for the relviz CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "relviz",
		Short: "relviz - relational query visualizer",
		Long: `An in-memory relational engine that executes CREATE, SELECT (with joins),
INSERT, UPDATE and DELETE queries, shows the SQL text for each query and
saves the catalog to SQLite after every mutation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.Database, "db", DefaultDatabase, "path to SQLite database")
	flags.StringVar(&opts.Key, "key", "", "storage key for catalog revisions")
	flags.BoolVar(&opts.NoSeed, "no-seed", false, "start from an empty catalog when nothing is saved")
	flags.BoolVar(&opts.LegacyDelete, "legacy-delete", false, "delete rows matching ANY condition")
	flags.BoolVar(&opts.Lenient, "lenient", false, "keep unknown SELECT columns as NULL instead of failing")

	// Add subcommands
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewInsertCommand(opts))
	cmd.AddCommand(NewSelectCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewExecCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTablesCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger returns a text logger on w. Debug level with --verbose,
// warnings only otherwise so command output stays readable.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
