package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/relviz/internal/engine"
	"github.com/roach88/relviz/internal/store"
)

// session is an open store plus the engine running on it.
type session struct {
	store  *store.Store
	engine *engine.Engine
	logger *slog.Logger
}

// openSession opens the SQLite store named by --db and loads the engine.
func openSession(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*session, error) {
	logger := newLogger(opts, cmd.ErrOrStderr())

	st, err := store.Open(opts.Database, storeOptions(opts)...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	logger.Debug("database ready", "path", opts.Database, "key", st.Key())

	engOpts := []engine.Option{engine.WithLogger(logger)}
	if opts.LegacyDelete {
		engOpts = append(engOpts, engine.WithLegacyDelete())
	}
	if opts.Lenient {
		engOpts = append(engOpts, engine.WithLenientProjection())
	}

	eng, err := engine.Open(ctx, st, engOpts...)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load catalog", err)
	}

	return &session{store: st, engine: eng, logger: logger}, nil
}

func storeOptions(opts *RootOptions) []store.Option {
	var out []store.Option
	if opts.Key != "" {
		out = append(out, store.WithKey(opts.Key))
	}
	if opts.NoSeed {
		out = append(out, store.WithoutBootstrap())
	}
	return out
}

// Close closes the store, logging any error.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
