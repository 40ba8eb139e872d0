package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/relviz/internal/catalog"
	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/queryir"
)

// Persister loads and saves the catalog around mutating calls.
// Implemented by store.Store (SQLite) and store.Memory (tests).
type Persister interface {
	// Load returns the last saved catalog, or the persister's initial
	// catalog when nothing has been saved.
	Load(ctx context.Context) (*catalog.Catalog, error)

	// Save records c as the current catalog.
	Save(ctx context.Context, c *catalog.Catalog) error
}

// Result is the outcome of one Execute call.
//
// SELECT rows are keyed by qualified "table.column" names listed in Columns.
// Mutation rows use bare column names:
//   - CREATE: no rows
//   - INSERT: the inserted row
//   - UPDATE: every row of the table after the update
//   - DELETE: the rows that remain
type Result struct {
	Kind    queryir.Kind
	Table   string
	Columns []string
	Rows    []ir.Row

	// Affected counts inserted, updated or deleted rows.
	Affected int
}

// Empty reports whether the result has no rows. Columns are not considered.
func (r *Result) Empty() bool {
	return len(r.Rows) == 0
}

// Hash returns the content hash of the columns and rows.
func (r *Result) Hash() (string, error) {
	return ir.ResultHash(r.Columns, r.Rows)
}

// Engine executes queries against a single owned catalog.
//
// Execute calls are serialized; each runs to completion before the next
// starts. Mutations become visible only after the persister accepts them.
type Engine struct {
	mu        sync.Mutex
	catalog   *catalog.Catalog
	persister Persister
	logger    *slog.Logger

	lenientProjection bool
	legacyDelete      bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithLenientProjection makes an unresolvable SELECT column produce a Null
// column instead of an UNKNOWN_COLUMN error.
func WithLenientProjection() Option {
	return func(e *Engine) {
		e.lenientProjection = true
	}
}

// WithLegacyDelete removes a row when any DELETE condition holds instead of
// when all of them hold.
func WithLegacyDelete() Option {
	return func(e *Engine) {
		e.legacyDelete = true
	}
}

// Open loads the catalog from p and returns an engine that owns it.
// A nil persister keeps the catalog in memory only, starting empty.
func Open(ctx context.Context, p Persister, opts ...Option) (*Engine, error) {
	e := &Engine{
		persister: p,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if p == nil {
		e.catalog = catalog.New()
		return e, nil
	}

	c, err := p.Load(ctx)
	if err != nil {
		e.logger.Error("catalog load failed", "error", err)
		return nil, ir.NewPersistenceError("load", err)
	}
	if c == nil {
		c = catalog.New()
	}
	e.catalog = c

	e.logger.Debug("catalog loaded", "tables", c.Names())
	return e, nil
}

// Catalog returns a snapshot of the current catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Clone()
}

// Execute runs q and returns its result.
//
// Structural problems are returned as *ir.Error values and never reported
// as empty results. A mutation whose save fails returns PERSISTENCE_FAILURE
// and leaves the catalog unchanged.
func (e *Engine) Execute(ctx context.Context, q queryir.Query) (*Result, error) {
	q = queryir.Normalize(q)
	if err := queryir.Check(q); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch query := q.(type) {
	case queryir.Select:
		return e.executeSelect(e.catalog, query)
	case queryir.Create:
		return e.mutate(ctx, query, func(c *catalog.Catalog) (*Result, int, error) {
			return e.applyCreate(c, query)
		})
	case queryir.Insert:
		return e.mutate(ctx, query, func(c *catalog.Catalog) (*Result, int, error) {
			return e.applyInsert(c, query)
		})
	case queryir.Update:
		return e.mutate(ctx, query, func(c *catalog.Catalog) (*Result, int, error) {
			return e.applyUpdate(c, query)
		})
	case queryir.Delete:
		return e.mutate(ctx, query, func(c *catalog.Catalog) (*Result, int, error) {
			return e.applyDelete(c, query)
		})
	default:
		return nil, ir.NewInvalidQueryError("unsupported query type %T", q)
	}
}

// mutate applies fn to a snapshot of the catalog, saves the snapshot and
// installs it. Nothing is installed unless both steps succeed.
func (e *Engine) mutate(ctx context.Context, q queryir.Query, fn func(*catalog.Catalog) (*Result, int, error)) (*Result, error) {
	kind := queryir.KindOf(q)
	working := e.catalog.Clone()

	res, affected, err := fn(working)
	if err != nil {
		e.logger.Debug("mutation rejected", "kind", kind, "table", q.Target(), "error", err)
		return nil, err
	}
	res.Affected = affected

	if e.persister != nil {
		if err := e.persister.Save(ctx, working); err != nil {
			e.logger.Error("catalog save failed",
				"kind", kind,
				"table", q.Target(),
				"error", err,
			)
			return nil, ir.NewPersistenceError(fmt.Sprintf("save after %s", kind), err)
		}
	}
	e.catalog = working

	e.logger.Info("mutation committed",
		"kind", kind,
		"table", q.Target(),
		"affected", affected,
	)
	return res, nil
}
