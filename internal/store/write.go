package store

import (
	"context"
	"fmt"

	"github.com/roach88/relviz/internal/catalog"
	"github.com/roach88/relviz/internal/ir"
)

// Save appends c as the newest revision under the storage key.
// The last save wins; earlier revisions are kept for Revisions.
func (s *Store) Save(ctx context.Context, c *catalog.Catalog) error {
	snapshot, err := EncodeCatalog(c)
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO catalog_revisions
		(id, storage_key, hash, table_count, row_count, snapshot)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		s.cfg.gen.Generate(),
		s.cfg.key,
		ir.CatalogHash(snapshot),
		c.Len(),
		countRows(c),
		string(snapshot),
	)
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	return nil
}
