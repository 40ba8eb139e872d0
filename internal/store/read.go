package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/relviz/internal/catalog"
	"github.com/roach88/relviz/internal/ir"
)

// Load returns the newest saved catalog for the storage key, or the initial
// catalog (seed or empty) if nothing has been saved under it.
//
// The snapshot's content hash is verified before decoding.
func (s *Store) Load(ctx context.Context) (*catalog.Catalog, error) {
	var snapshot, hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT snapshot, hash
		FROM catalog_revisions
		WHERE storage_key = ?
		ORDER BY seq DESC
		LIMIT 1
	`, s.cfg.key).Scan(&snapshot, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return initialCatalog(s.cfg), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return decodeVerified([]byte(snapshot), hash)
}

// Revisions returns the saved revisions for the storage key, oldest first.
// Returns an empty slice (not nil) if none exist.
func (s *Store) Revisions(ctx context.Context) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, storage_key, hash, table_count, row_count
		FROM catalog_revisions
		WHERE storage_key = ?
		ORDER BY seq ASC
	`, s.cfg.key)
	if err != nil {
		return nil, fmt.Errorf("query revisions: %w", err)
	}
	defer rows.Close()

	revisions := []Revision{}
	for rows.Next() {
		var r Revision
		if err := rows.Scan(&r.Seq, &r.ID, &r.Key, &r.Hash, &r.Tables, &r.Rows); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revisions: %w", err)
	}
	return revisions, nil
}

// LoadRevision returns the catalog saved under revision id.
func (s *Store) LoadRevision(ctx context.Context, id string) (*catalog.Catalog, error) {
	var snapshot, hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT snapshot, hash
		FROM catalog_revisions
		WHERE id = ? AND storage_key = ?
	`, id, s.cfg.key).Scan(&snapshot, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("revision %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load revision %q: %w", id, err)
	}
	return decodeVerified([]byte(snapshot), hash)
}

// decodeVerified checks the snapshot against its recorded hash and decodes it.
func decodeVerified(snapshot []byte, hash string) (*catalog.Catalog, error) {
	if got := ir.CatalogHash(snapshot); got != hash {
		return nil, fmt.Errorf("snapshot hash mismatch: stored %s, computed %s", hash, got)
	}
	return DecodeCatalog(snapshot)
}
