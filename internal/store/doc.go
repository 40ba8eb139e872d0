// Package store persists relviz catalogs.
//
// Every successful mutation saves the whole catalog as a new revision. The
// store is append-only: Load returns the newest revision for the configured
// storage key, and older revisions stay available through Revisions.
//
// # Implementations
//
//   - Store: SQLite database file (github.com/mattn/go-sqlite3)
//   - Memory: process-local, for tests and scenario runs
//
// Both encode snapshots the same way and satisfy engine.Persister.
//
// # Snapshot Encoding
//
//   - Canonical JSON (sorted keys, NFC strings) via ir.MarshalCanonical
//   - Cells carry their variant tag so Date and Text survive a round trip
//   - Rows and columns are arrays, so their order is preserved exactly
//   - Content hash via ir.CatalogHash, verified on Load
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Revision ordering uses seq INTEGER, never timestamps
package store
