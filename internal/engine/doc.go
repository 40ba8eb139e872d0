// Package engine executes relviz queries against a catalog.
//
// ARCHITECTURE:
//
// The engine owns one catalog for the session. Every Execute call runs to
// completion before the next one starts:
//
//  1. queryir.Check rejects malformed descriptions (INVALID_QUERY)
//  2. A plan resolves every table and column against the catalog, so
//     unknown names fail before any row is touched
//  3. SELECT streams rows through joins, filters and projection
//  4. Mutations run on a catalog snapshot, which is saved through the
//     Persister and only then installed as the live catalog
//
// SELECT PIPELINE:
//
//	base rows (qualified) → join₁ → … → joinₙ → WHERE (AND) → projection
//
// Row order is deterministic: base table order, then join expansion order.
// Filtering keeps order.
//
// MUTATION SAFETY:
//
// A failed save surfaces as PERSISTENCE_FAILURE and leaves the live catalog
// exactly as it was before the call, so the same query can be retried.
package engine
