// Package ir provides the relational value and schema model for relviz.
//
// All other internal packages import ir; ir imports nothing internal. This
// keeps ir the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Value is a sealed tagged variant: Null, Text, Number, Boolean, Date
//   - Text input is converted to values only through Coerce (no implicit coercion)
//   - Rows are ordered mappings; stored rows use bare column names,
//     SELECT rows use qualified "table.column" names
//   - Canonical JSON (sorted keys, NFC strings) backs hashes and snapshots
//   - Errors carry a stable ErrorCode for callers and the CLI
package ir
