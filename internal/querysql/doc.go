// Package querysql turns queries into SQL text.
//
// Two forms are produced from the same queryir.Query the engine executes:
//
//   - Render: literal, multi-line display text. Numeric-looking literals are
//     unquoted; everything else is single-quoted with quotes doubled.
//   - Compile: single-line parameterized SQL for SQLite, with every literal
//     passed as a parameter (never interpolated).
//
// Both are pure functions of the query. Neither consults a catalog, so the
// text can be shown even for a query the engine rejects.
package querysql
