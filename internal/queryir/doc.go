// Package queryir describes relviz queries as immutable values.
//
// A Query is what the engine executes and what the SQL synthesizer renders.
// Both consumers receive the same value, so the text shown to the user always
// names the same tables, columns and literals that were executed.
//
//	[query document] → [Query] → [engine.Execute] → Result
//	                           → [querysql.Render] → SQL text
//
// SEALED INTERFACES:
//
// Query is a sealed interface using the marker method pattern. Only Create,
// Select, Insert, Update and Delete implement it, so consumers can switch
// exhaustively:
//
//	switch q := queryir.Normalize(query).(type) {
//	case queryir.Select:
//	    // Handle select
//	case queryir.Insert:
//	    // Handle insert
//	default:
//	    // Impossible outside this package
//	}
//
// LITERALS:
//
// Condition literals and inserted or assigned values are kept as raw text.
// The engine turns them into values with ir.Coerce; the synthesizer decides
// quoting from the same text. No value is ever coerced twice.
//
// DOCUMENTS:
//
// Document is the serialized form read from JSON, YAML and CUE files. It is
// deliberately flat (op + table + clauses) and is converted to a Query by
// Document.ToQuery, which reports malformed input as INVALID_QUERY.
package queryir
