// Package harness runs YAML query scenarios against a fresh catalog and
// checks the results.
//
// # Scenario Format
//
//	name: left_join_keeps_users
//	description: "LEFT JOIN keeps users without orders"
//	seed: bootstrap            # or "empty"
//	steps:
//	  - op: select
//	    table: users
//	    columns: [users.name, orders.product]
//	    joins:
//	      - {kind: left, table: orders, left: users.id, right: orders.user_id}
//	    expect:
//	      rows: 3
//	      result:
//	        - {users.name: John Doe, orders.product: Laptop}
//	  - op: select
//	    table: missing
//	    expect:
//	      error: UNKNOWN_TABLE
//	assertions:
//	  - type: row_count
//	    table: orders
//	    where: [{column: amount, op: ">", value: 50}]
//	    count: 2
//	  - type: table_contains
//	    table: users
//	    row: {name: Jane Smith, age: 32}
//
// Steps are query documents (see queryir.Document) with an optional
// expect clause. A step without one must succeed.
//
// # Assertion Types
//
//   - row_count: the table has exactly count rows matching where
//   - table_contains: some row of the table matches row (subset match)
//   - tables: the catalog holds exactly the listed tables
//
// # Deterministic Testing
//
// Every scenario runs against a fresh store.Memory whose revision ids come
// from testutil.CountingGenerator, so traces are byte-identical across runs
// and can be compared with golden files.
package harness
