package querysql

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relviz/internal/catalog"
	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/queryir"
	"github.com/roach88/relviz/internal/testutil"
)

func TestCompile_Select(t *testing.T) {
	q := queryir.Select{
		From:    "users",
		Columns: []queryir.ColumnRef{queryir.Col("users", "name"), queryir.Col("orders", "product")},
		Joins:   []queryir.JoinSpec{{Kind: queryir.JoinInner, Table: "orders", Left: queryir.Col("users", "id"), Right: queryir.Col("orders", "user_id")}},
		Where: []queryir.Condition{
			queryir.Where(queryir.Col("users", "age"), queryir.OpGe, "30"),
			queryir.Where(queryir.Col("users", "name"), queryir.OpLike, "an"),
		},
	}

	stmt, params, err := Compile(q)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "users"."name", "orders"."product" FROM "users" INNER JOIN "orders" ON "users"."id" = "orders"."user_id"`+
			` WHERE "users"."age" >= ? AND instr("users"."name", ?) > 0`,
		stmt)
	assert.Equal(t, []any{float64(30), "an"}, params)
}

func TestCompile_Mutations(t *testing.T) {
	tests := []struct {
		name       string
		query      queryir.Query
		wantSQL    string
		wantParams []any
	}{
		{
			name:       "create",
			query:      queryir.Create{Table: "t", Columns: []ir.Column{{Name: "id", Type: ir.TypeNumber}, {Name: "note", Type: ir.TypeText}}},
			wantSQL:    `CREATE TABLE "t" ("id" NUMBER, "note" TEXT)`,
			wantParams: nil,
		},
		{
			name:       "insert coerces values",
			query:      queryir.Insert{Table: "t", Values: []queryir.Assignment{queryir.Set("id", "7"), queryir.Set("note", ""), queryir.Set("tag", "x")}},
			wantSQL:    `INSERT INTO "t" ("id", "note", "tag") VALUES (?, ?, ?)`,
			wantParams: []any{float64(7), nil, "x"},
		},
		{
			name: "update",
			query: queryir.Update{
				Table: "t",
				Set:   []queryir.Assignment{queryir.Set("note", "hi")},
				Where: []queryir.Condition{queryir.Where(queryir.ColumnRef{Column: "id"}, queryir.OpEq, "7")},
			},
			wantSQL:    `UPDATE "t" SET "note" = ? WHERE "id" = ?`,
			wantParams: []any{"hi", float64(7)},
		},
		{
			name:       "delete",
			query:      queryir.Delete{Table: `we"ird`},
			wantSQL:    `DELETE FROM "we""ird"`,
			wantParams: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, params, err := Compile(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, stmt)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	_, _, err := Compile(nil)
	assert.Error(t, err)

	_, _, err = Compile(queryir.Create{Table: "t"})
	assert.Error(t, err)

	_, _, err = Compile(queryir.Update{Table: "t"})
	assert.Error(t, err)
}

// loadSQLite creates every catalog table in an in-memory SQLite database
// using compiled CREATE and INSERT statements.
func loadSQLite(t *testing.T, c *catalog.Catalog) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, tbl := range c.Tables() {
		stmt, _, err := Compile(queryir.Create{Table: tbl.Name, Columns: tbl.Columns})
		require.NoError(t, err)
		_, err = db.Exec(stmt)
		require.NoError(t, err)

		for _, r := range tbl.Rows {
			ins := queryir.Insert{Table: tbl.Name}
			for _, cell := range r {
				text := ""
				if !ir.IsNull(cell.Value) {
					text = cell.Value.String()
				}
				ins.Values = append(ins.Values, queryir.Set(cell.Column, text))
			}
			stmt, params, err := Compile(ins)
			require.NoError(t, err)
			_, err = db.Exec(stmt, params...)
			require.NoError(t, err)
		}
	}
	return db
}

func TestCompile_MatchesEngineOnSQLite(t *testing.T) {
	ctx := context.Background()
	eng, _ := testutil.NewEngine(t)
	db := loadSQLite(t, eng.Catalog())

	queries := []queryir.Select{
		{
			From:    "users",
			Columns: []queryir.ColumnRef{queryir.Col("users", "name"), queryir.Col("orders", "product")},
			Joins:   []queryir.JoinSpec{{Kind: queryir.JoinInner, Table: "orders", Left: queryir.Col("users", "id"), Right: queryir.Col("orders", "user_id")}},
		},
		{
			From:    "users",
			Columns: []queryir.ColumnRef{queryir.Col("users", "name"), queryir.Col("users", "email")},
			Where: []queryir.Condition{
				queryir.Where(queryir.Col("users", "age"), queryir.OpGt, "30"),
				queryir.Where(queryir.Col("users", "email"), queryir.OpLike, "@example"),
			},
		},
		{
			From:    "orders",
			Columns: []queryir.ColumnRef{queryir.Col("orders", "product"), queryir.Col("orders", "product")},
			Where:   []queryir.Condition{queryir.Where(queryir.Col("orders", "product"), queryir.OpNe, "Mouse")},
		},
	}

	for i, q := range queries {
		t.Run(fmt.Sprintf("query_%d", i), func(t *testing.T) {
			res, err := eng.Execute(ctx, q)
			require.NoError(t, err)

			stmt, params, err := Compile(q)
			require.NoError(t, err)
			rows, err := db.Query(stmt, params...)
			require.NoError(t, err)
			defer rows.Close()

			var fromDB []string
			for rows.Next() {
				var a, b sql.NullString
				require.NoError(t, rows.Scan(&a, &b))
				fromDB = append(fromDB, a.String+"|"+b.String)
			}
			require.NoError(t, rows.Err())

			var fromEngine []string
			for _, r := range res.Rows {
				first := r.Get(q.Columns[0].String()).String()
				second := r.Get(q.Columns[1].String()).String()
				fromEngine = append(fromEngine, first+"|"+second)
			}

			sort.Strings(fromDB)
			sort.Strings(fromEngine)
			assert.Equal(t, fromDB, fromEngine)
		})
	}
}

func TestCompile_NotEqualKeepsNullOnSQLite(t *testing.T) {
	ctx := context.Background()
	eng, _ := testutil.NewEngine(t)
	_, err := eng.Execute(ctx, queryir.Insert{Table: "users", Values: []queryir.Assignment{queryir.Set("name", "Ann")}})
	require.NoError(t, err)
	db := loadSQLite(t, eng.Catalog())

	q := queryir.Select{
		From:    "users",
		Columns: []queryir.ColumnRef{queryir.Col("users", "name")},
		Where:   []queryir.Condition{queryir.Where(queryir.Col("users", "email"), queryir.OpNe, "john@example.com")},
	}

	stmt, params, err := Compile(q)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "users"."name" FROM "users" WHERE "users"."email" IS NOT ?`, stmt)
	assert.Equal(t, []any{"john@example.com"}, params)

	rows, err := db.Query(stmt, params...)
	require.NoError(t, err)
	defer rows.Close()
	var fromDB []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		fromDB = append(fromDB, name)
	}
	require.NoError(t, rows.Err())

	res, err := eng.Execute(ctx, q)
	require.NoError(t, err)
	fromEngine := testutil.Column(res.Rows, "users.name")

	sort.Strings(fromDB)
	sort.Strings(fromEngine)
	assert.Equal(t, []string{"Ann", "Bob Wilson", "Jane Smith"}, fromEngine)
	assert.Equal(t, fromEngine, fromDB)
}

func TestRender_NamesMatchExecutedColumns(t *testing.T) {
	ctx := context.Background()
	eng, _ := testutil.NewEngine(t)

	q := queryir.Select{
		From:    "users",
		Columns: []queryir.ColumnRef{queryir.Col("users", "email"), queryir.Col("orders", "amount")},
		Joins:   []queryir.JoinSpec{{Kind: queryir.JoinRight, Table: "orders", Left: queryir.Col("users", "id"), Right: queryir.Col("orders", "user_id")}},
		Where:   []queryir.Condition{queryir.Where(queryir.Col("orders", "amount"), queryir.OpGt, "10")},
	}
	res, err := eng.Execute(ctx, q)
	require.NoError(t, err)
	require.NotEmpty(t, res.Rows)

	text := Render(q)
	for _, col := range res.Columns {
		assert.Contains(t, text, col)
	}
	for _, tbl := range q.Tables() {
		assert.Contains(t, text, tbl)
	}
}
