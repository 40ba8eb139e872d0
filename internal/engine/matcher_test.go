package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/queryir"
)

func TestMatches(t *testing.T) {
	row := ir.Row{
		{Column: "t.age", Value: ir.Number(30)},
		{Column: "t.name", Value: ir.Text("Jane Smith")},
		{Column: "t.code", Value: ir.Text("007")},
		{Column: "t.joined", Value: ir.Date("2024-02-10")},
		{Column: "t.active", Value: ir.Boolean(true)},
		{Column: "t.email", Value: ir.Null{}},
	}
	ref := func(col string) queryir.ColumnRef { return queryir.Col("t", col) }

	tests := []struct {
		name string
		cond queryir.Condition
		want bool
	}{
		{"number equals numeric literal", queryir.Where(ref("age"), queryir.OpEq, "30"), true},
		{"number equals 30.0", queryir.Where(ref("age"), queryir.OpEq, "30.0"), true},
		{"number not equal", queryir.Where(ref("age"), queryir.OpNe, "31"), true},
		{"number vs text literal", queryir.Where(ref("age"), queryir.OpEq, "thirty"), false},
		{"text equality exact", queryir.Where(ref("name"), queryir.OpEq, "Jane Smith"), true},
		{"text equality case sensitive", queryir.Where(ref("name"), queryir.OpEq, "jane smith"), false},
		{"numeric text compared as text", queryir.Where(ref("code"), queryir.OpEq, "7"), false},
		{"boolean textual", queryir.Where(ref("active"), queryir.OpEq, "true"), true},
		{"null never equals", queryir.Where(ref("email"), queryir.OpEq, ""), false},
		{"null never equals null text", queryir.Where(ref("email"), queryir.OpEq, "null"), false},
		{"null not-equal holds", queryir.Where(ref("email"), queryir.OpNe, "x"), true},
		{"missing column not-equal holds", queryir.Where(ref("ghost"), queryir.OpNe, "x"), true},
		{"missing column is null", queryir.Where(ref("ghost"), queryir.OpEq, "NULL"), false},
		{"greater", queryir.Where(ref("age"), queryir.OpGt, "29.5"), true},
		{"greater equal boundary", queryir.Where(ref("age"), queryir.OpGe, "30"), true},
		{"less equal boundary", queryir.Where(ref("age"), queryir.OpLe, "30"), true},
		{"less", queryir.Where(ref("age"), queryir.OpLt, "30"), false},
		{"order vs non-numeric literal", queryir.Where(ref("age"), queryir.OpGt, "abc"), false},
		{"order on text is false", queryir.Where(ref("name"), queryir.OpGt, "A"), false},
		{"order on null is false", queryir.Where(ref("email"), queryir.OpLt, "z"), false},
		{"date after", queryir.Where(ref("joined"), queryir.OpGt, "2024-01-31"), true},
		{"date before", queryir.Where(ref("joined"), queryir.OpLt, "2024-01-31"), false},
		{"date vs non-date literal", queryir.Where(ref("joined"), queryir.OpGt, "yesterday"), false},
		{"like substring", queryir.Where(ref("name"), queryir.OpLike, "ne Sm"), true},
		{"like case sensitive", queryir.Where(ref("name"), queryir.OpLike, "jane"), false},
		{"like on date", queryir.Where(ref("joined"), queryir.OpLike, "2024-02"), true},
		{"like on number is false", queryir.Where(ref("age"), queryir.OpLike, "3"), false},
		{"like on null is false", queryir.Where(ref("email"), queryir.OpLike, ""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(row, tt.cond))
		})
	}
}

func TestMatchesAll(t *testing.T) {
	row := ir.Row{
		{Column: "u.age", Value: ir.Number(45)},
		{Column: "u.name", Value: ir.Text("Bob Wilson")},
	}
	over40 := queryir.Where(queryir.Col("u", "age"), queryir.OpGt, "40")
	isJane := queryir.Where(queryir.Col("u", "name"), queryir.OpEq, "Jane Smith")

	assert.True(t, MatchesAll(row, nil), "empty conjunction is true")
	assert.True(t, MatchesAll(row, []queryir.Condition{over40}))
	assert.False(t, MatchesAll(row, []queryir.Condition{over40, isJane}))

	assert.False(t, MatchesAny(row, nil), "empty disjunction is false")
	assert.True(t, MatchesAny(row, []queryir.Condition{over40, isJane}))
}
