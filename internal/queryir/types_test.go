package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relviz/internal/ir"
)

func TestQuery_SealedVariants(t *testing.T) {
	tests := []struct {
		query  Query
		kind   Kind
		target string
	}{
		{Create{Table: "t"}, KindCreate, "t"},
		{Select{From: "users"}, KindSelect, "users"},
		{&Select{From: "users"}, KindSelect, "users"},
		{Insert{Table: "orders"}, KindInsert, "orders"},
		{Update{Table: "users"}, KindUpdate, "users"},
		{&Delete{Table: "users"}, KindDelete, "users"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.query))
			assert.Equal(t, tt.target, tt.query.Target())
		})
	}

	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestNormalize(t *testing.T) {
	var nilSel *Select
	assert.Nil(t, Normalize(nilSel))
	assert.Equal(t, Select{From: "a"}, Normalize(&Select{From: "a"}))
	assert.Equal(t, Delete{Table: "a"}, Normalize(Delete{Table: "a"}))
}

func TestSelect_StarAndTables(t *testing.T) {
	sel := Select{
		From: "users",
		Joins: []JoinSpec{
			{Kind: JoinLeft, Table: "orders", Left: Col("users", "id"), Right: Col("orders", "user_id")},
		},
	}
	assert.True(t, sel.Star())
	assert.Equal(t, []string{"users", "orders"}, sel.Tables())

	sel.Columns = []ColumnRef{Col("users", "name")}
	assert.False(t, sel.Star())
}

func TestParseColumnRef(t *testing.T) {
	tests := []struct {
		in      string
		want    ColumnRef
		wantErr bool
	}{
		{"users.name", Col("users", "name"), false},
		{" age ", ColumnRef{Column: "age"}, false},
		{"a.b.c", Col("a", "b.c"), false},
		{"", ColumnRef{}, true},
		{".name", ColumnRef{}, true},
		{"users.", ColumnRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColumnRef(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ir.IsInvalidQuery(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnRef_String(t *testing.T) {
	assert.Equal(t, "users.id", Col("users", "id").String())
	assert.Equal(t, "id", ColumnRef{Column: "id"}.String())
	assert.True(t, ColumnRef{}.IsZero())
}

func TestParseJoinKind(t *testing.T) {
	for in, want := range map[string]JoinKind{
		"inner":      JoinInner,
		"LEFT":       JoinLeft,
		"left outer": JoinLeft,
		"Right Join": JoinRight,
		"FULL OUTER": JoinFull,
		" cross ":    JoinCross,
	} {
		got, err := ParseJoinKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseJoinKind("natural")
	assert.True(t, ir.IsInvalidQuery(err))
}

func TestJoinKind_Outer(t *testing.T) {
	assert.False(t, JoinInner.Outer())
	assert.False(t, JoinCross.Outer())
	assert.True(t, JoinLeft.Outer())
	assert.True(t, JoinRight.Outer())
	assert.True(t, JoinFull.Outer())
}

func TestParseOperator(t *testing.T) {
	for in, want := range map[string]Operator{
		"=":    OpEq,
		"!=":   OpNe,
		"<>":   OpNe,
		">=":   OpGe,
		"like": OpLike,
	} {
		got, err := ParseOperator(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOperator("~")
	assert.True(t, ir.IsInvalidQuery(err))
}

func TestCondition_String(t *testing.T) {
	c := Where(Col("users", "age"), OpGt, "30")
	assert.Equal(t, `users.age > "30"`, c.String())
}
