package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/queryir"
)

func TestParseColumnSpec(t *testing.T) {
	col, err := parseColumnSpec("age:number")
	require.NoError(t, err)
	assert.Equal(t, ir.Column{Name: "age", Type: ir.TypeNumber}, col)

	col, err = parseColumnSpec("title")
	require.NoError(t, err)
	assert.Equal(t, ir.TypeText, col.Type)

	_, err = parseColumnSpec(":TEXT")
	assert.Error(t, err)

	_, err = parseColumnSpec("age:INTEGER")
	assert.Error(t, err)
}

func TestParseAssignment(t *testing.T) {
	a, err := parseAssignment("note=a=b")
	require.NoError(t, err)
	assert.Equal(t, "note", a.Column)
	assert.Equal(t, "a=b", a.Value)

	a, err = parseAssignment("age=")
	require.NoError(t, err)
	assert.Equal(t, "", a.Value)

	_, err = parseAssignment("age")
	assert.Error(t, err)
}

func TestParseJoin(t *testing.T) {
	j, err := parseJoin("LEFT, orders, users.id, orders.user_id")
	require.NoError(t, err)
	assert.Equal(t, queryir.JoinDoc{Kind: "LEFT", Table: "orders", Left: "users.id", Right: "orders.user_id"}, j)

	j, err = parseJoin("CROSS,orders")
	require.NoError(t, err)
	assert.Equal(t, queryir.JoinDoc{Kind: "CROSS", Table: "orders"}, j)

	_, err = parseJoin("LEFT,orders,users.id")
	assert.Error(t, err)
}

func TestParseCondition(t *testing.T) {
	c, err := parseCondition("name,=,Doe, John")
	require.NoError(t, err)
	assert.Equal(t, "name", c.Column)
	assert.Equal(t, "=", c.Op)
	assert.Equal(t, queryir.Literal("Doe, John"), c.Value)

	_, err = parseCondition("name,=")
	assert.Error(t, err)
}

func TestQueryFlags_Document(t *testing.T) {
	flags := &QueryFlags{
		Columns: []string{"name", "orders.product"},
		Joins:   []string{"INNER,orders,users.id,orders.user_id"},
		Where:   []string{"age,>,30"},
	}

	doc, err := flags.Document("select", "users")
	require.NoError(t, err)

	q, err := doc.ToQuery()
	require.NoError(t, err)
	sel, ok := q.(queryir.Select)
	require.True(t, ok)
	assert.Equal(t, "users.name", sel.Columns[0].String())
	assert.Equal(t, "orders.product", sel.Columns[1].String())
	require.Len(t, sel.Joins, 1)
	assert.Equal(t, queryir.JoinInner, sel.Joins[0].Kind)
	require.Len(t, sel.Where, 1)
	assert.Equal(t, queryir.OpGt, sel.Where[0].Op)
}

func TestQueryFlags_DocumentUpdateUsesSet(t *testing.T) {
	flags := &QueryFlags{Values: []string{"age=33"}, Where: []string{"id,=,2"}}

	doc, err := flags.Document("update", "users")
	require.NoError(t, err)
	assert.Empty(t, doc.Values)
	require.Len(t, doc.Set, 1)
	assert.Equal(t, "age", doc.Set[0].Column)
}
