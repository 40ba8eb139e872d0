package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/queryir"
)

func TestNewEngine_SeedsBootstrap(t *testing.T) {
	eng, mem := NewEngine(t)
	assert.Equal(t, []string{"orders", "users"}, eng.Catalog().Names())

	ctx := context.Background()
	_, err := eng.Execute(ctx, queryir.Insert{Table: "users", Values: []queryir.Assignment{queryir.Set("name", "Ada")}})
	require.NoError(t, err)

	revs, err := mem.Revisions(ctx)
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.Equal(t, "rev-0001", revs[0].ID)
}

func TestNewEmptyEngine(t *testing.T) {
	eng, _ := NewEmptyEngine(t)
	assert.Equal(t, 0, eng.Catalog().Len())
}

func TestRowText(t *testing.T) {
	r := ir.Row{
		{Column: "users.name", Value: ir.Text("Ada")},
		{Column: "users.age", Value: ir.Number(36)},
		{Column: "orders.product", Value: ir.Null{}},
	}
	assert.Equal(t, map[string]string{
		"users.name":     "Ada",
		"users.age":      "36",
		"orders.product": "NULL",
	}, RowText(r))
	assert.Equal(t, []string{"36"}, Column([]ir.Row{r}, "users.age"))
}
