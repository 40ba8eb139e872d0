package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"b": Number(2),
		"a": Text("x"),
		"c": Null{},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":2,"c":null}`, string(data))
}

func TestMarshalCanonical_NoHTMLEscape(t *testing.T) {
	data, err := MarshalCanonical(Text("<a & b>"))
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(data))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	// "e" + combining acute accent normalizes to the precomposed form.
	data, err := MarshalCanonical(Text("é"))
	require.NoError(t, err)
	assert.Equal(t, "\"é\"", string(data))
}

func TestMarshalCanonical_VerbatimSkipsNFC(t *testing.T) {
	decomposed := "Rene\u0301"

	data, err := MarshalCanonical(Text(decomposed))
	require.NoError(t, err)
	assert.Equal(t, "\"Ren\u00e9\"", string(data))

	data, err = MarshalCanonical(map[string]any{"v": Verbatim(decomposed)})
	require.NoError(t, err)
	assert.Equal(t, "{\"v\":\""+decomposed+"\"}", string(data))
}

func TestMarshalCanonical_LineSeparators(t *testing.T) {
	data, err := MarshalCanonical("a b")
	require.NoError(t, err)
	assert.Equal(t, "\"a b\"", string(data))
}

func TestMarshalCanonical_Rows(t *testing.T) {
	rows := []Row{
		{{Column: "name", Value: Text("Ann")}, {Column: "id", Value: Number(1)}},
	}
	data, err := MarshalCanonical(rows)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"name":"Ann"}]`, string(data))
}

func TestMarshalCanonical_RejectsUnsupported(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	assert.Error(t, err)
}

func TestResultHash_Deterministic(t *testing.T) {
	rows := []Row{{{Column: "users.id", Value: Number(1)}}}

	h1, err := ResultHash([]string{"users.id"}, rows)
	require.NoError(t, err)
	h2, err := ResultHash([]string{"users.id"}, rows)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	h3, err := ResultHash([]string{"users.id"}, []Row{{{Column: "users.id", Value: Number(2)}}})
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
