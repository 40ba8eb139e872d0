package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relviz/internal/ir"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("UNKNOWN_TABLE", "table not found", map[string]any{"query": 0})
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNKNOWN_TABLE", resp.Error.Code)
	assert.Equal(t, "table not found", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, formatter.Error("E001", "boom", "ctx"))
	assert.Equal(t, "Error [E001]: boom\nDetails: ctx\n", buf.String())

	buf.Reset()
	require.NoError(t, formatter.Success("done"))
	assert.Equal(t, "done\n", buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf, ErrWriter: errBuf}

	formatter.VerboseLog("hidden %d", 1)
	assert.Empty(t, errBuf.String())

	formatter.Verbose = true
	formatter.VerboseLog("shown %d", 2)
	assert.Equal(t, "shown 2\n", errBuf.String())
	assert.Empty(t, buf.String(), "verbose output must not corrupt JSON")
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "inner", ir.NewUnknownTableError("t")))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.True(t, ir.IsUnknownTable(wrapped))

	assert.Equal(t, ExitFailure, exitCodeFor(ir.NewUnknownColumnError("users", "x")))
	assert.Equal(t, ExitCommandError, exitCodeFor(ir.NewPersistenceError("save", errors.New("disk full"))))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "UNKNOWN_TABLE", errorCode(ir.NewUnknownTableError("t")))
	assert.Equal(t, ErrCodeNotFound, errorCode(&LoadError{Code: ErrCodeNotFound, Message: "x"}))
	assert.Equal(t, ErrCodeGeneric, errorCode(errors.New("other")))
}

func TestWriteTable(t *testing.T) {
	rows := []ir.Row{
		{{Column: "users.name", Value: ir.Text("John Doe")}, {Column: "orders.product", Value: ir.Text("Laptop")}},
		{{Column: "users.name", Value: ir.Text("Bob Wilson")}, {Column: "orders.product", Value: ir.Null{}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, []string{"users.name", "orders.product"}, rows))

	want := "users.name  orders.product\n" +
		"----------  --------------\n" +
		"John Doe    Laptop\n" +
		"Bob Wilson  NULL\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteResult(t *testing.T) {
	var buf bytes.Buffer
	view := ResultView{
		Kind:     "DELETE",
		Table:    "orders",
		SQL:      "DELETE FROM orders\nWHERE product = 'Mouse';",
		Columns:  []string{},
		Rows:     []ir.Row{},
		Affected: 1,
	}
	require.NoError(t, WriteResult(&buf, view))
	assert.Equal(t, "DELETE FROM orders\nWHERE product = 'Mouse';\n\n1 row affected\n", buf.String())

	buf.Reset()
	view = ResultView{Kind: "SELECT", SQL: "SELECT *\nFROM t;", Warnings: []string{"w"}}
	require.NoError(t, WriteResult(&buf, view))
	assert.Equal(t, "SELECT *\nFROM t;\nwarning: w\n\n(0 rows)\n", buf.String())
}

func TestCLIResponse_JSON(t *testing.T) {
	resp := CLIResponse{Status: "ok", Data: map[string]int{"rows": 3}}

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"rows":3}}`, string(data))
}
