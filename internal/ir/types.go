package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ColumnType is the declared type of a column. It is advisory: it drives
// CREATE TABLE rendering and INSERT/UPDATE coercion but is not enforced on
// stored values.
type ColumnType string

const (
	TypeText    ColumnType = "TEXT"
	TypeNumber  ColumnType = "NUMBER"
	TypeBoolean ColumnType = "BOOLEAN"
	TypeDate    ColumnType = "DATE"
)

// ColumnTypes lists the valid declared types in display order.
var ColumnTypes = []ColumnType{TypeText, TypeNumber, TypeBoolean, TypeDate}

// ParseColumnType parses a declared type name, case-insensitively.
func ParseColumnType(s string) (ColumnType, error) {
	t := ColumnType(strings.ToUpper(strings.TrimSpace(s)))
	for _, valid := range ColumnTypes {
		if t == valid {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown column type %q: must be one of %v", s, ColumnTypes)
}

// Column declares a single table column.
type Column struct {
	Name string     `json:"name" yaml:"name"`
	Type ColumnType `json:"type" yaml:"type"`
}

// IDColumn is the column that receives generated identifiers on INSERT.
const IDColumn = "id"

// Cell is one column/value pair of a Row.
type Cell struct {
	Column string
	Value  Value
}

// Row is an ordered mapping from column name to Value.
// Keys are unique; Set on an existing key replaces the value in place.
// Stored rows use bare column names, SELECT rows use qualified names.
type Row []Cell

// Get returns the value for key, or Null if the row has no such cell.
func (r Row) Get(key string) Value {
	for _, c := range r {
		if c.Column == key {
			if c.Value == nil {
				return Null{}
			}
			return c.Value
		}
	}
	return Null{}
}

// Has reports whether the row carries a cell for key.
func (r Row) Has(key string) bool {
	for _, c := range r {
		if c.Column == key {
			return true
		}
	}
	return false
}

// Set returns the row with key set to v, appending a cell if key is new.
func (r Row) Set(key string, v Value) Row {
	if v == nil {
		v = Null{}
	}
	for i, c := range r {
		if c.Column == key {
			r[i].Value = v
			return r
		}
	}
	return append(r, Cell{Column: key, Value: v})
}

// Keys returns the column names in row order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, c := range r {
		keys[i] = c.Column
	}
	return keys
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Merge returns a new row holding r's cells followed by other's cells.
func (r Row) Merge(other Row) Row {
	out := make(Row, 0, len(r)+len(other))
	out = append(out, r...)
	for _, c := range other {
		out = out.Set(c.Column, c.Value)
	}
	return out
}

// Equal reports field-for-field identity: same keys in the same order with
// the same variant and payload. Unlike the Equal function this treats
// Null as identical to Null.
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i].Column != other[i].Column {
			return false
		}
		if !Identical(r.Get(r[i].Column), other.Get(other[i].Column)) {
			return false
		}
	}
	return true
}

// Identical reports whether two values have the same variant and payload.
func Identical(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	return a.Kind() == b.Kind() && a.String() == b.String()
}

// MarshalJSON writes the row as a JSON object preserving cell order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(c.Column)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", c.Column, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := MarshalValue(c.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", c.Column, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object into a row, keeping key order.
// Scalars become Values as FromAny reads them; strings stay Text.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row must be a JSON object")
	}

	out := Row{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("row key must be a string, got %T", tok)
		}
		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("value for key %q: %w", key, err)
		}
		if _, nested := tok.(json.Delim); nested {
			return fmt.Errorf("value for key %q must be a scalar", key)
		}
		v, err := FromAny(tok)
		if err != nil {
			return fmt.Errorf("value for key %q: %w", key, err)
		}
		out = out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// Table is a named relation with ordered columns and insertion-ordered rows.
type Table struct {
	Name    string
	Columns []Column
	Rows    []Row
}

// HasColumn reports whether the table declares a column named name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Column returns the declared column named name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the declared column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Name:    t.Name,
		Columns: append([]Column(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// Qualify joins a table and column name into "table.column".
func Qualify(table, column string) string {
	return table + "." + column
}

// QualifiedColumns returns "table.column" for every declared column.
func (t *Table) QualifiedColumns() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = Qualify(t.Name, c.Name)
	}
	return names
}

// QualifyRow converts a stored row into a row keyed by qualified names.
// Every declared column is present; missing cells become Null.
func (t *Table) QualifyRow(r Row) Row {
	out := make(Row, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = Cell{Column: Qualify(t.Name, c.Name), Value: r.Get(c.Name)}
	}
	return out
}

// NullRow returns a qualified row with every declared column set to Null.
func (t *Table) NullRow() Row {
	out := make(Row, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = Cell{Column: Qualify(t.Name, c.Name), Value: Null{}}
	}
	return out
}
