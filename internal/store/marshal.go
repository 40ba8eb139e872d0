package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/relviz/internal/catalog"
	"github.com/roach88/relviz/internal/ir"
)

// snapshotVersion identifies the snapshot layout written by EncodeCatalog.
const snapshotVersion = 1

// EncodeCatalog converts a catalog to canonical JSON.
//
// Layout:
//
//	{"tables":[{"columns":[{"name":"id","type":"NUMBER"}],"name":"users",
//	  "rows":[[{"c":"id","k":"number","v":1}]]}],"version":1}
//
// Null cells omit "v". Tables appear in name order. Names and text
// payloads are written verbatim, without NFC normalization.
func EncodeCatalog(c *catalog.Catalog) ([]byte, error) {
	tables := make([]any, 0, c.Len())
	for _, t := range c.Tables() {
		columns := make([]any, len(t.Columns))
		for i, col := range t.Columns {
			columns[i] = map[string]any{
				"name": ir.Verbatim(col.Name),
				"type": string(col.Type),
			}
		}

		rows := make([]any, len(t.Rows))
		for i, r := range t.Rows {
			cells := make([]any, len(r))
			for k, cell := range r {
				v := cell.Value
				if v == nil {
					v = ir.Null{}
				}
				enc := map[string]any{
					"c": ir.Verbatim(cell.Column),
					"k": string(v.Kind()),
				}
				switch val := v.(type) {
				case ir.Null:
				case ir.Text:
					enc["v"] = ir.Verbatim(val)
				case ir.Date:
					enc["v"] = ir.Verbatim(val)
				default:
					enc["v"] = v
				}
				cells[k] = enc
			}
			rows[i] = cells
		}

		tables = append(tables, map[string]any{
			"name":    ir.Verbatim(t.Name),
			"columns": columns,
			"rows":    rows,
		})
	}

	data, err := ir.MarshalCanonical(map[string]any{
		"version": snapshotVersion,
		"tables":  tables,
	})
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return data, nil
}

type snapshotDoc struct {
	Version int        `json:"version"`
	Tables  []tableDoc `json:"tables"`
}

type tableDoc struct {
	Name    string      `json:"name"`
	Columns []ir.Column `json:"columns"`
	Rows    [][]cellDoc `json:"rows"`
}

type cellDoc struct {
	Column string          `json:"c"`
	Kind   ir.Kind         `json:"k"`
	Value  json.RawMessage `json:"v,omitempty"`
}

// DecodeCatalog parses a snapshot written by EncodeCatalog.
func DecodeCatalog(data []byte) (*catalog.Catalog, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if doc.Version != snapshotVersion {
		return nil, fmt.Errorf("decode catalog: unsupported snapshot version %d", doc.Version)
	}

	c := catalog.New()
	for _, td := range doc.Tables {
		t := &ir.Table{
			Name:    td.Name,
			Columns: td.Columns,
			Rows:    make([]ir.Row, len(td.Rows)),
		}
		for i, cells := range td.Rows {
			row := make(ir.Row, len(cells))
			for k, cd := range cells {
				v, err := decodeValue(cd)
				if err != nil {
					return nil, fmt.Errorf("decode catalog: table %q row %d: %w", td.Name, i, err)
				}
				row[k] = ir.Cell{Column: cd.Column, Value: v}
			}
			t.Rows[i] = row
		}
		if err := c.Put(t); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
	}
	return c, nil
}

func decodeValue(cd cellDoc) (ir.Value, error) {
	switch cd.Kind {
	case ir.KindNull:
		return ir.Null{}, nil
	case ir.KindText:
		var s string
		if err := json.Unmarshal(cd.Value, &s); err != nil {
			return nil, fmt.Errorf("cell %q: %w", cd.Column, err)
		}
		return ir.Text(s), nil
	case ir.KindDate:
		var s string
		if err := json.Unmarshal(cd.Value, &s); err != nil {
			return nil, fmt.Errorf("cell %q: %w", cd.Column, err)
		}
		return ir.Date(s), nil
	case ir.KindNumber:
		var f float64
		if err := json.Unmarshal(cd.Value, &f); err != nil {
			return nil, fmt.Errorf("cell %q: %w", cd.Column, err)
		}
		return ir.Number(f), nil
	case ir.KindBoolean:
		var b bool
		if err := json.Unmarshal(cd.Value, &b); err != nil {
			return nil, fmt.Errorf("cell %q: %w", cd.Column, err)
		}
		return ir.Boolean(b), nil
	default:
		return nil, fmt.Errorf("cell %q: unknown value kind %q", cd.Column, cd.Kind)
	}
}

// countRows returns the total number of rows across all tables.
func countRows(c *catalog.Catalog) int {
	n := 0
	for _, t := range c.Tables() {
		n += len(t.Rows)
	}
	return n
}

// initialCatalog is what Load returns before anything was saved.
func initialCatalog(cfg config) *catalog.Catalog {
	if cfg.bootstrap {
		return catalog.Bootstrap()
	}
	return catalog.New()
}
