package queryir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/relviz/internal/ir"
)

// File is a query document file: either a single Document inline or a
// "queries" list executed in order.
type File struct {
	Document `yaml:",inline"`

	Queries []Document `json:"queries,omitempty" yaml:"queries,omitempty"`
}

// ToQueries converts the file to queries.
func (f File) ToQueries() ([]Query, error) {
	if len(f.Queries) > 0 {
		if f.Op != "" {
			return nil, ir.NewInvalidQueryError("document mixes a top-level op with a queries list")
		}
		out := make([]Query, len(f.Queries))
		for i, d := range f.Queries {
			q, err := d.ToQuery()
			if err != nil {
				return nil, fmt.Errorf("queries[%d]: %w", i, err)
			}
			out[i] = q
		}
		return out, nil
	}
	q, err := f.Document.ToQuery()
	if err != nil {
		return nil, err
	}
	return []Query{q}, nil
}

// Document is the serialized form of a Query.
//
//	op: select
//	table: users
//	columns: [users.name, orders.product]
//	joins:
//	  - {kind: left, table: orders, left: users.id, right: orders.user_id}
//	where:
//	  - {column: users.age, op: ">", value: 30}
//
// Values and Set accept either a mapping (order preserved) or a list of
// {column, value} pairs. Scalars are read as raw text: 30 becomes "30".
type Document struct {
	Op      string         `json:"op" yaml:"op"`
	Table   string         `json:"table" yaml:"table"`
	Schema  []ir.Column    `json:"schema,omitempty" yaml:"schema,omitempty"`
	Columns []string       `json:"columns,omitempty" yaml:"columns,omitempty"`
	Joins   []JoinDoc      `json:"joins,omitempty" yaml:"joins,omitempty"`
	Where   []ConditionDoc `json:"where,omitempty" yaml:"where,omitempty"`
	Values  Assignments    `json:"values,omitempty" yaml:"values,omitempty"`
	Set     Assignments    `json:"set,omitempty" yaml:"set,omitempty"`
}

// JoinDoc is the serialized form of a JoinSpec.
type JoinDoc struct {
	Kind  string `json:"kind" yaml:"kind"`
	Table string `json:"table" yaml:"table"`
	Left  string `json:"left,omitempty" yaml:"left,omitempty"`
	Right string `json:"right,omitempty" yaml:"right,omitempty"`
}

// ConditionDoc is the serialized form of a Condition.
type ConditionDoc struct {
	Column string  `json:"column" yaml:"column"`
	Op     string  `json:"op" yaml:"op"`
	Value  Literal `json:"value" yaml:"value"`
}

// ToQuery converts the document to a Query. Malformed documents return
// INVALID_QUERY.
func (d Document) ToQuery() (Query, error) {
	switch strings.ToUpper(strings.TrimSpace(d.Op)) {
	case string(KindCreate):
		return Create{Table: d.Table, Columns: d.Schema}, nil
	case string(KindSelect):
		return d.toSelect()
	case string(KindInsert):
		return Insert{Table: d.Table, Values: d.Values.Assignments()}, nil
	case string(KindUpdate):
		where, err := parseConditions(d.Where)
		if err != nil {
			return nil, err
		}
		return Update{Table: d.Table, Set: d.Set.Assignments(), Where: where}, nil
	case string(KindDelete):
		where, err := parseConditions(d.Where)
		if err != nil {
			return nil, err
		}
		return Delete{Table: d.Table, Where: where}, nil
	case "":
		return nil, ir.NewInvalidQueryError("document has no op")
	default:
		return nil, ir.NewInvalidQueryError("unknown op %q", d.Op)
	}
}

func (d Document) toSelect() (Query, error) {
	sel := Select{From: d.Table}

	for _, c := range d.Columns {
		if strings.TrimSpace(c) == "*" {
			if len(d.Columns) > 1 {
				return nil, ir.NewInvalidQueryError("'*' cannot be combined with other columns")
			}
			break
		}
		ref, err := ParseColumnRef(c)
		if err != nil {
			return nil, err
		}
		if ref.Table == "" {
			ref.Table = d.Table
		}
		sel.Columns = append(sel.Columns, ref)
	}

	for i, j := range d.Joins {
		kind, err := ParseJoinKind(j.Kind)
		if err != nil {
			return nil, fmt.Errorf("joins[%d]: %w", i, err)
		}
		spec := JoinSpec{Kind: kind, Table: j.Table}
		if kind != JoinCross {
			if spec.Left, err = ParseColumnRef(j.Left); err != nil {
				return nil, fmt.Errorf("joins[%d].left: %w", i, err)
			}
			if spec.Right, err = ParseColumnRef(j.Right); err != nil {
				return nil, fmt.Errorf("joins[%d].right: %w", i, err)
			}
			if spec.Right.Table == "" {
				spec.Right.Table = j.Table
			}
		}
		sel.Joins = append(sel.Joins, spec)
	}

	where, err := parseConditions(d.Where)
	if err != nil {
		return nil, err
	}
	for i := range where {
		if where[i].Column.Table == "" {
			where[i].Column.Table = d.Table
		}
	}
	sel.Where = where
	return sel, nil
}

func parseConditions(docs []ConditionDoc) ([]Condition, error) {
	var out []Condition
	for i, c := range docs {
		ref, err := ParseColumnRef(c.Column)
		if err != nil {
			return nil, fmt.Errorf("where[%d]: %w", i, err)
		}
		op, err := ParseOperator(c.Op)
		if err != nil {
			return nil, fmt.Errorf("where[%d]: %w", i, err)
		}
		out = append(out, Condition{Column: ref, Op: op, Value: string(c.Value)})
	}
	return out, nil
}

// FromQuery converts a Query back to its serialized form.
func FromQuery(q Query) Document {
	switch v := Normalize(q).(type) {
	case Create:
		return Document{Op: "create", Table: v.Table, Schema: v.Columns}
	case Select:
		d := Document{Op: "select", Table: v.From}
		for _, c := range v.Columns {
			d.Columns = append(d.Columns, c.String())
		}
		for _, j := range v.Joins {
			jd := JoinDoc{Kind: strings.ToLower(string(j.Kind)), Table: j.Table}
			if j.Kind != JoinCross {
				jd.Left, jd.Right = j.Left.String(), j.Right.String()
			}
			d.Joins = append(d.Joins, jd)
		}
		d.Where = conditionDocs(v.Where)
		return d
	case Insert:
		return Document{Op: "insert", Table: v.Table, Values: Assignments(v.Values)}
	case Update:
		return Document{Op: "update", Table: v.Table, Set: Assignments(v.Set), Where: conditionDocs(v.Where)}
	case Delete:
		return Document{Op: "delete", Table: v.Table, Where: conditionDocs(v.Where)}
	default:
		return Document{}
	}
}

func conditionDocs(conds []Condition) []ConditionDoc {
	var out []ConditionDoc
	for _, c := range conds {
		out = append(out, ConditionDoc{Column: c.Column.String(), Op: string(c.Op), Value: Literal(c.Value)})
	}
	return out
}

// Literal is raw literal text decoded from any scalar.
// Null decodes to the empty string.
type Literal string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (l *Literal) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*l = ""
	case string:
		*l = Literal(v)
	case json.Number:
		*l = Literal(v.String())
	case bool:
		*l = Literal(fmt.Sprint(v))
	default:
		return fmt.Errorf("literal must be a scalar, got %T", raw)
	}
	return nil
}

// UnmarshalYAML accepts any scalar node and keeps its source text.
func (l *Literal) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: literal must be a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*l = ""
		return nil
	}
	*l = Literal(node.Value)
	return nil
}

// Assignments is an ordered column → text list.
type Assignments []Assignment

// Assignments returns the list as a plain slice.
func (a Assignments) Assignments() []Assignment {
	if len(a) == 0 {
		return nil
	}
	return append([]Assignment(nil), a...)
}

type assignmentDoc struct {
	Column string  `json:"column" yaml:"column"`
	Value  Literal `json:"value" yaml:"value"`
}

// MarshalJSON writes the assignments as an object in list order.
func (a Assignments) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, as := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(as.Column)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(as.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts an object (key order preserved) or a list of
// {column, value} objects.
func (a *Assignments) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []assignmentDoc
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return err
		}
		*a = fromAssignmentDocs(docs)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*a = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("assignments must be an object or a list, got %v", tok)
	}

	var out Assignments
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("assignment key must be a string, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("assignment %q: %w", key, err)
		}
		var lit Literal
		if err := lit.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("assignment %q: %w", key, err)
		}
		out = append(out, Assignment{Column: key, Value: string(lit)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

// MarshalYAML writes the assignments as a mapping in list order.
func (a Assignments) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, as := range a {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: as.Column},
			&yaml.Node{Kind: yaml.ScalarNode, Value: as.Value, Style: yaml.DoubleQuotedStyle},
		)
	}
	return node, nil
}

// UnmarshalYAML accepts a mapping (key order preserved) or a sequence of
// {column, value} mappings.
func (a *Assignments) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(Assignments, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			var lit Literal
			if err := lit.UnmarshalYAML(val); err != nil {
				return fmt.Errorf("assignment %q: %w", key.Value, err)
			}
			out = append(out, Assignment{Column: key.Value, Value: string(lit)})
		}
		*a = out
		return nil
	case yaml.SequenceNode:
		var docs []assignmentDoc
		if err := node.Decode(&docs); err != nil {
			return err
		}
		*a = fromAssignmentDocs(docs)
		return nil
	default:
		return fmt.Errorf("line %d: assignments must be a mapping or a sequence", node.Line)
	}
}

func fromAssignmentDocs(docs []assignmentDoc) Assignments {
	out := make(Assignments, len(docs))
	for i, d := range docs {
		out[i] = Assignment{Column: d.Column, Value: string(d.Value)}
	}
	return out
}

