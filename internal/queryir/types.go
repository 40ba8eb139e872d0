package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/relviz/internal/ir"
)

// Query is a relational operation.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	// Target returns the table the query reads from or writes to.
	Target() string
	queryNode() // Marker method - seals interface to this package
}

// Kind names a Query variant.
type Kind string

const (
	KindCreate Kind = "CREATE"
	KindSelect Kind = "SELECT"
	KindInsert Kind = "INSERT"
	KindUpdate Kind = "UPDATE"
	KindDelete Kind = "DELETE"
)

// KindOf returns the variant name of q, or "" for nil.
func KindOf(q Query) Kind {
	switch Normalize(q).(type) {
	case Create:
		return KindCreate
	case Select:
		return KindSelect
	case Insert:
		return KindInsert
	case Update:
		return KindUpdate
	case Delete:
		return KindDelete
	default:
		return ""
	}
}

// Normalize dereferences pointer queries so consumers only switch on values.
func Normalize(q Query) Query {
	switch v := q.(type) {
	case *Create:
		if v != nil {
			return *v
		}
	case *Select:
		if v != nil {
			return *v
		}
	case *Insert:
		if v != nil {
			return *v
		}
	case *Update:
		if v != nil {
			return *v
		}
	case *Delete:
		if v != nil {
			return *v
		}
	default:
		return q
	}
	return nil
}

// Create declares a new table.
//
//	CREATE TABLE <table> (<columns>)
type Create struct {
	Table   string
	Columns []ir.Column
}

func (Create) queryNode()       {}
func (c Create) Target() string { return c.Table }

// Select reads rows from a base table, optionally joined with other tables.
//
// Semantics:
//
//	SELECT <columns> FROM <from> <joins> WHERE <where>
//
// Evaluation order is fixed: qualify base rows, apply joins in order, keep
// rows satisfying every condition, then project. An empty Columns list means
// "*": every qualified column of every table in scope.
type Select struct {
	From    string
	Columns []ColumnRef
	Joins   []JoinSpec
	Where   []Condition
}

func (Select) queryNode()       {}
func (s Select) Target() string { return s.From }

// Star reports whether the select projects every column in scope.
func (s Select) Star() bool {
	return len(s.Columns) == 0
}

// Tables returns the base table followed by joined tables, in join order.
func (s Select) Tables() []string {
	out := make([]string, 0, 1+len(s.Joins))
	out = append(out, s.From)
	for _, j := range s.Joins {
		out = append(out, j.Table)
	}
	return out
}

// Insert appends one row.
//
// Values holds raw text per column in the order given. Columns the caller
// leaves out are stored as Null, except id which is generated.
type Insert struct {
	Table  string
	Values []Assignment
}

func (Insert) queryNode()       {}
func (i Insert) Target() string { return i.Table }

// Update replaces column values in every row satisfying all conditions.
// An empty Where updates every row.
type Update struct {
	Table string
	Set   []Assignment
	Where []Condition
}

func (Update) queryNode()       {}
func (u Update) Target() string { return u.Table }

// Delete removes every row satisfying all conditions.
// An empty Where removes every row.
type Delete struct {
	Table string
	Where []Condition
}

func (Delete) queryNode()       {}
func (d Delete) Target() string { return d.Table }

// ColumnRef names a column, optionally qualified by its table.
//
// Refs inside Update and Delete may leave Table empty; it then defaults to
// the target table.
type ColumnRef struct {
	Table  string `json:"table" yaml:"table"`
	Column string `json:"column" yaml:"column"`
}

// Col is shorthand for a qualified ColumnRef.
func Col(table, column string) ColumnRef {
	return ColumnRef{Table: table, Column: column}
}

// String returns "table.column", or the bare column when Table is empty.
func (r ColumnRef) String() string {
	if r.Table == "" {
		return r.Column
	}
	return ir.Qualify(r.Table, r.Column)
}

// IsZero reports whether the ref names nothing.
func (r ColumnRef) IsZero() bool {
	return r.Table == "" && r.Column == ""
}

// ParseColumnRef parses "table.column" or a bare "column".
// The split is at the first dot; table names cannot contain dots.
func ParseColumnRef(s string) (ColumnRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ColumnRef{}, ir.NewInvalidQueryError("empty column reference")
	}
	table, column, found := strings.Cut(s, ".")
	if !found {
		return ColumnRef{Column: s}, nil
	}
	if table == "" || column == "" {
		return ColumnRef{}, ir.NewInvalidQueryError("malformed column reference %q", s)
	}
	return ColumnRef{Table: table, Column: column}, nil
}

// JoinKind selects how unmatched rows are handled.
type JoinKind string

const (
	JoinInner JoinKind = "INNER"
	JoinLeft  JoinKind = "LEFT"
	JoinRight JoinKind = "RIGHT"
	JoinFull  JoinKind = "FULL"
	JoinCross JoinKind = "CROSS"
)

// JoinKinds lists every join kind.
var JoinKinds = []JoinKind{JoinInner, JoinLeft, JoinRight, JoinFull, JoinCross}

// ParseJoinKind parses a join kind name, case-insensitively.
// "FULL OUTER", "LEFT OUTER" and "RIGHT OUTER" are accepted.
func ParseJoinKind(s string) (JoinKind, error) {
	k := strings.ToUpper(strings.TrimSpace(s))
	k = strings.TrimSuffix(k, " OUTER")
	k = strings.TrimSuffix(k, " JOIN")
	for _, valid := range JoinKinds {
		if JoinKind(k) == valid {
			return valid, nil
		}
	}
	return "", ir.NewInvalidQueryError("unknown join kind %q: must be one of %v", s, JoinKinds)
}

// Outer reports whether the kind keeps unmatched rows.
func (k JoinKind) Outer() bool {
	return k == JoinLeft || k == JoinRight || k == JoinFull
}

// JoinSpec joins Table onto the rows accumulated so far.
//
// Left names a column of a table already in scope, Right a column of Table.
// CROSS joins ignore both refs.
type JoinSpec struct {
	Kind  JoinKind
	Table string
	Left  ColumnRef
	Right ColumnRef
}

// Operator is a condition comparison operator.
type Operator string

const (
	OpEq   Operator = "="
	OpNe   Operator = "!="
	OpGt   Operator = ">"
	OpLt   Operator = "<"
	OpGe   Operator = ">="
	OpLe   Operator = "<="
	OpLike Operator = "LIKE"
)

// Operators lists every operator.
var Operators = []Operator{OpEq, OpNe, OpGt, OpLt, OpGe, OpLe, OpLike}

// ParseOperator parses an operator. "<>" is accepted for "!=" and "like"
// in any case for LIKE.
func ParseOperator(s string) (Operator, error) {
	op := strings.ToUpper(strings.TrimSpace(s))
	if op == "<>" {
		return OpNe, nil
	}
	for _, valid := range Operators {
		if Operator(op) == valid {
			return valid, nil
		}
	}
	return "", ir.NewInvalidQueryError("unknown operator %q: must be one of %v", s, Operators)
}

// Condition compares a column against a literal.
type Condition struct {
	Column ColumnRef
	Op     Operator
	Value  string
}

// Where is shorthand for a Condition.
func Where(ref ColumnRef, op Operator, value string) Condition {
	return Condition{Column: ref, Op: op, Value: value}
}

// String renders the condition for logs and error messages.
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %q", c.Column, c.Op, c.Value)
}

// Assignment sets one column to raw text.
type Assignment struct {
	Column string `json:"column" yaml:"column"`
	Value  string `json:"value" yaml:"value"`
}

// Set is shorthand for an Assignment.
func Set(column, value string) Assignment {
	return Assignment{Column: column, Value: value}
}
