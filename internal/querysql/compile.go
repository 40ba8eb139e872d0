package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/queryir"
)

// Compile converts a query to parameterized SQL for SQLite.
// Returns (sql, params, error).
//
// All literals are parameterized (never interpolated) and identifiers are
// double-quoted. Literals are converted with ir.Coerce, so the parameter
// types match what the engine would store or compare against. LIKE compiles
// to instr() so the database applies the same case-sensitive substring test,
// and != to IS NOT so NULL cells satisfy it as they do in the engine.
func Compile(q queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}

	switch query := queryir.Normalize(q).(type) {
	case queryir.Create:
		return compileCreate(query)
	case queryir.Select:
		return compileSelect(query)
	case queryir.Insert:
		return compileInsert(query)
	case queryir.Update:
		return compileUpdate(query)
	case queryir.Delete:
		where, params := compileWhere(query.Where)
		return "DELETE FROM " + quoteIdent(query.Table) + where, params, nil
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func compileCreate(c queryir.Create) (string, []any, error) {
	if len(c.Columns) == 0 {
		return "", nil, fmt.Errorf("compile create: table %q has no columns", c.Table)
	}
	cols := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		cols[i] = quoteIdent(col.Name) + " " + strings.ToUpper(string(col.Type))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(c.Table), strings.Join(cols, ", ")), nil, nil
}

func compileSelect(s queryir.Select) (string, []any, error) {
	selectClause := "*"
	if !s.Star() {
		cols := make([]string, len(s.Columns))
		for i, ref := range s.Columns {
			cols[i] = quoteRef(ref)
		}
		selectClause = strings.Join(cols, ", ")
	}

	var joins strings.Builder
	for _, j := range s.Joins {
		fmt.Fprintf(&joins, " %s JOIN %s", j.Kind, quoteIdent(j.Table))
		if j.Kind != queryir.JoinCross {
			fmt.Fprintf(&joins, " ON %s = %s", quoteRef(j.Left), quoteRef(j.Right))
		}
	}

	where, params := compileWhere(s.Where)
	sql := fmt.Sprintf("SELECT %s FROM %s%s%s",
		selectClause,
		quoteIdent(s.From),
		joins.String(),
		where)
	return sql, params, nil
}

func compileInsert(ins queryir.Insert) (string, []any, error) {
	if len(ins.Values) == 0 {
		return "INSERT INTO " + quoteIdent(ins.Table) + " DEFAULT VALUES", nil, nil
	}
	cols := make([]string, len(ins.Values))
	marks := make([]string, len(ins.Values))
	params := make([]any, len(ins.Values))
	for i, a := range ins.Values {
		cols[i] = quoteIdent(a.Column)
		marks[i] = "?"
		params[i] = toParam(ir.Coerce(a.Value))
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(ins.Table),
		strings.Join(cols, ", "),
		strings.Join(marks, ", "))
	return sql, params, nil
}

func compileUpdate(u queryir.Update) (string, []any, error) {
	if len(u.Set) == 0 {
		return "", nil, fmt.Errorf("compile update: no SET columns for %q", u.Table)
	}
	sets := make([]string, len(u.Set))
	params := make([]any, 0, len(u.Set)+len(u.Where))
	for i, a := range u.Set {
		sets[i] = quoteIdent(a.Column) + " = ?"
		params = append(params, toParam(ir.Coerce(a.Value)))
	}
	where, whereParams := compileWhere(u.Where)
	params = append(params, whereParams...)
	return fmt.Sprintf("UPDATE %s SET %s%s", quoteIdent(u.Table), strings.Join(sets, ", "), where), params, nil
}

// compileWhere returns " WHERE ..." and its parameters, or "" and nil.
func compileWhere(conds []queryir.Condition) (string, []any) {
	if len(conds) == 0 {
		return "", nil
	}
	parts := make([]string, len(conds))
	params := make([]any, len(conds))
	for i, c := range conds {
		col := quoteRef(c.Column)
		switch c.Op {
		case queryir.OpLike:
			parts[i] = fmt.Sprintf("instr(%s, ?) > 0", col)
			params[i] = c.Value
		case queryir.OpNe:
			parts[i] = fmt.Sprintf("%s IS NOT ?", col)
			params[i] = toParam(literalValue(c.Value))
		default:
			parts[i] = fmt.Sprintf("%s %s ?", col, c.Op)
			params[i] = toParam(literalValue(c.Value))
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), params
}

// literalValue reads condition text: numeric text is a number, anything
// else stays text. Unlike ir.Coerce the empty literal stays an empty string.
func literalValue(s string) ir.Value {
	if ir.IsNumeric(s) {
		return ir.Coerce(s)
	}
	return ir.Text(s)
}

// toParam converts a Value into a database/sql parameter.
func toParam(v ir.Value) any {
	switch val := v.(type) {
	case ir.Number:
		return float64(val)
	case ir.Text:
		return string(val)
	case ir.Date:
		return string(val)
	case ir.Boolean:
		return bool(val)
	default:
		return nil
	}
}

// quoteIdent double-quotes an identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteRef(ref queryir.ColumnRef) string {
	if ref.Table == "" {
		return quoteIdent(ref.Column)
	}
	return quoteIdent(ref.Table) + "." + quoteIdent(ref.Column)
}
