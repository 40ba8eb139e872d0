package querysql

import (
	"strings"

	"github.com/roach88/relviz/internal/ir"
	"github.com/roach88/relviz/internal/queryir"
)

// Render returns the display SQL for q, terminated by ";".
// Returns "" for a nil query.
//
// Example:
//
//	SELECT users.name, orders.product
//	FROM users
//	LEFT JOIN orders ON users.id = orders.user_id
//	WHERE users.age > 30
//	  AND users.name LIKE 'J';
func Render(q queryir.Query) string {
	var sql string
	switch query := queryir.Normalize(q).(type) {
	case queryir.Create:
		sql = renderCreate(query)
	case queryir.Select:
		sql = renderSelect(query)
	case queryir.Insert:
		sql = renderInsert(query)
	case queryir.Update:
		sql = renderUpdate(query)
	case queryir.Delete:
		sql = "DELETE FROM " + query.Table + renderWhere(query.Where)
	default:
		return ""
	}
	return sql + ";"
}

func renderCreate(c queryir.Create) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(c.Table)
	b.WriteString(" (")
	for i, col := range c.Columns {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n  ")
		b.WriteString(col.Name)
		b.WriteString(" ")
		b.WriteString(strings.ToUpper(string(col.Type)))
	}
	b.WriteString("\n)")
	return b.String()
}

func renderSelect(s queryir.Select) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(renderColumns(s))
	b.WriteString("\nFROM ")
	b.WriteString(s.From)

	for _, j := range s.Joins {
		b.WriteString("\n")
		b.WriteString(string(j.Kind))
		b.WriteString(" JOIN ")
		b.WriteString(j.Table)
		if j.Kind != queryir.JoinCross {
			b.WriteString(" ON ")
			b.WriteString(j.Left.String())
			b.WriteString(" = ")
			b.WriteString(j.Right.String())
		}
	}

	b.WriteString(renderWhere(s.Where))
	return b.String()
}

func renderColumns(s queryir.Select) string {
	if s.Star() {
		return "*"
	}
	names := make([]string, len(s.Columns))
	for i, ref := range s.Columns {
		names[i] = ref.String()
	}
	return strings.Join(names, ", ")
}

func renderInsert(ins queryir.Insert) string {
	if len(ins.Values) == 0 {
		return "INSERT INTO " + ins.Table + "\nDEFAULT VALUES"
	}
	cols := make([]string, len(ins.Values))
	vals := make([]string, len(ins.Values))
	for i, a := range ins.Values {
		cols[i] = a.Column
		vals[i] = renderValue(a.Value)
	}
	return "INSERT INTO " + ins.Table + " (" + strings.Join(cols, ", ") + ")" +
		"\nVALUES (" + strings.Join(vals, ", ") + ")"
}

func renderUpdate(u queryir.Update) string {
	sets := make([]string, len(u.Set))
	for i, a := range u.Set {
		sets[i] = a.Column + " = " + renderValue(a.Value)
	}
	return "UPDATE " + u.Table + "\nSET " + strings.Join(sets, ",\n    ") + renderWhere(u.Where)
}

// renderWhere returns "\nWHERE c1\n  AND c2", or "" with no conditions.
func renderWhere(conds []queryir.Condition) string {
	if len(conds) == 0 {
		return ""
	}
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = c.Column.String() + " " + string(c.Op) + " " + renderLiteral(c.Value)
	}
	return "\nWHERE " + strings.Join(parts, "\n  AND ")
}

// renderLiteral formats condition text: numbers bare, everything else quoted.
func renderLiteral(s string) string {
	if ir.IsNumeric(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// renderValue formats INSERT and UPDATE text the way it will be stored:
// empty text is written as NULL.
func renderValue(s string) string {
	if s == "" {
		return "NULL"
	}
	return renderLiteral(s)
}
