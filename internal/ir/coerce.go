package ir

import "strings"

// Coerce converts raw text input from INSERT or UPDATE into a Value.
//
//   - "" becomes Null
//   - text that parses fully as a finite number becomes Number
//   - anything else stays Text
//
// Surrounding whitespace is significant: " 30" stays Text.
func Coerce(s string) Value {
	return CoerceAs(s, "")
}

// CoerceAs is Coerce for a column of declared type t. A DATE column keeps
// ISO-8601 text as Date and a BOOLEAN column reads "true"/"false" (any
// case) as Boolean; other text falls back to the Coerce rule.
func CoerceAs(s string, t ColumnType) Value {
	switch t {
	case TypeDate:
		if isISODate(s) {
			return Date(s)
		}
	case TypeBoolean:
		switch strings.ToLower(s) {
		case "true":
			return Boolean(true)
		case "false":
			return Boolean(false)
		}
	}
	if s == "" {
		return Null{}
	}
	if f, ok := parseNumber(s); ok {
		return Number(f)
	}
	return Text(s)
}

// NextID returns 1 + the largest numeric id among rows, or 1 for none.
// Ids that do not read as numbers are ignored.
func NextID(rows []Row) float64 {
	maxID := 0.0
	for _, r := range rows {
		n, ok := AsNumber(r.Get(IDColumn))
		if !ok {
			continue
		}
		if n > maxID {
			maxID = n
		}
	}
	return maxID + 1
}
