package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Value is a sealed interface representing a scalar cell value.
// Only Null, Text, Number, Boolean, and Date implement this.
type Value interface {
	// String returns the textual form used by LIKE, equality fallback and display.
	String() string
	// Kind names the variant.
	Kind() Kind
	value() // Sealed - only these types implement it
}

// Kind names a Value variant.
type Kind string

const (
	KindNull    Kind = "null"
	KindText    Kind = "text"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindDate    Kind = "date"
)

// Null is the absent value. A row cell that is missing reads as Null.
type Null struct{}

func (Null) value()         {}
func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "NULL" }

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Text is a string value.
type Text string

func (Text) value()           {}
func (Text) Kind() Kind       { return KindText }
func (t Text) String() string { return string(t) }

// Number is a numeric value. NaN and infinities never occur: coercion
// rejects them and NewNumber panics on them.
type Number float64

func (Number) value()     {}
func (Number) Kind() Kind { return KindNumber }

// String formats the number in its shortest decimal form ("30", not "30.0").
func (n Number) String() string {
	return formatNumber(float64(n))
}

// Boolean is a true/false value.
type Boolean bool

func (Boolean) value()           {}
func (Boolean) Kind() Kind       { return KindBoolean }
func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }

// Date is an ISO-8601 date or timestamp kept in its textual form.
// Ordering is lexicographic, which is chronological for ISO-8601.
type Date string

func (Date) value()           {}
func (Date) Kind() Kind       { return KindDate }
func (d Date) String() string { return string(d) }

// NewNumber creates a Number value.
func NewNumber(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Sprintf("ir: non-finite number %v", f))
	}
	return Number(f)
}

// IsNull reports whether v is Null (a nil Value counts as Null).
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// formatNumber renders a float64 the way the SQL text and JSON output expect.
func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseNumber parses s as a finite number. The whole string must be numeric.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsNumeric reports whether s parses fully as a finite number.
func IsNumeric(s string) bool {
	_, ok := parseNumber(s)
	return ok
}

// isISODate reports whether s looks like an ISO-8601 date or timestamp.
func isISODate(s string) bool {
	for _, layout := range []string{"2006-01-02", time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// AsNumber returns the numeric reading of v: a Number directly, or Text/Date
// that parses fully as a number.
func AsNumber(v Value) (float64, bool) {
	switch val := v.(type) {
	case Number:
		return float64(val), true
	case Text:
		return parseNumber(string(val))
	case Date:
		return parseNumber(string(val))
	default:
		return 0, false
	}
}

// Equal implements value equality for conditions and join keys.
//
// Null equals nothing, not even Null. When either side is a Number and the
// other side reads as a number, the comparison is numeric; otherwise the
// textual forms are compared.
func Equal(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return false
	}
	_, aNum := a.(Number)
	_, bNum := b.(Number)
	if aNum || bNum {
		af, aok := AsNumber(a)
		bf, bok := AsNumber(b)
		if aok && bok {
			return af == bf
		}
	}
	return a.String() == b.String()
}

// Compare orders v against a literal. Only Number vs numeric literal and
// Date vs ISO-8601 literal are ordered; everything else reports ok=false.
func Compare(v Value, literal string) (cmp int, ok bool) {
	switch val := v.(type) {
	case Number:
		f, isNum := parseNumber(literal)
		if !isNum {
			return 0, false
		}
		switch {
		case float64(val) < f:
			return -1, true
		case float64(val) > f:
			return 1, true
		default:
			return 0, true
		}
	case Date:
		if !isISODate(literal) {
			return 0, false
		}
		switch {
		case string(val) < literal:
			return -1, true
		case string(val) > literal:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

// MarshalValue marshals a Value to its natural JSON form.
// Date marshals as a JSON string; use the storage encoding to keep the variant.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case nil, Null:
		return []byte("null"), nil
	case Text:
		return json.Marshal(string(val))
	case Number:
		return []byte(formatNumber(float64(val))), nil
	case Boolean:
		return json.Marshal(bool(val))
	case Date:
		return json.Marshal(string(val))
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// FromAny converts a decoded JSON scalar into a Value.
// Strings stay Text; use Coerce for the INSERT/UPDATE text rule.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case string:
		return Text(val), nil
	case bool:
		return Boolean(val), nil
	case int:
		return Number(float64(val)), nil
	case int64:
		return Number(float64(val)), nil
	case uint64:
		return Number(float64(val)), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("non-finite number %v", val)
		}
		return Number(val), nil
	case json.Number:
		f, ok := parseNumber(string(val))
		if !ok {
			return nil, fmt.Errorf("invalid number %q", val)
		}
		return Number(f), nil
	case time.Time:
		if val.Equal(val.Truncate(24 * time.Hour)) {
			return Date(val.Format("2006-01-02")), nil
		}
		return Date(val.Format(time.RFC3339)), nil
	default:
		return nil, fmt.Errorf("unsupported scalar type: %T", v)
	}
}
