package jsonval

import (
	"math"
	"strconv"
	"strings"
)

// Int returns v as an int. Numbers are truncated, numeric text is parsed
// and true counts as 1. Values outside the int range report false.
func (v Value) Int() (int, bool) {
	f, ok := v.Float()
	if !ok || math.IsNaN(f) || f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return 0, false
	}
	if v.kind == String {
		if i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64); err == nil {
			return int(i), true
		}
	}
	return int(f), true
}

// IntValue returns Int or 0.
func (v Value) IntValue() int {
	i, _ := v.Int()
	return i
}

// Float returns v as a float64. Numeric text is parsed and true counts as 1.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case Number:
		return v.n, true
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case Bool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// FloatValue returns Float or 0.
func (v Value) FloatValue() float64 {
	f, _ := v.Float()
	return f
}

// Str returns v as text. Booleans render as "true"/"false" and numbers in
// their shortest decimal form.
func (v Value) Str() (string, bool) {
	switch v.kind {
	case String:
		return v.s, true
	case Bool:
		return strconv.FormatBool(v.b), true
	case Number:
		return strconv.FormatFloat(v.n, 'f', -1, 64), true
	default:
		return "", false
	}
}

// StringValue returns Str or "".
func (v Value) StringValue() string {
	s, _ := v.Str()
	return s
}

// Boolean returns v as a bool. Any non-zero number is true and text is
// accepted in the forms understood by strconv.ParseBool.
func (v Value) Boolean() (bool, bool) {
	switch v.kind {
	case Bool:
		return v.b, true
	case Number:
		return v.n != 0, true
	case String:
		b, err := strconv.ParseBool(strings.TrimSpace(v.s))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

// BoolValue returns Boolean or false.
func (v Value) BoolValue() bool {
	b, _ := v.Boolean()
	return b
}

// Elements returns a copy of the elements of an array.
func (v Value) Elements() ([]Value, bool) {
	if v.kind != Array {
		return nil, false
	}
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out, true
}

// ArrayValue returns Elements or an empty slice.
func (v Value) ArrayValue() []Value {
	if out, ok := v.Elements(); ok {
		return out
	}
	return []Value{}
}

// Members returns a copy of the members of an object.
func (v Value) Members() (map[string]Value, bool) {
	if v.kind != Object {
		return nil, false
	}
	out := make(map[string]Value, len(v.obj))
	for k, e := range v.obj {
		out[k] = e
	}
	return out, true
}

// MapValue returns Members or an empty map.
func (v Value) MapValue() map[string]Value {
	if out, ok := v.Members(); ok {
		return out
	}
	return map[string]Value{}
}
