package form

import (
	"math"
	"sort"
	"strconv"
)

// Kind identifies the variant held by a parameter Value.
type Kind int

const (
	Nil Kind = iota
	StringKind
	IntKind
	FloatKind
	BoolKind
)

// Value is a single parameter value. The zero Value is Nil.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

// Params maps parameter names to values.
type Params map[string]Value

// String wraps a string parameter.
func String(s string) Value { return Value{kind: StringKind, s: s} }

// Int wraps an integer parameter.
func Int(i int64) Value { return Value{kind: IntKind, i: i} }

// Float wraps a floating point parameter.
func Float(f float64) Value { return Value{kind: FloatKind, f: f} }

// Bool wraps a boolean parameter.
func Bool(b bool) Value { return Value{kind: BoolKind, b: b} }

// ValueOf converts a Go scalar. Unsupported types become Nil.
func ValueOf(x any) Value {
	switch t := x.(type) {
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return unsigned(uint64(t))
	case uint64:
		return unsigned(t)
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	default:
		return Value{}
	}
}

// unsigned keeps u exact: values above MaxInt64 are sent as decimal text.
func unsigned(u uint64) Value {
	if u > math.MaxInt64 {
		return String(strconv.FormatUint(u, 10))
	}
	return Int(int64(u))
}

// ParamsOf converts a loosely typed map with ValueOf.
func ParamsOf(m map[string]any) Params {
	out := make(Params, len(m))
	for k, v := range m {
		out[k] = ValueOf(v)
	}
	return out
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v carries no usable value.
func (v Value) IsNil() bool { return v.kind == Nil }

// Text renders v as it appears on the wire. Nil renders as "".
func (v Value) Text() string {
	switch v.kind {
	case StringKind:
		return v.s
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case BoolKind:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.Text() }

// Clone returns an independent copy of p.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Keys returns the parameter names in lexicographic order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
