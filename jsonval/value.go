package jsonval

import (
	"math"
	"sort"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	Absent Kind = iota
	Null
	Bool
	Number
	String
	Array
	Object
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is an immutable JSON value. The zero Value is Absent.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  map[string]Value
}

// Kind returns the variant of v.
func (v Value) Kind() Kind {
	return v.kind
}

// Exists reports whether v holds anything, including a JSON null.
func (v Value) Exists() bool {
	return v.kind != Absent
}

// IsNull reports whether v is a JSON null.
func (v Value) IsNull() bool {
	return v.kind == Null
}

// Get returns the member named key. Anything other than an object, or a
// missing key, yields Absent.
func (v Value) Get(key string) Value {
	if v.kind != Object {
		return Value{}
	}
	return v.obj[key]
}

// At returns the element at index. Anything other than an array, or an
// index out of range, yields Absent.
func (v Value) At(index int) Value {
	if v.kind != Array || index < 0 || index >= len(v.arr) {
		return Value{}
	}
	return v.arr[index]
}

// Path walks a sequence of keys (string) and indexes (int). Steps of any
// other type yield Absent.
func (v Value) Path(steps ...any) Value {
	cur := v
	for _, step := range steps {
		switch s := step.(type) {
		case string:
			cur = cur.Get(s)
		case int:
			cur = cur.At(s)
		default:
			return Value{}
		}
		if cur.kind == Absent {
			return cur
		}
	}
	return cur
}

// Len returns the number of elements of an array or members of an object.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj)
	default:
		return 0
	}
}

// Keys returns the sorted member names of an object.
func (v Value) Keys() []string {
	if v.kind != Object {
		return []string{}
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Interface converts v back into plain Go values: map[string]any, []any,
// float64, string, bool or nil.
func (v Value) Interface() any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		return v.n
	case String:
		return v.s
	case Array:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Interface()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal reports deep structural equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Bool:
		return v.b == other.b
	case Number:
		return v.n == other.n || (math.IsNaN(v.n) && math.IsNaN(other.n))
	case String:
		return v.s == other.s
	case Array:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, e := range v.obj {
			o, ok := other.obj[k]
			if !ok || !e.Equal(o) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
