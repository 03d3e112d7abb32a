package jsonval

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/bytedance/sonic"
)

var errEmptyInput = errors.New("empty JSON input")

// Parse decodes text into a Value. Malformed input yields Absent.
func Parse(text string) Value {
	v, _ := ParseErr([]byte(text))
	return v
}

// ParseBytes decodes data into a Value. Malformed input yields Absent.
func ParseBytes(data []byte) Value {
	v, _ := ParseErr(data)
	return v
}

// ParseErr decodes data like ParseBytes and also returns the decode error,
// for callers that want to surface a diagnostic.
func ParseErr(data []byte) (Value, error) {
	if len(data) == 0 {
		return Value{}, errEmptyInput
	}
	var native any
	if err := sonic.ConfigStd.Unmarshal(data, &native); err != nil {
		return Value{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return fromNative(native), nil
}

// Of wraps a Go literal. Maps, slices, scalars and nested Values are
// converted directly; anything else round-trips through the JSON encoder so
// the result matches parsing the equivalent text. Unencodable input yields
// Absent.
func Of(x any) Value {
	switch t := x.(type) {
	case Value:
		return t
	case nil:
		return Value{kind: Null}
	case bool:
		return Value{kind: Bool, b: t}
	case string:
		return Value{kind: String, s: t}
	case float64:
		return Value{kind: Number, n: t}
	case float32:
		return Value{kind: Number, n: float64(t)}
	case int:
		return Value{kind: Number, n: float64(t)}
	case int8:
		return Value{kind: Number, n: float64(t)}
	case int16:
		return Value{kind: Number, n: float64(t)}
	case int32:
		return Value{kind: Number, n: float64(t)}
	case int64:
		return Value{kind: Number, n: float64(t)}
	case uint:
		return Value{kind: Number, n: float64(t)}
	case uint8:
		return Value{kind: Number, n: float64(t)}
	case uint16:
		return Value{kind: Number, n: float64(t)}
	case uint32:
		return Value{kind: Number, n: float64(t)}
	case uint64:
		return Value{kind: Number, n: float64(t)}
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}
		}
		return Value{kind: Number, n: f}
	case []any:
		return ArrayOf(t...)
	case []Value:
		arr := make([]Value, len(t))
		copy(arr, t)
		return Value{kind: Array, arr: arr}
	case map[string]any:
		return ObjectOf(t)
	case map[string]Value:
		obj := make(map[string]Value, len(t))
		for k, e := range t {
			obj[k] = e
		}
		return Value{kind: Object, obj: obj}
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		arr := make([]Value, rv.Len())
		for i := range arr {
			arr[i] = Of(rv.Index(i).Interface())
		}
		return Value{kind: Array, arr: arr}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		obj := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			obj[iter.Key().String()] = Of(iter.Value().Interface())
		}
		return Value{kind: Object, obj: obj}
	}

	data, err := sonic.ConfigStd.Marshal(x)
	if err != nil {
		return Value{}
	}
	return ParseBytes(data)
}

// ArrayOf builds an array Value from literal elements.
func ArrayOf(elems ...any) Value {
	arr := make([]Value, len(elems))
	for i, e := range elems {
		arr[i] = Of(e)
	}
	return Value{kind: Array, arr: arr}
}

// ObjectOf builds an object Value from a literal map.
func ObjectOf(members map[string]any) Value {
	obj := make(map[string]Value, len(members))
	for k, e := range members {
		obj[k] = Of(e)
	}
	return Value{kind: Object, obj: obj}
}

func fromNative(x any) Value {
	switch t := x.(type) {
	case nil:
		return Value{kind: Null}
	case bool:
		return Value{kind: Bool, b: t}
	case float64:
		return Value{kind: Number, n: t}
	case string:
		return Value{kind: String, s: t}
	case []any:
		arr := make([]Value, len(t))
		for i, e := range t {
			arr[i] = fromNative(e)
		}
		return Value{kind: Array, arr: arr}
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, e := range t {
			obj[k] = fromNative(e)
		}
		return Value{kind: Object, obj: obj}
	default:
		return Of(t)
	}
}

// Serialize renders v as compact JSON with object keys sorted. It reports
// false for Absent and for values the encoder rejects (NaN, infinities).
func (v Value) Serialize() (string, bool) {
	if v.kind == Absent {
		return "", false
	}
	out, err := sonic.ConfigStd.MarshalToString(v.Interface())
	if err != nil {
		return "", false
	}
	return out, true
}

// Raw renders v as indented JSON, or "" when it cannot be serialized.
func (v Value) Raw() string {
	if v.kind == Absent {
		return ""
	}
	out, err := sonic.ConfigStd.MarshalIndent(v.Interface(), "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}

// String implements fmt.Stringer with the compact serialization.
func (v Value) String() string {
	s, _ := v.Serialize()
	return s
}

// MarshalJSON implements json.Marshaler. Absent encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == Absent {
		return []byte("null"), nil
	}
	return sonic.ConfigStd.Marshal(v.Interface())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseErr(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
