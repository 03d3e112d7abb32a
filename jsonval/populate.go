package jsonval

import (
	"errors"
	"reflect"
	"strings"
)

// ErrNotStructPointer is returned by Populate for a destination that is not
// a non-nil pointer to a struct.
var ErrNotStructPointer = errors.New("jsonval: destination must be a non-nil struct pointer")

// Populate copies the members of an object into the exported fields of the
// struct dst points to. A field is matched by its json tag name, or by its
// Go name. String, integer, float and bool fields are filled through the
// total coercion accessors, so a missing or mismatched member leaves the
// zero value; nested structs are populated recursively and fields of any
// other type are left untouched.
func (v Value) Populate(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	v.populateStruct(rv.Elem())
	return nil
}

func (v Value) populateStruct(sv reflect.Value) {
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if !field.IsExported() {
			continue
		}
		name, skip := fieldName(field)
		if skip {
			continue
		}
		member := v.Get(name)
		fv := sv.Field(i)

		switch fv.Kind() {
		case reflect.String:
			fv.SetString(member.StringValue())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n := int64(member.IntValue())
			if !fv.OverflowInt(n) {
				fv.SetInt(n)
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if n := member.IntValue(); n >= 0 && !fv.OverflowUint(uint64(n)) {
				fv.SetUint(uint64(n))
			}
		case reflect.Float32, reflect.Float64:
			fv.SetFloat(member.FloatValue())
		case reflect.Bool:
			fv.SetBool(member.BoolValue())
		case reflect.Struct:
			if fv.Type() == reflect.TypeOf(Value{}) {
				fv.Set(reflect.ValueOf(member))
				continue
			}
			member.populateStruct(fv)
		}
	}
}

func fieldName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, false
	}
	return field.Name, false
}
