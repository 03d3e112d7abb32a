// Package jsonval provides an immutable, dynamically shaped JSON value.
//
// A Value is one of Absent, Null, Bool, Number, String, Array or Object.
// Lookups never fail: a missing key, an index out of range or a lookup on
// the wrong kind yields Absent, and every coercion accessor is total,
// returning the zero value of its type when the underlying kind does not
// convert.
//
// Parsing and serialization are backed by bytedance/sonic using the
// standard-library compatible configuration.
//
// Example Usage:
//
//	v := jsonval.Parse(`{"user":{"id":"42","tags":["a","b"]}}`)
//	id := v.Get("user").Get("id").IntValue()   // 42
//	tag := v.Path("user", "tags", 1).StringValue() // "b"
//	missing := v.Get("nope").StringValue()     // ""
package jsonval
