package jsonval

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("object navigation", func(t *testing.T) {
		v := Parse(`{"user":{"name":"ada","tags":["x","y"],"age":36}}`)

		require.Equal(t, Object, v.Kind())
		assert.Equal(t, "ada", v.Get("user").Get("name").StringValue())
		assert.Equal(t, "y", v.Path("user", "tags", 1).StringValue())
		assert.Equal(t, 36, v.Path("user", "age").IntValue())
		assert.Equal(t, []string{"age", "name", "tags"}, v.Get("user").Keys())
	})

	t.Run("fragments", func(t *testing.T) {
		assert.Equal(t, Number, Parse("42").Kind())
		assert.Equal(t, String, Parse(`"hi"`).Kind())
		assert.Equal(t, Bool, Parse("true").Kind())
		assert.Equal(t, Null, Parse("null").Kind())
	})

	t.Run("malformed input is absent", func(t *testing.T) {
		for _, text := range []string{"", "{", "[1,", "nope", `{"a":}`} {
			v := Parse(text)
			assert.False(t, v.Exists(), "input %q", text)
			assert.Equal(t, Absent, v.Kind())
		}
	})

	t.Run("parse error is reported", func(t *testing.T) {
		v, err := ParseErr([]byte("{"))
		assert.Error(t, err)
		assert.False(t, v.Exists())

		v, err = ParseErr([]byte(`{"a":1}`))
		require.NoError(t, err)
		assert.Equal(t, 1, v.Get("a").IntValue())
	})
}

func TestLookupOnWrongKind(t *testing.T) {
	values := []Value{{}, Parse("null"), Parse("1"), Parse(`"s"`), Parse("[1]"), Parse(`{"a":1}`)}

	for _, v := range values {
		t.Run(v.Kind().String(), func(t *testing.T) {
			assert.False(t, v.Get("missing").Exists())
			assert.False(t, v.At(5).Exists())
			assert.False(t, v.At(-1).Exists())
			assert.False(t, v.Path("a", 0, "b").Exists())
			assert.False(t, v.Path(3.5).Exists())
		})
	}

	arr := Parse("[1]")
	assert.False(t, arr.Get("0").Exists())
	obj := Parse(`{"0":1}`)
	assert.False(t, obj.At(0).Exists())
}

func TestSerialize(t *testing.T) {
	t.Run("round trip is canonical", func(t *testing.T) {
		v := Parse(`{ "b": [1, 2.5, "x", null, true], "a": {"z": false} }`)

		out, ok := v.Serialize()
		require.True(t, ok)
		assert.Equal(t, `{"a":{"z":false},"b":[1,2.5,"x",null,true]}`, out)
		assert.True(t, Parse(out).Equal(v))
	})

	t.Run("absent does not serialize", func(t *testing.T) {
		out, ok := Value{}.Serialize()
		assert.False(t, ok)
		assert.Empty(t, out)
		assert.Empty(t, Value{}.Raw())
	})

	t.Run("raw is indented", func(t *testing.T) {
		assert.Equal(t, "{\n  \"a\": 1\n}", Parse(`{"a":1}`).Raw())
	})

	t.Run("json interop", func(t *testing.T) {
		type envelope struct {
			Data Value `json:"data"`
		}
		var env envelope
		require.NoError(t, json.Unmarshal([]byte(`{"data":{"k":[1,2]}}`), &env))
		assert.Equal(t, 2, env.Data.Get("k").At(1).IntValue())

		out, err := json.Marshal(env)
		require.NoError(t, err)
		assert.JSONEq(t, `{"data":{"k":[1,2]}}`, string(out))
	})
}

func TestLiteralConstruction(t *testing.T) {
	t.Run("literals match parsed text", func(t *testing.T) {
		lit := ObjectOf(map[string]any{
			"name":  "ada",
			"age":   36,
			"ratio": 0.5,
			"ok":    true,
			"none":  nil,
			"tags":  []any{"x", 2, false},
			"inner": map[string]any{"k": "v"},
		})
		parsed := Parse(`{"name":"ada","age":36,"ratio":0.5,"ok":true,"none":null,"tags":["x",2,false],"inner":{"k":"v"}}`)

		assert.True(t, lit.Equal(parsed))
		a, _ := lit.Serialize()
		b, _ := parsed.Serialize()
		assert.Equal(t, b, a)
	})

	t.Run("array literal", func(t *testing.T) {
		assert.True(t, ArrayOf(1, "two", 3.0).Equal(Parse(`[1,"two",3]`)))
	})

	t.Run("typed slices and maps", func(t *testing.T) {
		assert.True(t, Of([]string{"a", "b"}).Equal(Parse(`["a","b"]`)))
		assert.True(t, Of(map[string]int{"a": 1}).Equal(Parse(`{"a":1}`)))
	})

	t.Run("structs go through the encoder", func(t *testing.T) {
		type point struct {
			X int `json:"x"`
			Y int `json:"y"`
		}
		assert.True(t, Of(point{X: 1, Y: 2}).Equal(Parse(`{"x":1,"y":2}`)))
	})

	t.Run("nested values are kept", func(t *testing.T) {
		inner := Parse(`{"k":1}`)
		assert.True(t, ArrayOf(inner).At(0).Equal(inner))
	})
}

func TestImmutability(t *testing.T) {
	v := Parse(`{"a":[1,2,3]}`)

	elems := v.Get("a").ArrayValue()
	elems[0] = Of("changed")
	members := v.MapValue()
	delete(members, "a")

	assert.Equal(t, 1, v.Get("a").At(0).IntValue())
	assert.True(t, v.Get("a").Exists())
}
