package pestel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	t.Run("nil is absent", func(t *testing.T) {
		assert.Equal(t, Absent, Coerce(nil).Kind)
	})

	t.Run("blank string is absent", func(t *testing.T) {
		assert.Equal(t, Absent, Coerce("   ").Kind)
	})

	t.Run("object passes through", func(t *testing.T) {
		obj := map[string]any{"a": 1.0}
		c := Coerce(obj)
		require.Equal(t, Parsed, c.Kind)
		assert.Equal(t, obj, c.Object)
	})

	t.Run("json object string", func(t *testing.T) {
		c := Coerce(`{"executive_summary": "ok"}`)
		require.Equal(t, Parsed, c.Kind)
		assert.Equal(t, "ok", c.Object["executive_summary"])
	})

	t.Run("double encoded object", func(t *testing.T) {
		c := Coerce(`"{\"a\": 1}"`)
		require.Equal(t, Parsed, c.Kind)
		assert.Equal(t, 1.0, c.Object["a"])
	})

	t.Run("invalid json keeps original text", func(t *testing.T) {
		c := Coerce("{not valid json")
		require.Equal(t, Opaque, c.Kind)
		assert.Equal(t, "{not valid json", c.Text)
	})

	t.Run("trailing garbage is rejected", func(t *testing.T) {
		c := Coerce(`{"a": 1} extra`)
		require.Equal(t, Opaque, c.Kind)
		assert.Equal(t, `{"a": 1} extra`, c.Text)
	})

	t.Run("json array is opaque", func(t *testing.T) {
		c := Coerce("[1,2]")
		require.Equal(t, Opaque, c.Kind)
		assert.Equal(t, "[1,2]", c.Text)
	})

	t.Run("number is stringified", func(t *testing.T) {
		c := Coerce(42.0)
		require.Equal(t, Opaque, c.Kind)
		assert.Equal(t, "42", c.Text)
	})

	t.Run("raw message", func(t *testing.T) {
		c := Coerce(json.RawMessage(`"{\"b\": 2}"`))
		require.Equal(t, Parsed, c.Kind)
		assert.Equal(t, 2.0, c.Object["b"])
	})
}

func TestStringsOf(t *testing.T) {
	got, ok := stringsOf([]any{" a ", "", 3.0})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "3"}, got)

	got, ok = stringsOf(`["x","y"]`)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, got)

	_, ok = stringsOf(nil)
	assert.False(t, ok)
}
