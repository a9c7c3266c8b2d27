package allpaths

import (
	"testing"

	"github.com/autom8ter/allpaths/fieldpath"
	"github.com/autom8ter/allpaths/model"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpansion(t *testing.T) {
	t.Run("entries", func(t *testing.T) {
		idx := newIndex(`{"$**": 1}`, "a")
		exp := NewExpansion(&idx, []fieldpath.Path{"a.b", "c", "a.b"})
		assert.Equal(t, 2, exp.Len())
		assert.Equal(t, &idx, exp.Index())

		entry, ok := exp.Next()
		require.True(t, ok)
		assert.Equal(t, "$**[a.b]", entry.Name)
		assert.True(t, entry.KeyPattern.Equal(model.MustParseKeyPattern(`{"$_path": 1, "a.b": 1}`)))
		assert.Equal(t, []fieldpath.Path{"a"}, entry.MultikeyPaths)
		assert.True(t, entry.IsWildcard())
		assert.True(t, entry.IsMultikey("a.b"))

		entry, ok = exp.Next()
		require.True(t, ok)
		assert.Equal(t, fieldpath.Path("c"), entry.Path)
		assert.Empty(t, entry.MultikeyPaths)

		_, ok = exp.Next()
		assert.False(t, ok)
		exp.Reset()
		entry, ok = exp.Next()
		require.True(t, ok)
		assert.Equal(t, fieldpath.Path("a.b"), entry.Path)
	})
	t.Run("descending", func(t *testing.T) {
		idx := newIndex(`{"$**": -1}`)
		exp := NewExpansion(&idx, []fieldpath.Path{"x"})
		entry, ok := exp.Lookup("x")
		require.True(t, ok)
		assert.Equal(t, -1, entry.KeyPattern[1].Direction)
	})
	t.Run("prefix and projection", func(t *testing.T) {
		idx := newIndex(`{"a.$**": 1}`)
		exp := NewExpansion(&idx, []fieldpath.Path{"a", "a.b", "ab", "b"})
		assert.Equal(t, 2, exp.Len())
		_, ok := exp.Lookup("ab")
		assert.False(t, ok)

		idx = newIndex(`{"$**": 1}`)
		idx.WildcardProjection = model.MustParseProjection(`{"b": 0}`)
		exp = NewExpansion(&idx, []fieldpath.Path{"a", "b", "b.c"})
		assert.Equal(t, 1, exp.Len())
	})
	t.Run("lookups are cached", func(t *testing.T) {
		idx := newIndex(`{"$**": 1}`)
		path := fieldpath.Path(gofakeit.Word())
		exp := NewExpansion(&idx, []fieldpath.Path{path})
		first, ok := exp.Lookup(path)
		require.True(t, ok)
		second, _ := exp.Lookup(path)
		assert.Equal(t, first, second)
		assert.Len(t, exp.entries, 1)
	})
	t.Run("invalid indexes panic", func(t *testing.T) {
		regular := newIndex(`{"a": 1}`)
		assert.Panics(t, func() {
			NewExpansion(&regular, nil)
		})
		outside := newIndex(`{"a.$**": 1}`, "b")
		assert.Panics(t, func() {
			NewExpansion(&outside, nil)
		})
	})
}
