package fieldpath_test

import (
	"testing"

	"github.com/autom8ter/allpaths/fieldpath"
	"github.com/stretchr/testify/assert"
)

func TestPath(t *testing.T) {
	t.Run("components", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, fieldpath.Path("a.b.c").Components())
		assert.Nil(t, fieldpath.Path("").Components())
		assert.Equal(t, 3, fieldpath.Path("a.b.c").Len())
		assert.Equal(t, 0, fieldpath.Path("").Len())
	})
	t.Run("prefix", func(t *testing.T) {
		p := fieldpath.Path("a.b.c")
		assert.Equal(t, fieldpath.Path("a"), p.Prefix(1))
		assert.Equal(t, fieldpath.Path("a.b"), p.Prefix(2))
		assert.Equal(t, p, p.Prefix(5))
		assert.Equal(t, fieldpath.Path(""), p.Prefix(0))
	})
	t.Run("is prefix of", func(t *testing.T) {
		assert.True(t, fieldpath.Path("a").IsPrefixOf("a.b"))
		assert.True(t, fieldpath.Path("a").IsPrefixOf("a"))
		assert.False(t, fieldpath.Path("a").IsPrefixOf("ab"))
		assert.False(t, fieldpath.Path("a.b").IsPrefixOf("a"))
		assert.True(t, fieldpath.Path("").IsPrefixOf("x"))
	})
	t.Run("join", func(t *testing.T) {
		assert.Equal(t, fieldpath.Path("a.b.c.d.e.f"), fieldpath.Path("a.b.c").Join("d.e.f"))
		assert.Equal(t, fieldpath.Path("x"), fieldpath.Path("").Join("x"))
		assert.Equal(t, fieldpath.Path("x"), fieldpath.Path("x").Join(""))
		assert.Equal(t, fieldpath.Path("a.b"), fieldpath.New("a", "b"))
	})
	t.Run("valid", func(t *testing.T) {
		assert.True(t, fieldpath.Path("a.b").Valid())
		assert.False(t, fieldpath.Path("a..b").Valid())
		assert.False(t, fieldpath.Path("").Valid())
		assert.False(t, fieldpath.Path("a.").Valid())
	})
	t.Run("positions", func(t *testing.T) {
		p := fieldpath.Path("a.b.c")
		assert.Equal(t, []int{0, 2}, p.PositionsIn([]fieldpath.Path{"a", "a.b.c", "x"}))
		assert.Nil(t, p.PositionsIn([]fieldpath.Path{"b", "c"}))
	})
}
