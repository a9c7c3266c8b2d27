package bounds_test

import (
	"math"
	"testing"

	"github.com/autom8ter/allpaths/bounds"
	"github.com/autom8ter/allpaths/value"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

func oil(intervals ...bounds.Interval) bounds.OrderedIntervalList {
	return bounds.NewOIL("a", intervals...)
}

func TestInterval(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.True(t, bounds.Range(10, 5, true, true).Empty())
		assert.True(t, bounds.Range(5, 5, true, false).Empty())
		assert.False(t, bounds.Point(5).Empty())
	})
	t.Run("contains", func(t *testing.T) {
		i := bounds.Range(0, 9, false, true)
		assert.False(t, i.Contains(0))
		assert.True(t, i.Contains(9))
		assert.True(t, i.Contains(4.5))
		assert.False(t, i.Contains("4"))
	})
	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "(0, 9)", bounds.Range(0, 9, false, false).String())
		assert.Equal(t, "[MinKey, MaxKey]", bounds.AllValues().String())
		assert.Equal(t, `["a.", "a/")`, bounds.PathPrefixRange("a").String())
	})
	t.Run("reverse", func(t *testing.T) {
		assert.Equal(t, "[9, 0)", bounds.Range(0, 9, false, true).Reverse().String())
	})
}

func TestIntersect(t *testing.T) {
	t.Run("overlapping ranges", func(t *testing.T) {
		out := bounds.Intersect(oil(bounds.ForComparison(bounds.OpGt, 0)...), oil(bounds.ForComparison(bounds.OpLt, 9)...))
		assert.Equal(t, "[(0, 9)]", out.String())
	})
	t.Run("disjoint ranges", func(t *testing.T) {
		out := bounds.Intersect(oil(bounds.ForComparison(bounds.OpLte, 5)...), oil(bounds.ForComparison(bounds.OpGte, 10)...))
		assert.True(t, out.IsEmpty())
		assert.Equal(t, "[]", out.String())
	})
	t.Run("touching exclusive endpoints", func(t *testing.T) {
		out := bounds.Intersect(oil(bounds.Point(1)), oil(bounds.Range(1, 2, false, true)))
		assert.True(t, out.IsEmpty())
	})
	t.Run("point within range", func(t *testing.T) {
		out := bounds.Intersect(bounds.FullOIL("a"), oil(bounds.Point(5)))
		assert.Equal(t, "[[5, 5]]", out.String())
		assert.True(t, out.IsPoints())
	})
	t.Run("multiple intervals", func(t *testing.T) {
		a := oil(bounds.Range(0, 10, true, true), bounds.Range(20, 30, true, true))
		b := oil(bounds.Range(5, 25, true, false))
		assert.Equal(t, "[[5, 10], [20, 25)]", bounds.Intersect(a, b).String())
	})
	t.Run("commutative", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			x, y := gofakeit.Float64Range(-100, 100), gofakeit.Float64Range(-100, 100)
			a := oil(bounds.ForComparison(bounds.OpGte, x)...)
			b := oil(bounds.ForComparison(bounds.OpLt, y)...)
			assert.True(t, bounds.Intersect(a, b).Equal(bounds.Intersect(b, a)))
		}
	})
}

func TestUnion(t *testing.T) {
	t.Run("adjacent intervals merge", func(t *testing.T) {
		out := bounds.Union(oil(bounds.Range(1, 2, true, false)), oil(bounds.Range(2, 3, true, true)))
		assert.Equal(t, "[[1, 3]]", out.String())
	})
	t.Run("exclusive on both sides stays split", func(t *testing.T) {
		out := bounds.Union(oil(bounds.Range(1, 2, true, false)), oil(bounds.Range(2, 3, false, true)))
		assert.Equal(t, "[[1, 2), (2, 3]]", out.String())
	})
	t.Run("points", func(t *testing.T) {
		out := bounds.Union(oil(bounds.Point(2)), oil(bounds.Point(1), bounds.Point(2)))
		assert.Equal(t, "[[1, 1], [2, 2]]", out.String())
	})
	t.Run("contains", func(t *testing.T) {
		outer := oil(bounds.ForComparison(bounds.OpGt, 0)...)
		assert.True(t, bounds.Contains(outer, oil(bounds.ForComparison(bounds.OpGte, 5)...)))
		assert.True(t, bounds.Contains(outer, oil(bounds.Range(1, 10, true, true))))
		assert.False(t, bounds.Contains(outer, oil(bounds.ForComparison(bounds.OpGte, -1)...)))
		assert.False(t, bounds.Contains(outer, oil(bounds.Point(0))))
		assert.False(t, bounds.Contains(outer, oil(bounds.ForComparison(bounds.OpLte, 10)...)))
	})
}

func TestForComparison(t *testing.T) {
	type testCase struct {
		op     bounds.Op
		value  any
		expect string
	}
	for _, tc := range []testCase{
		{bounds.OpEq, 5, "[[5, 5]]"},
		{bounds.OpGt, 5, "[(5, inf]]"},
		{bounds.OpGte, 5, "[[5, inf]]"},
		{bounds.OpLt, 5, "[[-inf, 5)]"},
		{bounds.OpLte, 5, "[[-inf, 5]]"},
		{bounds.OpGt, "a", `[("a", {})]`},
		{bounds.OpLt, "a", `[["", "a")]`},
		{bounds.OpGt, value.MinKey, "[(MinKey, MaxKey]]"},
		{bounds.OpLt, value.MaxKey, "[[MinKey, MaxKey)]"},
		{bounds.OpGte, value.MinKey, "[[MinKey, MaxKey]]"},
		{bounds.OpLt, value.MinKey, "[]"},
		{bounds.OpGt, value.MaxKey, "[]"},
		{bounds.OpGt, math.NaN(), "[]"},
		{bounds.OpGte, math.NaN(), "[[nan, nan]]"},
		{bounds.OpLt, false, "[]"},
		{bounds.OpGt, false, "[(false, true]]"},
	} {
		assert.Equal(t, tc.expect, oil(bounds.ForComparison(tc.op, tc.value)...).String(), "%v %v", tc.op, tc.value)
	}
}

func TestForEquality(t *testing.T) {
	t.Run("null", func(t *testing.T) {
		i, tight := bounds.ForEquality(nil)
		assert.Equal(t, "[[undefined, undefined], [null, null]]", oil(i...).String())
		assert.Equal(t, bounds.InexactFetch, tight)
	})
	t.Run("in", func(t *testing.T) {
		i, tight := bounds.ForIn([]any{2, 1, 2})
		assert.Equal(t, "[[1, 1], [2, 2]]", oil(i...).String())
		assert.Equal(t, bounds.Exact, tight)
	})
	t.Run("in with null", func(t *testing.T) {
		_, tight := bounds.ForIn([]any{1, nil})
		assert.Equal(t, bounds.InexactFetch, tight)
	})
	t.Run("mod", func(t *testing.T) {
		i, tight := bounds.ForMod()
		assert.Equal(t, "[[nan, inf]]", oil(i...).String())
		assert.Equal(t, bounds.InexactCovered, tight)
	})
}

func TestForRegex(t *testing.T) {
	type testCase struct {
		regex  value.Regex
		expect string
		tight  bounds.Tightness
	}
	for _, tc := range []testCase{
		{value.Regex{Pattern: "^foo"}, `[["foo", "fop"), [/^foo/, /^foo/]]`, bounds.Exact},
		{value.Regex{Pattern: "foo"}, `[["", {}), [/foo/, /foo/]]`, bounds.InexactCovered},
		{value.Regex{Pattern: "^foo.*bar"}, `[["foo", "fop"), [/^foo.*bar/, /^foo.*bar/]]`, bounds.InexactCovered},
		{value.Regex{Pattern: "^foo?"}, `[["fo", "fp"), [/^foo?/, /^foo?/]]`, bounds.InexactCovered},
		{value.Regex{Pattern: "^foo", Flags: "i"}, `[["", {}), [/^foo/i, /^foo/i]]`, bounds.InexactCovered},
		{value.Regex{Pattern: "^a|^b"}, `[["", {}), [/^a|^b/, /^a|^b/]]`, bounds.InexactCovered},
		{value.Regex{Pattern: `\Aab\.c`}, `[["ab.c", "ab.d"), [/\Aab\.c/, /\Aab\.c/]]`, bounds.Exact},
	} {
		t.Run(tc.regex.String(), func(t *testing.T) {
			i, tight := bounds.ForRegex(tc.regex)
			assert.Equal(t, tc.expect, oil(i...).String())
			assert.Equal(t, tc.tight, tight)
		})
	}
}

func TestOverlapsObjects(t *testing.T) {
	assert.True(t, bounds.OverlapsObjects(bounds.FullOIL("a")))
	assert.True(t, bounds.OverlapsObjects(oil(bounds.ForComparison(bounds.OpGt, value.MinKey)...)))
	assert.False(t, bounds.OverlapsObjects(oil(bounds.ForComparison(bounds.OpGt, 5)...)))
	assert.False(t, bounds.OverlapsObjects(oil(bounds.ForComparison(bounds.OpGt, "a")...)))
	assert.False(t, bounds.OverlapsObjects(oil(bounds.ForComparison(bounds.OpLt, "a")...)))
}

func TestIndexBounds(t *testing.T) {
	b := bounds.IndexBounds{Fields: []bounds.OrderedIntervalList{
		bounds.NewOIL("$_path", bounds.PathPoint("a")),
		bounds.NewOIL("a", bounds.Range(0, 9, false, false)),
	}}
	assert.Equal(t, `{$_path: [["a", "a"]], a: [(0, 9)]}`, b.String())
	a, ok := b.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "[(0, 9)]", a.String())
	assert.False(t, b.IsEmpty())
	assert.True(t, b.Equal(b))
	assert.Equal(t, `{$_path: [["a", "a"]], a: [(9, 0)]}`, b.Reverse().String())
}
