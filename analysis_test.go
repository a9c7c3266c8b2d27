package allpaths

import (
	"testing"

	"github.com/autom8ter/allpaths/bounds"
	"github.com/autom8ter/allpaths/expr"
	"github.com/autom8ter/allpaths/model"
	"github.com/autom8ter/allpaths/solution"
	"github.com/stretchr/testify/assert"
)

func scanOf(key string, fields ...bounds.OrderedIntervalList) *scanInfo {
	idx := newIndex(key)
	return &scanInfo{
		scan: &solution.IndexScan{
			Entry:     regularEntry(&idx),
			Bounds:    bounds.IndexBounds{Fields: fields},
			Direction: 1,
		},
		ordered:   true,
		coverable: true,
	}
}

func TestSortDirection(t *testing.T) {
	full := func(f string) bounds.OrderedIntervalList { return bounds.FullOIL(f) }
	point := func(f string) bounds.OrderedIntervalList { return bounds.NewOIL(f, bounds.Point(1)) }

	type testCase struct {
		name string
		info *scanInfo
		sort string
		dir  int
		ok   bool
	}
	for _, tc := range []testCase{
		{"same order", scanOf(`{"a": 1, "b": 1}`, full("a"), full("b")), `{"a": 1}`, 1, true},
		{"reverse order", scanOf(`{"a": 1, "b": 1}`, full("a"), full("b")), `{"a": -1, "b": -1}`, -1, true},
		{"mixed order", scanOf(`{"a": 1, "b": 1}`, full("a"), full("b")), `{"a": 1, "b": -1}`, 0, false},
		{"after a point prefix", scanOf(`{"a": 1, "b": 1}`, point("a"), full("b")), `{"b": 1}`, 1, true},
		{"after a range prefix", scanOf(`{"a": 1, "b": 1}`, full("a"), full("b")), `{"b": 1}`, 0, false},
		{"too many sort fields", scanOf(`{"a": 1}`, full("a")), `{"a": 1, "b": 1}`, 0, false},
		{"descending key", scanOf(`{"a": -1}`, full("a")), `{"a": 1}`, -1, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dir, ok := sortDirection(tc.info, model.MustParseKeyPattern(tc.sort))
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.dir, dir)
		})
	}
	t.Run("unordered scans never provide a sort", func(t *testing.T) {
		info := scanOf(`{"a": 1}`, full("a"))
		info.ordered = false
		_, ok := sortDirection(info, model.MustParseKeyPattern(`{"a": 1}`))
		assert.False(t, ok)
		_, ok = sortDirection(nil, model.MustParseKeyPattern(`{"a": 1}`))
		assert.False(t, ok)
	})
}

func TestReversed(t *testing.T) {
	info := scanOf(`{"a": 1}`, bounds.NewOIL("a", bounds.Range(0, 9, false, true)))
	r := reversed(info.scan)
	assert.Equal(t, -1, r.Direction)
	assert.Equal(t, "{a: [[9, 0)]}", r.Bounds.String())
	assert.Equal(t, 1, info.scan.Direction)
}

func TestCovers(t *testing.T) {
	info := scanOf(`{"a": 1, "b": 1}`, bounds.FullOIL("a"), bounds.FullOIL("b"))
	a := access{node: info.scan, scan: info}
	assert.True(t, covers(a, model.MustParseProjection(`{"_id": 0, "a": 1, "b": 1}`)))
	assert.False(t, covers(a, model.MustParseProjection(`{"_id": 0, "c": 1}`)))
	assert.False(t, covers(a, model.MustParseProjection(`{"a": 1}`)))
	assert.False(t, covers(a, model.MustParseProjection(`{"a": 0}`)))

	a.residual = expr.MustParse(`{"c": 1}`)
	assert.False(t, covers(a, model.MustParseProjection(`{"_id": 0, "a": 1}`)))

	a.residual = nil
	a.scan.coverable = false
	assert.False(t, covers(a, model.MustParseProjection(`{"_id": 0, "a": 1}`)))
}
