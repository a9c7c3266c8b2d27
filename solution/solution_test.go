package solution_test

import (
	"testing"

	"github.com/autom8ter/allpaths/bounds"
	"github.com/autom8ter/allpaths/expr"
	"github.com/autom8ter/allpaths/model"
	"github.com/autom8ter/allpaths/solution"
	"github.com/autom8ter/allpaths/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func wildcardScan() *solution.IndexScan {
	idx := &model.Index{Name: "$**_1", KeyPattern: model.MustParseKeyPattern(`{"$**": 1}`)}
	return &solution.IndexScan{
		Entry: model.IndexEntry{
			Name:       "$**_1[a.b]",
			KeyPattern: model.MustParseKeyPattern(`{"$_path": 1, "a.b": 1}`),
			Index:      idx,
			Path:       "a.b",
		},
		Bounds: bounds.IndexBounds{Fields: []bounds.OrderedIntervalList{
			bounds.NewOIL("$_path", bounds.PathPoint("a.b")),
			bounds.NewOIL("a.b", bounds.Range(0, 9, false, false)),
		}},
		Direction: 1,
	}
}

func TestString(t *testing.T) {
	t.Run("fetch index scan", func(t *testing.T) {
		s := &solution.Solution{Root: &solution.Fetch{
			Filter: expr.MustParse(`{"b": 10}`),
			Child:  wildcardScan(),
		}}
		assert.Equal(t,
			`{fetch: {filter: {b: {$eq: 10}}, node: {ixscan: {pattern: {$_path: 1, a.b: 1}, filter: null, bounds: {$_path: [["a.b", "a.b"]], a.b: [(0, 9)]}, dir: 1}}}}`,
			s.String(),
		)
		assert.False(t, s.HasBlockingSort())
		assert.Equal(t, []string{"$**_1[a.b]"}, s.IndexNames())
		assert.Len(t, s.IndexScans(), 1)
	})
	t.Run("blocking sort", func(t *testing.T) {
		s := &solution.Solution{Root: &solution.Sort{
			Pattern: model.MustParseKeyPattern(`{"a": 1}`),
			Child:   &solution.SortKeyGen{Child: &solution.CollectionScan{Direction: 1}},
		}}
		assert.Equal(t, `{sort: {pattern: {a: 1}, limit: 0, node: {sortKeyGen: {node: {cscan: {dir: 1, filter: null}}}}}}`, s.String())
		assert.True(t, s.HasBlockingSort())
		assert.Empty(t, s.IndexNames())
	})
	t.Run("text", func(t *testing.T) {
		n := &solution.Text{Prefix: value.Doc{{Key: "a", Value: 10}}, Search: "banana"}
		assert.Equal(t, `{text: {prefix: {a: 10}, search: "banana", filter: null}}`, n.String())
	})
	t.Run("walk", func(t *testing.T) {
		root := &solution.Limit{N: 5, Child: &solution.Fetch{Child: &solution.Or{Nodes: []solution.Node{wildcardScan(), wildcardScan()}}}}
		var stages []solution.Stage
		solution.Walk(root, func(n solution.Node) {
			stages = append(stages, n.Stage())
		})
		assert.Equal(t, []solution.Stage{
			solution.StageLimit, solution.StageFetch, solution.StageOr, solution.StageIndexScan, solution.StageIndexScan,
		}, stages)
	})
}

func TestExplain(t *testing.T) {
	root := &solution.Projection{
		Spec: model.MustParseProjection(`{"_id": 0, "a.b": 1}`),
		Child: &solution.Skip{N: 8, Child: &solution.Or{Nodes: []solution.Node{
			wildcardScan(),
			&solution.IndexScan{Entry: model.IndexEntry{Name: "b_1", KeyPattern: model.MustParseKeyPattern(`{"b": 1}`)}, Direction: -1},
		}}},
	}
	out, err := solution.Explain(root)
	require.NoError(t, err)
	r := gjson.Parse(out)
	assert.Equal(t, "PROJECTION", r.Get("stage").String())
	assert.Equal(t, int64(0), r.Get("transformBy._id").Int())
	assert.Equal(t, int64(8), r.Get("inputStage.skipAmount").Int())
	stages := r.Get("inputStage.inputStage.inputStages").Array()
	require.Len(t, stages, 2)
	assert.Equal(t, "$**_1[a.b]", stages[0].Get("indexName").String())
	assert.Equal(t, `["a.b", "a.b"]`, stages[0].Get(`indexBounds.\$_path.0`).String())
	assert.Equal(t, "(0, 9)", stages[0].Get(`indexBounds.a\.b.0`).String())
	assert.False(t, stages[0].Get("isMultiKey").Bool())
	assert.Equal(t, "backward", stages[1].Get("direction").String())
}
