package allpaths

import (
	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/expr"
	"github.com/autom8ter/allpaths/model"
	"github.com/autom8ter/allpaths/solution"
	"github.com/autom8ter/allpaths/value"
	"github.com/samber/lo"
)

// countText returns the number of $text nodes in the tree
func countText(n *expr.Node) int {
	var count int
	n.Walk(func(n *expr.Node) bool {
		if n.Type == expr.Text {
			count++
		}
		return true
	})
	return count
}

// planText returns the text search accesses of a query holding a single $text. Only text indexes can answer such a
// query; the fields preceding the text fields of an index must be matched by top level equalities.
func (pc *planContext) planText(indexes []*model.Index) ([]access, error) {
	conjuncts := conjunctsOf(pc.filter)
	_, pos, ok := lo.FindIndexOf(conjuncts, func(n *expr.Node) bool {
		return n.Type == expr.Text
	})
	if !ok {
		return nil, errors.New(errors.BadValue, "$text must be a top level conjunct of the filter")
	}
	search := conjuncts[pos].Search
	var accesses []access
	for _, idx := range indexes {
		if idx.Kind() != model.IndexKindText {
			continue
		}
		drop := map[int]bool{pos: true}
		var prefix value.Doc
		complete := true
		for _, f := range idx.TextPrefix() {
			i, found := equalityConjunct(conjuncts, f.Path)
			if !found {
				complete = false
				break
			}
			prefix = append(prefix, value.Field{Key: f.Path, Value: conjuncts[i].Value})
			drop[i] = true
		}
		if !complete {
			pc.logger.Debug(pc.ctx, "text index prefix is not bound by equalities", map[string]any{
				"index": idx.Name,
			})
			continue
		}
		var node solution.Node = &solution.Text{Index: idx, Prefix: prefix, Search: search}
		if rest := residual(conjuncts, drop); rest != nil {
			node = &solution.Fetch{Filter: rest, Child: node}
		}
		accesses = append(accesses, access{node: node, fetched: true})
	}
	if len(accesses) == 0 {
		return nil, errors.New(errors.BadValue, "no text index can answer the $text query")
	}
	return accesses, nil
}

// equalityConjunct returns the position of a top level scalar equality on the path
func equalityConjunct(conjuncts []*expr.Node, path string) (int, bool) {
	_, i, ok := lo.FindIndexOf(conjuncts, func(n *expr.Node) bool {
		return n.Type == expr.Eq && n.Path.String() == path && !value.IsComposite(n.Value)
	})
	return i, ok
}
