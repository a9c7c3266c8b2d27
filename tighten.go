package allpaths

import (
	"github.com/autom8ter/allpaths/bounds"
	"github.com/autom8ter/allpaths/expr"
	"github.com/autom8ter/allpaths/fieldpath"
	"github.com/autom8ter/allpaths/model"
)

// groupPredicates splits the predicates on one path into groups whose bounds may be intersected. Without a multikey
// component every predicate shares one group. Otherwise predicates only share a group when the same $elemMatch pins
// every array component up to the deepest multikey position; each other predicate gets its own scan.
func groupPredicates(preds []predicate, positions []int) [][]predicate {
	if len(preds) == 0 {
		return nil
	}
	if len(positions) == 0 {
		return [][]predicate{preds}
	}
	deepest := positions[len(positions)-1]
	var (
		groups  [][]predicate
		byScope = map[*expr.Node]int{}
	)
	for _, p := range preds {
		s := p.binding(deepest)
		if s == nil {
			groups = append(groups, []predicate{p})
			continue
		}
		if i, ok := byScope[s]; ok {
			groups[i] = append(groups[i], p)
			continue
		}
		byScope[s] = len(groups)
		groups = append(groups, []predicate{p})
	}
	return groups
}

// assignment is a group of predicates bounding one key field
type assignment struct {
	path      fieldpath.Path
	preds     []predicate
	tightness []bounds.Tightness
	oil       bounds.OrderedIntervalList
	// elemMatch is true if any predicate is inside an $elemMatch
	elemMatch bool
	// exists is true if any predicate is an $exists
	exists bool
}

// tighten intersects the bounds of the group on the given key field
func tighten(idx *model.Index, field string, group []predicate) assignment {
	a := assignment{
		path: fieldpath.Path(field),
		oil:  bounds.FullOIL(field),
	}
	for _, p := range group {
		intervals, tightness, ok := predicateBounds(p, idx)
		if !ok {
			panic(errNotAssignable(p))
		}
		a.preds = append(a.preds, p)
		a.tightness = append(a.tightness, tightness)
		a.oil = bounds.Intersect(a.oil, bounds.NewOIL(field, intervals...))
		if p.inElemMatch() {
			a.elemMatch = true
		}
		if p.leaf.Type == expr.Exists {
			a.exists = true
		}
	}
	return a
}

// wildcardBounds returns the {$_path, <path>} bounds of a wildcard entry in key order. When the value bounds may hold
// an object the subpaths of the entry path are scanned too and the value bounds widen to the full range.
func wildcardBounds(entry model.IndexEntry, a assignment) (bounds.IndexBounds, bool) {
	var (
		path    = entry.Path.String()
		pathOIL = bounds.NewOIL(model.PathField, bounds.PathPoint(path))
		valOIL  = a.oil
		widened = bounds.OverlapsObjects(a.oil)
	)
	if widened {
		pathOIL = bounds.NewOIL(model.PathField, bounds.PathPoint(path), bounds.PathPrefixRange(path))
		valOIL = bounds.FullOIL(path)
	}
	if entry.KeyPattern[1].Direction < 0 {
		valOIL = valOIL.Reverse()
	}
	return bounds.IndexBounds{Fields: []bounds.OrderedIntervalList{pathOIL, valOIL}}, widened
}

// residual returns the conjunction of the conjuncts that are not dropped, or nil
func residual(conjuncts []*expr.Node, drop map[int]bool) *expr.Node {
	var keep []*expr.Node
	for i, c := range conjuncts {
		if drop[i] || c.Type == expr.AlwaysTrue {
			continue
		}
		keep = append(keep, c)
	}
	return conjunction(keep)
}

func conjunction(nodes []*expr.Node) *expr.Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	}
	return expr.NewAnd(nodes...)
}
