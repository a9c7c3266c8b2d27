package expr

import (
	"github.com/autom8ter/allpaths/bounds"
	"github.com/autom8ter/allpaths/value"
)

var comparisonOps = map[MatchType]bounds.Op{
	Eq:  bounds.OpEq,
	Lt:  bounds.OpLt,
	Lte: bounds.OpLte,
	Gt:  bounds.OpGt,
	Gte: bounds.OpGte,
}

// Bounds returns the intervals of index keys on the leaf's own path that may match the leaf and how tight they are.
// ok is false for nodes that have no bounds of their own: logical nodes, $elemMatch, $text and leaves whose operand
// is an object or array.
func (n *Node) Bounds() (intervals []bounds.Interval, tightness bounds.Tightness, ok bool) {
	switch n.Type {
	case Eq:
		if value.IsComposite(n.Value) {
			return nil, 0, false
		}
		intervals, tightness = bounds.ForEquality(n.Value)
		return intervals, tightness, true
	case Lt, Lte, Gt, Gte:
		switch {
		case value.IsComposite(n.Value):
			return nil, 0, false
		case value.IsNull(n.Value):
			if n.Type == Lt || n.Type == Gt {
				return nil, bounds.Exact, true
			}
			intervals, tightness = bounds.ForEquality(nil)
			return intervals, tightness, true
		}
		return bounds.ForComparison(comparisonOps[n.Type], n.Value), bounds.Exact, true
	case ExprEq:
		if value.IsComposite(n.Value) {
			return nil, 0, false
		}
		intervals, tightness = bounds.ForEquality(n.Value)
		return intervals, tightness, true
	case In:
		for _, v := range n.Values {
			if value.IsComposite(v) {
				return nil, 0, false
			}
		}
		intervals, tightness = bounds.ForIn(n.Values)
		return intervals, tightness, true
	case Exists:
		return bounds.ForExists(), bounds.Exact, true
	case Mod:
		intervals, tightness = bounds.ForMod()
		return intervals, tightness, true
	case Regex:
		r, isRegex := value.Normalize(n.Value).(value.Regex)
		if !isRegex {
			return nil, 0, false
		}
		intervals, tightness = bounds.ForRegex(r)
		return intervals, tightness, true
	}
	return nil, 0, false
}

// ElemMatchBounds returns the intersection of the bounds of an $elemMatch value node's children. Children without
// bounds make the result inexact.
func (n *Node) ElemMatchBounds() (bounds.OrderedIntervalList, bounds.Tightness, bool) {
	if n.Type != ElemMatchValue {
		return bounds.OrderedIntervalList{}, 0, false
	}
	var (
		out       = bounds.FullOIL(n.Path.String())
		tightness = bounds.Exact
		found     bool
	)
	for _, c := range n.Children {
		intervals, t, ok := c.Bounds()
		if !ok {
			tightness = bounds.InexactFetch
			continue
		}
		found = true
		out = bounds.Intersect(out, bounds.NewOIL(out.Field, intervals...))
		tightness = bounds.Loosest(tightness, t)
	}
	return out, tightness, found
}
