package allpaths

import (
	"github.com/autom8ter/allpaths/bounds"
	"github.com/autom8ter/allpaths/expr"
	"github.com/autom8ter/allpaths/fieldpath"
	"github.com/autom8ter/allpaths/model"
	"github.com/autom8ter/allpaths/value"
)

// eligibility is the classifier verdict for one predicate against one index
type eligibility int

const (
	ineligible eligibility = iota
	eligible
	// eligibleWithResidual predicates bound the scan but must still be applied to the fetched documents
	eligibleWithResidual
)

func (e eligibility) String() string {
	switch e {
	case eligible:
		return "eligible"
	case eligibleWithResidual:
		return "eligible with residual"
	}
	return "ineligible"
}

// scope is an $elemMatch enclosing a predicate
type scope struct {
	node *expr.Node
	// path is the full path of the $elemMatch array
	path fieldpath.Path
}

// predicate is a leaf that may bound an index scan, with the context it was found in
type predicate struct {
	leaf *expr.Node
	// path is the full path of the leaf, including enclosing $elemMatch paths
	path fieldpath.Path
	// root is the position of the top level conjunct holding the leaf
	root int
	// scopes are the enclosing $elemMatch nodes, outermost first
	scopes []scope
}

func (p predicate) inElemMatch() bool {
	return len(p.scopes) > 0
}

// elementValue returns true if the leaf applies to array elements directly, ex: {a: {$elemMatch: {$eq: null}}}
func (p predicate) elementValue() bool {
	return len(p.scopes) > 0 && p.scopes[len(p.scopes)-1].node.Type == expr.ElemMatchValue
}

func (p predicate) innermost() *expr.Node {
	if len(p.scopes) == 0 {
		return nil
	}
	return p.scopes[len(p.scopes)-1].node
}

// binding returns the outermost $elemMatch that pins every array component up to and including the deepest
// multikey position, or nil
func (p predicate) binding(deepest int) *expr.Node {
	for _, s := range p.scopes {
		if s.path.Len() > deepest {
			return s.node
		}
	}
	return nil
}

// collectPredicates returns the leaves of the conjuncts that may bound an index scan. Leaves under $or, $nor and
// $not are never collected and neither is any $elemMatch holding a negation.
func collectPredicates(conjuncts []*expr.Node) []predicate {
	var (
		preds   []predicate
		collect func(n *expr.Node, root int, prefix fieldpath.Path, scopes []scope)
	)
	collect = func(n *expr.Node, root int, prefix fieldpath.Path, scopes []scope) {
		switch n.Type {
		case expr.And:
			for _, c := range n.Children {
				collect(c, root, prefix, scopes)
			}
		case expr.ElemMatchObject, expr.ElemMatchValue:
			if n.HasNegation() {
				return
			}
			s := scope{node: n, path: prefix.Join(n.Path)}
			inner := append(append([]scope(nil), scopes...), s)
			for _, c := range n.Children {
				if n.Type == expr.ElemMatchObject {
					collect(c, root, s.path, inner)
					continue
				}
				if c.IsLogical() || c.IsElemMatch() {
					continue
				}
				preds = append(preds, predicate{leaf: c, path: s.path, root: root, scopes: inner})
			}
		case expr.Or, expr.Nor, expr.Not, expr.Text, expr.AlwaysTrue:
		default:
			preds = append(preds, predicate{leaf: n, path: prefix.Join(n.Path), root: root, scopes: scopes})
		}
	}
	for i, c := range conjuncts {
		collect(c, i, "", nil)
	}
	return preds
}

// matchesMissing returns true if the leaf matches documents that do not have its path
func matchesMissing(leaf *expr.Node) bool {
	switch leaf.Type {
	case expr.Eq, expr.Lte, expr.Gte:
		return value.IsNull(leaf.Value)
	case expr.In:
		for _, v := range leaf.Values {
			if value.IsNull(v) {
				return true
			}
		}
	}
	return false
}

// hasExistsSibling returns true if an {$exists: true} on the same path and in the same $elemMatch accompanies p
func hasExistsSibling(p predicate, siblings []predicate) bool {
	for _, s := range siblings {
		if s.leaf.Type == expr.Exists && s.path == p.path && s.innermost() == p.innermost() {
			return true
		}
	}
	return false
}

// wildcardCovers returns true if the wildcard index holds keys for the path
func wildcardCovers(idx *model.Index, path fieldpath.Path) bool {
	return idx.WildcardPrefix().IsPrefixOf(path) && idx.WildcardProjection.Includes(path)
}

// predicateBounds returns the intervals the predicate contributes to a scan of the index
func predicateBounds(p predicate, idx *model.Index) ([]bounds.Interval, bounds.Tightness, bool) {
	intervals, tightness, ok := p.leaf.Bounds()
	if !ok {
		return nil, 0, false
	}
	// a non sparse regular index stores null for documents missing the field
	if p.leaf.Type == expr.Exists && idx.Kind() == model.IndexKindRegular && !idx.Sparse {
		tightness = bounds.InexactFetch
	}
	return intervals, tightness, true
}

// classify decides whether the predicate can bound a scan of the index. siblings are the predicates of the same
// conjunction.
func classify(p predicate, idx *model.Index, siblings []predicate) eligibility {
	wildcard := idx.Kind() == model.IndexKindWildcard
	if wildcard && !wildcardCovers(idx, p.path) {
		return ineligible
	}
	_, tightness, ok := predicateBounds(p, idx)
	if !ok {
		return ineligible
	}
	if matchesMissing(p.leaf) {
		// sparse keys cannot tell a missing field from an explicit null
		if (wildcard || idx.Sparse) && !p.elementValue() && !hasExistsSibling(p, siblings) {
			return ineligible
		}
		return eligibleWithResidual
	}
	if tightness == bounds.InexactFetch {
		return eligibleWithResidual
	}
	return eligible
}

// partialFilterAllows returns true if every document matching the filter is held by the index
func partialFilterAllows(idx *model.Index, filter *expr.Node) bool {
	return idx.PartialFilter == nil || expr.Implies(filter, idx.PartialFilter)
}
