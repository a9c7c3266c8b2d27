// Package expr is the predicate tree the planner reasons about: a closed set of match types parsed from JSON filter
// documents.
package expr

import (
	"github.com/autom8ter/allpaths/fieldpath"
	"github.com/samber/lo"
)

// MatchType is the kind of a predicate node
type MatchType int

const (
	And MatchType = iota
	Or
	Nor
	Not
	Eq
	Lt
	Lte
	Gt
	Gte
	In
	Exists
	Mod
	Regex
	// ElemMatchValue applies its children (which have no path) to each element of the array at Path
	ElemMatchValue
	// ElemMatchObject applies its children (paths relative to the element) to each element of the array at Path
	ElemMatchObject
	// ExprEq is aggregation expression equality. Unlike Eq it does not match into arrays and null only matches null
	// and missing values.
	ExprEq
	Text
	AlwaysTrue
)

var matchTypeNames = map[MatchType]string{
	And:             "$and",
	Or:              "$or",
	Nor:             "$nor",
	Not:             "$not",
	Eq:              "$eq",
	Lt:              "$lt",
	Lte:             "$lte",
	Gt:              "$gt",
	Gte:             "$gte",
	In:              "$in",
	Exists:          "$exists",
	Mod:             "$mod",
	Regex:           "$regex",
	ElemMatchValue:  "$elemMatch",
	ElemMatchObject: "$elemMatch",
	ExprEq:          "$_internalExprEq",
	Text:            "$text",
	AlwaysTrue:      "$alwaysTrue",
}

// String returns the query operator of the match type
func (m MatchType) String() string {
	return matchTypeNames[m]
}

// Node is a predicate tree node
type Node struct {
	Type MatchType
	// Path is the field the leaf applies to. It is empty for logical nodes, text search and the children of an
	// ElemMatchValue.
	Path fieldpath.Path
	// Value is the operand of a comparison, regex (value.Regex) or ExprEq leaf
	Value any
	// Values are the members of an $in leaf
	Values    []any
	Divisor   float64
	Remainder float64
	// Search is the $text search string
	Search   string
	Children []*Node
}

// IsLogical returns true for $and, $or, $nor and $not
func (n *Node) IsLogical() bool {
	switch n.Type {
	case And, Or, Nor, Not:
		return true
	}
	return false
}

// IsElemMatch returns true for both $elemMatch forms
func (n *Node) IsElemMatch() bool {
	return n.Type == ElemMatchValue || n.Type == ElemMatchObject
}

// IsComparison returns true for $eq, $lt, $lte, $gt and $gte
func (n *Node) IsComparison() bool {
	switch n.Type {
	case Eq, Lt, Lte, Gt, Gte:
		return true
	}
	return false
}

// Clone returns a deep copy of the node
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Values = append([]any(nil), n.Values...)
	out.Children = lo.Map(n.Children, func(c *Node, _ int) *Node {
		return c.Clone()
	})
	return &out
}

// Walk visits every node of the tree depth first. Children are skipped when fn returns false.
func (n *Node) Walk(fn func(n *Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Any returns true if fn returns true for any node of the tree
func (n *Node) Any(fn func(n *Node) bool) bool {
	var found bool
	n.Walk(func(n *Node) bool {
		if found {
			return false
		}
		if fn(n) {
			found = true
		}
		return !found
	})
	return found
}

// HasNegation returns true if the tree holds a $not or $nor at any depth
func (n *Node) HasNegation() bool {
	return n.Any(func(n *Node) bool {
		return n.Type == Not || n.Type == Nor
	})
}

// Paths returns the distinct leaf paths of the tree in the order they appear. Paths inside an $elemMatch are
// joined to the $elemMatch path.
func (n *Node) Paths() []fieldpath.Path {
	var paths []fieldpath.Path
	var collect func(n *Node, prefix fieldpath.Path)
	collect = func(n *Node, prefix fieldpath.Path) {
		switch n.Type {
		case Text, AlwaysTrue:
		case ElemMatchObject:
			for _, c := range n.Children {
				collect(c, prefix.Join(n.Path))
			}
		case ElemMatchValue:
			paths = append(paths, prefix.Join(n.Path))
		case And, Or, Nor, Not:
			for _, c := range n.Children {
				collect(c, prefix)
			}
		default:
			paths = append(paths, prefix.Join(n.Path))
		}
	}
	collect(n, "")
	return lo.Uniq(paths)
}

func newLogical(t MatchType, children ...*Node) *Node {
	return &Node{Type: t, Children: children}
}

// NewAnd returns the conjunction of the given nodes
func NewAnd(children ...*Node) *Node {
	return newLogical(And, children...)
}

// NewOr returns the disjunction of the given nodes
func NewOr(children ...*Node) *Node {
	return newLogical(Or, children...)
}

// NewNot returns the negation of the given node
func NewNot(child *Node) *Node {
	return newLogical(Not, child)
}

// NewLeaf returns a comparison, $_internalExprEq or $regex leaf
func NewLeaf(t MatchType, path fieldpath.Path, val any) *Node {
	return &Node{Type: t, Path: path, Value: val}
}
