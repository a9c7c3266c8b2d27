// Package solution holds the candidate query plan trees the planner produces
package solution

import (
	"strings"

	"github.com/autom8ter/allpaths/bounds"
	"github.com/autom8ter/allpaths/expr"
	"github.com/autom8ter/allpaths/model"
	"github.com/autom8ter/allpaths/value"
	"github.com/samber/lo"
)

// Stage is the kind of a plan node
type Stage string

const (
	StageIndexScan      Stage = "IXSCAN"
	StageFetch          Stage = "FETCH"
	StageOr             Stage = "OR"
	StageAndSorted      Stage = "AND_SORTED"
	StageAndHash        Stage = "AND_HASH"
	StageSort           Stage = "SORT"
	StageSortKeyGen     Stage = "SORT_KEY_GENERATOR"
	StageSkip           Stage = "SKIP"
	StageLimit          Stage = "LIMIT"
	StageProjection     Stage = "PROJECTION"
	StageCollectionScan Stage = "COLLSCAN"
	StageText           Stage = "TEXT"
)

// Node is a plan tree node
type Node interface {
	// Stage returns the kind of the node
	Stage() Stage
	// Children returns the input nodes
	Children() []Node
	// String renders the subtree, ex: {fetch: {filter: null, node: {ixscan: {...}}}}
	String() string
}

// IndexScan walks an index entry within bounds
type IndexScan struct {
	Entry  model.IndexEntry
	Bounds bounds.IndexBounds
	// Filter is applied to index keys before fetching
	Filter *expr.Node
	// Direction is 1 for a forward scan and -1 for a backward scan
	Direction int
}

// Fetch loads the documents of its input and applies a residual filter
type Fetch struct {
	Filter *expr.Node
	Child  Node
}

// Or unions the record ids of its inputs
type Or struct {
	Nodes []Node
}

// AndSorted intersects inputs that each produce record ids in order
type AndSorted struct {
	Nodes []Node
}

// AndHash intersects inputs by hashing record ids
type AndHash struct {
	Nodes []Node
}

// Sort is a blocking sort. Limit 0 means unbounded.
type Sort struct {
	Pattern model.KeyPattern
	Limit   int
	Child   Node
}

// SortKeyGen computes the sort key of each input document
type SortKeyGen struct {
	Child Node
}

// Skip drops the first N results
type Skip struct {
	N     int
	Child Node
}

// Limit stops after N results
type Limit struct {
	N     int
	Child Node
}

// Projection shapes its input documents
type Projection struct {
	Spec  model.Projection
	Child Node
}

// CollectionScan reads every document and applies the filter
type CollectionScan struct {
	Filter    *expr.Node
	Direction int
}

// Text runs a full text search over a text index
type Text struct {
	Index *model.Index
	// Prefix holds the equality values of the fields that precede the text fields
	Prefix value.Doc
	Search string
	Filter *expr.Node
}

func (n *IndexScan) Stage() Stage      { return StageIndexScan }
func (n *Fetch) Stage() Stage          { return StageFetch }
func (n *Or) Stage() Stage             { return StageOr }
func (n *AndSorted) Stage() Stage      { return StageAndSorted }
func (n *AndHash) Stage() Stage        { return StageAndHash }
func (n *Sort) Stage() Stage           { return StageSort }
func (n *SortKeyGen) Stage() Stage     { return StageSortKeyGen }
func (n *Skip) Stage() Stage           { return StageSkip }
func (n *Limit) Stage() Stage          { return StageLimit }
func (n *Projection) Stage() Stage     { return StageProjection }
func (n *CollectionScan) Stage() Stage { return StageCollectionScan }
func (n *Text) Stage() Stage           { return StageText }

func (n *IndexScan) Children() []Node      { return nil }
func (n *Fetch) Children() []Node          { return []Node{n.Child} }
func (n *Or) Children() []Node             { return n.Nodes }
func (n *AndSorted) Children() []Node      { return n.Nodes }
func (n *AndHash) Children() []Node        { return n.Nodes }
func (n *Sort) Children() []Node           { return []Node{n.Child} }
func (n *SortKeyGen) Children() []Node     { return []Node{n.Child} }
func (n *Skip) Children() []Node           { return []Node{n.Child} }
func (n *Limit) Children() []Node          { return []Node{n.Child} }
func (n *Projection) Children() []Node     { return []Node{n.Child} }
func (n *CollectionScan) Children() []Node { return nil }
func (n *Text) Children() []Node           { return nil }

func field(k, v string) string {
	return k + ": " + v
}

func doc(fields ...string) string {
	return "{" + strings.Join(fields, ", ") + "}"
}

func filter(f *expr.Node) string {
	if f == nil {
		return "null"
	}
	return f.String()
}

func list(nodes []Node) string {
	return "[" + strings.Join(lo.Map(nodes, func(n Node, _ int) string {
		return n.String()
	}), ", ") + "]"
}

func (n *IndexScan) String() string {
	return doc(field("ixscan", doc(
		field("pattern", n.Entry.KeyPattern.String()),
		field("filter", filter(n.Filter)),
		field("bounds", n.Bounds.String()),
		field("dir", value.String(n.Direction)),
	)))
}

func (n *Fetch) String() string {
	return doc(field("fetch", doc(field("filter", filter(n.Filter)), field("node", n.Child.String()))))
}

func (n *Or) String() string {
	return doc(field("or", doc(field("nodes", list(n.Nodes)))))
}

func (n *AndSorted) String() string {
	return doc(field("andSorted", doc(field("nodes", list(n.Nodes)))))
}

func (n *AndHash) String() string {
	return doc(field("andHash", doc(field("nodes", list(n.Nodes)))))
}

func (n *Sort) String() string {
	return doc(field("sort", doc(
		field("pattern", n.Pattern.String()),
		field("limit", value.String(n.Limit)),
		field("node", n.Child.String()),
	)))
}

func (n *SortKeyGen) String() string {
	return doc(field("sortKeyGen", doc(field("node", n.Child.String()))))
}

func (n *Skip) String() string {
	return doc(field("skip", doc(field("n", value.String(n.N)), field("node", n.Child.String()))))
}

func (n *Limit) String() string {
	return doc(field("limit", doc(field("n", value.String(n.N)), field("node", n.Child.String()))))
}

func (n *Projection) String() string {
	return doc(field("proj", doc(field("spec", n.Spec.String()), field("node", n.Child.String()))))
}

func (n *CollectionScan) String() string {
	return doc(field("cscan", doc(field("dir", value.String(n.Direction)), field("filter", filter(n.Filter)))))
}

func (n *Text) String() string {
	return doc(field("text", doc(
		field("prefix", value.String(n.Prefix)),
		field("search", value.String(n.Search)),
		field("filter", filter(n.Filter)),
	)))
}

// Walk visits every node of the tree depth first
func Walk(n Node, fn func(n Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Solution is a candidate plan for a query
type Solution struct {
	Root Node
}

// String renders the plan tree
func (s *Solution) String() string {
	return s.Root.String()
}

// MarshalJSON renders the plan as its explain document
func (s *Solution) MarshalJSON() ([]byte, error) {
	out, err := Explain(s.Root)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// HasBlockingSort returns true if the plan sorts its results in memory
func (s *Solution) HasBlockingSort() bool {
	var found bool
	Walk(s.Root, func(n Node) {
		if n.Stage() == StageSort {
			found = true
		}
	})
	return found
}

// IndexScans returns the index scans of the plan in tree order
func (s *Solution) IndexScans() []*IndexScan {
	var scans []*IndexScan
	Walk(s.Root, func(n Node) {
		if scan, ok := n.(*IndexScan); ok {
			scans = append(scans, scan)
		}
	})
	return scans
}

// IndexNames returns the names of the index entries the plan reads
func (s *Solution) IndexNames() []string {
	var names []string
	Walk(s.Root, func(n Node) {
		switch n := n.(type) {
		case *IndexScan:
			names = append(names, n.Entry.Name)
		case *Text:
			if n.Index != nil {
				names = append(names, n.Index.Name)
			}
		}
	})
	return lo.Uniq(names)
}
