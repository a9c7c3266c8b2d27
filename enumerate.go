package allpaths

import (
	"context"

	"github.com/autom8ter/allpaths/bounds"
	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/expr"
	"github.com/autom8ter/allpaths/fieldpath"
	"github.com/autom8ter/allpaths/model"
	"github.com/autom8ter/allpaths/solution"
	"github.com/samber/lo"
)

// access is a way to read the documents matching part of a query
type access struct {
	node solution.Node
	// residual must still be applied to the documents node returns
	residual *expr.Node
	// fetched is true if node already returns whole documents
	fetched bool
	// scan is set when node is a single index scan
	scan *scanInfo
}

// scanInfo describes the single index scan of an access
type scanInfo struct {
	scan *solution.IndexScan
	// ordered is true if the scan returns keys in key pattern order
	ordered bool
	// coverable is true if the keys hold the exact values of the key fields
	coverable bool
	// roots are the conjuncts whose predicates bound the scan
	roots map[int]bool
}

// planContext holds the state of one planning call
type planContext struct {
	ctx        context.Context
	config     Config
	logger     Logger
	filter     *expr.Node
	expansions []*Expansion
	regulars   []*model.Index
}

func errNotAssignable(p predicate) error {
	return errors.New(errors.Internal, "predicate %s cannot bound an index scan", p.leaf.String())
}

func conjunctsOf(n *expr.Node) []*expr.Node {
	if n.Type == expr.And {
		return n.Children
	}
	return []*expr.Node{n}
}

// plan returns the indexed accesses of the node
func (pc *planContext) plan(n *expr.Node) []access {
	if n.Type == expr.Or {
		return pc.planOr(n)
	}
	return pc.planAnd(conjunctsOf(n))
}

func (pc *planContext) planAnd(conjuncts []*expr.Node) []access {
	var (
		accesses []access
		regular  []access
		preds    = collectPredicates(conjuncts)
	)
	for _, exp := range pc.expansions {
		accesses = append(accesses, pc.wildcardAccesses(exp, preds, conjuncts)...)
	}
	for _, idx := range pc.regulars {
		regular = append(regular, pc.regularAccesses(idx, preds, conjuncts)...)
	}
	accesses = append(accesses, regular...)
	for i, c := range conjuncts {
		if c.Type != expr.Or {
			continue
		}
		for _, alt := range pc.planOr(c) {
			alt.residual = residual(conjuncts, map[int]bool{i: true})
			accesses = append(accesses, alt)
		}
	}
	if pc.config.IndexIntersection {
		accesses = append(accesses, pc.intersect(regular, conjuncts)...)
	}
	return accesses
}

// wildcardAccesses returns one access per predicate group of every queried path the expansion holds an entry for
func (pc *planContext) wildcardAccesses(exp *Expansion, preds []predicate, conjuncts []*expr.Node) []access {
	var (
		paths  []fieldpath.Path
		byPath = map[fieldpath.Path][]predicate{}
	)
	for _, p := range preds {
		if classify(p, exp.Index(), preds) == ineligible {
			continue
		}
		if _, ok := byPath[p.path]; !ok {
			paths = append(paths, p.path)
		}
		byPath[p.path] = append(byPath[p.path], p)
	}
	var accesses []access
	for _, path := range paths {
		entry, ok := exp.Lookup(path)
		if !ok {
			continue
		}
		for _, group := range groupPredicates(byPath[path], entry.MultikeyPositions(path)) {
			a := tighten(exp.Index(), path.String(), group)
			b, widened := wildcardBounds(entry, a)
			multikey := entry.IsMultikey(path)
			acc := pc.scanAccess(entry, b, []assignment{a}, conjuncts)
			acc.scan.ordered = !widened && !multikey && !a.exists && !a.elemMatch
			acc.scan.coverable = !widened && !multikey
			pc.logger.Debug(pc.ctx, "expanded wildcard access", map[string]any{
				"index":  entry.Name,
				"bounds": b.String(),
			})
			accesses = append(accesses, acc)
		}
	}
	return accesses
}

// scanAccess builds an index scan over the bounds. Exact predicates outside of $elemMatch are answered by the scan;
// covered predicates on paths without arrays move into the scan filter.
func (pc *planContext) scanAccess(entry model.IndexEntry, b bounds.IndexBounds, assigns []assignment, conjuncts []*expr.Node) access {
	var (
		drop    = map[int]bool{}
		roots   = map[int]bool{}
		covered []*expr.Node
	)
	for _, a := range assigns {
		multikey := entry.IsMultikey(a.path)
		for i, p := range a.preds {
			roots[p.root] = true
			if p.inElemMatch() {
				continue
			}
			switch a.tightness[i] {
			case bounds.Exact:
				drop[p.root] = true
			case bounds.InexactCovered:
				if !multikey {
					drop[p.root] = true
					covered = append(covered, p.leaf)
				}
			}
		}
	}
	scan := &solution.IndexScan{
		Entry:     entry,
		Bounds:    b,
		Filter:    conjunction(covered),
		Direction: 1,
	}
	return access{
		node:     scan,
		residual: residual(conjuncts, drop),
		scan:     &scanInfo{scan: scan, roots: roots},
	}
}

// planOr returns the accesses of a disjunction: one indexed access per child, combined. It returns nothing if any
// child cannot use an index.
func (pc *planContext) planOr(n *expr.Node) []access {
	var branches [][]access
	for _, c := range n.Children {
		alts := pc.plan(c)
		if len(alts) == 0 {
			return nil
		}
		branches = append(branches, alts)
	}
	var accesses []access
	for _, combo := range cartesian(branches, pc.config.MaxOrSolutions) {
		accesses = append(accesses, access{
			node: &solution.Or{Nodes: lo.Map(combo, func(a access, _ int) solution.Node {
				return branchNode(a)
			})},
			fetched: !lo.ContainsBy(combo, func(a access) bool {
				return a.residual == nil && !a.fetched
			}),
		})
	}
	return accesses
}

// branchNode applies the residual of an $or branch below the union
func branchNode(a access) solution.Node {
	if a.residual == nil {
		return a.node
	}
	return &solution.Fetch{Filter: a.residual, Child: a.node}
}

// cartesian returns up to max combinations picking one access per branch
func cartesian(branches [][]access, max int) [][]access {
	combos := [][]access{nil}
	for _, branch := range branches {
		var next [][]access
		for _, combo := range combos {
			for _, a := range branch {
				if len(next) >= max {
					break
				}
				next = append(next, append(append([]access(nil), combo...), a))
			}
		}
		combos = next
	}
	return combos
}

// intersect returns AND_SORTED and AND_HASH accesses over pairs of regular index scans that answer different
// conjuncts
func (pc *planContext) intersect(regular []access, conjuncts []*expr.Node) []access {
	if len(conjuncts) < 2 {
		return nil
	}
	var accesses []access
	for i := 0; i < len(regular); i++ {
		for j := i + 1; j < len(regular); j++ {
			a, b := regular[i].scan, regular[j].scan
			if a == nil || b == nil || a.scan.Entry.Name == b.scan.Entry.Name || overlaps(a.roots, b.roots) {
				continue
			}
			nodes := []solution.Node{a.scan, b.scan}
			var node solution.Node
			switch {
			case pointScan(a.scan) && pointScan(b.scan):
				node = &solution.AndSorted{Nodes: nodes}
			case pc.config.HashIntersection:
				node = &solution.AndHash{Nodes: nodes}
			default:
				continue
			}
			accesses = append(accesses, access{node: node, residual: residual(conjuncts, nil)})
		}
	}
	return accesses
}

func overlaps(a, b map[int]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}

// pointScan returns true if every key field is bounded by points, so the scan returns record ids in order
func pointScan(scan *solution.IndexScan) bool {
	return !lo.ContainsBy(scan.Bounds.Fields, func(o bounds.OrderedIntervalList) bool {
		return !o.IsPoints()
	})
}
