package allpaths

import (
	"github.com/autom8ter/allpaths/bounds"
	"github.com/autom8ter/allpaths/expr"
	"github.com/autom8ter/allpaths/fieldpath"
	"github.com/autom8ter/allpaths/model"
	"github.com/autom8ter/allpaths/solution"
	"github.com/samber/lo"
)

func regularEntry(idx *model.Index) model.IndexEntry {
	return model.IndexEntry{
		Name:          idx.Name,
		KeyPattern:    idx.KeyPattern,
		Index:         idx,
		MultikeyPaths: idx.Multikey(),
	}
}

// regularAccesses returns the scans of a regular index. The leading key field must be bounded; each predicate
// group on it yields a scan. A trailing field is bounded only when a single group applies to it and it shares no
// array component with another bounded field.
func (pc *planContext) regularAccesses(idx *model.Index, preds []predicate, conjuncts []*expr.Node) []access {
	entry := regularEntry(idx)
	perField := make([][]predicate, len(idx.KeyPattern))
	for i, f := range idx.KeyPattern {
		for _, p := range preds {
			if p.path.String() == f.Path && classify(p, idx, preds) != ineligible {
				perField[i] = append(perField[i], p)
			}
		}
	}
	if len(perField[0]) == 0 {
		return nil
	}
	lead := fieldpath.Path(idx.KeyPattern[0].Path)
	var accesses []access
	for _, group := range groupPredicates(perField[0], entry.MultikeyPositions(lead)) {
		assigns := []assignment{tighten(idx, lead.String(), group)}
		used := []fieldpath.Path{lead}
		for i := 1; i < len(idx.KeyPattern); i++ {
			path := fieldpath.Path(idx.KeyPattern[i].Path)
			groups := groupPredicates(perField[i], entry.MultikeyPositions(path))
			if len(groups) != 1 || sharesMultikeyPrefix(idx, path, used) {
				assigns = append(assigns, assignment{path: path, oil: bounds.FullOIL(path.String())})
				continue
			}
			assigns = append(assigns, tighten(idx, path.String(), groups[0]))
			used = append(used, path)
		}
		b := bounds.IndexBounds{}
		for i, a := range assigns {
			oil := a.oil
			if idx.KeyPattern[i].Direction < 0 {
				oil = oil.Reverse()
			}
			b.Fields = append(b.Fields, oil)
		}
		acc := pc.scanAccess(entry, b, assigns, conjuncts)
		acc.scan.ordered = len(idx.MultikeyPaths) == 0
		acc.scan.coverable = len(idx.MultikeyPaths) == 0
		accesses = append(accesses, acc)
	}
	return accesses
}

// sharesMultikeyPrefix returns true if an array component of path is also a component of one of the other paths
func sharesMultikeyPrefix(idx *model.Index, path fieldpath.Path, others []fieldpath.Path) bool {
	return lo.ContainsBy(idx.Multikey(), func(mk fieldpath.Path) bool {
		return mk.IsPrefixOf(path) && lo.ContainsBy(others, func(o fieldpath.Path) bool {
			return mk.IsPrefixOf(o)
		})
	})
}

// fullScan returns an access walking every key of a regular index, with the whole filter as residual
func (pc *planContext) fullScan(idx *model.Index) access {
	entry := regularEntry(idx)
	b := bounds.IndexBounds{Fields: lo.Map(idx.KeyPattern, func(f model.KeyField, _ int) bounds.OrderedIntervalList {
		return bounds.FullOIL(f.Path)
	})}
	scan := &solution.IndexScan{Entry: entry, Bounds: b, Direction: 1}
	return access{
		node:     scan,
		residual: residual([]*expr.Node{pc.filter}, nil),
		scan: &scanInfo{
			scan:      scan,
			ordered:   len(idx.MultikeyPaths) == 0,
			coverable: len(idx.MultikeyPaths) == 0,
			roots:     map[int]bool{},
		},
	}
}

// providesSort returns true if a full scan of the index, forward or backward, returns documents in sort order
func providesSort(idx *model.Index, sort model.KeyPattern) bool {
	if len(sort) > len(idx.KeyPattern) {
		return false
	}
	prefix := idx.KeyPattern[:len(sort)]
	return prefix.Equal(sort) || prefix.Reverse().Equal(sort)
}
