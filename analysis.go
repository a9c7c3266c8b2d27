package allpaths

import (
	"github.com/autom8ter/allpaths/fieldpath"
	"github.com/autom8ter/allpaths/model"
	"github.com/autom8ter/allpaths/solution"
	"github.com/samber/lo"
)

// sortDirection returns the direction the scan must walk to return documents in sort order. Leading key fields
// bounded by a single point do not affect the order.
func sortDirection(info *scanInfo, sort model.KeyPattern) (int, bool) {
	if info == nil || !info.ordered || len(sort) == 0 {
		return 0, false
	}
	var (
		kp = info.scan.Entry.KeyPattern
		b  = info.scan.Bounds.Fields
		i  = 0
	)
	if info.scan.Entry.IsWildcard() {
		i = 1
	}
	for i < len(kp) && i < len(b) && kp[i].Path != sort[0].Path && b[i].IsPoints() && len(b[i].Intervals) == 1 {
		i++
	}
	if i+len(sort) > len(kp) {
		return 0, false
	}
	dir := 0
	for j, s := range sort {
		f := kp[i+j]
		if f.Path != s.Path {
			return 0, false
		}
		d := 1
		if f.Direction != s.Direction {
			d = -1
		}
		if j > 0 && d != dir {
			return 0, false
		}
		dir = d
	}
	return dir, true
}

// reversed returns a copy of the scan walking backward
func reversed(scan *solution.IndexScan) *solution.IndexScan {
	out := *scan
	out.Bounds = scan.Bounds.Reverse()
	out.Direction = -scan.Direction
	return &out
}

// covers returns true if the projection can be computed from the keys of the access alone
func covers(a access, proj model.Projection) bool {
	if a.scan == nil || !a.scan.coverable || !proj.IsInclusion() || a.residual != nil {
		return false
	}
	keys := lo.Map(a.scan.scan.Entry.KeyPattern, func(f model.KeyField, _ int) fieldpath.Path {
		return fieldpath.Path(f.Path)
	})
	if proj.IncludesID() && !lo.Contains(keys, fieldpath.Path("_id")) {
		return false
	}
	for _, p := range proj.Paths {
		if !lo.Contains(keys, p) {
			return false
		}
	}
	return true
}

// analyze adds the sort, skip, fetch, limit and projection stages the request needs on top of the access
func (pc *planContext) analyze(a access, req model.Request) *solution.Solution {
	var (
		root     = a.node
		blocking = false
	)
	if len(req.Sort) > 0 {
		dir, ok := sortDirection(a.scan, req.Sort)
		switch {
		case !ok:
			blocking = true
		case dir < 0:
			scan := reversed(a.scan.scan)
			root = scan
			a.scan = &scanInfo{scan: scan, ordered: a.scan.ordered, coverable: a.scan.coverable, roots: a.scan.roots}
		}
	}
	fetch := func() {
		if !a.fetched || a.residual != nil {
			root = &solution.Fetch{Filter: a.residual, Child: root}
			a.fetched = true
			a.residual = nil
		}
	}
	covered := !blocking && covers(a, req.Projection)
	if blocking {
		fetch()
		limit := 0
		if req.Limit > 0 {
			limit = req.Skip + req.Limit
		}
		root = &solution.Sort{Pattern: req.Sort, Limit: limit, Child: &solution.SortKeyGen{Child: root}}
	}
	if req.Skip > 0 {
		if a.residual != nil {
			fetch()
		}
		root = &solution.Skip{N: req.Skip, Child: root}
	}
	count := pc.config.Options.Has(IsCount) && a.residual == nil
	if !covered && !count {
		fetch()
	}
	if req.Limit > 0 {
		root = &solution.Limit{N: req.Limit, Child: root}
	}
	if !req.Projection.IsEmpty() {
		root = &solution.Projection{Spec: req.Projection, Child: root}
	}
	return &solution.Solution{Root: root}
}
