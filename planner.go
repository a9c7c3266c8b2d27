package allpaths

import (
	"context"
	"strings"

	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/expr"
	"github.com/autom8ter/allpaths/model"
	"github.com/autom8ter/allpaths/solution"
	"github.com/samber/lo"
	"github.com/segmentio/ksuid"
	"github.com/tidwall/sjson"
	"golang.org/x/sync/errgroup"
)

// Planner enumerates the candidate plans of a query over an index catalog
type Planner interface {
	// Plan returns every candidate plan of the request. The catalog is not modified.
	Plan(ctx context.Context, req model.Request, catalog []model.Index) (*Result, error)
	// PlanAll plans each request concurrently against the same catalog. Results are in request order.
	PlanAll(ctx context.Context, reqs []model.Request, catalog []model.Index) ([]*Result, error)
}

// Result holds the candidate plans of one planning call
type Result struct {
	// ID identifies the planning call in logs
	ID        string               `json:"id"`
	Solutions []*solution.Solution `json:"solutions"`
}

// HasIndexedPlan returns true if any candidate reads an index
func (r *Result) HasIndexedPlan() bool {
	return lo.ContainsBy(r.Solutions, func(s *solution.Solution) bool {
		return len(s.IndexNames()) > 0
	})
}

// Strings returns the rendered plan trees
func (r *Result) Strings() []string {
	return lo.Map(r.Solutions, func(s *solution.Solution, _ int) string {
		return s.String()
	})
}

// Explain returns the candidates as an explain document, ex: {"id": "...", "solutions": [{"stage": "FETCH", ...}]}
func (r *Result) Explain() (string, error) {
	out, err := sjson.Set(`{}`, "id", r.ID)
	if err != nil {
		return "", errors.Wrap(err, errors.Internal, "failed to explain plans")
	}
	out, err = sjson.SetRaw(out, "solutions", "[]")
	if err != nil {
		return "", errors.Wrap(err, errors.Internal, "failed to explain plans")
	}
	for _, s := range r.Solutions {
		e, err := solution.Explain(s.Root)
		if err != nil {
			return "", err
		}
		out, err = sjson.SetRaw(out, "solutions.-1", e)
		if err != nil {
			return "", errors.Wrap(err, errors.Internal, "failed to explain plans")
		}
	}
	return out, nil
}

type defaultPlanner struct {
	config Config
	logger Logger
}

// New returns a planner configured with the given options
func New(opts ...Opt) (Planner, error) {
	p := &defaultPlanner{config: DefaultConfig()}
	for _, o := range opts {
		o(p)
	}
	if err := p.config.Validate(); err != nil {
		return nil, err
	}
	if p.logger == nil {
		if p.config.LogLevel == "" {
			p.logger = NewNopLogger()
		} else {
			logger, err := NewLogger(p.config.LogLevel, map[string]any{"component": "planner"})
			if err != nil {
				return nil, errors.Wrap(err, errors.Internal, "failed to create logger")
			}
			p.logger = logger
		}
	}
	return p, nil
}

func (p *defaultPlanner) Plan(ctx context.Context, req model.Request, catalog []model.Index) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	names := map[string]bool{}
	for _, idx := range catalog {
		if err := idx.Validate(); err != nil {
			return nil, err
		}
		if names[idx.Name] {
			return nil, errors.New(errors.Validation, "duplicate index name: %s", idx.Name)
		}
		names[idx.Name] = true
	}
	id := ksuid.New().String()
	md, _ := GetMetadata(ctx)
	md = NewMetadata(md.Map())
	md.Set(PlanIDKey, id)
	ctx = md.ToContext(ctx)

	filter := expr.Normalize(req.Predicate())
	if countText(filter) > 1 {
		return nil, errors.New(errors.Validation, "too many $text expressions")
	}
	indexes := lo.Map(catalog, func(idx model.Index, _ int) *model.Index {
		return &idx
	})
	var hinted *model.Index
	if req.Hint != nil {
		matches := lo.Filter(indexes, func(idx *model.Index, _ int) bool {
			return req.Hint.Matches(*idx)
		})
		if len(matches) == 0 {
			return nil, errors.New(errors.HintDoesNotExist, "hinted index does not exist: %s", req.Hint.String())
		}
		if len(matches) > 1 {
			names := lo.Map(matches, func(idx *model.Index, _ int) string {
				return idx.Name
			})
			return nil, errors.New(errors.Validation, "hint %s matches more than one index: %s", req.Hint.String(), strings.Join(names, ", "))
		}
		hinted = matches[0]
		indexes = matches
	}
	pc := &planContext{
		ctx:    ctx,
		config: p.config,
		logger: p.logger,
		filter: filter,
	}
	var usable []*model.Index
	for _, idx := range indexes {
		if !partialFilterAllows(idx, filter) {
			p.logger.Debug(ctx, "partial filter excludes index", map[string]any{"index": idx.Name})
			continue
		}
		usable = append(usable, idx)
		switch idx.Kind() {
		case model.IndexKindWildcard:
			pc.expansions = append(pc.expansions, NewExpansion(idx, filter.Paths()))
		case model.IndexKindRegular:
			pc.regulars = append(pc.regulars, idx)
		}
	}
	var solutions []*solution.Solution
	if countText(filter) == 1 {
		accesses, err := pc.planText(usable)
		if err != nil {
			return nil, err
		}
		for _, a := range accesses {
			solutions = append(solutions, pc.analyze(a, req))
		}
		return p.result(ctx, id, filter, solutions), nil
	}

	accesses := pc.plan(filter)
	if len(accesses) > p.config.MaxIndexedSolutions {
		accesses = accesses[:p.config.MaxIndexedSolutions]
	}
	for _, a := range accesses {
		solutions = append(solutions, pc.analyze(a, req))
	}
	if hinted != nil && len(solutions) == 0 && hinted.Kind() == model.IndexKindRegular && partialFilterAllows(hinted, filter) {
		solutions = append(solutions, pc.analyze(pc.fullScan(hinted), req))
	}
	if hinted == nil && len(req.Sort) > 0 && !lo.ContainsBy(solutions, func(s *solution.Solution) bool {
		return !s.HasBlockingSort()
	}) {
		for _, idx := range pc.regulars {
			if idx.Sparse || idx.PartialFilter != nil || len(idx.MultikeyPaths) > 0 || !providesSort(idx, req.Sort) {
				continue
			}
			solutions = append(solutions, pc.analyze(pc.fullScan(idx), req))
		}
	}
	options := p.config.Options
	if hinted == nil && ((len(solutions) == 0 && !options.Has(NoTableScan)) || options.Has(IncludeCollScan)) {
		solutions = append(solutions, pc.collectionScan(req))
	}
	return p.result(ctx, id, filter, solutions), nil
}

// collectionScan returns the plan reading every document
func (pc *planContext) collectionScan(req model.Request) *solution.Solution {
	filter := residual([]*expr.Node{pc.filter}, nil)
	return pc.analyze(access{
		node:    &solution.CollectionScan{Filter: filter, Direction: 1},
		fetched: true,
	}, req)
}

func (p *defaultPlanner) result(ctx context.Context, id string, filter *expr.Node, solutions []*solution.Solution) *Result {
	p.logger.Debug(ctx, "planned query", map[string]any{
		"filter":    filter.String(),
		"solutions": len(solutions),
	})
	return &Result{ID: id, Solutions: solutions}
}

func (p *defaultPlanner) PlanAll(ctx context.Context, reqs []model.Request, catalog []model.Index) ([]*Result, error) {
	results := make([]*Result, len(reqs))
	egp, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		egp.Go(func() error {
			res, err := p.Plan(ctx, req, catalog)
			if err != nil {
				return errors.Wrap(err, 0, "request %v", i)
			}
			results[i] = res
			return nil
		})
	}
	if err := egp.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
