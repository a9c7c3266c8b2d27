package model

import (
	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/expr"
	"github.com/autom8ter/allpaths/util"
	"github.com/autom8ter/allpaths/value"
	"github.com/tidwall/gjson"
)

// Hint forces the planner to use one index, named either by its key pattern or by its name
type Hint struct {
	Name       string     `json:"name,omitempty"`
	KeyPattern KeyPattern `json:"keyPattern,omitempty"`
}

// ParseHint parses a hint: an index name ("allPaths"), {"$hint": "allPaths"} or a key pattern ({"$**": 1})
func ParseHint(raw string) (*Hint, error) {
	if !gjson.Valid(raw) {
		return nil, errors.New(errors.Validation, "invalid hint json: %s", raw)
	}
	r := gjson.Parse(raw)
	switch {
	case r.Type == gjson.String:
		return &Hint{Name: r.String()}, nil
	case r.Get(`\$hint`).Type == gjson.String:
		return &Hint{Name: r.Get(`\$hint`).String()}, nil
	case r.Get("name").Type == gjson.String:
		return &Hint{Name: r.Get("name").String()}, nil
	case r.Get("keyPattern").Exists():
		r = r.Get("keyPattern")
	}
	k, err := keyPatternFromJSON(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "invalid hint")
	}
	return &Hint{KeyPattern: k}, nil
}

// Matches returns true if the hint names the given index
func (h Hint) Matches(i Index) bool {
	if h.Name != "" {
		return h.Name == i.Name
	}
	return h.KeyPattern.Equal(i.KeyPattern)
}

// String renders the hint
func (h Hint) String() string {
	if h.Name != "" {
		return value.String(h.Name)
	}
	return h.KeyPattern.String()
}

// MarshalJSON renders the hint as an index name or key pattern
func (h Hint) MarshalJSON() ([]byte, error) {
	if h.Name != "" {
		return []byte(value.JSON(h.Name)), nil
	}
	return h.KeyPattern.MarshalJSON()
}

// UnmarshalJSON parses an index name, {"$hint": name} or a key pattern
func (h *Hint) UnmarshalJSON(bits []byte) error {
	parsed, err := ParseHint(string(bits))
	if err != nil {
		return err
	}
	*h = *parsed
	return nil
}

// Request is a query to plan
type Request struct {
	// Filter is the query predicate. A nil filter matches every document.
	Filter *expr.Node `json:"filter,omitempty"`
	// Sort is the requested result order
	Sort KeyPattern `json:"sort,omitempty"`
	// Projection is the requested result shape
	Projection Projection `json:"projection,omitempty"`
	// Skip is the number of results to skip
	Skip int `json:"skip,omitempty" validate:"min=0"`
	// Limit is the maximum number of results to return. 0 means no limit.
	Limit int `json:"limit,omitempty" validate:"min=0"`
	// Hint forces an index
	Hint *Hint `json:"hint,omitempty"`
}

// Validate validates the request
func (r Request) Validate() error {
	if err := util.ValidateStruct(&r); err != nil {
		return errors.Wrap(err, errors.Validation, "invalid request")
	}
	for _, f := range r.Sort {
		if f.Special != "" || (f.Direction != 1 && f.Direction != -1) {
			return errors.New(errors.Validation, "invalid sort field %s", f.Path)
		}
	}
	if r.Hint != nil && r.Hint.Name == "" && len(r.Hint.KeyPattern) == 0 {
		return errors.New(errors.Validation, "empty hint")
	}
	return nil
}

// Predicate returns the filter, or a tree that matches every document
func (r Request) Predicate() *expr.Node {
	if r.Filter == nil {
		return &expr.Node{Type: expr.AlwaysTrue}
	}
	return r.Filter
}
