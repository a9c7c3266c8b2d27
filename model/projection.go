package model

import (
	"encoding/json"
	"sort"

	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/fieldpath"
	"github.com/autom8ter/allpaths/value"
	"github.com/nqd/flat"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

const idField = "_id"

// Projection is an inclusion or exclusion list of dotted paths. It is used both as a query projection and as the
// projection of a wildcard index, which limits the paths the index holds.
type Projection struct {
	// Paths are the included (or excluded) paths, sorted
	Paths []fieldpath.Path `json:"paths,omitempty"`
	// Exclusion is true when Paths are excluded
	Exclusion bool `json:"exclusion,omitempty"`
	// ID is the explicit _id setting, if any
	ID *bool `json:"id,omitempty"`
}

// ParseProjection parses a json projection document. Nested documents are flattened, ex: {"a": {"b": 1}} => a.b
func ParseProjection(raw string) (Projection, error) {
	if raw == "" {
		return Projection{}, nil
	}
	var nested map[string]any
	if err := json.Unmarshal([]byte(raw), &nested); err != nil {
		return Projection{}, errors.Wrap(err, errors.Validation, "invalid projection json")
	}
	return projectionFromMap(nested)
}

// MustParseProjection parses the projection and panics if it is invalid
func MustParseProjection(raw string) Projection {
	p, err := ParseProjection(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func projectionFromMap(nested map[string]any) (Projection, error) {
	var p Projection
	if len(nested) == 0 {
		return p, nil
	}
	flattened, err := flat.Flatten(nested, &flat.Options{Delimiter: "."})
	if err != nil {
		return p, errors.Wrap(err, errors.Validation, "failed to flatten projection")
	}
	var (
		included []fieldpath.Path
		excluded []fieldpath.Path
	)
	for k, v := range flattened {
		include, err := projectionFlag(v)
		if err != nil {
			return p, errors.New(errors.Validation, "projection value for %s must be a boolean or number: %v", k, v)
		}
		path := fieldpath.Path(k)
		if !path.Valid() {
			return p, errors.New(errors.Validation, "invalid projection path: %q", k)
		}
		if k == idField {
			p.ID = &include
			continue
		}
		if include {
			included = append(included, path)
		} else {
			excluded = append(excluded, path)
		}
	}
	if len(included) > 0 && len(excluded) > 0 {
		return p, errors.New(errors.Validation, "projection cannot mix inclusion and exclusion")
	}
	p.Paths = included
	if len(excluded) > 0 {
		p.Paths = excluded
		p.Exclusion = true
	}
	if len(p.Paths) == 0 && p.ID != nil && !*p.ID {
		p.Exclusion = true
	}
	sort.Slice(p.Paths, func(i, j int) bool {
		return p.Paths[i] < p.Paths[j]
	})
	return p, nil
}

// IsEmpty returns true if the projection has no fields
func (p Projection) IsEmpty() bool {
	return len(p.Paths) == 0 && p.ID == nil
}

// Includes returns true if a wildcard index with this projection holds keys for the given path. _id is only held
// when it is explicitly included.
func (p Projection) Includes(path fieldpath.Path) bool {
	if fieldpath.Path(idField).IsPrefixOf(path) {
		return p.ID != nil && *p.ID
	}
	if len(p.Paths) == 0 {
		return true
	}
	named := lo.ContainsBy(p.Paths, func(other fieldpath.Path) bool {
		return other.IsPrefixOf(path)
	})
	return named != p.Exclusion
}

// IncludesID returns true if a query projection returns the _id field. _id is returned unless excluded.
func (p Projection) IncludesID() bool {
	return p.ID == nil || *p.ID
}

// IsInclusion returns true if the projection lists the paths to return
func (p Projection) IsInclusion() bool {
	return !p.Exclusion && len(p.Paths) > 0
}

// Doc returns the projection as an ordered document, _id first
func (p Projection) Doc() value.Doc {
	var out value.Doc
	if p.ID != nil {
		out = append(out, value.Field{Key: idField, Value: boolToInt(*p.ID)})
	}
	for _, path := range p.Paths {
		out = append(out, value.Field{Key: path.String(), Value: boolToInt(!p.Exclusion)})
	}
	return out
}

// String renders the projection, ex: {_id: 0, a: 1}
func (p Projection) String() string {
	return value.String(p.Doc())
}

// MarshalJSON renders the projection as a flat json object
func (p Projection) MarshalJSON() ([]byte, error) {
	return []byte(value.JSON(p.Doc())), nil
}

// UnmarshalJSON parses a (possibly nested) json projection object
func (p *Projection) UnmarshalJSON(bits []byte) error {
	if string(bits) == "null" {
		*p = Projection{}
		return nil
	}
	parsed, err := ParseProjection(string(bits))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// projectionFlag returns the inclusion flag of a projection value: a bool, or a number where 0 excludes
func projectionFlag(v any) (bool, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case string, nil:
		return false, errors.New(errors.Validation, "not a boolean or number: %v", v)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return false, err
	}
	return f != 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
