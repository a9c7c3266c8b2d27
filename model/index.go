package model

import (
	"strings"

	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/expr"
	"github.com/autom8ter/allpaths/fieldpath"
	"github.com/autom8ter/allpaths/util"
	"github.com/samber/lo"
)

// IndexKind is the kind of an index descriptor
type IndexKind string

const (
	IndexKindRegular  IndexKind = "regular"
	IndexKindWildcard IndexKind = "wildcard"
	IndexKindText     IndexKind = "text"
)

// Index is a catalog index descriptor
type Index struct {
	// Name is the indexes unique name in the collection
	Name string `json:"name" validate:"required,min=1"`
	// KeyPattern is the ordered list of indexed fields
	KeyPattern KeyPattern `json:"keyPattern" validate:"required,min=1,dive"`
	// MultikeyPaths are the paths known to hold arrays in at least one document. For a regular index these are
	// prefixes of its key fields, for a wildcard index any path under its prefix.
	MultikeyPaths []string `json:"multikeyPaths,omitempty"`
	// Sparse indexes hold no keys for documents missing the indexed fields
	Sparse bool `json:"sparse,omitempty"`
	// Unique indicates that it's a unique index
	Unique bool `json:"unique,omitempty"`
	// PartialFilter limits the index to the documents matching it
	PartialFilter *expr.Node `json:"partialFilterExpression,omitempty"`
	// WildcardProjection limits the paths a "$**" index holds
	WildcardProjection Projection `json:"wildcardProjection,omitempty"`
}

// Kind returns the kind of the index derived from its key pattern
func (i Index) Kind() IndexKind {
	switch {
	case lo.ContainsBy(i.KeyPattern, func(f KeyField) bool { return f.IsText() }):
		return IndexKindText
	case lo.ContainsBy(i.KeyPattern, func(f KeyField) bool { return f.IsWildcard() }):
		return IndexKindWildcard
	}
	return IndexKindRegular
}

// WildcardPrefix returns the path a wildcard index is restricted to, or an empty path for "$**"
func (i Index) WildcardPrefix() fieldpath.Path {
	if i.Kind() != IndexKindWildcard {
		return ""
	}
	return fieldpath.Path(strings.TrimSuffix(strings.TrimSuffix(i.KeyPattern[0].Path, WildcardField), "."))
}

// WildcardDirection returns the direction of the wildcard key field
func (i Index) WildcardDirection() int {
	if i.Kind() != IndexKindWildcard {
		return 0
	}
	return i.KeyPattern[0].Direction
}

// TextPrefix returns the regular key fields that precede the text fields of a text index
func (i Index) TextPrefix() KeyPattern {
	var prefix KeyPattern
	for _, f := range i.KeyPattern {
		if f.IsText() {
			break
		}
		prefix = append(prefix, f)
	}
	return prefix
}

// Multikey returns the multikey paths as field paths
func (i Index) Multikey() []fieldpath.Path {
	return lo.Map(i.MultikeyPaths, func(p string, _ int) fieldpath.Path {
		return fieldpath.Path(p)
	})
}

// Validate validates the index
func (i Index) Validate() error {
	if err := util.ValidateStruct(&i); err != nil {
		return errors.Wrap(err, errors.Validation, "invalid index %s", i.Name)
	}
	switch i.Kind() {
	case IndexKindWildcard:
		if len(i.KeyPattern) != 1 {
			return errors.New(errors.Validation, "wildcard index %s must have exactly one key field", i.Name)
		}
		if i.KeyPattern[0].Direction == 0 {
			return errors.New(errors.Validation, "wildcard index %s must have a direction", i.Name)
		}
		if !i.WildcardPrefix().Empty() && !i.WildcardProjection.IsEmpty() {
			return errors.New(errors.Validation, "wildcard index %s cannot have both a prefix and a projection", i.Name)
		}
		prefix := i.WildcardPrefix()
		if !prefix.Empty() && !prefix.Valid() {
			return errors.New(errors.Validation, "wildcard index %s has an invalid prefix", i.Name)
		}
		for _, p := range i.Multikey() {
			if !p.Valid() || !prefix.IsPrefixOf(p) {
				return errors.New(errors.Validation, "wildcard index %s has an invalid multikey path: %q", i.Name, p)
			}
		}
	default:
		if !i.WildcardProjection.IsEmpty() {
			return errors.New(errors.Validation, "index %s is not a wildcard index and cannot have a wildcard projection", i.Name)
		}
		for _, f := range i.KeyPattern {
			if !f.IsText() && f.Special != "" {
				return errors.New(errors.Validation, "index %s has an unsupported special field %s: %s", i.Name, f.Path, f.Special)
			}
			if !fieldpath.Path(f.Path).Valid() {
				return errors.New(errors.Validation, "index %s has an invalid key field: %q", i.Name, f.Path)
			}
		}
	}
	return nil
}

// IndexEntry is an index the planner can scan. Regular and text indexes have one entry each. A wildcard index is
// expanded into one entry per queried path with the key pattern {$_path: 1, <path>: <direction>}.
type IndexEntry struct {
	// Name is the index name. Wildcard entries are named <index>[<path>]
	Name string `json:"name"`
	// KeyPattern is the key pattern the scan walks
	KeyPattern KeyPattern `json:"keyPattern"`
	// Index is the catalog descriptor the entry was built from
	Index *Index `json:"-"`
	// Path is the path a wildcard entry is expanded for
	Path fieldpath.Path `json:"path,omitempty"`
	// MultikeyPaths are the descriptor's multikey paths that are prefixes of a wildcard entry's path
	MultikeyPaths []fieldpath.Path `json:"multikeyPaths,omitempty"`
}

// IsWildcard returns true if the entry was expanded from a wildcard index
func (e IndexEntry) IsWildcard() bool {
	return e.Index != nil && e.Index.Kind() == IndexKindWildcard
}

// MultikeyPositions returns the zero based components of path that are known to hold arrays
func (e IndexEntry) MultikeyPositions(path fieldpath.Path) []int {
	return path.PositionsIn(e.MultikeyPaths)
}

// IsMultikey returns true if any component of the path is known to hold arrays
func (e IndexEntry) IsMultikey(path fieldpath.Path) bool {
	return len(e.MultikeyPositions(path)) > 0
}
