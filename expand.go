package allpaths

import (
	"fmt"

	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/fieldpath"
	"github.com/autom8ter/allpaths/model"
	"github.com/samber/lo"
)

// Expansion is the restartable sequence of per path entries of a wildcard index. Entries are built on first use.
type Expansion struct {
	index   *model.Index
	paths   []fieldpath.Path
	pos     int
	entries map[fieldpath.Path]model.IndexEntry
}

// NewExpansion returns the expansion of the wildcard index over the queried paths it holds keys for. It panics if
// the index is not a wildcard index or has a multikey path outside of its prefix.
func NewExpansion(idx *model.Index, paths []fieldpath.Path) *Expansion {
	if idx.Kind() != model.IndexKindWildcard {
		panic(errors.New(errors.Internal, "index %s is not a wildcard index", idx.Name))
	}
	prefix := idx.WildcardPrefix()
	for _, p := range idx.Multikey() {
		if !p.Valid() || !prefix.IsPrefixOf(p) {
			panic(errors.New(errors.Internal, "wildcard index %s has an invalid multikey path: %q", idx.Name, p))
		}
	}
	return &Expansion{
		index: idx,
		paths: lo.Filter(lo.Uniq(paths), func(p fieldpath.Path, _ int) bool {
			return p.Valid() && wildcardCovers(idx, p)
		}),
		entries: map[fieldpath.Path]model.IndexEntry{},
	}
}

// Index returns the wildcard index being expanded
func (e *Expansion) Index() *model.Index {
	return e.index
}

// Len returns the number of entries in the sequence
func (e *Expansion) Len() int {
	return len(e.paths)
}

// Next returns the next entry of the sequence
func (e *Expansion) Next() (model.IndexEntry, bool) {
	if e.pos >= len(e.paths) {
		return model.IndexEntry{}, false
	}
	path := e.paths[e.pos]
	e.pos++
	return e.entry(path), true
}

// Reset restarts the sequence
func (e *Expansion) Reset() {
	e.pos = 0
}

// Lookup returns the entry of the given path if the sequence holds one
func (e *Expansion) Lookup(path fieldpath.Path) (model.IndexEntry, bool) {
	if !lo.Contains(e.paths, path) {
		return model.IndexEntry{}, false
	}
	return e.entry(path), true
}

func (e *Expansion) entry(path fieldpath.Path) model.IndexEntry {
	if entry, ok := e.entries[path]; ok {
		return entry
	}
	entry := model.IndexEntry{
		Name: fmt.Sprintf("%s[%s]", e.index.Name, path),
		KeyPattern: model.KeyPattern{
			{Path: model.PathField, Direction: 1},
			{Path: path.String(), Direction: e.index.WildcardDirection()},
		},
		Index: e.index,
		Path:  path,
		MultikeyPaths: lo.Filter(e.index.Multikey(), func(p fieldpath.Path, _ int) bool {
			return p.IsPrefixOf(path)
		}),
	}
	e.entries[path] = entry
	return entry
}
