// Package fieldpath models dot separated document field references, ex: "a.b.c"
package fieldpath

import (
	"strings"
)

// Path is a dot separated reference to a (possibly nested) document field
type Path string

// New joins the given components into a Path
func New(components ...string) Path {
	return Path(strings.Join(components, "."))
}

// String returns the path as a string
func (p Path) String() string {
	return string(p)
}

// Empty returns true if the path has no components
func (p Path) Empty() bool {
	return p == ""
}

// Components returns the path split on '.'
func (p Path) Components() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), ".")
}

// Len returns the number of components in the path
func (p Path) Len() int {
	if p == "" {
		return 0
	}
	return strings.Count(string(p), ".") + 1
}

// Prefix returns the path made of the first n components
func (p Path) Prefix(n int) Path {
	if n <= 0 {
		return ""
	}
	components := p.Components()
	if n >= len(components) {
		return p
	}
	return New(components[:n]...)
}

// Join appends the child path to p
func (p Path) Join(child Path) Path {
	switch {
	case p == "":
		return child
	case child == "":
		return p
	default:
		return p + "." + child
	}
}

// IsPrefixOf returns true if p is equal to other or one of its ancestors. "a" is a prefix of "a.b" but not of "ab".
func (p Path) IsPrefixOf(other Path) bool {
	if p == "" {
		return true
	}
	if p == other {
		return true
	}
	return strings.HasPrefix(string(other), string(p)+".")
}

// Valid returns false if the path is empty or has an empty component
func (p Path) Valid() bool {
	if p == "" {
		return false
	}
	for _, c := range p.Components() {
		if c == "" {
			return false
		}
	}
	return true
}

// PositionsIn returns the zero based component positions of p at which one of the given paths ends,
// ex: "a.b.c".PositionsIn(["a", "a.b.c", "x"]) == [0, 2]. The result is ascending.
func (p Path) PositionsIn(paths []Path) []int {
	var positions []int
	n := p.Len()
	for i := 0; i < n; i++ {
		prefix := p.Prefix(i + 1)
		for _, other := range paths {
			if other == prefix {
				positions = append(positions, i)
				break
			}
		}
	}
	return positions
}
