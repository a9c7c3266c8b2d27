package bounds

import (
	"math"
	"strings"
	"unicode"

	"github.com/autom8ter/allpaths/value"
)

// Op is a comparison operator with interval bounds
type Op int

const (
	OpEq Op = iota
	OpLt
	OpLte
	OpGt
	OpGte
)

// Tightness describes how well a set of bounds answers the predicate it was built from
type Tightness int

const (
	// Exact bounds match exactly the values the predicate matches
	Exact Tightness = iota
	// InexactCovered bounds match a superset that can be filtered using the index key alone
	InexactCovered
	// InexactFetch bounds match a superset that can only be filtered after fetching the document
	InexactFetch
)

// Loosest returns the weakest of the given tightness values
func Loosest(t ...Tightness) Tightness {
	var out = Exact
	for _, tt := range t {
		if tt > out {
			out = tt
		}
	}
	return out
}

// ForComparison returns the intervals matched by a comparison against v. Ranges stay within the canonical type of v
// so {$lt: 5} matches [-inf, 5) and never a string.
func ForComparison(op Op, v any) []Interval {
	v = value.Normalize(v)
	typ := value.TypeOf(v)
	low, lowIn, high, highIn := value.Bracket(typ)
	switch {
	case typ == value.TypeMinKey:
		switch op {
		case OpGt:
			return []Interval{Range(value.MinKey, value.MaxKey, false, true)}
		case OpGte:
			return []Interval{AllValues()}
		case OpLt:
			return nil
		}
		return []Interval{Point(value.MinKey)}
	case typ == value.TypeMaxKey:
		switch op {
		case OpGt:
			return nil
		case OpLt:
			return []Interval{Range(value.MinKey, value.MaxKey, true, false)}
		case OpLte:
			return []Interval{AllValues()}
		}
		return []Interval{Point(value.MaxKey)}
	case value.IsNaN(v):
		if op == OpLt || op == OpGt {
			return nil
		}
		return []Interval{Point(math.NaN())}
	}
	switch op {
	case OpLt:
		return nonEmpty(Range(low, v, lowIn, false))
	case OpLte:
		return nonEmpty(Range(low, v, lowIn, true))
	case OpGt:
		return nonEmpty(Range(v, high, false, highIn))
	case OpGte:
		return nonEmpty(Range(v, high, true, highIn))
	}
	return []Interval{Point(v)}
}

func nonEmpty(i Interval) []Interval {
	if i.Empty() {
		return nil
	}
	return []Interval{i}
}

// ForEquality returns the intervals matched by an equality against v. Null equality also matches undefined and the
// documents missing the field, so it is never exact.
func ForEquality(v any) ([]Interval, Tightness) {
	v = value.Normalize(v)
	switch r := v.(type) {
	case value.Regex:
		return ForRegex(r)
	}
	if value.IsNull(v) {
		return []Interval{Point(value.Undefined), Point(nil)}, InexactFetch
	}
	return ForComparison(OpEq, v), Exact
}

// ForIn returns the union of the equality intervals of each value
func ForIn(values []any) ([]Interval, Tightness) {
	var (
		intervals []Interval
		tightness []Tightness
	)
	for _, v := range values {
		i, t := ForEquality(v)
		intervals = append(intervals, i...)
		tightness = append(tightness, t)
	}
	return normalize(intervals), Loosest(tightness...)
}

// ForMod returns the intervals that may satisfy a $mod predicate: every number
func ForMod() ([]Interval, Tightness) {
	return []Interval{Range(math.NaN(), math.Inf(1), true, true)}, InexactCovered
}

// ForExists returns the intervals matched by an $exists: true predicate
func ForExists() []Interval {
	return []Interval{AllValues()}
}

// ForRegex returns the intervals that may satisfy a regex predicate. An anchored regex with a literal prefix scans
// only the strings starting with the prefix. Every regex also matches an equal regex value.
func ForRegex(r value.Regex) ([]Interval, Tightness) {
	var (
		strs      Interval
		tightness = InexactCovered
	)
	if prefix, exact, ok := regexPrefix(r); ok {
		strs = Range(prefix, successor(prefix), true, false)
		if exact {
			tightness = Exact
		}
	} else {
		strs = Range("", value.Doc{}, true, false)
	}
	return []Interval{strs, Point(r)}, tightness
}

// successor returns the smallest value greater than every string starting with prefix
func successor(prefix string) any {
	b := []byte(prefix)
	for len(b) > 0 {
		last := len(b) - 1
		if b[last] < 0xff {
			b[last]++
			return string(b)
		}
		b = b[:last]
	}
	return value.Doc{}
}

const regexSpecial = `.[]()*+?{}^$`

func regexPrefix(r value.Regex) (prefix string, exact bool, ok bool) {
	if strings.ContainsAny(r.Flags, "ix") {
		return "", false, false
	}
	pattern := r.Pattern
	switch {
	case strings.HasPrefix(pattern, `\A`):
		pattern = pattern[2:]
	case strings.HasPrefix(pattern, "^") && !strings.Contains(r.Flags, "m"):
		pattern = pattern[1:]
	default:
		return "", false, false
	}
	if strings.Contains(pattern, "|") {
		return "", false, false
	}
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\\' {
			if i+1 >= len(runes) || unicode.IsLetter(runes[i+1]) || unicode.IsDigit(runes[i+1]) {
				return b.String(), false, true
			}
			i++
			b.WriteRune(runes[i])
			continue
		}
		if strings.ContainsRune(regexSpecial, c) {
			lit := b.String()
			if c == '*' || c == '?' || c == '{' {
				// the previous character is optional
				lr := []rune(lit)
				if len(lr) > 0 {
					lit = string(lr[:len(lr)-1])
				}
			}
			return lit, false, true
		}
		b.WriteRune(c)
	}
	return b.String(), true, true
}

// PathPoint returns the $_path interval for exactly the given path
func PathPoint(path string) Interval {
	return Point(path)
}

// PathPrefixRange returns the $_path interval for every subpath of the given path: [path., path/)
func PathPrefixRange(path string) Interval {
	return Range(path+".", path+"/", true, false)
}
