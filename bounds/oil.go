package bounds

import (
	"sort"
	"strings"

	"github.com/autom8ter/allpaths/value"
	"github.com/samber/lo"
)

// OrderedIntervalList is the set of intervals an index scan visits for one key field. Intervals are ascending and
// never overlap or touch.
type OrderedIntervalList struct {
	Field     string     `json:"field"`
	Intervals []Interval `json:"intervals"`
}

// NewOIL returns a normalized interval list for the given field
func NewOIL(field string, intervals ...Interval) OrderedIntervalList {
	return OrderedIntervalList{
		Field:     field,
		Intervals: normalize(intervals),
	}
}

// FullOIL returns [[MinKey, MaxKey]] for the given field
func FullOIL(field string) OrderedIntervalList {
	return OrderedIntervalList{Field: field, Intervals: []Interval{AllValues()}}
}

// IsEmpty returns true if the list matches no values
func (o OrderedIntervalList) IsEmpty() bool {
	return len(o.Intervals) == 0
}

// IsFull returns true if the list is [[MinKey, MaxKey]]
func (o OrderedIntervalList) IsFull() bool {
	return len(o.Intervals) == 1 && o.Intervals[0].IsAllValues()
}

// IsPoints returns true if every interval is a single value
func (o OrderedIntervalList) IsPoints() bool {
	for _, i := range o.Intervals {
		if !i.IsPoint() {
			return false
		}
	}
	return len(o.Intervals) > 0
}

// Equal returns true if both lists hold the same intervals
func (o OrderedIntervalList) Equal(other OrderedIntervalList) bool {
	if len(o.Intervals) != len(other.Intervals) {
		return false
	}
	for i := range o.Intervals {
		if !o.Intervals[i].Equal(other.Intervals[i]) {
			return false
		}
	}
	return true
}

// Reverse returns the list in descending scan order
func (o OrderedIntervalList) Reverse() OrderedIntervalList {
	out := OrderedIntervalList{Field: o.Field, Intervals: make([]Interval, 0, len(o.Intervals))}
	for i := len(o.Intervals) - 1; i >= 0; i-- {
		out.Intervals = append(out.Intervals, o.Intervals[i].Reverse())
	}
	return out
}

// String renders the list, ex: [[1, 1], [2, 2]]
func (o OrderedIntervalList) String() string {
	parts := lo.Map(o.Intervals, func(i Interval, _ int) string {
		return i.String()
	})
	return "[" + strings.Join(parts, ", ") + "]"
}

// Intersect returns the values present in both lists. The result keeps a's field name.
func Intersect(a, b OrderedIntervalList) OrderedIntervalList {
	return OrderedIntervalList{
		Field:     a.Field,
		Intervals: merge(normalize(a.Intervals), normalize(b.Intervals), false),
	}
}

// Union returns the values present in either list. The result keeps a's field name.
func Union(a, b OrderedIntervalList) OrderedIntervalList {
	return OrderedIntervalList{
		Field:     a.Field,
		Intervals: merge(a.Intervals, b.Intervals, true),
	}
}

// Contains returns true if every value of inner is also a value of outer
func Contains(outer, inner OrderedIntervalList) bool {
	return Union(outer, inner).Equal(NewOIL(outer.Field, outer.Intervals...))
}

// OverlapsType returns true if any interval holds a value of the canonical type t
func OverlapsType(o OrderedIntervalList, t value.Type) bool {
	lowV, lowIn, highV, highIn := value.Bracket(t)
	bracket := NewOIL(o.Field, Range(lowV, highV, lowIn, highIn))
	return !Intersect(o, bracket).IsEmpty()
}

// OverlapsObjects returns true if any interval holds an object value. An index on a path with object values also holds
// keys for the object's subpaths.
func OverlapsObjects(o OrderedIntervalList) bool {
	return OverlapsType(o, value.TypeObject)
}

type point struct {
	value any
	excl  bool
	start bool
}

func pointLess(a, b point) bool {
	if c := value.Compare(a.value, b.value); c != 0 {
		return c < 0
	}
	switch {
	case a.start && b.start:
		return !a.excl && b.excl
	case a.start:
		return !a.excl && !b.excl
	case b.start:
		return a.excl || b.excl
	}
	return a.excl && !b.excl
}

func toPoints(intervals []Interval) []point {
	points := make([]point, 0, len(intervals)*2)
	for _, i := range intervals {
		if i.Empty() {
			continue
		}
		points = append(points,
			point{value: i.Low, excl: !i.LowInclusive, start: true},
			point{value: i.High, excl: !i.HighInclusive},
		)
	}
	return points
}

// merge sweeps the endpoints of both lists in order, counting open intervals. A union emits a range while at least one
// interval is open, an intersection while both are.
func merge(a, b []Interval, union bool) []Interval {
	points := append(toPoints(a), toPoints(b)...)
	sort.SliceStable(points, func(i, j int) bool {
		return pointLess(points[i], points[j])
	})
	required := 2
	if union {
		required = 1
	}
	var (
		inRange int
		out     []point
	)
	for _, p := range points {
		if p.start {
			inRange++
			if inRange == required {
				out = append(out, p)
			}
			continue
		}
		if inRange == required {
			out = append(out, p)
		}
		inRange--
	}
	var intervals []Interval
	for i := 0; i+1 < len(out); i += 2 {
		next := Range(out[i].value, out[i+1].value, !out[i].excl, !out[i+1].excl)
		if next.Empty() {
			continue
		}
		if n := len(intervals); n > 0 && touches(intervals[n-1], next) {
			intervals[n-1] = intervals[n-1].withHigh(next.High, next.HighInclusive)
			continue
		}
		intervals = append(intervals, next)
	}
	return intervals
}

func touches(prev, next Interval) bool {
	return value.Equal(prev.High, next.Low) && (prev.HighInclusive || next.LowInclusive)
}

func normalize(intervals []Interval) []Interval {
	return merge(intervals, nil, true)
}
