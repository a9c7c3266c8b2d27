// Package bounds is the interval algebra used to describe which index keys an index scan visits
package bounds

import (
	"strings"

	"github.com/autom8ter/allpaths/value"
)

// Interval is a range of values in the canonical value order
type Interval struct {
	Low           any  `json:"low"`
	High          any  `json:"high"`
	LowInclusive  bool `json:"lowInclusive"`
	HighInclusive bool `json:"highInclusive"`
}

// Point returns the interval [v, v]
func Point(v any) Interval {
	return Interval{Low: v, High: v, LowInclusive: true, HighInclusive: true}
}

// Range returns an interval from lo to hi
func Range(lo, hi any, loInclusive, hiInclusive bool) Interval {
	return Interval{Low: lo, High: hi, LowInclusive: loInclusive, HighInclusive: hiInclusive}
}

// AllValues returns [MinKey, MaxKey]
func AllValues() Interval {
	return Point(value.MinKey).withHigh(value.MaxKey, true)
}

func (i Interval) withHigh(hi any, inclusive bool) Interval {
	i.High = hi
	i.HighInclusive = inclusive
	return i
}

// Empty returns true if no value lies within the interval
func (i Interval) Empty() bool {
	c := value.Compare(i.Low, i.High)
	switch {
	case c > 0:
		return true
	case c == 0:
		return !i.LowInclusive || !i.HighInclusive
	}
	return false
}

// IsPoint returns true if the interval holds exactly one value
func (i Interval) IsPoint() bool {
	return i.LowInclusive && i.HighInclusive && value.Equal(i.Low, i.High)
}

// IsAllValues returns true if the interval is [MinKey, MaxKey]
func (i Interval) IsAllValues() bool {
	return i.LowInclusive && i.HighInclusive && value.TypeOf(i.Low) == value.TypeMinKey && value.TypeOf(i.High) == value.TypeMaxKey
}

// Contains returns true if v lies within the interval
func (i Interval) Contains(v any) bool {
	lo := value.Compare(i.Low, v)
	if lo > 0 || (lo == 0 && !i.LowInclusive) {
		return false
	}
	hi := value.Compare(v, i.High)
	return hi < 0 || (hi == 0 && i.HighInclusive)
}

// Reverse swaps the interval's endpoints, as scanned by a descending index
func (i Interval) Reverse() Interval {
	return Interval{Low: i.High, High: i.Low, LowInclusive: i.HighInclusive, HighInclusive: i.LowInclusive}
}

// Equal returns true if both intervals have the same endpoints and inclusivity
func (i Interval) Equal(other Interval) bool {
	return i.LowInclusive == other.LowInclusive &&
		i.HighInclusive == other.HighInclusive &&
		value.Equal(i.Low, other.Low) &&
		value.Equal(i.High, other.High)
}

// String renders the interval, ex: [5, inf] or ("a", {})
func (i Interval) String() string {
	var b strings.Builder
	if i.LowInclusive {
		b.WriteString("[")
	} else {
		b.WriteString("(")
	}
	b.WriteString(value.String(i.Low))
	b.WriteString(", ")
	b.WriteString(value.String(i.High))
	if i.HighInclusive {
		b.WriteString("]")
	} else {
		b.WriteString(")")
	}
	return b.String()
}
