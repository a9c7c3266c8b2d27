package bounds

import (
	"strings"

	"github.com/samber/lo"
)

// IndexBounds holds one interval list per key field, in key pattern order
type IndexBounds struct {
	Fields []OrderedIntervalList `json:"fields"`
}

// Get returns the interval list of the given field
func (b IndexBounds) Get(field string) (OrderedIntervalList, bool) {
	return lo.Find(b.Fields, func(o OrderedIntervalList) bool {
		return o.Field == field
	})
}

// IsEmpty returns true if any field matches no values
func (b IndexBounds) IsEmpty() bool {
	return lo.ContainsBy(b.Fields, func(o OrderedIntervalList) bool {
		return o.IsEmpty()
	})
}

// Reverse returns the bounds in descending scan order
func (b IndexBounds) Reverse() IndexBounds {
	return IndexBounds{Fields: lo.Map(b.Fields, func(o OrderedIntervalList, _ int) OrderedIntervalList {
		return o.Reverse()
	})}
}

// Equal returns true if both bounds hold the same fields and intervals
func (b IndexBounds) Equal(other IndexBounds) bool {
	if len(b.Fields) != len(other.Fields) {
		return false
	}
	for i := range b.Fields {
		if b.Fields[i].Field != other.Fields[i].Field || !b.Fields[i].Equal(other.Fields[i]) {
			return false
		}
	}
	return true
}

// String renders the bounds, ex: {$_path: [["a", "a"]], a: [(0, 9)]}
func (b IndexBounds) String() string {
	parts := lo.Map(b.Fields, func(o OrderedIntervalList, _ int) string {
		return o.Field + ": " + o.String()
	})
	return "{" + strings.Join(parts, ", ") + "}"
}
