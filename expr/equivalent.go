package expr

import (
	"sort"

	"github.com/autom8ter/allpaths/value"
)

// Equivalent returns true if both trees hold the same predicates. The order of $and, $or, $nor and $elemMatch
// children and of $in values is ignored.
func Equivalent(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.Path != b.Path {
		return false
	}
	switch a.Type {
	case Eq, Lt, Lte, Gt, Gte, ExprEq, Regex:
		return sameValue(a.Value, b.Value)
	case In:
		return sameValues(a.Values, b.Values)
	case Mod:
		return a.Divisor == b.Divisor && a.Remainder == b.Remainder
	case Text:
		return a.Search == b.Search
	}
	return sameChildren(a.Children, b.Children)
}

func sameValue(a, b any) bool {
	return value.TypeOf(a) == value.TypeOf(b) && value.Equal(a, b)
}

func sameValues(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	sorted := func(vals []any) []any {
		out := append([]any(nil), vals...)
		sort.SliceStable(out, func(i, j int) bool {
			return value.Compare(out[i], out[j]) < 0
		})
		return out
	}
	as, bs := sorted(a), sorted(b)
	for i := range as {
		if !sameValue(as[i], bs[i]) {
			return false
		}
	}
	return true
}

func sameChildren(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ac := range a {
		var matched bool
		for i, bc := range b {
			if used[i] || !Equivalent(ac, bc) {
				continue
			}
			used[i] = true
			matched = true
			break
		}
		if !matched {
			return false
		}
	}
	return true
}
