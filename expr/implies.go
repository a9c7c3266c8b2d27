package expr

import (
	"github.com/autom8ter/allpaths/bounds"
	"github.com/autom8ter/allpaths/value"
)

// Implies returns true if every document matching q also matches f. It is used to decide whether a partial index,
// which only holds the documents matching its filter, can answer a query. False negatives are allowed, false positives
// are not.
func Implies(q, f *Node) bool {
	switch {
	case f == nil || f.Type == AlwaysTrue:
		return true
	case q == nil:
		return false
	case f.Type == And:
		for _, c := range f.Children {
			if !Implies(q, c) {
				return false
			}
		}
		return true
	case q.Type == Or:
		for _, c := range q.Children {
			if !Implies(c, f) {
				return false
			}
		}
		return len(q.Children) > 0
	case q.Type == And:
		for _, c := range q.Children {
			if Implies(c, f) {
				return true
			}
		}
		return false
	case f.Type == Or:
		for _, c := range f.Children {
			if Implies(q, c) {
				return true
			}
		}
		return false
	}
	return leafImplies(q, f)
}

func leafImplies(q, f *Node) bool {
	if Equivalent(q, f) {
		return true
	}
	if q.Path != f.Path {
		return false
	}
	switch f.Type {
	case Exists:
		return requiresField(q)
	case Eq, Lt, Lte, Gt, Gte, In:
		outer, tightness, ok := f.Bounds()
		if !ok || tightness != bounds.Exact {
			return false
		}
		inner, ok := matchedBounds(q)
		if !ok {
			return false
		}
		field := f.Path.String()
		return bounds.Contains(bounds.NewOIL(field, outer...), bounds.NewOIL(field, inner.Intervals...))
	}
	return false
}

// matchedBounds returns a superset of the values q can match on its path
func matchedBounds(q *Node) (bounds.OrderedIntervalList, bool) {
	if q.Type == ElemMatchValue {
		oil, _, ok := q.ElemMatchBounds()
		return oil, ok
	}
	intervals, _, ok := q.Bounds()
	if !ok {
		return bounds.OrderedIntervalList{}, false
	}
	return bounds.NewOIL(q.Path.String(), intervals...), true
}

// requiresField returns true if q never matches a document that is missing its path
func requiresField(q *Node) bool {
	switch q.Type {
	case Exists, Mod, Regex, ElemMatchValue, ElemMatchObject:
		return true
	case Eq, Lt, Lte, Gt, Gte, ExprEq:
		switch value.TypeOf(q.Value) {
		case value.TypeNull, value.TypeUndefined, value.TypeMinKey, value.TypeMaxKey:
			return false
		}
		return true
	case In:
		for _, v := range q.Values {
			if value.IsNull(v) {
				return false
			}
		}
		return len(q.Values) > 0
	}
	return false
}
