package expr

import (
	"strings"

	"github.com/autom8ter/allpaths/fieldpath"
	"github.com/autom8ter/allpaths/value"
	"github.com/samber/lo"
)

type renderer struct {
	val   func(any) string
	key   func(string) string
	colon string
	comma string
}

var (
	shellRenderer = renderer{
		val:   value.String,
		key:   func(s string) string { return s },
		colon: ": ",
		comma: ", ",
	}
	jsonRenderer = renderer{
		val:   value.JSON,
		key:   func(s string) string { return value.JSON(s) },
		colon: ":",
		comma: ",",
	}
)

// String renders the tree in query shell form, ex: {a: {$gt: 0}}
func (n *Node) String() string {
	if n == nil {
		return "{}"
	}
	return shellRenderer.node(n)
}

// JSON renders the tree as a json filter document that Parse accepts
func (n *Node) JSON() string {
	if n == nil {
		return "{}"
	}
	return jsonRenderer.node(n)
}

// MarshalJSON renders the tree as a json filter document
func (n *Node) MarshalJSON() ([]byte, error) {
	return []byte(n.JSON()), nil
}

// UnmarshalJSON parses a json filter document
func (n *Node) UnmarshalJSON(bits []byte) error {
	parsed, err := Parse(string(bits))
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

func (r renderer) doc(fields ...string) string {
	return "{" + strings.Join(fields, r.comma) + "}"
}

func (r renderer) field(k, v string) string {
	return r.key(k) + r.colon + v
}

func (r renderer) list(nodes []*Node) string {
	return "[" + strings.Join(lo.Map(nodes, func(n *Node, _ int) string {
		return r.node(n)
	}), r.comma) + "]"
}

func (r renderer) node(n *Node) string {
	switch n.Type {
	case AlwaysTrue:
		return "{}"
	case And, Or, Nor:
		if n.Type == And {
			if path, ops, ok := r.ops(n); ok && !path.Empty() {
				return r.doc(r.field(path.String(), r.doc(ops...)))
			}
		}
		return r.doc(r.field(n.Type.String(), r.list(n.Children)))
	case Text:
		return r.doc(r.field("$text", r.doc(r.field("$search", r.val(n.Search)))))
	}
	if path, ops, ok := r.ops(n); ok {
		return r.doc(r.field(path.String(), r.doc(ops...)))
	}
	return r.doc(r.field("$nor", r.list(n.Children)))
}

// ops renders a subtree that applies to a single path as operator fields, ex: $gt: 0, $lt: 9
func (r renderer) ops(n *Node) (fieldpath.Path, []string, bool) {
	switch n.Type {
	case Eq, Lt, Lte, Gt, Gte, ExprEq, Regex:
		return n.Path, []string{r.field(n.Type.String(), r.val(n.Value))}, true
	case In:
		vals := lo.Map(n.Values, func(v any, _ int) string {
			return r.val(v)
		})
		return n.Path, []string{r.field("$in", "["+strings.Join(vals, r.comma)+"]")}, true
	case Exists:
		return n.Path, []string{r.field("$exists", "true")}, true
	case Mod:
		return n.Path, []string{r.field("$mod", "["+r.val(n.Divisor)+r.comma+r.val(n.Remainder)+"]")}, true
	case Not:
		path, ops, ok := r.ops(n.Children[0])
		if !ok {
			return "", nil, false
		}
		return path, []string{r.field("$not", r.doc(ops...))}, true
	case And:
		var (
			path fieldpath.Path
			all  []string
		)
		for i, c := range n.Children {
			p, ops, ok := r.ops(c)
			if !ok || (i > 0 && p != path) {
				return "", nil, false
			}
			path = p
			all = append(all, ops...)
		}
		return path, all, len(all) > 0
	case ElemMatchValue:
		var all []string
		for _, c := range n.Children {
			_, ops, ok := r.ops(c)
			if !ok {
				return "", nil, false
			}
			all = append(all, ops...)
		}
		return n.Path, []string{r.field("$elemMatch", r.doc(all...))}, true
	case ElemMatchObject:
		inner := NewAnd(n.Children...)
		if len(n.Children) == 1 {
			inner = n.Children[0]
		}
		return n.Path, []string{r.field("$elemMatch", r.node(inner))}, true
	}
	return "", nil, false
}
