package expr

import (
	"github.com/samber/lo"
)

// Normalize returns a copy of the tree with nested $and/$or nodes flattened, single child $and/$or nodes collapsed
// and an $or of equalities on one path rewritten as an $in. ex: {$or: [{a: 1}, {a: 2}]} => {a: {$in: [1, 2]}}
func Normalize(n *Node) *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Children = lo.Map(n.Children, func(c *Node, _ int) *Node {
		return Normalize(c)
	})
	out.Values = append([]any(nil), n.Values...)
	switch out.Type {
	case And, Or:
		var children []*Node
		for _, c := range out.Children {
			switch {
			case c.Type == out.Type:
				children = append(children, c.Children...)
			case c.Type == AlwaysTrue && out.Type == And:
			default:
				children = append(children, c)
			}
		}
		switch len(children) {
		case 0:
			return &Node{Type: AlwaysTrue}
		case 1:
			return children[0]
		}
		out.Children = children
		if out.Type == Or {
			if in := orToIn(children); in != nil {
				return in
			}
		}
	case ElemMatchObject:
		var children []*Node
		for _, c := range out.Children {
			switch c.Type {
			case And:
				children = append(children, c.Children...)
			case AlwaysTrue:
			default:
				children = append(children, c)
			}
		}
		out.Children = children
	}
	return &out
}

// orToIn returns an $in equivalent to an $or of equalities, regexes or $in leaves on one path, or nil
func orToIn(children []*Node) *Node {
	in := &Node{Type: In, Path: children[0].Path}
	for _, c := range children {
		if c.Path != in.Path {
			return nil
		}
		switch c.Type {
		case Eq, Regex:
			in.Values = append(in.Values, c.Value)
		case In:
			in.Values = append(in.Values, c.Values...)
		default:
			return nil
		}
	}
	return in
}
