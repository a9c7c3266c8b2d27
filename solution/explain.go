package solution

import (
	"github.com/autom8ter/allpaths/bounds"
	"github.com/autom8ter/allpaths/expr"
	"github.com/autom8ter/allpaths/value"
	"github.com/samber/lo"
	"github.com/tidwall/sjson"
)

// Explain renders a plan tree as a json explain document, ex: {"stage": "FETCH", "inputStage": {"stage": "IXSCAN"}}
func Explain(n Node) (string, error) {
	var (
		out = `{}`
		err error
	)
	set := func(path string, val any) {
		if err == nil {
			out, err = sjson.Set(out, path, val)
		}
	}
	setRaw := func(path string, raw string) {
		if err == nil {
			out, err = sjson.SetRaw(out, path, raw)
		}
	}
	setFilter := func(path string, f *expr.Node) {
		if f != nil {
			setRaw(path, f.JSON())
		}
	}
	set("stage", string(n.Stage()))
	switch n := n.(type) {
	case *IndexScan:
		set("indexName", n.Entry.Name)
		setRaw("keyPattern", value.JSON(n.Entry.KeyPattern.Doc()))
		set("direction", directionName(n.Direction))
		setFilter("filter", n.Filter)
		for _, oil := range n.Bounds.Fields {
			set("indexBounds."+escape(oil.Field), intervalStrings(oil))
		}
		if n.Entry.IsWildcard() {
			set("isMultiKey", n.Entry.IsMultikey(n.Entry.Path))
		}
	case *Fetch:
		setFilter("filter", n.Filter)
	case *Sort:
		setRaw("sortPattern", value.JSON(n.Pattern.Doc()))
		set("limitAmount", n.Limit)
	case *Skip:
		set("skipAmount", n.N)
	case *Limit:
		set("limitAmount", n.N)
	case *Projection:
		setRaw("transformBy", value.JSON(n.Spec.Doc()))
	case *CollectionScan:
		set("direction", directionName(n.Direction))
		setFilter("filter", n.Filter)
	case *Text:
		if n.Index != nil {
			set("indexName", n.Index.Name)
		}
		set("search", n.Search)
		setRaw("indexPrefix", value.JSON(n.Prefix))
		setFilter("filter", n.Filter)
	}
	children := n.Children()
	switch len(children) {
	case 0:
	case 1:
		child, cerr := Explain(children[0])
		if cerr != nil {
			return "", cerr
		}
		setRaw("inputStage", child)
	default:
		setRaw("inputStages", `[]`)
		for _, c := range children {
			child, cerr := Explain(c)
			if cerr != nil {
				return "", cerr
			}
			setRaw("inputStages.-1", child)
		}
	}
	return out, err
}

func directionName(dir int) string {
	if dir < 0 {
		return "backward"
	}
	return "forward"
}

func intervalStrings(oil bounds.OrderedIntervalList) []string {
	return lo.Map(oil.Intervals, func(i bounds.Interval, _ int) string {
		return i.String()
	})
}

// escape escapes the sjson path characters of a field name, ex: a.b => a\.b
func escape(field string) string {
	var out []rune
	for _, r := range field {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', ':':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
