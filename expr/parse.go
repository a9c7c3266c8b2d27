package expr

import (
	"strings"

	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/fieldpath"
	"github.com/autom8ter/allpaths/value"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// Parse parses a json filter document into a normalized predicate tree
func Parse(filter string) (*Node, error) {
	if strings.TrimSpace(filter) == "" {
		return &Node{Type: AlwaysTrue}, nil
	}
	if !gjson.Valid(filter) {
		return nil, errors.New(errors.Validation, "invalid filter json: %s", filter)
	}
	r := gjson.Parse(filter)
	if !r.IsObject() {
		return nil, errors.New(errors.Validation, "filter must be an object: %s", filter)
	}
	n, err := parseDocument(r)
	if err != nil {
		return nil, err
	}
	return Normalize(n), nil
}

// MustParse parses the filter and panics if it is invalid
func MustParse(filter string) *Node {
	n, err := Parse(filter)
	if err != nil {
		panic(err)
	}
	return n
}

func forEachField(r gjson.Result, fn func(key string, val gjson.Result) error) error {
	var err error
	r.ForEach(func(k, v gjson.Result) bool {
		err = fn(k.String(), v)
		return err == nil
	})
	return err
}

func parseDocument(r gjson.Result) (*Node, error) {
	and := NewAnd()
	err := forEachField(r, func(key string, val gjson.Result) error {
		var (
			n   *Node
			err error
		)
		switch key {
		case "$and", "$or", "$nor":
			n, err = parseLogical(key, val)
		case "$text":
			n, err = parseText(val)
		default:
			if strings.HasPrefix(key, "$") {
				return errors.New(errors.Validation, "unknown top level operator: %s", key)
			}
			path := fieldpath.Path(key)
			if !path.Valid() {
				return errors.New(errors.Validation, "invalid field path: %q", key)
			}
			n, err = parseField(path, val)
		}
		if err != nil {
			return err
		}
		and.Children = append(and.Children, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return and, nil
}

func parseLogical(key string, val gjson.Result) (*Node, error) {
	if !val.IsArray() || len(val.Array()) == 0 {
		return nil, errors.New(errors.Validation, "%s must be a nonempty array", key)
	}
	n := &Node{Type: map[string]MatchType{"$and": And, "$or": Or, "$nor": Nor}[key]}
	for _, child := range val.Array() {
		if !child.IsObject() {
			return nil, errors.New(errors.Validation, "%s entries must be objects", key)
		}
		c, err := parseDocument(child)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

func parseText(val gjson.Result) (*Node, error) {
	search := val.Get("$search")
	if search.Type != gjson.String {
		return nil, errors.New(errors.Validation, "$text requires a $search string")
	}
	return &Node{Type: Text, Search: search.String()}, nil
}

func isOperatorObject(r gjson.Result) bool {
	if !r.IsObject() {
		return false
	}
	var (
		ops    int
		fields int
	)
	r.ForEach(func(k, _ gjson.Result) bool {
		fields++
		if strings.HasPrefix(k.String(), "$") {
			ops++
		}
		return true
	})
	if fields == 0 || ops != fields {
		return false
	}
	// extended json literals are values
	_, isDoc := value.FromJSON(r).(value.Doc)
	return isDoc
}

func parseField(path fieldpath.Path, val gjson.Result) (*Node, error) {
	if !isOperatorObject(val) {
		v := value.FromJSON(val)
		if r, ok := v.(value.Regex); ok {
			return NewLeaf(Regex, path, r), nil
		}
		return NewLeaf(Eq, path, v), nil
	}
	return parseOperators(path, val)
}

// parseOperators parses an operator object, ex: {$gt: 0, $lt: 9}
func parseOperators(path fieldpath.Path, ops gjson.Result) (*Node, error) {
	and := NewAnd()
	var (
		regex   value.Regex
		isRegex bool
	)
	if opt := ops.Get("$options"); opt.Exists() {
		regex.Flags = opt.String()
	}
	err := forEachField(ops, func(op string, val gjson.Result) error {
		var n *Node
		switch op {
		case "$eq", "$ne", "$lt", "$lte", "$gt", "$gte":
			n = NewLeaf(map[string]MatchType{"$eq": Eq, "$ne": Eq, "$lt": Lt, "$lte": Lte, "$gt": Gt, "$gte": Gte}[op], path, value.FromJSON(val))
			if op == "$ne" {
				n = NewNot(n)
			}
		case "$_internalExprEq":
			n = NewLeaf(ExprEq, path, value.FromJSON(val))
		case "$in", "$nin":
			if !val.IsArray() {
				return errors.New(errors.Validation, "%s requires an array", op)
			}
			n = &Node{Type: In, Path: path}
			for _, v := range val.Array() {
				n.Values = append(n.Values, value.FromJSON(v))
			}
			if op == "$nin" {
				n = NewNot(n)
			}
		case "$exists":
			n = &Node{Type: Exists, Path: path}
			if !val.Bool() {
				n = NewNot(n)
			}
		case "$mod":
			arr := val.Array()
			if len(arr) != 2 {
				return errors.New(errors.Validation, "$mod requires [divisor, remainder]")
			}
			divisor := cast.ToFloat64(arr[0].Value())
			if divisor == 0 {
				return errors.New(errors.BadValue, "$mod divisor cannot be 0")
			}
			n = &Node{Type: Mod, Path: path, Divisor: divisor, Remainder: cast.ToFloat64(arr[1].Value())}
		case "$regex":
			switch v := value.FromJSON(val).(type) {
			case value.Regex:
				regex.Pattern = v.Pattern
				if regex.Flags == "" {
					regex.Flags = v.Flags
				}
			case string:
				regex.Pattern = v
			default:
				return errors.New(errors.Validation, "$regex requires a string or regex")
			}
			isRegex = true
			return nil
		case "$options":
			return nil
		case "$not":
			var (
				child *Node
				err   error
			)
			if r, ok := value.FromJSON(val).(value.Regex); ok {
				child = NewLeaf(Regex, path, r)
			} else if isOperatorObject(val) {
				child, err = parseOperators(path, val)
			} else {
				err = errors.New(errors.Validation, "$not requires an operator object or regex")
			}
			if err != nil {
				return err
			}
			n = NewNot(child)
		case "$elemMatch":
			var err error
			n, err = parseElemMatch(path, val)
			if err != nil {
				return err
			}
		default:
			return errors.New(errors.Validation, "unknown operator: %s", op)
		}
		and.Children = append(and.Children, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if isRegex {
		and.Children = append(and.Children, NewLeaf(Regex, path, regex))
	}
	if len(and.Children) == 1 {
		return and.Children[0], nil
	}
	return and, nil
}

func parseElemMatch(path fieldpath.Path, val gjson.Result) (*Node, error) {
	if !val.IsObject() {
		return nil, errors.New(errors.Validation, "$elemMatch requires an object")
	}
	isValue := isOperatorObject(val)
	if isValue {
		_ = forEachField(val, func(key string, _ gjson.Result) error {
			switch key {
			case "$and", "$or", "$nor", "$text":
				isValue = false
			}
			return nil
		})
	}
	if isValue {
		child, err := parseOperators("", val)
		if err != nil {
			return nil, err
		}
		n := &Node{Type: ElemMatchValue, Path: path}
		if child.Type == And {
			n.Children = child.Children
		} else {
			n.Children = []*Node{child}
		}
		return n, nil
	}
	child, err := parseDocument(val)
	if err != nil {
		return nil, err
	}
	n := &Node{Type: ElemMatchObject, Path: path, Children: []*Node{child}}
	if len(child.Children) > 0 {
		n.Children = child.Children
	}
	return n, nil
}
