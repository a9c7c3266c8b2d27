package model

import (
	"strings"

	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/value"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

const (
	// WildcardField is the key pattern field of an index over every path
	WildcardField = "$**"
	// PathField is the first key field of an expanded wildcard index entry
	PathField = "$_path"
	// TextSpecial marks a text key field
	TextSpecial = "text"
)

// KeyField is a single field of an index key pattern
type KeyField struct {
	// Path is the indexed field, "$**" or "<prefix>.$**"
	Path string `json:"path" validate:"required"`
	// Direction is 1 (ascending) or -1 (descending). It is 0 for special fields.
	Direction int `json:"direction"`
	// Special is the index type of a special field, ex: "text"
	Special string `json:"special,omitempty"`
}

// IsWildcard returns true if the field indexes every path under its prefix
func (k KeyField) IsWildcard() bool {
	return k.Path == WildcardField || strings.HasSuffix(k.Path, "."+WildcardField)
}

// IsText returns true if the field is part of a text index
func (k KeyField) IsText() bool {
	return k.Special == TextSpecial || k.Path == "_fts" || k.Path == "_ftsx"
}

func (k KeyField) value() any {
	if k.Special != "" {
		return k.Special
	}
	return k.Direction
}

// KeyPattern is an ordered list of key fields, ex: {a: 1, b: -1}
type KeyPattern []KeyField

// ParseKeyPattern parses a json key pattern object, ex: {"a": 1, "b": -1}
func ParseKeyPattern(raw string) (KeyPattern, error) {
	if !gjson.Valid(raw) {
		return nil, errors.New(errors.Validation, "invalid key pattern json: %s", raw)
	}
	return keyPatternFromJSON(gjson.Parse(raw))
}

// MustParseKeyPattern parses the key pattern and panics if it is invalid
func MustParseKeyPattern(raw string) KeyPattern {
	k, err := ParseKeyPattern(raw)
	if err != nil {
		panic(err)
	}
	return k
}

func keyPatternFromJSON(r gjson.Result) (KeyPattern, error) {
	var (
		out KeyPattern
		err error
	)
	switch {
	case r.IsObject():
		r.ForEach(func(key, val gjson.Result) bool {
			var f KeyField
			f, err = keyFieldFromJSON(key.String(), val)
			out = append(out, f)
			return err == nil
		})
	case r.IsArray():
		// [{"path": "a", "direction": 1}]
		for _, f := range r.Array() {
			val := f.Get("direction")
			if special := f.Get("special"); special.Exists() {
				val = special
			}
			var field KeyField
			field, err = keyFieldFromJSON(f.Get("path").String(), val)
			if err != nil {
				break
			}
			out = append(out, field)
		}
	default:
		return nil, errors.New(errors.Validation, "key pattern must be an object: %s", r.Raw)
	}
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New(errors.Validation, "key pattern must have at least one field")
	}
	return out, nil
}

func keyFieldFromJSON(path string, val gjson.Result) (KeyField, error) {
	if path == "" {
		return KeyField{}, errors.New(errors.Validation, "empty key pattern field")
	}
	if val.Type == gjson.String {
		return KeyField{Path: path, Special: val.String()}, nil
	}
	dir, err := cast.ToIntE(val.Value())
	if err != nil || val.Type == gjson.Null || !val.Exists() {
		return KeyField{}, errors.New(errors.Validation, "invalid direction for key pattern field %s: %s", path, val.Raw)
	}
	switch {
	case dir > 0:
		dir = 1
	case dir < 0:
		dir = -1
	default:
		return KeyField{}, errors.New(errors.Validation, "key pattern field %s has a zero direction", path)
	}
	return KeyField{Path: path, Direction: dir}, nil
}

// Paths returns the paths of the key fields in order
func (k KeyPattern) Paths() []string {
	return lo.Map(k, func(f KeyField, _ int) string {
		return f.Path
	})
}

// Equal returns true if both patterns hold the same fields in the same order
func (k KeyPattern) Equal(other KeyPattern) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// Reverse returns the pattern with every direction flipped
func (k KeyPattern) Reverse() KeyPattern {
	return lo.Map(k, func(f KeyField, _ int) KeyField {
		f.Direction = -f.Direction
		return f
	})
}

// Doc returns the pattern as an ordered document
func (k KeyPattern) Doc() value.Doc {
	return lo.Map(k, func(f KeyField, _ int) value.Field {
		return value.Field{Key: f.Path, Value: f.value()}
	})
}

// String renders the pattern, ex: {$_path: 1, a: 1}
func (k KeyPattern) String() string {
	return value.String(k.Doc())
}

// MarshalJSON renders the pattern as an ordered json object
func (k KeyPattern) MarshalJSON() ([]byte, error) {
	return []byte(value.JSON(k.Doc())), nil
}

// UnmarshalJSON parses an ordered json object or a list of key fields
func (k *KeyPattern) UnmarshalJSON(bits []byte) error {
	parsed, err := keyPatternFromJSON(gjson.ParseBytes(bits))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
