// Package value models the scalar and composite values that appear in predicates and index keys and the canonical
// cross-type order used to build index bounds.
package value

import (
	"bytes"
	"cmp"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

type minKey struct{}

type maxKey struct{}

type undefined struct{}

var (
	// MinKey sorts before every other value
	MinKey = minKey{}
	// MaxKey sorts after every other value
	MaxKey = maxKey{}
	// Undefined is the deprecated undefined value. It sorts directly before null.
	Undefined = undefined{}
	// DateMin is the smallest representable date
	DateMin = time.UnixMilli(math.MinInt64).UTC()
	// DateMax is the largest representable date
	DateMax = time.UnixMilli(math.MaxInt64).UTC()
)

// Regex is a regular expression value
type Regex struct {
	Pattern string `json:"pattern"`
	Flags   string `json:"flags,omitempty"`
}

// String returns the regex in /pattern/flags form
func (r Regex) String() string {
	return "/" + r.Pattern + "/" + r.Flags
}

// Field is a single key/value pair of a Doc
type Field struct {
	Key   string
	Value any
}

// Doc is an ordered document
type Doc []Field

// Get returns the value of the first field with the given key
func (d Doc) Get(key string) (any, bool) {
	for _, f := range d {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Array is an ordered list of values
type Array []any

// Type is the canonical type of a value. Values of different canonical types are ordered by their Type.
type Type int

const (
	TypeMinKey Type = iota
	TypeUndefined
	TypeNull
	TypeNumber
	TypeString
	TypeObject
	TypeArray
	TypeBool
	TypeDate
	TypeRegex
	TypeMaxKey
)

var typeNames = map[Type]string{
	TypeMinKey:    "minKey",
	TypeUndefined: "undefined",
	TypeNull:      "null",
	TypeNumber:    "number",
	TypeString:    "string",
	TypeObject:    "object",
	TypeArray:     "array",
	TypeBool:      "bool",
	TypeDate:      "date",
	TypeRegex:     "regex",
	TypeMaxKey:    "maxKey",
}

func (t Type) String() string {
	return typeNames[t]
}

// TypeOf returns the canonical type of v
func TypeOf(v any) Type {
	switch v := v.(type) {
	case nil:
		return TypeNull
	case minKey:
		return TypeMinKey
	case maxKey:
		return TypeMaxKey
	case undefined:
		return TypeUndefined
	case string:
		return TypeString
	case bool:
		return TypeBool
	case time.Time:
		return TypeDate
	case Regex:
		return TypeRegex
	case *Regex:
		return TypeRegex
	case Doc:
		return TypeObject
	case Array:
		return TypeArray
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return TypeNumber
	default:
		switch reflect.ValueOf(v).Kind() {
		case reflect.Map, reflect.Struct:
			return TypeObject
		case reflect.Slice, reflect.Array:
			return TypeArray
		}
		return TypeObject
	}
}

// IsNull returns true for null and undefined
func IsNull(v any) bool {
	t := TypeOf(v)
	return t == TypeNull || t == TypeUndefined
}

// IsComposite returns true for objects and arrays
func IsComposite(v any) bool {
	t := TypeOf(v)
	return t == TypeObject || t == TypeArray
}

// IsNaN returns true if v is a NaN number
func IsNaN(v any) bool {
	if TypeOf(v) != TypeNumber {
		return false
	}
	return math.IsNaN(cast.ToFloat64(v))
}

// Normalize converts go maps and slices into Doc (sorted by key) and Array values so they can be ordered
func Normalize(v any) any {
	switch val := v.(type) {
	case Doc:
		out := make(Doc, 0, len(val))
		for _, f := range val {
			out = append(out, Field{Key: f.Key, Value: Normalize(f.Value)})
		}
		return out
	case Array:
		out := make(Array, 0, len(val))
		for _, e := range val {
			out = append(out, Normalize(e))
		}
		return out
	case *Regex:
		return *val
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(Doc, 0, len(val))
		for _, k := range keys {
			out = append(out, Field{Key: k, Value: Normalize(val[k])})
		}
		return out
	case []any:
		out := make(Array, 0, len(val))
		for _, e := range val {
			out = append(out, Normalize(e))
		}
		return out
	}
	return v
}

// Compare returns -1, 0 or 1 when a is less than, equal to or greater than b in the canonical order
func Compare(a, b any) int {
	a, b = Normalize(a), Normalize(b)
	ta, tb := TypeOf(a), TypeOf(b)
	if ta != tb {
		if ta < tb {
			return -1
		}
		return 1
	}
	switch ta {
	case TypeMinKey, TypeMaxKey, TypeNull, TypeUndefined:
		return 0
	case TypeNumber:
		return compareNumeric(a, b)
	case TypeString:
		return strings.Compare(a.(string), b.(string))
	case TypeBool:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case TypeDate:
		at, bt := a.(time.Time), b.(time.Time)
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		}
		return 0
	case TypeRegex:
		ar, br := a.(Regex), b.(Regex)
		if c := strings.Compare(ar.Pattern, br.Pattern); c != 0 {
			return c
		}
		return strings.Compare(ar.Flags, br.Flags)
	case TypeObject:
		ad, aok := a.(Doc)
		bd, bok := b.(Doc)
		if !aok || !bok {
			return bytes.Compare([]byte(String(a)), []byte(String(b)))
		}
		for i := 0; i < len(ad) && i < len(bd); i++ {
			if c := strings.Compare(ad[i].Key, bd[i].Key); c != 0 {
				return c
			}
			if c := Compare(ad[i].Value, bd[i].Value); c != 0 {
				return c
			}
		}
		return compareInts(len(ad), len(bd))
	case TypeArray:
		aa, aok := a.(Array)
		ba, bok := b.(Array)
		if !aok || !bok {
			return bytes.Compare([]byte(String(a)), []byte(String(b)))
		}
		for i := 0; i < len(aa) && i < len(ba); i++ {
			if c := Compare(aa[i], ba[i]); c != 0 {
				return c
			}
		}
		return compareInts(len(aa), len(ba))
	}
	return 0
}

// Equal returns true if a and b are equal in the canonical order
func Equal(a, b any) bool {
	return Compare(a, b) == 0
}

// compareNumeric compares integers exactly. A float and an integer fall back to the integer's exact value when they
// are equal as floats.
func compareNumeric(a, b any) int {
	ai, aInt := asInt64(a)
	bi, bInt := asInt64(b)
	switch {
	case aInt && bInt:
		return cmp.Compare(ai, bi)
	case aInt:
		return -compareFloatInt(cast.ToFloat64(b), ai)
	case bInt:
		return compareFloatInt(cast.ToFloat64(a), bi)
	}
	return compareNumbers(cast.ToFloat64(a), cast.ToFloat64(b))
}

func compareFloatInt(f float64, i int64) int {
	if c := compareNumbers(f, float64(i)); c != 0 {
		return c
	}
	// f is integral and within [-2^63, 2^63]
	if f >= float64(math.MaxInt64) {
		return 1
	}
	return cmp.Compare(int64(f), i)
}

func asInt64(v any) (int64, bool) {
	switch v := v.(type) {
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return cast.ToInt64(v), true
	case uint:
		return int64(v), uint64(v) <= math.MaxInt64
	case uint64:
		return int64(v), v <= math.MaxInt64
	}
	return 0, false
}

// NaN sorts before every other number and is equal to itself
func compareNumbers(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// String renders v for explain output and test assertions
func String(v any) string {
	v = Normalize(v)
	switch val := v.(type) {
	case nil:
		return "null"
	case minKey:
		return "MinKey"
	case maxKey:
		return "MaxKey"
	case undefined:
		return "undefined"
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return "Date(" + val.UTC().Format(time.RFC3339Nano) + ")"
	case Regex:
		return val.String()
	case float32:
		return formatFloat(float64(val))
	case float64:
		return formatFloat(val)
	case Doc:
		parts := make([]string, 0, len(val))
		for _, f := range val {
			parts = append(parts, f.Key+": "+String(f.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case Array:
		parts := make([]string, 0, len(val))
		for _, e := range val {
			parts = append(parts, String(e))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return cast.ToString(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
