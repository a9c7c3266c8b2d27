package value

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// FromJSON converts a parsed json value into a value. Objects keep their field order. The extended json forms
// {"$minKey": 1}, {"$maxKey": 1}, {"$undefined": true}, {"$date": "..."}, {"$regularExpression": {...}} and
// {"$numberDouble": "Infinity" | "-Infinity" | "NaN"} are recognized.
func FromJSON(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
			return i
		}
		return r.Num
	case gjson.String:
		return r.Str
	}
	if r.IsArray() {
		var arr = Array{}
		r.ForEach(func(_, v gjson.Result) bool {
			arr = append(arr, FromJSON(v))
			return true
		})
		return arr
	}
	if ext, ok := fromExtendedJSON(r); ok {
		return ext
	}
	var doc = Doc{}
	r.ForEach(func(k, v gjson.Result) bool {
		doc = append(doc, Field{Key: k.String(), Value: FromJSON(v)})
		return true
	})
	return doc
}

// ParseJSON parses a json string into a value
func ParseJSON(raw string) any {
	return FromJSON(gjson.Parse(raw))
}

func fromExtendedJSON(r gjson.Result) (any, bool) {
	var (
		keys  []string
		inner gjson.Result
	)
	r.ForEach(func(k, v gjson.Result) bool {
		keys = append(keys, k.String())
		inner = v
		return len(keys) < 2
	})
	if len(keys) != 1 || !strings.HasPrefix(keys[0], "$") {
		return nil, false
	}
	switch keys[0] {
	case "$minKey":
		return MinKey, true
	case "$maxKey":
		return MaxKey, true
	case "$undefined":
		return Undefined, true
	case "$date":
		if inner.Type == gjson.Number {
			return time.UnixMilli(inner.Int()).UTC(), true
		}
		t, err := time.Parse(time.RFC3339Nano, inner.String())
		if err != nil {
			return nil, false
		}
		return t.UTC(), true
	case "$regularExpression":
		return Regex{
			Pattern: inner.Get("pattern").String(),
			Flags:   inner.Get("options").String(),
		}, true
	case "$numberDouble":
		switch inner.String() {
		case "Infinity":
			return math.Inf(1), true
		case "-Infinity":
			return math.Inf(-1), true
		case "NaN":
			return math.NaN(), true
		}
		return cast.ToFloat64(inner.String()), true
	}
	return nil, false
}

// JSON renders v as json. Values without a json form use the extended json forms understood by FromJSON.
func JSON(v any) string {
	v = Normalize(v)
	switch val := v.(type) {
	case nil:
		return "null"
	case minKey:
		return `{"$minKey":1}`
	case maxKey:
		return `{"$maxKey":1}`
	case undefined:
		return `{"$undefined":true}`
	case bool:
		return strconv.FormatBool(val)
	case string:
		return quote(val)
	case time.Time:
		return `{"$date":` + quote(val.UTC().Format(time.RFC3339Nano)) + `}`
	case Regex:
		return `{"$regularExpression":{"pattern":` + quote(val.Pattern) + `,"options":` + quote(val.Flags) + `}}`
	case Doc:
		parts := make([]string, 0, len(val))
		for _, f := range val {
			parts = append(parts, quote(f.Key)+":"+JSON(f.Value))
		}
		return "{" + strings.Join(parts, ",") + "}"
	case Array:
		parts := make([]string, 0, len(val))
		for _, e := range val {
			parts = append(parts, JSON(e))
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	if TypeOf(v) == TypeNumber {
		if i, ok := asInt64(v); ok {
			return strconv.FormatInt(i, 10)
		}
		f := cast.ToFloat64(v)
		switch {
		case math.IsInf(f, 1):
			return `{"$numberDouble":"Infinity"}`
		case math.IsInf(f, -1):
			return `{"$numberDouble":"-Infinity"}`
		case math.IsNaN(f):
			return `{"$numberDouble":"NaN"}`
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	bits, _ := json.Marshal(v)
	return string(bits)
}

func quote(s string) string {
	bits, _ := json.Marshal(s)
	return string(bits)
}
