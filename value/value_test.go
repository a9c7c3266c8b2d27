package value_test

import (
	"math"
	"testing"
	"time"

	"github.com/autom8ter/allpaths/value"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	t.Run("cross type order", func(t *testing.T) {
		ordered := []any{
			value.MinKey,
			value.Undefined,
			nil,
			math.NaN(),
			math.Inf(-1),
			1,
			2.5,
			math.Inf(1),
			"",
			"abc",
			value.Doc{},
			value.Doc{{Key: "a", Value: 1}},
			value.Array{},
			value.Array{1},
			false,
			true,
			value.DateMin,
			time.Unix(0, 0),
			value.DateMax,
			value.Regex{},
			value.Regex{Pattern: "foo"},
			value.MaxKey,
		}
		for i := 1; i < len(ordered); i++ {
			assert.Equal(t, -1, value.Compare(ordered[i-1], ordered[i]), "%s < %s", value.String(ordered[i-1]), value.String(ordered[i]))
			assert.Equal(t, 1, value.Compare(ordered[i], ordered[i-1]))
		}
	})
	t.Run("numbers of different go types", func(t *testing.T) {
		assert.True(t, value.Equal(5, 5.0))
		assert.True(t, value.Equal(int64(5), float32(5)))
		assert.Equal(t, -1, value.Compare(4, 4.5))
	})
	t.Run("large integers compare exactly", func(t *testing.T) {
		const big = 9007199254740992
		assert.Equal(t, 1, value.Compare(int64(big+1), int64(big)))
		assert.Equal(t, -1, value.Compare(float64(big), int64(big+1)))
		assert.Equal(t, 1, value.Compare(int64(big+1), float64(big)))
		assert.True(t, value.Equal(float64(big), int64(big)))
		assert.Equal(t, 1, value.Compare(math.Inf(1), int64(math.MaxInt64)))
		assert.Equal(t, 1, value.Compare(float64(math.MaxInt64), int64(math.MaxInt64)))
		assert.Equal(t, 1, value.Compare(uint64(math.MaxUint64), int64(math.MaxInt64)))
		assert.Equal(t, -1, value.Compare(math.NaN(), int64(math.MinInt64)))
		assert.Equal(t, 1, value.Compare(value.ParseJSON(`9007199254740993`), value.ParseJSON(`9007199254740992`)))
		assert.Equal(t, "9007199254740993", value.JSON(value.ParseJSON(`9007199254740993`)))
	})
	t.Run("nan equals nan", func(t *testing.T) {
		assert.True(t, value.Equal(math.NaN(), math.NaN()))
	})
	t.Run("maps are normalized", func(t *testing.T) {
		assert.True(t, value.Equal(map[string]any{"b": 1, "a": 2}, value.Doc{{Key: "a", Value: 2}, {Key: "b", Value: 1}}))
		assert.True(t, value.Equal([]any{1, "x"}, value.Array{1, "x"}))
	})
	t.Run("random strings", func(t *testing.T) {
		for i := 0; i < 25; i++ {
			a, b := gofakeit.Word(), gofakeit.Word()
			assert.Equal(t, -value.Compare(a, b), value.Compare(b, a))
			assert.Equal(t, -1, value.Compare(a, value.Doc{}))
			assert.Equal(t, 1, value.Compare(a, gofakeit.Float64()))
		}
	})
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, value.TypeNull, value.TypeOf(nil))
	assert.Equal(t, value.TypeNumber, value.TypeOf(uint8(1)))
	assert.Equal(t, value.TypeObject, value.TypeOf(map[string]any{}))
	assert.Equal(t, value.TypeArray, value.TypeOf([]string{"a"}))
	assert.Equal(t, value.TypeRegex, value.TypeOf(&value.Regex{Pattern: "a"}))
	assert.True(t, value.IsNull(value.Undefined))
	assert.True(t, value.IsComposite(value.Array{}))
	assert.False(t, value.IsComposite("a"))
	assert.True(t, value.IsNaN(math.NaN()))
	assert.False(t, value.IsNaN("nan"))
	assert.Equal(t, "string", value.TypeString.String())
}

func TestString(t *testing.T) {
	assert.Equal(t, "null", value.String(nil))
	assert.Equal(t, "5", value.String(5.0))
	assert.Equal(t, "5", value.String(5))
	assert.Equal(t, "inf", value.String(math.Inf(1)))
	assert.Equal(t, "-inf", value.String(math.Inf(-1)))
	assert.Equal(t, "nan", value.String(math.NaN()))
	assert.Equal(t, `"foo"`, value.String("foo"))
	assert.Equal(t, "/^foo/i", value.String(value.Regex{Pattern: "^foo", Flags: "i"}))
	assert.Equal(t, `{a: 1, b: [true, "x"]}`, value.String(value.Doc{{Key: "a", Value: 1}, {Key: "b", Value: value.Array{true, "x"}}}))
	assert.Equal(t, "MinKey", value.String(value.MinKey))
	assert.Equal(t, "MaxKey", value.String(value.MaxKey))
	assert.Equal(t, "undefined", value.String(value.Undefined))
}

func TestBracket(t *testing.T) {
	for _, typ := range []value.Type{value.TypeNumber, value.TypeString, value.TypeObject, value.TypeArray, value.TypeBool, value.TypeDate, value.TypeRegex} {
		t.Run(typ.String(), func(t *testing.T) {
			low, lowIn, high, _ := value.Bracket(typ)
			assert.True(t, lowIn)
			assert.Equal(t, typ, value.TypeOf(low))
			assert.Equal(t, -1, value.Compare(low, high))
		})
	}
	t.Run("string upper bound is exclusive", func(t *testing.T) {
		_, _, high, highIn := value.Bracket(value.TypeString)
		assert.False(t, highIn)
		assert.Equal(t, value.TypeObject, value.TypeOf(high))
	})
}

func TestFromJSON(t *testing.T) {
	t.Run("ordered document", func(t *testing.T) {
		v := value.ParseJSON(`{"b": 1, "a": [1, "x", null, true]}`)
		doc, ok := v.(value.Doc)
		assert.True(t, ok)
		assert.Equal(t, "b", doc[0].Key)
		assert.Equal(t, `{b: 1, a: [1, "x", null, true]}`, value.String(v))
	})
	t.Run("extended json", func(t *testing.T) {
		assert.Equal(t, value.MinKey, value.ParseJSON(`{"$minKey": 1}`))
		assert.Equal(t, value.MaxKey, value.ParseJSON(`{"$maxKey": 1}`))
		assert.Equal(t, value.Undefined, value.ParseJSON(`{"$undefined": true}`))
		assert.Equal(t, math.Inf(1), value.ParseJSON(`{"$numberDouble": "Infinity"}`))
		assert.Equal(t, math.Inf(-1), value.ParseJSON(`{"$numberDouble": "-Infinity"}`))
		assert.True(t, value.IsNaN(value.ParseJSON(`{"$numberDouble": "NaN"}`)))
		assert.Equal(t, value.Regex{Pattern: "^foo", Flags: "i"}, value.ParseJSON(`{"$regularExpression": {"pattern": "^foo", "options": "i"}}`))
		assert.Equal(t, value.TypeDate, value.TypeOf(value.ParseJSON(`{"$date": "2020-01-01T00:00:00Z"}`)))
		assert.Equal(t, time.UnixMilli(0).UTC(), value.ParseJSON(`{"$date": 0}`))
	})
	t.Run("operators are not extended json", func(t *testing.T) {
		v := value.ParseJSON(`{"$gt": 5}`)
		assert.Equal(t, value.Doc{{Key: "$gt", Value: int64(5)}}, v)
	})
}

func TestJSON(t *testing.T) {
	for _, v := range []any{
		value.MinKey,
		value.MaxKey,
		value.Undefined,
		nil,
		true,
		5.5,
		math.Inf(1),
		math.Inf(-1),
		"a \"quoted\" string",
		value.Regex{Pattern: "^foo", Flags: "i"},
		value.Doc{{Key: "b", Value: 1.0}, {Key: "a", Value: value.Array{"x", nil}}},
		time.UnixMilli(1600000000000).UTC(),
	} {
		t.Run(value.String(v), func(t *testing.T) {
			out := value.ParseJSON(value.JSON(v))
			assert.Equal(t, 0, value.Compare(v, out))
			assert.Equal(t, value.TypeOf(v), value.TypeOf(out))
		})
	}
	assert.Equal(t, `{"$numberDouble":"NaN"}`, value.JSON(math.NaN()))
	assert.Equal(t, `{"b":1,"a":["x",null]}`, value.JSON(value.Doc{{Key: "b", Value: 1}, {Key: "a", Value: value.Array{"x", nil}}}))
}
