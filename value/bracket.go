package value

import "math"

// Bracket returns the lowest and highest values of the canonical type t along with their inclusivity. Every value of
// type t lies within the bracket, ex: strings are bracketed by ["", {}).
func Bracket(t Type) (low any, lowInclusive bool, high any, highInclusive bool) {
	switch t {
	case TypeMinKey:
		return MinKey, true, MinKey, true
	case TypeUndefined:
		return Undefined, true, Undefined, true
	case TypeNull:
		return nil, true, nil, true
	case TypeNumber:
		return math.Inf(-1), true, math.Inf(1), true
	case TypeString:
		return "", true, Doc{}, false
	case TypeObject:
		return Doc{}, true, Array{}, false
	case TypeArray:
		return Array{}, true, false, false
	case TypeBool:
		return false, true, true, true
	case TypeDate:
		return DateMin, true, DateMax, true
	case TypeRegex:
		return Regex{}, true, MaxKey, false
	default:
		return MaxKey, true, MaxKey, true
	}
}
