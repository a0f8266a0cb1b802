package model

import (
	"math"
	"sort"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// ValueKind identifies which variant of the Value union is present.
type ValueKind int

const (
	// NullKind is the kind of the zero Value.
	NullKind ValueKind = iota
	// StringKind is a string value.
	StringKind
	// NumberKind is a float64 value.
	NumberKind
	// BoolKind is a boolean value.
	BoolKind
	// ArrayKind is an ordered list of values.
	ArrayKind
	// MapKind is a string-keyed, unordered set of values.
	MapKind
	// ClassifierKind is a nested classifier expression.
	ClassifierKind
)

func (k ValueKind) String() string {
	switch k {
	case NullKind:
		return "null"
	case StringKind:
		return "string"
	case NumberKind:
		return "number"
	case BoolKind:
		return "boolean"
	case ArrayKind:
		return "array"
	case MapKind:
		return "map"
	case ClassifierKind:
		return "classifier"
	default:
		return "unknown"
	}
}

// Value is a literal value in a feature artifact, or the runtime result of resolving an attribute.
//
// The zero value is Null. Values of different kinds are never equal, and nothing in this module
// converts one kind to another implicitly.
type Value struct {
	kind        ValueKind
	stringValue string
	numberValue float64
	boolValue   bool
	arrayValue  []Value
	mapValue    map[string]Value
	classifier  *Classifier
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: StringKind, stringValue: s} }

// Number returns a number value.
func Number(n float64) Value { return Value{kind: NumberKind, numberValue: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: BoolKind, boolValue: b} }

// ArrayOf returns an array value containing a copy of the given values.
func ArrayOf(values ...Value) Value {
	a := make([]Value, len(values))
	copy(a, values)
	return Value{kind: ArrayKind, arrayValue: a}
}

// MapOf returns a map value containing a copy of the given entries.
func MapOf(entries map[string]Value) Value {
	m := make(map[string]Value, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return Value{kind: MapKind, mapValue: m}
}

// ClassifierValue wraps a classifier so it can be used as the operand of a negation.
func ClassifierValue(c Classifier) Value {
	return Value{kind: ClassifierKind, classifier: &c}
}

// Kind returns the variant of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull returns true if the value is null.
func (v Value) IsNull() bool { return v.kind == NullKind }

// StringValue returns the string if this is a string value, or "" otherwise.
func (v Value) StringValue() string { return v.stringValue }

// NumberValue returns the number if this is a number value, or zero otherwise.
func (v Value) NumberValue() float64 { return v.numberValue }

// BoolValue returns the boolean if this is a boolean value, or false otherwise.
func (v Value) BoolValue() bool { return v.boolValue }

// Count returns the number of elements of an array or map value, or zero for any other kind.
func (v Value) Count() int {
	switch v.kind {
	case ArrayKind:
		return len(v.arrayValue)
	case MapKind:
		return len(v.mapValue)
	default:
		return 0
	}
}

// Index returns an element of an array value, or Null if out of range or not an array.
func (v Value) Index(i int) Value {
	if v.kind != ArrayKind || i < 0 || i >= len(v.arrayValue) {
		return Null()
	}
	return v.arrayValue[i]
}

// Elements returns a copy of the elements of an array value, or nil for any other kind.
func (v Value) Elements() []Value {
	if v.kind != ArrayKind {
		return nil
	}
	ret := make([]Value, len(v.arrayValue))
	copy(ret, v.arrayValue)
	return ret
}

// Get returns the value for a key of a map value, and whether it was present.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != MapKind {
		return Null(), false
	}
	ret, ok := v.mapValue[key]
	return ret, ok
}

// Keys returns the keys of a map value in sorted order, or nil for any other kind.
func (v Value) Keys() []string {
	if v.kind != MapKind {
		return nil
	}
	keys := make([]string, 0, len(v.mapValue))
	for k := range v.mapValue {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Classifier returns the wrapped classifier of a classifier value.
func (v Value) Classifier() (Classifier, bool) {
	if v.kind != ClassifierKind || v.classifier == nil {
		return Classifier{}, false
	}
	return *v.classifier, true
}

// IsTruthy returns false for null, false, zero, the empty string, and empty arrays and maps; it
// returns true for everything else, including any classifier value.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case StringKind:
		return v.stringValue != ""
	case NumberKind:
		return v.numberValue != 0
	case BoolKind:
		return v.boolValue
	case ArrayKind:
		return len(v.arrayValue) != 0
	case MapKind:
		return len(v.mapValue) != 0
	case ClassifierKind:
		return true
	default:
		return false
	}
}

// Equal tests deep equality. Values of different kinds are never equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case NullKind:
		return true
	case StringKind:
		return v.stringValue == other.stringValue
	case NumberKind:
		return v.numberValue == other.numberValue
	case BoolKind:
		return v.boolValue == other.boolValue
	case ArrayKind:
		if len(v.arrayValue) != len(other.arrayValue) {
			return false
		}
		for i, e := range v.arrayValue {
			if !e.Equal(other.arrayValue[i]) {
				return false
			}
		}
		return true
	case MapKind:
		if len(v.mapValue) != len(other.mapValue) {
			return false
		}
		for k, e := range v.mapValue {
			o, ok := other.mapValue[k]
			if !ok || !e.Equal(o) {
				return false
			}
		}
		return true
	case ClassifierKind:
		a, _ := v.Classifier()
		b, _ := other.Classifier()
		return a.Equal(b)
	}
	return false
}

// containsClassifier returns true if a classifier value appears anywhere inside this value.
func (v Value) containsClassifier() bool {
	switch v.kind {
	case ClassifierKind:
		return true
	case ArrayKind:
		for _, e := range v.arrayValue {
			if e.containsClassifier() {
				return true
			}
		}
	case MapKind:
		for _, e := range v.mapValue {
			if e.containsClassifier() {
				return true
			}
		}
	}
	return false
}

// validateLiteral checks a literal whose JSON encoding is at the given nesting depth. In operand
// position, a map that would be decoded as a tagged classifier is rejected, since it could not
// be read back as the same map.
func (v Value) validateLiteral(path string, depth int, operand bool) error {
	if depth > MaxNestingDepth {
		return errTooDeep(path)
	}
	switch v.kind {
	case NumberKind:
		if !isFinite(v.numberValue) {
			return errNonFiniteNumber(path)
		}
	case ArrayKind:
		for i, e := range v.arrayValue {
			if err := e.validateLiteral(indexPath(path, i), depth+1, operand); err != nil {
				return err
			}
		}
	case MapKind:
		if operand && isTaggedClassifier(v) {
			return errTaggedMapLiteral(path)
		}
		for _, k := range v.Keys() {
			if err := v.mapValue[k].validateLiteral(propertyPath(path, k), depth+1, false); err != nil {
				return err
			}
		}
	}
	return nil
}

func isFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// AsLDValue converts the value to the equivalent ldvalue.Value. Classifier values have no
// equivalent and become null.
func (v Value) AsLDValue() ldvalue.Value {
	switch v.kind {
	case StringKind:
		return ldvalue.String(v.stringValue)
	case NumberKind:
		return ldvalue.Float64(v.numberValue)
	case BoolKind:
		return ldvalue.Bool(v.boolValue)
	case ArrayKind:
		b := ldvalue.ArrayBuild()
		for _, e := range v.arrayValue {
			b.Add(e.AsLDValue())
		}
		return b.Build()
	case MapKind:
		b := ldvalue.ObjectBuild()
		for _, k := range v.Keys() {
			b.Set(k, v.mapValue[k].AsLDValue())
		}
		return b.Build()
	default:
		return ldvalue.Null()
	}
}

// String returns the JSON representation of the value.
func (v Value) String() string {
	return string(MarshalValue(v))
}
