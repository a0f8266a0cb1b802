package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nestedArrays returns n arrays nested inside each other, the innermost one empty.
func nestedArrays(n int) Value {
	v := ArrayOf()
	for i := 1; i < n; i++ {
		v = ArrayOf(v)
	}
	return v
}

func nestedNegations(n int) Classifier {
	c := All()
	for i := 0; i < n; i++ {
		c = Negate(c)
	}
	return c
}

func featureWithDefaultJSON(defaultJSON string) []byte {
	return []byte(`{"type": "offline-feature", "buckets": [], "default": ` + defaultJSON + `}`)
}

func requireSchemaError(t *testing.T, err error) *SchemaError {
	var se *SchemaError
	require.True(t, errors.As(err, &se), "expected SchemaError, got %v", err)
	return se
}

func TestDecodeNestingLimit(t *testing.T) {
	// The default value is two levels below the root object.
	deepestDefault := MaxNestingDepth - defaultValueDepth + 1

	t.Run("at the limit", func(t *testing.T) {
		data := featureWithDefaultJSON(strings.Repeat("[", deepestDefault) + strings.Repeat("]", deepestDefault))
		f, err := UnmarshalFeature(data)
		require.NoError(t, err)
		assert.True(t, nestedArrays(deepestDefault).Equal(f.Default()))
	})

	t.Run("one level past the limit", func(t *testing.T) {
		n := deepestDefault + 1
		_, err := UnmarshalFeature(featureWithDefaultJSON(strings.Repeat("[", n) + strings.Repeat("]", n)))
		var de *DecodeError
		require.True(t, errors.As(err, &de))
		se := requireSchemaError(t, err)
		assert.Contains(t, se.Message, "nesting")
	})

	t.Run("very deep unterminated input", func(t *testing.T) {
		_, err := UnmarshalFeature(featureWithDefaultJSON(strings.Repeat("[", 1000000)))
		var de *DecodeError
		require.True(t, errors.As(err, &de))
		requireSchemaError(t, err)
	})

	t.Run("values and classifiers", func(t *testing.T) {
		_, err := UnmarshalValue([]byte(strings.Repeat("[", 100000)))
		requireSchemaError(t, err)

		_, err = UnmarshalClassifier([]byte(strings.Repeat(`{"__type": "bool.not", "value": `, 100000)))
		requireSchemaError(t, err)
	})
}

func TestConstructedFeatureNestingLimit(t *testing.T) {
	deepestDefault := MaxNestingDepth - defaultValueDepth + 1
	deepestBucketValue := MaxNestingDepth - bucketValueDepth + 1
	deepestNegation := MaxNestingDepth - bucketClassifierDepth - 1

	t.Run("values at the limit survive a round trip", func(t *testing.T) {
		b, err := NewBucket("b", nestedNegations(deepestNegation), nestedArrays(deepestBucketValue))
		require.NoError(t, err)
		f, err := NewOfflineFeature(nil, []Bucket{b}, nestedArrays(deepestDefault))
		require.NoError(t, err)

		decoded, err := UnmarshalFeature(MarshalFeature(f))
		require.NoError(t, err)
		assert.True(t, f.Equal(decoded))
	})

	t.Run("default too deep", func(t *testing.T) {
		_, err := NewOfflineFeature(nil, nil, nestedArrays(deepestDefault+1))
		requireSchemaError(t, err)
	})

	t.Run("bucket value too deep", func(t *testing.T) {
		_, err := NewBucket("b", All(), nestedArrays(deepestBucketValue+1))
		requireSchemaError(t, err)
	})

	t.Run("classifier too deep", func(t *testing.T) {
		_, err := NewBucket("b", nestedNegations(deepestNegation+1), Null())
		requireSchemaError(t, err)
	})

	t.Run("predicate literal too deep", func(t *testing.T) {
		_, err := NewBucket("b", Not(nestedArrays(MaxNestingDepth)), Null())
		requireSchemaError(t, err)
	})
}

func TestNonFiniteNumbersAreRejected(t *testing.T) {
	for _, n := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		n := n
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			nonFiniteNumberTests(t, n)
		})
	}

	t.Run("out of range number in an artifact", func(t *testing.T) {
		_, err := UnmarshalFeature(featureWithDefaultJSON(`1e999`))
		var de *DecodeError
		assert.True(t, errors.As(err, &de))
	})
}

func nonFiniteNumberTests(t *testing.T, n float64) {
	t.Run("default", func(t *testing.T) {
		_, err := NewOfflineFeature(nil, nil, Number(n))
		se := requireSchemaError(t, err)
		assert.Contains(t, se.Message, "finite")
	})

	t.Run("nested in a default", func(t *testing.T) {
		_, err := NewOfflineFeature(nil, nil, MapOf(map[string]Value{"a": ArrayOf(Number(n))}))
		se := requireSchemaError(t, err)
		assert.Equal(t, "default.a[0]", se.Path)
	})

	t.Run("bucket value", func(t *testing.T) {
		_, err := NewBucket("b", All(), Number(n))
		requireSchemaError(t, err)
	})

	t.Run("predicate literal", func(t *testing.T) {
		_, err := NewBucket("b", Lt(SessionRandom(), n), Null())
		requireSchemaError(t, err)
	})

	t.Run("negation literal", func(t *testing.T) {
		err := Not(ArrayOf(Number(n))).Validate()
		requireSchemaError(t, err)
	})

	t.Run("static number", func(t *testing.T) {
		err := Gt(StaticNumber(n), 1).Validate()
		se := requireSchemaError(t, err)
		assert.Equal(t, "classifier.attribute.value", se.Path)
	})

	t.Run("attribute argument", func(t *testing.T) {
		err := Gt(Hostname().WithArgs(Number(n)), 1).Validate()
		requireSchemaError(t, err)
	})
}

func TestTaggedMapLiteralOperands(t *testing.T) {
	for _, tc := range []struct {
		name string
		c    Classifier
	}{
		{"negation of a map with __type", Not(MapOf(map[string]Value{"__type": String("anything")}))},
		{"negation of a map shaped like a classifier",
			Not(MapOf(map[string]Value{"__type": String("bool.all"), "value": ArrayOf()}))},
		{"negation of a map with a classifier type",
			Not(MapOf(map[string]Value{"type": String("bool.any"), "value": ArrayOf()}))},
		{"tagged map inside a negated array", Not(ArrayOf(Number(1), MapOf(map[string]Value{"__type": Null()})))},
		{"comparison with a map literal", Eq(Hostname(), MapOf(map[string]Value{"type": String("comparison.eq")}))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.c.Validate()
			se := requireSchemaError(t, err)
			assert.Contains(t, se.Message, "map literal")

			_, err = NewBucket("b", tc.c, Null())
			assert.Error(t, err)
		})
	}

	for _, tc := range []struct {
		name string
		c    Classifier
	}{
		{"map with an unknown type", Not(MapOf(map[string]Value{"type": String("not-an-operator")}))},
		{"map with a non-string type", Not(MapOf(map[string]Value{"type": Number(1)}))},
		{"tagged map one level down", Not(MapOf(map[string]Value{
			"inner": MapOf(map[string]Value{"__type": String("bool.all"), "value": ArrayOf()}),
		}))},
		{"comparison with a plain map", Eq(Hostname(), MapOf(map[string]Value{"a": Number(1)}))},
	} {
		t.Run(tc.name+" round-trips", func(t *testing.T) {
			require.NoError(t, tc.c.Validate())
			b, err := NewBucket("b", tc.c, Null())
			require.NoError(t, err)
			f, err := NewOfflineFeature(nil, []Bucket{b}, Null())
			require.NoError(t, err)

			decoded, err := UnmarshalFeature(MarshalFeature(f))
			require.NoError(t, err)
			assert.True(t, f.Equal(decoded), "got %s", MarshalFeature(decoded))
		})
	}
}

func TestConstructedClassifiersAreImmutable(t *testing.T) {
	t.Run("children passed to All", func(t *testing.T) {
		children := []Classifier{Lt(SessionRandom(), 0.5)}
		c := All(children...)
		children[0] = Classifier{Op: "bogus"}
		assert.True(t, c.Child(0).Equal(Lt(SessionRandom(), 0.5)))
		assert.NoError(t, c.Validate())
	})

	t.Run("children returned by Children", func(t *testing.T) {
		c := Any(Lt(SessionRandom(), 0.5), RegexMatch(Hostname(), "^a"))
		b, err := NewBucket("b", c, Bool(true))
		require.NoError(t, err)
		f, err := NewOfflineFeature(nil, []Bucket{b}, Bool(false))
		require.NoError(t, err)
		before := MarshalFeature(f)

		returned := f.Bucket(0).Classifier().Children()
		returned[0] = Classifier{Op: "bogus"}
		assert.Equal(t, 2, f.Bucket(0).Classifier().ChildCount())
		assert.Equal(t, string(before), string(MarshalFeature(f)))
		assert.NoError(t, f.Bucket(0).Classifier().Validate())
	})

	t.Run("attribute arguments", func(t *testing.T) {
		args := []Value{String("x")}
		attr := Hostname().WithArgs(args...)
		args[0] = ClassifierValue(All())
		assert.Equal(t, []Value{String("x")}, attr.Args())

		returned := attr.Args()
		returned[0] = ClassifierValue(All())
		assert.Equal(t, []Value{String("x")}, attr.Args())
		assert.NoError(t, Eq(attr, Number(1)).Validate())
	})
}
