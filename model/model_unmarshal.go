package model

import (
	"github.com/launchdarkly/go-jsonstream/v3/jreader"
)

// Decoding happens in two steps. The JSON document is first read into an untyped Value tree (JSON
// objects become maps), and the tree is then interpreted as a feature. Doing it this way means a
// discriminator does not have to be the first property of its object, and it gives one place
// where the historical artifact layouts are normalized into the canonical in-memory shape:
//
// - classifiers may be tagged with "__type" (current) or "type" (older artifacts);
// - attributes may be identified by "name" (with "type": "callable-attribute") or by "__type";
// - bucket values may be embedded in each bucket (current), or given in a separate top-level
//   "values" object keyed by bucket name (older artifacts), which may also hold the default.

// UnmarshalFeature decodes a feature artifact. Any error is a *DecodeError; if the data was valid
// JSON but not a valid feature, the DecodeError wraps a *SchemaError.
func UnmarshalFeature(data []byte) (*OfflineFeature, error) {
	root, err := parseJSON(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	f, err := featureFromJSON(root)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return f, nil
}

// UnmarshalClassifier decodes a single classifier. Any error is a *DecodeError.
func UnmarshalClassifier(data []byte) (Classifier, error) {
	root, err := parseJSON(data)
	if err != nil {
		return Classifier{}, &DecodeError{Err: err}
	}
	c, err := classifierFromJSON(root, "")
	if err == nil {
		err = c.validate("", 1)
	}
	if err != nil {
		return Classifier{}, &DecodeError{Err: err}
	}
	return c, nil
}

// UnmarshalValue decodes a feature value. JSON objects always decode as maps. Any error is a
// *DecodeError.
func UnmarshalValue(data []byte) (Value, error) {
	v, err := parseJSON(data)
	if err != nil {
		return Null(), &DecodeError{Err: err}
	}
	return v, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *OfflineFeature) UnmarshalJSON(data []byte) error {
	decoded, err := UnmarshalFeature(data)
	if err != nil {
		return err
	}
	*f = *decoded
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Classifier) UnmarshalJSON(data []byte) error {
	decoded, err := UnmarshalClassifier(data)
	if err != nil {
		return err
	}
	*c = decoded
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := UnmarshalValue(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func parseJSON(data []byte) (Value, error) {
	r := jreader.NewReader(data)
	v := readJSON(&r, 1)
	if err := r.Error(); err != nil {
		return Null(), err
	}
	if err := r.RequireEOF(); err != nil {
		return Null(), errTrailingData(err)
	}
	return v, nil
}

// readJSON reads a value whose JSON nesting depth is depth. Nesting deeper than
// MaxNestingDepth stops the reader with a *SchemaError.
func readJSON(r *jreader.Reader, depth int) Value {
	if depth > MaxNestingDepth {
		r.AddError(errTooDeep(""))
		return Null()
	}
	av := r.Any()
	switch av.Kind {
	case jreader.StringValue:
		return String(av.String)
	case jreader.NumberValue:
		return Number(av.Number)
	case jreader.BoolValue:
		return Bool(av.Bool)
	case jreader.ArrayValue:
		items := []Value{}
		for av.Array.Next() {
			items = append(items, readJSON(r, depth+1))
		}
		return Value{kind: ArrayKind, arrayValue: items}
	case jreader.ObjectValue:
		m := make(map[string]Value)
		for av.Object.Next() {
			name := string(av.Object.Name())
			m[name] = readJSON(r, depth+1)
		}
		return Value{kind: MapKind, mapValue: m}
	default:
		return Null()
	}
}

func featureFromJSON(root Value) (*OfflineFeature, error) {
	if root.kind != MapKind {
		return nil, errWrongKind("", "object", root.kind)
	}

	featureType, err := requiredString(root, "", propType)
	if err != nil {
		return nil, err
	}
	if featureType != FeatureTypeOffline {
		return nil, errUnknownFeatureType(propType, featureType)
	}

	var versions []string
	if v, ok := root.Get(propPythonVersions); ok && !v.IsNull() {
		if v.kind != ArrayKind {
			return nil, errWrongKind(propPythonVersions, "array", v.kind)
		}
		for i, e := range v.arrayValue {
			if e.kind != StringKind {
				return nil, errWrongKind(indexPath(propPythonVersions, i), "string", e.kind)
			}
			versions = append(versions, e.stringValue)
		}
	}

	legacyValues, hasLegacyValues := root.Get(propValues)
	if hasLegacyValues && !legacyValues.IsNull() && legacyValues.kind != MapKind {
		return nil, errWrongKind(propValues, "object", legacyValues.kind)
	}
	hasLegacyValues = hasLegacyValues && legacyValues.kind == MapKind

	defaultValue, hasDefault := root.Get(propDefault)
	if hasLegacyValues {
		if legacyDefault, ok := legacyValues.Get(DefaultBucketName); ok {
			if hasDefault {
				return nil, errDefaultInBothLayouts(propValues)
			}
			defaultValue = legacyDefault
		}
	}

	var buckets []Bucket
	if v, ok := root.Get(propBuckets); ok && !v.IsNull() {
		if v.kind != ArrayKind {
			return nil, errWrongKind(propBuckets, "array", v.kind)
		}
		for i, e := range v.arrayValue {
			b, err := bucketFromJSON(e, indexPath(propBuckets, i), legacyValues, hasLegacyValues, defaultValue)
			if err != nil {
				return nil, err
			}
			buckets = append(buckets, b)
		}
	}

	return NewOfflineFeature(versions, buckets, defaultValue)
}

// bucketFromJSON decodes a bucket. In the older layout, a bucket that has no entry in the
// "values" object gets the feature's default value.
func bucketFromJSON(
	v Value,
	path string,
	legacyValues Value,
	hasLegacyValues bool,
	defaultValue Value,
) (Bucket, error) {
	if v.kind != MapKind {
		return Bucket{}, errWrongKind(path, "object", v.kind)
	}
	name, err := requiredString(v, path, propName)
	if err != nil {
		return Bucket{}, err
	}
	if name == DefaultBucketName {
		return Bucket{}, errReservedBucketName(propertyPath(path, propName))
	}
	classifierJSON, ok := v.Get(propClassifier)
	if !ok {
		return Bucket{}, errMissingProperty(propertyPath(path, propClassifier))
	}
	classifierPath := propertyPath(path, propClassifier)
	c, err := classifierFromJSON(classifierJSON, classifierPath)
	if err != nil {
		return Bucket{}, err
	}
	if err := c.validate(classifierPath, bucketClassifierDepth); err != nil {
		return Bucket{}, err
	}
	value, ok := v.Get(propValue)
	if !ok && hasLegacyValues {
		if value, ok = legacyValues.Get(name); !ok {
			value, ok = defaultValue, true
		}
	}
	if !ok {
		return Bucket{}, errMissingBucketValue(path, name)
	}
	if err := validateFeatureValue(value, propertyPath(path, propValue), bucketValueDepth); err != nil {
		return Bucket{}, err
	}
	return Bucket{name: name, classifier: c, value: value}, nil
}

func classifierFromJSON(v Value, path string) (Classifier, error) {
	if v.kind != MapKind {
		return Classifier{}, errWrongKind(path, "classifier object", v.kind)
	}
	tag, tagPath, err := classifierTag(v, path)
	if err != nil {
		return Classifier{}, err
	}
	op := Operator(tag)
	if !op.IsKnown() {
		return Classifier{}, errUnknownOperator(tagPath, tag)
	}
	valuePath := propertyPath(path, propValue)
	value, hasValue := v.Get(propValue)
	if !hasValue {
		return Classifier{}, errMissingProperty(valuePath)
	}

	switch op {
	case OperatorAll, OperatorAny:
		if value.kind != ArrayKind {
			return Classifier{}, errWrongKind(valuePath, "array", value.kind)
		}
		var children []Classifier
		for i, e := range value.arrayValue {
			child, err := classifierFromJSON(e, indexPath(valuePath, i))
			if err != nil {
				return Classifier{}, err
			}
			children = append(children, child)
		}
		return Classifier{Op: op, children: children}, nil

	case OperatorNot:
		operand, err := operandFromJSON(value, valuePath)
		if err != nil {
			return Classifier{}, err
		}
		return Classifier{Op: op, Value: operand}, nil

	default:
		attrPath := propertyPath(path, propAttribute)
		attrJSON, ok := v.Get(propAttribute)
		if !ok {
			return Classifier{}, errMissingProperty(attrPath)
		}
		attr, err := attributeFromJSON(attrJSON, attrPath)
		if err != nil {
			return Classifier{}, err
		}
		operand, err := operandFromJSON(value, valuePath)
		if err != nil {
			return Classifier{}, err
		}
		return Classifier{Op: op, Attribute: attr, Value: operand}, nil
	}
}

// classifierTag finds the discriminator of a classifier object, preferring "__type" over the
// older "type".
func classifierTag(v Value, path string) (string, string, error) {
	for _, prop := range []string{propTag, propType} {
		if tag, ok := v.Get(prop); ok {
			if tag.kind != StringKind {
				return "", "", errWrongKind(propertyPath(path, prop), "string", tag.kind)
			}
			return tag.stringValue, propertyPath(path, prop), nil
		}
	}
	return "", "", errMissingProperty(propertyPath(path, propTag))
}

// isTaggedClassifier decides whether an object in operand position is a classifier. Objects with
// a "__type" property are always treated as tagged, so an unknown "__type" is an error; objects
// with only an older "type" property are classifiers only if the tag is a known operator.
func isTaggedClassifier(v Value) bool {
	if _, ok := v.Get(propTag); ok {
		return true
	}
	if tag, ok := v.Get(propType); ok && tag.kind == StringKind {
		return Operator(tag.stringValue).IsKnown()
	}
	return false
}

// operandFromJSON interprets the literal operand of a classifier. Scalars and null are taken as
// they are; arrays are interpreted element by element; an object is a nested classifier if it is
// tagged as one, and otherwise a map literal.
func operandFromJSON(v Value, path string) (Value, error) {
	switch v.kind {
	case ArrayKind:
		items := make([]Value, 0, len(v.arrayValue))
		for i, e := range v.arrayValue {
			item, err := operandFromJSON(e, indexPath(path, i))
			if err != nil {
				return Null(), err
			}
			items = append(items, item)
		}
		return Value{kind: ArrayKind, arrayValue: items}, nil
	case MapKind:
		if isTaggedClassifier(v) {
			c, err := classifierFromJSON(v, path)
			if err != nil {
				return Null(), err
			}
			return ClassifierValue(c), nil
		}
		return v, nil
	default:
		return v, nil
	}
}

func attributeFromJSON(v Value, path string) (Attribute, error) {
	if v.kind != MapKind {
		return Attribute{}, errWrongKind(path, "attribute object", v.kind)
	}
	var kind string
	found := false
	for _, prop := range []string{propName, propTag} {
		if tag, ok := v.Get(prop); ok {
			if tag.kind != StringKind {
				return Attribute{}, errWrongKind(propertyPath(path, prop), "string", tag.kind)
			}
			kind, found = tag.stringValue, true
			break
		}
	}
	if !found {
		return Attribute{}, errMissingProperty(propertyPath(path, propName))
	}
	attr := Attribute{Kind: AttributeKind(kind)}
	if !attr.Kind.IsKnown() {
		return Attribute{}, errUnknownAttribute(propertyPath(path, propName), kind)
	}

	if t, ok := v.Get(propType); ok && !t.IsNull() {
		if t.kind != StringKind {
			return Attribute{}, errWrongKind(propertyPath(path, propType), "string", t.kind)
		}
		attr.Type = t.stringValue
	}

	if attr.Kind == AttributeStaticNumber {
		n, ok := v.Get(propValue)
		if !ok {
			return Attribute{}, errMissingProperty(propertyPath(path, propValue))
		}
		if n.kind != NumberKind {
			return Attribute{}, errWrongKind(propertyPath(path, propValue), "number", n.kind)
		}
		attr.Number = n.numberValue
	}

	if args, ok := v.Get(propArgs); ok && !args.IsNull() {
		if args.kind != ArrayKind {
			return Attribute{}, errWrongKind(propertyPath(path, propArgs), "array", args.kind)
		}
		if len(args.arrayValue) != 0 {
			attr.args = args.Elements()
		}
	}
	return attr, nil
}

func requiredString(obj Value, path, prop string) (string, error) {
	v, ok := obj.Get(prop)
	if !ok {
		return "", errMissingProperty(propertyPath(path, prop))
	}
	if v.kind != StringKind {
		return "", errWrongKind(propertyPath(path, prop), "string", v.kind)
	}
	return v.stringValue, nil
}
