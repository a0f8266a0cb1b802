package model

import (
	"errors"
	"fmt"
)

// All error singletons, error types, and error constructors for this package are collected here.

// ErrReservedBucketName is returned when constructing a bucket named "default".
var ErrReservedBucketName = errors.New(`"default" is a reserved name and cannot be used for a bucket`)

// SchemaError describes feature data that is well-formed JSON (or a programmatically built
// structure) but does not have the expected shape, such as an unrecognized discriminator.
type SchemaError struct {
	// Path is a dotted path to the offending element, e.g. "buckets[1].classifier.value[0]".
	Path    string
	Message string
	// Err is an underlying error singleton, if any, such as ErrReservedBucketName.
	Err error
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// DecodeError is returned for any failure to decode a feature artifact. It wraps either a JSON
// syntax error or a *SchemaError.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "unable to decode offline feature: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func schemaError(path, format string, args ...interface{}) error {
	return &SchemaError{Path: path, Message: fmt.Sprintf(format, args...)}
}

func errReservedBucketName(path string) error {
	return &SchemaError{Path: path, Message: ErrReservedBucketName.Error(), Err: ErrReservedBucketName}
}

func errUnknownOperator(path, op string) error {
	return schemaError(path, "unrecognized classifier type %q", op)
}

func errUnknownAttribute(path, name string) error {
	return schemaError(path, "unrecognized attribute %q", name)
}

func errClassifierInPredicate(path string) error {
	return schemaError(path, "a classifier can only be used as the operand of %q", OperatorNot)
}

func errUnexpectedChildren(path string, op Operator) error {
	return schemaError(path, "%q does not accept nested classifiers", op)
}

func errClassifierAsFeatureValue(path string) error {
	return schemaError(path, "a classifier cannot be used as a feature value")
}

func errUnknownFeatureType(path, featureType string) error {
	return schemaError(path, "unrecognized feature type %q", featureType)
}

func errWrongKind(path string, expected string, actual ValueKind) error {
	return schemaError(path, "expected %s, got %s", expected, actual)
}

func errMissingProperty(path string) error {
	return schemaError(path, "required property is missing")
}

func errMissingBucketValue(path, bucketName string) error {
	return schemaError(path, "no value was provided for bucket %q", bucketName)
}

func errDefaultInBothLayouts(path string) error {
	return schemaError(path, `"default" cannot be given both at the top level and in "values"`)
}

func errTooDeep(path string) error {
	return schemaError(path, "nesting is deeper than the maximum of %d levels", MaxNestingDepth)
}

func errNonFiniteNumber(path string) error {
	return schemaError(path, "numbers must be finite")
}

func errTaggedMapLiteral(path string) error {
	return schemaError(path, "a map literal operand cannot have a %q property, or a %q property naming a classifier type",
		propTag, propType)
}

func errTrailingData(err error) error {
	return fmt.Errorf("unexpected data after feature: %w", err)
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func propertyPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
