package evaluation

import (
	"errors"
	"fmt"

	"github.com/launchdarkly/ld-offline-feature/model"
)

const (
	logMsgBucketSkipped         = "Skipping bucket %q of feature evaluation: %s"
	logMsgInvalidPattern        = "Pattern %q cannot be compiled and will never match: %s"
	logMsgUnknownOperator       = "Classifier operator %q is not supported and will never match"
	logMsgFeatureNotInitialized = "Evaluated a nil feature; returning null"
)

// ErrTypeMismatch is wrapped by an EvaluationError when strict comparisons are enabled and a
// comparison is made between values of different kinds.
var ErrTypeMismatch = errors.New("operand types do not match")

// AttributeResolutionError means that the runtime value of an attribute could not be determined.
type AttributeResolutionError struct {
	Attribute model.AttributeKind
	Err       error
}

func (e *AttributeResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unable to resolve attribute %q", e.Attribute)
	}
	return fmt.Sprintf("unable to resolve attribute %q: %s", e.Attribute, e.Err)
}

func (e *AttributeResolutionError) Unwrap() error {
	return e.Err
}

// EvaluationError is returned when evaluation of a classifier was aborted. The bucket resolver
// treats the affected bucket as not matching.
type EvaluationError struct {
	Op  model.Operator
	Err error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("error evaluating %q: %s", e.Op, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func errTypeMismatch(c model.Classifier, actual model.Value) error {
	return &EvaluationError{
		Op:  c.Op,
		Err: fmt.Errorf("%w: cannot compare %s with %s", ErrTypeMismatch, actual.Kind(), c.Value.Kind()),
	}
}
