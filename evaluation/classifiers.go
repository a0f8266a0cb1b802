package evaluation

import (
	"github.com/launchdarkly/ld-offline-feature/model"
)

func (e *Evaluator) evaluate(c model.Classifier, ctx Context) (bool, error) {
	switch c.Op {
	case model.OperatorAll:
		for i := 0; i < c.ChildCount(); i++ {
			ok, err := e.evaluate(c.Child(i), ctx)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil

	case model.OperatorAny:
		for i := 0; i < c.ChildCount(); i++ {
			ok, err := e.evaluate(c.Child(i), ctx)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil

	case model.OperatorNot:
		if nested, ok := c.Value.Classifier(); ok {
			result, err := e.evaluate(nested, ctx)
			if err != nil {
				return false, err
			}
			return !result, nil
		}
		if e.disableLiteralNot {
			return e.mismatch(c, c.Value)
		}
		return !c.Value.IsTruthy(), nil
	}

	if !c.Op.IsPredicate() {
		e.loggers.Warnf(logMsgUnknownOperator, c.Op)
		return false, nil
	}

	actual, err := ResolveAttribute(c.Attribute, ctx)
	if err != nil {
		return false, &EvaluationError{Op: c.Op, Err: err}
	}

	switch c.Op {
	case model.OperatorRegexMatch:
		if actual.Kind() != model.StringKind || c.Value.Kind() != model.StringKind {
			return e.mismatch(c, actual)
		}
		re := e.pattern(c.Value.StringValue())
		return re != nil && re.MatchString(actual.StringValue()), nil

	case model.OperatorEqual:
		if actual.Kind() != c.Value.Kind() {
			return e.mismatch(c, actual)
		}
		switch actual.Kind() {
		case model.StringKind:
			return actual.StringValue() == c.Value.StringValue(), nil
		case model.NumberKind:
			return actual.NumberValue() == c.Value.NumberValue(), nil
		default:
			return e.mismatch(c, actual)
		}

	default:
		if actual.Kind() != model.NumberKind || c.Value.Kind() != model.NumberKind {
			return e.mismatch(c, actual)
		}
		return compareNumbers(c.Op, actual.NumberValue(), c.Value.NumberValue()), nil
	}
}

func compareNumbers(op model.Operator, a, b float64) bool {
	switch op {
	case model.OperatorLessThan:
		return a < b
	case model.OperatorGreaterThan:
		return a > b
	case model.OperatorLessThanOrEqual:
		return a <= b
	case model.OperatorGreaterThanOrEqual:
		return a >= b
	default:
		return false
	}
}

// mismatch is the result of a comparison that cannot be made because of the kinds of its
// operands.
func (e *Evaluator) mismatch(c model.Classifier, actual model.Value) (bool, error) {
	if e.strict {
		return false, errTypeMismatch(c, actual)
	}
	return false, nil
}
