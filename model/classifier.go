package model

// Operator is the discriminator identifying a classifier node type.
type Operator string

const (
	// OperatorRegexMatch is satisfied if the attribute is a string matching the pattern in Value.
	OperatorRegexMatch Operator = "re.match"
	// OperatorLessThan compares a number attribute against a number literal.
	OperatorLessThan Operator = "comparison.lt"
	// OperatorGreaterThan compares a number attribute against a number literal.
	OperatorGreaterThan Operator = "comparison.gt"
	// OperatorLessThanOrEqual compares a number attribute against a number literal.
	OperatorLessThanOrEqual Operator = "comparison.lte"
	// OperatorGreaterThanOrEqual compares a number attribute against a number literal.
	OperatorGreaterThanOrEqual Operator = "comparison.gte"
	// OperatorEqual tests a string or number attribute for equality with a literal of the same kind.
	OperatorEqual Operator = "comparison.eq"
	// OperatorAll is satisfied if every child is satisfied.
	OperatorAll Operator = "bool.all"
	// OperatorAny is satisfied if at least one child is satisfied.
	OperatorAny Operator = "bool.any"
	// OperatorNot negates a nested classifier, or tests a literal for falsiness.
	OperatorNot Operator = "bool.not"
)

// IsPredicate returns true for the leaf operators, which compare one attribute with one literal.
func (op Operator) IsPredicate() bool {
	switch op {
	case OperatorRegexMatch, OperatorLessThan, OperatorGreaterThan, OperatorLessThanOrEqual,
		OperatorGreaterThanOrEqual, OperatorEqual:
		return true
	}
	return false
}

// IsCombinator returns true for the operators that contain nested classifiers.
func (op Operator) IsCombinator() bool {
	return op == OperatorAll || op == OperatorAny || op == OperatorNot
}

// IsKnown returns true if this is a supported operator.
func (op Operator) IsKnown() bool {
	return op.IsPredicate() || op.IsCombinator()
}

// Classifier is a node in a boolean expression tree.
//
// Predicate nodes (IsPredicate) use Attribute and Value. OperatorAll and OperatorAny have
// children, which can only be set by All and Any. OperatorNot uses Value, which is either a
// classifier value or a literal.
//
// A Classifier shares its children with its copies, but nothing can modify them once built.
type Classifier struct {
	Op        Operator
	Attribute Attribute
	Value     Value
	children  []Classifier
}

func predicate(op Operator, attr Attribute, value Value) Classifier {
	return Classifier{Op: op, Attribute: attr, Value: value}
}

// RegexMatch returns a classifier that is satisfied if the attribute is a string matched by pattern.
// The match is unanchored.
func RegexMatch(attr Attribute, pattern string) Classifier {
	return predicate(OperatorRegexMatch, attr, String(pattern))
}

// Lt returns a classifier satisfied if the attribute is a number less than n.
func Lt(attr Attribute, n float64) Classifier { return predicate(OperatorLessThan, attr, Number(n)) }

// Gt returns a classifier satisfied if the attribute is a number greater than n.
func Gt(attr Attribute, n float64) Classifier { return predicate(OperatorGreaterThan, attr, Number(n)) }

// Lte returns a classifier satisfied if the attribute is a number less than or equal to n.
func Lte(attr Attribute, n float64) Classifier {
	return predicate(OperatorLessThanOrEqual, attr, Number(n))
}

// Gte returns a classifier satisfied if the attribute is a number greater than or equal to n.
func Gte(attr Attribute, n float64) Classifier {
	return predicate(OperatorGreaterThanOrEqual, attr, Number(n))
}

// Eq returns a classifier satisfied if the attribute equals the literal. Only string/string and
// number/number comparisons can be satisfied.
func Eq(attr Attribute, literal Value) Classifier { return predicate(OperatorEqual, attr, literal) }

// All returns a classifier satisfied if every child is satisfied. All() with no children is
// always satisfied.
func All(children ...Classifier) Classifier {
	return Classifier{Op: OperatorAll, children: copyClassifiers(children)}
}

// Any returns a classifier satisfied if at least one child is satisfied. Any() with no children
// is never satisfied.
func Any(children ...Classifier) Classifier {
	return Classifier{Op: OperatorAny, children: copyClassifiers(children)}
}

// Not returns a negation over an operand, which may be a classifier value or a literal.
func Not(operand Value) Classifier {
	return Classifier{Op: OperatorNot, Value: operand}
}

// Negate is shorthand for Not(ClassifierValue(c)).
func Negate(c Classifier) Classifier {
	return Not(ClassifierValue(c))
}

// Children returns a copy of the nested classifiers of OperatorAll or OperatorAny.
func (c Classifier) Children() []Classifier {
	return copyClassifiers(c.children)
}

// ChildCount returns the number of nested classifiers.
func (c Classifier) ChildCount() int { return len(c.children) }

// Child returns the nested classifier at index i. It panics if i is out of range, like a slice index.
func (c Classifier) Child(i int) Classifier { return c.children[i] }

func copyClassifiers(cs []Classifier) []Classifier {
	if len(cs) == 0 {
		return nil
	}
	ret := make([]Classifier, len(cs))
	copy(ret, cs)
	return ret
}

// Validate checks the structural rules of the tree: known operators and attributes, classifier
// values only as the operand of a negation, finite numbers, nesting no deeper than
// MaxNestingDepth once the classifier is placed in a bucket, and no map literal operands that
// would read back as classifiers.
func (c Classifier) Validate() error {
	return c.validate("classifier", bucketClassifierDepth)
}

// validate checks a classifier whose object is at the given JSON nesting depth.
func (c Classifier) validate(path string, depth int) error {
	// The encoding of every classifier has a value member one level below the classifier itself.
	if depth+1 > MaxNestingDepth {
		return errTooDeep(path)
	}
	switch {
	case c.Op.IsPredicate():
		attrPath := propertyPath(path, propAttribute)
		if !c.Attribute.Kind.IsKnown() {
			return errUnknownAttribute(attrPath, string(c.Attribute.Kind))
		}
		if err := c.Attribute.validate(attrPath, depth+1); err != nil {
			return err
		}
		if c.Value.containsClassifier() {
			return errClassifierInPredicate(path)
		}
		if len(c.children) != 0 {
			return errUnexpectedChildren(path, c.Op)
		}
		return c.Value.validateLiteral(propertyPath(path, propValue), depth+1, true)
	case c.Op == OperatorAll || c.Op == OperatorAny:
		for i, child := range c.children {
			if err := child.validate(indexPath(propertyPath(path, propValue), i), depth+2); err != nil {
				return err
			}
		}
	case c.Op == OperatorNot:
		valuePath := propertyPath(path, propValue)
		if nested, ok := c.Value.Classifier(); ok {
			return nested.validate(valuePath, depth+1)
		}
		if c.Value.containsClassifier() {
			return errClassifierInPredicate(path)
		}
		return c.Value.validateLiteral(valuePath, depth+1, true)
	default:
		return errUnknownOperator(path, string(c.Op))
	}
	return nil
}

// Equal tests deep equality.
func (c Classifier) Equal(other Classifier) bool {
	if c.Op != other.Op || !c.Attribute.Equal(other.Attribute) || !c.Value.Equal(other.Value) ||
		len(c.children) != len(other.children) {
		return false
	}
	for i, child := range c.children {
		if !child.Equal(other.children[i]) {
			return false
		}
	}
	return true
}
