package model

// AttributeKind is the discriminator identifying an attribute provider.
//
// The set of providers is closed; adding one is a code change in both this package and the
// evaluation package.
type AttributeKind string

const (
	// AttributeStaticNumber is an attribute whose value is the number embedded in the attribute itself.
	AttributeStaticNumber AttributeKind = "static.number"
	// AttributeHostname resolves to the network hostname of the evaluating host.
	AttributeHostname AttributeKind = "socket.hostname"
	// AttributeSessionRandom resolves to a random number in [0,1) that is fixed for the lifetime of
	// the evaluating process.
	AttributeSessionRandom AttributeKind = "random.session"
)

// DefaultAttributeType is the value of Attribute.Type written for attributes that don't specify one.
const DefaultAttributeType = "callable-attribute"

// IsKnown returns true if this is one of the supported attribute providers.
func (k AttributeKind) IsKnown() bool {
	switch k {
	case AttributeStaticNumber, AttributeHostname, AttributeSessionRandom:
		return true
	}
	return false
}

// Attribute is a named source of a runtime Value.
type Attribute struct {
	// Kind selects the provider.
	Kind AttributeKind
	// Type is an opaque type tag carried through serialization; usually DefaultAttributeType.
	Type string
	// Number is the embedded literal for AttributeStaticNumber.
	Number float64
	args   []Value
}

// StaticNumber returns an attribute that always resolves to n.
func StaticNumber(n float64) Attribute {
	return Attribute{Kind: AttributeStaticNumber, Type: DefaultAttributeType, Number: n}
}

// Hostname returns an attribute that resolves to the hostname of the evaluating host.
func Hostname() Attribute {
	return Attribute{Kind: AttributeHostname, Type: DefaultAttributeType}
}

// SessionRandom returns an attribute that resolves to the process-wide session random number.
func SessionRandom() Attribute {
	return Attribute{Kind: AttributeSessionRandom, Type: DefaultAttributeType}
}

// WithArgs returns a copy of the attribute with the given opaque literal arguments, which are
// preserved through serialization.
func (a Attribute) WithArgs(args ...Value) Attribute {
	a.args = nil
	if len(args) != 0 {
		a.args = make([]Value, len(args))
		copy(a.args, args)
	}
	return a
}

// Args returns a copy of the opaque literal arguments.
func (a Attribute) Args() []Value {
	if len(a.args) == 0 {
		return nil
	}
	ret := make([]Value, len(a.args))
	copy(ret, a.args)
	return ret
}

// validate checks an attribute whose object is at the given JSON nesting depth.
func (a Attribute) validate(path string, depth int) error {
	if depth+1 > MaxNestingDepth {
		return errTooDeep(path)
	}
	if a.Kind == AttributeStaticNumber && !isFinite(a.Number) {
		return errNonFiniteNumber(propertyPath(path, propValue))
	}
	for i, arg := range a.args {
		if arg.containsClassifier() {
			return errClassifierInPredicate(path)
		}
		if err := arg.validateLiteral(indexPath(propertyPath(path, propArgs), i), depth+2, false); err != nil {
			return err
		}
	}
	return nil
}

// Equal tests deep equality.
func (a Attribute) Equal(other Attribute) bool {
	if a.Kind != other.Kind || a.Type != other.Type || a.Number != other.Number || len(a.args) != len(other.args) {
		return false
	}
	for i, arg := range a.args {
		if !arg.Equal(other.args[i]) {
			return false
		}
	}
	return true
}
