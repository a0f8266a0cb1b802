package evaluation

import (
	"errors"
	"math/rand"
	"os"

	"github.com/launchdarkly/ld-offline-feature/internal/util"
	"github.com/launchdarkly/ld-offline-feature/model"
)

var errNoHostname = errors.New("host name is empty")

// Context is the ambient state available to attribute resolution. The zero value uses the real
// host name and the process-wide session.
type Context struct {
	// Hostname returns the host's network name. If nil, os.Hostname is used.
	Hostname func() (string, error)
	// Session supplies the random.session attribute. If nil, ProcessSession() is used.
	Session *Session
}

// Session holds the random value that stays fixed for the lifetime of an evaluating process.
type Session struct {
	random *util.Memoizer[float64]
}

var processSession = NewSession(rand.Float64) //nolint:gochecknoglobals

// NewSession creates a Session whose value is produced by calling generator the first time it is
// needed. The generator must return a number in [0,1).
func NewSession(generator func() float64) *Session {
	return &Session{random: util.NewMemoizer(generator)}
}

// ProcessSession returns the session shared by every evaluation in this process.
func ProcessSession() *Session {
	return processSession
}

// Random returns the session's random value, generating it on first use. Concurrent first calls
// all observe the same value.
func (s *Session) Random() float64 {
	return s.random.Get()
}

func (c Context) hostname() (string, error) {
	if c.Hostname != nil {
		return c.Hostname()
	}
	return os.Hostname()
}

func (c Context) session() *Session {
	if c.Session != nil {
		return c.Session
	}
	return processSession
}

// ResolveAttribute returns the current value of an attribute. The only failure for a decoded
// attribute is a host name lookup failure, reported as an *AttributeResolutionError.
func ResolveAttribute(attr model.Attribute, ctx Context) (model.Value, error) {
	switch attr.Kind {
	case model.AttributeStaticNumber:
		return model.Number(attr.Number), nil
	case model.AttributeHostname:
		name, err := ctx.hostname()
		if err == nil && name == "" {
			err = errNoHostname
		}
		if err != nil {
			return model.Null(), &AttributeResolutionError{Attribute: attr.Kind, Err: err}
		}
		return model.String(name), nil
	case model.AttributeSessionRandom:
		return model.Number(ctx.session().Random()), nil
	default:
		return model.Null(), &AttributeResolutionError{Attribute: attr.Kind}
	}
}
