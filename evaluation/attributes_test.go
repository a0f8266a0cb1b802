package evaluation

import (
	"errors"
	"sync"
	"testing"

	"github.com/launchdarkly/ld-offline-feature/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hostnameContext(name string) Context {
	return Context{Hostname: func() (string, error) { return name, nil }}
}

func failingHostnameContext(err error) Context {
	return Context{Hostname: func() (string, error) { return "", err }}
}

func TestResolveStaticNumber(t *testing.T) {
	v, err := ResolveAttribute(model.StaticNumber(2.5), failingHostnameContext(errors.New("no")))
	require.NoError(t, err)
	assert.Equal(t, model.Number(2.5), v)
}

func TestResolveHostname(t *testing.T) {
	t.Run("from context", func(t *testing.T) {
		v, err := ResolveAttribute(model.Hostname(), hostnameContext("web-01"))
		require.NoError(t, err)
		assert.Equal(t, model.String("web-01"), v)
	})

	t.Run("from operating system", func(t *testing.T) {
		v, err := ResolveAttribute(model.Hostname(), Context{})
		if err == nil {
			assert.Equal(t, model.StringKind, v.Kind())
		}
	})

	t.Run("lookup failure", func(t *testing.T) {
		fault := errors.New("sorry")
		_, err := ResolveAttribute(model.Hostname(), failingHostnameContext(fault))
		var are *AttributeResolutionError
		require.True(t, errors.As(err, &are))
		assert.Equal(t, model.AttributeHostname, are.Attribute)
		assert.True(t, errors.Is(err, fault))
	})

	t.Run("empty host name is a failure", func(t *testing.T) {
		_, err := ResolveAttribute(model.Hostname(), hostnameContext(""))
		var are *AttributeResolutionError
		assert.True(t, errors.As(err, &are))
	})
}

func TestResolveUnknownAttribute(t *testing.T) {
	_, err := ResolveAttribute(model.Attribute{Kind: "env.user"}, Context{})
	var are *AttributeResolutionError
	require.True(t, errors.As(err, &are))
	assert.Contains(t, err.Error(), "env.user")
}

func TestSessionRandom(t *testing.T) {
	t.Run("generated once", func(t *testing.T) {
		calls := 0
		s := NewSession(func() float64 {
			calls++
			return 0.25
		})
		ctx := Context{Session: s}
		for i := 0; i < 3; i++ {
			v, err := ResolveAttribute(model.SessionRandom(), ctx)
			require.NoError(t, err)
			assert.Equal(t, model.Number(0.25), v)
		}
		assert.Equal(t, 1, calls)
	})

	t.Run("process session is stable and in range", func(t *testing.T) {
		v1, err := ResolveAttribute(model.SessionRandom(), Context{})
		require.NoError(t, err)
		v2, err := ResolveAttribute(model.SessionRandom(), Context{Session: ProcessSession()})
		require.NoError(t, err)
		assert.Equal(t, v1, v2)
		assert.GreaterOrEqual(t, v1.NumberValue(), 0.0)
		assert.Less(t, v1.NumberValue(), 1.0)
	})

	t.Run("concurrent first access converges", func(t *testing.T) {
		var mu sync.Mutex
		next := 0.0
		s := NewSession(func() float64 {
			mu.Lock()
			defer mu.Unlock()
			next += 0.1
			return next
		})
		const count = 50
		results := make(chan float64, count)
		var wg sync.WaitGroup
		for i := 0; i < count; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- s.Random()
			}()
		}
		wg.Wait()
		close(results)
		first := <-results
		for r := range results {
			assert.Equal(t, first, r)
		}
		assert.Equal(t, first, s.Random())
	})
}
