package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

func TestOptLogLevel(t *testing.T) {
	validLevel := ldlog.Warn
	validString := "wArN"
	badString := "wrong"

	t.Run("zero value", func(t *testing.T) {
		o := OptLogLevel{}
		assert.False(t, o.IsDefined())
		assert.Equal(t, ldlog.Error, o.GetOrElse(ldlog.Error))
	})

	t.Run("new from valid string", func(t *testing.T) {
		o, err := NewOptLogLevelFromString(validString)
		assert.NoError(t, err)
		assert.True(t, o.IsDefined())
		assert.Equal(t, validLevel, o.GetOrElse(ldlog.Error))
	})

	t.Run("none is a level", func(t *testing.T) {
		o, err := NewOptLogLevelFromString("none")
		assert.NoError(t, err)
		assert.Equal(t, ldlog.None, o.GetOrElse(ldlog.Error))
	})

	t.Run("new from empty string", func(t *testing.T) {
		o, err := NewOptLogLevelFromString("")
		assert.NoError(t, err)
		assert.Equal(t, OptLogLevel{}, o)
	})

	t.Run("new from invalid string", func(t *testing.T) {
		o, err := NewOptLogLevelFromString(badString)
		assert.Equal(t, errBadLogLevel(badString), err)
		assert.Equal(t, OptLogLevel{}, o)
	})

	t.Run("unmarshal leaves value unchanged on error", func(t *testing.T) {
		o := NewOptLogLevel(ldlog.Info)
		assert.Error(t, o.UnmarshalText([]byte(badString)))
		assert.Equal(t, NewOptLogLevel(ldlog.Info), o)
	})

	t.Run("text form", func(t *testing.T) {
		assert.Equal(t, "", OptLogLevel{}.String())
		assert.Equal(t, "warn", NewOptLogLevel(ldlog.Warn).String())
		text, err := NewOptLogLevel(ldlog.Debug).MarshalText()
		assert.NoError(t, err)
		assert.Equal(t, "debug", string(text))

		var o OptLogLevel
		assert.NoError(t, o.UnmarshalText(text))
		assert.Equal(t, NewOptLogLevel(ldlog.Debug), o)
	})
}
