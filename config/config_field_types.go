package config

import (
	"fmt"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// OptLogLevel is an optional minimum log level. In a configuration file or variable it is one of
// "debug", "info", "warn", "error", or "none", in any letter case.
//
// The zero value is undefined.
type OptLogLevel struct {
	level   ldlog.LogLevel
	defined bool
}

//nolint:gochecknoglobals
var logLevelsByName = map[string]ldlog.LogLevel{
	"debug": ldlog.Debug,
	"info":  ldlog.Info,
	"warn":  ldlog.Warn,
	"error": ldlog.Error,
	"none":  ldlog.None,
}

// NewOptLogLevel creates a defined OptLogLevel.
func NewOptLogLevel(level ldlog.LogLevel) OptLogLevel {
	return OptLogLevel{level: level, defined: true}
}

// NewOptLogLevelFromString parses a level name. An empty string produces an undefined value.
func NewOptLogLevelFromString(levelName string) (OptLogLevel, error) {
	if levelName == "" {
		return OptLogLevel{}, nil
	}
	level, ok := logLevelsByName[strings.ToLower(strings.TrimSpace(levelName))]
	if !ok {
		return OptLogLevel{}, errBadLogLevel(levelName)
	}
	return NewOptLogLevel(level), nil
}

// IsDefined returns true if a level was set.
func (o OptLogLevel) IsDefined() bool {
	return o.defined
}

// GetOrElse returns the level, or orElseValue if none was set.
func (o OptLogLevel) GetOrElse(orElseValue ldlog.LogLevel) ldlog.LogLevel {
	if !o.defined {
		return orElseValue
	}
	return o.level
}

// String returns the lowercase level name, or an empty string if undefined.
func (o OptLogLevel) String() string {
	if !o.defined {
		return ""
	}
	return strings.ToLower(o.level.Name())
}

// MarshalText implements encoding.TextMarshaler.
func (o OptLogLevel) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, which is used by both gcfg and go-configtypes.
// The value is left unchanged on error.
func (o *OptLogLevel) UnmarshalText(data []byte) error {
	opt, err := NewOptLogLevelFromString(string(data))
	if err != nil {
		return err
	}
	*o = opt
	return nil
}

func errBadLogLevel(s string) error {
	return fmt.Errorf("%q is not a valid log level (expected debug, info, warn, error, or none)", s)
}
