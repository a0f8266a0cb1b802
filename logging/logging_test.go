package logging

import (
	"bytes"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/stretchr/testify/assert"
)

func withWriters(t *testing.T, action func(debug, info, warn, err *bytes.Buffer)) {
	var debug, info, warn, errs bytes.Buffer
	InitLogging(&debug, &info, &warn, &errs)
	defer func() {
		writersLock.Lock()
		initializedWithSpecificWriters = false
		writersLock.Unlock()
		InitLoggingWithLevel(ldlog.Info)
	}()
	action(&debug, &info, &warn, &errs)
}

func TestMakeLoggersUsesConfiguredWriters(t *testing.T) {
	withWriters(t, func(debug, info, warn, errs *bytes.Buffer) {
		loggers := MakeLoggers("store")
		loggers.Debug("debug-message")
		loggers.Info("info-message")
		loggers.Warn("warn-message")
		loggers.Error("error-message")

		for buf, message := range map[*bytes.Buffer]string{
			debug: "debug-message", info: "info-message", warn: "warn-message", errs: "error-message",
		} {
			assert.Contains(t, buf.String(), "[store]")
			assert.Contains(t, buf.String(), message)
		}
	})
}

func TestInitLoggingWithLevelFiltersConfiguredWriters(t *testing.T) {
	withWriters(t, func(debug, info, warn, errs *bytes.Buffer) {
		InitLoggingWithLevel(ldlog.Warn)
		GlobalLoggers.Debug("debug-message")
		GlobalLoggers.Info("info-message")
		GlobalLoggers.Warn("warn-message")

		assert.Empty(t, debug.String())
		assert.Empty(t, info.String())
		assert.Contains(t, warn.String(), "[main]")
		assert.Contains(t, warn.String(), "warn-message")
	})
}

func TestMakeLoggersWithoutCategory(t *testing.T) {
	withWriters(t, func(_, info, _, _ *bytes.Buffer) {
		MakeLoggers("").Info("hello")
		assert.NotContains(t, info.String(), "[")
		assert.Contains(t, info.String(), "hello")
	})
}
