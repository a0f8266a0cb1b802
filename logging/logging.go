// Package logging configures the ldlog.Loggers used by the command-line tool and by applications
// that want the same log format.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// GlobalLoggers is used for messages that are not tied to a specific feature directory or
// component. Use level-specific output methods such as Info/Infof, Warn/Warnf, etc.
var GlobalLoggers ldlog.Loggers //nolint:gochecknoglobals

var (
	writersLock                    sync.Mutex                         //nolint:gochecknoglobals
	debugWriter, infoWriter        io.Writer  = io.Discard, os.Stdout //nolint:gochecknoglobals
	warnWriter, errorWriter        io.Writer  = os.Stdout, os.Stderr  //nolint:gochecknoglobals
	initializedWithSpecificWriters bool                               //nolint:gochecknoglobals
)

func init() {
	GlobalLoggers = MakeLoggers("main")
}

// InitLogging sets the destination streams for each logging level. Loggers created afterward by
// MakeLoggers use these streams.
func InitLogging(
	debugHandle io.Writer,
	infoHandle io.Writer,
	warningHandle io.Writer,
	errorHandle io.Writer,
) {
	writersLock.Lock()
	debugWriter, infoWriter, warnWriter, errorWriter = debugHandle, infoHandle, warningHandle, errorHandle
	initializedWithSpecificWriters = true
	writersLock.Unlock()
	GlobalLoggers = MakeLoggers("main")
}

// InitLoggingWithLevel sets up the default logger configuration based on a minimum log level:
// Debug and Info go to stdout, Warn to stdout, Error to stderr, and anything below the level is
// discarded. If InitLogging was called before, its streams are kept and only filtered.
func InitLoggingWithLevel(level ldlog.LogLevel) {
	writersLock.Lock()
	if !initializedWithSpecificWriters {
		debugWriter, infoWriter, warnWriter, errorWriter = os.Stdout, os.Stdout, os.Stdout, os.Stderr
	}
	if level > ldlog.Debug {
		debugWriter = io.Discard
	}
	if level > ldlog.Info {
		infoWriter = io.Discard
	}
	if level > ldlog.Warn {
		warnWriter = io.Discard
	}
	if level > ldlog.Error {
		errorWriter = io.Discard
	}
	writersLock.Unlock()
	GlobalLoggers = MakeLoggers("main")
	GlobalLoggers.SetMinLevel(level)
}

// MakeLoggers returns a ldlog.Loggers instance that uses the previously configured log writers,
// with an optional category description that will be prepended to messages.
func MakeLoggers(category string) ldlog.Loggers {
	writersLock.Lock()
	defer writersLock.Unlock()
	loggers := ldlog.Loggers{}
	loggers.SetBaseLoggerForLevel(ldlog.Debug, makeLog(debugWriter))
	loggers.SetBaseLoggerForLevel(ldlog.Info, makeLog(infoWriter))
	loggers.SetBaseLoggerForLevel(ldlog.Warn, makeLog(warnWriter))
	loggers.SetBaseLoggerForLevel(ldlog.Error, makeLog(errorWriter))
	if category != "" {
		loggers.SetPrefix(fmt.Sprintf("[%s]", category))
	}
	if debugWriter != io.Discard {
		loggers.SetMinLevel(ldlog.Debug)
	}
	return loggers
}

// MakeDefaultLoggers returns a Loggers instance that writes Info and Warn output to stdout and
// Error output to stderr, with Debug disabled.
func MakeDefaultLoggers() ldlog.Loggers {
	loggers := ldlog.Loggers{}
	loggers.SetBaseLoggerForLevel(ldlog.Debug, makeLog(io.Discard))
	loggers.SetBaseLoggerForLevel(ldlog.Info, makeLog(os.Stdout))
	loggers.SetBaseLoggerForLevel(ldlog.Warn, makeLog(os.Stdout))
	loggers.SetBaseLoggerForLevel(ldlog.Error, makeLog(os.Stderr))
	return loggers
}

func makeLog(w io.Writer) *log.Logger {
	return log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds)
}
