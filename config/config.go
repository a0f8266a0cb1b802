// Package config defines the configuration of the offline feature tools: where feature artifacts
// live, how they are watched, how they are evaluated, and how evaluations are counted.
package config

import (
	"time"

	ct "github.com/launchdarkly/go-configtypes"

	"github.com/launchdarkly/ld-offline-feature/logging"
)

const (
	// DefaultFeaturesDir is the default value for MainConfig.FeaturesDir if not specified.
	DefaultFeaturesDir = "features/materialized"

	// DefaultReloadRetryInterval is the default value for MainConfig.ReloadRetryInterval if not
	// specified.
	DefaultReloadRetryInterval = time.Second
)

// DefaultLoggers is the default logging configuration.
//
// Output goes to stdout, except Error level which goes to stderr. Debug level is disabled.
var DefaultLoggers = logging.MakeDefaultLoggers()

// Config describes the configuration for evaluating offline features.
//
// If you are configuring this programmatically, it is best to start with DefaultConfig() and then
// change only the fields you need to change.
type Config struct {
	Main       MainConfig
	Evaluation EvaluationConfig
	Metrics    MetricsConfig
}

// MainConfig contains global configuration options.
//
// This corresponds to the [Main] section in the configuration file.
type MainConfig struct {
	// FeaturesDir is the directory containing one "<name>.json" artifact per feature.
	FeaturesDir string `conf:"FEATURES_DIR"`
	// WatchForChanges enables reloading of artifacts when they change on disk.
	WatchForChanges bool `conf:"WATCH_FOR_CHANGES"`
	// ReloadRetryInterval is how long to wait before re-reading an artifact that could not be
	// decoded, which usually means it was still being written.
	ReloadRetryInterval ct.OptDuration `conf:"RELOAD_RETRY_INTERVAL"`
	LogLevel            OptLogLevel    `conf:"LOG_LEVEL"`
}

// EvaluationConfig contains options for compatibility with older artifact behavior.
//
// This corresponds to the [Evaluation] section in the configuration file.
type EvaluationConfig struct {
	// StrictComparisons makes a comparison between values of different kinds cause the bucket to
	// be skipped with a logged error, rather than simply not matching.
	StrictComparisons bool `conf:"STRICT_COMPARISONS"`
	// DisableLiteralNot makes a negation over a literal value never match.
	DisableLiteralNot bool `conf:"DISABLE_LITERAL_NOT"`
}

// MetricsConfig configures the optional OpenCensus evaluation counter.
//
// This corresponds to the [Metrics] section in the configuration file.
type MetricsConfig struct {
	Enabled bool   `conf:"USE_METRICS"`
	Prefix  string `conf:"METRICS_PREFIX"`
}

// DefaultConfig returns a Config with all defaults filled in.
func DefaultConfig() Config {
	return Config{
		Main: MainConfig{
			FeaturesDir:         DefaultFeaturesDir,
			ReloadRetryInterval: ct.NewOptDuration(DefaultReloadRetryInterval),
		},
	}
}
