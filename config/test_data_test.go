package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	ct "github.com/launchdarkly/go-configtypes"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
)

type testDataValidConfig struct {
	name        string
	makeConfig  func(c *Config)
	envVars     map[string]string
	fileContent string
}

type testDataInvalidConfig struct {
	name         string
	envVarsError string
	fileError    string
	envVars      map[string]string
	fileContent  string
}

func (tdc testDataValidConfig) assertResult(t *testing.T, actualConfig Config, mockLog *ldlogtest.MockLog) {
	expectedConfig := DefaultConfig()
	if tdc.makeConfig != nil {
		tdc.makeConfig(&expectedConfig)
	}
	assert.Equal(t, expectedConfig, actualConfig)
	mockLog.AssertMessageMatch(t, false, ldlog.Error, ".")
}

func makeValidConfigs() []testDataValidConfig {
	return []testDataValidConfig{
		makeValidConfigDefaults(),
		makeValidConfigAllProperties(),
		makeValidConfigMetricsPrefixOnly(),
	}
}

func makeInvalidConfigs() []testDataInvalidConfig {
	return []testDataInvalidConfig{
		makeInvalidConfigNegativeRetryInterval(),
		makeInvalidConfigBadDuration(),
		makeInvalidConfigBadLogLevel(),
		makeInvalidConfigBadMetricsPrefix(),
	}
}

func makeValidConfigDefaults() testDataValidConfig {
	return testDataValidConfig{
		name:        "defaults",
		envVars:     map[string]string{},
		fileContent: "[Main]\n",
	}
}

func makeValidConfigAllProperties() testDataValidConfig {
	c := testDataValidConfig{name: "all properties"}
	c.makeConfig = func(c *Config) {
		c.Main = MainConfig{
			FeaturesDir:         "/var/lib/features",
			WatchForChanges:     true,
			ReloadRetryInterval: ct.NewOptDuration(250 * time.Millisecond),
			LogLevel:            NewOptLogLevel(ldlog.Debug),
		}
		c.Evaluation = EvaluationConfig{
			StrictComparisons: true,
			DisableLiteralNot: true,
		}
		c.Metrics = MetricsConfig{
			Enabled: true,
			Prefix:  "myapp",
		}
	}
	c.envVars = map[string]string{
		"FEATURES_DIR":          "/var/lib/features",
		"WATCH_FOR_CHANGES":     "1",
		"RELOAD_RETRY_INTERVAL": "250ms",
		"LOG_LEVEL":             "debug",
		"STRICT_COMPARISONS":    "true",
		"DISABLE_LITERAL_NOT":   "1",
		"USE_METRICS":           "1",
		"METRICS_PREFIX":        "myapp",
	}
	c.fileContent = `
[Main]
FeaturesDir = "/var/lib/features"
WatchForChanges = true
ReloadRetryInterval = 250ms
LogLevel = "debug"

[Evaluation]
StrictComparisons = 1
DisableLiteralNot = true

[Metrics]
Enabled = true
Prefix = "myapp"
`
	return c
}

func makeValidConfigMetricsPrefixOnly() testDataValidConfig {
	c := testDataValidConfig{name: "metrics prefix only"}
	c.makeConfig = func(c *Config) {
		c.Metrics.Prefix = "x_y"
	}
	c.envVars = map[string]string{"METRICS_PREFIX": "x_y"}
	c.fileContent = `
[Metrics]
Prefix = x_y
`
	return c
}

func makeInvalidConfigNegativeRetryInterval() testDataInvalidConfig {
	return testDataInvalidConfig{
		name:         "negative retry interval",
		envVarsError: "reload retry interval cannot be negative",
		envVars:      map[string]string{"RELOAD_RETRY_INTERVAL": "-1s"},
		fileContent: `[Main]
ReloadRetryInterval = -1s`,
	}
}

func makeInvalidConfigBadDuration() testDataInvalidConfig {
	return testDataInvalidConfig{
		name:         "bad duration",
		envVarsError: "RELOAD_RETRY_INTERVAL: not a valid duration",
		fileError:    "not a valid duration",
		envVars:      map[string]string{"RELOAD_RETRY_INTERVAL": "soon"},
		fileContent: `[Main]
ReloadRetryInterval = soon`,
	}
}

func makeInvalidConfigBadLogLevel() testDataInvalidConfig {
	return testDataInvalidConfig{
		name:         "bad log level",
		envVarsError: `LOG_LEVEL: "loud" is not a valid log level`,
		fileError:    `"loud" is not a valid log level`,
		envVars:      map[string]string{"LOG_LEVEL": "loud"},
		fileContent: `[Main]
LogLevel = loud`,
	}
}

func makeInvalidConfigBadMetricsPrefix() testDataInvalidConfig {
	return testDataInvalidConfig{
		name:         "bad metrics prefix",
		envVarsError: "metrics prefix may only contain printable ASCII characters",
		envVars:      map[string]string{"METRICS_PREFIX": "métrique"},
		fileContent: `[Metrics]
Prefix = "m` + "é" + `trique"`,
	}
}
