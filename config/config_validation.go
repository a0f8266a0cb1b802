package config

import (
	"errors"
	"os"

	ct "github.com/launchdarkly/go-configtypes"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

var (
	errNegativeRetryInterval = errors.New("reload retry interval cannot be negative")
	errBadMetricsPrefix      = errors.New("metrics prefix may only contain printable ASCII characters")
)

const (
	warnFeaturesDirNotFound = "Features directory %q does not exist; every feature will evaluate to the caller's default"
)

// ValidateConfig ensures that the configuration does not contain invalid properties, and fills in
// defaults for properties that were left empty.
//
// LoadConfigFile and LoadConfigFromEnvironment both call this method as a last step, but it should
// also be called for a Config constructed programmatically.
func ValidateConfig(c *Config, loggers ldlog.Loggers) error {
	var result ct.ValidationResult

	validateConfigMain(&result, c, loggers)
	validateConfigMetrics(&result, c)

	return result.GetError()
}

func validateConfigMain(result *ct.ValidationResult, c *Config, loggers ldlog.Loggers) {
	if c.Main.FeaturesDir == "" {
		c.Main.FeaturesDir = DefaultFeaturesDir
	}
	if !c.Main.ReloadRetryInterval.IsDefined() {
		c.Main.ReloadRetryInterval = ct.NewOptDuration(DefaultReloadRetryInterval)
	} else if c.Main.ReloadRetryInterval.GetOrElse(0) < 0 {
		result.AddError(ct.ValidationPath{"ReloadRetryInterval"}, errNegativeRetryInterval)
	}
	if info, err := os.Stat(c.Main.FeaturesDir); err != nil || !info.IsDir() {
		loggers.Warnf(warnFeaturesDirNotFound, c.Main.FeaturesDir)
	}
}

func validateConfigMetrics(result *ct.ValidationResult, c *Config) {
	for _, ch := range c.Metrics.Prefix {
		if ch < 0x20 || ch > 0x7e {
			result.AddError(ct.ValidationPath{"Prefix"}, errBadMetricsPrefix)
			return
		}
	}
}
