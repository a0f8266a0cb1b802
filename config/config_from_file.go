package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

const gcfgUnknownFieldPhrase = "can't store data at"

func errLoadingConfigFile(path string, err error) error {
	return fmt.Errorf("failed to read configuration file %q: %w", path, err)
}

// LoadConfigFile reads an ini-format configuration file into c and then calls ValidateConfig.
// Properties that the file does not mention keep their existing values, so c should normally
// start out as DefaultConfig().
func LoadConfigFile(c *Config, path string, loggers ldlog.Loggers) error {
	data, err := os.ReadFile(path) //nolint:gosec // the path comes from the command line
	if err != nil {
		return errLoadingConfigFile(path, err)
	}
	if err := LoadConfigString(c, string(data), loggers); err != nil {
		return errLoadingConfigFile(path, err)
	}
	return nil
}

// LoadConfigString is the same as LoadConfigFile, but takes the file content directly.
func LoadConfigString(c *Config, content string, loggers ldlog.Loggers) error {
	if err := gcfg.ReadStringInto(c, content); err != nil {
		return FilterGcfgError(err)
	}
	return ValidateConfig(c, loggers)
}

// FilterGcfgError rewords gcfg's error for an unknown section or property, which is most often
// a misspelling.
func FilterGcfgError(err error) error {
	if err == nil || !strings.Contains(err.Error(), gcfgUnknownFieldPhrase) {
		return err
	}
	return errors.New(strings.Replace(err.Error(), gcfgUnknownFieldPhrase, "unsupported or misspelled", 1))
}
