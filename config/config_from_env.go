package config

import (
	"errors"
	"fmt"
	"os"

	ct "github.com/launchdarkly/go-configtypes"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// LoadConfigFromEnvironment sets parameters in a Config struct from environment variables.
//
// The Config parameter should be initialized with default values first.
func LoadConfigFromEnvironment(c *Config, loggers ldlog.Loggers) error {
	return loadConfigFromReader(c, ct.NewVarReaderFromEnvironment(), loggers)
}

func loadConfigFromReader(c *Config, reader *ct.VarReader, loggers ldlog.Loggers) error {
	reader.ReadStruct(&c.Main, false)
	rejectObsoleteVariableName(reader, "FEATURE_DIR", "FEATURES_DIR")

	reader.ReadStruct(&c.Evaluation, false)
	reader.ReadStruct(&c.Metrics, false)

	if !reader.Result().OK() {
		return reader.Result().GetError()
	}

	return ValidateConfig(c, loggers)
}

func rejectObsoleteVariableName(reader *ct.VarReader, oldName, preferredName string) {
	// Unrecognized environment variables are normally ignored, but a misspelling of a known variable
	// is reported rather than silently leaving part of the configuration unset.
	if os.Getenv(oldName) != "" {
		if preferredName == "" {
			reader.AddError(ct.ValidationPath{oldName}, errors.New("this variable is not supported"))
		} else {
			reader.AddError(ct.ValidationPath{oldName},
				fmt.Errorf("this variable is not supported; use %s", preferredName))
		}
	}
}
