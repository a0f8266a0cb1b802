package store

import (
	"errors"
	"fmt"
)

// All log messages, error singletons, and error constructors for this package should be collected here.

const (
	logMsgFeatureDecodeFailed     = "Feature %q could not be loaded; using default value (error: %s)"
	logMsgReloadedFeature         = "Reloaded feature %q from %s"
	logMsgDeletedFeature          = "Feature file for %q was removed"
	logMsgReloadError             = "Feature %q reload failed; file is invalid or possibly incomplete, will retry (error: %s)"
	logMsgReloadNoMoreRetries     = "Feature %q reload failed, and no further changes were detected; giving up until next change (error: %s)"
	logMsgWatcherError            = "Error from file watcher: %s"
	logMsgMonitoringStarted       = "Monitoring %s for feature changes"
	logMsgSkippedUpdateFromLoader = "Feature %q was updated while it was being loaded; keeping the newer version"
	logMsgFeatureNotFound         = "Feature %q has no artifact: %s"
)

// ErrFeatureNotFound means that there is no artifact for the requested feature.
var ErrFeatureNotFound = errors.New("feature artifact not found")

// ErrNilFeature means that a nil feature was passed where a feature is required.
var ErrNilFeature = errors.New("feature cannot be nil")

var errEmptyFeatureName = fmt.Errorf("%w: feature name cannot be empty", ErrFeatureNotFound)

func errFeatureFileNotFound(path string) error {
	return fmt.Errorf("%w: %s", ErrFeatureNotFound, path)
}

func errCannotReadFeatureFile(path string, err error) error {
	return fmt.Errorf("unable to read feature file %s: %w", path, err)
}

func errCannotDecodeFeatureFile(path string, err error) error {
	return fmt.Errorf("invalid feature file %s: %w", path, err)
}

func errCannotWriteFeatureFile(path string, err error) error {
	return fmt.Errorf("unable to write feature file %s: %w", path, err)
}

func errInvalidFeatureName(name string) error {
	return fmt.Errorf("%w: %q is not a valid feature name", ErrFeatureNotFound, name)
}

func errCannotWatchDirectory(dir string, err error) error {
	return fmt.Errorf("unable to watch features directory %s: %w", dir, err)
}
