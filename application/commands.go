package application

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/launchdarkly/ld-offline-feature/config"
	"github.com/launchdarkly/ld-offline-feature/evaluation"
	"github.com/launchdarkly/ld-offline-feature/model"
	"github.com/launchdarkly/ld-offline-feature/store"
)

var errWatchingDisabled = errors.New("the store is not watching for changes")

func errInvalidDefaultValue(err error) error {
	return fmt.Errorf("default value must be valid JSON: %w", err)
}

func errFilesFailed(command string, failed, total int) error {
	return fmt.Errorf("%s failed for %d of %d files", command, failed, total)
}

// LoadConfig builds the configuration described by the command-line options: defaults, then the
// configuration file if any, then environment variables if requested, then the --dir override.
func LoadConfig(o Options, loggers ldlog.Loggers) (config.Config, error) {
	c := config.DefaultConfig()
	if o.ConfigFile != "" {
		if err := config.LoadConfigFile(&c, o.ConfigFile, loggers); err != nil {
			return c, err
		}
	}
	if o.UseEnvironment {
		if err := config.LoadConfigFromEnvironment(&c, loggers); err != nil {
			return c, err
		}
	}
	if o.FeaturesDir != "" {
		c.Main.FeaturesDir = o.FeaturesDir
		if err := config.ValidateConfig(&c, loggers); err != nil {
			return c, err
		}
	}
	return c, nil
}

// EvaluatorOptions translates the evaluation settings into evaluation.Option values.
func EvaluatorOptions(c config.EvaluationConfig) []evaluation.Option {
	var options []evaluation.Option
	if c.StrictComparisons {
		options = append(options, evaluation.StrictComparisons())
	}
	if c.DisableLiteralNot {
		options = append(options, evaluation.DisableLiteralNot())
	}
	return options
}

// Store is a FeatureStore configured from a Config, along with its Watcher if the configuration
// asked for one.
type Store struct {
	*store.FeatureStore
	watcher *store.Watcher
}

// OpenStore creates the FeatureStore for a configuration. If recorder is not nil, every evaluation
// is reported to it. If c.Main.WatchForChanges is true, the store starts watching its directory.
func OpenStore(c config.Config, recorder store.EvaluationRecorder, loggers ldlog.Loggers) (*Store, error) {
	options := []store.Option{
		store.WithEvaluator(evaluation.NewEvaluator(loggers, EvaluatorOptions(c.Evaluation)...)),
	}
	if recorder != nil {
		options = append(options, store.WithRecorder(recorder))
	}
	s := &Store{FeatureStore: store.NewFeatureStore(c.Main.FeaturesDir, loggers, options...)}
	if c.Main.WatchForChanges {
		w, err := s.Watch(c.Main.ReloadRetryInterval.GetOrElse(config.DefaultReloadRetryInterval))
		if err != nil {
			return nil, err
		}
		s.watcher = w
	}
	return s, nil
}

// Watching returns true if the store is keeping itself up to date with its directory.
func (s *Store) Watching() bool {
	return s.watcher != nil
}

// Close stops watching, if applicable.
func (s *Store) Close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
}

// RunEval evaluates one feature and writes the result to out as a JSON object with the
// properties "bucket", "value", "outcome", and, if an error was recovered from, "error".
func RunEval(s *Store, name, defaultJSON string, out io.Writer) error {
	defaultValue := model.Null()
	if defaultJSON != "" {
		v, err := model.UnmarshalValue([]byte(defaultJSON))
		if err != nil {
			return errInvalidDefaultValue(err)
		}
		defaultValue = v
	}
	result := s.Evaluate(name, defaultValue, evaluation.Context{})
	_, err := fmt.Fprintln(out, string(formatResult(result)))
	return err
}

func formatResult(result evaluation.Result) []byte {
	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("bucket").String(result.BucketName)
	result.Value.AsLDValue().WriteToJSONWriter(obj.Name("value"))
	obj.Name("outcome").String(result.Outcome.String())
	if result.Err != nil {
		obj.Name("error").String(result.Err.Error())
	}
	obj.End()
	return w.Bytes()
}

// RunValidate decodes every file and reports each one on out. It returns an error if any file
// could not be decoded.
func RunValidate(paths []string, out io.Writer) error {
	failed := 0
	for _, path := range paths {
		if _, err := store.LoadFile(path); err != nil {
			failed++
			fmt.Fprintf(out, "%s: %s\n", path, err)
			continue
		}
		fmt.Fprintf(out, "%s: ok\n", path)
	}
	if failed > 0 {
		return errFilesFailed(CommandValidate, failed, len(paths))
	}
	return nil
}

// RunNormalize rewrites every file in the canonical artifact layout. Files that are already
// canonical are left untouched.
func RunNormalize(paths []string, out io.Writer) error {
	failed := 0
	for _, path := range paths {
		f, err := store.LoadFile(path)
		if err == nil {
			var written bool
			if written, err = store.Persist(f, path, true); err == nil {
				if written {
					fmt.Fprintf(out, "%s: normalized\n", path)
				} else {
					fmt.Fprintf(out, "%s: unchanged\n", path)
				}
				continue
			}
		}
		failed++
		fmt.Fprintf(out, "%s: %s\n", path, err)
	}
	if failed > 0 {
		return errFilesFailed(CommandNormalize, failed, len(paths))
	}
	return nil
}

// RunWatch logs the features currently in the store, then blocks until ctx is done while the
// store's Watcher keeps it current.
func RunWatch(ctx context.Context, s *Store, loggers ldlog.Loggers) error {
	if !s.Watching() {
		return errWatchingDisabled
	}
	names, err := s.Names()
	if err != nil {
		return err
	}
	loggers.Infof("Watching %d feature(s) in %s", len(names), s.Dir())
	<-ctx.Done()
	loggers.Info("Stopped watching")
	return nil
}
