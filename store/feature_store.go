package store

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
	"golang.org/x/sync/singleflight"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/launchdarkly/ld-offline-feature/evaluation"
	"github.com/launchdarkly/ld-offline-feature/model"
)

// FeatureStore serves the feature artifacts in one directory. It is safe for concurrent use.
//
// Features are decoded the first time they are requested and then cached. Concurrent requests for
// a feature that is not yet cached share a single read of its file. Files that are missing or
// invalid are not cached, so they are read again on the next request; a Watcher can be used to
// pick up changes to files that have already been cached.
type FeatureStore struct {
	dir       string
	evaluator *evaluation.Evaluator
	recorder  EvaluationRecorder
	loggers   ldlog.Loggers
	features  map[string]*model.OfflineFeature
	lock      sync.RWMutex
	loads     singleflight.Group
}

// Option configures a FeatureStore.
type Option func(*FeatureStore)

// WithEvaluator sets the Evaluator used by FeatureStore.Evaluate. By default, an Evaluator with no
// options is used.
func WithEvaluator(e *evaluation.Evaluator) Option {
	return func(s *FeatureStore) {
		s.evaluator = e
	}
}

// WithRecorder sets an EvaluationRecorder to be notified of each evaluation.
func WithRecorder(r EvaluationRecorder) Option {
	return func(s *FeatureStore) {
		s.recorder = r
	}
}

// NewFeatureStore creates a FeatureStore for the artifacts in dir. The directory is not read until a
// feature is requested.
func NewFeatureStore(dir string, loggers ldlog.Loggers, options ...Option) *FeatureStore {
	s := &FeatureStore{
		dir:      dir,
		loggers:  loggers,
		features: make(map[string]*model.OfflineFeature),
	}
	for _, o := range options {
		o(s)
	}
	if s.evaluator == nil {
		s.evaluator = evaluation.NewEvaluator(loggers)
	}
	return s
}

// Dir returns the features directory.
func (s *FeatureStore) Dir() string {
	return s.dir
}

// Path returns the artifact path for a feature. The result is always inside the features
// directory, even if the name contains ".." or refers to a symbolic link.
func (s *FeatureStore) Path(name string) (string, error) {
	if name == "" {
		return "", errEmptyFeatureName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", errInvalidFeatureName(name)
	}
	return securejoin.SecureJoin(s.dir, name+artifactSuffix)
}

// Names returns the names of all features that have an artifact in the directory, sorted.
func (s *FeatureStore) Names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if name, ok := featureNameForFile(e.Name()); ok && !e.IsDir() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Get returns a feature, reading its artifact if it is not already cached. If there is no artifact,
// the error wraps ErrFeatureNotFound; if it cannot be decoded, the error wraps a *model.DecodeError.
func (s *FeatureStore) Get(name string) (*model.OfflineFeature, error) {
	s.lock.RLock()
	f, ok := s.features[name]
	s.lock.RUnlock()
	if ok {
		return f, nil
	}

	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	result, err, _ := s.loads.Do(name, func() (interface{}, error) {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		s.lock.Lock()
		defer s.lock.Unlock()
		if existing, ok := s.features[name]; ok {
			s.loggers.Debugf(logMsgSkippedUpdateFromLoader, name)
			return existing, nil
		}
		s.features[name] = loaded
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.OfflineFeature), nil
}

// Put writes a feature's artifact and caches the feature. If onlyIfChanged is true and the artifact
// already has the same contents, the file is not rewritten. It returns true if the file was written.
// A nil feature is rejected with ErrNilFeature, and nothing is written or cached.
func (s *FeatureStore) Put(name string, f *model.OfflineFeature, onlyIfChanged bool) (bool, error) {
	if f == nil {
		return false, ErrNilFeature
	}
	path, err := s.Path(name)
	if err != nil {
		return false, err
	}
	written, err := Persist(f, path, onlyIfChanged)
	if err != nil {
		return false, err
	}
	s.FeatureUpdated(name, f)
	return written, nil
}

// Evaluate evaluates a feature. It never fails: if the feature has no artifact, or its artifact
// cannot be read or decoded, the result has an empty bucket name, the caller's default value, and
// an outcome of OutcomeFeatureMissing or OutcomeDecodeFailed.
func (s *FeatureStore) Evaluate(name string, defaultValue model.Value, ctx evaluation.Context) evaluation.Result {
	result := s.evaluate(name, defaultValue, ctx)
	if s.recorder != nil {
		s.recorder.RecordEvaluation(name, result.Outcome)
	}
	return result
}

func (s *FeatureStore) evaluate(name string, defaultValue model.Value, ctx evaluation.Context) evaluation.Result {
	f, err := s.Get(name)
	if err != nil {
		outcome := evaluation.OutcomeDecodeFailed
		if errors.Is(err, ErrFeatureNotFound) {
			outcome = evaluation.OutcomeFeatureMissing
			s.loggers.Debugf(logMsgFeatureNotFound, name, err)
		} else {
			s.loggers.Warnf(logMsgFeatureDecodeFailed, name, err)
		}
		return evaluation.Result{Value: defaultValue, Outcome: outcome, Err: err}
	}
	return s.evaluator.Evaluate(f, ctx)
}

// FeatureUpdated replaces the cached version of a feature. This implements UpdateHandler.
func (s *FeatureStore) FeatureUpdated(name string, f *model.OfflineFeature) {
	s.lock.Lock()
	s.features[name] = f
	s.lock.Unlock()
}

// FeatureDeleted removes a feature from the cache. This implements UpdateHandler.
func (s *FeatureStore) FeatureDeleted(name string) {
	s.lock.Lock()
	delete(s.features, name)
	s.lock.Unlock()
}

// Watch starts a Watcher that keeps this store current as files in its directory change.
func (s *FeatureStore) Watch(retryInterval time.Duration) (*Watcher, error) {
	return NewWatcher(s.dir, s, retryInterval, s.loggers)
}

func featureNameForFile(fileName string) (string, bool) {
	base := filepath.Base(fileName)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != artifactSuffix {
		return "", false
	}
	name := strings.TrimSuffix(base, artifactSuffix)
	return name, name != ""
}
