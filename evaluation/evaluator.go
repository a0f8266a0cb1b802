package evaluation

import (
	"regexp"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/ld-offline-feature/model"
)

// Evaluator resolves features against a Context. It is safe for concurrent use; features and
// classifiers are never modified by evaluation.
type Evaluator struct {
	loggers           ldlog.Loggers
	strict            bool
	disableLiteralNot bool
	patterns          sync.Map // pattern string -> compiledPattern
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// StrictComparisons makes a comparison between values of different kinds abort the classifier
// with an EvaluationError wrapping ErrTypeMismatch, instead of simply not being satisfied. The
// bucket resolver still treats the bucket as not matching.
func StrictComparisons() Option {
	return func(e *Evaluator) {
		e.strict = true
	}
}

// DisableLiteralNot makes a negation over a literal value unsatisfiable, so that only nested
// classifiers can be negated.
func DisableLiteralNot() Option {
	return func(e *Evaluator) {
		e.disableLiteralNot = true
	}
}

type compiledPattern struct {
	re *regexp.Regexp
}

// NewEvaluator creates an Evaluator. Skipped buckets and unusable patterns are logged with the
// given loggers.
func NewEvaluator(loggers ldlog.Loggers, options ...Option) *Evaluator {
	e := &Evaluator{loggers: loggers}
	for _, o := range options {
		o(e)
	}
	return e
}

// Evaluate returns the value of the first bucket whose classifier is satisfied, or the feature's
// default if there is none. A bucket whose classifier cannot be evaluated is logged and skipped.
func (e *Evaluator) Evaluate(feature *model.OfflineFeature, ctx Context) Result {
	if feature == nil {
		e.loggers.Warn(logMsgFeatureNotInitialized)
		return Result{Value: model.Null(), Outcome: OutcomeFeatureMissing}
	}
	var firstErr error
	for i := 0; i < feature.BucketCount(); i++ {
		b := feature.Bucket(i)
		matched, err := e.evaluate(b.Classifier(), ctx)
		if err != nil {
			e.loggers.Warnf(logMsgBucketSkipped, b.Name(), err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if matched {
			return Result{BucketName: b.Name(), Value: b.Value(), Outcome: OutcomeOK, Err: firstErr}
		}
	}
	return Result{
		BucketName: model.DefaultBucketName,
		Value:      feature.Default(),
		Outcome:    OutcomeUsedDefault,
		Err:        firstErr,
	}
}

// EvaluateClassifier tests a single classifier. The error, if any, is an *EvaluationError.
func (e *Evaluator) EvaluateClassifier(c model.Classifier, ctx Context) (bool, error) {
	return e.evaluate(c, ctx)
}

func (e *Evaluator) pattern(p string) *regexp.Regexp {
	if cached, ok := e.patterns.Load(p); ok {
		return cached.(compiledPattern).re
	}
	re, err := regexp.Compile(p)
	if err != nil {
		e.loggers.Warnf(logMsgInvalidPattern, p, err)
	}
	actual, _ := e.patterns.LoadOrStore(p, compiledPattern{re: re})
	return actual.(compiledPattern).re
}
