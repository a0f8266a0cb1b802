package evaluation

import "github.com/launchdarkly/ld-offline-feature/model"

// Outcome says how a Result was arrived at.
type Outcome int

const (
	// OutcomeOK means that a bucket matched.
	OutcomeOK Outcome = iota
	// OutcomeUsedDefault means that no bucket matched and the feature's default value was used.
	OutcomeUsedDefault
	// OutcomeFeatureMissing means that the feature artifact did not exist, so the caller's
	// default value was used.
	OutcomeFeatureMissing
	// OutcomeDecodeFailed means that the feature artifact could not be decoded, so the caller's
	// default value was used.
	OutcomeDecodeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeUsedDefault:
		return "default"
	case OutcomeFeatureMissing:
		return "missing"
	case OutcomeDecodeFailed:
		return "decode-failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result is the outcome of evaluating a feature.
type Result struct {
	// BucketName is the name of the matched bucket, model.DefaultBucketName if the feature's
	// default was used, or "" if the feature could not be evaluated at all.
	BucketName string
	Value      model.Value
	Outcome    Outcome
	// Err is the reason for a degraded outcome: the load or decode failure, or the first error
	// that caused a bucket to be skipped.
	Err error
}

// IsDegraded returns true if the value did not come from the feature's own buckets or default.
func (r Result) IsDegraded() bool {
	return r.Outcome == OutcomeFeatureMissing || r.Outcome == OutcomeDecodeFailed
}
