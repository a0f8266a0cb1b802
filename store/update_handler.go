package store

import (
	"github.com/launchdarkly/ld-offline-feature/evaluation"
	"github.com/launchdarkly/ld-offline-feature/model"
)

// UpdateHandler defines the methods that Watcher will call after processing changed feature files.
type UpdateHandler interface {
	// FeatureUpdated is called when a feature file has been created or changed and was decoded
	// successfully. It is not called for a file that cannot be decoded, so the handler keeps
	// whatever version it had before.
	FeatureUpdated(name string, feature *model.OfflineFeature)

	// FeatureDeleted is called when a feature file has been removed.
	FeatureDeleted(name string)
}

// EvaluationRecorder is notified of every evaluation made through a FeatureStore.
type EvaluationRecorder interface {
	RecordEvaluation(featureName string, outcome evaluation.Outcome)
}
