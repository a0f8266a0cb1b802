package metrics

import (
	"go.opencensus.io/tag"
)

const (
	defaultMetricsPrefix = "ld_offline"

	evaluationsViewName = "evaluations"
)

var (
	featureTagKey, _  = tag.NewKey("feature")  //nolint:gochecknoglobals
	outcomeTagKey, _  = tag.NewKey("outcome")  //nolint:gochecknoglobals
	instanceTagKey, _ = tag.NewKey("instance") //nolint:gochecknoglobals

	evaluationTags = []tag.Key{featureTagKey, outcomeTagKey, instanceTagKey} //nolint:gochecknoglobals
)
