package metrics

import (
	"go.opencensus.io/stats"
)

var (
	evaluationMeasure = stats.Int64("evaluations", "feature evaluations", stats.UnitDimensionless) //nolint:gochecknoglobals
)
