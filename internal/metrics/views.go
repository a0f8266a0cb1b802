package metrics

import (
	"go.opencensus.io/stats/view"
)

func makeEvaluationsView(prefix string) *view.View {
	return &view.View{
		Name:        prefix + "/" + evaluationsViewName,
		Description: "number of feature evaluations by feature and outcome",
		Measure:     evaluationMeasure,
		Aggregation: view.Count(),
		TagKeys:     evaluationTags,
	}
}
