package metrics

import (
	"context"
	"strings"
	"sync"

	"github.com/pborman/uuid"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/launchdarkly/ld-offline-feature/config"
	"github.com/launchdarkly/ld-offline-feature/evaluation"
)

// Manager records feature evaluations as OpenCensus statistics. No exporters are registered, so the
// data is only available in-process through view.RetrieveData or an exporter the host application
// registers itself.
type Manager struct {
	openCensusCtx context.Context
	instanceID    string
	evalView      *view.View
	loggers       ldlog.Loggers
	registerOnce  sync.Once
	closeOnce     sync.Once
}

// NewManager creates a Manager and registers its view. The view is named "<prefix>/evaluations",
// where the prefix defaults to "ld_offline".
func NewManager(mc config.MetricsConfig, loggers ldlog.Loggers) (*Manager, error) {
	instanceID := uuid.New()
	ctx, err := tag.New(context.Background(), tag.Insert(instanceTagKey, instanceID))
	if err != nil {
		return nil, errCreateTags(err)
	}
	prefix := mc.Prefix
	if prefix == "" {
		prefix = defaultMetricsPrefix
	}
	m := &Manager{
		openCensusCtx: ctx,
		instanceID:    instanceID,
		evalView:      makeEvaluationsView(prefix),
		loggers:       loggers,
	}
	if err := m.registerViews(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) registerViews() (err error) {
	m.registerOnce.Do(func() {
		if e := view.Register(m.evalView); e != nil {
			err = errRegisterViews(e)
		}
	})
	return err
}

// InstanceID returns the value of the "instance" tag, which is different for every Manager.
func (m *Manager) InstanceID() string {
	return m.instanceID
}

// ViewName returns the name of the evaluation count view.
func (m *Manager) ViewName() string {
	return m.evalView.Name
}

// RecordEvaluation counts one evaluation of a feature.
func (m *Manager) RecordEvaluation(featureName string, outcome evaluation.Outcome) {
	ctx, err := tag.New(m.openCensusCtx,
		tag.Upsert(featureTagKey, sanitizeTagValue(featureName)),
		tag.Upsert(outcomeTagKey, outcome.String()),
	)
	if err != nil {
		m.loggers.Errorf(logMsgTagsFailed, featureName, err)
		return
	}
	stats.Record(ctx, evaluationMeasure.M(1))
}

// Close unregisters the view. Statistics recorded afterward are discarded.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		view.Unregister(m.evalView)
	})
}

// Pad empty keys to match tag keyset cardinality since empty strings are dropped
func sanitizeTagValue(v string) string {
	if strings.TrimSpace(v) == "" {
		return "_"
	}
	return strings.Replace(v, "/", "_", -1)
}
