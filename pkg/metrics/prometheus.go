// Package metrics provides Prometheus run metrics for the decades pipeline.
//
// The pipeline is a batch job, so nothing is scraped; the registry is
// written once per run in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline stage names used as label values.
const (
	StageLoad      = "load"
	StageAggregate = "aggregate"
	StageRender    = "render"
	StagePersist   = "persist"
)

const defaultNamespace = "decades"

// Manager owns the run metrics of one registry.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer
	gatherer         prometheus.Gatherer

	recordsLoaded   prometheus.Counter
	recordsKept     prometheus.Counter
	recordsExcluded *prometheus.CounterVec
	summaryRows     prometheus.Gauge
	decades         prometheus.Gauge
	stageDuration   *prometheus.HistogramVec
	runErrors       *prometheus.CounterVec
	lastRun         prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry a
// fresh registry is used so that managers never collide.
func NewManager(opts ...Option) *Manager {
	reg := prometheus.NewRegistry()
	m := &Manager{
		namespace:        defaultNamespace,
		histogramBuckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		enabled:          true,
		registry:         reg,
		gatherer:         reg,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_loaded_total",
		Help:        "Team-season records read from the input file",
		ConstLabels: m.constLabels,
	})

	m.recordsKept = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_kept_total",
		Help:        "Records that survived filtering and were aggregated",
		ConstLabels: m.constLabels,
	})

	m.recordsExcluded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_excluded_total",
		Help:        "Records dropped before aggregation, by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.summaryRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "summary_rows",
		Help:        "Number of (decade, league) rows in the last summary",
		ConstLabels: m.constLabels,
	})

	m.decades = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "decades",
		Help:        "Number of distinct decades in the last summary",
		ConstLabels: m.constLabels,
	})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_seconds",
		Help:        "Wall time spent per pipeline stage",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.runErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_errors_total",
		Help:        "Pipeline failures by stage",
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.lastRun = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time the last run finished",
		ConstLabels: m.constLabels,
	})
}

// RecordLoaded counts records read from the input.
func (m *Manager) RecordLoaded(n int) {
	if m.enabled && n > 0 {
		m.recordsLoaded.Add(float64(n))
	}
}

// RecordFilter counts kept records and exclusions by reason.
func (m *Manager) RecordFilter(kept int, excluded map[string]int) {
	if !m.enabled {
		return
	}
	if kept > 0 {
		m.recordsKept.Add(float64(kept))
	}
	for reason, n := range excluded {
		if n > 0 {
			m.recordsExcluded.WithLabelValues(reason).Add(float64(n))
		}
	}
}

// SetSummary records the shape of the produced summary.
func (m *Manager) SetSummary(rows, decades int) {
	if m.enabled {
		m.summaryRows.Set(float64(rows))
		m.decades.Set(float64(decades))
	}
}

// ObserveStage records how long a stage took.
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	if m.enabled {
		m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// RecordError counts a failure in stage.
func (m *Manager) RecordError(stage string) {
	if m.enabled {
		m.runErrors.WithLabelValues(stage).Inc()
	}
}

// MarkRun stamps the completion time of a run.
func (m *Manager) MarkRun(t time.Time) {
	if m.enabled {
		m.lastRun.Set(float64(t.Unix()))
	}
}

// Gatherer exposes the registry backing m.
func (m *Manager) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// WriteTextfile writes all metrics of m to path in the text exposition
// format. The file is written atomically.
func (m *Manager) WriteTextfile(path string) error {
	if m.gatherer == nil {
		return ErrNoGatherer
	}
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}

// GetRegistry returns the registry of the process-wide manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
