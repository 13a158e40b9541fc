package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating a manager with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("run"),
				WithHistogramBuckets([]float64{0.1, 1}),
				WithConstLabels(map[string]string{"metric": "stolen_bases"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "run")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 1})
				So(manager.Gatherer(), ShouldEqual, registry)
			})
		})

		Convey("When passing empty values", func() {
			manager := NewManager(WithNamespace(""), WithHistogramBuckets(nil), WithPrometheusRegistry(nil))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, defaultNamespace)
				So(manager.histogramBuckets, ShouldNotBeEmpty)
				So(manager.Gatherer(), ShouldNotBeNil)
			})
		})

		Convey("When two managers are created without a registry", func() {
			Convey("Then they do not collide", func() {
				So(func() {
					NewManager()
					NewManager()
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When a run is recorded", func() {
			manager.RecordLoaded(10)
			manager.RecordFilter(6, map[string]int{"missing_metric": 3, "year_out_of_range": 1, "league_not_allowed": 0})
			manager.SetSummary(4, 2)
			manager.ObserveStage(StageAggregate, 3*time.Millisecond)
			manager.RecordError(StageRender)

			Convey("Then the counters reflect it", func() {
				So(testutil.ToFloat64(manager.recordsLoaded), ShouldEqual, 10)
				So(testutil.ToFloat64(manager.recordsKept), ShouldEqual, 6)
				So(testutil.ToFloat64(manager.recordsExcluded.WithLabelValues("missing_metric")), ShouldEqual, 3)
				So(testutil.ToFloat64(manager.summaryRows), ShouldEqual, 4)
				So(testutil.ToFloat64(manager.decades), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.runErrors.WithLabelValues(StageRender)), ShouldEqual, 1)
			})

			Convey("And zero-count reasons are not exported", func() {
				So(testutil.CollectAndCount(manager.recordsExcluded), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		manager := NewManager(WithMetricsEnabled(false))

		Convey("When recording", func() {
			manager.RecordLoaded(5)
			manager.RecordError(StageLoad)

			Convey("Then nothing is counted", func() {
				So(testutil.ToFloat64(manager.recordsLoaded), ShouldEqual, 0)
				So(testutil.CollectAndCount(manager.runErrors), ShouldEqual, 0)
			})
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given a manager with recorded values", t, func() {
		manager := NewManager()
		manager.RecordLoaded(3)
		manager.MarkRun(time.Unix(1_700_000_000, 0))

		Convey("When writing a textfile", func() {
			path := filepath.Join(t.TempDir(), "decades.prom")
			err := manager.WriteTextfile(path)

			Convey("Then the exposition contains the metrics", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "decades_records_loaded_total 3")
				So(string(data), ShouldContainSubstring, "decades_last_run_timestamp_seconds 1.7e+09")
			})
		})

		Convey("When the target directory does not exist", func() {
			err := manager.WriteTextfile(filepath.Join(t.TempDir(), "missing", "decades.prom"))

			Convey("Then a wrapped error is returned", func() {
				So(errors.Is(err, ErrWriteTextfile), ShouldBeTrue)
			})
		})
	})
}

func TestDefaultManager(t *testing.T) {
	Convey("Given the process-wide manager", t, func() {
		So(Default(), ShouldNotBeNil)
		So(Default().Gatherer(), ShouldEqual, GetRegistry())
	})
}
