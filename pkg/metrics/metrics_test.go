package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the ladder namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "ladder")
				So(manager.subsystem, ShouldEqual, "leaderboard")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("engine"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.entities.Set(3)

			Convey("Then metric names and labels should reflect the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, mf := range families {
					if mf.GetName() == "test_engine_entities" {
						found = true
						So(mf.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
						So(mf.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 3.0)
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty option values are given", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "ladder")
				So(manager.subsystem, ShouldEqual, "leaderboard")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording operations", func() {
			before := testutil.ToFloat64(globalManager.operations.WithLabelValues("add", "ok"))
			RecordOperation("add", "ok", 0.2)
			RecordOperation("add", "ok", 0.3)

			Convey("Then the counter should advance by the number of calls", func() {
				after := testutil.ToFloat64(globalManager.operations.WithLabelValues("add", "ok"))
				So(after-before, ShouldEqual, 2.0)
			})
		})

		Convey("When recording sorts", func() {
			before := testutil.ToFloat64(globalManager.sorts.WithLabelValues("Merge Sort"))
			RecordSort("Merge Sort", 1.5)

			Convey("Then the sort counter should advance", func() {
				So(testutil.ToFloat64(globalManager.sorts.WithLabelValues("Merge Sort"))-before, ShouldEqual, 1.0)
			})
		})

		Convey("When updating gauges", func() {
			UpdateEntityCount(42)
			UpdateQueueSize(25, 100)
			UpdateWorkerCount(4)
			UpdateMonitorTasks(2)

			Convey("Then they should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.entities), ShouldEqual, 42.0)
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 25.0)
				So(testutil.ToFloat64(globalManager.queueUtilization), ShouldEqual, 0.25)
				So(testutil.ToFloat64(globalManager.workerCount), ShouldEqual, 4.0)
				So(testutil.ToFloat64(globalManager.monitorTasks), ShouldEqual, 2.0)
			})
		})

		Convey("When recording ingest and worker metrics", func() {
			dup := testutil.ToFloat64(globalManager.commandsDuplicate)
			failed := testutil.ToFloat64(globalManager.workerFailed.WithLabelValues("remove", "not_found"))
			RecordCommandDuplicate()
			RecordWorkerFailed("remove", "not_found")

			Convey("Then the counters should advance", func() {
				So(testutil.ToFloat64(globalManager.commandsDuplicate)-dup, ShouldEqual, 1.0)
				So(testutil.ToFloat64(globalManager.workerFailed.WithLabelValues("remove", "not_found"))-failed, ShouldEqual, 1.0)
			})
		})

		Convey("When recording the remaining metrics", func() {
			Convey("Then nothing should panic", func() {
				So(func() {
					RecordSearchLatency("Binary Search", "range", 0.01)
					RecordSnapshotRebuild(0.5, 1700000000)
					RecordCommandSubmitted()
					RecordCommandRateLimited()
					UpdateQueueCapacity(100)
					UpdateQueueSize(1, 0)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					RecordWorkerApplied("add", 0.1)
					RecordErrorByComponent("repository", "not_found")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(8)
					UpdateSystemGCCount(3)
					RecordSystemGCPauseTime(0.4)
					RecordMonitorSample("memory")
					RecordComparisonPhase("Quick Sort", "Linear Search", "add", 2.5)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestWriteText(t *testing.T) {
	Convey("Given recorded metrics", t, func() {
		UpdateEntityCount(7)

		Convey("When writing the registry as text", func() {
			var buf bytes.Buffer
			err := WriteText(&buf)

			Convey("Then it should contain the exposition format", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "# TYPE ladder_leaderboard_entities gauge")
				So(buf.String(), ShouldContainSubstring, "ladder_leaderboard_entities 7")
			})
		})

		Convey("When getting the registry", func() {
			Convey("Then it should be the custom registry", func() {
				So(GetRegistry(), ShouldEqual, customRegistry)
			})
		})
	})
}
