package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created and enabled", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.namespace, ShouldEqual, "jury")
				So(manager.subsystem, ShouldEqual, "evaluation")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("hack"),
				WithSubsystem("judging"),
				WithMetricPrefix("test"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "hack")
				So(manager.subsystem, ShouldEqual, "judging")
				So(manager.metricPrefix, ShouldEqual, "test")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				So(manager.customLabels["env"], ShouldEqual, "test")
			})

			Convey("Then metric names should carry the prefix", func() {
				manager.cacheHits.Inc()
				n, err := testutil.GatherAndCount(registry, "hack_judging_test_cache_hits_total")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When empty option values are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(0),
				WithCustomLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "jury")
				So(manager.subsystem, ShouldEqual, "evaluation")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
				So(manager.customLabels, ShouldNotBeNil)
			})
		})
	})
}

func TestGlobalRefreshInterval(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("Then the gauge refresh period should be the default", func() {
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When counters are recorded", func() {
			hits := testutil.ToFloat64(globalManager.cacheHits)
			misses := testutil.ToFloat64(globalManager.cacheMisses)
			resets := testutil.ToFloat64(globalManager.storeResets)
			mutations := testutil.ToFloat64(globalManager.mutations.WithLabelValues("score", "upsert"))
			failures := testutil.ToFloat64(globalManager.storeFailures.WithLabelValues("file", "save"))
			cascaded := testutil.ToFloat64(globalManager.cascadedScores)

			RecordCacheHit()
			RecordCacheHit()
			RecordCacheMiss()
			RecordStoreReset()
			RecordMutation("score", "upsert")
			RecordStoreFailure("file", "save")
			RecordCascadedScores(3)
			RecordCascadedScores(0)

			Convey("Then the values should move by the recorded amounts", func() {
				So(testutil.ToFloat64(globalManager.cacheHits), ShouldEqual, hits+2)
				So(testutil.ToFloat64(globalManager.cacheMisses), ShouldEqual, misses+1)
				So(testutil.ToFloat64(globalManager.storeResets), ShouldEqual, resets+1)
				So(testutil.ToFloat64(globalManager.mutations.WithLabelValues("score", "upsert")), ShouldEqual, mutations+1)
				So(testutil.ToFloat64(globalManager.storeFailures.WithLabelValues("file", "save")), ShouldEqual, failures+1)
				So(testutil.ToFloat64(globalManager.cascadedScores), ShouldEqual, cascaded+3)
			})
		})

		Convey("When gauges are updated", func() {
			UpdateEntityCount("project", 7)
			UpdateSubscriberCount(2)
			UpdateSystemGoroutineCount(11)
			UpdateSystemMemoryUsage(4096)

			Convey("Then they should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.entityCount.WithLabelValues("project")), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.notifySubscribers), ShouldEqual, 2)
				So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldEqual, 11)
				So(testutil.ToFloat64(globalManager.systemMemoryUsage), ShouldEqual, 4096)
			})
		})

		Convey("When histograms are observed", func() {
			RecordStoreLoad("memory", 0.4)
			RecordStoreSave("memory", 1.2)
			RecordAggregationLatency(2)
			RecordSystemGCPauseTime(0.1)

			Convey("Then the registry should expose them", func() {
				n, err := testutil.GatherAndCount(GetRegistry(),
					"jury_evaluation_store_load_duration_milliseconds",
					"jury_evaluation_store_save_duration_milliseconds",
					"jury_evaluation_aggregation_duration_milliseconds",
				)
				So(err, ShouldBeNil)
				So(n, ShouldBeGreaterThanOrEqualTo, 3)
			})
		})

		Convey("When the notifier counters are recorded", func() {
			published := testutil.ToFloat64(globalManager.notifyPublished)
			delivered := testutil.ToFloat64(globalManager.notifyDelivered)
			coalesced := testutil.ToFloat64(globalManager.notifyCoalesced)
			panics := testutil.ToFloat64(globalManager.notifyPanics)

			RecordNotifyPublished()
			RecordNotifyDelivered()
			RecordNotifyCoalesced()
			RecordNotifyPanic()

			Convey("Then each should advance by one", func() {
				So(testutil.ToFloat64(globalManager.notifyPublished), ShouldEqual, published+1)
				So(testutil.ToFloat64(globalManager.notifyDelivered), ShouldEqual, delivered+1)
				So(testutil.ToFloat64(globalManager.notifyCoalesced), ShouldEqual, coalesced+1)
				So(testutil.ToFloat64(globalManager.notifyPanics), ShouldEqual, panics+1)
			})
		})
	})
}

func TestSince(t *testing.T) {
	Convey("Given a start time in the past", t, func() {
		start := time.Now().Add(-5 * time.Millisecond)

		Convey("Then Since should report at least the elapsed milliseconds", func() {
			So(Since(start), ShouldBeGreaterThanOrEqualTo, 5.0)
		})
	})
}
