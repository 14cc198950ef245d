package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it uses the recommender namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "rarepour")
				So(manager.subsystem, ShouldEqual, "recommender")
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("festival"),
				WithSubsystem("picker"),
				WithMetricPrefix("v2"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.recommendationRequests.Inc()

			Convey("Then metric names carry the namespace, subsystem and prefix", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() == "festival_picker_v2_requests_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
			})
		})

		Convey("When passing empty or invalid values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithMetricPrefix(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithRefreshInterval(-time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "rarepour")
				So(manager.subsystem, ShouldEqual, "recommender")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording a request with no results", func() {
			before := testutil.ToFloat64(globalManager.recommendationsEmpty)
			RecordRecommendationRequest(0, 1.5)

			Convey("Then the empty counter moves", func() {
				So(testutil.ToFloat64(globalManager.recommendationsEmpty), ShouldEqual, before+1)
			})
		})

		Convey("When recording price matches", func() {
			before := testutil.ToFloat64(globalManager.priceMatches.WithLabelValues(MatchFuzzy))
			RecordPriceMatch(MatchFuzzy)
			RecordPriceMatch(MatchExact)

			Convey("Then only the matching label increments", func() {
				So(testutil.ToFloat64(globalManager.priceMatches.WithLabelValues(MatchFuzzy)), ShouldEqual, before+1)
			})
		})

		Convey("When a snapshot is published", func() {
			at := time.Date(2025, 5, 2, 12, 0, 0, 0, time.UTC)
			RecordSnapshotRefresh(12, at)
			UpdateSnapshotSizes(10, 3, 40, 2)

			Convey("Then the gauges describe it", func() {
				So(testutil.ToFloat64(globalManager.snapshotLastUnix), ShouldEqual, float64(at.Unix()))
				So(testutil.ToFloat64(globalManager.snapshotOpenings), ShouldEqual, 10)
				So(testutil.ToFloat64(globalManager.snapshotMasterClasses), ShouldEqual, 2)
			})
		})

		Convey("When the registry is gathered", func() {
			RecordHTTPRequest("/api/next-opening", "GET", "200")
			families, err := GetRegistry().Gather()

			Convey("Then the recommender families are exposed", func() {
				So(err, ShouldBeNil)
				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
				}
				joined := strings.Join(names, ",")
				So(joined, ShouldContainSubstring, "rarepour_recommender_http_requests_total")
				So(joined, ShouldContainSubstring, "rarepour_recommender_snapshot_last_unix")
			})

			Convey("And system gauges use the default sampling interval", func() {
				So(SystemRefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestDisabledManager(t *testing.T) {
	Convey("Given a disabled global manager", t, func() {
		saved := globalManager
		registry := prometheus.NewRegistry()
		globalManager = NewManager(WithMetricsEnabled(false), WithPrometheusRegistry(registry))
		Reset(func() { globalManager = saved })

		Convey("When recording metrics", func() {
			RecordRecommendationRequest(0, 1)
			RecordSnapshotRefreshError()

			Convey("Then nothing is counted", func() {
				So(testutil.ToFloat64(globalManager.recommendationRequests), ShouldEqual, 0)
				So(testutil.ToFloat64(globalManager.snapshotRefreshErrors), ShouldEqual, 0)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			for i := 0; i < 10; i++ {
				go func() {
					for j := 0; j < 100; j++ {
						RecordRecommendationRequest(j%5, float64(j))
						RecordCandidatesScored(j)
						RecordPriceMatch(MatchMiss)
						RecordHTTPRequest("/test", "GET", "200")
					}
					done <- true
				}()
			}

			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(true, ShouldBeTrue)
			})
		})
	})
}
