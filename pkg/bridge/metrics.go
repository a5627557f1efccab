package bridge

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution outcomes recorded in navbridge_resolutions_total.
const (
	outcomeDelivered = "delivered"
	outcomeDropped   = "dropped"
	outcomeNotFound  = "not_found"
	outcomeError     = "error"
	outcomeStale     = "stale"
)

// Metrics holds the Prometheus collectors for navigation bridges.
type Metrics struct {
	intentsTotal       *prometheus.CounterVec
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration prometheus.Histogram
	inflight           prometheus.Gauge
}

// NewMetrics registers the bridge collectors with reg. A nil reg creates
// unregistered collectors.
//
// Metrics collected:
//   - navbridge_intents_total: navigation intents by decision
//   - navbridge_resolutions_total: resolutions by outcome
//   - navbridge_resolution_duration_seconds: time to resolve an intercepted URL
//   - navbridge_resolutions_inflight: resolutions currently running
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		intentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navbridge",
			Name:      "intents_total",
			Help:      "Total number of navigation intents by decision",
		}, []string{"decision"}),

		resolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navbridge",
			Name:      "resolutions_total",
			Help:      "Total number of route resolutions by outcome",
		}, []string{"outcome"}),

		resolutionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "navbridge",
			Name:      "resolution_duration_seconds",
			Help:      "Route resolution duration in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),

		inflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "navbridge",
			Name:      "resolutions_inflight",
			Help:      "Number of route resolutions currently running",
		}),
	}
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the collectors registered with
// prometheus.DefaultRegisterer. They are created on first use and shared
// by every bridge that is not given its own.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}
