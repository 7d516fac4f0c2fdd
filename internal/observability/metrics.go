package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rainfall"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	Queries              *prometheus.CounterVec // labels: mode={daily,climatology,none}, outcome={success,input_error,upstream_error}
	InputRejections      prometheus.Counter
	ClimatologyFallbacks prometheus.Counter

	// Upstream API metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: api={power,openweather,mapbox}, outcome={success,error,empty}
	UpstreamDuration *prometheus.HistogramVec // labels: api
	BreakerOpen      prometheus.Gauge

	// Geocoding metrics.
	GeocodeCache   *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeEnabled prometheus.Gauge

	EventsPublished *prometheus.CounterVec // labels: outcome={success,error}
	WeatherLookups  *prometheus.CounterVec // labels: outcome={success,not_found,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Rainfall queries by request mode and outcome.",
		}, []string{"mode", "outcome"}),
		InputRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_rejections_total",
			Help:      "Queries rejected before any upstream call.",
		}),
		ClimatologyFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "climatology_fallbacks_total",
			Help:      "Queries answered with monthly climatology instead of daily data.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream API requests by API and outcome.",
		}, []string{"api", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"api"}),
		BreakerOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "power_breaker_open",
			Help:      "1 while the POWER circuit breaker is open.",
		}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Reverse geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when place names are resolved, 0 otherwise.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Query events written to Kafka by outcome.",
		}, []string{"outcome"}),
		WeatherLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_lookups_total",
			Help:      "City weather lookups by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Queries,
		m.InputRejections,
		m.ClimatologyFallbacks,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.BreakerOpen,
		m.GeocodeCache,
		m.GeocodeEnabled,
		m.EventsPublished,
		m.WeatherLookups,
	}
}
