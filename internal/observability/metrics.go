package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// crop advisory service.
type Metrics struct {
	RecommendationRequests prometheus.Counter
	RecommendationDuration prometheus.Histogram
	CropsScored            prometheus.Counter
	CropsAdmitted          prometheus.Histogram

	// Knowledge store metrics, set once at startup.
	StoreCrops        prometheus.Gauge
	StorePriceRecords prometheus.Gauge

	PriceLookups *prometheus.CounterVec // labels: result={hit,miss}

	// External collaborator metrics.
	WeatherRequests    *prometheus.CounterVec // labels: outcome={success,error}
	WeatherAPIDuration prometheus.Histogram
	ExplainRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	ExplainDuration    prometheus.Histogram
	AuditPublishes     *prometheus.CounterVec // labels: outcome={success,error}

	APIRequestDuration *prometheus.HistogramVec // labels: endpoint
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecommendationRequests,
		m.RecommendationDuration,
		m.CropsScored,
		m.CropsAdmitted,
		m.StoreCrops,
		m.StorePriceRecords,
		m.PriceLookups,
		m.WeatherRequests,
		m.WeatherAPIDuration,
		m.ExplainRequests,
		m.ExplainDuration,
		m.AuditPublishes,
		m.APIRequestDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics with no registration to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecommendationRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crop_advisor",
			Name:      "recommendation_requests_total",
			Help:      "Total recommendation generation runs.",
		}),
		RecommendationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crop_advisor",
			Name:      "recommendation_duration_seconds",
			Help:      "Duration of a complete scan-score-rank run.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		CropsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crop_advisor",
			Name:      "crops_scored_total",
			Help:      "Total per-crop suitability evaluations.",
		}),
		CropsAdmitted: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crop_advisor",
			Name:      "crops_admitted",
			Help:      "Crops passing the admission filter per run.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		StoreCrops: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crop_advisor",
			Name:      "store_crops",
			Help:      "Crop facts derived from the ontology at startup.",
		}),
		StorePriceRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crop_advisor",
			Name:      "store_price_records",
			Help:      "Market price records loaded at startup.",
		}),
		PriceLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_advisor",
			Name:      "price_lookups_total",
			Help:      "Average-price resolutions by result.",
		}, []string{"result"}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_advisor",
			Name:      "weather_requests_total",
			Help:      "Weather provider calls by outcome.",
		}, []string{"outcome"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crop_advisor",
			Name:      "weather_api_duration_seconds",
			Help:      "Weather provider round-trip duration.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ExplainRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_advisor",
			Name:      "explain_requests_total",
			Help:      "Explanation enricher calls by outcome.",
		}, []string{"outcome"}),
		ExplainDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crop_advisor",
			Name:      "explain_duration_seconds",
			Help:      "Explanation enricher round-trip duration.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 8, 15},
		}),
		AuditPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_advisor",
			Name:      "audit_publishes_total",
			Help:      "Recommendation audit events by publish outcome.",
		}, []string{"outcome"}),
		APIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crop_advisor",
			Name:      "api_request_duration_seconds",
			Help:      "API request duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
	}
}
