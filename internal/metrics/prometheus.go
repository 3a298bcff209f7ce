package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Pipeline metrics
	Searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_searches_total",
			Help: "Total number of pipeline searches",
		},
		[]string{"outcome"}, // outcome: ok|no_results|error
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hermes_search_duration_seconds",
			Help:    "Full pipeline duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	// Provider metrics
	ProviderResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_provider_results_total",
			Help: "Total number of product listings returned per provider",
		},
		[]string{"provider"},
	)

	ProviderErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_provider_errors_total",
			Help: "Total number of failed provider searches",
		},
		[]string{"provider"},
	)

	// Sentiment metrics
	SentimentRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_sentiment_requests_total",
			Help: "Total number of per-text sentiment classifications",
		},
		[]string{"status"}, // status: success|error
	)

	// Price tracking metrics
	PriceObservations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hermes_price_observations_total",
			Help: "Total number of price observations appended to history",
		},
	)

	PriceDropAlerts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hermes_price_drop_alerts_total",
			Help: "Total number of price-drop alerts sent",
		},
	)

	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hermes_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"worker"},
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(Searches)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(ProviderResults)
	prometheus.MustRegister(ProviderErrors)
	prometheus.MustRegister(SentimentRequests)
	prometheus.MustRegister(PriceObservations)
	prometheus.MustRegister(PriceDropAlerts)
	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordWorkerExecution records one worker run
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
}
