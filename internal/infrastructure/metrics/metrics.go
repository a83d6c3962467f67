package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Calculation metrics
	Calculations        *prometheus.CounterVec
	CalculationDuration *prometheus.HistogramVec
	RecordsLoaded       *prometheus.CounterVec
	TransactionsCounted prometheus.Histogram

	// Cache metrics
	CacheLookups *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Calculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relbalance_calculations_total",
				Help: "Total balance calculations by source and status",
			},
			[]string{"source", "status"},
		),
		CalculationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relbalance_calculation_duration_seconds",
				Help:    "Duration of balance calculations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		RecordsLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relbalance_records_loaded_total",
				Help: "Total transaction records loaded from sources",
			},
			[]string{"source"},
		),
		TransactionsCounted: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "relbalance_transactions_counted",
			Help:    "Transactions contributing to a calculated balance",
			Buckets: []float64{0, 1, 10, 100, 1000, 10000, 100000},
		}),

		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relbalance_cache_lookups_total",
				Help: "Balance cache lookups by result",
			},
			[]string{"result"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relbalance_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relbalance_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "relbalance_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
	}
}

// ObserveCalculation implements usecase.MetricsRecorder.
func (m *Metrics) ObserveCalculation(source, status string, duration time.Duration) {
	m.Calculations.WithLabelValues(source, status).Inc()
	m.CalculationDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// ObserveTransactions implements usecase.MetricsRecorder.
func (m *Metrics) ObserveTransactions(source string, loaded, counted int) {
	m.RecordsLoaded.WithLabelValues(source).Add(float64(loaded))
	m.TransactionsCounted.Observe(float64(counted))
}

// ObserveCache implements usecase.MetricsRecorder.
func (m *Metrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
