// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is safe to use through a nil pointer; every method is then a
// no-op.
type Metrics struct {
	RunsTotal         *prometheus.CounterVec
	RunDuration       *prometheus.HistogramVec
	SearchGenerations *prometheus.HistogramVec
	SearchFaults      *prometheus.CounterVec
	CacheRequests     *prometheus.CounterVec
	RatingLookups     *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
}

// New registers the collectors with reg. Call it once per registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranker_runs_total",
				Help: "Ranking runs by kind and outcome",
			},
			[]string{"kind", "status"},
		),
		RunDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ranker_run_duration_seconds",
				Help:    "Wall time of complete ranking runs",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
			},
			[]string{"kind"},
		),
		SearchGenerations: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ranker_search_generations",
				Help:    "Generations completed per evolutionary search",
				Buckets: []float64{0, 1, 5, 10, 20, 30, 50},
			},
			[]string{"mode"},
		),
		SearchFaults: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranker_search_faults_total",
				Help: "Searches stopped early by a generation fault",
			},
			[]string{"mode"},
		),
		CacheRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranker_cache_requests_total",
				Help: "Sub-ranking cache lookups by result",
			},
			[]string{"result"},
		),
		RatingLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranker_rating_lookups_total",
				Help: "Supplier rating lookups by result",
			},
			[]string{"result"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranker_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}
}

func (m *Metrics) ObserveRun(kind, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(kind, status).Inc()
	if status == "success" {
		m.RunDuration.WithLabelValues(kind).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveSearch(mode string, generations int, aborted bool) {
	if m == nil {
		return
	}
	m.SearchGenerations.WithLabelValues(mode).Observe(float64(generations))
	if aborted {
		m.SearchFaults.WithLabelValues(mode).Inc()
	}
}

func (m *Metrics) CacheResult(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) RatingResult(result string) {
	if m == nil {
		return
	}
	m.RatingLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) HTTPRequest(route string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, httpCode(code)).Inc()
}

func httpCode(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
