package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RunsTotal    *prometheus.CounterVec
	RunDuration  *prometheus.HistogramVec
	RunsInFlight prometheus.Gauge

	DerivationsTotal   *prometheus.CounterVec
	DerivationDuration prometheus.Histogram

	SearchRequestsTotal   *prometheus.CounterVec
	SearchRequestDuration prometheus.Histogram

	RecordsPushedTotal *prometheus.CounterVec

	RateLimitWaitsTotal prometheus.Counter
	DuplicatesSkipped   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sketchfab_actor_runs_total",
				Help: "Total number of pipeline invocations",
			},
			[]string{"mode", "status"},
		),
		RunDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sketchfab_actor_run_duration_seconds",
				Help:    "Pipeline invocation duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"mode"},
		),
		RunsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sketchfab_actor_runs_in_flight",
				Help: "Number of invocations currently being processed",
			},
		),

		DerivationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sketchfab_actor_derivations_total",
				Help: "Total number of parameter derivations",
			},
			[]string{"outcome"},
		),
		DerivationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sketchfab_actor_derivation_duration_seconds",
				Help:    "Parameter derivation duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
		),

		SearchRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sketchfab_actor_search_requests_total",
				Help: "Total number of search API requests",
			},
			[]string{"status"},
		),
		SearchRequestDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sketchfab_actor_search_request_duration_seconds",
				Help:    "Search request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
		),

		RecordsPushedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sketchfab_actor_records_pushed_total",
				Help: "Total number of records pushed to the sink",
			},
			[]string{"kind"},
		),

		RateLimitWaitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sketchfab_actor_rate_limit_waits_total",
				Help: "Times the page loop waited for the rate limiter",
			},
		),
		DuplicatesSkipped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sketchfab_actor_duplicates_skipped_total",
				Help: "Result records skipped by cross-page deduplication",
			},
		),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordRun(mode, status string, duration time.Duration) {
	m.RunsTotal.WithLabelValues(mode, status).Inc()
	m.RunDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func (m *Metrics) RecordDerivation(outcome string, duration time.Duration) {
	m.DerivationsTotal.WithLabelValues(outcome).Inc()
	m.DerivationDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordSearch(status string, duration time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(status).Inc()
	m.SearchRequestDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordPush(kind string) {
	m.RecordsPushedTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordRateLimitWait() {
	m.RateLimitWaitsTotal.Inc()
}

func (m *Metrics) RecordDuplicateSkipped() {
	m.DuplicatesSkipped.Inc()
}

func (m *Metrics) IncRunsInFlight() {
	m.RunsInFlight.Inc()
}

func (m *Metrics) DecRunsInFlight() {
	m.RunsInFlight.Dec()
}
