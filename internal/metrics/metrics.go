// Package metrics exposes Prometheus collectors for the resolution
// service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	sourceLookupsTotal       *prometheus.CounterVec
	raceWinsTotal            *prometheus.CounterVec
	waveDurationSeconds      *prometheus.HistogramVec
	rateLimitDelaysSeconds   *prometheus.HistogramVec
	httpRequestsTotal        *prometheus.CounterVec
	httpRequestDurationSecs  *prometheus.HistogramVec
	verificationsTotal       *prometheus.CounterVec
	inflightOutboundRequests prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		sourceLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paperhound_source_lookups_total",
				Help: "Total source lookups, labeled by source, capability and outcome.",
			},
			[]string{"source", "capability", "outcome"},
		)

		raceWinsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paperhound_race_wins_total",
				Help: "Total PDF race wins, labeled by winning source.",
			},
			[]string{"source"},
		)

		waveDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paperhound_metadata_wave_duration_seconds",
				Help:    "Histogram of metadata wave durations, labeled by wave.",
				Buckets: []float64{0.1, 0.5, 1, 2, 3, 4, 6, 10},
			},
			[]string{"wave"},
		)

		rateLimitDelaysSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paperhound_rate_limit_delays_seconds",
				Help:    "Histogram of per-source rate limit wait durations.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"source"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paperhound_http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSecs = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paperhound_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route"},
		)

		verificationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paperhound_pdf_verifications_total",
				Help: "Total PDF link verifications, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		inflightOutboundRequests = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "paperhound_outbound_inflight_requests",
				Help: "Number of outbound provider requests currently in flight.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveLookup increments the source lookup counter.
func ObserveLookup(source, capability, outcome string) {
	Init()
	sourceLookupsTotal.WithLabelValues(source, capability, outcome).Inc()
}

// ObserveRaceWin increments the race winner counter for source.
func ObserveRaceWin(source string) {
	Init()
	raceWinsTotal.WithLabelValues(source).Inc()
}

// ObserveWave records the duration of one metadata wave.
func ObserveWave(wave string, duration time.Duration) {
	Init()
	waveDurationSeconds.WithLabelValues(wave).Observe(duration.Seconds())
}

// ObserveRateLimitDelay records the duration of a rate limit wait.
func ObserveRateLimitDelay(source string, duration time.Duration) {
	Init()
	rateLimitDelaysSeconds.WithLabelValues(source).Observe(duration.Seconds())
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSecs.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveVerification increments the verification counter.
func ObserveVerification(outcome string) {
	Init()
	verificationsTotal.WithLabelValues(outcome).Inc()
}

// IncInflight increments the in-flight outbound request gauge.
func IncInflight() {
	Init()
	inflightOutboundRequests.Inc()
}

// DecInflight decrements the in-flight outbound request gauge.
func DecInflight() {
	Init()
	inflightOutboundRequests.Dec()
}
