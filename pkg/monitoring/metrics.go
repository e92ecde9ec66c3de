package monitoring

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds every collector exposed on /metrics
var Registry = prometheus.NewRegistry()

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "igfollowers_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "igfollowers_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "igfollowers_active_connections",
			Help: "Number of in-flight HTTP requests",
		},
	)

	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "igfollowers_uploads_total",
			Help: "Total number of export uploads by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	ParseFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "igfollowers_parse_failures_total",
			Help: "Total number of uploaded files that failed to parse",
		},
		[]string{"kind"},
	)

	AnalysesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "igfollowers_analyses_total",
			Help: "Total number of completed analyses",
		},
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "igfollowers_analysis_duration_seconds",
			Help:    "Duration of follower/following comparisons",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	AccountsAnalyzed = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "igfollowers_accounts_analyzed",
			Help:    "Size of the follower and following sets per analysis",
			Buckets: prometheus.ExponentialBuckets(10, 4, 7),
		},
		[]string{"list"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HttpRequestsTotal,
		HttpRequestDuration,
		ActiveConnections,
		UploadsTotal,
		ParseFailuresTotal,
		AnalysesTotal,
		AnalysisDuration,
		AccountsAnalyzed,
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "igfollowers_sessions_active",
				Help: "Number of live in-memory sessions",
			},
			activeSessions,
		),
	)
}

var sessionCount atomic.Pointer[func() int]

// SetSessionCounter sets the function reporting the live session count
func SetSessionCounter(count func() int) {
	sessionCount.Store(&count)
}

func activeSessions() float64 {
	count := sessionCount.Load()
	if count == nil {
		return 0
	}
	return float64((*count)())
}
