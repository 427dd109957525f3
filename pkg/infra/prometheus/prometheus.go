package prometheus

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		1, 5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	ToolExecutionsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolhub_tool_executions_total",
			Help: "Tool invocations handled by a tool server",
		},
		[]string{"server", "tool", "status"},
	)

	ToolExecutionDuration = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "toolhub_tool_execution_duration_ms",
			Help:    "Tool execution latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"server", "tool"},
	)

	OracleCallsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolhub_oracle_calls_total",
			Help: "Language model calls made by the aggregator",
		},
		[]string{"provider", "call", "outcome"},
	)

	OracleTokensTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolhub_oracle_tokens_total",
			Help: "Tokens reported by the language model provider",
		},
		[]string{"provider", "kind"},
	)

	CatalogFetchesTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolhub_catalog_fetches_total",
			Help: "Tool catalog fetches from tool servers during ask",
		},
		[]string{"server", "outcome"},
	)

	HTTPRequestsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolhub_http_requests_total",
			Help: "HTTP requests served, by role, route and status class",
		},
		[]string{"service", "method", "route", "status"},
	)

	HTTPRequestDuration = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "toolhub_http_request_duration_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"service", "route"},
	)
)

var initOnce sync.Once

// Initialize registers the process collector and makes the toolhub
// registry the default gatherer. Safe to call more than once.
func Initialize() {
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
		prometheus.DefaultRegisterer = registry
		prometheus.DefaultGatherer = registry
	})
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func Gatherer() prometheus.Gatherer {
	return registry
}
