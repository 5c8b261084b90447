package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service metrics. A dedicated registry keeps tests
// free of global registration clashes.
var Registry = prometheus.NewRegistry()

var (
	// Renders counts render attempts by result: ok, parse_error,
	// fetch_error, invalid.
	Renders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beerxml",
		Name:      "renders_total",
		Help:      "Recipe render attempts by result.",
	}, []string{"result"})

	// CacheLookups counts fragment cache lookups by outcome: hit, miss,
	// error, bypass.
	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beerxml",
		Name:      "cache_lookups_total",
		Help:      "Rendered fragment cache lookups by outcome.",
	}, []string{"outcome"})

	// FetchDuration observes document download latency.
	FetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "beerxml",
		Name:      "fetch_duration_seconds",
		Help:      "BeerXML document download latency.",
		Buckets:   prometheus.DefBuckets,
	})

	// WarmJobs counts cache warming jobs by state: enqueued, done, failed.
	WarmJobs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beerxml",
		Name:      "warm_jobs_total",
		Help:      "Cache warming jobs by state.",
	}, []string{"state"})

	// WarmWorkers tracks the current warming worker count.
	WarmWorkers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "beerxml",
		Name:      "warm_workers",
		Help:      "Current number of cache warming workers.",
	})
)

func init() {
	Registry.MustRegister(
		Renders,
		CacheLookups,
		FetchDuration,
		WarmJobs,
		WarmWorkers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// MetricsHandler serves Registry in the Prometheus exposition format.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
