package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ndc_page_duration_seconds",
			Help:    "Page view model build duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"page"},
	)

	PageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ndc_page_total",
			Help: "Total page requests served",
		},
		[]string{"page", "status"},
	)

	StoreQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ndc_store_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"},
	)

	StoreQueryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ndc_store_query_total",
			Help: "Total database queries issued",
		},
		[]string{"operation", "status"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ndc_cache_hits_total",
			Help: "Total view cache hits",
		},
		[]string{"operation"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ndc_cache_misses_total",
			Help: "Total view cache misses",
		},
		[]string{"operation"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ndc_search_results_count",
			Help:    "Result counts per search, by entity type",
			Buckets: []float64{0, 1, 2, 5, 10, 20},
		},
		[]string{"entity"},
	)
)

func Init() {
	prometheus.MustRegister(PageDuration)
	prometheus.MustRegister(PageTotal)
	prometheus.MustRegister(StoreQueryDuration)
	prometheus.MustRegister(StoreQueryTotal)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(SearchResults)
}

// TrackStoreQuery records one database query's duration and status. Intended
// to be deferred with a named error return:
//
//	defer metrics.TrackStoreQuery("list_countries", time.Now(), &err)
func TrackStoreQuery(operation string, start time.Time, err *error) {
	status := "ok"
	if err != nil && *err != nil {
		status = "error"
	}
	StoreQueryTotal.WithLabelValues(operation, status).Inc()
	StoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
