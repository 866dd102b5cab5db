package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommendation assembly pipeline, by kind (user|content)
	RecommendLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recommend_latency_seconds",
		Help:    "Latency of recommendation assembly",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// Total number of recommendation responses, by kind and outcome
	RecommendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommend_requests_total",
		Help: "Total number of recommendation requests by kind and outcome",
	}, []string{"kind", "outcome"})

	StoreQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "movie_store_queries_total",
		Help: "Queries issued against the movie store by query and status",
	}, []string{"query", "status"})

	MissingMetadata = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommend_missing_metadata_total",
		Help: "Recommended titles served from a stub because the store had no row",
	})

	RatingFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommend_rating_fallbacks_total",
		Help: "Titles served with the default average rating",
	})

	IndexEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "recommend_index_entries",
		Help: "Number of keys in each precomputed recommendation index",
	}, []string{"index"})

	// 0 = closed, 1 = half-open, 2 = open
	StoreBreakerState = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "movie_store_breaker_state",
		Help: "Circuit breaker state of the movie store",
	})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendRequests,
		StoreQueries,
		MissingMetadata,
		RatingFallbacks,
		IndexEntries,
		StoreBreakerState,
	)
}
