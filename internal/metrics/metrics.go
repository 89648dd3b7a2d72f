package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FoodLookupRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fdc_requests_total",
			Help: "Total number of FoodData Central requests by endpoint",
		},
		[]string{"endpoint"},
	)

	FoodLookupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fdc_request_failures_total",
			Help: "Total number of failed FoodData Central requests",
		},
		[]string{"endpoint", "reason"},
	)

	FoodLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fdc_request_duration_seconds",
			Help:    "Duration of FoodData Central requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	FoodCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "food_cache_results_total",
			Help: "Food lookup cache outcomes (hit, miss, error)",
		},
		[]string{"result"},
	)

	FoodsRanked = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foods_ranked_per_request",
			Help:    "Number of foods scored per rank request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	MalformedNutrients = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "malformed_nutrient_entries_total",
			Help: "Nutrient entries skipped because their amount could not be read",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)
