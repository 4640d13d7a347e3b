// Package metrics provides Prometheus metrics collection for the basket service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine kinds used as label values.
const (
	KindScore        = "score"
	KindCompare      = "compare"
	KindKnapsack     = "knapsack"
	KindSubstitution = "substitution"
	KindRoute        = "route"
	KindAnalysis     = "analysis"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// OptimizationsTotal counts engine runs by kind and outcome.
	OptimizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basket_optimizations_total",
			Help: "Total number of engine runs",
		},
		[]string{"kind", "status"},
	)

	// OptimizationDuration tracks engine run duration by kind.
	OptimizationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "basket_optimization_duration_seconds",
			Help:    "Engine run duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"kind"},
	)

	// BudgetUtilization tracks how much of the budget knapsack selections spend.
	BudgetUtilization = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "basket_budget_utilization_percent",
			Help:    "Share of the budget spent by optimized baskets",
			Buckets: []float64{10, 25, 50, 75, 90, 95, 99, 100},
		},
	)

	// RouteDistance tracks optimized route lengths.
	RouteDistance = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "basket_route_distance_km",
			Help:    "Optimized closed tour length in kilometres",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 250},
		},
	)

	// SubstitutesFound tracks how many substitutes a search returns.
	SubstitutesFound = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "basket_substitutes_found",
			Help:    "Number of substitutes returned per search",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
	)

	// CacheCapacity tracks cache capacity.
	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
	)

	// PanicsTotal counts handler panics turned into 500 responses, by route.
	PanicsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_panics_total",
			Help: "Total number of recovered handler panics",
		},
		[]string{"path"},
	)

	// CircuitBreakerState exposes breaker state per name (0 closed, 1 half-open, 2 open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordOptimization records duration and outcome of an engine run.
func RecordOptimization(kind string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	OptimizationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	OptimizationsTotal.WithLabelValues(kind, status).Inc()
}

// RecordBudgetUtilization records the budget share spent by a selection.
func RecordBudgetUtilization(percent float64) {
	BudgetUtilization.Observe(percent)
}

// RecordRouteDistance records an optimized tour length.
func RecordRouteDistance(km float64) {
	RouteDistance.Observe(km)
}

// RecordSubstitutesFound records the size of a substitute list.
func RecordSubstitutesFound(n int) {
	SubstitutesFound.Observe(float64(n))
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity metrics.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}

// RecordPanic counts a recovered panic on route.
func RecordPanic(route string) {
	PanicsTotal.WithLabelValues(route).Inc()
}

// SetCircuitBreakerState publishes the numeric state of a named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
