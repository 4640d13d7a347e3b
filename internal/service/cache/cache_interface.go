// Package cache defines the score cache contract shared by the in-memory and
// Redis implementations.
package cache

import "github.com/guttosm/basket-service/internal/domain/model"

// Cache stores sustainability scores keyed by an input fingerprint.
type Cache interface {
	Get(key string) (model.SustainabilityScore, bool)
	Set(key string, value model.SustainabilityScore)
	Invalidate(key string)
	Clear()
	Stop()
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// CacheWithMetrics extends Cache with metrics reporting.
type CacheWithMetrics interface {
	Cache
	Metrics() Metrics
}
