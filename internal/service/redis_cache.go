package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/guttosm/basket-service/internal/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	redisKeyPrefix = "basket:score:"
	redisOpTimeout = 200 * time.Millisecond
)

// RedisScoreCache shares computed scores between service replicas.
// Redis failures degrade to cache misses and are only logged.
type RedisScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisScoreCache wraps an existing client.
func NewRedisScoreCache(client *redis.Client, ttl time.Duration) *RedisScoreCache {
	return &RedisScoreCache{client: client, ttl: ttl}
}

// NewRedisScoreCacheFromURL parses a redis:// URL and verifies the connection.
func NewRedisScoreCacheFromURL(url string, ttl time.Duration) (*RedisScoreCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisScoreCache(client, ttl), nil
}

// Get returns the cached score for key.
func (r *RedisScoreCache) Get(key string) (model.SustainabilityScore, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheOperation("get", "miss")
		return model.SustainabilityScore{}, false
	}
	if err != nil {
		log.Warn().Err(err).Msg("Redis score cache get failed")
		metrics.RecordCacheOperation("get", "error")
		return model.SustainabilityScore{}, false
	}

	var score model.SustainabilityScore
	if err := json.Unmarshal(data, &score); err != nil {
		metrics.RecordCacheOperation("get", "error")
		return model.SustainabilityScore{}, false
	}
	metrics.RecordCacheOperation("get", "hit")
	return score, true
}

// Set stores the score with the configured TTL.
func (r *RedisScoreCache) Set(key string, value model.SustainabilityScore) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := r.client.Set(ctx, redisKeyPrefix+key, data, r.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis score cache set failed")
		metrics.RecordCacheOperation("set", "error")
		return
	}
	metrics.RecordCacheOperation("set", "success")
}

// Invalidate deletes a single key.
func (r *RedisScoreCache) Invalidate(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis score cache invalidate failed")
		return
	}
	metrics.RecordCacheOperation("invalidate", "success")
}

// Clear deletes every score key written by this cache.
func (r *RedisScoreCache) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn().Err(err).Str("key", iter.Val()).Msg("Redis score cache clear failed")
		}
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Msg("Redis score cache scan failed")
		return
	}
	metrics.RecordCacheOperation("clear", "success")
}

// Stop closes the underlying client.
func (r *RedisScoreCache) Stop() {
	_ = r.client.Close()
}
