package fdc

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"lg/nutrition-go-api/internal/logger"
	"lg/nutrition-go-api/internal/metrics"
	"lg/nutrition-go-api/internal/nutrition"
)

const cacheKeyPrefix = "fdc:lookup:"

// CachedLookup is a Redis read-through cache in front of another FoodLookup.
// Redis failures are logged and the lookup goes straight to next.
type CachedLookup struct {
	next FoodLookup
	rdb  redis.Cmdable
	ttl  time.Duration
	log  logger.Logger
}

func NewCachedLookup(next FoodLookup, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedLookup {
	return &CachedLookup{next: next, rdb: rdb, ttl: ttl, log: log}
}

// CacheKey folds case and whitespace so "Greek  Yogurt" and "greek yogurt"
// share an entry.
func CacheKey(query string) string {
	return cacheKeyPrefix + strings.ToLower(strings.Join(strings.Fields(query), " "))
}

func (c *CachedLookup) Lookup(ctx context.Context, query string) ([]nutrition.RawFood, error) {
	key := CacheKey(query)
	fields := map[string]interface{}{"key": key}

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var foods []nutrition.RawFood
		jsonErr := json.Unmarshal(data, &foods)
		if jsonErr == nil {
			metrics.FoodCacheResults.WithLabelValues("hit").Inc()
			return foods, nil
		}
		metrics.FoodCacheResults.WithLabelValues("error").Inc()
		c.log.WithError(jsonErr).Warn("discarding unreadable cache entry", fields)
	case errors.Is(err, redis.Nil):
		metrics.FoodCacheResults.WithLabelValues("miss").Inc()
	default:
		metrics.FoodCacheResults.WithLabelValues("error").Inc()
		c.log.WithError(err).Warn("cache read failed", fields)
	}

	foods, err := c.next.Lookup(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(foods) == 0 {
		return foods, nil
	}

	encoded, err := json.Marshal(foods)
	if err != nil {
		c.log.WithError(err).Warn("cache encode failed", fields)
		return foods, nil
	}
	if err := c.rdb.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("cache write failed", fields)
	}
	return foods, nil
}
