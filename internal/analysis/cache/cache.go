// Package cache memoizes domain-model extraction results in Redis.
//
// The cache key is a digest over the project and the exact requirement set,
// so any change to the inputs naturally misses and recomputes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"reqforge/internal/analysis/metrics"
	"reqforge/internal/analysis/models"
)

const keyPrefix = "analysis:model:"

// ModelCache stores extracted domain models.
type ModelCache interface {
	Get(ctx context.Context, key string) (*models.DomainModel, error)
	Set(ctx context.Context, key string, model *models.DomainModel) error
}

// Key derives the cache key for a project's requirement set. The digest
// covers the full serialized content of each requirement, so editing any
// field produces a different key. Requirement order does not matter.
func Key(projectID string, requirements []models.Requirement) string {
	sorted := make([]models.Requirement, len(requirements))
	copy(sorted, requirements)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	h := sha256.New()
	h.Write([]byte(projectID))
	for _, r := range sorted {
		raw, _ := json.Marshal(r)
		h.Write([]byte{'|'})
		h.Write(raw)
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// RedisCache is the production cache.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

// Option configures the cache.
type Option func(*RedisCache)

// WithMetrics records hit and miss counts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *RedisCache) {
		c.metrics = m
	}
}

// NewRedis constructs a Redis-backed model cache.
func NewRedis(client *redis.Client, ttl time.Duration, opts ...Option) *RedisCache {
	c := &RedisCache{client: client, ttl: ttl}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached model, or nil on a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (*models.DomainModel, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.RecordCacheMiss()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached model: %w", err)
	}
	var model models.DomainModel
	if err := json.Unmarshal(raw, &model); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		c.metrics.RecordCacheMiss()
		return nil, nil
	}
	c.metrics.RecordCacheHit()
	return &model, nil
}

// Set stores the model with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, model *models.DomainModel) error {
	raw, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("marshal model for cache: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached model: %w", err)
	}
	return nil
}

// NoopCache always misses. Used when Redis is not configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*models.DomainModel, error) { return nil, nil }

func (NoopCache) Set(context.Context, string, *models.DomainModel) error { return nil }
