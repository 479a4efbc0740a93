// Package rediscache caches computed graph models in Redis so repeated
// reads of the same pipeline run revision skip the graph build.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arewm/pipegraph/pkg/graph"
	redis "github.com/redis/go-redis/v9"
)

const DefaultTTL = 10 * time.Minute

// Cache stores graph models keyed by namespace, run name and snapshot
// revision. A revision change naturally misses the old entry, so stale
// models age out via TTL without explicit invalidation.
type Cache struct {
	client redis.UniversalClient
	logger *slog.Logger
	ttl    time.Duration
}

// NewCache connects to Redis at the given URL. A zero ttl falls back
// to DefaultTTL.
func NewCache(ctx context.Context, logger *slog.Logger, redisURL string, ttl time.Duration) (*Cache, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(options)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		client: client,
		logger: logger.With("module", "graph_cache"),
		ttl:    ttl,
	}, nil
}

func cacheKey(namespace, name, revision string) string {
	return fmt.Sprintf("pipegraph:graph:%s:%s:%s", namespace, name, revision)
}

// Model returns the cached graph model for the given run revision, or
// (nil, nil) on a cache miss.
func (c *Cache) Model(ctx context.Context, namespace, name, revision string) (*graph.Model, error) {
	payload, err := c.client.Get(ctx, cacheKey(namespace, name, revision)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read cached graph model: %w", err)
	}

	var model graph.Model
	if err := json.Unmarshal(payload, &model); err != nil {
		// A corrupt entry is treated as a miss so the caller rebuilds.
		c.logger.WarnContext(ctx, "Discarding corrupt cached graph model",
			"namespace", namespace, "name", name, "error", err)

		return nil, nil
	}

	return &model, nil
}

// SaveModel caches a graph model for the given run revision.
func (c *Cache) SaveModel(ctx context.Context, namespace, name, revision string, model *graph.Model) error {
	payload, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("failed to encode graph model: %w", err)
	}

	err = c.client.Set(ctx, cacheKey(namespace, name, revision), payload, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to cache graph model: %w", err)
	}

	return nil
}

// Invalidate drops all cached revisions of a pipeline run.
func (c *Cache) Invalidate(ctx context.Context, namespace, name string) error {
	pattern := fmt.Sprintf("pipegraph:graph:%s:%s:*", namespace, name)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		err := c.client.Del(ctx, iter.Val()).Err()
		if err != nil {
			return fmt.Errorf("failed to invalidate cached graph model: %w", err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached graph models: %w", err)
	}

	return nil
}

// Close closes the Redis connection.
func (c *Cache) Close(ctx context.Context) error {
	err := c.client.Close()
	if err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}
