package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arewm/pipegraph/pkg/store/rediscache"
)

// NewGraphCache creates a Redis graph model cache. An empty URL
// disables caching and returns nil.
func NewGraphCache(ctx context.Context, logger *slog.Logger, redisURL string, ttl time.Duration) (*rediscache.Cache, error) {
	if redisURL == "" {
		return nil, nil
	}

	cache, err := rediscache.NewCache(ctx, logger, redisURL, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph cache: %w", err)
	}

	return cache, nil
}
