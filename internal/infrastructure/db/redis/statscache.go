package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leadline/telecrm-api/internal/core/ports"
)

// StatsCache caches the dashboard payload in Redis, one entry per scope
// (empty scope = admin-wide, otherwise the telecaller's user id).
// Key format: stats:dashboard:<scope>
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a StatsCache wrapping the given Redis client.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached stats for scope, or (nil, nil) on a miss.
func (s *StatsCache) Get(ctx context.Context, scope string) (*ports.DashboardStats, error) {
	raw, err := s.client.Get(ctx, s.key(scope)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("stats cache get: %w", err)
	}

	var stats ports.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		// A corrupt entry reads as a miss; it will be overwritten shortly.
		return nil, nil
	}
	return &stats, nil
}

// Set stores the stats for scope (expires after the configured TTL).
func (s *StatsCache) Set(ctx context.Context, scope string, stats *ports.DashboardStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("stats cache marshal: %w", err)
	}
	return s.client.Set(ctx, s.key(scope), raw, s.ttl).Err()
}

func (s *StatsCache) key(scope string) string {
	if scope == "" {
		scope = "all"
	}
	return "stats:dashboard:" + scope
}
