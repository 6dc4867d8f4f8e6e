package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"tendly/internal/model"

	"github.com/redis/go-redis/v9"
)

// StatsCache keeps aggregate statistics in Redis so the dashboard endpoint
// does not hit the database on every request. A cache failure is never an
// error for the caller; reads fall through to the store.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func key(countryCode string) string {
	return "tendly:stats:" + countryCode
}

func (c *StatsCache) Get(ctx context.Context, countryCode string) (*model.Statistics, bool) {
	data, err := c.client.Get(ctx, key(countryCode)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("error reading statistics cache", "error", err)
		}
		return nil, false
	}

	var stats model.Statistics
	if err := json.Unmarshal(data, &stats); err != nil {
		slog.Error("error decoding cached statistics", "error", err)
		return nil, false
	}
	return &stats, true
}

func (c *StatsCache) Set(ctx context.Context, countryCode string, stats *model.Statistics) {
	data, err := json.Marshal(stats)
	if err != nil {
		slog.Error("error encoding statistics", "error", err)
		return
	}
	if err := c.client.Set(ctx, key(countryCode), data, c.ttl).Err(); err != nil {
		slog.Error("error writing statistics cache", "error", err)
	}
}
