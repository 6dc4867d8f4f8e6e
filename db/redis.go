package db

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens a Redis client for the short-lived statistics cache
// used by the read API. The URL form is preferred; a bare host:port works
// too.
func ConnectRedis(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
