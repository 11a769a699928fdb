package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quantweb/quantbot/pkg/config"
)

// Client is a thin wrapper around go-redis. A disabled client is still
// valid and turns every cache operation into a no-op, so local runs work
// without a Redis instance.
type Client struct {
	rdb *redis.Client
}

// New connects to Redis when enabled in config; otherwise it returns a
// disabled client.
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Enabled reports whether a live connection is held
func (c *Client) Enabled() bool {
	return c.rdb != nil
}

// Close releases the connection; safe on a disabled client
func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Redis exposes the underlying client
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
