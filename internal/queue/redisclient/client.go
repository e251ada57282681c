// Package redisclient owns the Redis connection backing the
// booking-confirmation queue.
package redisclient

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client wraps one go-redis client configured for the queue's traffic
// profile: the API does short LPUSH writes, the notifier sits in long
// BRPOP reads.
type Client struct {
	redisdb *redis.Client
}

func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,

		DialTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		// go-redis extends the read deadline by the BRPOP block duration,
		// so this only bounds non-blocking replies
		ReadTimeout: 3 * time.Second,

		// one producer or one consumer per process; a big pool buys nothing
		PoolSize:     4,
		MinIdleConns: 1,
	})

	return &Client{redisdb: redisdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.redisdb.Close()
}

// Raw exposes the underlying client for the queue layer.
func (c *Client) Raw() *redis.Client {
	return c.redisdb
}
