package bredis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key does not exist
var ErrCacheMiss = errors.New("cache miss")

// Client wraps redis client
type Client struct {
	*redis.Client
	keyPrefix string
}

// New creates a new Redis client and checks the connection
func New(ctx context.Context, addr, password string, db int, keyPrefix string) (*Client, error) {
	client := &Client{
		Client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		keyPrefix: keyPrefix,
	}

	if err := client.Ping(ctx).Err(); err != nil {
		client.Client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return client, nil
}

func (c *Client) key(k string) string {
	if c.keyPrefix == "" {
		return k
	}
	return fmt.Sprintf("%s:%s", c.keyPrefix, k)
}

// SetJSON stores a value as JSON with expiration
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.key(key), data, ttl).Err()
}

// GetJSON retrieves a value and unmarshals into dest
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.Client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// ============ Rate Limiting ============

// RateLimitResult holds rate limit check result
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// CheckRateLimit counts a hit for identifier in a fixed window. Redis
// failures let the request through.
func (c *Client) CheckRateLimit(ctx context.Context, identifier string, limit int64, window time.Duration) *RateLimitResult {
	key := c.key("rl:" + identifier)

	count, err := c.Client.Incr(ctx, key).Result()
	if err != nil {
		return &RateLimitResult{Allowed: true, Remaining: limit}
	}
	if count == 1 {
		_ = c.Client.Expire(ctx, key, window).Err()
	}

	if count > limit {
		return &RateLimitResult{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: c.Client.TTL(ctx, key).Val(),
		}
	}

	return &RateLimitResult{
		Allowed:   true,
		Remaining: limit - count,
	}
}
