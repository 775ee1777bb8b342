// Package cache wraps Redis for the stats report cache and the scheduler job lock.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss is returned by GetJSON when the key does not exist
	ErrCacheMiss = errors.New("cache miss")
	// ErrCacheKeyEmpty is returned for an empty key
	ErrCacheKeyEmpty = errors.New("cache key is empty")
)

// unlockScript deletes the lock only while it still belongs to the caller
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Client is a thin JSON cache and lock over a redis connection
type Client struct {
	rdb    *redis.Client
	prefix string
}

// New parses a redis:// URL. Keys are namespaced with prefix.
func New(url, prefix string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Client{rdb: redis.NewClient(opts), prefix: prefix}, nil
}

// Ping checks that redis is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the connection pool
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Key returns the namespaced form of key
func (c *Client) Key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// GetJSON decodes the value of key into v
func (c *Client) GetJSON(ctx context.Context, key string, v interface{}) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}
	data, err := c.rdb.Get(ctx, c.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SetJSON stores v under key for ttl
func (c *Client) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.rdb.Set(ctx, c.Key(key), data, ttl).Err()
}

// TryLock takes the named lock for owner unless someone else holds it
func (c *Client) TryLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	if name == "" {
		return false, ErrCacheKeyEmpty
	}
	return c.rdb.SetNX(ctx, c.lockKey(name), owner, ttl).Result()
}

// Unlock releases the named lock if owner still holds it
func (c *Client) Unlock(ctx context.Context, name, owner string) error {
	return unlockScript.Run(ctx, c.rdb, []string{c.lockKey(name)}, owner).Err()
}

func (c *Client) lockKey(name string) string {
	return c.Key("lock:" + name)
}
