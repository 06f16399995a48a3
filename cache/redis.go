// Package cache keeps recently served API responses in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fullpicture/config"

	"github.com/redis/go-redis/v9"
)

// Config configures the Redis connection and key space
type Config struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// FromConfig builds a cache config from the application config
func FromConfig(cfg config.Config) Config {
	return Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
		Prefix:   "fullpicture",
		TTL:      cfg.CacheTTL,
	}
}

// QueryCache stores JSON responses keyed by endpoint kind and normalized query.
//
// Keys embed a generation number; Bump moves every reader onto a fresh
// generation so that writes which change results (a new comment, an
// ingestion run) never serve stale entries. Old generations expire via TTL.
type QueryCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a QueryCache and verifies connectivity
func New(cfg Config) (*QueryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = config.DefaultCacheTTL
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "fullpicture"
	}
	return &QueryCache{client: client, prefix: prefix, ttl: ttl}, nil
}

// Close closes the underlying Redis client
func (c *QueryCache) Close() error {
	return c.client.Close()
}

// Get decodes the cached value for kind/query into dest and reports whether it was present
func (c *QueryCache) Get(ctx context.Context, kind, query string, dest interface{}) (bool, error) {
	key, err := c.key(ctx, kind, query)
	if err != nil {
		return false, err
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return true, nil
}

// Set stores v for kind/query with the configured TTL
func (c *QueryCache) Set(ctx context.Context, kind, query string, v interface{}) error {
	key, err := c.key(ctx, kind, query)
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Bump invalidates every cached entry
func (c *QueryCache) Bump(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}

func (c *QueryCache) generationKey() string {
	return c.prefix + ":generation"
}

func (c *QueryCache) key(ctx context.Context, kind, query string) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s", c.prefix, gen, Key(kind, query)), nil
}

// Key derives the generation-independent part of a cache key. Queries that
// differ only in case or whitespace share a key.
func Key(kind, query string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	h := sha256.Sum256([]byte(norm))
	return kind + ":" + hex.EncodeToString(h[:])[:16]
}
