package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rraj-official/radical-content-analyzer-sub000/pkg/config"
)

// NewRedisClient creates a Redis client and verifies connectivity
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// ResultCache caches finished analysis IDs keyed by source URL, so repeated
// requests for the same video skip the whole pipeline. All failures are
// soft: callers log and continue.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache creates a result cache with the given TTL
func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Key derives a stable cache key from a source URL
func (c *ResultCache) Key(sourceURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(sourceURL)))
	return "analysis:url:" + hex.EncodeToString(sum[:])
}

// Get returns the cached analysis ID for a URL, or "" on miss
func (c *ResultCache) Get(ctx context.Context, sourceURL string) (string, error) {
	if c.client == nil {
		return "", nil
	}
	val, err := c.client.Get(ctx, c.Key(sourceURL)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set stores the analysis ID for a URL
func (c *ResultCache) Set(ctx context.Context, sourceURL, analysisID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, c.Key(sourceURL), analysisID, c.ttl).Err()
}
