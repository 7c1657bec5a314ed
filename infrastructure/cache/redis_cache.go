package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"comment-insight/infrastructure/configuration"
	"comment-insight/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every read model stored in Redis
const KeyPrefix = "comment-insight:"

// AnalysisCache keeps JSON encoded read models in Redis.
// A nil client disables caching: reads miss and writes are dropped.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAnalysisCache(client *redis.Client, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{client: client, ttl: ttl}
}

// NewRedisClient connects to the configured Redis. An empty host returns a nil client.
func NewRedisClient(ctx context.Context, cfg configuration.RedisClient) (*redis.Client, error) {
	if cfg.Host == "" {
		logger.GetLogger().Info("Redis cache disabled")
		return nil, nil
	}
	db := 0
	if cfg.DatabaseName != "" {
		if _, err := fmt.Sscanf(cfg.DatabaseName, "%d", &db); err != nil {
			return nil, fmt.Errorf("invalid redis database %q: %w", cfg.DatabaseName, err)
		}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.GetLogger().WithField("addr", client.Options().Addr).Info("Redis connection established")
	return client, nil
}

func (c *AnalysisCache) enabled() bool {
	return c != nil && c.client != nil
}

// Get decodes the value stored under key into dest and reports whether it was present
func (c *AnalysisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value as JSON. A zero ttl falls back to the cache default.
func (c *AnalysisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, KeyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Invalidate removes every key under KeyPrefix
func (c *AnalysisCache) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *AnalysisCache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.client.Close()
}
