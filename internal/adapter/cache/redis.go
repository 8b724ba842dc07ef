package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eslsoft/gradenet/internal/infrastructure/config"
	"github.com/eslsoft/gradenet/internal/repository"
)

// RedisReportCache keeps report payloads as JSON strings under a generation-scoped key.
// Invalidate bumps the generation so stale entries are never read again and expire on their TTL.
type RedisReportCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisReportCache connects to redis and verifies the connection with PING.
func NewRedisReportCache(ctx context.Context, cfg config.CacheConfig) (*RedisReportCache, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	c := &RedisReportCache{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}
	return c, func() { _ = client.Close() }, nil
}

var _ repository.ReportCache = (*RedisReportCache)(nil)

func (c *RedisReportCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return false, err
	}
	raw, err := c.client.Get(ctx, entryKey(c.prefix, gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, key string, value any) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, entryKey(c.prefix, gen, key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *RedisReportCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey(c.prefix)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *RedisReportCache) generation(ctx context.Context) (int64, error) {
	raw, err := c.client.Get(ctx, generationKey(c.prefix)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache generation: %w", err)
	}
	gen, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cache generation %q: %w", raw, err)
	}
	return gen, nil
}

func generationKey(prefix string) string {
	return prefix + "reports:generation"
}

func entryKey(prefix string, gen int64, key string) string {
	return fmt.Sprintf("%sreports:%d:%s", prefix, gen, key)
}
