package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/LJTian/BBBNews/internal/collector"
	"github.com/redis/go-redis/v9"
)

const (
	// NewsKey 最新聚合结果使用的唯一缓存 key
	NewsKey = "news"
	// NewsTTL 缓存 5 分钟
	NewsTTL = 300 * time.Second

	redisKeyPrefix = "bbb:"
)

// Cache 只做读优化，过期或未命中返回 false，不视为错误
type Cache interface {
	Get(ctx context.Context, key string) ([]collector.NewsItem, bool)
	Set(ctx context.Context, key string, items []collector.NewsItem) error
}

// New 配置了 Redis 地址时用 Redis，否则退回进程内缓存
func New(redisAddr string, ttl time.Duration) Cache {
	if redisAddr == "" {
		return NewMemoryCache(ttl)
	}
	return NewRedisCache(redisAddr, ttl)
}

type RedisCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis ping failed", "addr", addr, "err", err)
	}

	return &RedisCache{Redis: rdb, TTL: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]collector.NewsItem, bool) {
	bs, err := c.Redis.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("redis get failed", "key", key, "err", err)
		}
		return nil, false
	}

	var cached []collector.NewsItem
	if err := json.Unmarshal(bs, &cached); err != nil {
		return nil, false
	}
	return cached, true
}

func (c *RedisCache) Set(ctx context.Context, key string, items []collector.NewsItem) error {
	bs, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal news: %w", err)
	}
	if err := c.Redis.Set(ctx, redisKeyPrefix+key, bs, c.TTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.Redis.Close()
}
