package storage

import (
	"context"
	"sync"
	"time"

	"github.com/LJTian/BBBNews/internal/collector"
)

type memoryEntry struct {
	items     []collector.NewsItem
	expiresAt time.Time
}

// MemoryCache 进程内 TTL 缓存，读取时惰性淘汰过期条目
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]collector.NewsItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return append([]collector.NewsItem(nil), e.items...), true
}

func (c *MemoryCache) Set(_ context.Context, key string, items []collector.NewsItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = memoryEntry{
		items:     append([]collector.NewsItem(nil), items...),
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}
