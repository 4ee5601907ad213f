package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process cache backend. Suitable for single-node CLI use
// and as a fallback when no Redis is configured.
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates an in-memory cache. Expired entries are swept every
// cleanupInterval.
func NewMemory(defaultTTL, cleanupInterval time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Hour
	}
	return &Memory{cache: gocache.New(defaultTTL, cleanupInterval)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	if v, ok := m.cache.Get(key); ok {
		return v.([]byte), true
	}
	return nil, false
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.cache.Set(key, value, ttl)
	return nil
}

func (m *Memory) Purge(_ context.Context) error {
	m.cache.Flush()
	return nil
}

func (m *Memory) Entries(_ context.Context) int {
	return m.cache.ItemCount()
}

func (m *Memory) Close() error { return nil }
