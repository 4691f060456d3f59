package cache

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = time.Minute

type MemoryCache struct {
	data     map[string]*cacheItem
	mu       sync.RWMutex
	stopCh   chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	mc := &MemoryCache{
		data:   make(map[string]*cacheItem),
		stopCh: make(chan struct{}),
		now:    time.Now,
	}

	go mc.cleanupExpired()

	return mc
}

func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	item, ok := mc.live(key)
	if !ok {
		return nil, ErrNotFound
	}

	return cloneBytes(item.value), nil
}

func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.data[key] = &cacheItem{
		value:     cloneBytes(value),
		expiresAt: mc.now().Add(ttl),
	}

	return nil
}

func (mc *MemoryCache) Take(ctx context.Context, key string) ([]byte, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	item, ok := mc.live(key)
	delete(mc.data, key)
	if !ok {
		return nil, ErrNotFound
	}

	return item.value, nil
}

func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	delete(mc.data, key)
	return nil
}

func (mc *MemoryCache) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (mc *MemoryCache) Close() error {
	mc.stopOnce.Do(func() { close(mc.stopCh) })
	return nil
}

// live must be called with mu held.
func (mc *MemoryCache) live(key string) (*cacheItem, bool) {
	item, exists := mc.data[key]
	if !exists || mc.now().After(item.expiresAt) {
		return nil, false
	}
	return item, true
}

func (mc *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.cleanup()
		case <-mc.stopCh:
			return
		}
	}
}

func (mc *MemoryCache) cleanup() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now()
	for key, item := range mc.data {
		if now.After(item.expiresAt) {
			delete(mc.data, key)
		}
	}
}

func cloneBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
