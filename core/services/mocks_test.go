package services

import (
	"context"
	"sync"
	"time"

	"icons-api/core/domain"
	"icons-api/core/interfaces"
)

// mockIconFinder is a mock implementation of the IconFinder interface
type mockIconFinder struct {
	mu          sync.Mutex
	calls       []string
	getIconFunc func(ctx context.Context, host string) (*domain.IconResult, error)
}

func (m *mockIconFinder) GetIcon(ctx context.Context, host string) (*domain.IconResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, host)
	m.mu.Unlock()

	if m.getIconFunc != nil {
		return m.getIconFunc(ctx, host)
	}
	return nil, nil
}

func (m *mockIconFinder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mapCache is a minimal in-memory Cache that records TTLs
type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
	ttls  map[string]time.Duration
	err   error
}

func newMapCache() *mapCache {
	return &mapCache{
		items: make(map[string][]byte),
		ttls:  make(map[string]time.Duration),
	}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	v, ok := c.items[key]
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.items[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	delete(c.ttls, key)
	return nil
}
