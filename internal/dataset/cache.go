package dataset

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultTTL is how long a loaded dataset is served before it is reloaded.
const DefaultTTL = time.Hour

// LoadFunc reads the value stored at path.
type LoadFunc[T any] func(ctx context.Context, path string) (T, error)

// CacheOption configures a Cache.
type CacheOption func(*cacheOptions)

type cacheOptions struct {
	now    func() time.Time
	logger *slog.Logger
}

// WithClock replaces time.Now, typically with a fake clock in tests.
func WithClock(now func() time.Time) CacheOption {
	return func(o *cacheOptions) { o.now = now }
}

// WithLogger logs cache reloads at debug level.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(o *cacheOptions) { o.logger = logger }
}

type entry[T any] struct {
	value    T
	loadedAt time.Time
}

// Cache holds loaded values per path for ttl. Values are replaced whole on
// reload, so a reader either sees the old value or the new one. Failed loads
// are not cached.
type Cache[T any] struct {
	ttl    time.Duration
	load   LoadFunc[T]
	now    func() time.Time
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]entry[T]
}

// NewCache returns a cache that calls load on a miss or after ttl has
// elapsed. A non-positive ttl falls back to DefaultTTL.
func NewCache[T any](ttl time.Duration, load LoadFunc[T], opts ...CacheOption) *Cache[T] {
	o := cacheOptions{now: time.Now, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[T]{
		ttl:     ttl,
		load:    load,
		now:     o.now,
		logger:  o.logger,
		entries: make(map[string]entry[T]),
	}
}

// Get returns the value for path, loading it when absent or expired.
// Concurrent callers of an expired path wait for a single reload.
func (c *Cache[T]) Get(ctx context.Context, path string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.entries[path]; ok && now.Sub(e.loadedAt) < c.ttl {
		return e.value, nil
	}

	c.logger.Debug("cache miss, loading", "path", path)
	v, err := c.load(ctx, path)
	if err != nil {
		var zero T
		return zero, err
	}
	c.entries[path] = entry[T]{value: v, loadedAt: now}
	return v, nil
}

// Invalidate drops every cached value.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[T])
}
