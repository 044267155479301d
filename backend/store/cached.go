package store

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const cacheStripes = 64

// CachedBackend is a read-through LRU in front of another backend. Only
// present values are cached; absence always goes to the delegate.
//
// A delegate call and the cache update that follows it run under the key's
// stripe lock, so a slow read can never put back a value older than the last
// write.
type CachedBackend struct {
	delegate Backend
	cache    *lru.Cache[string, string]
	stripes  [cacheStripes]sync.Mutex
}

// NewCachedBackend wraps delegate. A size of zero or less returns the
// delegate unchanged.
func NewCachedBackend(delegate Backend, size int) (Backend, error) {
	if size <= 0 {
		return delegate, nil
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create profile cache: %w", err)
	}
	return &CachedBackend{delegate: delegate, cache: cache}, nil
}

func cacheKey(scope, key string) string {
	return scope + "\x00" + key
}

func (c *CachedBackend) lock(ck string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(ck))
	mu := &c.stripes[h.Sum32()%cacheStripes]
	mu.Lock()
	return mu
}

func (c *CachedBackend) Get(ctx context.Context, scope, key string) (string, bool, error) {
	ck := cacheKey(scope, key)
	if v, ok := c.cache.Get(ck); ok {
		return v, true, nil
	}

	mu := c.lock(ck)
	defer mu.Unlock()
	// a write may have filled the entry while we waited
	if v, ok := c.cache.Get(ck); ok {
		return v, true, nil
	}
	v, ok, err := c.delegate.Get(ctx, scope, key)
	if err != nil || !ok {
		return v, ok, err
	}
	c.cache.Add(ck, v)
	return v, true, nil
}

func (c *CachedBackend) Set(ctx context.Context, scope, key, value string) error {
	ck := cacheKey(scope, key)
	mu := c.lock(ck)
	defer mu.Unlock()

	if err := c.delegate.Set(ctx, scope, key, value); err != nil {
		c.cache.Remove(ck)
		return err
	}
	c.cache.Add(ck, value)
	return nil
}
