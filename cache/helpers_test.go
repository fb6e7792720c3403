package cache

import (
	"context"
	"sync"
)

// recordingCache wraps a perpetual store and records removed keys.
type recordingCache struct {
	Cache
	mu      sync.Mutex
	removed []any
	putErr  error
}

func newRecordingCache(id string) *recordingCache {
	return &recordingCache{Cache: NewPerpetual(id)}
}

func (r *recordingCache) Remove(ctx context.Context, key any) (any, bool, error) {
	r.mu.Lock()
	r.removed = append(r.removed, key)
	r.mu.Unlock()
	return r.Cache.Remove(ctx, key)
}

func (r *recordingCache) Put(ctx context.Context, key, value any) error {
	r.mu.Lock()
	err := r.putErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.Cache.Put(ctx, key, value)
}

func (r *recordingCache) failPuts(err error) {
	r.mu.Lock()
	r.putErr = err
	r.mu.Unlock()
}

func (r *recordingCache) removedKeys() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.removed))
	copy(out, r.removed)
	return out
}

func mustGet(ctx context.Context, c Cache, key any) (any, bool) {
	value, found, err := c.Get(ctx, key)
	if err != nil {
		panic(err)
	}
	return value, found
}
