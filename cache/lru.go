package cache

import (
	"context"
	"sync"

	"github.com/goliatone/go-query-cache/internal/cacheinfra"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// LRU bounds its delegate by access order. Puts and Gets of a tracked key
// make it the most recent; when more than size keys are tracked after a
// Put, the least recently used one is removed from the delegate.
//
// Keys are tracked by their cacheinfra.KeyString form, so equal fingerprints
// built separately share one slot.
type LRU struct {
	delegate Cache
	size     int

	mu     sync.Mutex
	order  *simplelru.LRU[string, any]
	eldest []any
}

// NewLRU wraps delegate. A size below one falls back to DefaultEvictionSize.
func NewLRU(delegate Cache, size int) *LRU {
	if size < 1 {
		size = DefaultEvictionSize
	}
	l := &LRU{delegate: delegate, size: size}
	// NewLRU only fails for a non-positive size.
	l.order, _ = simplelru.NewLRU[string, any](size, l.onEvict)
	return l
}

// onEvict runs with mu held, for Add overflow as well as Purge.
func (l *LRU) onEvict(_ string, key any) {
	l.eldest = append(l.eldest, key)
}

func (l *LRU) ID() string {
	return l.delegate.ID()
}

func (l *LRU) Size() int {
	return l.delegate.Size()
}

// Tracked returns the number of keys in the access order.
func (l *LRU) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order.Len()
}

// Get refreshes the recency of a tracked key. Untracked keys are not added.
func (l *LRU) Get(ctx context.Context, key any) (any, bool, error) {
	l.mu.Lock()
	l.order.Get(cacheinfra.KeyString(key))
	l.mu.Unlock()
	return l.delegate.Get(ctx, key)
}

func (l *LRU) Put(ctx context.Context, key, value any) error {
	if err := l.delegate.Put(ctx, key, value); err != nil {
		return err
	}

	l.mu.Lock()
	l.order.Add(cacheinfra.KeyString(key), key)
	evicted := l.eldest
	l.eldest = nil
	l.mu.Unlock()

	for _, eldest := range evicted {
		if _, _, err := l.delegate.Remove(ctx, eldest); err != nil {
			return err
		}
	}
	return nil
}

// Remove delegates only; the key stays tracked until it ages out.
func (l *LRU) Remove(ctx context.Context, key any) (any, bool, error) {
	return l.delegate.Remove(ctx, key)
}

func (l *LRU) Clear(ctx context.Context) error {
	l.mu.Lock()
	l.order.Purge()
	l.eldest = nil
	l.mu.Unlock()
	return l.delegate.Clear(ctx)
}
