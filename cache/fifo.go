package cache

import (
	"container/list"
	"context"
	"sync"
)

// DefaultEvictionSize bounds FIFO and LRU caches when no size is given.
const DefaultEvictionSize = 1024

// FIFO bounds its delegate by insertion order. Every Put records the key,
// and once more than size keys are recorded the oldest is removed from the
// delegate. Re-putting a key records it again.
type FIFO struct {
	delegate Cache
	size     int

	mu    sync.Mutex
	queue *list.List
}

// NewFIFO wraps delegate. A size below one falls back to DefaultEvictionSize.
func NewFIFO(delegate Cache, size int) *FIFO {
	if size < 1 {
		size = DefaultEvictionSize
	}
	return &FIFO{
		delegate: delegate,
		size:     size,
		queue:    list.New(),
	}
}

func (f *FIFO) ID() string {
	return f.delegate.ID()
}

func (f *FIFO) Size() int {
	return f.delegate.Size()
}

func (f *FIFO) Get(ctx context.Context, key any) (any, bool, error) {
	return f.delegate.Get(ctx, key)
}

func (f *FIFO) Put(ctx context.Context, key, value any) error {
	if err := f.delegate.Put(ctx, key, value); err != nil {
		return err
	}

	f.mu.Lock()
	f.queue.PushBack(key)
	var (
		oldest  any
		overrun bool
	)
	if f.queue.Len() > f.size {
		oldest, overrun = f.queue.Remove(f.queue.Front()), true
	}
	f.mu.Unlock()

	if overrun {
		_, _, err := f.delegate.Remove(ctx, oldest)
		return err
	}
	return nil
}

func (f *FIFO) Remove(ctx context.Context, key any) (any, bool, error) {
	return f.delegate.Remove(ctx, key)
}

func (f *FIFO) Clear(ctx context.Context) error {
	f.mu.Lock()
	f.queue.Init()
	f.mu.Unlock()
	return f.delegate.Clear(ctx)
}
