package cache

import (
	"container/list"
	"context"
	"runtime"
	"sync"
	"weak"
)

// DefaultSoftRetention is the number of recently used values a Soft cache
// keeps strongly reachable.
const DefaultSoftRetention = 256

type softBox struct {
	value any
}

// softEntry is what Soft stores in its delegate. The value itself is only
// weakly referenced.
type softEntry struct {
	key any
	ref weak.Pointer[softBox]
}

type reclaimQueue struct {
	mu      sync.Mutex
	entries []*softEntry
}

func (q *reclaimQueue) push(e *softEntry) {
	q.mu.Lock()
	q.entries = append(q.entries, e)
	q.mu.Unlock()
}

func (q *reclaimQueue) drain() []*softEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.entries
	q.entries = nil
	return out
}

// Soft lets the garbage collector reclaim values under memory pressure.
// The most recently used values are pinned in a bounded retention list;
// anything else may be collected, after which its key is dropped from the
// delegate before the next Get, Put, Remove or Size.
type Soft struct {
	delegate  Cache
	retention int

	// mu makes a purge's check-then-remove atomic with respect to Put.
	mu sync.Mutex

	hardMu sync.Mutex
	hard   *list.List // front is most recent

	reclaimed *reclaimQueue
}

// NewSoft wraps delegate. A retention below one falls back to
// DefaultSoftRetention.
func NewSoft(delegate Cache, retention int) *Soft {
	if retention < 1 {
		retention = DefaultSoftRetention
	}
	return &Soft{
		delegate:  delegate,
		retention: retention,
		hard:      list.New(),
		reclaimed: &reclaimQueue{},
	}
}

func (s *Soft) ID() string {
	return s.delegate.ID()
}

func (s *Soft) Size() int {
	s.purge(context.Background())
	return s.delegate.Size()
}

func (s *Soft) Get(ctx context.Context, key any) (any, bool, error) {
	s.purge(ctx)
	raw, found, err := s.delegate.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	entry, ok := raw.(*softEntry)
	if !ok {
		return raw, true, nil
	}
	box := entry.ref.Value()
	if box == nil {
		return nil, false, s.removeIfCurrent(ctx, key, entry)
	}
	s.pin(box)
	return box.value, true, nil
}

func (s *Soft) Put(ctx context.Context, key, value any) error {
	s.purge(ctx)
	box := &softBox{value: value}
	entry := &softEntry{key: key, ref: weak.Make(box)}
	runtime.AddCleanup(box, s.reclaimed.push, entry)
	s.pin(box)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delegate.Put(ctx, key, entry)
}

func (s *Soft) Remove(ctx context.Context, key any) (any, bool, error) {
	s.purge(ctx)
	raw, found, err := s.delegate.Remove(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	entry, ok := raw.(*softEntry)
	if !ok {
		return raw, true, nil
	}
	if box := entry.ref.Value(); box != nil {
		return box.value, true, nil
	}
	return nil, false, nil
}

func (s *Soft) Clear(ctx context.Context) error {
	s.hardMu.Lock()
	s.hard.Init()
	s.hardMu.Unlock()
	s.reclaimed.drain()
	return s.delegate.Clear(ctx)
}

func (s *Soft) pin(box *softBox) {
	s.hardMu.Lock()
	defer s.hardMu.Unlock()
	s.hard.PushFront(box)
	if s.hard.Len() > s.retention {
		s.hard.Remove(s.hard.Back())
	}
}

// purge drops keys whose values were reclaimed. A key is only dropped while
// it still maps to the reclaimed entry, so a newer Put survives.
func (s *Soft) purge(ctx context.Context) {
	for _, e := range s.reclaimed.drain() {
		_ = s.removeIfCurrent(ctx, e.key, e)
	}
}

func (s *Soft) removeIfCurrent(ctx context.Context, key any, e *softEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, found, err := s.delegate.Get(ctx, key)
	if err != nil || !found {
		return err
	}
	if current, ok := raw.(*softEntry); ok && current == e {
		_, _, err = s.delegate.Remove(ctx, key)
	}
	return err
}
