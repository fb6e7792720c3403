package cacheinfra

import (
	"context"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

type entry struct {
	key   any
	value any
}

// Perpetual is the terminal in-memory store. It never evicts on its own;
// bounds and reclamation are the job of the decorators wrapping it.
//
// Buckets are copy-on-write so Get can scan them without holding the
// bucket lock that Compute takes for writers.
type Perpetual struct {
	id      string
	entries *xsync.MapOf[any, []entry]
	size    atomic.Int64
}

// NewPerpetual creates an empty store identified by id.
func NewPerpetual(id string) *Perpetual {
	return &Perpetual{
		id:      id,
		entries: xsync.NewMapOf[any, []entry](),
	}
}

func (p *Perpetual) ID() string {
	return p.id
}

func (p *Perpetual) Get(_ context.Context, key any) (any, bool, error) {
	bucket, ok := p.entries.Load(BucketOf(key))
	if !ok {
		return nil, false, nil
	}
	for _, e := range bucket {
		if SameKey(e.key, key) {
			return e.value, true, nil
		}
	}
	return nil, false, nil
}

func (p *Perpetual) Put(_ context.Context, key, value any) error {
	p.entries.Compute(BucketOf(key), func(old []entry, _ bool) ([]entry, bool) {
		for i, e := range old {
			if SameKey(e.key, key) {
				next := make([]entry, len(old))
				copy(next, old)
				next[i].value = value
				return next, false
			}
		}
		next := make([]entry, len(old), len(old)+1)
		copy(next, old)
		p.size.Add(1)
		return append(next, entry{key: key, value: value}), false
	})
	return nil
}

func (p *Perpetual) Remove(_ context.Context, key any) (any, bool, error) {
	var (
		previous any
		removed  bool
	)
	p.entries.Compute(BucketOf(key), func(old []entry, loaded bool) ([]entry, bool) {
		if !loaded {
			return nil, true
		}
		for i, e := range old {
			if !SameKey(e.key, key) {
				continue
			}
			previous, removed = e.value, true
			p.size.Add(-1)
			if len(old) == 1 {
				return nil, true
			}
			next := make([]entry, 0, len(old)-1)
			next = append(next, old[:i]...)
			return append(next, old[i+1:]...), false
		}
		return old, false
	})
	return previous, removed, nil
}

func (p *Perpetual) Clear(_ context.Context) error {
	p.entries.Clear()
	p.size.Store(0)
	return nil
}

// Size is informational; a Clear racing with writers can skew it briefly.
func (p *Perpetual) Size() int {
	return int(p.size.Load())
}
