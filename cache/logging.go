package cache

import (
	"context"
	"sync/atomic"

	"github.com/go-logr/logr"
)

// Stats is a snapshot of lookup counters.
type Stats struct {
	Requests int64
	Hits     int64
}

// HitRatio returns hits over requests, or zero before the first request.
func (s Stats) HitRatio() float64 {
	if s.Requests == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Requests)
}

// Logging counts lookups and hits and reports the running hit ratio at V(1).
type Logging struct {
	delegate Cache
	log      logr.Logger
	requests atomic.Int64
	hits     atomic.Int64
}

func NewLogging(delegate Cache, log logr.Logger) *Logging {
	return &Logging{
		delegate: delegate,
		log:      log.WithValues("cache", delegate.ID()),
	}
}

func (l *Logging) ID() string {
	return l.delegate.ID()
}

func (l *Logging) Size() int {
	return l.delegate.Size()
}

func (l *Logging) Get(ctx context.Context, key any) (any, bool, error) {
	l.requests.Add(1)
	value, found, err := l.delegate.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if found {
		l.hits.Add(1)
	}
	if v := l.log.V(1); v.Enabled() {
		v.Info("cache lookup", "hit", found, "hitRatio", l.Stats().HitRatio())
	}
	return value, found, nil
}

func (l *Logging) Put(ctx context.Context, key, value any) error {
	return l.delegate.Put(ctx, key, value)
}

func (l *Logging) Remove(ctx context.Context, key any) (any, bool, error) {
	return l.delegate.Remove(ctx, key)
}

func (l *Logging) Clear(ctx context.Context) error {
	l.log.V(1).Info("cache cleared")
	return l.delegate.Clear(ctx)
}

func (l *Logging) Stats() Stats {
	return Stats{
		Requests: l.requests.Load(),
		Hits:     l.hits.Load(),
	}
}
