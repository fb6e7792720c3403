package cache

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-query-cache/internal/cacheinfra"
	"github.com/puzpuzpuz/xsync/v3"
)

// keyLock is a reentrant lock for one key. free is closed whenever the
// lock becomes available and replaced when it is taken again. anonymous
// marks a hold taken by a caller without an Owner in its context.
type keyLock struct {
	key       any
	mu        sync.Mutex
	owner     *Owner
	anonymous bool
	holds     int
	free      chan struct{}
}

func newKeyLock(key any) *keyLock {
	free := make(chan struct{})
	close(free)
	return &keyLock{key: key, free: free}
}

func (l *keyLock) tryAcquire(owner *Owner, anonymous bool) (<-chan struct{}, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.holds == 0 {
		l.owner, l.holds, l.anonymous = owner, 1, anonymous
		l.free = make(chan struct{})
		return nil, true
	}
	if l.owner == owner {
		l.holds++
		return nil, true
	}
	return l.free, false
}

// release drops one hold of owner. A nil owner releases an anonymous hold.
func (l *keyLock) release(owner *Owner) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.holds == 0 {
		return
	}
	if owner == nil && !l.anonymous {
		return
	}
	if owner != nil && l.owner != owner {
		return
	}
	l.holds--
	if l.holds == 0 {
		l.owner, l.anonymous = nil, false
		close(l.free)
	}
}

// Blocking makes concurrent callers for the same key wait while one of them
// computes the value. A Get that misses leaves the key locked; the caller
// must follow with Put or, when the computation fails, with Remove, which
// only releases the lock.
//
// Lock ownership comes from the Owner in the context (see WithOwner).
// Callers without one are never reentrant: each ownerless Get takes the
// lock under a fresh token, and an ownerless Put or Remove releases
// whichever ownerless hold is current.
type Blocking struct {
	delegate Cache
	timeout  time.Duration
	locks    *xsync.MapOf[any, []*keyLock]
}

// NewBlocking wraps delegate. A zero timeout waits until the lock is free
// or the context is done.
func NewBlocking(delegate Cache, timeout time.Duration) *Blocking {
	return &Blocking{
		delegate: delegate,
		timeout:  timeout,
		locks:    xsync.NewMapOf[any, []*keyLock](),
	}
}

func (b *Blocking) ID() string {
	return b.delegate.ID()
}

func (b *Blocking) Size() int {
	return b.delegate.Size()
}

func (b *Blocking) Timeout() time.Duration {
	return b.timeout
}

func (b *Blocking) Get(ctx context.Context, key any) (any, bool, error) {
	lock, owner, err := b.acquire(ctx, key)
	if err != nil {
		return nil, false, err
	}
	value, found, err := b.delegate.Get(ctx, key)
	if err != nil {
		lock.release(owner)
		return nil, false, err
	}
	if found {
		lock.release(owner)
	}
	return value, found, nil
}

func (b *Blocking) Put(ctx context.Context, key, value any) error {
	defer b.release(ctx, key)
	return b.delegate.Put(ctx, key, value)
}

// Remove releases the caller's lock on key and leaves the delegate untouched.
func (b *Blocking) Remove(ctx context.Context, key any) (any, bool, error) {
	b.release(ctx, key)
	return nil, false, nil
}

func (b *Blocking) Clear(ctx context.Context) error {
	return b.delegate.Clear(ctx)
}

func (b *Blocking) lockFor(key any) *keyLock {
	var lock *keyLock
	b.locks.Compute(cacheinfra.BucketOf(key), func(old []*keyLock, _ bool) ([]*keyLock, bool) {
		for _, l := range old {
			if cacheinfra.SameKey(l.key, key) {
				lock = l
				return old, false
			}
		}
		lock = newKeyLock(key)
		next := make([]*keyLock, len(old), len(old)+1)
		copy(next, old)
		return append(next, lock), false
	})
	return lock
}

func (b *Blocking) acquire(ctx context.Context, key any) (*keyLock, *Owner, error) {
	owner := OwnerFrom(ctx)
	anonymous := owner == nil
	if anonymous {
		owner = NewOwner()
	}
	lock := b.lockFor(key)

	var deadline <-chan time.Time
	if b.timeout > 0 {
		timer := time.NewTimer(b.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		free, ok := lock.tryAcquire(owner, anonymous)
		if ok {
			return lock, owner, nil
		}
		select {
		case <-free:
		case <-deadline:
			return nil, nil, newLockTimeoutError(b.ID(), key, b.timeout)
		case <-ctx.Done():
			return nil, nil, newLockInterruptedError(b.ID(), key, ctx.Err())
		}
	}
}

func (b *Blocking) release(ctx context.Context, key any) {
	b.lockFor(key).release(OwnerFrom(ctx))
}
