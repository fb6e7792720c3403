package querycache

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/goliatone/go-query-cache/cache"
	"github.com/goliatone/go-query-cache/session"
)

var (
	_ session.Querier    = (*CachedQuerier)(nil)
	_ session.Transactor = (*CachedQuerier)(nil)
)

// CachedQuerier decorates a Querier with a namespace cache shared by every
// session. Statements opt in with UseCache; callable statements always run
// against the base querier.
type CachedQuerier struct {
	base        session.Querier
	cache       cache.Cache
	environment string
	log         logr.Logger
}

// Option configures a CachedQuerier.
type Option func(*CachedQuerier)

// WithEnvironment sets the environment id folded into every key.
func WithEnvironment(id string) Option {
	return func(c *CachedQuerier) {
		c.environment = id
	}
}

func WithLogger(log logr.Logger) Option {
	return func(c *CachedQuerier) {
		c.log = log
	}
}

// New wraps base with the namespace cache c.
func New(base session.Querier, c cache.Cache, opts ...Option) *CachedQuerier {
	q := &CachedQuerier{
		base:  base,
		cache: c,
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.log = q.log.WithValues("namespace", c.ID())
	return q
}

// Cache returns the namespace cache.
func (c *CachedQuerier) Cache() cache.Cache {
	return c.cache
}

// Query serves cacheable statements through the namespace cache. A
// statement flagged FlushCache clears the namespace first.
func (c *CachedQuerier) Query(ctx context.Context, req *session.Request) ([]any, error) {
	if req.Statement.FlushCache {
		if err := c.Flush(ctx); err != nil {
			return nil, err
		}
	}

	if !req.Statement.UseCache || req.Statement.Kind == session.KindCallable || bypassed(ctx) {
		return c.base.Query(ctx, req)
	}

	key := session.CreateKey(req, c.environment)
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) ([]any, error) {
		c.log.V(1).Info("namespace cache miss", "statement", req.Statement.ID)
		return c.base.Query(ctx, req)
	})
}

// Exec passes writes through and clears the namespace once they succeed.
func (c *CachedQuerier) Exec(ctx context.Context, req *session.Request) (int64, error) {
	n, err := c.base.Exec(ctx, req)
	if err != nil {
		return n, err
	}
	if err := c.Flush(ctx); err != nil {
		return n, err
	}
	return n, nil
}

// Flush clears the namespace cache.
func (c *CachedQuerier) Flush(ctx context.Context) error {
	if err := c.cache.Clear(ctx); err != nil {
		c.log.Error(err, "failed to flush namespace cache")
		return err
	}
	return nil
}

// Commit forwards to the base querier when it runs in a transaction.
func (c *CachedQuerier) Commit(ctx context.Context) error {
	if tx, ok := c.base.(session.Transactor); ok {
		return tx.Commit(ctx)
	}
	return nil
}

// Rollback forwards to the base querier and then clears the namespace,
// since rows cached inside the transaction may never have been committed.
func (c *CachedQuerier) Rollback(ctx context.Context) error {
	if tx, ok := c.base.(session.Transactor); ok {
		if err := tx.Rollback(ctx); err != nil {
			return err
		}
	}
	return c.Flush(ctx)
}
