package di

import (
	"context"
	"sort"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-query-cache/cache"
	"github.com/goliatone/go-query-cache/querycache"
	"github.com/goliatone/go-query-cache/session"
	"github.com/puzpuzpuz/xsync/v3"
)

// Container wires namespace caches, cached queriers and sessions from a
// single cache configuration. Each namespace gets its own cache stack,
// built on first use and shared afterwards.
type Container struct {
	config cache.Config
	caches *xsync.MapOf[string, cache.Cache]
}

// NewContainer validates config and returns a container that builds every
// namespace cache from it.
func NewContainer(config cache.Config) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Container{
		config: config,
		caches: xsync.NewMapOf[string, cache.Cache](),
	}, nil
}

// NewContainerWithDefaults uses cache.DefaultConfig.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(cache.DefaultConfig())
}

// Config returns a copy of the configuration used for namespace caches.
func (c *Container) Config() cache.Config {
	return c.config
}

// Cache returns the cache for namespace, building it on first use. The
// namespace doubles as the cache id.
func (c *Container) Cache(namespace string) (cache.Cache, error) {
	if existing, ok := c.caches.Load(namespace); ok {
		return existing, nil
	}

	cfg := c.config
	cfg.ID = namespace
	built, err := cache.New(cfg)
	if err != nil {
		return nil, err
	}

	actual, _ := c.caches.LoadOrStore(namespace, built)
	return actual, nil
}

// Namespaces lists the namespaces built so far, sorted.
func (c *Container) Namespaces() []string {
	out := make([]string, 0, c.caches.Size())
	c.caches.Range(func(ns string, _ cache.Cache) bool {
		out = append(out, ns)
		return true
	})
	sort.Strings(out)
	return out
}

// NewCachedQuerier wraps base with the cache for namespace.
func (c *Container) NewCachedQuerier(base session.Querier, namespace string, opts ...querycache.Option) (*querycache.CachedQuerier, error) {
	nc, err := c.Cache(namespace)
	if err != nil {
		return nil, err
	}
	opts = append([]querycache.Option{querycache.WithLogger(c.config.Logger)}, opts...)
	return querycache.New(base, nc, opts...), nil
}

// NewMapperQuerier is NewCachedQuerier with the namespace derived from the
// mapper type, so every querier built for *UserMapper shares "user_mapper".
func (c *Container) NewMapperQuerier(base session.Querier, mapper any, opts ...querycache.Option) (*querycache.CachedQuerier, error) {
	namespace := querycache.Namespace(mapper)
	if namespace == "" {
		return nil, errors.New("mapper has no named type", errors.CategoryBadInput).
			WithTextCode("INVALID_NAMESPACE")
	}
	return c.NewCachedQuerier(base, namespace, opts...)
}

// NewSession opens a session over q using the container logger.
func (c *Container) NewSession(q session.Querier, opts ...session.Option) *session.Session {
	opts = append([]session.Option{session.WithLogger(c.config.Logger)}, opts...)
	return session.New(q, opts...)
}

// Flush clears every namespace cache.
func (c *Container) Flush(ctx context.Context) error {
	var errs []error
	c.caches.Range(func(_ string, nc cache.Cache) bool {
		if err := nc.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	return errors.Join(errs...)
}
