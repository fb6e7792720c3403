package cache

import (
	"context"

	"github.com/goliatone/go-query-cache/internal/cacheinfra"
)

// Cache is the capability every store and decorator implements. Keys are
// either comparable values or Hashable ones such as *Key.
//
// Get and Remove report whether the key was present separately from the
// value, so a stored nil is distinguishable from a miss.
type Cache interface {
	ID() string
	Get(ctx context.Context, key any) (any, bool, error)
	Put(ctx context.Context, key, value any) error
	Remove(ctx context.Context, key any) (any, bool, error)
	Clear(ctx context.Context) error
	Size() int
}

// Hashable is implemented by keys that are not comparable with ==.
type Hashable = cacheinfra.Hashable

var (
	_ Cache    = (*cacheinfra.Perpetual)(nil)
	_ Cache    = (*cacheinfra.Sharded)(nil)
	_ Hashable = (*Key)(nil)
)

// NewPerpetual returns an unbounded in-memory store.
func NewPerpetual(id string) Cache {
	return cacheinfra.NewPerpetual(id)
}

// NewSharded returns a TTL bound store sharded across sturdyc partitions.
func NewSharded(id string, cfg ShardedConfig) (Cache, error) {
	store, err := cacheinfra.NewSharded(id, cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return store, nil
}
