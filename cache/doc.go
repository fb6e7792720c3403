// Package cache provides composable cache layers for query results.
//
// # Overview
//
// Every layer implements Cache. Terminal stores hold entries; decorators
// wrap another Cache and add one concern each:
//
//   - LRU and FIFO bound the number of entries
//   - Soft lets the garbage collector reclaim values outside a retention list
//   - Blocking makes concurrent misses for the same key wait for one computation
//   - Serialized stores msgpack copies instead of shared instances
//   - Logging tracks the hit ratio
//
// New assembles a stack from a Config:
//
//	c, err := cache.New(cache.Config{
//		ID:          "users",
//		Eviction:    cache.EvictionLRU,
//		Size:        512,
//		Blocking:    true,
//		LockTimeout: time.Second,
//		Stats:       true,
//		Logger:      logger,
//	})
//
// # Keys
//
// Key is a composite fingerprint built from ordered components:
//
//	key := cache.NewKey("users.byID", 0, math.MaxInt32, "SELECT ...", 42)
//
// Any comparable value can also serve as a key.
//
// # Read-through
//
// GetOrFetch combines lookup, computation and store, and releases Blocking
// locks when the computation fails:
//
//	user, err := cache.GetOrFetch(ctx, c, key, func(ctx context.Context) (User, error) {
//		return repo.GetByID(ctx, 42)
//	})
//
// Callers driving a Blocking cache by hand must follow a missing Get with
// Put, or with Remove when the computation fails. Lock ownership is carried
// by the context; see WithOwner.
package cache
