// Package querycache provides the namespace level cache for query results.
//
// CachedQuerier wraps a session.Querier and serves statements that set
// UseCache through a cache.Cache shared by every session in the namespace:
//
//	users, _ := cache.New(cache.Config{ID: "users", Eviction: cache.EvictionLRU, Blocking: true})
//	q := querycache.New(base, users)
//	s := session.New(q)
//
// Keys are built with session.CreateKey, so a session's local cache and the
// namespace cache fingerprint a request the same way.
//
// # Invalidation
//
// Successful writes through Exec clear the namespace. A statement flagged
// FlushCache clears it before running. WithBypass skips the cache for reads
// on a single call.
package querycache
