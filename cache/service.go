package cache

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// FetchFn loads a value from the source of truth on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// GetOrFetch returns the cached value for key, or calls fetch and stores
// its result. When fetch fails or panics the key is removed so a Blocking
// layer releases its lock, and the fetch error is returned unchanged.
//
// ctx gains an owner token if it has none, so the lock taken by the miss
// and released by the Put belong to the same caller.
func GetOrFetch[T any](ctx context.Context, c Cache, key any, fetch FetchFn[T]) (T, error) {
	var zero T
	ctx = WithOwner(ctx)

	value, found, err := c.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if found {
		return Decode[T](value)
	}

	stored := false
	defer func() {
		if !stored {
			_, _, _ = c.Remove(ctx, key)
		}
	}()

	result, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	if err := c.Put(ctx, key, result); err != nil {
		return zero, err
	}
	stored = true
	return result, nil
}

// Lookup is a typed Get. On a Blocking cache a miss keeps the key locked
// until the caller puts or removes it.
func Lookup[T any](ctx context.Context, c Cache, key any) (T, bool, error) {
	var zero T
	value, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return zero, found, err
	}
	typed, err := Decode[T](value)
	if err != nil {
		return zero, false, err
	}
	return typed, true, nil
}

// Decode converts a value read from a cache into T, unpacking Encoded
// values from a Serialized cache.
func Decode[T any](value any) (T, error) {
	var zero T
	if value == nil {
		return zero, nil
	}
	if typed, ok := value.(T); ok {
		return typed, nil
	}
	if data, ok := value.(Encoded); ok {
		var out T
		if err := msgpack.Unmarshal(data, &out); err != nil {
			return zero, fmt.Errorf("%w: decode into %T: %v", ErrInvalidResultType, zero, err)
		}
		return out, nil
	}
	return zero, fmt.Errorf("%w: have %T, want %T", ErrInvalidResultType, value, zero)
}
