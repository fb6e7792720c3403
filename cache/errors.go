package cache

import (
	"fmt"
	"time"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeLockTimeout     = "CACHE_LOCK_TIMEOUT"
	TextCodeLockInterrupted = "CACHE_LOCK_INTERRUPTED"
	TextCodeSerialization   = "CACHE_SERIALIZATION"
)

// ErrInvalidResultType is returned when a cached value cannot be converted
// to the type requested by Lookup or GetOrFetch.
var ErrInvalidResultType = errors.New("cached value has an unexpected type", errors.CategoryInternal).
	WithTextCode("CACHE_INVALID_TYPE")

func newLockTimeoutError(cacheID string, key any, timeout time.Duration) error {
	msg := fmt.Sprintf("couldn't get a lock in %s for the key %v at the cache %s", timeout, key, cacheID)
	return errors.New(msg, errors.CategoryConflict).
		WithTextCode(TextCodeLockTimeout).
		WithMetadata(map[string]any{
			"cache":   cacheID,
			"key":     key,
			"timeout": timeout,
		})
}

func newLockInterruptedError(cacheID string, key any, cause error) error {
	msg := fmt.Sprintf("interrupted while waiting for the lock on key %v at the cache %s", key, cacheID)
	return errors.Wrap(cause, errors.CategoryOperation, msg).
		WithTextCode(TextCodeLockInterrupted).
		WithMetadata(map[string]any{
			"cache": cacheID,
			"key":   key,
		})
}

// IsLockError reports whether err came from a Blocking cache failing to
// acquire a key lock, by timeout or by cancellation.
func IsLockError(err error) bool {
	var e *errors.Error
	if !errors.As(err, &e) {
		return false
	}
	return e.TextCode == TextCodeLockTimeout || e.TextCode == TextCodeLockInterrupted
}
