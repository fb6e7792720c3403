package cacheinfra

import "fmt"

// Hashable is implemented by cache keys that cannot be compared with ==,
// such as fingerprints that carry their component slice. Any key that does
// not implement Hashable must be comparable.
type Hashable interface {
	HashCode() uint64
	Equal(other any) bool
}

// hashBucket is unexported so no caller supplied key can collide with it.
type hashBucket uint64

// BucketOf returns the comparable value a key is filed under. Hashable keys
// share a bucket when their hash codes collide; SameKey tells them apart.
func BucketOf(key any) any {
	if h, ok := key.(Hashable); ok {
		return hashBucket(h.HashCode())
	}
	return key
}

// SameKey reports whether a and b address the same cache entry.
func SameKey(a, b any) bool {
	if h, ok := a.(Hashable); ok {
		return h.Equal(b)
	}
	if _, ok := b.(Hashable); ok {
		return false
	}
	return a == b
}

// KeyString renders a key for string keyed backends.
func KeyString(key any) string {
	if s, ok := key.(fmt.Stringer); ok {
		return fmt.Sprintf("%T:%s", key, s.String())
	}
	return fmt.Sprintf("%T:%v", key, key)
}
