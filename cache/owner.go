package cache

import "context"

// Owner identifies the holder of per-key locks taken by a Blocking cache.
// Locks are reentrant for the same owner.
type Owner struct {
	_ byte // distinct allocations must not share an address
}

type ownerKey struct{}

// NewOwner returns a fresh owner token.
func NewOwner() *Owner {
	return &Owner{}
}

// WithOwner returns ctx carrying a new owner token, or ctx itself when it
// already carries one.
func WithOwner(ctx context.Context) context.Context {
	if OwnerFrom(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, ownerKey{}, NewOwner())
}

// OwnerFrom returns the owner carried by ctx, or nil.
func OwnerFrom(ctx context.Context) *Owner {
	o, _ := ctx.Value(ownerKey{}).(*Owner)
	return o
}
