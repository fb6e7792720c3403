package cache

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Encoded is a msgpack encoded value as returned by a Serialized cache.
// Decode, Lookup and GetOrFetch turn it back into a typed value.
type Encoded []byte

// Serialized stores msgpack encoded copies so readers never share the
// instance that was put.
type Serialized struct {
	delegate Cache
}

func NewSerialized(delegate Cache) *Serialized {
	return &Serialized{delegate: delegate}
}

func (s *Serialized) ID() string {
	return s.delegate.ID()
}

func (s *Serialized) Size() int {
	return s.delegate.Size()
}

func (s *Serialized) Get(ctx context.Context, key any) (any, bool, error) {
	raw, found, err := s.delegate.Get(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}
	return asEncoded(raw), true, nil
}

func (s *Serialized) Put(ctx context.Context, key, value any) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "cannot serialize cache value").
			WithTextCode(TextCodeSerialization).
			WithMetadata(map[string]any{"cache": s.ID()})
	}
	return s.delegate.Put(ctx, key, data)
}

func (s *Serialized) Remove(ctx context.Context, key any) (any, bool, error) {
	raw, found, err := s.delegate.Remove(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}
	return asEncoded(raw), true, nil
}

func (s *Serialized) Clear(ctx context.Context) error {
	return s.delegate.Clear(ctx)
}

func asEncoded(raw any) any {
	if data, ok := raw.([]byte); ok {
		return Encoded(data)
	}
	return raw
}
