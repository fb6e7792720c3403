package cacheinfra

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-errors"
	"github.com/viccon/sturdyc"
)

// Config holds the settings for the sharded TTL store.
type Config struct {
	// Capacity defines the maximum number of entries the store holds.
	Capacity int

	// NumShards determines the number of shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	NumShards int

	// TTL is the time-to-live for stored entries.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the store reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often expired entries are swept.
	// Zero keeps the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// ToSturdycOptions converts the optional settings to sturdyc options.
// Capacity, NumShards, TTL and EvictionPercentage go to sturdyc.New directly.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return options
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return errors.FromOzzoValidation(err, "invalid sharded store configuration")
	}
	return nil
}

// Sharded is a terminal store backed by a sturdyc client. Entries expire
// after the configured TTL and the client evicts a percentage of entries
// when full. Keys are addressed through KeyString, so two keys are the same
// entry when their string forms match.
type Sharded struct {
	id     string
	client *sturdyc.Client[any]
}

// NewSharded validates cfg and creates the sturdyc client.
func NewSharded(id string, cfg Config) (*Sharded, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &Sharded{id: id, client: client}, nil
}

func (s *Sharded) ID() string {
	return s.id
}

func (s *Sharded) Get(_ context.Context, key any) (any, bool, error) {
	value, ok := s.client.Get(KeyString(key))
	return value, ok, nil
}

func (s *Sharded) Put(_ context.Context, key, value any) error {
	s.client.Set(KeyString(key), value)
	return nil
}

func (s *Sharded) Remove(_ context.Context, key any) (any, bool, error) {
	k := KeyString(key)
	value, ok := s.client.Get(k)
	s.client.Delete(k)
	return value, ok, nil
}

func (s *Sharded) Clear(_ context.Context) error {
	for _, k := range s.client.ScanKeys() {
		s.client.Delete(k)
	}
	return nil
}

func (s *Sharded) Size() int {
	return s.client.Size()
}
