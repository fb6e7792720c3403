package cache

import (
	"time"

	"github.com/go-logr/logr"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-query-cache/internal/cacheinfra"
)

// Eviction selects the bounding policy placed over the store.
type Eviction string

const (
	EvictionLRU  Eviction = "lru"
	EvictionFIFO Eviction = "fifo"
	EvictionSoft Eviction = "soft"
	EvictionNone Eviction = "none"
)

// StoreKind selects the terminal store.
type StoreKind string

const (
	StorePerpetual StoreKind = "perpetual"
	StoreSharded   StoreKind = "sharded"
)

// Config describes a decorated cache assembled by New.
type Config struct {
	// ID names the cache, usually after the namespace it serves.
	ID string

	Store   StoreKind
	Sharded ShardedConfig

	Eviction Eviction
	// Size bounds FIFO and LRU caches. Zero uses DefaultEvictionSize.
	Size int
	// SoftRetention is the number of values a soft cache pins. Zero uses
	// DefaultSoftRetention.
	SoftRetention int

	// Blocking serializes computation per key.
	Blocking bool
	// LockTimeout bounds lock waits. Zero waits for the context.
	LockTimeout time.Duration

	// ReadWrite stores msgpack copies instead of shared instances.
	ReadWrite bool

	// Stats enables hit ratio tracking and logging.
	Stats  bool
	Logger logr.Logger
}

// ShardedConfig mirrors the settings of the sturdyc backed store.
type ShardedConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultConfig returns an LRU over a perpetual store with stats enabled.
func DefaultConfig() Config {
	return Config{
		ID:            "default",
		Store:         StorePerpetual,
		Sharded:       DefaultShardedConfig(),
		Eviction:      EvictionLRU,
		Size:          DefaultEvictionSize,
		SoftRetention: DefaultSoftRetention,
		Stats:         true,
		Logger:        logr.Discard(),
	}
}

// DefaultShardedConfig returns the sturdyc store defaults.
func DefaultShardedConfig() ShardedConfig {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.Store, validation.In(StorePerpetual, StoreSharded)),
		validation.Field(&c.Eviction, validation.In(EvictionLRU, EvictionFIFO, EvictionSoft, EvictionNone)),
		validation.Field(&c.Size, validation.Min(0)),
		validation.Field(&c.SoftRetention, validation.Min(0)),
		validation.Field(&c.LockTimeout, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return errors.FromOzzoValidation(err, "invalid cache configuration")
	}
	if c.Store == StoreSharded {
		return c.Sharded.Validate()
	}
	return nil
}

// Validate checks the sharded store settings.
func (c ShardedConfig) Validate() error {
	return c.toInternal().Validate()
}

// New assembles a cache from cfg. From the outside in, the layers are
// stats, serialization, per-key blocking, eviction and the store.
func New(cfg Config) (Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var c Cache
	switch cfg.Store {
	case StoreSharded:
		store, err := cacheinfra.NewSharded(cfg.ID, cfg.Sharded.toInternal())
		if err != nil {
			return nil, err
		}
		c = store
	default:
		c = cacheinfra.NewPerpetual(cfg.ID)
	}

	switch cfg.Eviction {
	case EvictionLRU, "":
		c = NewLRU(c, cfg.Size)
	case EvictionFIFO:
		c = NewFIFO(c, cfg.Size)
	case EvictionSoft:
		c = NewSoft(c, cfg.SoftRetention)
	}

	if cfg.Blocking {
		c = NewBlocking(c, cfg.LockTimeout)
	}
	if cfg.ReadWrite {
		c = NewSerialized(c)
	}
	if cfg.Stats {
		c = NewLogging(c, cfg.Logger)
	}
	return c, nil
}

func (c ShardedConfig) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) ShardedConfig {
	return ShardedConfig{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
