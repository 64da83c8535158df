package meta

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/reflcache/cache"
)

// DefaultTTL is how long a Type stays cached when no duration is given.
const DefaultTTL = 15 * time.Minute

// Cache hands out shared Type entries from a Storage, keyed by full type name.
//
// A full name does not always identify one type: function-local types with the same
// name in one package share it. A type that finds another type under its name is
// moved to a key of its own, so every reflect.Type maps to its own entry.
type Cache struct {
	storage cache.Storage
	ttl     time.Duration
	logger  *zap.Logger

	keys   sync.Map // reflect.Type -> string, only for types moved off their full name
	keySeq atomic.Uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithStorage sets the store entries are kept in. The default is a cache.Store
// created by New.
func WithStorage(s cache.Storage) Option {
	return func(c *Cache) { c.storage = s }
}

// WithDefaultTTL sets the duration used by Get and For.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the logger for entry and member set builds.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Cache configured by opts.
//
// Without WithStorage the cache creates its own cache.Store, sized cache.DefaultSize,
// whose default TTL and logger follow the cache's. The store logger is named "store".
//
// Parameters:
//   - opts: WithStorage, WithDefaultTTL and WithLogger, applied in order
//
// Returns: the cache, or an error when its store cannot be created
//
// Example:
//
//	c, err := meta.New(meta.WithDefaultTTL(time.Hour), meta.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	user, err := meta.For[User](c)
func New(opts ...Option) (*Cache, error) {
	c := &Cache{
		ttl:    DefaultTTL,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.storage == nil {
		store, err := cache.NewStore(
			cache.WithDefaultTTL(c.ttl),
			cache.WithLogger(c.logger.Named("store")),
		)
		if err != nil {
			return nil, fmt.Errorf("create store: %w", err)
		}
		c.storage = store
	}
	return c, nil
}

// Get returns the cached entry for t, building it on a miss. Calls within the default
// TTL return the same *Type.
func (c *Cache) Get(t reflect.Type) (*Type, error) {
	return c.GetTTL(t, c.ttl)
}

// GetTTL returns the cached entry for t, building it on a miss and keeping a newly
// built entry for ttl. A ttl <= 0 uses the cache default.
//
// Pointers to named types share the entry of the named type, so *User and User
// resolve to the same *Type. Within the lifetime of an entry every call returns the
// same instance; once it expires the next call builds a new one with a new ID.
//
// Parameters:
//   - t: the type to describe, T or *T
//   - ttl: lifetime of the entry if this call builds it
//
// Returns: the shared entry, ErrNilArgument for a nil t, or cache.ErrTypeMismatch when
// the storage holds something other than a *Type under the key
func (c *Cache) GetTTL(t reflect.Type, ttl time.Duration) (*Type, error) {
	t = normalize(t)
	if t == nil {
		return nil, fmt.Errorf("%w: type", ErrNilArgument)
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	key := c.keyOf(t)
	ct, err := c.load(t, key, ttl)
	if err != nil {
		return nil, err
	}
	if ct.ReflectType() == t {
		return ct, nil
	}

	// Another type owns this name. Move t to a key of its own.
	alias := fullName(t) + "#" + strconv.FormatUint(c.keySeq.Add(1), 10)
	if v, loaded := c.keys.LoadOrStore(t, alias); loaded {
		alias = v.(string)
	}
	c.logger.Debug("type key collision",
		zap.String("key", key),
		zap.Stringer("cached", ct.ReflectType()),
		zap.String("alias", alias),
	)

	ct, err = c.load(t, alias, ttl)
	if err != nil {
		return nil, err
	}
	if ct.ReflectType() != t {
		return nil, fmt.Errorf("%w: key %q holds %s, not %s", ErrInvalidOperation, alias, ct.ReflectType(), t)
	}
	return ct, nil
}

func (c *Cache) keyOf(t reflect.Type) string {
	if v, ok := c.keys.Load(t); ok {
		return v.(string)
	}
	return fullName(t)
}

func (c *Cache) load(t reflect.Type, key string, ttl time.Duration) (*Type, error) {
	var buildErr error
	ct, err := cache.GetOrAdd(c.storage, key, func() *Type {
		ct, err := newType(t, c.logger)
		if err != nil {
			buildErr = err
			return nil
		}
		c.logger.Debug("type entry built",
			zap.String("type", key),
			zap.Stringer("id", ct.ID()),
			zap.Duration("ttl", ttl),
		)
		return ct
	}, ttl)
	if buildErr != nil {
		return nil, fmt.Errorf("build %s: %w", key, buildErr)
	}
	if err != nil {
		return nil, err
	}
	if ct == nil {
		return nil, fmt.Errorf("%w: key %q holds a nil entry", ErrInvalidOperation, key)
	}
	return ct, nil
}

// For returns the cached entry for T.
func For[T any](c *Cache) (*Type, error) {
	return c.Get(reflect.TypeFor[T]())
}

// ForTTL returns the cached entry for T with an explicit duration.
func ForTTL[T any](c *Cache, ttl time.Duration) (*Type, error) {
	return c.GetTTL(reflect.TypeFor[T](), ttl)
}

var (
	defaultCache     *Cache
	defaultCacheOnce sync.Once
)

// Default returns the process-wide Cache, created on first use with default options.
func Default() *Cache {
	defaultCacheOnce.Do(func() {
		c, err := New()
		if err != nil {
			// NewStore only fails for a non-positive size, which New never passes.
			panic(err)
		}
		defaultCache = c
	})
	return defaultCache
}
