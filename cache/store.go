package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Store is an in-memory, size-bounded store with per-entry expiration.
//
// Expired entries are dropped lazily when they are next read, or in bulk by
// DeleteExpired. Nothing runs in the background.
type Store struct {
	id      uuid.UUID
	entries *lru.Cache[string, *entry]
	// mu orders writes against expiry removal, so a stale reader never drops an entry
	// stored after the one it saw.
	mu      sync.Mutex
	group   singleflight.Group
	policy  Policy
	sliding bool
	now     func() time.Time
	logger  *zap.Logger
	metrics *storeMetrics
}

type entry struct {
	value     any
	ttl       time.Duration
	expiresAt atomic.Int64 // unix nanos
}

func (e *entry) expired(now time.Time) bool {
	return now.UnixNano() >= e.expiresAt.Load()
}

// NewStore creates a store configured by opts.
func NewStore(opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.size <= 0 {
		o.size = DefaultSize
	}

	id := uuid.New()
	metrics, err := newStoreMetrics(o.meter, id.String())
	if err != nil {
		return nil, err
	}

	s := &Store{
		id:      id,
		policy:  o.policy,
		sliding: o.sliding,
		now:     o.now,
		logger:  o.logger,
		metrics: metrics,
	}

	entries, err := lru.NewWithEvict(o.size, s.onEvict)
	if err != nil {
		return nil, err
	}
	s.entries = entries

	return s, nil
}

// NewStoreFromConfig creates a store from cfg; opts are applied after cfg.
func NewStoreFromConfig(cfg Config, opts ...Option) (*Store, error) {
	return NewStore(append(cfg.Options(), opts...)...)
}

// ID identifies this store instance in logs.
func (s *Store) ID() uuid.UUID {
	return s.id
}

// Get returns the live value stored under key.
func (s *Store) Get(key string) (any, bool) {
	e, ok := s.lookup(key)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl, replacing any existing value.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	ttl = s.policy.EffectiveTTL(ttl)

	e := &entry{value: value, ttl: ttl}
	e.expiresAt.Store(s.now().Add(ttl).UnixNano())

	s.mu.Lock()
	s.entries.Add(key, e)
	s.mu.Unlock()
}

// GetOrAdd returns the value stored under key, or runs factory, stores its result for
// ttl and returns it.
//
// Concurrent misses on the same key share a single factory call, including misses
// caused by an entry expiring. An expired entry is only dropped while it is still the
// stored one, so a reader holding a stale entry never removes a newer value.
//
// Parameters:
//   - key: entry key
//   - factory: builds the value on a miss; it must not call back into the store for
//     the same key
//   - ttl: lifetime of a newly stored value, resolved through Policy.EffectiveTTL
//
// Returns: the stored value, shared by every caller within its lifetime
//
// Example:
//
//	v := store.GetOrAdd("pkg.User", func() any { return build() }, time.Minute)
func (s *Store) GetOrAdd(key string, factory func() any, ttl time.Duration) any {
	if e, ok := s.lookup(key); ok {
		s.metrics.hit()
		return e.value
	}

	v, _, _ := s.group.Do(key, func() (any, error) {
		// Double-check: a flight that finished just before this one may have stored it.
		if e, ok := s.lookup(key); ok {
			return e.value, nil
		}

		s.metrics.miss()
		s.logger.Debug("cache miss",
			zap.String("store", s.id.String()),
			zap.String("key", key),
			zap.Duration("ttl", s.policy.EffectiveTTL(ttl)),
		)

		value := factory()
		s.Set(key, value, ttl)
		return value, nil
	})
	return v
}

// Delete removes key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	s.entries.Remove(key)
	s.mu.Unlock()
}

// DeleteExpired drops every expired entry and reports how many were removed.
func (s *Store) DeleteExpired() int {
	now := s.now()
	removed := 0
	for _, key := range s.entries.Keys() {
		e, ok := s.entries.Peek(key)
		if ok && e.expired(now) && s.removeExpired(key, e) {
			removed++
		}
	}
	return removed
}

// Purge removes all entries.
func (s *Store) Purge() {
	s.mu.Lock()
	s.entries.Purge()
	s.mu.Unlock()
}

// Len returns the number of entries, including expired ones not yet dropped.
func (s *Store) Len() int {
	return s.entries.Len()
}

func (s *Store) lookup(key string) (*entry, bool) {
	for {
		e, ok := s.entries.Get(key)
		if !ok {
			return nil, false
		}

		now := s.now()
		if !e.expired(now) {
			if s.sliding {
				e.expiresAt.Store(now.Add(e.ttl).UnixNano())
			}
			return e, true
		}

		if s.removeExpired(key, e) {
			return nil, false
		}
		// Replaced since it was read; look at the new entry.
	}
}

// removeExpired drops key only while it still holds stale. It reports false when a
// newer entry has taken its place.
func (s *Store) removeExpired(key string, stale *entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.entries.Peek(key)
	if !ok {
		return true
	}
	if cur != stale {
		return false
	}
	s.entries.Remove(key)
	return true
}

func (s *Store) onEvict(key string, _ *entry) {
	s.metrics.evict()
	s.logger.Debug("cache entry evicted",
		zap.String("store", s.id.String()),
		zap.String("key", key),
	)
}

var _ Storage = (*Store)(nil)
