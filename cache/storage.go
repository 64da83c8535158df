package cache

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTypeMismatch is returned by GetOrAdd when the value stored under a key is not of
	// the requested type.
	ErrTypeMismatch = errors.New("cache: stored value has unexpected type")
)

// Storage is the contract between cached metadata and the expiring store backing it.
//
// GetOrAdd must behave as if atomic per key: on a hit the factory is not executed, on a
// miss it executes exactly once and its result is both stored for ttl and returned.
type Storage interface {
	GetOrAdd(key string, factory func() any, ttl time.Duration) any
}

// StorageFunc adapts a plain function to Storage.
type StorageFunc func(key string, factory func() any, ttl time.Duration) any

func (f StorageFunc) GetOrAdd(key string, factory func() any, ttl time.Duration) any {
	return f(key, factory, ttl)
}

// GetOrAdd is the typed form of Storage.GetOrAdd.
func GetOrAdd[V any](s Storage, key string, factory func() V, ttl time.Duration) (V, error) {
	raw := s.GetOrAdd(key, func() any { return factory() }, ttl)

	v, ok := raw.(V)
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: key %q holds %T", ErrTypeMismatch, key, raw)
	}
	return v, nil
}

var _ Storage = StorageFunc(nil)
