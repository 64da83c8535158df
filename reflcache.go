// Package reflcache is the entry point to the process-wide reflection metadata cache.
//
//	t, err := reflcache.Get[Order]()
//	for name, f := range t.Fields().All() {
//	    ...
//	}
//
// Use meta.New for an isolated cache with its own storage or TTL.
package reflcache

import (
	"reflect"
	"time"

	"github.com/Konsultn-Engineering/reflcache/meta"
)

// Get returns the cached metadata of T from the default cache.
func Get[T any]() (*meta.Type, error) {
	return meta.For[T](meta.Default())
}

// GetTTL is Get with an explicit expiration for a newly built entry.
func GetTTL[T any](ttl time.Duration) (*meta.Type, error) {
	return meta.ForTTL[T](meta.Default(), ttl)
}

// GetType returns the cached metadata of t from the default cache.
func GetType(t reflect.Type) (*meta.Type, error) {
	return meta.Default().Get(t)
}

// GetTypeTTL is GetType with an explicit expiration.
func GetTypeTTL(t reflect.Type, ttl time.Duration) (*meta.Type, error) {
	return meta.Default().GetTTL(t, ttl)
}

// Of returns the cached metadata of v's dynamic type.
func Of(v any) (*meta.Type, error) {
	return meta.Default().Get(reflect.TypeOf(v))
}
