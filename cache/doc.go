// Package cache provides the expiring key/value store that holds cached type metadata.
//
// Storage is the seam the metadata layer depends on; Store is the in-memory
// implementation, an LRU-bounded map whose entries carry their own TTL:
//
//	store, err := cache.NewStore(cache.WithSize(512), cache.WithDefaultTTL(10*time.Minute))
//	if err != nil {
//	    return err
//	}
//	v, err := cache.GetOrAdd(store, "key", build, time.Minute)
//
// GetOrAdd runs the factory at most once per key and population: concurrent misses
// wait for the first caller and share its result.
package cache
