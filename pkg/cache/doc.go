// Package cache provides an optional Redis-backed cache for Canvas API
// responses with ETag/Last-Modified support for conditional requests.
//
// The cache never replaces a fetch: when an entry carries a validator the
// client still round-trips the API with If-None-Match / If-Modified-Since and
// only reuses the stored body on 304 Not Modified. Report runs therefore
// always see revalidated data, the cache just saves body transfer.
//
// Usage:
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	mgr := cache.NewManager(rdb)
//
//	entry, err := mgr.Get(ctx, cache.Key{Endpoint: "/courses/101", Query: nil})
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch and mgr.Set(...)
//	}
//
// The whole layer is optional; the client operates with a nil *Manager.
package cache
