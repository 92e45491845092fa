// Package cache provides the best-effort caches used for API responses and
// role/token lookups.
//
// Every variant reports a miss explicitly and never returns an error; a
// failing backend simply behaves like an empty one. Implementations
// include a no-op cache, in-memory and LRU caches, a file cache, a Redis
// cache and a cache embedded in a session store. Variants are constructed
// directly or by tag through a Registry.
package cache
