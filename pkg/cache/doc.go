// Package cache provides a generic Cache interface with in-memory and Redis implementations.
//
// The router uses it for three things: server-side sessions, single-use
// authorization codes and parsed mustache templates. Memory suits a single
// instance; Redis lets several router instances share sessions and codes.
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL (1 hour by default)
//   - Negative: item never expires
//
// # Single-use values
//
// [Cache.Take] reads and deletes a key in one step. The in-memory cache does
// it under its lock, Redis uses GETDEL:
//
//	userID, err := codes.Take(ctx, code)
//	if errors.Is(err, cache.ErrNotFound) {
//	    // unknown, expired or already used
//	}
//
// # Stampede Prevention
//
// [GetOrSet] computes a missing value once even under concurrent misses:
//
//	tpl, err := cache.GetOrSet(ctx, templates, key, func(ctx context.Context) (*mustache.Template, time.Duration, error) {
//	    t, err := mustache.ParseFile(path)
//	    return t, 0, err
//	})
package cache
