// Package redis opens the Redis client shared by the session store and the
// authorization code store when the router runs with SESSION_STORE=redis.
//
// Settings come from the environment through [Config]:
//
//	REDIS_URL             - redis:// or rediss:// URL (required for the redis store)
//	REDIS_POOL_SIZE       - maximum connections (default: 10)
//	REDIS_RETRY_ATTEMPTS  - startup ping attempts (default: 3)
//	REDIS_RETRY_INTERVAL  - base retry interval (default: 2s)
//
// [Healthcheck] plugs into the readiness endpoint and [Shutdown] into the
// server's shutdown hooks.
package redis
