// Package secrets implements the secret broker: a payload cache keyed by
// vault path, a synchronous Get bridged onto asynchronous fetches through
// a worker.Pool, and a background Refresh that re-fetches stale entries
// and bumps a monotone version counter used by the lookup engine's
// cache-invalidation check.
package secrets
