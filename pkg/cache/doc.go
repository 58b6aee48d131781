// Package cache provides a generic, thread-safe concurrent map used as the
// building block for rtsettings' two caching needs: the secret broker's
// full-payload-per-path cache and the lookup engine's per-entry typed value
// cache.
//
// Unlike the wider cache taxonomy this package is descended from, rtsettings
// needs no per-key expiry or LRU eviction: secret payloads live until their
// broker explicitly refreshes or evicts them, and typed lookup values live
// until a secret-version bump invalidates the whole entry's cache in one
// shot. So this package keeps only the eviction-free map plus the always-on
// Statistics tracker, and drops the TTL/LRU/Hybrid variants entirely.
//
// # Basic usage
//
//	c, _ := cache.New[secretPayload]()
//	c.Set("secret/db/password", payload)
//	v, ok := c.Get("secret/db/password")
//	c.Clear() // e.g. on a secret version bump
//
// # Metrics
//
// Passing WithMetrics attaches Prometheus counters/gauges under the
// "rtsettings_cache" subsystem, tagged with a caller-supplied component
// label, mirroring how the rest of this repo makes instrumentation optional
// but cheap to opt into.
package cache
