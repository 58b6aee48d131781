package secrets

import "time"

// CacheEntry is the broker's per-path cache slot: the full payload last
// fetched, when it was fetched, and its lease, if any.
type CacheEntry struct {
	Payload   map[string]any
	FetchedAt time.Time
	Lease     *Lease
}
