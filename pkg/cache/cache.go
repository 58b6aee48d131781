package cache

import (
	"time"

	"github.com/c360/rtsettings/errors"
)

// Cache is the generic interface satisfied by the map implementation in
// this package. Parameterizing by value type keeps callers (secret payload
// maps, typed lookup values) from having to cast out of interface{}.
type Cache[V any] interface {
	// Get retrieves a value by key. Returns the value and true if found.
	Get(key string) (V, bool)

	// Set stores a value with the given key. Returns true if a new entry
	// was created, false if an existing one was updated.
	Set(key string, value V) (bool, error)

	// Delete removes an entry by key. Returns true if the key existed.
	Delete(key string) (bool, error)

	// Clear removes all entries from the cache.
	Clear()

	// Size returns the current number of entries in the cache.
	Size() int

	// Keys returns a slice of all keys currently in the cache.
	Keys() []string

	// Stats returns the cache's usage statistics. Never nil.
	Stats() *Statistics
}

// EvictCallback is invoked when an entry is removed via Delete or Clear.
type EvictCallback[V any] func(key string, value V)

// Entry describes a single cached value together with the bookkeeping
// timestamps the broker and engine use for observability.
type Entry[V any] struct {
	Key        string
	Value      V
	CreatedAt  time.Time
	AccessedAt time.Time
}

// Touch refreshes the entry's last-accessed timestamp.
func (e *Entry[V]) Touch() {
	e.AccessedAt = time.Now()
}

func validateKey(key string) error {
	if key == "" {
		return errors.WrapInvalid(errors.ErrInvalidInput, "cache", "validateKey", "key cannot be empty")
	}
	return nil
}
