package store

import (
	"reflect"

	"github.com/c360/rtsettings/pkg/cache"
)

// TypedCache maps a type token (the target decoded type's reflected
// identity) to a shared handle over the value already decoded into that
// type. It is eviction-free: entries only leave through Clear, triggered
// by a secret-version change on the owning entry.
type TypedCache struct {
	values *cache.Map[any]
}

// NewTypedCache builds an empty TypedCache.
func NewTypedCache() *TypedCache {
	m, _ := cache.New[any]() // New only errors on option misuse; none supplied here
	return &TypedCache{values: m}
}

func typeToken[T any]() string {
	var zero T
	return reflect.TypeOf(&zero).Elem().String()
}

// GetTyped probes the cache for T's type token.
func GetTyped[T any](c *TypedCache) (T, bool) {
	var zero T
	v, ok := c.values.Get(typeToken[T]())
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// SetTyped inserts value under T's type token. Concurrent SetTyped calls
// for the same type are idempotent — the store guarantees the decoded
// content is equivalent regardless of which write wins.
func SetTyped[T any](c *TypedCache, value T) {
	_, _ = c.values.Set(typeToken[T](), value)
}

// Clear evicts every cached typed handle.
func (c *TypedCache) Clear() {
	c.values.Clear()
}
