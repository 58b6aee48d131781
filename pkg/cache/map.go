package cache

import (
	"sync"

	"github.com/c360/rtsettings/errors"
)

// Map is a thread-safe cache with no eviction policy of its own; entries
// live until the caller explicitly Deletes them or Clears the whole map.
// This is the shape both the secret broker (payloads keyed by vault path)
// and the lookup engine's typed cache (values keyed by a type-token string)
// need: neither wants per-key expiry, they want an explicit, wholesale
// invalidation trigger on a secret version bump.
type Map[V any] struct {
	mu      sync.RWMutex
	items   map[string]V
	stats   *Statistics
	metrics *cacheMetrics
	evictFn EvictCallback[V]
}

// New creates a new Map. Returns an error only if metrics registration was
// requested and failed.
func New[V any](opts ...Option[V]) (*Map[V], error) {
	o := applyOptions(opts...)

	var metrics *cacheMetrics
	if o.metricsReg != nil && o.metricsPrefix != "" {
		var err error
		metrics, err = newCacheMetrics(o.metricsReg, o.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "cache", "New", "metrics registration")
		}
	}

	return &Map[V]{
		items:   make(map[string]V),
		stats:   NewStatistics(),
		metrics: metrics,
		evictFn: o.evictCallback,
	}, nil
}

// Get retrieves a value by key.
func (m *Map[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	value, exists := m.items[key]
	m.mu.RUnlock()

	if exists {
		m.stats.Hit()
		if m.metrics != nil {
			m.metrics.recordHit()
		}
	} else {
		m.stats.Miss()
		if m.metrics != nil {
			m.metrics.recordMiss()
		}
	}

	return value, exists
}

// Set stores a value with the given key. Returns true if a new entry was
// created, false if an existing one was overwritten.
func (m *Map[V]) Set(key string, value V) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	m.mu.Lock()
	_, existed := m.items[key]
	m.items[key] = value
	size := len(m.items)
	m.mu.Unlock()

	m.stats.Set()
	m.stats.UpdateSize(int64(size))
	if m.metrics != nil {
		m.metrics.recordSet()
		m.metrics.updateSize(size)
	}

	return !existed, nil
}

// Delete removes an entry by key. Returns true if the key existed.
func (m *Map[V]) Delete(key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	m.mu.Lock()
	value, existed := m.items[key]
	if existed {
		delete(m.items, key)
	}
	size := len(m.items)
	m.mu.Unlock()

	if !existed {
		return false, nil
	}

	if m.evictFn != nil {
		m.evictFn(key, value)
	}

	m.stats.Delete()
	m.stats.UpdateSize(int64(size))
	if m.metrics != nil {
		m.metrics.recordDelete()
		m.metrics.updateSize(size)
	}

	return true, nil
}

// Clear removes all entries, invoking the eviction callback for each one
// removed. This is the operation the lookup engine's per-entry typed cache
// calls on a secret version bump; the secret broker does not call it.
func (m *Map[V]) Clear() {
	m.mu.Lock()
	cleared := m.items
	m.items = make(map[string]V)
	m.mu.Unlock()

	if m.evictFn != nil {
		for k, v := range cleared {
			m.evictFn(k, v)
		}
	}

	m.stats.UpdateSize(0)
	if m.metrics != nil {
		m.metrics.updateSize(0)
	}
}

// Size returns the current number of entries.
func (m *Map[V]) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Keys returns a snapshot of all keys currently in the map.
func (m *Map[V]) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys
}

// Stats returns the map's usage statistics. Never nil.
func (m *Map[V]) Stats() *Statistics {
	return m.stats
}

var _ Cache[struct{}] = (*Map[struct{}])(nil)
