package secrets

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu   sync.Mutex
	data map[string]map[string]any
	meta map[string]Metadata
	err  map[string]error
	hits map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data: make(map[string]map[string]any),
		meta: make(map[string]Metadata),
		err:  make(map[string]error),
		hits: make(map[string]int),
	}
}

func (f *fakeStore) set(path string, data map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[path] = data
}

func (f *fakeStore) Read(ctx context.Context, path string) (map[string]any, Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits[path]++
	if err, ok := f.err[path]; ok {
		return nil, Metadata{}, err
	}
	return f.data[path], f.meta[path], nil
}

func (f *fakeStore) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func newTestBroker(t *testing.T, store Store) *Broker {
	t.Helper()
	b, err := NewBroker(context.Background(), store, 2, 16)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close(time.Second) })
	return b
}

func TestGetSyncFetchesOnMiss(t *testing.T) {
	store := newFakeStore()
	store.set("kv/db", map[string]any{"password": "hunter2"})
	b := newTestBroker(t, store)

	v, err := b.GetSync(context.Background(), "kv/db", "password")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", v)
}

func TestGetSyncReusesCachedPayloadAcrossKeys(t *testing.T) {
	store := newFakeStore()
	store.set("kv/db", map[string]any{"user": "app", "password": "hunter2"})
	b := newTestBroker(t, store)

	_, err := b.GetSync(context.Background(), "kv/db", "user")
	require.NoError(t, err)
	_, err = b.GetSync(context.Background(), "kv/db", "password")
	require.NoError(t, err)

	assert.Equal(t, 1, store.hitCount("kv/db"), "second lookup for a different key in the same path must not refetch")
}

func TestGetSyncMissingKey(t *testing.T) {
	store := newFakeStore()
	store.set("kv/db", map[string]any{"user": "app"})
	b := newTestBroker(t, store)

	_, err := b.GetSync(context.Background(), "kv/db", "password")
	assert.Error(t, err)
}

func TestGetSyncNoStoreConfigured(t *testing.T) {
	b := newTestBroker(t, nil)
	_, err := b.GetSync(context.Background(), "kv/db", "password")
	assert.Error(t, err)
}

func TestRefreshBumpsVersionOnceWhenPayloadChanges(t *testing.T) {
	store := newFakeStore()
	store.set("kafka-certificates/broker1", map[string]any{"cert": "v1"})
	store.set("other/path", map[string]any{"v": "1"})
	b := newTestBroker(t, store)

	_, err := b.GetSync(context.Background(), "kafka-certificates/broker1", "cert")
	require.NoError(t, err)
	_, err = b.GetSync(context.Background(), "other/path", "v")
	require.NoError(t, err)

	assert.Equal(t, uint64(0), b.Version())

	// Force both entries to look stale.
	if e, ok := b.cache.Get("kafka-certificates/broker1"); ok {
		e.FetchedAt = time.Now().Add(-time.Hour)
		_, _ = b.cache.Set("kafka-certificates/broker1", e)
	}
	if e, ok := b.cache.Get("other/path"); ok {
		e.FetchedAt = time.Now().Add(-time.Hour)
		_, _ = b.cache.Set("other/path", e)
	}

	store.set("kafka-certificates/broker1", map[string]any{"cert": "v2"})

	b.Refresh(context.Background())
	assert.Equal(t, uint64(1), b.Version())

	b.Refresh(context.Background())
	assert.Equal(t, uint64(1), b.Version(), "no change on second refresh, version stays put")
}

func TestRefreshSkipsEntryWithoutMatchingIntervalPattern(t *testing.T) {
	store := newFakeStore()
	store.set("unrelated/path", map[string]any{"v": "1"})
	b := newTestBroker(t, store)

	_, err := b.GetSync(context.Background(), "unrelated/path", "v")
	require.NoError(t, err)

	if e, ok := b.cache.Get("unrelated/path"); ok {
		e.FetchedAt = time.Now().Add(-24 * time.Hour)
		_, _ = b.cache.Set("unrelated/path", e)
	}

	b.Refresh(context.Background())
	assert.Equal(t, 1, store.hitCount("unrelated/path"), "no matching pattern means the entry is never due")
}

func TestParseIntervalOverrides(t *testing.T) {
	overrides, err := ParseIntervalOverrides(`{"custom-secret": 30}`)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, overrides["custom-secret"])

	_, err = ParseIntervalOverrides("not json")
	assert.Error(t, err)

	overrides, err = ParseIntervalOverrides("")
	require.NoError(t, err)
	assert.Nil(t, overrides)
}
