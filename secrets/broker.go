package secrets

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/c360/rtsettings/document"
	"github.com/c360/rtsettings/errors"
	"github.com/c360/rtsettings/pkg/cache"
	"github.com/c360/rtsettings/pkg/worker"
)

// fetchJob is submitted to the bridge pool for every cache miss.
type fetchJob struct {
	ctx    context.Context
	path   string
	result chan fetchOutcome
}

type fetchOutcome struct {
	payload map[string]any
	lease   *Lease
	err     error
}

// Broker is the secret broker: a payload cache plus a synchronous-caller
// bridge onto asynchronous fetches, and a monotone version counter the
// lookup engine consults to decide whether an entry's typed cache is
// stale.
type Broker struct {
	store     Store
	cache     *cache.Map[*CacheEntry]
	version   atomic.Uint64
	pool      *worker.Pool[fetchJob]
	intervals map[string]time.Duration
	logger    *slog.Logger
}

// Option configures a Broker at construction.
type Option func(*Broker)

// WithLogger overrides the broker's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broker) { b.logger = logger }
}

// WithRefreshIntervalOverrides overlays overrides on top of the two
// compiled-in defaults (kafka-certificates, interservice-auth).
func WithRefreshIntervalOverrides(overrides map[string]time.Duration) Option {
	return func(b *Broker) { b.intervals = mergeIntervals(overrides) }
}

// NewBroker builds and starts a Broker backed by store, bridging synchronous
// gets onto a worker.Pool of the given size. store may be nil — every
// secret-bearing lookup then fails with ErrSecretWithoutStore rather than
// at construction time, matching the lookup-level "no store configured"
// error kind.
func NewBroker(ctx context.Context, store Store, workers, queueSize int, opts ...Option) (*Broker, error) {
	m, err := cache.New[*CacheEntry]()
	if err != nil {
		return nil, err
	}

	b := &Broker{
		store:     store,
		cache:     m,
		intervals: mergeIntervals(nil),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	pool, err := worker.NewPool(workers, queueSize, b.processFetch)
	if err != nil {
		return nil, err
	}
	if err := pool.Start(ctx); err != nil {
		return nil, err
	}
	b.pool = pool

	return b, nil
}

// Close stops the bridge pool, waiting up to timeout for in-flight
// fetches to finish.
func (b *Broker) Close(timeout time.Duration) error {
	return b.pool.Stop(timeout)
}

// Version returns the broker's current monotone version counter.
func (b *Broker) Version() uint64 {
	return b.version.Load()
}

// GetSync returns the key field from the cached payload at path,
// performing a synchronous-looking fetch on cache miss. The fetch itself
// runs on the bridge pool so the caller's own goroutine is never asked to
// perform the network round trip inline.
func (b *Broker) GetSync(ctx context.Context, path, key string) (any, error) {
	if b.store == nil {
		return nil, errors.WrapInvalid(errors.ErrSecretWithoutStore, "secrets", "GetSync", path)
	}

	if entry, ok := b.cache.Get(path); ok {
		return extractKey(entry, key)
	}

	result := make(chan fetchOutcome, 1)
	if err := b.pool.Submit(fetchJob{ctx: ctx, path: path, result: result}); err != nil {
		return nil, errors.WrapTransient(err, "secrets", "GetSync", "submit fetch job")
	}

	select {
	case outcome := <-result:
		if outcome.err != nil {
			return nil, outcome.err
		}
		entry := &CacheEntry{Payload: outcome.payload, FetchedAt: time.Now(), Lease: outcome.lease}
		_, _ = b.cache.Set(path, entry)
		return extractKey(entry, key)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func extractKey(entry *CacheEntry, key string) (any, error) {
	v, ok := entry.Payload[key]
	if !ok {
		return nil, errors.WrapInvalid(errors.ErrSecretKeyNotFound, "secrets", "extractKey", key)
	}
	return v, nil
}

func (b *Broker) processFetch(ctx context.Context, job fetchJob) error {
	data, meta, err := b.store.Read(ctx, job.path)
	if err != nil {
		job.result <- fetchOutcome{err: err}
		return err
	}
	job.result <- fetchOutcome{payload: data, lease: meta.Lease}
	return nil
}

// Refresh walks the cache and re-fetches entries due for a refresh:
// lease-bearing entries at 0.75 of their lease duration, others per the
// path-pattern interval map. Per-secret failures are logged and do not
// abort the cycle. The version counter advances at most once per call,
// regardless of how many entries changed.
func (b *Broker) Refresh(ctx context.Context) {
	if b.store == nil {
		return
	}

	changed := false
	for _, path := range b.cache.Keys() {
		entry, ok := b.cache.Get(path)
		if !ok || !b.dueForRefresh(path, entry) {
			continue
		}

		data, meta, err := b.store.Read(ctx, path)
		if err != nil {
			b.logger.Warn("secret refresh failed", "path", path, "error", err)
			continue
		}

		if !document.Equal(entry.Payload, data) {
			changed = true
		}
		_, _ = b.cache.Set(path, &CacheEntry{Payload: data, FetchedAt: time.Now(), Lease: meta.Lease})
	}

	if changed {
		b.version.Add(1)
	}
}

func (b *Broker) dueForRefresh(path string, entry *CacheEntry) bool {
	elapsed := time.Since(entry.FetchedAt)
	if entry.Lease != nil && entry.Lease.Duration > 0 {
		return elapsed >= time.Duration(0.75*float64(entry.Lease.Duration))
	}
	interval, ok := b.matchInterval(path)
	if !ok {
		return false
	}
	return elapsed >= interval
}

func (b *Broker) matchInterval(path string) (time.Duration, bool) {
	for pattern, interval := range b.intervals {
		if strings.Contains(path, pattern) {
			return interval, true
		}
	}
	return 0, false
}
