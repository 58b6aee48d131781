// Package natskv is a supplemental provider watching a NATS JetStream KV
// bucket for live configuration pushes, translating bucket entries into
// the same record shape the poll-based providers produce. It does not
// replace the required HTTP polling provider; a caller can run both.
package natskv

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360/rtsettings/errors"
	"github.com/c360/rtsettings/providers"
)

const providerName = "natskv"

// DefaultPriority mirrors the remote provider's slot: a push feed sits
// alongside the poll-based one rather than above or below it.
const DefaultPriority int64 = 0

type wireValue struct {
	Priority *int64            `json:"priority,omitempty"`
	Filter   map[string]string `json:"filter,omitempty"`
	Value    any               `json:"value"`
}

// Provider accumulates KV watch events between Load calls, so the
// engine's poll loop can consume push updates on its own schedule.
type Provider struct {
	bucket   jetstream.KeyValue
	priority int64
	logger   *slog.Logger

	mu       sync.Mutex
	pending  map[string]providers.RawRecord
	deleted  map[string]providers.Deletion
	version  atomic.Uint64
	watcher  jetstream.KeyWatcher
	watchErr atomic.Value // stores error, if the watch goroutine died
}

// Option configures a Provider at construction.
type Option func(*Provider)

// WithLogger overrides the default no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

// New builds a Provider watching every key in bucket. Watching starts
// immediately; Load drains whatever has accumulated since the previous
// call.
func New(ctx context.Context, bucket jetstream.KeyValue, opts ...Option) (*Provider, error) {
	p := &Provider{
		bucket:   bucket,
		priority: DefaultPriority,
		logger:   slog.Default(),
		pending:  make(map[string]providers.RawRecord),
		deleted:  make(map[string]providers.Deletion),
	}
	for _, opt := range opts {
		opt(p)
	}

	watcher, err := bucket.WatchAll(ctx, jetstream.UpdatesOnly())
	if err != nil {
		return nil, errors.WrapTransient(err, "natskv", "New", "watch bucket")
	}
	p.watcher = watcher

	go p.consume()

	return p, nil
}

// Name implements providers.Provider.
func (p *Provider) Name() string { return providerName }

// DefaultPriority implements providers.Provider.
func (p *Provider) DefaultPriority() int64 { return p.priority }

// Load implements providers.Provider. It ignores lastVersion, since the
// watcher already tracks exactly what has changed since the last drain.
func (p *Provider) Load(ctx context.Context, lastVersion string) (providers.LoadResult, error) {
	if v, ok := p.watchErr.Load().(error); ok && v != nil {
		return providers.LoadResult{}, errors.WrapTransient(v, "natskv", "Load", "watcher stopped")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	records := make([]providers.RawRecord, 0, len(p.pending))
	for _, r := range p.pending {
		records = append(records, r)
	}
	deletions := make([]providers.Deletion, 0, len(p.deleted))
	for _, d := range p.deleted {
		deletions = append(deletions, d)
	}

	if len(records) > 0 || len(deletions) > 0 {
		p.version.Add(1)
	}
	p.pending = make(map[string]providers.RawRecord)
	p.deleted = make(map[string]providers.Deletion)

	return providers.LoadResult{
		Records:   records,
		Deletions: deletions,
		Version:   strconv.FormatUint(p.version.Load(), 10),
	}, nil
}

// Close stops the underlying watcher.
func (p *Provider) Close() error {
	if p.watcher == nil {
		return nil
	}
	return p.watcher.Stop()
}

func (p *Provider) consume() {
	for entry := range p.watcher.Updates() {
		if entry == nil {
			continue // marks "caught up", nothing to do
		}
		p.applyEntry(entry)
	}
}

func (p *Provider) applyEntry(entry jetstream.KeyValueEntry) {
	name := entry.Key()

	p.mu.Lock()
	defer p.mu.Unlock()

	switch entry.Operation() {
	case jetstream.KeyValueDelete, jetstream.KeyValuePurge:
		delete(p.pending, name)
		p.deleted[name] = providers.Deletion{Name: name, Priority: p.priority}
	default:
		var wire wireValue
		if err := json.Unmarshal(entry.Value(), &wire); err != nil {
			p.logger.Warn("natskv: dropping malformed entry", "key", name, "error", err)
			return
		}
		priority := p.priority
		if wire.Priority != nil {
			priority = *wire.Priority
		}
		delete(p.deleted, name)
		p.pending[name] = providers.RawRecord{
			Name:     name,
			Priority: priority,
			Filter:   wire.Filter,
			Value:    wire.Value,
		}
	}
}
