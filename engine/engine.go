package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/rtsettings/ambient"
	"github.com/c360/rtsettings/document"
	"github.com/c360/rtsettings/errors"
	"github.com/c360/rtsettings/filters"
	"github.com/c360/rtsettings/health"
	"github.com/c360/rtsettings/metric"
	"github.com/c360/rtsettings/observer"
	"github.com/c360/rtsettings/providers"
	"github.com/c360/rtsettings/secrets"
	"github.com/c360/rtsettings/store"
)

// Engine is the lookup and refresh orchestrator: the entry store, the
// registered providers, the predicate compiler, the secret broker, and
// the change observer, wired together.
type Engine struct {
	store     *store.Store
	providers []providers.Provider
	compiler  *filters.Compiler
	identity  *ambient.StaticIdentity
	secrets   *secrets.Broker
	watchers  *observer.Watchers
	metrics   *metric.Metrics
	health    *health.Monitor
	logger    *slog.Logger

	versionsMu sync.Mutex
	versions   map[string]string

	providerStateMu sync.Mutex
	providerStarted map[string]time.Time
	providerErrors  map[string]int
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithProvider registers a provider. Providers are consulted by Refresh
// in the order they were registered; that order governs (name,
// priority) collisions across providers.
func WithProvider(p providers.Provider) Option {
	return func(e *Engine) { e.providers = append(e.providers, p) }
}

// WithMetrics attaches a metrics sink; nil (the default) disables
// metrics recording.
func WithMetrics(m *metric.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithWatchers overrides the default, freshly constructed observer.
// Exposed mainly so a caller can hold onto the same *observer.Watchers
// to register callbacks against.
func WithWatchers(w *observer.Watchers) Option {
	return func(e *Engine) { e.watchers = w }
}

// WithHealth attaches a health monitor; nil (the default) disables
// per-provider health tracking.
func WithHealth(m *health.Monitor) Option {
	return func(e *Engine) { e.health = m }
}

// New builds an Engine over identity and broker. broker must not be
// nil — construct one with secrets.NewBroker even when no secret store
// adapter is configured; the broker itself tolerates a nil store,
// failing secret-bearing lookups individually rather than at
// construction.
func New(identity *ambient.StaticIdentity, registry *filters.Registry, broker *secrets.Broker, opts ...Option) *Engine {
	e := &Engine{
		store:           store.New(),
		compiler:        filters.NewCompiler(registry),
		identity:        identity,
		secrets:         broker,
		watchers:        observer.New(),
		logger:          slog.Default(),
		versions:        make(map[string]string),
		providerStarted: make(map[string]time.Time),
		providerErrors:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Watchers returns the engine's change observer, for callback
// registration.
func (e *Engine) Watchers() *observer.Watchers { return e.watchers }

// Store returns the engine's entry store. Exposed for diagnostics and
// tests; callers should use Get/GetOr for lookups.
func (e *Engine) Store() *store.Store { return e.store }

// Health returns the engine's health monitor, or nil if none was
// attached via WithHealth.
func (e *Engine) Health() *health.Monitor { return e.health }

type providerResult struct {
	provider providers.Provider
	result   providers.LoadResult
	err      error
}

// Refresh runs one full refresh cycle: loads every provider, compiles
// and merges surviving records, runs the secret broker's own refresh,
// and dispatches change-observer callbacks. Per-provider load failures
// are isolated — logged and skipped, never propagated.
//
// ctx is checked once, after every provider's Load has returned and
// before any record is compiled or merged: if it is already done,
// nothing from the cycle is applied and an error is returned. It is not
// checked again after that point; records are then merged one at a
// time, each store Merge/Delete atomic on its own, so a concurrent
// reader can observe part of a cycle's changes before the rest.
func (e *Engine) Refresh(ctx context.Context) error {
	results := e.loadProviders(ctx)

	if err := ctx.Err(); err != nil {
		return errors.WrapTransient(err, "engine", "Refresh", "context done before apply")
	}

	for _, r := range results {
		if r.err != nil {
			e.logger.Warn("engine: provider load failed", "provider", r.provider.Name(), "error", r.err)
			continue
		}
		e.applyResult(r.provider, r.result)
	}

	e.secrets.Refresh(ctx)
	e.watchers.Refresh(e.resolveSnapshot)

	return nil
}

// RefreshWithTimeout runs Refresh bounded by timeout, returning a
// timeout error if the cycle did not complete in time.
func (e *Engine) RefreshWithTimeout(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := e.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return errors.WrapTransient(errors.ErrTimeout, "engine", "RefreshWithTimeout", "refresh cycle exceeded bound")
		}
		return err
	}
	return nil
}

// RunLoop calls Refresh on a fixed period until ctx is done. Refresh
// errors are logged and do not stop the loop.
func (e *Engine) RunLoop(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.Refresh(ctx); err != nil {
				e.logger.Warn("engine: refresh cycle failed", "error", err)
			}
		}
	}
}

func (e *Engine) loadProviders(ctx context.Context) []providerResult {
	results := make([]providerResult, len(e.providers))

	var g errgroup.Group
	for i, p := range e.providers {
		i, p := i, p
		g.Go(func() error {
			e.versionsMu.Lock()
			lastVersion := e.versions[p.Name()]
			e.versionsMu.Unlock()

			start := time.Now()
			result, err := p.Load(ctx, lastVersion)
			if e.metrics != nil {
				e.metrics.RecordRefresh(p.Name(), time.Since(start), err)
			}
			e.recordProviderHealth(p.Name(), err)
			results[i] = providerResult{provider: p, result: result, err: err}
			return nil // isolated: never fail the group for one provider's error
		})
	}
	_ = g.Wait()

	return results
}

// recordProviderHealth updates the attached health monitor, if any, with
// this provider's outcome: consecutive error count and last-activity
// timestamp on success, incremented error count and message on failure.
func (e *Engine) recordProviderHealth(name string, err error) {
	if e.health == nil {
		return
	}

	e.providerStateMu.Lock()
	started, ok := e.providerStarted[name]
	if !ok {
		started = time.Now()
		e.providerStarted[name] = started
	}
	if err != nil {
		e.providerErrors[name]++
	} else {
		e.providerErrors[name] = 0
	}
	errCount := e.providerErrors[name]
	e.providerStateMu.Unlock()

	ph := health.ProviderHealth{
		Healthy:      err == nil,
		ErrorCount:   errCount,
		Uptime:       time.Since(started),
		LastActivity: time.Now(),
	}
	if err != nil {
		ph.LastError = err.Error()
	}
	e.health.Update(name, health.FromProviderHealth(name, ph))
}

func (e *Engine) applyResult(p providers.Provider, result providers.LoadResult) {
	for _, raw := range result.Records {
		entry, applicable, err := e.compile(raw)
		if err != nil {
			e.logger.Warn("engine: dropping record", "name", raw.Name, "provider", p.Name(), "error", err)
			continue
		}
		if !applicable {
			continue
		}
		e.store.Merge(entry)
	}

	for _, d := range result.Deletions {
		e.store.Delete(d.Name, d.Priority)
	}

	e.versionsMu.Lock()
	e.versions[p.Name()] = result.Version
	e.versionsMu.Unlock()
}

// compile turns a raw record into a CompiledEntry, reporting applicable
// = false when the record's load-time predicates reject it for this
// process's static identity (not an error — just not applicable here).
func (e *Engine) compile(raw providers.RawRecord) (*store.CompiledEntry, bool, error) {
	staticChecks, dynamicChecks, err := e.compiler.Compile(raw.Filter)
	if err != nil {
		return nil, false, err
	}

	usages, err := document.FindSecretUsages(raw.Value)
	if err != nil {
		return nil, false, err
	}

	entry := store.NewCompiledEntry(raw.Name, raw.Priority, raw.Value, staticChecks, dynamicChecks, usages)
	if !entry.EvaluateStatic(e.identity) {
		return nil, false, nil
	}
	return entry, true, nil
}

// resolveSnapshot computes the change observer's notion of a name's
// current effective value: the entry that would win under an empty
// ambient context, decoded to its raw document (no typed decode, no
// secret substitution — a value document with unresolved secret
// references still compares structurally equal across refreshes as
// long as none of its references changed).
func (e *Engine) resolveSnapshot(name string) observer.Snapshot {
	seq, ok := e.store.Lookup(name)
	if !ok {
		return observer.Snapshot{}
	}

	empty := &ambient.PerCallContext{}
	for _, entry := range seq {
		if entry.EvaluateDynamic(empty) {
			return observer.Snapshot{Present: true, Value: entry.Value}
		}
	}
	return observer.Snapshot{}
}
