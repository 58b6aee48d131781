package rtsettings

import (
	"context"
	"time"

	"github.com/c360/rtsettings/engine"
	"github.com/c360/rtsettings/health"
	"github.com/c360/rtsettings/observer"
	"github.com/c360/rtsettings/secrets"
)

// RuntimeSettings is the assembled, ready-to-use configuration core: an
// engine bound to its providers and secret broker, plus the refresh
// cadence a Builder resolved from operational config.
type RuntimeSettings struct {
	engine  *engine.Engine
	broker  *secrets.Broker
	period  time.Duration
	timeout time.Duration
}

// Get resolves name to a value of type T under the ambient context
// carried by ctx. See engine.Get for the full lookup algorithm.
//
// Get cannot be a method: Go does not allow type parameters on methods.
func Get[T any](ctx context.Context, rs *RuntimeSettings, name string) (T, bool) {
	return engine.Get[T](ctx, rs.engine, name)
}

// GetOr behaves like Get but returns def when name has no applicable
// entry, without inserting into any cache.
func GetOr[T any](ctx context.Context, rs *RuntimeSettings, name string, def T) T {
	return engine.GetOr[T](ctx, rs.engine, name, def)
}

// Watchers returns the change observer, for callback registration.
func (rs *RuntimeSettings) Watchers() *observer.Watchers { return rs.engine.Watchers() }

// Health returns the engine's health monitor, or nil if the Builder was
// never given one via WithHealth.
func (rs *RuntimeSettings) Health() *health.Monitor { return rs.engine.Health() }

// Init runs one refresh cycle synchronously, so the first Get after
// Init sees a populated store rather than an empty one.
func (rs *RuntimeSettings) Init(ctx context.Context) error {
	return rs.engine.RefreshWithTimeout(ctx, rs.timeout)
}

// Refresh runs one refresh cycle bounded by the configured refresh
// timeout.
func (rs *RuntimeSettings) Refresh(ctx context.Context) error {
	return rs.engine.RefreshWithTimeout(ctx, rs.timeout)
}

// Run blocks, refreshing on the configured period until ctx is done.
// Intended to run on its own goroutine.
func (rs *RuntimeSettings) Run(ctx context.Context) {
	rs.engine.RunLoop(ctx, rs.period)
}

// Close stops the secret broker's fetch bridge, waiting up to timeout
// for in-flight fetches to finish.
func (rs *RuntimeSettings) Close(timeout time.Duration) error {
	return rs.broker.Close(timeout)
}
