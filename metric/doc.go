// Package metric provides Prometheus-based metrics collection and an HTTP
// server for rtsettings observability.
//
// The package offers a centralized metrics registry managing both core
// engine metrics (lookups, cache hit rate, secret fetch latency, provider
// refresh outcomes) and component-specific metrics registered by callers.
// It includes an HTTP server exposing metrics in Prometheus format.
//
// # Architecture
//
// The package follows a three-layer design:
//
//  1. Core Metrics: engine-level metrics automatically registered (Metrics type)
//  2. Component Registry: extensible registration for caller metrics (MetricsRegistrar interface)
//  3. HTTP Server: metrics endpoint with a health check (Server type)
//
// This separates infrastructure concerns (core metrics) from application
// concerns (component-specific metrics) while providing a unified metrics
// endpoint for monitoring systems.
//
// # Basic usage
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//
//	go func() {
//	    if err := server.Start(); err != nil && err != http.ErrServerClosed {
//	        log.Printf("metrics server error: %v", err)
//	    }
//	}()
//
//	coreMetrics := registry.CoreMetrics()
//	coreMetrics.RecordLookup("feature.checkout_v2", "hit", 40*time.Microsecond)
//	coreMetrics.RecordSecretFetch("success", 12*time.Millisecond)
//
// # Naming
//
// All core metrics use the namespace "rtsettings" and a subsystem per
// component:
//
//   - rtsettings_lookup_total{key="...",outcome="hit|miss|default|error"}
//   - rtsettings_cache_results_total{key="...",result="hit|miss"}
//   - rtsettings_secret_fetches_total{outcome="success|not_found|timeout|error"}
//   - rtsettings_secret_cache_version{path="..."}
//   - rtsettings_refresh_duration_seconds{provider="..."}
//   - rtsettings_observer_dispatch_total{key="...",outcome="delivered|panicked"}
//
// # Thread safety
//
// MetricsRegistry is safe for concurrent registration; the Metrics type's
// Record* methods are safe for concurrent use, backed by Prometheus's own
// thread-safe collector implementations.
package metric
