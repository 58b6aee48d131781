// Package health provides thread-safe health status tracking and
// aggregation for rtsettings' background components: providers, the secret
// broker, and the refresh loop.
//
// # Health states
//
//   - Healthy: operating normally
//   - Degraded: operating with reduced functionality (e.g. one provider
//     failing while others still refresh successfully)
//   - Unhealthy: not functioning (e.g. the refresh loop has not completed a
//     cycle within its configured staleness window)
//
// # Basic usage
//
//	monitor := health.NewMonitor()
//	monitor.UpdateHealthy("refresh-loop", "last cycle 4s ago")
//	monitor.UpdateDegraded("provider:remote", "3 consecutive fetch failures")
//
//	if status, ok := monitor.Get("refresh-loop"); ok && status.IsUnhealthy() {
//	    log.Println("refresh loop stalled")
//	}
//
//	system := monitor.AggregateHealth("rtsettings")
//
// Aggregation follows the conservative "worst case" rule: any unhealthy
// component marks the aggregate unhealthy; otherwise any degraded component
// marks it degraded.
//
// # Provider integration
//
// engine.Engine reports each provider's state as a ProviderHealth value,
// converted with FromProviderHealth; secrets.Broker does not report to a
// Monitor:
//
//	monitor.Update("provider:file", health.FromProviderHealth("provider:file", health.ProviderHealth{
//	    Healthy:      lastErr == nil,
//	    LastError:    errString(lastErr),
//	    ErrorCount:   consecutiveFailures,
//	    LastActivity: lastSuccessfulLoad,
//	}))
//
// # Sanitization
//
// FromProviderHealth sanitizes LastError before it becomes a Status.Message,
// stripping URLs, file paths, IP addresses, ports and anything that looks
// like a credential, so a health endpoint never leaks a secret path or a
// remote provider's base URL.
//
// # Thread safety
//
// Monitor is safe for concurrent use; Status values are immutable, so
// WithMetrics and WithSubStatus return modified copies rather than mutating
// the receiver.
package health
