package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all platform-level metrics for the config engine.
type Metrics struct {
	// Lookup engine metrics
	LookupsTotal    *prometheus.CounterVec
	LookupDuration  *prometheus.HistogramVec
	CacheResults    *prometheus.CounterVec
	FilterEvaluated *prometheus.CounterVec

	// Secret broker metrics
	SecretFetchesTotal  *prometheus.CounterVec
	SecretFetchDuration *prometheus.HistogramVec
	SecretVersion       *prometheus.GaugeVec

	// Entry store / provider refresh metrics
	RefreshDuration  *prometheus.HistogramVec
	RefreshErrors    *prometheus.CounterVec
	ProviderLastLoad *prometheus.GaugeVec

	// Change observer metrics
	ObserverDispatchTotal *prometheus.CounterVec

	// Platform metrics
	ErrorsTotal       *prometheus.CounterVec
	HealthCheckStatus *prometheus.GaugeVec

	// NATS metrics (used by the natskv provider)
	NATSConnected      prometheus.Gauge
	NATSRTT            prometheus.Gauge
	NATSReconnects     prometheus.Counter
	NATSCircuitBreaker prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all platform metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rtsettings",
				Subsystem: "lookup",
				Name:      "total",
				Help:      "Total number of Get/GetSync lookups by key and outcome",
			},
			[]string{"key", "outcome"},
		),

		LookupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "rtsettings",
				Subsystem: "lookup",
				Name:      "duration_seconds",
				Help:      "Lookup engine duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"key"},
		),

		CacheResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rtsettings",
				Subsystem: "cache",
				Name:      "results_total",
				Help:      "Typed cache hits and misses by key",
			},
			[]string{"key", "result"},
		),

		FilterEvaluated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rtsettings",
				Subsystem: "filter",
				Name:      "evaluated_total",
				Help:      "Filter evaluations by filter name and outcome",
			},
			[]string{"filter", "outcome"},
		),

		SecretFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rtsettings",
				Subsystem: "secret",
				Name:      "fetches_total",
				Help:      "Total secret fetches by outcome",
			},
			[]string{"outcome"},
		),

		SecretFetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "rtsettings",
				Subsystem: "secret",
				Name:      "fetch_duration_seconds",
				Help:      "Secret fetch duration in seconds, from GetSync call to result",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),

		SecretVersion: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "rtsettings",
				Subsystem: "secret",
				Name:      "cache_version",
				Help:      "Monotonic version counter of a secret's cache entry",
			},
			[]string{"path"},
		),

		RefreshDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "rtsettings",
				Subsystem: "refresh",
				Name:      "duration_seconds",
				Help:      "Provider refresh duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),

		RefreshErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rtsettings",
				Subsystem: "refresh",
				Name:      "errors_total",
				Help:      "Total provider refresh errors",
			},
			[]string{"provider"},
		),

		ProviderLastLoad: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "rtsettings",
				Subsystem: "refresh",
				Name:      "last_success_unixtime",
				Help:      "Unix timestamp of the last successful provider refresh",
			},
			[]string{"provider"},
		),

		ObserverDispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rtsettings",
				Subsystem: "observer",
				Name:      "dispatch_total",
				Help:      "Change observer callback dispatches by key and outcome",
			},
			[]string{"key", "outcome"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rtsettings",
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of errors by component and type",
			},
			[]string{"component", "type"},
		),

		HealthCheckStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "rtsettings",
				Subsystem: "health",
				Name:      "status",
				Help:      "Health check status (0=unhealthy, 1=healthy)",
			},
			[]string{"check"},
		),

		NATSConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "rtsettings",
				Subsystem: "nats",
				Name:      "connected",
				Help:      "NATS connection status (0=disconnected, 1=connected)",
			},
		),

		NATSRTT: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "rtsettings",
				Subsystem: "nats",
				Name:      "rtt_milliseconds",
				Help:      "NATS round-trip time in milliseconds",
			},
		),

		NATSReconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "rtsettings",
				Subsystem: "nats",
				Name:      "reconnects_total",
				Help:      "Total number of NATS reconnections",
			},
		),

		NATSCircuitBreaker: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "rtsettings",
				Subsystem: "nats",
				Name:      "circuit_breaker",
				Help:      "NATS circuit breaker status (0=closed, 1=open, 2=half-open)",
			},
		),
	}
}

// RecordLookup records a lookup outcome ("hit", "miss", "default", "error").
func (c *Metrics) RecordLookup(key, outcome string, duration time.Duration) {
	c.LookupsTotal.WithLabelValues(key, outcome).Inc()
	c.LookupDuration.WithLabelValues(key).Observe(duration.Seconds())
}

// RecordCacheResult records a typed-cache hit or miss.
func (c *Metrics) RecordCacheResult(key, result string) {
	c.CacheResults.WithLabelValues(key, result).Inc()
}

// RecordFilterEvaluated records a filter evaluation outcome.
func (c *Metrics) RecordFilterEvaluated(filter, outcome string) {
	c.FilterEvaluated.WithLabelValues(filter, outcome).Inc()
}

// RecordSecretFetch records a secret fetch outcome and its duration.
func (c *Metrics) RecordSecretFetch(outcome string, duration time.Duration) {
	c.SecretFetchesTotal.WithLabelValues(outcome).Inc()
	c.SecretFetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordSecretVersion updates the cache version gauge for a secret path.
func (c *Metrics) RecordSecretVersion(path string, version uint64) {
	c.SecretVersion.WithLabelValues(path).Set(float64(version))
}

// RecordRefresh records a provider refresh outcome.
func (c *Metrics) RecordRefresh(provider string, duration time.Duration, err error) {
	c.RefreshDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if err != nil {
		c.RefreshErrors.WithLabelValues(provider).Inc()
		return
	}
	c.ProviderLastLoad.WithLabelValues(provider).Set(float64(time.Now().Unix()))
}

// RecordObserverDispatch records a change-observer callback dispatch outcome.
func (c *Metrics) RecordObserverDispatch(key, outcome string) {
	c.ObserverDispatchTotal.WithLabelValues(key, outcome).Inc()
}

// RecordError increments the error counter.
func (c *Metrics) RecordError(component, errorType string) {
	c.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// RecordHealthStatus updates a named health check's status.
func (c *Metrics) RecordHealthStatus(check string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	c.HealthCheckStatus.WithLabelValues(check).Set(value)
}

// RecordNATSStatus updates NATS connection status
func (c *Metrics) RecordNATSStatus(connected bool) {
	value := 0.0
	if connected {
		value = 1.0
	}
	c.NATSConnected.Set(value)
}

// RecordNATSRTT updates NATS round-trip time
func (c *Metrics) RecordNATSRTT(rtt time.Duration) {
	c.NATSRTT.Set(float64(rtt.Milliseconds()))
}

// RecordNATSReconnect increments reconnection counter
func (c *Metrics) RecordNATSReconnect() {
	c.NATSReconnects.Inc()
}

// RecordCircuitBreakerState updates circuit breaker status
func (c *Metrics) RecordCircuitBreakerState(state int) {
	c.NATSCircuitBreaker.Set(float64(state))
}
