package rtsettings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360/rtsettings/ambient"
	"github.com/c360/rtsettings/engine"
	"github.com/c360/rtsettings/filters"
	"github.com/c360/rtsettings/health"
	"github.com/c360/rtsettings/metric"
	"github.com/c360/rtsettings/observer"
	"github.com/c360/rtsettings/providers"
	"github.com/c360/rtsettings/providers/env"
	"github.com/c360/rtsettings/providers/file"
	"github.com/c360/rtsettings/providers/natskv"
	"github.com/c360/rtsettings/providers/remote"
	"github.com/c360/rtsettings/secrets"
)

const (
	envRemoteBaseURL   = "RTSETTINGS_REMOTE_BASE_URL"
	envFilePath        = "RTSETTINGS_FILE_PATH"
	envRunEnv          = "RTSETTINGS_RUN_ENV"
	envSecretIntervals = "RTSETTINGS_SECRET_REFRESH_INTERVALS"
)

// Builder assembles a RuntimeSettings from its collaborators: the
// process's static identity, zero or more providers, an optional secret
// store, and operational tuning. FromEnv seeds it from the four
// reserved environment variables; the With* methods override or extend
// what FromEnv found.
type Builder struct {
	identity *ambient.StaticIdentity
	config   *OperationalConfig

	remoteBaseURL string
	remoteOpts    []remote.Option
	filePath      string
	natsBucket    jetstream.KeyValue

	secretStore     secrets.Store
	secretIntervals map[string]time.Duration

	logger  *slog.Logger
	metrics *metric.Metrics
	health  *health.Monitor

	err error
}

// NewBuilder starts a Builder for a process identified by
// applicationName and host, running under DefaultOperationalConfig.
func NewBuilder(applicationName, host string) *Builder {
	return &Builder{
		identity: ambient.NewStaticIdentity(applicationName, host, nil, nil, ""),
		config:   DefaultOperationalConfig(),
		logger:   slog.Default(),
	}
}

// FromEnv layers the four reserved environment variables onto b:
// RTSETTINGS_REMOTE_BASE_URL, RTSETTINGS_FILE_PATH, RTSETTINGS_RUN_ENV,
// and RTSETTINGS_SECRET_REFRESH_INTERVALS (a JSON object of pattern to
// Go duration string). Unset variables leave the corresponding field
// untouched.
func (b *Builder) FromEnv() *Builder {
	if v := os.Getenv(envRemoteBaseURL); v != "" {
		b.remoteBaseURL = v
	}
	if v := os.Getenv(envFilePath); v != "" {
		b.filePath = v
	}
	if v := os.Getenv(envRunEnv); v != "" {
		b.identity = ambient.NewStaticIdentity(
			b.identity.ApplicationName, b.identity.Host, b.identity.Environment, b.identity.LibraryVersions, v)
	}
	if v := os.Getenv(envSecretIntervals); v != "" {
		raw := make(map[string]string)
		if err := json.Unmarshal([]byte(v), &raw); err != nil {
			b.err = fmt.Errorf("rtsettings: parse %s: %w", envSecretIntervals, err)
			return b
		}
		intervals := make(map[string]time.Duration, len(raw))
		for pattern, durStr := range raw {
			d, err := time.ParseDuration(durStr)
			if err != nil {
				b.err = fmt.Errorf("rtsettings: parse %s[%q]: %w", envSecretIntervals, pattern, err)
				return b
			}
			intervals[pattern] = d
		}
		b.secretIntervals = intervals
	}
	return b
}

// WithOperationalConfig overrides the operational config, e.g. loaded
// via LoadOperationalConfig from an rtsettings.yaml file.
func (b *Builder) WithOperationalConfig(cfg *OperationalConfig) *Builder {
	b.config = cfg
	return b
}

// WithRemote enables the remote provider against baseURL.
func (b *Builder) WithRemote(baseURL string, opts ...remote.Option) *Builder {
	b.remoteBaseURL = baseURL
	b.remoteOpts = opts
	return b
}

// WithFile enables the file provider reading from path.
func (b *Builder) WithFile(path string) *Builder {
	b.filePath = path
	return b
}

// WithNATSKV enables the natskv provider watching bucket.
func (b *Builder) WithNATSKV(bucket jetstream.KeyValue) *Builder {
	b.natsBucket = bucket
	return b
}

// WithSecretStore configures the backing store the secret broker
// fetches from. Omitting this leaves every secret-bearing lookup
// failing with ErrSecretWithoutStore, which is a valid configuration
// for a deployment that carries no secret references.
func (b *Builder) WithSecretStore(store secrets.Store) *Builder {
	b.secretStore = store
	return b
}

// WithLogger overrides the default logger shared by the engine, the
// secret broker, and the change observer.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetrics attaches a metrics sink.
func (b *Builder) WithMetrics(m *metric.Metrics) *Builder {
	b.metrics = m
	return b
}

// WithHealth attaches a health monitor tracking per-provider status.
// Omitting this leaves Health() on the built RuntimeSettings returning
// nil.
func (b *Builder) WithHealth(m *health.Monitor) *Builder {
	b.health = m
	return b
}

// Build constructs the configured providers, starts the secret broker,
// and returns a ready-to-use RuntimeSettings. ctx bounds provider and
// broker startup only, not the returned RuntimeSettings' lifetime.
func (b *Builder) Build(ctx context.Context) (*RuntimeSettings, error) {
	if b.err != nil {
		return nil, b.err
	}

	available := make(map[string]providers.Provider)
	available["env"] = env.New()

	if b.remoteBaseURL != "" {
		available["remote"] = remote.New(b.remoteBaseURL, b.identity.ApplicationName, b.remoteOpts...)
	}
	if b.filePath != "" {
		p, err := file.New(b.filePath)
		if err != nil {
			return nil, fmt.Errorf("rtsettings: build file provider: %w", err)
		}
		available["file"] = p
	}
	if b.natsBucket != nil {
		p, err := natskv.New(ctx, b.natsBucket, natskv.WithLogger(b.logger))
		if err != nil {
			return nil, fmt.Errorf("rtsettings: build natskv provider: %w", err)
		}
		available["natskv"] = p
	}

	var secretOpts []secrets.Option
	secretOpts = append(secretOpts, secrets.WithLogger(b.logger))
	if len(b.secretIntervals) > 0 {
		secretOpts = append(secretOpts, secrets.WithRefreshIntervalOverrides(b.secretIntervals))
	}
	broker, err := secrets.NewBroker(ctx, b.secretStore, b.config.SecretWorkers, b.config.SecretQueueSize, secretOpts...)
	if err != nil {
		return nil, fmt.Errorf("rtsettings: build secret broker: %w", err)
	}

	engineOpts := []engine.Option{
		engine.WithLogger(b.logger),
		engine.WithWatchers(observer.New(observer.WithLogger(b.logger))),
	}
	if b.metrics != nil {
		engineOpts = append(engineOpts, engine.WithMetrics(b.metrics))
	}
	if b.health != nil {
		engineOpts = append(engineOpts, engine.WithHealth(b.health))
	}
	for _, name := range b.config.ProviderOrder {
		if p, ok := available[name]; ok {
			engineOpts = append(engineOpts, engine.WithProvider(p))
		}
	}

	e := engine.New(b.identity, filters.NewRegistry(), broker, engineOpts...)

	return &RuntimeSettings{
		engine:  e,
		broker:  broker,
		period:  b.config.RefreshPeriod,
		timeout: b.config.RefreshTimeout,
	}, nil
}
