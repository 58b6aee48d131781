package rtsettings

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// OperationalConfig is this repository's own bootstrap configuration —
// refresh cadence, worker sizing, provider order — as opposed to the
// wire-format config records the providers fetch. It is deliberately a
// different serialization (YAML, not JSON): the record wire format is
// dictated by the providers' own contracts, while this file is free to
// follow local convention.
type OperationalConfig struct {
	RefreshPeriod   time.Duration `yaml:"refresh_period"`
	RefreshTimeout  time.Duration `yaml:"refresh_timeout"`
	SecretWorkers   int           `yaml:"secret_workers"`
	SecretQueueSize int           `yaml:"secret_queue_size"`
	ProviderOrder   []string      `yaml:"provider_order"`
}

// DefaultOperationalConfig returns the built-in defaults used when no
// rtsettings.yaml is present.
func DefaultOperationalConfig() *OperationalConfig {
	return &OperationalConfig{
		RefreshPeriod:   30 * time.Second,
		RefreshTimeout:  10 * time.Second,
		SecretWorkers:   4,
		SecretQueueSize: 64,
		ProviderOrder:   []string{"env", "remote", "file", "natskv"},
	}
}

// LoadOperationalConfig reads an OperationalConfig from a YAML file at
// path, layered on top of DefaultOperationalConfig — fields absent from
// the file keep their default. A missing file is not an error; the
// defaults are returned unchanged.
func LoadOperationalConfig(path string) (*OperationalConfig, error) {
	cfg := DefaultOperationalConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("rtsettings: read operational config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("rtsettings: parse operational config: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate reports whether the configuration is usable.
func (c *OperationalConfig) Validate() error {
	if c.RefreshPeriod <= 0 {
		return fmt.Errorf("rtsettings: refresh_period must be positive")
	}
	if c.RefreshTimeout <= 0 {
		return fmt.Errorf("rtsettings: refresh_timeout must be positive")
	}
	if c.SecretWorkers <= 0 {
		return fmt.Errorf("rtsettings: secret_workers must be positive")
	}
	if c.SecretQueueSize <= 0 {
		return fmt.Errorf("rtsettings: secret_queue_size must be positive")
	}
	return nil
}
