// Package env implements the built-in process-environment snapshot
// provider: every process environment variable becomes a config entry
// named after it, conventionally registered at the lowest provider
// priority so any other provider can override it.
package env

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/c360/rtsettings/providers"
)

const providerName = "env"

// DefaultPriority per §4.3: environment carries the lowest provider-level
// priority by convention, signed-negative magnitude approximately -1e18.
const DefaultPriority int64 = -1_000_000_000_000_000_000

// Provider snapshots the process environment on every Load call, one
// record per variable.
type Provider struct {
	priority int64

	mu       sync.Mutex
	lastKeys map[string]struct{}
}

// New builds an env Provider.
func New() *Provider {
	return &Provider{priority: DefaultPriority, lastKeys: map[string]struct{}{}}
}

// Name implements providers.Provider.
func (p *Provider) Name() string { return providerName }

// DefaultPriority implements providers.Provider.
func (p *Provider) DefaultPriority() int64 { return p.priority }

// Load implements providers.Provider. It snapshots os.Environ() and
// hashes it into the version; when that equals lastVersion it returns
// an empty result carrying the same version. Otherwise it does a full
// rebuild, and reports as deletions any name it returned on a previous
// call that is now absent.
func (p *Provider) Load(ctx context.Context, lastVersion string) (providers.LoadResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := os.Environ()
	sort.Strings(current)

	h := sha256.New()
	for _, kv := range current {
		h.Write([]byte(kv))
		h.Write([]byte{0})
	}
	version := hex.EncodeToString(h.Sum(nil))
	if version == lastVersion {
		return providers.LoadResult{Version: version}, nil
	}

	records := make([]providers.RawRecord, 0, len(current))
	currentKeys := make(map[string]struct{}, len(current))

	for _, kv := range current {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		currentKeys[k] = struct{}{}
		records = append(records, providers.RawRecord{
			Name:     k,
			Priority: p.priority,
			Value:    v,
		})
	}

	var deletions []providers.Deletion
	for k := range p.lastKeys {
		if _, ok := currentKeys[k]; !ok {
			deletions = append(deletions, providers.Deletion{Name: k, Priority: p.priority})
		}
	}
	p.lastKeys = currentKeys

	return providers.LoadResult{
		Records:   records,
		Deletions: deletions,
		Version:   version,
	}, nil
}
