// Package file implements the built-in local-file provider: it reads a
// tolerant JSON dialect (comments, trailing commas) from disk, validates
// the resulting array's structure against a JSON Schema, and converts
// each element into a raw record.
package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/c360/rtsettings/errors"
	"github.com/c360/rtsettings/providers"
)

const providerName = "file"

// DefaultPriority per §4.3: local file carries the highest provider-level
// priority by convention, magnitude approximately +1e18.
const DefaultPriority int64 = 1_000_000_000_000_000_000

type wireRecord struct {
	Key      string            `json:"key"`
	Priority *int64            `json:"priority,omitempty"`
	Filter   map[string]string `json:"filter,omitempty"`
	Value    any               `json:"value"`
}

// Provider reads records from a single local file on every Load call.
type Provider struct {
	path     string
	priority int64
	schema   *gojsonschema.Schema

	mu        sync.Mutex
	lastOwned map[providers.Deletion]struct{} // (name, priority) pairs owned as of the last successful load
}

// New builds a file Provider reading from path.
func New(path string) (*Provider, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(recordArraySchema))
	if err != nil {
		return nil, errors.WrapFatal(err, "file", "New", "compile record schema")
	}
	return &Provider{path: path, priority: DefaultPriority, schema: schema, lastOwned: map[providers.Deletion]struct{}{}}, nil
}

// Name implements providers.Provider.
func (p *Provider) Name() string { return providerName }

// DefaultPriority implements providers.Provider.
func (p *Provider) DefaultPriority() int64 { return p.priority }

// Load implements providers.Provider. The file is re-read on every call
// and its comment-stripped contents hashed into the version; when that
// equals lastVersion, an empty result carrying the same version is
// returned without validating. Otherwise the whole file is validated
// and converted (a full rebuild).
func (p *Provider) Load(ctx context.Context, lastVersion string) (providers.LoadResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	raw, err := os.ReadFile(p.path)
	if err != nil {
		return providers.LoadResult{}, errors.WrapTransient(err, "file", "Load", "read file")
	}

	strict := stripJSONC(raw)

	h := sha256.Sum256(strict)
	version := hex.EncodeToString(h[:])
	if version == lastVersion {
		return providers.LoadResult{Version: version}, nil
	}

	result, err := p.schema.Validate(gojsonschema.NewBytesLoader(strict))
	if err != nil {
		return providers.LoadResult{}, errors.WrapInvalid(errors.ErrParse, "file", "Load", err.Error())
	}
	if !result.Valid() {
		return providers.LoadResult{}, errors.WrapInvalid(errors.ErrParse, "file", "Load", firstSchemaError(result))
	}

	var wire []wireRecord
	if err := json.Unmarshal(strict, &wire); err != nil {
		return providers.LoadResult{}, errors.WrapInvalid(errors.ErrParse, "file", "Load", err.Error())
	}

	records := make([]providers.RawRecord, 0, len(wire))
	owned := make(map[providers.Deletion]struct{}, len(wire))
	for _, w := range wire {
		priority := p.priority
		if w.Priority != nil {
			priority = *w.Priority
		}
		records = append(records, providers.RawRecord{
			Name:     w.Key,
			Priority: priority,
			Filter:   w.Filter,
			Value:    w.Value,
		})
		owned[providers.Deletion{Name: w.Key, Priority: priority}] = struct{}{}
	}

	var deletions []providers.Deletion
	for prevOwned := range p.lastOwned {
		if _, stillOwned := owned[prevOwned]; !stillOwned {
			deletions = append(deletions, prevOwned)
		}
	}
	p.lastOwned = owned

	return providers.LoadResult{Records: records, Deletions: deletions, Version: version}, nil
}

func firstSchemaError(result *gojsonschema.Result) string {
	errs := result.Errors()
	if len(errs) == 0 {
		return "schema validation failed"
	}
	return errs[0].Field() + ": " + errs[0].Description()
}
