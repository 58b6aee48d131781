package providers

import "context"

// RawRecord is the wire form of a single entry, as returned by a
// provider's Load call before predicate compilation.
type RawRecord struct {
	Name     string
	Priority int64
	Filter   map[string]string
	Value    any
}

// Deletion targets a single (name, priority) entry for removal.
type Deletion struct {
	Name     string
	Priority int64
}

// LoadResult is the outcome of a single provider Load call.
type LoadResult struct {
	Records   []RawRecord
	Deletions []Deletion
	Version   string
}

// Provider is implemented by every configuration source: three built-ins
// (env, file, remote) plus caller-supplied adapters.
type Provider interface {
	// Load fetches records that changed since lastVersion. A provider MAY
	// return only a delta; entries it does not mention are left as-is by
	// the store. An empty lastVersion requests a full load.
	Load(ctx context.Context, lastVersion string) (LoadResult, error)

	// DefaultPriority reports the priority the provider gives a record
	// whose own wire format omits one. Each built-in provider writes it
	// into RawRecord.Priority itself; the engine uses RawRecord.Priority
	// as given and does not call this method.
	DefaultPriority() int64

	// Name identifies the provider for logs and provider-order
	// collision resolution.
	Name() string
}
