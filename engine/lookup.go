package engine

import (
	"context"
	"time"

	"github.com/c360/rtsettings/ambient"
	"github.com/c360/rtsettings/document"
	"github.com/c360/rtsettings/store"
)

// Get resolves name to a value of type T under the ambient context
// carried by ctx (or the thread-bound default, if ctx carries none).
// It walks the name's priority-descending entry sequence, evaluating
// per-call predicates until one entry's predicates all pass, resolves
// any secret references that entry's value document carries, decodes
// into T, and caches the decoded value on that entry for future calls.
//
// Get cannot be a method: Go does not allow type parameters on methods.
func Get[T any](ctx context.Context, e *Engine, name string) (T, bool) {
	start := time.Now()
	value, ok := get[T](ctx, e, name)

	if e.metrics != nil {
		outcome := "miss"
		if ok {
			outcome = "hit"
		}
		e.metrics.RecordLookup(name, outcome, time.Since(start))
	}
	return value, ok
}

// GetOr behaves like Get but returns def, unmodified and uninserted
// into any cache, when name has no applicable entry.
func GetOr[T any](ctx context.Context, e *Engine, name string, def T) T {
	value, ok := Get[T](ctx, e, name)
	if !ok {
		return def
	}
	return value
}

func get[T any](ctx context.Context, e *Engine, name string) (T, bool) {
	var zero T

	seq, ok := e.store.Lookup(name)
	if !ok {
		return zero, false
	}

	pcc := ambient.Resolve(ctx)

	var candidate *store.CompiledEntry
	for _, entry := range seq {
		if entry.EvaluateDynamic(pcc) {
			candidate = entry
			break
		}
	}
	if candidate == nil {
		return zero, false
	}

	candidate.ObserveSecretVersion(e.secrets.Version())

	if cached, hit := store.GetTyped[T](candidate.Cache()); hit {
		if e.metrics != nil {
			e.metrics.RecordCacheResult(name, "hit")
		}
		return cached, true
	}
	if e.metrics != nil {
		e.metrics.RecordCacheResult(name, "miss")
	}

	doc, err := e.materialize(ctx, candidate)
	if err != nil {
		e.logger.Warn("engine: get: secret resolution failed", "name", name, "error", err)
		return zero, false
	}

	decoded, err := document.DecodeInto[T](doc)
	if err != nil {
		e.logger.Warn("engine: get: decode failed", "name", name, "error", err)
		return zero, false
	}

	store.SetTyped(candidate.Cache(), decoded)
	return decoded, true
}

// materialize returns the entry's effective value document, with any
// secret references substituted from freshly (or cache-) resolved
// secrets. Entries with no secret usages return their stored document
// unmodified — no clone is needed since it is never mutated.
func (e *Engine) materialize(ctx context.Context, entry *store.CompiledEntry) (document.Value, error) {
	if !entry.HasSecretUsages() {
		return entry.Value, nil
	}

	doc := document.Clone(entry.Value)
	for _, usage := range entry.SecretUsages {
		scalar, err := e.secrets.GetSync(ctx, usage.Path, usage.Key)
		if err != nil {
			return nil, err
		}
		doc, err = document.SubstituteAt(doc, usage.Location, scalar)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}
