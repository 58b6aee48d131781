package store

import (
	"sync/atomic"

	"github.com/c360/rtsettings/ambient"
	"github.com/c360/rtsettings/document"
	"github.com/c360/rtsettings/filters"
)

// CompiledEntry is the internal, load-time representation of a raw record:
// its value document, both predicate-tier vectors, its derived secret
// usages, and a typed cache holding decoded values for lookups already
// served.
type CompiledEntry struct {
	Name          string
	Priority      int64
	Value         document.Value
	StaticChecks  []filters.StaticCheck
	DynamicChecks []filters.DynamicCheck
	SecretUsages  []document.SecretUsage

	cache         *TypedCache
	secretVersion atomic.Uint64
}

// NewCompiledEntry builds a CompiledEntry with an empty typed cache.
func NewCompiledEntry(name string, priority int64, value document.Value, staticChecks []filters.StaticCheck, dynamicChecks []filters.DynamicCheck, secretUsages []document.SecretUsage) *CompiledEntry {
	return &CompiledEntry{
		Name:          name,
		Priority:      priority,
		Value:         value,
		StaticChecks:  staticChecks,
		DynamicChecks: dynamicChecks,
		SecretUsages:  secretUsages,
		cache:         NewTypedCache(),
	}
}

// HasSecretUsages reports whether this entry's value document contains any
// secret references at all.
func (e *CompiledEntry) HasSecretUsages() bool {
	return len(e.SecretUsages) > 0
}

// Cache returns the entry's typed value cache.
func (e *CompiledEntry) Cache() *TypedCache {
	return e.cache
}

// ObserveSecretVersion compares current against the version last observed
// on this entry's cache. If they differ and the entry has secret usages,
// the cache is evicted wholesale and the observed version is advanced to
// current — a tombstone so a losing concurrent caller does not re-evict.
// A no-op for entries with no secret usages.
func (e *CompiledEntry) ObserveSecretVersion(current uint64) {
	if !e.HasSecretUsages() {
		return
	}
	if e.secretVersion.Swap(current) != current {
		e.cache.Clear()
	}
}

// EvaluateStatic reports whether every load-time predicate passes against
// ident. Called once, at merge time.
func (e *CompiledEntry) EvaluateStatic(ident *ambient.StaticIdentity) bool {
	for _, c := range e.StaticChecks {
		if !c.Check(ident) {
			return false
		}
	}
	return true
}

// EvaluateDynamic reports whether every per-call predicate passes against
// pcc. Called on every lookup.
func (e *CompiledEntry) EvaluateDynamic(pcc *ambient.PerCallContext) bool {
	for _, c := range e.DynamicChecks {
		if !c.Check(pcc) {
			return false
		}
	}
	return true
}
