// Package engine ties together the entry store, predicate compiler,
// secret broker, ambient context and change observer into the two
// operations a caller actually sees: Refresh, which pulls from every
// registered provider and applies the result to the store, and
// Get/GetOr, which resolve a name to a typed, cached value under the
// caller's current ambient context.
//
// # Refresh pipeline
//
// Each configured provider's Load is called concurrently — a
// golang.org/x/sync/errgroup fans the calls out, but a provider's
// failure is captured and logged rather than propagated, so one
// misbehaving provider never drops entries contributed by the others.
// Every returned record is compiled (predicate compiler, secret-usage
// scan) and checked against static identity off the store's lock;
// only records that survive are merged in. Provider order — the
// engine's own construction order, defaulting to env, remote, file —
// governs (name, priority) collisions across providers, matching the
// spec's deterministic environment/remote/file collision rule.
//
// After every provider has been applied, the secret broker's own
// refresh runs, then the change observer's comparison pass.
//
// # Lookup path
//
// Get[T] walks a name's priority-descending entry sequence, evaluating
// per-call predicates against the resolved ambient context until one
// entry's predicates all pass. The winning entry's typed cache is
// probed before anything is decoded; a miss clones the value document,
// substitutes any secret references synchronously through the broker,
// and decodes the result into T.
package engine
