// Package rtsettings is a runtime configuration core: predicate-gated
// config lookups resolved against an ambient (per-call and per-process)
// context, sourced from priority-ordered providers, with secret
// references substituted through a synchronous bridge onto an
// asynchronous secret fetcher, and change notifications for callers that
// need to react rather than poll.
//
// # Layers
//
//   - filters: the 13-entry predicate catalog and compiler, split into
//     load-time (static identity) and per-call (dynamic) tiers.
//   - ambient: the process's static identity plus task-bound and
//     thread-bound-default per-call context (request view, custom-layer
//     stack).
//   - document: the untyped value tree, its secret-reference scan, and
//     typed decoding.
//   - store: the entry store — copy-on-write merge/delete of compiled
//     entries, keyed by name and ordered by descending priority.
//   - providers: the four built-in config sources (env, file, remote,
//     natskv) plus the Provider interface a caller can implement.
//   - secrets: the payload cache and synchronous-caller bridge onto an
//     asynchronous secret store.
//   - observer: change-notification callbacks over the store's resolved
//     values.
//   - engine: ties the above into Refresh (provider fan-out, compile,
//     merge) and Get/GetOr (typed, cached, predicate-gated lookup).
//
// The Builder in this package assembles an engine.Engine from
// environment variables and an optional operational-config file into a
// ready-to-use RuntimeSettings.
package rtsettings
