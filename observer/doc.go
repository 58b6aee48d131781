// Package observer implements the change-notification layer: callers
// register a callback against a config name and are told, from inside
// the refresh cycle that noticed it, when that name's effective value
// changed.
//
// Watchers keeps one Snapshot per watched name, taken with no scoped
// ambient state (an empty ambient.PerCallContext) every time Refresh
// runs. Registering takes no snapshot: the first Refresh after a name is
// first watched records its baseline, and later ones compare against
// the stored snapshot — this is the one
// consistent definition of "effective value" a bare change observer can
// use without itself depending on any particular caller's request
// scope. Registration never fires a callback; only a real change,
// detected on a later Refresh, does. Callbacks run synchronously,
// in registration order, and a callback that panics is isolated so it
// cannot take down the refresh cycle or block sibling callbacks.
//
// This is adapted from config.Manager's OnChange subscription map, but
// trades its channel-push delivery for direct, panic-isolated function
// calls: spec.md requires synchronous (old, new) delivery from the
// refresh cycle itself, not an out-of-band channel a caller might never
// drain.
package observer
