// Package ambient carries the caller identity and per-call scoped state that
// predicates evaluate against: the process's static identity (fixed at
// construction) and two mutable scoped dimensions — an HTTP-shaped request
// view and a stack of custom string-to-string layers.
//
// Go has neither OS-thread-local storage nor task-local storage outside of
// context.Context, so this package maps ambient state onto the two
// mechanisms Go actually offers:
//
//   - task-bound: values carried on a context.Context via WithRequest and
//     WithCustomLayer, visible only to code reached through that derived
//     context — which already gives "shadows across suspension regardless
//     of which goroutine resumes it" for free, since a context value only
//     flows to goroutines it is explicitly handed to.
//   - thread-bound (fallback): a single process-wide default scope guarded
//     by a mutex, mutated only through SetDefaultRequest and
//     PushDefaultLayer, each of which returns a Guard whose Release restores
//     the previous value.
//
// Resolve(ctx) implements the resolution precedence: the context-carried
// value if present, else the default-scope value.
//
// # Basic usage
//
//	ident := ambient.NewStaticIdentity("checkout", "host-1", nil, nil, "")
//
//	ctx = ambient.WithRequest(ctx, &ambient.RequestView{Method: "GET", Path: "/api/x"})
//	ctx = ambient.WithCustomLayer(ctx, map[string]string{"tenant": "acme"})
//
//	pcc := ambient.Resolve(ctx)
//	pcc.Request() // *ambient.RequestView or nil
//	pcc.Lookup("tenant") // "acme", true
package ambient
