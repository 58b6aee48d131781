package ambient

import "context"

type ctxKey int

const (
	requestCtxKey ctxKey = iota
	layersCtxKey
)

// WithRequest returns a derived context carrying rv as the task-bound
// request view. It shadows any thread-bound default for goroutines reached
// through the derived context only.
func WithRequest(ctx context.Context, rv *RequestView) context.Context {
	return context.WithValue(ctx, requestCtxKey, rv)
}

func requestFromContext(ctx context.Context) (*RequestView, bool) {
	rv, ok := ctx.Value(requestCtxKey).(*RequestView)
	return rv, ok
}

// WithCustomLayer pushes payload onto the task-bound layer stack and
// returns the derived context. Layers pushed this way accumulate across
// nested calls to WithCustomLayer on the same context chain.
func WithCustomLayer(ctx context.Context, payload map[string]string) context.Context {
	base, _ := ctx.Value(layersCtxKey).(*CustomLayers)
	if base == nil {
		base = &CustomLayers{}
	}
	return context.WithValue(ctx, layersCtxKey, base.Push(payload))
}

func layersFromContext(ctx context.Context) (*CustomLayers, bool) {
	cl, ok := ctx.Value(layersCtxKey).(*CustomLayers)
	return cl, ok
}

// PerCallContext bundles the request view and custom-layer stack resolved
// for a single call, whichever scope (task-bound or thread-bound default)
// they came from.
type PerCallContext struct {
	request *RequestView
	layers  *CustomLayers
}

// Request returns the resolved request view, or nil if none was set in
// either scope.
func (p *PerCallContext) Request() *RequestView {
	if p == nil {
		return nil
	}
	return p.request
}

// Layers returns the resolved custom-layer stack, or nil if none was set.
func (p *PerCallContext) Layers() *CustomLayers {
	if p == nil {
		return nil
	}
	return p.layers
}

// Lookup looks up key in the resolved layer stack.
func (p *PerCallContext) Lookup(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	return p.layers.Lookup(key)
}
