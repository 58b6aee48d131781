package ambient

import "context"

// Resolve builds the PerCallContext for ctx: a task-bound request view or
// layer stack wins if the context carries one, otherwise the thread-bound
// default scope's current value is used. The two dimensions resolve
// independently, so a call can carry a task-bound request while still
// falling back to the default layer stack, or vice versa.
func Resolve(ctx context.Context) *PerCallContext {
	req, reqSet := requestFromContext(ctx)
	if !reqSet {
		req = defaultScope.getRequest()
	}

	layers, layersSet := layersFromContext(ctx)
	if !layersSet {
		layers = defaultScope.getLayers()
	}

	return &PerCallContext{request: req, layers: layers}
}
