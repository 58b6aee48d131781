package ambient

import (
	opts "github.com/goliatone/go-options/layering"
)

// CustomLayers is a stack of string-to-string layers. Lookup walks the stack
// top-down so the most recently pushed layer shadows earlier ones;
// enumeration deduplicates keys in the same top-shadows-bottom order.
type CustomLayers struct {
	layers []map[string]string
}

// Push clones payload (so the caller's map cannot be mutated out from under
// the layer stack afterward) and pushes it on top. A nil receiver is
// treated as an empty stack, so Push is safe to call on the zero value.
func (c *CustomLayers) Push(payload map[string]string) *CustomLayers {
	var base []map[string]string
	if c != nil {
		base = c.layers
	}
	cloned := opts.Clone(payload)
	next := &CustomLayers{layers: make([]map[string]string, len(base)+1)}
	copy(next.layers, base)
	next.layers[len(base)] = cloned
	return next
}

// Lookup walks the stack top-down and returns the first binding found for
// key.
func (c *CustomLayers) Lookup(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	for i := len(c.layers) - 1; i >= 0; i-- {
		if v, ok := c.layers[i][key]; ok {
			return v, true
		}
	}
	return "", false
}

// Flatten returns a single map representing the top-shadows-bottom merge of
// every layer.
func (c *CustomLayers) Flatten() map[string]string {
	out := make(map[string]string)
	if c == nil {
		return out
	}
	for i := len(c.layers) - 1; i >= 0; i-- {
		for k, v := range c.layers[i] {
			if _, exists := out[k]; !exists {
				out[k] = v
			}
		}
	}
	return out
}

// Depth returns the number of layers currently pushed.
func (c *CustomLayers) Depth() int {
	if c == nil {
		return 0
	}
	return len(c.layers)
}
