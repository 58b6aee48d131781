package document

import (
	"encoding/json"
	"reflect"

	"github.com/c360/rtsettings/errors"
)

// Value is the generic structured document type: after decoding from JSON it
// is one of map[string]any, []any, string, float64, bool, nil, or json.Number
// when a provider opts into precise numeric decoding.
type Value = any

// Clone produces a deep copy of a Value tree so that secret substitution can
// mutate the copy without touching the entry's stored document.
func Clone(v Value) Value {
	switch t := v.(type) {
	case map[string]Value:
		out := make(map[string]Value, len(t))
		for k, val := range t {
			out[k] = Clone(val)
		}
		return out
	case []Value:
		out := make([]Value, len(t))
		for i, val := range t {
			out[i] = Clone(val)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two documents are structurally equal. Used by the
// change observer to decide whether an effective value changed between
// refresh cycles.
func Equal(a, b Value) bool {
	return reflect.DeepEqual(a, b)
}

// DecodeInto decodes a document into a target type T by round-tripping
// through encoding/json. This keeps the store's untyped representation
// decoupled from every caller's schema: a struct with json tags, a map, or a
// scalar all decode the same way a JSON API response would.
func DecodeInto[T any](v Value) (T, error) {
	var zero T

	raw, err := json.Marshal(v)
	if err != nil {
		return zero, errors.WrapInvalid(err, "document", "DecodeInto", "marshal document")
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, errors.WrapInvalid(err, "document", "DecodeInto", "unmarshal into target type")
	}

	return out, nil
}
