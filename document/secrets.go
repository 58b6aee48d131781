package document

import (
	"strings"

	"github.com/c360/rtsettings/errors"
)

// secretSentinel is the reserved field name marking a secret reference.
const secretSentinel = "$secret"

// LocationStep is one hop into a Value tree: either a map field name or a
// slice index.
type LocationStep struct {
	Field   string
	Index   int
	IsIndex bool
}

// SecretUsage records where a `{"$secret": "path:key"}` reference sits
// inside a value document, so a later resolve pass can substitute the
// resolved scalar without re-walking the tree.
type SecretUsage struct {
	Path     string
	Key      string
	Location []LocationStep
}

// FindSecretUsages recursively scans v for single-entry objects whose sole
// field is the "$secret" sentinel, recording one SecretUsage per occurrence
// (including nested ones). A malformed "path:key" payload fails the whole
// scan with ErrInvalidSecretRef, matching the compile-time drop-the-record
// policy of the refresh pipeline (§4.3/§7).
func FindSecretUsages(v Value) ([]SecretUsage, error) {
	var usages []SecretUsage
	if err := scan(v, nil, &usages); err != nil {
		return nil, err
	}
	return usages, nil
}

func scan(v Value, path []LocationStep, usages *[]SecretUsage) error {
	switch t := v.(type) {
	case map[string]Value:
		if ref, ok := t[secretSentinel]; ok && len(t) == 1 {
			payload, ok := ref.(string)
			if !ok {
				return errors.WrapInvalid(errors.ErrInvalidSecretRef, "document", "FindSecretUsages",
					"$secret payload must be a string")
			}
			secretPath, key, err := splitRef(payload)
			if err != nil {
				return err
			}
			loc := make([]LocationStep, len(path))
			copy(loc, path)
			*usages = append(*usages, SecretUsage{Path: secretPath, Key: key, Location: loc})
			return nil
		}
		for field, val := range t {
			if err := scan(val, append(path, LocationStep{Field: field}), usages); err != nil {
				return err
			}
		}
	case []Value:
		for i, val := range t {
			if err := scan(val, append(path, LocationStep{Index: i, IsIndex: true}), usages); err != nil {
				return err
			}
		}
	}
	return nil
}

func splitRef(payload string) (path, key string, err error) {
	idx := strings.LastIndex(payload, ":")
	if idx <= 0 || idx == len(payload)-1 {
		return "", "", errors.WrapInvalid(errors.ErrInvalidSecretRef, "document", "splitRef",
			"expected \"path:key\", got: "+payload)
	}
	return payload[:idx], payload[idx+1:], nil
}

// SubstituteAt writes scalar at the given location inside doc, which must be
// the root of a mutable clone (see Clone), and returns the (possibly new)
// root. A location produced for a document that IS solely a secret
// reference (§6.4) is empty, in which case the root itself becomes scalar
// and the returned Value differs from doc; every other location mutates doc
// in place and returns it unchanged by identity.
//
// Returns ErrInvalidSecretRef if the location does not resolve to an
// existing map field or slice index — this should not happen for a location
// produced by FindSecretUsages against the same document shape, but a
// provider could in principle replace a record's value between compile and
// resolve.
func SubstituteAt(doc Value, location []LocationStep, scalar Value) (Value, error) {
	if len(location) == 0 {
		return scalar, nil
	}

	cur := doc
	for i, step := range location {
		last := i == len(location)-1

		if step.IsIndex {
			slice, ok := cur.([]Value)
			if !ok || step.Index < 0 || step.Index >= len(slice) {
				return doc, errors.WrapInvalid(errors.ErrInvalidSecretRef, "document", "SubstituteAt", "index out of range")
			}
			if last {
				slice[step.Index] = scalar
				return doc, nil
			}
			cur = slice[step.Index]
			continue
		}

		obj, ok := cur.(map[string]Value)
		if !ok {
			return doc, errors.WrapInvalid(errors.ErrInvalidSecretRef, "document", "SubstituteAt", "field on non-object")
		}
		if last {
			obj[step.Field] = scalar
			return doc, nil
		}
		next, ok := obj[step.Field]
		if !ok {
			return doc, errors.WrapInvalid(errors.ErrInvalidSecretRef, "document", "SubstituteAt", "missing field: "+step.Field)
		}
		cur = next
	}

	return doc, nil
}
