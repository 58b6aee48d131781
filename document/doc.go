// Package document defines the generic structured-value tree rtsettings
// stores at rest and decodes lazily per lookup: a map[string]any / []any /
// scalar tree, the same shape encoding/json produces when unmarshalling into
// `any`. Keeping records in this untyped form at the store layer avoids
// coupling the store to whatever schema each caller's decoded type expects.
//
// The package also implements the recursive scan for embedded secret
// references (the `{"$secret": "path:key"}` sentinel) and the substitution
// step that writes a resolved scalar back into a cloned copy of a document.
//
// # Secret references
//
//	{"host": "db.internal", "password": {"$secret": "kv/db:password"}}
//
// FindSecretUsages walks a document once at compile time and records where
// each reference sits so a later resolve pass can substitute in place
// without re-walking the tree:
//
//	usages, err := document.FindSecretUsages(value)
//	clone := document.Clone(value)
//	for _, u := range usages {
//	    scalar := resolve(u.Path, u.Key) // via secrets.Broker
//	    clone, _ = document.SubstituteAt(clone, u.Location, scalar)
//	}
package document
