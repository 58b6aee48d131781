// Package providers defines the contract every configuration source
// implements: a Load call that returns records to add or replace,
// deletions, and a new version token the caller passes back on the next
// call. Concrete adapters live in the providers/{env,file,remote,natskv}
// subpackages.
package providers
