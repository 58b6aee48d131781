// Package store holds the entry store: a mapping from entry name to an
// ordered sequence of compiled entries, sorted by priority descending.
// Reads are lock-free relative to each other (a shared RWMutex reader
// section); writes replace a name's sequence wholesale so a reader never
// observes a torn slice.
package store
