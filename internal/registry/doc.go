// Package registry keeps the merged view of known databases.
//
// A listing is recomputed on every call: database files discovered under the
// configured root come first, followed by files registered explicitly at
// runtime, and ids are assigned 0..N-1 in that order. Ids are positions, not
// identities; they may change whenever the set of files on disk changes.
//
// The registered set is owned by the Registry and only reachable through
// List, Register and Resolve, which serialize access with a mutex.
package registry
