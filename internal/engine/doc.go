// Package engine defines the narrow contract bugscope needs from an embedded
// graph database engine.
//
// # Lifecycle
//
// A caller opens a Database from a file path, creates a Conn from it, and
// executes one query per Result:
//
//	Engine.Open -> Database.Connect -> Conn.Execute -> Result.Next ... io.EOF
//
// Every handle is owned by the caller and must be closed in reverse order of
// acquisition. Nothing in this package pools or caches handles; two callers
// opening the same path get independent handles, so implementations must
// tolerate concurrent independent connections to one file.
//
// # Values
//
// Results yield value.Row values. Implementations convert their native
// representations into the closed value.Value variants and fall back to
// value.Other for anything without a dedicated variant.
//
// See internal/kuzuengine for the production adapter and internal/memengine
// for a scripted in-memory implementation.
package engine
