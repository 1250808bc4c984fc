// Package memengine provides a scripted, in-memory implementation of the
// engine contract. It is suitable for tests and for running the server
// without database files.
//
// Results are scripted per database path and per query text. Every call is
// recorded, failures can be injected at each stage (open, connect, execute
// and mid-stream row fetch), and the engine tracks how many handles are
// still open so tests can assert that callers release everything.
package memengine
