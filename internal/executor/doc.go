// Package executor runs queries against registered databases.
//
// Every call resolves the database id through the registry, opens a fresh
// database handle and a fresh connection, executes, drains all rows, and
// closes result, connection and handle on every exit path. No handles are
// pooled or shared between calls, so concurrent calls never contend on a
// lock here.
package executor
