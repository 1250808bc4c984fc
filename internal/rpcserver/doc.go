// Package rpcserver exposes the frontend operations as socket.io events.
//
// Each event is acknowledged with exactly one Response. Payloads are JSON
// objects decoded into typed request structs; a payload that cannot be
// decoded, or lacks a required field, is answered with ok=false and a
// validation message without touching the operation.
//
// Every event runs with a fresh request id (a UUID) attached to the context
// logger, so all log lines of one call can be correlated.
package rpcserver
