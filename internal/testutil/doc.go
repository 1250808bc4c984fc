// Package testutil holds helpers shared by package tests: log capture,
// temporary database trees, and a fully wired service stack over the
// in-memory engine.
package testutil
