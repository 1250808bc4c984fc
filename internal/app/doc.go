// Package app wires the bugscope components together and owns the process
// lifecycle. It builds the logger, the engine, the registry and the service
// from a validated config.Config, and serves the HTTP surface (health,
// metrics and socket.io) until its context is cancelled.
//
// The App is independent of any entrypoint: the CLI uses Service directly
// for one-shot commands and Serve for the server.
package app
