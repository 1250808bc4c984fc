// Package render prints operation results for humans and for scripts.
//
// Three formats are supported: a bordered table for terminals, indented
// JSON matching the socket.io payloads, and YAML. The table layout knows the
// result types of the service (database listings, directory listings and
// graphs); JSON and YAML encode any value.
package render
