// Package shell implements the interactive bugscope prompt.
//
// Input lines starting with a dot are shell commands (.help lists them);
// every other line is a query sent to the selected database. The shell
// talks to a Backend, which is either the in-process service or a remote
// server reached through rpcclient, so the same session works against both.
package shell
