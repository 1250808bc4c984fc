// Package rpcclient talks to a running bugscope server over socket.io.
//
// Every call emits one event with an acknowledgement callback and blocks
// until the server acknowledges it, the call's context ends, or the client
// timeout elapses. The acknowledged envelope is decoded into the typed
// result; a failed envelope becomes an error carrying the server's message
// verbatim.
package rpcclient
