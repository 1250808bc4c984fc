// Package handlers implements the operations offered to the frontend:
// listing and registering databases, browsing directories, and producing
// overview and ad hoc graphs.
//
// Every failure leaving this package is an *apperror.Error with a
// human-readable message. Transports (socket.io, CLI, shell) call a Service
// and only translate its results and errors to their own wire format.
package handlers
