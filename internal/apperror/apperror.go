// Package apperror defines the error taxonomy surfaced at the operation
// boundary: validation failures, unknown resources, embedded engine
// failures (classified by stage) and filesystem failures.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindEngine
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindEngine:
		return "engine"
	case KindIO:
		return "io"
	default:
		return "internal"
	}
}

// Stage names the engine call that failed. It is empty for non-engine errors.
type Stage string

const (
	StageOpen    Stage = "open"
	StageConnect Stage = "connect"
	StageQuery   Stage = "query"
)

// Error is the single error type returned across the operation boundary.
type Error struct {
	Kind    Kind
	Stage   Stage
	Message string
	Err     error
}

// Error renders the message, followed by the underlying cause verbatim.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates an error for input rejected before any I/O.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFound creates an error for an unknown database id or directory.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Engine wraps a failure reported by the embedded engine at the given stage.
func Engine(stage Stage, message string, err error) *Error {
	return &Error{Kind: KindEngine, Stage: stage, Message: message, Err: err}
}

// IO wraps a filesystem failure.
func IO(message string, err error) *Error {
	return &Error{Kind: KindIO, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StageOf returns the engine stage of err, if any.
func StageOf(err error) Stage {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Stage
	}
	return ""
}
