package tagged

import (
	"errors"
	"fmt"
)

// Grammar failures. They surface wrapped in a *SyntaxError and then in an
// *Error of kind ParseFailed.
var (
	ErrInvalidUTF8      = errors.New("tagged: invalid utf-8 in text field")
	ErrInvalidNumber    = errors.New("tagged: invalid number")
	ErrNumberRange      = errors.New("tagged: number out of range")
	ErrMissingExit      = errors.New("tagged: missing exit line")
	ErrTruncatedContent = errors.New("tagged: truncated binary content")
)

// ErrorKind classifies operation-level failures.
type ErrorKind int

const (
	// LaunchFailed means the external process could not be started.
	LaunchFailed ErrorKind = iota + 1
	// ParseFailed means the buffered output does not match the grammar.
	ParseFailed
)

// DecodeFailed is the same kind as ParseFailed.
const DecodeFailed = ParseFailed

func (k ErrorKind) String() string {
	switch k {
	case LaunchFailed:
		return "launch failed"
	case ParseFailed:
		return "parse failed"
	default:
		return "unknown"
	}
}

// Error is an operation-level failure. When it is returned no stream exists.
type Error struct {
	kind    ErrorKind
	context string
	cause   error
}

// NewError builds an operation-level error. context and cause are optional.
func NewError(kind ErrorKind, context string, cause error) *Error {
	return &Error{kind: kind, context: context, cause: cause}
}

func (e *Error) Kind() ErrorKind { return e.kind }

// Context returns the free-text context, usually the attempted invocation.
func (e *Error) Context() string { return e.context }

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Error() string {
	msg := e.kind.String()
	if e.context != "" {
		msg += " (" + e.context + ")"
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// IsLaunchFailed reports whether err is an operation error of kind LaunchFailed.
func IsLaunchFailed(err error) bool {
	return hasKind(err, LaunchFailed)
}

// IsParseFailed reports whether err is an operation error of kind ParseFailed.
func IsParseFailed(err error) bool {
	return hasKind(err, ParseFailed)
}

func hasKind(err error, kind ErrorKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.kind == kind
}

// SyntaxError locates a grammar failure in the input buffer.
type SyntaxError struct {
	Offset int
	Field  string
	Err    error
}

func (e *SyntaxError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("%v in %s at offset %d", e.Err, e.Field, e.Offset)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
