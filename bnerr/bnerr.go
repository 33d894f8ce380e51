// Package bnerr defines the error taxonomy shared by every package in
// this module. Every failure returned across a package boundary is
// constructed here so callers have one consistent way to inspect it.
package bnerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure into one of the categories the core can
// produce. It is never meant to be exhaustively handled by every
// caller; most callers only care whether an error Is a particular Kind.
type Kind int

const (
	// InvalidArgument means a caller passed a value outside the
	// documented domain (zero seed, capacity < 2, bad role, ...).
	InvalidArgument Kind = iota
	// Unsupported means the input is well-formed but describes a
	// feature this implementation intentionally does not handle
	// (non-zero replay start frame, wrong format version).
	Unsupported
	// Corrupt means the input fails an integrity check (bad magic,
	// unknown flags, wrong declared length, CRC mismatch).
	Corrupt
	// InsufficientHistory means a rollback target frame has already
	// been evicted from the snapshot ring.
	InsufficientHistory
	// MissingLocalInput means re-simulation found no recorded local
	// input for a frame at or before the current frame.
	MissingLocalInput
	// Truncated means a stream ended before the declared number of
	// bytes could be read.
	Truncated
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case Unsupported:
		return "unsupported"
	case Corrupt:
		return "corrupt"
	case InsufficientHistory:
		return "insufficient history"
	case MissingLocalInput:
		return "missing local input"
	case Truncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by this module's packages.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind that wraps cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Is reports whether err is a *Error of the given Kind, unwrapping as
// needed. It is the idiomatic way for a caller to branch on failure
// category without depending on message text.
func Is(err error, kind Kind) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}
