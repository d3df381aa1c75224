// Package errs implements the project's single error carrier: a typed kind
// paired with the call site that raised it, printable to logs without a
// runtime stack trace.
package errs

import (
	"fmt"
	"runtime"
)

// Kind classifies the failure independent of whatever lower-level error it
// wraps, if any.
type Kind int

const (
	// MalformedBinary means a decoder rejected its input (bad tag, truncated
	// payload).
	MalformedBinary Kind = iota
	// OutOfRange means an arithmetic operation overflowed, or a quantity
	// fell outside its valid domain.
	OutOfRange
	// ValueDoesNotExist means a required field, index, or optional value was
	// absent.
	ValueDoesNotExist
	// ValueAlreadyExist means a one-shot cell was initialized twice.
	ValueAlreadyExist
	// UnreachableState means an invariant the caller believed impossible was
	// observed anyway.
	UnreachableState
	// Wrapped means the error carries a lower-level cause (I/O, parse,
	// network, crypto) rather than one of this package's own kinds.
	Wrapped
)

func (k Kind) String() string {
	switch k {
	case MalformedBinary:
		return "MalformedBinary"
	case OutOfRange:
		return "OutOfRange"
	case ValueDoesNotExist:
		return "ValueDoesNotExist"
	case ValueAlreadyExist:
		return "ValueAlreadyExist"
	case UnreachableState:
		return "UnreachableState"
	case Wrapped:
		return "Wrapped"
	default:
		return "Unknown"
	}
}

// Location is the source position an Error was raised at.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Error is the single error carrier used across the module.
type Error struct {
	Kind     Kind
	Location Location
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Location, e.Cause)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Location)
}

func (e *Error) Unwrap() error { return e.Cause }

// caller returns the source position skip frames up the stack; New, Newf
// and Wrap pass 2 so they report the site that invoked them, not this
// package.
func caller(skip int) Location {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{File: "unknown", Line: 0}
	}
	return Location{File: file, Line: line}
}

// New builds an Error of the given kind at the immediate caller's location.
func New(kind Kind) *Error {
	return &Error{Kind: kind, Location: caller(2)}
}

// Newf builds an Error of the given kind carrying a formatted message as
// its cause, for the few failures whose text is part of the external
// contract rather than just the kind.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Location: caller(2), Cause: fmt.Errorf(format, args...)}
}

// Wrap builds a Wrapped Error around cause at the immediate caller's
// location. Returns nil if cause is nil, so it composes with the usual
// `if err != nil { return errs.Wrap(err) }` shape.
func Wrap(cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: Wrapped, Location: caller(2), Cause: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
