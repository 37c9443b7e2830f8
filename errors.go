// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

import (
	"errors"
	"fmt"
)

// Kind classifies an Error into one of the machine-readable categories the
// core distinguishes externally.
type Kind int

const (
	// KindInvalidArgument: null required parameter, W < 4, L < 2, L > W, bad descriptor.
	KindInvalidArgument Kind = iota + 1
	// KindInvalidFormat: header magic/version/sizes fail, length code exceeds L, premature EOF inside a token.
	KindInvalidFormat
	// KindOutOfSpace: growing required but disallowed.
	KindOutOfSpace
	// KindIoError: descriptor read/write failed.
	KindIoError
	// KindOutOfMemory: allocator failure.
	KindOutOfMemory
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindInvalidFormat:
		return "invalid format"
	case KindOutOfSpace:
		return "out of space"
	case KindIoError:
		return "io error"
	case KindOutOfMemory:
		return "out of memory"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by every top-level operation in this
// package. It carries a Kind so callers can branch on the failure category
// without parsing the message, and optionally wraps an underlying error.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lz77: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("lz77: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, kind Kind, err error) *Error {
	e := &Error{Op: op, Kind: kind, Err: err}
	currentLogger().Errorf("%s", e)
	return e
}

// Sentinel errors, checkable with errors.Is.
var (
	// ErrInvalidArgument is returned for malformed constructor arguments.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidFormat is returned when the compressed stream is malformed.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrOutOfSpace is returned when a memory-backed sink needs to grow but cannot.
	ErrOutOfSpace = errors.New("out of space")
	// ErrIoError is returned when descriptor I/O fails.
	ErrIoError = errors.New("io error")
	// ErrOutOfMemory is returned when an allocation fails.
	ErrOutOfMemory = errors.New("out of memory")
)

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindInvalidFormat:
		return ErrInvalidFormat
	case KindOutOfSpace:
		return ErrOutOfSpace
	case KindIoError:
		return ErrIoError
	case KindOutOfMemory:
		return ErrOutOfMemory
	default:
		return nil
	}
}

// Is makes Error compatible with errors.Is against the package sentinels
// above, so callers can write errors.Is(err, lz77.ErrInvalidFormat).
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}
