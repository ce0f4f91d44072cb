// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package errors

import (
	"fmt"
	"strings"
)

const (
	// maxUint is the maximum value a uint can hold
	maxUint = ^uint(0)
	// maxInt is the maximum value an int can hold
	maxInt = int(maxUint >> 1)
)

type xerror string

func (e xerror) Error() string {
	return string(e)
}

const (
	// Array, opaque or string longer than permitted by the schema
	// (or XDR; for values where the schema specifies no limit, it is implicitly
	// treated as if 0xFFFFFFFF were specified; though in that case the error can
	// only be reached on encode)
	ErrLengthExceedsMax = xerror("xdr: Variable length object too long")

	// Array or slice length longer than we can decode
	//
	// This error means that a received length was larger than can be represented
	// as the Go `int` type but less than any maximum specified by the schema.
	//
	// This can only occur on 32-bit platforms.
	ErrLengthExceedsPlatformLimit = xerror("xdr: Variable length object too long for platform")

	// Union switch arm undefined
	ErrUnionSwitchArmUndefined = xerror("xdr: Union switch arm undefined")

	// Invalid value for type
	ErrInvalidValue = xerror("xdr: Invalid value for type")

	// Pointer was unexpectedly nil
	ErrNilPointer = xerror("xdr: Unexpected nil pointer")

	// A memory stream was asked to read or write past the end of its buffer
	ErrShortBuffer = xerror("xdr: Buffer overrun")

	// The sink does not support random access
	ErrSeekUnsupported = xerror("xdr: Stream does not support seeking")

	// The stream has already been destroyed
	ErrDestroyed = xerror("xdr: Stream destroyed")
)

type LengthError struct {
	Actual, Max uint64
}

func (err LengthError) Is(target error) bool {
	switch target {
	case ErrLengthExceedsMax:
		return err.Actual > err.Max
	case ErrLengthExceedsPlatformLimit:
		return err.Actual > uint64(maxInt)
	default:
		return false
	}
}

func (err LengthError) Error() string {
	if err.Actual > err.Max {
		return fmt.Sprintf("%s (%d > %d)", ErrLengthExceedsMax, err.Actual, err.Max)
	} else {
		return fmt.Sprintf("%s (%d > %d)", ErrLengthExceedsPlatformLimit, err.Actual, maxInt)
	}
}

// IOError wraps a failure reported by the underlying file or descriptor
type IOError struct {
	Op  string
	Err error
}

func (err IOError) Unwrap() error {
	return err.Err
}

func (err IOError) Error() string {
	return fmt.Sprintf("xdr: %s: %v", err.Op, err.Err)
}

type FieldError struct {
	Underlying error
	Path       string
}

func (err FieldError) Unwrap() error {
	return err.Underlying
}

func (err FieldError) Error() string {
	uerr := strings.TrimPrefix(err.Underlying.Error(), "xdr: ")
	return fmt.Sprintf("xdr: %s (at %s)", uerr, err.Path)
}

// WithFieldError annotates err with the location (type, field and optionally
// union arm) at which it happened. Nested annotations accumulate outermost
// first.
func WithFieldError(err error, parts ...string) error {
	if err == nil {
		return nil
	}

	var combined string
	if parts[0] == "" {
		parts[0] = "<anonymous>"
	}

	switch len(parts) {
	case 1:
		combined = parts[0]
	case 3:
		combined = fmt.Sprintf("%s.%s(%s)", parts[0], parts[1], parts[2])
	default:
		combined = strings.Join(parts, ".")
	}

	switch err := err.(type) {
	case FieldError:
		err.Path = fmt.Sprintf("%s %s", combined, err.Path)
		return err
	default:
		return FieldError{err, combined}
	}
}
