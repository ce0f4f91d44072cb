// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package xdr

import (
	"github.com/snaewe/portablexdr/internal/errors"
)

const (
	ErrLengthExceedsMax           = errors.ErrLengthExceedsMax
	ErrLengthExceedsPlatformLimit = errors.ErrLengthExceedsPlatformLimit
	ErrUnionSwitchArmUndefined    = errors.ErrUnionSwitchArmUndefined
	ErrInvalidValue               = errors.ErrInvalidValue
	ErrNilPointer                 = errors.ErrNilPointer
	ErrShortBuffer                = errors.ErrShortBuffer
	ErrSeekUnsupported            = errors.ErrSeekUnsupported
	ErrDestroyed                  = errors.ErrDestroyed
)

// LengthError reports a count prefix or value longer than permitted
type LengthError = errors.LengthError

// FieldError locates an error within a struct or union
type FieldError = errors.FieldError

// IOError wraps a failure of the underlying file or descriptor
type IOError = errors.IOError

// WithFieldError annotates err with the type and field it occurred in.
// Generated codecs use this; it returns nil if err is nil.
func WithFieldError(err error, parts ...string) error {
	return errors.WithFieldError(err, parts...)
}
