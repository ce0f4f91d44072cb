// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package diag carries source positions through the compiler and formats
// the diagnostics attached to them.
package diag

import (
	"fmt"
)

// Prefix is used in place of a file name before one is known
const Prefix = "rpcgen"

// Pos is a position in the preprocessed input. File is empty until the
// preprocessor has named the file with a line marker.
type Pos struct {
	File string
	Line int
}

func (p Pos) String() string {
	if p.File == "" {
		return Prefix
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Error is a fatal compiler diagnostic
type Error struct {
	Pos Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Errorf builds an Error at pos
func Errorf(pos Pos, format string, args ...interface{}) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
