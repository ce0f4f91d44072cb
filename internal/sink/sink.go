// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package sink implements the byte sinks an XDR stream can be bound to: a
// caller supplied memory buffer, a sequential stream (usually an *os.File)
// and a raw file descriptor.
package sink

import (
	xdrinterfaces "github.com/snaewe/portablexdr/interfaces"
)

// Flags alter how a sink treats the file it was created over
type Flags uint32

const (
	// CloseFile makes Destroy close the underlying file or descriptor
	CloseFile Flags = 1 << iota
)

var (
	_ xdrinterfaces.Sink    = &Mem{}
	_ xdrinterfaces.Inliner = &Mem{}
	_ xdrinterfaces.Sink    = &Stdio{}
	_ xdrinterfaces.Sink    = &Fd{}
)

func unitOf(b []byte) int32 {
	_ = b[3]
	return int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

func putUnitAt(b []byte, v int32) {
	_ = b[3]
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
