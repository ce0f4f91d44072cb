// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

//go:build !unix

package sink

import (
	"os"
)

// Fd is a sink over a raw file descriptor. Off unix there are no raw
// descriptor calls to make, so it goes through an *os.File.
type Fd struct {
	Stdio
}

func NewFd(fd int, flags Flags) *Fd {
	f := os.NewFile(uintptr(fd), "xdr")
	return &Fd{Stdio{r: f, w: f, f: f, flags: flags, pos: startOffset(f)}}
}
