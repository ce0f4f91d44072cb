// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package xdr

import (
	"io"
	"os"

	"github.com/snaewe/portablexdr/internal/coder"
	"github.com/snaewe/portablexdr/internal/sink"
)

// Flags control how file and descriptor streams treat what they wrap
type Flags = sink.Flags

// CloseFile makes Destroy close the file or descriptor
const CloseFile = sink.CloseFile

// Marshals m into the returned buffer
func Marshal(m Marshaler) ([]byte, error) {
	return coder.Marshal(m)
}

// Unmarshals buf into m
func Unmarshal(buf []byte, m Marshaler) error {
	return coder.Unmarshal(buf, m)
}

// Write marshals m into the passed writer
func Write(w io.Writer, m Marshaler) error {
	return coder.Write(w, m)
}

// Read unmarshals m out of the passed reader
func Read(r io.Reader, m Marshaler) error {
	return coder.Read(r, m)
}

// NewMemEncoder constructs an encoder which writes into buf. Encoding more
// than len(buf) bytes fails with ErrShortBuffer.
func NewMemEncoder(buf []byte) Encoder {
	return coder.NewEncoder(sink.NewMem(buf))
}

// NewMemDecoder constructs a decoder which reads from buf
func NewMemDecoder(buf []byte) Decoder {
	return coder.NewDecoder(sink.NewMem(buf))
}

// NewFileEncoder constructs an encoder which writes to f
func NewFileEncoder(f *os.File, flags Flags) Encoder {
	return coder.NewEncoder(sink.NewWriter(f, flags))
}

// NewFileDecoder constructs a decoder which reads from f
func NewFileDecoder(f *os.File, flags Flags) Decoder {
	return coder.NewDecoder(sink.NewReader(f, flags))
}

// NewFdEncoder constructs an encoder which writes to the file descriptor fd
func NewFdEncoder(fd int, flags Flags) Encoder {
	return coder.NewEncoder(sink.NewFd(fd, flags))
}

// NewFdDecoder constructs a decoder which reads from the file descriptor fd
func NewFdDecoder(fd int, flags Flags) Decoder {
	return coder.NewDecoder(sink.NewFd(fd, flags))
}

// Constructs a new encoder which writes to w
func NewEncoder(w io.Writer) Encoder {
	return coder.NewEncoder(sink.NewWriter(w, 0))
}

// Constructs a new decoder which reads from r
func NewDecoder(r io.Reader) Decoder {
	return coder.NewDecoder(sink.NewReader(r, 0))
}

// NewSinkEncoder constructs an encoder over a caller provided sink
func NewSinkEncoder(s Sink) Encoder {
	return coder.NewEncoder(s)
}

// NewSinkDecoder constructs a decoder over a caller provided sink
func NewSinkDecoder(s Sink) Decoder {
	return coder.NewDecoder(s)
}
