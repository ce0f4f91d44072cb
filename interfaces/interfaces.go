// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package xdrinterfaces defines the primary interfaces of the XDR runtime
//
// (This package is primarily separated out in order to permit the implementation to
// be broken down into multiple packages)
package xdrinterfaces

import "io"

// interface Sink is a source or destination of XDR bytes: an in-memory buffer,
// a stdio stream or a raw file descriptor.
//
// All higher level codec logic is written against this interface and is
// therefore independent of where the bytes actually go.
type Sink interface {
	// GetUnit reads one 4 byte big-endian unit
	GetUnit() (int32, error)

	// PutUnit writes one 4 byte big-endian unit
	PutUnit(v int32) error

	// GetBytes fills p from the sink
	GetBytes(p []byte) error

	// PutBytes writes all of p to the sink
	PutBytes(p []byte) error

	// Position returns the byte offset from the start of the stream
	Position() (int64, error)

	// SetPosition seeks to the given byte offset from the start of the stream.
	// Sinks which do not support random access return ErrSeekUnsupported.
	SetPosition(off int64) error

	// Destroy releases the sink. Caller supplied buffers are never freed, and
	// files are closed only if the sink was created with the CloseFile flag.
	// Destroy may be called any number of times.
	Destroy() error
}

// interface Inliner is implemented by sinks which can expose their backing
// storage directly (currently only memory sinks).
type Inliner interface {
	// Inline returns the next n bytes of the underlying buffer and advances past
	// them, or nil if that is not possible. A nil return is not an error.
	Inline(n int) []byte
}

// interface Stream holds the operations shared by encoding and decoding handles
type Stream interface {
	// Position returns the current byte offset of the stream
	Position() (int64, error)

	// SetPosition seeks the underlying sink
	SetPosition(off int64) error

	// Destroy tears down the stream and its sink
	Destroy() error

	// Public returns the value previously stored with SetPublic
	Public() interface{}

	// SetPublic stores an arbitrary caller value on the stream
	SetPublic(v interface{})

	// Inline returns direct access to the next n bytes of the stream, if the
	// sink supports it
	Inline(n int) []byte
}

// interface Marshaler is the interface implemented by a type which knows how to encode,
// decode and release itself. The code generator emits an implementation for every
// type it declares.
type Marshaler interface {
	MarshalXDR(e Encoder) error
	UnmarshalXDR(d Decoder) error

	// FreeXDR drops any storage reachable from the value, leaving it in its
	// zero state. Calling it more than once is harmless.
	FreeXDR()
}

// interface Codec describes how one value of type T travels over XDR. It is the
// per-element routine used by the composite codecs (arrays, optionals and
// union arms), so that one traversal serves any element type.
type Codec[T any] interface {
	// Encodes *v into the encoder e.
	Encode(e Encoder, v *T) error

	// Decodes *v from the decoder d.
	Decode(d Decoder, v *T) error

	// Free releases whatever *v refers to
	Free(v *T)
}

// interface Encoder is an XDR stream in encoding mode
type Encoder interface {
	Stream

	// EncodeBool writes a bool to the XDR encoder
	EncodeBool(b bool) error

	// EncodeInt8 writes an int8, sign extended to a full unit
	EncodeInt8(i int8) error

	// EncodeUint8 writes a uint8, zero extended to a full unit
	EncodeUint8(i uint8) error

	// EncodeInt16 writes an int16, sign extended to a full unit
	EncodeInt16(i int16) error

	// EncodeUint16 writes a uint16, zero extended to a full unit
	EncodeUint16(i uint16) error

	// EncodeInt writes an int to the XDR encoder
	EncodeInt(i int32) error

	// EncodeUnsignedInt writes an unsigned int to the XDR encoder
	EncodeUnsignedInt(i uint32) error

	// EncodeHyper writes a hyper (int64) to the XDR encoder
	EncodeHyper(h int64) error

	// EncodeUnsignedHyper writes an unsigned hyper (uint64) to the XDR encoder
	EncodeUnsignedHyper(h uint64) error

	// EncodeEnum writes an enumeration value
	EncodeEnum(v int32) error

	// EncodeOpaque writes an `opaque` (dense byte slice) of at most maxLen bytes
	EncodeOpaque(b []byte, maxLen uint32) error

	// EncodeFixedOpaque writes a fixed length opaque (dense byte slice) to the XDR encoder
	// This is for fixed length fields; no length prefix will be written
	EncodeFixedOpaque(b []byte) error

	// EncodeString writes a string of at most maxLen bytes
	EncodeString(s string, maxLen uint32) error

	// Encode writes an object to the XDR encoder
	Encode(m Marshaler) error
}

// interface Decoder is an XDR stream in decoding mode
type Decoder interface {
	Stream

	// DecodeBool reads a bool. Any nonzero unit is true.
	DecodeBool() (bool, error)

	DecodeInt8() (int8, error)
	DecodeUint8() (uint8, error)
	DecodeInt16() (int16, error)
	DecodeUint16() (uint16, error)
	DecodeInt() (int32, error)
	DecodeUnsignedInt() (uint32, error)
	DecodeHyper() (int64, error)
	DecodeUnsignedHyper() (uint64, error)

	// DecodeEnum reads an enumeration value. No range check is done here.
	DecodeEnum() (int32, error)

	// DecodeOpaque reads an opaque of maximum length maxLen from the XDR decoder
	// A newly allocated buffer is returned.
	DecodeOpaque(maxLen uint32) ([]byte, error)

	// OpaqueReader returns an io.Reader which reads the body of the opaque from the
	// XDR decoder.
	//
	// The stream *must* be closed before reading further. It is not sufficient
	// to just exhaust the stream; Close() must also be called to consume padding.
	OpaqueReader(maxLen uint32) (uint32, io.ReadCloser, error)

	// DecodeFixedOpaque reads a fixed-size opaque into the passed buffer
	DecodeFixedOpaque(buf []byte) error

	// DecodeString reads a string (with maximum length maxLen) from the decoder
	DecodeString(maxLen uint32) (string, error)

	// Decode reads an object from the stream into m.
	Decode(m Marshaler) error
}
