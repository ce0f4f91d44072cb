// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package xdr implements encoding and decoding of the XDR
// (External Data Representation) format, as specified in RFC 4506.
//
// A stream is bound to one sink (a memory buffer, a file or stream, or a raw
// file descriptor) and is fixed to one direction when it is constructed: an
// Encoder can only encode and a Decoder can only decode. Releasing decoded
// values needs no stream at all; see Free.
//
// Every XDR value travels as a whole number of 4 byte big-endian units:
//
//                       XDR | Go            | Codec
//     ----------------------+---------------+---------------------------
//                      bool | bool          | Bool
//      char, short, int     | int8..int32   | Int8, Int16, Int32
//     unsigned variants     | uint8..uint32 | Uint8, Uint16, Uint32
//                     hyper | int64         | Int64
//            unsigned hyper | uint64        | Uint64
//                      enum | int32         | Enum
//      string ident<N>      | string        | String(N)
//      opaque ident<N>      | []byte        | Opaque(N)
//      opaque ident[N]      | [N]byte       | Encoder.EncodeFixedOpaque
//           T ident<N>      | []T           | Array(elem, N)
//           T ident[N]      | [N]T          | EncodeVector, DecodeVector
//           T *ident        | *T            | Optional(elem)
//
// (in the above, `T`, `N` and `ident` are metavariables corresponding to
// an arbitrary type, an arbitrary (maximum) length, and an arbitrary identifier
// respectively; an omitted maximum is 0xFFFFFFFF)
//
// Composite codecs take a per-element Codec, so one traversal serves any element
// type. Types produced by the rpcgen compiler implement Marshaler, and Elem
// turns any such type into a Codec.
//
// Discriminated unions are described with a Union value which binds each
// discriminant to the arm (a codec plus the field it fills) it selects.
package xdr

import (
	xdrinterfaces "github.com/snaewe/portablexdr/interfaces"
	"github.com/snaewe/portablexdr/internal/coder"
)

// interface Stream holds the operations common to encoders and decoders
type Stream = xdrinterfaces.Stream

// interface Sink is the byte source or destination a stream is bound to
type Sink = xdrinterfaces.Sink

// interface Encoder is the interface to the XDR encoder
type Encoder = xdrinterfaces.Encoder

// interface Decoder is the interface to the XDR decoder
type Decoder = xdrinterfaces.Decoder

// interface Marshaler is implemented by types which can encode, decode and
// free themselves
type Marshaler = xdrinterfaces.Marshaler

// interface Codec encodes, decodes and frees values of type T
type Codec[T any] = xdrinterfaces.Codec[T]

// interface Arm is a codec bound to the storage of one union arm
type Arm = coder.Arm

// Union describes the arms of a discriminated union value
type Union = coder.Union

// UnionCase selects one union arm
type UnionCase = coder.UnionCase
