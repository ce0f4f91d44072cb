// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package xdr

import (
	"github.com/snaewe/portablexdr/internal/coder"
)

// Unbounded is the implicit maximum of `<>`
const Unbounded = ^uint32(0)

var (
	Bool   = coder.Bool
	Int8   = coder.Int8
	Uint8  = coder.Uint8
	Int16  = coder.Int16
	Uint16 = coder.Uint16
	Int32  = coder.Int32
	Uint32 = coder.Uint32
	Int64  = coder.Int64
	Uint64 = coder.Uint64
	Enum   = coder.Enum

	// Void is the union arm of a `void` case
	Void = coder.Void
)

// String returns the codec for a string of at most maxLen bytes
func String(maxLen uint32) Codec[string] {
	return coder.String(maxLen)
}

// Opaque returns the codec for a variable length opaque of at most maxLen bytes
func Opaque(maxLen uint32) Codec[[]byte] {
	return coder.Opaque(maxLen)
}

// Array returns the codec for a variable length array of at most maxLen
// elements, each handled by elem
func Array[T any](elem Codec[T], maxLen uint32) Codec[[]T] {
	return coder.Array(elem, maxLen)
}

// Optional returns the codec for optional data: a presence flag and, if
// present, the value
func Optional[T any](elem Codec[T]) Codec[*T] {
	return coder.Optional(elem)
}

// Elem returns the codec for a type whose pointer implements Marshaler
func Elem[T any, PT interface {
	*T
	Marshaler
}]() Codec[T] {
	return coder.Elem[T, PT]()
}

// EncodeVector writes the elements of a fixed length vector
func EncodeVector[T any](e Encoder, s []T, elem Codec[T]) error {
	return coder.EncodeVector(e, s, elem)
}

// DecodeVector reads len(s) elements into s
func DecodeVector[T any](d Decoder, s []T, elem Codec[T]) error {
	return coder.DecodeVector(d, s, elem)
}

// FreeVector releases every element of s
func FreeVector[T any](s []T, elem Codec[T]) {
	coder.FreeVector(s, elem)
}

// Bind ties codec c to the value at v, for use as a union arm
func Bind[T any](c Codec[T], v *T) Arm {
	return coder.Bind(c, v)
}

// BindVector ties element codec c to a fixed length vector, for use as a
// union arm
func BindVector[T any](c Codec[T], s []T) Arm {
	return coder.BindVector(c, s)
}

// BindFixedOpaque ties a fixed length opaque to a union arm
func BindFixedOpaque(b []byte) Arm {
	return coder.BindFixedOpaque(b)
}

// BoolDiscriminant converts a bool union switch to its wire value
func BoolDiscriminant(b bool) int32 {
	return coder.BoolDiscriminant(b)
}

// Free releases everything reachable from *v, leaving it zeroed
func Free[T any](c Codec[T], v *T) {
	c.Free(v)
}
