// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	xdrinterfaces "github.com/snaewe/portablexdr/interfaces"
)

// marshalerCodec handles types which know how to self marshal
type marshalerCodec[T any, PT interface {
	*T
	xdrinterfaces.Marshaler
}] struct{}

// Elem returns the codec for a type implementing Marshaler through its
// pointer, which is what the code generator emits for every named type
func Elem[T any, PT interface {
	*T
	xdrinterfaces.Marshaler
}]() xdrinterfaces.Codec[T] {
	return marshalerCodec[T, PT]{}
}

func (marshalerCodec[T, PT]) Encode(e xdrinterfaces.Encoder, v *T) error {
	return PT(v).MarshalXDR(e)
}

func (marshalerCodec[T, PT]) Decode(d xdrinterfaces.Decoder, v *T) error {
	return PT(v).UnmarshalXDR(d)
}

func (marshalerCodec[T, PT]) Free(v *T) {
	PT(v).FreeXDR()
}

// Arm is a codec bound to the storage it operates on. Union arms are
// expressed this way so that arms of different types can sit side by side.
type Arm interface {
	EncodeArm(e xdrinterfaces.Encoder) error
	DecodeArm(d xdrinterfaces.Decoder) error
	FreeArm()
}

type boundArm[T any] struct {
	c xdrinterfaces.Codec[T]
	v *T
}

// Bind ties codec c to the value at v
func Bind[T any](c xdrinterfaces.Codec[T], v *T) Arm {
	return boundArm[T]{c, v}
}

func (a boundArm[T]) EncodeArm(e xdrinterfaces.Encoder) error {
	return a.c.Encode(e, a.v)
}

func (a boundArm[T]) DecodeArm(d xdrinterfaces.Decoder) error {
	return a.c.Decode(d, a.v)
}

func (a boundArm[T]) FreeArm() {
	a.c.Free(a.v)
}

type vectorArm[T any] struct {
	c xdrinterfaces.Codec[T]
	s []T
}

// BindVector ties element codec c to the fixed length vector s
func BindVector[T any](c xdrinterfaces.Codec[T], s []T) Arm {
	return vectorArm[T]{c, s}
}

func (a vectorArm[T]) EncodeArm(e xdrinterfaces.Encoder) error {
	return EncodeVector(e, a.s, a.c)
}

func (a vectorArm[T]) DecodeArm(d xdrinterfaces.Decoder) error {
	return DecodeVector(d, a.s, a.c)
}

func (a vectorArm[T]) FreeArm() {
	FreeVector(a.s, a.c)
}

type fixedOpaqueArm []byte

// BindFixedOpaque ties the fixed length opaque b to a union arm
func BindFixedOpaque(b []byte) Arm {
	return fixedOpaqueArm(b)
}

func (a fixedOpaqueArm) EncodeArm(e xdrinterfaces.Encoder) error {
	return e.EncodeFixedOpaque(a)
}

func (a fixedOpaqueArm) DecodeArm(d xdrinterfaces.Decoder) error {
	return d.DecodeFixedOpaque(a)
}

func (a fixedOpaqueArm) FreeArm() {
	clear(a)
}

// voidArm is the arm of a `void` case: nothing on the wire
type voidArm struct{}

var Void Arm = voidArm{}

func (voidArm) EncodeArm(e xdrinterfaces.Encoder) error { return nil }
func (voidArm) DecodeArm(d xdrinterfaces.Decoder) error { return nil }
func (voidArm) FreeArm()                                {}
