// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	xdrinterfaces "github.com/snaewe/portablexdr/interfaces"
)

// scalarCodec adapts one pair of primitive Encoder/Decoder methods into a
// Codec. Scalars own no storage, so Free does nothing.
type scalarCodec[T any] struct {
	enc func(xdrinterfaces.Encoder, T) error
	dec func(xdrinterfaces.Decoder) (T, error)
}

func (c scalarCodec[T]) Encode(e xdrinterfaces.Encoder, v *T) error {
	return c.enc(e, *v)
}

func (c scalarCodec[T]) Decode(d xdrinterfaces.Decoder, v *T) error {
	x, err := c.dec(d)
	if err != nil {
		return err
	}
	*v = x
	return nil
}

func (c scalarCodec[T]) Free(v *T) {}

var (
	Bool xdrinterfaces.Codec[bool] = scalarCodec[bool]{
		xdrinterfaces.Encoder.EncodeBool, xdrinterfaces.Decoder.DecodeBool}

	Int8 xdrinterfaces.Codec[int8] = scalarCodec[int8]{
		xdrinterfaces.Encoder.EncodeInt8, xdrinterfaces.Decoder.DecodeInt8}
	Uint8 xdrinterfaces.Codec[uint8] = scalarCodec[uint8]{
		xdrinterfaces.Encoder.EncodeUint8, xdrinterfaces.Decoder.DecodeUint8}

	Int16 xdrinterfaces.Codec[int16] = scalarCodec[int16]{
		xdrinterfaces.Encoder.EncodeInt16, xdrinterfaces.Decoder.DecodeInt16}
	Uint16 xdrinterfaces.Codec[uint16] = scalarCodec[uint16]{
		xdrinterfaces.Encoder.EncodeUint16, xdrinterfaces.Decoder.DecodeUint16}

	Int32 xdrinterfaces.Codec[int32] = scalarCodec[int32]{
		xdrinterfaces.Encoder.EncodeInt, xdrinterfaces.Decoder.DecodeInt}
	Uint32 xdrinterfaces.Codec[uint32] = scalarCodec[uint32]{
		xdrinterfaces.Encoder.EncodeUnsignedInt, xdrinterfaces.Decoder.DecodeUnsignedInt}

	Int64 xdrinterfaces.Codec[int64] = scalarCodec[int64]{
		xdrinterfaces.Encoder.EncodeHyper, xdrinterfaces.Decoder.DecodeHyper}
	Uint64 xdrinterfaces.Codec[uint64] = scalarCodec[uint64]{
		xdrinterfaces.Encoder.EncodeUnsignedHyper, xdrinterfaces.Decoder.DecodeUnsignedHyper}

	// Enum carries raw enumeration values; generated enum types validate
	// their own range on top of this
	Enum xdrinterfaces.Codec[int32] = scalarCodec[int32]{
		xdrinterfaces.Encoder.EncodeEnum, xdrinterfaces.Decoder.DecodeEnum}
)
