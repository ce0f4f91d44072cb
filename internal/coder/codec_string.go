// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	xdrinterfaces "github.com/snaewe/portablexdr/interfaces"
)

// stringCodec handles variable length strings,
// opaqueCodec handles variable length opaques
type stringCodec struct {
	maxlen uint32
}

type opaqueCodec struct {
	maxlen uint32
}

var _ xdrinterfaces.Codec[string] = stringCodec{}
var _ xdrinterfaces.Codec[[]byte] = opaqueCodec{}

// String returns the codec for `string ident<maxLen>`
func String(maxLen uint32) xdrinterfaces.Codec[string] {
	return stringCodec{maxLen}
}

// Opaque returns the codec for `opaque ident<maxLen>`
func Opaque(maxLen uint32) xdrinterfaces.Codec[[]byte] {
	return opaqueCodec{maxLen}
}

func (c stringCodec) Encode(e xdrinterfaces.Encoder, v *string) error {
	return e.EncodeString(*v, c.maxlen)
}

func (c stringCodec) Decode(d xdrinterfaces.Decoder, v *string) error {
	s, err := d.DecodeString(c.maxlen)
	if err != nil {
		return err
	}
	*v = s
	return nil
}

func (c stringCodec) Free(v *string) {
	*v = ""
}

func (c opaqueCodec) Encode(e xdrinterfaces.Encoder, v *[]byte) error {
	return e.EncodeOpaque(*v, c.maxlen)
}

func (c opaqueCodec) Decode(d xdrinterfaces.Decoder, v *[]byte) error {
	b, err := d.DecodeOpaque(c.maxlen)
	if err != nil {
		return err
	}
	*v = b
	return nil
}

func (c opaqueCodec) Free(v *[]byte) {
	*v = nil
}
