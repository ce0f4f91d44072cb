// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	xdrinterfaces "github.com/snaewe/portablexdr/interfaces"
)

// optCodec handles optional data (`T *ident`): a bool presence flag followed,
// if set, by the value
type optCodec[T any] struct {
	elem xdrinterfaces.Codec[T]
}

// Optional returns the codec for optional data of elem
func Optional[T any](elem xdrinterfaces.Codec[T]) xdrinterfaces.Codec[*T] {
	return optCodec[T]{elem}
}

func (c optCodec[T]) Encode(e xdrinterfaces.Encoder, v **T) error {
	isNil := *v == nil
	if err := e.EncodeBool(!isNil); err != nil {
		return err
	}

	if isNil {
		return nil
	}
	return c.elem.Encode(e, *v)
}

func (c optCodec[T]) Decode(d xdrinterfaces.Decoder, v **T) error {
	isNonNil, err := d.DecodeBool()
	if err != nil {
		return err
	}

	if !isNonNil {
		c.Free(v)
		return nil
	}

	if *v == nil {
		*v = new(T)
	}
	return c.elem.Decode(d, *v)
}

func (c optCodec[T]) Free(v **T) {
	if *v != nil {
		c.elem.Free(*v)
		*v = nil
	}
}
