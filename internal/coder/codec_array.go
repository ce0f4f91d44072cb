// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	xdrinterfaces "github.com/snaewe/portablexdr/interfaces"
	"github.com/snaewe/portablexdr/internal/errors"
)

// Upper bound on the capacity allocated up front when decoding a variable
// array; past this the slice grows as elements actually arrive
const maxPrealloc = 1024

// EncodeVector writes every element of s with elem. Nothing else is written:
// the length of a fixed vector is known to both sides.
func EncodeVector[T any](e xdrinterfaces.Encoder, s []T, elem xdrinterfaces.Codec[T]) error {
	for i := range s {
		if err := elem.Encode(e, &s[i]); err != nil {
			return err
		}
	}
	return nil
}

// DecodeVector decodes len(s) elements into s
func DecodeVector[T any](d xdrinterfaces.Decoder, s []T, elem xdrinterfaces.Codec[T]) error {
	for i := range s {
		if err := elem.Decode(d, &s[i]); err != nil {
			return err
		}
	}
	return nil
}

// FreeVector releases every element of s
func FreeVector[T any](s []T, elem xdrinterfaces.Codec[T]) {
	for i := range s {
		elem.Free(&s[i])
	}
}

// arrayCodec handles `T ident<maxlen>`
type arrayCodec[T any] struct {
	elem   xdrinterfaces.Codec[T]
	maxlen uint32
}

// Array returns the codec for a variable length array of elem with at most
// maxLen elements
func Array[T any](elem xdrinterfaces.Codec[T], maxLen uint32) xdrinterfaces.Codec[[]T] {
	return arrayCodec[T]{elem, maxLen}
}

func (c arrayCodec[T]) Encode(e xdrinterfaces.Encoder, v *[]T) error {
	l := len(*v)
	if uint64(l) > uint64(c.maxlen) {
		return errors.LengthError{Actual: uint64(l), Max: uint64(c.maxlen)}
	}

	if err := e.EncodeUnsignedInt(uint32(l)); err != nil {
		return err
	}
	return EncodeVector(e, *v, c.elem)
}

// Decode reuses the storage already in *v when it is large enough
func (c arrayCodec[T]) Decode(d xdrinterfaces.Decoder, v *[]T) error {
	l, err := d.DecodeUnsignedInt()
	switch {
	case err != nil:
		return err
	case l > c.maxlen:
		return errors.LengthError{Actual: uint64(l), Max: uint64(c.maxlen)}
	case uint64(l) > uint64(maxInt):
		return errors.LengthError{Actual: uint64(l), Max: uint64(c.maxlen)}
	case l == 0:
		// Tiny optimisation: Skip allocating zero-length slices
		*v = (*v)[:0]
		return nil
	}

	n := int(l)
	if cap(*v) >= n {
		*v = (*v)[:n]
		return DecodeVector(d, *v, c.elem)
	}

	s := make([]T, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		var zero T
		s = append(s, zero)
		if err := c.elem.Decode(d, &s[i]); err != nil {
			*v = s
			return err
		}
	}
	*v = s
	return nil
}

func (c arrayCodec[T]) Free(v *[]T) {
	FreeVector(*v, c.elem)
	*v = nil
}
