// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"io"
	"slices"
	"sync"

	xdrinterfaces "github.com/snaewe/portablexdr/interfaces"
	"github.com/snaewe/portablexdr/internal/errors"
)

const (
	// maxChunk bounds what is allocated for a counted body ahead of its
	// bytes arriving
	maxChunk = 64 << 10

	// maxUint is the maximum value a uint can hold
	maxUint = ^uint(0)
	// maxInt is the maximum value an int can hold
	maxInt = int(maxUint >> 1)
)

var decoderPool = sync.Pool{
	New: func() interface{} {
		return new(decoder)
	},
}

type decoder struct {
	s   xdrinterfaces.Sink
	inl xdrinterfaces.Inliner

	public interface{}
}

var _ xdrinterfaces.Decoder = &decoder{}

// NewDecoder binds a decoding stream to s. The stream owns s from here on;
// destroying the stream destroys the sink.
func NewDecoder(s xdrinterfaces.Sink) xdrinterfaces.Decoder {
	return newDecoder(s)
}

func newDecoder(s xdrinterfaces.Sink) *decoder {
	d := decoderPool.Get().(*decoder)
	d.s = s
	d.inl, _ = s.(xdrinterfaces.Inliner)
	d.public = nil
	return d
}

func (d *decoder) DecodeBool() (bool, error) {
	i, err := d.s.GetUnit()
	return i != 0, err
}

func (d *decoder) DecodeInt() (int32, error) {
	return d.s.GetUnit()
}

func (d *decoder) DecodeUnsignedInt() (uint32, error) {
	i, err := d.s.GetUnit()
	return uint32(i), err
}

func (d *decoder) DecodeInt8() (int8, error) {
	i, err := d.s.GetUnit()
	return int8(i), err
}

func (d *decoder) DecodeUint8() (uint8, error) {
	i, err := d.s.GetUnit()
	return uint8(i), err
}

func (d *decoder) DecodeInt16() (int16, error) {
	i, err := d.s.GetUnit()
	return int16(i), err
}

func (d *decoder) DecodeUint16() (uint16, error) {
	i, err := d.s.GetUnit()
	return uint16(i), err
}

func (d *decoder) DecodeEnum() (int32, error) {
	return d.s.GetUnit()
}

func (d *decoder) DecodeHyper() (int64, error) {
	u, err := d.DecodeUnsignedHyper()
	return int64(u), err
}

func (d *decoder) DecodeUnsignedHyper() (uint64, error) {
	hi, err := d.s.GetUnit()
	if err != nil {
		return 0, err
	}
	lo, err := d.s.GetUnit()
	if err != nil {
		return 0, err
	}
	return uint64(uint32(hi))<<32 | uint64(uint32(lo)), nil
}

// decodeLength reads a count prefix and checks it against maxLen
func (d *decoder) decodeLength(maxLen uint32) (uint32, error) {
	l, err := d.DecodeUnsignedInt()
	switch {
	case err != nil:
		return 0, err
	case l > maxLen:
		return l, errors.LengthError{Actual: uint64(l), Max: uint64(maxLen)}
	case uint64(l) > uint64(maxInt):
		return l, errors.LengthError{Actual: uint64(l), Max: uint64(maxLen)}
	}
	return l, nil
}

func (d *decoder) OpaqueReader(maxLen uint32) (uint32, io.ReadCloser, error) {
	l, err := d.decodeLength(maxLen)
	if err != nil {
		return l, nil, err
	}

	return l, newOpaqueReader(d.s, int64(l)), nil
}

func (d *decoder) DecodeOpaque(maxLen uint32) ([]byte, error) {
	l, err := d.decodeLength(maxLen)
	switch {
	case err != nil:
		return nil, err
	case l == 0:
		// Micro-optimisation: Just return nil when l==0, as there is nothing
		// for us to do.
		return nil, nil
	}

	if d.inl != nil {
		if b := d.inl.Inline((int(l) + 3) & ^3); b != nil {
			return append([]byte(nil), b[0:int(l)]...), nil
		}
	}
	return d.readBody(int(l))
}

// readBody reads l bytes and their padding. The buffer grows as the bytes
// arrive, so a bogus count fails on the short read instead of allocating it.
func (d *decoder) readBody(l int) ([]byte, error) {
	lPad := (l + 3) & ^3
	buf := make([]byte, 0, min(lPad, maxChunk))
	for len(buf) < lPad {
		n := min(lPad-len(buf), maxChunk)
		buf = slices.Grow(buf, n)
		if err := d.s.GetBytes(buf[len(buf) : len(buf)+n]); err != nil {
			return nil, err
		}
		buf = buf[:len(buf)+n]
	}
	return buf[0:l], nil
}

func (d *decoder) DecodeFixedOpaque(buf []byte) error {
	var discard [4]byte

	if err := d.s.GetBytes(buf); err != nil {
		return err
	}

	// Discard any padding
	n := len(buf)
	n = ((n + 3) & ^3) - n
	if n == 0 {
		return nil
	}
	return d.s.GetBytes(discard[0:n])
}

func (d *decoder) DecodeString(maxLen uint32) (string, error) {
	l, err := d.decodeLength(maxLen)
	switch {
	case err != nil:
		return "", err
	case l == 0:
		return "", nil
	}

	lPad := (int(l) + 3) & ^3
	if d.inl != nil {
		if b := d.inl.Inline(lPad); b != nil {
			return string(b[0:int(l)]), nil
		}
	}

	buf, err := d.readBody(int(l))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func (d *decoder) Decode(m xdrinterfaces.Marshaler) error {
	if m == nil {
		return errors.ErrNilPointer
	}
	return m.UnmarshalXDR(d)
}

func (d *decoder) Position() (int64, error) {
	return d.s.Position()
}

func (d *decoder) SetPosition(off int64) error {
	return d.s.SetPosition(off)
}

func (d *decoder) Inline(n int) []byte {
	if d.inl == nil {
		return nil
	}
	return d.inl.Inline(n)
}

func (d *decoder) Public() interface{} {
	return d.public
}

func (d *decoder) SetPublic(v interface{}) {
	d.public = v
}

func (d *decoder) Destroy() error {
	return d.s.Destroy()
}

func (d *decoder) release() {
	d.s = nil
	d.inl = nil
	d.public = nil
	decoderPool.Put(d)
}
