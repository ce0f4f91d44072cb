// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"sync"

	xdrinterfaces "github.com/snaewe/portablexdr/interfaces"
	"github.com/snaewe/portablexdr/internal/errors"
)

// 4 byte array which will always contain zeroes that we use whenever
// we need to emit padding
var pad [4]byte

var encoderPool = sync.Pool{
	New: func() interface{} {
		return new(encoder)
	},
}

type encoder struct {
	// Underlying sink
	s xdrinterfaces.Sink
	// Set if the sink can hand out its backing storage
	inl xdrinterfaces.Inliner

	public interface{}
}

var _ xdrinterfaces.Encoder = &encoder{}

// NewEncoder binds an encoding stream to s. The stream owns s from here on;
// destroying the stream destroys the sink.
func NewEncoder(s xdrinterfaces.Sink) xdrinterfaces.Encoder {
	return newEncoder(s)
}

func newEncoder(s xdrinterfaces.Sink) *encoder {
	e := encoderPool.Get().(*encoder)
	e.reset(s)
	return e
}

func (e *encoder) reset(s xdrinterfaces.Sink) {
	e.s = s
	e.inl, _ = s.(xdrinterfaces.Inliner)
	e.public = nil
}

func (e *encoder) EncodeInt(i int32) error {
	return e.s.PutUnit(i)
}

func (e *encoder) EncodeUnsignedInt(i uint32) error {
	return e.s.PutUnit(int32(i))
}

func (e *encoder) EncodeInt8(i int8) error {
	return e.s.PutUnit(int32(i))
}

func (e *encoder) EncodeUint8(i uint8) error {
	return e.s.PutUnit(int32(i))
}

func (e *encoder) EncodeInt16(i int16) error {
	return e.s.PutUnit(int32(i))
}

func (e *encoder) EncodeUint16(i uint16) error {
	return e.s.PutUnit(int32(i))
}

func (e *encoder) EncodeEnum(v int32) error {
	return e.s.PutUnit(v)
}

func (e *encoder) EncodeBool(b bool) error {
	var i int32
	if b {
		i = 1
	}
	return e.s.PutUnit(i)
}

func (e *encoder) EncodeHyper(i int64) error {
	if err := e.s.PutUnit(int32(i >> 32)); err != nil {
		return err
	}
	return e.s.PutUnit(int32(i))
}

func (e *encoder) EncodeUnsignedHyper(u uint64) error {
	return e.EncodeHyper(int64(u))
}

func (e *encoder) EncodeOpaque(buf []byte, maxLen uint32) error {
	if uint64(len(buf)) > uint64(maxLen) {
		return errors.LengthError{Actual: uint64(len(buf)), Max: uint64(maxLen)}
	}

	if err := e.EncodeUnsignedInt(uint32(len(buf))); err != nil {
		return err
	}
	return e.EncodeFixedOpaque(buf)
}

func (e *encoder) EncodeFixedOpaque(buf []byte) error {
	if err := e.s.PutBytes(buf); err != nil {
		return err
	}

	padding := (4 - (len(buf) & 3)) & 3
	if padding == 0 {
		return nil
	}
	return e.s.PutBytes(pad[0:padding])
}

func (e *encoder) EncodeString(s string, maxLen uint32) error {
	if uint64(len(s)) > uint64(maxLen) {
		return errors.LengthError{Actual: uint64(len(s)), Max: uint64(maxLen)}
	}

	if err := e.EncodeUnsignedInt(uint32(len(s))); err != nil {
		return err
	}

	// Memory sinks let us copy straight into the buffer
	if e.inl != nil {
		if b := e.inl.Inline(len(s)); b != nil {
			copy(b, s)
			padding := (4 - (len(s) & 3)) & 3
			if padding == 0 {
				return nil
			}
			return e.s.PutBytes(pad[0:padding])
		}
	}
	return e.EncodeFixedOpaque([]byte(s))
}

func (e *encoder) Encode(m xdrinterfaces.Marshaler) error {
	if m == nil {
		return errors.ErrNilPointer
	}
	return m.MarshalXDR(e)
}

func (e *encoder) Position() (int64, error) {
	return e.s.Position()
}

func (e *encoder) SetPosition(off int64) error {
	return e.s.SetPosition(off)
}

func (e *encoder) Inline(n int) []byte {
	if e.inl == nil {
		return nil
	}
	return e.inl.Inline(n)
}

func (e *encoder) Public() interface{} {
	return e.public
}

func (e *encoder) SetPublic(v interface{}) {
	e.public = v
}

func (e *encoder) Destroy() error {
	return e.s.Destroy()
}

// release returns a pooled encoder. The sink is not touched.
func (e *encoder) release() {
	e.s = nil
	e.inl = nil
	e.public = nil
	encoderPool.Put(e)
}
