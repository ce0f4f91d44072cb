// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package sink

import (
	"github.com/snaewe/portablexdr/internal/errors"
)

// Mem is a sink over a caller owned byte slice. Its capacity is len(buf);
// reads and writes which would cross that boundary fail with ErrShortBuffer
// and leave the position untouched.
type Mem struct {
	buf       []byte
	pos       int
	destroyed bool
}

func NewMem(buf []byte) *Mem {
	return &Mem{buf: buf}
}

// take returns the next n bytes and advances past them
func (m *Mem) take(n int) ([]byte, error) {
	switch {
	case m.destroyed:
		return nil, errors.ErrDestroyed
	case n < 0 || n > len(m.buf)-m.pos:
		return nil, errors.ErrShortBuffer
	}

	b := m.buf[m.pos : m.pos+n]
	m.pos += n
	return b, nil
}

func (m *Mem) GetUnit() (int32, error) {
	b, err := m.take(4)
	if err != nil {
		return 0, err
	}
	return unitOf(b), nil
}

func (m *Mem) PutUnit(v int32) error {
	b, err := m.take(4)
	if err != nil {
		return err
	}
	putUnitAt(b, v)
	return nil
}

func (m *Mem) GetBytes(p []byte) error {
	b, err := m.take(len(p))
	if err != nil {
		return err
	}
	copy(p, b)
	return nil
}

func (m *Mem) PutBytes(p []byte) error {
	b, err := m.take(len(p))
	if err != nil {
		return err
	}
	copy(b, p)
	return nil
}

func (m *Mem) Position() (int64, error) {
	if m.destroyed {
		return 0, errors.ErrDestroyed
	}
	return int64(m.pos), nil
}

func (m *Mem) SetPosition(off int64) error {
	switch {
	case m.destroyed:
		return errors.ErrDestroyed
	case off < 0 || off > int64(len(m.buf)):
		return errors.ErrShortBuffer
	}
	m.pos = int(off)
	return nil
}

func (m *Mem) Inline(n int) []byte {
	b, err := m.take(n)
	if err != nil {
		return nil
	}
	return b
}

// Bytes returns the part of the buffer before the current position
func (m *Mem) Bytes() []byte {
	return m.buf[:m.pos]
}

// Destroy drops the reference to the buffer. The buffer belongs to the caller
// and is left alone.
func (m *Mem) Destroy() error {
	m.destroyed = true
	m.buf = nil
	m.pos = 0
	return nil
}
