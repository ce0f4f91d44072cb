// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package sink

import (
	"io"

	"github.com/snaewe/portablexdr/internal/errors"
)

// Stdio is a sink over a sequential stream. It reads from r or writes to w
// (exactly one of them is set), unbuffered, so that the position of the
// underlying file always matches what the codec has consumed or produced.
//
// If the stream also implements io.Seeker, SetPosition is supported.
type Stdio struct {
	r io.Reader
	w io.Writer

	// The stream as originally passed, for seeking and closing
	f interface{}

	pos       int64
	flags     Flags
	destroyed bool

	// Small scratch buffer (avoids needing to ever allocate when moving units)
	scratch [4]byte
}

// NewReader binds a decoding sink to r
func NewReader(r io.Reader, flags Flags) *Stdio {
	s := &Stdio{r: r, f: r, flags: flags}
	s.pos = startOffset(r)
	return s
}

// NewWriter binds an encoding sink to w
func NewWriter(w io.Writer, flags Flags) *Stdio {
	s := &Stdio{w: w, f: w, flags: flags}
	s.pos = startOffset(w)
	return s
}

func startOffset(f interface{}) int64 {
	if sk, ok := f.(io.Seeker); ok {
		if off, err := sk.Seek(0, io.SeekCurrent); err == nil {
			return off
		}
	}
	return 0
}

func (s *Stdio) GetUnit() (int32, error) {
	if err := s.GetBytes(s.scratch[:]); err != nil {
		return 0, err
	}
	return unitOf(s.scratch[:]), nil
}

func (s *Stdio) PutUnit(v int32) error {
	putUnitAt(s.scratch[:], v)
	return s.PutBytes(s.scratch[:])
}

func (s *Stdio) GetBytes(p []byte) error {
	switch {
	case s.destroyed:
		return errors.ErrDestroyed
	case s.r == nil:
		return errors.IOError{Op: "read", Err: io.ErrClosedPipe}
	}

	n, err := io.ReadFull(s.r, p)
	s.pos += int64(n)
	if err != nil {
		return errors.IOError{Op: "read", Err: err}
	}
	return nil
}

func (s *Stdio) PutBytes(p []byte) error {
	switch {
	case s.destroyed:
		return errors.ErrDestroyed
	case s.w == nil:
		return errors.IOError{Op: "write", Err: io.ErrClosedPipe}
	}

	n, err := s.w.Write(p)
	s.pos += int64(n)
	if err != nil {
		return errors.IOError{Op: "write", Err: err}
	}
	return nil
}

func (s *Stdio) Position() (int64, error) {
	if s.destroyed {
		return 0, errors.ErrDestroyed
	}
	return s.pos, nil
}

func (s *Stdio) SetPosition(off int64) error {
	if s.destroyed {
		return errors.ErrDestroyed
	}

	sk, ok := s.f.(io.Seeker)
	if !ok {
		return errors.ErrSeekUnsupported
	}

	n, err := sk.Seek(off, io.SeekStart)
	if err != nil {
		return errors.IOError{Op: "seek", Err: err}
	}
	s.pos = n
	return nil
}

func (s *Stdio) Destroy() error {
	if s.destroyed {
		return nil
	}
	s.destroyed = true

	var err error
	if s.flags&CloseFile != 0 {
		if c, ok := s.f.(io.Closer); ok {
			err = c.Close()
		}
	}
	s.r, s.w, s.f = nil, nil, nil
	if err != nil {
		return errors.IOError{Op: "close", Err: err}
	}
	return nil
}
