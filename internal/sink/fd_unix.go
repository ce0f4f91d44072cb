// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

//go:build unix

package sink

import (
	"io"

	"golang.org/x/sys/unix"

	"github.com/snaewe/portablexdr/internal/errors"
)

// Fd is a sink over a raw file descriptor. Short reads and writes are retried
// until the whole request is satisfied.
type Fd struct {
	fd        int
	pos       int64
	flags     Flags
	destroyed bool

	scratch [4]byte
}

func NewFd(fd int, flags Flags) *Fd {
	s := &Fd{fd: fd, flags: flags}
	if off, err := unix.Seek(fd, 0, io.SeekCurrent); err == nil {
		s.pos = off
	}
	return s
}

func (s *Fd) GetUnit() (int32, error) {
	if err := s.GetBytes(s.scratch[:]); err != nil {
		return 0, err
	}
	return unitOf(s.scratch[:]), nil
}

func (s *Fd) PutUnit(v int32) error {
	putUnitAt(s.scratch[:], v)
	return s.PutBytes(s.scratch[:])
}

func (s *Fd) GetBytes(p []byte) error {
	if s.destroyed {
		return errors.ErrDestroyed
	}

	for len(p) > 0 {
		n, err := unix.Read(s.fd, p)
		switch {
		case err == unix.EINTR:
			continue
		case err != nil:
			return errors.IOError{Op: "read", Err: err}
		case n == 0:
			return errors.IOError{Op: "read", Err: io.ErrUnexpectedEOF}
		}
		s.pos += int64(n)
		p = p[n:]
	}
	return nil
}

func (s *Fd) PutBytes(p []byte) error {
	if s.destroyed {
		return errors.ErrDestroyed
	}

	for len(p) > 0 {
		n, err := unix.Write(s.fd, p)
		switch {
		case err == unix.EINTR:
			continue
		case err != nil:
			return errors.IOError{Op: "write", Err: err}
		case n == 0:
			return errors.IOError{Op: "write", Err: io.ErrShortWrite}
		}
		s.pos += int64(n)
		p = p[n:]
	}
	return nil
}

func (s *Fd) Position() (int64, error) {
	if s.destroyed {
		return 0, errors.ErrDestroyed
	}
	return s.pos, nil
}

func (s *Fd) SetPosition(off int64) error {
	if s.destroyed {
		return errors.ErrDestroyed
	}

	n, err := unix.Seek(s.fd, off, io.SeekStart)
	switch {
	case err == unix.ESPIPE:
		return errors.ErrSeekUnsupported
	case err != nil:
		return errors.IOError{Op: "seek", Err: err}
	}
	s.pos = n
	return nil
}

func (s *Fd) Destroy() error {
	if s.destroyed {
		return nil
	}
	s.destroyed = true

	if s.flags&CloseFile != 0 {
		if err := unix.Close(s.fd); err != nil {
			return errors.IOError{Op: "close", Err: err}
		}
	}
	return nil
}
