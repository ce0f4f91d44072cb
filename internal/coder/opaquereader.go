// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"io"

	xdrinterfaces "github.com/snaewe/portablexdr/interfaces"
)

// sinkReader presents a sink as an io.Reader. Every read is satisfied in
// full or fails.
type sinkReader struct {
	s xdrinterfaces.Sink
}

func (r sinkReader) Read(p []byte) (int, error) {
	if err := r.s.GetBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

type opaqueReader struct {
	lr     io.LimitedReader
	padLen byte
}

func newOpaqueReader(s xdrinterfaces.Sink, len int64) *opaqueReader {
	return &opaqueReader{
		lr: io.LimitedReader{
			R: sinkReader{s},
			N: len,
		},
		padLen: uint8(((len + 3) & ^3) - len),
	}
}

func (o *opaqueReader) Read(p []byte) (int, error) {
	return o.lr.Read(p)
}

func (o *opaqueReader) WriteTo(w io.Writer) (int64, error) {
	return io.Copy(w, &o.lr)
}

func (o *opaqueReader) Close() error {
	o.lr.N += int64(o.padLen)
	o.padLen = 0
	_, err := io.Copy(io.Discard, &o.lr)
	return err
}

var _ io.Reader = &opaqueReader{}
var _ io.ReadCloser = &opaqueReader{}
var _ io.WriterTo = &opaqueReader{}
