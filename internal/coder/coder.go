// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package coder implements XDR encoding and decoding streams over a sink,
// and the codecs built on top of them.
package coder

import (
	"bufio"
	"bytes"
	"io"
	"sync"

	xdrinterfaces "github.com/snaewe/portablexdr/interfaces"
	"github.com/snaewe/portablexdr/internal/sink"
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// Marshal encodes m into a freshly allocated buffer
func Marshal(m xdrinterfaces.Marshaler) ([]byte, error) {
	b := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		b.Reset()
		bufferPool.Put(b)
	}()

	e := newEncoder(sink.NewWriter(b, 0))
	err := e.Encode(m)
	e.release()

	return append([]byte(nil), b.Bytes()...), err
}

// Unmarshal decodes buf into m
func Unmarshal(buf []byte, m xdrinterfaces.Marshaler) error {
	d := newDecoder(sink.NewMem(buf))
	err := d.Decode(m)
	d.release()
	return err
}

var writerPool = sync.Pool{
	New: func() interface{} {
		return bufio.NewWriter(nil)
	},
}

// Write encodes m into w
func Write(w io.Writer, m xdrinterfaces.Marshaler) error {
	switch w.(type) {
	case *bytes.Buffer, *bufio.Writer:
		// Already buffered
		e := newEncoder(sink.NewWriter(w, 0))
		err := e.Encode(m)
		e.release()
		return err
	}

	bw := writerPool.Get().(*bufio.Writer)
	bw.Reset(w)
	e := newEncoder(sink.NewWriter(bw, 0))
	err := e.Encode(m)
	e.release()
	if err == nil {
		err = bw.Flush()
	}
	bw.Reset(nil)
	writerPool.Put(bw)
	return err
}

// Read decodes m from r
func Read(r io.Reader, m xdrinterfaces.Marshaler) error {
	d := newDecoder(sink.NewReader(r, 0))
	err := d.Decode(m)
	d.release()
	return err
}
