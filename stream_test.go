// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package xdr

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStreamBounds(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 6)
	e := NewMemEncoder(buf)
	require.NoError(t, e.EncodeInt(1))
	err := e.EncodeInt(2)
	assert.True(t, errors.Is(err, ErrShortBuffer), "write past capacity should fail, got %v", err)

	pos, err := e.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos, "failed write must not move the position")
	assert.Equal(t, []byte{0, 0, 0, 1, 0, 0}, buf)

	d := NewMemDecoder(buf[:6])
	_, err = d.DecodeHyper()
	assert.True(t, errors.Is(err, ErrShortBuffer), "read past end should fail, got %v", err)
}

func TestMemStreamPosition(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 12)
	e := NewMemEncoder(buf)
	require.NoError(t, e.EncodeInt(1))
	require.NoError(t, e.EncodeInt(2))
	require.NoError(t, e.SetPosition(0))
	require.NoError(t, e.EncodeInt(3))
	assert.Equal(t, []byte{0, 0, 0, 3, 0, 0, 0, 2, 0, 0, 0, 0}, buf)

	assert.Error(t, e.SetPosition(13))
	assert.Error(t, e.SetPosition(-1))
	assert.NoError(t, e.SetPosition(12))
}

func TestMemStreamInline(t *testing.T) {
	t.Parallel()

	buf := []byte{0, 0, 0, 7, 1, 2, 3, 4}
	d := NewMemDecoder(buf)
	i, err := d.DecodeInt()
	require.NoError(t, err)
	assert.Equal(t, int32(7), i)

	b := d.Inline(4)
	require.NotNil(t, b)
	assert.Equal(t, []byte{1, 2, 3, 4}, b)
	assert.Nil(t, d.Inline(4), "nothing left to inline")

	// Stream sinks never inline
	sd := NewDecoder(bytes.NewReader(buf))
	assert.Nil(t, sd.Inline(4))
}

func TestStreamPublic(t *testing.T) {
	t.Parallel()

	e := NewMemEncoder(make([]byte, 4))
	assert.Nil(t, e.Public())
	e.SetPublic("tag")
	assert.Equal(t, "tag", e.Public())
}

func TestDestroy(t *testing.T) {
	t.Parallel()

	e := NewMemEncoder(make([]byte, 8))
	require.NoError(t, e.Destroy())
	require.NoError(t, e.Destroy(), "destroy is idempotent")
	assert.True(t, errors.Is(e.EncodeInt(1), ErrDestroyed))
}

func TestFileStream(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.xdr")
	f, err := os.Create(path)
	require.NoError(t, err)

	e := NewFileEncoder(f, 0)
	require.NoError(t, e.EncodeString("hello", 16))
	require.NoError(t, e.EncodeHyper(-2))
	pos, err := e.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(20), pos)
	require.NoError(t, e.Destroy())

	// Without CloseFile the file stays usable
	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err, "file should still be open")

	d := NewFileDecoder(f, CloseFile)
	s, err := d.DecodeString(16)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	require.NoError(t, d.SetPosition(12))
	h, err := d.DecodeHyper()
	require.NoError(t, err)
	assert.Equal(t, int64(-2), h)

	require.NoError(t, d.Destroy())
	require.NoError(t, d.Destroy())
	_, err = f.Seek(0, io.SeekStart)
	assert.Error(t, err, "CloseFile should have closed the file")
}

func TestStreamTruncated(t *testing.T) {
	t.Parallel()

	d := NewDecoder(bytes.NewReader([]byte{0, 0, 0, 1, 0, 0}))
	_, err := d.DecodeHyper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF), "got %v", err)

	var ioerr IOError
	assert.True(t, errors.As(err, &ioerr))
}

func TestStreamNoSeek(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	e := NewEncoder(&b)
	require.NoError(t, e.EncodeInt(1))
	assert.True(t, errors.Is(e.SetPosition(0), ErrSeekUnsupported))
}

func TestOpaqueReader(t *testing.T) {
	t.Parallel()

	buf := []byte{0, 0, 0, 5, 'h', 'e', 'l', 'l', 'o', 0, 0, 0, 0, 0, 0, 9}
	for _, name := range []string{"mem", "stream"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var d Decoder
			if name == "mem" {
				d = NewMemDecoder(buf)
			} else {
				d = NewDecoder(bytes.NewReader(buf))
			}

			l, r, err := d.OpaqueReader(8)
			require.NoError(t, err)
			assert.Equal(t, uint32(5), l)

			body, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, []byte("hello"), body)
			require.NoError(t, r.Close())

			i, err := d.DecodeInt()
			require.NoError(t, err)
			assert.Equal(t, int32(9), i)
		})
	}

	d := NewMemDecoder(buf)
	_, _, err := d.OpaqueReader(4)
	assert.True(t, errors.Is(err, ErrLengthExceedsMax))
}

func TestFree(t *testing.T) {
	t.Parallel()

	c := Array(Optional(String(Unbounded)), Unbounded)
	s1, s2 := "a", "b"
	v := []*string{&s1, nil, &s2}
	Free(c, &v)
	assert.Nil(t, v)
	assert.Equal(t, "", s1, "elements are released before the array")

	sh := shape{Kind: 1, Name: "disc"}
	sh.FreeXDR()
	assert.Equal(t, shape{}, sh)

	// Freeing twice is harmless
	Free(c, &v)
	sh.FreeXDR()
}

func TestArrayDecodeReusesStorage(t *testing.T) {
	t.Parallel()

	v := make([]int32, 4, 8)
	backing := &v[0]
	d := NewMemDecoder([]byte{0, 0, 0, 2, 0, 0, 0, 5, 0, 0, 0, 6})
	require.NoError(t, Array(Int32, 8).Decode(d, &v))
	assert.Equal(t, []int32{5, 6}, v)
	assert.True(t, backing == &v[0], "storage should be reused")
}

func TestFieldErrorPath(t *testing.T) {
	t.Parallel()

	p := pair{A: 1, S: "this string is much too long"}
	_, err := Marshal(&p)
	require.Error(t, err)

	var ferr FieldError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "pair.s", ferr.Path)
	assert.True(t, errors.Is(err, ErrLengthExceedsMax))
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	in := shape{Kind: 1, Name: "disc"}
	b, err := Marshal(&in)
	require.NoError(t, err)

	var out shape
	require.NoError(t, Unmarshal(b, &out))
	assert.Equal(t, in, out)

	var w bytes.Buffer
	require.NoError(t, Write(&w, &in))
	assert.Equal(t, b, w.Bytes())

	out = shape{}
	require.NoError(t, Read(&w, &out))
	assert.Equal(t, in, out)

	assert.True(t, errors.Is(NewMemEncoder(nil).Encode(nil), ErrNilPointer))
}

func TestBogusCountAllocation(t *testing.T) {
	claim := []byte{0x7f, 0xff, 0xff, 0xf0, 1, 2, 3, 4}

	decoders := map[string]func() Decoder{
		"mem":    func() Decoder { return NewMemDecoder(claim) },
		"reader": func() Decoder { return NewDecoder(bytes.NewReader(claim)) },
	}

	for name, newDecoder := range decoders {
		t.Run(name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)

			_, err := newDecoder().DecodeOpaque(Unbounded)
			assert.Error(t, err)
			_, err = newDecoder().DecodeString(Unbounded)
			assert.Error(t, err)

			runtime.ReadMemStats(&after)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20),
				"a count the input cannot back must not be allocated up front")
		})
	}
}

func TestLargeBodyAcrossChunks(t *testing.T) {
	t.Parallel()

	body := bytes.Repeat([]byte("xdr!"), 50000)
	body = append(body, 'z')

	var buf bytes.Buffer
	e := NewEncoder(&buf)
	require.NoError(t, e.EncodeOpaque(body, Unbounded))
	require.NoError(t, e.EncodeString(string(body), Unbounded))
	require.NoError(t, e.Destroy())

	d := NewDecoder(bytes.NewReader(buf.Bytes()))
	got, err := d.DecodeOpaque(Unbounded)
	require.NoError(t, err)
	assert.Equal(t, body, got)
	s, err := d.DecodeString(Unbounded)
	require.NoError(t, err)
	assert.Equal(t, string(body), s)
}
