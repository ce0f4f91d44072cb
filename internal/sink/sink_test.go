// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package sink

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "github.com/snaewe/portablexdr/internal/errors"
)

func TestMemUnits(t *testing.T) {
	buf := make([]byte, 8)
	m := NewMem(buf)

	require.NoError(t, m.PutUnit(-2))
	require.NoError(t, m.PutUnit(0x01020304))
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xfe, 1, 2, 3, 4}, buf)
	assert.Equal(t, buf, m.Bytes())

	assert.True(t, errors.Is(m.PutUnit(1), xerrors.ErrShortBuffer))

	require.NoError(t, m.SetPosition(0))
	v, err := m.GetUnit()
	require.NoError(t, err)
	assert.Equal(t, int32(-2), v)

	p := make([]byte, 4)
	require.NoError(t, m.GetBytes(p))
	assert.Equal(t, []byte{1, 2, 3, 4}, p)

	_, err = m.GetUnit()
	assert.True(t, errors.Is(err, xerrors.ErrShortBuffer))
}

func TestMemInline(t *testing.T) {
	m := NewMem(make([]byte, 8))
	b := m.Inline(3)
	require.Len(t, b, 3)
	copy(b, "abc")

	pos, err := m.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)
	assert.Nil(t, m.Inline(6))
	assert.Equal(t, []byte("abc"), m.Bytes())
}

func TestMemDestroy(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	m := NewMem(buf)
	require.NoError(t, m.Destroy())
	require.NoError(t, m.Destroy())
	assert.Equal(t, []byte{1, 2, 3, 4}, buf, "caller buffer is left alone")

	_, err := m.GetUnit()
	assert.True(t, errors.Is(err, xerrors.ErrDestroyed))
	_, err = m.Position()
	assert.True(t, errors.Is(err, xerrors.ErrDestroyed))
}

type closeRecorder struct {
	bytes.Buffer
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func TestStdioCloseFile(t *testing.T) {
	var keep, drop closeRecorder

	s := NewWriter(&keep, 0)
	require.NoError(t, s.PutUnit(1))
	require.NoError(t, s.Destroy())
	assert.Equal(t, 0, keep.closed)

	s = NewWriter(&drop, CloseFile)
	require.NoError(t, s.PutBytes([]byte{1, 2}))
	require.NoError(t, s.Destroy())
	require.NoError(t, s.Destroy())
	assert.Equal(t, 1, drop.closed, "close exactly once")
	assert.True(t, errors.Is(s.PutUnit(1), xerrors.ErrDestroyed))
}

func TestStdioDirection(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0, 0, 0, 9}), 0)
	assert.Error(t, r.PutUnit(1), "read sinks cannot write")

	v, err := r.GetUnit()
	require.NoError(t, err)
	assert.Equal(t, int32(9), v)

	pos, err := r.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	_, err = r.GetUnit()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestStdioSeek(t *testing.T) {
	rd := bytes.NewReader([]byte{0, 0, 0, 1, 0, 0, 0, 2})
	_, err := rd.Seek(4, io.SeekStart)
	require.NoError(t, err)

	s := NewReader(rd, 0)
	pos, err := s.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos, "position starts at the current file offset")

	require.NoError(t, s.SetPosition(0))
	v, err := s.GetUnit()
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)
}
