// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package xdr

import (
	"bytes"
	"testing"

	rxdr "github.com/rasky/go-xdr/xdr2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record is laid out so that the reflection based encoder of rasky/go-xdr
// produces the same wire form as the codecs below
type record struct {
	A int32
	B uint32
	H int64
	U uint64
	F bool
	S string
	O []byte
	X [5]byte
	L []int32
	V [3]int32
}

func (v *record) MarshalXDR(e Encoder) error {
	for _, step := range []func() error{
		func() error { return Int32.Encode(e, &v.A) },
		func() error { return Uint32.Encode(e, &v.B) },
		func() error { return Int64.Encode(e, &v.H) },
		func() error { return Uint64.Encode(e, &v.U) },
		func() error { return Bool.Encode(e, &v.F) },
		func() error { return String(Unbounded).Encode(e, &v.S) },
		func() error { return Opaque(Unbounded).Encode(e, &v.O) },
		func() error { return e.EncodeFixedOpaque(v.X[:]) },
		func() error { return Array(Int32, Unbounded).Encode(e, &v.L) },
		func() error { return EncodeVector(e, v.V[:], Int32) },
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (v *record) UnmarshalXDR(d Decoder) error {
	for _, step := range []func() error{
		func() error { return Int32.Decode(d, &v.A) },
		func() error { return Uint32.Decode(d, &v.B) },
		func() error { return Int64.Decode(d, &v.H) },
		func() error { return Uint64.Decode(d, &v.U) },
		func() error { return Bool.Decode(d, &v.F) },
		func() error { return String(Unbounded).Decode(d, &v.S) },
		func() error { return Opaque(Unbounded).Decode(d, &v.O) },
		func() error { return d.DecodeFixedOpaque(v.X[:]) },
		func() error { return Array(Int32, Unbounded).Decode(d, &v.L) },
		func() error { return DecodeVector(d, v.V[:], Int32) },
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (v *record) FreeXDR() {
	*v = record{}
}

func interopRecord() record {
	return record{
		A: -7,
		B: 0xCAFEBABE,
		H: -0x123456789,
		U: 0xFEDCBA9876543210,
		F: true,
		S: "interop",
		O: []byte{1, 2, 3},
		X: [5]byte{9, 8, 7, 6, 5},
		L: []int32{10, -20, 30},
		V: [3]int32{-1, 0, 1},
	}
}

func TestInteropEncode(t *testing.T) {
	t.Parallel()

	in := interopRecord()
	b, err := Marshal(&in)
	require.NoError(t, err)

	var expected bytes.Buffer
	_, err = rxdr.Marshal(&expected, &in)
	require.NoError(t, err)
	assert.Equal(t, expected.Bytes(), b, "wire form should match rasky/go-xdr")

	var out record
	_, err = rxdr.Unmarshal(bytes.NewReader(b), &out)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestInteropDecode(t *testing.T) {
	t.Parallel()

	in := interopRecord()
	var w bytes.Buffer
	_, err := rxdr.Marshal(&w, &in)
	require.NoError(t, err)

	var out record
	require.NoError(t, Unmarshal(w.Bytes(), &out))
	assert.Equal(t, in, out)
}
