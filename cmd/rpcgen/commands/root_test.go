// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaewe/portablexdr/internal/compiler"
	"github.com/snaewe/portablexdr/internal/diag"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RPCGEN_CPP", "cat")

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func input(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

const demo = "const MAX = 10;\ntypedef opaque data<MAX>;\n"

func TestVersion(t *testing.T) {
	out, err := execute(t, "-V")
	require.NoError(t, err)
	assert.Equal(t, "PortableXDR rpcgen 5.0.0\n", out)
}

func TestUnsupportedOptions(t *testing.T) {
	cases := []struct {
		args []string
		msg  string
	}{
		{[]string{"-D", "FOO=1", "x.x"}, "option 'D' is not supported by this PortableXDR rpcgen.\nYou may need to use an alternative rpcgen program instead."},
		{[]string{"-T", "x.x"}, "option 'T' is not supported by this PortableXDR rpcgen.\nYou may need to use an alternative rpcgen program instead."},
		{[]string{"-s", "tcp", "x.x"}, "option 's' is not supported"},
		{[]string{"-I", "x.x"}, "option 'I' is not supported by this PortableXDR rpcgen.\nIf you were expecting to use GNU rpcgen, try /usr/bin/rpcgen on a GNU host."},
		{[]string{"-n", "x.x"}, "If you were expecting to use GNU rpcgen"},
		{[]string{"-M", "x.x"}, "option 'M' is not supported by this PortableXDR rpcgen.\nIf you were expecting to use BSD rpcgen, try /usr/bin/rpcgen on a BSD host."},
		{[]string{"-A", "-V"}, "If you were expecting to use BSD rpcgen"},
	}

	for _, c := range cases {
		t.Run(c.args[0], func(t *testing.T) {
			_, err := execute(t, c.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.msg)
			assert.Equal(t, "rpcgen: "+err.Error(), FormatError(err))
		})
	}
}

func TestNoInput(t *testing.T) {
	_, err := execute(t, "-c")
	assert.ErrorIs(t, err, ErrNoInput)
	assert.Equal(t, "rpcgen: expected name of input file after options", FormatError(err))
}

func TestBothFlags(t *testing.T) {
	in := input(t, "demo.x", demo)
	_, err := execute(t, "-c", "-h", in)
	require.NoError(t, err)

	dir := filepath.Dir(in)
	assert.FileExists(t, filepath.Join(dir, "demo_types.go"))
	assert.FileExists(t, filepath.Join(dir, "demo_xdr.go"))
}

func TestNeitherFlag(t *testing.T) {
	in := input(t, "demo.x", demo)
	_, err := execute(t, "--package", "wire", in)
	require.NoError(t, err)

	dir := filepath.Dir(in)
	decls, err := os.ReadFile(filepath.Join(dir, "demo_types.go"))
	require.NoError(t, err)
	assert.Contains(t, string(decls), "package wire\n")
	assert.FileExists(t, filepath.Join(dir, "demo_xdr.go"))
}

func TestOutputFile(t *testing.T) {
	in := input(t, "demo.x", demo)
	out := filepath.Join(t.TempDir(), "bindings.go")

	_, err := execute(t, "-h", "-o", out, in)
	require.NoError(t, err)
	assert.FileExists(t, out)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(in), "demo_types.go"))

	_, err = execute(t, "-o", out, in, in)
	assert.ErrorIs(t, err, compiler.ErrOutputWithManyInputs)
}

func TestParseError(t *testing.T) {
	in := input(t, "bad.x", "# 1 \"bad.x\"\nenum e { A = 1, B = 1 };\n")
	_, err := execute(t, in)
	require.Error(t, err)
	assert.Equal(t, "bad.x:1: duplicate value 1 in enum 'e' ('A' and 'B')", FormatError(err))
}

func TestBadPackage(t *testing.T) {
	in := input(t, "demo.x", demo)
	for _, pkg := range []string{"a/b", "my-pkg", "func"} {
		_, err := execute(t, "--package", pkg, in)
		assert.ErrorContains(t, err, "invalid --package", pkg)
	}
	assert.NoFileExists(t, filepath.Join(filepath.Dir(in), "demo_types.go"))
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "x.x:3: boom", FormatError(diag.Errorf(diag.Pos{File: "x.x", Line: 3}, "boom")))
	assert.Equal(t, "rpcgen: boom", FormatError(errors.New("boom")))
}

func TestHelp(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Generate XDR bindings automatically.")
	assert.Contains(t, out, "rpcgen -c|-h [-o outfile] infile.x")
}
