// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package gen emits Go bindings for a parsed XDR specification.
//
// Two files are produced per input: the declarations file holds constants
// and the Go types mirroring each definition, and the codec file holds the
// MarshalXDR, UnmarshalXDR and FreeXDR methods which make every type an
// xdr.Marshaler. Both are gofmt'd.
package gen

import (
	"fmt"
	"go/format"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/snaewe/portablexdr/internal/ast"
)

// RuntimeImport is the import path of the runtime generated code calls into
const RuntimeImport = "github.com/snaewe/portablexdr"

type Options struct {
	// Package clause of the generated files. Derived from Source if empty.
	Package string

	// The input file as named on the command line, for the header
	Source string
}

type emitter struct {
	syms    *ast.SymbolTable
	opts    Options
	imports map[string]string
	body    strings.Builder
}

func newEmitter(spec *ast.Specification, opts Options) *emitter {
	if opts.Package == "" {
		opts.Package = PackageName(opts.Source)
	}
	return &emitter{
		syms:    spec.Symbols,
		opts:    opts,
		imports: make(map[string]string),
	}
}

func (e *emitter) printf(format string, args ...interface{}) {
	fmt.Fprintf(&e.body, format, args...)
}

// use records an import; name is the local name, or empty
func (e *emitter) use(path, name string) {
	e.imports[path] = name
}

func (e *emitter) finish() ([]byte, error) {
	var out strings.Builder
	fmt.Fprintf(&out, "// Code generated by rpcgen from %s. DO NOT EDIT.\n\n", e.opts.Source)
	fmt.Fprintf(&out, "package %s\n\n", e.opts.Package)

	if len(e.imports) > 0 {
		paths := make([]string, 0, len(e.imports))
		for p := range e.imports {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		out.WriteString("import (\n")
		for _, p := range paths {
			if name := e.imports[p]; name != "" {
				fmt.Fprintf(&out, "\t%s %q\n", name, p)
			} else {
				fmt.Fprintf(&out, "\t%q\n", p)
			}
		}
		out.WriteString(")\n\n")
	}
	out.WriteString(e.body.String())

	src, err := format.Source([]byte(out.String()))
	if err != nil {
		return nil, fmt.Errorf("formatting generated code for %s: %w", e.opts.Source, err)
	}
	return src, nil
}

func capitalize(s string) string {
	if len(s) > 0 && s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]&^0x20) + s[1:]
	}
	return s
}

func uncapitalize(s string) string {
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		return string(s[0]|0x20) + s[1:]
	}
	return s
}

// goName exports an IDL identifier
func goName(s string) string {
	if strings.HasPrefix(s, "_") {
		return "X" + s
	}
	return capitalize(s)
}

// PackageName derives a package name from an input file name
func PackageName(file string) string {
	base := filepath.Base(file)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var sb strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}

	name := sb.String()
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "x" + name
	}
	return name
}

func (e *emitter) baseType(t ast.TypeSpec) string {
	switch t.Kind {
	case ast.TInt:
		if t.Unsigned {
			return fmt.Sprintf("uint%d", t.Bits)
		}
		return fmt.Sprintf("int%d", t.Bits)
	case ast.TBool:
		return "bool"
	case ast.TString:
		return "string"
	case ast.TOpaque:
		return "byte"
	case ast.TNamed:
		return goName(t.Name)
	default:
		panic(fmt.Sprintf("gen: no Go type for %+v", t))
	}
}

// goType is the Go type of a declaration
func (e *emitter) goType(d ast.Declaration) string {
	base := e.baseType(d.Type)
	switch d.Kind {
	case ast.FixedArray:
		return "[" + e.arrayLen(d) + "]" + base
	case ast.VarArray:
		switch d.Type.Kind {
		case ast.TString:
			return "string"
		case ast.TOpaque:
			return "[]byte"
		}
		return "[]" + base
	case ast.Optional:
		return "*" + base
	default:
		return base
	}
}

func (e *emitter) arrayLen(d ast.Declaration) string {
	if _, ok := e.syms.Lookup(d.BoundName).(*ast.Const); ok {
		return goName(d.BoundName)
	}
	return strconv.FormatUint(uint64(d.Bound), 10)
}

// maxLen is the bound argument passed to a variable length codec
func (e *emitter) maxLen(d ast.Declaration) string {
	if d.Bound == ast.Unbounded && d.BoundName == "" {
		return "xdr.Unbounded"
	}
	return e.arrayLen(d)
}

// elemCodec is the codec expression for a single value of type t
func (e *emitter) elemCodec(t ast.TypeSpec) string {
	switch t.Kind {
	case ast.TBool:
		return "xdr.Bool"
	case ast.TInt:
		if t.Unsigned {
			return fmt.Sprintf("xdr.Uint%d", t.Bits)
		}
		return fmt.Sprintf("xdr.Int%d", t.Bits)
	case ast.TNamed:
		// Optional typedefs are aliases and carry no methods
		if td := e.syms.OptionalTypedef(t.Name); td != nil {
			return "xdr.Optional(" + e.elemCodec(td.Decl.Type) + ")"
		}
		return "xdr.Elem[" + goName(t.Name) + "]()"
	default:
		panic(fmt.Sprintf("gen: no element codec for %+v", t))
	}
}

// declCodec is the codec for a scalar, variable array or optional
// declaration
func (e *emitter) declCodec(d ast.Declaration) string {
	switch d.Kind {
	case ast.VarArray:
		switch d.Type.Kind {
		case ast.TString:
			return "xdr.String(" + e.maxLen(d) + ")"
		case ast.TOpaque:
			return "xdr.Opaque(" + e.maxLen(d) + ")"
		}
		return "xdr.Array(" + e.elemCodec(d.Type) + ", " + e.maxLen(d) + ")"
	case ast.Optional:
		return "xdr.Optional(" + e.elemCodec(d.Type) + ")"
	default:
		return e.elemCodec(d.Type)
	}
}

// access names the storage of a declaration two ways: as a pointer (for
// codecs) and as a slice (for fixed length vectors)
type access struct {
	ptr   string
	slice string
}

func fieldAccess(field string) access {
	return access{ptr: "&v." + goName(field), slice: "v." + goName(field) + "[:]"}
}

func (e *emitter) encodeCall(d ast.Declaration, a access) string {
	switch {
	case d.Kind == ast.FixedArray && d.Type.Kind == ast.TOpaque:
		return fmt.Sprintf("e.EncodeFixedOpaque(%s)", a.slice)
	case d.Kind == ast.FixedArray:
		return fmt.Sprintf("xdr.EncodeVector(e, %s, %s)", a.slice, e.elemCodec(d.Type))
	default:
		return fmt.Sprintf("%s.Encode(e, %s)", e.declCodec(d), a.ptr)
	}
}

func (e *emitter) decodeCall(d ast.Declaration, a access) string {
	switch {
	case d.Kind == ast.FixedArray && d.Type.Kind == ast.TOpaque:
		return fmt.Sprintf("d.DecodeFixedOpaque(%s)", a.slice)
	case d.Kind == ast.FixedArray:
		return fmt.Sprintf("xdr.DecodeVector(d, %s, %s)", a.slice, e.elemCodec(d.Type))
	default:
		return fmt.Sprintf("%s.Decode(d, %s)", e.declCodec(d), a.ptr)
	}
}

func (e *emitter) freeCall(d ast.Declaration, a access) string {
	switch {
	case d.Kind == ast.FixedArray && d.Type.Kind == ast.TOpaque:
		return fmt.Sprintf("clear(%s)", a.slice)
	case d.Kind == ast.FixedArray:
		return fmt.Sprintf("xdr.FreeVector(%s, %s)", a.slice, e.elemCodec(d.Type))
	default:
		return fmt.Sprintf("%s.Free(%s)", e.declCodec(d), a.ptr)
	}
}

// armBinding binds a union arm declaration to its field
func (e *emitter) armBinding(d ast.Declaration) string {
	a := fieldAccess(d.Name)
	switch {
	case d.Kind == ast.Void:
		return "xdr.Void"
	case d.Kind == ast.FixedArray && d.Type.Kind == ast.TOpaque:
		return "xdr.BindFixedOpaque(" + a.slice + ")"
	case d.Kind == ast.FixedArray:
		return "xdr.BindVector(" + e.elemCodec(d.Type) + ", " + a.slice + ")"
	default:
		return "xdr.Bind(" + e.declCodec(d) + ", " + a.ptr + ")"
	}
}
