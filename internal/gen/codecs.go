// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package gen

import (
	"strconv"

	"github.com/snaewe/portablexdr/internal/ast"
)

// Codecs generates the codec file of spec
func Codecs(spec *ast.Specification, opts Options) ([]byte, error) {
	e := newEmitter(spec, opts)
	for _, d := range spec.Definitions {
		switch d := d.(type) {
		case *ast.Typedef:
			e.typedefCodec(d)
		case *ast.Enum:
			e.enumCodec(d)
		case *ast.Struct:
			e.structCodec(d)
		case *ast.Union:
			e.unionCodec(d)
		}
	}
	return e.finish()
}

func (e *emitter) methods(name string, marshal, unmarshal, free func()) {
	e.use(RuntimeImport, "xdr")

	e.printf("func (v *%s) MarshalXDR(e xdr.Encoder) error {\n", name)
	marshal()
	e.printf("}\n\n")

	e.printf("func (v *%s) UnmarshalXDR(d xdr.Decoder) error {\n", name)
	unmarshal()
	e.printf("}\n\n")

	e.printf("func (v *%s) FreeXDR() {\n", name)
	free()
	e.printf("}\n\n")
}

func (e *emitter) typedefCodec(d *ast.Typedef) {
	if e.syms.OptionalTypedef(d.Decl.Name) != nil {
		return
	}

	a := access{ptr: "(*" + e.goType(d.Decl) + ")(v)", slice: "v[:]"}
	e.methods(goName(d.Decl.Name),
		func() { e.printf("\treturn %s\n", e.encodeCall(d.Decl, a)) },
		func() { e.printf("\treturn %s\n", e.decodeCall(d.Decl, a)) },
		func() { e.printf("\t%s\n", e.freeCall(d.Decl, a)) },
	)
}

func (e *emitter) enumCodec(d *ast.Enum) {
	name := goName(d.Name)
	e.methods(name,
		func() {
			e.printf("\treturn e.EncodeEnum(int32(*v))\n")
		},
		func() {
			e.printf("\tx, err := d.DecodeEnum()\n")
			e.printf("\tif err != nil {\n\t\treturn err\n\t}\n")
			e.printf("\tif _, ok := %s[%s(x)]; !ok {\n", enumNames(d.Name), name)
			e.printf("\t\treturn xdr.WithFieldError(xdr.ErrInvalidValue, %q)\n", d.Name)
			e.printf("\t}\n")
			e.printf("\t*v = %s(x)\n", name)
			e.printf("\treturn nil\n")
		},
		func() {
			e.printf("\t*v = 0\n")
		},
	)
}

func (e *emitter) structCodec(d *ast.Struct) {
	e.methods(goName(d.Name),
		func() {
			for _, f := range d.Fields {
				e.printf("\tif err := %s; err != nil {\n", e.encodeCall(f, fieldAccess(f.Name)))
				e.printf("\t\treturn xdr.WithFieldError(err, %q, %q)\n\t}\n", d.Name, f.Name)
			}
			e.printf("\treturn nil\n")
		},
		func() {
			for _, f := range d.Fields {
				e.printf("\tif err := %s; err != nil {\n", e.decodeCall(f, fieldAccess(f.Name)))
				e.printf("\t\treturn xdr.WithFieldError(err, %q, %q)\n\t}\n", d.Name, f.Name)
			}
			e.printf("\treturn nil\n")
		},
		func() {
			for _, f := range d.Fields {
				e.printf("\t%s\n", e.freeCall(f, fieldAccess(f.Name)))
			}
		},
	)
}

// discriminant converts between the union's switch field and the int32 the
// runtime dispatches on
func (e *emitter) discriminant(d *ast.Union) (toWire, fromWire string) {
	field := "v." + goName(d.Discriminant.Name)
	resolved, _ := e.syms.Resolve(d.Discriminant.Type)
	if resolved.Kind == ast.TBool {
		if d.Discriminant.Type.Kind == ast.TBool {
			return "xdr.BoolDiscriminant(" + field + ")", field + " = disc != 0"
		}
		return "xdr.BoolDiscriminant(bool(" + field + "))", field + " = disc != 0"
	}
	return "int32(" + field + ")", field + " = " + e.goType(d.Discriminant) + "(disc)"
}

func (e *emitter) caseValue(c ast.CaseValue) string {
	if c.Enum {
		return "int32(" + goName(c.Label) + ")"
	}
	return strconv.FormatInt(int64(c.Value), 10)
}

func (e *emitter) unionCase(value string, d ast.Declaration) string {
	if d.Kind == ast.Void {
		if value == "" {
			return "{Arm: xdr.Void}"
		}
		return "{Value: " + value + ", Arm: xdr.Void}"
	}

	c := "Field: " + strconv.Quote(d.Name) + ", Arm: " + e.armBinding(d) + "}"
	if value == "" {
		return "{" + c
	}
	return "{Value: " + value + ", " + c
}

func (e *emitter) unionCodec(d *ast.Union) {
	name := goName(d.Name)
	resolved, _ := e.syms.Resolve(d.Discriminant.Type)
	toWire, fromWire := e.discriminant(d)

	e.use(RuntimeImport, "xdr")
	e.printf("func (v *%s) xdrUnion() xdr.Union {\n", name)
	e.printf("\treturn xdr.Union{\n")
	e.printf("\t\tName: %q,\n", d.Name)
	if resolved.Kind == ast.TBool {
		e.printf("\t\tBool: true,\n")
	}
	e.printf("\t\tCases: []xdr.UnionCase{\n")
	for _, arm := range d.Arms {
		for _, c := range arm.Cases {
			e.printf("\t\t\t%s,\n", e.unionCase(e.caseValue(c), arm.Decl))
		}
	}
	e.printf("\t\t},\n")
	if d.Default != nil {
		e.printf("\t\tDefault: &xdr.UnionCase%s,\n", e.unionCase("", *d.Default))
	}
	e.printf("\t}\n")
	e.printf("}\n\n")

	e.methods(name,
		func() {
			e.printf("\treturn v.xdrUnion().Encode(e, %s)\n", toWire)
		},
		func() {
			e.printf("\tdisc, err := v.xdrUnion().Decode(d)\n")
			e.printf("\t%s\n", fromWire)
			e.printf("\treturn err\n")
		},
		func() {
			e.printf("\tv.xdrUnion().Free(%s)\n", toWire)
			e.printf("\t*v = %s{}\n", name)
		},
	)
}
