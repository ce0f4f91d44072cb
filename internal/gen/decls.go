// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package gen

import (
	"github.com/snaewe/portablexdr/internal/ast"
)

// Declarations generates the declarations file of spec
func Declarations(spec *ast.Specification, opts Options) ([]byte, error) {
	e := newEmitter(spec, opts)
	for _, d := range spec.Definitions {
		switch d := d.(type) {
		case *ast.Const:
			e.printf("const %s = %d\n\n", goName(d.Name), d.Value)
		case *ast.Typedef:
			e.typedefDecl(d)
		case *ast.Enum:
			e.enumDecl(d)
		case *ast.Struct:
			e.structDecl(d)
		case *ast.Union:
			e.unionDecl(d)
		}
	}
	return e.finish()
}

func (e *emitter) typedefDecl(d *ast.Typedef) {
	name := goName(d.Decl.Name)
	// Pointer types cannot have methods, so these are aliases
	if e.syms.OptionalTypedef(d.Decl.Name) != nil {
		e.printf("type %s = %s\n\n", name, e.goType(d.Decl))
		return
	}
	e.printf("type %s %s\n\n", name, e.goType(d.Decl))
}

func enumNames(name string) string {
	return uncapitalize(goName(name)) + "Names"
}

func (e *emitter) enumDecl(d *ast.Enum) {
	e.use("strconv", "")
	name := goName(d.Name)

	e.printf("type %s int32\n\n", name)
	e.printf("const (\n")
	for _, v := range d.Values {
		e.printf("\t%s %s = %d\n", goName(v.Name), name, v.Value)
	}
	e.printf(")\n\n")

	e.printf("var %s = map[%s]string{\n", enumNames(d.Name), name)
	for _, v := range d.Values {
		e.printf("\t%s: %q,\n", goName(v.Name), v.Name)
	}
	e.printf("}\n\n")

	e.printf("func (v %s) String() string {\n", name)
	e.printf("\tif s, ok := %s[v]; ok {\n\t\treturn s\n\t}\n", enumNames(d.Name))
	e.printf("\treturn \"%s(\" + strconv.FormatInt(int64(v), 10) + \")\"\n", name)
	e.printf("}\n\n")
}

func (e *emitter) structDecl(d *ast.Struct) {
	e.printf("type %s struct {\n", goName(d.Name))
	for _, f := range d.Fields {
		e.printf("\t%s %s\n", goName(f.Name), e.goType(f))
	}
	e.printf("}\n\n")
}

func (e *emitter) unionDecl(d *ast.Union) {
	e.printf("type %s struct {\n", goName(d.Name))
	e.printf("\t%s %s\n", goName(d.Discriminant.Name), e.goType(d.Discriminant))

	arms := make([]ast.Declaration, 0, len(d.Arms)+1)
	for _, a := range d.Arms {
		arms = append(arms, a.Decl)
	}
	if d.Default != nil {
		arms = append(arms, *d.Default)
	}
	for _, a := range arms {
		if a.Kind != ast.Void {
			e.printf("\t%s %s\n", goName(a.Name), e.goType(a))
		}
	}
	e.printf("}\n\n")
}
