// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package parser turns preprocessed XDR IDL text into an ast.Specification.
//
// The parser stops at the first error. Types must be defined before they are
// referenced, except that a struct or union may refer to itself through an
// optional or variable length field.
package parser

import (
	"math"

	"github.com/snaewe/portablexdr/internal/ast"
	"github.com/snaewe/portablexdr/internal/diag"
	"github.com/snaewe/portablexdr/internal/lexer"
)

type parser struct {
	toks []lexer.Token
	i    int
	tok  lexer.Token

	spec *ast.Specification
	syms *ast.SymbolTable

	// Structs and unions whose bodies are being parsed
	building map[string]bool
}

// Parse parses src. file names the input for diagnostics until the
// preprocessor's line markers say otherwise.
func Parse(file string, src []byte) (spec *ast.Specification, err error) {
	toks, err := lexer.Tokenize(file, src)
	if err != nil {
		return nil, err
	}

	p := &parser{
		toks:     toks,
		tok:      toks[0],
		syms:     ast.NewSymbolTable(),
		building: make(map[string]bool),
	}
	p.spec = &ast.Specification{File: file, Symbols: p.syms}

	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*diag.Error)
			if !ok {
				panic(r)
			}
			spec, err = nil, e
		}
	}()

	for p.tok.Kind != lexer.EOF {
		p.definition()
	}
	return p.spec, nil
}

// failf abandons the parse. Parse recovers the diagnostic.
func (p *parser) failf(pos diag.Pos, format string, args ...interface{}) {
	panic(diag.Errorf(pos, format, args...))
}

func (p *parser) next() {
	if p.i < len(p.toks)-1 {
		p.i++
	}
	p.tok = p.toks[p.i]
}

func (p *parser) peek(n int) lexer.Token {
	if p.i+n < len(p.toks) {
		return p.toks[p.i+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) accept(s string) bool {
	if p.tok.Is(s) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(s string) {
	if !p.accept(s) {
		p.failf(p.tok.Pos, "expected '%s', found %s", s, p.tok)
	}
}

func (p *parser) ident() lexer.Token {
	t := p.tok
	if t.Kind != lexer.Ident {
		p.failf(t.Pos, "expected identifier, found %s", t)
	}
	p.next()
	return t
}

func (p *parser) define(d ast.Definition) {
	if !p.syms.Define(d) {
		prev := p.syms.Lookup(d.DefName())
		p.failf(d.Position(), "duplicate definition of '%s' (previously defined at %s)", d.DefName(), prev.Position())
	}
}

func (p *parser) emit(d ast.Definition) {
	p.spec.Definitions = append(p.spec.Definitions, d)
}

func (p *parser) definition() {
	switch {
	case p.tok.Is("const"):
		p.constDef()
	case p.tok.Is("typedef"):
		p.typedefDef()
	case p.tok.Is("enum"):
		pos := p.tok.Pos
		p.next()
		p.enumBody(p.ident().Text, pos)
		p.expect(";")
	case p.tok.Is("struct"):
		pos := p.tok.Pos
		p.next()
		p.structBody(p.ident().Text, pos)
		p.expect(";")
	case p.tok.Is("union"):
		pos := p.tok.Pos
		p.next()
		p.unionBody(p.ident().Text, pos)
		p.expect(";")
	case p.tok.Is("program"):
		p.programDef()
	default:
		p.failf(p.tok.Pos, "expected a definition, found %s", p.tok)
	}
}

// value reads an integer literal or the name of a constant or enum value
func (p *parser) value() (int64, string) {
	t := p.tok
	switch t.Kind {
	case lexer.Number:
		p.next()
		return t.Value, ""
	case lexer.Ident:
		v, ok := p.syms.ConstValue(t.Text)
		if !ok {
			if p.syms.Lookup(t.Text) != nil {
				p.failf(t.Pos, "'%s' is not a constant", t.Text)
			}
			p.failf(t.Pos, "undefined constant '%s'", t.Text)
		}
		p.next()
		return v, t.Text
	default:
		p.failf(t.Pos, "expected a number or constant, found %s", t)
		return 0, ""
	}
}

func (p *parser) unsigned32(pos diag.Pos, v int64, what string) uint32 {
	if v < 0 || v > math.MaxUint32 {
		p.failf(pos, "%s %d out of range", what, v)
	}
	return uint32(v)
}

// wire32 accepts anything which fits a 4 byte unit, signed or unsigned
func (p *parser) wire32(pos diag.Pos, v int64, what string) int32 {
	if v < math.MinInt32 || v > math.MaxUint32 {
		p.failf(pos, "%s %d out of range", what, v)
	}
	return int32(uint32(v))
}

func (p *parser) constDef() {
	p.expect("const")
	name := p.ident()
	p.expect("=")
	v, _ := p.value()
	p.expect(";")

	c := &ast.Const{Name: name.Text, Value: v, Pos: name.Pos}
	p.define(c)
	p.emit(c)
}

func (p *parser) typedefDef() {
	p.expect("typedef")
	d := p.declaration("", true)
	if d.Kind == ast.Void {
		p.failf(d.Pos, "cannot typedef void")
	}
	p.expect(";")

	// «typedef struct {...} name;» defines the struct itself
	if d.Kind == ast.Scalar && d.Type.Kind == ast.TNamed && d.Type.Name == d.Name {
		return
	}

	td := &ast.Typedef{Decl: d}
	p.define(td)
	p.emit(td)
}

// inlineName looks past the inline body starting at the current '{' for the
// name of the declaration it belongs to
func (p *parser) inlineName(parent string) string {
	depth := 0
	n := 0
	for ; ; n++ {
		t := p.peek(n)
		if t.Kind == lexer.EOF {
			p.failf(p.tok.Pos, "unterminated definition body")
		}
		if t.Is("{") {
			depth++
		} else if t.Is("}") {
			depth--
			if depth == 0 {
				break
			}
		}
	}

	n++
	optional := p.peek(n).Is("*")
	if optional {
		n++
	}
	name := p.peek(n)
	if name.Kind != lexer.Ident {
		p.failf(name.Pos, "expected identifier, found %s", name)
	}

	if parent != "" {
		return parent + "_" + name.Text
	}

	after := p.peek(n + 1)
	if optional || after.Is("[") || after.Is("<") {
		return name.Text + "_elem"
	}
	return name.Text
}

// namedType resolves a reference to a previously defined type
func (p *parser) namedType(t lexer.Token, want string) ast.TypeSpec {
	spec := ast.TypeSpec{Kind: ast.TNamed, Name: t.Text}
	if p.building[t.Text] {
		return spec
	}

	d := p.syms.Lookup(t.Text)
	if d == nil {
		p.failf(t.Pos, "undefined type '%s'", t.Text)
	}

	ok := false
	switch d.(type) {
	case *ast.Typedef:
		ok = want == ""
	case *ast.Enum:
		ok = want == "" || want == "enum"
	case *ast.Struct:
		ok = want == "" || want == "struct"
	case *ast.Union:
		ok = want == "" || want == "union"
	}
	if !ok {
		if want != "" {
			p.failf(t.Pos, "'%s' is not a %s", t.Text, want)
		}
		p.failf(t.Pos, "'%s' is not a type", t.Text)
	}
	return spec
}

var intBits = map[string]int{
	"char":  8,
	"short": 16,
	"int":   32,
	"long":  32,
	"hyper": 64,
}

// typeSpecifier parses a type. Inline enum, struct and union bodies are
// hoisted into definitions of their own, named after parent and the
// declaration, unless inline is false.
func (p *parser) typeSpecifier(parent string, inline bool) ast.TypeSpec {
	t := p.tok

	if t.Is("unsigned") {
		p.next()
		if bits, ok := intBits[p.tok.Text]; ok && p.tok.Kind == lexer.Keyword {
			p.next()
			return ast.TypeSpec{Kind: ast.TInt, Bits: bits, Unsigned: true}
		}
		return ast.TypeSpec{Kind: ast.TInt, Bits: 32, Unsigned: true}
	}

	if bits, ok := intBits[t.Text]; ok && t.Kind == lexer.Keyword {
		p.next()
		return ast.TypeSpec{Kind: ast.TInt, Bits: bits}
	}

	switch {
	case t.Is("bool"):
		p.next()
		return ast.TypeSpec{Kind: ast.TBool}
	case t.Is("string"):
		p.next()
		return ast.TypeSpec{Kind: ast.TString}
	case t.Is("opaque"):
		p.next()
		return ast.TypeSpec{Kind: ast.TOpaque}
	case t.Is("float"), t.Is("double"), t.Is("quadruple"):
		p.failf(t.Pos, "floating point type '%s' is not supported", t.Text)

	case t.Is("enum"), t.Is("struct"), t.Is("union"):
		p.next()
		body := p.tok.Is("{") || (t.Text == "union" && p.tok.Is("switch"))
		if !body {
			return p.namedType(p.ident(), t.Text)
		}
		if !inline {
			p.failf(p.tok.Pos, "inline %s definitions are not allowed here", t.Text)
		}

		name := p.inlineName(parent)
		switch t.Text {
		case "enum":
			p.enumBody(name, t.Pos)
		case "struct":
			p.structBody(name, t.Pos)
		case "union":
			p.unionBody(name, t.Pos)
		}
		return ast.TypeSpec{Kind: ast.TNamed, Name: name}

	case t.Kind == lexer.Ident:
		p.next()
		return p.namedType(t, "")
	}

	p.failf(t.Pos, "expected a type, found %s", t)
	return ast.TypeSpec{}
}

// declaration parses «type name», with an optional array or optional-data
// modifier. A declaration inside a struct or union body passes the enclosing
// definition as parent.
func (p *parser) declaration(parent string, inline bool) ast.Declaration {
	pos := p.tok.Pos
	ts := p.typeSpecifier(parent, inline)

	d := ast.Declaration{Type: ts, Pos: pos}
	if p.accept("*") {
		d.Kind = ast.Optional
	}
	d.Name = p.ident().Text

	if d.Kind != ast.Optional {
		switch {
		case p.accept("["):
			d.Kind = ast.FixedArray
			d.Bound, d.BoundName = p.bound()
			p.expect("]")
		case p.accept("<"):
			d.Kind = ast.VarArray
			d.Bound = ast.Unbounded
			if !p.tok.Is(">") {
				d.Bound, d.BoundName = p.bound()
			}
			p.expect(">")
		}
	}

	switch ts.Kind {
	case ast.TString:
		if d.Kind != ast.VarArray {
			p.failf(pos, "string '%s' must be declared with a maximum length '<>'", d.Name)
		}
	case ast.TOpaque:
		if d.Kind != ast.VarArray && d.Kind != ast.FixedArray {
			p.failf(pos, "opaque '%s' must be declared with a length '[]' or '<>'", d.Name)
		}
	case ast.TNamed:
		if p.building[ts.Name] && (d.Kind == ast.Scalar || d.Kind == ast.FixedArray) {
			p.failf(pos, "'%s' refers to its own type '%s' and must be declared optional '*'", d.Name, ts.Name)
		}
	}
	return d
}

func (p *parser) bound() (uint32, string) {
	pos := p.tok.Pos
	v, name := p.value()
	return p.unsigned32(pos, v, "array bound"), name
}

func (p *parser) enumBody(name string, pos diag.Pos) {
	e := &ast.Enum{Name: name, Pos: pos}
	p.define(e)

	p.expect("{")
	seen := make(map[int32]string)
	next := int64(0)
	for {
		vt := p.ident()
		v, vpos := next, vt.Pos
		if p.accept("=") {
			vpos = p.tok.Pos
			v, _ = p.value()
		}
		ev := &ast.EnumValue{
			Name:  vt.Text,
			Value: p.wire32(vpos, v, "enum value"),
			Enum:  name,
			Pos:   vt.Pos,
		}

		if prev, ok := seen[ev.Value]; ok {
			p.failf(vt.Pos, "duplicate value %d in enum '%s' ('%s' and '%s')", ev.Value, name, prev, ev.Name)
		}
		seen[ev.Value] = ev.Name

		p.define(ev)
		e.Values = append(e.Values, ev)
		next = v + 1

		if !p.accept(",") {
			break
		}
	}
	p.expect("}")
	p.emit(e)
}

func (p *parser) structBody(name string, pos diag.Pos) {
	s := &ast.Struct{Name: name, Pos: pos}
	p.define(s)

	p.building[name] = true
	defer delete(p.building, name)

	p.expect("{")
	fields := make(map[string]bool)
	for !p.tok.Is("}") {
		if p.tok.Is("void") {
			p.failf(p.tok.Pos, "struct '%s' cannot contain void", name)
		}
		d := p.declaration(name, true)
		if fields[d.Name] {
			p.failf(d.Pos, "duplicate field '%s' in struct '%s'", d.Name, name)
		}
		fields[d.Name] = true
		s.Fields = append(s.Fields, d)
		p.expect(";")
	}
	if len(s.Fields) == 0 {
		p.failf(p.tok.Pos, "struct '%s' has no fields", name)
	}
	p.expect("}")
	p.emit(s)
}

// discriminantEnum checks d may switch a union and returns the enum it
// names, if any
func (p *parser) discriminantEnum(union string, d ast.Declaration) string {
	ts, def := p.syms.Resolve(d.Type)
	if d.Kind == ast.Scalar {
		switch {
		case ts.Kind == ast.TBool:
			return ""
		case ts.Kind == ast.TInt && ts.Bits <= 32:
			return ""
		case ts.Kind == ast.TNamed:
			if e, ok := def.(*ast.Enum); ok {
				return e.Name
			}
		}
	}
	p.failf(d.Pos, "discriminant of union '%s' must be an integer of at most 32 bits, an enum or bool", union)
	return ""
}

func (p *parser) caseLabel(union string, isBool bool, enum string) ast.CaseValue {
	t := p.tok
	if isBool && t.Kind == lexer.Ident && (t.Text == "TRUE" || t.Text == "FALSE") {
		p.next()
		if t.Text == "TRUE" {
			return ast.CaseValue{Label: t.Text, Value: 1}
		}
		return ast.CaseValue{Label: t.Text, Value: 0}
	}

	v, name := p.value()
	cv := ast.CaseValue{Label: t.Text, Value: p.wire32(t.Pos, v, "case value")}
	if ev, ok := p.syms.Lookup(name).(*ast.EnumValue); ok && name != "" {
		if enum != "" && ev.Enum != enum {
			p.failf(t.Pos, "'%s' is not a value of enum '%s' in union '%s'", name, enum, union)
		}
		cv.Enum = true
	}
	return cv
}

func (p *parser) armDeclaration(union string, fields map[string]bool) ast.Declaration {
	if p.tok.Is("void") {
		d := ast.Declaration{Kind: ast.Void, Type: ast.TypeSpec{Kind: ast.TVoid}, Pos: p.tok.Pos}
		p.next()
		return d
	}

	d := p.declaration(union, true)
	if fields[d.Name] {
		p.failf(d.Pos, "duplicate arm '%s' in union '%s'", d.Name, union)
	}
	fields[d.Name] = true
	return d
}

func (p *parser) unionBody(name string, pos diag.Pos) {
	u := &ast.Union{Name: name, Pos: pos}
	p.define(u)

	p.building[name] = true
	defer delete(p.building, name)

	p.expect("switch")
	p.expect("(")
	u.Discriminant = p.declaration(name, true)
	p.expect(")")

	resolved, _ := p.syms.Resolve(u.Discriminant.Type)
	isBool := resolved.Kind == ast.TBool
	enum := p.discriminantEnum(name, u.Discriminant)

	p.expect("{")
	fields := map[string]bool{u.Discriminant.Name: true}
	seen := make(map[int32]string)
	for p.tok.Is("case") {
		arm := &ast.UnionArm{}
		for p.tok.Is("case") {
			cpos := p.tok.Pos
			p.next()
			cv := p.caseLabel(name, isBool, enum)
			if prev, ok := seen[cv.Value]; ok {
				p.failf(cpos, "duplicate case value %d in union '%s' ('%s' and '%s')", cv.Value, name, prev, cv.Label)
			}
			seen[cv.Value] = cv.Label
			arm.Cases = append(arm.Cases, cv)
			p.expect(":")
		}
		arm.Decl = p.armDeclaration(name, fields)
		p.expect(";")
		u.Arms = append(u.Arms, arm)
	}

	if p.tok.Is("default") {
		p.next()
		p.expect(":")
		d := p.armDeclaration(name, fields)
		u.Default = &d
		p.expect(";")
	}

	if len(u.Arms) == 0 && u.Default == nil {
		p.failf(p.tok.Pos, "union '%s' has no arms", name)
	}
	p.expect("}")
	p.emit(u)
}

func (p *parser) number(what string) uint32 {
	pos := p.tok.Pos
	v, _ := p.value()
	return p.unsigned32(pos, v, what)
}

func (p *parser) procedure() *ast.Procedure {
	pos := p.tok.Pos
	proc := &ast.Procedure{Pos: pos}
	if p.accept("void") {
		proc.Result = ast.TypeSpec{Kind: ast.TVoid}
	} else {
		proc.Result = p.typeSpecifier("", false)
	}
	proc.Name = p.ident().Text

	p.expect("(")
	if p.tok.Is("void") && p.peek(1).Is(")") {
		p.next()
	} else {
		for {
			proc.Args = append(proc.Args, p.typeSpecifier("", false))
			if !p.accept(",") {
				break
			}
		}
	}
	p.expect(")")
	p.expect("=")
	proc.Number = p.number("procedure number")
	p.expect(";")
	return proc
}

func (p *parser) programDef() {
	p.expect("program")
	name := p.ident()
	prog := &ast.Program{Name: name.Text, Pos: name.Pos}
	p.define(prog)

	p.expect("{")
	versions := make(map[uint32]bool)
	for p.tok.Is("version") {
		p.next()
		vname := p.ident()
		ver := &ast.Version{Name: vname.Text, Pos: vname.Pos}
		p.define(ver)

		p.expect("{")
		procs := make(map[uint32]bool)
		for !p.tok.Is("}") {
			proc := p.procedure()
			if procs[proc.Number] {
				p.failf(proc.Pos, "duplicate procedure number %d in version '%s'", proc.Number, ver.Name)
			}
			procs[proc.Number] = true
			p.define(proc)
			ver.Procedures = append(ver.Procedures, proc)
		}
		if len(ver.Procedures) == 0 {
			p.failf(p.tok.Pos, "version '%s' has no procedures", ver.Name)
		}
		p.expect("}")
		p.expect("=")
		ver.Number = p.number("version number")
		p.expect(";")

		if versions[ver.Number] {
			p.failf(vname.Pos, "duplicate version number %d in program '%s'", ver.Number, prog.Name)
		}
		versions[ver.Number] = true
		prog.Versions = append(prog.Versions, ver)
	}
	if len(prog.Versions) == 0 {
		p.failf(p.tok.Pos, "program '%s' has no versions", prog.Name)
	}
	p.expect("}")
	p.expect("=")
	prog.Number = p.number("program number")
	p.expect(";")

	for _, d := range p.spec.Definitions {
		if other, ok := d.(*ast.Program); ok && other.Number == prog.Number {
			p.failf(name.Pos, "duplicate program number %d ('%s' and '%s')", prog.Number, other.Name, prog.Name)
		}
	}
	p.emit(prog)
}
