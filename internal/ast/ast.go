// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package ast holds the syntax tree of an XDR IDL file as produced by the
// parser. A Specification is not modified after parsing.
package ast

import (
	"github.com/snaewe/portablexdr/internal/diag"
)

// Unbounded is the bound of `<>`
const Unbounded = ^uint32(0)

// Definition is a top level (or hoisted) definition
type Definition interface {
	DefName() string
	Position() diag.Pos
	isDefinition()
}

// Specification is one parsed input file
type Specification struct {
	File string

	// In source order; hoisted inline bodies precede the definition
	// that contained them
	Definitions []Definition

	Symbols *SymbolTable
}

// TypeKind classifies a TypeSpec
type TypeKind int

const (
	TInt TypeKind = iota
	TBool
	TString
	TOpaque
	TNamed
	TVoid
)

// TypeSpec is a type specifier, the part of a declaration before the name
type TypeSpec struct {
	Kind TypeKind

	// For TInt: width in bits (8, 16, 32 or 64) and signedness
	Bits     int
	Unsigned bool

	// For TNamed: the referenced definition
	Name string
}

// IsInt reports whether t is an integral base type
func (t TypeSpec) IsInt() bool {
	return t.Kind == TInt
}

// DeclKind is the shape a declaration gives its type
type DeclKind int

const (
	Scalar DeclKind = iota
	FixedArray
	VarArray
	Optional
	Void
)

// Declaration represents «type name», «type name[N]», «type name<N>»,
// «type *name» or «void»
type Declaration struct {
	Name string
	Type TypeSpec
	Kind DeclKind

	// For FixedArray and VarArray. BoundName is set when the bound was
	// given as a constant.
	Bound     uint32
	BoundName string

	Pos diag.Pos
}

// Const represents «"const" name = value»
type Const struct {
	Name  string
	Value int64
	Pos   diag.Pos
}

func (c *Const) DefName() string    { return c.Name }
func (c *Const) Position() diag.Pos { return c.Pos }
func (*Const) isDefinition()        {}

// Typedef represents «"typedef" declaration»
type Typedef struct {
	Decl Declaration
}

func (t *Typedef) DefName() string    { return t.Decl.Name }
func (t *Typedef) Position() diag.Pos { return t.Decl.Pos }
func (*Typedef) isDefinition()        {}

// EnumValue is one «name [= value]» entry of an enum. Enum values share the
// global namespace with every other definition.
type EnumValue struct {
	Name  string
	Value int32
	Enum  string
	Pos   diag.Pos
}

func (v *EnumValue) DefName() string    { return v.Name }
func (v *EnumValue) Position() diag.Pos { return v.Pos }
func (*EnumValue) isDefinition()        {}

// Enum represents «"enum" name { values }»
type Enum struct {
	Name   string
	Values []*EnumValue
	Pos    diag.Pos
}

func (e *Enum) DefName() string    { return e.Name }
func (e *Enum) Position() diag.Pos { return e.Pos }
func (*Enum) isDefinition()        {}

// Struct represents «"struct" name { fields }»
type Struct struct {
	Name   string
	Fields []Declaration
	Pos    diag.Pos
}

func (s *Struct) DefName() string    { return s.Name }
func (s *Struct) Position() diag.Pos { return s.Pos }
func (*Struct) isDefinition()        {}

// CaseValue is one «"case" label:». Label is the source text of the label;
// Value is what it evaluated to.
type CaseValue struct {
	Label string
	Value int32

	// Set when Label names an enum value
	Enum bool
}

// UnionArm is one or more case labels sharing a declaration
type UnionArm struct {
	Cases []CaseValue
	Decl  Declaration
}

// Union represents «"union" name "switch" (discriminant) { arms }»
type Union struct {
	Name         string
	Discriminant Declaration
	Arms         []*UnionArm

	// Nil when the union has no default arm
	Default *Declaration

	Pos diag.Pos
}

func (u *Union) DefName() string    { return u.Name }
func (u *Union) Position() diag.Pos { return u.Pos }
func (*Union) isDefinition()        {}

// Procedure represents «result name(args) = number»
type Procedure struct {
	Name   string
	Number uint32
	Result TypeSpec
	Args   []TypeSpec
	Pos    diag.Pos
}

func (p *Procedure) DefName() string    { return p.Name }
func (p *Procedure) Position() diag.Pos { return p.Pos }
func (*Procedure) isDefinition()        {}

// Version represents «"version" name { procedures } = number»
type Version struct {
	Name       string
	Number     uint32
	Procedures []*Procedure
	Pos        diag.Pos
}

func (v *Version) DefName() string    { return v.Name }
func (v *Version) Position() diag.Pos { return v.Pos }
func (*Version) isDefinition()        {}

// Program represents «"program" name { versions } = number»
type Program struct {
	Name     string
	Number   uint32
	Versions []*Version
	Pos      diag.Pos
}

func (p *Program) DefName() string    { return p.Name }
func (p *Program) Position() diag.Pos { return p.Pos }
func (*Program) isDefinition()        {}
