// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package ast

// SymbolTable maps every defined name to its definition. There is one table
// per input file.
type SymbolTable struct {
	defs map[string]Definition
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{defs: make(map[string]Definition)}
}

// Define adds d under its name. It returns false, leaving the table
// unchanged, if the name is already taken.
func (s *SymbolTable) Define(d Definition) bool {
	if _, ok := s.defs[d.DefName()]; ok {
		return false
	}
	s.defs[d.DefName()] = d
	return true
}

// Lookup returns the definition of name, or nil
func (s *SymbolTable) Lookup(name string) Definition {
	return s.defs[name]
}

// ConstValue returns the value of a constant or enum value
func (s *SymbolTable) ConstValue(name string) (int64, bool) {
	switch d := s.defs[name].(type) {
	case *Const:
		return d.Value, true
	case *EnumValue:
		return int64(d.Value), true
	default:
		return 0, false
	}
}

// Resolve follows scalar typedefs from t. It returns the final type spec and,
// if that names a definition, the definition.
func (s *SymbolTable) Resolve(t TypeSpec) (TypeSpec, Definition) {
	for t.Kind == TNamed {
		d := s.defs[t.Name]
		td, ok := d.(*Typedef)
		if !ok || td.Decl.Kind != Scalar {
			return t, d
		}
		t = td.Decl.Type
	}
	return t, nil
}

// OptionalTypedef returns the typedef declaring an optional
// («typedef T *name») that name is, directly or through scalar typedefs of
// it, or nil
func (s *SymbolTable) OptionalTypedef(name string) *Typedef {
	for {
		td, ok := s.defs[name].(*Typedef)
		if !ok {
			return nil
		}
		switch {
		case td.Decl.Kind == Optional:
			return td
		case td.Decl.Kind == Scalar && td.Decl.Type.Kind == TNamed:
			name = td.Decl.Type.Name
		default:
			return nil
		}
	}
}
