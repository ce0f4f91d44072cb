// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package lexer

import (
	"fmt"

	"github.com/snaewe/portablexdr/internal/diag"
)

type Kind int

const (
	EOF Kind = iota
	Ident
	Keyword
	Number
	String
	Char
	Punct
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of file"
	case Ident:
		return "identifier"
	case Keyword:
		return "keyword"
	case Number:
		return "number"
	case String:
		return "string literal"
	case Char:
		return "character literal"
	case Punct:
		return "punctuation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is one lexical item. For numbers Value holds the parsed value; for
// string and character literals Text holds the unquoted contents.
type Token struct {
	Kind  Kind
	Text  string
	Value int64
	Pos   diag.Pos
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of file"
	case String:
		return fmt.Sprintf("%q", t.Text)
	case Char:
		return fmt.Sprintf("'%s'", t.Text)
	default:
		return fmt.Sprintf("'%s'", t.Text)
	}
}

// Is reports whether t is the keyword or punctuation s
func (t Token) Is(s string) bool {
	return (t.Kind == Keyword || t.Kind == Punct) && t.Text == s
}

var keywords = map[string]bool{
	"bool":      true,
	"case":      true,
	"char":      true,
	"const":     true,
	"default":   true,
	"double":    true,
	"enum":      true,
	"float":     true,
	"hyper":     true,
	"int":       true,
	"long":      true,
	"opaque":    true,
	"program":   true,
	"quadruple": true,
	"short":     true,
	"string":    true,
	"struct":    true,
	"switch":    true,
	"typedef":   true,
	"union":     true,
	"unsigned":  true,
	"version":   true,
	"void":      true,
}

// IsKeyword reports whether s is reserved in the IDL
func IsKeyword(s string) bool {
	return keywords[s]
}
