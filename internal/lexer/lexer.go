// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package lexer tokenizes preprocessed XDR IDL text.
//
// Preprocessor line markers (`# 12 "file.x"`) move the current position;
// every other `#` line, and every `%` pass-through line, is skipped.
package lexer

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/snaewe/portablexdr/internal/diag"
)

const punctuation = "{}()[]<>;,=:*"

type Lexer struct {
	src  []byte
	off  int
	line int
	file string

	// At the beginning of a line (only whitespace seen so far)
	bol bool
}

// New returns a lexer over src. file may be empty, in which case positions
// carry no file name until the first line marker supplies one.
func New(file string, src []byte) *Lexer {
	return &Lexer{src: src, line: 1, file: file, bol: true}
}

// Pos returns the current position
func (l *Lexer) Pos() diag.Pos {
	return diag.Pos{File: l.file, Line: l.line}
}

func (l *Lexer) peek(n int) byte {
	if l.off+n < len(l.src) {
		return l.src[l.off+n]
	}
	return 0
}

// restOfLine consumes and returns everything up to (not including) the
// next newline
func (l *Lexer) restOfLine() string {
	end := bytes.IndexByte(l.src[l.off:], '\n')
	if end < 0 {
		end = len(l.src) - l.off
	}
	s := string(l.src[l.off : l.off+end])
	l.off += end
	return s
}

// directive handles a `#` line. Only line markers have any effect.
func (l *Lexer) directive(text string) {
	text = strings.TrimSpace(strings.TrimPrefix(text, "#"))
	text = strings.TrimSpace(strings.TrimPrefix(text, "line"))

	num := text
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		num = text[:i]
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return
	}

	if start := strings.IndexByte(text, '"'); start >= 0 {
		if end := strings.LastIndexByte(text, '"'); end > start {
			quoted := text[start : end+1]
			if name, err := strconv.Unquote(quoted); err == nil {
				l.file = name
			} else {
				l.file = quoted[1 : len(quoted)-1]
			}
		}
	}

	// The newline ending the marker takes us to line n
	l.line = n - 1
}

// skip passes over whitespace, comments and directives
func (l *Lexer) skip() error {
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch {
		case c == '\n':
			l.off++
			l.line++
			l.bol = true

		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			l.off++

		case l.bol && c == '#':
			l.directive(l.restOfLine())

		case l.bol && c == '%':
			l.restOfLine()

		case c == '/' && l.peek(1) == '*':
			start := l.Pos()
			end := bytes.Index(l.src[l.off+2:], []byte("*/"))
			if end < 0 {
				return diag.Errorf(start, "unterminated comment")
			}
			body := l.src[l.off : l.off+2+end+2]
			l.line += bytes.Count(body, []byte{'\n'})
			l.off += len(body)
			l.bol = false

		case c == '/' && l.peek(1) == '/':
			l.restOfLine()

		default:
			return nil
		}
	}
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdent(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// Next returns the next token, or a token of kind EOF at the end of input
func (l *Lexer) Next() (Token, error) {
	if err := l.skip(); err != nil {
		return Token{}, err
	}

	pos := l.Pos()
	if l.off >= len(l.src) {
		return Token{Kind: EOF, Pos: pos}, nil
	}
	l.bol = false

	c := l.src[l.off]
	switch {
	case isIdentStart(c):
		start := l.off
		for l.off < len(l.src) && isIdent(l.src[l.off]) {
			l.off++
		}
		text := string(l.src[start:l.off])
		kind := Ident
		if IsKeyword(text) {
			kind = Keyword
		}
		return Token{Kind: kind, Text: text, Pos: pos}, nil

	case isDigit(c) || (c == '-' && isDigit(l.peek(1))):
		start := l.off
		l.off++
		for l.off < len(l.src) && isIdent(l.src[l.off]) {
			l.off++
		}
		text := string(l.src[start:l.off])
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return Token{}, diag.Errorf(pos, "invalid number '%s'", text)
		}
		return Token{Kind: Number, Text: text, Value: v, Pos: pos}, nil

	case c == '"' || c == '\'':
		text, err := l.quoted(c)
		if err != nil {
			return Token{}, err
		}
		kind := String
		if c == '\'' {
			kind = Char
		}
		return Token{Kind: kind, Text: text, Pos: pos}, nil

	case strings.IndexByte(punctuation, c) >= 0:
		l.off++
		return Token{Kind: Punct, Text: string(c), Pos: pos}, nil

	default:
		return Token{}, diag.Errorf(pos, "unexpected character '%c' in input", c)
	}
}

// quoted scans a literal delimited by q. A backslash takes the following
// character literally.
func (l *Lexer) quoted(q byte) (string, error) {
	pos := l.Pos()
	var sb strings.Builder

	l.off++
	for {
		if l.off >= len(l.src) || l.src[l.off] == '\n' {
			return "", diag.Errorf(pos, "unterminated literal")
		}

		c := l.src[l.off]
		l.off++
		switch {
		case c == q:
			return sb.String(), nil
		case c == '\\' && l.off < len(l.src):
			sb.WriteByte(l.src[l.off])
			l.off++
		default:
			sb.WriteByte(c)
		}
	}
}

// Tokenize returns every token of src, ending with the EOF token
func Tokenize(file string, src []byte) ([]Token, error) {
	l := New(file, src)

	var toks []Token
	for {
		t, err := l.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, t)
		if t.Kind == EOF {
			return toks, nil
		}
	}
}
