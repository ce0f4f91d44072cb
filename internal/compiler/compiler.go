// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package compiler drives rpcgen over its input files: preprocess, parse,
// generate and write, one file at a time.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/snaewe/portablexdr/internal/ast"
	"github.com/snaewe/portablexdr/internal/cpp"
	"github.com/snaewe/portablexdr/internal/gen"
	"github.com/snaewe/portablexdr/internal/parser"
)

const (
	DeclsSuffix  = "_types.go"
	CodecsSuffix = "_xdr.go"
)

var ErrOutputWithManyInputs = errors.New("-o cannot be used with more than one input file")

type Options struct {
	// Preprocessor command
	CPP string

	// Package clause; empty derives it from each input's name
	Package string

	// Emit only the codec file (Codecs) or only the declarations file
	// (Decls). Neither, or both, emits both.
	Codecs bool
	Decls  bool

	// Output names the file written when exactly one kind is emitted, and
	// is the base name of both files otherwise
	Output string
}

func (o Options) wantDecls() bool  { return o.Decls || !o.Codecs }
func (o Options) wantCodecs() bool { return o.Codecs || !o.Decls }

// Outputs returns the files written for input. An empty path means that
// file is not emitted.
func Outputs(input string, opts Options) (decls, codecs string) {
	if opts.Output != "" && opts.wantDecls() != opts.wantCodecs() {
		if opts.wantDecls() {
			return opts.Output, ""
		}
		return "", opts.Output
	}

	base := opts.Output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else {
		base = strings.TrimSuffix(base, ".go")
	}

	if opts.wantDecls() {
		decls = base + DeclsSuffix
	}
	if opts.wantCodecs() {
		codecs = base + CodecsSuffix
	}
	return decls, codecs
}

// Run compiles every input in turn, stopping at the first failure
func Run(ctx context.Context, inputs []string, opts Options) error {
	if opts.Output != "" && len(inputs) > 1 {
		return ErrOutputWithManyInputs
	}

	for _, input := range inputs {
		if err := Compile(ctx, input, opts); err != nil {
			return err
		}
	}
	return nil
}

// Compile compiles one input. Nothing is written unless every requested
// file could be generated.
func Compile(ctx context.Context, input string, opts Options) error {
	log := Logger().With(zap.String("input", input))

	log.Debug("preprocessing", zap.String("command", cpp.Command(opts.CPP, input)))
	src, err := cpp.Run(ctx, opts.CPP, input)
	if err != nil {
		return err
	}

	spec, err := parser.Parse("", src)
	if err != nil {
		log.Debug("parsing failed, file is not a valid rpcgen input", zap.Error(err))
		return err
	}
	log.Debug("parsed", zap.Int("definitions", len(spec.Definitions)))

	return generate(spec, input, opts, log)
}

type output struct {
	path string
	data []byte
}

func generate(spec *ast.Specification, input string, opts Options, log *zap.Logger) error {
	gopts := gen.Options{Package: opts.Package, Source: input}
	declsPath, codecsPath := Outputs(input, opts)

	var outs []output
	if declsPath != "" {
		data, err := gen.Declarations(spec, gopts)
		if err != nil {
			return err
		}
		outs = append(outs, output{declsPath, data})
	}
	if codecsPath != "" {
		data, err := gen.Codecs(spec, gopts)
		if err != nil {
			return err
		}
		outs = append(outs, output{codecsPath, data})
	}

	for _, o := range outs {
		if err := os.WriteFile(o.path, o.data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", o.path, err)
		}
		log.Info("wrote", zap.String("output", o.path), zap.Int("bytes", len(o.data)))
	}
	return nil
}
