// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package commands implements the rpcgen command line.
package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/snaewe/portablexdr/internal/compiler"
	"github.com/snaewe/portablexdr/internal/config"
	"github.com/snaewe/portablexdr/internal/diag"
)

// Version is printed by -V
var Version = "5.0.0"

var ErrNoInput = errors.New("expected name of input file after options")

const usage = `Generate XDR bindings automatically.

Usage:
  {{.CommandPath}} infile.x
  {{.CommandPath}} -c|-h [-o outfile] infile.x
  {{.CommandPath}} -V

Options:
  -c     Generate codec output file only.
  -h     Generate declarations output file only.
  -o     Name of output file (normally it is 'infile_xdr.go' or 'infile_types.go').
  -V     Print the version and exit.

  --package name   Package clause of the generated files.
  --config file    Read settings from file.
  --verbose        Log each step to standard error.

In the first form, without -c or -h, we generate both output files.

You can also list more than one input file on the command line, in
which case each input file is processed separately.
`

// Options of other rpcgen implementations, which are accepted by the
// command line parser only to be rejected with a useful message
const (
	anyRpcgen = "You may need to use an alternative rpcgen program instead."
	gnuRpcgen = "If you were expecting to use GNU rpcgen, try /usr/bin/rpcgen on a GNU host."
	bsdRpcgen = "If you were expecting to use BSD rpcgen, try /usr/bin/rpcgen on a BSD host."
)

var unsupported = []struct {
	short    string
	hasValue bool
	hint     string
}{
	{"A", false, bsdRpcgen},
	{"D", true, anyRpcgen},
	{"I", false, gnuRpcgen},
	{"K", true, anyRpcgen},
	{"L", false, bsdRpcgen},
	{"M", false, bsdRpcgen},
	{"S", false, bsdRpcgen},
	{"T", false, anyRpcgen},
	{"l", false, anyRpcgen},
	{"m", false, anyRpcgen},
	{"n", false, gnuRpcgen},
	{"s", true, anyRpcgen},
	{"t", false, anyRpcgen},
}

func unsupportedFlag(short string) string {
	return "unsupported-" + short
}

type rootFlags struct {
	codecs  bool
	decls   bool
	output  string
	version bool
	pkg     string
	config  string
	verbose bool
}

// NewRootCmd builds the rpcgen command
func NewRootCmd() *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:           "rpcgen [-c|-h] [-o outfile] infile.x...",
		Short:         "Generate XDR bindings automatically",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, &f)
		},
	}
	cmd.SetUsageTemplate(usage)

	flags := cmd.Flags()
	flags.SortFlags = false

	// -h belongs to rpcgen, so help is long only
	flags.Bool("help", false, "Print this help")
	flags.BoolVarP(&f.codecs, "codecs", "c", false, "Generate codec output file only")
	flags.BoolVarP(&f.decls, "declarations", "h", false, "Generate declarations output file only")
	flags.StringVarP(&f.output, "output", "o", "", "Name of output file")
	flags.BoolVarP(&f.version, "version", "V", false, "Print the version and exit")
	flags.StringVar(&f.pkg, "package", "", "Package clause of the generated files")
	flags.StringVar(&f.config, "config", "", "Config file")
	flags.BoolVar(&f.verbose, "verbose", false, "Log each step to standard error")

	for _, u := range unsupported {
		name := unsupportedFlag(u.short)
		if u.hasValue {
			flags.StringArrayP(name, u.short, nil, "")
		} else {
			flags.BoolP(name, u.short, false, "")
		}
		_ = flags.MarkHidden(name)
	}
	return cmd
}

// Execute runs rpcgen with the process arguments
func Execute() error {
	return NewRootCmd().Execute()
}

// FormatError renders err the way rpcgen reports fatal errors: positioned
// diagnostics as they are, anything else after the program name
func FormatError(err error) string {
	var de *diag.Error
	if errors.As(err, &de) {
		return de.Error()
	}
	return diag.Prefix + ": " + err.Error()
}

func checkUnsupported(cmd *cobra.Command) error {
	for _, u := range unsupported {
		if cmd.Flags().Changed(unsupportedFlag(u.short)) {
			return fmt.Errorf("option '%s' is not supported by this PortableXDR rpcgen.\n%s", u.short, u.hint)
		}
	}
	return nil
}

func newLogger(cmd *cobra.Command, level string, verbose bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.AddSync(cmd.ErrOrStderr()),
		lvl,
	)
	return zap.New(core).Named(diag.Prefix), nil
}

func run(cmd *cobra.Command, args []string, f *rootFlags) error {
	if err := checkUnsupported(cmd); err != nil {
		return err
	}

	if f.version {
		fmt.Fprintf(cmd.OutOrStdout(), "PortableXDR rpcgen %s\n", Version)
		return nil
	}

	if len(args) == 0 {
		return ErrNoInput
	}

	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	if f.pkg != "" {
		cfg.Package = f.pkg
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid --package %q: %w", f.pkg, err)
		}
	}

	logger, err := newLogger(cmd, cfg.LogLevel, f.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	compiler.SetLogger(logger)

	return compiler.Run(cmd.Context(), args, compiler.Options{
		CPP:     cfg.CPP,
		Package: cfg.Package,
		Codecs:  f.codecs,
		Decls:   f.decls,
		Output:  f.output,
	})
}
