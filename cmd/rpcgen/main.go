// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Command rpcgen generates Go XDR bindings from an IDL file.
package main

import (
	"fmt"
	"os"

	"github.com/snaewe/portablexdr/cmd/rpcgen/commands"
)

// Build-time variable injected via ldflags
var version = ""

func main() {
	if version != "" {
		commands.Version = version
	}

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, commands.FormatError(err))
		os.Exit(1)
	}
}
