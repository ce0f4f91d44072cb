// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package cpp runs the C preprocessor over an IDL file.
package cpp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

func isSafe(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
		c == '_' || c == '-' || c == '.'
}

// Quote escapes every byte of s outside [A-Za-z0-9_.-] with a backslash, so
// that s survives the shell as a single word
func Quote(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if !isSafe(s[i]) {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// Command is the shell command line preprocessing filename with cpp. cpp is
// used verbatim and may carry arguments of its own.
func Command(cpp, filename string) string {
	return cpp + " " + Quote(filename)
}

// Run preprocesses filename and returns the output. The preprocessor's
// standard error passes through to ours. The child has exited by the time
// Run returns.
func Run(ctx context.Context, cpp, filename string) ([]byte, error) {
	line := Command(cpp, filename)

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", line)
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("preprocessor command '%s' failed: %w", line, err)
	}
	return out.Bytes(), nil
}
