// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package compiler

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the compiler's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the compiler's logger.
// This must be called before any compilation.
func SetLogger(l *zap.Logger) {
	logger = l
}
