// Copyright 2026 The Spindle Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds helpers shared by the Spindle command-line
// binaries.
package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates the structured logger for a CLI invocation.
// When stderr is a terminal, uses slog.TextHandler for human-readable
// output. When stderr is piped or redirected (CI, scripts), uses
// slog.JSONHandler for machine-parseable output. Debug level is
// enabled by the SPINDLE_DEBUG environment variable.
func NewCommandLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("SPINDLE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
