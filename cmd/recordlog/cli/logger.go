// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger returns the logger for command operations: text on
// an interactive stderr, JSON when stderr is piped or redirected.
func NewCommandLogger(level slog.Level) *slog.Logger {
	interactive := term.IsTerminal(int(os.Stderr.Fd()))
	return newLogger(os.Stderr, interactive, level)
}

func newLogger(w io.Writer, interactive bool, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if interactive {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}
