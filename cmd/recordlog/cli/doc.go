// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the recordlog
// binary: a tree of [Command] values dispatched by name, with flags
// parsed by github.com/spf13/pflag, structured help output, and
// "did you mean" suggestions for mistyped commands and flags.
//
// [ExitError] lets a command choose its exit status after printing
// its own output. [NewCommandLogger] returns the slog logger commands
// use for operational messages.
package cli
