// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the recordlog command tree.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/recordlog/cmd/recordlog/cli"
	"github.com/bureau-foundation/recordlog/lib/version"
)

// streams are the process streams a command reads and writes. Tests
// substitute buffers.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
}

// Root returns the complete command tree wired to the process streams.
func Root() *cli.Command {
	return root(streams{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		logger: cli.NewCommandLogger(slog.LevelInfo),
	})
}

func root(s streams) *cli.Command {
	return &cli.Command{
		Name: "recordlog",
		Description: `recordlog: append-only, content-addressed records.

Each record carries a feature tag, an author tag, a creation time, and a
body. Its key is the digest of the body. Records are sealed before they
are rendered and appended to the log in a single write, so the log never
holds a partial record.`,
		Output: s.errOut,
		Subcommands: []*cli.Command{
			writeCommand(s),
			verifyCommand(s),
			keygenCommand(s),
			decryptCommand(s),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func([]string) error {
					fmt.Fprintf(s.out, "recordlog %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Record a body given on the command line",
				Command:     "recordlog write --feature featA --author authX --body hello",
			},
			{
				Description: "Stream a large file into one record",
				Command:     "recordlog write --feature build --author ci --file out.tar --stream",
			},
			{
				Description: "Check every record in the configured log",
				Command:     "recordlog verify",
			},
		},
	}
}
