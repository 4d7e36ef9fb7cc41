// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/recordlog/cmd/recordlog/cli"
	"github.com/bureau-foundation/recordlog/lib/protect"
)

func keygenCommand(s streams) *cli.Command {
	var output string

	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate an age keypair for protected logs",
		Description: `Generate an age X25519 keypair. The identity (private key) is written
in age identity file format to --output, or to stdout. The public key is
printed to stderr; list it under protect.recipients in the config to
encrypt every record written to the log.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
			flagSet.StringVarP(&output, "output", "o", "", "write the identity to this file (must not exist)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			return runKeygen(s, output)
		},
	}
}

func runKeygen(s streams, output string) error {
	keypair, err := protect.GenerateKeypair()
	if err != nil {
		return err
	}
	defer keypair.Close()

	destination := s.out
	if output != "" {
		file, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			return fmt.Errorf("creating identity file: %w", err)
		}
		defer file.Close()
		destination = file
	}

	if err := writeIdentity(destination, keypair, time.Now()); err != nil {
		return err
	}
	fmt.Fprintf(s.errOut, "Public key: %s\n", keypair.Recipient)
	return nil
}

func writeIdentity(w io.Writer, keypair *protect.Keypair, now time.Time) error {
	header := fmt.Sprintf("# created: %s\n# public key: %s\n", now.UTC().Format(time.RFC3339), keypair.Recipient)
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("writing identity: %w", err)
	}
	if _, err := w.Write(keypair.Identity.Bytes()); err != nil {
		return fmt.Errorf("writing identity: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("writing identity: %w", err)
	}
	return nil
}
