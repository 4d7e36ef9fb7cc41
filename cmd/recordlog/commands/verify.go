// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/recordlog/cmd/recordlog/cli"
	"github.com/bureau-foundation/recordlog/lib/record"
	"github.com/bureau-foundation/recordlog/lib/secret"
)

type verifyParams struct {
	settings
	identity string
	quiet    bool
}

func verifyCommand(s streams) *cli.Command {
	var params verifyParams

	return &cli.Command{
		Name:    "verify",
		Summary: "Recompute the key of every record in a log",
		Description: `Read every record in the log, recompute the digest of its body, and
compare it with the recorded key and size. Prints one line per record
and exits with status 1 if any record fails or the log is malformed.

Text logs do not record the digest algorithm; record.digest from the
configuration is used for them. Protected logs need --identity.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			params.settings.register(flagSet)
			flagSet.StringVar(&params.identity, "identity", "", `age identity file for a protected log ("-" for stdin)`)
			flagSet.BoolVarP(&params.quiet, "quiet", "q", false, "print failures only")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Verify a specific log",
				Command:     "recordlog verify --log /var/lib/recordlog/records.log",
			},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			return runVerify(s, &params)
		},
	}
}

func runVerify(s streams, params *verifyParams) error {
	cfg, err := params.load()
	if err != nil {
		return err
	}
	encoding, err := cfg.Encoding()
	if err != nil {
		return err
	}
	algorithm, err := cfg.Algorithm()
	if err != nil {
		return err
	}

	if cfg.Protected() && params.identity == "" {
		return fmt.Errorf("records in %s are protected; pass --identity", cfg.Log.Path)
	}
	var identity *secret.Buffer
	if params.identity != "" {
		identity, err = secret.ReadIdentity(params.identity)
		if err != nil {
			return err
		}
		defer identity.Close()
	}

	file, err := openLog(cfg.Log.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	var total, failed int
	readErr := readEntries(file, encoding.Format, identity, func(entry record.Entry) error {
		total++
		meta := entry.Metadata
		if err := entry.Verify(algorithm); err != nil {
			failed++
			fmt.Fprintf(s.out, "FAIL %s feature=%s author=%s: %v\n", meta.Key, meta.Feature, meta.Author, err)
			return nil
		}
		if !params.quiet {
			fmt.Fprintf(s.out, "ok   %s feature=%s author=%s size=%d\n", meta.Key, meta.Feature, meta.Author, meta.Size)
		}
		return nil
	})
	if readErr != nil {
		fmt.Fprintf(s.errOut, "%s: %v\n", cfg.Log.Path, readErr)
		failed++
	}

	fmt.Fprintf(s.errOut, "%d records checked, %d problems\n", total, failed)
	if failed > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}
