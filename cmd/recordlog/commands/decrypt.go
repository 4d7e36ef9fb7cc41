// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/recordlog/cmd/recordlog/cli"
	"github.com/bureau-foundation/recordlog/lib/protect"
	"github.com/bureau-foundation/recordlog/lib/secret"
)

type decryptParams struct {
	settings
	identity string
}

func decryptCommand(s streams) *cli.Command {
	var params decryptParams

	return &cli.Command{
		Name:    "decrypt",
		Summary: "Print the records of a protected log in the clear",
		Description: `Decrypt every line of a protected log with an age identity and write
the rendered records to stdout, in log order. The output is a plain log
in the configured record format.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("decrypt", pflag.ContinueOnError)
			params.settings.register(flagSet)
			flagSet.StringVarP(&params.identity, "identity", "i", "", `age identity file (required, "-" for stdin)`)
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Decrypt and verify in one pipeline",
				Command:     "recordlog decrypt -i key.txt > plain.log && recordlog verify --log plain.log",
			},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			return runDecrypt(s, &params)
		},
	}
}

func runDecrypt(s streams, params *decryptParams) error {
	if params.identity == "" {
		return fmt.Errorf("--identity is required")
	}
	cfg, err := params.load()
	if err != nil {
		return err
	}

	identity, err := secret.ReadIdentity(params.identity)
	if err != nil {
		return err
	}
	defer identity.Close()

	file, err := openLog(cfg.Log.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	return protect.OpenLog(file, identity, func(rendered []byte) error {
		_, err := s.out.Write(rendered)
		return err
	})
}
