// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/recordlog/lib/appendlog"
	"github.com/bureau-foundation/recordlog/lib/config"
	"github.com/bureau-foundation/recordlog/lib/protect"
	"github.com/bureau-foundation/recordlog/lib/writer"
)

// settings are the flags shared by every command that touches the log.
type settings struct {
	configPath string
	logPath    string
}

func (s *settings) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&s.configPath, "config", "", "config file (default: $"+config.EnvironmentVariable+", then built-in defaults)")
	flagSet.StringVar(&s.logPath, "log", "", "log file (overrides log.path)")
}

// load reads the config named by --config or RECORDLOG_CONFIG, applies
// --log, and validates the result.
func (s *settings) load() (*config.Config, error) {
	path := s.configPath
	if path == "" {
		path = os.Getenv(config.EnvironmentVariable)
	}

	var cfg *config.Config
	if path == "" {
		cfg = config.Resolve()
	} else {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if s.logPath != "" {
		cfg.Log.Path = s.logPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

// newWriter builds a Writer appending to the configured log file.
func newWriter(cfg *config.Config, logger *slog.Logger) (*writer.Writer, error) {
	mode, err := cfg.FileMode()
	if err != nil {
		return nil, err
	}
	encoding, err := cfg.Encoding()
	if err != nil {
		return nil, err
	}
	algorithm, err := cfg.Algorithm()
	if err != nil {
		return nil, err
	}

	options := []writer.Option{
		writer.WithEncoding(encoding),
		writer.WithAlgorithm(algorithm),
		writer.WithLogger(logger),
	}
	if cfg.Protected() {
		protector, err := protect.NewAge(cfg.Protect.Recipients)
		if err != nil {
			return nil, err
		}
		options = append(options, writer.WithProtector(protector))
	}

	opener := appendlog.NewFile(cfg.Log.Path,
		appendlog.WithFileMode(mode),
		appendlog.WithSync(cfg.Log.Sync),
	)
	return writer.New(opener, options...)
}
