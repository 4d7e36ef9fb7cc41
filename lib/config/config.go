// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/recordlog/lib/compress"
	"github.com/bureau-foundation/recordlog/lib/digest"
	"github.com/bureau-foundation/recordlog/lib/protect"
	"github.com/bureau-foundation/recordlog/lib/record"
)

// EnvironmentVariable names the config file for Load.
const EnvironmentVariable = "RECORDLOG_CONFIG"

// Config is the complete recordlog configuration.
type Config struct {
	// Log configures the append-only log file.
	Log LogConfig `yaml:"log"`

	// Record configures how records are keyed and rendered.
	Record RecordConfig `yaml:"record"`

	// Protect configures the optional encryption of rendered records.
	Protect ProtectConfig `yaml:"protect"`
}

// LogConfig configures the log file.
type LogConfig struct {
	// Path is the log file. ${VAR} patterns are expanded.
	// Default: ${HOME}/.local/share/recordlog/records.log
	Path string `yaml:"path"`

	// FileMode is the octal permission used when creating the log.
	// Default: "0644"
	FileMode string `yaml:"file_mode"`

	// Sync fsyncs the log after every append.
	// Default: true
	Sync bool `yaml:"sync"`
}

// RecordConfig configures record rendering.
type RecordConfig struct {
	// Format is "text" or "cbor". Default: text
	Format string `yaml:"format"`

	// Digest is "blake3", "blake2b-256", or "sha256". Default: blake3
	Digest string `yaml:"digest"`

	// Compression is "none", "lz4", or "zstd", and applies to the cbor
	// format only. Default: none
	Compression string `yaml:"compression"`
}

// ProtectConfig configures record encryption. Protection is enabled
// when Recipients is non-empty.
type ProtectConfig struct {
	// Recipients are age X25519 public keys (age1...).
	Recipients []string `yaml:"recipients"`
}

// Default returns the configuration used when no file is loaded.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Path:     "${HOME}/.local/share/recordlog/records.log",
			FileMode: "0644",
			Sync:     true,
		},
		Record: RecordConfig{
			Format:      string(record.FormatText),
			Digest:      string(digest.Default),
			Compression: string(compress.None),
		},
	}
}

// Load loads the file named by RECORDLOG_CONFIG. It fails if the
// variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your recordlog config file, or use --config", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile loads the file at path over Default and expands variables.
// The result is not validated; call Validate.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

// Resolve returns Default with variables expanded, for running without
// a config file.
func Resolve() *Config {
	cfg := Default()
	cfg.expandVariables()
	return cfg
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is a subset of YAML, so the yaml tags serve both.
		data = jsonc.ToJSON(data)
	}
	return yaml.Unmarshal(data, c)
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *Config) expandVariables() {
	c.Log.Path = expandVars(c.Log.Path)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks every field and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	if c.Log.Path == "" {
		errs = append(errs, fmt.Errorf("log.path is required"))
	}
	if _, err := c.FileMode(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Encoding(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Algorithm(); err != nil {
		errs = append(errs, fmt.Errorf("record.digest: %w", err))
	}
	for index, recipient := range c.Protect.Recipients {
		if _, err := protect.ParseRecipient(recipient); err != nil {
			errs = append(errs, fmt.Errorf("protect.recipients[%d]: %w", index, err))
		}
	}

	return errors.Join(errs...)
}

// FileMode parses log.file_mode.
func (c *Config) FileMode() (fs.FileMode, error) {
	mode, err := strconv.ParseUint(c.Log.FileMode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("log.file_mode %q is not an octal permission", c.Log.FileMode)
	}
	if mode&^0o777 != 0 {
		return 0, fmt.Errorf("log.file_mode %q has bits outside 0777", c.Log.FileMode)
	}
	return fs.FileMode(mode), nil
}

// Encoding returns the record encoding from the record section.
func (c *Config) Encoding() (record.Encoding, error) {
	format, err := record.ParseFormat(c.Record.Format)
	if err != nil {
		return record.Encoding{}, fmt.Errorf("record.format: %w", err)
	}
	compression, err := compress.ParseTag(c.Record.Compression)
	if err != nil {
		return record.Encoding{}, fmt.Errorf("record.compression: %w", err)
	}
	encoding := record.Encoding{Format: format, Compression: compression}
	if err := encoding.Validate(); err != nil {
		return record.Encoding{}, fmt.Errorf("record: %w", err)
	}
	return encoding, nil
}

// Algorithm returns the digest algorithm from record.digest.
func (c *Config) Algorithm() (digest.Algorithm, error) {
	return digest.ParseAlgorithm(c.Record.Digest)
}

// Protected reports whether records are encrypted before appending.
func (c *Config) Protected() bool {
	return len(c.Protect.Recipients) > 0
}
