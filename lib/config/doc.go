// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads recordlog configuration.
//
// Configuration comes from a single file named either by the
// RECORDLOG_CONFIG environment variable (via [Load]) or by a --config
// flag (via [LoadFile]). There is no discovery and no fallback search.
// Files ending in .json or .jsonc are read as JSON with comments;
// anything else is YAML.
//
// After loading, ${VAR} and ${VAR:-default} patterns in path fields are
// expanded. No other environment variable overrides a config value.
//
// Key exports:
//
//   - [Config] -- the log, record, and protect sections
//   - [Default] -- the configuration used when no file is given
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- reports every problem at once
package config
