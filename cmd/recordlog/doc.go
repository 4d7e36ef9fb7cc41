// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Recordlog writes content-addressed records to an append-only log and
// checks logs written earlier.
//
// Usage:
//
//	recordlog write --feature F --author A [--body S | --file P] [--stream]
//	recordlog verify [--log P] [--identity P]
//	recordlog keygen [--output P]
//	recordlog decrypt --identity P [--log P]
//	recordlog version
//
// Settings come from the file named by --config or RECORDLOG_CONFIG;
// see lib/config for the format.
package main
