// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package compress implements the optional body compression carried
// in binary record envelopes.
//
// Compression never affects a record's key: keys are computed over the
// uncompressed body, so the same content yields the same key whether
// or not (and however) it was compressed on disk. Two codecs are
// available besides [None]: [LZ4] (block mode, fast) and [Zstd]
// (level 3, better ratio for text-like bodies). When a codec would not
// shrink the body, [Compress] stores it uncompressed and reports [None].
package compress
