// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes the content keys of records.
//
// An [Accumulator] consumes body bytes incrementally and produces a
// 32-byte [Hash] exactly once. The digest is a function of the
// concatenation of everything written: splitting the same bytes across
// a different number of Update calls yields the same Hash.
//
// Three algorithms are supported:
//
//   - [BLAKE3] (default): keyed BLAKE3 with the fixed domain key
//     "bureau.record.body". The domain key keeps record keys from ever
//     colliding with plain BLAKE3 hashes of the same bytes computed
//     elsewhere.
//   - [BLAKE2b256]: unkeyed BLAKE2b with a 32-byte output.
//   - [SHA256]: SHA-256, for interoperability with external tooling.
//
// Hashes render as 64 lower-case hex characters ([Hash.String]).
//
// This package depends on no other recordlog packages.
package digest
