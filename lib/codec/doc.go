// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration for
// binary record envelopes.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same logical record always produces identical bytes, which keeps
// streamed and one-shot renderings of a record byte-for-byte equal.
//
// A log written in the CBOR format is a CBOR sequence (RFC 8742): one
// data item per record, concatenated. [NewDecoder] reads such a
// sequence item by item.
//
// Types implementing encoding.TextMarshaler (digest.Hash) are encoded
// as CBOR text strings, so a key appears as the same hex string in
// both the text and CBOR formats.
package codec
