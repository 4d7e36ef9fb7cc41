// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package protect applies the optional confidentiality transform to
// rendered records before they reach the log.
//
// A [Protector] maps one rendered record to the bytes that are actually
// appended. [Age] encrypts each record to a fixed set of age X25519
// recipients and emits it as a single line:
//
//	age:<standard base64 of the age ciphertext>\n
//
// Each record is encrypted independently, so a protected log can be
// appended to by many writers and read back line by line with [Open] or
// [OpenLog]. The record key is computed over the plaintext body before
// protection and is not visible in the protected line.
//
// age's authenticated encryption detects any modification of a
// protected line, but it does not authenticate the writer. Encryption
// needs only the public recipient key, so anyone holding it can produce
// a line that opens cleanly. Origin authentication would need a
// separate signature over the rendered record, which this package does
// not provide.
package protect
