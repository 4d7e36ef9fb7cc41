// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds private key material for record decryption.
//
// A [Buffer] keeps its bytes in an anonymous mmap region outside the Go
// heap, locked against swap and excluded from core dumps, and zeroes
// them on Close. [ReadIdentity] loads an age identity file into a
// Buffer, dropping the comment lines that age-keygen writes.
package secret
