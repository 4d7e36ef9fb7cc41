// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package record builds content-addressed records: a metadata header
// plus an opaque body, identified by a key derived from the body.
//
// # Lifecycle
//
// Construction is staged so that each step only exposes the operations
// legal at that point:
//
//	pending, err := record.New("featA")          // Initializing
//	builder, err := pending.Author("authX")      // Open
//	err = builder.Append([]byte("he"))           // Open, any number of times
//	err = builder.Append([]byte("llo"))
//	key, err := builder.Seal()                   // Sealed (terminal)
//	line, err := builder.Render(record.TextEncoding)
//
// A [Builder] can only be obtained from [Pending.Author], so a body can
// never be hashed before its author is known. Every Builder method
// checks the current [State]; a call the state forbids fails with an
// error wrapping [ErrInvalidState] and changes nothing. Sealing twice
// fails with [ErrAlreadySealed]; rendering before sealing fails with
// [ErrNotSealed]. A builder discarded without sealing moves to
// [Abandoned] and rejects everything afterwards.
//
// The key is the [digest] of the concatenated body bytes. Appends feed
// the body buffer and the digest accumulator with the same bytes in the
// same call, so the digest never needs a second pass over the body.
//
// # Formats
//
// [FormatText] renders one line:
//
//	key:<K>;feature:<F>;author:<A>;create_at:<T>;size:<N>;body:<B>\n
//
// K is the hex key, T is the creation time in Unix nanoseconds, and N
// is the byte length of B. Tags cannot contain ';', ':' or control
// characters (see [Tag.Validate]); the body is not escaped because N
// already delimits it. A reader takes exactly N bytes after "body:" and
// then requires the newline.
//
// [FormatCBOR] renders one deterministic CBOR data item per record,
// optionally with a compressed body (see lib/compress). A CBOR log is a
// CBOR sequence.
//
// [Scanner] reads either format back record by record, and
// [Entry.Verify] recomputes a record's key from its body.
//
// # Concurrency
//
// Pending and Builder are owned by a single goroutine and are not
// synchronized. [Stamper] is safe for concurrent use; builders that
// share one get strictly increasing creation times.
package record
