// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package writer is the entry point for persisting records.
//
// A [Writer] combines a sink [appendlog.Opener] with the record
// settings (format, digest algorithm, clock, optional protection) and
// offers two ways to write:
//
//   - [Writer.Write] builds, seals, renders, and appends a record whose
//     whole body is already in memory, and returns its key.
//   - [Writer.Stream] opens a [Session] that owns one record builder
//     and one sink handle. The caller appends body content any number
//     of times and then calls [Session.Seal], which appends the
//     rendered record and returns the key. Closing a session without
//     sealing abandons the record and logs a warning.
//
// Either way the sink receives each record in a single append, after
// sealing, so the log never contains a partial record. Both paths use
// the same render step: for equal creation times a streamed record is
// byte-identical to the same body written at once.
//
// When an append fails after the key is computed, the error is a
// [*SinkError] carrying the key and the rendered bytes. Nothing is
// retried automatically; [Writer.Resubmit] re-appends the same bytes
// through a fresh sink handle.
package writer
