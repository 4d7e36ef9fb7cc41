// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package appendlog

import "errors"

// ErrClosed is returned by Append on a handle that has been closed.
var ErrClosed = errors.New("appendlog: sink closed")

// Sink is an open handle to an append-only log.
type Sink interface {
	// Append writes record at the end of the log. The record is
	// written whole or not at all.
	Append(record []byte) error

	// Close releases the handle. Close is idempotent.
	Close() error
}

// Opener opens sink handles.
type Opener interface {
	Open() (Sink, error)
}

// OpenerFunc adapts an ordinary function to the Opener interface.
type OpenerFunc func() (Sink, error)

// Open calls f.
func (f OpenerFunc) Open() (Sink, error) { return f() }
