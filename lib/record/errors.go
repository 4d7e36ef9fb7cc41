// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"errors"
	"fmt"
)

// ErrInvalidState is the root of every lifecycle violation. All of
// ErrAlreadySealed, ErrNotSealed, and ErrAbandoned wrap it.
var ErrInvalidState = errors.New("invalid record state")

var (
	// ErrAlreadySealed is returned by Append, Write, and Seal on a
	// sealed builder.
	ErrAlreadySealed = fmt.Errorf("%w: record already sealed", ErrInvalidState)

	// ErrNotSealed is returned by Render, Key, and Metadata.Summary
	// before the record is sealed.
	ErrNotSealed = fmt.Errorf("%w: record not sealed", ErrInvalidState)

	// ErrAbandoned is returned by every operation on a builder that
	// was abandoned without sealing.
	ErrAbandoned = fmt.Errorf("%w: record abandoned", ErrInvalidState)
)

var (
	// ErrInvalidTag is returned when a feature or author tag cannot be
	// rendered unambiguously.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrMalformed is returned by Scanner for input that is not a
	// rendered record.
	ErrMalformed = errors.New("malformed record")

	// ErrTruncated is returned by Scanner when input ends partway
	// through a record.
	ErrTruncated = errors.New("truncated record")

	// ErrDigestMismatch is returned by Entry.Verify when the body does
	// not hash to the recorded key.
	ErrDigestMismatch = errors.New("record digest mismatch")
)
