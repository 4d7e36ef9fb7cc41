// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package writer

import (
	"fmt"

	"github.com/bureau-foundation/recordlog/lib/digest"
)

// SinkError reports that a sealed record could not be appended. The key
// is valid and Record holds the exact bytes that were to be appended,
// ready for Writer.Resubmit.
type SinkError struct {
	Key    digest.Hash
	Record []byte
	Err    error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("appending record %s: %v", e.Key.Short(), e.Err)
}

// Unwrap returns the sink's error.
func (e *SinkError) Unwrap() error { return e.Err }
