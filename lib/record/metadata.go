// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"fmt"
	"time"

	"github.com/bureau-foundation/recordlog/lib/digest"
)

// Metadata is the header of a record. A Builder owns its Metadata and
// is the only writer of Size and Key; callers receive copies.
type Metadata struct {
	// Key is the digest of the body. Zero until the record is sealed,
	// immutable afterwards.
	Key digest.Hash

	// Algorithm is the digest algorithm that produced Key. The text
	// format does not carry it; readers of text logs supply it.
	Algorithm digest.Algorithm

	// Feature classifies the record. Set at construction.
	Feature Tag

	// Author identifies who produced the record. Set once, before any
	// body content.
	Author Tag

	// CreatedAt is when the record was constructed.
	CreatedAt time.Time

	// Size is the number of body bytes appended so far.
	Size int64
}

// Keyed reports whether the record has been sealed.
func (m Metadata) Keyed() bool {
	return !m.Key.IsZero()
}

// Timestamp returns CreatedAt as Unix nanoseconds, the numeric form
// used in rendered records.
func (m Metadata) Timestamp() int64 {
	return m.CreatedAt.UnixNano()
}

// Summary returns the header portion of the text rendering:
//
//	key:<K>;feature:<F>;author:<A>;create_at:<T>;size:<N>;
//
// It fails with ErrNotSealed until the key is set.
func (m Metadata) Summary() (string, error) {
	if !m.Keyed() {
		return "", ErrNotSealed
	}
	return fmt.Sprintf("key:%s;feature:%s;author:%s;create_at:%d;size:%d;",
		m.Key, m.Feature, m.Author, m.Timestamp(), m.Size), nil
}

// String implements fmt.Stringer for logs and debugging. Unlike
// Summary it never fails.
func (m Metadata) String() string {
	if summary, err := m.Summary(); err == nil {
		return summary
	}
	return fmt.Sprintf("unsealed record (feature:%s;author:%s;size:%d)", m.Feature, m.Author, m.Size)
}
