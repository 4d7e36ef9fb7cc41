// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// MaxTagLength is the maximum length of a tag in bytes.
const MaxTagLength = 256

// Tag is a caller-supplied classification or identity string: the
// feature and author of a record.
type Tag string

// String returns the tag as a plain string.
func (t Tag) String() string { return string(t) }

// Validate reports whether t can appear in a rendered record. A valid
// tag is non-empty, at most MaxTagLength bytes of UTF-8, and contains
// neither of the text format's delimiters (';' and ':') nor any
// control character.
func (t Tag) Validate() error {
	if t == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTag)
	}
	if len(t) > MaxTagLength {
		return fmt.Errorf("%w: %d bytes exceeds maximum of %d", ErrInvalidTag, len(t), MaxTagLength)
	}
	if !utf8.ValidString(string(t)) {
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidTag)
	}
	for index, r := range string(t) {
		if r == ';' || r == ':' || unicode.IsControl(r) {
			return fmt.Errorf("%w: character %q at position %d", ErrInvalidTag, r, index)
		}
	}
	return nil
}

// ParseTag converts s to a Tag and validates it.
func ParseTag(s string) (Tag, error) {
	tag := Tag(s)
	if err := tag.Validate(); err != nil {
		return "", err
	}
	return tag, nil
}
