// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"encoding/hex"
	"fmt"
)

// Size is the length in bytes of every Hash, regardless of algorithm.
const Size = 32

// Hash is a finalized 32-byte content digest. The zero Hash means
// "no key yet".
type Hash [Size]byte

// String returns the canonical lower-case hex form used in rendered
// records, logs, and CLI output.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the abbreviated reference for user-facing output: the
// "rec-" prefix followed by the first 12 hex characters.
func (h Hash) Short() string {
	return "rec-" + hex.EncodeToString(h[:6])
}

// IsZero reports whether h is the zero Hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// MarshalText implements encoding.TextMarshaler. JSON output and the
// CBOR codec both encode a Hash as its hex string.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHash parses a 64-character hex string into a Hash.
func ParseHash(hexString string) (Hash, error) {
	var hash Hash
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return hash, fmt.Errorf("parsing record hash: %w", err)
	}
	if len(decoded) != Size {
		return hash, fmt.Errorf("record hash is %d bytes, want %d", len(decoded), Size)
	}
	copy(hash[:], decoded)
	return hash, nil
}
