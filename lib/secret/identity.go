// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

package secret

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// maxIdentitySize bounds identity file reads. An age X25519 identity
// line is 74 bytes; files with a handful of identities and comments
// stay far below this.
const maxIdentitySize = 64 << 10

// ReadIdentity reads an age identity file from path, or from stdin when
// path is "-". Blank lines and lines starting with '#' are dropped; the
// remaining lines are returned newline-separated in a Buffer. All heap
// copies of the file are zeroed before returning.
func ReadIdentity(path string) (*Buffer, error) {
	var source io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		source = file
	}

	data, err := io.ReadAll(io.LimitReader(source, maxIdentitySize+1))
	defer Zero(data)
	if err != nil {
		return nil, fmt.Errorf("reading identity %s: %w", path, err)
	}
	if len(data) > maxIdentitySize {
		return nil, fmt.Errorf("identity %s exceeds %d bytes", path, maxIdentitySize)
	}

	kept := make([]byte, 0, len(data))
	for line := range bytes.Lines(data) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if len(kept) > 0 {
			kept = append(kept, '\n')
		}
		kept = append(kept, line...)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("identity %s contains no keys", path)
	}
	return NewFromBytes(kept)
}
