// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/recordlog/lib/protect"
	"github.com/bureau-foundation/recordlog/lib/record"
	"github.com/bureau-foundation/recordlog/lib/secret"
)

// openLog opens the log for reading.
func openLog(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	return file, nil
}

// readEntries calls visit for every record in r. When identity is
// non-nil the log is treated as protected and each line is decrypted
// before parsing.
func readEntries(r io.Reader, format record.Format, identity *secret.Buffer, visit func(record.Entry) error) error {
	if identity == nil {
		scanner := record.NewScanner(r, format)
		for scanner.Scan() {
			if err := visit(scanner.Entry()); err != nil {
				return err
			}
		}
		return scanner.Err()
	}

	return protect.OpenLog(r, identity, func(rendered []byte) error {
		entry, err := record.Parse(rendered, format)
		if err != nil {
			return err
		}
		return visit(entry)
	})
}
