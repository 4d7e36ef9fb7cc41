// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/bureau-foundation/recordlog/lib/codec"
	"github.com/bureau-foundation/recordlog/lib/digest"
)

// MaxBodySize is the largest body a Scanner will accept.
const MaxBodySize = 1 << 30

// Entry is a record read back from a log.
type Entry struct {
	Metadata Metadata
	Body     []byte
}

// Verify recomputes the digest of the body and compares it with the
// recorded key. The entry's own algorithm is used when it carries one
// (CBOR); otherwise fallback applies (text).
func (e Entry) Verify(fallback digest.Algorithm) error {
	algorithm := e.Metadata.Algorithm
	if algorithm == "" {
		algorithm = fallback
	}
	if int64(len(e.Body)) != e.Metadata.Size {
		return fmt.Errorf("%w: body is %d bytes, size field says %d",
			ErrDigestMismatch, len(e.Body), e.Metadata.Size)
	}
	computed, err := digest.Sum(algorithm, e.Body)
	if err != nil {
		return err
	}
	if computed != e.Metadata.Key {
		return fmt.Errorf("%w: key %s, body hashes to %s under %s",
			ErrDigestMismatch, e.Metadata.Key, computed, algorithm)
	}
	return nil
}

// Scanner reads rendered records from a log one at a time.
//
//	scanner := record.NewScanner(file, record.FormatText)
//	for scanner.Scan() {
//	    entry := scanner.Entry()
//	    // ...
//	}
//	if err := scanner.Err(); err != nil {
//	    // ...
//	}
type Scanner struct {
	format  Format
	reader  *bufio.Reader
	decoder *codec.Decoder
	offset  int64
	entry   Entry
	err     error
}

// NewScanner returns a Scanner reading records in format from r.
func NewScanner(r io.Reader, format Format) *Scanner {
	scanner := &Scanner{format: format}
	if format == FormatCBOR {
		scanner.decoder = codec.NewDecoder(r)
	} else {
		scanner.reader = bufio.NewReader(r)
	}
	return scanner
}

// Scan advances to the next record. It returns false at the end of
// input or on the first error, which Err then reports.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}

	var (
		entry Entry
		err   error
	)
	if s.format == FormatCBOR {
		entry, err = s.scanCBOR()
	} else {
		entry, err = s.scanText()
	}
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = err
		} else {
			s.err = io.EOF
		}
		return false
	}
	s.entry = entry
	return true
}

// Entry returns the record read by the last successful Scan.
func (s *Scanner) Entry() Entry { return s.entry }

// Err returns the first error encountered, or nil if scanning stopped
// at a clean end of input.
func (s *Scanner) Err() error {
	if errors.Is(s.err, io.EOF) {
		return nil
	}
	return s.err
}

func (s *Scanner) scanCBOR() (Entry, error) {
	var item envelope
	if err := s.decoder.Decode(&item); err != nil {
		if errors.Is(err, io.EOF) {
			return Entry{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Entry{}, fmt.Errorf("%w: at byte %d", ErrTruncated, s.decoder.NumBytesRead())
		}
		return Entry{}, fmt.Errorf("%w: at byte %d: %w", ErrMalformed, s.decoder.NumBytesRead(), err)
	}
	return item.entry()
}

// textFields are the header fields of a text record, in order.
var textFields = []string{"key", "feature", "author", "create_at", "size"}

func (s *Scanner) scanText() (Entry, error) {
	start := s.offset

	if _, err := s.reader.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return Entry{}, io.EOF
		}
		return Entry{}, err
	}

	values := make(map[string]string, len(textFields))
	for _, name := range textFields {
		field, err := s.reader.ReadBytes(';')
		s.offset += int64(len(field))
		if err != nil {
			return Entry{}, s.textError(start, err)
		}
		value, ok := bytes.CutPrefix(field[:len(field)-1], []byte(name+":"))
		if !ok {
			return Entry{}, fmt.Errorf("%w: record at byte %d: expected field %q", ErrMalformed, start, name)
		}
		values[name] = string(value)
	}

	meta, err := parseTextHeader(values)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: record at byte %d: %w", ErrMalformed, start, err)
	}

	prefix := make([]byte, len("body:"))
	read, err := io.ReadFull(s.reader, prefix)
	s.offset += int64(read)
	if err != nil {
		return Entry{}, s.textError(start, err)
	}
	if string(prefix) != "body:" {
		return Entry{}, fmt.Errorf("%w: record at byte %d: expected field \"body\"", ErrMalformed, start)
	}

	// The buffer grows with the bytes actually read, not the claimed size.
	var body bytes.Buffer
	copied, err := io.CopyN(&body, s.reader, meta.Size)
	s.offset += copied
	if err != nil {
		return Entry{}, s.textError(start, err)
	}

	terminator, err := s.reader.ReadByte()
	if err != nil {
		return Entry{}, s.textError(start, err)
	}
	s.offset++
	if terminator != '\n' {
		return Entry{}, fmt.Errorf("%w: record at byte %d: body longer than size %d", ErrMalformed, start, meta.Size)
	}

	return Entry{Metadata: meta, Body: body.Bytes()}, nil
}

// textError converts a read error partway through a record into
// ErrTruncated.
func (s *Scanner) textError(start int64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: record at byte %d ends at byte %d", ErrTruncated, start, s.offset)
	}
	return err
}

func parseTextHeader(values map[string]string) (Metadata, error) {
	key, err := digest.ParseHash(values["key"])
	if err != nil {
		return Metadata{}, err
	}
	feature, err := ParseTag(values["feature"])
	if err != nil {
		return Metadata{}, fmt.Errorf("feature: %w", err)
	}
	author, err := ParseTag(values["author"])
	if err != nil {
		return Metadata{}, fmt.Errorf("author: %w", err)
	}
	timestamp, err := strconv.ParseInt(values["create_at"], 10, 64)
	if err != nil {
		return Metadata{}, fmt.Errorf("create_at: %w", err)
	}
	size, err := strconv.ParseInt(values["size"], 10, 64)
	if err != nil {
		return Metadata{}, fmt.Errorf("size: %w", err)
	}
	if size < 0 || size > MaxBodySize {
		return Metadata{}, fmt.Errorf("size %d out of range", size)
	}
	return Metadata{
		Key:       key,
		Feature:   feature,
		Author:    author,
		CreatedAt: time.Unix(0, timestamp),
		Size:      size,
	}, nil
}

// Parse parses exactly one record in format from data. Trailing bytes,
// including a second record, are ErrMalformed.
func Parse(data []byte, format Format) (Entry, error) {
	scanner := NewScanner(bytes.NewReader(data), format)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("%w: empty input", ErrMalformed)
	}
	if consumed := scanner.consumed(); consumed != int64(len(data)) {
		return Entry{}, fmt.Errorf("%w: %d trailing bytes after record", ErrMalformed, int64(len(data))-consumed)
	}
	return scanner.Entry(), nil
}

// ParseText parses exactly one text-format record from data.
func ParseText(data []byte) (Entry, error) {
	return Parse(data, FormatText)
}

// consumed reports how many input bytes the records scanned so far
// occupy.
func (s *Scanner) consumed() int64 {
	if s.format == FormatCBOR {
		return int64(s.decoder.NumBytesRead())
	}
	return s.offset
}
