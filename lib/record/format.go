// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"fmt"
	"time"

	"github.com/bureau-foundation/recordlog/lib/codec"
	"github.com/bureau-foundation/recordlog/lib/compress"
	"github.com/bureau-foundation/recordlog/lib/digest"
)

// Format names a serialization of sealed records.
type Format string

const (
	// FormatText is the single-line text rendering.
	FormatText Format = "text"

	// FormatCBOR is one deterministic CBOR data item per record.
	FormatCBOR Format = "cbor"
)

// ParseFormat validates a format name. The empty string maps to
// FormatText.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "":
		return FormatText, nil
	case FormatText, FormatCBOR:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unknown record format %q (want text or cbor)", name)
	}
}

// Encoding selects how a sealed record is rendered. The zero value is
// the text format.
type Encoding struct {
	Format Format

	// Compression applies to the body in FormatCBOR only. The text
	// format always carries the raw body.
	Compression compress.Tag
}

// TextEncoding renders records in FormatText.
var TextEncoding = Encoding{Format: FormatText}

// Validate reports whether the encoding is usable.
func (e Encoding) Validate() error {
	if _, err := ParseFormat(string(e.Format)); err != nil {
		return err
	}
	tag, err := compress.ParseTag(string(e.Compression))
	if err != nil {
		return err
	}
	if tag != compress.None && e.Format != FormatCBOR {
		return fmt.Errorf("compression %q requires the cbor record format", tag)
	}
	return nil
}

func (e Encoding) render(meta Metadata, body []byte) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	switch e.Format {
	case FormatCBOR:
		return renderCBOR(meta, body, e.Compression)
	default:
		return renderText(meta, body)
	}
}

func renderText(meta Metadata, body []byte) ([]byte, error) {
	summary, err := meta.Summary()
	if err != nil {
		return nil, err
	}
	line := make([]byte, 0, len(summary)+len("body:")+len(body)+1)
	line = append(line, summary...)
	line = append(line, "body:"...)
	line = append(line, body...)
	line = append(line, '\n')
	return line, nil
}

// envelope is the on-disk shape of a FormatCBOR record.
type envelope struct {
	Key         digest.Hash      `cbor:"key"`
	Algorithm   digest.Algorithm `cbor:"algorithm"`
	Feature     Tag              `cbor:"feature"`
	Author      Tag              `cbor:"author"`
	CreatedAt   int64            `cbor:"created_at"`
	Size        int64            `cbor:"size"`
	Compression compress.Tag     `cbor:"compression,omitempty"`
	Body        []byte           `cbor:"body"`
}

func renderCBOR(meta Metadata, body []byte, compression compress.Tag) ([]byte, error) {
	if !meta.Keyed() {
		return nil, ErrNotSealed
	}
	stored, used, err := compress.Compress(body, compression)
	if err != nil {
		return nil, fmt.Errorf("compressing record body: %w", err)
	}
	if used == compress.None {
		used = ""
	}
	if stored == nil {
		stored = []byte{}
	}

	data, err := codec.Marshal(envelope{
		Key:         meta.Key,
		Algorithm:   meta.Algorithm,
		Feature:     meta.Feature,
		Author:      meta.Author,
		CreatedAt:   meta.Timestamp(),
		Size:        meta.Size,
		Compression: used,
		Body:        stored,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding record envelope: %w", err)
	}
	return data, nil
}

// entry converts a decoded envelope back into an Entry, decompressing
// the body and checking the recorded size.
func (e envelope) entry() (Entry, error) {
	if e.Size < 0 {
		return Entry{}, fmt.Errorf("%w: negative size %d", ErrMalformed, e.Size)
	}
	if e.Size > MaxBodySize {
		return Entry{}, fmt.Errorf("%w: size %d exceeds maximum of %d", ErrMalformed, e.Size, MaxBodySize)
	}
	body, err := compress.Decompress(e.Body, e.Compression, int(e.Size))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return Entry{
		Metadata: Metadata{
			Key:       e.Key,
			Algorithm: e.Algorithm,
			Feature:   e.Feature,
			Author:    e.Author,
			CreatedAt: time.Unix(0, e.CreatedAt),
			Size:      e.Size,
		},
		Body: body,
	}, nil
}
