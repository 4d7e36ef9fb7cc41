// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package writer

import (
	"github.com/bureau-foundation/recordlog/lib/appendlog"
	"github.com/bureau-foundation/recordlog/lib/digest"
	"github.com/bureau-foundation/recordlog/lib/record"
)

// Session is one streaming write. It exclusively owns a record builder
// and a sink handle, and releases the handle when it seals, fails, or
// is closed. A Session is not safe for concurrent use.
type Session struct {
	writer  *Writer
	builder *record.Builder
	sink    appendlog.Sink
}

// Append adds content to the record body. After a failed Append the
// session is finished and its sink handle released.
func (s *Session) Append(content []byte) error {
	if err := s.builder.Append(content); err != nil {
		s.abandon()
		return err
	}
	return nil
}

// Write implements io.Writer on top of Append.
func (s *Session) Write(p []byte) (int, error) {
	if err := s.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Seal seals the record, appends it to the sink, and returns the key.
// The sink handle is released whatever the outcome. A second Seal
// fails with record.ErrAlreadySealed.
func (s *Session) Seal() (digest.Hash, error) {
	key, err := s.builder.Seal()
	if err != nil {
		s.abandon()
		return digest.Hash{}, err
	}
	defer s.releaseSink()

	data, err := s.writer.finish(s.builder)
	if err != nil {
		return key, err
	}
	if err := s.sink.Append(data); err != nil {
		return key, s.writer.sinkFailure(key, data, err)
	}
	s.writer.written(s.builder.Metadata())
	return key, nil
}

// Close ends the session. An unsealed record is abandoned and a warning
// logged; nothing reaches the sink. Close after Seal only makes sure
// the handle is released. Close is idempotent.
func (s *Session) Close() error {
	s.abandon()
	return nil
}

// State returns the lifecycle state of the session's record.
func (s *Session) State() record.State { return s.builder.State() }

// Metadata returns a copy of the record's metadata.
func (s *Session) Metadata() record.Metadata { return s.builder.Metadata() }

func (s *Session) abandon() {
	meta := s.builder.Metadata()
	if s.builder.Abandon() {
		s.writer.logger.Warn("record session abandoned",
			"feature", meta.Feature.String(),
			"author", meta.Author.String(),
			"size", meta.Size,
		)
	}
	s.releaseSink()
}

func (s *Session) releaseSink() {
	if s.sink == nil {
		return
	}
	s.writer.release(s.sink)
	s.sink = nil
}
