// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package writer

import (
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/recordlog/lib/appendlog"
	"github.com/bureau-foundation/recordlog/lib/clock"
	"github.com/bureau-foundation/recordlog/lib/digest"
	"github.com/bureau-foundation/recordlog/lib/protect"
	"github.com/bureau-foundation/recordlog/lib/record"
)

// Option configures a Writer.
type Option func(*Writer)

// WithEncoding selects the rendered format. The default is
// record.TextEncoding.
func WithEncoding(encoding record.Encoding) Option {
	return func(w *Writer) { w.encoding = encoding }
}

// WithAlgorithm selects the digest algorithm for record keys. The
// default is digest.Default.
func WithAlgorithm(algorithm digest.Algorithm) Option {
	return func(w *Writer) { w.algorithm = algorithm }
}

// WithClock reads creation times from c through a Stamper private to
// this Writer.
func WithClock(c clock.Clock) Option {
	return func(w *Writer) { w.stamper = record.NewStamper(c) }
}

// WithStamper shares a Stamper with other writers, so records from all
// of them get distinct creation times.
func WithStamper(stamper *record.Stamper) Option {
	return func(w *Writer) { w.stamper = stamper }
}

// WithProtector transforms every rendered record before it is
// appended. Nil disables protection.
func WithProtector(protector protect.Protector) Option {
	return func(w *Writer) { w.protector = protector }
}

// WithLogger sets the logger for write and failure events. Nil keeps
// the default, which discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Writer persists records to an append-only log. It holds no per-record
// state and is safe for concurrent use.
type Writer struct {
	opener    appendlog.Opener
	encoding  record.Encoding
	algorithm digest.Algorithm
	stamper   *record.Stamper
	protector protect.Protector
	logger    *slog.Logger
}

// New returns a Writer appending to the logs opened by opener.
func New(opener appendlog.Opener, options ...Option) (*Writer, error) {
	if opener == nil {
		return nil, fmt.Errorf("writer: opener is required")
	}
	w := &Writer{
		opener:    opener,
		encoding:  record.TextEncoding,
		algorithm: digest.Default,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(w)
	}

	if err := w.encoding.Validate(); err != nil {
		return nil, fmt.Errorf("writer: %w", err)
	}
	if _, err := digest.ParseAlgorithm(string(w.algorithm)); err != nil {
		return nil, fmt.Errorf("writer: %w", err)
	}
	return w, nil
}

// Encoding returns the rendered format used by w.
func (w *Writer) Encoding() record.Encoding { return w.encoding }

// begin constructs a record and assigns its author.
func (w *Writer) begin(feature, author record.Tag) (*record.Builder, error) {
	options := []record.Option{record.WithAlgorithm(w.algorithm)}
	if w.stamper != nil {
		options = append(options, record.WithStamper(w.stamper))
	}
	pending, err := record.New(feature, options...)
	if err != nil {
		return nil, err
	}
	return pending.Author(author)
}

// finish renders a sealed record and applies the protector, producing
// the exact bytes that go to the sink.
func (w *Writer) finish(builder *record.Builder) ([]byte, error) {
	rendered, err := builder.Render(w.encoding)
	if err != nil {
		return nil, err
	}
	if w.protector == nil {
		return rendered, nil
	}
	protected, err := w.protector.Protect(rendered)
	if err != nil {
		return nil, fmt.Errorf("protecting record: %w", err)
	}
	return protected, nil
}

// Write persists a record whose body is content and returns its key.
// If the sink fails, the key is still returned alongside a *SinkError.
func (w *Writer) Write(feature, author record.Tag, content []byte) (digest.Hash, error) {
	builder, err := w.begin(feature, author)
	if err != nil {
		return digest.Hash{}, err
	}
	if err := builder.Append(content); err != nil {
		return digest.Hash{}, err
	}
	key, err := builder.Seal()
	if err != nil {
		return digest.Hash{}, err
	}
	data, err := w.finish(builder)
	if err != nil {
		return key, err
	}

	sink, err := w.opener.Open()
	if err != nil {
		return key, w.sinkFailure(key, data, err)
	}
	defer w.release(sink)

	if err := sink.Append(data); err != nil {
		return key, w.sinkFailure(key, data, err)
	}
	w.written(builder.Metadata())
	return key, nil
}

// Stream opens a sink handle and starts a record session. The caller
// must Seal or Close the session.
func (w *Writer) Stream(feature, author record.Tag) (*Session, error) {
	builder, err := w.begin(feature, author)
	if err != nil {
		return nil, err
	}
	sink, err := w.opener.Open()
	if err != nil {
		builder.Abandon()
		return nil, fmt.Errorf("opening sink: %w", err)
	}
	return &Session{writer: w, builder: builder, sink: sink}, nil
}

// Resubmit appends the rendered bytes of a failed write through a new
// sink handle. It returns a fresh *SinkError if the sink fails again.
func (w *Writer) Resubmit(failure *SinkError) error {
	if failure == nil || len(failure.Record) == 0 {
		return fmt.Errorf("writer: nothing to resubmit")
	}
	sink, err := w.opener.Open()
	if err != nil {
		return w.sinkFailure(failure.Key, failure.Record, err)
	}
	defer w.release(sink)

	if err := sink.Append(failure.Record); err != nil {
		return w.sinkFailure(failure.Key, failure.Record, err)
	}
	w.logger.Info("record resubmitted", "key", failure.Key.String())
	return nil
}

func (w *Writer) sinkFailure(key digest.Hash, data []byte, err error) error {
	w.logger.Error("record append failed",
		"key", key.String(),
		"error", err,
	)
	return &SinkError{Key: key, Record: data, Err: err}
}

// release closes a sink handle. The record is already durable or
// already reported as failed, so a close error is logged rather than
// returned.
func (w *Writer) release(sink appendlog.Sink) {
	if err := sink.Close(); err != nil {
		w.logger.Warn("closing sink failed", "error", err)
	}
}

func (w *Writer) written(meta record.Metadata) {
	w.logger.Debug("record written",
		"key", meta.Key.String(),
		"feature", meta.Feature.String(),
		"author", meta.Author.String(),
		"size", meta.Size,
		"format", string(w.encoding.Format),
	)
}

// WriteOnce writes a single record to the log opened by opener.
func WriteOnce(opener appendlog.Opener, feature, author record.Tag, content []byte, options ...Option) (digest.Hash, error) {
	w, err := New(opener, options...)
	if err != nil {
		return digest.Hash{}, err
	}
	return w.Write(feature, author, content)
}

// WriteStream starts a streaming session against the log opened by
// opener.
func WriteStream(opener appendlog.Opener, feature, author record.Tag, options ...Option) (*Session, error) {
	w, err := New(opener, options...)
	if err != nil {
		return nil, err
	}
	return w.Stream(feature, author)
}
