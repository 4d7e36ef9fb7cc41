// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"bytes"
	"fmt"

	"github.com/bureau-foundation/recordlog/lib/digest"
)

// State is a record's position in its lifecycle.
type State int

const (
	// Initializing: feature assigned, author not yet assigned. Only a
	// Pending is ever in this state.
	Initializing State = iota

	// Open: author assigned; body appends permitted.
	Open

	// Sealed: key computed; the record is immutable and renderable.
	Sealed

	// Abandoned: discarded without sealing. Terminal.
	Abandoned
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Open:
		return "open"
	case Sealed:
		return "sealed"
	case Abandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option configures New.
type Option func(*options)

type options struct {
	algorithm digest.Algorithm
	stamper   *Stamper
}

// WithAlgorithm selects the digest algorithm for the record key.
func WithAlgorithm(algorithm digest.Algorithm) Option {
	return func(o *options) { o.algorithm = algorithm }
}

// WithStamper supplies the source of creation times. Builders sharing
// a Stamper get strictly increasing creation times.
func WithStamper(stamper *Stamper) Option {
	return func(o *options) { o.stamper = stamper }
}

// Pending is a record whose feature is set but whose author is not.
// Its only transition is Author, which may succeed once.
type Pending struct {
	meta        Metadata
	accumulator *digest.Accumulator
	claimed     bool
}

// New starts a record with the given feature. The creation time is
// taken now, from the configured Stamper.
func New(feature Tag, opts ...Option) (*Pending, error) {
	o := options{algorithm: digest.Default, stamper: defaultStamper}
	for _, opt := range opts {
		opt(&o)
	}

	if err := feature.Validate(); err != nil {
		return nil, fmt.Errorf("feature: %w", err)
	}

	accumulator, err := digest.New(o.algorithm)
	if err != nil {
		return nil, err
	}

	return &Pending{
		meta: Metadata{
			Algorithm: o.algorithm,
			Feature:   feature,
			CreatedAt: o.stamper.Stamp(),
		},
		accumulator: accumulator,
	}, nil
}

// Metadata returns a copy of the pending record's metadata.
func (p *Pending) Metadata() Metadata { return p.meta }

// Author assigns the record's author and returns the open Builder. An
// invalid author leaves p untouched; a second successful-looking call
// fails with ErrInvalidState because the Builder already owns the
// record.
func (p *Pending) Author(author Tag) (*Builder, error) {
	if p.claimed {
		return nil, fmt.Errorf("%w: author already assigned", ErrInvalidState)
	}
	if err := author.Validate(); err != nil {
		return nil, fmt.Errorf("author: %w", err)
	}

	p.claimed = true
	meta := p.meta
	meta.Author = author
	builder := &Builder{
		meta:        meta,
		accumulator: p.accumulator,
		state:       Open,
	}
	p.accumulator = nil
	return builder, nil
}

// Builder accumulates the body of an open record and seals it.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	meta        Metadata
	body        []byte
	accumulator *digest.Accumulator
	state       State
}

// require returns nil if the builder is in want, or the error naming
// why the current state forbids the operation.
func (b *Builder) require(want State) error {
	if b.state == want {
		return nil
	}
	switch b.state {
	case Sealed:
		return ErrAlreadySealed
	case Abandoned:
		return ErrAbandoned
	case Open:
		if want == Sealed {
			return ErrNotSealed
		}
	}
	return fmt.Errorf("%w: %s, want %s", ErrInvalidState, b.state, want)
}

// State returns the builder's current lifecycle state.
func (b *Builder) State() State { return b.state }

// Append adds content to the end of the body and to the digest, and
// grows Size by len(content). Empty content is a no-op append.
func (b *Builder) Append(content []byte) error {
	if err := b.require(Open); err != nil {
		return err
	}
	if err := b.accumulator.Update(content); err != nil {
		return err
	}
	b.body = append(b.body, content...)
	b.meta.Size += int64(len(content))
	return nil
}

// Write implements io.Writer on top of Append.
func (b *Builder) Write(p []byte) (int, error) {
	if err := b.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Seal finalizes the digest, sets the key, and makes the record
// immutable. A second Seal fails with ErrAlreadySealed and leaves the
// key and size as they were.
func (b *Builder) Seal() (digest.Hash, error) {
	if err := b.require(Open); err != nil {
		return digest.Hash{}, err
	}
	key, err := b.accumulator.Finalize()
	if err != nil {
		return digest.Hash{}, err
	}
	b.meta.Key = key
	b.state = Sealed
	return key, nil
}

// Abandon discards an open record. Afterwards every operation fails
// with ErrAbandoned. Abandon reports whether it changed the state;
// abandoning a sealed or already abandoned builder does nothing.
func (b *Builder) Abandon() bool {
	if b.state != Open {
		return false
	}
	b.state = Abandoned
	b.body = nil
	return true
}

// Key returns the record key, or ErrNotSealed before Seal.
func (b *Builder) Key() (digest.Hash, error) {
	if err := b.require(Sealed); err != nil {
		return digest.Hash{}, err
	}
	return b.meta.Key, nil
}

// Metadata returns a copy of the current metadata. Key is zero until
// the record is sealed.
func (b *Builder) Metadata() Metadata { return b.meta }

// Body returns a copy of the body appended so far.
func (b *Builder) Body() []byte { return bytes.Clone(b.body) }

// Render serializes a sealed record in the given encoding. It fails
// with ErrNotSealed on an open builder.
func (b *Builder) Render(encoding Encoding) ([]byte, error) {
	if err := b.require(Sealed); err != nil {
		return nil, err
	}
	return encoding.render(b.meta, b.body)
}
