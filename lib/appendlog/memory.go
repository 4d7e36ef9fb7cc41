// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package appendlog

import (
	"bytes"
	"sync"
)

// Memory is an in-process append-only log. It is an Opener; every
// handle it returns appends to the same buffer.
type Memory struct {
	mu      sync.Mutex
	buffer  bytes.Buffer
	records int
	open    int
	opened  int

	// FailAppend, when non-nil, is consulted before each append. A
	// non-nil result is returned from Append and nothing is written.
	FailAppend func(record []byte) error

	// FailOpen, when non-nil, is returned from Open.
	FailOpen error
}

// NewMemory returns an empty in-memory log.
func NewMemory() *Memory {
	return &Memory{}
}

// Open returns a new handle to the log.
func (m *Memory) Open() (Sink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailOpen != nil {
		return nil, m.FailOpen
	}
	m.open++
	m.opened++
	return &memorySink{log: m}, nil
}

// Bytes returns a copy of everything appended so far.
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bytes.Clone(m.buffer.Bytes())
}

// Records returns the number of successful appends.
func (m *Memory) Records() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records
}

// OpenHandles returns the number of handles opened and not yet closed.
func (m *Memory) OpenHandles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Opened returns the total number of handles ever opened.
func (m *Memory) Opened() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

type memorySink struct {
	log    *Memory
	closed bool
}

func (s *memorySink) Append(record []byte) error {
	s.log.mu.Lock()
	defer s.log.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.log.FailAppend != nil {
		if err := s.log.FailAppend(record); err != nil {
			return err
		}
	}
	s.log.buffer.Write(record)
	s.log.records++
	return nil
}

func (s *memorySink) Close() error {
	s.log.mu.Lock()
	defer s.log.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.log.open--
	return nil
}
