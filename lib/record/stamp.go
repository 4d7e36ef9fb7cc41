// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"sync"
	"time"

	"github.com/bureau-foundation/recordlog/lib/clock"
)

// Stamper issues record creation times. Every time it returns is
// strictly later than the previous one, even when the underlying clock
// repeats a reading or steps backward: such readings are bumped to one
// nanosecond after the last issued time.
//
// Stamper is safe for concurrent use.
type Stamper struct {
	mu    sync.Mutex
	clock clock.Clock
	last  time.Time
}

// NewStamper returns a Stamper reading from c.
func NewStamper(c clock.Clock) *Stamper {
	return &Stamper{clock: c}
}

// Stamp returns the next creation time. The monotonic clock reading is
// stripped so the value compares and serializes as wall-clock time.
func (s *Stamper) Stamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().Round(0)
	if !now.After(s.last) {
		now = s.last.Add(time.Nanosecond)
	}
	s.last = now
	return now
}

// defaultStamper serves builders constructed without WithStamper.
var defaultStamper = NewStamper(clock.Real())
