// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for testability.
//
// Production code accepts a [Clock] instead of calling time.Now
// directly. [Real] provides the standard library behavior; [Fake]
// returns a clock that stands still until the test moves it with
// [FakeClock.Advance] or [FakeClock.Set].
//
// # Wiring Pattern
//
// Add a Clock field to structs that read time:
//
//	type Writer struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In production:
//
//	w := &Writer{clock: clock.Real()}
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	w := &Writer{clock: c}
//	c.Advance(time.Second)
package clock
