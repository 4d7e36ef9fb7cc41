// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package appendlog provides the append-only destinations that rendered
// records are written to.
//
// A [Sink] accepts whole rendered records and never rewrites, reorders,
// or removes anything it has accepted. Each Append is atomic with
// respect to other appends to the same destination: either the whole
// record lands contiguously at the end of the log or nothing does.
//
// An [Opener] hands out sink handles. The write path opens a handle per
// record session and closes it on every exit path, so handles must be
// cheap to open and safe to hold concurrently.
//
// [File] appends to a file on disk. The file is opened with O_APPEND,
// and each record is written with a single write call while holding an
// exclusive flock, so concurrent processes writing the same log never
// interleave records. If a write fails partway, the file is truncated
// back to its length before the write. [Memory] appends to an
// in-process buffer and counts open handles, which is what tests use
// to check that handles are released.
package appendlog
