// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the build of the recordlog binary.
//
// [GitCommit], [GitDirty], [BuildTime], and [Version] are injected with
// -ldflags -X:
//
//	go build -ldflags "-X github.com/bureau-foundation/recordlog/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/recordlog
//
// When GitCommit is not injected, [Info] falls back to the VCS stamp
// the Go toolchain embeds in module builds.
package version
