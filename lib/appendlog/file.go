// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

package appendlog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// DefaultFileMode is the permission used when File creates the log.
const DefaultFileMode fs.FileMode = 0o644

// FileOption configures NewFile.
type FileOption func(*File)

// WithFileMode sets the permission bits used when the log file is
// created. Existing files keep their mode.
func WithFileMode(mode fs.FileMode) FileOption {
	return func(f *File) { f.mode = mode }
}

// WithSync makes every append fsync the file before returning.
func WithSync(sync bool) FileOption {
	return func(f *File) { f.sync = sync }
}

// File is an Opener for an append-only log file. Every Open returns an
// independent file descriptor; appends through any of them, from any
// process, are serialized by an exclusive flock on the file.
type File struct {
	path string
	mode fs.FileMode
	sync bool
}

// NewFile returns a File opener for path. The file and its parent
// directory are created on first Open if they do not exist.
func NewFile(path string, options ...FileOption) *File {
	file := &File{path: path, mode: DefaultFileMode}
	for _, option := range options {
		option(file)
	}
	return file
}

// Path returns the log file path.
func (f *File) Path() string { return f.path }

// Open opens a new handle to the log file.
func (f *File) Open() (Sink, error) {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	handle, err := os.OpenFile(f.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, f.mode)
	if err != nil {
		return nil, fmt.Errorf("opening log %s: %w", f.path, err)
	}
	return &fileSink{
		file:     handle,
		path:     f.path,
		sync:     f.sync,
		write:    handle.Write,
		truncate: handle.Truncate,
	}, nil
}

type fileSink struct {
	mu     sync.Mutex
	file   *os.File
	path   string
	sync   bool
	closed bool

	// write and truncate are the file's own methods; tests replace
	// them to force failures partway through an append.
	write    func([]byte) (int, error)
	truncate func(int64) error
}

// Append writes record with a single write. If any step fails after
// the write starts, the file is truncated back to its previous length
// so no partial record remains; a failed rollback is joined into the
// returned error.
func (s *fileSink) Append(record []byte) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if len(record) == 0 {
		return nil
	}

	descriptor := int(s.file.Fd())
	if err := unix.Flock(descriptor, unix.LOCK_EX); err != nil {
		return fmt.Errorf("locking log %s: %w", s.path, err)
	}
	defer unix.Flock(descriptor, unix.LOCK_UN)

	// With the lock held no other writer can extend the file, so the
	// current size is where this record begins.
	info, err := s.file.Stat()
	if err != nil {
		return fmt.Errorf("stat log %s: %w", s.path, err)
	}
	start := info.Size()

	defer func() {
		if err == nil {
			return
		}
		if truncateErr := s.truncate(start); truncateErr != nil {
			err = errors.Join(err, fmt.Errorf("rolling back log %s to %d bytes: %w", s.path, start, truncateErr))
		}
	}()

	written, err := s.write(record)
	if err != nil {
		return fmt.Errorf("appending to log %s: %w", s.path, err)
	}
	if written != len(record) {
		return fmt.Errorf("appending to log %s: %w", s.path, io.ErrShortWrite)
	}
	if s.sync {
		if err := s.file.Sync(); err != nil {
			return fmt.Errorf("syncing log %s: %w", s.path, err)
		}
	}

	return nil
}

func (s *fileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("closing log %s: %w", s.path, err)
	}
	return nil
}
