// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Algorithm names a digest function. The string value is what appears
// in configuration files and CBOR envelopes.
type Algorithm string

const (
	// BLAKE3 is keyed BLAKE3 under the record body domain key.
	BLAKE3 Algorithm = "blake3"

	// BLAKE2b256 is BLAKE2b with a 32-byte digest.
	BLAKE2b256 Algorithm = "blake2b-256"

	// SHA256 is SHA-256.
	SHA256 Algorithm = "sha256"
)

// Default is the algorithm used when none is configured.
const Default = BLAKE3

// ErrFinalized is returned by Update or Finalize on an Accumulator
// that has already been finalized.
var ErrFinalized = errors.New("digest already finalized")

// bodyDomainKey is the BLAKE3 key for record bodies: the ASCII domain
// name zero-padded to 32 bytes. Changing it changes every BLAKE3 key.
var bodyDomainKey = [32]byte{
	'b', 'u', 'r', 'e', 'a', 'u', '.', 'r', 'e', 'c', 'o', 'r', 'd', '.',
	'b', 'o', 'd', 'y',
}

// Algorithms returns every supported algorithm, default first.
func Algorithms() []Algorithm {
	return []Algorithm{BLAKE3, BLAKE2b256, SHA256}
}

// ParseAlgorithm validates an algorithm name. The empty string maps to
// Default.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case "":
		return Default, nil
	case BLAKE3, BLAKE2b256, SHA256:
		return Algorithm(name), nil
	default:
		return "", fmt.Errorf("unknown digest algorithm %q (want one of %v)", name, Algorithms())
	}
}

func (a Algorithm) newHasher() (hash.Hash, error) {
	switch a {
	case BLAKE3:
		hasher, err := blake3.NewKeyed(bodyDomainKey[:])
		if err != nil {
			return nil, fmt.Errorf("initializing keyed blake3: %w", err)
		}
		return hasher, nil
	case BLAKE2b256:
		hasher, err := blake2b.New256(nil)
		if err != nil {
			return nil, fmt.Errorf("initializing blake2b: %w", err)
		}
		return hasher, nil
	case SHA256:
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("unknown digest algorithm %q", string(a))
	}
}

// Accumulator feeds bytes into a running digest and finalizes it once.
//
// An Accumulator is not safe for concurrent use; its owner serializes
// calls.
type Accumulator struct {
	algorithm Algorithm
	hasher    hash.Hash
	length    int64
	finalized bool
}

// New returns an empty Accumulator for the given algorithm.
func New(algorithm Algorithm) (*Accumulator, error) {
	hasher, err := algorithm.newHasher()
	if err != nil {
		return nil, err
	}
	return &Accumulator{algorithm: algorithm, hasher: hasher}, nil
}

// Update feeds p into the digest. Returns ErrFinalized after Finalize.
func (a *Accumulator) Update(p []byte) error {
	if a.finalized {
		return ErrFinalized
	}
	// hash.Hash.Write never returns an error.
	a.hasher.Write(p)
	a.length += int64(len(p))
	return nil
}

// Write implements io.Writer on top of Update, so an Accumulator can
// be the target of io.Copy.
func (a *Accumulator) Write(p []byte) (int, error) {
	if err := a.Update(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Finalize returns the digest of every byte fed so far. It may be
// called once; later calls return ErrFinalized.
func (a *Accumulator) Finalize() (Hash, error) {
	if a.finalized {
		return Hash{}, ErrFinalized
	}
	a.finalized = true

	var result Hash
	copy(result[:], a.hasher.Sum(nil))
	return result, nil
}

// Algorithm returns the accumulator's digest algorithm.
func (a *Accumulator) Algorithm() Algorithm { return a.algorithm }

// Len returns the number of bytes fed so far.
func (a *Accumulator) Len() int64 { return a.length }

// Finalized reports whether Finalize has been called.
func (a *Accumulator) Finalized() bool { return a.finalized }

// Sum computes the digest of data in one call.
func Sum(algorithm Algorithm, data []byte) (Hash, error) {
	accumulator, err := New(algorithm)
	if err != nil {
		return Hash{}, err
	}
	if err := accumulator.Update(data); err != nil {
		return Hash{}, err
	}
	return accumulator.Finalize()
}
