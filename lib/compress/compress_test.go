// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	compressible := []byte(strings.Repeat("feature:featA;author:authX;", 200))

	for _, tag := range []Tag{None, LZ4, Zstd} {
		t.Run(string(tag), func(t *testing.T) {
			compressed, used, err := Compress(compressible, tag)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if used != tag {
				t.Errorf("used tag = %q, want %q", used, tag)
			}
			if tag != None && len(compressed) >= len(compressible) {
				t.Errorf("compressed %d bytes to %d", len(compressible), len(compressed))
			}

			restored, err := Decompress(compressed, used, len(compressible))
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(restored, compressible) {
				t.Error("round trip changed the data")
			}
		})
	}
}

func TestIncompressibleFallsBackToNone(t *testing.T) {
	random := make([]byte, 4096)
	if _, err := rand.Read(random); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}

	for _, tag := range []Tag{LZ4, Zstd} {
		compressed, used, err := Compress(random, tag)
		if err != nil {
			t.Fatalf("Compress(%s): %v", tag, err)
		}
		if used != None {
			t.Errorf("Compress(%s) of random data used %q, want none", tag, used)
		}
		if !bytes.Equal(compressed, random) {
			t.Errorf("Compress(%s) fallback altered the data", tag)
		}
	}
}

func TestEmptyBody(t *testing.T) {
	for _, tag := range []Tag{None, LZ4, Zstd} {
		compressed, used, err := Compress(nil, tag)
		if err != nil {
			t.Fatalf("Compress(%s, nil): %v", tag, err)
		}
		restored, err := Decompress(compressed, used, 0)
		if err != nil {
			t.Fatalf("Decompress(%s): %v", used, err)
		}
		if len(restored) != 0 {
			t.Errorf("restored %d bytes from empty body", len(restored))
		}
	}
}

func TestDecompressSizeMismatch(t *testing.T) {
	data := []byte(strings.Repeat("abc", 100))
	for _, tag := range []Tag{None, LZ4, Zstd} {
		compressed, used, err := Compress(data, tag)
		if err != nil {
			t.Fatalf("Compress: %v", err)
		}
		if _, err := Decompress(compressed, used, len(data)+1); err == nil {
			t.Errorf("Decompress(%s) with wrong size succeeded", used)
		}
	}
}

func TestDecompressRejectsImpossibleSize(t *testing.T) {
	data := []byte(strings.Repeat("abc", 100))
	for _, tag := range []Tag{LZ4, Zstd} {
		compressed, used, err := Compress(data, tag)
		if err != nil {
			t.Fatalf("Compress: %v", err)
		}
		for _, size := range []int{-1, MaxDecodedSize, MaxDecodedSize + 1} {
			if _, err := Decompress(compressed, used, size); err == nil {
				t.Errorf("Decompress(%s, %d bytes) from %d compressed bytes succeeded", used, size, len(compressed))
			}
		}
	}
}

func TestParseTag(t *testing.T) {
	for input, want := range map[string]Tag{"": None, "none": None, "lz4": LZ4, "zstd": Zstd} {
		got, err := ParseTag(input)
		if err != nil || got != want {
			t.Errorf("ParseTag(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
	if _, err := ParseTag("gzip"); err == nil {
		t.Error("ParseTag(gzip) succeeded")
	}
	if _, _, err := Compress([]byte("x"), Tag("gzip")); err == nil {
		t.Error("Compress with unknown tag succeeded")
	}
}
