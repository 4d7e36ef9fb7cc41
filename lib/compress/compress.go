// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Tag identifies the compression applied to a record body. The string
// form is what appears in configuration and in CBOR envelopes.
type Tag string

const (
	// None stores the body as-is.
	None Tag = "none"

	// LZ4 is LZ4 block compression.
	LZ4 Tag = "lz4"

	// Zstd is zstd at the default level.
	Zstd Tag = "zstd"
)

// MaxDecodedSize is the largest body Decompress will produce.
const MaxDecodedSize = 1 << 30

// Upper bounds on how many decoded bytes one compressed byte can
// yield. An LZ4 length byte extends a match by at most 255; a 4-byte
// zstd RLE block decodes to at most 128 KiB. Sizes beyond the bound
// are rejected before any allocation.
const (
	maxLZ4Ratio  = 255
	maxZstdRatio = 32 << 10
)

// ParseTag validates a compression name. The empty string maps to None.
func ParseTag(name string) (Tag, error) {
	switch Tag(name) {
	case "":
		return None, nil
	case None, LZ4, Zstd:
		return Tag(name), nil
	default:
		return "", fmt.Errorf("unknown compression %q (want none, lz4, or zstd)", name)
	}
}

// errIncompressible is returned by the codec helpers when the output
// is not smaller than the input.
var errIncompressible = errors.New("data is incompressible")

// Compress compresses data with the requested codec. If the codec
// cannot make data smaller, data is returned unchanged with None. The
// returned tag is the one a reader must pass to Decompress.
func Compress(data []byte, tag Tag) ([]byte, Tag, error) {
	var (
		compressed []byte
		err        error
	)
	switch tag {
	case None, "":
		return data, None, nil
	case LZ4:
		compressed, err = compressLZ4(data)
	case Zstd:
		compressed, err = compressZstd(data)
	default:
		return nil, "", fmt.Errorf("unsupported compression %q", string(tag))
	}
	if errors.Is(err, errIncompressible) {
		return data, None, nil
	}
	if err != nil {
		return nil, "", err
	}
	return compressed, tag, nil
}

// Decompress reverses Compress. size must be the exact uncompressed
// length; a mismatch is an error.
func Decompress(data []byte, tag Tag, size int) ([]byte, error) {
	if size < 0 || size > MaxDecodedSize {
		return nil, fmt.Errorf("decompressed size %d out of range [0, %d]", size, MaxDecodedSize)
	}
	switch tag {
	case None, "":
		if len(data) != size {
			return nil, fmt.Errorf("uncompressed body: size %d does not match expected %d", len(data), size)
		}
		return data, nil
	case LZ4:
		return decompressLZ4(data, size)
	case Zstd:
		return decompressZstd(data, size)
	default:
		return nil, fmt.Errorf("unsupported compression %q", string(tag))
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))

	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock returns 0 for incompressible input.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

func decompressLZ4(compressed []byte, size int) ([]byte, error) {
	if err := checkRatio(len(compressed), size, maxLZ4Ratio); err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	destination := make([]byte, size)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != size {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, size)
	}
	return destination, nil
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use through
// EncodeAll and DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("compress: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxDecodedSize))
	if err != nil {
		panic("compress: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, size int) ([]byte, error) {
	if err := checkRatio(len(compressed), size, maxZstdRatio); err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	var header zstd.Header
	if err := header.Decode(compressed); err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if header.HasFCS && header.FrameContentSize != uint64(size) {
		return nil, fmt.Errorf("zstd decompress: frame declares %d bytes, expected %d", header.FrameContentSize, size)
	}
	// The decoder sizes its output from the frame header, which now
	// agrees with size, or grows it as blocks are decoded.
	result, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(result) != size {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), size)
	}
	return result, nil
}

// checkRatio rejects a claimed decoded size that compressedLength
// bytes cannot possibly produce.
func checkRatio(compressedLength, size, ratio int) error {
	if int64(size) > int64(compressedLength)*int64(ratio) {
		return fmt.Errorf("%d compressed bytes cannot decode to %d bytes", compressedLength, size)
	}
	return nil
}
