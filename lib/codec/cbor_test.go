// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type sample struct {
	Name  string `cbor:"name"`
	Count int64  `cbor:"count"`
	Data  []byte `cbor:"data,omitempty"`
}

type hexID [1]byte

func (h hexID) MarshalText() ([]byte, error) {
	return []byte{"0123456789abcdef"[h[0]>>4], "0123456789abcdef"[h[0]&0xf]}, nil
}

func (h *hexID) UnmarshalText(text []byte) error {
	if len(text) != 2 {
		return errors.New("bad hexID")
	}
	h[0] = fromHex(text[0])<<4 | fromHex(text[1])
	return nil
}

func fromHex(c byte) byte {
	if c >= 'a' {
		return c - 'a' + 10
	}
	return c - '0'
}

func TestMarshalDeterministic(t *testing.T) {
	value := sample{Name: "feature", Count: 5, Data: []byte("hello")}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two encodings of the same value differ")
	}

	var decoded sample
	if err := Unmarshal(first, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Name != value.Name || decoded.Count != value.Count || !bytes.Equal(decoded.Data, value.Data) {
		t.Errorf("decoded = %+v, want %+v", decoded, value)
	}
}

func TestTextMarshalerEncodesAsString(t *testing.T) {
	encoded, err := Marshal(hexID{0xab})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// Major type 3 (text string) of length 2, then "ab".
	want := []byte{0x62, 'a', 'b'}
	if !bytes.Equal(encoded, want) {
		t.Errorf("encoded = %x, want %x", encoded, want)
	}

	var decoded hexID
	if err := Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded[0] != 0xab {
		t.Errorf("decoded = %x, want ab", decoded[0])
	}
}

func TestDecoderReadsSequence(t *testing.T) {
	var sequence bytes.Buffer
	for index := range 3 {
		item, err := Marshal(sample{Name: "item", Count: int64(index)})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		sequence.Write(item)
	}

	decoder := NewDecoder(&sequence)
	for index := range 3 {
		var item sample
		if err := decoder.Decode(&item); err != nil {
			t.Fatalf("Decode item %d: %v", index, err)
		}
		if item.Count != int64(index) {
			t.Errorf("item %d count = %d", index, item.Count)
		}
	}

	var extra sample
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		t.Errorf("Decode past end = %v, want io.EOF", err)
	}
}

func TestUnmarshalRejectsTrailingBytes(t *testing.T) {
	item, err := Marshal(sample{Name: "x"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded sample
	if err := Unmarshal(append(item, 0x00), &decoded); err == nil {
		t.Error("Unmarshal accepted trailing bytes")
	}
}
