// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/bureau-foundation/recordlog/lib/clock"
	"github.com/bureau-foundation/recordlog/lib/digest"
)

var epoch = time.Date(2026, 5, 3, 12, 0, 0, 0, time.UTC)

// openBuilder returns an open builder with a deterministic creation
// time.
func openBuilder(t *testing.T, feature, author Tag, opts ...Option) *Builder {
	t.Helper()
	opts = append([]Option{WithStamper(NewStamper(clock.Fake(epoch)))}, opts...)
	pending, err := New(feature, opts...)
	if err != nil {
		t.Fatalf("New(%q): %v", feature, err)
	}
	builder, err := pending.Author(author)
	if err != nil {
		t.Fatalf("Author(%q): %v", author, err)
	}
	return builder
}

func sealWith(t *testing.T, chunks ...string) (*Builder, digest.Hash) {
	t.Helper()
	builder := openBuilder(t, "featA", "authX")
	for _, chunk := range chunks {
		if err := builder.Append([]byte(chunk)); err != nil {
			t.Fatalf("Append(%q): %v", chunk, err)
		}
	}
	key, err := builder.Seal()
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	return builder, key
}

func TestDeterministicKeys(t *testing.T) {
	chunks := []string{"alpha", "", "beta", "gamma"}
	_, first := sealWith(t, chunks...)
	_, second := sealWith(t, chunks...)
	if first != second {
		t.Errorf("identical appends produced keys %s and %s", first, second)
	}
}

func TestKeyIgnoresAppendBoundaries(t *testing.T) {
	_, split := sealWith(t, "ab", "c")
	_, other := sealWith(t, "a", "bc")
	_, whole := sealWith(t, "abc")
	if split != whole || other != whole {
		t.Errorf("keys differ across boundaries: ab|c=%s a|bc=%s abc=%s", split, other, whole)
	}
}

func TestKeyIsDigestOfBody(t *testing.T) {
	_, key := sealWith(t, "hel", "lo")
	want, err := digest.Sum(digest.Default, []byte("hello"))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if key != want {
		t.Errorf("key = %s, want digest of %q = %s", key, "hello", want)
	}
}

func TestDifferentContentDifferentKeys(t *testing.T) {
	_, hello := sealWith(t, "hello")
	_, world := sealWith(t, "world")
	if hello == world {
		t.Error("different bodies produced the same key")
	}
}

func TestAlgorithmOption(t *testing.T) {
	builder := openBuilder(t, "featA", "authX", WithAlgorithm(digest.SHA256))
	if err := builder.Append([]byte("hello")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	key, err := builder.Seal()
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	const want = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if key.String() != want {
		t.Errorf("sha256 key = %s, want %s", key, want)
	}
	if builder.Metadata().Algorithm != digest.SHA256 {
		t.Errorf("Algorithm = %q, want sha256", builder.Metadata().Algorithm)
	}

	if _, err := New("featA", WithAlgorithm("md5")); err == nil {
		t.Error("New with unknown algorithm succeeded")
	}
}

func TestSizeAccounting(t *testing.T) {
	builder := openBuilder(t, "featA", "authX")
	for _, chunk := range []string{"abc", "", "defgh"} {
		if err := builder.Append([]byte(chunk)); err != nil {
			t.Fatalf("Append(%q): %v", chunk, err)
		}
	}
	if size := builder.Metadata().Size; size != 8 {
		t.Errorf("Size = %d, want 8", size)
	}
	if !bytes.Equal(builder.Body(), []byte("abcdefgh")) {
		t.Errorf("Body = %q, want %q", builder.Body(), "abcdefgh")
	}
}

func TestWriteImplementsAppend(t *testing.T) {
	builder := openBuilder(t, "featA", "authX")
	written, err := builder.Write([]byte("hello"))
	if err != nil || written != 5 {
		t.Fatalf("Write = %d, %v; want 5, nil", written, err)
	}
	key, err := builder.Seal()
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if written, err := builder.Write([]byte("x")); !errors.Is(err, ErrAlreadySealed) || written != 0 {
		t.Errorf("Write after Seal = %d, %v; want 0, ErrAlreadySealed", written, err)
	}
	_, want := sealWith(t, "hello")
	if key != want {
		t.Errorf("Write key = %s, want %s", key, want)
	}
}

func TestSealTwice(t *testing.T) {
	builder, key := sealWith(t, "hello")
	before := builder.Metadata()

	_, err := builder.Seal()
	if !errors.Is(err, ErrAlreadySealed) {
		t.Fatalf("second Seal error = %v, want ErrAlreadySealed", err)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Seal error %v does not match ErrInvalidState", err)
	}

	after := builder.Metadata()
	if after.Key != key || after.Size != before.Size {
		t.Errorf("second Seal changed metadata: key %s->%s size %d->%d", key, after.Key, before.Size, after.Size)
	}
	if builder.State() != Sealed {
		t.Errorf("State = %s, want sealed", builder.State())
	}
}

func TestAppendAfterSeal(t *testing.T) {
	builder, _ := sealWith(t, "hello")
	err := builder.Append([]byte("more"))
	if !errors.Is(err, ErrAlreadySealed) || !errors.Is(err, ErrInvalidState) {
		t.Errorf("Append after Seal = %v, want ErrAlreadySealed", err)
	}
	if builder.Metadata().Size != 5 || !bytes.Equal(builder.Body(), []byte("hello")) {
		t.Error("rejected Append changed the record")
	}
}

func TestRenderBeforeSeal(t *testing.T) {
	builder := openBuilder(t, "featA", "authX")
	if err := builder.Append([]byte("hello")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	for _, encoding := range []Encoding{TextEncoding, {Format: FormatCBOR}} {
		_, err := builder.Render(encoding)
		if !errors.Is(err, ErrNotSealed) || !errors.Is(err, ErrInvalidState) {
			t.Errorf("Render(%s) before Seal = %v, want ErrNotSealed", encoding.Format, err)
		}
	}
	if _, err := builder.Key(); !errors.Is(err, ErrNotSealed) {
		t.Errorf("Key before Seal = %v, want ErrNotSealed", err)
	}
	if _, err := builder.Metadata().Summary(); !errors.Is(err, ErrNotSealed) {
		t.Errorf("Summary before Seal = %v, want ErrNotSealed", err)
	}
	if builder.Metadata().Keyed() {
		t.Error("metadata keyed before Seal")
	}
}

func TestAuthorOnlyOnce(t *testing.T) {
	pending, err := New("featA", WithStamper(NewStamper(clock.Fake(epoch))))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	builder, err := pending.Author("authX")
	if err != nil {
		t.Fatalf("Author: %v", err)
	}

	if _, err := pending.Author("someoneElse"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Author = %v, want ErrInvalidState", err)
	}
	if builder.Metadata().Author != "authX" {
		t.Errorf("Author = %q, want authX", builder.Metadata().Author)
	}
	if builder.State() != Open {
		t.Errorf("State = %s, want open", builder.State())
	}
}

func TestInvalidAuthorLeavesPendingUsable(t *testing.T) {
	pending, err := New("featA")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := pending.Author("bad;author"); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("Author(bad;author) = %v, want ErrInvalidTag", err)
	}
	if _, err := pending.Author("authX"); err != nil {
		t.Errorf("Author after rejected author: %v", err)
	}
}

func TestInvalidFeature(t *testing.T) {
	for _, feature := range []Tag{"", "a:b", "a;b", "line\nbreak"} {
		if _, err := New(feature); !errors.Is(err, ErrInvalidTag) {
			t.Errorf("New(%q) = %v, want ErrInvalidTag", feature, err)
		}
	}
}

func TestAbandon(t *testing.T) {
	builder := openBuilder(t, "featA", "authX")
	if err := builder.Append([]byte("partial")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !builder.Abandon() {
		t.Fatal("Abandon of open builder returned false")
	}
	if builder.Abandon() {
		t.Error("second Abandon returned true")
	}
	if builder.State() != Abandoned {
		t.Errorf("State = %s, want abandoned", builder.State())
	}

	if err := builder.Append([]byte("x")); !errors.Is(err, ErrAbandoned) {
		t.Errorf("Append after Abandon = %v, want ErrAbandoned", err)
	}
	if _, err := builder.Seal(); !errors.Is(err, ErrAbandoned) {
		t.Errorf("Seal after Abandon = %v, want ErrAbandoned", err)
	}
	if _, err := builder.Render(TextEncoding); !errors.Is(err, ErrAbandoned) || !errors.Is(err, ErrInvalidState) {
		t.Errorf("Render after Abandon = %v, want ErrAbandoned", err)
	}

	sealed, _ := sealWith(t, "done")
	if sealed.Abandon() {
		t.Error("Abandon of sealed builder returned true")
	}
	if sealed.State() != Sealed {
		t.Errorf("sealed builder state = %s after Abandon", sealed.State())
	}
}

func TestEmptyBody(t *testing.T) {
	builder, key := sealWith(t)
	want, err := digest.Sum(digest.Default, nil)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if key != want {
		t.Errorf("empty body key = %s, want %s", key, want)
	}
	line, err := builder.Render(TextEncoding)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasSuffix(line, []byte(";size:0;body:\n")) {
		t.Errorf("empty render = %q", line)
	}
}

func TestStateString(t *testing.T) {
	names := map[State]string{
		Initializing: "initializing",
		Open:         "open",
		Sealed:       "sealed",
		Abandoned:    "abandoned",
		State(42):    "state(42)",
	}
	for state, want := range names {
		if state.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), state.String(), want)
		}
	}
}
