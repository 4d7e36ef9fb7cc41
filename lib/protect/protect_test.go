// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protect

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func newKeypair(t *testing.T) *Keypair {
	t.Helper()
	keypair, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	t.Cleanup(func() { keypair.Close() })
	return keypair
}

func TestGenerateKeypair(t *testing.T) {
	keypair := newKeypair(t)
	if !strings.HasPrefix(keypair.Recipient, "age1") {
		t.Errorf("Recipient = %q, want age1 prefix", keypair.Recipient)
	}
	if !strings.HasPrefix(keypair.Identity.String(), "AGE-SECRET-KEY-1") {
		t.Error("Identity does not have the AGE-SECRET-KEY-1 prefix")
	}
	if err := keypair.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := keypair.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestProtectRoundTrip(t *testing.T) {
	keypair := newKeypair(t)
	protector, err := NewAge([]string{keypair.Recipient})
	if err != nil {
		t.Fatalf("NewAge: %v", err)
	}

	rendered := []byte("key:00;feature:featA;author:authX;create_at:1;size:5;body:hello\n")
	line, err := protector.Protect(rendered)
	if err != nil {
		t.Fatalf("Protect: %v", err)
	}
	if !bytes.HasPrefix(line, []byte("age:")) || !bytes.HasSuffix(line, []byte("\n")) {
		t.Errorf("line = %.40q..., want age:...\\n", line)
	}
	if bytes.Count(line, []byte("\n")) != 1 {
		t.Error("protected line contains an embedded newline")
	}
	if bytes.Contains(line, []byte("hello")) {
		t.Error("protected line leaks the body")
	}

	opened, err := Open(line, keypair.Identity)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(opened, rendered) {
		t.Errorf("Open = %q, want %q", opened, rendered)
	}
}

func TestOpenDetectsModificationNotOrigin(t *testing.T) {
	keypair := newKeypair(t)
	rendered := []byte("key:00;feature:featA;author:authX;create_at:1;size:5;body:hello\n")

	writer, err := NewAge([]string{keypair.Recipient})
	if err != nil {
		t.Fatalf("NewAge: %v", err)
	}
	line, err := writer.Protect(rendered)
	if err != nil {
		t.Fatalf("Protect: %v", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimSuffix(strings.TrimPrefix(string(line), "age:"), "\n"))
	if err != nil {
		t.Fatalf("decoding line: %v", err)
	}
	ciphertext[len(ciphertext)-1] ^= 0x01
	tampered := []byte("age:" + base64.StdEncoding.EncodeToString(ciphertext) + "\n")
	if _, err := Open(tampered, keypair.Identity); err == nil {
		t.Error("Open of a modified line succeeded")
	}

	// Any holder of the public recipient can produce a line that opens.
	forger, err := NewAge([]string{keypair.Recipient})
	if err != nil {
		t.Fatalf("NewAge: %v", err)
	}
	forged, err := forger.Protect([]byte("key:00;feature:featA;author:someone-else;create_at:1;size:3;body:bye\n"))
	if err != nil {
		t.Fatalf("Protect: %v", err)
	}
	if _, err := Open(forged, keypair.Identity); err != nil {
		t.Errorf("Open of a line from another writer: %v", err)
	}
}

func TestProtectMultipleRecipients(t *testing.T) {
	first := newKeypair(t)
	second := newKeypair(t)
	protector, err := NewAge([]string{first.Recipient, second.Recipient})
	if err != nil {
		t.Fatalf("NewAge: %v", err)
	}
	line, err := protector.Protect([]byte("record\n"))
	if err != nil {
		t.Fatalf("Protect: %v", err)
	}
	for _, keypair := range []*Keypair{first, second} {
		opened, err := Open(line, keypair.Identity)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if string(opened) != "record\n" {
			t.Errorf("Open = %q", opened)
		}
	}
}

func TestOpenWrongIdentity(t *testing.T) {
	owner := newKeypair(t)
	stranger := newKeypair(t)
	protector, err := NewAge([]string{owner.Recipient})
	if err != nil {
		t.Fatalf("NewAge: %v", err)
	}
	line, err := protector.Protect([]byte("record\n"))
	if err != nil {
		t.Fatalf("Protect: %v", err)
	}
	if _, err := Open(line, stranger.Identity); err == nil {
		t.Error("Open with the wrong identity succeeded")
	}
}

func TestOpenRejectsPlainLine(t *testing.T) {
	keypair := newKeypair(t)
	if _, err := Open([]byte("key:00;feature:f;...\n"), keypair.Identity); !errors.Is(err, ErrNotProtected) {
		t.Errorf("Open of plain line = %v, want ErrNotProtected", err)
	}
	if _, err := Open([]byte("age:!!!not base64\n"), keypair.Identity); err == nil {
		t.Error("Open of bad base64 succeeded")
	}
}

func TestNewAgeValidation(t *testing.T) {
	if _, err := NewAge(nil); err == nil {
		t.Error("NewAge(nil) succeeded")
	}
	if _, err := NewAge([]string{"age1notakey"}); err == nil {
		t.Error("NewAge with invalid key succeeded")
	}
	if _, err := ParseRecipient("ssh-ed25519 AAAA"); err == nil {
		t.Error("ParseRecipient of ssh key succeeded")
	}
}

func TestOpenLog(t *testing.T) {
	keypair := newKeypair(t)
	protector, err := NewAge([]string{keypair.Recipient})
	if err != nil {
		t.Fatalf("NewAge: %v", err)
	}

	records := []string{"first\n", "second\n", "third\n"}
	var log bytes.Buffer
	for _, record := range records {
		line, err := protector.Protect([]byte(record))
		if err != nil {
			t.Fatalf("Protect: %v", err)
		}
		log.Write(line)
	}

	var opened []string
	err = OpenLog(&log, keypair.Identity, func(rendered []byte) error {
		opened = append(opened, string(rendered))
		return nil
	})
	if err != nil {
		t.Fatalf("OpenLog: %v", err)
	}
	if strings.Join(opened, "") != strings.Join(records, "") {
		t.Errorf("OpenLog = %q, want %q", opened, records)
	}

	stop := errors.New("stop")
	log.Reset()
	line, _ := protector.Protect([]byte("only\n"))
	log.Write(line)
	log.Write(line)
	var visits int
	err = OpenLog(&log, keypair.Identity, func([]byte) error {
		visits++
		return stop
	})
	if !errors.Is(err, stop) || visits != 1 {
		t.Errorf("OpenLog = %v after %d visits, want stop after 1", err, visits)
	}

	if err := OpenLog(strings.NewReader("age:AAAA\n"), keypair.Identity, func([]byte) error { return nil }); err == nil {
		t.Error("OpenLog of corrupt line succeeded")
	}
}
