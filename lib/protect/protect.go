// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protect

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"

	"github.com/bureau-foundation/recordlog/lib/secret"
)

// linePrefix starts every age-protected record line.
const linePrefix = "age:"

// ErrNotProtected is returned by Open for a line that does not carry
// the age prefix.
var ErrNotProtected = errors.New("protect: line is not an age-protected record")

// Protector transforms a rendered record into the bytes appended to
// the log.
type Protector interface {
	Protect(rendered []byte) ([]byte, error)
}

// Age encrypts records to a set of age recipients.
type Age struct {
	recipients []age.Recipient
}

// NewAge parses recipient public keys (age1... form) and returns a
// Protector that encrypts to all of them. At least one is required.
func NewAge(recipientKeys []string) (*Age, error) {
	if len(recipientKeys) == 0 {
		return nil, fmt.Errorf("protect: at least one recipient is required")
	}
	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := ParseRecipient(key)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, recipient)
	}
	return &Age{recipients: recipients}, nil
}

// Protect encrypts rendered and returns one protected line.
func (a *Age) Protect(rendered []byte) ([]byte, error) {
	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, a.recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(rendered); err != nil {
		return nil, fmt.Errorf("writing record to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}

	encoding := base64.StdEncoding
	line := make([]byte, len(linePrefix), len(linePrefix)+encoding.EncodedLen(ciphertext.Len())+1)
	copy(line, linePrefix)
	line = encoding.AppendEncode(line, ciphertext.Bytes())
	return append(line, '\n'), nil
}

// ParseRecipient validates an age X25519 public key.
func ParseRecipient(publicKey string) (*age.X25519Recipient, error) {
	recipient, err := age.ParseX25519Recipient(strings.TrimSpace(publicKey))
	if err != nil {
		return nil, fmt.Errorf("invalid age public key %q: %w", publicKey, err)
	}
	return recipient, nil
}

// parseIdentities reads the age identities held in identity. The
// buffer is borrowed, not closed.
func parseIdentities(identity *secret.Buffer) ([]age.Identity, error) {
	identities, err := age.ParseIdentities(bytes.NewReader(identity.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("parsing age identity: %w", err)
	}
	return identities, nil
}

// Open decrypts one protected line, with or without its trailing
// newline, and returns the rendered record.
func Open(line []byte, identity *secret.Buffer) ([]byte, error) {
	identities, err := parseIdentities(identity)
	if err != nil {
		return nil, err
	}
	return open(line, identities)
}

func open(line []byte, identities []age.Identity) ([]byte, error) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	encoded, ok := bytes.CutPrefix(line, []byte(linePrefix))
	if !ok {
		return nil, ErrNotProtected
	}
	ciphertext, err := base64.StdEncoding.AppendDecode(nil, encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 ciphertext: %w", err)
	}
	reader, err := age.Decrypt(bytes.NewReader(ciphertext), identities...)
	if err != nil {
		return nil, fmt.Errorf("decrypting record: %w", err)
	}
	rendered, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted record: %w", err)
	}
	return rendered, nil
}

// OpenLog decrypts every protected line read from r and passes each
// rendered record to visit, in log order. It stops at the first error
// from decryption or from visit.
func OpenLog(r io.Reader, identity *secret.Buffer, visit func(rendered []byte) error) error {
	identities, err := parseIdentities(identity)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(r)
	for number := 1; ; number++ {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			rendered, openErr := open(line, identities)
			if openErr != nil {
				return fmt.Errorf("line %d: %w", number, openErr)
			}
			if visitErr := visit(rendered); visitErr != nil {
				return visitErr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading protected log: %w", err)
		}
	}
}
