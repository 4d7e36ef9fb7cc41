// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protect

import (
	"fmt"

	"filippo.io/age"

	"github.com/bureau-foundation/recordlog/lib/secret"
)

// Keypair is an age X25519 keypair for protected logs.
type Keypair struct {
	// Identity is the private key (AGE-SECRET-KEY-1...). Never log it.
	Identity *secret.Buffer

	// Recipient is the public key (age1...) that writers encrypt to.
	Recipient string
}

// Close releases the private key. Idempotent.
func (k *Keypair) Close() error {
	if k.Identity == nil {
		return nil
	}
	return k.Identity.Close()
}

// GenerateKeypair creates a fresh keypair. The caller must Close it.
func GenerateKeypair() (*Keypair, error) {
	generated, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age keypair: %w", err)
	}
	identity, err := secret.NewFromBytes([]byte(generated.String()))
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}
	return &Keypair{
		Identity:  identity,
		Recipient: generated.Recipient().String(),
	}, nil
}
