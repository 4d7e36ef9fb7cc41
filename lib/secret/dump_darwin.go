// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

// Darwin has no MADV_DONTDUMP; mlock still keeps the pages out of swap.
func excludeFromCoreDump([]byte) error { return nil }
