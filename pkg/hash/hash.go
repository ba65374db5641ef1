// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package hash

import (
	"github.com/minio/sha256-simd"
)

const (
	// HashSize defines the size of hash
	HashSize = 32
)

var (
	// EmptyHash is the hash of empty input, used as the root of empty trees
	EmptyHash = Hash256b(nil)
)

// Hash256b returns the SHA-256 digest of the concatenated input
func Hash256b(data ...[]byte) []byte {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// IsEmptyHash returns true if h equals the hash of empty input
func IsEmptyHash(h []byte) bool {
	if len(h) != HashSize {
		return false
	}
	for i := range h {
		if h[i] != EmptyHash[i] {
			return false
		}
	}
	return true
}
