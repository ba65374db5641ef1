// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/pkg/errors"
)

// vars
var (
	ErrInvalidChainID = errors.New("invalid chain ID")
	ErrInvalidLength  = errors.New("invalid length")
	ErrInvalidName    = errors.New("invalid name")
	ErrMessageTooLong = errors.New("cross-chain message too long")
)

type (
	// Action is the payload of a transaction handled by a protocol
	Action interface {
		// SanityCheck runs the stateless checks of the action
		SanityCheck() error
		// Serialize returns the canonical encoding of the action
		Serialize() []byte
	}
)

func checkChainID(id []byte) error {
	if len(id) != ChainIDLength {
		return errors.Wrapf(ErrInvalidChainID, "length %d", len(id))
	}
	return nil
}

func checkHash(field string, h []byte) error {
	if len(h) != HashLength {
		return errors.Wrapf(ErrInvalidLength, "%s has length %d", field, len(h))
	}
	return nil
}

func checkHashes(field string, hs [][]byte) error {
	for _, h := range hs {
		if err := checkHash(field, h); err != nil {
			return err
		}
	}
	return nil
}

// IsValidName returns true if name is a non-empty alphanumeric string within the length limit
func IsValidName(name string, minLen, maxLen int) bool {
	if len(name) < minLen || len(name) > maxLen {
		return false
	}
	for _, c := range name {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
