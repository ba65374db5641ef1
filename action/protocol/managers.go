// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"bytes"

	"github.com/pkg/errors"
)

type (
	// StateConfig locates one store entry: the namespace names the store (chain accounts, channels,
	// validators, outbox roots...), the key is usually a chain ID
	StateConfig struct {
		Namespace string
		Key       []byte
	}

	// StateOption fills a StateConfig
	StateOption func(*StateConfig) error

	// StateReader reads interop stores at the height of the last committed block
	StateReader interface {
		Height() (uint64, error)
		// State decodes the entry into s, state.ErrStateNotExist if the chain has no such entry
		State(s interface{}, opts ...StateOption) (uint64, error)
	}

	// StateManager is the working set a cross-chain update is executed against. A message is applied
	// between Snapshot and Revert so a failing command leaves no store behind.
	StateManager interface {
		StateReader
		Snapshot() int
		Revert(snapshot int) error
		PutState(s interface{}, opts ...StateOption) (uint64, error)
		DelState(opts ...StateOption) (uint64, error)
	}
)

// NamespaceOption selects the store
func NamespaceOption(ns string) StateOption {
	return func(cfg *StateConfig) error {
		cfg.Namespace = ns
		return nil
	}
}

// KeyOption selects the entry of the store, the key is copied
func KeyOption(key []byte) StateOption {
	return func(cfg *StateConfig) error {
		cfg.Key = bytes.Clone(key)
		if cfg.Key == nil {
			cfg.Key = []byte{}
		}
		return nil
	}
}

// CreateStateConfig applies the options in order, a store entry always needs a namespace
func CreateStateConfig(opts ...StateOption) (*StateConfig, error) {
	var cfg StateConfig
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, errors.Wrap(err, "failed to apply state option")
		}
	}
	if len(cfg.Namespace) == 0 {
		return nil, errors.New("state namespace is missing")
	}
	return &cfg, nil
}
