// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/action/protocol"
	"github.com/iotexproject/iotex-interop/pkg/hash"
	"github.com/iotexproject/iotex-interop/state"
)

// state namespaces of the interoperability protocol
const (
	ChainAccountNamespace     = "ChainAccount"
	ChainValidatorsNamespace  = "ChainValidators"
	ChannelDataNamespace      = "ChannelData"
	OutboxRootNamespace       = "OutboxRoot"
	TerminatedStateNamespace  = "TerminatedState"
	TerminatedOutboxNamespace = "TerminatedOutbox"
	OwnChainAccountNamespace  = "OwnChainAccount"
)

// substore prefixes of the interoperability store in the state tree
var (
	SubstorePrefixOutboxRoot       = []byte{0x00, 0x00}
	SubstorePrefixChainData        = []byte{0x80, 0x00}
	SubstorePrefixChannelData      = []byte{0xa0, 0x00}
	SubstorePrefixChainValidators  = []byte{0xc0, 0x00}
	SubstorePrefixOwnChainData     = []byte{0xe0, 0x00}
	SubstorePrefixTerminatedState  = []byte{0x30, 0x00}
	SubstorePrefixTerminatedOutbox = []byte{0x50, 0x00}

	// bbolt rejects empty keys, so the singleton lives under a fixed key
	_ownChainAccountKey = []byte("ownChainAccount")
)

// StorePrefix returns the 4-byte prefix of a module store in the state tree
func StorePrefix(module string) []byte {
	prefix := hash.Hash256b([]byte(module))[:4]
	prefix[0] &= 0x7f
	return prefix
}

// StateTreeKey returns the key of a store entry in the state tree
func StateTreeKey(module string, substorePrefix, key []byte) []byte {
	k := make([]byte, 0, 6+hash.HashSize)
	k = append(k, StorePrefix(module)...)
	k = append(k, substorePrefix...)
	return append(k, hash.Hash256b(key)...)
}

func loadState(sr protocol.StateReader, ns string, key []byte, s interface{}) (bool, error) {
	_, err := sr.State(s, protocol.NamespaceOption(ns), protocol.KeyOption(key))
	switch errors.Cause(err) {
	case nil:
		return true, nil
	case state.ErrStateNotExist:
		return false, nil
	default:
		return false, errors.Wrapf(err, "failed to load %s %x", ns, key)
	}
}

func storeState(sm protocol.StateManager, ns string, key []byte, s interface{}) error {
	if _, err := sm.PutState(s, protocol.NamespaceOption(ns), protocol.KeyOption(key)); err != nil {
		return errors.Wrapf(err, "failed to store %s %x", ns, key)
	}
	return nil
}

func chainAccount(sr protocol.StateReader, chainID []byte) (*ChainAccount, bool, error) {
	acc := &ChainAccount{}
	ok, err := loadState(sr, ChainAccountNamespace, chainID, acc)
	if !ok {
		return nil, false, err
	}
	return acc, true, nil
}

func putChainAccount(sm protocol.StateManager, chainID []byte, acc *ChainAccount) error {
	return storeState(sm, ChainAccountNamespace, chainID, acc)
}

func chainValidators(sr protocol.StateReader, chainID []byte) (*ChainValidators, error) {
	cv := &ChainValidators{}
	ok, err := loadState(sr, ChainValidatorsNamespace, chainID, cv)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(state.ErrStateNotExist, "validators of chain %x", chainID)
	}
	return cv, nil
}

func putChainValidators(sm protocol.StateManager, chainID []byte, cv *ChainValidators) error {
	return storeState(sm, ChainValidatorsNamespace, chainID, cv)
}

func channelData(sr protocol.StateReader, chainID []byte) (*ChannelData, bool, error) {
	cd := &ChannelData{}
	ok, err := loadState(sr, ChannelDataNamespace, chainID, cd)
	if !ok {
		return nil, false, err
	}
	return cd, true, nil
}

func putChannelData(sm protocol.StateManager, chainID []byte, cd *ChannelData) error {
	return storeState(sm, ChannelDataNamespace, chainID, cd)
}

func putOutboxRoot(sm protocol.StateManager, chainID []byte, root []byte) error {
	return storeState(sm, OutboxRootNamespace, chainID, &OutboxRoot{Root: root})
}

func outboxRoot(sr protocol.StateReader, chainID []byte) (*OutboxRoot, bool, error) {
	o := &OutboxRoot{}
	ok, err := loadState(sr, OutboxRootNamespace, chainID, o)
	if !ok {
		return nil, false, err
	}
	return o, true, nil
}

func ownChainAccount(sr protocol.StateReader) (*OwnChainAccount, error) {
	acc := &OwnChainAccount{}
	ok, err := loadState(sr, OwnChainAccountNamespace, _ownChainAccountKey, acc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrap(state.ErrStateNotExist, "own chain account")
	}
	return acc, nil
}

func putOwnChainAccount(sm protocol.StateManager, acc *OwnChainAccount) error {
	return storeState(sm, OwnChainAccountNamespace, _ownChainAccountKey, acc)
}

func terminatedStateAccount(sr protocol.StateReader, chainID []byte) (*TerminatedStateAccount, bool, error) {
	ts := &TerminatedStateAccount{}
	ok, err := loadState(sr, TerminatedStateNamespace, chainID, ts)
	if !ok {
		return nil, false, err
	}
	return ts, true, nil
}

func putTerminatedStateAccount(sm protocol.StateManager, chainID []byte, ts *TerminatedStateAccount) error {
	return storeState(sm, TerminatedStateNamespace, chainID, ts)
}

func terminatedOutboxAccount(sr protocol.StateReader, chainID []byte) (*TerminatedOutboxAccount, bool, error) {
	to := &TerminatedOutboxAccount{}
	ok, err := loadState(sr, TerminatedOutboxNamespace, chainID, to)
	if !ok {
		return nil, false, err
	}
	return to, true, nil
}

func putTerminatedOutboxAccount(sm protocol.StateManager, chainID []byte, to *TerminatedOutboxAccount) error {
	return storeState(sm, TerminatedOutboxNamespace, chainID, to)
}
