// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-interop/action"
	"github.com/iotexproject/iotex-interop/action/protocol"
	"github.com/iotexproject/iotex-interop/pkg/hash"
	"github.com/iotexproject/iotex-interop/pkg/smt"
)

func (p *Protocol) verifyStateRecovery(_ context.Context, sr protocol.StateReader, act *action.StateRecovery) error {
	ts, ok, err := terminatedStateAccount(sr, act.ChainID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrInvalidStateRecovery, "chain %x is not terminated", act.ChainID)
	}
	if !ts.Initialized {
		return errors.Wrapf(ErrInvalidStateRecovery, "terminated state of chain %x is not initialized", act.ChainID)
	}
	if act.Module == ModuleName {
		return errors.Wrap(ErrInvalidStateRecovery, "interoperability store cannot be recovered")
	}
	if _, err := p.stateRecoverer(act.Module); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(act.StoreEntries))
	for _, e := range act.StoreEntries {
		k := string(e.SubstorePrefix) + string(e.StoreKey)
		if _, ok := seen[k]; ok {
			return errors.Wrapf(ErrInvalidStateRecovery, "store key %x of substore %x is recovered twice", e.StoreKey, e.SubstorePrefix)
		}
		seen[k] = struct{}{}
	}
	return nil
}

func (p *Protocol) stateRecoverer(module string) (StateRecoverer, error) {
	m, ok := p.modules.module(module)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidStateRecovery, "module %s is not registered", module)
	}
	rec, ok := m.(StateRecoverer)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidStateRecovery, "module %s does not support recovery", module)
	}
	return rec, nil
}

func recoveryQueries(act *action.StateRecovery, recovered bool) ([][]byte, []*smt.Query) {
	keys := make([][]byte, 0, len(act.StoreEntries))
	queries := make([]*smt.Query, 0, len(act.StoreEntries))
	for _, e := range act.StoreEntries {
		key := StateTreeKey(act.Module, e.SubstorePrefix, e.StoreKey)
		value := hash.Hash256b(e.StoreValue)
		if recovered {
			value = RecoveredStoreValue
		}
		keys = append(keys, key)
		queries = append(queries, &smt.Query{
			Key:    key,
			Value:  value,
			Bitmap: e.Bitmap,
		})
	}
	return keys, queries
}

// handleStateRecovery proves the entries against the terminated state root,
// hands them to the module and marks them recovered in the root
func (p *Protocol) handleStateRecovery(ctx context.Context, sm protocol.StateManager, eq *action.EventQueue, act *action.StateRecovery) (uint64, error) {
	ts, ok, err := terminatedStateAccount(sm, act.ChainID)
	if err != nil {
		return action.FailureReceiptStatus, err
	}
	if !ok {
		return action.FailureReceiptStatus, errors.Wrapf(ErrInvalidStateRecovery, "chain %x is not terminated", act.ChainID)
	}
	keys, queries := recoveryQueries(act, false)
	valid, err := smt.Verify(ts.StateRoot, keys, &smt.Proof{SiblingHashes: act.SiblingHashes, Queries: queries})
	if err != nil {
		return action.FailureReceiptStatus, err
	}
	if !valid {
		eq.Add(ModuleName, EventNameInvalidSMTVerification, nil, act.ChainID)
		return action.FailureReceiptStatus, nil
	}
	rec, err := p.stateRecoverer(act.Module)
	if err != nil {
		return action.FailureReceiptStatus, err
	}

	snapshot := sm.Snapshot()
	eventSnapshot := eq.Snapshot()
	for _, e := range act.StoreEntries {
		if err := rec.Recover(ctx, &RecoverContext{
			Module:         act.Module,
			ChainID:        act.ChainID,
			SubstorePrefix: e.SubstorePrefix,
			StoreKey:       e.StoreKey,
			StoreValue:     e.StoreValue,
			StateManager:   sm,
			EventQueue:     eq,
		}); err != nil {
			if err := sm.Revert(snapshot); err != nil {
				return action.FailureReceiptStatus, err
			}
			if err := eq.Revert(eventSnapshot); err != nil {
				return action.FailureReceiptStatus, err
			}
			p.logger.Warn("Failed to recover state.", zap.Error(errors.Wrapf(err, "recovery failed for module %s", act.Module)))
			return action.FailureReceiptStatus, nil
		}
	}

	_, recovered := recoveryQueries(act, true)
	root, err := smt.CalculateRoot(act.SiblingHashes, recovered)
	if err != nil {
		return action.FailureReceiptStatus, err
	}
	ts.StateRoot = root
	if err := putTerminatedStateAccount(sm, act.ChainID, ts); err != nil {
		return action.FailureReceiptStatus, err
	}
	return action.SuccessReceiptStatus, nil
}

func (p *Protocol) verifyStateRecoveryInitialization(_ context.Context, sr protocol.StateReader, act *action.StateRecoveryInitialization) error {
	_, err := p.provenSidechainAccount(sr, act)
	return err
}

// provenSidechainAccount checks the sidechain account of the action is in
// the mainchain state and may be recovered
func (p *Protocol) provenSidechainAccount(sr protocol.StateReader, act *action.StateRecoveryInitialization) (*ChainAccount, error) {
	if p.isMainchain {
		return nil, errors.Wrap(ErrInvalidStateRecovery, "state recovery is initialized on sidechains")
	}
	if bytes.Equal(act.ChainID, p.ownChainID) || bytes.Equal(act.ChainID, p.mainchainID) {
		return nil, errors.Wrapf(ErrInvalidStateRecovery, "chain %x cannot be recovered", act.ChainID)
	}
	ts, terminated, err := terminatedStateAccount(sr, act.ChainID)
	if err != nil {
		return nil, err
	}
	if terminated && ts.Initialized {
		return nil, errors.Wrap(ErrInvalidStateRecovery, "terminated state is already initialized")
	}
	sidechain := &ChainAccount{}
	if err := sidechain.Deserialize(act.SidechainAccount); err != nil {
		return nil, errors.Wrap(ErrInvalidStateRecovery, err.Error())
	}
	mainchain, err := p.ChainAccount(sr, p.mainchainID)
	if err != nil {
		return nil, err
	}
	if sidechain.Status != ChainStatusTerminated &&
		int64(mainchain.LastCertificate.Timestamp)-int64(sidechain.LastCertificate.Timestamp) <= int64(p.livenessLimit) {
		return nil, errors.Wrap(ErrInvalidStateRecovery, "sidechain is not terminated and still live")
	}
	root := mainchain.LastCertificate.StateRoot
	if terminated {
		root = ts.MainchainStateRoot
	}
	key := StateTreeKey(ModuleName, SubstorePrefixChainData, act.ChainID)
	ok, err := smt.Verify(root, [][]byte{key}, &smt.Proof{
		SiblingHashes: act.SiblingHashes,
		Queries: []*smt.Query{{
			Key:    key,
			Value:  hash.Hash256b(act.SidechainAccount),
			Bitmap: act.Bitmap,
		}},
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrap(ErrInvalidStateRecovery, "failed to verify sidechain account against the mainchain state root")
	}
	return sidechain, nil
}

// handleStateRecoveryInitialization sets the terminated state root of the sidechain to its last certified root
func (p *Protocol) handleStateRecoveryInitialization(ctx context.Context, sm protocol.StateManager, eq *action.EventQueue, act *action.StateRecoveryInitialization) (uint64, error) {
	sidechain, err := p.provenSidechainAccount(sm, act)
	if err != nil {
		if errors.Cause(err) != ErrInvalidStateRecovery {
			return action.FailureReceiptStatus, err
		}
		eq.Add(ModuleName, EventNameInvalidSMTVerification, nil, act.ChainID)
		return action.FailureReceiptStatus, nil
	}
	_, terminated, err := terminatedStateAccount(sm, act.ChainID)
	if err != nil {
		return action.FailureReceiptStatus, err
	}
	if err := putTerminatedStateAccount(sm, act.ChainID, &TerminatedStateAccount{
		StateRoot:          sidechain.LastCertificate.StateRoot,
		MainchainStateRoot: hash.EmptyHash,
		Initialized:        true,
	}); err != nil {
		return action.FailureReceiptStatus, err
	}
	if !terminated {
		eq.Add(ModuleName, EventNameTerminatedStateCreated, nil, act.ChainID)
	}
	return action.SuccessReceiptStatus, nil
}
