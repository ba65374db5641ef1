// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iotexproject/iotex-interop/action"
	"github.com/iotexproject/iotex-interop/pkg/hash"
	"github.com/iotexproject/iotex-interop/pkg/smt"
)

var (
	_testSubstore = []byte{0x00, 0x01}
	_testStoreKey = []byte("user")
	_testStoreVal = []byte("balance")
)

type recoverableModule struct {
	*MockCrossChainModule
	*MockStateRecoverer
}

func newRecoverableModule(e *testEnv, name string) *recoverableModule {
	m := newMockModule(e.ctrl, name)
	expectHooks(m)
	rm := &recoverableModule{m, NewMockStateRecoverer(e.ctrl)}
	e.require.NoError(e.p.RegisterModule(rm))
	return rm
}

// terminateWithEntry terminates chainID with a state holding one entry of the token module
func terminateWithEntry(e *testEnv, chainID []byte) []byte {
	key := StateTreeKey("token", _testSubstore, _testStoreKey)
	root := smt.LeafHash(key, hash.Hash256b(_testStoreVal))
	e.require.NoError(putTerminatedStateAccount(e.ws, chainID, &TerminatedStateAccount{
		StateRoot:          root,
		MainchainStateRoot: hash.EmptyHash,
		Initialized:        true,
	}))
	return key
}

func testStateRecovery(chainID []byte) *action.StateRecovery {
	return &action.StateRecovery{
		ChainID: chainID,
		Module:  "token",
		StoreEntries: []*action.StoreEntry{{
			SubstorePrefix: _testSubstore,
			StoreKey:       _testStoreKey,
			StoreValue:     _testStoreVal,
		}},
	}
}

func TestStateRecovery(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t, _mainchainID, _sidechainID)
	m := newRecoverableModule(e, "token")
	key := terminateWithEntry(e, _sidechainID)

	m.MockStateRecoverer.EXPECT().Recover(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rctx *RecoverContext) error {
		require.Equal("token", rctx.Module)
		require.Equal(_sidechainID, rctx.ChainID)
		require.Equal(_testSubstore, rctx.SubstorePrefix)
		require.Equal(_testStoreKey, rctx.StoreKey)
		require.Equal(_testStoreVal, rctx.StoreValue)
		rctx.EventQueue.Add("token", "recovered", nil)
		return nil
	}).Times(1)
	act := testStateRecovery(_sidechainID)
	receipt := e.handle(act)
	require.Equal(action.SuccessReceiptStatus, receipt.Status)
	require.Equal(1, len(receipt.Logs))

	ts, ok := e.terminatedState(_sidechainID)
	require.True(ok)
	require.Equal(smt.LeafHash(key, RecoveredStoreValue), ts.StateRoot)

	// the entry cannot be recovered twice
	receipt, err := e.p.Handle(e.ctx, act, e.ws)
	require.NoError(err)
	require.Equal(action.FailureReceiptStatus, receipt.Status)
	require.Equal(1, countEvents(receipt.Logs, EventNameInvalidSMTVerification))
}

func TestStateRecoveryFailure(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t, _mainchainID, _sidechainID)
	m := newRecoverableModule(e, "token")
	terminateWithEntry(e, _sidechainID)
	before, _ := e.terminatedState(_sidechainID)

	m.MockStateRecoverer.EXPECT().Recover(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rctx *RecoverContext) error {
		rctx.EventQueue.Add("token", "recovered", nil)
		require.NoError(putOutboxRoot(rctx.StateManager, _unknownChainID, hash.EmptyHash))
		return errors.New("account is locked")
	}).Times(1)
	receipt := e.handle(testStateRecovery(_sidechainID))
	require.Equal(action.FailureReceiptStatus, receipt.Status)
	require.Empty(receipt.Logs)

	after, _ := e.terminatedState(_sidechainID)
	require.Equal(before.StateRoot, after.StateRoot)
	_, ok, err := outboxRoot(e.ws, _unknownChainID)
	require.NoError(err)
	require.False(ok)

	// a proof against another root is rejected before any module runs
	act := testStateRecovery(_sidechainID)
	act.StoreEntries[0].StoreValue = []byte("forged")
	receipt, err = e.p.Handle(e.ctx, act, e.ws)
	require.NoError(err)
	require.Equal(action.FailureReceiptStatus, receipt.Status)
	require.Len(receipt.Logs, 1)
	require.Equal(EventNameInvalidSMTVerification, receipt.Logs[0].Name)
	require.True(receipt.Logs[0].HasTopic(_sidechainID))
}

func TestVerifyStateRecovery(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t, _mainchainID, _sidechainID, _sidechain2ID)
	newRecoverableModule(e, "token")
	plain := newMockModule(e.ctrl, "nft")
	expectHooks(plain)
	require.NoError(e.p.RegisterModule(plain))
	terminateWithEntry(e, _sidechainID)
	require.NoError(putTerminatedStateAccount(e.ws, _sidechain2ID, &TerminatedStateAccount{
		StateRoot:          hash.EmptyHash,
		MainchainStateRoot: hash.Hash256b([]byte("mainchain")),
	}))

	tests := []struct {
		name   string
		modify func(*action.StateRecovery)
		err    string
	}{
		{"valid", func(*action.StateRecovery) {}, ""},
		{"not terminated", func(act *action.StateRecovery) { act.ChainID = _unknownChainID }, "is not terminated"},
		{"not initialized", func(act *action.StateRecovery) { act.ChainID = _sidechain2ID }, "is not initialized"},
		{"interoperability store", func(act *action.StateRecovery) { act.Module = ModuleName }, "cannot be recovered"},
		{"unknown module", func(act *action.StateRecovery) { act.Module = "dex" }, "is not registered"},
		{"module without recovery", func(act *action.StateRecovery) { act.Module = "nft" }, "does not support recovery"},
		{"duplicate entry", func(act *action.StateRecovery) {
			act.StoreEntries = append(act.StoreEntries, act.StoreEntries[0])
		}, "recovered twice"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			act := testStateRecovery(_sidechainID)
			test.modify(act)
			err := e.p.Validate(e.ctx, act, e.ws)
			if test.err == "" {
				require.NoError(err)
				return
			}
			require.Equal(ErrInvalidStateRecovery, errors.Cause(err))
			require.ErrorContains(err, test.err)
		})
	}
}

// sidechainAccountProof returns the sidechain account and a mainchain state root holding it
func sidechainAccountProof(require *require.Assertions, chainID []byte, acc *ChainAccount) ([]byte, []byte) {
	raw, err := acc.Serialize()
	require.NoError(err)
	key := StateTreeKey(ModuleName, SubstorePrefixChainData, chainID)
	return raw, smt.LeafHash(key, hash.Hash256b(raw))
}

func TestStateRecoveryInitialization(t *testing.T) {
	require := require.New(t)
	sidechainRoot := hash.Hash256b([]byte("sidechain2 state"))
	terminated := &ChainAccount{
		Name: "chain2",
		LastCertificate: LastCertificate{
			Height:         100,
			Timestamp:      _testNow - 50,
			StateRoot:      sidechainRoot,
			ValidatorsHash: hash.EmptyHash,
		},
		Status: ChainStatusTerminated,
	}

	t.Run("proven against the mainchain certificate", func(t *testing.T) {
		e := newTestEnv(t, _sidechainID, _mainchainID)
		raw, root := sidechainAccountProof(require, _sidechain2ID, terminated)
		e.setChainAccount(_mainchainID, func(acc *ChainAccount) { acc.LastCertificate.StateRoot = root })

		act := &action.StateRecoveryInitialization{ChainID: _sidechain2ID, SidechainAccount: raw}
		receipt := e.handle(act)
		require.Equal(action.SuccessReceiptStatus, receipt.Status)
		require.Equal(1, countEvents(receipt.Logs, EventNameTerminatedStateCreated))
		ts, ok := e.terminatedState(_sidechain2ID)
		require.True(ok)
		require.True(ts.Initialized)
		require.Equal(sidechainRoot, ts.StateRoot)
		require.Equal(hash.EmptyHash, ts.MainchainStateRoot)

		err := e.p.Validate(e.ctx, act, e.ws)
		require.ErrorContains(err, "already initialized")
	})
	t.Run("proven against the root recorded at termination", func(t *testing.T) {
		e := newTestEnv(t, _sidechainID, _mainchainID)
		raw, root := sidechainAccountProof(require, _sidechain2ID, terminated)
		e.setChainAccount(_mainchainID, func(acc *ChainAccount) { acc.LastCertificate.StateRoot = root })
		require.NoError(e.p.createTerminatedStateAccount(e.ws, action.NewEventQueue(), _sidechain2ID, nil))
		e.setChainAccount(_mainchainID, func(acc *ChainAccount) { acc.LastCertificate.StateRoot = hash.EmptyHash })

		receipt := e.handle(&action.StateRecoveryInitialization{ChainID: _sidechain2ID, SidechainAccount: raw})
		require.Equal(action.SuccessReceiptStatus, receipt.Status)
		require.Zero(countEvents(receipt.Logs, EventNameTerminatedStateCreated))
		ts, _ := e.terminatedState(_sidechain2ID)
		require.True(ts.Initialized)
		require.Equal(sidechainRoot, ts.StateRoot)
	})
	t.Run("live sidechain", func(t *testing.T) {
		e := newTestEnv(t, _sidechainID, _mainchainID)
		active := *terminated
		active.Status = ChainStatusActive
		raw, root := sidechainAccountProof(require, _sidechain2ID, &active)
		e.setChainAccount(_mainchainID, func(acc *ChainAccount) { acc.LastCertificate.StateRoot = root })

		act := &action.StateRecoveryInitialization{ChainID: _sidechain2ID, SidechainAccount: raw}
		require.ErrorContains(e.p.Validate(e.ctx, act, e.ws), "still live")
		receipt, err := e.p.Handle(e.ctx, act, e.ws)
		require.NoError(err)
		require.Equal(action.FailureReceiptStatus, receipt.Status)
		require.Equal(1, countEvents(receipt.Logs, EventNameInvalidSMTVerification))
		_, ok := e.terminatedState(_sidechain2ID)
		require.False(ok)

		// an active sidechain that stopped certifying may be recovered
		e.setChainAccount(_mainchainID, func(acc *ChainAccount) {
			acc.LastCertificate.Timestamp = active.LastCertificate.Timestamp + LivenessLimit + 1
		})
		require.NoError(e.p.Validate(e.ctx, act, e.ws))
	})
	t.Run("invalid requests", func(t *testing.T) {
		e := newTestEnv(t, _sidechainID, _mainchainID)
		raw, _ := sidechainAccountProof(require, _sidechain2ID, terminated)
		for _, act := range []*action.StateRecoveryInitialization{
			{ChainID: _sidechainID, SidechainAccount: raw},
			{ChainID: _mainchainID, SidechainAccount: raw},
			{ChainID: _sidechain2ID, SidechainAccount: []byte{0x01}},
			// the mainchain state does not hold the account
			{ChainID: _sidechain2ID, SidechainAccount: raw},
		} {
			require.Equal(ErrInvalidStateRecovery, errors.Cause(e.p.Validate(e.ctx, act, e.ws)))
		}

		m := newTestEnv(t, _mainchainID, _sidechainID)
		err := m.p.Validate(m.ctx, &action.StateRecoveryInitialization{ChainID: _sidechain2ID, SidechainAccount: raw}, m.ws)
		require.ErrorContains(err, "initialized on sidechains")
	})
}
