// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iotexproject/iotex-interop/action"
	"github.com/iotexproject/iotex-interop/action/protocol"
	"github.com/iotexproject/iotex-interop/blockchain/genesis"
	"github.com/iotexproject/iotex-interop/crypto/bls"
	"github.com/iotexproject/iotex-interop/db"
	"github.com/iotexproject/iotex-interop/pkg/hash"
	"github.com/iotexproject/iotex-interop/pkg/merkle"
	"github.com/iotexproject/iotex-interop/state/factory"
)

const (
	_testNow       = 1700000000
	_testWeight    = 10
	_testThreshold = 30
	_testMinFee    = 1000
)

var (
	_mainchainID      = []byte{0x04, 0x00, 0x00, 0x00}
	_sidechainID      = []byte{0x04, 0x00, 0x00, 0x01}
	_sidechain2ID     = []byte{0x04, 0x00, 0x00, 0x02}
	_unknownChainID   = []byte{0x04, 0x00, 0x00, 0x09}
	_feeTokenID       = []byte{0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	_genesisStateRoot = hash.Hash256b([]byte("genesis state"))
)

type testEnv struct {
	require *require.Assertions
	ctrl    *gomock.Controller
	p       *Protocol
	token   *MockTokenMethod
	sf      factory.Factory
	ws      factory.WorkingSet
	ctx     context.Context
	keys    map[string][]*bls.SecretKey
	relayer address.Address
}

func testKeys(t *testing.T, seed byte, n int) []*bls.SecretKey {
	keys := make([]*bls.SecretKey, n)
	for i := range keys {
		k, err := bls.GenerateKey(bytes.Repeat([]byte{seed, byte(i)}, 16))
		require.NoError(t, err)
		keys[i] = k
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].PublicKey(), keys[j].PublicKey()) < 0
	})
	return keys
}

// newTestEnv creates the protocol of chain own with the partner chains registered at genesis
func newTestEnv(t *testing.T, own []byte, partners ...[]byte) *testEnv {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	e := &testEnv{
		require: require,
		ctrl:    ctrl,
		token:   NewMockTokenMethod(ctrl),
		keys:    make(map[string][]*bls.SecretKey),
	}
	cfg := genesis.Interop{
		ChainID:       hex.EncodeToString(own),
		ChainName:     "own",
		LivenessLimit: LivenessLimit,
	}
	for i, id := range partners {
		keys := testKeys(t, byte(i+1), 4)
		e.keys[string(id)] = keys
		chain := genesis.Chain{
			ChainID:              hex.EncodeToString(id),
			Name:                 fmt.Sprintf("chain%d", i),
			CertificateThreshold: _testThreshold,
			MessageFeeTokenID:    hex.EncodeToString(_feeTokenID),
			MinReturnFeePerByte:  _testMinFee,
			Certificate: genesis.GenesisCertificate{
				Height:    10,
				Timestamp: _testNow - 100,
				StateRoot: hex.EncodeToString(_genesisStateRoot),
			},
		}
		for _, k := range keys {
			chain.Validators = append(chain.Validators, genesis.Validator{
				BLSKey:    hex.EncodeToString(k.PublicKey()),
				BFTWeight: _testWeight,
			})
		}
		cfg.Chains = append(cfg.Chains, chain)
	}
	var err error
	e.p, err = NewProtocol(cfg, e.token)
	require.NoError(err)
	reg := protocol.NewRegistry()
	require.NoError(reg.Register(ModuleName, e.p))
	e.sf, err = factory.NewFactory(factory.DefaultConfig, db.NewMemKVStore(), factory.RegistryOption(reg))
	require.NoError(err)

	ctx := context.Background()
	require.NoError(e.sf.Start(ctx))
	e.ws, err = e.sf.NewWorkingSet(ctx)
	require.NoError(err)
	require.NoError(e.p.CreateGenesisStates(ctx, e.ws))

	e.relayer, err = address.FromBytes(bytes.Repeat([]byte{0x11}, 20))
	require.NoError(err)
	ctx = protocol.WithBlockCtx(ctx, protocol.BlockCtx{
		BlockHeight:    1,
		BlockTimeStamp: time.Unix(_testNow, 0),
	})
	e.ctx = protocol.WithActionCtx(ctx, protocol.ActionCtx{
		Caller:     e.relayer,
		ActionHash: hash.Hash256b([]byte("action")),
	})
	return e
}

func (e *testEnv) chainAccount(chainID []byte) *ChainAccount {
	acc, ok, err := chainAccount(e.ws, chainID)
	e.require.NoError(err)
	e.require.True(ok)
	return acc
}

func (e *testEnv) setChainAccount(chainID []byte, f func(*ChainAccount)) {
	acc := e.chainAccount(chainID)
	f(acc)
	e.require.NoError(putChainAccount(e.ws, chainID, acc))
}

func (e *testEnv) activate(chainIDs ...[]byte) {
	for _, id := range chainIDs {
		e.setChainAccount(id, func(acc *ChainAccount) { acc.Status = ChainStatusActive })
	}
}

func (e *testEnv) channel(chainID []byte) *ChannelData {
	channel, err := e.p.ChannelData(e.ws, chainID)
	e.require.NoError(err)
	return channel
}

func (e *testEnv) validators(chainID []byte) *ChainValidators {
	cv, err := chainValidators(e.ws, chainID)
	e.require.NoError(err)
	return cv
}

func (e *testEnv) terminatedState(chainID []byte) (*TerminatedStateAccount, bool) {
	ts, ok, err := terminatedStateAccount(e.ws, chainID)
	e.require.NoError(err)
	return ts, ok
}

// certificate returns a certificate of the chain signed by the validators at the signer positions
func (e *testEnv) certificate(chainID []byte, height uint32, stateRoot, validatorsHash []byte, signers ...int) []byte {
	cert := &action.Certificate{
		BlockID:        hash.Hash256b([]byte{byte(height)}),
		Height:         height,
		Timestamp:      certificateTimestamp(height),
		StateRoot:      stateRoot,
		ValidatorsHash: validatorsHash,
	}
	keys := e.keys[string(chainID)]
	msg := bls.TagMessage(MessageTagCertificate, chainID, cert.SigningBytes())
	sigs := make([][]byte, 0, len(signers))
	for _, i := range signers {
		sigs = append(sigs, keys[i].Sign(msg))
	}
	sig, err := bls.AggregateSignatures(sigs)
	e.require.NoError(err)
	cert.AggregationBits = bls.CreateAggregationBits(len(keys), signers...)
	cert.Signature = sig
	return cert.Serialize()
}

// certificateTimestamp grows with the height from the genesis certificate at height 10
func certificateTimestamp(height uint32) uint32 {
	return _testNow - 100 + (height - 10)
}

// provePartnerOutbox sets the partner outbox root to the inbox extended with the messages
func (e *testEnv) provePartnerOutbox(chainID []byte, ccms ...[]byte) {
	channel := e.channel(chainID)
	inbox := channel.Inbox.Clone()
	for _, ccm := range ccms {
		inbox.Append(hash.Hash256b(ccm))
	}
	channel.PartnerChainOutboxRoot = inbox.Root
	e.require.NoError(putChannelData(e.ws, chainID, channel))
}

func (e *testEnv) handle(act action.Action) *action.Receipt {
	e.require.NoError(e.p.Validate(e.ctx, act, e.ws))
	receipt, err := e.p.Handle(e.ctx, act, e.ws)
	e.require.NoError(err)
	e.require.NotNil(receipt)
	return receipt
}

func (e *testEnv) messageContext(relay []byte, ccm *action.CrossChainMessage) (*MessageContext, *action.EventQueue) {
	eq := action.NewEventQueue()
	raw := ccm.Serialize()
	return &MessageContext{
		CCM:            ccm,
		CCMID:          hash.Hash256b(raw),
		CCMSize:        len(raw),
		SendingChainID: relay,
		StateManager:   e.ws,
		EventQueue:     eq,
	}, eq
}

func newMockModule(ctrl *gomock.Controller, name string, cmds ...CrossChainCommand) *MockCrossChainModule {
	m := NewMockCrossChainModule(ctrl)
	m.EXPECT().Name().Return(name).AnyTimes()
	m.EXPECT().CrossChainCommands().Return(cmds).AnyTimes()
	return m
}

func expectHooks(m *MockCrossChainModule) {
	m.EXPECT().VerifyCrossChainMessage(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.EXPECT().BeforeCrossChainCommandExecute(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.EXPECT().AfterCrossChainCommandExecute(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.EXPECT().BeforeCrossChainMessageForwarding(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func newMockCommand(ctrl *gomock.Controller, name string) *MockCrossChainCommand {
	cmd := NewMockCrossChainCommand(ctrl)
	cmd.EXPECT().Name().Return(name).AnyTimes()
	return cmd
}

func processedEvents(r *require.Assertions, logs []*action.Log) []*CCMProcessedEvent {
	var events []*CCMProcessedEvent
	for _, l := range logs {
		if l.Module != ModuleName || l.Name != EventNameCCMProcessed {
			continue
		}
		e := &CCMProcessedEvent{}
		r.NoError(e.Deserialize(l.Data))
		events = append(events, e)
	}
	return events
}

func countEvents(logs []*action.Log, name string) int {
	var n int
	for _, l := range logs {
		if l.Module == ModuleName && l.Name == name {
			n++
		}
	}
	return n
}

func outboxTree(ccms ...*action.CrossChainMessage) *merkle.Tree {
	t := merkle.NewTree()
	for _, ccm := range ccms {
		t.Append(hash.Hash256b(ccm.Serialize()))
	}
	return t
}

func TestNewProtocol(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	_, err := NewProtocol(genesis.Interop{ChainID: "04000000"}, nil)
	require.Error(err)
	_, err = NewProtocol(genesis.Interop{ChainID: "0400"}, NewMockTokenMethod(ctrl))
	require.Error(err)

	p, err := NewProtocol(genesis.Interop{ChainID: "04000001"}, NewMockTokenMethod(ctrl))
	require.NoError(err)
	require.Equal(ModuleName, p.Name())
	require.False(p.IsMainchain())
	require.Equal(_sidechainID, p.OwnChainID())
	require.EqualValues(LivenessLimit, p.livenessLimit)

	// the interoperability module is registered by default
	require.Error(p.RegisterModule(newInteropModule(p)))
	cmd, ok := p.modules.command(ModuleName, CrossChainCommandChannelTerminated)
	require.True(ok)
	require.Equal(CrossChainCommandChannelTerminated, cmd.Name())
	_, ok = p.modules.command(ModuleName, "unknown")
	require.False(ok)

	require.NoError(p.RegisterModule(newMockModule(ctrl, "token")))
	require.Error(p.RegisterModule(newMockModule(ctrl, "token")))
	require.Error(p.RegisterModule(newMockModule(ctrl, "bad-name")))
	dup := newMockCommand(ctrl, "transfer")
	require.Error(p.RegisterModule(newMockModule(ctrl, "nft", dup, dup)))
	require.Len(p.modules.all(), 2)
}

func TestCreateGenesisStates(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t, _mainchainID, _sidechainID, _sidechain2ID)

	own, err := ownChainAccount(e.ws)
	require.NoError(err)
	require.Equal(_mainchainID, own.ChainID)
	require.Equal("own", own.Name)
	require.Zero(own.Nonce)

	for _, id := range [][]byte{_sidechainID, _sidechain2ID} {
		acc := e.chainAccount(id)
		require.Equal(ChainStatusRegistered, acc.Status)
		require.EqualValues(10, acc.LastCertificate.Height)
		require.Equal(_genesisStateRoot, acc.LastCertificate.StateRoot)
		cv := e.validators(id)
		require.Len(cv.ActiveValidators, 4)
		require.EqualValues(_testThreshold, cv.CertificateThreshold)
		require.Equal(cv.Hash(), acc.LastCertificate.ValidatorsHash)

		channel := e.channel(id)
		require.Zero(channel.Inbox.Size)
		require.Zero(channel.Outbox.Size)
		require.Equal(hash.EmptyHash, channel.PartnerChainOutboxRoot)
		require.Equal(_feeTokenID, channel.MessageFeeTokenID)

		root, ok, err := outboxRoot(e.ws, id)
		require.NoError(err)
		require.True(ok)
		require.Equal(hash.EmptyHash, root.Root)
	}
	_, ok, err := chainAccount(e.ws, _unknownChainID)
	require.NoError(err)
	require.False(ok)

	tokenID, err := e.p.MessageFeeTokenID(e.ws, _sidechainID)
	require.NoError(err)
	require.Equal(_feeTokenID, tokenID)
	fee, err := e.p.MinReturnFeePerByte(e.ws, _sidechainID)
	require.NoError(err)
	require.EqualValues(_testMinFee, fee)
	_, err = e.p.MinReturnFeePerByte(e.ws, _unknownChainID)
	require.Equal(ErrChannelNotExist, errors.Cause(err))
}

func TestRegisterChainWithoutCertificate(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t, _mainchainID, _sidechainID)

	chain := e.p.chains[0]
	chain.Certificate = genesis.GenesisCertificate{}
	ctx := protocol.WithBlockCtx(context.Background(), protocol.BlockCtx{
		BlockTimeStamp: time.Unix(_testNow-1000, 0),
	})
	require.NoError(e.p.registerChain(e.ws, &chain, registrationTimestamp(ctx)))
	acc := e.chainAccount(_sidechainID)
	require.Equal(ChainStatusRegistered, acc.Status)
	require.Zero(acc.LastCertificate.Height)
	require.EqualValues(_testNow-1000, acc.LastCertificate.Timestamp)
	require.Equal(hash.EmptyHash, acc.LastCertificate.StateRoot)

	live, err := e.p.IsLive(e.ctx, e.ws, _sidechainID)
	require.NoError(err)
	require.True(live)

	// the first update activates the chain
	receipt := e.handle(&action.CrossChainUpdate{
		SendingChainID:       _sidechainID,
		Certificate:          e.certificate(_sidechainID, 11, hash.Hash256b([]byte("root")), e.validators(_sidechainID).Hash(), 0, 1, 2),
		CertificateThreshold: _testThreshold,
	})
	require.Equal(action.SuccessReceiptStatus, receipt.Status)
	acc = e.chainAccount(_sidechainID)
	require.Equal(ChainStatusActive, acc.Status)
	require.EqualValues(certificateTimestamp(11), acc.LastCertificate.Timestamp)
}

func TestHandleIgnoresOtherActions(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t, _mainchainID, _sidechainID)

	receipt, err := e.p.Handle(e.ctx, &otherAction{}, e.ws)
	require.NoError(err)
	require.Nil(receipt)
	require.NoError(e.p.Validate(e.ctx, &otherAction{}, e.ws))
}

type otherAction struct{}

func (otherAction) SanityCheck() error { return nil }

func (otherAction) Serialize() []byte { return nil }
