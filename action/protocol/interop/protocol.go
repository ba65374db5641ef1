// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"bytes"
	"context"
	"encoding/hex"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-interop/action"
	"github.com/iotexproject/iotex-interop/action/protocol"
	"github.com/iotexproject/iotex-interop/blockchain/genesis"
	"github.com/iotexproject/iotex-interop/pkg/log"
)

const (
	// ModuleName is the name of the interoperability module
	ModuleName = protocol.InteroperabilityProtocolID
	// MessageTagCertificate is the tag of the message signed by certificate signers
	MessageTagCertificate = "LSK_CE_"
	// MaxNumValidators is the maximum size of a validator set
	MaxNumValidators = 199
	// LivenessLimit is the default number of seconds a chain may go without a new certificate
	LivenessLimit = 2592000
)

var (
	// RecoveredStoreValue replaces the value of a recovered entry in the terminated state root
	RecoveredStoreValue = bytes.Repeat([]byte{0x01}, 32)

	// ErrInvalidCrossChainUpdate indicates a cross-chain update fails verification
	ErrInvalidCrossChainUpdate = errors.New("invalid cross-chain update")
	// ErrInvalidCertificateSignature indicates the certificate is not signed by enough validators
	ErrInvalidCertificateSignature = errors.New("certificate is not signed by the validators")
	// ErrInvalidStateRecovery indicates a state recovery fails verification
	ErrInvalidStateRecovery = errors.New("invalid state recovery")
	// ErrInvalidTermination indicates the chain cannot be terminated
	ErrInvalidTermination = errors.New("invalid chain termination")
	// ErrChannelNotExist indicates there is no channel with the chain
	ErrChannelNotExist = errors.New("channel does not exist")
	// ErrChainNotLive indicates the chain violated the liveness requirement
	ErrChainNotLive = errors.New("chain is not live")
)

// Protocol verifies and executes cross-chain updates, and manages the partner chains of this chain
type Protocol struct {
	ownChainID    []byte
	ownChainName  string
	mainchainID   []byte
	isMainchain   bool
	livenessLimit uint32
	chains        []genesis.Chain
	token         TokenMethod
	modules       *moduleRegistry
	logger        *zap.Logger
}

// NewProtocol instantiates the interoperability protocol
func NewProtocol(cfg genesis.Interop, token TokenMethod) (*Protocol, error) {
	if token == nil {
		return nil, errors.New("token method is nil")
	}
	ownChainID, err := cfg.OwnChainID()
	if err != nil {
		return nil, err
	}
	limit := cfg.LivenessLimit
	if limit == 0 {
		limit = LivenessLimit
	}
	p := &Protocol{
		ownChainID:    ownChainID,
		ownChainName:  cfg.ChainName,
		mainchainID:   action.MainchainID(ownChainID),
		isMainchain:   cfg.IsMainchain(),
		livenessLimit: limit,
		chains:        cfg.Chains,
		token:         token,
		modules:       newModuleRegistry(),
		logger:        log.Logger("interop"),
	}
	if err := p.modules.register(newInteropModule(p)); err != nil {
		return nil, err
	}
	return p, nil
}

// Name returns the name of protocol
func (p *Protocol) Name() string {
	return ModuleName
}

// RegisterModule adds a module to the cross-chain message dispatch
func (p *Protocol) RegisterModule(m CrossChainModule) error {
	return p.modules.register(m)
}

// OwnChainID returns the ID of this chain
func (p *Protocol) OwnChainID() []byte {
	return p.ownChainID
}

// IsMainchain returns true if this chain is the mainchain
func (p *Protocol) IsMainchain() bool {
	return p.isMainchain
}

// Validate verifies an interoperability action against the current state
func (p *Protocol) Validate(ctx context.Context, act action.Action, sr protocol.StateReader) error {
	switch act := act.(type) {
	case *action.CrossChainUpdate:
		return p.verifyCrossChainUpdate(ctx, sr, act)
	case *action.StateRecovery:
		return p.verifyStateRecovery(ctx, sr, act)
	case *action.StateRecoveryInitialization:
		return p.verifyStateRecoveryInitialization(ctx, sr, act)
	case *action.TerminateSidechainForLiveness:
		return p.verifyTerminateSidechainForLiveness(ctx, sr, act)
	}
	return nil
}

// Handle executes an interoperability action. Actions are expected to have
// passed Validate against the same state.
func (p *Protocol) Handle(ctx context.Context, act action.Action, sm protocol.StateManager) (*action.Receipt, error) {
	var (
		eq     = action.NewEventQueue()
		status uint64
		err    error
	)
	switch act := act.(type) {
	case *action.CrossChainUpdate:
		status, err = p.handleCrossChainUpdate(ctx, sm, eq, act)
	case *action.StateRecovery:
		status, err = p.handleStateRecovery(ctx, sm, eq, act)
	case *action.StateRecoveryInitialization:
		status, err = p.handleStateRecoveryInitialization(ctx, sm, eq, act)
	case *action.TerminateSidechainForLiveness:
		status, err = p.handleTerminateSidechainForLiveness(ctx, sm, eq, act)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.createReceipt(ctx, status, eq), nil
}

func (p *Protocol) createReceipt(ctx context.Context, status uint64, eq *action.EventQueue) *action.Receipt {
	blkCtx := protocol.MustGetBlockCtx(ctx)
	actCtx := protocol.MustGetActionCtx(ctx)
	receipt := &action.Receipt{
		Status:      status,
		BlockHeight: blkCtx.BlockHeight,
		ActionHash:  actCtx.ActionHash,
	}
	logs := eq.Logs()
	recordMetrics(logs)
	return receipt.AddLogs(logs...)
}

// MessageFeeTokenID returns the token message fees to the chain are paid in
func (p *Protocol) MessageFeeTokenID(sr protocol.StateReader, chainID []byte) ([]byte, error) {
	channel, err := p.partnerChannel(sr, chainID)
	if err != nil {
		return nil, err
	}
	return channel.MessageFeeTokenID, nil
}

// MinReturnFeePerByte returns the fee per byte a message from the chain must pay to be bounced
func (p *Protocol) MinReturnFeePerByte(sr protocol.StateReader, chainID []byte) (uint64, error) {
	channel, err := p.partnerChannel(sr, chainID)
	if err != nil {
		return 0, err
	}
	return channel.MinReturnFeePerByte, nil
}

// ChainAccount returns the account of a partner chain
func (p *Protocol) ChainAccount(sr protocol.StateReader, chainID []byte) (*ChainAccount, error) {
	acc, ok, err := chainAccount(sr, chainID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Errorf("chain account %x does not exist", chainID)
	}
	return acc, nil
}

// ChannelData returns the channel with a partner chain
func (p *Protocol) ChannelData(sr protocol.StateReader, chainID []byte) (*ChannelData, error) {
	channel, ok, err := channelData(sr, chainID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrChannelNotExist, "chain %x", chainID)
	}
	return channel, nil
}

// partnerChannel returns the channel messages to the chain go through
func (p *Protocol) partnerChannel(sr protocol.StateReader, chainID []byte) (*ChannelData, error) {
	partner, err := p.partnerChainID(sr, chainID)
	if err != nil {
		return nil, err
	}
	return p.ChannelData(sr, partner)
}

// partnerChainID returns the chain a message to chainID is delivered to. A
// sidechain reaches chains it has no account for through the mainchain.
func (p *Protocol) partnerChainID(sr protocol.StateReader, chainID []byte) ([]byte, error) {
	if p.isMainchain {
		return chainID, nil
	}
	_, ok, err := chainAccount(sr, chainID)
	if err != nil {
		return nil, err
	}
	if ok {
		return chainID, nil
	}
	return p.mainchainID, nil
}

func hexID(id []byte) string {
	return hex.EncodeToString(id)
}
