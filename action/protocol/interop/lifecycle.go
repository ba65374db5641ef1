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
)

func blockTimestamp(ctx context.Context) uint32 {
	return uint32(protocol.MustGetBlockCtx(ctx).BlockTimeStamp.Unix())
}

// IsLive returns true if the chain may still exchange messages at the time of the current block
func (p *Protocol) IsLive(ctx context.Context, sr protocol.StateReader, chainID []byte) (bool, error) {
	return p.isLiveAt(sr, chainID, blockTimestamp(ctx))
}

func (p *Protocol) isLiveAt(sr protocol.StateReader, chainID []byte, now uint32) (bool, error) {
	_, terminated, err := terminatedStateAccount(sr, chainID)
	if err != nil {
		return false, err
	}
	if terminated {
		return false, nil
	}
	acc, ok, err := chainAccount(sr, chainID)
	if err != nil {
		return false, err
	}
	if !ok {
		// a sidechain only learns about other sidechains through the mainchain
		return !p.isMainchain, nil
	}
	if acc.Status == ChainStatusTerminated {
		return false, nil
	}
	return int64(now)-int64(acc.LastCertificate.Timestamp) < int64(p.livenessLimit), nil
}

// terminateChainInternal notifies the chain its channel is closed and freezes its state.
// Terminating a terminated chain does nothing.
func (p *Protocol) terminateChainInternal(ctx context.Context, sm protocol.StateManager, eq *action.EventQueue, chainID []byte) error {
	_, terminated, err := terminatedStateAccount(sm, chainID)
	if err != nil {
		return err
	}
	if terminated {
		return nil
	}
	if err := p.sendInternal(ctx, sm, eq, chainID, ModuleName, CrossChainCommandChannelTerminated, action.CCMStatusOK, nil); err != nil {
		return err
	}
	if err := p.createTerminatedStateAccount(sm, eq, chainID, nil); err != nil {
		return err
	}
	p.logger.Info("Terminated chain.", zap.String("chainID", hexID(chainID)))
	return nil
}

// createTerminatedStateAccount records the state root a terminated chain can be recovered
// from. stateRoot defaults to the last certified root of the chain; a sidechain with
// neither leaves it to be proven against the mainchain state root.
func (p *Protocol) createTerminatedStateAccount(sm protocol.StateManager, eq *action.EventQueue, chainID []byte, stateRoot []byte) error {
	var ts *TerminatedStateAccount
	acc, ok, err := chainAccount(sm, chainID)
	if err != nil {
		return err
	}
	switch {
	case ok:
		acc.Status = ChainStatusTerminated
		if err := putChainAccount(sm, chainID, acc); err != nil {
			return err
		}
		if err := emitChainAccountUpdated(eq, chainID, acc); err != nil {
			return err
		}
		if len(stateRoot) == 0 {
			stateRoot = acc.LastCertificate.StateRoot
		}
		ts = &TerminatedStateAccount{
			StateRoot:          stateRoot,
			MainchainStateRoot: hash.EmptyHash,
			Initialized:        true,
		}
		if err := p.createTerminatedOutboxAccount(sm, eq, chainID); err != nil {
			return err
		}
	case len(stateRoot) > 0:
		ts = &TerminatedStateAccount{
			StateRoot:          stateRoot,
			MainchainStateRoot: hash.EmptyHash,
			Initialized:        true,
		}
	case !p.isMainchain:
		mainchain, err := p.ChainAccount(sm, p.mainchainID)
		if err != nil {
			return err
		}
		ts = &TerminatedStateAccount{
			StateRoot:          hash.EmptyHash,
			MainchainStateRoot: mainchain.LastCertificate.StateRoot,
			Initialized:        false,
		}
	default:
		return errors.Wrapf(ErrInvalidTermination, "Chain to be terminated is not valid: %x", chainID)
	}
	if err := putTerminatedStateAccount(sm, chainID, ts); err != nil {
		return err
	}
	eq.Add(ModuleName, EventNameTerminatedStateCreated, nil, chainID)
	return nil
}

// createTerminatedOutboxAccount freezes the outbox of the channel with the chain
func (p *Protocol) createTerminatedOutboxAccount(sm protocol.StateManager, eq *action.EventQueue, chainID []byte) error {
	if _, ok, err := terminatedOutboxAccount(sm, chainID); err != nil || ok {
		return err
	}
	channel, ok, err := channelData(sm, chainID)
	if err != nil || !ok {
		return err
	}
	if err := putTerminatedOutboxAccount(sm, chainID, &TerminatedOutboxAccount{
		OutboxRoot: channel.Outbox.Root,
		OutboxSize: channel.Outbox.Size,
	}); err != nil {
		return err
	}
	eq.Add(ModuleName, EventNameTerminatedOutboxCreated, nil, chainID)
	return nil
}

// TerminatedOutboxUpdate lists the fields of a terminated outbox to overwrite, nil fields are kept
type TerminatedOutboxUpdate struct {
	OutboxRoot            []byte
	OutboxSize            *uint32
	PartnerChainInboxSize *uint32
}

// SetTerminatedOutboxAccount updates the frozen outbox of a terminated chain.
// It returns false if the chain has no terminated outbox.
func (p *Protocol) SetTerminatedOutboxAccount(sm protocol.StateManager, chainID []byte, update TerminatedOutboxUpdate) (bool, error) {
	to, ok, err := terminatedOutboxAccount(sm, chainID)
	if err != nil || !ok {
		return false, err
	}
	if update.OutboxRoot != nil {
		if len(update.OutboxRoot) != action.HashLength {
			return false, errors.Errorf("invalid outbox root length %d", len(update.OutboxRoot))
		}
		to.OutboxRoot = update.OutboxRoot
	}
	if update.OutboxSize != nil {
		to.OutboxSize = *update.OutboxSize
	}
	if update.PartnerChainInboxSize != nil {
		to.PartnerChainInboxSize = *update.PartnerChainInboxSize
	}
	if err := putTerminatedOutboxAccount(sm, chainID, to); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Protocol) verifyTerminateSidechainForLiveness(ctx context.Context, sr protocol.StateReader, act *action.TerminateSidechainForLiveness) error {
	if !p.isMainchain {
		return errors.Wrap(ErrInvalidTermination, "only the mainchain terminates sidechains for liveness")
	}
	if bytes.Equal(act.ChainID, p.ownChainID) {
		return errors.Wrap(ErrInvalidTermination, "cannot terminate own chain")
	}
	acc, ok, err := chainAccount(sr, act.ChainID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrInvalidTermination, "chain %x is not registered", act.ChainID)
	}
	if acc.Status == ChainStatusTerminated {
		return errors.Wrap(ErrInvalidTermination, "sidechain is already terminated")
	}
	if acc.Status != ChainStatusActive {
		return errors.Wrap(ErrInvalidTermination, "sidechain is not active")
	}
	live, err := p.IsLive(ctx, sr, act.ChainID)
	if err != nil {
		return err
	}
	if live {
		return errors.Wrap(ErrInvalidTermination, "sidechain did not violate the liveness condition")
	}
	return nil
}

func (p *Protocol) handleTerminateSidechainForLiveness(ctx context.Context, sm protocol.StateManager, eq *action.EventQueue, act *action.TerminateSidechainForLiveness) (uint64, error) {
	if err := p.terminateChainInternal(ctx, sm, eq, act.ChainID); err != nil {
		return action.FailureReceiptStatus, err
	}
	return action.SuccessReceiptStatus, nil
}
