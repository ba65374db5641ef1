// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"context"

	"github.com/iotexproject/iotex-interop/action"
)

// forward relays a message between two sidechains through the outbox of the receiving chain
func (p *Protocol) forward(ctx context.Context, mctx *MessageContext) error {
	ok, err := p.verifyCCM(ctx, mctx)
	if err != nil || !ok {
		return err
	}
	var (
		ccm = mctx.CCM
		sm  = mctx.StateManager
	)
	receiver, exist, err := chainAccount(sm, ccm.ReceivingChainID)
	if err != nil {
		return err
	}
	live := false
	if exist {
		if live, err = p.IsLive(ctx, sm, ccm.ReceivingChainID); err != nil {
			return err
		}
	}
	if !exist || receiver.Status != ChainStatusActive || !live {
		if exist && receiver.Status == ChainStatusActive && !live {
			if err := p.terminateChainInternal(ctx, sm, mctx.EventQueue, ccm.ReceivingChainID); err != nil {
				return err
			}
		}
		if err := p.notifySidechainTerminated(ctx, mctx); err != nil {
			return err
		}
		return p.bounce(ctx, mctx, action.CCMStatusChannelUnavailable, CCMProcessedCodeChannelUnavailable)
	}

	snap := takeSnapshot(mctx)
	for _, m := range p.modules.all() {
		if err := m.BeforeCrossChainMessageForwarding(ctx, mctx); err != nil {
			if err := snap.revert(mctx); err != nil {
				return err
			}
			return p.discard(ctx, mctx, CCMProcessedCodeInvalidCCMBeforeCCCForwardingException, err)
		}
	}
	if err := p.addToOutbox(sm, ccm.ReceivingChainID, ccm); err != nil {
		return err
	}
	emitCCMProcessed(mctx.EventQueue, ccm.SendingChainID, ccm.ReceivingChainID, mctx.CCMID, ccm, CCMProcessedResultForwarded, CCMProcessedCodeSuccess)
	return nil
}

// notifySidechainTerminated tells the sender of a message its receiving chain is terminated
func (p *Protocol) notifySidechainTerminated(ctx context.Context, mctx *MessageContext) error {
	var (
		ccm = mctx.CCM
		sm  = mctx.StateManager
	)
	ts, terminated, err := terminatedStateAccount(sm, ccm.ReceivingChainID)
	if err != nil || !terminated {
		return err
	}
	params := &SidechainTerminatedParams{
		ChainID:   ccm.ReceivingChainID,
		StateRoot: ts.StateRoot,
	}
	return p.sendInternal(ctx, sm, mctx.EventQueue, ccm.SendingChainID, ModuleName, CrossChainCommandSidechainTerminated, action.CCMStatusOK, params.Serialize())
}
