// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/iotexproject/iotex-interop/action"
	"github.com/iotexproject/iotex-interop/action/protocol"
)

// bounce returns a failed message to its sender with the given status. A
// message that is itself a bounce, or that cannot pay for the way back, is
// discarded instead.
func (p *Protocol) bounce(ctx context.Context, mctx *MessageContext, status action.CCMStatus, code CCMProcessedCode) error {
	var (
		ccm = mctx.CCM
		sm  = mctx.StateManager
		eq  = mctx.EventQueue
	)
	channel, err := p.ChannelData(sm, mctx.SendingChainID)
	if err != nil {
		return err
	}
	minFee := new(uint256.Int).Mul(uint256.NewInt(uint64(mctx.CCMSize)), uint256.NewInt(channel.MinReturnFeePerByte))
	if ccm.Status != action.CCMStatusOK || minFee.Gt(uint256.NewInt(ccm.Fee)) {
		emitCCMProcessed(eq, ccm.SendingChainID, ccm.ReceivingChainID, mctx.CCMID, ccm, CCMProcessedResultDiscarded, code)
		return nil
	}

	bounced := ccm.Clone()
	bounced.SendingChainID, bounced.ReceivingChainID = ccm.ReceivingChainID, ccm.SendingChainID
	bounced.Fee = 0
	bounced.Status = status
	partner, err := p.bouncePartner(sm, ccm)
	if err != nil {
		return err
	}
	if err := p.addToOutbox(sm, partner, bounced); err != nil {
		return err
	}
	emitCCMProcessed(eq, ccm.SendingChainID, ccm.ReceivingChainID, mctx.CCMID, ccm, CCMProcessedResultBounced, code)
	emitCCMSendSuccess(eq, bounced)
	return nil
}

// bouncePartner returns the chain whose outbox carries a bounced message back to the sender of ccm
func (p *Protocol) bouncePartner(sr protocol.StateReader, ccm *action.CrossChainMessage) ([]byte, error) {
	candidates := [][]byte{
		ccm.SendingChainID,
		action.MainchainID(ccm.ReceivingChainID),
		action.MainchainID(ccm.SendingChainID),
	}
	for _, chainID := range candidates {
		_, ok, err := chainAccount(sr, chainID)
		if err != nil {
			return nil, err
		}
		if ok {
			return chainID, nil
		}
	}
	return candidates[len(candidates)-1], nil
}
