// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"bytes"
	"context"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/action"
	"github.com/iotexproject/iotex-interop/action/protocol"
	"github.com/iotexproject/iotex-interop/pkg/hash"
	"github.com/iotexproject/iotex-interop/pkg/merkle"
	"github.com/iotexproject/iotex-interop/pkg/smt"
)

// ErrInvalidInclusionProof indicates the relayed messages are not in the partner outbox
var ErrInvalidInclusionProof = errors.New("invalid inclusion proof")

// appendToInboxTree appends an encoded message to the inbox of the channel with chainID
func (p *Protocol) appendToInboxTree(sm protocol.StateManager, chainID []byte, ccm []byte) error {
	channel, err := p.ChannelData(sm, chainID)
	if err != nil {
		return err
	}
	channel.Inbox.Append(hash.Hash256b(ccm))
	return putChannelData(sm, chainID, channel)
}

// addToOutbox appends a message to the outbox of the channel with chainID and refreshes its outbox root
func (p *Protocol) addToOutbox(sm protocol.StateManager, chainID []byte, ccm *action.CrossChainMessage) error {
	channel, err := p.ChannelData(sm, chainID)
	if err != nil {
		return err
	}
	channel.Outbox.Append(hash.Hash256b(ccm.Serialize()))
	if err := putChannelData(sm, chainID, channel); err != nil {
		return err
	}
	return putOutboxRoot(sm, chainID, channel.Outbox.Root)
}

// verifyOutboxRootWitness checks the relayed messages extend the inbox up to
// the outbox root of the partner chain. Without a certificate the root must be
// the last proven one, otherwise it is proven against the certified state root.
func (p *Protocol) verifyOutboxRootWitness(sr protocol.StateReader, ccu *action.CrossChainUpdate, cert *action.Certificate) error {
	channel, err := p.ChannelData(sr, ccu.SendingChainID)
	if err != nil {
		return err
	}
	inbox := channel.Inbox.Clone()
	for _, ccm := range ccu.InboxUpdate.CrossChainMessages {
		inbox.Append(hash.Hash256b(ccm))
	}
	root, err := merkle.CalculateRootFromRightWitness(inbox.Size, inbox.AppendPath, ccu.InboxUpdate.MessageWitnessHashes)
	if err != nil {
		return errors.Wrap(ErrInvalidInclusionProof, err.Error())
	}
	witness := ccu.InboxUpdate.OutboxRootWitness
	if cert == nil {
		if len(witness.Bitmap) != 0 || len(witness.SiblingHashes) != 0 {
			return errors.Wrap(ErrInvalidInclusionProof, "outbox root witness must be empty without a certificate")
		}
		if !bytes.Equal(root, channel.PartnerChainOutboxRoot) {
			return errors.Wrap(ErrInvalidInclusionProof, "inbox does not match the partner chain outbox root")
		}
		return nil
	}
	if len(witness.Bitmap) == 0 && len(witness.SiblingHashes) == 0 {
		return errors.Wrap(ErrInvalidInclusionProof, "outbox root witness cannot be empty with a certificate")
	}
	value, err := (&OutboxRoot{Root: root}).Serialize()
	if err != nil {
		return err
	}
	key := StateTreeKey(ModuleName, SubstorePrefixOutboxRoot, p.ownChainID)
	ok, err := smt.Verify(cert.StateRoot, [][]byte{key}, &smt.Proof{
		SiblingHashes: witness.SiblingHashes,
		Queries: []*smt.Query{{
			Key:    key,
			Value:  hash.Hash256b(value),
			Bitmap: witness.Bitmap,
		}},
	})
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrap(ErrInvalidInclusionProof, "outbox root is not in the certified state")
	}
	return nil
}

// updatePartnerChainOutboxRoot records the partner outbox root implied by the inbox and the message witness
func (p *Protocol) updatePartnerChainOutboxRoot(sm protocol.StateManager, chainID []byte, witnessHashes [][]byte) error {
	channel, err := p.ChannelData(sm, chainID)
	if err != nil {
		return err
	}
	root, err := merkle.CalculateRootFromRightWitness(channel.Inbox.Size, channel.Inbox.AppendPath, witnessHashes)
	if err != nil {
		return err
	}
	channel.PartnerChainOutboxRoot = root
	return putChannelData(sm, chainID, channel)
}

// Send emits a cross-chain message to the receiving chain, charging the fee to the sender
func (p *Protocol) Send(
	ctx context.Context,
	sm protocol.StateManager,
	eq *action.EventQueue,
	sender address.Address,
	module string,
	command string,
	receivingChainID []byte,
	fee uint64,
	status action.CCMStatus,
	params []byte,
) error {
	if sender == nil {
		return errors.New("sender is nil")
	}
	return p.send(ctx, sm, eq, sender, module, command, receivingChainID, fee, status, params)
}

// sendInternal emits a protocol message, free of charge and regardless of the liveness of the receiver
func (p *Protocol) sendInternal(
	ctx context.Context,
	sm protocol.StateManager,
	eq *action.EventQueue,
	receivingChainID []byte,
	module string,
	command string,
	status action.CCMStatus,
	params []byte,
) error {
	return p.send(ctx, sm, eq, nil, module, command, receivingChainID, 0, status, params)
}

func (p *Protocol) send(
	ctx context.Context,
	sm protocol.StateManager,
	eq *action.EventQueue,
	sender address.Address,
	module string,
	command string,
	receivingChainID []byte,
	fee uint64,
	status action.CCMStatus,
	params []byte,
) error {
	if bytes.Equal(receivingChainID, p.ownChainID) {
		return errors.New("cannot send a cross-chain message to own chain")
	}
	partner, err := p.partnerChainID(sm, receivingChainID)
	if err != nil {
		return err
	}
	if _, ok, err := channelData(sm, partner); err != nil {
		return err
	} else if !ok {
		return errors.Wrapf(ErrChannelNotExist, "no channel to chain %x", receivingChainID)
	}
	own, err := ownChainAccount(sm)
	if err != nil {
		return err
	}
	ccm := &action.CrossChainMessage{
		Module:            module,
		CrossChainCommand: command,
		Nonce:             own.Nonce,
		Fee:               fee,
		SendingChainID:    p.ownChainID,
		ReceivingChainID:  receivingChainID,
		Params:            params,
		Status:            status,
	}
	if err := ccm.ValidateFormat(); err != nil {
		return err
	}
	if sender != nil {
		live, err := p.IsLive(ctx, sm, partner)
		if err != nil {
			return err
		}
		if !live {
			return errors.Wrapf(ErrChainNotLive, "chain %x", partner)
		}
		if err := p.token.PayMessageFee(ctx, sm, sender, fee, receivingChainID); err != nil {
			return errors.Wrap(err, "failed to pay message fee")
		}
	}
	if err := p.addToOutbox(sm, partner, ccm); err != nil {
		return err
	}
	own.Nonce++
	if err := putOwnChainAccount(sm, own); err != nil {
		return err
	}
	emitCCMSendSuccess(eq, ccm)
	return nil
}
