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

// verifyCrossChainUpdate runs the checks of a cross-chain update that do not need the certificate signature
func (p *Protocol) verifyCrossChainUpdate(ctx context.Context, sr protocol.StateReader, ccu *action.CrossChainUpdate) error {
	if bytes.Equal(ccu.SendingChainID, p.ownChainID) {
		return errors.Wrap(ErrInvalidCrossChainUpdate, "sending chain cannot be own chain")
	}
	if !p.isMainchain && !bytes.Equal(ccu.SendingChainID, p.mainchainID) {
		return errors.Wrap(ErrInvalidCrossChainUpdate, "only the mainchain can send a cross-chain update to a sidechain")
	}
	if len(ccu.Certificate) == 0 && ccu.InboxUpdate.IsEmpty() {
		return errors.Wrap(ErrInvalidCrossChainUpdate, "certificate and inbox update cannot both be empty")
	}
	acc, ok, err := chainAccount(sr, ccu.SendingChainID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrInvalidCrossChainUpdate, "chain account %x does not exist", ccu.SendingChainID)
	}
	now := blockTimestamp(ctx)
	live, err := p.isLiveAt(sr, ccu.SendingChainID, now)
	if err != nil {
		return err
	}
	if !live {
		return errors.Wrapf(ErrInvalidCrossChainUpdate, "sending chain %x is not live", ccu.SendingChainID)
	}
	if acc.Status == ChainStatusRegistered && len(ccu.Certificate) == 0 {
		return errors.Wrap(ErrInvalidCrossChainUpdate, "the first cross-chain update must contain a certificate")
	}
	cert, err := decodeCertificate(ccu.Certificate)
	if err != nil {
		return err
	}
	if cert != nil {
		if err := verifyCertificate(cert, acc, now); err != nil {
			return err
		}
	}
	validators, err := chainValidators(sr, ccu.SendingChainID)
	if err != nil {
		return err
	}
	if needsValidatorsUpdate(ccu, validators) {
		if err := verifyValidatorsUpdate(ccu, cert, validators); err != nil {
			return err
		}
	} else if cert != nil && !bytes.Equal(cert.ValidatorsHash, validators.Hash()) {
		return errors.Wrap(ErrInvalidCertificate, "validators hash does not match the current validators")
	}
	if !ccu.InboxUpdate.IsEmpty() {
		return p.verifyOutboxRootWitness(sr, ccu, cert)
	}
	return nil
}

// handleCrossChainUpdate checks the certificate signature, then applies or forwards every relayed message
func (p *Protocol) handleCrossChainUpdate(ctx context.Context, sm protocol.StateManager, eq *action.EventQueue, ccu *action.CrossChainUpdate) (uint64, error) {
	snapshot := sm.Snapshot()
	cert, err := decodeCertificate(ccu.Certificate)
	if err != nil {
		return action.FailureReceiptStatus, err
	}
	if cert != nil {
		if err := verifyCertificateSignature(sm, ccu.SendingChainID, cert); err != nil {
			if errors.Cause(err) != ErrInvalidCertificateSignature {
				return action.FailureReceiptStatus, err
			}
			if err := sm.Revert(snapshot); err != nil {
				return action.FailureReceiptStatus, err
			}
			eq.Add(ModuleName, EventNameInvalidCertificateSignature, nil, ccu.SendingChainID)
			p.logger.Warn("Rejected cross-chain update.", zap.String("chainID", hexID(ccu.SendingChainID)), zap.Error(err))
			return action.FailureReceiptStatus, nil
		}
	}
	msgs, ok, err := p.executeCommon(ctx, sm, eq, ccu, cert)
	if err != nil {
		return action.FailureReceiptStatus, err
	}
	if !ok {
		return action.SuccessReceiptStatus, nil
	}
	for _, mctx := range msgs {
		if err := p.appendToInboxTree(sm, ccu.SendingChainID, mctx.raw); err != nil {
			return action.FailureReceiptStatus, err
		}
		if bytes.Equal(mctx.CCM.ReceivingChainID, p.ownChainID) {
			err = p.apply(ctx, &mctx.MessageContext)
		} else {
			err = p.forward(ctx, &mctx.MessageContext)
		}
		if err != nil {
			return action.FailureReceiptStatus, err
		}
	}
	if err := p.afterExecuteCommon(sm, eq, ccu, cert); err != nil {
		return action.FailureReceiptStatus, err
	}
	return action.SuccessReceiptStatus, nil
}

type relayedMessage struct {
	MessageContext
	raw []byte
}

// executeCommon checks the relayed messages can be processed. When the
// update carries a message that breaks the protocol, the sending chain is
// terminated and false is returned.
func (p *Protocol) executeCommon(ctx context.Context, sm protocol.StateManager, eq *action.EventQueue, ccu *action.CrossChainUpdate, cert *action.Certificate) ([]*relayedMessage, bool, error) {
	if ccu.InboxUpdate.IsEmpty() {
		return nil, true, nil
	}
	if err := p.verifyOutboxRootWitness(sm, ccu, cert); err != nil {
		if errors.Cause(err) != ErrInvalidInclusionProof {
			return nil, false, err
		}
		p.logger.Warn("Skipped relayed messages.", zap.String("chainID", hexID(ccu.SendingChainID)), zap.Error(err))
		return nil, false, nil
	}
	tokenID, err := p.MessageFeeTokenID(sm, ccu.SendingChainID)
	if err != nil {
		return nil, false, err
	}
	if err := p.token.InitializeUserAccount(ctx, sm, protocol.MustGetActionCtx(ctx).Caller, tokenID); err != nil {
		return nil, false, errors.Wrap(err, "failed to initialize relayer account")
	}

	msgs := make([]*relayedMessage, 0, len(ccu.InboxUpdate.CrossChainMessages))
	for _, raw := range ccu.InboxUpdate.CrossChainMessages {
		var (
			ccmID = hash.Hash256b(raw)
			ccm   = &action.CrossChainMessage{}
			code  CCMProcessedCode
			cause error
		)
		if err := ccm.Deserialize(raw); err != nil {
			code, cause, ccm = CCMProcessedCodeInvalidCCMDecodingException, err, nil
		} else if err := ccm.ValidateFormat(); err != nil {
			code, cause = CCMProcessedCodeInvalidCCMValidateException, err
		} else if err := p.verifyRouting(ccu, ccm); err != nil {
			code, cause = CCMProcessedCodeInvalidCCMRoutingException, err
		}
		if cause != nil {
			p.logger.Warn("Invalid relayed message.",
				zap.String("chainID", hexID(ccu.SendingChainID)),
				zap.String("ccmID", hexID(ccmID)),
				zap.Error(cause))
			if err := p.terminateChainInternal(ctx, sm, eq, ccu.SendingChainID); err != nil {
				return nil, false, err
			}
			emitCCMProcessed(eq, ccu.SendingChainID, p.ownChainID, ccmID, ccm, CCMProcessedResultDiscarded, code)
			return nil, false, nil
		}
		msgs = append(msgs, &relayedMessage{
			MessageContext: MessageContext{
				CCM:            ccm,
				CCMID:          ccmID,
				CCMSize:        len(raw),
				SendingChainID: ccu.SendingChainID,
				StateManager:   sm,
				EventQueue:     eq,
			},
			raw: raw,
		})
	}
	return msgs, true, nil
}

// verifyRouting checks the message may be relayed by the sending chain of the update
func (p *Protocol) verifyRouting(ccu *action.CrossChainUpdate, ccm *action.CrossChainMessage) error {
	if bytes.Equal(ccm.SendingChainID, ccm.ReceivingChainID) {
		return errors.New("sending and receiving chains must differ")
	}
	if p.isMainchain {
		if !bytes.Equal(ccm.SendingChainID, ccu.SendingChainID) {
			return errors.New("message must originate from the sending chain of the update")
		}
		if ccm.Status == action.CCMStatusChannelUnavailable {
			return errors.New("only the mainchain sets the channel unavailable status")
		}
		return nil
	}
	if !bytes.Equal(ccm.ReceivingChainID, p.ownChainID) {
		return errors.New("message is not directed to this chain")
	}
	return nil
}

// afterExecuteCommon commits the validators, the certificate and the partner outbox root of the update
func (p *Protocol) afterExecuteCommon(sm protocol.StateManager, eq *action.EventQueue, ccu *action.CrossChainUpdate, cert *action.Certificate) error {
	if err := p.updateValidators(sm, ccu); err != nil {
		return err
	}
	if cert == nil {
		return nil
	}
	if err := p.updateCertificate(sm, eq, ccu.SendingChainID, cert); err != nil {
		return err
	}
	if ccu.InboxUpdate.IsEmpty() {
		return nil
	}
	return p.updatePartnerChainOutboxRoot(sm, ccu.SendingChainID, ccu.InboxUpdate.MessageWitnessHashes)
}
