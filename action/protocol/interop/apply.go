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
)

type snapshot struct {
	state  int
	events int
}

func takeSnapshot(mctx *MessageContext) snapshot {
	return snapshot{
		state:  mctx.StateManager.Snapshot(),
		events: mctx.EventQueue.Snapshot(),
	}
}

func (s snapshot) revert(mctx *MessageContext) error {
	if err := mctx.StateManager.Revert(s.state); err != nil {
		return err
	}
	return mctx.EventQueue.Revert(s.events)
}

// discard terminates the chain the message comes from and drops the message
func (p *Protocol) discard(ctx context.Context, mctx *MessageContext, code CCMProcessedCode, cause error) error {
	ccm := mctx.CCM
	p.logger.Warn("Discarded cross-chain message.",
		zap.String("sendingChainID", hexID(ccm.SendingChainID)),
		zap.String("ccmID", hexID(mctx.CCMID)),
		zap.Uint32("code", uint32(code)),
		zap.Error(cause))
	if err := p.terminateChainInternal(ctx, mctx.StateManager, mctx.EventQueue, ccm.SendingChainID); err != nil {
		return err
	}
	emitCCMProcessed(mctx.EventQueue, ccm.SendingChainID, ccm.ReceivingChainID, mctx.CCMID, ccm, CCMProcessedResultDiscarded, code)
	return nil
}

// verifyCCM checks the sending chain of the message is live and every module accepts the message.
// A rejected message is discarded and false is returned.
func (p *Protocol) verifyCCM(ctx context.Context, mctx *MessageContext) (bool, error) {
	live, err := p.IsLive(ctx, mctx.StateManager, mctx.CCM.SendingChainID)
	if err != nil {
		return false, err
	}
	cause := errors.Wrapf(ErrChainNotLive, "chain %x", mctx.CCM.SendingChainID)
	if live {
		cause = nil
		for _, m := range p.modules.all() {
			if err := m.VerifyCrossChainMessage(ctx, mctx); err != nil {
				cause = errors.Wrapf(err, "module %s rejected the message", m.Name())
				break
			}
		}
	}
	if cause == nil {
		return true, nil
	}
	return false, p.discard(ctx, mctx, CCMProcessedCodeInvalidCCMVerifyCCMException, cause)
}

// apply executes a message addressed to this chain
func (p *Protocol) apply(ctx context.Context, mctx *MessageContext) error {
	ok, err := p.verifyCCM(ctx, mctx)
	if err != nil || !ok {
		return err
	}
	ccm := mctx.CCM
	base := takeSnapshot(mctx)
	for _, m := range p.modules.all() {
		if err := m.BeforeCrossChainCommandExecute(ctx, mctx); err != nil {
			if err := base.revert(mctx); err != nil {
				return err
			}
			return p.discard(ctx, mctx, CCMProcessedCodeInvalidCCMBeforeCCCExecutionException, err)
		}
	}

	if _, ok := p.modules.module(ccm.Module); !ok {
		return p.afterExecuteThenBounce(ctx, mctx, base, action.CCMStatusModuleNotSupported, CCMProcessedCodeModuleNotSupported)
	}
	cmd, ok := p.modules.command(ccm.Module, ccm.CrossChainCommand)
	if !ok {
		return p.afterExecuteThenBounce(ctx, mctx, base, action.CCMStatusCrossChainCommandNotSupported, CCMProcessedCodeCrossChainCommandNotSupported)
	}
	// a chain with an account here must send its messages directly
	if !bytes.Equal(ccm.SendingChainID, mctx.SendingChainID) {
		_, ok, err := chainAccount(mctx.StateManager, ccm.SendingChainID)
		if err != nil {
			return err
		}
		if ok {
			return p.afterExecuteThenBounce(ctx, mctx, base, action.CCMStatusFailedCCM, CCMProcessedCodeFailedCCM)
		}
	}
	if err := cmd.Verify(ctx, mctx); err != nil {
		if err := base.revert(mctx); err != nil {
			return err
		}
		return p.discard(ctx, mctx, CCMProcessedCodeInvalidCCMVerifyCCMException, err)
	}

	exec := takeSnapshot(mctx)
	if err := cmd.Execute(ctx, mctx); err != nil {
		p.logger.Info("Cross-chain command failed.",
			zap.String("module", ccm.Module),
			zap.String("command", ccm.CrossChainCommand),
			zap.Error(err))
		if err := exec.revert(mctx); err != nil {
			return err
		}
		return p.afterExecuteThenBounce(ctx, mctx, base, action.CCMStatusFailedCCM, CCMProcessedCodeFailedCCM)
	}
	ok, err = p.afterExecute(ctx, mctx, base)
	if err != nil || !ok {
		return err
	}
	emitCCMProcessed(mctx.EventQueue, ccm.SendingChainID, ccm.ReceivingChainID, mctx.CCMID, ccm, CCMProcessedResultApplied, CCMProcessedCodeSuccess)
	return nil
}

// afterExecute runs the after hooks of every module. If one fails, everything
// since base is reverted, the message is discarded and false is returned.
func (p *Protocol) afterExecute(ctx context.Context, mctx *MessageContext, base snapshot) (bool, error) {
	for _, m := range p.modules.all() {
		if err := m.AfterCrossChainCommandExecute(ctx, mctx); err != nil {
			if err := base.revert(mctx); err != nil {
				return false, err
			}
			return false, p.discard(ctx, mctx, CCMProcessedCodeInvalidCCMAfterCCCExecutionException, err)
		}
	}
	return true, nil
}

func (p *Protocol) afterExecuteThenBounce(ctx context.Context, mctx *MessageContext, base snapshot, status action.CCMStatus, code CCMProcessedCode) error {
	ok, err := p.afterExecute(ctx, mctx, base)
	if err != nil || !ok {
		return err
	}
	return p.bounce(ctx, mctx, status, code)
}
