// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-interop/action"
)

func counterValue(require *require.Assertions, c prometheus.Counter) float64 {
	m := &dto.Metric{}
	require.NoError(c.Write(m))
	return m.GetCounter().GetValue()
}

func TestReceiptMetricsSkipRevertedEvents(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t, _mainchainID, _sidechainID)

	terminated := _chainStatusMtc.WithLabelValues(ChainStatusTerminated.String())
	discarded := _ccmProcessedMtc.WithLabelValues(
		CCMProcessedResultDiscarded.String(),
		strconv.Itoa(int(CCMProcessedCodeInvalidCCMVerifyCCMException)),
	)
	terminatedBefore := counterValue(require, terminated)
	discardedBefore := counterValue(require, discarded)

	acc := e.chainAccount(_sidechainID)
	acc.Status = ChainStatusTerminated
	ccm := &action.CrossChainMessage{
		Module:           ModuleName,
		SendingChainID:   _sidechainID,
		ReceivingChainID: _mainchainID,
	}

	// Case I: reverted events are not counted
	eq := action.NewEventQueue()
	snapshot := eq.Snapshot()
	require.NoError(emitChainAccountUpdated(eq, _sidechainID, acc))
	emitCCMProcessed(eq, _sidechainID, _mainchainID, ccm.ID(), ccm, CCMProcessedResultDiscarded, CCMProcessedCodeInvalidCCMVerifyCCMException)
	require.NoError(eq.Revert(snapshot))
	receipt := e.p.createReceipt(e.ctx, action.FailureReceiptStatus, eq)
	require.Empty(receipt.Logs)
	require.Equal(terminatedBefore, counterValue(require, terminated))
	require.Equal(discardedBefore, counterValue(require, discarded))

	// Case II: events in the receipt are counted once
	require.NoError(emitChainAccountUpdated(eq, _sidechainID, acc))
	emitCCMProcessed(eq, _sidechainID, _mainchainID, ccm.ID(), ccm, CCMProcessedResultDiscarded, CCMProcessedCodeInvalidCCMVerifyCCMException)
	receipt = e.p.createReceipt(e.ctx, action.SuccessReceiptStatus, eq)
	require.Len(receipt.Logs, 2)
	require.Equal(terminatedBefore+1, counterValue(require, terminated))
	require.Equal(discardedBefore+1, counterValue(require, discarded))
}
