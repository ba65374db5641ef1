// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotexproject/iotex-interop/action"
	"github.com/iotexproject/iotex-interop/pkg/codec"
)

// event names
const (
	EventNameCCMProcessed                = "ccmProcessed"
	EventNameCCMSendSuccess              = "ccmSendSuccess"
	EventNameChainAccountUpdated         = "chainAccountUpdated"
	EventNameTerminatedStateCreated      = "terminatedStateCreated"
	EventNameTerminatedOutboxCreated     = "terminatedOutboxCreated"
	EventNameInvalidSMTVerification      = "invalidSMTVerification"
	EventNameInvalidCertificateSignature = "invalidCertificateSignature"
)

// CCMProcessedResult is the fate of a processed cross-chain message
type CCMProcessedResult uint32

// processed results
const (
	CCMProcessedResultApplied CCMProcessedResult = iota
	CCMProcessedResultForwarded
	CCMProcessedResultBounced
	CCMProcessedResultDiscarded
)

func (r CCMProcessedResult) String() string {
	switch r {
	case CCMProcessedResultApplied:
		return "applied"
	case CCMProcessedResultForwarded:
		return "forwarded"
	case CCMProcessedResultBounced:
		return "bounced"
	case CCMProcessedResultDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// CCMProcessedCode tells why a cross-chain message ended up with its result
type CCMProcessedCode uint32

// processed codes
const (
	CCMProcessedCodeSuccess CCMProcessedCode = iota
	CCMProcessedCodeChannelUnavailable
	CCMProcessedCodeModuleNotSupported
	CCMProcessedCodeCrossChainCommandNotSupported
	CCMProcessedCodeFailedCCM
	CCMProcessedCodeInvalidCCMValidateException
	CCMProcessedCodeInvalidCCMVerifyCCMException
	CCMProcessedCodeInvalidCCMBeforeCCCExecutionException
	CCMProcessedCodeInvalidCCMAfterCCCExecutionException
	CCMProcessedCodeInvalidCCMDecodingException
	CCMProcessedCodeInvalidCCMBeforeCCCForwardingException
	CCMProcessedCodeInvalidCCMRoutingException
)

// CCMProcessedEvent is the data of a ccmProcessed event
type CCMProcessedEvent struct {
	CCM    *action.CrossChainMessage
	Result CCMProcessedResult
	Code   CCMProcessedCode
}

// Serialize encodes the event data
func (e *CCMProcessedEvent) Serialize() []byte {
	w := codec.NewWriter()
	w.WriteBytes(1, e.CCM.Serialize())
	w.WriteUint32(2, uint32(e.Result))
	w.WriteUint32(3, uint32(e.Code))
	return w.Bytes()
}

// Deserialize decodes the event data
func (e *CCMProcessedEvent) Deserialize(data []byte) error {
	r := codec.NewReader(data)
	raw, err := r.ReadBytes(1)
	if err != nil {
		return err
	}
	ccm := &action.CrossChainMessage{}
	if err := ccm.Deserialize(raw); err != nil {
		return errors.Wrap(err, "failed to decode processed message")
	}
	result, err := r.ReadUint32(2)
	if err != nil {
		return err
	}
	code, err := r.ReadUint32(3)
	if err != nil {
		return err
	}
	if err := r.Close(); err != nil {
		return err
	}
	e.CCM, e.Result, e.Code = ccm, CCMProcessedResult(result), CCMProcessedCode(code)
	return nil
}

var (
	_ccmProcessedMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iotex_interop_ccm_processed",
			Help: "Cross-chain messages processed, by result and code",
		},
		[]string{"result", "code"},
	)
	_chainStatusMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iotex_interop_chain_account_updated",
			Help: "Chain account updates, by resulting status",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(_ccmProcessedMtc)
	prometheus.MustRegister(_chainStatusMtc)
}

// recordMetrics counts the message results and the chain account updates of the final receipt logs
func recordMetrics(logs []*action.Log) {
	for _, l := range logs {
		if l.Module != ModuleName {
			continue
		}
		switch l.Name {
		case EventNameCCMProcessed:
			e := &CCMProcessedEvent{}
			if err := e.Deserialize(l.Data); err != nil {
				continue
			}
			_ccmProcessedMtc.WithLabelValues(e.Result.String(), strconv.Itoa(int(e.Code))).Inc()
		case EventNameChainAccountUpdated:
			acc := &ChainAccount{}
			if err := acc.Deserialize(l.Data); err != nil {
				continue
			}
			_chainStatusMtc.WithLabelValues(acc.Status.String()).Inc()
		}
	}
}

// emitCCMProcessed records the fate of a message. Messages that failed to
// decode are reported with an empty message under the chain pair it came from.
func emitCCMProcessed(eq *action.EventQueue, sendingChainID, receivingChainID, ccmID []byte, ccm *action.CrossChainMessage, result CCMProcessedResult, code CCMProcessedCode) {
	if ccm == nil {
		ccm = &action.CrossChainMessage{}
	}
	e := &CCMProcessedEvent{CCM: ccm, Result: result, Code: code}
	eq.Add(ModuleName, EventNameCCMProcessed, e.Serialize(), sendingChainID, receivingChainID, ccmID)
}

func emitCCMSendSuccess(eq *action.EventQueue, ccm *action.CrossChainMessage) {
	data := ccm.Serialize()
	eq.Add(ModuleName, EventNameCCMSendSuccess, data, ccm.SendingChainID, ccm.ReceivingChainID, ccm.ID())
}

func emitChainAccountUpdated(eq *action.EventQueue, chainID []byte, acc *ChainAccount) error {
	data, err := acc.Serialize()
	if err != nil {
		return err
	}
	eq.Add(ModuleName, EventNameChainAccountUpdated, data, chainID)
	return nil
}
