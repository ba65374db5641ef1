// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/pkg/codec"
	"github.com/iotexproject/iotex-interop/pkg/hash"
)

// CrossChainMessage is an application message sent from one chain to another
type CrossChainMessage struct {
	Module            string
	CrossChainCommand string
	Nonce             uint64
	Fee               uint64
	SendingChainID    []byte
	ReceivingChainID  []byte
	Params            []byte
	Status            CCMStatus
}

// Serialize returns the canonical encoding of the message
func (ccm *CrossChainMessage) Serialize() []byte {
	w := codec.NewWriter()
	w.WriteString(1, ccm.Module)
	w.WriteString(2, ccm.CrossChainCommand)
	w.WriteUint64(3, ccm.Nonce)
	w.WriteUint64(4, ccm.Fee)
	w.WriteBytes(5, ccm.SendingChainID)
	w.WriteBytes(6, ccm.ReceivingChainID)
	w.WriteBytes(7, ccm.Params)
	w.WriteUint32(8, uint32(ccm.Status))
	return w.Bytes()
}

// Deserialize decodes a message, rejecting any non-canonical encoding
func (ccm *CrossChainMessage) Deserialize(data []byte) error {
	var (
		r   = codec.NewReader(data)
		msg CrossChainMessage
		err error
	)
	if msg.Module, err = r.ReadString(1); err != nil {
		return errors.Wrap(err, "failed to decode module")
	}
	if msg.CrossChainCommand, err = r.ReadString(2); err != nil {
		return errors.Wrap(err, "failed to decode cross-chain command")
	}
	if msg.Nonce, err = r.ReadUint64(3); err != nil {
		return errors.Wrap(err, "failed to decode nonce")
	}
	if msg.Fee, err = r.ReadUint64(4); err != nil {
		return errors.Wrap(err, "failed to decode fee")
	}
	if msg.SendingChainID, err = r.ReadBytes(5); err != nil {
		return errors.Wrap(err, "failed to decode sending chain ID")
	}
	if msg.ReceivingChainID, err = r.ReadBytes(6); err != nil {
		return errors.Wrap(err, "failed to decode receiving chain ID")
	}
	if msg.Params, err = r.ReadBytes(7); err != nil {
		return errors.Wrap(err, "failed to decode params")
	}
	status, err := r.ReadUint32(8)
	if err != nil {
		return errors.Wrap(err, "failed to decode status")
	}
	msg.Status = CCMStatus(status)
	if err := r.Close(); err != nil {
		return err
	}
	*ccm = msg
	return nil
}

// ID returns the hash of the encoded message
func (ccm *CrossChainMessage) ID() []byte {
	return hash.Hash256b(ccm.Serialize())
}

// Size returns the encoded size of the message
func (ccm *CrossChainMessage) Size() int {
	return len(ccm.Serialize())
}

// ValidateFormat checks the field bounds, the names and the encoded size
func (ccm *CrossChainMessage) ValidateFormat() error {
	if !IsValidName(ccm.Module, MinModuleNameLength, MaxModuleNameLength) {
		return errors.Wrapf(ErrInvalidName, "module name %q must be alphanumeric", ccm.Module)
	}
	if !IsValidName(ccm.CrossChainCommand, MinCrossChainCommandNameLength, MaxCrossChainCommandNameLength) {
		return errors.Wrapf(ErrInvalidName, "cross-chain command name %q must be alphanumeric", ccm.CrossChainCommand)
	}
	if err := checkChainID(ccm.SendingChainID); err != nil {
		return errors.Wrap(err, "sending chain")
	}
	if err := checkChainID(ccm.ReceivingChainID); err != nil {
		return errors.Wrap(err, "receiving chain")
	}
	if size := ccm.Size(); size > MaxCCMSize {
		return errors.Wrapf(ErrMessageTooLong, "size %d exceeds %d", size, MaxCCMSize)
	}
	return nil
}

// Clone returns a deep copy of the message
func (ccm *CrossChainMessage) Clone() *CrossChainMessage {
	c := *ccm
	c.SendingChainID = bytes.Clone(ccm.SendingChainID)
	c.ReceivingChainID = bytes.Clone(ccm.ReceivingChainID)
	c.Params = bytes.Clone(ccm.Params)
	return &c
}
