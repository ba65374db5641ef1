// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/pkg/codec"
)

type (
	// ActiveValidatorsUpdate is the diff between the stored and the new validator set
	ActiveValidatorsUpdate struct {
		BLSKeysUpdate          [][]byte
		BFTWeightsUpdate       []uint64
		BFTWeightsUpdateBitmap []byte
	}

	// OutboxRootWitness proves the partner's outbox root against a certified state root
	OutboxRootWitness struct {
		Bitmap        []byte
		SiblingHashes [][]byte
	}

	// InboxUpdate carries the messages relayed by a cross-chain update
	InboxUpdate struct {
		CrossChainMessages   [][]byte
		MessageWitnessHashes [][]byte
		OutboxRootWitness    OutboxRootWitness
	}

	// CrossChainUpdate relays a certificate, validator changes and messages from a partner chain
	CrossChainUpdate struct {
		SendingChainID         []byte
		Certificate            []byte
		ActiveValidatorsUpdate ActiveValidatorsUpdate
		CertificateThreshold   uint64
		InboxUpdate            InboxUpdate
	}
)

// IsEmpty returns true if the update changes no validator
func (u *ActiveValidatorsUpdate) IsEmpty() bool {
	return len(u.BLSKeysUpdate) == 0 && len(u.BFTWeightsUpdate) == 0 && len(u.BFTWeightsUpdateBitmap) == 0
}

// IsEmpty returns true if the update carries no message and no witness
func (u *InboxUpdate) IsEmpty() bool {
	return len(u.CrossChainMessages) == 0 &&
		len(u.MessageWitnessHashes) == 0 &&
		len(u.OutboxRootWitness.Bitmap) == 0 &&
		len(u.OutboxRootWitness.SiblingHashes) == 0
}

// Serialize returns the canonical encoding of the update
func (ccu *CrossChainUpdate) Serialize() []byte {
	validators := codec.NewWriter()
	validators.WriteBytesArray(1, ccu.ActiveValidatorsUpdate.BLSKeysUpdate)
	validators.WriteUint64Array(2, ccu.ActiveValidatorsUpdate.BFTWeightsUpdate)
	validators.WriteBytes(3, ccu.ActiveValidatorsUpdate.BFTWeightsUpdateBitmap)

	witness := codec.NewWriter()
	witness.WriteBytes(1, ccu.InboxUpdate.OutboxRootWitness.Bitmap)
	witness.WriteBytesArray(2, ccu.InboxUpdate.OutboxRootWitness.SiblingHashes)

	inbox := codec.NewWriter()
	inbox.WriteBytesArray(1, ccu.InboxUpdate.CrossChainMessages)
	inbox.WriteBytesArray(2, ccu.InboxUpdate.MessageWitnessHashes)
	inbox.WriteObject(3, witness)

	w := codec.NewWriter()
	w.WriteBytes(1, ccu.SendingChainID)
	w.WriteBytes(2, ccu.Certificate)
	w.WriteObject(3, validators)
	w.WriteUint64(4, ccu.CertificateThreshold)
	w.WriteObject(5, inbox)
	return w.Bytes()
}

// Deserialize decodes an update
func (ccu *CrossChainUpdate) Deserialize(data []byte) error {
	var (
		r   = codec.NewReader(data)
		u   CrossChainUpdate
		err error
	)
	if u.SendingChainID, err = r.ReadBytes(1); err != nil {
		return errors.Wrap(err, "failed to decode sending chain ID")
	}
	if u.Certificate, err = r.ReadBytes(2); err != nil {
		return errors.Wrap(err, "failed to decode certificate")
	}
	validators, err := r.ReadObject(3)
	if err != nil {
		return errors.Wrap(err, "failed to decode active validators update")
	}
	if err := u.ActiveValidatorsUpdate.decode(validators); err != nil {
		return errors.Wrap(err, "failed to decode active validators update")
	}
	if u.CertificateThreshold, err = r.ReadUint64(4); err != nil {
		return errors.Wrap(err, "failed to decode certificate threshold")
	}
	inbox, err := r.ReadObject(5)
	if err != nil {
		return errors.Wrap(err, "failed to decode inbox update")
	}
	if err := u.InboxUpdate.decode(inbox); err != nil {
		return errors.Wrap(err, "failed to decode inbox update")
	}
	if err := r.Close(); err != nil {
		return err
	}
	*ccu = u
	return nil
}

func (u *ActiveValidatorsUpdate) decode(r *codec.Reader) (err error) {
	if u.BLSKeysUpdate, err = r.ReadBytesArray(1); err != nil {
		return err
	}
	if u.BFTWeightsUpdate, err = r.ReadUint64Array(2); err != nil {
		return err
	}
	if u.BFTWeightsUpdateBitmap, err = r.ReadBytes(3); err != nil {
		return err
	}
	return r.Close()
}

func (u *InboxUpdate) decode(r *codec.Reader) (err error) {
	if u.CrossChainMessages, err = r.ReadBytesArray(1); err != nil {
		return err
	}
	if u.MessageWitnessHashes, err = r.ReadBytesArray(2); err != nil {
		return err
	}
	witness, err := r.ReadObject(3)
	if err != nil {
		return err
	}
	if u.OutboxRootWitness.Bitmap, err = witness.ReadBytes(1); err != nil {
		return err
	}
	if u.OutboxRootWitness.SiblingHashes, err = witness.ReadBytesArray(2); err != nil {
		return err
	}
	if err := witness.Close(); err != nil {
		return err
	}
	return r.Close()
}

// SanityCheck checks the field lengths of the update
func (ccu *CrossChainUpdate) SanityCheck() error {
	if err := checkChainID(ccu.SendingChainID); err != nil {
		return err
	}
	for _, key := range ccu.ActiveValidatorsUpdate.BLSKeysUpdate {
		if len(key) != BLSPublicKeyLength {
			return errors.Wrapf(ErrInvalidLength, "BLS key has length %d", len(key))
		}
	}
	if err := checkHashes("message witness hash", ccu.InboxUpdate.MessageWitnessHashes); err != nil {
		return err
	}
	return checkHashes("outbox root witness sibling hash", ccu.InboxUpdate.OutboxRootWitness.SiblingHashes)
}
