// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/pkg/codec"
	"github.com/iotexproject/iotex-interop/pkg/hash"
	"github.com/iotexproject/iotex-interop/pkg/merkle"
)

// ChainStatus is the lifecycle status of a partner chain
type ChainStatus uint32

// chain statuses
const (
	ChainStatusRegistered ChainStatus = iota
	ChainStatusActive
	ChainStatusTerminated
)

func (s ChainStatus) String() string {
	switch s {
	case ChainStatusRegistered:
		return "registered"
	case ChainStatusActive:
		return "active"
	case ChainStatusTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

type (
	// LastCertificate is the summary of the last certificate accepted from a chain
	LastCertificate struct {
		Height         uint32
		Timestamp      uint32
		StateRoot      []byte
		ValidatorsHash []byte
	}

	// ChainAccount is the account of a partner chain
	ChainAccount struct {
		Name            string
		LastCertificate LastCertificate
		Status          ChainStatus
	}

	// ActiveValidator is a BFT validator of a partner chain
	ActiveValidator struct {
		BLSKey    []byte
		BFTWeight uint64
	}

	// ChainValidators is the validator set certifying a partner chain
	ChainValidators struct {
		ActiveValidators     []*ActiveValidator
		CertificateThreshold uint64
	}

	// ChannelData is the inbox and outbox of the channel with a partner chain
	ChannelData struct {
		Inbox                  merkle.Tree
		Outbox                 merkle.Tree
		PartnerChainOutboxRoot []byte
		MessageFeeTokenID      []byte
		MinReturnFeePerByte    uint64
	}

	// OwnChainAccount is the account of this chain
	OwnChainAccount struct {
		Name    string
		ChainID []byte
		Nonce   uint64
	}

	// TerminatedStateAccount holds the state root a terminated chain can be recovered from
	TerminatedStateAccount struct {
		StateRoot          []byte
		MainchainStateRoot []byte
		Initialized        bool
	}

	// TerminatedOutboxAccount freezes the outbox of a terminated chain
	TerminatedOutboxAccount struct {
		OutboxRoot            []byte
		OutboxSize            uint32
		PartnerChainInboxSize uint32
	}

	// OutboxRoot is the outbox root of a channel, proven by the partner chain
	OutboxRoot struct {
		Root []byte
	}
)

// encode encodes the last certificate
func (lc *LastCertificate) encode() *codec.Writer {
	w := codec.NewWriter()
	w.WriteUint32(1, lc.Height)
	w.WriteUint32(2, lc.Timestamp)
	w.WriteBytes(3, lc.StateRoot)
	w.WriteBytes(4, lc.ValidatorsHash)
	return w
}

func (lc *LastCertificate) decode(r *codec.Reader) (err error) {
	if lc.Height, err = r.ReadUint32(1); err != nil {
		return err
	}
	if lc.Timestamp, err = r.ReadUint32(2); err != nil {
		return err
	}
	if lc.StateRoot, err = r.ReadBytes(3); err != nil {
		return err
	}
	if lc.ValidatorsHash, err = r.ReadBytes(4); err != nil {
		return err
	}
	return r.Close()
}

// Serialize serializes chain account into bytes
func (acc *ChainAccount) Serialize() ([]byte, error) {
	w := codec.NewWriter()
	w.WriteString(1, acc.Name)
	w.WriteObject(2, acc.LastCertificate.encode())
	w.WriteUint32(3, uint32(acc.Status))
	return w.Bytes(), nil
}

// Deserialize deserializes bytes into chain account
func (acc *ChainAccount) Deserialize(data []byte) error {
	var (
		r   = codec.NewReader(data)
		a   ChainAccount
		err error
	)
	if a.Name, err = r.ReadString(1); err != nil {
		return errors.Wrap(err, "failed to decode chain name")
	}
	cert, err := r.ReadObject(2)
	if err != nil {
		return errors.Wrap(err, "failed to decode last certificate")
	}
	if err := a.LastCertificate.decode(cert); err != nil {
		return errors.Wrap(err, "failed to decode last certificate")
	}
	status, err := r.ReadUint32(3)
	if err != nil {
		return errors.Wrap(err, "failed to decode chain status")
	}
	if status > uint32(ChainStatusTerminated) {
		return errors.Errorf("invalid chain status %d", status)
	}
	a.Status = ChainStatus(status)
	if err := r.Close(); err != nil {
		return err
	}
	*acc = a
	return nil
}

// Serialize serializes the validator set into bytes, the encoding is the preimage of the validators hash
func (cv *ChainValidators) Serialize() ([]byte, error) {
	validators := make([]*codec.Writer, 0, len(cv.ActiveValidators))
	for _, v := range cv.ActiveValidators {
		w := codec.NewWriter()
		w.WriteBytes(1, v.BLSKey)
		w.WriteUint64(2, v.BFTWeight)
		validators = append(validators, w)
	}
	w := codec.NewWriter()
	w.WriteObjectArray(1, validators)
	w.WriteUint64(2, cv.CertificateThreshold)
	return w.Bytes(), nil
}

// Deserialize deserializes bytes into the validator set
func (cv *ChainValidators) Deserialize(data []byte) error {
	r := codec.NewReader(data)
	objs, err := r.ReadObjectArray(1)
	if err != nil {
		return errors.Wrap(err, "failed to decode active validators")
	}
	var validators ChainValidators
	for _, obj := range objs {
		v := &ActiveValidator{}
		if v.BLSKey, err = obj.ReadBytes(1); err != nil {
			return errors.Wrap(err, "failed to decode BLS key")
		}
		if v.BFTWeight, err = obj.ReadUint64(2); err != nil {
			return errors.Wrap(err, "failed to decode BFT weight")
		}
		if err := obj.Close(); err != nil {
			return err
		}
		validators.ActiveValidators = append(validators.ActiveValidators, v)
	}
	if validators.CertificateThreshold, err = r.ReadUint64(2); err != nil {
		return errors.Wrap(err, "failed to decode certificate threshold")
	}
	if err := r.Close(); err != nil {
		return err
	}
	*cv = validators
	return nil
}

// Hash returns the validators hash a certificate commits to
func (cv *ChainValidators) Hash() []byte {
	data, _ := cv.Serialize()
	return hash.Hash256b(data)
}

// Keys returns the BLS keys and the BFT weights of the validators
func (cv *ChainValidators) Keys() ([][]byte, []uint64) {
	keys := make([][]byte, 0, len(cv.ActiveValidators))
	weights := make([]uint64, 0, len(cv.ActiveValidators))
	for _, v := range cv.ActiveValidators {
		keys = append(keys, v.BLSKey)
		weights = append(weights, v.BFTWeight)
	}
	return keys, weights
}

func encodeTree(t *merkle.Tree) *codec.Writer {
	w := codec.NewWriter()
	w.WriteBytesArray(1, t.AppendPath)
	w.WriteUint32(2, t.Size)
	w.WriteBytes(3, t.Root)
	return w
}

func decodeTree(r *codec.Reader, t *merkle.Tree) (err error) {
	if t.AppendPath, err = r.ReadBytesArray(1); err != nil {
		return err
	}
	if t.AppendPath == nil {
		t.AppendPath = [][]byte{}
	}
	if t.Size, err = r.ReadUint32(2); err != nil {
		return err
	}
	if t.Root, err = r.ReadBytes(3); err != nil {
		return err
	}
	return r.Close()
}

// NewChannelData returns a channel with empty inbox and outbox
func NewChannelData(messageFeeTokenID []byte, minReturnFeePerByte uint64) *ChannelData {
	return &ChannelData{
		Inbox:                  *merkle.NewTree(),
		Outbox:                 *merkle.NewTree(),
		PartnerChainOutboxRoot: hash.EmptyHash,
		MessageFeeTokenID:      messageFeeTokenID,
		MinReturnFeePerByte:    minReturnFeePerByte,
	}
}

// Serialize serializes channel data into bytes
func (cd *ChannelData) Serialize() ([]byte, error) {
	w := codec.NewWriter()
	w.WriteObject(1, encodeTree(&cd.Inbox))
	w.WriteObject(2, encodeTree(&cd.Outbox))
	w.WriteBytes(3, cd.PartnerChainOutboxRoot)
	w.WriteBytes(4, cd.MessageFeeTokenID)
	w.WriteUint64(5, cd.MinReturnFeePerByte)
	return w.Bytes(), nil
}

// Deserialize deserializes bytes into channel data
func (cd *ChannelData) Deserialize(data []byte) error {
	var (
		r   = codec.NewReader(data)
		c   ChannelData
		err error
	)
	inbox, err := r.ReadObject(1)
	if err != nil {
		return errors.Wrap(err, "failed to decode inbox")
	}
	if err := decodeTree(inbox, &c.Inbox); err != nil {
		return errors.Wrap(err, "failed to decode inbox")
	}
	outbox, err := r.ReadObject(2)
	if err != nil {
		return errors.Wrap(err, "failed to decode outbox")
	}
	if err := decodeTree(outbox, &c.Outbox); err != nil {
		return errors.Wrap(err, "failed to decode outbox")
	}
	if c.PartnerChainOutboxRoot, err = r.ReadBytes(3); err != nil {
		return errors.Wrap(err, "failed to decode partner chain outbox root")
	}
	if c.MessageFeeTokenID, err = r.ReadBytes(4); err != nil {
		return errors.Wrap(err, "failed to decode message fee token ID")
	}
	if c.MinReturnFeePerByte, err = r.ReadUint64(5); err != nil {
		return errors.Wrap(err, "failed to decode min return fee per byte")
	}
	if err := r.Close(); err != nil {
		return err
	}
	*cd = c
	return nil
}

// Serialize serializes own chain account into bytes
func (o *OwnChainAccount) Serialize() ([]byte, error) {
	w := codec.NewWriter()
	w.WriteString(1, o.Name)
	w.WriteBytes(2, o.ChainID)
	w.WriteUint64(3, o.Nonce)
	return w.Bytes(), nil
}

// Deserialize deserializes bytes into own chain account
func (o *OwnChainAccount) Deserialize(data []byte) error {
	var (
		r   = codec.NewReader(data)
		acc OwnChainAccount
		err error
	)
	if acc.Name, err = r.ReadString(1); err != nil {
		return err
	}
	if acc.ChainID, err = r.ReadBytes(2); err != nil {
		return err
	}
	if acc.Nonce, err = r.ReadUint64(3); err != nil {
		return err
	}
	if err := r.Close(); err != nil {
		return err
	}
	*o = acc
	return nil
}

// Serialize serializes terminated state account into bytes
func (ts *TerminatedStateAccount) Serialize() ([]byte, error) {
	w := codec.NewWriter()
	w.WriteBytes(1, ts.StateRoot)
	w.WriteBytes(2, ts.MainchainStateRoot)
	w.WriteBool(3, ts.Initialized)
	return w.Bytes(), nil
}

// Deserialize deserializes bytes into terminated state account
func (ts *TerminatedStateAccount) Deserialize(data []byte) error {
	var (
		r   = codec.NewReader(data)
		acc TerminatedStateAccount
		err error
	)
	if acc.StateRoot, err = r.ReadBytes(1); err != nil {
		return err
	}
	if acc.MainchainStateRoot, err = r.ReadBytes(2); err != nil {
		return err
	}
	if acc.Initialized, err = r.ReadBool(3); err != nil {
		return err
	}
	if err := r.Close(); err != nil {
		return err
	}
	*ts = acc
	return nil
}

// Serialize serializes terminated outbox account into bytes
func (to *TerminatedOutboxAccount) Serialize() ([]byte, error) {
	w := codec.NewWriter()
	w.WriteBytes(1, to.OutboxRoot)
	w.WriteUint32(2, to.OutboxSize)
	w.WriteUint32(3, to.PartnerChainInboxSize)
	return w.Bytes(), nil
}

// Deserialize deserializes bytes into terminated outbox account
func (to *TerminatedOutboxAccount) Deserialize(data []byte) error {
	var (
		r   = codec.NewReader(data)
		acc TerminatedOutboxAccount
		err error
	)
	if acc.OutboxRoot, err = r.ReadBytes(1); err != nil {
		return err
	}
	if acc.OutboxSize, err = r.ReadUint32(2); err != nil {
		return err
	}
	if acc.PartnerChainInboxSize, err = r.ReadUint32(3); err != nil {
		return err
	}
	if err := r.Close(); err != nil {
		return err
	}
	*to = acc
	return nil
}

// Serialize serializes outbox root into bytes
func (o *OutboxRoot) Serialize() ([]byte, error) {
	w := codec.NewWriter()
	w.WriteBytes(1, o.Root)
	return w.Bytes(), nil
}

// Deserialize deserializes bytes into outbox root
func (o *OutboxRoot) Deserialize(data []byte) error {
	r := codec.NewReader(data)
	root, err := r.ReadBytes(1)
	if err != nil {
		return err
	}
	if err := r.Close(); err != nil {
		return err
	}
	o.Root = root
	return nil
}
