// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/pkg/codec"
)

// Certificate attests a block of a partner chain, signed by its validators
type Certificate struct {
	BlockID         []byte
	Height          uint32
	Timestamp       uint32
	StateRoot       []byte
	ValidatorsHash  []byte
	AggregationBits []byte
	Signature       []byte
}

func (c *Certificate) unsigned() *codec.Writer {
	w := codec.NewWriter()
	w.WriteBytes(1, c.BlockID)
	w.WriteUint32(2, c.Height)
	w.WriteUint32(3, c.Timestamp)
	w.WriteBytes(4, c.StateRoot)
	w.WriteBytes(5, c.ValidatorsHash)
	return w
}

// SigningBytes returns the encoding of the certificate without aggregation bits and signature
func (c *Certificate) SigningBytes() []byte {
	return c.unsigned().Bytes()
}

// Serialize returns the canonical encoding of the certificate
func (c *Certificate) Serialize() []byte {
	w := c.unsigned()
	w.WriteBytes(6, c.AggregationBits)
	w.WriteBytes(7, c.Signature)
	return w.Bytes()
}

// Deserialize decodes a certificate
func (c *Certificate) Deserialize(data []byte) error {
	var (
		r    = codec.NewReader(data)
		cert Certificate
		err  error
	)
	if cert.BlockID, err = r.ReadBytes(1); err != nil {
		return errors.Wrap(err, "failed to decode block ID")
	}
	if cert.Height, err = r.ReadUint32(2); err != nil {
		return errors.Wrap(err, "failed to decode height")
	}
	if cert.Timestamp, err = r.ReadUint32(3); err != nil {
		return errors.Wrap(err, "failed to decode timestamp")
	}
	if cert.StateRoot, err = r.ReadBytes(4); err != nil {
		return errors.Wrap(err, "failed to decode state root")
	}
	if cert.ValidatorsHash, err = r.ReadBytes(5); err != nil {
		return errors.Wrap(err, "failed to decode validators hash")
	}
	if cert.AggregationBits, err = r.ReadBytes(6); err != nil {
		return errors.Wrap(err, "failed to decode aggregation bits")
	}
	if cert.Signature, err = r.ReadBytes(7); err != nil {
		return errors.Wrap(err, "failed to decode signature")
	}
	if err := r.Close(); err != nil {
		return err
	}
	*c = cert
	return nil
}

// SanityCheck checks the field lengths of a signed certificate
func (c *Certificate) SanityCheck() error {
	if err := checkHash("block ID", c.BlockID); err != nil {
		return err
	}
	if err := checkHash("state root", c.StateRoot); err != nil {
		return err
	}
	if err := checkHash("validators hash", c.ValidatorsHash); err != nil {
		return err
	}
	if len(c.Signature) != BLSSignatureLength {
		return errors.Wrapf(ErrInvalidLength, "signature has length %d", len(c.Signature))
	}
	return nil
}
