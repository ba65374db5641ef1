// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/action"
	"github.com/iotexproject/iotex-interop/action/protocol"
	"github.com/iotexproject/iotex-interop/crypto/bls"
)

// ErrInvalidCertificate indicates the certificate cannot be accepted
var ErrInvalidCertificate = errors.New("invalid certificate")

func decodeCertificate(data []byte) (*action.Certificate, error) {
	if len(data) == 0 {
		return nil, nil
	}
	cert := &action.Certificate{}
	if err := cert.Deserialize(data); err != nil {
		return nil, errors.Wrap(ErrInvalidCertificate, err.Error())
	}
	return cert, nil
}

// verifyCertificate checks a certificate against the last certificate of the chain
func verifyCertificate(cert *action.Certificate, acc *ChainAccount, now uint32) error {
	if err := cert.SanityCheck(); err != nil {
		return errors.Wrap(ErrInvalidCertificate, err.Error())
	}
	if cert.Height <= acc.LastCertificate.Height {
		return errors.Wrapf(ErrInvalidCertificate, "height %d is not greater than last certificate height %d", cert.Height, acc.LastCertificate.Height)
	}
	if cert.Timestamp <= acc.LastCertificate.Timestamp {
		return errors.Wrapf(ErrInvalidCertificate, "timestamp %d is not greater than last certificate timestamp %d", cert.Timestamp, acc.LastCertificate.Timestamp)
	}
	if cert.Timestamp >= now {
		return errors.Wrapf(ErrInvalidCertificate, "timestamp %d is not before block timestamp %d", cert.Timestamp, now)
	}
	return nil
}

// verifyCertificateSignature checks the certificate carries enough signatures of the stored validators
func verifyCertificateSignature(sr protocol.StateReader, chainID []byte, cert *action.Certificate) error {
	validators, err := chainValidators(sr, chainID)
	if err != nil {
		return err
	}
	keys, weights := validators.Keys()
	if !bls.VerifyWeightedAggSig(
		keys,
		cert.AggregationBits,
		cert.Signature,
		MessageTagCertificate,
		chainID,
		weights,
		validators.CertificateThreshold,
		cert.SigningBytes(),
	) {
		return errors.Wrapf(ErrInvalidCertificateSignature, "chain %x at height %d", chainID, cert.Height)
	}
	return nil
}

// updateCertificate records the certificate as the last one of the chain, activating a registered chain
func (p *Protocol) updateCertificate(sm protocol.StateManager, eq *action.EventQueue, chainID []byte, cert *action.Certificate) error {
	acc, err := p.ChainAccount(sm, chainID)
	if err != nil {
		return err
	}
	acc.LastCertificate = LastCertificate{
		Height:         cert.Height,
		Timestamp:      cert.Timestamp,
		StateRoot:      cert.StateRoot,
		ValidatorsHash: cert.ValidatorsHash,
	}
	if acc.Status == ChainStatusRegistered {
		acc.Status = ChainStatusActive
	}
	if err := putChainAccount(sm, chainID, acc); err != nil {
		return err
	}
	return emitChainAccountUpdated(eq, chainID, acc)
}
