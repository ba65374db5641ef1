// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"bytes"
	"context"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-interop/action/protocol"
	"github.com/iotexproject/iotex-interop/blockchain/genesis"
	"github.com/iotexproject/iotex-interop/pkg/hash"
)

// CreateGenesisStates writes the own chain account and the partner chains registered in genesis
func (p *Protocol) CreateGenesisStates(ctx context.Context, sm protocol.StateManager) error {
	if err := putOwnChainAccount(sm, &OwnChainAccount{
		Name:    p.ownChainName,
		ChainID: p.ownChainID,
	}); err != nil {
		return err
	}
	registeredAt := registrationTimestamp(ctx)
	for i := range p.chains {
		if err := p.registerChain(sm, &p.chains[i], registeredAt); err != nil {
			return errors.Wrapf(err, "failed to register chain %s", p.chains[i].ChainID)
		}
	}
	return nil
}

// registrationTimestamp is the block timestamp chains are registered at, the genesis timestamp outside of a block
func registrationTimestamp(ctx context.Context) uint32 {
	if blkCtx, ok := protocol.GetBlockCtx(ctx); ok {
		return uint32(blkCtx.BlockTimeStamp.Unix())
	}
	return uint32(genesis.Timestamp())
}

// registerChain writes the stores of a partner chain. A chain registered without a certificate
// starts its liveness window at registeredAt.
func (p *Protocol) registerChain(sm protocol.StateManager, chain *genesis.Chain, registeredAt uint32) error {
	chainID, err := chain.ID()
	if err != nil {
		return err
	}
	if bytes.Equal(chainID, p.ownChainID) {
		return errors.New("cannot register own chain")
	}
	feeTokenID, err := chain.FeeTokenID()
	if err != nil {
		return err
	}
	stateRoot, err := chain.StateRoot()
	if err != nil {
		return err
	}
	keys, weights, err := chain.ValidatorKeys()
	if err != nil {
		return err
	}
	validators := &ChainValidators{CertificateThreshold: chain.CertificateThreshold}
	for i := range keys {
		validators.ActiveValidators = append(validators.ActiveValidators, &ActiveValidator{
			BLSKey:    keys[i],
			BFTWeight: weights[i],
		})
	}
	sort.Slice(validators.ActiveValidators, func(i, j int) bool {
		return bytes.Compare(validators.ActiveValidators[i].BLSKey, validators.ActiveValidators[j].BLSKey) < 0
	})
	if err := validateValidatorSet(validators); err != nil {
		return err
	}
	certTimestamp := chain.Certificate.Timestamp
	if certTimestamp == 0 {
		certTimestamp = registeredAt
	}
	acc := &ChainAccount{
		Name: chain.Name,
		LastCertificate: LastCertificate{
			Height:         chain.Certificate.Height,
			Timestamp:      certTimestamp,
			StateRoot:      stateRoot,
			ValidatorsHash: validators.Hash(),
		},
		Status: ChainStatusRegistered,
	}
	if err := putChainAccount(sm, chainID, acc); err != nil {
		return err
	}
	if err := putChainValidators(sm, chainID, validators); err != nil {
		return err
	}
	if err := putChannelData(sm, chainID, NewChannelData(feeTokenID, chain.MinReturnFeePerByte)); err != nil {
		return err
	}
	if err := putOutboxRoot(sm, chainID, hash.EmptyHash); err != nil {
		return err
	}
	p.logger.Info("Registered partner chain.",
		zap.String("chainID", chain.ChainID),
		zap.String("name", chain.Name),
		zap.Int("validators", len(keys)))
	return nil
}
