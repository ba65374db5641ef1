// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"bytes"
	"math"
	"sort"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/action"
	"github.com/iotexproject/iotex-interop/action/protocol"
)

var (
	// ErrInvalidValidators indicates the validator set or its update is malformed
	ErrInvalidValidators = errors.New("invalid validators")
)

// isBitmapSet reads the bitmap as a big-endian integer and returns its bit i
func isBitmapSet(bitmap []byte, i int) bool {
	idx := len(bitmap) - 1 - i/8
	if idx < 0 {
		return false
	}
	return (bitmap[idx]>>uint(i%8))&1 == 1
}

// CalculateNewActiveValidators applies a validators update to the current set.
// The update covers the sorted union of current and updated keys: every set
// bit of the bitmap assigns the next weight to the key at that position, a
// zero weight removes the key.
func CalculateNewActiveValidators(current []*ActiveValidator, blsKeysUpdate [][]byte, bftWeightsUpdate []uint64, bitmap []byte) ([]*ActiveValidator, error) {
	weights := make(map[string]uint64, len(current)+len(blsKeysUpdate))
	keys := make([][]byte, 0, len(current)+len(blsKeysUpdate))
	for _, v := range current {
		k := string(v.BLSKey)
		if _, ok := weights[k]; ok {
			continue
		}
		weights[k] = v.BFTWeight
		keys = append(keys, v.BLSKey)
	}
	added := make(map[string]bool, len(blsKeysUpdate))
	for _, key := range blsKeysUpdate {
		k := string(key)
		if _, ok := weights[k]; ok || added[k] {
			continue
		}
		added[k] = true
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i], keys[j]) < 0
	})
	if len(bitmap)*8 > len(keys)+7 {
		return nil, errors.Wrapf(ErrInvalidValidators, "bitmap of %d bytes for %d keys", len(bitmap), len(keys))
	}
	for i := len(keys); i < len(bitmap)*8; i++ {
		if isBitmapSet(bitmap, i) {
			return nil, errors.Wrapf(ErrInvalidValidators, "bit %d is set beyond %d keys", i, len(keys))
		}
	}

	set := 0
	for i := range keys {
		if isBitmapSet(bitmap, i) {
			set++
		}
	}
	if set != len(bftWeightsUpdate) {
		return nil, errors.Wrapf(ErrInvalidValidators, "No BFT weights should be left, %d bits set for %d weights", set, len(bftWeightsUpdate))
	}

	next := 0
	for i, key := range keys {
		if !isBitmapSet(bitmap, i) {
			if added[string(key)] {
				delete(weights, string(key))
			}
			continue
		}
		weights[string(key)] = bftWeightsUpdate[next]
		next++
	}

	validators := make([]*ActiveValidator, 0, len(keys))
	for _, key := range keys {
		w, ok := weights[string(key)]
		if !ok || w == 0 {
			continue
		}
		validators = append(validators, &ActiveValidator{
			BLSKey:    key,
			BFTWeight: w,
		})
	}
	return validators, nil
}

// validateValidatorSet checks the size of the set, its total weight and the certificate threshold
func validateValidatorSet(cv *ChainValidators) error {
	if len(cv.ActiveValidators) < 1 || len(cv.ActiveValidators) > MaxNumValidators {
		return errors.Wrapf(ErrInvalidValidators, "number of validators %d is out of [1, %d]", len(cv.ActiveValidators), MaxNumValidators)
	}
	total := uint256.NewInt(0)
	for i, v := range cv.ActiveValidators {
		if len(v.BLSKey) != action.BLSPublicKeyLength {
			return errors.Wrapf(ErrInvalidValidators, "BLS key has length %d", len(v.BLSKey))
		}
		if i > 0 && bytes.Compare(cv.ActiveValidators[i-1].BLSKey, v.BLSKey) >= 0 {
			return errors.Wrap(ErrInvalidValidators, "BLS keys must be sorted and unique")
		}
		if v.BFTWeight == 0 {
			return errors.Wrap(ErrInvalidValidators, "BFT weight must be positive")
		}
		total.Add(total, uint256.NewInt(v.BFTWeight))
	}
	if total.GtUint64(math.MaxUint64) {
		return errors.Wrap(ErrInvalidValidators, "total BFT weight exceeds the maximum")
	}
	minThreshold := new(uint256.Int).Div(total, uint256.NewInt(3))
	minThreshold.AddUint64(minThreshold, 1)
	threshold := uint256.NewInt(cv.CertificateThreshold)
	if threshold.Lt(minThreshold) {
		return errors.Wrapf(ErrInvalidValidators, "certificate threshold %d is below %d", cv.CertificateThreshold, minThreshold.Uint64())
	}
	if threshold.Gt(total) {
		return errors.Wrapf(ErrInvalidValidators, "certificate threshold %d exceeds total weight %d", cv.CertificateThreshold, total.Uint64())
	}
	return nil
}

func needsValidatorsUpdate(ccu *action.CrossChainUpdate, current *ChainValidators) bool {
	return !ccu.ActiveValidatorsUpdate.IsEmpty() || ccu.CertificateThreshold != current.CertificateThreshold
}

func newChainValidators(ccu *action.CrossChainUpdate, current *ChainValidators) (*ChainValidators, error) {
	update := ccu.ActiveValidatorsUpdate
	validators, err := CalculateNewActiveValidators(current.ActiveValidators, update.BLSKeysUpdate, update.BFTWeightsUpdate, update.BFTWeightsUpdateBitmap)
	if err != nil {
		return nil, err
	}
	return &ChainValidators{
		ActiveValidators:     validators,
		CertificateThreshold: ccu.CertificateThreshold,
	}, nil
}

// verifyValidatorsUpdate checks the validators update of a cross-chain update against the certificate
func verifyValidatorsUpdate(ccu *action.CrossChainUpdate, cert *action.Certificate, current *ChainValidators) error {
	if cert == nil {
		return errors.Wrap(ErrInvalidValidators, "certificate cannot be empty when validators are updated")
	}
	update := ccu.ActiveValidatorsUpdate
	for i := 1; i < len(update.BLSKeysUpdate); i++ {
		if bytes.Compare(update.BLSKeysUpdate[i-1], update.BLSKeysUpdate[i]) >= 0 {
			return errors.Wrap(ErrInvalidValidators, "keys are not sorted in lexicographic order")
		}
	}
	existing := make(map[string]struct{}, len(current.ActiveValidators))
	for _, v := range current.ActiveValidators {
		existing[string(v.BLSKey)] = struct{}{}
	}
	next, err := newChainValidators(ccu, current)
	if err != nil {
		return err
	}
	inNext := make(map[string]struct{}, len(next.ActiveValidators))
	for _, v := range next.ActiveValidators {
		inNext[string(v.BLSKey)] = struct{}{}
	}
	for _, key := range update.BLSKeysUpdate {
		if _, ok := existing[string(key)]; ok {
			return errors.Wrapf(ErrInvalidValidators, "BLS key %x is already a validator", key)
		}
		if _, ok := inNext[string(key)]; !ok {
			return errors.Wrapf(ErrInvalidValidators, "new validator %x must have a positive BFT weight", key)
		}
	}
	if err := validateValidatorSet(next); err != nil {
		return err
	}
	if !bytes.Equal(cert.ValidatorsHash, next.Hash()) {
		return errors.Wrap(ErrInvalidValidators, "validatorsHash in certificate and the computed values do not match")
	}
	return nil
}

func (p *Protocol) updateValidators(sm protocol.StateManager, ccu *action.CrossChainUpdate) error {
	current, err := chainValidators(sm, ccu.SendingChainID)
	if err != nil {
		return err
	}
	if !needsValidatorsUpdate(ccu, current) {
		return nil
	}
	next, err := newChainValidators(ccu, current)
	if err != nil {
		return err
	}
	return putChainValidators(sm, ccu.SendingChainID, next)
}
