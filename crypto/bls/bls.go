// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package bls

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	blst "github.com/supranational/blst/bindings/go"
)

const (
	// PublicKeyLength is the length of a compressed public key
	PublicKeyLength = 48
	// SignatureLength is the length of a compressed signature
	SignatureLength = 96
)

type (
	publicKey          = blst.P1Affine
	signature          = blst.P2Affine
	aggregateSignature = blst.P2Aggregate
)

var (
	// proof-of-possession ciphersuite, public keys in G1
	_dst = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

	// ErrInvalidKey indicates a secret or public key is malformed
	ErrInvalidKey = errors.New("invalid BLS key")
	// ErrInvalidSignature indicates a signature is malformed
	ErrInvalidSignature = errors.New("invalid BLS signature")
)

// SecretKey is a BLS secret key
type SecretKey struct {
	sk *blst.SecretKey
}

// GenerateKey derives a secret key from at least 32 bytes of key material
func GenerateKey(ikm []byte) (*SecretKey, error) {
	if len(ikm) < 32 {
		return nil, errors.Wrapf(ErrInvalidKey, "key material of %d bytes", len(ikm))
	}
	sk := blst.KeyGen(ikm)
	if sk == nil {
		return nil, ErrInvalidKey
	}
	return &SecretKey{sk: sk}, nil
}

// PublicKey returns the compressed public key
func (k *SecretKey) PublicKey() []byte {
	return new(publicKey).From(k.sk).Compress()
}

// Sign signs msg and returns the compressed signature
func (k *SecretKey) Sign(msg []byte) []byte {
	return new(signature).Sign(k.sk, msg, _dst).Compress()
}

// TagMessage prefixes msg with the tag and the chain ID it is bound to
func TagMessage(tag string, chainID, msg []byte) []byte {
	tagged := make([]byte, 0, len(tag)+len(chainID)+len(msg))
	tagged = append(tagged, tag...)
	tagged = append(tagged, chainID...)
	return append(tagged, msg...)
}

// AggregateSignatures combines compressed signatures into one
func AggregateSignatures(sigs [][]byte) ([]byte, error) {
	if len(sigs) == 0 {
		return nil, errors.Wrap(ErrInvalidSignature, "nothing to aggregate")
	}
	agg := new(aggregateSignature)
	if !agg.AggregateCompressed(sigs, true) {
		return nil, ErrInvalidSignature
	}
	return agg.ToAffine().Compress(), nil
}

// Verify verifies a single signature
func Verify(pubKey, msg, sig []byte) bool {
	pk, s, err := decode([][]byte{pubKey}, sig)
	if err != nil {
		return false
	}
	return s.Verify(false, pk[0], false, msg, _dst)
}

// FastAggregateVerify verifies an aggregate signature of the same message
func FastAggregateVerify(pubKeys [][]byte, msg, sig []byte) bool {
	if len(pubKeys) == 0 {
		return false
	}
	pks, s, err := decode(pubKeys, sig)
	if err != nil {
		return false
	}
	return s.FastAggregateVerify(false, pks, msg, _dst)
}

// CreateAggregationBits returns the bit vector selecting signers out of n keys
func CreateAggregationBits(n int, signers ...int) []byte {
	bits := make([]byte, (n+7)/8)
	for _, i := range signers {
		if i >= 0 && i < n {
			bits[i/8] |= 1 << uint(i%8)
		}
	}
	return bits
}

// IsBitSet returns bit i of the aggregation bits, least significant bit first
func IsBitSet(bits []byte, i int) bool {
	if i/8 >= len(bits) {
		return false
	}
	return (bits[i/8]>>uint(i%8))&1 == 1
}

// VerifyWeightedAggSig checks that the keys selected by aggregationBits carry
// at least threshold weight and that their aggregate signature of the tagged
// message is valid
func VerifyWeightedAggSig(
	keys [][]byte,
	aggregationBits []byte,
	sig []byte,
	tag string,
	chainID []byte,
	weights []uint64,
	threshold uint64,
	msg []byte,
) bool {
	if len(keys) != len(weights) || len(aggregationBits) != (len(keys)+7)/8 {
		return false
	}
	var (
		signers = make([][]byte, 0, len(keys))
		total   = uint256.NewInt(0)
	)
	for i := range keys {
		if !IsBitSet(aggregationBits, i) {
			continue
		}
		signers = append(signers, keys[i])
		total.Add(total, uint256.NewInt(weights[i]))
	}
	// bits beyond the key list must be clear
	for i := len(keys); i < len(aggregationBits)*8; i++ {
		if IsBitSet(aggregationBits, i) {
			return false
		}
	}
	if total.Lt(uint256.NewInt(threshold)) {
		return false
	}
	return FastAggregateVerify(signers, TagMessage(tag, chainID, msg), sig)
}

func decode(pubKeys [][]byte, sig []byte) ([]*publicKey, *signature, error) {
	if len(sig) != SignatureLength {
		return nil, nil, ErrInvalidSignature
	}
	s := new(signature).Uncompress(sig)
	if s == nil || !s.SigValidate(false) {
		return nil, nil, ErrInvalidSignature
	}
	pks := make([]*publicKey, 0, len(pubKeys))
	for _, b := range pubKeys {
		if len(b) != PublicKeyLength {
			return nil, nil, ErrInvalidKey
		}
		pk := new(publicKey).Uncompress(b)
		if pk == nil || !pk.KeyValidate() {
			return nil, nil, ErrInvalidKey
		}
		pks = append(pks, pk)
	}
	return pks, s, nil
}
