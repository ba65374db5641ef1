// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

const (
	// ChainIDLength is the length of a chain ID, the first byte identifies the network
	ChainIDLength = 4
	// HashLength is the length of hashes and roots
	HashLength = 32
	// TokenIDLength is the length of a token ID
	TokenIDLength = 8
	// BLSPublicKeyLength is the length of a compressed BLS public key
	BLSPublicKeyLength = 48
	// BLSSignatureLength is the length of a compressed BLS signature
	BLSSignatureLength = 96
	// MaxCCMSize is the maximum encoded size of a cross-chain message
	MaxCCMSize = 10240
	// MinModuleNameLength is the minimum length of a module name
	MinModuleNameLength = 1
	// MaxModuleNameLength is the maximum length of a module name
	MaxModuleNameLength = 32
	// MinCrossChainCommandNameLength is the minimum length of a cross-chain command name
	MinCrossChainCommandNameLength = 1
	// MaxCrossChainCommandNameLength is the maximum length of a cross-chain command name
	MaxCrossChainCommandNameLength = 32
	// MinChainNameLength is the minimum length of a chain name
	MinChainNameLength = 1
	// MaxChainNameLength is the maximum length of a chain name
	MaxChainNameLength = 32
)

// CCMStatus is the status code carried by a cross-chain message
type CCMStatus uint32

// status codes
const (
	CCMStatusOK CCMStatus = iota
	CCMStatusFailedCCM
	CCMStatusModuleNotSupported
	CCMStatusCrossChainCommandNotSupported
	CCMStatusChannelUnavailable
	CCMStatusRecovered
)

func (s CCMStatus) String() string {
	switch s {
	case CCMStatusOK:
		return "OK"
	case CCMStatusFailedCCM:
		return "FAILED_CCM"
	case CCMStatusModuleNotSupported:
		return "MODULE_NOT_SUPPORTED"
	case CCMStatusCrossChainCommandNotSupported:
		return "CROSS_CHAIN_COMMAND_NOT_SUPPORTED"
	case CCMStatusChannelUnavailable:
		return "CHANNEL_UNAVAILABLE"
	case CCMStatusRecovered:
		return "RECOVERED"
	default:
		return "UNKNOWN"
	}
}

// MainchainID returns the mainchain ID of the network chainID belongs to
func MainchainID(chainID []byte) []byte {
	id := make([]byte, ChainIDLength)
	if len(chainID) > 0 {
		id[0] = chainID[0]
	}
	return id
}
