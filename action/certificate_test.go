// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestCertificate(t *testing.T) {
	require := require.New(t)

	cert := &Certificate{
		BlockID:         bytes.Repeat([]byte{1}, HashLength),
		Height:          100,
		Timestamp:       1700000000,
		StateRoot:       bytes.Repeat([]byte{2}, HashLength),
		ValidatorsHash:  bytes.Repeat([]byte{3}, HashLength),
		AggregationBits: []byte{0x07},
		Signature:       bytes.Repeat([]byte{4}, BLSSignatureLength),
	}
	require.NoError(cert.SanityCheck())
	data := cert.Serialize()
	require.True(bytes.HasPrefix(data, cert.SigningBytes()))

	decoded := &Certificate{}
	require.NoError(decoded.Deserialize(data))
	require.Equal(cert, decoded)

	// the signing bytes do not decode as a certificate
	require.Error(decoded.Deserialize(cert.SigningBytes()))

	cert.StateRoot = cert.StateRoot[1:]
	require.Equal(ErrInvalidLength, errors.Cause(cert.SanityCheck()))
	cert.StateRoot = bytes.Repeat([]byte{2}, HashLength)
	cert.Signature = nil
	require.Equal(ErrInvalidLength, errors.Cause(cert.SanityCheck()))
}
