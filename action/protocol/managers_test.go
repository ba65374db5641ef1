// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestCreateStateConfig(t *testing.T) {
	require := require.New(t)

	chainID := []byte{4, 0, 0, 1}
	cfg, err := CreateStateConfig(NamespaceOption("chainAccount"), KeyOption(chainID))
	require.NoError(err)
	require.Equal("chainAccount", cfg.Namespace)
	require.Equal(chainID, cfg.Key)
	// the key does not alias the caller's slice
	chainID[3] = 2
	require.Equal([]byte{4, 0, 0, 1}, cfg.Key)

	// Case I: the last option wins
	cfg, err = CreateStateConfig(NamespaceOption("channel"), NamespaceOption("outboxRoot"), KeyOption(nil))
	require.NoError(err)
	require.Equal("outboxRoot", cfg.Namespace)
	require.NotNil(cfg.Key)
	require.Empty(cfg.Key)

	// Case II: a namespace is required
	_, err = CreateStateConfig(KeyOption(chainID))
	require.ErrorContains(err, "namespace is missing")

	// Case III: option errors are wrapped
	_, err = CreateStateConfig(NamespaceOption("channel"), func(*StateConfig) error {
		return errors.New("bad key")
	})
	require.ErrorContains(err, "bad key")
}
