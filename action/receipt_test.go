// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestEventQueue(t *testing.T) {
	require := require.New(t)

	eq := NewEventQueue()
	eq.Add("interoperability", "ccmProcessed", []byte{1}, []byte("ccmID"))
	s1 := eq.Snapshot()
	eq.Add("token", "transfer", nil)
	s2 := eq.Snapshot()
	eq.Add("token", "transfer", nil)
	require.Len(eq.Logs(), 3)
	require.Len(eq.Filter("token", "transfer"), 2)

	require.NoError(eq.Revert(s2))
	require.Len(eq.Logs(), 2)
	require.NoError(eq.Revert(s1))
	require.Len(eq.Logs(), 1)
	// later snapshots are dropped by a revert
	require.Equal(ErrUnknownSnapshot, errors.Cause(eq.Revert(s2)))
	require.True(eq.Logs()[0].HasTopic([]byte("ccmID")))
	require.False(eq.Logs()[0].HasTopic([]byte("other")))

	receipt := &Receipt{
		Status:      SuccessReceiptStatus,
		BlockHeight: 12,
		ActionHash:  []byte("hash"),
	}
	receipt.AddLogs(eq.Logs()...)
	require.Len(receipt.Logs, 1)
	require.EqualValues(12, receipt.Logs[0].BlockHeight)
	require.Equal([]byte("hash"), receipt.Logs[0].ActionHash)
	require.Zero(receipt.Logs[0].Index)
}
