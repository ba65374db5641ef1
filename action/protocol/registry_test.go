// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-interop/action"
)

type dummyProtocol struct {
	name string
}

func (p *dummyProtocol) Name() string { return p.name }

func (p *dummyProtocol) Validate(context.Context, action.Action, StateReader) error { return nil }

func (p *dummyProtocol) Handle(context.Context, action.Action, StateManager) (*action.Receipt, error) {
	return nil, ErrUnimplemented
}

func TestRegister(t *testing.T) {
	require := require.New(t)
	reg := NewRegistry()
	// Case I: Normal
	require.NoError(reg.Register("1", &dummyProtocol{"1"}))
	// Case II: Protocol with ID is already registered
	require.Error(reg.Register("1", &dummyProtocol{"1"}))
	// Case III: Force register replaces in place
	p := &dummyProtocol{"replaced"}
	require.NoError(reg.ForceRegister("1", p))
	found, ok := reg.Find("1")
	require.True(ok)
	require.Equal(p, found)
	require.Len(reg.All(), 1)
}

func TestFind(t *testing.T) {
	require := require.New(t)
	reg := NewRegistry()
	p := &dummyProtocol{InteroperabilityProtocolID}
	require.NoError(reg.Register(InteroperabilityProtocolID, p))
	// Case I: Normal
	found, ok := reg.Find(InteroperabilityProtocolID)
	require.True(ok)
	require.Equal(InteroperabilityProtocolID, found.Name())
	// Case II: Not exist
	_, ok = reg.Find("0")
	require.False(ok)
}

func TestAll(t *testing.T) {
	require := require.New(t)
	reg := NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(reg.Register(id, &dummyProtocol{id}))
	}
	all := reg.All()
	require.Len(all, 3)
	// registration order is kept
	require.Equal("c", all[0].Name())
	require.Equal("a", all[1].Name())
	require.Equal("b", all[2].Name())
}
