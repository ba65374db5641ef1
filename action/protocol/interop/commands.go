// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"bytes"
	"context"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/pkg/codec"
	"github.com/iotexproject/iotex-interop/pkg/hash"
)

// cross-chain commands of the interoperability module
const (
	CrossChainCommandChannelTerminated   = "channelTerminated"
	CrossChainCommandSidechainTerminated = "sidechainTerminated"
)

type (
	// SidechainTerminatedParams are the params of a sidechainTerminated message
	SidechainTerminatedParams struct {
		ChainID   []byte
		StateRoot []byte
	}

	interopModule struct {
		p *Protocol
	}

	channelTerminatedCommand struct {
		p *Protocol
	}

	sidechainTerminatedCommand struct {
		p *Protocol
	}
)

// Serialize encodes the params
func (s *SidechainTerminatedParams) Serialize() []byte {
	w := codec.NewWriter()
	w.WriteBytes(1, s.ChainID)
	w.WriteBytes(2, s.StateRoot)
	return w.Bytes()
}

// Deserialize decodes the params
func (s *SidechainTerminatedParams) Deserialize(data []byte) error {
	var (
		r   = codec.NewReader(data)
		sp  SidechainTerminatedParams
		err error
	)
	if sp.ChainID, err = r.ReadBytes(1); err != nil {
		return err
	}
	if sp.StateRoot, err = r.ReadBytes(2); err != nil {
		return err
	}
	if err := r.Close(); err != nil {
		return err
	}
	*s = sp
	return nil
}

func newInteropModule(p *Protocol) *interopModule {
	return &interopModule{p: p}
}

func (m *interopModule) Name() string {
	return ModuleName
}

func (m *interopModule) CrossChainCommands() []CrossChainCommand {
	return []CrossChainCommand{
		&channelTerminatedCommand{p: m.p},
		&sidechainTerminatedCommand{p: m.p},
	}
}

func (m *interopModule) VerifyCrossChainMessage(context.Context, *MessageContext) error {
	return nil
}

func (m *interopModule) BeforeCrossChainCommandExecute(context.Context, *MessageContext) error {
	return nil
}

func (m *interopModule) AfterCrossChainCommandExecute(context.Context, *MessageContext) error {
	return nil
}

func (m *interopModule) BeforeCrossChainMessageForwarding(context.Context, *MessageContext) error {
	return nil
}

func (c *channelTerminatedCommand) Name() string {
	return CrossChainCommandChannelTerminated
}

func (c *channelTerminatedCommand) Verify(context.Context, *MessageContext) error {
	return nil
}

// Execute terminates the sending chain on this side of the channel
func (c *channelTerminatedCommand) Execute(ctx context.Context, mctx *MessageContext) error {
	_, ok, err := terminatedStateAccount(mctx.StateManager, mctx.CCM.SendingChainID)
	if err != nil || ok {
		return err
	}
	return c.p.createTerminatedStateAccount(mctx.StateManager, mctx.EventQueue, mctx.CCM.SendingChainID, nil)
}

func (c *sidechainTerminatedCommand) Name() string {
	return CrossChainCommandSidechainTerminated
}

func (c *sidechainTerminatedCommand) Verify(_ context.Context, mctx *MessageContext) error {
	if c.p.isMainchain {
		return errors.New("sidechainTerminated can only be executed on a sidechain")
	}
	if !bytes.Equal(mctx.CCM.SendingChainID, c.p.mainchainID) {
		return errors.New("sidechainTerminated must be sent from the mainchain")
	}
	params := &SidechainTerminatedParams{}
	if err := params.Deserialize(mctx.CCM.Params); err != nil {
		return errors.Wrap(err, "invalid sidechainTerminated params")
	}
	if len(params.ChainID) != len(c.p.ownChainID) || len(params.StateRoot) != hash.HashSize {
		return errors.New("invalid sidechainTerminated params")
	}
	return nil
}

// Execute records the state root of a sidechain the mainchain has terminated
func (c *sidechainTerminatedCommand) Execute(_ context.Context, mctx *MessageContext) error {
	params := &SidechainTerminatedParams{}
	if err := params.Deserialize(mctx.CCM.Params); err != nil {
		return err
	}
	sm := mctx.StateManager
	ts, ok, err := terminatedStateAccount(sm, params.ChainID)
	if err != nil {
		return err
	}
	if !ok {
		return c.p.createTerminatedStateAccount(sm, mctx.EventQueue, params.ChainID, params.StateRoot)
	}
	if ts.Initialized {
		return nil
	}
	ts.StateRoot = params.StateRoot
	ts.MainchainStateRoot = hash.EmptyHash
	ts.Initialized = true
	return putTerminatedStateAccount(sm, params.ChainID, ts)
}
