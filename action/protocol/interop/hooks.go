// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package interop

import (
	"context"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/action"
	"github.com/iotexproject/iotex-interop/action/protocol"
)

type (
	// MessageContext is passed to the hooks and commands handling a cross-chain message
	MessageContext struct {
		CCM     *action.CrossChainMessage
		CCMID   []byte
		CCMSize int
		// SendingChainID is the chain the cross-chain update came from
		SendingChainID []byte
		StateManager   protocol.StateManager
		EventQueue     *action.EventQueue
	}

	// RecoverContext is passed to a module recovering an entry of a terminated chain
	RecoverContext struct {
		Module         string
		ChainID        []byte
		SubstorePrefix []byte
		StoreKey       []byte
		StoreValue     []byte
		StateManager   protocol.StateManager
		EventQueue     *action.EventQueue
	}

	// CrossChainCommand is a command a module executes on behalf of a partner chain
	CrossChainCommand interface {
		Name() string
		Verify(context.Context, *MessageContext) error
		Execute(context.Context, *MessageContext) error
	}

	// CrossChainModule is a module taking part in cross-chain messaging. The
	// hooks of every registered module run around each message, in
	// registration order.
	CrossChainModule interface {
		Name() string
		CrossChainCommands() []CrossChainCommand
		VerifyCrossChainMessage(context.Context, *MessageContext) error
		BeforeCrossChainCommandExecute(context.Context, *MessageContext) error
		AfterCrossChainCommandExecute(context.Context, *MessageContext) error
		BeforeCrossChainMessageForwarding(context.Context, *MessageContext) error
	}

	// StateRecoverer is implemented by modules able to recover their store of a terminated chain
	StateRecoverer interface {
		Recover(context.Context, *RecoverContext) error
	}

	// TokenMethod is the token functionality needed to move message fees
	TokenMethod interface {
		PayMessageFee(ctx context.Context, sm protocol.StateManager, payer address.Address, fee uint64, receivingChainID []byte) error
		InitializeUserAccount(ctx context.Context, sm protocol.StateManager, addr address.Address, tokenID []byte) error
	}

	moduleRegistry struct {
		ids      map[string]int
		modules  []CrossChainModule
		commands []map[string]CrossChainCommand
	}
)

func newModuleRegistry() *moduleRegistry {
	return &moduleRegistry{
		ids: make(map[string]int),
	}
}

func (r *moduleRegistry) register(m CrossChainModule) error {
	name := m.Name()
	if !action.IsValidName(name, action.MinModuleNameLength, action.MaxModuleNameLength) {
		return errors.Wrapf(action.ErrInvalidName, "module name %q", name)
	}
	if _, exist := r.ids[name]; exist {
		return errors.Errorf("module %s is already registered", name)
	}
	commands := make(map[string]CrossChainCommand)
	for _, cmd := range m.CrossChainCommands() {
		if _, exist := commands[cmd.Name()]; exist {
			return errors.Errorf("command %s of module %s is registered twice", cmd.Name(), name)
		}
		commands[cmd.Name()] = cmd
	}
	r.ids[name] = len(r.modules)
	r.modules = append(r.modules, m)
	r.commands = append(r.commands, commands)
	return nil
}

func (r *moduleRegistry) module(name string) (CrossChainModule, bool) {
	idx, ok := r.ids[name]
	if !ok {
		return nil, false
	}
	return r.modules[idx], true
}

func (r *moduleRegistry) command(module, name string) (CrossChainCommand, bool) {
	idx, ok := r.ids[module]
	if !ok {
		return nil, false
	}
	cmd, ok := r.commands[idx][name]
	return cmd, ok
}

func (r *moduleRegistry) all() []CrossChainModule {
	return r.modules
}
