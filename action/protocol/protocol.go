// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/action"
)

var (
	// ErrUnimplemented indicates a method is not implemented yet
	ErrUnimplemented = errors.New("method is unimplemented")
)

type (
	// Protocol defines the protocol interfaces atop the chain
	Protocol interface {
		ActionValidator
		ActionHandler
		Name() string
	}

	// GenesisStateCreator creates some genesis states
	GenesisStateCreator interface {
		CreateGenesisStates(context.Context, StateManager) error
	}

	// ActionValidator is the interface of validating an action
	ActionValidator interface {
		Validate(context.Context, action.Action, StateReader) error
	}

	// ActionHandler is the interface for the action handlers. For each incoming action, the assembled actions will be
	// called one by one to process it. ActionHandler implementation is supposed to parse the sub-type of the action to
	// decide if it wants to handle this action or not.
	ActionHandler interface {
		Handle(context.Context, action.Action, StateManager) (*action.Receipt, error)
	}
)
