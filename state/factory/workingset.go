// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package factory

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotexproject/iotex-interop/action"
	"github.com/iotexproject/iotex-interop/action/protocol"
	"github.com/iotexproject/iotex-interop/db/batch"
	"github.com/iotexproject/iotex-interop/state"
)

var (
	stateDBMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iotex_interop_state_db",
			Help: "IoTeX interop state DB",
		},
		[]string{"type"},
	)
	dbBatchSizeMtc = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "iotex_interop_db_batch_size",
			Help: "DB batch size",
		},
		[]string{},
	)
)

func init() {
	prometheus.MustRegister(stateDBMtc)
	prometheus.MustRegister(dbBatchSizeMtc)
}

// ErrNoProtocolHandler indicates no registered protocol handles the action
var ErrNoProtocolHandler = errors.New("no protocol handles the action")

type (
	// WorkingSet defines an interface for working set of states changes
	WorkingSet interface {
		protocol.StateManager
		// ValidateAction runs the stateless and stateful checks of the action
		ValidateAction(context.Context, action.Action) error
		// RunAction hands the action to the registered protocols
		RunAction(context.Context, action.Action) (*action.Receipt, error)
	}

	// workingSet tracks pending state changes in a cached batch on top of the factory
	workingSet struct {
		height   uint64
		cb       batch.CachedBatch
		registry *protocol.Registry
		parent   *factory
	}
)

func newWorkingSet(height uint64, f *factory) *workingSet {
	return &workingSet{
		height:   height,
		cb:       batch.NewCachedBatch(),
		registry: f.registry,
		parent:   f,
	}
}

// Height returns the height of the block the working set is built for
func (ws *workingSet) Height() (uint64, error) {
	return ws.height, nil
}

// State pulls a state from the pending changes, falling back to the factory
func (ws *workingSet) State(s interface{}, opts ...protocol.StateOption) (uint64, error) {
	stateDBMtc.WithLabelValues("get").Inc()
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return ws.height, err
	}
	data, err := ws.cb.Get(cfg.Namespace, cfg.Key)
	switch errors.Cause(err) {
	case nil:
	case batch.ErrAlreadyDeleted:
		return ws.height, errors.Wrapf(state.ErrStateNotExist, "ns = %s key = %x", cfg.Namespace, cfg.Key)
	case batch.ErrNotExist:
		if data, err = ws.parent.read(cfg.Namespace, cfg.Key); err != nil {
			return ws.height, err
		}
	default:
		return ws.height, err
	}
	return ws.height, state.Deserialize(s, data)
}

// PutState puts a state into the pending changes
func (ws *workingSet) PutState(s interface{}, opts ...protocol.StateOption) (uint64, error) {
	stateDBMtc.WithLabelValues("put").Inc()
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return ws.height, err
	}
	data, err := state.Serialize(s)
	if err != nil {
		return ws.height, errors.Wrapf(err, "failed to convert state %T to bytes", s)
	}
	ws.cb.Put(cfg.Namespace, cfg.Key, data, "failed to put state %x in ns %s", cfg.Key, cfg.Namespace)
	return ws.height, nil
}

// DelState deletes a state from the pending changes
func (ws *workingSet) DelState(opts ...protocol.StateOption) (uint64, error) {
	stateDBMtc.WithLabelValues("delete").Inc()
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return ws.height, err
	}
	ws.cb.Delete(cfg.Namespace, cfg.Key, "failed to delete state %x in ns %s", cfg.Key, cfg.Namespace)
	return ws.height, nil
}

// Snapshot takes a snapshot of the pending changes
func (ws *workingSet) Snapshot() int {
	return ws.cb.Snapshot()
}

// Revert drops the changes made after the snapshot
func (ws *workingSet) Revert(snapshot int) error {
	return ws.cb.RevertSnapshot(snapshot)
}

// ValidateAction runs the stateless and stateful checks of the action
func (ws *workingSet) ValidateAction(ctx context.Context, act action.Action) error {
	if err := act.SanityCheck(); err != nil {
		return err
	}
	for _, p := range ws.registry.All() {
		if err := p.Validate(ctx, act, ws); err != nil {
			return err
		}
	}
	return nil
}

// RunAction hands the action to the registered protocols, the first receipt wins
func (ws *workingSet) RunAction(ctx context.Context, act action.Action) (*action.Receipt, error) {
	for _, p := range ws.registry.All() {
		receipt, err := p.Handle(ctx, act, ws)
		if err != nil {
			return nil, errors.Wrapf(err, "error when action %T mutates states", act)
		}
		if receipt != nil {
			return receipt, nil
		}
	}
	return nil, errors.Wrapf(ErrNoProtocolHandler, "action %T", act)
}
