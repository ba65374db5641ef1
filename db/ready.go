// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// ErrWrongState indicates a store is started twice or stopped before start
var ErrWrongState = errors.New("store is in wrong state")

// readiness tracks whether a store accepts requests
type readiness struct {
	ready atomic.Bool
}

func (r *readiness) TurnOn() error {
	if r.ready.CompareAndSwap(false, true) {
		return nil
	}
	return ErrWrongState
}

func (r *readiness) TurnOff() error {
	if r.ready.CompareAndSwap(true, false) {
		return nil
	}
	return ErrWrongState
}

func (r *readiness) IsReady() bool {
	return r.ready.Load()
}
