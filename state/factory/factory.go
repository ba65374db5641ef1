// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package factory

import (
	"context"
	"sync"

	"github.com/iotexproject/go-pkgs/byteutil"
	"github.com/iotexproject/go-pkgs/cache"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-interop/action/protocol"
	"github.com/iotexproject/iotex-interop/db"
	"github.com/iotexproject/iotex-interop/pkg/log"
	"github.com/iotexproject/iotex-interop/state"
)

const (
	// SystemNamespace is the namespace of the factory's own records
	SystemNamespace = "System"
	// CurrentHeightKey indicates the key of current factory height in underlying DB
	CurrentHeightKey = "currentHeight"
)

type (
	// Factory defines an interface for managing states
	Factory interface {
		Start(context.Context) error
		Stop(context.Context) error
		protocol.StateReader
		// NewWorkingSet returns a working set for the next block
		NewWorkingSet(context.Context) (WorkingSet, error)
		// Commit persists the working set and moves the tip to its height
		Commit(context.Context, WorkingSet) error
	}

	// Config is the config of the factory
	Config struct {
		// StateCacheSize is the number of committed states kept in memory, 0 disables the cache
		StateCacheSize int `yaml:"stateCacheSize"`
	}

	// Option sets factory construction parameter
	Option func(*factory) error

	factory struct {
		mutex         sync.RWMutex
		cfg           Config
		currentHeight uint64
		dao           db.KVStore
		registry      *protocol.Registry
		stateCache    cache.LRUCache
	}
)

// DefaultConfig is the default factory config
var DefaultConfig = Config{
	StateCacheSize: 1024,
}

// RegistryOption sets the registry of protocols the working sets run actions with
func RegistryOption(reg *protocol.Registry) Option {
	return func(f *factory) error {
		if reg == nil {
			return errors.New("invalid registry")
		}
		f.registry = reg
		return nil
	}
}

// NewFactory creates a new state factory on top of the kv store
func NewFactory(cfg Config, dao db.KVStore, opts ...Option) (Factory, error) {
	f := &factory{
		cfg:      cfg,
		dao:      dao,
		registry: protocol.NewRegistry(),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, errors.Wrap(err, "failed to execute factory option")
		}
	}
	if cfg.StateCacheSize > 0 {
		f.stateCache = cache.NewThreadSafeLruCache(cfg.StateCacheSize)
	}
	return f, nil
}

func (f *factory) Start(ctx context.Context) error {
	if err := f.dao.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start state store")
	}
	h, err := f.dao.Get(SystemNamespace, []byte(CurrentHeightKey))
	switch errors.Cause(err) {
	case nil:
		f.currentHeight = byteutil.BytesToUint64BigEndian(h)
	case db.ErrNotExist:
		f.currentHeight = 0
	default:
		return err
	}
	log.L().Info("State factory started.", zap.Uint64("height", f.currentHeight))
	return nil
}

func (f *factory) Stop(ctx context.Context) error {
	return f.dao.Stop(ctx)
}

// Height returns factory's height
func (f *factory) Height() (uint64, error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.currentHeight, nil
}

// State returns a committed state
func (f *factory) State(s interface{}, opts ...protocol.StateOption) (uint64, error) {
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return 0, err
	}
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	data, err := f.get(cfg.Namespace, cfg.Key)
	if err != nil {
		return f.currentHeight, err
	}
	return f.currentHeight, state.Deserialize(s, data)
}

func (f *factory) NewWorkingSet(_ context.Context) (WorkingSet, error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return newWorkingSet(f.currentHeight+1, f), nil
}

func (f *factory) Commit(_ context.Context, w WorkingSet) error {
	ws, ok := w.(*workingSet)
	if !ok || ws.parent != f {
		return errors.New("working set is not created by this factory")
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if ws.height != f.currentHeight+1 {
		return errors.Errorf("working set height %d does not follow factory height %d", ws.height, f.currentHeight)
	}
	ws.cb.Put(SystemNamespace, []byte(CurrentHeightKey), byteutil.Uint64ToBytesBigEndian(ws.height), "failed to store height")
	dbBatchSizeMtc.WithLabelValues().Set(float64(ws.cb.Size()))
	if f.stateCache != nil {
		for i := 0; i < ws.cb.Size(); i++ {
			entry, err := ws.cb.Entry(i)
			if err != nil {
				return err
			}
			f.stateCache.Remove(cacheKey(entry.Namespace(), entry.Key()))
		}
	}
	if err := f.dao.WriteBatch(ws.cb); err != nil {
		return errors.Wrap(err, "failed to commit working set")
	}
	f.currentHeight = ws.height
	return nil
}

func (f *factory) read(ns string, key []byte) ([]byte, error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.get(ns, key)
}

// get reads a committed record, the caller holds the lock
func (f *factory) get(ns string, key []byte) ([]byte, error) {
	k := cacheKey(ns, key)
	if f.stateCache != nil {
		if v, ok := f.stateCache.Get(k); ok {
			return v.([]byte), nil
		}
	}
	data, err := f.dao.Get(ns, key)
	if errors.Cause(err) == db.ErrNotExist {
		return nil, errors.Wrapf(state.ErrStateNotExist, "ns = %s key = %x", ns, key)
	}
	if err != nil {
		return nil, err
	}
	if f.stateCache != nil {
		f.stateCache.Add(k, data)
	}
	return data, nil
}

func cacheKey(ns string, key []byte) string {
	return ns + "/" + string(key)
}
