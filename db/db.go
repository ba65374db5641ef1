// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/db/batch"
)

var (
	// ErrNotExist indicates certain item does not exist in database
	ErrNotExist = errors.New("not exist in DB")
	// ErrIO indicates the generic error of DB I/O operation
	ErrIO = errors.New("DB I/O operation error")
	// ErrDBNotStarted indicates the DB is used before Start or after Stop
	ErrDBNotStarted = errors.New("DB not started")
)

type (
	// KVStore is the interface of KV store.
	KVStore interface {
		// Start opens the store
		Start(context.Context) error
		// Stop closes the store
		Stop(context.Context) error
		// Put insert or update a record identified by (namespace, key)
		Put(string, []byte, []byte) error
		// Get gets a record by (namespace, key)
		Get(string, []byte) ([]byte, error)
		// Delete deletes a record by (namespace, key)
		Delete(string, []byte) error
		// WriteBatch commits a batch
		WriteBatch(batch.KVStoreBatch) error
	}

	// memKVStore is the in-memory implementation of KVStore for testing purpose
	memKVStore struct {
		data *sync.Map
	}
)

const (
	keyDelimiter = "."
)

// NewMemKVStore instantiates an in-memory KV store
func NewMemKVStore() KVStore {
	return &memKVStore{
		data: &sync.Map{},
	}
}

func (m *memKVStore) Start(_ context.Context) error { return nil }

func (m *memKVStore) Stop(_ context.Context) error { return nil }

// Put inserts a <key, value> record
func (m *memKVStore) Put(namespace string, key, value []byte) error {
	m.data.Store(namespace+keyDelimiter+string(key), append([]byte{}, value...))
	return nil
}

// Get retrieves a record
func (m *memKVStore) Get(namespace string, key []byte) ([]byte, error) {
	value, ok := m.data.Load(namespace + keyDelimiter + string(key))
	if !ok {
		return nil, errors.Wrapf(ErrNotExist, "ns %s key = %x doesn't exist", namespace, key)
	}
	return append([]byte{}, value.([]byte)...), nil
}

// Delete deletes a record
func (m *memKVStore) Delete(namespace string, key []byte) error {
	m.data.Delete(namespace + keyDelimiter + string(key))
	return nil
}

// WriteBatch commits a batch
func (m *memKVStore) WriteBatch(b batch.KVStoreBatch) (e error) {
	succeed := false
	b.Lock()
	defer func() {
		if succeed {
			// clear the batch if commit succeeds
			b.ClearAndUnlock()
		} else {
			b.Unlock()
		}
	}()
	writes, err := lastWrites(b)
	if err != nil {
		return err
	}
	for _, write := range writes {
		switch write.WriteType() {
		case batch.Put:
			e = m.Put(write.Namespace(), write.Key(), write.Value())
		case batch.Delete:
			e = m.Delete(write.Namespace(), write.Key())
		}
		if e != nil {
			return write.Wrap(e)
		}
	}
	succeed = true
	return nil
}

// lastWrites returns the last write of every key in the batch, in batch order.
// The caller holds the batch lock.
func lastWrites(kvsb batch.KVStoreBatch) ([]*batch.WriteInfo, error) {
	type writeKey struct {
		ns  string
		key string
	}
	var (
		seen   = make(map[writeKey]struct{}, kvsb.Size())
		writes = make([]*batch.WriteInfo, 0, kvsb.Size())
	)
	for i := kvsb.Size() - 1; i >= 0; i-- {
		write, err := kvsb.Entry(i)
		if err != nil {
			return nil, err
		}
		k := writeKey{write.Namespace(), string(write.Key())}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		writes = append(writes, write)
	}
	for i, j := 0, len(writes)-1; i < j; i, j = i+1, j-1 {
		writes[i], writes[j] = writes[j], writes[i]
	}
	return writes, nil
}
