// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"context"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/iotexproject/iotex-interop/db/batch"
)

// levelDB is KVStore implementation based on goleveldb, namespaces share
// one keyspace through the same prefix scheme as PebbleDB
type levelDB struct {
	readiness
	db     *leveldb.DB
	path   string
	config Config
}

// NewLevelDB creates a new goleveldb backed KVStore
func NewLevelDB(cfg Config) KVStore {
	return &levelDB{
		path:   cfg.DbPath,
		config: cfg,
	}
}

// Start opens the DB (creates new file if not existing yet)
func (l *levelDB) Start(_ context.Context) error {
	db, err := leveldb.OpenFile(l.path, &opt.Options{ReadOnly: l.config.ReadOnly})
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	l.db = db
	return l.TurnOn()
}

// Stop closes the DB
func (l *levelDB) Stop(_ context.Context) error {
	if err := l.TurnOff(); err != nil {
		return err
	}
	if err := l.db.Close(); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// Get retrieves a record
func (l *levelDB) Get(ns string, key []byte) ([]byte, error) {
	if !l.IsReady() {
		return nil, ErrDBNotStarted
	}
	v, err := l.db.Get(nsKey(ns, key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotExist, "ns %s key = %x doesn't exist", ns, key)
		}
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	return v, nil
}

// Put inserts a <key, value> record
func (l *levelDB) Put(ns string, key, value []byte) error {
	if !l.IsReady() {
		return ErrDBNotStarted
	}
	if err := l.db.Put(nsKey(ns, key), value, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// Delete deletes a record
func (l *levelDB) Delete(ns string, key []byte) error {
	if !l.IsReady() {
		return ErrDBNotStarted
	}
	if err := l.db.Delete(nsKey(ns, key), &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// WriteBatch commits a batch atomically
func (l *levelDB) WriteBatch(kvsb batch.KVStoreBatch) error {
	if !l.IsReady() {
		return ErrDBNotStarted
	}
	kvsb.Lock()
	writes, err := lastWrites(kvsb)
	if err != nil {
		kvsb.Unlock()
		return err
	}
	lb := new(leveldb.Batch)
	for _, write := range writes {
		switch write.WriteType() {
		case batch.Put:
			lb.Put(nsKey(write.Namespace(), write.Key()), write.Value())
		case batch.Delete:
			lb.Delete(nsKey(write.Namespace(), write.Key()))
		}
	}
	if err := l.db.Write(lb, &opt.WriteOptions{Sync: true}); err != nil {
		kvsb.Unlock()
		return errors.Wrap(ErrIO, err.Error())
	}
	kvsb.ClearAndUnlock()
	return nil
}
