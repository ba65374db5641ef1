// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package batch

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrNotExist indicates the key is not in the batch
	ErrNotExist = errors.New("not exist in batch")
	// ErrAlreadyDeleted indicates the key has been deleted in the batch
	ErrAlreadyDeleted = errors.New("already deleted in batch")
	// ErrOutOfBound indicates an index is out of bound
	ErrOutOfBound = errors.New("out of bound")
	// ErrUnknownSnapshot indicates the snapshot does not exist
	ErrUnknownSnapshot = errors.New("unknown snapshot")
)

type (
	// KVStoreBatch defines a batch buffer interface that stages Put/Delete entries in sequential order
	// To use it, first start a new batch
	// b := NewBatch()
	// and keep batching Put/Delete operation into it
	// b.Put(bucket, k, v)
	// b.Delete(bucket, k, v)
	// once it's done, call KVStore interface's WriteBatch() to persist to underlying DB
	// KVStore.WriteBatch(b)
	// if commit succeeds, the batch is cleared
	// otherwise the batch is kept intact (so batch user can figure out what's wrong and attempt re-commit later)
	KVStoreBatch interface {
		// Lock locks the batch
		Lock()
		// Unlock unlocks the batch
		Unlock()
		// ClearAndUnlock clears the write queue and unlocks the batch
		ClearAndUnlock()
		// Put insert or update a record identified by (namespace, key)
		Put(string, []byte, []byte, string, ...interface{})
		// Delete deletes a record by (namespace, key)
		Delete(string, []byte, string, ...interface{})
		// Size returns the size of batch
		Size() int
		// Entry returns the entry at the index
		Entry(int) (*WriteInfo, error)
		// Clear clears entries staged in batch
		Clear()
	}

	// CachedBatch derives from Batch interface
	// A local cache is added to provide fast retrieval of pending Put/Delete entries
	CachedBatch interface {
		KVStoreBatch
		// Get gets a record by (namespace, key)
		Get(string, []byte) ([]byte, error)
		// Snapshot takes a snapshot of current cached batch
		Snapshot() int
		// RevertSnapshot sets the cached batch to the state at the given snapshot
		RevertSnapshot(int) error
		// ResetSnapshots drops all snapshots
		ResetSnapshots()
	}

	baseKVStoreBatch struct {
		mutex      sync.RWMutex
		writeQueue []*WriteInfo
	}

	cachedBatch struct {
		*baseKVStoreBatch
		cache KVStoreCache
		// snapshots maps a tag to the write queue length when it was taken
		snapshots map[int]int
		tag       int
	}
)

// NewBatch returns a batch
func NewBatch() KVStoreBatch {
	return &baseKVStoreBatch{}
}

// Lock locks the batch
func (b *baseKVStoreBatch) Lock() {
	b.mutex.Lock()
}

// Unlock unlocks the batch
func (b *baseKVStoreBatch) Unlock() {
	b.mutex.Unlock()
}

// ClearAndUnlock clears the write queue and unlocks the batch
func (b *baseKVStoreBatch) ClearAndUnlock() {
	defer b.mutex.Unlock()
	b.writeQueue = nil
}

// Put inserts a <key, value> record
func (b *baseKVStoreBatch) Put(namespace string, key, value []byte, errorFormat string, errorArgs ...interface{}) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writeQueue = append(b.writeQueue, NewWriteInfo(Put, namespace, key, value, errorFormat, errorArgs...))
}

// Delete deletes a record
func (b *baseKVStoreBatch) Delete(namespace string, key []byte, errorFormat string, errorArgs ...interface{}) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writeQueue = append(b.writeQueue, NewWriteInfo(Delete, namespace, key, nil, errorFormat, errorArgs...))
}

// Size returns the size of batch
func (b *baseKVStoreBatch) Size() int {
	return len(b.writeQueue)
}

// Entry returns the entry at the index
func (b *baseKVStoreBatch) Entry(index int) (*WriteInfo, error) {
	if index < 0 || index >= len(b.writeQueue) {
		return nil, errors.Wrapf(ErrOutOfBound, "index %d", index)
	}
	return b.writeQueue[index], nil
}

// Clear clear write queue
func (b *baseKVStoreBatch) Clear() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writeQueue = nil
}

//======================================
// CachedBatch implementation
//======================================

// NewCachedBatch returns a new cached batch buffer
func NewCachedBatch() CachedBatch {
	return &cachedBatch{
		baseKVStoreBatch: &baseKVStoreBatch{},
		cache:            NewKVCache(),
		snapshots:        make(map[int]int),
	}
}

// Put inserts a <key, value> record
func (cb *cachedBatch) Put(namespace string, key, value []byte, errorFormat string, errorArgs ...interface{}) {
	cb.baseKVStoreBatch.Put(namespace, key, value, errorFormat, errorArgs...)
	cb.cache.Write(namespace, key, value)
}

// Delete deletes a record
func (cb *cachedBatch) Delete(namespace string, key []byte, errorFormat string, errorArgs ...interface{}) {
	cb.baseKVStoreBatch.Delete(namespace, key, errorFormat, errorArgs...)
	cb.cache.Evict(namespace, key)
}

// Clear clear the cached batch buffer
func (cb *cachedBatch) Clear() {
	cb.baseKVStoreBatch.Clear()
	cb.cache.Clear()
	cb.ResetSnapshots()
}

// ClearAndUnlock clears the write queue, the cache and unlocks the batch
func (cb *cachedBatch) ClearAndUnlock() {
	cb.cache.Clear()
	cb.snapshots = make(map[int]int)
	cb.tag = 0
	cb.baseKVStoreBatch.ClearAndUnlock()
}

// Get retrieves a record
func (cb *cachedBatch) Get(namespace string, key []byte) ([]byte, error) {
	cb.mutex.RLock()
	defer cb.mutex.RUnlock()
	return cb.cache.Read(namespace, key)
}

// Snapshot takes a snapshot of the current write queue
func (cb *cachedBatch) Snapshot() int {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.tag++
	cb.snapshots[cb.tag] = len(cb.writeQueue)
	return cb.tag
}

// RevertSnapshot drops every write staged after the snapshot, and every later snapshot
func (cb *cachedBatch) RevertSnapshot(tag int) error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	size, ok := cb.snapshots[tag]
	if !ok {
		return errors.Wrapf(ErrUnknownSnapshot, "snapshot %d", tag)
	}
	for t := range cb.snapshots {
		if t > tag {
			delete(cb.snapshots, t)
		}
	}
	cb.writeQueue = cb.writeQueue[:size]
	cb.cache.Clear()
	for _, wi := range cb.writeQueue {
		switch wi.writeType {
		case Put:
			cb.cache.Write(wi.namespace, wi.key, wi.value)
		case Delete:
			cb.cache.Evict(wi.namespace, wi.key)
		}
	}
	return nil
}

// ResetSnapshots drops all snapshots
func (cb *cachedBatch) ResetSnapshots() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.snapshots = make(map[int]int)
	cb.tag = 0
}
