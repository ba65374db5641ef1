// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-interop/db/batch"
)

var (
	bucket1 = "test_ns1"
	bucket2 = "test_ns2"
	testK1  = [3][]byte{[]byte("key_1"), []byte("key_2"), []byte("key_3")}
	testV1  = [3][]byte{[]byte("value_1"), []byte("value_2"), []byte("value_3")}
)

func testStores(t *testing.T) map[string]KVStore {
	dir := t.TempDir()
	cfg := DefaultConfig
	stores := map[string]KVStore{
		DBMemory: NewMemKVStore(),
	}
	for _, dbType := range []string{DBBolt, DBPebble, DBLevel} {
		cfg.DBType = dbType
		kv, err := CreateKVStore(cfg, filepath.Join(dir, dbType))
		require.NoError(t, err)
		stores[dbType] = kv
	}
	return stores
}

func TestCreateKVStore(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig
	_, err := CreateKVStore(cfg, "")
	require.Equal(ErrEmptyDBPath, errors.Cause(err))
	cfg.DBType = "unknown"
	_, err = CreateKVStore(cfg, "path")
	require.Error(err)
	cfg.DBType = DBMemory
	kv, err := CreateKVStore(cfg, "")
	require.NoError(err)
	require.NotNil(kv)
}

func TestKVStorePutGet(t *testing.T) {
	for name, kvStore := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()

			require.NoError(kvStore.Start(ctx))
			defer func() {
				require.NoError(kvStore.Stop(ctx))
			}()

			require.NoError(kvStore.Put(bucket1, []byte("key"), []byte("value")))
			value, err := kvStore.Get(bucket1, []byte("key"))
			require.NoError(err)
			require.Equal([]byte("value"), value)
			// namespaces are isolated
			_, err = kvStore.Get(bucket2, []byte("key"))
			require.Equal(ErrNotExist, errors.Cause(err))
			_, err = kvStore.Get(bucket1, testK1[0])
			require.Equal(ErrNotExist, errors.Cause(err))

			require.NoError(kvStore.Delete(bucket1, []byte("key")))
			_, err = kvStore.Get(bucket1, []byte("key"))
			require.Equal(ErrNotExist, errors.Cause(err))
			// deleting a missing key is fine
			require.NoError(kvStore.Delete(bucket2, []byte("key")))
		})
	}
}

func TestKVStoreWriteBatch(t *testing.T) {
	for name, kvStore := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()

			require.NoError(kvStore.Start(ctx))
			defer func() {
				require.NoError(kvStore.Stop(ctx))
			}()

			require.NoError(kvStore.Put(bucket1, testK1[2], testV1[2]))
			b := batch.NewBatch()
			b.Put(bucket1, testK1[0], testV1[0], "failed to put %x", testK1[0])
			b.Put(bucket1, testK1[1], testV1[0], "")
			b.Put(bucket1, testK1[1], testV1[1], "")
			b.Delete(bucket1, testK1[2], "")
			b.Put(bucket2, testK1[0], testV1[2], "")
			require.NoError(kvStore.WriteBatch(b))
			require.Zero(b.Size())

			for _, e := range []struct {
				ns    string
				key   []byte
				value []byte
			}{
				{bucket1, testK1[0], testV1[0]},
				{bucket1, testK1[1], testV1[1]},
				{bucket2, testK1[0], testV1[2]},
			} {
				v, err := kvStore.Get(e.ns, e.key)
				require.NoError(err)
				require.Equal(e.value, v)
			}
			_, err := kvStore.Get(bucket1, testK1[2])
			require.Equal(ErrNotExist, errors.Cause(err))
		})
	}
}

func TestKVStoreNotStarted(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig
	cfg.DBType = DBPebble
	kv, err := CreateKVStore(cfg, filepath.Join(t.TempDir(), "pebble"))
	require.NoError(err)
	_, err = kv.Get(bucket1, testK1[0])
	require.Equal(ErrDBNotStarted, errors.Cause(err))
	require.Equal(ErrWrongState, errors.Cause(kv.Stop(context.Background())))
}

func TestLastWrites(t *testing.T) {
	require := require.New(t)

	b := batch.NewBatch()
	b.Put(bucket1, testK1[0], testV1[0], "")
	b.Put(bucket2, testK1[0], testV1[1], "")
	b.Put(bucket1, testK1[1], testV1[1], "")
	b.Delete(bucket1, testK1[0], "")
	b.Lock()
	writes, err := lastWrites(b)
	b.Unlock()
	require.NoError(err)
	require.Len(writes, 3)
	// the surviving writes keep their batch order
	require.Equal(bucket2, writes[0].Namespace())
	require.Equal(testK1[1], writes[1].Key())
	require.Equal(batch.Delete, writes[2].WriteType())
	require.Equal(testK1[0], writes[2].Key())
}
