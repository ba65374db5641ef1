// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package merkle

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-interop/pkg/hash"
)

func TestTreeAppend(t *testing.T) {
	require := require.New(t)

	leaves := [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d"), []byte("e")}
	l := make([][]byte, len(leaves))
	for i := range leaves {
		l[i] = LeafHash(leaves[i])
	}
	b01 := BranchHash(l[0], l[1])
	b23 := BranchHash(l[2], l[3])
	expected := [][]byte{
		l[0],
		b01,
		BranchHash(b01, l[2]),
		BranchHash(b01, b23),
		BranchHash(BranchHash(b01, b23), l[4]),
	}

	tree := NewTree()
	require.Equal(hash.EmptyHash, tree.Root)
	for i, leaf := range leaves {
		tree.Append(leaf)
		require.EqualValues(i+1, tree.Size)
		require.Equal(expected[i], tree.Root)
	}
	// one append path entry per set bit of size
	require.Len(tree.AppendPath, 2)
	require.Equal(l[4], tree.AppendPath[0])

	// order sensitive
	other := NewTree()
	other.Append(leaves[1])
	other.Append(leaves[0])
	require.NotEqual(expected[1], other.Root)

	// clone is independent
	clone := tree.Clone()
	clone.Append([]byte("f"))
	require.EqualValues(5, tree.Size)
	require.Equal(expected[4], tree.Root)
}

func TestCalculateRootFromRightWitness(t *testing.T) {
	require := require.New(t)

	l0, l1, l2 := LeafHash([]byte("a")), LeafHash([]byte("b")), LeafHash([]byte("c"))
	full := NewTree()
	for _, v := range []string{"a", "b", "c"} {
		full.Append([]byte(v))
	}

	t.Run("empty", func(t *testing.T) {
		root, err := CalculateRootFromRightWitness(0, nil, nil)
		require.NoError(err)
		require.Equal(hash.EmptyHash, root)
	})
	t.Run("witness only", func(t *testing.T) {
		root, err := CalculateRootFromRightWitness(0, nil, [][]byte{l0, l1})
		require.NoError(err)
		require.Equal(BranchHash(l0, l1), root)
	})
	t.Run("append path only equals tree root", func(t *testing.T) {
		root, err := CalculateRootFromRightWitness(full.Size, full.AppendPath, nil)
		require.NoError(err)
		require.Equal(full.Root, root)
	})
	t.Run("one known leaf", func(t *testing.T) {
		root, err := CalculateRootFromRightWitness(1, [][]byte{l0}, [][]byte{l1, l2})
		require.NoError(err)
		require.Equal(full.Root, root)
	})
	t.Run("two known leaves", func(t *testing.T) {
		tree := NewTree()
		tree.Append([]byte("a"))
		tree.Append([]byte("b"))
		root, err := CalculateRootFromRightWitness(tree.Size, tree.AppendPath, [][]byte{l2})
		require.NoError(err)
		require.Equal(full.Root, root)
	})
	t.Run("inconsistent append path", func(t *testing.T) {
		_, err := CalculateRootFromRightWitness(3, [][]byte{l2}, nil)
		require.Equal(ErrInvalidWitness, errors.Cause(err))
		_, err = CalculateRootFromRightWitness(0, [][]byte{l2}, nil)
		require.Equal(ErrInvalidWitness, errors.Cause(err))
	})
}
