// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package merkle

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/pkg/hash"
)

var (
	leafPrefix   = []byte{0x00}
	branchPrefix = []byte{0x01}

	// ErrInvalidWitness indicates the witness does not fit the tree
	ErrInvalidWitness = errors.New("invalid right witness")
)

// LeafHash returns the hash of a leaf holding value
func LeafHash(value []byte) []byte {
	return hash.Hash256b(leafPrefix, value)
}

// BranchHash returns the hash of a node with the given children
func BranchHash(left, right []byte) []byte {
	return hash.Hash256b(branchPrefix, left, right)
}

// Tree is an append-only Merkle accumulator. Only the right-most
// subtree roots (the append path) are kept, one per set bit of size.
type Tree struct {
	AppendPath [][]byte
	Size       uint32
	Root       []byte
}

// NewTree returns an empty tree
func NewTree() *Tree {
	return &Tree{
		AppendPath: [][]byte{},
		Root:       hash.EmptyHash,
	}
}

// Append adds value as the next leaf, updating append path, size and root
func (t *Tree) Append(value []byte) {
	t.AppendPath, t.Root = CalculateMerkleRoot(value, t.AppendPath, t.Size)
	t.Size++
}

// Clone returns a deep copy of the tree
func (t *Tree) Clone() *Tree {
	path := make([][]byte, len(t.AppendPath))
	for i := range t.AppendPath {
		path[i] = append([]byte{}, t.AppendPath[i]...)
	}
	return &Tree{
		AppendPath: path,
		Size:       t.Size,
		Root:       append([]byte{}, t.Root...),
	}
}

// CalculateMerkleRoot appends value to a tree of the given size and returns
// the new append path and root
func CalculateMerkleRoot(value []byte, appendPath [][]byte, size uint32) ([][]byte, []byte) {
	current := LeafHash(value)
	var count int
	for s := size; s&1 == 1; s >>= 1 {
		current = BranchHash(appendPath[count], current)
		count++
	}
	newPath := make([][]byte, 0, len(appendPath)-count+1)
	newPath = append(newPath, current)
	newPath = append(newPath, appendPath[count:]...)

	root := current
	for _, h := range newPath[1:] {
		root = BranchHash(h, root)
	}
	return newPath, root
}

// CalculateRootFromRightWitness returns the root of a tree whose first
// nodeIndex leaves are summarised by appendPath and whose remaining leaves
// are summarised by the right witness, ordered from the bottom layer up
func CalculateRootFromRightWitness(nodeIndex uint32, appendPath [][]byte, rightWitness [][]byte) ([]byte, error) {
	if len(appendPath) == 0 {
		if len(rightWitness) == 0 {
			return hash.EmptyHash, nil
		}
		root := rightWitness[0]
		for _, h := range rightWitness[1:] {
			root = BranchHash(root, h)
		}
		return root, nil
	}
	if bits.OnesCount32(nodeIndex) != len(appendPath) {
		return nil, errors.Wrapf(ErrInvalidWitness, "append path of length %d for %d nodes", len(appendPath), nodeIndex)
	}
	var layer uint
	for (nodeIndex>>layer)&1 == 0 {
		layer++
	}
	path := appendPath
	witness := rightWitness
	current := path[0]
	path = path[1:]
	idx := uint64(nodeIndex>>layer) - 1
	for len(path) > 0 || len(witness) > 0 {
		if idx&1 == 1 {
			if len(path) == 0 {
				return nil, errors.Wrap(ErrInvalidWitness, "append path exhausted")
			}
			current = BranchHash(path[0], current)
			path = path[1:]
		} else if len(witness) > 0 {
			current = BranchHash(current, witness[0])
			witness = witness[1:]
		}
		idx >>= 1
	}
	return current, nil
}
