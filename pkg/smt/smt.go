// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package smt verifies sparse Merkle tree multi-proofs.
//
// A leaf sits at the shallowest depth where it is alone in its subtree. The
// bitmap of a query lists, from the leaf up to the root, whether the sibling
// at each level is non-empty; its leading zero bits are dropped, so the
// bitmap length is the depth of the leaf.
package smt

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/pkg/hash"
)

var (
	leafPrefix   = []byte{0x00}
	branchPrefix = []byte{0x01}

	// ErrInvalidProof indicates the proof is malformed
	ErrInvalidProof = errors.New("invalid SMT proof")
)

type (
	// Query is a single key proven by a proof, an empty value proves non-inclusion
	Query struct {
		Key    []byte
		Value  []byte
		Bitmap []byte
	}

	// Proof is a multi-proof for a set of queries
	Proof struct {
		SiblingHashes [][]byte
		Queries       []*Query
	}

	node struct {
		key    []byte
		hash   []byte
		bitmap []bool
	}
)

// LeafHash returns the hash of a leaf
func LeafHash(key, value []byte) []byte {
	return hash.Hash256b(leafPrefix, key, value)
}

// BranchHash returns the hash of an inner node
func BranchHash(left, right []byte) []byte {
	return hash.Hash256b(branchPrefix, left, right)
}

// Verify returns true if proof proves queryKeys against root
func Verify(root []byte, queryKeys [][]byte, proof *Proof) (bool, error) {
	if proof == nil || len(queryKeys) != len(proof.Queries) {
		return false, nil
	}
	for i, q := range proof.Queries {
		key := queryKeys[i]
		if len(key) != len(q.Key) {
			return false, nil
		}
		height := len(toBits(q.Bitmap))
		if height > len(key)*8 {
			return false, nil
		}
		if bytes.Equal(key, q.Key) {
			continue
		}
		// a different leaf on the path of key proves key is absent
		if len(q.Value) == 0 {
			return false, nil
		}
		for h := 0; h < height; h++ {
			if bitAt(key, h) != bitAt(q.Key, h) {
				return false, nil
			}
		}
	}
	calculated, err := CalculateRoot(proof.SiblingHashes, proof.Queries)
	if err != nil {
		if errors.Cause(err) == ErrInvalidProof {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(root, calculated), nil
}

// CalculateRoot returns the root implied by the queries and sibling hashes
func CalculateRoot(siblingHashes [][]byte, queries []*Query) ([]byte, error) {
	if len(queries) == 0 {
		return nil, errors.Wrap(ErrInvalidProof, "no query")
	}
	nodes := make([]*node, 0, len(queries))
	for _, q := range queries {
		n := &node{
			key:    q.Key,
			bitmap: toBits(q.Bitmap),
		}
		if len(n.bitmap) > len(q.Key)*8 {
			return nil, errors.Wrapf(ErrInvalidProof, "bitmap longer than key %x", q.Key)
		}
		if len(q.Value) == 0 {
			n.hash = hash.EmptyHash
		} else {
			n.hash = LeafHash(q.Key, q.Value)
		}
		var err error
		if nodes, err = insert(nodes, n); err != nil {
			return nil, err
		}
	}

	siblings := siblingHashes
	for len(nodes) > 0 {
		q := nodes[0]
		nodes = nodes[1:]
		height := len(q.bitmap)
		if height == 0 {
			if len(nodes) != 0 {
				return nil, errors.Wrap(ErrInvalidProof, "queries do not share a root")
			}
			if len(siblings) != 0 {
				return nil, errors.Wrapf(ErrInvalidProof, "%d unused sibling hashes", len(siblings))
			}
			return q.hash, nil
		}
		var sibling []byte
		switch {
		case len(nodes) > 0 && isSibling(q, nodes[0]):
			sibling = nodes[0].hash
			nodes = nodes[1:]
		case !q.bitmap[0]:
			sibling = hash.EmptyHash
		default:
			if len(siblings) == 0 {
				return nil, errors.Wrap(ErrInvalidProof, "not enough sibling hashes")
			}
			sibling = siblings[0]
			siblings = siblings[1:]
		}
		parent := &node{
			key:    q.key,
			bitmap: q.bitmap[1:],
		}
		if bitAt(q.key, height-1) == 1 {
			parent.hash = BranchHash(sibling, q.hash)
		} else {
			parent.hash = BranchHash(q.hash, sibling)
		}
		var err error
		if nodes, err = insert(nodes, parent); err != nil {
			return nil, err
		}
	}
	// unreachable, the last node always reaches height 0
	return nil, errors.Wrap(ErrInvalidProof, "empty proof")
}

// insert keeps nodes ordered by height descending then key ascending,
// merging nodes that denote the same position
func insert(nodes []*node, n *node) ([]*node, error) {
	height := len(n.bitmap)
	i := sort.Search(len(nodes), func(i int) bool {
		h := len(nodes[i].bitmap)
		if h != height {
			return h < height
		}
		return bytes.Compare(nodes[i].key, n.key) >= 0
	})
	for _, j := range []int{i - 1, i} {
		if j < 0 || j >= len(nodes) || !samePosition(nodes[j], n) {
			continue
		}
		if !bytes.Equal(nodes[j].hash, n.hash) {
			return nil, errors.Wrapf(ErrInvalidProof, "conflicting hashes at key %x", n.key)
		}
		return nodes, nil
	}
	nodes = append(nodes, nil)
	copy(nodes[i+1:], nodes[i:])
	nodes[i] = n
	return nodes, nil
}

func samePosition(a, b *node) bool {
	height := len(a.bitmap)
	if height != len(b.bitmap) {
		return false
	}
	for h := 0; h < height; h++ {
		if bitAt(a.key, h) != bitAt(b.key, h) {
			return false
		}
	}
	return true
}

func isSibling(a, b *node) bool {
	height := len(a.bitmap)
	if height == 0 || height != len(b.bitmap) {
		return false
	}
	for h := 0; h < height-1; h++ {
		if bitAt(a.key, h) != bitAt(b.key, h) {
			return false
		}
	}
	return bitAt(a.key, height-1) != bitAt(b.key, height-1)
}

// bitAt returns bit i of key, counting from the most significant bit of key[0]
func bitAt(key []byte, i int) byte {
	return (key[i/8] >> (7 - uint(i%8))) & 1
}

// toBits expands the bitmap most significant bit first without leading zeros
func toBits(bitmap []byte) []bool {
	var bits []bool
	for _, b := range bitmap {
		for i := 7; i >= 0; i-- {
			set := (b>>uint(i))&1 == 1
			if len(bits) == 0 && !set {
				continue
			}
			bits = append(bits, set)
		}
	}
	return bits
}
