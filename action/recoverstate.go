// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-interop/pkg/codec"
)

// SubstorePrefixLength is the length of a substore prefix
const SubstorePrefixLength = 2

type (
	// StoreEntry is one entry of a terminated chain's store to recover
	StoreEntry struct {
		SubstorePrefix []byte
		StoreKey       []byte
		StoreValue     []byte
		Bitmap         []byte
	}

	// StateRecovery recovers store entries of a module on a terminated chain
	StateRecovery struct {
		ChainID       []byte
		Module        string
		StoreEntries  []*StoreEntry
		SiblingHashes [][]byte
	}

	// StateRecoveryInitialization proves the last certified state root of a
	// terminated chain against the mainchain state root
	StateRecoveryInitialization struct {
		ChainID          []byte
		SidechainAccount []byte
		Bitmap           []byte
		SiblingHashes    [][]byte
	}

	// TerminateSidechainForLiveness terminates a sidechain that stopped certifying
	TerminateSidechainForLiveness struct {
		ChainID []byte
	}
)

// Serialize returns the canonical encoding
func (sr *StateRecovery) Serialize() []byte {
	entries := make([]*codec.Writer, 0, len(sr.StoreEntries))
	for _, e := range sr.StoreEntries {
		w := codec.NewWriter()
		w.WriteBytes(1, e.SubstorePrefix)
		w.WriteBytes(2, e.StoreKey)
		w.WriteBytes(3, e.StoreValue)
		w.WriteBytes(4, e.Bitmap)
		entries = append(entries, w)
	}
	w := codec.NewWriter()
	w.WriteBytes(1, sr.ChainID)
	w.WriteString(2, sr.Module)
	w.WriteObjectArray(3, entries)
	w.WriteBytesArray(4, sr.SiblingHashes)
	return w.Bytes()
}

// Deserialize decodes a state recovery
func (sr *StateRecovery) Deserialize(data []byte) error {
	var (
		r   = codec.NewReader(data)
		rec StateRecovery
		err error
	)
	if rec.ChainID, err = r.ReadBytes(1); err != nil {
		return errors.Wrap(err, "failed to decode chain ID")
	}
	if rec.Module, err = r.ReadString(2); err != nil {
		return errors.Wrap(err, "failed to decode module")
	}
	entries, err := r.ReadObjectArray(3)
	if err != nil {
		return errors.Wrap(err, "failed to decode store entries")
	}
	for _, er := range entries {
		e := &StoreEntry{}
		if e.SubstorePrefix, err = er.ReadBytes(1); err != nil {
			return errors.Wrap(err, "failed to decode substore prefix")
		}
		if e.StoreKey, err = er.ReadBytes(2); err != nil {
			return errors.Wrap(err, "failed to decode store key")
		}
		if e.StoreValue, err = er.ReadBytes(3); err != nil {
			return errors.Wrap(err, "failed to decode store value")
		}
		if e.Bitmap, err = er.ReadBytes(4); err != nil {
			return errors.Wrap(err, "failed to decode bitmap")
		}
		if err := er.Close(); err != nil {
			return err
		}
		rec.StoreEntries = append(rec.StoreEntries, e)
	}
	if rec.SiblingHashes, err = r.ReadBytesArray(4); err != nil {
		return errors.Wrap(err, "failed to decode sibling hashes")
	}
	if err := r.Close(); err != nil {
		return err
	}
	*sr = rec
	return nil
}

// SanityCheck checks the field bounds
func (sr *StateRecovery) SanityCheck() error {
	if err := checkChainID(sr.ChainID); err != nil {
		return err
	}
	if !IsValidName(sr.Module, MinModuleNameLength, MaxModuleNameLength) {
		return errors.Wrapf(ErrInvalidName, "module name %q", sr.Module)
	}
	if len(sr.StoreEntries) == 0 {
		return errors.Wrap(ErrInvalidLength, "no store entry")
	}
	for _, e := range sr.StoreEntries {
		if len(e.SubstorePrefix) != SubstorePrefixLength {
			return errors.Wrapf(ErrInvalidLength, "substore prefix has length %d", len(e.SubstorePrefix))
		}
	}
	return checkHashes("sibling hash", sr.SiblingHashes)
}

// Serialize returns the canonical encoding
func (sri *StateRecoveryInitialization) Serialize() []byte {
	w := codec.NewWriter()
	w.WriteBytes(1, sri.ChainID)
	w.WriteBytes(2, sri.SidechainAccount)
	w.WriteBytes(3, sri.Bitmap)
	w.WriteBytesArray(4, sri.SiblingHashes)
	return w.Bytes()
}

// Deserialize decodes a state recovery initialization
func (sri *StateRecoveryInitialization) Deserialize(data []byte) error {
	var (
		r    = codec.NewReader(data)
		init StateRecoveryInitialization
		err  error
	)
	if init.ChainID, err = r.ReadBytes(1); err != nil {
		return errors.Wrap(err, "failed to decode chain ID")
	}
	if init.SidechainAccount, err = r.ReadBytes(2); err != nil {
		return errors.Wrap(err, "failed to decode sidechain account")
	}
	if init.Bitmap, err = r.ReadBytes(3); err != nil {
		return errors.Wrap(err, "failed to decode bitmap")
	}
	if init.SiblingHashes, err = r.ReadBytesArray(4); err != nil {
		return errors.Wrap(err, "failed to decode sibling hashes")
	}
	if err := r.Close(); err != nil {
		return err
	}
	*sri = init
	return nil
}

// SanityCheck checks the field bounds
func (sri *StateRecoveryInitialization) SanityCheck() error {
	if err := checkChainID(sri.ChainID); err != nil {
		return err
	}
	return checkHashes("sibling hash", sri.SiblingHashes)
}

// Serialize returns the canonical encoding
func (t *TerminateSidechainForLiveness) Serialize() []byte {
	w := codec.NewWriter()
	w.WriteBytes(1, t.ChainID)
	return w.Bytes()
}

// Deserialize decodes the action
func (t *TerminateSidechainForLiveness) Deserialize(data []byte) error {
	r := codec.NewReader(data)
	chainID, err := r.ReadBytes(1)
	if err != nil {
		return errors.Wrap(err, "failed to decode chain ID")
	}
	if err := r.Close(); err != nil {
		return err
	}
	t.ChainID = chainID
	return nil
}

// SanityCheck checks the field bounds
func (t *TerminateSidechainForLiveness) SanityCheck() error {
	return checkChainID(t.ChainID)
}
