// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package batch

import (
	"fmt"

	"github.com/pkg/errors"
)

// WriteType is the type of a queued write
type WriteType uint8

// write types
const (
	Put WriteType = iota
	Delete
)

func (t WriteType) String() string {
	if t == Delete {
		return "delete"
	}
	return "put"
}

// WriteInfo is a queued Put or Delete, with the message its failure is reported with
type WriteInfo struct {
	writeType WriteType
	namespace string
	key       []byte
	value     []byte
	errFormat string
	errArgs   []interface{}
}

// NewWriteInfo creates a new write info
func NewWriteInfo(writeType WriteType, namespace string, key, value []byte, errFormat string, errArgs ...interface{}) *WriteInfo {
	return &WriteInfo{
		writeType: writeType,
		namespace: namespace,
		key:       key,
		value:     value,
		errFormat: errFormat,
		errArgs:   errArgs,
	}
}

// WriteType returns the type of the write
func (wi *WriteInfo) WriteType() WriteType { return wi.writeType }

// Namespace returns the namespace of the write
func (wi *WriteInfo) Namespace() string { return wi.namespace }

// Key returns a copy of the key
func (wi *WriteInfo) Key() []byte { return append([]byte{}, wi.key...) }

// Value returns a copy of the value, nil for a delete
func (wi *WriteInfo) Value() []byte {
	if wi.writeType == Delete {
		return nil
	}
	return append([]byte{}, wi.value...)
}

// Wrap annotates a store error with the message of the write
func (wi *WriteInfo) Wrap(err error) error {
	if err == nil {
		return nil
	}
	if wi.errFormat == "" {
		return errors.Wrapf(err, "failed to %s %s/%x", wi.writeType, wi.namespace, wi.key)
	}
	return errors.Wrapf(err, wi.errFormat, wi.errArgs...)
}

func (wi *WriteInfo) String() string {
	return fmt.Sprintf("%s %s/%x", wi.writeType, wi.namespace, wi.key)
}
