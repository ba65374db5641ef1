// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"bytes"

	"github.com/pkg/errors"
)

const (
	// FailureReceiptStatus is the status that the action execution failed
	FailureReceiptStatus = uint64(0)
	// SuccessReceiptStatus is the status that the action execution succeeded
	SuccessReceiptStatus = uint64(1)
)

// ErrUnknownSnapshot indicates the event queue snapshot does not exist
var ErrUnknownSnapshot = errors.New("unknown event snapshot")

type (
	// Receipt represents the result of an action
	Receipt struct {
		Status      uint64
		BlockHeight uint64
		ActionHash  []byte
		Logs        []*Log
	}

	// Log stores an event emitted by a module
	Log struct {
		Module      string
		Name        string
		Topics      [][]byte
		Data        []byte
		BlockHeight uint64
		ActionHash  []byte
		Index       uint32
	}

	// EventQueue collects the events emitted while handling an action
	EventQueue struct {
		logs      []*Log
		snapshots map[int]int
		tag       int
	}
)

// NewEventQueue returns an empty event queue
func NewEventQueue() *EventQueue {
	return &EventQueue{
		snapshots: make(map[int]int),
	}
}

// Add appends an event
func (eq *EventQueue) Add(module, name string, data []byte, topics ...[]byte) {
	eq.logs = append(eq.logs, &Log{
		Module: module,
		Name:   name,
		Topics: topics,
		Data:   data,
	})
}

// Snapshot marks the current position of the queue
func (eq *EventQueue) Snapshot() int {
	eq.tag++
	eq.snapshots[eq.tag] = len(eq.logs)
	return eq.tag
}

// Revert drops every event added after the snapshot
func (eq *EventQueue) Revert(snapshot int) error {
	size, ok := eq.snapshots[snapshot]
	if !ok {
		return errors.Wrapf(ErrUnknownSnapshot, "snapshot %d", snapshot)
	}
	for t := range eq.snapshots {
		if t > snapshot {
			delete(eq.snapshots, t)
		}
	}
	eq.logs = eq.logs[:size]
	return nil
}

// Logs returns the events in emission order
func (eq *EventQueue) Logs() []*Log {
	return eq.logs
}

// Filter returns the events of a module with the given name
func (eq *EventQueue) Filter(module, name string) []*Log {
	var logs []*Log
	for _, l := range eq.logs {
		if l.Module == module && l.Name == name {
			logs = append(logs, l)
		}
	}
	return logs
}

// AddLogs stamps the events with the block height and action hash, and attaches them to the receipt
func (receipt *Receipt) AddLogs(logs ...*Log) *Receipt {
	for _, l := range logs {
		l.BlockHeight = receipt.BlockHeight
		l.ActionHash = receipt.ActionHash
		l.Index = uint32(len(receipt.Logs))
		receipt.Logs = append(receipt.Logs, l)
	}
	return receipt
}

// HasTopic returns true if the log carries the topic
func (l *Log) HasTopic(topic []byte) bool {
	for _, t := range l.Topics {
		if bytes.Equal(t, topic) {
			return true
		}
	}
	return false
}
