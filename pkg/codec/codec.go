// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package codec implements the field-numbered binary encoding shared by all
// interoperability records. The layout is protobuf wire compatible, but the
// rules are stricter: every scalar field is always present, fields appear in
// ascending order, varints are minimal and nothing unknown may follow, so
// that decoding and re-encoding a valid input reproduces it byte for byte.
package codec

import (
	"math"
	"unicode/utf8"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

var (
	// ErrInvalidData indicates the input is not a canonical encoding
	ErrInvalidData = errors.New("invalid encoded data")
	// ErrMissingField indicates a required field is absent
	ErrMissingField = errors.New("missing field")
)

// Writer accumulates the encoding of one object.
// Fields must be written in ascending field number order.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty writer
func NewWriter() *Writer {
	return &Writer{}
}

// WriteUint32 writes a uint32 field
func (w *Writer) WriteUint32(num int, v uint32) {
	w.WriteUint64(num, uint64(v))
}

// WriteUint64 writes a uint64 field
func (w *Writer) WriteUint64(num int, v uint64) {
	w.buf = protowire.AppendTag(w.buf, protowire.Number(num), protowire.VarintType)
	w.buf = protowire.AppendVarint(w.buf, v)
}

// WriteBool writes a boolean field
func (w *Writer) WriteBool(num int, v bool) {
	w.WriteUint64(num, protowire.EncodeBool(v))
}

// WriteBytes writes a bytes field
func (w *Writer) WriteBytes(num int, v []byte) {
	w.buf = protowire.AppendTag(w.buf, protowire.Number(num), protowire.BytesType)
	w.buf = protowire.AppendBytes(w.buf, v)
}

// WriteString writes a string field
func (w *Writer) WriteString(num int, v string) {
	w.buf = protowire.AppendTag(w.buf, protowire.Number(num), protowire.BytesType)
	w.buf = protowire.AppendString(w.buf, v)
}

// WriteObject writes a nested object
func (w *Writer) WriteObject(num int, obj *Writer) {
	w.WriteBytes(num, obj.Bytes())
}

// WriteBytesArray writes one entry per element, nothing for an empty array
func (w *Writer) WriteBytesArray(num int, vs [][]byte) {
	for _, v := range vs {
		w.WriteBytes(num, v)
	}
}

// WriteObjectArray writes one entry per nested object
func (w *Writer) WriteObjectArray(num int, objs []*Writer) {
	for _, obj := range objs {
		w.WriteObject(num, obj)
	}
}

// WriteUint64Array writes a packed array of varints, nothing for an empty array
func (w *Writer) WriteUint64Array(num int, vs []uint64) {
	if len(vs) == 0 {
		return
	}
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendVarint(packed, v)
	}
	w.WriteBytes(num, packed)
}

// Bytes returns the encoding written so far
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reader decodes one object, field by field, in ascending order
type Reader struct {
	data []byte
}

// NewReader returns a reader over data
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// has returns true if the next field is num with the given wire type
func (r *Reader) has(num int, typ protowire.Type) bool {
	if len(r.data) == 0 {
		return false
	}
	n, t, l := protowire.ConsumeTag(r.data)
	return l > 0 && n == protowire.Number(num) && t == typ
}

func (r *Reader) expect(num int, typ protowire.Type) error {
	if len(r.data) == 0 {
		return errors.Wrapf(ErrMissingField, "field %d", num)
	}
	n, t, l := protowire.ConsumeTag(r.data)
	if l < 0 {
		return errors.Wrap(ErrInvalidData, protowire.ParseError(l).Error())
	}
	if l != protowire.SizeTag(n) {
		return errors.Wrapf(ErrInvalidData, "non-minimal tag for field %d", n)
	}
	if n != protowire.Number(num) {
		if n > protowire.Number(num) {
			return errors.Wrapf(ErrMissingField, "field %d", num)
		}
		return errors.Wrapf(ErrInvalidData, "unexpected field %d, expecting %d", n, num)
	}
	if t != typ {
		return errors.Wrapf(ErrInvalidData, "field %d has wire type %d, expecting %d", num, t, typ)
	}
	r.data = r.data[l:]
	return nil
}

func consumeVarint(data []byte) (uint64, int, error) {
	v, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return 0, 0, errors.Wrap(ErrInvalidData, protowire.ParseError(n).Error())
	}
	if n != protowire.SizeVarint(v) {
		return 0, 0, errors.Wrap(ErrInvalidData, "non-minimal varint")
	}
	return v, n, nil
}

// ReadUint64 reads a uint64 field
func (r *Reader) ReadUint64(num int) (uint64, error) {
	if err := r.expect(num, protowire.VarintType); err != nil {
		return 0, err
	}
	v, n, err := consumeVarint(r.data)
	if err != nil {
		return 0, errors.Wrapf(err, "field %d", num)
	}
	r.data = r.data[n:]
	return v, nil
}

// ReadUint32 reads a uint32 field
func (r *Reader) ReadUint32(num int) (uint32, error) {
	v, err := r.ReadUint64(num)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, errors.Wrapf(ErrInvalidData, "field %d overflows uint32", num)
	}
	return uint32(v), nil
}

// ReadBool reads a boolean field
func (r *Reader) ReadBool(num int) (bool, error) {
	v, err := r.ReadUint64(num)
	if err != nil {
		return false, err
	}
	if v > 1 {
		return false, errors.Wrapf(ErrInvalidData, "field %d is not a boolean", num)
	}
	return v == 1, nil
}

// ReadBytes reads a bytes field, the returned slice is a copy
func (r *Reader) ReadBytes(num int) ([]byte, error) {
	if err := r.expect(num, protowire.BytesType); err != nil {
		return nil, err
	}
	v, n := protowire.ConsumeBytes(r.data)
	if n < 0 {
		return nil, errors.Wrapf(ErrInvalidData, "field %d: %v", num, protowire.ParseError(n))
	}
	r.data = r.data[n:]
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// ReadString reads a UTF-8 string field
func (r *Reader) ReadString(num int) (string, error) {
	v, err := r.ReadBytes(num)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(v) {
		return "", errors.Wrapf(ErrInvalidData, "field %d is not valid utf-8", num)
	}
	return string(v), nil
}

// ReadObject reads a nested object and returns a reader over it
func (r *Reader) ReadObject(num int) (*Reader, error) {
	v, err := r.ReadBytes(num)
	if err != nil {
		return nil, err
	}
	return NewReader(v), nil
}

// ReadBytesArray reads all consecutive entries of a repeated bytes field
func (r *Reader) ReadBytesArray(num int) ([][]byte, error) {
	var vs [][]byte
	for r.has(num, protowire.BytesType) {
		v, err := r.ReadBytes(num)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}

// ReadObjectArray reads all consecutive entries of a repeated object field
func (r *Reader) ReadObjectArray(num int) ([]*Reader, error) {
	vs, err := r.ReadBytesArray(num)
	if err != nil {
		return nil, err
	}
	readers := make([]*Reader, 0, len(vs))
	for _, v := range vs {
		readers = append(readers, NewReader(v))
	}
	return readers, nil
}

// ReadUint64Array reads a packed array of varints, absent means empty
func (r *Reader) ReadUint64Array(num int) ([]uint64, error) {
	if !r.has(num, protowire.BytesType) {
		return nil, nil
	}
	packed, err := r.ReadBytes(num)
	if err != nil {
		return nil, err
	}
	if len(packed) == 0 {
		return nil, errors.Wrapf(ErrInvalidData, "field %d is an empty packed array", num)
	}
	var vs []uint64
	for len(packed) > 0 {
		v, n, err := consumeVarint(packed)
		if err != nil {
			return nil, errors.Wrapf(err, "field %d", num)
		}
		vs = append(vs, v)
		packed = packed[n:]
	}
	return vs, nil
}

// Close returns an error if unread data is left
func (r *Reader) Close() error {
	if len(r.data) != 0 {
		return errors.Wrapf(ErrInvalidData, "%d trailing bytes", len(r.data))
	}
	return nil
}
