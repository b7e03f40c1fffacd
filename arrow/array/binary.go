// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package array

import (
	"bytes"
	"fmt"
	"strings"
	"unsafe"

	"github.com/columnar/arroweq/arrow"
	"golang.org/x/xerrors"
)

// binaryBase holds the offsets and value bytes shared by the
// variable-length binary and string arrays.
type binaryBase[O offsetType] struct {
	array
	valueOffsets []O
	valueBytes   []byte
}

func (a *binaryBase[O]) setData(data *Data) {
	if len(data.buffers) != 3 {
		panic("len(data.buffers) != 3")
	}

	a.array.setData(data)

	if valueData := data.buffers[2]; valueData != nil {
		a.valueBytes = valueData.Bytes()
	}

	if valueOffsets := data.buffers[1]; valueOffsets != nil {
		a.valueOffsets = arrow.GetData[O](valueOffsets.Bytes())
	}
}

func (a *binaryBase[O]) valueAt(i int) []byte {
	j := a.array.data.offset + i
	return a.valueBytes[a.valueOffsets[j]:a.valueOffsets[j+1]]
}

// ValueOffset returns the offset of the value at index i.
func (a *binaryBase[O]) ValueOffset(i int) int {
	return int(a.valueOffsets[a.array.data.offset+i])
}

// ValueLen returns the length in bytes of the value at index i.
func (a *binaryBase[O]) ValueLen(i int) int {
	j := a.array.data.offset + i
	return int(a.valueOffsets[j+1] - a.valueOffsets[j])
}

// ValueOffsets returns the Len()+1 offsets of the array window.
func (a *binaryBase[O]) ValueOffsets() []O {
	beg := a.array.data.offset
	end := beg + a.array.data.length + 1
	return a.valueOffsets[beg:end]
}

// ValueBytes returns the bytes spanned by the array window.
func (a *binaryBase[O]) ValueBytes() []byte {
	if a.array.data.length == 0 {
		return []byte{}
	}
	beg := a.array.data.offset
	end := beg + a.array.data.length
	return a.valueBytes[a.valueOffsets[beg]:a.valueOffsets[end]]
}

func (a *binaryBase[O]) format(o *strings.Builder, value func(i int) any) {
	o.WriteString("[")
	for i := 0; i < a.Len(); i++ {
		if i > 0 {
			o.WriteString(" ")
		}
		switch {
		case a.IsNull(i):
			o.WriteString(NullValueStr)
		default:
			fmt.Fprintf(o, "%q", value(i))
		}
	}
	o.WriteString("]")
}

func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// A type which represents an immutable sequence of variable-length binary strings.
type Binary struct {
	binaryBase[int32]
}

// NewBinaryData constructs a new Binary array from data.
func NewBinaryData(data arrow.ArrayData) *Binary {
	a := &Binary{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Value returns the slice at index i. This value should not be mutated.
func (a *Binary) Value(i int) []byte { return a.valueAt(i) }

// ValueString returns the string at index i without performing additional allocations.
// The string is only valid for the lifetime of the Binary array.
func (a *Binary) ValueString(i int) string { return bytesToString(a.valueAt(i)) }

func (a *Binary) String() string {
	o := new(strings.Builder)
	a.format(o, func(i int) any { return a.ValueString(i) })
	return o.String()
}

// LargeBinary is a Binary array whose offsets are 64-bit.
type LargeBinary struct {
	binaryBase[int64]
}

// NewLargeBinaryData constructs a new LargeBinary array from data.
func NewLargeBinaryData(data arrow.ArrayData) *LargeBinary {
	a := &LargeBinary{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Value returns the slice at index i. This value should not be mutated.
func (a *LargeBinary) Value(i int) []byte { return a.valueAt(i) }

// ValueString returns the string at index i without performing additional allocations.
func (a *LargeBinary) ValueString(i int) string { return bytesToString(a.valueAt(i)) }

func (a *LargeBinary) String() string {
	o := new(strings.Builder)
	a.format(o, func(i int) any { return a.ValueString(i) })
	return o.String()
}

// String represents an immutable sequence of variable-length UTF-8 strings.
type String struct {
	binaryBase[int32]
}

// NewStringData constructs a new String array from data.
func NewStringData(data arrow.ArrayData) *String {
	a := &String{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Value returns the string at index i. The string shares the array memory.
func (a *String) Value(i int) string { return bytesToString(a.valueAt(i)) }

func (a *String) String() string {
	o := new(strings.Builder)
	a.format(o, func(i int) any { return a.Value(i) })
	return o.String()
}

// LargeString is a String array whose offsets are 64-bit.
type LargeString struct {
	binaryBase[int64]
}

// NewLargeStringData constructs a new LargeString array from data.
func NewLargeStringData(data arrow.ArrayData) *LargeString {
	a := &LargeString{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Value returns the string at index i. The string shares the array memory.
func (a *LargeString) Value(i int) string { return bytesToString(a.valueAt(i)) }

func (a *LargeString) String() string {
	o := new(strings.Builder)
	a.format(o, func(i int) any { return a.Value(i) })
	return o.String()
}

// windowOffsets returns the Len()+1 offsets of the window of arr.
func windowOffsets[O offsetType](arr arrow.Array) ([]O, error) {
	data := arr.Data()
	var raw []byte
	if bufs := data.Buffers(); len(bufs) > 1 && bufs[1] != nil {
		raw = bufs[1].Bytes()
	}

	offsets := arrow.GetData[O](raw)
	end := data.Offset() + data.Len() + 1
	if end > len(offsets) {
		return nil, xerrors.Errorf("arrow/array: offsets buffer of %s array holds %d entries, %d needed: %w",
			arr.DataType(), len(offsets), end, arrow.ErrInvalid)
	}
	return offsets[data.Offset():end], nil
}

// offsetsEqual reports whether two offsets tables delimit spans of the
// same lengths. When both arrays start at logical offset zero and share
// their first entry the tables are compared as raw bytes.
func offsetsEqual[O offsetType](left, right []O, unsliced bool) bool {
	if len(left) != len(right) {
		return false
	}
	if len(left) == 0 {
		return true
	}
	if unsliced && left[0] == right[0] {
		return bytes.Equal(arrow.GetBytes(left), arrow.GetBytes(right))
	}
	return offsetDeltasEqual(left, right)
}

func offsetDeltasEqual[O offsetType](left, right []O) bool {
	lbase, rbase := left[0], right[0]
	for i := range left {
		if left[i]-lbase != right[i]-rbase {
			return false
		}
	}
	return true
}

// valueBytes returns the whole value buffer of a binary-like array.
func valueBytes(arr arrow.Array) []byte {
	if bufs := arr.Data().Buffers(); len(bufs) > 2 && bufs[2] != nil {
		return bufs[2].Bytes()
	}
	return nil
}

func valueSpan[O offsetType](arr arrow.Array, values []byte, beg, end O) ([]byte, error) {
	if beg < 0 || beg > end || int64(end) > int64(len(values)) {
		return nil, xerrors.Errorf("arrow/array: span [%d:%d] outside the %d value bytes of %s array: %w",
			beg, end, len(values), arr.DataType(), arrow.ErrInvalid)
	}
	return values[beg:end], nil
}

func binaryEqual[O offsetType](left, right arrow.Array) (bool, error) {
	n := left.Len()
	if n == 0 {
		return true, nil
	}

	// spans under null slots are free to differ.
	if left.NullN() != 0 {
		return binaryRangeEqual[O](left, right, 0, n, 0)
	}

	lo, err := windowOffsets[O](left)
	if err != nil {
		return false, err
	}
	ro, err := windowOffsets[O](right)
	if err != nil {
		return false, err
	}

	if !offsetsEqual(lo, ro, left.Data().Offset() == 0 && right.Data().Offset() == 0) {
		return false, nil
	}

	lb, err := valueSpan(left, valueBytes(left), lo[0], lo[n])
	if err != nil {
		return false, err
	}
	rb, err := valueSpan(right, valueBytes(right), ro[0], ro[n])
	if err != nil {
		return false, err
	}
	return bytes.Equal(lb, rb), nil
}

func binaryRangeEqual[O offsetType](left, right arrow.Array, start, end, otherStart int) (bool, error) {
	if start == end {
		return true, nil
	}

	lo, err := windowOffsets[O](left)
	if err != nil {
		return false, err
	}
	ro, err := windowOffsets[O](right)
	if err != nil {
		return false, err
	}
	lvals, rvals := valueBytes(left), valueBytes(right)

	for i, j := start, otherStart; i < end; i, j = i+1, j+1 {
		isNull := left.IsNull(i)
		if isNull != right.IsNull(j) {
			return false, nil
		}
		if isNull {
			continue
		}
		lb, err := valueSpan(left, lvals, lo[i], lo[i+1])
		if err != nil {
			return false, err
		}
		rb, err := valueSpan(right, rvals, ro[j], ro[j+1])
		if err != nil {
			return false, err
		}
		if !bytes.Equal(lb, rb) {
			return false, nil
		}
	}
	return true, nil
}

var (
	_ arrow.Array = (*Binary)(nil)
	_ arrow.Array = (*LargeBinary)(nil)
	_ arrow.Array = (*String)(nil)
	_ arrow.Array = (*LargeString)(nil)
)
