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
	"sync/atomic"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/bitutil"
	"github.com/columnar/arroweq/arrow/internal/debug"
	"golang.org/x/xerrors"
)

const (
	// UnknownNullCount specifies the NullN should be calculated from the null bitmap buffer.
	UnknownNullCount = -1

	// NullValueStr represents a null value in the String output of arrays.
	NullValueStr = "(null)"
)

// A type which satisfies array.Interface represents an immutable sequence of values.
type array struct {
	refCount        int64
	data            *Data
	nullBitmapBytes []byte
}

// Retain increases the reference count by 1.
// Retain may be called simultaneously from multiple goroutines.
func (a *array) Retain() {
	atomic.AddInt64(&a.refCount, 1)
}

// Release decreases the reference count by 1.
// Release may be called simultaneously from multiple goroutines.
// When the reference count goes to zero, the memory is freed.
func (a *array) Release() {
	debug.Assert(atomic.LoadInt64(&a.refCount) > 0, "too many releases")

	if atomic.AddInt64(&a.refCount, -1) == 0 {
		a.data.Release()
		a.data, a.nullBitmapBytes = nil, nil
	}
}

// DataType returns the type metadata for this instance.
func (a *array) DataType() arrow.DataType { return a.data.dtype }

// NullN returns the number of null values in the array.
func (a *array) NullN() int { return a.data.nulls }

// NullBitmapBytes returns a byte slice of the validity bitmap.
func (a *array) NullBitmapBytes() []byte { return a.nullBitmapBytes }

func (a *array) Data() arrow.ArrayData { return a.data }

// Len returns the number of elements in the array.
func (a *array) Len() int { return a.data.length }

// IsNull returns true if value at index is null.
// NOTE: IsNull will panic if NullBitmapBytes is not empty and 0 > i ≥ Len.
func (a *array) IsNull(i int) bool {
	return len(a.nullBitmapBytes) != 0 && bitutil.BitIsNotSet(a.nullBitmapBytes, a.data.offset+i)
}

// IsValid returns true if value at index is not null.
// NOTE: IsValid will panic if NullBitmapBytes is not empty and 0 > i ≥ Len.
func (a *array) IsValid(i int) bool {
	return len(a.nullBitmapBytes) == 0 || bitutil.BitIsSet(a.nullBitmapBytes, a.data.offset+i)
}

func (a *array) setData(data *Data) {
	// Retain before releasing in case a.data is the same as data.
	data.Retain()

	if a.data != nil {
		a.data.Release()
	}

	if len(data.buffers) > 0 && data.buffers[0] != nil {
		a.nullBitmapBytes = data.buffers[0].Bytes()
	}
	a.data = data
}

func (a *array) Offset() int {
	return a.data.Offset()
}

// MakeFromData constructs a strongly-typed array instance from generic Data.
//
// Every type identifier maps to exactly one concrete array. MakeFromData
// panics with an error wrapping arrow.ErrNotImplemented for an identifier
// it does not know.
func MakeFromData(data arrow.ArrayData) arrow.Array {
	switch data.DataType().ID() {
	case arrow.NULL:
		return NewNullData(data)
	case arrow.BOOL:
		return NewBooleanData(data)
	case arrow.UINT8:
		return NewUint8Data(data)
	case arrow.INT8:
		return NewInt8Data(data)
	case arrow.UINT16:
		return NewUint16Data(data)
	case arrow.INT16:
		return NewInt16Data(data)
	case arrow.UINT32:
		return NewUint32Data(data)
	case arrow.INT32:
		return NewInt32Data(data)
	case arrow.UINT64:
		return NewUint64Data(data)
	case arrow.INT64:
		return NewInt64Data(data)
	case arrow.FLOAT16:
		return NewFloat16Data(data)
	case arrow.FLOAT32:
		return NewFloat32Data(data)
	case arrow.FLOAT64:
		return NewFloat64Data(data)
	case arrow.STRING:
		return NewStringData(data)
	case arrow.BINARY:
		return NewBinaryData(data)
	case arrow.FIXED_SIZE_BINARY:
		return NewFixedSizeBinaryData(data)
	case arrow.DATE32:
		return NewDate32Data(data)
	case arrow.DATE64:
		return NewDate64Data(data)
	case arrow.TIMESTAMP:
		return NewTimestampData(data)
	case arrow.TIME32:
		return NewTime32Data(data)
	case arrow.TIME64:
		return NewTime64Data(data)
	case arrow.INTERVAL_MONTHS:
		return NewMonthIntervalData(data)
	case arrow.INTERVAL_DAY_TIME:
		return NewDayTimeIntervalData(data)
	case arrow.LIST:
		return NewListData(data)
	case arrow.STRUCT:
		return NewStructData(data)
	case arrow.SPARSE_UNION:
		return NewSparseUnionData(data)
	case arrow.DENSE_UNION:
		return NewDenseUnionData(data)
	case arrow.DICTIONARY:
		return NewDictionaryData(data)
	case arrow.FIXED_SIZE_LIST:
		return NewFixedSizeListData(data)
	case arrow.DURATION:
		return NewDurationData(data)
	case arrow.LARGE_STRING:
		return NewLargeStringData(data)
	case arrow.LARGE_BINARY:
		return NewLargeBinaryData(data)
	case arrow.LARGE_LIST:
		return NewLargeListData(data)
	default:
		panic(xerrors.Errorf("arrow/array: no array for type %s: %w", data.DataType(), arrow.ErrNotImplemented))
	}
}

// NewSlice constructs a zero-copy slice of the array with the indicated
// indices i and j, corresponding to array[i:j].
// The returned array must be Release()'d after use.
//
// NewSlice panics if the slice is outside the valid range of the input array.
// NewSlice panics if j < i.
func NewSlice(arr arrow.Array, i, j int64) arrow.Array {
	data := NewSliceData(arr.Data(), i, j)
	slice := MakeFromData(data)
	data.Release()
	return slice
}
