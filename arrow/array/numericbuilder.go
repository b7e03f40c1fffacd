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
	"github.com/columnar/arroweq/arrow/float16"
	"github.com/columnar/arroweq/arrow/internal/debug"
	"github.com/columnar/arroweq/arrow/internal/json"
	"github.com/columnar/arroweq/arrow/memory"
)

// NumericBuilder builds arrays of fixed-width values of type T.
type NumericBuilder[T arrow.FixedWidthType] struct {
	builder

	dtype   arrow.DataType
	data    *memory.Buffer
	rawData []T
}

type (
	Int8Builder            = NumericBuilder[int8]
	Int16Builder           = NumericBuilder[int16]
	Int32Builder           = NumericBuilder[int32]
	Int64Builder           = NumericBuilder[int64]
	Uint8Builder           = NumericBuilder[uint8]
	Uint16Builder          = NumericBuilder[uint16]
	Uint32Builder          = NumericBuilder[uint32]
	Uint64Builder          = NumericBuilder[uint64]
	Float16Builder         = NumericBuilder[float16.Num]
	Float32Builder         = NumericBuilder[float32]
	Float64Builder         = NumericBuilder[float64]
	Date32Builder          = NumericBuilder[arrow.Date32]
	Date64Builder          = NumericBuilder[arrow.Date64]
	Time32Builder          = NumericBuilder[arrow.Time32]
	Time64Builder          = NumericBuilder[arrow.Time64]
	TimestampBuilder       = NumericBuilder[arrow.Timestamp]
	DurationBuilder        = NumericBuilder[arrow.Duration]
	MonthIntervalBuilder   = NumericBuilder[arrow.MonthInterval]
	DayTimeIntervalBuilder = NumericBuilder[arrow.DayTimeInterval]
)

func newNumericBuilder[T arrow.FixedWidthType](mem memory.Allocator, dtype arrow.DataType) *NumericBuilder[T] {
	return &NumericBuilder[T]{builder: builder{refCount: 1, mem: mem}, dtype: dtype}
}

func NewInt8Builder(mem memory.Allocator) *Int8Builder {
	return newNumericBuilder[int8](mem, arrow.PrimitiveTypes.Int8)
}

func NewInt16Builder(mem memory.Allocator) *Int16Builder {
	return newNumericBuilder[int16](mem, arrow.PrimitiveTypes.Int16)
}

func NewInt32Builder(mem memory.Allocator) *Int32Builder {
	return newNumericBuilder[int32](mem, arrow.PrimitiveTypes.Int32)
}

func NewInt64Builder(mem memory.Allocator) *Int64Builder {
	return newNumericBuilder[int64](mem, arrow.PrimitiveTypes.Int64)
}

func NewUint8Builder(mem memory.Allocator) *Uint8Builder {
	return newNumericBuilder[uint8](mem, arrow.PrimitiveTypes.Uint8)
}

func NewUint16Builder(mem memory.Allocator) *Uint16Builder {
	return newNumericBuilder[uint16](mem, arrow.PrimitiveTypes.Uint16)
}

func NewUint32Builder(mem memory.Allocator) *Uint32Builder {
	return newNumericBuilder[uint32](mem, arrow.PrimitiveTypes.Uint32)
}

func NewUint64Builder(mem memory.Allocator) *Uint64Builder {
	return newNumericBuilder[uint64](mem, arrow.PrimitiveTypes.Uint64)
}

func NewFloat16Builder(mem memory.Allocator) *Float16Builder {
	return newNumericBuilder[float16.Num](mem, arrow.FixedWidthTypes.Float16)
}

func NewFloat32Builder(mem memory.Allocator) *Float32Builder {
	return newNumericBuilder[float32](mem, arrow.PrimitiveTypes.Float32)
}

func NewFloat64Builder(mem memory.Allocator) *Float64Builder {
	return newNumericBuilder[float64](mem, arrow.PrimitiveTypes.Float64)
}

func NewDate32Builder(mem memory.Allocator) *Date32Builder {
	return newNumericBuilder[arrow.Date32](mem, arrow.PrimitiveTypes.Date32)
}

func NewDate64Builder(mem memory.Allocator) *Date64Builder {
	return newNumericBuilder[arrow.Date64](mem, arrow.PrimitiveTypes.Date64)
}

func NewTime32Builder(mem memory.Allocator, dtype *arrow.Time32Type) *Time32Builder {
	return newNumericBuilder[arrow.Time32](mem, dtype)
}

func NewTime64Builder(mem memory.Allocator, dtype *arrow.Time64Type) *Time64Builder {
	return newNumericBuilder[arrow.Time64](mem, dtype)
}

func NewTimestampBuilder(mem memory.Allocator, dtype *arrow.TimestampType) *TimestampBuilder {
	return newNumericBuilder[arrow.Timestamp](mem, dtype)
}

func NewDurationBuilder(mem memory.Allocator, dtype *arrow.DurationType) *DurationBuilder {
	return newNumericBuilder[arrow.Duration](mem, dtype)
}

func NewMonthIntervalBuilder(mem memory.Allocator) *MonthIntervalBuilder {
	return newNumericBuilder[arrow.MonthInterval](mem, arrow.FixedWidthTypes.MonthInterval)
}

func NewDayTimeIntervalBuilder(mem memory.Allocator) *DayTimeIntervalBuilder {
	return newNumericBuilder[arrow.DayTimeInterval](mem, arrow.FixedWidthTypes.DayTimeInterval)
}

func (b *NumericBuilder[T]) Type() arrow.DataType { return b.dtype }

// Release decreases the reference count by 1.
// When the reference count goes to zero, the memory is freed.
func (b *NumericBuilder[T]) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")

	if b.releaseBitmap() {
		if b.data != nil {
			b.data.Release()
			b.data = nil
			b.rawData = nil
		}
	}
}

func (b *NumericBuilder[T]) Append(v T) {
	b.Reserve(1)
	b.UnsafeAppend(v)
}

func (b *NumericBuilder[T]) AppendNull() {
	b.Reserve(1)
	b.UnsafeAppendBoolToBitmap(false)
}

func (b *NumericBuilder[T]) UnsafeAppend(v T) {
	bitutil.SetBit(b.nullBitmap.Bytes(), b.length)
	b.rawData[b.length] = v
	b.length++
}

// AppendValues will append the values in the v slice. The valid slice determines which values
// in v are valid (not null). The valid slice must either be empty or be equal in length to v. If empty,
// all values in v are appended and considered valid.
func (b *NumericBuilder[T]) AppendValues(v []T, valid []bool) {
	if len(v) != len(valid) && len(valid) != 0 {
		panic("len(v) != len(valid) && len(valid) != 0")
	}

	if len(v) == 0 {
		return
	}

	b.Reserve(len(v))
	copy(b.rawData[b.length:], v)
	b.builder.unsafeAppendBoolsToBitmap(valid, len(v))
}

func (b *NumericBuilder[T]) init(capacity int) {
	b.builder.init(capacity)

	b.data = memory.NewResizableBuffer(b.mem)
	bytesN := len(arrow.GetBytes(make([]T, capacity)))
	b.data.Resize(bytesN)
	b.rawData = arrow.GetData[T](b.data.Bytes())
}

// Reserve ensures there is enough space for appending n elements
// by checking the capacity and calling Resize if necessary.
func (b *NumericBuilder[T]) Reserve(n int) {
	b.builder.reserve(n, b.Resize)
}

// Resize adjusts the space allocated by b to n elements. If n is greater than b.Cap(),
// additional memory will be allocated. If n is smaller, the allocated memory may reduced.
func (b *NumericBuilder[T]) Resize(n int) {
	nBuilder := n
	if n < minBuilderCapacity {
		n = minBuilderCapacity
	}

	if b.capacity == 0 {
		b.init(n)
	} else {
		b.builder.resize(nBuilder, b.init)
		b.data.Resize(len(arrow.GetBytes(make([]T, n))))
		b.rawData = arrow.GetData[T](b.data.Bytes())
	}
}

// NewArray creates a new array from the memory buffers used
// by the builder and resets the NumericBuilder so it can be used to build
// a new array.
func (b *NumericBuilder[T]) NewArray() arrow.Array {
	data := b.newData()
	a := newNumericData[T](data)
	data.Release()
	return a
}

func (b *NumericBuilder[T]) newData() (data *Data) {
	bytesRequired := len(arrow.GetBytes(make([]T, b.length)))
	if bytesRequired > 0 && bytesRequired < b.data.Len() {
		// trim buffers
		b.data.Resize(bytesRequired)
	}
	nulls := b.finishBitmap()
	data = NewData(b.dtype, b.length, []*memory.Buffer{nulls, b.data}, nil, b.nulls, 0)
	if nulls != nil {
		nulls.Release()
	}
	b.reset()

	if b.data != nil {
		b.data.Release()
		b.data = nil
		b.rawData = nil
	}

	return
}

// UnmarshalOne decodes one JSON value, a number or null, and appends it.
func (b *NumericBuilder[T]) UnmarshalOne(dec *json.Decoder) error {
	if fb, ok := any(b).(*Float16Builder); ok {
		var v *float32
		if err := dec.Decode(&v); err != nil {
			return err
		}
		if v == nil {
			fb.AppendNull()
		} else {
			fb.Append(float16.New(*v))
		}
		return nil
	}

	var v *T
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if v == nil {
		b.AppendNull()
	} else {
		b.Append(*v)
	}
	return nil
}

var (
	_ Builder = (*Int8Builder)(nil)
	_ Builder = (*Float16Builder)(nil)
	_ Builder = (*DayTimeIntervalBuilder)(nil)
)
