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
	"fmt"
	"strings"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/float16"
)

// numeric is an immutable sequence of fixed-width values of type T.
type numeric[T arrow.FixedWidthType] struct {
	array
	values []T
}

type (
	Int8            = numeric[int8]
	Int16           = numeric[int16]
	Int32           = numeric[int32]
	Int64           = numeric[int64]
	Uint8           = numeric[uint8]
	Uint16          = numeric[uint16]
	Uint32          = numeric[uint32]
	Uint64          = numeric[uint64]
	Float16         = numeric[float16.Num]
	Float32         = numeric[float32]
	Float64         = numeric[float64]
	Date32          = numeric[arrow.Date32]
	Date64          = numeric[arrow.Date64]
	Time32          = numeric[arrow.Time32]
	Time64          = numeric[arrow.Time64]
	Timestamp       = numeric[arrow.Timestamp]
	Duration        = numeric[arrow.Duration]
	MonthInterval   = numeric[arrow.MonthInterval]
	DayTimeInterval = numeric[arrow.DayTimeInterval]
)

func newNumericData[T arrow.FixedWidthType](data arrow.ArrayData) *numeric[T] {
	a := &numeric[T]{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

func NewInt8Data(data arrow.ArrayData) *Int8       { return newNumericData[int8](data) }
func NewInt16Data(data arrow.ArrayData) *Int16     { return newNumericData[int16](data) }
func NewInt32Data(data arrow.ArrayData) *Int32     { return newNumericData[int32](data) }
func NewInt64Data(data arrow.ArrayData) *Int64     { return newNumericData[int64](data) }
func NewUint8Data(data arrow.ArrayData) *Uint8     { return newNumericData[uint8](data) }
func NewUint16Data(data arrow.ArrayData) *Uint16   { return newNumericData[uint16](data) }
func NewUint32Data(data arrow.ArrayData) *Uint32   { return newNumericData[uint32](data) }
func NewUint64Data(data arrow.ArrayData) *Uint64   { return newNumericData[uint64](data) }
func NewFloat16Data(data arrow.ArrayData) *Float16 { return newNumericData[float16.Num](data) }
func NewFloat32Data(data arrow.ArrayData) *Float32 { return newNumericData[float32](data) }
func NewFloat64Data(data arrow.ArrayData) *Float64 { return newNumericData[float64](data) }
func NewDate32Data(data arrow.ArrayData) *Date32   { return newNumericData[arrow.Date32](data) }
func NewDate64Data(data arrow.ArrayData) *Date64   { return newNumericData[arrow.Date64](data) }
func NewTime32Data(data arrow.ArrayData) *Time32   { return newNumericData[arrow.Time32](data) }
func NewTime64Data(data arrow.ArrayData) *Time64   { return newNumericData[arrow.Time64](data) }

func NewTimestampData(data arrow.ArrayData) *Timestamp {
	return newNumericData[arrow.Timestamp](data)
}

func NewDurationData(data arrow.ArrayData) *Duration {
	return newNumericData[arrow.Duration](data)
}

func NewMonthIntervalData(data arrow.ArrayData) *MonthInterval {
	return newNumericData[arrow.MonthInterval](data)
}

func NewDayTimeIntervalData(data arrow.ArrayData) *DayTimeInterval {
	return newNumericData[arrow.DayTimeInterval](data)
}

// Value returns the value at the specified index.
func (a *numeric[T]) Value(i int) T { return a.values[i] }

// Values returns the values of the array window.
func (a *numeric[T]) Values() []T { return a.values }

func (a *numeric[T]) String() string {
	o := new(strings.Builder)
	o.WriteString("[")
	for i, v := range a.values {
		if i > 0 {
			fmt.Fprintf(o, " ")
		}
		switch {
		case a.IsNull(i):
			o.WriteString(NullValueStr)
		default:
			fmt.Fprintf(o, "%v", v)
		}
	}
	o.WriteString("]")
	return o.String()
}

func (a *numeric[T]) setData(data *Data) {
	a.array.setData(data)
	vals := data.buffers[1]
	if vals != nil {
		a.values = arrow.GetData[T](vals.Bytes())
		beg := a.array.data.offset
		end := beg + a.array.data.length
		// short value buffers are reported by the comparison functions
		if end <= len(a.values) {
			a.values = a.values[beg:end]
		} else {
			a.values = nil
		}
	}
}

var (
	_ arrow.Array = (*Int8)(nil)
	_ arrow.Array = (*Float16)(nil)
	_ arrow.Array = (*DayTimeInterval)(nil)
)
