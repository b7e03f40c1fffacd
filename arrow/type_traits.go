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

package arrow

import (
	"unsafe"

	"github.com/columnar/arroweq/arrow/float16"
	"golang.org/x/exp/constraints"
)

const (
	Int8SizeBytes            = int(unsafe.Sizeof(int8(0)))
	Int16SizeBytes           = int(unsafe.Sizeof(int16(0)))
	Int32SizeBytes           = int(unsafe.Sizeof(int32(0)))
	Int64SizeBytes           = int(unsafe.Sizeof(int64(0)))
	Uint8SizeBytes           = int(unsafe.Sizeof(uint8(0)))
	Uint16SizeBytes          = int(unsafe.Sizeof(uint16(0)))
	Uint32SizeBytes          = int(unsafe.Sizeof(uint32(0)))
	Uint64SizeBytes          = int(unsafe.Sizeof(uint64(0)))
	Float16SizeBytes         = int(unsafe.Sizeof(float16.Num{}))
	Float32SizeBytes         = int(unsafe.Sizeof(float32(0)))
	Float64SizeBytes         = int(unsafe.Sizeof(float64(0)))
	Date32SizeBytes          = int(unsafe.Sizeof(Date32(0)))
	Date64SizeBytes          = int(unsafe.Sizeof(Date64(0)))
	Time32SizeBytes          = int(unsafe.Sizeof(Time32(0)))
	Time64SizeBytes          = int(unsafe.Sizeof(Time64(0)))
	TimestampSizeBytes       = int(unsafe.Sizeof(Timestamp(0)))
	DurationSizeBytes        = int(unsafe.Sizeof(Duration(0)))
	MonthIntervalSizeBytes   = int(unsafe.Sizeof(MonthInterval(0)))
	DayTimeIntervalSizeBytes = int(unsafe.Sizeof(DayTimeInterval{}))
)

// IntType is a type constraint for raw values represented as signed
// integer types by the fixed-width arrays.
type IntType interface {
	constraints.Signed
}

// UintType is a type constraint for raw values represented as unsigned
// integer types by the fixed-width arrays.
type UintType interface {
	constraints.Unsigned
}

// FloatType is a type constraint for raw values for representing
// floating point values. This includes float16.
type FloatType interface {
	float16.Num | constraints.Float
}

// FixedWidthType is a type constraint for raw values stored in a
// fixed-width value buffer.
type FixedWidthType interface {
	IntType | UintType | FloatType | DayTimeInterval
}

// GetBytes reinterprets a slice of T to a slice of bytes.
func GetBytes[T FixedWidthType](in []T) []byte {
	var z T
	if len(in) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(in))), len(in)*int(unsafe.Sizeof(z)))
}

// GetData reinterprets a slice of bytes to a slice of T.
//
// NOTE: the length of the returned slice is len(in)/sizeof(T), any
// trailing bytes that do not make up a whole value are not addressable.
func GetData[T FixedWidthType](in []byte) []T {
	var z T
	if len(in) == 0 {
		return []T{}
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(in))), len(in)/int(unsafe.Sizeof(z)))
}
