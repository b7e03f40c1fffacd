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

package array_test

import (
	"testing"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/array"
	"github.com/columnar/arroweq/arrow/memory"
	"github.com/stretchr/testify/suite"
)

type BuilderSuite struct {
	suite.Suite

	mem *memory.CheckedAllocator
}

func (b *BuilderSuite) SetupTest() {
	b.mem = memory.NewCheckedAllocator(memory.NewGoAllocator())
}

func (b *BuilderSuite) TearDownTest() {
	b.mem.AssertSize(b.T(), 0)
}

func (b *BuilderSuite) TestNullsOfEveryType() {
	types := []arrow.DataType{
		arrow.Null,
		arrow.FixedWidthTypes.Boolean,
		arrow.PrimitiveTypes.Int8,
		arrow.PrimitiveTypes.Uint64,
		arrow.FixedWidthTypes.Float16,
		arrow.PrimitiveTypes.Float64,
		arrow.FixedWidthTypes.Date64,
		arrow.FixedWidthTypes.Time32ms,
		arrow.FixedWidthTypes.Timestamp_ns,
		arrow.FixedWidthTypes.Duration_us,
		arrow.FixedWidthTypes.MonthInterval,
		arrow.FixedWidthTypes.DayTimeInterval,
		arrow.BinaryTypes.String,
		arrow.BinaryTypes.LargeBinary,
		&arrow.FixedSizeBinaryType{ByteWidth: 5},
		arrow.ListOf(arrow.BinaryTypes.String),
		arrow.LargeListOf(arrow.PrimitiveTypes.Int16),
		arrow.FixedSizeListOf(2, arrow.PrimitiveTypes.Int32),
		arrow.StructOf(arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int32, Nullable: true}),
	}

	for _, dt := range types {
		bldr := array.NewBuilder(b.mem, dt)
		for i := 0; i < 3; i++ {
			bldr.AppendNull()
		}
		b.Equal(3, bldr.Len(), dt.String())
		b.Equal(3, bldr.NullN(), dt.String())

		arr := bldr.NewArray()
		b.Zero(bldr.Len(), dt.String())
		b.True(arrow.TypeEqual(dt, arr.DataType()), dt.String())
		b.Equal(3, arr.Len(), dt.String())
		b.Equal(3, arr.NullN(), dt.String())
		for i := 0; i < arr.Len(); i++ {
			b.True(arr.IsNull(i))
		}

		ok, err := array.Equal(arr, arr)
		b.NoError(err)
		b.True(ok, dt.String())

		arr.Release()
		bldr.Release()
	}
}

func (b *BuilderSuite) TestNumericReuse() {
	bldr := array.NewInt64Builder(b.mem)
	defer bldr.Release()

	bldr.AppendValues([]int64{1, 2, 3}, []bool{true, false, true})
	first := bldr.NewArray().(*array.Int64)
	defer first.Release()

	bldr.Append(1)
	bldr.AppendNull()
	bldr.Append(3)
	second := bldr.NewArray().(*array.Int64)
	defer second.Release()

	b.Equal(1, first.NullN())
	b.Equal(int64(3), second.Value(2))

	ok, err := array.Equal(first, second)
	b.NoError(err)
	b.True(ok)
}

func (b *BuilderSuite) TestGrowth() {
	bldr := array.NewBinaryBuilder(b.mem, arrow.BinaryTypes.String)
	defer bldr.Release()

	want := make([]string, 1000)
	for i := range want {
		want[i] = string(rune('a' + i%26))
		bldr.AppendString(want[i])
	}
	b.GreaterOrEqual(bldr.Cap(), len(want))

	arr := bldr.NewArray().(*array.String)
	defer arr.Release()

	b.Equal(len(want), arr.Len())
	b.Zero(arr.NullN())
	for i, v := range want {
		b.Equal(v, arr.Value(i))
	}
}

func (b *BuilderSuite) TestStructFields() {
	dt := arrow.StructOf(
		arrow.Field{Name: "x", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		arrow.Field{Name: "y", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
	)
	bldr := array.NewStructBuilder(b.mem, dt)
	defer bldr.Release()
	b.Equal(2, bldr.NumField())

	x := bldr.FieldBuilder(0).(*array.Int32Builder)
	y := bldr.FieldBuilder(1).(*array.BooleanBuilder)

	bldr.Append(true)
	x.Append(1)
	y.Append(true)
	bldr.AppendNull()
	bldr.Append(true)
	x.AppendNull()
	y.Append(false)

	arr := bldr.NewStructArray()
	defer arr.Release()

	b.Equal(3, arr.Len())
	b.Equal(1, arr.NullN())
	b.Equal(int32(1), arr.Field(0).(*array.Int32).Value(0))
	b.True(arr.Field(0).IsNull(2))
	b.False(arr.Field(1).(*array.Boolean).Value(2))
}

func (b *BuilderSuite) TestFixedSizeBinaryWidth() {
	bldr := array.NewFixedSizeBinaryBuilder(b.mem, &arrow.FixedSizeBinaryType{ByteWidth: 2})
	defer bldr.Release()

	bldr.Append([]byte("ab"))
	b.Panics(func() { bldr.Append([]byte("abc")) })
	b.Equal(1, bldr.Len())
}

func TestBuilders(t *testing.T) {
	suite.Run(t, new(BuilderSuite))
}
