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

// Package arrdata exports named sample arrays of every kind, ready to be
// used by tests.
package arrdata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/array"
	"github.com/columnar/arroweq/arrow/float16"
	"github.com/columnar/arroweq/arrow/memory"
)

// Maker builds a fresh array from mem. Two calls never share buffers.
type Maker func(mem memory.Allocator) arrow.Array

var (
	Arrays     = make(map[string]Maker)
	ArrayNames []string
)

func init() {
	Arrays["nulls"] = func(mem memory.Allocator) arrow.Array { return arrayOf(mem, make([]nullT, 5), nil) }
	Arrays["bools"] = func(mem memory.Allocator) arrow.Array {
		return arrayOf(mem, []bool{true, false, true, true, false, false, true}, []bool{true, true, false, true, true, false, true})
	}
	Arrays["primitives"] = makePrimitive
	Arrays["int8s"] = func(mem memory.Allocator) arrow.Array { return arrayOf(mem, []int8{-1, -2, -3, -4, -5}, mask) }
	Arrays["int16s"] = func(mem memory.Allocator) arrow.Array { return arrayOf(mem, []int16{-1, -2, -3, -4, -5}, mask) }
	Arrays["int64s"] = func(mem memory.Allocator) arrow.Array { return arrayOf(mem, []int64{-1, -2, -3, -4, -5}, mask) }
	Arrays["uint8s"] = func(mem memory.Allocator) arrow.Array { return arrayOf(mem, []uint8{1, 2, 3, 4, 5}, mask) }
	Arrays["uint16s"] = func(mem memory.Allocator) arrow.Array { return arrayOf(mem, []uint16{1, 2, 3, 4, 5}, mask) }
	Arrays["uint32s"] = func(mem memory.Allocator) arrow.Array { return arrayOf(mem, []uint32{1, 2, 3, 4, 5}, mask) }
	Arrays["uint64s"] = func(mem memory.Allocator) arrow.Array { return arrayOf(mem, []uint64{1, 2, 3, 4, 5}, mask) }
	Arrays["float16s"] = func(mem memory.Allocator) arrow.Array {
		return arrayOf(mem, f16sFrom([]float32{1.5, 2.5, 3.5, 4.5, 5.5}), mask)
	}
	Arrays["float32s"] = func(mem memory.Allocator) arrow.Array { return arrayOf(mem, []float32{1.5, 2.5, 3.5, 4.5, 5.5}, mask) }
	Arrays["float64s"] = func(mem memory.Allocator) arrow.Array {
		return arrayOf(mem, []float64{1.25, -2.5, 3.75, 1e10, 0}, nil)
	}
	Arrays["fixed_width_types"] = makeFixedWidthTypes
	Arrays["intervals"] = func(mem memory.Allocator) arrow.Array {
		return arrayOf(mem, []arrow.DayTimeInterval{{Days: 1, Milliseconds: 1}, {Days: 2, Milliseconds: 2}, {Days: 3, Milliseconds: 3}, {Days: 4, Milliseconds: 4}, {Days: 5, Milliseconds: 5}}, mask)
	}
	Arrays["month_intervals"] = func(mem memory.Allocator) arrow.Array {
		return arrayOf(mem, []arrow.MonthInterval{1, 2, 3, 4, 5}, mask)
	}
	Arrays["durations"] = func(mem memory.Allocator) arrow.Array {
		return appendAll(array.NewDurationBuilder(mem, arrow.FixedWidthTypes.Duration_ms.(*arrow.DurationType)), []arrow.Duration{1, 2, 3, 4, 5}, mask)
	}
	Arrays["strings"] = func(mem memory.Allocator) arrow.Array {
		return arrayOf(mem, []string{"1é", "2", "3", "4", "5"}, mask)
	}
	Arrays["large_strings"] = func(mem memory.Allocator) arrow.Array {
		return stringsOf(mem, arrow.BinaryTypes.LargeString, []string{"1é", "2", "3", "4", "5"}, mask)
	}
	Arrays["binaries"] = func(mem memory.Allocator) arrow.Array {
		return arrayOf(mem, [][]byte{[]byte("1é"), []byte("22"), nil, []byte("444"), {0xde, 0xad}}, []bool{true, true, false, true, true})
	}
	Arrays["large_binaries"] = func(mem memory.Allocator) arrow.Array {
		return stringsOf(mem, arrow.BinaryTypes.LargeBinary, []string{"", "a", "bb", "", "ccc"}, []bool{true, true, true, false, true})
	}
	Arrays["fixed_size_binaries"] = makeFixedSizeBinaries
	Arrays["lists"] = makeLists
	Arrays["large_lists"] = makeLargeLists
	Arrays["empty_lists"] = func(mem memory.Allocator) arrow.Array {
		bldr := array.NewListBuilder(mem, arrow.PrimitiveTypes.Int32)
		defer bldr.Release()
		return bldr.NewListArray()
	}
	Arrays["fixed_size_lists"] = makeFixedSizeLists
	Arrays["nested_lists"] = func(mem memory.Allocator) arrow.Array {
		return fromJSON(mem, arrow.ListOf(arrow.ListOf(arrow.PrimitiveTypes.Int32)),
			`[[[1, 2], null, []], null, [], [[null, 3]], [[4], [5, 6, 7]]]`)
	}
	Arrays["structs"] = makeStructs
	Arrays["list_of_structs"] = func(mem memory.Allocator) arrow.Array {
		return fromJSON(mem, arrow.ListOf(arrow.StructOf(
			arrow.Field{Name: "x", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
			arrow.Field{Name: "y", Type: arrow.BinaryTypes.String, Nullable: true},
		)), `[[{"x": 1, "y": "a"}, null], null, [], [{"x": null, "y": "b"}, {"x": 3}]]`)
	}
	Arrays["dictionaries"] = makeDictionaries
	Arrays["sparse_unions"] = makeSparseUnions
	Arrays["dense_unions"] = makeDenseUnions

	for k := range Arrays {
		ArrayNames = append(ArrayNames, k)
	}
	sort.Strings(ArrayNames)
}

var mask = []bool{true, false, false, true, true}

// Unions reports whether the named array is a union, which equality does
// not support.
func Unions(name string) bool {
	return strings.HasSuffix(name, "_unions")
}

func makePrimitive(mem memory.Allocator) arrow.Array {
	return arrayOf(mem, []int32{1, 2, 3, 4, 5, 6, 7, 8}, []bool{true, true, false, true, true, true, false, true})
}

func makeFixedWidthTypes(mem memory.Allocator) arrow.Array {
	return appendAll(array.NewTimestampBuilder(mem, arrow.FixedWidthTypes.Timestamp_us.(*arrow.TimestampType)),
		[]arrow.Timestamp{-2, -1, 0, 1, 2}, mask)
}

func makeFixedSizeBinaries(mem memory.Allocator) arrow.Array {
	bldr := array.NewFixedSizeBinaryBuilder(mem, &arrow.FixedSizeBinaryType{ByteWidth: 3})
	defer bldr.Release()

	bldr.AppendValues([][]byte{[]byte("001"), []byte("002"), []byte("003"), []byte("004"), []byte("005")}, mask)
	return bldr.NewFixedSizeBinaryArray()
}

func makeLists(mem memory.Allocator) arrow.Array {
	return listOf(mem, []arrow.Array{
		arrayOf(mem, []int32{1, 2, 3, 4, 5}, mask),
		arrayOf(mem, []int32{11, 12, 13, 14, 15}, mask),
		arrayOf(mem, []int32{}, nil),
		arrayOf(mem, []int32{21, 22, 23, 24, 25}, mask),
	}, []bool{true, false, true, true})
}

func makeLargeLists(mem memory.Allocator) arrow.Array {
	bldr := array.NewLargeListBuilder(mem, arrow.PrimitiveTypes.Int32)
	defer bldr.Release()

	values := []arrow.Array{
		arrayOf(mem, []int32{-1, -2, -3}, nil),
		arrayOf(mem, []int32{-11, -12}, []bool{false, true}),
		arrayOf(mem, []int32{-21}, nil),
	}
	for i, v := range values {
		bldr.Append(i != 1)
		buildArray(bldr.ValueBuilder(), v)
	}
	return bldr.NewListArray()
}

func makeFixedSizeLists(mem memory.Allocator) arrow.Array {
	return fixedSizeListOf(mem, 3, []arrow.Array{
		arrayOf(mem, []int64{1, 2, 3}, []bool{true, false, true}),
		arrayOf(mem, []int64{11, 12, 13}, nil),
		arrayOf(mem, []int64{21, 22, 23}, nil),
		arrayOf(mem, []int64{-1, -2, -3}, []bool{false, false, false}),
	}, []bool{true, false, true, true})
}

func makeStructs(mem memory.Allocator) arrow.Array {
	dtype := arrow.StructOf(
		arrow.Field{Name: "f1", Type: arrow.ListOf(arrow.PrimitiveTypes.Int32), Nullable: true},
		arrow.Field{Name: "f2", Type: arrow.BinaryTypes.String, Nullable: true},
	)
	return structOf(mem, dtype, [][]arrow.Array{
		{
			listOf(mem, []arrow.Array{
				arrayOf(mem, []int32{1, 2}, nil),
				arrayOf(mem, []int32{3}, nil),
				arrayOf(mem, []int32{}, nil),
				arrayOf(mem, []int32{4, 5, 6}, []bool{true, false, true}),
			}, []bool{true, true, false, true}),
			arrayOf(mem, []string{"one", "two", "three", "four"}, []bool{true, false, true, true}),
		},
	}, []bool{true, true, true, false})
}

func makeDictionaries(mem memory.Allocator) arrow.Array {
	indices := arrayOf(mem, []int8{0, 1, 2, 0, 2, 1}, []bool{true, true, false, true, true, true})
	defer indices.Release()
	dict := arrayOf(mem, []string{"a", "bb", "ccc"}, nil)
	defer dict.Release()

	typ := &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int8, ValueType: arrow.BinaryTypes.String}
	arr, err := array.NewDictionaryArray(typ, indices, dict)
	if err != nil {
		panic(err)
	}
	return arr
}

func unionFields() []arrow.Field {
	return []arrow.Field{
		{Name: "i", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		{Name: "s", Type: arrow.BinaryTypes.String, Nullable: true},
	}
}

func makeSparseUnions(mem memory.Allocator) arrow.Array {
	children := []arrow.Array{
		arrayOf(mem, []int32{1, 2, 3, 4}, nil),
		arrayOf(mem, []string{"a", "b", "c", "d"}, nil),
	}
	defer release(children)

	typeIDs := memory.NewBufferBytes([]byte{5, 10, 5, 10})
	dt := arrow.SparseUnionOf(unionFields(), []arrow.UnionTypeCode{5, 10})
	return array.NewSparseUnion(dt, 4, children, typeIDs, 0)
}

func makeDenseUnions(mem memory.Allocator) arrow.Array {
	children := []arrow.Array{
		arrayOf(mem, []int32{1, 3}, nil),
		arrayOf(mem, []string{"b", "d"}, nil),
	}
	defer release(children)

	typeIDs := memory.NewBufferBytes([]byte{5, 10, 5, 10})
	offsets := memory.NewBufferBytes(arrow.GetBytes([]int32{0, 0, 1, 1}))
	dt := arrow.DenseUnionOf(unionFields(), []arrow.UnionTypeCode{5, 10})
	return array.NewDenseUnion(dt, 4, children, typeIDs, offsets, 0)
}

func release(arrs []arrow.Array) {
	for _, a := range arrs {
		a.Release()
	}
}

func f16sFrom(vs []float32) []float16.Num {
	o := make([]float16.Num, len(vs))
	for i, v := range vs {
		o[i] = float16.New(v)
	}
	return o
}

func fromJSON(mem memory.Allocator, dt arrow.DataType, rows string) arrow.Array {
	arr, err := array.FromJSON(mem, dt, strings.NewReader(rows))
	if err != nil {
		panic(fmt.Errorf("arrdata: invalid rows for %s: %w", dt, err))
	}
	return arr
}

type nullT struct{}

func appendAll[T arrow.FixedWidthType](bldr *array.NumericBuilder[T], a []T, valids []bool) arrow.Array {
	defer bldr.Release()

	bldr.AppendValues(a, valids)
	return bldr.NewArray()
}

func stringsOf(mem memory.Allocator, dt arrow.BinaryDataType, a []string, valids []bool) arrow.Array {
	bldr := array.NewBinaryBuilder(mem, dt)
	defer bldr.Release()

	bldr.AppendStringValues(a, valids)
	return bldr.NewArray()
}

func arrayOf(mem memory.Allocator, a interface{}, valids []bool) arrow.Array {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	switch a := a.(type) {
	case []nullT:
		return array.NewNull(len(a))

	case []bool:
		bldr := array.NewBooleanBuilder(mem)
		defer bldr.Release()

		bldr.AppendValues(a, valids)
		return bldr.NewArray()

	case []int8:
		return appendAll(array.NewInt8Builder(mem), a, valids)
	case []int16:
		return appendAll(array.NewInt16Builder(mem), a, valids)
	case []int32:
		return appendAll(array.NewInt32Builder(mem), a, valids)
	case []int64:
		return appendAll(array.NewInt64Builder(mem), a, valids)
	case []uint8:
		return appendAll(array.NewUint8Builder(mem), a, valids)
	case []uint16:
		return appendAll(array.NewUint16Builder(mem), a, valids)
	case []uint32:
		return appendAll(array.NewUint32Builder(mem), a, valids)
	case []uint64:
		return appendAll(array.NewUint64Builder(mem), a, valids)
	case []float16.Num:
		return appendAll(array.NewFloat16Builder(mem), a, valids)
	case []float32:
		return appendAll(array.NewFloat32Builder(mem), a, valids)
	case []float64:
		return appendAll(array.NewFloat64Builder(mem), a, valids)
	case []arrow.Date32:
		return appendAll(array.NewDate32Builder(mem), a, valids)
	case []arrow.Date64:
		return appendAll(array.NewDate64Builder(mem), a, valids)
	case []arrow.MonthInterval:
		return appendAll(array.NewMonthIntervalBuilder(mem), a, valids)
	case []arrow.DayTimeInterval:
		return appendAll(array.NewDayTimeIntervalBuilder(mem), a, valids)

	case []string:
		return stringsOf(mem, arrow.BinaryTypes.String, a, valids)

	case [][]byte:
		bldr := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
		defer bldr.Release()

		bldr.AppendValues(a, valids)
		return bldr.NewArray()

	default:
		panic(fmt.Errorf("arrdata: invalid data slice type %T", a))
	}
}

func listOf(mem memory.Allocator, values []arrow.Array, valids []bool) *array.List {
	bldr := array.NewListBuilder(mem, values[0].DataType())
	defer bldr.Release()

	valid := func(i int) bool {
		return valids[i]
	}

	if valids == nil {
		valid = func(i int) bool { return true }
	}

	for i, value := range values {
		bldr.Append(valid(i))
		buildArray(bldr.ValueBuilder(), value)
	}

	return bldr.NewListArray()
}

func fixedSizeListOf(mem memory.Allocator, n int32, values []arrow.Array, valids []bool) *array.FixedSizeList {
	bldr := array.NewFixedSizeListBuilder(mem, n, values[0].DataType())
	defer bldr.Release()

	for i, value := range values {
		bldr.Append(valids == nil || valids[i])
		buildArray(bldr.ValueBuilder(), value)
	}

	return bldr.NewListArray()
}

func structOf(mem memory.Allocator, dtype *arrow.StructType, fields [][]arrow.Array, valids []bool) *array.Struct {
	bldr := array.NewStructBuilder(mem, dtype)
	defer bldr.Release()

	if valids == nil {
		valids = make([]bool, fields[0][0].Len())
		for i := range valids {
			valids[i] = true
		}
	}

	for i := range fields {
		bldr.AppendValues(valids)
		for j := range dtype.Fields() {
			buildArray(bldr.FieldBuilder(j), fields[i][j])
		}
	}

	return bldr.NewStructArray()
}

type valuer[T any] interface {
	Len() int
	IsValid(i int) bool
	Value(i int) T
}

type appender[T any] interface {
	Append(v T)
	AppendNull()
}

func copyInto[T any](bldr appender[T], data valuer[T]) {
	for i := 0; i < data.Len(); i++ {
		switch {
		case data.IsValid(i):
			bldr.Append(data.Value(i))
		default:
			bldr.AppendNull()
		}
	}
}

// buildArray appends every element of data to bldr and releases data.
func buildArray(bldr array.Builder, data arrow.Array) {
	defer data.Release()

	switch bldr := bldr.(type) {
	case *array.BooleanBuilder:
		copyInto[bool](bldr, data.(*array.Boolean))
	case *array.Int32Builder:
		copyInto[int32](bldr, data.(*array.Int32))
	case *array.Int64Builder:
		copyInto[int64](bldr, data.(*array.Int64))
	case *array.Float64Builder:
		copyInto[float64](bldr, data.(*array.Float64))
	case *array.BinaryBuilder:
		data := data.(*array.String)
		for i := 0; i < data.Len(); i++ {
			switch {
			case data.IsValid(i):
				bldr.AppendString(data.Value(i))
			default:
				bldr.AppendNull()
			}
		}
	case *array.ListBuilder:
		data := data.(*array.List)
		vals := data.ListValues()
		for i := 0; i < data.Len(); i++ {
			if data.IsNull(i) {
				bldr.AppendNull()
				continue
			}
			bldr.Append(true)
			beg, end := data.ValueOffsets(i)
			buildArray(bldr.ValueBuilder(), array.NewSlice(vals, beg, end))
		}
	default:
		panic(fmt.Errorf("arrdata: unhandled builder type %T", bldr))
	}
}
