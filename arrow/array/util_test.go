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
	"strings"
	"testing"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/array"
	"github.com/columnar/arroweq/arrow/float16"
	"github.com/columnar/arroweq/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tests := []struct {
		name  string
		dt    arrow.DataType
		rows  string
		check func(t *testing.T, arr arrow.Array)
	}{
		{"int32s", arrow.PrimitiveTypes.Int32, `[1, null, 3]`, func(t *testing.T, arr arrow.Array) {
			a := arr.(*array.Int32)
			assert.Equal(t, 1, a.NullN())
			assert.Equal(t, int32(1), a.Value(0))
			assert.True(t, a.IsNull(1))
			assert.Equal(t, int32(3), a.Value(2))
		}},
		{"uint64s", arrow.PrimitiveTypes.Uint64, `[18446744073709551615, 0]`, func(t *testing.T, arr arrow.Array) {
			assert.Equal(t, []uint64{18446744073709551615, 0}, arr.(*array.Uint64).Values())
		}},
		{"float16s", arrow.FixedWidthTypes.Float16, `[1.5, null]`, func(t *testing.T, arr arrow.Array) {
			assert.Equal(t, float16.New(1.5), arr.(*array.Float16).Value(0))
			assert.True(t, arr.IsNull(1))
		}},
		{"bools", arrow.FixedWidthTypes.Boolean, `[true, false, null]`, func(t *testing.T, arr arrow.Array) {
			a := arr.(*array.Boolean)
			assert.True(t, a.Value(0))
			assert.False(t, a.Value(1))
			assert.True(t, a.IsNull(2))
		}},
		{"nulls", arrow.Null, `[null, null]`, func(t *testing.T, arr arrow.Array) {
			assert.Equal(t, 2, arr.NullN())
		}},
		{"strings", arrow.BinaryTypes.String, `["hello", null, ""]`, func(t *testing.T, arr arrow.Array) {
			a := arr.(*array.String)
			assert.Equal(t, "hello", a.Value(0))
			assert.True(t, a.IsNull(1))
			assert.Equal(t, "", a.Value(2))
		}},
		{"binaries", arrow.BinaryTypes.Binary, `["aGVsbG8=", null]`, func(t *testing.T, arr arrow.Array) {
			assert.Equal(t, []byte("hello"), arr.(*array.Binary).Value(0))
		}},
		{"fixed size binaries", &arrow.FixedSizeBinaryType{ByteWidth: 2}, `["AAE=", null]`, func(t *testing.T, arr arrow.Array) {
			assert.Equal(t, []byte{0, 1}, arr.(*array.FixedSizeBinary).Value(0))
			assert.True(t, arr.IsNull(1))
		}},
		{"lists", arrow.ListOf(arrow.PrimitiveTypes.Int64), `[[1, 2], null, [], [null]]`, func(t *testing.T, arr arrow.Array) {
			a := arr.(*array.List)
			assert.Equal(t, []int32{0, 2, 2, 2, 3}, a.Offsets())
			assert.True(t, a.IsNull(1))
			assert.Equal(t, 1, a.ListValues().NullN())
		}},
		{"large lists", arrow.LargeListOf(arrow.BinaryTypes.String), `[["a"], ["b", "c"]]`, func(t *testing.T, arr arrow.Array) {
			assert.Equal(t, []int64{0, 1, 3}, arr.(*array.LargeList).Offsets())
		}},
		{"fixed size lists", arrow.FixedSizeListOf(2, arrow.PrimitiveTypes.Int8), `[[1, 2], null, [3, null]]`, func(t *testing.T, arr arrow.Array) {
			a := arr.(*array.FixedSizeList)
			assert.Equal(t, 6, a.ListValues().Len())
			beg, end := a.ValueOffsets(2)
			assert.Equal(t, [2]int64{4, 6}, [2]int64{beg, end})
		}},
		{"structs", arrow.StructOf(
			arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
			arrow.Field{Name: "b", Type: arrow.BinaryTypes.String, Nullable: true},
		), `[{"a": 1, "b": "x"}, {"b": "y"}, null]`, func(t *testing.T, arr arrow.Array) {
			a := arr.(*array.Struct)
			require.Equal(t, 2, a.NumField())
			assert.True(t, a.Field(0).IsNull(1), "missing fields are null")
			assert.Equal(t, "y", a.Field(1).(*array.String).Value(1))
			assert.True(t, a.IsNull(2))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			arr, err := array.FromJSON(mem, tc.dt, strings.NewReader(tc.rows))
			require.NoError(t, err)
			defer arr.Release()

			assert.Truef(t, arrow.TypeEqual(tc.dt, arr.DataType()), "got %s", arr.DataType())
			tc.check(t, arr)

			again, err := array.FromJSON(mem, tc.dt, strings.NewReader(tc.rows))
			require.NoError(t, err)
			defer again.Release()

			ok, err := array.Equal(arr, again)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestFromJSONErrors(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	st := arrow.StructOf(arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int32, Nullable: true})

	for _, tc := range []struct {
		name string
		dt   arrow.DataType
		rows string
	}{
		{"not an array", arrow.PrimitiveTypes.Int32, `{"a": 1}`},
		{"string for int", arrow.PrimitiveTypes.Int32, `["1"]`},
		{"number for bool", arrow.FixedWidthTypes.Boolean, `[1]`},
		{"value for null", arrow.Null, `[1]`},
		{"invalid base64", arrow.BinaryTypes.Binary, `["not base64!"]`},
		{"wrong width", &arrow.FixedSizeBinaryType{ByteWidth: 4}, `["AAE="]`},
		{"list size", arrow.FixedSizeListOf(2, arrow.PrimitiveTypes.Int8), `[[1, 2, 3]]`},
		{"unknown field", st, `[{"z": 1}]`},
		{"duplicate field", st, `[{"a": 1, "a": 2}]`},
		{"truncated", arrow.PrimitiveTypes.Int32, `[1, 2`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			arr, err := array.FromJSON(mem, tc.dt, strings.NewReader(tc.rows))
			assert.Error(t, err)
			assert.Nil(t, arr)
		})
	}
}

func TestNewBuilderUnsupported(t *testing.T) {
	mem := memory.NewGoAllocator()
	dt := arrow.SparseUnionOf([]arrow.Field{{Name: "a", Type: arrow.PrimitiveTypes.Int8}}, []arrow.UnionTypeCode{0})

	assert.Panics(t, func() { array.NewBuilder(mem, dt) })

	_, err := array.FromJSON(mem, dt, strings.NewReader(`[]`))
	assert.ErrorIs(t, err, arrow.ErrNotImplemented)
}
