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

package arrjson_test

import (
	"strings"
	"testing"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/array"
	"github.com/columnar/arroweq/arrow/arrjson"
	"github.com/columnar/arroweq/arrow/internal/arrdata"
	"github.com/columnar/arroweq/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func elems(t *testing.T, doc string) []arrjson.Value {
	t.Helper()
	v, err := arrjson.Parse([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, arrjson.KindArray, v.Kind())
	return v.Elems()
}

func fromJSON(t *testing.T, mem memory.Allocator, dt arrow.DataType, rows string) arrow.Array {
	t.Helper()
	arr, err := array.FromJSON(mem, dt, strings.NewReader(rows))
	require.NoError(t, err)
	return arr
}

func TestEqual(t *testing.T) {
	var (
		i32     = arrow.PrimitiveTypes.Int32
		pair    = arrow.StructOf(arrow.Field{Name: "a", Type: i32, Nullable: true}, arrow.Field{Name: "b", Type: arrow.BinaryTypes.String, Nullable: true})
		helloBs = `["aGVsbG8=", "d29ybGQ="]`
	)

	tests := []struct {
		name     string
		dt       arrow.DataType
		rows     string
		expected string
		want     bool
	}{
		{"int32", i32, `[1, null, 3]`, `[1, null, 3]`, true},
		{"int32 value", i32, `[1, null, 3]`, `[1, null, 4]`, false},
		{"int32 null slot", i32, `[1, null, 3]`, `[1, 2, 3]`, false},
		{"int32 null node", i32, `[1, null, 3]`, `[null, null, 3]`, false},
		{"int32 length", i32, `[1, null, 3]`, `[1, null]`, false},
		{"int32 string node", i32, `[1, 2]`, `["1", 2]`, false},
		{"int32 exponent", i32, `[100, 1]`, `[1e2, 1.0]`, true},
		{"int32 fraction", i32, `[1]`, `[1.5]`, false},
		{"int64 exact", arrow.PrimitiveTypes.Int64, `[9007199254740993]`, `[9007199254740992]`, false},
		{"int64 min", arrow.PrimitiveTypes.Int64, `[-9223372036854775808]`, `[-9223372036854775808]`, true},
		{"uint64 max", arrow.PrimitiveTypes.Uint64, `[18446744073709551615, 0]`, `[18446744073709551615, 0]`, true},
		{"uint8", arrow.PrimitiveTypes.Uint8, `[255, null]`, `[255, null]`, true},
		{"float64", arrow.PrimitiveTypes.Float64, `[1.5, null, 0.1]`, `[1.5, null, 0.1]`, true},
		{"float64 value", arrow.PrimitiveTypes.Float64, `[1.5]`, `[1.25]`, false},
		{"float32 precision", arrow.PrimitiveTypes.Float32, `[0.1, 3.25]`, `[0.1, 3.25]`, true},
		{"float16", arrow.FixedWidthTypes.Float16, `[1.5, null, -2]`, `[1.5, null, -2]`, true},
		{"float16 value", arrow.FixedWidthTypes.Float16, `[1.5]`, `[1.75]`, false},
		{"bools", arrow.FixedWidthTypes.Boolean, `[true, false, null]`, `[true, false, null]`, true},
		{"bools as numbers", arrow.FixedWidthTypes.Boolean, `[true, false]`, `[1, 0]`, false},
		{"bools value", arrow.FixedWidthTypes.Boolean, `[true, false]`, `[true, true]`, false},
		{"date32", arrow.FixedWidthTypes.Date32, `[1, null, 19000]`, `[1, null, 19000]`, true},
		{"timestamp", arrow.FixedWidthTypes.Timestamp_us, `[1600000000000000]`, `[1600000000000000]`, true},
		{"month intervals", arrow.FixedWidthTypes.MonthInterval, `[12, -1]`, `[12, -1]`, true},
		{"day time intervals", arrow.FixedWidthTypes.DayTimeInterval,
			`[{"days": 1, "milliseconds": 2}, null]`, `[{"days": 1, "milliseconds": 2}, null]`, true},
		{"day time intervals value", arrow.FixedWidthTypes.DayTimeInterval,
			`[{"days": 1, "milliseconds": 2}]`, `[{"days": 1, "milliseconds": 3}]`, false},
		{"day time intervals extra key", arrow.FixedWidthTypes.DayTimeInterval,
			`[{"days": 1, "milliseconds": 2}]`, `[{"days": 1, "milliseconds": 2, "months": 0}]`, false},
		{"strings", arrow.BinaryTypes.String, `["a", null, ""]`, `["a", null, ""]`, true},
		{"strings value", arrow.BinaryTypes.String, `["a", "b"]`, `["a", "c"]`, false},
		{"strings hex is not decoded", arrow.BinaryTypes.String, `["hello"]`, `["68656c6c6f"]`, false},
		{"large strings", arrow.BinaryTypes.LargeString, `["a", null]`, `["a", null]`, true},
		{"binary raw", arrow.BinaryTypes.Binary, helloBs, `["hello", "world"]`, true},
		{"binary hex", arrow.BinaryTypes.Binary, helloBs, `["68656c6c6f", "776f726c64"]`, true},
		{"binary mixed", arrow.BinaryTypes.Binary, helloBs, `["hello", "776f726c64"]`, true},
		{"binary value", arrow.BinaryTypes.Binary, helloBs, `["hellO", "world"]`, false},
		{"binary bad hex", arrow.BinaryTypes.Binary, helloBs, `["hello", "776f726c6"]`, false},
		{"large binary hex", arrow.BinaryTypes.LargeBinary, helloBs, `["68656c6c6f", "world"]`, true},
		{"fixed size binary", &arrow.FixedSizeBinaryType{ByteWidth: 2}, `["YWI=", null]`, `["ab", null]`, true},
		{"fixed size binary hex", &arrow.FixedSizeBinaryType{ByteWidth: 2}, `["YWI="]`, `["6162"]`, true},
		{"nulls", arrow.Null, `[null, null]`, `[null, null]`, true},
		{"nulls value", arrow.Null, `[null, null]`, `[null, 1]`, false},
		{"nulls length", arrow.Null, `[null, null]`, `[null]`, false},
		{"lists", arrow.ListOf(i32), `[[1, 2], null, [], [null]]`, `[[1, 2], null, [], [null]]`, true},
		{"lists null for empty", arrow.ListOf(i32), `[[1, 2], null, []]`, `[[1, 2], null, null]`, true},
		{"lists empty for null", arrow.ListOf(i32), `[[1, 2], null, []]`, `[[1, 2], [], []]`, false},
		{"lists null for values", arrow.ListOf(i32), `[[1, 2]]`, `[null]`, false},
		{"lists child length", arrow.ListOf(i32), `[[1, 2]]`, `[[1, 2, 3]]`, false},
		{"lists child value", arrow.ListOf(i32), `[[1, 2]]`, `[[1, 3]]`, false},
		{"lists scalar node", arrow.ListOf(i32), `[[1]]`, `[1]`, false},
		{"nested lists", arrow.ListOf(arrow.ListOf(i32)), `[[[1], []], [null]]`, `[[[1], null], [null]]`, true},
		{"large lists", arrow.LargeListOf(i32), `[[1, 2], null]`, `[[1, 2], null]`, true},
		{"fixed size lists", arrow.FixedSizeListOf(2, i32), `[[1, 2], null, [3, null]]`, `[[1, 2], null, [3, null]]`, true},
		{"fixed size lists value", arrow.FixedSizeListOf(2, i32), `[[1, 2]]`, `[[2, 1]]`, false},
		{"structs", pair, `[{"a": 1, "b": "x"}, {"a": 2, "b": null}, null]`, `[{"a": 1, "b": "x"}, {"a": 2, "b": null}, null]`, true},
		{"structs absent key", pair, `[{"a": 1, "b": "x"}, {"a": 2}]`, `[{"a": 1, "b": "x"}, {"a": 2}]`, true},
		{"structs length", pair, `[{"a": 1, "b": "x"}, {"a": 2}]`, `[{"a": 1, "b": "x"}]`, false},
		{"structs non-mapping", pair, `[{"a": 1, "b": "x"}, {"a": 2}]`, `[{"a": 1, "b": "x"}, 5]`, false},
		{"structs field", pair, `[{"a": 1, "b": "x"}, {"a": 2}]`, `[{"a": 1, "b": "x"}, {"a": 3}]`, false},
		{"structs unknown key", pair, `[{"a": 1}]`, `[{"a": 1, "c": 7}]`, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
			defer mem.AssertSize(t, 0)

			arr := fromJSON(t, mem, tc.dt, tc.rows)
			defer arr.Release()

			got, err := arrjson.Equal(arr, elems(t, tc.expected))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEqualStructColumns(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	dt := arrow.StructOf(
		arrow.Field{Name: "f1", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "f2", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
	)
	rows := `[{"f1": "joe", "f2": 1}, {"f2": 2}, null, {"f1": "mark", "f2": 4}, {"f1": "doe", "f2": 5}]`
	arr := fromJSON(t, mem, dt, rows)
	defer arr.Release()

	st := arr.(*array.Struct)
	f1, err := arrjson.Equal(st.Field(0), elems(t, `["joe", null, null, "mark", "doe"]`))
	require.NoError(t, err)
	assert.True(t, f1)
	f2, err := arrjson.Equal(st.Field(1), elems(t, `[1, 2, null, 4, 5]`))
	require.NoError(t, err)
	assert.True(t, f2)

	tests := []struct {
		name     string
		expected string
		want     bool
	}{
		{"equal", rows, true},
		{"length", `[{"f1": "joe", "f2": 1}, {"f2": 2}, null, {"f1": "mark", "f2": 4}]`, false},
		{"non-mapping", `[{"f1": "joe", "f2": 1}, {"f2": 2}, null, {"f1": "mark", "f2": 4}, ["doe", 5]]`, false},
		{"field value", `[{"f1": "joe", "f2": 1}, {"f2": 2}, null, {"f1": "mark", "f2": 4}, {"f1": "doe", "f2": 6}]`, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := arrjson.Equal(arr, elems(t, tc.expected))
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestEqualValue(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	arr := fromJSON(t, mem, arrow.PrimitiveTypes.Int8, `[1, 2]`)
	defer arr.Release()

	for _, v := range []arrjson.Value{arrjson.Null(), arrjson.Number("1"), arrjson.Object(nil), arrjson.Array()} {
		ok, err := arrjson.EqualValue(arr, v)
		assert.NoError(t, err)
		assert.False(t, ok, v.String())
	}

	ok, err := arrjson.EqualValue(arr, arrjson.Array(arrjson.Number("1"), arrjson.Number("2")))
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestEqualSlices(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	arr := fromJSON(t, mem, arrow.ListOf(arrow.BinaryTypes.String), `[["a"], null, ["b", "c"], [], ["d", null]]`)
	defer arr.Release()

	tests := []struct {
		beg, end int64
		expected string
	}{
		{0, 5, `[["a"], null, ["b", "c"], [], ["d", null]]`},
		{1, 3, `[null, ["b", "c"]]`},
		{2, 5, `[["b", "c"], null, ["d", null]]`},
		{4, 5, `[["d", null]]`},
		{3, 3, `[]`},
	}
	for _, tc := range tests {
		sub := array.NewSlice(arr, tc.beg, tc.end)
		ok, err := arrjson.Equal(sub, elems(t, tc.expected))
		sub.Release()
		assert.NoError(t, err)
		assert.True(t, ok, "slice [%d:%d]", tc.beg, tc.end)
	}
}

func TestEqualFixtureArrays(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tests := []struct {
		name     string
		expected string
		want     bool
	}{
		{"primitives", `[1, 2, null, 4, 5, 6, null, 8]`, true},
		{"bools", `[true, false, null, true, false, null, true]`, true},
		{"strings", `["1é", null, null, "4", "5"]`, true},
		{"binaries", `["1é", "22", null, "444", "dead"]`, true},
		{"intervals", `[{"days": 1, "milliseconds": 1}, null, null, {"days": 4, "milliseconds": 4}, {"days": 5, "milliseconds": 5}]`, true},
		{"lists", `[[1, null, null, 4, 5], null, [], [21, null, null, 24, 25]]`, true},
		{"fixed_size_lists", `[[1, null, 3], null, [21, 22, 23], [null, null, null]]`, true},
		{"nested_lists", `[[[1, 2], null, []], null, [], [[null, 3]], [[4], [5, 6, 7]]]`, true},
		{"list_of_structs", `[[{"x": 1, "y": "a"}, null], null, [], [{"x": null, "y": "b"}, {"x": 3}]]`, true},
		{"dictionaries", `[0, 1, null, 0, 2, 1]`, true},
		{"dictionaries", `["a", "bb", null, "a", "ccc", "bb"]`, false},
		// a null struct row does not hide valid field values
		{"structs", `[{"f1": [1, 2], "f2": "one"}, {"f1": [3], "f2": null}, {"f2": "three"}, null]`, false},
		{"structs", `[{"f1": [1, 2], "f2": "one"}, {"f1": [3]}, {"f2": "three"}, {"f1": [4, null, 6], "f2": "four"}]`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			arr := arrdata.Arrays[tc.name](mem)
			defer arr.Release()

			ok, err := arrjson.Equal(arr, elems(t, tc.expected))
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok, "%v", arr)
		})
	}
}

func TestEqualUnsupported(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	for _, name := range arrdata.ArrayNames {
		if !arrdata.Unions(name) {
			continue
		}
		t.Run(name, func(t *testing.T) {
			arr := arrdata.Arrays[name](mem)
			defer arr.Release()

			vals := make([]arrjson.Value, arr.Len())
			ok, err := arrjson.Equal(arr, vals)
			assert.False(t, ok)
			assert.ErrorIs(t, err, arrow.ErrNotImplemented)
		})
	}
}

func TestEqualMalformed(t *testing.T) {
	data := array.NewData(arrow.PrimitiveTypes.Int32, 4,
		[]*memory.Buffer{nil, memory.NewBufferBytes(make([]byte, 8))}, nil, 0, 0)
	defer data.Release()
	arr := array.MakeFromData(data)
	defer arr.Release()

	ok, err := arrjson.Equal(arr, elems(t, `[0, 0, 0, 0]`))
	assert.False(t, ok)
	assert.ErrorIs(t, err, arrow.ErrInvalid)
}
