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
	"github.com/columnar/arroweq/arrow/arrjson"
	"github.com/columnar/arroweq/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/sjson"
)

const structFixture = `{
  "field": {
    "name": "s",
    "nullable": true,
    "type": {"name": "struct"},
    "children": [
      {"name": "id", "nullable": false, "type": {"name": "int", "isSigned": false, "bitWidth": 64}},
      {"name": "tags", "nullable": true, "type": {"name": "list"}, "children": [
        {"name": "item", "nullable": true, "type": {"name": "utf8"}}
      ]},
      {"name": "at", "nullable": true, "type": {"name": "timestamp", "unit": "MILLISECOND", "timezone": "UTC"}}
    ]
  },
  "rows": [
    {"id": 1, "tags": ["a", "b"], "at": 1000},
    {"id": 2, "tags": []},
    null
  ],
  "expected": [
    {"id": 1, "tags": ["a", "b"], "at": 1000},
    {"id": 2, "tags": null},
    null
  ]
}`

func TestFixture(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	f, err := arrjson.ReadFixture(strings.NewReader(structFixture))
	require.NoError(t, err)

	field, err := f.ArrowField()
	require.NoError(t, err)
	assert.Equal(t, "s", field.Name)
	assert.True(t, field.Nullable)
	want := arrow.StructOf(
		arrow.Field{Name: "id", Type: arrow.PrimitiveTypes.Uint64},
		arrow.Field{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String), Nullable: true},
		arrow.Field{Name: "at", Type: &arrow.TimestampType{Unit: arrow.Millisecond, TimeZone: "UTC"}, Nullable: true},
	)
	assert.Truef(t, arrow.TypeEqual(want, field.Type), "got %s", field.Type)

	arr, err := f.Array(arrjson.WithAllocator(mem))
	require.NoError(t, err)
	defer arr.Release()
	assert.Equal(t, 3, arr.Len())
	assert.Equal(t, 1, arr.NullN())

	ok, err := f.Validate(arrjson.WithAllocator(mem))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFixturePerturbed(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tests := []struct {
		name  string
		path  string
		value interface{}
	}{
		{"id", "expected.0.id", 3},
		{"tag", "expected.0.tags.1", "c"},
		{"extra tag", "expected.0.tags.-1", "c"},
		{"null row", "expected.1", nil},
		{"mapping for null row", "expected.2", map[string]interface{}{"id": 0}},
		{"scalar row", "expected.1", 7},
		{"missing row", "expected.-1", nil},
		{"timestamp", "expected.0.at", 1001},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := sjson.SetBytes([]byte(structFixture), tc.path, tc.value)
			require.NoError(t, err)

			f, err := arrjson.ParseFixture(doc, "")
			require.NoError(t, err)

			ok, err := f.Validate(arrjson.WithAllocator(mem))
			require.NoError(t, err)
			assert.False(t, ok, string(doc))
		})
	}
}

func TestParseFixture(t *testing.T) {
	doc := []byte(`{"fixtures": [` + structFixture + `, {
	  "field": {"name": "h", "nullable": true, "type": {"name": "binary"}},
	  "rows": ["aGVsbG8=", null, "d29ybGQ="],
	  "expected": ["68656c6c6f", null, "world"]
	}]}`)

	for _, path := range []string{"fixtures.0", "fixtures.1"} {
		f, err := arrjson.ParseFixture(doc, path)
		require.NoError(t, err, path)
		ok, err := f.Validate()
		require.NoError(t, err, path)
		assert.True(t, ok, path)
	}

	_, err := arrjson.ParseFixture(doc, "fixtures.2")
	assert.ErrorIs(t, err, arrow.ErrInvalid)
}

func TestFixtureTypes(t *testing.T) {
	tests := []struct {
		typ  string
		want arrow.DataType
	}{
		{`{"name": "null"}`, arrow.Null},
		{`{"name": "bool"}`, arrow.FixedWidthTypes.Boolean},
		{`{"name": "int", "isSigned": true, "bitWidth": 8}`, arrow.PrimitiveTypes.Int8},
		{`{"name": "int", "bitWidth": 32}`, arrow.PrimitiveTypes.Uint32},
		{`{"name": "floatingpoint", "precision": "HALF"}`, arrow.FixedWidthTypes.Float16},
		{`{"name": "floatingpoint", "precision": "DOUBLE"}`, arrow.PrimitiveTypes.Float64},
		{`{"name": "largeutf8"}`, arrow.BinaryTypes.LargeString},
		{`{"name": "largebinary"}`, arrow.BinaryTypes.LargeBinary},
		{`{"name": "fixedsizebinary", "byteWidth": 4}`, &arrow.FixedSizeBinaryType{ByteWidth: 4}},
		{`{"name": "date", "unit": "DAY"}`, arrow.FixedWidthTypes.Date32},
		{`{"name": "time", "bitWidth": 64, "unit": "NANOSECOND"}`, arrow.FixedWidthTypes.Time64ns},
		{`{"name": "interval", "unit": "DAY_TIME"}`, arrow.FixedWidthTypes.DayTimeInterval},
		{`{"name": "duration", "unit": "SECOND"}`, arrow.FixedWidthTypes.Duration_s},
	}
	for _, tc := range tests {
		doc := `{"field": {"name": "f", "nullable": true, "type": ` + tc.typ + `}, "rows": []}`
		f, err := arrjson.ReadFixture(strings.NewReader(doc))
		require.NoError(t, err, tc.typ)
		field, err := f.ArrowField()
		require.NoError(t, err, tc.typ)
		assert.Truef(t, arrow.TypeEqual(tc.want, field.Type), "%s: got %s", tc.typ, field.Type)
	}

	nested := []struct {
		doc  string
		want arrow.DataType
	}{
		{`{"name": "f", "type": {"name": "largelist"}, "children": [{"name": "item", "type": {"name": "int", "isSigned": true, "bitWidth": 16}}]}`,
			arrow.LargeListOf(arrow.PrimitiveTypes.Int16)},
		{`{"name": "f", "type": {"name": "fixedsizelist", "listSize": 2}, "children": [{"name": "item", "type": {"name": "list"}, "children": [{"name": "item", "type": {"name": "bool"}}]}]}`,
			arrow.FixedSizeListOf(2, arrow.ListOf(arrow.FixedWidthTypes.Boolean))},
	}
	for _, tc := range nested {
		f, err := arrjson.ReadFixture(strings.NewReader(`{"field": ` + tc.doc + `, "rows": []}`))
		require.NoError(t, err)
		field, err := f.ArrowField()
		require.NoError(t, err)
		assert.Truef(t, arrow.TypeEqual(tc.want, field.Type), "got %s", field.Type)
	}
}

func TestFixtureErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{"no rows", `{"field": {"name": "f", "type": {"name": "bool"}}}`, arrow.ErrInvalid},
		{"unknown type", `{"field": {"name": "f", "type": {"name": "decimal"}}, "rows": []}`, arrow.ErrNotImplemented},
		{"bad bit width", `{"field": {"name": "f", "type": {"name": "int", "bitWidth": 12}}, "rows": []}`, arrow.ErrNotImplemented},
		{"list without child", `{"field": {"name": "f", "type": {"name": "list"}}, "rows": []}`, arrow.ErrInvalid},
		{"duplicate struct field", `{"field": {"name": "f", "type": {"name": "struct"}, "children": [
			{"name": "a", "type": {"name": "bool"}}, {"name": "a", "type": {"name": "bool"}}]}, "rows": []}`, arrow.ErrInvalid},
		{"no expected values", `{"field": {"name": "f", "type": {"name": "bool"}}, "rows": [true]}`, arrow.ErrInvalid},
		{"expected not an array", `{"field": {"name": "f", "type": {"name": "bool"}}, "rows": [true], "expected": true}`, arrow.ErrInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := arrjson.ReadFixture(strings.NewReader(tc.doc))
			if err == nil {
				_, err = f.Validate()
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}

	_, err := arrjson.ReadFixture(strings.NewReader(`{"field": `))
	assert.Error(t, err)
}

func TestFixtureMissingType(t *testing.T) {
	f := arrjson.Fixture{
		Field: arrjson.Field{Name: "u", Nullable: true},
		Rows:  []byte(`[]`),
	}
	_, err := f.Array()
	assert.ErrorIs(t, err, arrow.ErrNotImplemented)
}
