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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeEqual(t *testing.T) {
	var (
		i32  = Field{Name: "i", Type: PrimitiveTypes.Int32, Nullable: true}
		str  = Field{Name: "s", Type: BinaryTypes.String, Nullable: true}
		dict = &DictionaryType{IndexType: PrimitiveTypes.Int8, ValueType: BinaryTypes.String}
	)

	tests := []struct {
		left, right DataType
		want        bool
	}{
		{nil, nil, true},
		{nil, PrimitiveTypes.Uint8, false},
		{PrimitiveTypes.Float32, nil, false},
		{PrimitiveTypes.Float64, PrimitiveTypes.Int32, false},
		{Null, Null, true},
		{BinaryTypes.String, BinaryTypes.LargeString, false},
		{&Time32Type{Unit: Second}, &Time32Type{Unit: Second}, true},
		{&Time32Type{Unit: Millisecond}, &Time32Type{Unit: Second}, false},
		{&TimestampType{Unit: Second, TimeZone: "UTC"}, &TimestampType{Unit: Second, TimeZone: "UTC"}, true},
		{&TimestampType{Unit: Second, TimeZone: "UTC"}, &TimestampType{Unit: Second, TimeZone: "CET"}, false},
		{&FixedSizeBinaryType{ByteWidth: 3}, &FixedSizeBinaryType{ByteWidth: 3}, true},
		{&FixedSizeBinaryType{ByteWidth: 3}, &FixedSizeBinaryType{ByteWidth: 4}, false},
		{ListOf(PrimitiveTypes.Uint64), ListOf(PrimitiveTypes.Uint64), true},
		{ListOf(PrimitiveTypes.Uint64), ListOf(PrimitiveTypes.Uint32), false},
		{ListOf(ListOf(PrimitiveTypes.Uint16)), ListOf(ListOf(PrimitiveTypes.Uint16)), true},
		{ListOf(PrimitiveTypes.Int32), LargeListOf(PrimitiveTypes.Int32), false},
		{LargeListOf(PrimitiveTypes.Int32), LargeListOf(PrimitiveTypes.Int32), true},
		{FixedSizeListOf(2, PrimitiveTypes.Int32), FixedSizeListOf(2, PrimitiveTypes.Int32), true},
		{FixedSizeListOf(2, PrimitiveTypes.Int32), FixedSizeListOf(3, PrimitiveTypes.Int32), false},
		{StructOf(i32, str), StructOf(i32, str), true},
		{StructOf(i32, str), StructOf(str, i32), false},
		{StructOf(i32), StructOf(Field{Name: "i", Type: PrimitiveTypes.Int32}), false},
		{StructOf(i32), StructOf(i32, str), false},
		{dict, &DictionaryType{IndexType: PrimitiveTypes.Int8, ValueType: BinaryTypes.String}, true},
		{dict, &DictionaryType{IndexType: PrimitiveTypes.Int16, ValueType: BinaryTypes.String}, false},
		{dict, &DictionaryType{IndexType: PrimitiveTypes.Int8, ValueType: BinaryTypes.String, Ordered: true}, false},
		{SparseUnionOf([]Field{i32, str}, []UnionTypeCode{0, 1}), SparseUnionOf([]Field{i32, str}, []UnionTypeCode{0, 1}), true},
		{SparseUnionOf([]Field{i32, str}, []UnionTypeCode{0, 1}), SparseUnionOf([]Field{i32, str}, []UnionTypeCode{5, 10}), false},
		{SparseUnionOf([]Field{i32, str}, []UnionTypeCode{0, 1}), DenseUnionOf([]Field{i32, str}, []UnionTypeCode{0, 1}), false},
	}

	for _, test := range tests {
		assert.Equalf(t, test.want, TypeEqual(test.left, test.right), "TypeEqual(%v, %v)", test.left, test.right)
	}
}
