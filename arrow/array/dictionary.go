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

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/internal/debug"
	"golang.org/x/xerrors"
)

// Dictionary represents the type for dictionary-encoded data with a data
// dependent dictionary.
//
// A dictionary array contains an array of non-negative integers (the "dictionary"
// indices") along with a data type containing a "dictionary" corresponding to
// the distinct values represented in the data.
type Dictionary struct {
	array

	dictType *arrow.DictionaryType
	indices  arrow.Array
	dict     arrow.Array
}

// NewDictionaryArray constructs a dictionary array with the provided indices
// and dictionary using the given type.
func NewDictionaryArray(typ *arrow.DictionaryType, indices, dict arrow.Array) (*Dictionary, error) {
	switch {
	case !arrow.TypeEqual(typ.IndexType, indices.DataType()):
		return nil, xerrors.Errorf("arrow/array: dictionary index type %s, got indices of %s: %w", typ.IndexType, indices.DataType(), arrow.ErrType)
	case !arrow.TypeEqual(typ.ValueType, dict.DataType()):
		return nil, xerrors.Errorf("arrow/array: dictionary value type %s, got dictionary of %s: %w", typ.ValueType, dict.DataType(), arrow.ErrType)
	case !arrow.IsInteger(indices.DataType().ID()):
		return nil, xerrors.Errorf("arrow/array: dictionary indices must be integers, got %s: %w", indices.DataType(), arrow.ErrType)
	}

	idata := indices.Data()
	data := NewDataWithDictionary(typ, idata.Len(), idata.Buffers(), idata.NullN(), idata.Offset(), dict.Data().(*Data))
	defer data.Release()
	return NewDictionaryData(data), nil
}

// NewDictionaryData creates a strongly typed Dictionary array from
// an ArrayData object with a datatype of arrow.Dictionary and a dictionary
func NewDictionaryData(data arrow.ArrayData) *Dictionary {
	a := &Dictionary{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

func (d *Dictionary) Retain() {
	d.array.Retain()
	d.indices.Retain()
	d.dict.Retain()
}

func (d *Dictionary) Release() {
	d.array.Release()
	d.indices.Release()
	d.dict.Release()
}

func (d *Dictionary) setData(data *Data) {
	if data.dictionary == nil {
		panic("arrow/array: no dictionary set in Data for Dictionary array")
	}

	d.array.setData(data)
	d.dictType = data.dtype.(*arrow.DictionaryType)
	debug.Assert(arrow.TypeEqual(d.dictType.ValueType, data.dictionary.DataType()), "mismatched dictionary value types")

	indexData := NewData(d.dictType.IndexType, data.length, data.buffers, nil, data.nulls, data.offset)
	defer indexData.Release()
	d.indices = MakeFromData(indexData)
	d.dict = MakeFromData(data.dictionary)
}

// Dictionary returns the values array that makes up the dictionary for this
// array. The returned array is owned by d, call Retain to keep it longer.
func (d *Dictionary) Dictionary() arrow.Array { return d.dict }

// Indices returns the underlying array of indices. The returned array is
// owned by d, call Retain to keep it longer.
func (d *Dictionary) Indices() arrow.Array { return d.indices }

// GetValueIndex returns the dictionary index for the value at index i of the array.
func (d *Dictionary) GetValueIndex(i int) int {
	indiceData := d.data.buffers[1].Bytes()
	j := d.data.offset + i
	switch d.dictType.IndexType.ID() {
	case arrow.INT8:
		return int(arrow.GetData[int8](indiceData)[j])
	case arrow.UINT8:
		return int(indiceData[j])
	case arrow.INT16:
		return int(arrow.GetData[int16](indiceData)[j])
	case arrow.UINT16:
		return int(arrow.GetData[uint16](indiceData)[j])
	case arrow.INT32:
		return int(arrow.GetData[int32](indiceData)[j])
	case arrow.UINT32:
		return int(arrow.GetData[uint32](indiceData)[j])
	case arrow.INT64:
		return int(arrow.GetData[int64](indiceData)[j])
	case arrow.UINT64:
		return int(arrow.GetData[uint64](indiceData)[j])
	}
	debug.Assert(false, "unreachable dictionary index")
	return -1
}

func (d *Dictionary) String() string {
	return fmt.Sprintf("{ dictionary: %v\n  indices: %v }", d.dict, d.indices)
}

// dictionaryRangeEqual compares the indices of the two windows, then
// requires the two dictionaries to be equal.
func dictionaryRangeEqual(left, right *Dictionary, start, end, otherStart int) (bool, error) {
	width := left.dictType.Bytes()
	for _, d := range [...]*Dictionary{left, right} {
		if _, err := fixedWidthValues(d.indices, width); err != nil {
			return false, err
		}
	}

	for i, j := start, otherStart; i < end; i, j = i+1, j+1 {
		isNull := left.IsNull(i)
		if isNull != right.IsNull(j) {
			return false, nil
		}
		if isNull {
			continue
		}
		if left.GetValueIndex(i) != right.GetValueIndex(j) {
			return false, nil
		}
	}

	return Equal(left.dict, right.dict)
}

var (
	_ arrow.Array = (*Dictionary)(nil)
)
