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
	"bytes"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/bitutil"
	"github.com/columnar/arroweq/arrow/internal/debug"
	"golang.org/x/xerrors"
)

// Equal reports whether the two provided arrays hold the same logical
// sequence of values, nulls included.
//
// Arrays that differ are reported as false with a nil error, so are arrays of
// different types. A non-nil error wraps arrow.ErrNotImplemented for kinds
// that cannot be compared (unions), or arrow.ErrInvalid when an array's
// buffers are too short for its offset and length.
func Equal(left, right arrow.Array) (bool, error) {
	switch {
	case !arrow.TypeEqual(left.DataType(), right.DataType()):
		return false, nil
	case isUnion(left.DataType().ID()):
		return false, unsupported("equality", left.DataType())
	}

	ok, err := baseArrayEqual(left, right)
	if !ok || err != nil {
		return false, err
	}

	// at this point, we know both arrays have same type, same length, same number of nulls
	// and nulls at the same place.
	// compare the values.
	return arrayEqual(left, right)
}

// RangeEqual reports whether the elements [start, end) of left are equal to
// the elements [otherStart, otherStart+end-start) of right.
//
// RangeEqual panics with an error wrapping arrow.ErrIndex when either range
// lies outside its array. Null arrays and unions cannot be compared by
// range: the error then wraps arrow.ErrNotImplemented.
func RangeEqual(left, right arrow.Array, start, end, otherStart int) (bool, error) {
	if !arrow.TypeEqual(left.DataType(), right.DataType()) {
		return false, nil
	}
	return rangeEqual(left, right, start, end, otherStart)
}

// SliceEqual reports whether slice left[lbeg:lend] is equal to slice right[rbeg:rend].
func SliceEqual(left arrow.Array, lbeg, lend int64, right arrow.Array, rbeg, rend int64) (bool, error) {
	l := NewSlice(left, lbeg, lend)
	defer l.Release()
	r := NewSlice(right, rbeg, rend)
	defer r.Release()

	return Equal(l, r)
}

// baseArrayEqual is the check shared by every kind: same type, same length,
// same null count and nulls at the same positions.
func baseArrayEqual(left, right arrow.Array) (bool, error) {
	switch {
	case !arrow.TypeEqual(left.DataType(), right.DataType()):
		return false, nil
	case left.Len() != right.Len():
		return false, nil
	case left.NullN() != right.NullN():
		return false, nil
	}

	if err := validBitmap(left); err != nil {
		return false, err
	}
	if err := validBitmap(right); err != nil {
		return false, err
	}

	if left.NullN() == 0 || left.DataType().ID() == arrow.NULL {
		return true, nil
	}

	return bitutil.BitmapEquals(
		left.NullBitmapBytes(), left.Data().Offset(),
		right.NullBitmapBytes(), right.Data().Offset(),
		left.Len(),
	), nil
}

// validBitmap returns an error when the validity bitmap of arr does not
// cover its window, or is missing although arr holds nulls.
func validBitmap(arr arrow.Array) error {
	if arr.DataType().ID() == arrow.NULL {
		return nil
	}

	bitmap := arr.NullBitmapBytes()
	switch {
	case len(bitmap) == 0 && arr.NullN() == 0:
		return nil
	case len(bitmap) == 0:
		return xerrors.Errorf("arrow/array: %s array with %d nulls has no validity bitmap: %w", arr.DataType(), arr.NullN(), arrow.ErrInvalid)
	case !bitutil.BitmapCovers(bitmap, arr.Data().Offset(), arr.Len()):
		return xerrors.Errorf("arrow/array: validity bitmap of %d bytes is too short for %d elements at offset %d: %w",
			len(bitmap), arr.Len(), arr.Data().Offset(), arrow.ErrInvalid)
	}
	return nil
}

func arrayEqual(left, right arrow.Array) (bool, error) {
	switch left.DataType().ID() {
	case arrow.NULL:
		return true, nil
	case arrow.BOOL:
		return booleanRangeEqual(left.(*Boolean), right.(*Boolean), 0, left.Len(), 0)
	case arrow.UINT8, arrow.INT8, arrow.UINT16, arrow.INT16, arrow.UINT32, arrow.INT32,
		arrow.UINT64, arrow.INT64, arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64,
		arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP, arrow.TIME32, arrow.TIME64,
		arrow.INTERVAL_MONTHS, arrow.INTERVAL_DAY_TIME, arrow.DURATION,
		arrow.FIXED_SIZE_BINARY:
		return fixedWidthEqual(left, right)
	case arrow.BINARY, arrow.STRING:
		return binaryEqual[int32](left, right)
	case arrow.LARGE_BINARY, arrow.LARGE_STRING:
		return binaryEqual[int64](left, right)
	case arrow.LIST:
		return listEqual(left.(*List), right.(*List))
	case arrow.LARGE_LIST:
		return listEqual(left.(*LargeList), right.(*LargeList))
	case arrow.FIXED_SIZE_LIST, arrow.STRUCT, arrow.DICTIONARY:
		return rangeEqual(left, right, 0, left.Len(), 0)
	case arrow.SPARSE_UNION, arrow.DENSE_UNION:
		return false, unsupported("equality", left.DataType())
	}
	return false, unsupported("equality", left.DataType())
}

// rangeEqual compares left[start:end] with right starting at otherStart.
// Both arrays have the same type.
func rangeEqual(left, right arrow.Array, start, end, otherStart int) (bool, error) {
	if start < 0 || start > end || end > left.Len() || otherStart < 0 || otherStart+(end-start) > right.Len() {
		panic(xerrors.Errorf("arrow/array: range [%d:%d] of %d elements compared from %d of %d elements: %w",
			start, end, left.Len(), otherStart, right.Len(), arrow.ErrIndex))
	}
	debug.Assert(arrow.TypeEqual(left.DataType(), right.DataType()), "arrow/array: range comparison of mismatched types")

	if err := validBitmap(left); err != nil {
		return false, err
	}
	if err := validBitmap(right); err != nil {
		return false, err
	}

	switch left.DataType().ID() {
	case arrow.NULL:
		return false, unsupported("range equality", left.DataType())
	case arrow.BOOL:
		return booleanRangeEqual(left.(*Boolean), right.(*Boolean), start, end, otherStart)
	case arrow.UINT8, arrow.INT8, arrow.UINT16, arrow.INT16, arrow.UINT32, arrow.INT32,
		arrow.UINT64, arrow.INT64, arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64,
		arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP, arrow.TIME32, arrow.TIME64,
		arrow.INTERVAL_MONTHS, arrow.INTERVAL_DAY_TIME, arrow.DURATION,
		arrow.FIXED_SIZE_BINARY:
		return fixedWidthRangeEqual(left, right, start, end, otherStart)
	case arrow.BINARY, arrow.STRING:
		return binaryRangeEqual[int32](left, right, start, end, otherStart)
	case arrow.LARGE_BINARY, arrow.LARGE_STRING:
		return binaryRangeEqual[int64](left, right, start, end, otherStart)
	case arrow.LIST:
		return listRangeEqual(left.(*List), right.(*List), start, end, otherStart)
	case arrow.LARGE_LIST:
		return listRangeEqual(left.(*LargeList), right.(*LargeList), start, end, otherStart)
	case arrow.FIXED_SIZE_LIST:
		return fixedSizeListRangeEqual(left.(*FixedSizeList), right.(*FixedSizeList), start, end, otherStart)
	case arrow.STRUCT:
		return structRangeEqual(left.(*Struct), right.(*Struct), start, end, otherStart)
	case arrow.DICTIONARY:
		return dictionaryRangeEqual(left.(*Dictionary), right.(*Dictionary), start, end, otherStart)
	case arrow.SPARSE_UNION, arrow.DENSE_UNION:
		return false, unsupported("range equality", left.DataType())
	}
	return false, unsupported("range equality", left.DataType())
}

func isUnion(id arrow.Type) bool {
	return id == arrow.SPARSE_UNION || id == arrow.DENSE_UNION
}

func unsupported(op string, dt arrow.DataType) error {
	debug.Log(func() string { return "arrow/array: no " + op + " for " + dt.String() })
	return xerrors.Errorf("arrow/array: %s of %s arrays: %w", op, dt, arrow.ErrNotImplemented)
}

// fixedWidthValues returns the bytes of the values in the window of arr,
// width bytes per element.
func fixedWidthValues(arr arrow.Array, width int) ([]byte, error) {
	data := arr.Data()
	var raw []byte
	if bufs := data.Buffers(); len(bufs) > 1 && bufs[1] != nil {
		raw = bufs[1].Bytes()
	}

	beg := data.Offset() * width
	end := (data.Offset() + data.Len()) * width
	if end > len(raw) {
		return nil, xerrors.Errorf("arrow/array: value buffer of %d bytes is too short for %d %s elements at offset %d: %w",
			len(raw), data.Len(), arr.DataType(), data.Offset(), arrow.ErrInvalid)
	}
	return raw[beg:end], nil
}

func fixedWidthEqual(left, right arrow.Array) (bool, error) {
	if left.NullN() != 0 {
		return fixedWidthRangeEqual(left, right, 0, left.Len(), 0)
	}

	width := left.DataType().(arrow.FixedWidthDataType).Bytes()
	lvals, err := fixedWidthValues(left, width)
	if err != nil {
		return false, err
	}
	rvals, err := fixedWidthValues(right, width)
	if err != nil {
		return false, err
	}
	return bytes.Equal(lvals, rvals), nil
}

func fixedWidthRangeEqual(left, right arrow.Array, start, end, otherStart int) (bool, error) {
	width := left.DataType().(arrow.FixedWidthDataType).Bytes()
	lvals, err := fixedWidthValues(left, width)
	if err != nil {
		return false, err
	}
	rvals, err := fixedWidthValues(right, width)
	if err != nil {
		return false, err
	}

	for i, j := start, otherStart; i < end; i, j = i+1, j+1 {
		isNull := left.IsNull(i)
		if isNull != right.IsNull(j) {
			return false, nil
		}
		if isNull {
			continue
		}
		if !bytes.Equal(lvals[i*width:(i+1)*width], rvals[j*width:(j+1)*width]) {
			return false, nil
		}
	}
	return true, nil
}
