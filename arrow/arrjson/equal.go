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

package arrjson

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"strconv"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/array"
	"github.com/columnar/arroweq/arrow/float16"
	"golang.org/x/xerrors"
)

const (
	kDays         = "days"
	kMilliseconds = "milliseconds"
)

// EqualValue reports whether arr holds the elements of the sequence node v.
// Any other kind of node is unequal.
func EqualValue(arr arrow.Array, v Value) (bool, error) {
	if v.kind != KindArray {
		return false, nil
	}
	return Equal(arr, v.arr)
}

// Equal reports whether arr holds, slot by slot, the reference values vals.
//
// A null node matches a null slot only. Numbers match valid numeric slots
// of the same value, strings match text slots exactly, and binary slots
// either literally or once the string is hex decoded. Sequences match
// list slots element-wise, a null node also matching an empty valid slot.
// Struct arrays require every node to be a mapping or null, and each
// column to match the nodes' fields of the same name, absent fields
// counting as null. Dictionary arrays compare their keys with numbers.
//
// Unions cannot be compared: the error then wraps arrow.ErrNotImplemented.
func Equal(arr arrow.Array, vals []Value) (bool, error) {
	if arr.Len() != len(vals) {
		return false, nil
	}

	switch arr.DataType().ID() {
	case arrow.NULL:
		for _, v := range vals {
			if !v.IsNull() {
				return false, nil
			}
		}
		return true, nil
	case arrow.BOOL:
		a := arr.(*array.Boolean)
		return scalarsEqual(a, vals, func(i int, v Value) bool {
			return v.kind == KindBool && a.Value(i) == v.b
		}), nil
	case arrow.INT8:
		return signedEqual[int8](arr.(*array.Int8), vals)
	case arrow.INT16:
		return signedEqual[int16](arr.(*array.Int16), vals)
	case arrow.INT32:
		return signedEqual[int32](arr.(*array.Int32), vals)
	case arrow.INT64:
		return signedEqual[int64](arr.(*array.Int64), vals)
	case arrow.UINT8:
		return unsignedEqual[uint8](arr.(*array.Uint8), vals)
	case arrow.UINT16:
		return unsignedEqual[uint16](arr.(*array.Uint16), vals)
	case arrow.UINT32:
		return unsignedEqual[uint32](arr.(*array.Uint32), vals)
	case arrow.UINT64:
		return unsignedEqual[uint64](arr.(*array.Uint64), vals)
	case arrow.DATE32:
		return signedEqual[arrow.Date32](arr.(*array.Date32), vals)
	case arrow.DATE64:
		return signedEqual[arrow.Date64](arr.(*array.Date64), vals)
	case arrow.TIME32:
		return signedEqual[arrow.Time32](arr.(*array.Time32), vals)
	case arrow.TIME64:
		return signedEqual[arrow.Time64](arr.(*array.Time64), vals)
	case arrow.TIMESTAMP:
		return signedEqual[arrow.Timestamp](arr.(*array.Timestamp), vals)
	case arrow.DURATION:
		return signedEqual[arrow.Duration](arr.(*array.Duration), vals)
	case arrow.INTERVAL_MONTHS:
		return signedEqual[arrow.MonthInterval](arr.(*array.MonthInterval), vals)
	case arrow.INTERVAL_DAY_TIME:
		return dayTimeEqual(arr.(*array.DayTimeInterval), vals)
	case arrow.FLOAT16:
		return floatEqual[float16.Num](arr.(*array.Float16), vals, func(lit string, v float16.Num) bool {
			f, err := strconv.ParseFloat(lit, 32)
			return err == nil && float16.New(float32(f)).Uint16() == v.Uint16()
		})
	case arrow.FLOAT32:
		return floatEqual[float32](arr.(*array.Float32), vals, func(lit string, v float32) bool {
			f, err := strconv.ParseFloat(lit, 32)
			return err == nil && float32(f) == v
		})
	case arrow.FLOAT64:
		return floatEqual[float64](arr.(*array.Float64), vals, func(lit string, v float64) bool {
			f, err := strconv.ParseFloat(lit, 64)
			return err == nil && f == v
		})
	case arrow.STRING:
		a := arr.(*array.String)
		return scalarsEqual(a, vals, func(i int, v Value) bool {
			return v.kind == KindString && v.str == a.Value(i)
		}), nil
	case arrow.LARGE_STRING:
		a := arr.(*array.LargeString)
		return scalarsEqual(a, vals, func(i int, v Value) bool {
			return v.kind == KindString && v.str == a.Value(i)
		}), nil
	case arrow.BINARY:
		return bytesEqual(arr, vals, arr.(*array.Binary).Value), nil
	case arrow.LARGE_BINARY:
		return bytesEqual(arr, vals, arr.(*array.LargeBinary).Value), nil
	case arrow.FIXED_SIZE_BINARY:
		return bytesEqual(arr, vals, arr.(*array.FixedSizeBinary).Value), nil
	case arrow.LIST:
		return listEqual(arr.(*array.List), vals)
	case arrow.LARGE_LIST:
		return listEqual(arr.(*array.LargeList), vals)
	case arrow.FIXED_SIZE_LIST:
		return listEqual(arr.(*array.FixedSizeList), vals)
	case arrow.STRUCT:
		return structEqual(arr.(*array.Struct), vals)
	case arrow.DICTIONARY:
		return dictionaryEqual(arr.(*array.Dictionary), vals), nil
	case arrow.SPARSE_UNION, arrow.DENSE_UNION:
		return false, xerrors.Errorf("arrjson: reference equality of %s arrays: %w", arr.DataType(), arrow.ErrNotImplemented)
	}
	return false, xerrors.Errorf("arrjson: reference equality of %s arrays: %w", arr.DataType(), arrow.ErrNotImplemented)
}

// scalarsEqual matches null nodes with null slots and hands every other
// node, with its valid slot, to eq.
func scalarsEqual(arr arrow.Array, vals []Value, eq func(i int, v Value) bool) bool {
	for i, v := range vals {
		if v.IsNull() {
			if arr.IsValid(i) {
				return false
			}
			continue
		}
		if arr.IsNull(i) || !eq(i, v) {
			return false
		}
	}
	return true
}

type numericArray[T arrow.FixedWidthType] interface {
	arrow.Array
	Values() []T
}

func values[T arrow.FixedWidthType](arr numericArray[T]) ([]T, error) {
	vs := arr.Values()
	if len(vs) != arr.Len() {
		return nil, xerrors.Errorf("arrjson: %s array of %d elements holds %d values: %w", arr.DataType(), arr.Len(), len(vs), arrow.ErrInvalid)
	}
	return vs, nil
}

func parseRat(v Value) (*big.Rat, bool) {
	if v.kind != KindNumber {
		return nil, false
	}
	return new(big.Rat).SetString(v.str)
}

func signedEqual[T arrow.IntType](arr numericArray[T], vals []Value) (bool, error) {
	vs, err := values(arr)
	if err != nil {
		return false, err
	}
	var want big.Rat
	return scalarsEqual(arr, vals, func(i int, v Value) bool {
		got, ok := parseRat(v)
		return ok && got.Cmp(want.SetInt64(int64(vs[i]))) == 0
	}), nil
}

func unsignedEqual[T arrow.UintType](arr numericArray[T], vals []Value) (bool, error) {
	vs, err := values(arr)
	if err != nil {
		return false, err
	}
	var want big.Rat
	return scalarsEqual(arr, vals, func(i int, v Value) bool {
		got, ok := parseRat(v)
		return ok && got.Cmp(want.SetUint64(uint64(vs[i]))) == 0
	}), nil
}

// floatEqual parses number nodes at the precision of the array, eq
// compares the parsed literal with the stored value.
func floatEqual[T arrow.FloatType](arr numericArray[T], vals []Value, eq func(lit string, v T) bool) (bool, error) {
	vs, err := values(arr)
	if err != nil {
		return false, err
	}
	return scalarsEqual(arr, vals, func(i int, v Value) bool {
		return v.kind == KindNumber && eq(v.str, vs[i])
	}), nil
}

func dayTimeEqual(arr *array.DayTimeInterval, vals []Value) (bool, error) {
	vs, err := values[arrow.DayTimeInterval](arr)
	if err != nil {
		return false, err
	}
	field := func(v Value, name string, want int32) bool {
		f, ok := v.Get(name)
		if !ok || f.kind != KindNumber {
			return false
		}
		got, err := strconv.ParseInt(f.str, 10, 32)
		return err == nil && int32(got) == want
	}
	return scalarsEqual(arr, vals, func(i int, v Value) bool {
		return v.kind == KindObject && v.Len() == 2 &&
			field(v, kDays, vs[i].Days) && field(v, kMilliseconds, vs[i].Milliseconds)
	}), nil
}

// bytesEqual accepts a string node equal to the raw bytes of the slot, or
// one whose hex decoding is.
func bytesEqual(arr arrow.Array, vals []Value, value func(int) []byte) bool {
	return scalarsEqual(arr, vals, func(i int, v Value) bool {
		if v.kind != KindString {
			return false
		}
		got := value(i)
		if v.str == string(got) {
			return true
		}
		decoded, err := hex.DecodeString(v.str)
		return err == nil && bytes.Equal(decoded, got)
	})
}

type listArray interface {
	arrow.Array
	ListValues() arrow.Array
	ValueOffsets(i int) (start, end int64)
}

func listEqual(arr listArray, vals []Value) (bool, error) {
	for i, v := range vals {
		beg, end := arr.ValueOffsets(i)
		switch v.kind {
		case KindNull:
			if arr.IsValid(i) && beg != end {
				return false, nil
			}
		case KindArray:
			if arr.IsNull(i) {
				return false, nil
			}
			ok, err := spanEqual(arr.ListValues(), beg, end, v.arr)
			if !ok || err != nil {
				return false, err
			}
		default:
			return false, nil
		}
	}
	return true, nil
}

// spanEqual compares the elements [beg, end) of values with vals.
func spanEqual(values arrow.Array, beg, end int64, vals []Value) (bool, error) {
	if beg < 0 || beg > end || end > int64(values.Len()) {
		return false, xerrors.Errorf("arrjson: list span [%d:%d] outside child array of %d elements: %w",
			beg, end, values.Len(), arrow.ErrInvalid)
	}
	if end-beg != int64(len(vals)) {
		return false, nil
	}

	sub := array.NewSlice(values, beg, end)
	defer sub.Release()
	return Equal(sub, vals)
}

func structEqual(arr *array.Struct, vals []Value) (bool, error) {
	for _, v := range vals {
		if v.kind != KindObject && v.kind != KindNull {
			return false, nil
		}
	}

	column := make([]Value, len(vals))
	for k, f := range arr.DataType().(*arrow.StructType).Fields() {
		for i, v := range vals {
			column[i], _ = v.Get(f.Name)
		}
		ok, err := Equal(arr.Field(k), column)
		if !ok || err != nil {
			return false, err
		}
	}
	return true, nil
}

func dictionaryEqual(arr *array.Dictionary, vals []Value) bool {
	return scalarsEqual(arr, vals, func(i int, v Value) bool {
		if v.kind != KindNumber {
			return false
		}
		key, err := strconv.ParseUint(v.str, 10, 64)
		idx := arr.GetValueIndex(i)
		return err == nil && idx >= 0 && uint64(idx) == key
	})
}
