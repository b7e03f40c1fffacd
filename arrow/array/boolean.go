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
	"strings"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/bitutil"
	"github.com/columnar/arroweq/arrow/memory"
	"golang.org/x/xerrors"
)

// A type which represents an immutable sequence of boolean values.
type Boolean struct {
	array
	values []byte
}

// NewBoolean creates a boolean array from the data memory.Buffer and contains length elements.
// The nullBitmap buffer can be nil if there are no null values.
// If nullN is not known, use UnknownNullCount to calculate the value of NullN at runtime from the nullBitmap buffer.
func NewBoolean(length int, data *memory.Buffer, nullBitmap *memory.Buffer, nullN int) *Boolean {
	if nullN == UnknownNullCount {
		nullN = 0
		if nullBitmap != nil {
			nullN = length - bitutil.CountSetBits(nullBitmap.Bytes(), 0, length)
		}
	}
	arrdata := NewData(arrow.FixedWidthTypes.Boolean, length, []*memory.Buffer{nullBitmap, data}, nil, nullN, 0)
	defer arrdata.Release()
	return NewBooleanData(arrdata)
}

func NewBooleanData(data arrow.ArrayData) *Boolean {
	a := &Boolean{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

func (a *Boolean) Value(i int) bool {
	if i < 0 || i >= a.array.data.length {
		panic("arrow/array: index out of range")
	}
	return bitutil.BitIsSet(a.values, a.array.data.offset+i)
}

func (a *Boolean) String() string {
	o := new(strings.Builder)
	o.WriteString("[")
	for i := 0; i < a.Len(); i++ {
		if i > 0 {
			fmt.Fprintf(o, " ")
		}
		switch {
		case a.IsNull(i):
			o.WriteString(NullValueStr)
		default:
			fmt.Fprintf(o, "%v", a.Value(i))
		}
	}
	o.WriteString("]")
	return o.String()
}

func (a *Boolean) setData(data *Data) {
	a.array.setData(data)
	vals := data.buffers[1]
	if vals != nil {
		a.values = vals.Bytes()
	}
}

func booleanRangeEqual(left, right *Boolean, start, end, otherStart int) (bool, error) {
	for _, a := range [...]*Boolean{left, right} {
		if !bitutil.BitmapCovers(a.values, a.array.data.offset, a.array.data.length) {
			return false, xerrors.Errorf("arrow/array: value bitmap of %d bytes is too short for %d booleans at offset %d: %w",
				len(a.values), a.array.data.length, a.array.data.offset, arrow.ErrInvalid)
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
		if left.Value(i) != right.Value(j) {
			return false, nil
		}
	}
	return true, nil
}

var (
	_ arrow.Array = (*Boolean)(nil)
)
