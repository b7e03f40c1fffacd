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
	"sync/atomic"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/internal/debug"
	"github.com/columnar/arroweq/arrow/internal/json"
	"github.com/columnar/arroweq/arrow/memory"
	"golang.org/x/xerrors"
)

// Struct represents an ordered sequence of relative types.
type Struct struct {
	array
	fields []arrow.Array
}

// NewStructArray constructs a new Struct Array out of the columns passed
// in and the field names. The length of all cols must be the same and
// there should be the same number of columns as names.
func NewStructArray(cols []arrow.Array, names []string) (*Struct, error) {
	if len(cols) != len(names) {
		return nil, xerrors.Errorf("arrow/array: %d columns for %d names: %w", len(cols), len(names), arrow.ErrInvalid)
	}
	if len(cols) == 0 {
		return nil, xerrors.Errorf("arrow/array: can't infer struct array length with 0 child arrays: %w", arrow.ErrInvalid)
	}

	length := cols[0].Len()
	children := make([]arrow.ArrayData, len(cols))
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		if length != c.Len() {
			return nil, xerrors.Errorf("arrow/array: mismatching child array lengths: %w", arrow.ErrInvalid)
		}
		children[i] = c.Data()
		fields[i].Name = names[i]
		fields[i].Type = c.DataType()
		fields[i].Nullable = true
	}

	data := NewData(arrow.StructOf(fields...), length, []*memory.Buffer{nil}, children, 0, 0)
	defer data.Release()
	return NewStructData(data), nil
}

// NewStructData returns a new Struct array value from data.
func NewStructData(data arrow.ArrayData) *Struct {
	a := &Struct{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Field returns the i-th column, sliced to the window of the struct array.
func (a *Struct) Field(i int) arrow.Array { return a.fields[i] }

// NumField returns the number of columns.
func (a *Struct) NumField() int { return len(a.fields) }

func (a *Struct) String() string {
	o := new(strings.Builder)
	o.WriteString("{")

	for i, v := range a.fields {
		if i > 0 {
			o.WriteString(" ")
		}
		fmt.Fprintf(o, "%v", v)
	}
	o.WriteString("}")
	return o.String()
}

func (a *Struct) setData(data *Data) {
	a.array.setData(data)
	a.fields = make([]arrow.Array, len(data.childData))
	for i, child := range data.childData {
		if data.offset != 0 || child.Len() != data.length {
			sub := NewSliceData(child, int64(data.offset), int64(data.offset+data.length))
			a.fields[i] = MakeFromData(sub)
			sub.Release()
		} else {
			a.fields[i] = MakeFromData(child)
		}
	}
}

func (a *Struct) Retain() {
	a.array.Retain()
	for _, v := range a.fields {
		v.Retain()
	}
}

func (a *Struct) Release() {
	a.array.Release()
	for _, v := range a.fields {
		v.Release()
	}
}

type StructBuilder struct {
	builder

	dtype  *arrow.StructType
	fields []Builder
}

// NewStructBuilder returns a builder, using the provided memory allocator.
func NewStructBuilder(mem memory.Allocator, dtype *arrow.StructType) *StructBuilder {
	b := &StructBuilder{
		builder: builder{refCount: 1, mem: mem},
		dtype:   dtype,
		fields:  make([]Builder, len(dtype.Fields())),
	}
	for i, f := range dtype.Fields() {
		b.fields[i] = NewBuilder(b.mem, f.Type)
	}
	return b
}

func (b *StructBuilder) Type() arrow.DataType { return b.dtype }

// Release decreases the reference count by 1.
// When the reference count goes to zero, the memory is freed.
func (b *StructBuilder) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")

	if b.releaseBitmap() {
		for _, f := range b.fields {
			f.Release()
		}
	}
}

// Append records the validity of the next row. The caller appends one
// value to every field builder afterwards.
func (b *StructBuilder) Append(v bool) {
	b.Reserve(1)
	b.UnsafeAppendBoolToBitmap(v)
}

func (b *StructBuilder) AppendValues(valids []bool) {
	b.Reserve(len(valids))
	b.unsafeAppendBoolsToBitmap(valids, len(valids))
}

// AppendNull appends a null row and a null to every field builder.
func (b *StructBuilder) AppendNull() {
	b.Reserve(1)
	b.UnsafeAppendBoolToBitmap(false)
	for _, f := range b.fields {
		f.AppendNull()
	}
}

// Reserve ensures there is enough space for appending n elements
// by checking the capacity and calling Resize if necessary.
func (b *StructBuilder) Reserve(n int) {
	b.builder.reserve(n, b.Resize)
}

// Resize adjusts the space allocated by b to n elements. If n is greater than b.Cap(),
// additional memory will be allocated. If n is smaller, the allocated memory may reduced.
func (b *StructBuilder) Resize(n int) {
	if n < minBuilderCapacity {
		n = minBuilderCapacity
	}
	b.builder.resize(n, b.builder.init)
}

func (b *StructBuilder) NumField() int { return len(b.fields) }

func (b *StructBuilder) FieldBuilder(i int) Builder { return b.fields[i] }

// NewArray creates a Struct array from the memory buffers used by the builder and resets the StructBuilder
// so it can be used to build a new array.
func (b *StructBuilder) NewArray() arrow.Array {
	return b.NewStructArray()
}

// NewStructArray creates a Struct array from the memory buffers used by the builder and resets the StructBuilder
// so it can be used to build a new array.
func (b *StructBuilder) NewStructArray() (a *Struct) {
	data := b.newData()
	a = NewStructData(data)
	data.Release()
	return
}

func (b *StructBuilder) newData() (data *Data) {
	fields := make([]arrow.ArrayData, len(b.fields))
	for i, f := range b.fields {
		arr := f.NewArray()
		defer arr.Release()
		fields[i] = arr.Data()
	}

	nulls := b.finishBitmap()
	data = NewData(b.dtype, b.length, []*memory.Buffer{nulls}, fields, b.nulls, 0)
	if nulls != nil {
		nulls.Release()
	}
	b.reset()

	return
}

// UnmarshalOne decodes one JSON object, or null, into the next row.
// Fields missing from the object are appended as nulls.
func (b *StructBuilder) UnmarshalOne(dec *json.Decoder) error {
	t, err := dec.Token()
	if err != nil {
		return err
	}

	switch t {
	case json.Delim('{'):
		b.Append(true)
		seen := make([]bool, len(b.fields))
		for dec.More() {
			key, err := dec.Token()
			if err != nil {
				return err
			}
			name, _ := key.(string)
			idx, ok := b.dtype.FieldIdx(name)
			switch {
			case !ok:
				return xerrors.Errorf("arrow/array: unknown field %q for %s: %w", name, b.dtype, arrow.ErrInvalid)
			case seen[idx]:
				return xerrors.Errorf("arrow/array: duplicate field %q for %s: %w", name, b.dtype, arrow.ErrInvalid)
			}
			if err := b.fields[idx].UnmarshalOne(dec); err != nil {
				return err
			}
			seen[idx] = true
		}
		for i, ok := range seen {
			if !ok {
				b.fields[i].AppendNull()
			}
		}
		// consume the closing '}'
		if _, err := dec.Token(); err != nil {
			return err
		}
	case nil:
		b.AppendNull()
	default:
		return xerrors.Errorf("arrow/array: cannot append %v to %s: %w", t, b.dtype, arrow.ErrInvalid)
	}
	return nil
}

func structRangeEqual(left, right *Struct, start, end, otherStart int) (bool, error) {
	for i, j := start, otherStart; i < end; i, j = i+1, j+1 {
		isNull := left.IsNull(i)
		if isNull != right.IsNull(j) {
			return false, nil
		}
		if isNull {
			continue
		}
		for k := range left.fields {
			ok, err := rangeEqual(left.fields[k], right.fields[k], i, i+1, j)
			if !ok || err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

var (
	_ arrow.Array = (*Struct)(nil)
	_ Builder     = (*StructBuilder)(nil)
)
