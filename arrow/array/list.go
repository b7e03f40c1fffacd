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

// baseList represents an immutable sequence of array values whose
// spans are delimited by offsets of type O.
type baseList[O offsetType] struct {
	array
	values  arrow.Array
	offsets []O
}

type (
	// List represents an immutable sequence of array values.
	List = baseList[int32]
	// LargeList is a List whose offsets are 64-bit.
	LargeList = baseList[int64]
)

// NewListData returns a new List array value, from data.
func NewListData(data arrow.ArrayData) *List {
	return newListData[int32](data)
}

// NewLargeListData returns a new LargeList array value, from data.
func NewLargeListData(data arrow.ArrayData) *LargeList {
	return newListData[int64](data)
}

func newListData[O offsetType](data arrow.ArrayData) *baseList[O] {
	a := &baseList[O]{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

func (a *baseList[O]) ListValues() arrow.Array { return a.values }

func (a *baseList[O]) String() string {
	o := new(strings.Builder)
	o.WriteString("[")
	for i := 0; i < a.Len(); i++ {
		if i > 0 {
			o.WriteString(" ")
		}
		if !a.IsValid(i) {
			o.WriteString(NullValueStr)
			continue
		}
		sub := a.newListValue(i)
		fmt.Fprintf(o, "%v", sub)
		sub.Release()
	}
	o.WriteString("]")
	return o.String()
}

func (a *baseList[O]) newListValue(i int) arrow.Array {
	beg, end := a.ValueOffsets(i)
	return NewSlice(a.values, beg, end)
}

func (a *baseList[O]) setData(data *Data) {
	a.array.setData(data)
	vals := data.buffers[1]
	if vals != nil {
		a.offsets = arrow.GetData[O](vals.Bytes())
	}
	a.values = MakeFromData(data.childData[0])
}

// Len returns the number of elements in the array.
func (a *baseList[O]) Len() int { return a.array.Len() }

// Offsets returns the Len()+1 offsets of the array window.
func (a *baseList[O]) Offsets() []O {
	if len(a.offsets) == 0 {
		return nil
	}
	beg := a.array.data.offset
	end := beg + a.array.data.length + 1
	return a.offsets[beg:end]
}

// ValueOffsets returns the span of the child array holding the list at index i.
func (a *baseList[O]) ValueOffsets(i int) (start, end int64) {
	j := i + a.array.data.offset
	return int64(a.offsets[j]), int64(a.offsets[j+1])
}

func (a *baseList[O]) Retain() {
	a.array.Retain()
	a.values.Retain()
}

func (a *baseList[O]) Release() {
	a.array.Release()
	a.values.Release()
}

// baseListBuilder builds list arrays whose offsets have type O.
type baseListBuilder[O offsetType] struct {
	builder

	dtype   arrow.ListLikeType // data type of the list.
	values  Builder            // value builder for the list's elements.
	offsets *offsetsBuilder[O]
}

type (
	ListBuilder      = baseListBuilder[int32]
	LargeListBuilder = baseListBuilder[int64]
)

// NewListBuilder returns a builder, using the provided memory allocator.
// The created list builder will create a list whose elements will be of type etype.
func NewListBuilder(mem memory.Allocator, etype arrow.DataType) *ListBuilder {
	return NewListBuilderWithField(mem, arrow.ListOf(etype).ElemField())
}

// NewListBuilderWithField takes a field to use for the child rather than just
// a datatype to allow for more customization.
func NewListBuilderWithField(mem memory.Allocator, field arrow.Field) *ListBuilder {
	return newListBuilder[int32](mem, arrow.ListOfField(field))
}

// NewLargeListBuilder returns a builder of lists with 64-bit offsets.
func NewLargeListBuilder(mem memory.Allocator, etype arrow.DataType) *LargeListBuilder {
	return NewLargeListBuilderWithField(mem, arrow.LargeListOf(etype).ElemField())
}

// NewLargeListBuilderWithField is NewListBuilderWithField for 64-bit offsets.
func NewLargeListBuilderWithField(mem memory.Allocator, field arrow.Field) *LargeListBuilder {
	return newListBuilder[int64](mem, arrow.LargeListOfField(field))
}

func newListBuilder[O offsetType](mem memory.Allocator, dtype arrow.ListLikeType) *baseListBuilder[O] {
	return &baseListBuilder[O]{
		builder: builder{refCount: 1, mem: mem},
		dtype:   dtype,
		values:  NewBuilder(mem, dtype.Elem()),
		offsets: newOffsetsBuilder[O](mem),
	}
}

func (b *baseListBuilder[O]) Type() arrow.DataType { return b.dtype }

// Release decreases the reference count by 1.
// When the reference count goes to zero, the memory is freed.
func (b *baseListBuilder[O]) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")

	if b.releaseBitmap() {
		b.values.Release()
		b.offsets.Release()
	}
}

func (b *baseListBuilder[O]) appendNextOffset() {
	b.offsets.AppendOffset(b.values.Len())
}

// Append starts a new list slot. When v is true, the elements of the
// slot are appended to ValueBuilder afterwards.
func (b *baseListBuilder[O]) Append(v bool) {
	b.Reserve(1)
	b.UnsafeAppendBoolToBitmap(v)
	b.appendNextOffset()
}

func (b *baseListBuilder[O]) AppendNull() {
	b.Reserve(1)
	b.UnsafeAppendBoolToBitmap(false)
	b.appendNextOffset()
}

// Reserve ensures there is enough space for appending n elements
// by checking the capacity and calling Resize if necessary.
func (b *baseListBuilder[O]) Reserve(n int) {
	b.builder.reserve(n, b.Resize)
}

// Resize adjusts the space allocated by b to n elements. If n is greater than b.Cap(),
// additional memory will be allocated. If n is smaller, the allocated memory may reduced.
func (b *baseListBuilder[O]) Resize(n int) {
	if n < minBuilderCapacity {
		n = minBuilderCapacity
	}
	b.builder.resize(n, b.builder.init)
}

func (b *baseListBuilder[O]) ValueBuilder() Builder {
	return b.values
}

// NewArray creates a List array from the memory buffers used by the builder and resets the ListBuilder
// so it can be used to build a new array.
func (b *baseListBuilder[O]) NewArray() arrow.Array {
	return b.NewListArray()
}

// NewListArray creates a list array from the memory buffers used by the builder and resets the builder
// so it can be used to build a new array.
func (b *baseListBuilder[O]) NewListArray() (a *baseList[O]) {
	if b.offsets.Len() != b.length+1 {
		b.appendNextOffset()
	}
	data := b.newData()
	a = newListData[O](data)
	data.Release()
	return
}

func (b *baseListBuilder[O]) newData() (data *Data) {
	values := b.values.NewArray()
	defer values.Release()

	offsets := b.offsets.Finish()
	defer offsets.Release()

	nulls := b.finishBitmap()
	data = NewData(
		b.dtype, b.length,
		[]*memory.Buffer{nulls, offsets},
		[]arrow.ArrayData{values.Data()},
		b.nulls,
		0,
	)
	if nulls != nil {
		nulls.Release()
	}
	b.reset()

	return
}

// UnmarshalOne decodes one JSON array, or null, into the next list slot.
func (b *baseListBuilder[O]) UnmarshalOne(dec *json.Decoder) error {
	t, err := dec.Token()
	if err != nil {
		return err
	}

	switch t {
	case json.Delim('['):
		b.Append(true)
		if err := unmarshalElems(b.values, dec); err != nil {
			return err
		}
	case nil:
		b.AppendNull()
	default:
		return xerrors.Errorf("arrow/array: cannot append %v to %s: %w", t, b.dtype, arrow.ErrInvalid)
	}
	return nil
}

// unmarshalElems appends every element of the JSON array being read by
// dec, including its closing bracket.
func unmarshalElems(b Builder, dec *json.Decoder) error {
	for dec.More() {
		if err := b.UnmarshalOne(dec); err != nil {
			return err
		}
	}
	// consume the closing ']'
	_, err := dec.Token()
	return err
}

// FixedSizeList represents an immutable sequence of N array values.
type FixedSizeList struct {
	array
	n      int32
	values arrow.Array
}

// NewFixedSizeListData returns a new FixedSizeList array value, from data.
func NewFixedSizeListData(data arrow.ArrayData) *FixedSizeList {
	a := &FixedSizeList{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

func (a *FixedSizeList) ListValues() arrow.Array { return a.values }

func (a *FixedSizeList) String() string {
	o := new(strings.Builder)
	o.WriteString("[")
	for i := 0; i < a.Len(); i++ {
		if i > 0 {
			o.WriteString(" ")
		}
		if !a.IsValid(i) {
			o.WriteString(NullValueStr)
			continue
		}
		beg, end := a.ValueOffsets(i)
		sub := NewSlice(a.values, beg, end)
		fmt.Fprintf(o, "%v", sub)
		sub.Release()
	}
	o.WriteString("]")
	return o.String()
}

// ValueOffsets returns the span of the child array holding the list at index i.
func (a *FixedSizeList) ValueOffsets(i int) (start, end int64) {
	n := int64(a.n)
	j := int64(i + a.array.data.offset)
	return j * n, (j + 1) * n
}

func (a *FixedSizeList) setData(data *Data) {
	a.array.setData(data)
	a.n = a.DataType().(*arrow.FixedSizeListType).Len()
	a.values = MakeFromData(data.childData[0])
}

// Len returns the number of elements in the array.
func (a *FixedSizeList) Len() int { return a.array.Len() }

func (a *FixedSizeList) Retain() {
	a.array.Retain()
	a.values.Retain()
}

func (a *FixedSizeList) Release() {
	a.array.Release()
	a.values.Release()
}

type FixedSizeListBuilder struct {
	builder

	dtype  *arrow.FixedSizeListType
	values Builder // value builder for the list's elements.
}

// NewFixedSizeListBuilder returns a builder, using the provided memory allocator.
// The created list builder will create a list whose elements will be of type etype.
func NewFixedSizeListBuilder(mem memory.Allocator, n int32, etype arrow.DataType) *FixedSizeListBuilder {
	return &FixedSizeListBuilder{
		builder: builder{refCount: 1, mem: mem},
		dtype:   arrow.FixedSizeListOf(n, etype),
		values:  NewBuilder(mem, etype),
	}
}

func (b *FixedSizeListBuilder) Type() arrow.DataType { return b.dtype }

// Release decreases the reference count by 1.
// When the reference count goes to zero, the memory is freed.
func (b *FixedSizeListBuilder) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")

	if b.releaseBitmap() {
		b.values.Release()
	}
}

// Append starts a new slot. The caller appends exactly as many elements
// as the list size to ValueBuilder afterwards.
func (b *FixedSizeListBuilder) Append(v bool) {
	b.Reserve(1)
	b.UnsafeAppendBoolToBitmap(v)
}

// AppendNull appends a null slot, backed by Len() null elements.
func (b *FixedSizeListBuilder) AppendNull() {
	b.Reserve(1)
	b.UnsafeAppendBoolToBitmap(false)
	for i := int32(0); i < b.dtype.Len(); i++ {
		b.values.AppendNull()
	}
}

// Reserve ensures there is enough space for appending n elements
// by checking the capacity and calling Resize if necessary.
func (b *FixedSizeListBuilder) Reserve(n int) {
	b.builder.reserve(n, b.Resize)
}

// Resize adjusts the space allocated by b to n elements. If n is greater than b.Cap(),
// additional memory will be allocated. If n is smaller, the allocated memory may reduced.
func (b *FixedSizeListBuilder) Resize(n int) {
	if n < minBuilderCapacity {
		n = minBuilderCapacity
	}
	b.builder.resize(n, b.builder.init)
}

func (b *FixedSizeListBuilder) ValueBuilder() Builder {
	return b.values
}

// NewArray creates a FixedSizeList array from the memory buffers used by the builder and resets the builder
// so it can be used to build a new array.
func (b *FixedSizeListBuilder) NewArray() arrow.Array {
	return b.NewListArray()
}

// NewListArray creates a FixedSizeList array from the memory buffers used by the builder and resets the builder
// so it can be used to build a new array.
func (b *FixedSizeListBuilder) NewListArray() (a *FixedSizeList) {
	data := b.newData()
	a = NewFixedSizeListData(data)
	data.Release()
	return
}

func (b *FixedSizeListBuilder) newData() (data *Data) {
	values := b.values.NewArray()
	defer values.Release()

	nulls := b.finishBitmap()
	data = NewData(
		b.dtype, b.length,
		[]*memory.Buffer{nulls},
		[]arrow.ArrayData{values.Data()},
		b.nulls,
		0,
	)
	if nulls != nil {
		nulls.Release()
	}
	b.reset()

	return
}

// UnmarshalOne decodes one JSON array of Len() elements, or null, into
// the next slot.
func (b *FixedSizeListBuilder) UnmarshalOne(dec *json.Decoder) error {
	t, err := dec.Token()
	if err != nil {
		return err
	}

	switch t {
	case json.Delim('['):
		b.Append(true)
		before := b.values.Len()
		if err := unmarshalElems(b.values, dec); err != nil {
			return err
		}
		if n := b.values.Len() - before; n != int(b.dtype.Len()) {
			return xerrors.Errorf("arrow/array: %d elements for %s: %w", n, b.dtype, arrow.ErrInvalid)
		}
	case nil:
		b.AppendNull()
	default:
		return xerrors.Errorf("arrow/array: cannot append %v to %s: %w", t, b.dtype, arrow.ErrInvalid)
	}
	return nil
}

func listEqual[O offsetType](left, right *baseList[O]) (bool, error) {
	n := left.Len()
	if n == 0 {
		return true, nil
	}
	if left.NullN() != 0 {
		return listRangeEqual(left, right, 0, n, 0)
	}

	lo, err := windowOffsets[O](left)
	if err != nil {
		return false, err
	}
	ro, err := windowOffsets[O](right)
	if err != nil {
		return false, err
	}

	if !offsetsEqual(lo, ro, left.Data().Offset() == 0 && right.Data().Offset() == 0) {
		return false, nil
	}
	return childRangeEqual(left.values, right.values,
		int64(lo[0]), int64(lo[n]), int64(ro[0]), int64(ro[n]))
}

func listRangeEqual[O offsetType](left, right *baseList[O], start, end, otherStart int) (bool, error) {
	if start == end {
		return true, nil
	}

	lo, err := windowOffsets[O](left)
	if err != nil {
		return false, err
	}
	ro, err := windowOffsets[O](right)
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
		ok, err := childRangeEqual(left.values, right.values,
			int64(lo[i]), int64(lo[i+1]), int64(ro[j]), int64(ro[j+1]))
		if !ok || err != nil {
			return false, err
		}
	}
	return true, nil
}

func fixedSizeListRangeEqual(left, right *FixedSizeList, start, end, otherStart int) (bool, error) {
	for i, j := start, otherStart; i < end; i, j = i+1, j+1 {
		isNull := left.IsNull(i)
		if isNull != right.IsNull(j) {
			return false, nil
		}
		if isNull {
			continue
		}
		lbeg, lend := left.ValueOffsets(i)
		rbeg, rend := right.ValueOffsets(j)
		ok, err := childRangeEqual(left.values, right.values, lbeg, lend, rbeg, rend)
		if !ok || err != nil {
			return false, err
		}
	}
	return true, nil
}

// childRangeEqual compares the child span [lbeg, lend) of a list slot with
// the span [rbeg, rend) of the slot it is matched against.
func childRangeEqual(left, right arrow.Array, lbeg, lend, rbeg, rend int64) (bool, error) {
	for _, span := range [...]struct {
		arr      arrow.Array
		beg, end int64
	}{{left, lbeg, lend}, {right, rbeg, rend}} {
		if span.beg < 0 || span.beg > span.end || span.end > int64(span.arr.Len()) {
			return false, xerrors.Errorf("arrow/array: list span [%d:%d] outside child array of %d elements: %w",
				span.beg, span.end, span.arr.Len(), arrow.ErrInvalid)
		}
	}

	if lend-lbeg != rend-rbeg {
		return false, nil
	}
	if lbeg == lend {
		return true, nil
	}
	return rangeEqual(left, right, int(lbeg), int(lend), int(rbeg))
}

var (
	_ arrow.Array = (*List)(nil)
	_ arrow.Array = (*LargeList)(nil)
	_ arrow.Array = (*FixedSizeList)(nil)
	_ Builder     = (*ListBuilder)(nil)
	_ Builder     = (*LargeListBuilder)(nil)
	_ Builder     = (*FixedSizeListBuilder)(nil)
)
