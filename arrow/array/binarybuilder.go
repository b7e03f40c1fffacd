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
	"encoding/base64"
	"sync/atomic"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/internal/debug"
	"github.com/columnar/arroweq/arrow/internal/json"
	"github.com/columnar/arroweq/arrow/memory"
	"golang.org/x/xerrors"
)

type offsetsAppender interface {
	AppendOffset(int)
	Finish() *memory.Buffer
	Release()
}

// A BinaryBuilder is used to build a Binary, String, LargeBinary or
// LargeString array using the Append methods.
type BinaryBuilder struct {
	builder

	dtype   arrow.BinaryDataType
	offsets offsetsAppender
	values  *bufferBuilder
}

// NewBinaryBuilder can be used for any of the variable length binary types,
// Binary, LargeBinary, String and LargeString.
func NewBinaryBuilder(mem memory.Allocator, dtype arrow.BinaryDataType) *BinaryBuilder {
	var offsets offsetsAppender
	switch dtype.OffsetBitWidth() {
	case 32:
		offsets = newOffsetsBuilder[int32](mem)
	case 64:
		offsets = newOffsetsBuilder[int64](mem)
	}
	return &BinaryBuilder{
		builder: builder{refCount: 1, mem: mem},
		dtype:   dtype,
		offsets: offsets,
		values:  newBufferBuilder(mem),
	}
}

func (b *BinaryBuilder) Type() arrow.DataType { return b.dtype }

// Release decreases the reference count by 1.
// When the reference count goes to zero, the memory is freed.
// Release may be called simultaneously from multiple goroutines.
func (b *BinaryBuilder) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")

	if b.releaseBitmap() {
		if b.offsets != nil {
			b.offsets.Release()
			b.offsets = nil
		}
		if b.values != nil {
			b.values.Release()
			b.values = nil
		}
	}
}

func (b *BinaryBuilder) Append(v []byte) {
	b.Reserve(1)
	b.appendNextOffset()
	b.values.Append(v)
	b.UnsafeAppendBoolToBitmap(true)
}

func (b *BinaryBuilder) AppendString(v string) {
	b.Append([]byte(v))
}

func (b *BinaryBuilder) AppendNull() {
	b.Reserve(1)
	b.appendNextOffset()
	b.UnsafeAppendBoolToBitmap(false)
}

// AppendValues will append the values in the v slice. The valid slice determines which values
// in v are valid (not null). The valid slice must either be empty or be equal in length to v. If empty,
// all values in v are appended and considered valid.
func (b *BinaryBuilder) AppendValues(v [][]byte, valid []bool) {
	if len(v) != len(valid) && len(valid) != 0 {
		panic("len(v) != len(valid) && len(valid) != 0")
	}

	if len(v) == 0 {
		return
	}

	b.Reserve(len(v))
	for _, vv := range v {
		b.appendNextOffset()
		b.values.Append(vv)
	}

	b.builder.unsafeAppendBoolsToBitmap(valid, len(v))
}

// AppendStringValues will append the values in the v slice. The valid slice determines which values
// in v are valid (not null). The valid slice must either be empty or be equal in length to v. If empty,
// all values in v are appended and considered valid.
func (b *BinaryBuilder) AppendStringValues(v []string, valid []bool) {
	if len(v) != len(valid) && len(valid) != 0 {
		panic("len(v) != len(valid) && len(valid) != 0")
	}

	if len(v) == 0 {
		return
	}

	b.Reserve(len(v))
	for _, vv := range v {
		b.appendNextOffset()
		b.values.Append([]byte(vv))
	}

	b.builder.unsafeAppendBoolsToBitmap(valid, len(v))
}

// Reserve ensures there is enough space for appending n elements
// by checking the capacity and calling Resize if necessary.
func (b *BinaryBuilder) Reserve(n int) {
	b.builder.reserve(n, b.Resize)
}

// Resize adjusts the space allocated by b to n elements. If n is greater than b.Cap(),
// additional memory will be allocated. If n is smaller, the allocated memory may be reduced.
func (b *BinaryBuilder) Resize(n int) {
	if n < minBuilderCapacity {
		n = minBuilderCapacity
	}
	b.builder.resize(n, b.builder.init)
}

// NewArray creates a new array from the memory buffers used
// by the builder and resets the BinaryBuilder so it can be used to build
// a new array.
func (b *BinaryBuilder) NewArray() arrow.Array {
	data := b.newData()
	defer data.Release()
	return MakeFromData(data)
}

func (b *BinaryBuilder) newData() (data *Data) {
	b.appendNextOffset()
	offsets, values := b.offsets.Finish(), b.values.Finish()
	nulls := b.finishBitmap()
	data = NewData(b.dtype, b.length, []*memory.Buffer{nulls, offsets, values}, nil, b.nulls, 0)
	for _, buf := range []*memory.Buffer{nulls, offsets, values} {
		if buf != nil {
			buf.Release()
		}
	}

	b.builder.reset()
	return
}

func (b *BinaryBuilder) appendNextOffset() {
	b.offsets.AppendOffset(b.values.Len())
}

// UnmarshalOne decodes one JSON value and appends it. Strings are taken
// as-is for utf8 types and base64 decoded for binary types.
func (b *BinaryBuilder) UnmarshalOne(dec *json.Decoder) error {
	t, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := t.(type) {
	case nil:
		b.AppendNull()
	case string:
		if b.dtype.IsUtf8() {
			b.AppendString(v)
			return nil
		}
		data, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return err
		}
		b.Append(data)
	default:
		return xerrors.Errorf("arrow/array: cannot append %T to %s: %w", t, b.dtype, arrow.ErrInvalid)
	}
	return nil
}

var (
	_ Builder = (*BinaryBuilder)(nil)
)
