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

package memory_test

import (
	"testing"

	"github.com/columnar/arroweq/arrow/memory"
	"github.com/stretchr/testify/assert"
)

func TestNewResizableBuffer(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	buf := memory.NewResizableBuffer(mem)
	buf.Retain() // refCount == 2

	exp := 10
	buf.Resize(exp)
	assert.NotNil(t, buf.Bytes())
	assert.Equal(t, exp, len(buf.Bytes()))
	assert.Equal(t, exp, buf.Len())
	assert.Equal(t, 64, buf.Cap())

	buf.Release() // refCount == 1
	assert.NotNil(t, buf.Bytes())

	buf.Release() // refCount == 0
	assert.Nil(t, buf.Bytes())
	assert.Zero(t, buf.Len())
}

func TestBufferGrowAndShrink(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	buf := memory.NewResizableBuffer(mem)
	defer buf.Release()

	buf.Resize(8)
	copy(buf.Bytes(), "abcdefgh")
	buf.Resize(100)
	assert.Equal(t, 128, mem.CurrentAlloc())
	assert.Equal(t, []byte("abcdefgh"), buf.Bytes()[:8])

	buf.ResizeNoShrink(10)
	assert.Equal(t, 10, buf.Len())
	assert.Equal(t, 128, buf.Cap())

	buf.Resize(10)
	assert.Equal(t, 64, buf.Cap())
	assert.Equal(t, []byte("abcdefgh"), buf.Bytes()[:8])

	buf.Resize(0)
	assert.Zero(t, mem.CurrentAlloc())
}

func TestBufferReset(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	buf := memory.NewResizableBuffer(mem)

	newBytes := []byte("some-new-bytes")
	buf.Reset(newBytes)
	assert.Equal(t, newBytes, buf.Bytes())
	assert.Equal(t, len(newBytes), buf.Len())
}

func TestBufferSlice(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	buf := memory.NewResizableBuffer(mem)
	buf.Resize(1024)
	assert.Equal(t, 1024, mem.CurrentAlloc())
	buf.Bytes()[512] = 42

	slice := memory.SliceBuffer(buf, 512, 256)
	assert.Same(t, buf, slice.Parent())
	assert.Equal(t, byte(42), slice.Bytes()[0])

	// the view shares the parent's bytes
	buf.Bytes()[513] = 7
	assert.Equal(t, byte(7), slice.Bytes()[1])

	buf.Release()
	assert.Equal(t, 1024, mem.CurrentAlloc())
	slice.Release()
}

func TestBufferBytesIsNotReferenceCounted(t *testing.T) {
	buf := memory.NewBufferBytes([]byte("abc"))
	buf.Retain()
	buf.Release()
	buf.Release()
	assert.Equal(t, []byte("abc"), buf.Bytes())
	assert.False(t, buf.Mutable())
}

func TestGoAllocatorAlignment(t *testing.T) {
	mem := memory.NewGoAllocator()
	for _, sz := range []int{1, 7, 64, 100} {
		b := mem.Allocate(sz)
		assert.Len(t, b, sz)
		b = mem.Reallocate(sz*2, b)
		assert.Len(t, b, sz*2)
		mem.Free(b)
	}
}

func TestSet(t *testing.T) {
	buf := make([]byte, 5)
	memory.Set(buf, 0xff)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff}, buf)
}
