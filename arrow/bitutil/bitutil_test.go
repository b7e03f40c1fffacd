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

package bitutil_test

import (
	"testing"

	"github.com/columnar/arroweq/arrow/bitutil"
	"github.com/stretchr/testify/assert"
)

func TestCeilByte(t *testing.T) {
	tests := []struct {
		name    string
		in, exp int
	}{
		{"zero", 0, 0},
		{"five", 5, 8},
		{"sixteen", 16, 16},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := bitutil.CeilByte(test.in)
			assert.Equal(t, test.exp, got)
		})
	}
}

func TestBitIsSet(t *testing.T) {
	buf := make([]byte, 2)
	buf[0] = 0xa1
	buf[1] = 0xc2
	exp := []bool{true, false, false, false, false, true, false, true, false, true, false, false, false, false, true, true}
	var got []bool
	for i := 0; i < 0x10; i++ {
		got = append(got, bitutil.BitIsSet(buf, i))
	}
	assert.Equal(t, exp, got)
}

func TestSetBitTo(t *testing.T) {
	buf := make([]byte, 2)
	bitutil.SetBitTo(buf, 3, true)
	bitutil.SetBitTo(buf, 9, true)
	assert.Equal(t, []byte{0x08, 0x02}, buf)
	bitutil.SetBitTo(buf, 3, false)
	assert.Equal(t, []byte{0x00, 0x02}, buf)
}

func TestCountSetBits(t *testing.T) {
	buf := []byte{0xff, 0x0f, 0xa1, 0xc2, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}
	tests := []struct {
		name      string
		offset, n int
	}{
		{"empty", 0, 0},
		{"first-byte", 0, 8},
		{"unaligned-head", 4, 8},
		{"nibble", 8, 4},
		{"unaligned-range", 3, 17},
		{"word", 16, 64},
		{"all", 0, 88},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// reference count, one bit at a time
			var exp int
			for i := test.offset; i < test.offset+test.n; i++ {
				if bitutil.BitIsSet(buf, i) {
					exp++
				}
			}
			assert.Equal(t, exp, bitutil.CountSetBits(buf, test.offset, test.n))
		})
	}
}

func TestBitmapReader(t *testing.T) {
	assertReaderVals := func(t *testing.T, reader *bitutil.BitmapReader, vals []bool) {
		for _, v := range vals {
			if v {
				assert.True(t, reader.Set())
				assert.False(t, reader.NotSet())
			} else {
				assert.True(t, reader.NotSet())
				assert.False(t, reader.Set())
			}
			reader.Next()
		}
	}

	t.Run("normal", func(t *testing.T) {
		bitmap := []byte{0x2d, 0xac}
		reader := bitutil.NewBitmapReader(bitmap, 0, 16)
		assertReaderVals(t, reader, []bool{true, false, true, true, false, true, false, false, false, false, true, true, false, true, false, true})
	})

	t.Run("offset", func(t *testing.T) {
		bitmap := []byte{0x2d, 0xac}
		reader := bitutil.NewBitmapReader(bitmap, 3, 5)
		assertReaderVals(t, reader, []bool{true, false, true, false, false})
		assert.Equal(t, 5, reader.Pos())
		assert.Equal(t, 5, reader.Len())
	})
}

func TestBitmapEquals(t *testing.T) {
	tests := []struct {
		name          string
		left, right   []byte
		lOffset, rOff int
		length        int
		exp           bool
	}{
		{"aligned-equal", []byte{0xa1, 0x03}, []byte{0xa1, 0x03}, 0, 0, 10, true},
		{"aligned-tail-differs", []byte{0xa1, 0x03}, []byte{0xa1, 0x01}, 0, 0, 10, false},
		{"aligned-beyond-window", []byte{0xa1, 0x03}, []byte{0xa1, 0xff}, 0, 0, 9, true},
		{"byte-offsets", []byte{0x00, 0xa1}, []byte{0xa1}, 8, 0, 8, true},
		{"shifted", []byte{0x0b}, []byte{0x16}, 0, 1, 4, true},
		{"shifted-differs", []byte{0x0b}, []byte{0x17}, 0, 0, 4, false},
		{"shifted-across-bytes", []byte{0xf0, 0x01}, []byte{0x1f}, 4, 0, 5, true},
		{"empty", nil, nil, 0, 0, 0, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := bitutil.BitmapEquals(test.left, test.lOffset, test.right, test.rOff, test.length)
			assert.Equal(t, test.exp, got)
			back := bitutil.BitmapEquals(test.right, test.rOff, test.left, test.lOffset, test.length)
			assert.Equal(t, got, back)
		})
	}
}

func TestBitmapCovers(t *testing.T) {
	assert.True(t, bitutil.BitmapCovers([]byte{0}, 3, 5))
	assert.False(t, bitutil.BitmapCovers([]byte{0}, 3, 6))
	assert.True(t, bitutil.BitmapCovers(nil, 0, 0))
	assert.False(t, bitutil.BitmapCovers(nil, 0, 1))
	assert.False(t, bitutil.BitmapCovers([]byte{0}, -1, 1))
}
