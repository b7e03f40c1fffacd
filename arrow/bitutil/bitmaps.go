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

package bitutil

import (
	"bytes"
)

// BitmapReader is a simple bitmap reader for a byte slice.
type BitmapReader struct {
	bitmap []byte
	pos    int
	len    int

	current    byte
	byteOffset int
	bitOffset  int
}

// NewBitmapReader creates and returns a new bitmap reader for the given bitmap
func NewBitmapReader(bitmap []byte, offset, length int) *BitmapReader {
	curbyte := byte(0)
	if length > 0 && bitmap != nil {
		curbyte = bitmap[offset/8]
	}
	return &BitmapReader{
		bitmap:     bitmap,
		byteOffset: offset / 8,
		bitOffset:  offset % 8,
		current:    curbyte,
		len:        length,
	}
}

// Set returns true if the current bit is set
func (b *BitmapReader) Set() bool {
	return (b.current & (1 << b.bitOffset)) != 0
}

// NotSet returns true if the current bit is not set
func (b *BitmapReader) NotSet() bool {
	return (b.current & (1 << b.bitOffset)) == 0
}

// Next advances the reader to the next bit in the bitmap.
func (b *BitmapReader) Next() {
	b.bitOffset++
	b.pos++
	if b.bitOffset == 8 {
		b.bitOffset = 0
		b.byteOffset++
		if b.pos < b.len {
			b.current = b.bitmap[int(b.byteOffset)]
		}
	}
}

// Pos returns the current bit position in the bitmap that the reader is looking at
func (b *BitmapReader) Pos() int { return b.pos }

// Len returns the total number of bits in the bitmap
func (b *BitmapReader) Len() int { return b.len }

// BitmapCovers reports whether bitmap holds at least offset+length bits.
func BitmapCovers(bitmap []byte, offset, length int) bool {
	return offset >= 0 && length >= 0 && int64(len(bitmap))*8 >= int64(offset)+int64(length)
}

// BitmapEquals reports whether the length bits of left starting at bit
// lOffset are identical to the length bits of right starting at bit rOffset.
// Both bitmaps must cover their range, see BitmapCovers.
func BitmapEquals(left []byte, lOffset int, right []byte, rOffset int, length int) bool {
	if lOffset%8 == 0 && rOffset%8 == 0 {
		lhs, rhs := left[lOffset/8:], right[rOffset/8:]
		nbytes := length / 8
		if !bytes.Equal(lhs[:nbytes], rhs[:nbytes]) {
			return false
		}
		for i := nbytes * 8; i < length; i++ {
			if BitIsSet(lhs, i) != BitIsSet(rhs, i) {
				return false
			}
		}
		return true
	}

	lr := NewBitmapReader(left, lOffset, length)
	rr := NewBitmapReader(right, rOffset, length)
	for lr.Pos() < length {
		if lr.Set() != rr.Set() {
			return false
		}
		lr.Next()
		rr.Next()
	}
	return true
}
