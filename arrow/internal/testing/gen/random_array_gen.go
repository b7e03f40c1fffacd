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

// Package gen builds seeded random arrays for property tests.
package gen

import (
	"math"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/array"
	"github.com/columnar/arroweq/arrow/bitutil"
	"github.com/columnar/arroweq/arrow/memory"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// RandomArrayGenerator is a struct used for constructing random arrays
// for use with testing. Two generators built from the same seed produce
// identical arrays in physically distinct buffers.
type RandomArrayGenerator struct {
	seed     uint64
	extra    uint64
	src      rand.Source
	seedRand *rand.Rand
	mem      memory.Allocator
}

// NewRandomArrayGenerator constructs a new generator with the requested seed.
func NewRandomArrayGenerator(seed uint64, mem memory.Allocator) RandomArrayGenerator {
	src := rand.NewSource(seed)
	return RandomArrayGenerator{seed, 0, src, rand.New(src), mem}
}

func (r *RandomArrayGenerator) next() *rand.Rand {
	r.extra++
	return rand.New(rand.NewSource(r.seed + r.extra))
}

// GenerateBitmap sets bits of the zero-initialised buffer, leaving each of
// the n bits unset with probability prob. It returns the number of unset bits.
func (r *RandomArrayGenerator) GenerateBitmap(buffer []byte, n int64, prob float64) int64 {
	count := int64(0)
	r.extra++

	dist := distuv.Bernoulli{P: 1 - prob, Src: rand.NewSource(r.seed + r.extra)}
	for i := 0; int64(i) < n; i++ {
		if dist.Rand() != float64(0.0) {
			bitutil.SetBit(buffer, i)
		} else {
			count++
		}
	}

	return count
}

// Boolean returns a boolean array whose values are false with probability
// prob and null with probability nullProb.
func (r *RandomArrayGenerator) Boolean(size int64, prob, nullProb float64) arrow.Array {
	buffers := make([]*memory.Buffer, 2)

	buffers[0] = memory.NewResizableBuffer(r.mem)
	buffers[0].Resize(int(bitutil.BytesForBits(size)))
	defer buffers[0].Release()
	nullcount := r.GenerateBitmap(buffers[0].Bytes(), size, nullProb)

	buffers[1] = memory.NewResizableBuffer(r.mem)
	buffers[1].Resize(int(bitutil.BytesForBits(size)))
	defer buffers[1].Release()
	r.GenerateBitmap(buffers[1].Bytes(), size, prob)

	data := array.NewData(arrow.FixedWidthTypes.Boolean, int(size), buffers, nil, int(nullcount), 0)
	defer data.Release()
	return array.NewBooleanData(data)
}

func (r *RandomArrayGenerator) baseGenPrimitive(size int64, prob float64, byteWidth int) ([]*memory.Buffer, int64) {
	buffers := make([]*memory.Buffer, 2)

	buffers[0] = memory.NewResizableBuffer(r.mem)
	buffers[0].Resize(int(bitutil.BytesForBits(size)))
	nullCount := r.GenerateBitmap(buffers[0].Bytes(), size, prob)

	buffers[1] = memory.NewResizableBuffer(r.mem)
	buffers[1].Resize(int(size) * byteWidth)

	return buffers, nullCount
}

// genPrimitive fills a value buffer of size elements with gen and wraps it,
// together with a random validity bitmap, in an array of type dt.
func genPrimitive[T arrow.FixedWidthType](r *RandomArrayGenerator, dt arrow.DataType, size int64, prob float64, gen func(*rand.Rand) T) arrow.Array {
	var zero T
	buffers, nullcount := r.baseGenPrimitive(size, prob, int(sizeOf(zero)))
	for _, b := range buffers {
		defer b.Release()
	}

	dist := r.next()
	out := arrow.GetData[T](buffers[1].Bytes())
	for i := int64(0); i < size; i++ {
		out[i] = gen(dist)
	}

	data := array.NewData(dt, int(size), buffers, nil, int(nullcount), 0)
	defer data.Release()
	return array.MakeFromData(data)
}

func sizeOf[T arrow.FixedWidthType](v T) int64 {
	return int64(len(arrow.GetBytes([]T{v})))
}

// uniform draws an integer in [min, max].
func uniform[T constraints.Integer](dist *rand.Rand, min, max T) T {
	span := uint64(max) - uint64(min) + 1
	if span == 0 {
		return T(dist.Uint64())
	}
	return min + T(dist.Uint64()%span)
}

func (r *RandomArrayGenerator) Int8(size int64, min, max int8, prob float64) arrow.Array {
	return genPrimitive(r, arrow.PrimitiveTypes.Int8, size, prob, func(d *rand.Rand) int8 { return uniform(d, min, max) })
}

func (r *RandomArrayGenerator) Uint8(size int64, min, max uint8, prob float64) arrow.Array {
	return genPrimitive(r, arrow.PrimitiveTypes.Uint8, size, prob, func(d *rand.Rand) uint8 { return uniform(d, min, max) })
}

func (r *RandomArrayGenerator) Int16(size int64, min, max int16, prob float64) arrow.Array {
	return genPrimitive(r, arrow.PrimitiveTypes.Int16, size, prob, func(d *rand.Rand) int16 { return uniform(d, min, max) })
}

func (r *RandomArrayGenerator) Uint16(size int64, min, max uint16, prob float64) arrow.Array {
	return genPrimitive(r, arrow.PrimitiveTypes.Uint16, size, prob, func(d *rand.Rand) uint16 { return uniform(d, min, max) })
}

func (r *RandomArrayGenerator) Int32(size int64, min, max int32, prob float64) arrow.Array {
	return genPrimitive(r, arrow.PrimitiveTypes.Int32, size, prob, func(d *rand.Rand) int32 { return uniform(d, min, max) })
}

func (r *RandomArrayGenerator) Uint32(size int64, min, max uint32, prob float64) arrow.Array {
	return genPrimitive(r, arrow.PrimitiveTypes.Uint32, size, prob, func(d *rand.Rand) uint32 { return uniform(d, min, max) })
}

func (r *RandomArrayGenerator) Int64(size int64, min, max int64, prob float64) arrow.Array {
	return genPrimitive(r, arrow.PrimitiveTypes.Int64, size, prob, func(d *rand.Rand) int64 { return uniform(d, min, max) })
}

func (r *RandomArrayGenerator) Uint64(size int64, min, max uint64, prob float64) arrow.Array {
	return genPrimitive(r, arrow.PrimitiveTypes.Uint64, size, prob, func(d *rand.Rand) uint64 { return uniform(d, min, max) })
}

func (r *RandomArrayGenerator) Float32(size int64, min, max float32, prob float64) arrow.Array {
	return genPrimitive(r, arrow.PrimitiveTypes.Float32, size, prob, func(d *rand.Rand) float32 {
		return min + d.Float32()*(max-min)
	})
}

func (r *RandomArrayGenerator) Float64(size int64, min, max float64, prob float64) arrow.Array {
	return genPrimitive(r, arrow.PrimitiveTypes.Float64, size, prob, func(d *rand.Rand) float64 {
		return min + d.Float64()*(max-min)
	})
}

func (r *RandomArrayGenerator) randomStrings(size int64, lengths func(int) (int, bool), bldr *array.BinaryBuilder) arrow.Array {
	dist := r.next()
	for i := 0; i < int(size); i++ {
		n, ok := lengths(i)
		if !ok {
			bldr.AppendNull()
			continue
		}
		out := make([]byte, n)
		for j := range out {
			out[j] = uint8(dist.Int31n(int32('z')-int32('A')+1) + int32('A'))
		}
		bldr.Append(out)
	}
	return bldr.NewArray()
}

// String returns a utf8 array of ASCII letters with lengths drawn from
// [minLength, maxLength].
func (r *RandomArrayGenerator) String(size int64, minLength, maxLength int, nullprob float64) arrow.Array {
	lengths := r.Int32(size, int32(minLength), int32(maxLength), nullprob).(*array.Int32)
	defer lengths.Release()

	bldr := array.NewBinaryBuilder(r.mem, arrow.BinaryTypes.String)
	defer bldr.Release()

	return r.randomStrings(size, func(i int) (int, bool) {
		return int(lengths.Value(i)), lengths.IsValid(i)
	}, bldr)
}

// LargeString is String with 64-bit offsets.
func (r *RandomArrayGenerator) LargeString(size int64, minLength, maxLength int64, nullprob float64) arrow.Array {
	lengths := r.Int64(size, minLength, maxLength, nullprob).(*array.Int64)
	defer lengths.Release()

	bldr := array.NewBinaryBuilder(r.mem, arrow.BinaryTypes.LargeString)
	defer bldr.Release()

	return r.randomStrings(size, func(i int) (int, bool) {
		return int(lengths.Value(i)), lengths.IsValid(i)
	}, bldr)
}

// List returns a list<int32> array whose slots hold up to maxLength
// elements. Both the slots and the elements are null with probability
// nullprob.
func (r *RandomArrayGenerator) List(size int64, maxLength int32, nullprob float64) arrow.Array {
	lengths := r.Int32(size, 0, maxLength, nullprob).(*array.Int32)
	defer lengths.Release()

	total := int64(0)
	for i := 0; i < lengths.Len(); i++ {
		if lengths.IsValid(i) {
			total += int64(lengths.Value(i))
		}
	}
	values := r.Int32(total, math.MinInt16, math.MaxInt16, nullprob).(*array.Int32)
	defer values.Release()

	bldr := array.NewListBuilder(r.mem, arrow.PrimitiveTypes.Int32)
	defer bldr.Release()
	vb := bldr.ValueBuilder().(*array.Int32Builder)

	pos := 0
	for i := 0; i < lengths.Len(); i++ {
		if lengths.IsNull(i) {
			bldr.AppendNull()
			continue
		}
		bldr.Append(true)
		for n := int(lengths.Value(i)); n > 0; n-- {
			if values.IsValid(pos) {
				vb.Append(values.Value(pos))
			} else {
				vb.AppendNull()
			}
			pos++
		}
	}
	return bldr.NewArray()
}

// Numeric returns a random array of the numeric type dt.
func (r *RandomArrayGenerator) Numeric(dt arrow.Type, size int64, min, max int64, nullprob float64) arrow.Array {
	switch dt {
	case arrow.INT8:
		return r.Int8(size, int8(min), int8(max), nullprob)
	case arrow.UINT8:
		return r.Uint8(size, uint8(min), uint8(max), nullprob)
	case arrow.INT16:
		return r.Int16(size, int16(min), int16(max), nullprob)
	case arrow.UINT16:
		return r.Uint16(size, uint16(min), uint16(max), nullprob)
	case arrow.INT32:
		return r.Int32(size, int32(min), int32(max), nullprob)
	case arrow.UINT32:
		return r.Uint32(size, uint32(min), uint32(max), nullprob)
	case arrow.INT64:
		return r.Int64(size, min, max, nullprob)
	case arrow.UINT64:
		return r.Uint64(size, uint64(min), uint64(max), nullprob)
	case arrow.FLOAT32:
		return r.Float32(size, float32(min), float32(max), nullprob)
	case arrow.FLOAT64:
		return r.Float64(size, float64(min), float64(max), nullprob)
	}
	panic("invalid type for random numeric array")
}

// ArrayOf returns a random array of type dt spanning the full value range.
func (r *RandomArrayGenerator) ArrayOf(dt arrow.Type, size int64, nullprob float64) arrow.Array {
	switch dt {
	case arrow.BOOL:
		return r.Boolean(size, 0.50, nullprob)
	case arrow.STRING:
		return r.String(size, 0, 20, nullprob)
	case arrow.LARGE_STRING:
		return r.LargeString(size, 0, 20, nullprob)
	case arrow.LIST:
		return r.List(size, 5, nullprob)
	case arrow.INT8:
		return r.Int8(size, math.MinInt8, math.MaxInt8, nullprob)
	case arrow.UINT8:
		return r.Uint8(size, 0, math.MaxUint8, nullprob)
	case arrow.INT16:
		return r.Int16(size, math.MinInt16, math.MaxInt16, nullprob)
	case arrow.UINT16:
		return r.Uint16(size, 0, math.MaxUint16, nullprob)
	case arrow.INT32:
		return r.Int32(size, math.MinInt32, math.MaxInt32, nullprob)
	case arrow.UINT32:
		return r.Uint32(size, 0, math.MaxUint32, nullprob)
	case arrow.INT64:
		return r.Int64(size, math.MinInt64, math.MaxInt64, nullprob)
	case arrow.UINT64:
		return r.Uint64(size, 0, math.MaxUint64, nullprob)
	case arrow.FLOAT32:
		return r.Float32(size, -1e6, 1e6, nullprob)
	case arrow.FLOAT64:
		return r.Float64(size, -1e12, 1e12, nullprob)
	}
	panic("unimplemented ArrayOf type")
}
