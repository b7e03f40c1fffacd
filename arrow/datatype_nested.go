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

package arrow

import (
	"fmt"
	"strconv"
	"strings"
)

// ListType describes a nested type in which each array slot contains
// a variable-size sequence of values, all having the same relative type.
type ListType struct {
	elem Field
}

// ListOf returns the list type with element type t.
// For example, if t represents int32, ListOf(t) represents []int32.
//
// ListOf panics if t is nil or invalid. NullableElem defaults to true
func ListOf(t DataType) *ListType {
	if t == nil {
		panic("arrow: nil DataType")
	}
	return &ListType{elem: Field{Name: "item", Type: t, Nullable: true}}
}

// ListOfField returns the list type with the element field f.
func ListOfField(f Field) *ListType {
	if f.Type == nil {
		panic("arrow: nil type for list field")
	}
	return &ListType{elem: f}
}

func (*ListType) ID() Type     { return LIST }
func (*ListType) Name() string { return "list" }

func (t *ListType) String() string {
	if t.elem.Nullable {
		return fmt.Sprintf("list<%s: %s, nullable>", t.elem.Name, t.elem.Type)
	}
	return fmt.Sprintf("list<%s: %s>", t.elem.Name, t.elem.Type)
}

// Elem returns the ListType's element type.
func (t *ListType) Elem() DataType   { return t.elem.Type }
func (t *ListType) ElemField() Field { return t.elem }
func (t *ListType) Fields() []Field  { return []Field{t.ElemField()} }

// LargeListType is a ListType whose offsets are 64-bit.
type LargeListType struct {
	ListType
}

func (*LargeListType) ID() Type     { return LARGE_LIST }
func (*LargeListType) Name() string { return "large_list" }

func (t *LargeListType) String() string {
	return "large_" + t.ListType.String()
}

// LargeListOf returns the large list type with element type t.
func LargeListOf(t DataType) *LargeListType {
	if t == nil {
		panic("arrow: nil DataType")
	}
	return &LargeListType{ListType{elem: Field{Name: "item", Type: t, Nullable: true}}}
}

// LargeListOfField returns the large list type with the element field f.
func LargeListOfField(f Field) *LargeListType {
	if f.Type == nil {
		panic("arrow: nil type for list field")
	}
	return &LargeListType{ListType{elem: f}}
}

// FixedSizeListType describes a nested type in which each array slot contains
// a fixed-size sequence of values, all having the same relative type.
type FixedSizeListType struct {
	n    int32 // number of elements in the list
	elem Field
}

// FixedSizeListOf returns the list type with element type t.
// For example, if t represents int32, FixedSizeListOf(10, t) represents [10]int32.
//
// FixedSizeListOf panics if t is nil or invalid.
// FixedSizeListOf panics if n is <= 0.
// NullableElem defaults to true
func FixedSizeListOf(n int32, t DataType) *FixedSizeListType {
	if t == nil {
		panic("arrow: nil DataType")
	}
	if n <= 0 {
		panic("arrow: invalid size")
	}
	return &FixedSizeListType{n: n, elem: Field{Name: "item", Type: t, Nullable: true}}
}

func (*FixedSizeListType) ID() Type     { return FIXED_SIZE_LIST }
func (*FixedSizeListType) Name() string { return "fixed_size_list" }
func (t *FixedSizeListType) String() string {
	if t.elem.Nullable {
		return fmt.Sprintf("fixed_size_list<%s: %s, nullable>[%d]", t.elem.Name, t.elem.Type, t.n)
	}
	return fmt.Sprintf("fixed_size_list<%s: %s>[%d]", t.elem.Name, t.elem.Type, t.n)
}

// Elem returns the FixedSizeListType's element type.
func (t *FixedSizeListType) Elem() DataType { return t.elem.Type }

// Len returns the FixedSizeListType's size.
func (t *FixedSizeListType) Len() int32 { return t.n }

func (t *FixedSizeListType) ElemField() Field { return t.elem }
func (t *FixedSizeListType) Fields() []Field  { return []Field{t.ElemField()} }

// StructType describes a nested type parameterized by an ordered sequence
// of relative types, called its fields.
type StructType struct {
	fields []Field
	index  map[string]int
}

// StructOf returns the struct type with fields fs.
//
// StructOf panics if there are duplicated fields.
// StructOf panics if there is a field with an invalid DataType.
func StructOf(fs ...Field) *StructType {
	n := len(fs)
	if n == 0 {
		return &StructType{}
	}

	t := &StructType{
		fields: make([]Field, n),
		index:  make(map[string]int, n),
	}
	for i, f := range fs {
		if f.Type == nil {
			panic("arrow: field with nil DataType")
		}
		t.fields[i] = f
		if _, dup := t.index[f.Name]; dup {
			panic(fmt.Errorf("arrow: duplicate field with name %q", f.Name))
		}
		t.index[f.Name] = i
	}

	return t
}

func (*StructType) ID() Type     { return STRUCT }
func (*StructType) Name() string { return "struct" }

func (t *StructType) String() string {
	o := new(strings.Builder)
	o.WriteString("struct<")
	for i, f := range t.fields {
		if i > 0 {
			o.WriteString(", ")
		}
		o.WriteString(fmt.Sprintf("%s: %v", f.Name, f.Type))
	}
	o.WriteString(">")
	return o.String()
}

func (t *StructType) Fields() []Field   { return t.fields }
func (t *StructType) Field(i int) Field { return t.fields[i] }

// FieldByName gets the field with the given name.
func (t *StructType) FieldByName(name string) (Field, bool) {
	i, ok := t.index[name]
	if !ok {
		return Field{}, false
	}
	return t.fields[i], true
}

// FieldIdx gets the index of the field with the given name.
func (t *StructType) FieldIdx(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

type Field struct {
	Name     string   // Field name
	Type     DataType // The field's data type
	Nullable bool     // Fields can be nullable
}

func (f Field) Equal(o Field) bool {
	return f.Name == o.Name && f.Nullable == o.Nullable && TypeEqual(f.Type, o.Type)
}

func (f Field) String() string {
	o := new(strings.Builder)
	nullable := ""
	if f.Nullable {
		nullable = ", nullable"
	}
	fmt.Fprintf(o, "%s: type=%v%v", f.Name, f.Type, nullable)
	return o.String()
}

// DictionaryType represents categorical or dictionary-encoded in-memory data.
// It contains a dictionary-encoded value type (any type) and an index type
// (any integer type).
type DictionaryType struct {
	IndexType DataType
	ValueType DataType
	Ordered   bool
}

func (*DictionaryType) ID() Type     { return DICTIONARY }
func (*DictionaryType) Name() string { return "dictionary" }
func (d *DictionaryType) BitWidth() int {
	return d.IndexType.(FixedWidthDataType).BitWidth()
}
func (d *DictionaryType) Bytes() int {
	return d.IndexType.(FixedWidthDataType).Bytes()
}

func (d *DictionaryType) String() string {
	return fmt.Sprintf("%s<values=%s, indices=%s, ordered=%t>",
		d.Name(), d.ValueType, d.IndexType, d.Ordered)
}

// UnionTypeCode is the type used to identify the child of a union
// in the type ids buffer.
type UnionTypeCode = int8

// UnionMode is either sparse or dense.
type UnionMode int8

const (
	SparseMode UnionMode = iota
	DenseMode
)

func (m UnionMode) String() string {
	if m == DenseMode {
		return "dense"
	}
	return "sparse"
}

// UnionType is the common interface of the sparse and dense union types.
type UnionType interface {
	NestedType
	Mode() UnionMode
	TypeCodes() []UnionTypeCode
}

type unionType struct {
	children  []Field
	typeCodes []UnionTypeCode
}

func (t *unionType) init(fields []Field, typeCodes []UnionTypeCode) {
	if len(fields) != len(typeCodes) {
		panic("arrow: union types should have the same number of fields as type codes")
	}
	t.children = fields
	t.typeCodes = typeCodes
}

func (t *unionType) Fields() []Field            { return t.children }
func (t *unionType) TypeCodes() []UnionTypeCode { return t.typeCodes }

func (t *unionType) childString(mode string) string {
	var b strings.Builder
	b.WriteString(mode + "_union<")
	for i, c := range t.children {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.Name + "=" + c.Type.String() + "=" + strconv.Itoa(int(t.typeCodes[i])))
	}
	b.WriteString(">")
	return b.String()
}

// SparseUnionType is a union whose children all have the union's length.
type SparseUnionType struct {
	unionType
}

// SparseUnionOf returns a sparse union of the given fields, identified by typeCodes.
func SparseUnionOf(fields []Field, typeCodes []UnionTypeCode) *SparseUnionType {
	ret := &SparseUnionType{}
	ret.init(fields, typeCodes)
	return ret
}

func (*SparseUnionType) ID() Type         { return SPARSE_UNION }
func (*SparseUnionType) Name() string     { return "sparse_union" }
func (*SparseUnionType) Mode() UnionMode  { return SparseMode }
func (t *SparseUnionType) String() string { return t.childString("sparse") }

// DenseUnionType is a union addressing its children through a value offsets buffer.
type DenseUnionType struct {
	unionType
}

// DenseUnionOf returns a dense union of the given fields, identified by typeCodes.
func DenseUnionOf(fields []Field, typeCodes []UnionTypeCode) *DenseUnionType {
	ret := &DenseUnionType{}
	ret.init(fields, typeCodes)
	return ret
}

func (*DenseUnionType) ID() Type         { return DENSE_UNION }
func (*DenseUnionType) Name() string     { return "dense_union" }
func (*DenseUnionType) Mode() UnionMode  { return DenseMode }
func (t *DenseUnionType) String() string { return t.childString("dense") }

var (
	_ ListLikeType = (*ListType)(nil)
	_ ListLikeType = (*LargeListType)(nil)
	_ ListLikeType = (*FixedSizeListType)(nil)
	_ NestedType   = (*StructType)(nil)
	_ UnionType    = (*SparseUnionType)(nil)
	_ UnionType    = (*DenseUnionType)(nil)
)
