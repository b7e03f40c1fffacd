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

// Package arrjson validates arrays against reference values decoded from
// JSON fixtures.
//
// A reference value is a tree of null, boolean, number, string, sequence
// and mapping nodes. Equal reports whether an array holds the values of a
// sequence of such nodes, independently of how the array lays them out in
// memory.
package arrjson

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/internal/json"
	"golang.org/x/xerrors"
)

// Kind is the kind of a reference value node.
type Kind int8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value is a node of a reference value tree. The zero Value is the null node.
//
// Numbers keep their literal text so that integers of any width compare
// exactly.
type Value struct {
	kind Kind
	b    bool
	str  string // number literal or string
	arr  []Value
	obj  map[string]Value
}

// Null returns the null node.
func Null() Value { return Value{} }

// Bool returns a boolean node.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Number returns a number node holding the literal lit, such as "42" or "1.5e3".
func Number(lit string) Value { return Value{kind: KindNumber, str: lit} }

// String returns a string node.
func String(v string) Value { return Value{kind: KindString, str: v} }

// Array returns a sequence node.
func Array(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindArray, arr: vs}
}

// Object returns a mapping node.
func Object(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindObject, obj: fields}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the value of a boolean node.
func (v Value) Bool() bool { return v.b }

// Literal returns the text of a number or string node.
func (v Value) Literal() string { return v.str }

// Elems returns the elements of a sequence node.
func (v Value) Elems() []Value { return v.arr }

// Get returns the field name of a mapping node. Fields absent from the
// mapping, and fields of non-mapping nodes, are returned as the null node.
func (v Value) Get(name string) (Value, bool) {
	f, ok := v.obj[name]
	return f, ok
}

// Len returns the number of elements of a sequence or fields of a mapping.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	}
	return 0
}

func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<invalid " + v.kind.String() + ">"
	}
	return string(b)
}

// MarshalJSON encodes v, with the fields of mappings in sorted order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.str)
	case KindString:
		b, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(b)
			buf.WriteByte(':')
			if err := v.obj[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return xerrors.Errorf("arrjson: invalid value kind %d: %w", v.kind, arrow.ErrInvalid)
	}
	return nil
}

// UnmarshalJSON decodes a JSON document into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	out, err := Parse(data)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func fromInterface(raw interface{}) (Value, error) {
	switch raw := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(raw), nil
	case json.Number:
		return Number(raw.String()), nil
	case float64:
		return Number(strconv.FormatFloat(raw, 'g', -1, 64)), nil
	case string:
		return String(raw), nil
	case []interface{}:
		elems := make([]Value, len(raw))
		for i, e := range raw {
			v, err := fromInterface(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return Array(elems...), nil
	case map[string]interface{}:
		fields := make(map[string]Value, len(raw))
		for k, e := range raw {
			v, err := fromInterface(e)
			if err != nil {
				return Value{}, err
			}
			fields[k] = v
		}
		return Object(fields), nil
	}
	return Value{}, xerrors.Errorf("arrjson: unexpected JSON value of type %T: %w", raw, arrow.ErrInvalid)
}
