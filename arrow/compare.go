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
	"reflect"
)

// TypeEqual checks if two DataType are the same, recursing into the
// element, field and dictionary types of nested types.
func TypeEqual(left, right DataType) bool {
	switch {
	case left == nil || right == nil:
		return left == nil && right == nil
	case left.ID() != right.ID():
		return false
	}

	switch l := left.(type) {
	case *ListType:
		return l.elem.Equal(right.(*ListType).elem)
	case *LargeListType:
		return l.elem.Equal(right.(*LargeListType).elem)
	case *FixedSizeListType:
		r := right.(*FixedSizeListType)
		return l.n == r.n && l.elem.Equal(r.elem)
	case *StructType:
		r := right.(*StructType)
		return fieldsEqual(l.fields, r.fields)
	case *DictionaryType:
		r := right.(*DictionaryType)
		return TypeEqual(l.IndexType, r.IndexType) &&
			TypeEqual(l.ValueType, r.ValueType) &&
			l.Ordered == r.Ordered
	case UnionType:
		r := right.(UnionType)
		if l.Mode() != r.Mode() || !fieldsEqual(l.Fields(), r.Fields()) {
			return false
		}
		return reflect.DeepEqual(l.TypeCodes(), r.TypeCodes())
	default:
		return reflect.DeepEqual(left, right)
	}
}

func fieldsEqual(left, right []Field) bool {
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if !left[i].Equal(right[i]) {
			return false
		}
	}
	return true
}
