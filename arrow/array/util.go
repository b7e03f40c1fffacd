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
	"io"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/internal/json"
	"github.com/columnar/arroweq/arrow/memory"
	"golang.org/x/xerrors"
)

// FromJSON creates an array of type dt from a JSON array of rows read from
// r, using the allocator mem. Each row is decoded by the builder of dt:
// numbers for the numeric types, booleans, strings for utf8, base64
// strings for binary, arrays for lists and objects for structs. Any row
// may be null.
func FromJSON(mem memory.Allocator, dt arrow.DataType, r io.Reader) (arr arrow.Array, err error) {
	defer func() {
		if pErr := recover(); pErr != nil {
			if e, ok := pErr.(error); ok {
				err = xerrors.Errorf("arrow/array: building %s from json: %w", dt, e)
			} else {
				err = xerrors.Errorf("arrow/array: building %s from json: %v", dt, pErr)
			}
		}
	}()

	bldr := NewBuilder(mem, dt)
	defer bldr.Release()

	dec := json.NewDecoder(r)
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := t.(json.Delim); !ok || delim != '[' {
		return nil, xerrors.Errorf("arrow/array: json rows must be an array, got %v: %w", t, arrow.ErrInvalid)
	}

	if err := unmarshalElems(bldr, dec); err != nil {
		return nil, err
	}
	return bldr.NewArray(), nil
}
