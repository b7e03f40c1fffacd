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

package arrjson

import (
	"bytes"
	"io"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/internal/json"
	"github.com/tidwall/gjson"
	"golang.org/x/xerrors"
)

// Parse decodes a single JSON document into a reference value.
func Parse(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one JSON document from r. Trailing data after the document
// is an error.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return Value{}, xerrors.Errorf("arrjson: could not decode reference value: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, xerrors.Errorf("arrjson: trailing data after reference value: %w", arrow.ErrInvalid)
	}
	return fromInterface(raw)
}

// ParsePath decodes the part of the JSON document doc selected by the
// gjson path, e.g. "cases.2.expected".
func ParsePath(doc []byte, path string) (Value, error) {
	raw, err := selectPath(doc, path)
	if err != nil {
		return Value{}, err
	}
	return Parse(raw)
}

func selectPath(doc []byte, path string) ([]byte, error) {
	if !gjson.ValidBytes(doc) {
		return nil, xerrors.Errorf("arrjson: invalid JSON document: %w", arrow.ErrInvalid)
	}
	res := gjson.GetBytes(doc, path)
	if !res.Exists() {
		return nil, xerrors.Errorf("arrjson: no value at path %q: %w", path, arrow.ErrInvalid)
	}
	return []byte(res.Raw), nil
}
