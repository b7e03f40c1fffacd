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
	"github.com/columnar/arroweq/arrow/array"
	"github.com/columnar/arroweq/arrow/internal/json"
	"golang.org/x/xerrors"
)

// Fixture is a self-describing test case: the declared field of an array,
// the JSON rows it is built from and the reference values it must equal.
//
//	{
//	  "field": {"name": "f", "type": {"name": "int", "isSigned": true, "bitWidth": 32}, "nullable": true},
//	  "rows": [1, null, 3],
//	  "expected": [1, null, 3]
//	}
type Fixture struct {
	Field    Field           `json:"field"`
	Rows     json.RawMessage `json:"rows"`
	Expected json.RawMessage `json:"expected,omitempty"`
}

// Field is the JSON description of an arrow.Field, in the layout used by
// the Arrow integration files.
type Field struct {
	Name     string   `json:"name"`
	Type     dataType `json:"type"`
	Nullable bool     `json:"nullable"`
	Children []Field  `json:"children,omitempty"`
}

type dataType struct {
	Name      string `json:"name"`
	Signed    bool   `json:"isSigned,omitempty"`
	BitWidth  int    `json:"bitWidth,omitempty"`
	Precision string `json:"precision,omitempty"`
	ByteWidth int    `json:"byteWidth,omitempty"`
	ListSize  int32  `json:"listSize,omitempty"`
	Unit      string `json:"unit,omitempty"`
	TimeZone  string `json:"timezone,omitempty"`
}

// ReadFixture decodes a fixture document from r.
func ReadFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, xerrors.Errorf("arrjson: could not decode fixture: %w", err)
	}
	return &f, f.check()
}

// ParseFixture decodes the fixture found at the gjson path of doc. An empty
// path selects the whole document.
func ParseFixture(doc []byte, path string) (*Fixture, error) {
	if path == "" {
		return ReadFixture(bytes.NewReader(doc))
	}
	raw, err := selectPath(doc, path)
	if err != nil {
		return nil, err
	}
	return ReadFixture(bytes.NewReader(raw))
}

func (f *Fixture) check() error {
	if len(f.Rows) == 0 {
		return xerrors.Errorf("arrjson: fixture %q has no rows: %w", f.Field.Name, arrow.ErrInvalid)
	}
	return nil
}

// ArrowField returns the declared field.
func (f *Fixture) ArrowField() (arrow.Field, error) {
	return fieldFromJSON(f.Field)
}

// Array builds the array of the fixture from its rows.
// The returned array must be released by the caller.
func (f *Fixture) Array(opts ...Option) (arrow.Array, error) {
	cfg := newConfig(opts...)

	field, err := f.ArrowField()
	if err != nil {
		return nil, err
	}
	return array.FromJSON(cfg.alloc, field.Type, bytes.NewReader(f.Rows))
}

// ExpectedValues returns the reference values of the fixture.
func (f *Fixture) ExpectedValues() ([]Value, error) {
	if len(f.Expected) == 0 {
		return nil, xerrors.Errorf("arrjson: fixture %q has no expected values: %w", f.Field.Name, arrow.ErrInvalid)
	}
	v, err := Parse(f.Expected)
	if err != nil {
		return nil, err
	}
	if v.Kind() != KindArray {
		return nil, xerrors.Errorf("arrjson: expected values of fixture %q are a %s, not an array: %w",
			f.Field.Name, v.Kind(), arrow.ErrInvalid)
	}
	return v.Elems(), nil
}

// Validate builds the array of the fixture and reports whether it equals
// the expected values.
func (f *Fixture) Validate(opts ...Option) (bool, error) {
	arr, err := f.Array(opts...)
	if err != nil {
		return false, err
	}
	defer arr.Release()

	vals, err := f.ExpectedValues()
	if err != nil {
		return false, err
	}
	return Equal(arr, vals)
}

func fieldsFromJSON(fields []Field) ([]arrow.Field, error) {
	vs := make([]arrow.Field, len(fields))
	for i, v := range fields {
		f, err := fieldFromJSON(v)
		if err != nil {
			return nil, err
		}
		vs[i] = f
	}
	return vs, nil
}

func fieldFromJSON(f Field) (arrow.Field, error) {
	dt, err := dtypeFromJSON(f.Type, f.Children)
	if err != nil {
		return arrow.Field{}, xerrors.Errorf("arrjson: field %q: %w", f.Name, err)
	}
	return arrow.Field{
		Name:     f.Name,
		Type:     dt,
		Nullable: f.Nullable,
	}, nil
}

func elemFromJSON(dt dataType, children []Field) (arrow.DataType, error) {
	if len(children) != 1 {
		return nil, xerrors.Errorf("arrjson: %s type needs exactly one child, got %d: %w", dt.Name, len(children), arrow.ErrInvalid)
	}
	return dtypeFromJSON(children[0].Type, children[0].Children)
}

func dtypeFromJSON(dt dataType, children []Field) (arrow.DataType, error) {
	switch dt.Name {
	case "null":
		return arrow.Null, nil
	case "bool":
		return arrow.FixedWidthTypes.Boolean, nil
	case "int":
		switch dt.Signed {
		case true:
			switch dt.BitWidth {
			case 8:
				return arrow.PrimitiveTypes.Int8, nil
			case 16:
				return arrow.PrimitiveTypes.Int16, nil
			case 32:
				return arrow.PrimitiveTypes.Int32, nil
			case 64:
				return arrow.PrimitiveTypes.Int64, nil
			}
		default:
			switch dt.BitWidth {
			case 8:
				return arrow.PrimitiveTypes.Uint8, nil
			case 16:
				return arrow.PrimitiveTypes.Uint16, nil
			case 32:
				return arrow.PrimitiveTypes.Uint32, nil
			case 64:
				return arrow.PrimitiveTypes.Uint64, nil
			}
		}
	case "floatingpoint":
		switch dt.Precision {
		case "HALF":
			return arrow.FixedWidthTypes.Float16, nil
		case "SINGLE":
			return arrow.PrimitiveTypes.Float32, nil
		case "DOUBLE":
			return arrow.PrimitiveTypes.Float64, nil
		}
	case "binary":
		return arrow.BinaryTypes.Binary, nil
	case "largebinary":
		return arrow.BinaryTypes.LargeBinary, nil
	case "utf8":
		return arrow.BinaryTypes.String, nil
	case "largeutf8":
		return arrow.BinaryTypes.LargeString, nil
	case "date":
		switch dt.Unit {
		case "DAY":
			return arrow.FixedWidthTypes.Date32, nil
		case "MILLISECOND":
			return arrow.FixedWidthTypes.Date64, nil
		}
	case "time":
		switch dt.BitWidth {
		case 32:
			switch dt.Unit {
			case "SECOND":
				return arrow.FixedWidthTypes.Time32s, nil
			case "MILLISECOND":
				return arrow.FixedWidthTypes.Time32ms, nil
			}
		case 64:
			switch dt.Unit {
			case "MICROSECOND":
				return arrow.FixedWidthTypes.Time64us, nil
			case "NANOSECOND":
				return arrow.FixedWidthTypes.Time64ns, nil
			}
		}
	case "timestamp":
		switch dt.Unit {
		case "SECOND":
			return &arrow.TimestampType{TimeZone: dt.TimeZone, Unit: arrow.Second}, nil
		case "MILLISECOND":
			return &arrow.TimestampType{TimeZone: dt.TimeZone, Unit: arrow.Millisecond}, nil
		case "MICROSECOND":
			return &arrow.TimestampType{TimeZone: dt.TimeZone, Unit: arrow.Microsecond}, nil
		case "NANOSECOND":
			return &arrow.TimestampType{TimeZone: dt.TimeZone, Unit: arrow.Nanosecond}, nil
		}
	case "list":
		elem, err := elemFromJSON(dt, children)
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(elem), nil
	case "largelist":
		elem, err := elemFromJSON(dt, children)
		if err != nil {
			return nil, err
		}
		return arrow.LargeListOf(elem), nil
	case "fixedsizelist":
		elem, err := elemFromJSON(dt, children)
		if err != nil {
			return nil, err
		}
		return arrow.FixedSizeListOf(dt.ListSize, elem), nil
	case "struct":
		fields, err := fieldsFromJSON(children)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{}, len(fields))
		for _, f := range fields {
			if _, dup := seen[f.Name]; dup {
				return nil, xerrors.Errorf("arrjson: duplicate struct field %q: %w", f.Name, arrow.ErrInvalid)
			}
			seen[f.Name] = struct{}{}
		}
		return arrow.StructOf(fields...), nil
	case "fixedsizebinary":
		return &arrow.FixedSizeBinaryType{ByteWidth: dt.ByteWidth}, nil
	case "interval":
		switch dt.Unit {
		case "YEAR_MONTH":
			return arrow.FixedWidthTypes.MonthInterval, nil
		case "DAY_TIME":
			return arrow.FixedWidthTypes.DayTimeInterval, nil
		}
	case "duration":
		switch dt.Unit {
		case "SECOND":
			return arrow.FixedWidthTypes.Duration_s, nil
		case "MILLISECOND":
			return arrow.FixedWidthTypes.Duration_ms, nil
		case "MICROSECOND":
			return arrow.FixedWidthTypes.Duration_us, nil
		case "NANOSECOND":
			return arrow.FixedWidthTypes.Duration_ns, nil
		}
	}
	return nil, xerrors.Errorf("arrjson: unknown data type %#v: %w", dt, arrow.ErrNotImplemented)
}
