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

// Command arrow-json-validate builds the array described by a JSON fixture
// and checks it against the fixture's expected reference values.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/array"
	"github.com/columnar/arroweq/arrow/arrjson"
	"github.com/columnar/arroweq/arrow/memory"
	"github.com/docopt/docopt-go"
	"golang.org/x/xerrors"
)

const usage = `Arrow JSON Validate.
Usage:
  arrow-json-validate -h | --help
  arrow-json-validate [--path=PATH] [--against=FILE] [--against-path=PATH]
                      [--verbose] <fixture>
Options:
  -h --help             Show this screen.
  --path=PATH           Path of the fixture inside the document, e.g. cases.0.
  --against=FILE        Also compare the array with the one built by another fixture.
  --against-path=PATH   Path of the fixture inside the --against document.
  --verbose             Print the arrays being compared.`

var errMismatch = errors.New("mismatch")

type config struct {
	Path        string
	Against     string
	AgainstPath string
	Verbose     bool
	Fixture     string
}

func main() {
	log.SetPrefix("arrow-json-validate: ")
	log.SetFlags(0)

	cfg, err := parseArgs(os.Args[1:], docopt.PrintHelpAndExit)
	if err != nil {
		log.Fatal(err)
	}

	if err := run(cfg, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func parseArgs(argv []string, help func(err error, usage string)) (config, error) {
	var cfg config
	p := &docopt.Parser{HelpHandler: help}
	opts, err := p.ParseArgs(usage, argv, "")
	if err != nil {
		return cfg, err
	}
	err = opts.Bind(&cfg)
	return cfg, err
}

func run(cfg config, w io.Writer) error {
	mem := memory.NewGoAllocator()

	f, err := readFixture(cfg.Fixture, cfg.Path)
	if err != nil {
		return err
	}

	arr, err := f.Array(arrjson.WithAllocator(mem))
	if err != nil {
		return xerrors.Errorf("could not build array of %q: %w", cfg.Fixture, err)
	}
	defer arr.Release()

	vals, err := f.ExpectedValues()
	if err != nil {
		return err
	}

	if cfg.Verbose {
		fmt.Fprintf(w, "%s: %v\n", f.Field.Name, arr)
	}

	ok, err := arrjson.Equal(arr, vals)
	switch {
	case err != nil:
		return xerrors.Errorf("could not compare %q with its expected values: %w", cfg.Fixture, err)
	case !ok:
		return xerrors.Errorf("%s: array %v does not hold the expected values: %w", cfg.Fixture, arr, errMismatch)
	}

	if cfg.Against != "" {
		if err := compare(cfg, mem, arr, w); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "%s: ok\n", cfg.Fixture)
	return nil
}

func compare(cfg config, mem memory.Allocator, arr arrow.Array, w io.Writer) error {
	g, err := readFixture(cfg.Against, cfg.AgainstPath)
	if err != nil {
		return err
	}

	other, err := g.Array(arrjson.WithAllocator(mem))
	if err != nil {
		return xerrors.Errorf("could not build array of %q: %w", cfg.Against, err)
	}
	defer other.Release()

	if cfg.Verbose {
		fmt.Fprintf(w, "%s: %v\n", g.Field.Name, other)
	}

	ok, err := array.Equal(arr, other)
	switch {
	case err != nil:
		return xerrors.Errorf("could not compare %q with %q: %w", cfg.Fixture, cfg.Against, err)
	case !ok:
		return xerrors.Errorf("%s: array differs from the one of %s: %w", cfg.Fixture, cfg.Against, errMismatch)
	}
	return nil
}

func readFixture(fname, path string) (*arrjson.Fixture, error) {
	doc, err := os.ReadFile(fname)
	if err != nil {
		return nil, xerrors.Errorf("could not read fixture: %w", err)
	}

	f, err := arrjson.ParseFixture(doc, path)
	if err != nil {
		return nil, xerrors.Errorf("could not parse fixture %q: %w", fname, err)
	}
	return f, nil
}
