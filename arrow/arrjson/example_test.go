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

package arrjson_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/columnar/arroweq/arrow"
	"github.com/columnar/arroweq/arrow/array"
	"github.com/columnar/arroweq/arrow/arrjson"
	"github.com/columnar/arroweq/arrow/memory"
)

func ExampleEqual() {
	mem := memory.NewGoAllocator()
	arr, err := array.FromJSON(mem, arrow.ListOf(arrow.BinaryTypes.Binary), strings.NewReader(`[["aGk="], [], null]`))
	if err != nil {
		log.Fatal(err)
	}
	defer arr.Release()

	for _, doc := range []string{`[["hi"], null, null]`, `[["6869"], [], null]`, `[["hi"], [], []]`} {
		vals, err := arrjson.Parse([]byte(doc))
		if err != nil {
			log.Fatal(err)
		}
		ok, err := arrjson.EqualValue(arr, vals)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s: %v\n", doc, ok)
	}

	// Output:
	// [["hi"], null, null]: true
	// [["6869"], [], null]: true
	// [["hi"], [], []]: false
}
