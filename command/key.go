// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package command

import (
	"sort"
	"sync/atomic"

	"github.com/mitchellh/hashstructure"

	"github.com/dolthub/go-query-shaper/sql"
)

var queryIDs uint64

// NextQueryID returns a process-wide unique query identifier.
func NextQueryID() uint64 {
	return atomic.AddUint64(&queryIDs, 1)
}

// ParameterShape is the part of a parameter value the generated command
// depends on: whether it is null and, for lists, how many elements it has.
// Length is -1 for values that are not lists.
type ParameterShape struct {
	Name   string
	IsNull bool
	Length int
}

// Key identifies a command template: the query it was generated for and
// the shape of the parameter values it was specialized for.
type Key struct {
	Query  uint64
	Shapes []ParameterShape
}

// NewKey computes the key of the given parameter values for a query.
func NewKey(query uint64, values sql.ParameterValues) Key {
	shapes := make([]ParameterShape, 0, len(values))
	for name, v := range values {
		shape := ParameterShape{Name: name, IsNull: sql.IsNullValue(v), Length: -1}
		if list, ok := sql.ListValue(v); ok {
			shape.Length = len(list)
		}
		shapes = append(shapes, shape)
	}
	sort.Slice(shapes, func(i, j int) bool { return shapes[i].Name < shapes[j].Name })
	return Key{Query: query, Shapes: shapes}
}

// Hash returns the hash of the key.
func (k Key) Hash() (uint64, error) {
	return hashstructure.Hash(k, nil)
}

// Equal reports whether both keys describe the same query and shapes.
func (k Key) Equal(o Key) bool {
	if k.Query != o.Query || len(k.Shapes) != len(o.Shapes) {
		return false
	}
	for i := range k.Shapes {
		if k.Shapes[i] != o.Shapes[i] {
			return false
		}
	}
	return true
}
