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

package rowexec

import (
	"bytes"
	"reflect"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dolthub/go-query-shaper/sql"
)

// Identifier reads the values identifying an element from the current row.
type Identifier func(ctx *sql.Context, r sql.RowReader) ([]interface{}, error)

// ColumnIdentifier returns an identifier made of the values of the columns
// at the given ordinals.
func ColumnIdentifier(ordinals ...int) Identifier {
	return func(_ *sql.Context, r sql.RowReader) ([]interface{}, error) {
		values := make([]interface{}, len(ordinals))
		for i, o := range ordinals {
			v, err := r.GetValue(o)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return values, nil
	}
}

// ValueComparer tells whether two identifier values are equal.
type ValueComparer func(a, b interface{}) bool

// DefaultComparer compares values by their content. Two nulls are equal.
func DefaultComparer(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch a := a.(type) {
	case []byte:
		b, ok := b.([]byte)
		return ok && bytes.Equal(a, b)
	case decimal.Decimal:
		b, ok := b.(decimal.Decimal)
		return ok && a.Equal(b)
	case time.Time:
		b, ok := b.(time.Time)
		return ok && a.Equal(b)
	}

	return reflect.DeepEqual(a, b)
}

// CompareIdentifiers tells whether two identifiers are equal. Values at
// positions without a comparer use DefaultComparer.
func CompareIdentifiers(comparers []ValueComparer, left, right []interface{}) bool {
	if len(left) != len(right) {
		return false
	}

	for i := range left {
		cmp := DefaultComparer
		if i < len(comparers) && comparers[i] != nil {
			cmp = comparers[i]
		}
		if !cmp(left[i], right[i]) {
			return false
		}
	}
	return true
}

func allNull(values []interface{}) bool {
	for _, v := range values {
		if v != nil {
			return false
		}
	}
	return true
}
