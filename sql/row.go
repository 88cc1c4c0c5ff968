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

package sql

import "io"

// Row is a tuple of values.
type Row []interface{}

// NewRow creates a row from the given values.
func NewRow(values ...interface{}) Row {
	row := make([]interface{}, len(values))
	copy(row, values)
	return row
}

// Copy creates a new row with the same values as the current one.
func (r Row) Copy() Row {
	return NewRow(r...)
}

// Iter is a forward-only iterator of materialized results.
type Iter[T any] interface {
	// Next retrieves the next result. It will return io.EOF if it's the last
	// result.
	Next(ctx *Context) (T, error)
	// Close the iterator. Calling Close more than once is a no-op.
	Close(ctx *Context) error
}

// IterToSlice drains the iterator into a slice and closes it.
func IterToSlice[T any](ctx *Context, i Iter[T]) ([]T, error) {
	var results []T
	for {
		r, err := i.Next(ctx)
		if err == io.EOF {
			break
		}

		if err != nil {
			_ = i.Close(ctx)
			return nil, err
		}

		results = append(results, r)
	}

	return results, i.Close(ctx)
}
