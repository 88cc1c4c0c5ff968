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
	"io"

	"github.com/dolthub/go-query-shaper/sql"
)

// Result is a value produced by a stream, or the error that ended it.
type Result[T any] struct {
	Value T
	Err   error
}

// Stream drives iter on its own goroutine and sends its results over the
// returned channel. The iterator is closed once it is exhausted, on its
// first error or when ctx is done. The channel is closed after that, with
// the error, if any, as the last result.
func Stream[T any](ctx *sql.Context, iter sql.Iter[T]) <-chan Result[T] {
	out := make(chan Result[T])
	go func() {
		defer close(out)

		err := drain(ctx, iter, out)
		if cerr := iter.Close(ctx); err == nil {
			err = cerr
		}
		if err != nil {
			select {
			case out <- Result[T]{Err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return out
}

func drain[T any](ctx *sql.Context, iter sql.Iter[T], out chan<- Result[T]) error {
	for {
		v, err := iter.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		select {
		case out <- Result[T]{Value: v}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Collect receives every value of a stream. It returns the first error
// found.
func Collect[T any](results <-chan Result[T]) ([]T, error) {
	var values []T
	for r := range results {
		if r.Err != nil {
			for range results {
			}
			return nil, r.Err
		}
		values = append(values, r.Value)
	}
	return values, nil
}
