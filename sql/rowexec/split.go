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

// SplitQueryingIter shapes each row of the parent query into one result.
// Collections of a result are loaded from child queries by its related
// data loaders.
type SplitQueryingIter[T any] struct {
	query    *Query
	shaper   SplitShaper[T]
	loaders  RelatedDataLoader
	strategy ExecutionStrategy

	reader *dataReader
	coord  *SplitQueryResultCoordinator
	done   bool
	closed bool
}

var _ sql.Iter[int] = (*SplitQueryingIter[int])(nil)

// NewSplitQueryingIter returns an iterator over the results of q. loaders
// may be nil. A nil strategy runs without retries.
func NewSplitQueryingIter[T any](q *Query, shaper SplitShaper[T], loaders RelatedDataLoader, strategy ExecutionStrategy) *SplitQueryingIter[T] {
	if strategy == nil {
		strategy = NoRetryStrategy{}
	}
	return &SplitQueryingIter[T]{query: q, shaper: shaper, loaders: loaders, strategy: strategy}
}

func (i *SplitQueryingIter[T]) initialize(ctx *sql.Context) error {
	r, err := i.query.execute(ctx)
	if err != nil {
		return err
	}
	i.reader = r
	i.coord = NewSplitQueryResultCoordinator()
	return nil
}

// Next implements the sql.Iter interface.
func (i *SplitQueryingIter[T]) Next(ctx *sql.Context) (T, error) {
	var zero T
	if i.closed {
		return zero, ErrIterClosed.New()
	}
	if i.done {
		return zero, io.EOF
	}

	exit, err := ctx.Detector.EnterCriticalSection()
	if err != nil {
		return zero, err
	}
	defer exit()

	v, err := i.next(ctx)
	if err != nil && err != io.EOF {
		logFailure(ctx, i.query, err)
	}
	return v, err
}

func (i *SplitQueryingIter[T]) next(ctx *sql.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if i.reader == nil {
		if err := i.strategy.Execute(ctx, i.initialize); err != nil {
			return zero, err
		}
	}

	ok, err := i.reader.read(ctx)
	if err != nil {
		return zero, err
	}
	if !ok {
		i.done = true
		return zero, io.EOF
	}

	c := i.coord
	c.ResultContext.Values = nil
	if _, err := i.shaper(ctx, i.reader.cursor, &c.ResultContext, c); err != nil {
		return zero, err
	}
	if i.loaders != nil {
		if err := i.loaders(ctx, i.strategy, c); err != nil {
			return zero, err
		}
	}
	return i.shaper(ctx, i.reader.cursor, &c.ResultContext, c)
}

// Close implements the sql.Iter interface. It closes the parent reader and
// every child reader.
func (i *SplitQueryingIter[T]) Close(*sql.Context) error {
	if i.closed {
		return nil
	}
	i.closed = true
	return closeSplit(i.reader, i.coord)
}

func closeSplit(r *dataReader, c *SplitQueryResultCoordinator) error {
	err := r.Close()
	if c != nil {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
