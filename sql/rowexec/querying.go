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

// QueryingIter shapes the rows of a single result set into results. A
// result may span several consecutive rows when its shaper populates
// collections.
type QueryingIter[T any] struct {
	query    *Query
	shaper   Shaper[T]
	strategy ExecutionStrategy

	reader *dataReader
	coord  *SingleQueryResultCoordinator
	done   bool
	closed bool
}

var _ sql.Iter[int] = (*QueryingIter[int])(nil)

// NewQueryingIter returns an iterator over the results of q. A nil strategy
// runs without retries.
func NewQueryingIter[T any](q *Query, shaper Shaper[T], strategy ExecutionStrategy) *QueryingIter[T] {
	if strategy == nil {
		strategy = NoRetryStrategy{}
	}
	return &QueryingIter[T]{query: q, shaper: shaper, strategy: strategy}
}

func (i *QueryingIter[T]) initialize(ctx *sql.Context) error {
	r, err := i.query.execute(ctx)
	if err != nil {
		return err
	}
	i.reader = r
	i.coord = NewSingleQueryResultCoordinator()
	return nil
}

// Next implements the sql.Iter interface.
func (i *QueryingIter[T]) Next(ctx *sql.Context) (T, error) {
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

func (i *QueryingIter[T]) next(ctx *sql.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if i.reader == nil {
		if err := i.strategy.Execute(ctx, i.initialize); err != nil {
			return zero, err
		}
	}

	c := i.coord
	hasNext := c.HasNext
	if hasNext == Unknown {
		ok, err := i.reader.read(ctx)
		if err != nil {
			return zero, err
		}
		hasNext = TristateOf(ok)
	}
	if hasNext == False {
		i.done = true
		return zero, io.EOF
	}

	for {
		c.ResultReady = true
		c.HasNext = Unknown
		v, err := i.shaper(ctx, i.reader.cursor, &c.ResultContext, c)
		if err != nil {
			return zero, err
		}
		if c.ResultReady {
			c.ResultContext.Values = nil
			return v, nil
		}

		ok, err := i.reader.read(ctx)
		if err != nil {
			return zero, err
		}
		if !ok {
			// the last element is still pending
			c.HasNext = False
			c.ResultReady = true
			return i.shaper(ctx, i.reader.cursor, &c.ResultContext, c)
		}
	}
}

// Close implements the sql.Iter interface.
func (i *QueryingIter[T]) Close(*sql.Context) error {
	if i.closed {
		return nil
	}
	i.closed = true
	return i.reader.Close()
}

func logFailure(ctx *sql.Context, q *Query, err error) {
	if isCancellation(err) {
		return
	}
	ctx.Logger().WithError(err).WithField("buffered", q.Buffered).Error("failed to iterate query results")
}
