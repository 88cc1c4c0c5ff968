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

// Grouping is a key with the elements of consecutive rows sharing it.
type Grouping[K, E any] struct {
	Key      K
	Elements []E
}

// KeySelector materializes a grouping key from the current row.
type KeySelector[K any] func(ctx *sql.Context, r sql.RowReader) (K, error)

// GroupBy describes how the rows of a query ordered by a key are grouped.
type GroupBy[K, E any] struct {
	Key KeySelector[K]
	// KeyIdentifier identifies the key of a row. Consecutive rows with equal
	// identifiers belong to the same grouping.
	KeyIdentifier Identifier
	Comparers     []ValueComparer
	Element       SplitShaper[E]
	Loaders       RelatedDataLoader
}

// GroupBySplitIter returns one grouping per run of consecutive rows with
// the same key. The elements of a grouping may load collections from child
// queries.
type GroupBySplitIter[K, E any] struct {
	query    *Query
	groupBy  *GroupBy[K, E]
	strategy ExecutionStrategy

	reader *dataReader
	coord  *SplitQueryResultCoordinator
	done   bool
	closed bool
}

var _ sql.Iter[Grouping[int, int]] = (*GroupBySplitIter[int, int])(nil)

// NewGroupBySplitIter returns an iterator over the groupings of q. A nil
// strategy runs without retries.
func NewGroupBySplitIter[K, E any](q *Query, g *GroupBy[K, E], strategy ExecutionStrategy) *GroupBySplitIter[K, E] {
	if strategy == nil {
		strategy = NoRetryStrategy{}
	}
	return &GroupBySplitIter[K, E]{query: q, groupBy: g, strategy: strategy}
}

func (i *GroupBySplitIter[K, E]) initialize(ctx *sql.Context) error {
	r, err := i.query.execute(ctx)
	if err != nil {
		return err
	}
	i.reader = r
	i.coord = NewSplitQueryResultCoordinator()
	return nil
}

// Next implements the sql.Iter interface.
func (i *GroupBySplitIter[K, E]) Next(ctx *sql.Context) (Grouping[K, E], error) {
	var zero Grouping[K, E]
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

	g, err := i.next(ctx)
	if err != nil && err != io.EOF {
		logFailure(ctx, i.query, err)
	}
	return g, err
}

func (i *GroupBySplitIter[K, E]) next(ctx *sql.Context) (Grouping[K, E], error) {
	var zero Grouping[K, E]
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if i.reader == nil {
		if err := i.strategy.Execute(ctx, i.initialize); err != nil {
			return zero, err
		}
	}

	c := i.coord
	r := i.reader.cursor
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

	key, err := i.groupBy.Key(ctx, r)
	if err != nil {
		return zero, err
	}
	keyID, err := i.groupBy.KeyIdentifier(ctx, r)
	if err != nil {
		return zero, err
	}

	g := Grouping[K, E]{Key: key}
	for {
		c.HasNext = Unknown
		c.ResultContext.Values = nil
		if _, err := i.groupBy.Element(ctx, r, &c.ResultContext, c); err != nil {
			return zero, err
		}
		if i.groupBy.Loaders != nil {
			if err := i.groupBy.Loaders(ctx, i.strategy, c); err != nil {
				return zero, err
			}
		}
		e, err := i.groupBy.Element(ctx, r, &c.ResultContext, c)
		if err != nil {
			return zero, err
		}
		g.Elements = append(g.Elements, e)

		ok, err := i.reader.read(ctx)
		if err != nil {
			return zero, err
		}
		if !ok {
			c.HasNext = False
			return g, nil
		}

		nextID, err := i.groupBy.KeyIdentifier(ctx, r)
		if err != nil {
			return zero, err
		}
		if !CompareIdentifiers(i.groupBy.Comparers, keyID, nextID) {
			c.HasNext = True
			return g, nil
		}
	}
}

// Close implements the sql.Iter interface. It closes the parent reader and
// every child reader.
func (i *GroupBySplitIter[K, E]) Close(*sql.Context) error {
	if i.closed {
		return nil
	}
	i.closed = true
	return closeSplit(i.reader, i.coord)
}
