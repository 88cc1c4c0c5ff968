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
	"github.com/dolthub/go-query-shaper/sql"
)

// Shaper materializes a result from the current row of a single query.
type Shaper[T any] func(ctx *sql.Context, r sql.RowReader, rc *ResultContext, c *SingleQueryResultCoordinator) (T, error)

// SplitShaper materializes a result from the current row of a split query.
type SplitShaper[T any] func(ctx *sql.Context, r sql.RowReader, rc *ResultContext, c *SplitQueryResultCoordinator) (T, error)

// RelatedDataLoader populates the split collections of the current element.
type RelatedDataLoader func(ctx *sql.Context, s ExecutionStrategy, c *SplitQueryResultCoordinator) error

// SingleQueryCollectionContext tracks the collection being populated for
// the current element of a single query.
type SingleQueryCollectionContext struct {
	Parent           interface{}
	Collection       interface{}
	ParentIdentifier []interface{}
	OuterIdentifier  []interface{}
	SelfIdentifier   []interface{}
	ResultContext    ResultContext
}

// Collection describes how the rows of a single query map to the elements
// of a collection nested in each result.
type Collection[E any] struct {
	ID int
	// ParentIdentifier identifies the element owning the collection.
	ParentIdentifier Identifier
	// OuterIdentifier identifies the owner and all of its ancestors.
	OuterIdentifier Identifier
	// SelfIdentifier identifies an element of the collection. A row where
	// it is all nulls has no element.
	SelfIdentifier   Identifier
	ParentComparers  []ValueComparer
	OuterComparers   []ValueComparer
	SelfComparers    []ValueComparer
	Shaper           Shaper[E]
}

// InitializeCollection creates an empty collection owned by parent and
// starts tracking it for the current row.
func InitializeCollection[E any](ctx *sql.Context, r sql.RowReader, c *SingleQueryResultCoordinator, coll *Collection[E], parent interface{}) (*[]E, error) {
	parentID, err := coll.ParentIdentifier(ctx, r)
	if err != nil {
		return nil, err
	}
	outerID, err := coll.OuterIdentifier(ctx, r)
	if err != nil {
		return nil, err
	}

	elements := &[]E{}
	c.SetCollection(coll.ID, &SingleQueryCollectionContext{
		Parent:           parent,
		Collection:       elements,
		ParentIdentifier: parentID,
		OuterIdentifier:  outerID,
	})
	return elements, nil
}

// PopulateCollection consumes the current row for the collection. It
// clears c.ResultReady while the element owning the collection needs more
// rows, and sets c.HasNext to True when the row belongs to the next owner.
func PopulateCollection[E any](ctx *sql.Context, r sql.RowReader, c *SingleQueryResultCoordinator, coll *Collection[E]) error {
	cc := c.collection(coll.ID)
	if cc == nil {
		return ErrCollectionNotInitialized.New(coll.ID)
	}
	if cc.Collection == nil {
		return nil
	}
	elements := cc.Collection.(*[]E)

	process := func() error {
		prev := c.ResultReady
		c.ResultReady = true
		e, err := coll.Shaper(ctx, r, &cc.ResultContext, c)
		if err != nil {
			return err
		}
		if c.ResultReady {
			cc.ResultContext.Values = nil
			*elements = append(*elements, e)
		}
		c.ResultReady = c.ResultReady && prev
		return nil
	}

	flush := func() error {
		if cc.ResultContext.Values != nil {
			c.HasNext = False
			if err := process(); err != nil {
				return err
			}
		}
		cc.SelfIdentifier = nil
		return nil
	}

	if c.HasNext == False {
		return flush()
	}

	outerID, err := coll.OuterIdentifier(ctx, r)
	if err != nil {
		return err
	}
	if !CompareIdentifiers(coll.OuterComparers, outerID, cc.OuterIdentifier) {
		if err := flush(); err != nil {
			return err
		}
		parentID, err := coll.ParentIdentifier(ctx, r)
		if err != nil {
			return err
		}
		if !CompareIdentifiers(coll.ParentComparers, parentID, cc.ParentIdentifier) {
			c.HasNext = True
		}
		return nil
	}

	selfID, err := coll.SelfIdentifier(ctx, r)
	if err != nil {
		return err
	}
	if allNull(selfID) {
		return nil
	}

	if cc.SelfIdentifier != nil {
		if CompareIdentifiers(coll.SelfComparers, selfID, cc.SelfIdentifier) {
			// another row of the current element, which may carry nested
			// elements of its own
			if cc.ResultContext.Values != nil {
				if err := process(); err != nil {
					return err
				}
			}
			c.ResultReady = false
			return nil
		}

		if err := flush(); err != nil {
			return err
		}
		c.HasNext = Unknown
	}
	cc.SelfIdentifier = selfID

	if err := process(); err != nil {
		return err
	}
	c.ResultReady = false
	return nil
}

// SplitQueryCollectionContext tracks the collection being populated for
// the current element of a split query.
type SplitQueryCollectionContext struct {
	Parent           interface{}
	Collection       interface{}
	ParentIdentifier []interface{}
	ResultContext    ResultContext
}

// SplitCollection describes how the rows of a child query map to the
// elements of a collection nested in each result of a split query. The
// child query must be ordered by the parent identifier the same way as the
// parent query.
type SplitCollection[E any] struct {
	ID    int
	Query *Query
	// ParentIdentifier identifies the owner in the parent reader.
	ParentIdentifier Identifier
	// ChildIdentifier identifies the owner in the child reader.
	ChildIdentifier Identifier
	Comparers       []ValueComparer
	Shaper          SplitShaper[E]
	Loaders         RelatedDataLoader
}

// InitializeSplitCollection creates an empty collection owned by parent and
// starts tracking it for the current row of the parent reader.
func InitializeSplitCollection[E any](ctx *sql.Context, r sql.RowReader, c *SplitQueryResultCoordinator, coll *SplitCollection[E], parent interface{}) (*[]E, error) {
	parentID, err := coll.ParentIdentifier(ctx, r)
	if err != nil {
		return nil, err
	}

	elements := &[]E{}
	c.SetCollection(coll.ID, &SplitQueryCollectionContext{
		Parent:           parent,
		Collection:       elements,
		ParentIdentifier: parentID,
	})
	return elements, nil
}

// PopulateSplitCollection reads the rows of the child reader belonging to
// the current owner into its collection. The child query is executed
// through s the first time the collection is populated.
func PopulateSplitCollection[E any](ctx *sql.Context, s ExecutionStrategy, c *SplitQueryResultCoordinator, coll *SplitCollection[E]) error {
	if c.dataReader(coll.ID) == nil {
		var reader *dataReader
		err := s.Execute(ctx, func(ctx *sql.Context) error {
			var err error
			reader, err = coll.Query.execute(ctx)
			return err
		})
		if err != nil {
			return err
		}
		c.SetDataReader(coll.ID, &SplitQueryDataReaderContext{reader: reader})
	}

	cc := c.collection(coll.ID)
	if cc == nil {
		return ErrCollectionNotInitialized.New(coll.ID)
	}
	if cc.Collection == nil {
		return nil
	}
	elements := cc.Collection.(*[]E)

	drc := c.dataReader(coll.ID)
	r := drc.reader.cursor
	for {
		hasNext := drc.HasNext
		if hasNext == Unknown {
			ok, err := drc.reader.read(ctx)
			if err != nil {
				return err
			}
			hasNext = TristateOf(ok)
		}
		if hasNext == False {
			break
		}

		childID, err := coll.ChildIdentifier(ctx, r)
		if err != nil {
			return err
		}
		if !CompareIdentifiers(coll.Comparers, cc.ParentIdentifier, childID) {
			drc.HasNext = True
			return nil
		}

		drc.HasNext = Unknown
		cc.ResultContext.Values = nil
		if _, err := coll.Shaper(ctx, r, &cc.ResultContext, c); err != nil {
			return err
		}
		if coll.Loaders != nil {
			if err := coll.Loaders(ctx, s, c); err != nil {
				return err
			}
		}
		e, err := coll.Shaper(ctx, r, &cc.ResultContext, c)
		if err != nil {
			return err
		}
		*elements = append(*elements, e)
	}

	drc.HasNext = False
	return nil
}
