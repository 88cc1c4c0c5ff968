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

import "github.com/dolthub/go-query-shaper/sql"

// Tristate is a boolean that may not be known yet.
type Tristate uint8

const (
	// Unknown means the value must be found out, usually by reading the next
	// row.
	Unknown Tristate = iota
	True
	False
)

// TristateOf returns the tristate holding b.
func TristateOf(b bool) Tristate {
	if b {
		return True
	}
	return False
}

func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// ResultContext holds the values materialized by the first shaper pass over
// an element whose result is not ready yet. A nil Values means no element
// is pending.
type ResultContext struct {
	Values []interface{}
}

// SingleQueryResultCoordinator is the state shared by a shaper and the
// collections it populates while consuming a single result set.
type SingleQueryResultCoordinator struct {
	ResultContext ResultContext
	// ResultReady is cleared by a collection that needs more rows before the
	// current element is complete.
	ResultReady bool
	// HasNext is True when the current row was read but not consumed, False
	// when the result set is exhausted.
	HasNext     Tristate
	Collections []*SingleQueryCollectionContext
}

// NewSingleQueryResultCoordinator returns a coordinator with a ready result.
func NewSingleQueryResultCoordinator() *SingleQueryResultCoordinator {
	return &SingleQueryResultCoordinator{ResultReady: true}
}

// SetCollection registers the context of the collection with the given id.
func (c *SingleQueryResultCoordinator) SetCollection(id int, cc *SingleQueryCollectionContext) {
	c.Collections = setAt(c.Collections, id, cc)
}

func (c *SingleQueryResultCoordinator) collection(id int) *SingleQueryCollectionContext {
	if id < 0 || id >= len(c.Collections) {
		return nil
	}
	return c.Collections[id]
}

// SplitQueryResultCoordinator is the state shared by a shaper, the
// collections it populates and the child readers of a split query.
type SplitQueryResultCoordinator struct {
	ResultContext ResultContext
	HasNext       Tristate
	Collections   []*SplitQueryCollectionContext
	DataReaders   []*SplitQueryDataReaderContext
}

// NewSplitQueryResultCoordinator returns an empty coordinator.
func NewSplitQueryResultCoordinator() *SplitQueryResultCoordinator {
	return &SplitQueryResultCoordinator{}
}

// SetCollection registers the context of the collection with the given id.
func (c *SplitQueryResultCoordinator) SetCollection(id int, cc *SplitQueryCollectionContext) {
	c.Collections = setAt(c.Collections, id, cc)
}

// SetDataReader registers the child reader of the collection with the
// given id.
func (c *SplitQueryResultCoordinator) SetDataReader(id int, dr *SplitQueryDataReaderContext) {
	c.DataReaders = setAt(c.DataReaders, id, dr)
}

func (c *SplitQueryResultCoordinator) collection(id int) *SplitQueryCollectionContext {
	if id < 0 || id >= len(c.Collections) {
		return nil
	}
	return c.Collections[id]
}

func (c *SplitQueryResultCoordinator) dataReader(id int) *SplitQueryDataReaderContext {
	if id < 0 || id >= len(c.DataReaders) {
		return nil
	}
	return c.DataReaders[id]
}

// Close closes every child reader. It returns the first error found.
func (c *SplitQueryResultCoordinator) Close() error {
	var firstErr error
	for _, dr := range c.DataReaders {
		if dr == nil {
			continue
		}
		if err := dr.reader.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.DataReaders = nil
	return firstErr
}

// SplitQueryDataReaderContext is a child reader of a split query along with
// its lookahead state.
type SplitQueryDataReaderContext struct {
	reader  *dataReader
	HasNext Tristate
}

// Reader returns the cursor of the child reader.
func (c *SplitQueryDataReaderContext) Reader() sql.RowCursor { return c.reader.cursor }

func setAt[T any](s []*T, i int, v *T) []*T {
	for len(s) <= i {
		s = append(s, nil)
	}
	s[i] = v
	return s
}
