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

package expression

import (
	"fmt"

	"github.com/dolthub/go-query-shaper/sql"
)

// Exists tests whether a subquery returns any row.
type Exists struct {
	Query   sql.Node
	Negated bool
}

var _ sql.Subquerier = (*Exists)(nil)

// NewExists creates a new EXISTS expression.
func NewExists(query sql.Node, negated bool) *Exists {
	return &Exists{Query: query, Negated: negated}
}

// Update returns e if query is its current subquery.
func (e *Exists) Update(query sql.Node) *Exists {
	if query == e.Query {
		return e
	}
	return &Exists{Query: query, Negated: e.Negated}
}

// Subquery implements the sql.Subquerier interface.
func (e *Exists) Subquery() sql.Node { return e.Query }

// WithSubquery implements the sql.Subquerier interface.
func (e *Exists) WithSubquery(n sql.Node) sql.Expression { return e.Update(n) }

// Type implements the sql.Expression interface.
func (*Exists) Type() *sql.TypeMapping { return sql.Boolean }

// Children implements the sql.Expression interface.
func (*Exists) Children() []sql.Expression { return nil }

// WithChildren implements the sql.Expression interface.
func (e *Exists) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(e, len(children), 0)
	}
	return e, nil
}

// Eval implements the sql.Expression interface.
func (*Exists) Eval(*sql.Context, sql.Row) (interface{}, error) {
	return nil, sql.ErrNotSupported.New("evaluating a subquery", "EXISTS")
}

func (e *Exists) String() string {
	if e.Negated {
		return fmt.Sprintf("NOT EXISTS (%s)", e.Query)
	}
	return fmt.Sprintf("EXISTS (%s)", e.Query)
}

// ScalarSubquery is a subquery returning a single value. It is always
// nullable, since the subquery may return no row.
type ScalarSubquery struct {
	Query   sql.Node
	mapping *sql.TypeMapping
}

var _ sql.Subquerier = (*ScalarSubquery)(nil)

// NewScalarSubquery creates a new scalar subquery expression.
func NewScalarSubquery(query sql.Node, mapping *sql.TypeMapping) *ScalarSubquery {
	return &ScalarSubquery{Query: query, mapping: mapping}
}

// Update returns s if query is its current subquery.
func (s *ScalarSubquery) Update(query sql.Node) *ScalarSubquery {
	if query == s.Query {
		return s
	}
	return &ScalarSubquery{Query: query, mapping: s.mapping}
}

// Subquery implements the sql.Subquerier interface.
func (s *ScalarSubquery) Subquery() sql.Node { return s.Query }

// WithSubquery implements the sql.Subquerier interface.
func (s *ScalarSubquery) WithSubquery(n sql.Node) sql.Expression { return s.Update(n) }

// Type implements the sql.Expression interface.
func (s *ScalarSubquery) Type() *sql.TypeMapping { return s.mapping }

// Children implements the sql.Expression interface.
func (*ScalarSubquery) Children() []sql.Expression { return nil }

// WithChildren implements the sql.Expression interface.
func (s *ScalarSubquery) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), 0)
	}
	return s, nil
}

// Eval implements the sql.Expression interface.
func (*ScalarSubquery) Eval(*sql.Context, sql.Row) (interface{}, error) {
	return nil, sql.ErrNotSupported.New("evaluating a subquery", "scalar subquery")
}

func (s *ScalarSubquery) String() string {
	return fmt.Sprintf("(%s)", s.Query)
}
