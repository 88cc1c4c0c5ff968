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

// In tests an item for membership in either a list of values or the single
// column result of a subquery. Values is a list Literal or a Parameter bound
// to a list.
type In struct {
	Item    sql.Expression
	Values  sql.Expression
	Query   sql.Node
	Negated bool
}

var _ sql.Subquerier = (*In)(nil)

// NewInValues creates an IN expression over a list of values.
func NewInValues(item, values sql.Expression, negated bool) *In {
	return &In{Item: item, Values: values, Negated: negated}
}

// NewInSubquery creates an IN expression over a subquery.
func NewInSubquery(item sql.Expression, subquery sql.Node, negated bool) *In {
	return &In{Item: item, Query: subquery, Negated: negated}
}

// Negate returns the negation of this IN.
func (in *In) Negate() *In {
	return &In{Item: in.Item, Values: in.Values, Query: in.Query, Negated: !in.Negated}
}

// Update returns in if all the given parts are its current ones, and a new
// In otherwise.
func (in *In) Update(item, values sql.Expression, subquery sql.Node) *In {
	if item == in.Item && values == in.Values && subquery == in.Query {
		return in
	}
	return &In{Item: item, Values: values, Query: subquery, Negated: in.Negated}
}

// Subquery implements the sql.Subquerier interface.
func (in *In) Subquery() sql.Node { return in.Query }

// WithSubquery implements the sql.Subquerier interface.
func (in *In) WithSubquery(n sql.Node) sql.Expression {
	return in.Update(in.Item, in.Values, n)
}

// Type implements the sql.Expression interface.
func (*In) Type() *sql.TypeMapping { return sql.Boolean }

// Children implements the sql.Expression interface.
func (in *In) Children() []sql.Expression {
	if in.Values == nil {
		return []sql.Expression{in.Item}
	}
	return []sql.Expression{in.Item, in.Values}
}

// WithChildren implements the sql.Expression interface.
func (in *In) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	expected := len(in.Children())
	if len(children) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(in, len(children), expected)
	}
	var values sql.Expression
	if expected == 2 {
		values = children[1]
	}
	return in.Update(children[0], values, in.Query), nil
}

// Eval implements the sql.Expression interface.
func (in *In) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	if in.Query != nil {
		return nil, sql.ErrNotSupported.New("evaluating a subquery", "IN")
	}

	v, err := in.Values.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	values, ok := sql.ListValue(v)
	if !ok {
		if v == nil {
			return nil, nil
		}
		values = []interface{}{v}
	}
	// nothing is a member of the empty list, not even null
	if len(values) == 0 {
		return in.Negated, nil
	}

	item, err := in.Item.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var hasNull bool
	for _, value := range values {
		if sql.IsNullValue(value) {
			hasNull = true
			continue
		}
		cmp, err := Compare(item, value)
		if err != nil {
			return nil, err
		}
		if cmp == 0 {
			return !in.Negated, nil
		}
	}

	if hasNull {
		return nil, nil
	}
	return in.Negated, nil
}

func (in *In) String() string {
	op := "IN"
	if in.Negated {
		op = "NOT IN"
	}
	if in.Query != nil {
		return fmt.Sprintf("%s %s (%s)", in.Item, op, in.Query)
	}
	return fmt.Sprintf("%s %s (%s)", in.Item, op, in.Values)
}
