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

package plan

import (
	"fmt"

	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/expression"
)

// Join is a table source joined to the previous sources of a SELECT.
type Join interface {
	sql.Node
	// Source returns the joined table source.
	Source() sql.Node
}

// PredicateJoin is a join with a join predicate.
type PredicateJoin interface {
	Join
	JoinPredicate() sql.Expression
	UpdateJoin(table sql.Node, predicate sql.Expression) PredicateJoin
}

// InnerJoin joins a table source on a predicate.
type InnerJoin struct {
	UnaryNode
	Predicate sql.Expression
}

var _ PredicateJoin = (*InnerJoin)(nil)
var _ sql.Expressioner = (*InnerJoin)(nil)

// NewInnerJoin creates a new inner join.
func NewInnerJoin(table sql.Node, predicate sql.Expression) *InnerJoin {
	return &InnerJoin{UnaryNode{table}, predicate}
}

// Source implements the Join interface.
func (j *InnerJoin) Source() sql.Node { return j.Table }

// JoinPredicate implements the PredicateJoin interface.
func (j *InnerJoin) JoinPredicate() sql.Expression { return j.Predicate }

// UpdateJoin implements the PredicateJoin interface.
func (j *InnerJoin) UpdateJoin(table sql.Node, predicate sql.Expression) PredicateJoin {
	return j.Update(table, predicate)
}

// Update returns j if table and predicate are its current ones.
func (j *InnerJoin) Update(table sql.Node, predicate sql.Expression) *InnerJoin {
	if table == j.Table && predicate == j.Predicate {
		return j
	}
	return NewInnerJoin(table, predicate)
}

// WithChildren implements the sql.Node interface.
func (j *InnerJoin) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(children), 1)
	}
	return j.Update(children[0], j.Predicate), nil
}

// Expressions implements the sql.Expressioner interface.
func (j *InnerJoin) Expressions() []sql.Expression { return []sql.Expression{j.Predicate} }

// WithExpressions implements the sql.Expressioner interface.
func (j *InnerJoin) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(exprs), 1)
	}
	return j.Update(j.Table, exprs[0]), nil
}

// Equal implements the expression.NodeEqualer interface.
func (j *InnerJoin) Equal(other sql.Node) bool {
	o, ok := other.(*InnerJoin)
	return ok && expression.EqualNodes(j.Table, o.Table) && expression.EqualExprs(j.Predicate, o.Predicate)
}

func (j *InnerJoin) String() string {
	return fmt.Sprintf("INNER JOIN %s ON %s", tableString(j.Table), j.Predicate)
}

// LeftJoin left-outer joins a table source on a predicate.
type LeftJoin struct {
	UnaryNode
	Predicate sql.Expression
}

var _ PredicateJoin = (*LeftJoin)(nil)
var _ sql.Expressioner = (*LeftJoin)(nil)

// NewLeftJoin creates a new left join.
func NewLeftJoin(table sql.Node, predicate sql.Expression) *LeftJoin {
	return &LeftJoin{UnaryNode{table}, predicate}
}

// Source implements the Join interface.
func (j *LeftJoin) Source() sql.Node { return j.Table }

// JoinPredicate implements the PredicateJoin interface.
func (j *LeftJoin) JoinPredicate() sql.Expression { return j.Predicate }

// UpdateJoin implements the PredicateJoin interface.
func (j *LeftJoin) UpdateJoin(table sql.Node, predicate sql.Expression) PredicateJoin {
	return j.Update(table, predicate)
}

// Update returns j if table and predicate are its current ones.
func (j *LeftJoin) Update(table sql.Node, predicate sql.Expression) *LeftJoin {
	if table == j.Table && predicate == j.Predicate {
		return j
	}
	return NewLeftJoin(table, predicate)
}

// WithChildren implements the sql.Node interface.
func (j *LeftJoin) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(children), 1)
	}
	return j.Update(children[0], j.Predicate), nil
}

// Expressions implements the sql.Expressioner interface.
func (j *LeftJoin) Expressions() []sql.Expression { return []sql.Expression{j.Predicate} }

// WithExpressions implements the sql.Expressioner interface.
func (j *LeftJoin) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(exprs), 1)
	}
	return j.Update(j.Table, exprs[0]), nil
}

// Equal implements the expression.NodeEqualer interface.
func (j *LeftJoin) Equal(other sql.Node) bool {
	o, ok := other.(*LeftJoin)
	return ok && expression.EqualNodes(j.Table, o.Table) && expression.EqualExprs(j.Predicate, o.Predicate)
}

func (j *LeftJoin) String() string {
	return fmt.Sprintf("LEFT JOIN %s ON %s", tableString(j.Table), j.Predicate)
}

// JoinKind tells apart the joins without a predicate.
type JoinKind byte

const (
	// Cross is a cartesian product.
	Cross JoinKind = iota
	// CrossApply joins a correlated source, dropping outer rows without
	// matches.
	CrossApply
	// OuterApply joins a correlated source, keeping outer rows without
	// matches.
	OuterApply
)

var joinKindKeywords = map[JoinKind]string{
	Cross:      "CROSS JOIN",
	CrossApply: "CROSS APPLY",
	OuterApply: "OUTER APPLY",
}

// CrossJoin joins a table source without a predicate. Kind tells whether it
// is a cross join or a cross/outer apply.
type CrossJoin struct {
	UnaryNode
	Kind JoinKind
}

var _ Join = (*CrossJoin)(nil)

// NewCrossJoin creates a new cross join.
func NewCrossJoin(table sql.Node) *CrossJoin {
	return &CrossJoin{UnaryNode{table}, Cross}
}

// NewCrossApply creates a new cross apply.
func NewCrossApply(table sql.Node) *CrossJoin {
	return &CrossJoin{UnaryNode{table}, CrossApply}
}

// NewOuterApply creates a new outer apply.
func NewOuterApply(table sql.Node) *CrossJoin {
	return &CrossJoin{UnaryNode{table}, OuterApply}
}

// Source implements the Join interface.
func (j *CrossJoin) Source() sql.Node { return j.Table }

// Update returns j if table is its current source.
func (j *CrossJoin) Update(table sql.Node) *CrossJoin {
	if table == j.Table {
		return j
	}
	return &CrossJoin{UnaryNode{table}, j.Kind}
}

// WithChildren implements the sql.Node interface.
func (j *CrossJoin) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(children), 1)
	}
	return j.Update(children[0]), nil
}

// Equal implements the expression.NodeEqualer interface.
func (j *CrossJoin) Equal(other sql.Node) bool {
	o, ok := other.(*CrossJoin)
	return ok && j.Kind == o.Kind && expression.EqualNodes(j.Table, o.Table)
}

func (j *CrossJoin) String() string {
	return fmt.Sprintf("%s %s", joinKindKeywords[j.Kind], tableString(j.Table))
}
