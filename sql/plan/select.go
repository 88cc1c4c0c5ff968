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
	"bytes"
	"strings"

	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/expression"
)

// Projection is a projected expression of a SELECT.
type Projection struct {
	Expr  sql.Expression
	Alias string
}

func (p Projection) String() string {
	return aliased(p.Expr.String(), p.Alias)
}

// Select is a SELECT query. Tables holds the table sources in FROM order;
// every source but the first is usually a Join.
type Select struct {
	Projections []Projection
	Tables      []sql.Node
	Predicate   sql.Expression
	GroupBy     []sql.Expression
	Having      sql.Expression
	Orderings   []expression.Ordering
	Limit       sql.Expression
	Offset      sql.Expression
	Distinct    bool
	Alias       string
}

var _ sql.Node = (*Select)(nil)
var _ sql.Expressioner = (*Select)(nil)

// Update returns s if every given part is its current one, and a copy of s
// with the new parts otherwise.
func (s *Select) Update(
	projections []Projection,
	tables []sql.Node,
	predicate sql.Expression,
	groupBy []sql.Expression,
	having sql.Expression,
	orderings []expression.Ordering,
	limit sql.Expression,
	offset sql.Expression,
) *Select {
	if sameProjections(projections, s.Projections) &&
		sameNodes(tables, s.Tables) &&
		predicate == s.Predicate &&
		sameExprs(groupBy, s.GroupBy) &&
		having == s.Having &&
		sameOrderings(orderings, s.Orderings) &&
		limit == s.Limit &&
		offset == s.Offset {
		return s
	}
	return &Select{
		Projections: projections,
		Tables:      tables,
		Predicate:   predicate,
		GroupBy:     groupBy,
		Having:      having,
		Orderings:   orderings,
		Limit:       limit,
		Offset:      offset,
		Distinct:    s.Distinct,
		Alias:       s.Alias,
	}
}

func sameProjections(a, b []Projection) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Expr != b[i].Expr || a[i].Alias != b[i].Alias {
			return false
		}
	}
	return true
}

func sameOrderings(a, b []expression.Ordering) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Expr != b[i].Expr || a[i].Ascending != b[i].Ascending {
			return false
		}
	}
	return true
}

// Children implements the sql.Node interface.
func (s *Select) Children() []sql.Node { return s.Tables }

// WithChildren implements the sql.Node interface.
func (s *Select) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != len(s.Tables) {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), len(s.Tables))
	}
	return s.Update(s.Projections, children, s.Predicate, s.GroupBy, s.Having, s.Orderings, s.Limit, s.Offset), nil
}

// Expressions implements the sql.Expressioner interface. Optional parts are
// only present when set, in the order projections, predicate, group by,
// having, orderings, limit and offset.
func (s *Select) Expressions() []sql.Expression {
	var exprs []sql.Expression
	for _, p := range s.Projections {
		exprs = append(exprs, p.Expr)
	}
	if s.Predicate != nil {
		exprs = append(exprs, s.Predicate)
	}
	exprs = append(exprs, s.GroupBy...)
	if s.Having != nil {
		exprs = append(exprs, s.Having)
	}
	for _, o := range s.Orderings {
		exprs = append(exprs, o.Expr)
	}
	if s.Limit != nil {
		exprs = append(exprs, s.Limit)
	}
	if s.Offset != nil {
		exprs = append(exprs, s.Offset)
	}
	return exprs
}

// WithExpressions implements the sql.Expressioner interface.
func (s *Select) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	expected := len(s.Expressions())
	if len(exprs) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(exprs), expected)
	}

	next := func() sql.Expression {
		e := exprs[0]
		exprs = exprs[1:]
		return e
	}

	projections := make([]Projection, len(s.Projections))
	for i, p := range s.Projections {
		projections[i] = Projection{Expr: next(), Alias: p.Alias}
	}
	var predicate, having, limit, offset sql.Expression
	if s.Predicate != nil {
		predicate = next()
	}
	var groupBy []sql.Expression
	if len(s.GroupBy) > 0 {
		groupBy = make([]sql.Expression, len(s.GroupBy))
		for i := range groupBy {
			groupBy[i] = next()
		}
	}
	if s.Having != nil {
		having = next()
	}
	var orderings []expression.Ordering
	if len(s.Orderings) > 0 {
		orderings = make([]expression.Ordering, len(s.Orderings))
		for i, o := range s.Orderings {
			orderings[i] = expression.Ordering{Expr: next(), Ascending: o.Ascending}
		}
	}
	if s.Limit != nil {
		limit = next()
	}
	if s.Offset != nil {
		offset = next()
	}

	return s.Update(projections, s.Tables, predicate, groupBy, having, orderings, limit, offset), nil
}

// Equal implements the expression.NodeEqualer interface.
func (s *Select) Equal(other sql.Node) bool {
	o, ok := other.(*Select)
	if !ok || s.Distinct != o.Distinct || s.Alias != o.Alias ||
		len(s.Projections) != len(o.Projections) || len(s.Orderings) != len(o.Orderings) {
		return false
	}
	for i := range s.Projections {
		if s.Projections[i].Alias != o.Projections[i].Alias || !expression.EqualExprs(s.Projections[i].Expr, o.Projections[i].Expr) {
			return false
		}
	}
	for i := range s.Orderings {
		if s.Orderings[i].Ascending != o.Orderings[i].Ascending || !expression.EqualExprs(s.Orderings[i].Expr, o.Orderings[i].Expr) {
			return false
		}
	}
	return equalNodeSlices(s.Tables, o.Tables) &&
		expression.EqualExprs(s.Predicate, o.Predicate) &&
		expression.EqualSlices(s.GroupBy, o.GroupBy) &&
		expression.EqualExprs(s.Having, o.Having) &&
		expression.EqualExprs(s.Limit, o.Limit) &&
		expression.EqualExprs(s.Offset, o.Offset)
}

func (s *Select) String() string {
	var buf bytes.Buffer
	buf.WriteString("SELECT ")
	if s.Distinct {
		buf.WriteString("DISTINCT ")
	}
	if len(s.Projections) == 0 {
		buf.WriteString("1")
	}
	for i, p := range s.Projections {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(p.String())
	}

	if len(s.Tables) > 0 {
		buf.WriteString(" FROM ")
		for i, t := range s.Tables {
			if i > 0 {
				if _, ok := t.(Join); ok {
					buf.WriteString(" ")
				} else {
					buf.WriteString(", ")
				}
			}
			buf.WriteString(tableString(t))
		}
	}

	if s.Predicate != nil {
		buf.WriteString(" WHERE ")
		buf.WriteString(s.Predicate.String())
	}
	if len(s.GroupBy) > 0 {
		buf.WriteString(" GROUP BY ")
		buf.WriteString(joinExprs(s.GroupBy))
	}
	if s.Having != nil {
		buf.WriteString(" HAVING ")
		buf.WriteString(s.Having.String())
	}
	if len(s.Orderings) > 0 {
		parts := make([]string, len(s.Orderings))
		for i, o := range s.Orderings {
			parts[i] = o.String()
		}
		buf.WriteString(" ORDER BY ")
		buf.WriteString(strings.Join(parts, ", "))
	}
	if s.Limit != nil {
		buf.WriteString(" LIMIT ")
		buf.WriteString(s.Limit.String())
	}
	if s.Offset != nil {
		buf.WriteString(" OFFSET ")
		buf.WriteString(s.Offset.String())
	}
	return buf.String()
}

func joinExprs(exprs []sql.Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
