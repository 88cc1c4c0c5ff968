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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/expression"
)

func testSelect() *Select {
	id := expression.NewColumn(0, sql.Int32, "c", "id", false)
	name := expression.NewColumn(1, sql.Text, "c", "name", true)
	orderID := expression.NewColumn(2, sql.Int32, "o", "customer_id", true)
	return &Select{
		Projections: []Projection{{Expr: id}, {Expr: name, Alias: "n"}},
		Tables: []sql.Node{
			NewTable("customers", "c"),
			NewLeftJoin(NewTable("orders", "o"), expression.NewEquals(id, orderID)),
		},
		Predicate: expression.NewIsNotNull(name),
		Orderings: []expression.Ordering{{Expr: id, Ascending: true}},
		Limit:     expression.NewLiteral(int32(10), sql.Int32),
	}
}

func TestSelectString(t *testing.T) {
	require := require.New(t)
	require.Equal(
		"SELECT c.id, c.name AS n FROM customers AS c LEFT JOIN orders AS o ON c.id = o.customer_id "+
			"WHERE c.name IS NOT NULL ORDER BY c.id ASC LIMIT 10",
		testSelect().String(),
	)

	sub := testSelect()
	sub.Alias = "s"
	outer := &Select{Tables: []sql.Node{sub, NewCrossApply(NewTable("items", "i"))}}
	require.Equal(
		"SELECT 1 FROM ("+testSelect().String()+") AS s CROSS APPLY items AS i",
		outer.String(),
	)
}

func TestSelectUpdate(t *testing.T) {
	require := require.New(t)

	s := testSelect()
	require.Same(s, s.Update(s.Projections, s.Tables, s.Predicate, s.GroupBy, s.Having, s.Orderings, s.Limit, s.Offset))

	updated := s.Update(s.Projections, s.Tables, nil, s.GroupBy, s.Having, s.Orderings, s.Limit, s.Offset)
	require.NotSame(s, updated)
	require.Nil(updated.Predicate)
	require.NotNil(s.Predicate)

	exprs := s.Expressions()
	require.Len(exprs, 5)
	n, err := s.WithExpressions(exprs...)
	require.NoError(err)
	require.Same(s, n)

	exprs[2] = expression.NewBool(true)
	n, err = s.WithExpressions(exprs...)
	require.NoError(err)
	require.NotSame(s, n)
	require.True(expression.IsTrue(n.(*Select).Predicate))

	_, err = s.WithExpressions(exprs[1:]...)
	require.True(sql.ErrInvalidChildrenNumber.Is(err))
}

func TestNodeEqual(t *testing.T) {
	require := require.New(t)

	require.True(expression.EqualNodes(testSelect(), testSelect()))

	other := testSelect()
	other.Distinct = true
	require.False(expression.EqualNodes(testSelect(), other))

	u1 := NewUnion(testSelect(), testSelect(), true, "u")
	u2 := NewUnion(testSelect(), testSelect(), true, "u")
	require.True(u1.Equal(u2))
	require.False(u1.Equal(NewExcept(testSelect(), testSelect(), true, "u")))

	require.True(NewCrossJoin(NewTable("t", "")).Equal(NewCrossJoin(NewTable("t", ""))))
	require.False(NewCrossJoin(NewTable("t", "")).Equal(NewOuterApply(NewTable("t", ""))))
	require.Equal("u", Alias(u1))
	require.Equal("o", Alias(testSelect().Tables[1]))
}

func TestFromSqlString(t *testing.T) {
	require := require.New(t)

	f := NewFromSql("SELECT * FROM t WHERE a = {0} AND b = {1}", expression.NewParameter("args", nil), "t")
	require.False(f.IsExpanded())
	require.Equal("(SELECT * FROM t WHERE a = {0} AND b = {1}) AS t", f.String())

	expanded := f.WithExpansion([]FromSqlArgument{
		{Name: "p0"},
		{Value: expression.NewLiteral("x", nil)},
	}, nil)
	require.True(expanded.IsExpanded())
	require.Equal("(SELECT * FROM t WHERE a = @p0 AND b = 'x') AS t", expanded.String())
	require.False(f.Equal(expanded))
}
