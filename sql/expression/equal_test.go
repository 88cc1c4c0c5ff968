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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-query-shaper/sql"
)

func TestEqualAndHash(t *testing.T) {
	build := func(v int32) sql.Expression {
		a := NewColumn(0, sql.Int32, "t", "a", true)
		return NewOr(
			NewAnd(NewEquals(a, NewLiteral(v, sql.Int32)), NewIsNotNull(a)),
			NewInValues(a, NewList([]interface{}{int32(1), int32(2)}, sql.Int32), true),
		)
	}

	testCases := []struct {
		name  string
		a, b  sql.Expression
		equal bool
	}{
		{"same tree", build(1), build(1), true},
		{"different literal", build(1), build(2), false},
		{
			"different nullability",
			NewColumn(0, sql.Int32, "t", "a", true),
			NewColumn(0, sql.Int32, "t", "a", false),
			false,
		},
		{
			"negated in",
			NewInValues(NewLiteral(1, nil), NewParameter("p", nil), false),
			NewInValues(NewLiteral(1, nil), NewParameter("p", nil), true),
			false,
		},
		{
			"searched and simple case",
			NewCase(nil, []CaseBranch{{Cond: NewBool(true), Value: NewBool(true)}}, nil),
			NewCase(NewBool(true), []CaseBranch{{Cond: NewBool(true), Value: NewBool(true)}}, nil),
			false,
		},
		{
			"like with escape",
			NewLike(NewLiteral("a", nil), NewLiteral("b", nil), NewLiteral("c", nil)),
			NewLike(NewLiteral("a", nil), NewLiteral("b", nil), NewLiteral("c", nil)),
			true,
		},
		{"literal types", NewLiteral(int32(1), nil), NewLiteral(int64(1), nil), false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			require.Equal(tt.equal, EqualExprs(tt.a, tt.b))
			require.Equal(tt.equal, EqualExprs(tt.b, tt.a))
			if tt.equal {
				require.Equal(Hash(tt.a), Hash(tt.b))
			} else {
				require.NotEqual(Hash(tt.a), Hash(tt.b))
			}
		})
	}
}

func TestUpdateKeepsIdentity(t *testing.T) {
	require := require.New(t)

	a := NewColumn(0, sql.Int32, "t", "a", true)
	one := NewLiteral(int32(1), sql.Int32)

	eq := NewEquals(a, one)
	require.Same(eq, eq.Update(a, one))
	require.NotSame(eq, eq.Update(one, a))

	not := NewNot(eq)
	require.Same(not, not.Update(eq))

	in := NewInValues(a, NewList([]interface{}{int32(1)}, sql.Int32), false)
	require.Same(in, in.Update(in.Item, in.Values, nil))
	require.True(in.Negate().Negated)
	require.False(in.Negated)

	f := NewCoalesce(a, one)
	require.Same(f, f.Update([]sql.Expression{a, one}))

	rn := NewRowNumber([]sql.Expression{a}, []Ordering{{Expr: one, Ascending: true}})
	require.Same(rn, rn.Update([]sql.Expression{a}, []Ordering{{Expr: one, Ascending: true}}))
	require.Equal("ROW_NUMBER() OVER(PARTITION BY t.a ORDER BY 1 ASC)", rn.String())
}

func TestContainsParameter(t *testing.T) {
	require := require.New(t)

	a := NewColumn(0, sql.Int32, "t", "a", true)
	require.False(ContainsParameter(NewEquals(a, NewLiteral(int32(1), nil))))
	require.True(ContainsParameter(NewAnd(NewBool(true), NewEquals(a, NewParameter("p", sql.Int32)))))
}
