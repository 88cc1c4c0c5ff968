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

package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/expression"
	"github.com/dolthub/go-query-shaper/sql/plan"
	"github.com/dolthub/go-query-shaper/sql/transform"
)

func simplifyOnly() *Analyzer {
	return &Analyzer{Batches: []*Batch{{
		Desc:       "simplification",
		Iterations: maxAnalysisIterations,
		Rules:      DefaultRules,
	}}}
}

func simplifyQuery(t *testing.T, s *plan.Select) *plan.Select {
	t.Helper()
	result, _, err := simplifyOnly().Process(sql.NewEmptyContext(), s, nil)
	require.NoError(t, err)
	return result
}

func TestSimplifyExpressions(t *testing.T) {
	a := expression.NewColumn(0, sql.Int32, "t", "a", true)
	c := expression.NewColumn(1, sql.Int32, "t", "c", false)
	d := expression.NewColumn(2, sql.Int32, "t", "d", false)
	f := expression.NewColumn(3, sql.Boolean, "t", "f", false)
	s := expression.NewColumn(4, sql.Text, "t", "s", true)
	lit := func(v int32) *expression.Literal { return expression.NewLiteral(v, sql.Int32) }
	list := func(values ...interface{}) *expression.Literal { return expression.NewList(values, sql.Int32) }

	testCases := []struct {
		name      string
		predicate sql.Expression
		expected  string
	}{
		{
			"true and",
			expression.NewAnd(expression.NewBool(true), expression.NewEquals(c, lit(1))),
			"t.c = 1",
		},
		{
			"false or",
			expression.NewOr(expression.NewEquals(a, lit(1)), expression.NewBool(false)),
			"t.a = 1",
		},
		{
			"or true",
			expression.NewOr(expression.NewEquals(a, lit(1)), expression.NewBool(true)),
			"",
		},
		{
			"and false",
			expression.NewAnd(expression.NewBool(false), expression.NewEquals(a, lit(1))),
			"FALSE",
		},
		{
			"double negation",
			expression.NewNot(expression.NewNot(f)),
			"t.f",
		},
		{
			"negated constant",
			expression.NewNot(expression.NewBool(true)),
			"FALSE",
		},
		{
			"negated null test",
			expression.NewNot(expression.NewIsNull(a)),
			"t.a IS NOT NULL",
		},
		{
			"negated not null test",
			expression.NewNot(expression.NewIsNotNull(a)),
			"t.a IS NULL",
		},
		{
			"negated comparison",
			expression.NewNot(expression.NewGreaterThan(a, c)),
			"t.a <= t.c",
		},
		{
			"de morgan",
			expression.NewNot(expression.NewAnd(expression.NewEquals(a, lit(1)), expression.NewLessThan(c, d))),
			"(t.a <> 1 OR t.c >= t.d)",
		},
		{
			"negated in",
			expression.NewNot(expression.NewInValues(c, list(int32(1), int32(2)), false)),
			"t.c NOT IN (1, 2)",
		},
		{
			"null tests of the same operand",
			expression.NewAnd(expression.NewIsNull(a), expression.NewIsNotNull(a)),
			"FALSE",
		},
		{
			"repeated null test",
			expression.NewOr(expression.NewIsNull(a), expression.NewIsNull(a)),
			"t.a IS NULL",
		},
		{
			"non nullable column equals itself",
			expression.NewEquals(c, c),
			"",
		},
		{
			"non nullable column greater than itself",
			expression.NewGreaterThan(c, c),
			"FALSE",
		},
		{
			"nullable column equals itself",
			expression.NewEquals(a, a),
			"t.a = t.a",
		},
		{
			"null test equals true",
			expression.NewEquals(expression.NewIsNull(a), expression.NewBool(true)),
			"t.a IS NULL",
		},
		{
			"null test equals false",
			expression.NewEquals(expression.NewBool(false), expression.NewIsNull(a)),
			"t.a IS NOT NULL",
		},
		{
			"like not equal to true",
			expression.NewNotEquals(expression.NewLike(s, expression.NewLiteral("x%", sql.Text), nil), expression.NewBool(true)),
			"NOT(t.s LIKE 'x%')",
		},
		{
			"boolean column equals true",
			expression.NewEquals(f, expression.NewBool(true)),
			"t.f = TRUE",
		},
		{
			"equalities merged into in",
			expression.NewOr(expression.NewEquals(c, lit(1)), expression.NewEquals(lit(2), c)),
			"t.c IN (1, 2)",
		},
		{
			"chained equalities",
			expression.NewOr(
				expression.NewOr(expression.NewEquals(c, lit(1)), expression.NewEquals(c, lit(2))),
				expression.NewEquals(c, lit(3)),
			),
			"t.c IN (1, 2, 3)",
		},
		{
			"inequalities merged into not in",
			expression.NewAnd(expression.NewNotEquals(a, lit(1)), expression.NewNotEquals(a, lit(2))),
			"t.a NOT IN (1, 2)",
		},
		{
			"intersection of ins",
			expression.NewAnd(
				expression.NewInValues(a, list(int32(1), int32(2)), false),
				expression.NewInValues(a, list(int32(2), int32(3)), false),
			),
			"t.a = 2",
		},
		{
			"intersection of not ins",
			expression.NewOr(
				expression.NewInValues(c, list(int32(1), int32(2)), true),
				expression.NewInValues(c, list(int32(2), int32(3)), true),
			),
			"t.c <> 2",
		},
		{
			"empty intersection of non nullable column",
			expression.NewAnd(expression.NewEquals(c, lit(1)), expression.NewEquals(c, lit(2))),
			"FALSE",
		},
		{
			"empty intersection of nullable column",
			expression.NewAnd(expression.NewEquals(a, lit(1)), expression.NewEquals(a, lit(2))),
			"(t.a = 1 AND t.a = 2)",
		},
		{
			"mixed negations",
			expression.NewOr(expression.NewEquals(c, lit(1)), expression.NewNotEquals(c, lit(2))),
			"(t.c = 1 OR t.c <> 2)",
		},
		{
			"different columns",
			expression.NewOr(expression.NewEquals(c, lit(1)), expression.NewEquals(d, lit(2))),
			"(t.c = 1 OR t.d = 2)",
		},
		{
			"lists with nulls are not merged",
			expression.NewOr(expression.NewInValues(c, list(int32(1), nil), false), expression.NewEquals(c, lit(2))),
			"(t.c IN (1, NULL) OR t.c = 2)",
		},
		{
			"single value in",
			expression.NewInValues(a, list(int32(4)), true),
			"t.a <> 4",
		},
		{
			"empty in",
			expression.NewInValues(a, list(), false),
			"FALSE",
		},
		{
			"repeated subexpressions",
			expression.NewAnd(
				expression.NewNot(expression.NewNot(expression.NewEquals(c, lit(1)))),
				expression.NewNot(expression.NewNot(expression.NewEquals(c, lit(1)))),
			),
			"t.c = 1",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			result := simplifyQuery(t, selectWhere(tt.predicate, c))
			expected := "SELECT t.c FROM t"
			if tt.expected != "" {
				expected += " WHERE " + tt.expected
			}
			require.Equal(t, expected, result.String())
		})
	}
}

func TestSimplifyInSubqueries(t *testing.T) {
	require := require.New(t)
	c := expression.NewColumn(0, sql.Int32, "t", "c", false)
	inner := &plan.Select{
		Tables:    []sql.Node{plan.NewTable("u", "")},
		Predicate: expression.NewEquals(c, c),
	}

	result := simplifyQuery(t, selectWhere(expression.NewExists(inner, false), c))
	require.Equal("SELECT t.c FROM t WHERE EXISTS (SELECT 1 FROM u)", result.String())

	result = simplifyQuery(t, selectWhere(expression.NewNot(expression.NewExists(inner, false)), c))
	require.Equal("SELECT t.c FROM t WHERE NOT EXISTS (SELECT 1 FROM u)", result.String())
}

func TestSimplifyJoinPredicates(t *testing.T) {
	require := require.New(t)
	c := expression.NewColumn(0, sql.Int32, "t", "c", false)
	query := &plan.Select{
		Projections: []plan.Projection{{Expr: c}},
		Tables: []sql.Node{
			plan.NewTable("t", ""),
			plan.NewInnerJoin(plan.NewTable("u", ""), expression.NewOr(expression.NewBool(true), expression.NewIsNull(c))),
		},
	}

	result := simplifyQuery(t, query)
	require.Equal("SELECT t.c FROM t CROSS JOIN u", result.String())
}

func TestFlattenCase(t *testing.T) {
	require := require.New(t)
	c := expression.NewColumn(0, sql.Int32, "t", "c", false)
	lit := func(v int32) *expression.Literal { return expression.NewLiteral(v, sql.Int32) }

	nested := expression.NewCase(nil, []expression.CaseBranch{
		{Cond: expression.NewEquals(c, lit(1)), Value: lit(10)},
	}, expression.NewCase(nil, []expression.CaseBranch{
		{Cond: expression.NewEquals(c, lit(2)), Value: lit(20)},
	}, expression.NewCase(nil, []expression.CaseBranch{
		{Cond: expression.NewEquals(c, lit(3)), Value: lit(30)},
	}, nil)))

	result := simplifyQuery(t, selectWhere(nil, nested))
	require.Equal(
		"SELECT CASE WHEN t.c = 1 THEN 10 WHEN t.c = 2 THEN 20 WHEN t.c = 3 THEN 30 END FROM t",
		result.String(),
	)

	simple := expression.NewCase(c, []expression.CaseBranch{{Cond: lit(1), Value: lit(10)}},
		expression.NewCase(nil, []expression.CaseBranch{{Cond: expression.NewEquals(c, lit(2)), Value: lit(20)}}, nil))
	result = simplifyQuery(t, selectWhere(nil, simple))
	require.Equal(
		"SELECT CASE t.c WHEN 1 THEN 10 ELSE CASE WHEN t.c = 2 THEN 20 END END FROM t",
		result.String(),
	)
}

func compareToCase(a, b sql.Expression, order []int) *expression.Case {
	lit := func(v int32) *expression.Literal { return expression.NewLiteral(v, sql.Int32) }
	all := []expression.CaseBranch{
		{Cond: expression.NewEquals(a, b), Value: lit(0)},
		{Cond: expression.NewGreaterThan(a, b), Value: lit(1)},
		{Cond: expression.NewLessThan(a, b), Value: lit(-1)},
	}
	branches := make([]expression.CaseBranch, len(order))
	for i, o := range order {
		branches[i] = all[o]
	}
	return expression.NewCase(nil, branches, nil)
}

func containsCase(e sql.Expression) bool {
	return transform.InspectExpr(e, func(e sql.Expression) bool {
		_, ok := e.(*expression.Case)
		return ok
	})
}

func TestSimplifyCompareTo(t *testing.T) {
	ctx := sql.NewEmptyContext()
	ops := []expression.BinaryOp{
		expression.Equal,
		expression.NotEqual,
		expression.GreaterThan,
		expression.GreaterThanOrEqual,
		expression.LessThan,
		expression.LessThanOrEqual,
	}
	orders := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 2, 0}}

	for _, nullable := range []bool{false, true} {
		a := expression.NewColumn(0, sql.Int32, "t", "a", nullable)
		b := expression.NewColumn(1, sql.Int32, "t", "b", nullable)
		values := []interface{}{int32(1), int32(2), int32(3)}
		if nullable {
			values = append(values, nil)
		}

		for _, op := range ops {
			for k := int32(-2); k <= 2; k++ {
				for _, order := range orders {
					for _, constantLeft := range []bool{false, true} {
						name := fmt.Sprintf("nullable=%t %s %d order=%v constant left=%t", nullable, op, k, order, constantLeft)
						t.Run(name, func(t *testing.T) {
							require := require.New(t)

							compareTo := compareToCase(a, b, order)
							constant := expression.NewLiteral(k, sql.Int32)
							var original sql.Expression
							if constantLeft {
								swapped, _ := op.Swapped()
								original = expression.NewBinary(swapped, constant, compareTo, nil)
							} else {
								original = expression.NewBinary(op, compareTo, constant, nil)
							}

							result := simplifyQuery(t, selectWhere(nil, original))
							rewritten := result.Projections[0].Expr

							outOfRange := k < -1 || k > 1
							_, isConstant := expression.BoolValue(rewritten)
							require.Equal(outOfRange || (nullable && isConstantCompareTo(op, k)), containsCase(rewritten), rewritten.String())
							if nullable {
								require.False(isConstant)
							}

							for _, l := range values {
								for _, r := range values {
									row := sql.NewRow(l, r)
									expected, err := original.Eval(ctx, row)
									require.NoError(err)
									actual, err := rewritten.Eval(ctx, row)
									require.NoError(err)
									require.Equal(expected, actual, "a=%v b=%v", l, r)
								}
							}
						})
					}
				}
			}
		}
	}
}

func isConstantCompareTo(op expression.BinaryOp, k int32) bool {
	switch {
	case op == expression.GreaterThan && k == 1,
		op == expression.GreaterThanOrEqual && k == -1,
		op == expression.LessThan && k == -1,
		op == expression.LessThanOrEqual && k == 1:
		return true
	}
	return false
}

func TestCompareToOperands(t *testing.T) {
	require := require.New(t)
	a := expression.NewColumn(0, sql.Int32, "t", "a", false)
	b := expression.NewColumn(1, sql.Int32, "t", "b", false)
	lit := func(v int32) *expression.Literal { return expression.NewLiteral(v, sql.Int32) }

	left, right, ok := compareToOperands(compareToCase(a, b, []int{0, 1, 2}))
	require.True(ok)
	require.Same(a, left)
	require.Same(b, right)

	mismatched := expression.NewCase(nil, []expression.CaseBranch{
		{Cond: expression.NewEquals(a, b), Value: lit(0)},
		{Cond: expression.NewGreaterThan(b, a), Value: lit(1)},
		{Cond: expression.NewLessThan(a, b), Value: lit(-1)},
	}, nil)
	_, _, ok = compareToOperands(mismatched)
	require.False(ok)

	wrongValue := expression.NewCase(nil, []expression.CaseBranch{
		{Cond: expression.NewEquals(a, b), Value: lit(0)},
		{Cond: expression.NewGreaterThan(a, b), Value: lit(-1)},
		{Cond: expression.NewLessThan(a, b), Value: lit(1)},
	}, nil)
	_, _, ok = compareToOperands(wrongValue)
	require.False(ok)

	withElse := expression.NewCase(nil, compareToCase(a, b, []int{0, 1, 2}).Branches, lit(0))
	_, _, ok = compareToOperands(withElse)
	require.False(ok)
}
