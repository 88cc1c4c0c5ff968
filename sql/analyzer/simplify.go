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
	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/expression"
	"github.com/dolthub/go-query-shaper/sql/plan"
	"github.com/dolthub/go-query-shaper/sql/transform"
)

// simplifyExpressions applies one step of boolean and algebraic
// simplification to every expression of the tree. The batch runs it until
// nothing changes.
func simplifyExpressions(ctx *sql.Context, a *Analyzer, n sql.Node, st *State) (sql.Node, transform.TreeIdentity, error) {
	span, ctx := ctx.Span("simplify_expressions")
	defer span.Finish()

	s := newSimplifier()
	result, same, err := transform.NodeExprs(n, s.simplify)
	if err != nil {
		return nil, transform.SameTree, err
	}

	result, samePredicates, err := transform.NodeWithSubqueries(result, removeConstantPredicates)
	if err != nil {
		return nil, transform.SameTree, err
	}

	if !same || !samePredicates {
		a.Log("simplified %d distinct expressions", s.rewritten)
	}
	return result, same && samePredicates, nil
}

type memoEntry struct {
	from    sql.Expression
	to      sql.Expression
	changed bool
}

// simplifier memoizes the rewrites of one pass, so that repeated
// subexpressions are only simplified once.
type simplifier struct {
	memo      map[uint64][]memoEntry
	rewritten int
}

func newSimplifier() *simplifier {
	return &simplifier{memo: make(map[uint64][]memoEntry)}
}

func (s *simplifier) simplify(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
	h := expression.Hash(e)
	for _, m := range s.memo[h] {
		if expression.EqualExprs(m.from, e) {
			if !m.changed {
				return e, transform.SameTree, nil
			}
			return m.to, transform.NewTree, nil
		}
	}

	result, err := simplifyOnce(e)
	if err != nil {
		return nil, transform.SameTree, err
	}

	changed := result != e
	if changed {
		s.rewritten++
	}
	s.memo[h] = append(s.memo[h], memoEntry{from: e, to: result, changed: changed})
	return result, transform.TreeIdentity(!changed), nil
}

// simplifyOnce applies the first simplification that matches e. The
// children of e are already simplified.
func simplifyOnce(e sql.Expression) (sql.Expression, error) {
	switch e := e.(type) {
	case *expression.Unary:
		if e.Op == expression.Not {
			return simplifyNot(e), nil
		}
	case *expression.Binary:
		if e.Op.IsLogical() {
			if r := simplifyLogical(e); r != sql.Expression(e) {
				return r, nil
			}
			return mergeIn(e)
		}
		if e.Op.IsComparison() {
			return simplifyComparison(e), nil
		}
	case *expression.In:
		return splitIn(e), nil
	case *expression.Case:
		return flattenCase(e), nil
	}
	return e, nil
}

// simplifyNot rewrites NOT of expressions with a negated form. All of them
// keep the result null whenever the original one was.
func simplifyNot(u *expression.Unary) sql.Expression {
	switch o := u.Operand.(type) {
	case *expression.Literal:
		// !true -> false
		// !false -> true
		if v, ok := expression.BoolValue(o); ok {
			return expression.NewBool(!v)
		}
	case *expression.Unary:
		switch o.Op {
		// !!a -> a
		case expression.Not:
			return o.Operand
		// !(a IS NULL) -> a IS NOT NULL
		case expression.IsNull:
			return expression.NewIsNotNull(o.Operand)
		// !(a IS NOT NULL) -> a IS NULL
		case expression.IsNotNull:
			return expression.NewIsNull(o.Operand)
		}
	case *expression.In:
		return o.Negate()
	case *expression.Exists:
		return expression.NewExists(o.Query, !o.Negated)
	case *expression.Binary:
		// !(a && b) -> !a || !b
		// !(a || b) -> !a && !b
		if o.Op.IsLogical() {
			return expression.NewBinary(flipLogical(o.Op), expression.NewNot(o.Left), expression.NewNot(o.Right), nil)
		}
		// !(a > b) -> a <= b
		if negated, ok := o.Op.Negated(); ok {
			return expression.NewBinary(negated, o.Left, o.Right, nil)
		}
	}
	return u
}

func simplifyComparison(b *expression.Binary) sql.Expression {
	// a == a -> true
	// a > a -> false
	if isNonNullable(b.Left) && expression.EqualExprs(b.Left, b.Right) {
		switch b.Op {
		case expression.Equal, expression.GreaterThanOrEqual, expression.LessThanOrEqual:
			return expression.NewBool(true)
		default:
			return expression.NewBool(false)
		}
	}

	if b.Op == expression.Equal || b.Op == expression.NotEqual {
		if r, ok := simplifyBoolComparison(b, b.Left, b.Right); ok {
			return r
		}
		if r, ok := simplifyBoolComparison(b, b.Right, b.Left); ok {
			return r
		}
	}

	return simplifyCompareTo(b)
}

// simplifyBoolComparison removes the comparison of a boolean constant with
// a predicate that is never null.
//
// a == true -> a
// a == false -> !a
// a != true -> !a
// a != false -> a
func simplifyBoolComparison(b *expression.Binary, operand, constant sql.Expression) (sql.Expression, bool) {
	v, ok := expression.BoolValue(constant)
	if !ok {
		return nil, false
	}

	switch o := operand.(type) {
	case *expression.Unary:
		if o.Op != expression.IsNull && o.Op != expression.IsNotNull {
			return nil, false
		}
	case *expression.Like:
	default:
		return nil, false
	}

	if (b.Op == expression.Equal) == v {
		return operand, true
	}
	return expression.NewNot(operand), true
}

// removeConstantPredicates drops predicates that were simplified to true.
func removeConstantPredicates(n sql.Node) (sql.Node, transform.TreeIdentity, error) {
	switch n := n.(type) {
	case *plan.Select:
		predicate, having := n.Predicate, n.Having
		if expression.IsTrue(predicate) {
			predicate = nil
		}
		if expression.IsTrue(having) {
			having = nil
		}
		result := n.Update(n.Projections, n.Tables, predicate, n.GroupBy, having, n.Orderings, n.Limit, n.Offset)
		return result, transform.TreeIdentity(result == n), nil
	case *plan.InnerJoin:
		if expression.IsTrue(n.Predicate) {
			return plan.NewCrossJoin(n.Table), transform.NewTree, nil
		}
	}
	return n, transform.SameTree, nil
}

// isNonNullable reports whether e is a column or constant that can never
// be null.
func isNonNullable(e sql.Expression) bool {
	switch e := e.(type) {
	case *expression.Column:
		return !e.IsNullable()
	case *expression.Literal:
		return !e.IsNull()
	}
	return false
}
