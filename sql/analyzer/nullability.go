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

// processNullSemantics rewrites equality comparisons so that they follow
// two-valued logic where nulls compare equal to each other, specializing
// the query for the nullability of its parameter values on the way.
func processNullSemantics(ctx *sql.Context, a *Analyzer, n sql.Node, st *State) (sql.Node, transform.TreeIdentity, error) {
	span, ctx := ctx.Span("process_null_semantics")
	defer span.Finish()

	a.Log("processing null semantics, relational nulls: %t", a.Options.UseRelationalNulls)
	p := &nullabilityProcessor{
		st:              st,
		relationalNulls: a.Options.UseRelationalNulls,
		optimized:       a.Options.OptimizedNullExpansion,
	}

	result, err := p.visitTable(n)
	if err != nil {
		return nil, transform.SameTree, err
	}
	return result, transform.TreeIdentity(result == n), nil
}

// columnSet is a list of columns known not to be null.
type columnSet []*expression.Column

func (s columnSet) contains(c *expression.Column) bool {
	for _, col := range s {
		if expression.EqualExprs(col, c) {
			return true
		}
	}
	return false
}

// with returns a new set holding the columns of s and cols.
func (s columnSet) with(cols columnSet) columnSet {
	if len(cols) == 0 {
		return s
	}
	result := make(columnSet, len(s), len(s)+len(cols))
	copy(result, s)
	return append(result, cols...)
}

func (s columnSet) intersect(other columnSet) columnSet {
	var result columnSet
	for _, c := range s {
		if other.contains(c) {
			result = append(result, c)
		}
	}
	return result
}

// nullInfo is what visiting an expression tells about it.
type nullInfo struct {
	nullable bool
	// nonNull are the columns that cannot be null whenever the visited
	// expression is true.
	nonNull columnSet
}

// nullabilityProcessor holds the options of one rewrite. Everything that
// changes while walking the tree is passed along explicitly.
type nullabilityProcessor struct {
	st              *State
	relationalNulls bool
	optimized       bool
}

func (p *nullabilityProcessor) visitTable(n sql.Node) (sql.Node, error) {
	switch n := n.(type) {
	case *plan.Select:
		return p.visitSelect(n)
	case *plan.Table, *plan.FromSql:
		return n, nil
	case *plan.CrossJoin:
		table, err := p.visitTable(n.Table)
		if err != nil {
			return nil, err
		}
		return n.Update(table), nil
	case *plan.InnerJoin:
		table, err := p.visitTable(n.Table)
		if err != nil {
			return nil, err
		}
		predicate, err := p.processJoinPredicate(n.Predicate)
		if err != nil {
			return nil, err
		}
		if expression.IsTrue(predicate) {
			return plan.NewCrossJoin(table), nil
		}
		return n.Update(table, predicate), nil
	case *plan.LeftJoin:
		table, err := p.visitTable(n.Table)
		if err != nil {
			return nil, err
		}
		predicate, err := p.processJoinPredicate(n.Predicate)
		if err != nil {
			return nil, err
		}
		return n.Update(table, predicate), nil
	case *plan.SetOperation:
		left, err := p.visitTable(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := p.visitTable(n.Right)
		if err != nil {
			return nil, err
		}
		return n.Update(left, right), nil
	default:
		return n, nil
	}
}

func (p *nullabilityProcessor) visitSelect(s *plan.Select) (*plan.Select, error) {
	projections := make([]plan.Projection, len(s.Projections))
	for i, proj := range s.Projections {
		e, _, err := p.visit(proj.Expr, false, nil)
		if err != nil {
			return nil, err
		}
		projections[i] = plan.Projection{Expr: e, Alias: proj.Alias}
	}

	tables := make([]sql.Node, len(s.Tables))
	for i, t := range s.Tables {
		table, err := p.visitTable(t)
		if err != nil {
			return nil, err
		}
		tables[i] = table
	}

	predicate, _, err := p.visit(s.Predicate, p.optimized, nil)
	if err != nil {
		return nil, err
	}
	if expression.IsTrue(predicate) {
		predicate = nil
	}

	groupBy, err := p.visitAll(s.GroupBy)
	if err != nil {
		return nil, err
	}

	having, _, err := p.visit(s.Having, p.optimized, nil)
	if err != nil {
		return nil, err
	}
	if expression.IsTrue(having) {
		having = nil
	}

	orderings, err := p.visitOrderings(s.Orderings)
	if err != nil {
		return nil, err
	}

	limit, _, err := p.visit(s.Limit, false, nil)
	if err != nil {
		return nil, err
	}
	offset, _, err := p.visit(s.Offset, false, nil)
	if err != nil {
		return nil, err
	}

	return s.Update(projections, tables, predicate, groupBy, having, orderings, limit, offset), nil
}

func (p *nullabilityProcessor) visitAll(exprs []sql.Expression) ([]sql.Expression, error) {
	if exprs == nil {
		return nil, nil
	}
	result := make([]sql.Expression, len(exprs))
	for i, e := range exprs {
		var err error
		result[i], _, err = p.visit(e, false, nil)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (p *nullabilityProcessor) visitOrderings(orderings []expression.Ordering) ([]expression.Ordering, error) {
	if orderings == nil {
		return nil, nil
	}
	result := make([]expression.Ordering, len(orderings))
	for i, o := range orderings {
		e, _, err := p.visit(o.Expr, false, nil)
		if err != nil {
			return nil, err
		}
		result[i] = expression.Ordering{Expr: e, Ascending: o.Ascending}
	}
	return result, nil
}

// visit rewrites e and computes its nullability. allowOptimized tells
// whether e is in a position where a null result is equivalent to false.
// scope holds the columns known not to be null at this point.
func (p *nullabilityProcessor) visit(e sql.Expression, allowOptimized bool, scope columnSet) (sql.Expression, nullInfo, error) {
	switch e := e.(type) {
	case nil:
		return nil, nullInfo{}, nil
	case *expression.Case:
		return p.visitCase(e, allowOptimized, scope)
	case *expression.Column:
		return e, nullInfo{nullable: e.IsNullable() && !scope.contains(e)}, nil
	case *expression.Exists:
		return p.visitExists(e)
	case *expression.In:
		return p.visitIn(e, allowOptimized, scope)
	case *expression.Like:
		return p.visitLike(e, scope)
	case *expression.RowNumber:
		return p.visitRowNumber(e, scope)
	case *expression.ScalarSubquery:
		q, err := p.visitTable(e.Query)
		if err != nil {
			return nil, nullInfo{}, err
		}
		return e.Update(q), nullInfo{nullable: true}, nil
	case *expression.Binary:
		return p.visitBinary(e, allowOptimized, scope)
	case *expression.Literal:
		return e, nullInfo{nullable: e.IsNull()}, nil
	case *expression.Fragment:
		return e, nullInfo{}, nil
	case *expression.Function:
		return p.visitFunction(e, scope)
	case *expression.Parameter:
		return p.visitParameter(e)
	case *expression.Unary:
		return p.visitUnary(e, scope)
	default:
		return e, nullInfo{nullable: true}, nil
	}
}

func (p *nullabilityProcessor) visitCase(c *expression.Case, allowOptimized bool, scope columnSet) (sql.Expression, nullInfo, error) {
	// without ELSE the result is null when no condition matches
	nullable := c.Else == nil

	operand, _, err := p.visit(c.Expr, false, scope)
	if err != nil {
		return nil, nullInfo{}, err
	}

	testIsCondition := c.Expr == nil
	var (
		branches       []expression.CaseBranch
		testAlwaysTrue bool
	)
	for _, b := range c.Branches {
		test, testInfo, err := p.visit(b.Cond, allowOptimized && testIsCondition, scope)
		if err != nil {
			return nil, nullInfo{}, err
		}

		if v, ok := expression.BoolValue(test); ok && testIsCondition {
			if !v {
				continue
			}
			testAlwaysTrue = true
		}

		// the result only runs when the test is true
		value, valueInfo, err := p.visit(b.Value, false, scope.with(testInfo.nonNull))
		if err != nil {
			return nil, nullInfo{}, err
		}
		nullable = nullable || valueInfo.nullable
		branches = append(branches, expression.CaseBranch{Cond: test, Value: value})

		// nothing after an always true test can run
		if testAlwaysTrue {
			break
		}
	}

	var elseExpr sql.Expression
	if !testAlwaysTrue {
		var elseInfo nullInfo
		elseExpr, elseInfo, err = p.visit(c.Else, false, scope)
		if err != nil {
			return nil, nullInfo{}, err
		}
		nullable = nullable || elseInfo.nullable
	}

	if len(branches) == 0 {
		if elseExpr != nil {
			return elseExpr, nullInfo{nullable: nullable}, nil
		}
		return expression.NewNull(c.Type()), nullInfo{nullable: true}, nil
	}

	if elseExpr == nil && len(branches) == 1 && testIsCondition && expression.IsTrue(branches[0].Cond) {
		return branches[0].Value, nullInfo{nullable: nullable}, nil
	}

	return c.Update(operand, branches, elseExpr), nullInfo{nullable: nullable}, nil
}

func (p *nullabilityProcessor) visitExists(e *expression.Exists) (sql.Expression, nullInfo, error) {
	q, err := p.visitTable(e.Query)
	if err != nil {
		return nil, nullInfo{}, err
	}

	// a subquery filtering out every row has no rows
	if s, ok := q.(*plan.Select); ok && expression.IsFalse(s.Predicate) {
		return expression.NewBool(e.Negated), nullInfo{}, nil
	}
	return e.Update(q), nullInfo{}, nil
}

func (p *nullabilityProcessor) visitIn(in *expression.In, allowOptimized bool, scope columnSet) (sql.Expression, nullInfo, error) {
	item, itemInfo, err := p.visit(in.Item, false, scope)
	if err != nil {
		return nil, nullInfo{}, err
	}

	if in.Query != nil {
		q, err := p.visitTable(in.Query)
		if err != nil {
			return nil, nullInfo{}, err
		}

		s, isSelect := q.(*plan.Select)
		if isSelect && expression.IsFalse(s.Predicate) {
			return expression.NewBool(in.Negated), nullInfo{}, nil
		}

		// a non nullable item compared with a non nullable column is never null
		nullable := true
		if isSelect && !itemInfo.nullable && len(s.Projections) == 1 {
			if c, ok := s.Projections[0].Expr.(*expression.Column); ok && !c.IsNullable() {
				nullable = false
			}
		}
		return in.Update(item, nil, q), nullInfo{nullable: nullable}, nil
	}

	switch in.Values.(type) {
	case *expression.Literal, *expression.Parameter:
	default:
		return in.Update(item, in.Values, nil), nullInfo{nullable: true}, nil
	}

	// relational null semantics keep the nulls in the list
	if p.relationalNulls {
		values, mapping, _, err := p.inValues(in.Values, false)
		if err != nil {
			return nil, nullInfo{}, err
		}
		if len(values) == 0 {
			return expression.NewBool(in.Negated), nullInfo{}, nil
		}
		return simplifyInValues(in.Update(item, expression.NewList(values, mapping), nil)),
			nullInfo{nullable: itemInfo.nullable}, nil
	}

	values, mapping, hasNull, err := p.inValues(in.Values, true)
	if err != nil {
		return nil, nullInfo{}, err
	}

	// the list is empty or only holds nulls:
	// a IN () -> false
	// non_nullable IN (NULL) -> false
	// a NOT IN () -> true
	// non_nullable NOT IN (NULL) -> true
	// nullable IN (NULL) -> nullable IS NULL
	// nullable NOT IN (NULL) -> nullable IS NOT NULL
	if len(values) == 0 {
		if !hasNull || !itemInfo.nullable {
			return expression.NewBool(in.Negated), nullInfo{}, nil
		}
		if in.Negated {
			return expression.NewIsNotNull(item), nullInfo{}, nil
		}
		return expression.NewIsNull(item), nullInfo{}, nil
	}

	simplified := simplifyInValues(in.Update(item, expression.NewList(values, mapping), nil))

	// non_nullable IN (1, 2, NULL) -> non_nullable IN (1, 2)
	// non_nullable NOT IN (1, 2, NULL) -> non_nullable NOT IN (1, 2)
	// nullable IN (1, 2) -> nullable IN (1, 2) (optimized)
	if !itemInfo.nullable || (allowOptimized && !in.Negated && !hasNull) {
		return simplified, nullInfo{}, nil
	}

	// nullable IN (1, 2) -> nullable IN (1, 2) AND nullable IS NOT NULL
	// nullable IN (1, 2, NULL) -> nullable IN (1, 2) OR nullable IS NULL
	// nullable NOT IN (1, 2) -> nullable NOT IN (1, 2) OR nullable IS NULL
	// nullable NOT IN (1, 2, NULL) -> nullable NOT IN (1, 2) AND nullable IS NOT NULL
	if in.Negated == hasNull {
		return expression.NewAnd(simplified, expression.NewIsNotNull(item)), nullInfo{}, nil
	}
	return expression.NewOr(simplified, expression.NewIsNull(item)), nullInfo{}, nil
}

// inValues returns the values of an IN list, taking them from the
// parameter values when the list is a parameter.
func (p *nullabilityProcessor) inValues(e sql.Expression, extractNulls bool) ([]interface{}, *sql.TypeMapping, bool, error) {
	var (
		raw     []interface{}
		mapping = e.Type()
	)
	switch e := e.(type) {
	case *expression.Literal:
		list, ok := e.List()
		if !ok {
			list = []interface{}{e.Value()}
		}
		raw = list
	case *expression.Parameter:
		p.st.DoNotCache()
		v, err := p.st.parameterValue(e.Name())
		if err != nil {
			return nil, nil, false, err
		}
		list, ok := sql.ListValue(v)
		if !ok {
			return nil, nil, false, sql.ErrInvalidParameterValue.New(e.Name(), "a list", v)
		}
		raw = list
	}

	values := make([]interface{}, 0, len(raw))
	hasNull := false
	for _, v := range raw {
		if extractNulls && sql.IsNullValue(v) {
			hasNull = true
			continue
		}
		values = append(values, v)
	}
	return values, mapping, hasNull, nil
}

// simplifyInValues turns an IN over a single value into a comparison.
func simplifyInValues(in *expression.In) sql.Expression {
	values, ok := listOf(in.Values)
	if !ok || len(values) != 1 {
		return in
	}
	value := expression.NewLiteral(values[0], in.Values.Type())
	if in.Negated {
		return expression.NewNotEquals(in.Item, value)
	}
	return expression.NewEquals(in.Item, value)
}

func listOf(e sql.Expression) ([]interface{}, bool) {
	l, ok := e.(*expression.Literal)
	if !ok {
		return nil, false
	}
	return l.List()
}

func (p *nullabilityProcessor) visitLike(l *expression.Like, scope columnSet) (sql.Expression, nullInfo, error) {
	match, matchInfo, err := p.visit(l.Match, false, scope)
	if err != nil {
		return nil, nullInfo{}, err
	}
	pattern, patternInfo, err := p.visit(l.Pattern, false, scope)
	if err != nil {
		return nil, nullInfo{}, err
	}
	escape, escapeInfo, err := p.visit(l.Escape, false, scope)
	if err != nil {
		return nil, nullInfo{}, err
	}

	nullable := matchInfo.nullable || patternInfo.nullable || escapeInfo.nullable
	return l.Update(match, pattern, escape), nullInfo{nullable: nullable}, nil
}

func (p *nullabilityProcessor) visitRowNumber(r *expression.RowNumber, scope columnSet) (sql.Expression, nullInfo, error) {
	partitions := make([]sql.Expression, len(r.Partitions))
	for i, e := range r.Partitions {
		var err error
		partitions[i], _, err = p.visit(e, false, scope)
		if err != nil {
			return nil, nullInfo{}, err
		}
	}

	orderings := make([]expression.Ordering, len(r.Orderings))
	for i, o := range r.Orderings {
		e, _, err := p.visit(o.Expr, false, scope)
		if err != nil {
			return nil, nullInfo{}, err
		}
		orderings[i] = expression.Ordering{Expr: e, Ascending: o.Ascending}
	}

	return r.Update(partitions, orderings), nullInfo{}, nil
}

func (p *nullabilityProcessor) visitBinary(b *expression.Binary, allowOptimized bool, scope columnSet) (sql.Expression, nullInfo, error) {
	optimize := allowOptimized
	allowOptimized = allowOptimized && b.Op.IsLogical()

	// a OR c IS NULL: a only matters when c is not null
	// a AND c IS NOT NULL: a only matters when c is not null
	// The null test itself is visited in the outer scope.
	var leftGuard, rightGuard columnSet
	switch b.Op {
	case expression.And:
		leftGuard, rightGuard = guardedColumn(b.Left, expression.IsNotNull), guardedColumn(b.Right, expression.IsNotNull)
	case expression.Or:
		leftGuard, rightGuard = guardedColumn(b.Left, expression.IsNull), guardedColumn(b.Right, expression.IsNull)
	}

	left, leftInfo, err := p.visit(b.Left, allowOptimized, scope.with(rightGuard))
	if err != nil {
		return nil, nullInfo{}, err
	}

	// the right side of an AND only matters when the left one is true
	rightScope := scope
	if rightGuard == nil {
		if b.Op == expression.And {
			rightScope = scope.with(leftInfo.nonNull)
		}
		rightScope = rightScope.with(leftGuard)
	}
	right, rightInfo, err := p.visit(b.Right, allowOptimized, rightScope)
	if err != nil {
		return nil, nullInfo{}, err
	}

	var nonNull columnSet
	switch b.Op {
	case expression.And:
		nonNull = leftInfo.nonNull.with(rightInfo.nonNull)
	case expression.Or:
		nonNull = leftInfo.nonNull.intersect(rightInfo.nonNull)
	}

	// nullable_string + a -> COALESCE(nullable_string, '') + a
	if b.Op == expression.Add && b.Type() != nil && b.Type().Kind == sql.KindString {
		if leftInfo.nullable {
			left = nullConcatenationProtection(left, b.Type())
		}
		if rightInfo.nullable {
			right = nullConcatenationProtection(right, b.Type())
		}
		return b.Update(left, right), nullInfo{}, nil
	}

	if b.Op == expression.Equal || b.Op == expression.NotEqual {
		updated := b.Update(left, right)
		optimized, nullable := p.optimizeComparison(updated, left, right, leftInfo.nullable, rightInfo.nullable, scope)

		if u, ok := optimized.(*expression.Unary); ok && u.Op == expression.IsNotNull {
			if c, ok := u.Operand.(*expression.Column); ok {
				nonNull = columnSet{c}
			}
		}

		// the optimizations change the nullability of the comparison, so
		// the rewrite only applies when none of them did anything
		if optimized == sql.Expression(updated) && (leftInfo.nullable || rightInfo.nullable) && !p.relationalNulls {
			result, nullable, err := p.rewriteNullSemantics(updated, leftInfo.nullable, rightInfo.nullable, optimize, scope)
			if err != nil {
				return nil, nullInfo{}, err
			}
			return result, nullInfo{nullable: nullable}, nil
		}

		return optimized, nullInfo{nullable: nullable, nonNull: nonNull}, nil
	}

	nullable := leftInfo.nullable || rightInfo.nullable
	result := b.Update(left, right)
	if b.Op.IsLogical() {
		return simplifyLogical(result), nullInfo{nullable: nullable, nonNull: nonNull}, nil
	}
	return result, nullInfo{nullable: nullable}, nil
}

// guardedColumn returns the column tested by e when e is a null test with
// the given operator over a column.
func guardedColumn(e sql.Expression, op expression.UnaryOp) columnSet {
	u, ok := e.(*expression.Unary)
	if !ok || u.Op != op {
		return nil
	}
	if c, ok := u.Operand.(*expression.Column); ok && c.IsNullable() {
		return columnSet{c}
	}
	return nil
}

func nullConcatenationProtection(e sql.Expression, mapping *sql.TypeMapping) sql.Expression {
	empty := expression.NewLiteral("", mapping)
	switch e.(type) {
	case *expression.Literal, *expression.Parameter:
		// a nullable constant or parameter is null
		return empty
	default:
		return expression.NewCoalesce(e, empty)
	}
}

func (p *nullabilityProcessor) visitFunction(f *expression.Function, scope columnSet) (sql.Expression, nullInfo, error) {
	args := make([]sql.Expression, len(f.Args))

	// COALESCE is null only when all of its arguments are
	if f.IsBuiltIn(expression.CoalesceName) {
		nullable := true
		for i, arg := range f.Args {
			var (
				info nullInfo
				err  error
			)
			args[i], info, err = p.visit(arg, false, scope)
			if err != nil {
				return nil, nullInfo{}, err
			}
			nullable = nullable && info.nullable
		}
		return f.Update(args), nullInfo{nullable: nullable}, nil
	}

	for i, arg := range f.Args {
		var err error
		args[i], _, err = p.visit(arg, false, scope)
		if err != nil {
			return nil, nullInfo{}, err
		}
	}

	// SUM over no rows is null
	if f.IsBuiltIn(expression.SumName) {
		return expression.NewCoalesce(f.Update(args), zeroLiteral(f.Type())), nullInfo{}, nil
	}
	return f.Update(args), nullInfo{nullable: f.Nullable}, nil
}

func zeroLiteral(mapping *sql.TypeMapping) *expression.Literal {
	var zero interface{} = int32(0)
	if mapping != nil {
		if v, err := sql.Values.Convert(-1, mapping.Kind, zero); err == nil {
			zero = v
		}
	}
	return expression.NewLiteral(zero, mapping)
}

func (p *nullabilityProcessor) visitParameter(param *expression.Parameter) (sql.Expression, nullInfo, error) {
	v, err := p.st.parameterValue(param.Name())
	if err != nil {
		return nil, nullInfo{}, err
	}
	if sql.IsNullValue(v) {
		return expression.NewNull(param.Type()), nullInfo{nullable: true}, nil
	}
	return param, nullInfo{}, nil
}

func (p *nullabilityProcessor) visitUnary(u *expression.Unary, scope columnSet) (sql.Expression, nullInfo, error) {
	operand, operandInfo, err := p.visit(u.Operand, false, scope)
	if err != nil {
		return nil, nullInfo{}, err
	}
	updated := u.Update(operand)

	if u.Op == expression.IsNull || u.Op == expression.IsNotNull {
		// the outcome now depends on the value of the parameter
		if _, ok := u.Operand.(*expression.Parameter); ok {
			p.st.DoNotCache()
		}

		result := p.processNullNotNull(updated, operandInfo.nullable, scope)

		var nonNull columnSet
		if r, ok := result.(*expression.Unary); ok && r.Op == expression.IsNotNull {
			if c, ok := r.Operand.(*expression.Column); ok {
				nonNull = columnSet{c}
			}
		}
		return result, nullInfo{nonNull: nonNull}, nil
	}

	if !operandInfo.nullable && u.Op == expression.Not {
		return optimizeNonNullableNot(updated), nullInfo{}, nil
	}
	return updated, nullInfo{nullable: operandInfo.nullable}, nil
}

func (p *nullabilityProcessor) processJoinPredicate(predicate sql.Expression) (sql.Expression, error) {
	if b, ok := predicate.(*expression.Binary); ok {
		switch b.Op {
		case expression.Equal:
			// join keys keep the relational semantics: null never matches
			left, leftInfo, err := p.visit(b.Left, p.optimized, nil)
			if err != nil {
				return nil, err
			}
			right, rightInfo, err := p.visit(b.Right, p.optimized, nil)
			if err != nil {
				return nil, err
			}
			result, _ := p.optimizeComparison(b.Update(left, right), left, right, leftInfo.nullable, rightInfo.nullable, nil)
			return result, nil
		case expression.And, expression.NotEqual, expression.GreaterThan, expression.GreaterThanOrEqual,
			expression.LessThan, expression.LessThanOrEqual:
			result, _, err := p.visit(b, p.optimized, nil)
			return result, err
		}
	}

	return nil, sql.ErrUnhandledExpression.New(predicate, predicate, "null semantics processing of join predicates")
}

// optimizeComparison simplifies an equality or inequality comparison. It
// returns b itself when nothing could be done.
func (p *nullabilityProcessor) optimizeComparison(
	b *expression.Binary,
	left, right sql.Expression,
	leftNullable, rightNullable bool,
	scope columnSet,
) (sql.Expression, bool) {
	leftNullValue := leftNullable && isConstantOrParameter(left)
	rightNullValue := rightNullable && isConstantOrParameter(right)

	// a == null -> a IS NULL
	// a != null -> a IS NOT NULL
	if rightNullValue {
		return p.processNullNotNull(nullTest(b.Op == expression.Equal, left), leftNullable, scope), false
	}

	// null == a -> a IS NULL
	// null != a -> a IS NOT NULL
	if leftNullValue {
		return p.processNullNotNull(nullTest(b.Op == expression.Equal, right), rightNullable, scope), false
	}

	// only correct in 2-value logic
	// a == true -> a
	// a == false -> !a
	// a != true -> !a
	// a != false -> a
	if v, ok := expression.BoolValue(right); ok && !leftNullable && !isConverted(left) {
		if (b.Op == expression.Equal) != v {
			return optimizeNonNullableNot(expression.NewNot(left)), false
		}
		return left, false
	}

	// true == a -> a
	// false == a -> !a
	// true != a -> !a
	// false != a -> a
	if v, ok := expression.BoolValue(left); ok && !rightNullable && !isConverted(right) {
		if (b.Op == expression.Equal) != v {
			return optimizeNonNullableNot(expression.NewNot(right)), false
		}
		return right, false
	}

	// only correct in 2-value logic
	// a == a -> true
	// a != a -> false
	if !leftNullable && expression.EqualExprs(left, right) {
		return expression.NewBool(b.Op == expression.Equal), false
	}

	if !leftNullable && !rightNullable {
		l, leftNegated := stripLogicalNot(left)
		r, rightNegated := stripLogicalNot(right)
		if !leftNegated && !rightNegated {
			return b, false
		}

		// a == b <=> !a == !b -> a == b
		// !a == b <=> a == !b -> a != b
		// a != b <=> !a != !b -> a != b
		// !a != b <=> a != !b -> a == b
		if (b.Op == expression.Equal) != (leftNegated == rightNegated) {
			return expression.NewNotEquals(l, r), false
		}
		return expression.NewEquals(l, r), false
	}

	return b, leftNullable || rightNullable
}

// rewriteNullSemantics expands a comparison of nullable operands so that
// it never returns null and null compares equal to null.
func (p *nullabilityProcessor) rewriteNullSemantics(
	b *expression.Binary,
	leftNullable, rightNullable bool,
	optimize bool,
	scope columnSet,
) (sql.Expression, bool, error) {
	left, leftNegated := stripLogicalNot(b.Left)
	right, rightNegated := stripLogicalNot(b.Right)

	leftIsNull := p.processNullNotNull(expression.NewIsNull(left), leftNullable, scope)
	leftIsNotNull := optimizeNonNullableNot(expression.NewNot(leftIsNull))
	rightIsNull := p.processNullNotNull(expression.NewIsNull(right), rightNullable, scope)
	rightIsNotNull := optimizeNonNullableNot(expression.NewNot(rightIsNull))

	// optimized expansion, which doesn't tell null and false apart
	if optimize && b.Op == expression.Equal && !leftNegated && !rightNegated {
		if leftNullable && rightNullable {
			return simplifyLogical(expression.NewOr(
				expression.NewEquals(left, right),
				simplifyLogical(expression.NewAnd(leftIsNull, rightIsNull)),
			)), true, nil
		}
		return expression.NewEquals(left, right), true, nil
	}

	negated := leftNegated != rightNegated
	switch {
	case b.Op == expression.Equal && leftNullable && rightNullable:
		if negated {
			return expandNegatedNullableEqualNullable(left, right, leftIsNull, leftIsNotNull, rightIsNull, rightIsNotNull), false, nil
		}
		return expandNullableEqualNullable(left, right, leftIsNull, leftIsNotNull, rightIsNull, rightIsNotNull), false, nil
	case b.Op == expression.Equal && leftNullable:
		if negated {
			return expandNegatedNullableEqualNonNullable(left, right, leftIsNotNull), false, nil
		}
		return expandNullableEqualNonNullable(left, right, leftIsNotNull), false, nil
	case b.Op == expression.Equal && rightNullable:
		if negated {
			return expandNegatedNullableEqualNonNullable(left, right, rightIsNotNull), false, nil
		}
		return expandNullableEqualNonNullable(left, right, rightIsNotNull), false, nil
	case b.Op == expression.NotEqual && leftNullable && rightNullable:
		if negated {
			return expandNegatedNullableNotEqualNullable(left, right, leftIsNull, leftIsNotNull, rightIsNull, rightIsNotNull), false, nil
		}
		return expandNullableNotEqualNullable(left, right, leftIsNull, leftIsNotNull, rightIsNull, rightIsNotNull), false, nil
	case b.Op == expression.NotEqual && leftNullable:
		if negated {
			return expandNegatedNullableNotEqualNonNullable(left, right, leftIsNull), false, nil
		}
		return expandNullableNotEqualNonNullable(left, right, leftIsNull), false, nil
	case b.Op == expression.NotEqual && rightNullable:
		if negated {
			return expandNegatedNullableNotEqualNonNullable(left, right, rightIsNull), false, nil
		}
		return expandNullableNotEqualNonNullable(left, right, rightIsNull), false, nil
	}

	return nil, false, sql.ErrInvariantViolation.New("null semantics rewrite of " + b.String() + " without nullable operands")
}

// processNullNotNull simplifies an IS NULL or IS NOT NULL test.
func (p *nullabilityProcessor) processNullNotNull(u *expression.Unary, operandNullable bool, scope columnSet) sql.Expression {
	isNotNull := u.Op == expression.IsNotNull

	// not_null_operand IS NULL -> false
	// not_null_operand IS NOT NULL -> true
	if !operandNullable {
		return expression.NewBool(isNotNull)
	}

	switch o := u.Operand.(type) {
	case *expression.Literal:
		return expression.NewBool(o.IsNull() != isNotNull)
	case *expression.Parameter:
		p.st.DoNotCache()
		// visitParameter has already checked the value is bound
		return expression.NewBool(sql.IsNullValue(p.st.Parameters[o.Name()]) != isNotNull)
	case *expression.Column:
		if !o.IsNullable() || scope.contains(o) {
			return expression.NewBool(isNotNull)
		}
	case *expression.Unary:
		switch o.Op {
		case expression.Convert, expression.Not, expression.Negate:
			// op(a) IS NULL -> a IS NULL
			return p.processNullNotNull(u.Update(o.Operand), operandNullable, scope)
		case expression.IsNull, expression.IsNotNull:
			// null tests are never null
			return expression.NewBool(isNotNull)
		}
	case *expression.Binary:
		if o.Op.IsLogical() {
			break
		}
		// op(a, b) IS NULL -> a IS NULL OR b IS NULL
		// op(a, b) IS NOT NULL -> a IS NOT NULL AND b IS NOT NULL
		left := p.processNullNotNull(nullTest(!isNotNull, o.Left), operandNullable, scope)
		right := p.processNullNotNull(nullTest(!isNotNull, o.Right), operandNullable, scope)
		if isNotNull {
			return simplifyLogical(expression.NewAnd(left, right))
		}
		return simplifyLogical(expression.NewOr(left, right))
	case *expression.Function:
		if o.IsBuiltIn(expression.CoalesceName) {
			// COALESCE(a, b) IS NULL -> a IS NULL AND b IS NULL
			// COALESCE(a, b) IS NOT NULL -> a IS NOT NULL OR b IS NOT NULL
			return p.foldNullTests(u, o.Args, operandNullable, scope, !isNotNull)
		}

		if !o.Nullable {
			return expression.NewBool(isNotNull)
		}

		// f(a, b) IS NULL -> a IS NULL OR b IS NULL
		// f(a, b) IS NOT NULL -> a IS NOT NULL AND b IS NOT NULL
		var propagating []sql.Expression
		for i, arg := range o.Args {
			if i < len(o.PropagatesNull) && o.PropagatesNull[i] {
				propagating = append(propagating, arg)
			}
		}
		if len(propagating) > 0 {
			return p.foldNullTests(u, propagating, operandNullable, scope, isNotNull)
		}
	}

	return u
}

// foldNullTests applies the null test of u to each of args and joins the
// results with AND, or with OR when and is false.
func (p *nullabilityProcessor) foldNullTests(
	u *expression.Unary,
	args []sql.Expression,
	operandNullable bool,
	scope columnSet,
	and bool,
) sql.Expression {
	var result sql.Expression
	for _, arg := range args {
		test := p.processNullNotNull(expression.NewUnary(u.Op, arg, sql.Boolean), operandNullable, scope)
		switch {
		case result == nil:
			result = test
		case and:
			result = simplifyLogical(expression.NewAnd(result, test))
		default:
			result = simplifyLogical(expression.NewOr(result, test))
		}
	}
	if result == nil {
		return u
	}
	return result
}

// simplifyLogical removes boolean constants and repeated null tests from
// an AND or an OR.
func simplifyLogical(b *expression.Binary) sql.Expression {
	lu, lok := expression.IsNullTest(b.Left)
	ru, rok := expression.IsNullTest(b.Right)
	if lok && rok && expression.EqualExprs(lu.Operand, ru.Operand) {
		// a IS NULL OR a IS NULL -> a IS NULL
		// a IS NULL AND a IS NOT NULL -> false
		// a IS NULL OR a IS NOT NULL -> true
		if lu.Op == ru.Op {
			return lu
		}
		return expression.NewBool(b.Op == expression.Or)
	}

	// true AND a -> a
	// true OR a -> true
	// false AND a -> false
	// false OR a -> a
	if v, ok := expression.BoolValue(b.Left); ok {
		if v == (b.Op == expression.And) {
			return b.Right
		}
		return b.Left
	}

	if v, ok := expression.BoolValue(b.Right); ok {
		if v == (b.Op == expression.And) {
			return b.Left
		}
		return b.Right
	}

	return b
}

// optimizeNonNullableNot pushes a NOT over a non nullable operand into it.
func optimizeNonNullableNot(u *expression.Unary) sql.Expression {
	if u.Op != expression.Not {
		return u
	}

	switch o := u.Operand.(type) {
	case *expression.Literal:
		if v, ok := expression.BoolValue(o); ok {
			return expression.NewBool(!v)
		}
	case *expression.In:
		return o.Negate()
	case *expression.Exists:
		return expression.NewExists(o.Query, !o.Negated)
	case *expression.Unary:
		switch o.Op {
		case expression.Not:
			return o.Operand
		case expression.IsNull:
			return expression.NewIsNotNull(o.Operand)
		case expression.IsNotNull:
			return expression.NewIsNull(o.Operand)
		}
	case *expression.Binary:
		// since the whole AND/OR is not nullable neither side is
		if o.Op.IsLogical() {
			left := optimizeNonNullableNot(expression.NewNot(o.Left))
			right := optimizeNonNullableNot(expression.NewNot(o.Right))
			return simplifyLogical(expression.NewBinary(flipLogical(o.Op), left, right, nil))
		}

		// !(a == b) -> a != b
		// !(a > b) -> a <= b
		if negated, ok := o.Op.Negated(); ok {
			return expression.NewBinary(negated, o.Left, o.Right, nil)
		}
	}

	return u
}

func flipLogical(op expression.BinaryOp) expression.BinaryOp {
	if op == expression.And {
		return expression.Or
	}
	return expression.And
}

func nullTest(isNull bool, e sql.Expression) *expression.Unary {
	if isNull {
		return expression.NewIsNull(e)
	}
	return expression.NewIsNotNull(e)
}

func isConstantOrParameter(e sql.Expression) bool {
	switch e.(type) {
	case *expression.Literal, *expression.Parameter:
		return true
	}
	return false
}

func isConverted(e sql.Expression) bool {
	return e.Type() != nil && e.Type().Converted
}

// stripLogicalNot returns the operand of a boolean NOT and whether there was
// one.
func stripLogicalNot(e sql.Expression) (sql.Expression, bool) {
	u, ok := expression.IsNotExpr(e)
	if !ok || (u.Type() != nil && u.Type().Kind != sql.KindBool) {
		return e, false
	}
	return u.Operand, true
}
