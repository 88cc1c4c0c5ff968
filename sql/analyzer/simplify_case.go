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
)

// flattenCase merges a searched CASE nested in the ELSE of another one.
//
// CASE WHEN a THEN x ELSE CASE WHEN b THEN y ELSE z END END
// -> CASE WHEN a THEN x WHEN b THEN y ELSE z END
func flattenCase(c *expression.Case) sql.Expression {
	nested, ok := c.Else.(*expression.Case)
	if !ok || !c.IsSearched() || !nested.IsSearched() {
		return c
	}

	branches := make([]expression.CaseBranch, 0, len(c.Branches)+len(nested.Branches))
	branches = append(branches, c.Branches...)
	branches = append(branches, nested.Branches...)
	return expression.NewCase(nil, branches, nested.Else)
}

type compareToResult struct {
	op       expression.BinaryOp
	constant bool
	value    bool
}

func compareToOp(op expression.BinaryOp) compareToResult {
	return compareToResult{op: op}
}

func compareToConstant(v bool) compareToResult {
	return compareToResult{constant: true, value: v}
}

// compareToRewrites maps a comparison of a three-way compare result with
// -1, 0 and 1 to the matching comparison of the compared operands.
var compareToRewrites = map[expression.BinaryOp][3]compareToResult{
	expression.Equal: {
		compareToOp(expression.LessThan),
		compareToOp(expression.Equal),
		compareToOp(expression.GreaterThan),
	},
	expression.NotEqual: {
		compareToOp(expression.GreaterThanOrEqual),
		compareToOp(expression.NotEqual),
		compareToOp(expression.LessThanOrEqual),
	},
	expression.GreaterThan: {
		compareToOp(expression.GreaterThanOrEqual),
		compareToOp(expression.GreaterThan),
		compareToConstant(false),
	},
	expression.GreaterThanOrEqual: {
		compareToConstant(true),
		compareToOp(expression.GreaterThanOrEqual),
		compareToOp(expression.GreaterThan),
	},
	expression.LessThan: {
		compareToConstant(false),
		compareToOp(expression.LessThan),
		compareToOp(expression.LessThanOrEqual),
	},
	expression.LessThanOrEqual: {
		compareToOp(expression.LessThan),
		compareToOp(expression.LessThanOrEqual),
		compareToConstant(true),
	},
}

// simplifyCompareTo rewrites the comparison of a three-way compare CASE
// with -1, 0 or 1 into a comparison of its operands.
//
// CASE WHEN a = b THEN 0 WHEN a > b THEN 1 WHEN a < b THEN -1 END > 0 -> a > b
func simplifyCompareTo(b *expression.Binary) sql.Expression {
	c, isCase := b.Left.(*expression.Case)
	constant, op := b.Right, b.Op
	if !isCase {
		c, isCase = b.Right.(*expression.Case)
		if !isCase {
			return b
		}
		constant = b.Left
		op, _ = b.Op.Swapped()
	}

	k, ok := smallInteger(constant)
	if !ok || k < -1 || k > 1 {
		return b
	}

	left, right, ok := compareToOperands(c)
	if !ok {
		return b
	}

	rewrites, ok := compareToRewrites[op]
	if !ok {
		return b
	}

	r := rewrites[k+1]
	if r.constant {
		// a null operand makes the CASE null, not a constant
		if !isNonNullable(left) || !isNonNullable(right) {
			return b
		}
		return expression.NewBool(r.value)
	}
	return expression.NewBinary(r.op, left, right, nil)
}

// compareToOperands returns the operands of a CASE that computes their
// three-way comparison:
//
// CASE WHEN a = b THEN 0 WHEN a > b THEN 1 WHEN a < b THEN -1 END
//
// The branches may come in any order.
func compareToOperands(c *expression.Case) (sql.Expression, sql.Expression, bool) {
	if !c.IsSearched() || c.Else != nil || len(c.Branches) != 3 {
		return nil, nil, false
	}

	expected := map[expression.BinaryOp]int64{
		expression.Equal:       0,
		expression.GreaterThan: 1,
		expression.LessThan:    -1,
	}

	var left, right sql.Expression
	for _, branch := range c.Branches {
		cond, ok := branch.Cond.(*expression.Binary)
		if !ok {
			return nil, nil, false
		}
		want, ok := expected[cond.Op]
		if !ok {
			return nil, nil, false
		}
		delete(expected, cond.Op)

		if v, ok := smallInteger(branch.Value); !ok || v != want {
			return nil, nil, false
		}

		if left == nil {
			left, right = cond.Left, cond.Right
		} else if !expression.EqualExprs(left, cond.Left) || !expression.EqualExprs(right, cond.Right) {
			return nil, nil, false
		}
	}
	return left, right, true
}

// smallInteger returns the value of an integer literal.
func smallInteger(e sql.Expression) (int64, bool) {
	l, ok := e.(*expression.Literal)
	if !ok || l.IsNull() {
		return 0, false
	}
	switch sql.KindOf(l.Value()) {
	case sql.KindByte, sql.KindInt8, sql.KindInt16, sql.KindInt32, sql.KindInt64,
		sql.KindUint16, sql.KindUint32, sql.KindUint64:
	default:
		return 0, false
	}
	v, err := sql.Values.Int64(-1, l.Value())
	if err != nil {
		return 0, false
	}
	return v, true
}
