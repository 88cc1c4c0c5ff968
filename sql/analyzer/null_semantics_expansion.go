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

// The expansions below turn a comparison of nullable operands into one that
// is never null and treats two nulls as equal. The operands passed in
// are stripped of their logical negations. The null tests are already
// simplified for the scope of the comparison.

func and(left, right sql.Expression) sql.Expression {
	return simplifyLogical(expression.NewAnd(left, right))
}

func or(left, right sql.Expression) sql.Expression {
	return simplifyLogical(expression.NewOr(left, right))
}

// ?a == ?b -> (a == b AND a IS NOT NULL AND b IS NOT NULL) OR (a IS NULL AND b IS NULL)
//
//	a    | b    | result
//	x    | x    | true
//	x    | y    | false
//	x    | null | false
//	null | null | true
func expandNullableEqualNullable(left, right, leftIsNull, leftIsNotNull, rightIsNull, rightIsNotNull sql.Expression) sql.Expression {
	return or(
		and(expression.NewEquals(left, right), and(leftIsNotNull, rightIsNotNull)),
		and(leftIsNull, rightIsNull),
	)
}

// !?a == ?b -> (a != b AND a IS NOT NULL AND b IS NOT NULL) OR (a IS NULL AND b IS NULL)
//
//	a    | b    | result
//	x    | x    | false
//	x    | y    | true
//	x    | null | false
//	null | null | true
func expandNegatedNullableEqualNullable(left, right, leftIsNull, leftIsNotNull, rightIsNull, rightIsNotNull sql.Expression) sql.Expression {
	return or(
		and(expression.NewNotEquals(left, right), and(leftIsNotNull, rightIsNotNull)),
		and(leftIsNull, rightIsNull),
	)
}

// ?a == b -> a == b AND a IS NOT NULL
//
//	a    | b | result
//	x    | x | true
//	x    | y | false
//	null | x | false
func expandNullableEqualNonNullable(left, right, nullableIsNotNull sql.Expression) sql.Expression {
	return and(expression.NewEquals(left, right), nullableIsNotNull)
}

// !?a == b -> a != b AND a IS NOT NULL
//
//	a    | b | result
//	x    | x | false
//	x    | y | true
//	null | x | false
func expandNegatedNullableEqualNonNullable(left, right, nullableIsNotNull sql.Expression) sql.Expression {
	return and(expression.NewNotEquals(left, right), nullableIsNotNull)
}

// ?a != ?b -> (a != b OR a IS NULL OR b IS NULL) AND (a IS NOT NULL OR b IS NOT NULL)
//
//	a    | b    | result
//	x    | x    | false
//	x    | y    | true
//	x    | null | true
//	null | null | false
func expandNullableNotEqualNullable(left, right, leftIsNull, leftIsNotNull, rightIsNull, rightIsNotNull sql.Expression) sql.Expression {
	return and(
		or(expression.NewNotEquals(left, right), or(leftIsNull, rightIsNull)),
		or(leftIsNotNull, rightIsNotNull),
	)
}

// !?a != ?b -> (a == b OR a IS NULL OR b IS NULL) AND (a IS NOT NULL OR b IS NOT NULL)
//
//	a    | b    | result
//	x    | x    | true
//	x    | y    | false
//	x    | null | true
//	null | null | false
func expandNegatedNullableNotEqualNullable(left, right, leftIsNull, leftIsNotNull, rightIsNull, rightIsNotNull sql.Expression) sql.Expression {
	return and(
		or(expression.NewEquals(left, right), or(leftIsNull, rightIsNull)),
		or(leftIsNotNull, rightIsNotNull),
	)
}

// ?a != b -> a != b OR a IS NULL
//
//	a    | b | result
//	x    | x | false
//	x    | y | true
//	null | x | true
func expandNullableNotEqualNonNullable(left, right, nullableIsNull sql.Expression) sql.Expression {
	return or(expression.NewNotEquals(left, right), nullableIsNull)
}

// !?a != b -> a == b OR a IS NULL
//
//	a    | b | result
//	x    | x | true
//	x    | y | false
//	null | x | true
func expandNegatedNullableNotEqualNonNullable(left, right, nullableIsNull sql.Expression) sql.Expression {
	return or(expression.NewEquals(left, right), nullableIsNull)
}
