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

// inCandidate is a membership test of a column against constant values:
// either an IN over a literal list or an equality with a literal.
type inCandidate struct {
	column  *expression.Column
	values  []interface{}
	mapping *sql.TypeMapping
	negated bool
}

func asInCandidate(e sql.Expression) (inCandidate, bool) {
	switch e := e.(type) {
	case *expression.In:
		c, ok := e.Item.(*expression.Column)
		if !ok || e.Query != nil {
			return inCandidate{}, false
		}
		values, ok := listOf(e.Values)
		if !ok || hasNullValue(values) {
			return inCandidate{}, false
		}
		return inCandidate{column: c, values: values, mapping: e.Values.Type(), negated: e.Negated}, true
	case *expression.Binary:
		if e.Op != expression.Equal && e.Op != expression.NotEqual {
			return inCandidate{}, false
		}
		c, l := columnAndLiteral(e.Left, e.Right)
		if c == nil {
			c, l = columnAndLiteral(e.Right, e.Left)
		}
		if c == nil || l.IsNull() {
			return inCandidate{}, false
		}
		if _, isList := l.List(); isList {
			return inCandidate{}, false
		}
		return inCandidate{
			column:  c,
			values:  []interface{}{l.Value()},
			mapping: l.Type(),
			negated: e.Op == expression.NotEqual,
		}, true
	}
	return inCandidate{}, false
}

func columnAndLiteral(a, b sql.Expression) (*expression.Column, *expression.Literal) {
	c, ok := a.(*expression.Column)
	if !ok {
		return nil, nil
	}
	l, ok := b.(*expression.Literal)
	if !ok {
		return nil, nil
	}
	return c, l
}

func hasNullValue(values []interface{}) bool {
	for _, v := range values {
		if sql.IsNullValue(v) {
			return true
		}
	}
	return false
}

// mergeIn merges two membership tests of the same column joined by AND or
// OR into a single IN.
//
// a == 1 || a IN (2, 3) -> a IN (1, 2, 3)
// a != 1 && a != 2 -> a NOT IN (1, 2)
// a IN (1, 2) && a IN (2, 3) -> a IN (2)
// a NOT IN (1, 2) || a NOT IN (2, 3) -> a NOT IN (2)
func mergeIn(b *expression.Binary) (sql.Expression, error) {
	left, ok := asInCandidate(b.Left)
	if !ok {
		return b, nil
	}
	right, ok := asInCandidate(b.Right)
	if !ok || left.negated != right.negated || !expression.EqualExprs(left.column, right.column) {
		return b, nil
	}

	union := (b.Op == expression.Or) != left.negated
	var values []interface{}
	if union {
		values = unionValues(left.values, right.values)
	} else {
		values = intersectValues(left.values, right.values)
	}

	// the empty list is only a constant for a column that is never null
	if len(values) == 0 && left.column.IsNullable() {
		return b, nil
	}

	mapping := left.mapping
	if mapping == nil {
		mapping = right.mapping
	}
	return splitIn(expression.NewInValues(left.column, expression.NewList(values, mapping), left.negated)), nil
}

func containsValue(values []interface{}, v interface{}) bool {
	for _, value := range values {
		if cmp, err := expression.Compare(value, v); err == nil && cmp == 0 {
			return true
		}
	}
	return false
}

func unionValues(a, b []interface{}) []interface{} {
	result := make([]interface{}, 0, len(a)+len(b))
	for _, v := range a {
		if !containsValue(result, v) {
			result = append(result, v)
		}
	}
	for _, v := range b {
		if !containsValue(result, v) {
			result = append(result, v)
		}
	}
	return result
}

func intersectValues(a, b []interface{}) []interface{} {
	result := []interface{}{}
	for _, v := range a {
		if containsValue(b, v) && !containsValue(result, v) {
			result = append(result, v)
		}
	}
	return result
}

// splitIn turns an IN over a literal list with fewer than two values into
// a comparison or a constant.
func splitIn(in *expression.In) sql.Expression {
	values, ok := listOf(in.Values)
	if !ok || in.Query != nil {
		return in
	}
	switch len(values) {
	case 0:
		return expression.NewBool(in.Negated)
	case 1:
		return simplifyInValues(in)
	default:
		return in
	}
}
