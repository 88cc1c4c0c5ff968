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

import "github.com/dolthub/go-query-shaper/sql"

// Visitor visits expressions of a tree.
type Visitor interface {
	// Visit is invoked for each expression encountered by Walk. If the
	// result Visitor is not nil, Walk visits each of the children of the
	// expression with it, followed by a call of Visit(nil).
	Visit(expr sql.Expression) Visitor
}

// Walk traverses the expression tree in depth-first order. Subqueries are
// not entered.
func Walk(v Visitor, expr sql.Expression) {
	if v = v.Visit(expr); v == nil {
		return
	}

	for _, child := range expr.Children() {
		Walk(v, child)
	}

	v.Visit(nil)
}

type inspector func(sql.Expression) bool

func (f inspector) Visit(expr sql.Expression) Visitor {
	if f(expr) {
		return f
	}
	return nil
}

// Inspect traverses the tree in depth-first order calling f for each
// expression, and then f(nil) after the children of an expression for which
// f returned true.
func Inspect(expr sql.Expression, f func(sql.Expression) bool) {
	Walk(inspector(f), expr)
}

// ContainsParameter reports whether any expression of the tree reads a
// parameter value.
func ContainsParameter(expr sql.Expression) bool {
	var found bool
	Inspect(expr, func(e sql.Expression) bool {
		if _, ok := e.(*Parameter); ok {
			found = true
		}
		return !found
	})
	return found
}
