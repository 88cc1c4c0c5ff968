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

package transform

import (
	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/expression"
)

// Node applies a transformation function to the given node tree from the
// bottom up.
func Node(node sql.Node, f NodeFunc) (sql.Node, TreeIdentity, error) {
	children := node.Children()
	if len(children) == 0 {
		return f(node)
	}

	var (
		newChildren []sql.Node
		err         error
	)

	for i := range children {
		c, same, err := Node(children[i], f)
		if err != nil {
			return nil, SameTree, err
		}
		if !same {
			if newChildren == nil {
				newChildren = make([]sql.Node, len(children))
				copy(newChildren, children)
			}
			newChildren[i] = c
		}
	}

	sameC := SameTree
	if len(newChildren) > 0 {
		sameC = NewTree
		node, err = node.WithChildren(newChildren...)
		if err != nil {
			return nil, SameTree, err
		}
	}

	node, sameN, err := f(node)
	if err != nil {
		return nil, SameTree, err
	}
	return node, sameC && sameN, nil
}

// NodeExprs applies a transformation function to all expressions of all
// the nodes of the tree, including expressions of subqueries.
func NodeExprs(node sql.Node, f ExprFunc) (sql.Node, TreeIdentity, error) {
	return Node(node, func(n sql.Node) (sql.Node, TreeIdentity, error) {
		e, ok := n.(sql.Expressioner)
		if !ok {
			return n, SameTree, nil
		}

		exprs := e.Expressions()
		if len(exprs) == 0 {
			return n, SameTree, nil
		}

		var newExprs []sql.Expression
		for i := range exprs {
			ne, same, err := Expr(exprs[i], withSubqueries(f))
			if err != nil {
				return nil, SameTree, err
			}
			if !same {
				if newExprs == nil {
					newExprs = make([]sql.Expression, len(exprs))
					copy(newExprs, exprs)
				}
				newExprs[i] = ne
			}
		}

		if len(newExprs) == 0 {
			return n, SameTree, nil
		}
		n, err := e.WithExpressions(newExprs...)
		if err != nil {
			return nil, SameTree, err
		}
		return n, NewTree, nil
	})
}

func withSubqueries(f ExprFunc) ExprFunc {
	return func(e sql.Expression) (sql.Expression, TreeIdentity, error) {
		same := SameTree
		if sq, ok := e.(sql.Subquerier); ok && sq.Subquery() != nil {
			n, sameQ, err := NodeExprs(sq.Subquery(), f)
			if err != nil {
				return nil, SameTree, err
			}
			if !sameQ {
				e = sq.WithSubquery(n)
				same = NewTree
			}
		}
		e, sameE, err := f(e)
		return e, same && sameE, err
	}
}

// NodeWithSubqueries applies a transformation function to every node of
// the tree from the bottom up, including the nodes of subqueries found in
// expressions.
func NodeWithSubqueries(node sql.Node, f NodeFunc) (sql.Node, TreeIdentity, error) {
	return Node(node, func(n sql.Node) (sql.Node, TreeIdentity, error) {
		same := SameTree
		if e, ok := n.(sql.Expressioner); ok {
			exprs := e.Expressions()
			var newExprs []sql.Expression
			for i := range exprs {
				ne, sameE, err := Expr(exprs[i], func(e sql.Expression) (sql.Expression, TreeIdentity, error) {
					sq, ok := e.(sql.Subquerier)
					if !ok || sq.Subquery() == nil {
						return e, SameTree, nil
					}
					q, sameQ, err := NodeWithSubqueries(sq.Subquery(), f)
					if err != nil || sameQ {
						return e, SameTree, err
					}
					return sq.WithSubquery(q), NewTree, nil
				})
				if err != nil {
					return nil, SameTree, err
				}
				if !sameE {
					if newExprs == nil {
						newExprs = make([]sql.Expression, len(exprs))
						copy(newExprs, exprs)
					}
					newExprs[i] = ne
				}
			}

			if newExprs != nil {
				var err error
				n, err = e.WithExpressions(newExprs...)
				if err != nil {
					return nil, SameTree, err
				}
				same = NewTree
			}
		}

		n, sameN, err := f(n)
		if err != nil {
			return nil, SameTree, err
		}
		return n, same && sameN, nil
	})
}

// Inspect performs a pre-order traversal of the node tree. It calls f(node)
// and, if it returns true, inspects the children of node. It returns false
// if the traversal was cut short.
func Inspect(node sql.Node, f func(sql.Node) bool) (cont bool) {
	if !f(node) {
		return false
	}
	for _, child := range node.Children() {
		if !Inspect(child, f) {
			return false
		}
	}
	return true
}

// InspectExpressions calls expression.Inspect on every expression of every
// node of the tree.
func InspectExpressions(node sql.Node, f func(sql.Expression) bool) {
	Inspect(node, func(n sql.Node) bool {
		if e, ok := n.(sql.Expressioner); ok {
			for _, expr := range e.Expressions() {
				expression.Inspect(expr, f)
			}
		}
		return true
	})
}
