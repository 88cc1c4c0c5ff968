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

package sql

import "fmt"

// Expression is a scalar node of a query tree. Expressions are immutable:
// every rewrite produces new nodes, and a node is only rebuilt when one of
// its children changed, so identity comparison detects rewrites.
type Expression interface {
	fmt.Stringer
	// Type returns the type mapping of the expression result. It may be nil
	// for expressions whose type is decided by the store.
	Type() *TypeMapping
	// Children returns the children expressions of this expression.
	Children() []Expression
	// WithChildren returns a copy of the expression with children replaced.
	// It will return an error if the number of children is different than
	// the current number of children.
	WithChildren(children ...Expression) (Expression, error)
	// Eval evaluates the given row and returns a result. A nil result is the
	// unknown value of three-valued logic.
	Eval(ctx *Context, row Row) (interface{}, error)
}

// Node is a relational node of a query tree: a table source, a join, a set
// operation or a SELECT.
type Node interface {
	fmt.Stringer
	// Children nodes.
	Children() []Node
	// WithChildren returns a copy of the node with children replaced.
	// It will return an error if the number of children is different than
	// the current number of children.
	WithChildren(children ...Node) (Node, error)
}

// Expressioner is a node that contains expressions.
type Expressioner interface {
	// Expressions returns the list of expressions contained by the node.
	Expressions() []Expression
	// WithExpressions returns a copy of the node with expressions replaced.
	// It will return an error if the number of expressions is different than
	// the current number of expressions.
	WithExpressions(...Expression) (Node, error)
}

// Nameable is something that has a name.
type Nameable interface {
	Name() string
}

// Subquerier is an expression that wraps a relational subquery.
type Subquerier interface {
	Expression
	Subquery() Node
	WithSubquery(Node) Expression
}
