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
	"bytes"

	"github.com/dolthub/go-query-shaper/sql"
)

// CaseBranch is a single branch of a case expression.
type CaseBranch struct {
	Cond  sql.Expression
	Value sql.Expression
}

// Case is an expression that returns the value of one of its branches when a
// condition is met. Without Expr it is a searched CASE whose conditions are
// predicates; with Expr each condition is compared for equality with it.
type Case struct {
	Expr     sql.Expression
	Branches []CaseBranch
	Else     sql.Expression
}

var _ sql.Expression = (*Case)(nil)

// NewCase returns an new Case expression.
func NewCase(expr sql.Expression, branches []CaseBranch, elseExpr sql.Expression) *Case {
	return &Case{expr, branches, elseExpr}
}

// IsSearched reports whether c has no operand.
func (c *Case) IsSearched() bool { return c.Expr == nil }

// Update returns c if all the given parts are its current ones, and a new
// Case otherwise.
func (c *Case) Update(expr sql.Expression, branches []CaseBranch, elseExpr sql.Expression) *Case {
	if expr == c.Expr && elseExpr == c.Else && sameBranches(branches, c.Branches) {
		return c
	}
	return &Case{expr, branches, elseExpr}
}

func sameBranches(a, b []CaseBranch) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Cond != b[i].Cond || a[i].Value != b[i].Value {
			return false
		}
	}
	return true
}

// Type implements the sql.Expression interface.
func (c *Case) Type() *sql.TypeMapping {
	for _, b := range c.Branches {
		if t := b.Value.Type(); t != nil {
			return t
		}
	}
	if c.Else != nil {
		return c.Else.Type()
	}
	return nil
}

// Children implements the sql.Expression interface.
func (c *Case) Children() []sql.Expression {
	var children = make([]sql.Expression, 0, len(c.Branches)*2+2)
	if c.Expr != nil {
		children = append(children, c.Expr)
	}

	for _, b := range c.Branches {
		children = append(children, b.Cond, b.Value)
	}

	if c.Else != nil {
		children = append(children, c.Else)
	}

	return children
}

// WithChildren implements the sql.Expression interface.
func (c *Case) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	var expected = len(c.Branches) * 2
	if c.Expr != nil {
		expected++
	}

	if c.Else != nil {
		expected++
	}

	if len(children) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), expected)
	}

	var expr, elseExpr sql.Expression
	if c.Expr != nil {
		expr = children[0]
		children = children[1:]
	}

	if c.Else != nil {
		elseExpr = children[len(children)-1]
		children = children[:len(children)-1]
	}

	var branches []CaseBranch
	for i := 0; i < len(children); i += 2 {
		branches = append(branches, CaseBranch{
			Cond:  children[i],
			Value: children[i+1],
		})
	}

	return c.Update(expr, branches, elseExpr), nil
}

// Eval implements the sql.Expression interface.
func (c *Case) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	span, ctx := ctx.Span("expression.Case")
	defer span.Finish()

	var expr interface{}
	var err error
	if c.Expr != nil {
		expr, err = c.Expr.Eval(ctx, row)
		if err != nil {
			return nil, err
		}
	}

	for _, b := range c.Branches {
		var cond bool
		if c.Expr != nil {
			v, err := b.Cond.Eval(ctx, row)
			if err != nil {
				return nil, err
			}
			if expr != nil && v != nil {
				cmp, err := Compare(expr, v)
				if err != nil {
					return nil, err
				}
				cond = cmp == 0
			}
		} else {
			cond, err = EvalPredicate(ctx, b.Cond, row)
			if err != nil {
				return nil, err
			}
		}

		if cond {
			return b.Value.Eval(ctx, row)
		}
	}

	if c.Else != nil {
		return c.Else.Eval(ctx, row)
	}

	return nil, nil
}

func (c *Case) String() string {
	var buf bytes.Buffer

	buf.WriteString("CASE ")
	if c.Expr != nil {
		buf.WriteString(c.Expr.String())
		buf.WriteString(" ")
	}

	for _, r := range c.Branches {
		buf.WriteString("WHEN ")
		buf.WriteString(r.Cond.String())
		buf.WriteString(" THEN ")
		buf.WriteString(r.Value.String())
		buf.WriteString(" ")
	}

	if c.Else != nil {
		buf.WriteString("ELSE ")
		buf.WriteString(c.Else.String())
		buf.WriteString(" ")
	}

	buf.WriteString("END")
	return buf.String()
}
