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
	"fmt"

	"github.com/dolthub/go-query-shaper/sql"
)

// UnaryOp is the operator of a Unary expression.
type UnaryOp byte

const (
	// Not is the logical negation.
	Not UnaryOp = iota
	// IsNull tests the operand for null.
	IsNull
	// IsNotNull tests the operand for non null.
	IsNotNull
	// Negate is the arithmetic negation.
	Negate
	// Convert casts the operand to the expression type mapping.
	Convert
)

func (op UnaryOp) String() string {
	switch op {
	case Not:
		return "NOT"
	case IsNull:
		return "IS NULL"
	case IsNotNull:
		return "IS NOT NULL"
	case Negate:
		return "-"
	case Convert:
		return "CONVERT"
	default:
		return fmt.Sprintf("UnaryOp(%d)", op)
	}
}

// Unary is an expression with a single operand.
type Unary struct {
	Op      UnaryOp
	Operand sql.Expression
	mapping *sql.TypeMapping
}

var _ sql.Expression = (*Unary)(nil)

// NewUnary creates a new Unary expression.
func NewUnary(op UnaryOp, operand sql.Expression, mapping *sql.TypeMapping) *Unary {
	if mapping == nil {
		switch op {
		case Not, IsNull, IsNotNull:
			mapping = sql.Boolean
		default:
			mapping = operand.Type()
		}
	}
	return &Unary{Op: op, Operand: operand, mapping: mapping}
}

// NewNot creates a new NOT expression.
func NewNot(operand sql.Expression) *Unary {
	return NewUnary(Not, operand, sql.Boolean)
}

// NewIsNull creates a new IS NULL expression.
func NewIsNull(operand sql.Expression) *Unary {
	return NewUnary(IsNull, operand, sql.Boolean)
}

// NewIsNotNull creates a new IS NOT NULL expression.
func NewIsNotNull(operand sql.Expression) *Unary {
	return NewUnary(IsNotNull, operand, sql.Boolean)
}

// NewConvert creates a conversion of operand to mapping.
func NewConvert(operand sql.Expression, mapping *sql.TypeMapping) *Unary {
	return NewUnary(Convert, operand, mapping)
}

// Update returns u if operand is its current operand, and a copy of u with
// the new operand otherwise.
func (u *Unary) Update(operand sql.Expression) *Unary {
	if operand == u.Operand {
		return u
	}
	return &Unary{Op: u.Op, Operand: operand, mapping: u.mapping}
}

// Type implements the sql.Expression interface.
func (u *Unary) Type() *sql.TypeMapping { return u.mapping }

// Children implements the sql.Expression interface.
func (u *Unary) Children() []sql.Expression { return []sql.Expression{u.Operand} }

// WithChildren implements the sql.Expression interface.
func (u *Unary) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(u, len(children), 1)
	}
	return u.Update(children[0]), nil
}

// Eval implements the sql.Expression interface.
func (u *Unary) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := u.Operand.Eval(ctx, row)
	if err != nil {
		return nil, err
	}

	switch u.Op {
	case IsNull:
		return v == nil, nil
	case IsNotNull:
		return v != nil, nil
	}

	if v == nil {
		return nil, nil
	}

	switch u.Op {
	case Not:
		b, err := asBool(v)
		if err != nil {
			return nil, err
		}
		return !b, nil
	case Negate:
		return negate(v)
	case Convert:
		if u.mapping == nil {
			return v, nil
		}
		return sql.Values.Convert(0, u.mapping.Kind, v)
	default:
		return nil, sql.ErrUnhandledExpression.New(u, u, "Unary.Eval")
	}
}

func (u *Unary) String() string {
	switch u.Op {
	case IsNull, IsNotNull:
		return fmt.Sprintf("%s %s", u.Operand, u.Op)
	case Not:
		return fmt.Sprintf("NOT(%s)", u.Operand)
	case Negate:
		return fmt.Sprintf("-(%s)", u.Operand)
	default:
		if u.mapping != nil {
			return fmt.Sprintf("CONVERT(%s, %s)", u.Operand, u.mapping.StoreType)
		}
		return fmt.Sprintf("CONVERT(%s)", u.Operand)
	}
}

// IsNullTest reports whether e is an IS NULL or IS NOT NULL test.
func IsNullTest(e sql.Expression) (*Unary, bool) {
	u, ok := e.(*Unary)
	if !ok || (u.Op != IsNull && u.Op != IsNotNull) {
		return nil, false
	}
	return u, true
}

// IsNotExpr reports whether e is a logical negation.
func IsNotExpr(e sql.Expression) (*Unary, bool) {
	u, ok := e.(*Unary)
	if !ok || u.Op != Not {
		return nil, false
	}
	return u, true
}
