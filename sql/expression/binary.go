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

// BinaryOp is the operator of a Binary expression.
type BinaryOp byte

const (
	And BinaryOp = iota
	Or
	Equal
	NotEqual
	GreaterThan
	GreaterThanOrEqual
	LessThan
	LessThanOrEqual
	Add
	Subtract
	Multiply
	Divide
	Modulo
)

var binaryOpSymbols = map[BinaryOp]string{
	And:                "AND",
	Or:                 "OR",
	Equal:              "=",
	NotEqual:           "<>",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	Add:                "+",
	Subtract:           "-",
	Multiply:           "*",
	Divide:             "/",
	Modulo:             "%",
}

func (op BinaryOp) String() string {
	if s, ok := binaryOpSymbols[op]; ok {
		return s
	}
	return fmt.Sprintf("BinaryOp(%d)", op)
}

// IsLogical reports whether op is AND or OR.
func (op BinaryOp) IsLogical() bool {
	return op == And || op == Or
}

// IsComparison reports whether op compares its operands.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case Equal, NotEqual, GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual:
		return true
	}
	return false
}

var negatedComparisons = map[BinaryOp]BinaryOp{
	Equal:              NotEqual,
	NotEqual:           Equal,
	GreaterThan:        LessThanOrEqual,
	GreaterThanOrEqual: LessThan,
	LessThan:           GreaterThanOrEqual,
	LessThanOrEqual:    GreaterThan,
}

// Negated returns the comparison that is true exactly when op is false for
// non null operands.
func (op BinaryOp) Negated() (BinaryOp, bool) {
	n, ok := negatedComparisons[op]
	return n, ok
}

var swappedComparisons = map[BinaryOp]BinaryOp{
	Equal:              Equal,
	NotEqual:           NotEqual,
	GreaterThan:        LessThan,
	GreaterThanOrEqual: LessThanOrEqual,
	LessThan:           GreaterThan,
	LessThanOrEqual:    GreaterThanOrEqual,
}

// Swapped returns the comparison with its operands exchanged, so that
// `a op b` is `b op.Swapped() a`.
func (op BinaryOp) Swapped() (BinaryOp, bool) {
	s, ok := swappedComparisons[op]
	return s, ok
}

// Binary is an expression with two operands.
type Binary struct {
	Op      BinaryOp
	Left    sql.Expression
	Right   sql.Expression
	mapping *sql.TypeMapping
}

var _ sql.Expression = (*Binary)(nil)

// NewBinary creates a new Binary expression. Logical and comparison
// operators always have a boolean mapping.
func NewBinary(op BinaryOp, left, right sql.Expression, mapping *sql.TypeMapping) *Binary {
	if op.IsLogical() || op.IsComparison() {
		mapping = sql.Boolean
	} else if mapping == nil {
		mapping = left.Type()
		if mapping == nil {
			mapping = right.Type()
		}
	}
	return &Binary{Op: op, Left: left, Right: right, mapping: mapping}
}

// NewAnd creates a new AND expression.
func NewAnd(left, right sql.Expression) *Binary {
	return NewBinary(And, left, right, nil)
}

// NewOr creates a new OR expression.
func NewOr(left, right sql.Expression) *Binary {
	return NewBinary(Or, left, right, nil)
}

// NewEquals creates a new = expression.
func NewEquals(left, right sql.Expression) *Binary {
	return NewBinary(Equal, left, right, nil)
}

// NewNotEquals creates a new <> expression.
func NewNotEquals(left, right sql.Expression) *Binary {
	return NewBinary(NotEqual, left, right, nil)
}

// NewGreaterThan creates a new > expression.
func NewGreaterThan(left, right sql.Expression) *Binary {
	return NewBinary(GreaterThan, left, right, nil)
}

// NewGreaterThanOrEqual creates a new >= expression.
func NewGreaterThanOrEqual(left, right sql.Expression) *Binary {
	return NewBinary(GreaterThanOrEqual, left, right, nil)
}

// NewLessThan creates a new < expression.
func NewLessThan(left, right sql.Expression) *Binary {
	return NewBinary(LessThan, left, right, nil)
}

// NewLessThanOrEqual creates a new <= expression.
func NewLessThanOrEqual(left, right sql.Expression) *Binary {
	return NewBinary(LessThanOrEqual, left, right, nil)
}

// NewAdd creates a new + expression.
func NewAdd(left, right sql.Expression) *Binary {
	return NewBinary(Add, left, right, nil)
}

// JoinAnd joins all the given expressions with AND. Nil expressions are
// skipped; it returns nil if no expression is left.
func JoinAnd(exprs ...sql.Expression) sql.Expression {
	var result sql.Expression
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if result == nil {
			result = e
		} else {
			result = NewAnd(result, e)
		}
	}
	return result
}

// Update returns b if left and right are its current operands, and a copy of
// b with the new operands otherwise.
func (b *Binary) Update(left, right sql.Expression) *Binary {
	if left == b.Left && right == b.Right {
		return b
	}
	return &Binary{Op: b.Op, Left: left, Right: right, mapping: b.mapping}
}

// Type implements the sql.Expression interface.
func (b *Binary) Type() *sql.TypeMapping { return b.mapping }

// Children implements the sql.Expression interface.
func (b *Binary) Children() []sql.Expression {
	return []sql.Expression{b.Left, b.Right}
}

// WithChildren implements the sql.Expression interface.
func (b *Binary) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(b, len(children), 2)
	}
	return b.Update(children[0], children[1]), nil
}

// Eval implements the sql.Expression interface.
func (b *Binary) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	switch b.Op {
	case And:
		return b.evalAnd(ctx, row)
	case Or:
		return b.evalOr(ctx, row)
	}

	l, err := b.Left.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	r, err := b.Right.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	if l == nil || r == nil {
		return nil, nil
	}

	if b.Op.IsComparison() {
		cmp, err := Compare(l, r)
		if err != nil {
			return nil, err
		}
		switch b.Op {
		case Equal:
			return cmp == 0, nil
		case NotEqual:
			return cmp != 0, nil
		case GreaterThan:
			return cmp > 0, nil
		case GreaterThanOrEqual:
			return cmp >= 0, nil
		case LessThan:
			return cmp < 0, nil
		default:
			return cmp <= 0, nil
		}
	}

	return arithmetic(b.Op, l, r)
}

func (b *Binary) evalAnd(ctx *sql.Context, row sql.Row) (interface{}, error) {
	l, err := evalBool(ctx, b.Left, row)
	if err != nil {
		return nil, err
	}
	if l != nil && !*l {
		return false, nil
	}
	r, err := evalBool(ctx, b.Right, row)
	if err != nil {
		return nil, err
	}
	if r != nil && !*r {
		return false, nil
	}
	if l == nil || r == nil {
		return nil, nil
	}
	return true, nil
}

func (b *Binary) evalOr(ctx *sql.Context, row sql.Row) (interface{}, error) {
	l, err := evalBool(ctx, b.Left, row)
	if err != nil {
		return nil, err
	}
	if l != nil && *l {
		return true, nil
	}
	r, err := evalBool(ctx, b.Right, row)
	if err != nil {
		return nil, err
	}
	if r != nil && *r {
		return true, nil
	}
	if l == nil || r == nil {
		return nil, nil
	}
	return false, nil
}

func (b *Binary) String() string {
	switch b.Op {
	case And, Or:
		return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
	default:
		return fmt.Sprintf("%s %s %s", b.Left, b.Op, b.Right)
	}
}
