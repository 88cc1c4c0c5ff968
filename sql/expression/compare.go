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
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/dolthub/go-query-shaper/sql"
)

// Compare compares two non null values. It returns -1, 0 or 1 when a is
// less than, equal to or greater than b.
func Compare(a, b interface{}) (int, error) {
	switch av := a.(type) {
	case string:
		bv, err := cast.ToStringE(b)
		if err != nil {
			return 0, sql.ErrInvalidCast.New(-1, sql.KindString, b)
		}
		return strings.Compare(av, bv), nil
	case []byte:
		bv, ok := b.([]byte)
		if !ok {
			return 0, sql.ErrInvalidCast.New(-1, sql.KindBytes, b)
		}
		return bytes.Compare(av, bv), nil
	case bool:
		bv, err := cast.ToBoolE(b)
		if err != nil {
			return 0, sql.ErrInvalidCast.New(-1, sql.KindBool, b)
		}
		return compareBool(av, bv), nil
	case time.Time:
		bv, err := cast.ToTimeE(b)
		if err != nil {
			return 0, sql.ErrInvalidCast.New(-1, sql.KindDateTime, b)
		}
		return av.Compare(bv), nil
	case uuid.UUID:
		bv, err := sql.Values.Guid(-1, b)
		if err != nil {
			return 0, err
		}
		return bytes.Compare(av.Bytes(), bv.Bytes()), nil
	}

	ad, err := toDecimal(a)
	if err != nil {
		return 0, err
	}
	bd, err := toDecimal(b)
	if err != nil {
		return 0, err
	}
	return ad.Cmp(bd), nil
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func toDecimal(v interface{}) (decimal.Decimal, error) {
	if b, ok := v.(bool); ok {
		if b {
			return decimal.New(1, 0), nil
		}
		return decimal.Zero, nil
	}
	return sql.Values.Decimal(-1, v)
}

func isInteger(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func arithmetic(op BinaryOp, l, r interface{}) (interface{}, error) {
	if op == Add {
		if ls, ok := l.(string); ok {
			rs, err := cast.ToStringE(r)
			if err != nil {
				return nil, sql.ErrInvalidCast.New(-1, sql.KindString, r)
			}
			return ls + rs, nil
		}
	}

	ld, err := toDecimal(l)
	if err != nil {
		return nil, err
	}
	rd, err := toDecimal(r)
	if err != nil {
		return nil, err
	}

	var result decimal.Decimal
	switch op {
	case Add:
		result = ld.Add(rd)
	case Subtract:
		result = ld.Sub(rd)
	case Multiply:
		result = ld.Mul(rd)
	case Divide:
		if rd.IsZero() {
			return nil, nil
		}
		if isInteger(l) && isInteger(r) {
			result = ld.Div(rd).Truncate(0)
		} else {
			result = ld.Div(rd)
		}
	case Modulo:
		if rd.IsZero() {
			return nil, nil
		}
		result = ld.Mod(rd)
	default:
		return nil, sql.ErrUnhandledExpression.New(op, op, "arithmetic")
	}

	if isInteger(l) && isInteger(r) {
		return result.IntPart(), nil
	}
	if _, ok := l.(decimal.Decimal); ok {
		return result, nil
	}
	if _, ok := r.(decimal.Decimal); ok {
		return result, nil
	}
	f, _ := result.Float64()
	return f, nil
}

func negate(v interface{}) (interface{}, error) {
	switch v := v.(type) {
	case decimal.Decimal:
		return v.Neg(), nil
	case float64:
		return -v, nil
	case float32:
		return -v, nil
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return nil, sql.ErrInvalidCast.New(-1, sql.KindInt64, v)
	}
	return -n, nil
}

func asBool(v interface{}) (bool, error) {
	return sql.Values.Bool(-1, v)
}

// evalBool evaluates e as a three-valued boolean: nil is unknown.
func evalBool(ctx *sql.Context, e sql.Expression, row sql.Row) (*bool, error) {
	v, err := e.Eval(ctx, row)
	if err != nil || v == nil {
		return nil, err
	}
	b, err := asBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// EvalPredicate evaluates e in a filter position, where unknown is false.
func EvalPredicate(ctx *sql.Context, e sql.Expression, row sql.Row) (bool, error) {
	b, err := evalBool(ctx, e, row)
	if err != nil || b == nil {
		return false, err
	}
	return *b, nil
}
