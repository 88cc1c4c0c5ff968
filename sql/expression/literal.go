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
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dolthub/go-query-shaper/sql"
)

// Literal represents a constant value. A literal holding a []interface{} is
// a value list, used as the values of an IN expression.
type Literal struct {
	value   interface{}
	mapping *sql.TypeMapping
}

var _ sql.Expression = (*Literal)(nil)

// NewLiteral creates a new Literal expression.
func NewLiteral(value interface{}, mapping *sql.TypeMapping) *Literal {
	if mapping == nil && value != nil {
		if _, ok := value.([]interface{}); !ok {
			mapping = sql.MappingFor(value)
		}
	}
	return &Literal{value: value, mapping: mapping}
}

// NewBool creates a boolean literal.
func NewBool(b bool) *Literal {
	return &Literal{value: b, mapping: sql.Boolean}
}

// NewNull creates a null literal with the given mapping.
func NewNull(mapping *sql.TypeMapping) *Literal {
	return &Literal{mapping: mapping}
}

// NewList creates a value list literal.
func NewList(values []interface{}, mapping *sql.TypeMapping) *Literal {
	return &Literal{value: values, mapping: mapping}
}

// Value returns the literal value.
func (l *Literal) Value() interface{} { return l.value }

// IsNull returns whether the literal is the null value.
func (l *Literal) IsNull() bool { return l.value == nil }

// List returns the values of a value list literal.
func (l *Literal) List() ([]interface{}, bool) {
	values, ok := l.value.([]interface{})
	return values, ok
}

// Type implements the sql.Expression interface.
func (l *Literal) Type() *sql.TypeMapping { return l.mapping }

// Children implements the sql.Expression interface.
func (*Literal) Children() []sql.Expression { return nil }

// WithChildren implements the sql.Expression interface.
func (l *Literal) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(children), 0)
	}
	return l, nil
}

// Eval implements the sql.Expression interface.
func (l *Literal) Eval(*sql.Context, sql.Row) (interface{}, error) {
	return l.value, nil
}

func (l *Literal) String() string {
	if values, ok := l.List(); ok {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = formatValue(v)
		}
		return strings.Join(parts, ", ")
	}
	return formatValue(l.value)
}

func formatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case []byte:
		return fmt.Sprintf("0x%X", v)
	case decimal.Decimal:
		return v.String()
	case time.Time:
		return "'" + v.Format("2006-01-02 15:04:05.9999999Z07:00") + "'"
	case fmt.Stringer:
		return "'" + v.String() + "'"
	default:
		return fmt.Sprint(v)
	}
}

// BoolValue returns the value of e when it is a non-null boolean literal.
func BoolValue(e sql.Expression) (value bool, ok bool) {
	l, isLit := e.(*Literal)
	if !isLit {
		return false, false
	}
	value, ok = l.value.(bool)
	return value, ok
}

// IsTrue returns whether e is the literal true.
func IsTrue(e sql.Expression) bool {
	v, ok := BoolValue(e)
	return ok && v
}

// IsFalse returns whether e is the literal false.
func IsFalse(e sql.Expression) bool {
	v, ok := BoolValue(e)
	return ok && !v
}
