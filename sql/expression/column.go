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

// Column is a reference to a column of a table source. The index is the
// position of the column in the rows the expression is evaluated against.
type Column struct {
	table    string
	name     string
	index    int
	nullable bool
	mapping  *sql.TypeMapping
}

var _ sql.Expression = (*Column)(nil)
var _ sql.Nameable = (*Column)(nil)

// NewColumn creates a new Column expression.
func NewColumn(index int, mapping *sql.TypeMapping, table, name string, nullable bool) *Column {
	return &Column{
		table:    table,
		name:     name,
		index:    index,
		nullable: nullable,
		mapping:  mapping,
	}
}

// Name implements the sql.Nameable interface.
func (c *Column) Name() string { return c.name }

// Table returns the alias of the table the column belongs to.
func (c *Column) Table() string { return c.table }

// Index returns the position of the column in evaluated rows.
func (c *Column) Index() int { return c.index }

// IsNullable returns the declared nullability of the column.
func (c *Column) IsNullable() bool { return c.nullable }

// Type implements the sql.Expression interface.
func (c *Column) Type() *sql.TypeMapping { return c.mapping }

// Children implements the sql.Expression interface.
func (*Column) Children() []sql.Expression { return nil }

// WithChildren implements the sql.Expression interface.
func (c *Column) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 0)
	}
	return c, nil
}

// Eval implements the sql.Expression interface.
func (c *Column) Eval(_ *sql.Context, row sql.Row) (interface{}, error) {
	if err := sql.CheckOrdinal(c.index, len(row)); err != nil {
		return nil, err
	}
	return row[c.index], nil
}

func (c *Column) String() string {
	if c.table == "" {
		return c.name
	}
	return fmt.Sprintf("%s.%s", c.table, c.name)
}
