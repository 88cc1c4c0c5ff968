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

package memory

import (
	"strings"

	"github.com/dolthub/go-query-shaper/sql"
)

// Table is a named in-memory result source.
type Table struct {
	name    string
	columns []sql.ColumnSchema
	rows    []sql.Row
}

// NewTable creates an empty table with the given columns. Column ordinals
// are assigned from their position.
func NewTable(name string, columns ...sql.ColumnSchema) *Table {
	cols := make([]sql.ColumnSchema, len(columns))
	copy(cols, columns)
	for i := range cols {
		cols[i].Ordinal = i
	}
	return &Table{name: name, columns: cols}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns the columns of the table.
func (t *Table) Columns() []sql.ColumnSchema { return t.columns }

// Insert appends rows to the table. Rows are copied.
func (t *Table) Insert(rows ...sql.Row) {
	for _, r := range rows {
		t.rows = append(t.rows, r.Copy())
	}
}

// Rows returns the rows of the table in insertion order.
func (t *Table) Rows() []sql.Row { return t.rows }

// ResultSet returns all the rows of the table as a result set.
func (t *Table) ResultSet() ResultSet {
	return ResultSet{Columns: t.columns, Rows: t.rows, RecordsAffected: -1}
}

// Where returns the rows for which f is true as a result set.
func (t *Table) Where(f func(sql.Row) bool) ResultSet {
	var rows []sql.Row
	for _, r := range t.rows {
		if f(r) {
			rows = append(rows, r)
		}
	}
	return ResultSet{Columns: t.columns, Rows: rows, RecordsAffected: -1}
}

func (t *Table) String() string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return t.name + "(" + strings.Join(names, ", ") + ")"
}

// Column is a shorthand to declare a table column.
func Column(name string, kind sql.Kind, nullable bool) sql.ColumnSchema {
	return sql.ColumnSchema{Name: name, Kind: kind, DataTypeName: kind.String(), Nullable: nullable}
}
