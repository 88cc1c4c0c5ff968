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

package driver_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"reflect"
	"sync"
)

type fakeColumn struct {
	name     string
	typeName string
	scan     reflect.Type
	nullable bool
}

type fakeSet struct {
	columns []fakeColumn
	rows    [][]driver.Value
}

type fakeQuery struct {
	text string
	args []driver.NamedValue
}

// fakeConnector answers every query with the same result sets, except
// queries with the text "fail".
type fakeConnector struct {
	sets []fakeSet

	mu      sync.Mutex
	queries []fakeQuery
	open    int
}

var _ driver.Connector = (*fakeConnector)(nil)

func (c *fakeConnector) Connect(context.Context) (driver.Conn, error) {
	return &fakeConn{connector: c}, nil
}

func (c *fakeConnector) Driver() driver.Driver { return fakeDriver{} }

func (c *fakeConnector) openRows() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("use the connector")
}

type fakeConn struct {
	connector *fakeConnector
}

var _ driver.QueryerContext = (*fakeConn)(nil)

func (*fakeConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements are not supported")
}

func (*fakeConn) Close() error { return nil }

func (*fakeConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions are not supported")
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query == "fail" {
		return nil, errors.New("query failed")
	}

	c.connector.mu.Lock()
	defer c.connector.mu.Unlock()
	c.connector.queries = append(c.connector.queries, fakeQuery{text: query, args: args})
	c.connector.open++
	return &fakeRows{connector: c.connector, sets: c.connector.sets, row: -1}, nil
}

type fakeRows struct {
	connector *fakeConnector
	sets      []fakeSet
	set       int
	row       int
	closed    bool
}

func (r *fakeRows) Columns() []string {
	names := make([]string, len(r.sets[r.set].columns))
	for i, c := range r.sets[r.set].columns {
		names[i] = c.name
	}
	return names
}

func (r *fakeRows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.connector.mu.Lock()
	r.connector.open--
	r.connector.mu.Unlock()
	return nil
}

func (r *fakeRows) Next(dest []driver.Value) error {
	rows := r.sets[r.set].rows
	if r.row+1 >= len(rows) {
		return io.EOF
	}
	r.row++
	copy(dest, rows[r.row])
	return nil
}

func (r *fakeRows) HasNextResultSet() bool { return r.set+1 < len(r.sets) }

func (r *fakeRows) NextResultSet() error {
	if !r.HasNextResultSet() {
		return io.EOF
	}
	r.set++
	r.row = -1
	return nil
}

func (r *fakeRows) ColumnTypeScanType(i int) reflect.Type { return r.sets[r.set].columns[i].scan }

func (r *fakeRows) ColumnTypeDatabaseTypeName(i int) string { return r.sets[r.set].columns[i].typeName }

func (r *fakeRows) ColumnTypeNullable(i int) (bool, bool) { return r.sets[r.set].columns[i].nullable, true }
