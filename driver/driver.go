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

// Package driver adapts database/sql to the sql.Connection interface, so
// commands can be executed against any registered database/sql driver.
package driver

import (
	"context"
	stdsql "database/sql"

	"golang.org/x/sync/semaphore"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-query-shaper/sql"
)

// ErrReaderOpen is returned when a command is executed on a single reader
// connection that still has an open cursor.
var ErrReaderOpen = errors.NewKind("there is already an open cursor on this connection, it must be closed first")

// Queryer runs queries. *sql.DB, *sql.Conn and *sql.Tx are queryers.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*stdsql.Rows, error)
}

// Options of a Connection.
type Options struct {
	// SingleReader allows a single open cursor at a time, like stores
	// without multiple active result sets. Queries needing several readers
	// at once must buffer them.
	SingleReader bool
}

// Connection executes commands with a database/sql queryer.
type Connection struct {
	q       Queryer
	options Options
	readers *semaphore.Weighted
}

var _ sql.Connection = (*Connection)(nil)

// NewConnection returns a connection running commands with q.
func NewConnection(q Queryer, options Options) *Connection {
	c := &Connection{q: q, options: options}
	if options.SingleReader {
		c.readers = semaphore.NewWeighted(1)
	}
	return c
}

// ExecuteReader implements the sql.Connection interface.
func (c *Connection) ExecuteReader(ctx *sql.Context, cmd *sql.Command) (sql.RowCursor, error) {
	release := func() {}
	if c.readers != nil {
		if !c.readers.TryAcquire(1) {
			return nil, ErrReaderOpen.New()
		}
		release = func() { c.readers.Release(1) }
	}

	span, ctx := ctx.Span("driver.execute")
	defer span.Finish()

	rows, err := c.q.QueryContext(ctx, cmd.Text, namedValues(cmd.Parameters)...)
	if err != nil {
		release()
		return nil, err
	}

	r, err := newRows(rows, release)
	if err != nil {
		_ = rows.Close()
		release()
		return nil, err
	}
	return r, nil
}
