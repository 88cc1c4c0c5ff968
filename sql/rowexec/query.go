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

package rowexec

import (
	"github.com/dolthub/go-query-shaper/command"
	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/buffered"
)

// Query is everything needed to open a reader over the results of one
// physical query.
type Query struct {
	Commands   *command.Cache
	Connection sql.Connection
	// Buffered makes the reader drain the cursor into memory as soon as the
	// command is executed, releasing the connection for other readers.
	Buffered bool
	// Columns declares the columns of each result set when buffering. It
	// may be nil.
	Columns [][]*buffered.Column
	Options buffered.Options
}

// dataReader is an open cursor and the command it was executed with. The
// command goes back to the cache when the reader is closed.
type dataReader struct {
	cursor   sql.RowCursor
	cmd      *sql.Command
	commands *command.Cache
	closed   bool
}

func (q *Query) execute(ctx *sql.Context) (*dataReader, error) {
	span, ctx := ctx.Span("rowexec.execute")
	defer span.Finish()

	cmd, err := q.Commands.RentAndPopulate(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := q.Connection.ExecuteReader(ctx, cmd)
	if err != nil {
		q.Commands.Return(cmd)
		return nil, err
	}

	if q.Buffered {
		r := buffered.NewReader(cursor, q.Columns, q.Options)
		if err := r.Initialize(ctx); err != nil {
			q.Commands.Return(cmd)
			return nil, err
		}
		cursor = r
	}

	span.SetTag("buffered", q.Buffered)
	return &dataReader{cursor: cursor, cmd: cmd, commands: q.Commands}, nil
}

func (r *dataReader) read(ctx *sql.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return r.cursor.Read(ctx)
}

func (r *dataReader) Close() error {
	if r == nil || r.closed {
		return nil
	}
	r.closed = true
	err := r.cursor.Close()
	r.commands.Return(r.cmd)
	r.cmd = nil
	return err
}
