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
	"sync"

	"github.com/dolthub/go-query-shaper/sql"
)

// Handler answers a command with result sets.
type Handler func(ctx *sql.Context, cmd *sql.Command) ([]ResultSet, error)

// Connection is a sql.Connection answering commands with a Handler. It
// records every executed command and every cursor it opened.
type Connection struct {
	handler Handler

	mu       sync.Mutex
	commands []string
	cursors  []*Cursor
}

var _ sql.Connection = (*Connection)(nil)

// NewConnection creates a connection answering commands with h.
func NewConnection(h Handler) *Connection {
	return &Connection{handler: h}
}

// NewStaticConnection creates a connection answering every command with
// the given result sets.
func NewStaticConnection(results ...ResultSet) *Connection {
	return NewConnection(func(*sql.Context, *sql.Command) ([]ResultSet, error) {
		return results, nil
	})
}

// ExecuteReader implements the sql.Connection interface.
func (c *Connection) ExecuteReader(ctx *sql.Context, cmd *sql.Command) (sql.RowCursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.commands = append(c.commands, cmd.String())
	c.mu.Unlock()

	results, err := c.handler(ctx, cmd)
	if err != nil {
		return nil, err
	}

	cursor := NewCursor(results...)
	c.mu.Lock()
	c.cursors = append(c.cursors, cursor)
	c.mu.Unlock()
	return cursor, nil
}

// Commands returns the text and parameters of every executed command.
func (c *Connection) Commands() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.commands...)
}

// Cursors returns every cursor opened by the connection.
func (c *Connection) Cursors() []*Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Cursor(nil), c.cursors...)
}

// OpenCursors returns the number of cursors not closed yet.
func (c *Connection) OpenCursors() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, cur := range c.cursors {
		if !cur.Closed() {
			n++
		}
	}
	return n
}
