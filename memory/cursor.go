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
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"

	"github.com/dolthub/go-query-shaper/sql"
)

// ResultSet is one result set returned by a Cursor.
type ResultSet struct {
	Columns []sql.ColumnSchema
	Rows    []sql.Row
	// RecordsAffected is added to the cursor total when not negative.
	RecordsAffected int64
}

// Cursor is a RowCursor over in-memory result sets. Values are converted
// on read with sql.Values, like a driver would.
type Cursor struct {
	results []ResultSet
	current int
	row     int
	reads   int
	closed  bool

	// FailRead, when set, is returned by the Read call after FailAfter rows
	// were read.
	FailRead  error
	FailAfter int
}

var _ sql.RowCursor = (*Cursor)(nil)
var _ sql.SchemaReader = (*Cursor)(nil)

// NewCursor creates a cursor positioned on the first result set.
func NewCursor(results ...ResultSet) *Cursor {
	return &Cursor{results: results, row: -1}
}

func (c *Cursor) set() *ResultSet {
	if c.current >= len(c.results) {
		return nil
	}
	return &c.results[c.current]
}

// FieldCount implements the sql.RowReader interface.
func (c *Cursor) FieldCount() int {
	if s := c.set(); s != nil {
		return len(s.Columns)
	}
	return 0
}

func (c *Cursor) column(i int) (sql.ColumnSchema, error) {
	s := c.set()
	if s == nil {
		return sql.ColumnSchema{}, sql.ErrNoCurrentRow.New()
	}
	if err := sql.CheckOrdinal(i, len(s.Columns)); err != nil {
		return sql.ColumnSchema{}, err
	}
	return s.Columns[i], nil
}

// Name implements the sql.RowReader interface.
func (c *Cursor) Name(i int) (string, error) {
	col, err := c.column(i)
	return col.Name, err
}

// Ordinal implements the sql.RowReader interface.
func (c *Cursor) Ordinal(name string) (int, error) {
	if s := c.set(); s != nil {
		for i, col := range s.Columns {
			if strings.EqualFold(col.Name, name) {
				return i, nil
			}
		}
	}
	return -1, sql.ErrColumnNotFound.New(name)
}

// FieldKind implements the sql.RowReader interface.
func (c *Cursor) FieldKind(i int) (sql.Kind, error) {
	col, err := c.column(i)
	return col.Kind, err
}

// DataTypeName implements the sql.RowReader interface.
func (c *Cursor) DataTypeName(i int) (string, error) {
	col, err := c.column(i)
	return col.DataTypeName, err
}

func (c *Cursor) value(i int) (interface{}, error) {
	if c.closed {
		return nil, sql.ErrReaderClosed.New()
	}
	s := c.set()
	if s == nil || c.row < 0 || c.row >= len(s.Rows) {
		return nil, sql.ErrNoCurrentRow.New()
	}
	if err := sql.CheckOrdinal(i, len(s.Columns)); err != nil {
		return nil, err
	}
	return s.Rows[c.row][i], nil
}

// IsNull implements the sql.RowReader interface.
func (c *Cursor) IsNull(i int) (bool, error) {
	v, err := c.value(i)
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

// GetBool implements the sql.RowReader interface.
func (c *Cursor) GetBool(i int) (bool, error) {
	v, err := c.value(i)
	if err != nil {
		return false, err
	}
	return sql.Values.Bool(i, v)
}

// GetByte implements the sql.RowReader interface.
func (c *Cursor) GetByte(i int) (uint8, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return sql.Values.Byte(i, v)
}

// GetChar implements the sql.RowReader interface.
func (c *Cursor) GetChar(i int) (rune, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return sql.Values.Char(i, v)
}

// GetDateTime implements the sql.RowReader interface.
func (c *Cursor) GetDateTime(i int) (time.Time, error) {
	v, err := c.value(i)
	if err != nil {
		return time.Time{}, err
	}
	return sql.Values.Time(i, sql.KindDateTime, v)
}

// GetDateTimeOffset implements the sql.RowReader interface.
func (c *Cursor) GetDateTimeOffset(i int) (time.Time, error) {
	v, err := c.value(i)
	if err != nil {
		return time.Time{}, err
	}
	return sql.Values.Time(i, sql.KindDateTimeOffset, v)
}

// GetDecimal implements the sql.RowReader interface.
func (c *Cursor) GetDecimal(i int) (decimal.Decimal, error) {
	v, err := c.value(i)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return sql.Values.Decimal(i, v)
}

// GetFloat64 implements the sql.RowReader interface.
func (c *Cursor) GetFloat64(i int) (float64, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return sql.Values.Float64(i, v)
}

// GetFloat32 implements the sql.RowReader interface.
func (c *Cursor) GetFloat32(i int) (float32, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return sql.Values.Float32(i, v)
}

// GetGuid implements the sql.RowReader interface.
func (c *Cursor) GetGuid(i int) (uuid.UUID, error) {
	v, err := c.value(i)
	if err != nil {
		return uuid.Nil, err
	}
	return sql.Values.Guid(i, v)
}

// GetInt8 implements the sql.RowReader interface.
func (c *Cursor) GetInt8(i int) (int8, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return sql.Values.Int8(i, v)
}

// GetInt16 implements the sql.RowReader interface.
func (c *Cursor) GetInt16(i int) (int16, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return sql.Values.Int16(i, v)
}

// GetInt32 implements the sql.RowReader interface.
func (c *Cursor) GetInt32(i int) (int32, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return sql.Values.Int32(i, v)
}

// GetInt64 implements the sql.RowReader interface.
func (c *Cursor) GetInt64(i int) (int64, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return sql.Values.Int64(i, v)
}

// GetUint16 implements the sql.RowReader interface.
func (c *Cursor) GetUint16(i int) (uint16, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return sql.Values.Uint16(i, v)
}

// GetUint32 implements the sql.RowReader interface.
func (c *Cursor) GetUint32(i int) (uint32, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return sql.Values.Uint32(i, v)
}

// GetUint64 implements the sql.RowReader interface.
func (c *Cursor) GetUint64(i int) (uint64, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return sql.Values.Uint64(i, v)
}

// GetString implements the sql.RowReader interface.
func (c *Cursor) GetString(i int) (string, error) {
	v, err := c.value(i)
	if err != nil {
		return "", err
	}
	return sql.Values.Text(i, v)
}

// GetBytes implements the sql.RowReader interface.
func (c *Cursor) GetBytes(i int) ([]byte, error) {
	v, err := c.value(i)
	if err != nil {
		return nil, err
	}
	return sql.Values.Bytes(i, v)
}

// GetValue implements the sql.RowReader interface.
func (c *Cursor) GetValue(i int) (interface{}, error) {
	v, err := c.value(i)
	if err != nil {
		return nil, err
	}
	return sql.Values.Convert(i, c.set().Columns[i].Kind, v)
}

// GetStream implements the sql.RowReader interface.
func (c *Cursor) GetStream(i int) (io.Reader, error) {
	b, err := c.GetBytes(i)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// Read implements the sql.RowCursor interface.
func (c *Cursor) Read(ctx context.Context) (bool, error) {
	if c.closed {
		return false, sql.ErrReaderClosed.New()
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if c.FailRead != nil && c.reads >= c.FailAfter {
		return false, c.FailRead
	}
	s := c.set()
	if s == nil || c.row+1 >= len(s.Rows) {
		if s != nil {
			c.row = len(s.Rows)
		}
		return false, nil
	}
	c.row++
	c.reads++
	return true, nil
}

// NextResult implements the sql.RowCursor interface.
func (c *Cursor) NextResult(ctx context.Context) (bool, error) {
	if c.closed {
		return false, sql.ErrReaderClosed.New()
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if c.current < len(c.results) {
		c.current++
	}
	c.row = -1
	return c.current < len(c.results), nil
}

// HasRows implements the sql.RowCursor interface.
func (c *Cursor) HasRows() bool {
	s := c.set()
	return s != nil && len(s.Rows) > 0
}

// RecordsAffected implements the sql.RowCursor interface.
func (c *Cursor) RecordsAffected() int64 {
	total := int64(-1)
	for _, s := range c.results {
		if s.RecordsAffected < 0 {
			continue
		}
		if total < 0 {
			total = 0
		}
		total += s.RecordsAffected
	}
	return total
}

// Close implements the sql.RowCursor interface.
func (c *Cursor) Close() error {
	c.closed = true
	return nil
}

// Closed reports whether Close was called.
func (c *Cursor) Closed() bool { return c.closed }

// Reads returns the number of rows read so far.
func (c *Cursor) Reads() int { return c.reads }

// SchemaTable implements the sql.SchemaReader interface.
func (c *Cursor) SchemaTable() ([]sql.ColumnSchema, error) {
	if c.closed {
		return nil, sql.ErrReaderClosed.New()
	}
	s := c.set()
	if s == nil {
		return nil, nil
	}
	schema := make([]sql.ColumnSchema, len(s.Columns))
	copy(schema, s.Columns)
	for i := range schema {
		schema[i].Ordinal = i
	}
	return schema, nil
}

// ReadAll reads every remaining row of every remaining result set of c with
// GetValue. It doesn't close c.
func ReadAll(ctx context.Context, c sql.RowCursor) ([][]sql.Row, error) {
	var sets [][]sql.Row
	for {
		rows := []sql.Row{}
		for {
			ok, err := c.Read(ctx)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			row := make(sql.Row, c.FieldCount())
			for i := range row {
				if row[i], err = c.GetValue(i); err != nil {
					return nil, err
				}
			}
			rows = append(rows, row)
		}
		sets = append(sets, rows)

		more, err := c.NextResult(ctx)
		if err != nil {
			return nil, err
		}
		if !more {
			return sets, nil
		}
	}
}
