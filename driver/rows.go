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

package driver

import (
	"bytes"
	"context"
	stdsql "database/sql"
	"io"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"

	"github.com/dolthub/go-query-shaper/sql"
)

// Rows is a sql.RowCursor over *sql.Rows. The first row of each result set
// is fetched ahead to answer HasRows.
type Rows struct {
	rows    *stdsql.Rows
	schema  []sql.ColumnSchema
	release func()

	current []interface{}
	ahead   []interface{}
	hasRow  bool
	hasRows bool
	closed  bool
}

var _ sql.RowCursor = (*Rows)(nil)
var _ sql.SchemaReader = (*Rows)(nil)

func newRows(rows *stdsql.Rows, release func()) (*Rows, error) {
	r := &Rows{rows: rows, release: release}
	if err := r.startResultSet(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rows) startResultSet() error {
	types, err := r.rows.ColumnTypes()
	if err != nil {
		return err
	}
	r.schema = schemaOf(types)
	r.current = nil
	r.hasRow = false

	r.ahead, err = r.fetch()
	r.hasRows = r.ahead != nil
	return err
}

func (r *Rows) fetch() ([]interface{}, error) {
	if !r.rows.Next() {
		return nil, r.rows.Err()
	}

	values := make([]interface{}, len(r.schema))
	dest := make([]interface{}, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		return nil, err
	}
	return values, nil
}

// FieldCount implements the sql.RowReader interface.
func (r *Rows) FieldCount() int { return len(r.schema) }

func (r *Rows) column(i int) (sql.ColumnSchema, error) {
	if err := sql.CheckOrdinal(i, len(r.schema)); err != nil {
		return sql.ColumnSchema{}, err
	}
	return r.schema[i], nil
}

// Name implements the sql.RowReader interface.
func (r *Rows) Name(i int) (string, error) {
	c, err := r.column(i)
	return c.Name, err
}

// Ordinal implements the sql.RowReader interface.
func (r *Rows) Ordinal(name string) (int, error) {
	for i, c := range r.schema {
		if strings.EqualFold(c.Name, name) {
			return i, nil
		}
	}
	return -1, sql.ErrColumnNotFound.New(name)
}

// FieldKind implements the sql.RowReader interface.
func (r *Rows) FieldKind(i int) (sql.Kind, error) {
	c, err := r.column(i)
	return c.Kind, err
}

// DataTypeName implements the sql.RowReader interface.
func (r *Rows) DataTypeName(i int) (string, error) {
	c, err := r.column(i)
	return c.DataTypeName, err
}

func (r *Rows) value(i int) (interface{}, error) {
	if r.closed {
		return nil, sql.ErrReaderClosed.New()
	}
	if !r.hasRow {
		return nil, sql.ErrNoCurrentRow.New()
	}
	if err := sql.CheckOrdinal(i, len(r.schema)); err != nil {
		return nil, err
	}
	return r.current[i], nil
}

// IsNull implements the sql.RowReader interface.
func (r *Rows) IsNull(i int) (bool, error) {
	v, err := r.value(i)
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

func convert[T any](r *Rows, i int, f func(int, interface{}) (T, error)) (T, error) {
	v, err := r.value(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return f(i, v)
}

// GetBool implements the sql.RowReader interface.
func (r *Rows) GetBool(i int) (bool, error) { return convert(r, i, sql.Values.Bool) }

// GetByte implements the sql.RowReader interface.
func (r *Rows) GetByte(i int) (uint8, error) { return convert(r, i, sql.Values.Byte) }

// GetChar implements the sql.RowReader interface.
func (r *Rows) GetChar(i int) (rune, error) { return convert(r, i, sql.Values.Char) }

// GetDateTime implements the sql.RowReader interface.
func (r *Rows) GetDateTime(i int) (time.Time, error) {
	v, err := r.value(i)
	if err != nil {
		return time.Time{}, err
	}
	return sql.Values.Time(i, sql.KindDateTime, v)
}

// GetDateTimeOffset implements the sql.RowReader interface.
func (r *Rows) GetDateTimeOffset(i int) (time.Time, error) {
	v, err := r.value(i)
	if err != nil {
		return time.Time{}, err
	}
	return sql.Values.Time(i, sql.KindDateTimeOffset, v)
}

// GetDecimal implements the sql.RowReader interface.
func (r *Rows) GetDecimal(i int) (decimal.Decimal, error) { return convert(r, i, sql.Values.Decimal) }

// GetFloat64 implements the sql.RowReader interface.
func (r *Rows) GetFloat64(i int) (float64, error) { return convert(r, i, sql.Values.Float64) }

// GetFloat32 implements the sql.RowReader interface.
func (r *Rows) GetFloat32(i int) (float32, error) { return convert(r, i, sql.Values.Float32) }

// GetGuid implements the sql.RowReader interface.
func (r *Rows) GetGuid(i int) (uuid.UUID, error) { return convert(r, i, sql.Values.Guid) }

// GetInt8 implements the sql.RowReader interface.
func (r *Rows) GetInt8(i int) (int8, error) { return convert(r, i, sql.Values.Int8) }

// GetInt16 implements the sql.RowReader interface.
func (r *Rows) GetInt16(i int) (int16, error) { return convert(r, i, sql.Values.Int16) }

// GetInt32 implements the sql.RowReader interface.
func (r *Rows) GetInt32(i int) (int32, error) { return convert(r, i, sql.Values.Int32) }

// GetInt64 implements the sql.RowReader interface.
func (r *Rows) GetInt64(i int) (int64, error) { return convert(r, i, sql.Values.Int64) }

// GetUint16 implements the sql.RowReader interface.
func (r *Rows) GetUint16(i int) (uint16, error) { return convert(r, i, sql.Values.Uint16) }

// GetUint32 implements the sql.RowReader interface.
func (r *Rows) GetUint32(i int) (uint32, error) { return convert(r, i, sql.Values.Uint32) }

// GetUint64 implements the sql.RowReader interface.
func (r *Rows) GetUint64(i int) (uint64, error) { return convert(r, i, sql.Values.Uint64) }

// GetString implements the sql.RowReader interface.
func (r *Rows) GetString(i int) (string, error) { return convert(r, i, sql.Values.Text) }

// GetBytes implements the sql.RowReader interface.
func (r *Rows) GetBytes(i int) ([]byte, error) { return convert(r, i, sql.Values.Bytes) }

// GetValue implements the sql.RowReader interface.
func (r *Rows) GetValue(i int) (interface{}, error) {
	v, err := r.value(i)
	if err != nil {
		return nil, err
	}
	return sql.Values.Convert(i, r.schema[i].Kind, v)
}

// GetStream implements the sql.RowReader interface.
func (r *Rows) GetStream(i int) (io.Reader, error) {
	b, err := r.GetBytes(i)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// Read implements the sql.RowCursor interface.
func (r *Rows) Read(ctx context.Context) (bool, error) {
	if r.closed {
		return false, sql.ErrReaderClosed.New()
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if r.ahead != nil {
		r.current, r.ahead = r.ahead, nil
		r.hasRow = true
		return true, nil
	}

	values, err := r.fetch()
	if err != nil {
		return false, err
	}
	r.current = values
	r.hasRow = values != nil
	return r.hasRow, nil
}

// NextResult implements the sql.RowCursor interface.
func (r *Rows) NextResult(ctx context.Context) (bool, error) {
	if r.closed {
		return false, sql.ErrReaderClosed.New()
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if !r.rows.NextResultSet() {
		r.schema = nil
		r.current, r.ahead = nil, nil
		r.hasRow, r.hasRows = false, false
		return false, r.rows.Err()
	}
	if err := r.startResultSet(); err != nil {
		return false, err
	}
	return true, nil
}

// HasRows implements the sql.RowCursor interface.
func (r *Rows) HasRows() bool { return r.hasRows }

// RecordsAffected implements the sql.RowCursor interface. Queries run
// through database/sql don't report it.
func (r *Rows) RecordsAffected() int64 { return -1 }

// SchemaTable implements the sql.SchemaReader interface.
func (r *Rows) SchemaTable() ([]sql.ColumnSchema, error) {
	if r.closed {
		return nil, sql.ErrReaderClosed.New()
	}
	schema := make([]sql.ColumnSchema, len(r.schema))
	copy(schema, r.schema)
	return schema, nil
}

// Close implements the sql.RowCursor interface.
func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.rows.Close()
	r.release()
	return err
}
