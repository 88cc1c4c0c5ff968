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

package sql

import (
	"context"
	"io"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
)

// RowReader gives access to the columns of the current row of a result set.
// Typed accessors fail with ErrNullValue when the value is null and with
// ErrInvalidCast when it cannot be represented as the requested type.
type RowReader interface {
	// FieldCount returns the number of columns of the current result set.
	FieldCount() int
	// Name returns the name of the column at the given ordinal.
	Name(i int) (string, error)
	// Ordinal returns the ordinal of the column with the given name.
	Ordinal(name string) (int, error)
	// FieldKind returns the kind of values of the column at the given ordinal.
	FieldKind(i int) (Kind, error)
	// DataTypeName returns the provider type name of the column.
	DataTypeName(i int) (string, error)

	IsNull(i int) (bool, error)
	GetBool(i int) (bool, error)
	GetByte(i int) (uint8, error)
	GetChar(i int) (rune, error)
	GetDateTime(i int) (time.Time, error)
	GetDateTimeOffset(i int) (time.Time, error)
	GetDecimal(i int) (decimal.Decimal, error)
	GetFloat64(i int) (float64, error)
	GetFloat32(i int) (float32, error)
	GetGuid(i int) (uuid.UUID, error)
	GetInt8(i int) (int8, error)
	GetInt16(i int) (int16, error)
	GetInt32(i int) (int32, error)
	GetInt64(i int) (int64, error)
	GetUint16(i int) (uint16, error)
	GetUint32(i int) (uint32, error)
	GetUint64(i int) (uint64, error)
	GetString(i int) (string, error)
	GetBytes(i int) ([]byte, error)
	// GetValue returns the value with its natural Go type, nil for null.
	GetValue(i int) (interface{}, error)
	// GetStream returns a reader over a binary or character column.
	GetStream(i int) (io.Reader, error)
}

// RowCursor is a forward-only cursor over one or more result sets.
type RowCursor interface {
	RowReader
	// Read advances to the next row of the current result set.
	Read(ctx context.Context) (bool, error)
	// NextResult advances to the next result set.
	NextResult(ctx context.Context) (bool, error)
	// HasRows reports whether the current result set contains any row.
	HasRows() bool
	// RecordsAffected returns the number of rows changed by the command, or
	// -1 for queries.
	RecordsAffected() int64
	// Close releases the cursor. Calling Close more than once is a no-op.
	Close() error
}

// ColumnSchema describes one column of a result set.
type ColumnSchema struct {
	Name         string
	Ordinal      int
	Kind         Kind
	DataTypeName string
	Nullable     bool
}

// SchemaReader is a cursor able to describe its current result set.
type SchemaReader interface {
	SchemaTable() ([]ColumnSchema, error)
}

// Connection executes commands against a store.
type Connection interface {
	// ExecuteReader executes the command and returns a cursor over its
	// results. The caller owns the cursor and must close it.
	ExecuteReader(ctx *Context, cmd *Command) (RowCursor, error)
}

// CheckOrdinal returns an error if i is not a valid ordinal for a result set
// with count columns.
func CheckOrdinal(i, count int) error {
	if i < 0 || i >= count {
		return ErrOrdinalOutOfRange.New(i, count)
	}
	return nil
}
