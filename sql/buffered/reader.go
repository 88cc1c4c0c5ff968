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

package buffered

import (
	"context"
	"io"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"

	"github.com/dolthub/go-query-shaper/sql"
)

// Column declares how a column of a result set is consumed.
type Column struct {
	// Kind the column is read as. KindObject keeps the kind reported by the
	// cursor.
	Kind sql.Kind
	// Nullable columns are checked for null on every row. Columns declared
	// non-nullable are read without checking, unless the reader verifies
	// nullability.
	Nullable bool
	// Entity and Property name the destination of the column in detailed
	// errors.
	Entity   string
	Property string
}

// Options of a buffered reader.
type Options struct {
	// DetailedErrors adds the destination property and the offending value
	// to read errors.
	DetailedErrors bool
	// VerifyNullability checks columns declared non-nullable and fails when
	// they contain null.
	VerifyNullability bool
}

// Reader drains every result set of a cursor into memory and replays them
// with the same contract as a live cursor. Once initialized, the buffered
// data is immutable and can be shared by the readers returned by Replay.
type Reader struct {
	cursor  sql.RowCursor
	columns [][]*Column
	opts    Options

	records         []*record
	recordsAffected int64
	initialized     bool

	current int
	row     int
	closed  bool
}

var _ sql.RowCursor = (*Reader)(nil)
var _ sql.SchemaReader = (*Reader)(nil)

// NewReader creates a reader over the given cursor. columns holds the
// column declarations of each result set; a missing or nil entry buffers
// every column of that result set as nullable.
func NewReader(cursor sql.RowCursor, columns [][]*Column, opts Options) *Reader {
	return &Reader{cursor: cursor, columns: columns, opts: opts, row: -1, recordsAffected: -1}
}

func (r *Reader) declarations(set int) []*Column {
	if set < len(r.columns) {
		return r.columns[set]
	}
	return nil
}

// Initialize reads every row of every result set of the cursor and closes
// it. The cursor is closed even when reading fails.
func (r *Reader) Initialize(ctx context.Context) (err error) {
	if r.initialized {
		return nil
	}
	if r.closed || r.cursor == nil {
		return sql.ErrReaderClosed.New()
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "buffered.initialize")
	defer span.Finish()

	defer func() {
		if cerr := r.cursor.Close(); err == nil {
			err = cerr
		}
		r.cursor = nil
	}()

	for set := 0; ; set++ {
		rec, err := readRecord(ctx, r.cursor, r.declarations(set), r.opts)
		if err != nil {
			return err
		}
		r.records = append(r.records, rec)

		more, err := r.cursor.NextResult(ctx)
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	r.recordsAffected = r.cursor.RecordsAffected()
	r.initialized = true
	span.SetTag("results", len(r.records))
	return nil
}

// InitializeAsync runs Initialize in its own goroutine. The channel
// receives its result and is then closed.
func (r *Reader) InitializeAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- r.Initialize(ctx)
	}()
	return done
}

// Replay returns a new reader over the same buffered data, positioned on
// the first result set.
func (r *Reader) Replay() (*Reader, error) {
	if !r.initialized {
		return nil, ErrNotInitialized.New()
	}
	return &Reader{
		records:         r.records,
		recordsAffected: r.recordsAffected,
		initialized:     true,
		row:             -1,
	}, nil
}

func (r *Reader) record() *record {
	if r.current < len(r.records) {
		return r.records[r.current]
	}
	return nil
}

// cell checks the state of the reader and returns the current record and
// the column at ordinal i.
func (r *Reader) cell(i int) (*record, *column, error) {
	if r.closed {
		return nil, nil, sql.ErrReaderClosed.New()
	}
	rec := r.record()
	if rec == nil || r.row < 0 || r.row >= rec.rowCount {
		return nil, nil, sql.ErrNoCurrentRow.New()
	}
	if err := sql.CheckOrdinal(i, len(rec.columns)); err != nil {
		return nil, nil, err
	}
	c := &rec.columns[i]
	if c.tc == caseEmpty {
		return nil, nil, ErrColumnNotBuffered.New(i)
	}
	return rec, c, nil
}

// get reads a typed cell. Cells stored with the requested type case are
// returned as they are; others go through convert.
func get[T any](r *Reader, i int, tc typeCase, s func(*record) *store[T], convert func(int, interface{}) (T, error)) (T, error) {
	rec, c, err := r.cell(i)
	if err != nil {
		var zero T
		return zero, err
	}
	if c.tc == tc && !rec.isNull(r.row, c) {
		return s(rec).get(r.row, c.slot), nil
	}
	return convert(i, rec.value(r.row, c))
}

// FieldCount implements the sql.RowReader interface.
func (r *Reader) FieldCount() int {
	if rec := r.record(); rec != nil {
		return len(rec.columns)
	}
	return 0
}

// column returns the metadata of the column at ordinal i of the current
// result set. Unlike cell it does not need a current row.
func (r *Reader) column(i int) (*column, error) {
	if r.closed {
		return nil, sql.ErrReaderClosed.New()
	}
	if !r.initialized {
		return nil, ErrNotInitialized.New()
	}
	rec := r.record()
	if rec == nil {
		return nil, sql.ErrNoCurrentRow.New()
	}
	if err := sql.CheckOrdinal(i, len(rec.columns)); err != nil {
		return nil, err
	}
	return &rec.columns[i], nil
}

// Name implements the sql.RowReader interface.
func (r *Reader) Name(i int) (string, error) {
	c, err := r.column(i)
	if err != nil {
		return "", err
	}
	return c.name, nil
}

// Ordinal implements the sql.RowReader interface.
func (r *Reader) Ordinal(name string) (int, error) {
	rec := r.record()
	if rec == nil {
		return -1, sql.ErrColumnNotFound.New(name)
	}
	return rec.ordinal(name)
}

// FieldKind implements the sql.RowReader interface.
func (r *Reader) FieldKind(i int) (sql.Kind, error) {
	c, err := r.column(i)
	if err != nil {
		return sql.KindObject, err
	}
	return c.kind, nil
}

// DataTypeName implements the sql.RowReader interface.
func (r *Reader) DataTypeName(i int) (string, error) {
	c, err := r.column(i)
	if err != nil {
		return "", err
	}
	return c.dataTypeName, nil
}

// IsNull implements the sql.RowReader interface.
func (r *Reader) IsNull(i int) (bool, error) {
	rec, c, err := r.cell(i)
	if err != nil {
		return false, err
	}
	return rec.isNull(r.row, c), nil
}

// GetBool implements the sql.RowReader interface.
func (r *Reader) GetBool(i int) (bool, error) {
	rec, c, err := r.cell(i)
	if err != nil {
		return false, err
	}
	if c.tc == caseBool && !rec.isNull(r.row, c) {
		return rec.bool(r.row, c), nil
	}
	return sql.Values.Bool(i, rec.value(r.row, c))
}

// GetByte implements the sql.RowReader interface.
func (r *Reader) GetByte(i int) (uint8, error) {
	return get(r, i, caseByte, func(rec *record) *store[uint8] { return &rec.bytes }, sql.Values.Byte)
}

// GetChar implements the sql.RowReader interface.
func (r *Reader) GetChar(i int) (rune, error) {
	return get(r, i, caseChar, func(rec *record) *store[rune] { return &rec.chars }, sql.Values.Char)
}

// GetDateTime implements the sql.RowReader interface.
func (r *Reader) GetDateTime(i int) (time.Time, error) {
	return get(r, i, caseDateTime, func(rec *record) *store[time.Time] { return &rec.dateTimes },
		func(i int, v interface{}) (time.Time, error) { return sql.Values.Time(i, sql.KindDateTime, v) })
}

// GetDateTimeOffset implements the sql.RowReader interface.
func (r *Reader) GetDateTimeOffset(i int) (time.Time, error) {
	return get(r, i, caseDateTimeOffset, func(rec *record) *store[time.Time] { return &rec.dateTimeOffsets },
		func(i int, v interface{}) (time.Time, error) { return sql.Values.Time(i, sql.KindDateTimeOffset, v) })
}

// GetDecimal implements the sql.RowReader interface.
func (r *Reader) GetDecimal(i int) (decimal.Decimal, error) {
	return get(r, i, caseDecimal, func(rec *record) *store[decimal.Decimal] { return &rec.decimals }, sql.Values.Decimal)
}

// GetFloat64 implements the sql.RowReader interface.
func (r *Reader) GetFloat64(i int) (float64, error) {
	return get(r, i, caseFloat64, func(rec *record) *store[float64] { return &rec.float64s }, sql.Values.Float64)
}

// GetFloat32 implements the sql.RowReader interface.
func (r *Reader) GetFloat32(i int) (float32, error) {
	return get(r, i, caseFloat32, func(rec *record) *store[float32] { return &rec.float32s }, sql.Values.Float32)
}

// GetGuid implements the sql.RowReader interface.
func (r *Reader) GetGuid(i int) (uuid.UUID, error) {
	return get(r, i, caseGuid, func(rec *record) *store[uuid.UUID] { return &rec.guids }, sql.Values.Guid)
}

// GetInt8 implements the sql.RowReader interface.
func (r *Reader) GetInt8(i int) (int8, error) {
	return get(r, i, caseInt8, func(rec *record) *store[int8] { return &rec.int8s }, sql.Values.Int8)
}

// GetInt16 implements the sql.RowReader interface.
func (r *Reader) GetInt16(i int) (int16, error) {
	return get(r, i, caseInt16, func(rec *record) *store[int16] { return &rec.int16s }, sql.Values.Int16)
}

// GetInt32 implements the sql.RowReader interface.
func (r *Reader) GetInt32(i int) (int32, error) {
	return get(r, i, caseInt32, func(rec *record) *store[int32] { return &rec.int32s }, sql.Values.Int32)
}

// GetInt64 implements the sql.RowReader interface.
func (r *Reader) GetInt64(i int) (int64, error) {
	return get(r, i, caseInt64, func(rec *record) *store[int64] { return &rec.int64s }, sql.Values.Int64)
}

// GetUint16 implements the sql.RowReader interface.
func (r *Reader) GetUint16(i int) (uint16, error) {
	return get(r, i, caseUint16, func(rec *record) *store[uint16] { return &rec.uint16s }, sql.Values.Uint16)
}

// GetUint32 implements the sql.RowReader interface.
func (r *Reader) GetUint32(i int) (uint32, error) {
	return get(r, i, caseUint32, func(rec *record) *store[uint32] { return &rec.uint32s }, sql.Values.Uint32)
}

// GetUint64 implements the sql.RowReader interface.
func (r *Reader) GetUint64(i int) (uint64, error) {
	return get(r, i, caseUint64, func(rec *record) *store[uint64] { return &rec.uint64s }, sql.Values.Uint64)
}

// GetString implements the sql.RowReader interface.
func (r *Reader) GetString(i int) (string, error) {
	rec, c, err := r.cell(i)
	if err != nil {
		return "", err
	}
	return sql.Values.Text(i, rec.value(r.row, c))
}

// GetBytes implements the sql.RowReader interface.
func (r *Reader) GetBytes(i int) ([]byte, error) {
	rec, c, err := r.cell(i)
	if err != nil {
		return nil, err
	}
	return sql.Values.Bytes(i, rec.value(r.row, c))
}

// GetValue implements the sql.RowReader interface.
func (r *Reader) GetValue(i int) (interface{}, error) {
	rec, c, err := r.cell(i)
	if err != nil {
		return nil, err
	}
	return rec.value(r.row, c), nil
}

// GetStream implements the sql.RowReader interface. Buffered data can't
// be streamed.
func (r *Reader) GetStream(int) (io.Reader, error) {
	return nil, sql.ErrNotSupported.New("GetStream", "a buffered reader")
}

// SchemaTable implements the sql.SchemaReader interface. The schema of
// buffered result sets is not kept.
func (r *Reader) SchemaTable() ([]sql.ColumnSchema, error) {
	return nil, sql.ErrNotSupported.New("SchemaTable", "a buffered reader")
}

// Read implements the sql.RowCursor interface.
func (r *Reader) Read(ctx context.Context) (bool, error) {
	if r.closed {
		return false, sql.ErrReaderClosed.New()
	}
	if !r.initialized {
		return false, ErrNotInitialized.New()
	}
	rec := r.record()
	if rec == nil {
		return false, nil
	}
	if r.row+1 < rec.rowCount {
		r.row++
		return true, nil
	}
	r.row = rec.rowCount
	return false, nil
}

// NextResult implements the sql.RowCursor interface.
func (r *Reader) NextResult(ctx context.Context) (bool, error) {
	if r.closed {
		return false, sql.ErrReaderClosed.New()
	}
	if !r.initialized {
		return false, ErrNotInitialized.New()
	}
	if r.current < len(r.records) {
		r.current++
	}
	r.row = -1
	return r.current < len(r.records), nil
}

// HasRows implements the sql.RowCursor interface.
func (r *Reader) HasRows() bool {
	rec := r.record()
	return rec != nil && rec.rowCount > 0
}

// RecordsAffected implements the sql.RowCursor interface.
func (r *Reader) RecordsAffected() int64 { return r.recordsAffected }

// Close implements the sql.RowCursor interface. Closing a reader that was
// never initialized closes its cursor.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.cursor != nil {
		err := r.cursor.Close()
		r.cursor = nil
		return err
	}
	return nil
}

func nullError(c *column, opts Options) error {
	if opts.DetailedErrors && c.decl != nil && c.decl.Property != "" {
		return ErrMaterializingPropertyNull.New(c.decl.Entity, c.decl.Property, c.ordinal)
	}
	return sql.ErrNullValue.New(c.ordinal, c.kind)
}

func detailedError(cur sql.RowReader, c *column, err error) error {
	v, verr := cur.GetValue(c.ordinal)
	if verr != nil {
		v = nil
	}
	if c.decl != nil && c.decl.Property != "" {
		return ErrMaterializingProperty.Wrap(err, c.decl.Entity, c.decl.Property, c.kind, v)
	}
	return ErrMaterializingValue.Wrap(err, c.ordinal, c.kind, v)
}
