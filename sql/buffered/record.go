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
	"strings"
	"sync"
	"time"

	"github.com/pilosa/pilosa/roaring"
	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"

	"github.com/dolthub/go-query-shaper/sql"
)

// typeCase selects the array a column is stored in.
type typeCase byte

const (
	caseEmpty typeCase = iota
	caseObject
	caseBool
	caseByte
	caseChar
	caseDateTime
	caseDateTimeOffset
	caseDecimal
	caseFloat64
	caseFloat32
	caseGuid
	caseInt8
	caseInt16
	caseInt32
	caseInt64
	caseUint16
	caseUint32
	caseUint64
	numTypeCases
)

func typeCaseOf(k sql.Kind) typeCase {
	switch k {
	case sql.KindBool:
		return caseBool
	case sql.KindByte:
		return caseByte
	case sql.KindChar:
		return caseChar
	case sql.KindDateTime:
		return caseDateTime
	case sql.KindDateTimeOffset:
		return caseDateTimeOffset
	case sql.KindDecimal:
		return caseDecimal
	case sql.KindFloat64:
		return caseFloat64
	case sql.KindFloat32:
		return caseFloat32
	case sql.KindGuid:
		return caseGuid
	case sql.KindInt8:
		return caseInt8
	case sql.KindInt16:
		return caseInt16
	case sql.KindInt32:
		return caseInt32
	case sql.KindInt64:
		return caseInt64
	case sql.KindUint16:
		return caseUint16
	case sql.KindUint32:
		return caseUint32
	case sql.KindUint64:
		return caseUint64
	default:
		return caseObject
	}
}

// store is the flat array of one type case. The cell of a column in a row
// is at row*count+slot.
type store[T any] struct {
	count  int
	values []T
}

func (s *store[T]) grow(capacity int) {
	if s.count == 0 {
		return
	}
	values := make([]T, capacity*s.count)
	copy(values, s.values)
	s.values = values
}

func (s *store[T]) set(row, slot int, v T) { s.values[row*s.count+slot] = v }

func (s *store[T]) get(row, slot int) T { return s.values[row*s.count+slot] }

func readInto[T any](s *store[T], row, slot int, get func(int) (T, error), i int) error {
	v, err := get(i)
	if err != nil {
		return err
	}
	s.set(row, slot, v)
	return nil
}

// column is the metadata of one buffered column.
type column struct {
	ordinal      int
	name         string
	dataTypeName string
	kind         sql.Kind
	tc           typeCase
	slot         int
	// nullSlot is the position of the column in the null map, or -1 when
	// the column was declared non-nullable.
	nullSlot int
	decl     *Column
}

// record holds every row of one result set.
type record struct {
	columns  []column
	rowCount int
	capacity int

	bools           store[bool]
	bytes           store[uint8]
	chars           store[rune]
	dateTimes       store[time.Time]
	dateTimeOffsets store[time.Time]
	decimals        store[decimal.Decimal]
	float64s        store[float64]
	float32s        store[float32]
	guids           store[uuid.UUID]
	int8s           store[int8]
	int16s          store[int16]
	int32s          store[int32]
	int64s          store[int64]
	uint16s         store[uint16]
	uint32s         store[uint32]
	uint64s         store[uint64]
	objects         store[interface{}]
	nulls           store[bool]

	// set by freeze
	boolBits *roaring.Bitmap
	nullBits *roaring.Bitmap

	ordinalsOnce sync.Once
	ordinals     map[string]int
}

// newRecord reads the metadata of the current result set of the cursor.
// Columns with a nil declaration are not buffered. A nil declaration slice
// buffers every column as nullable, with the kind reported by the cursor.
func newRecord(cur sql.RowReader, decls []*Column) (*record, error) {
	r := &record{columns: make([]column, cur.FieldCount())}
	for i := range r.columns {
		c := column{ordinal: i, nullSlot: -1}
		var err error
		if c.name, err = cur.Name(i); err != nil {
			return nil, err
		}
		if c.dataTypeName, err = cur.DataTypeName(i); err != nil {
			return nil, err
		}
		if c.kind, err = cur.FieldKind(i); err != nil {
			return nil, err
		}

		nullable := true
		if decls != nil {
			if i >= len(decls) || decls[i] == nil {
				c.tc = caseEmpty
				r.columns[i] = c
				continue
			}
			c.decl = decls[i]
			nullable = decls[i].Nullable
			if decls[i].Kind != sql.KindObject {
				c.kind = decls[i].Kind
			}
		}

		c.tc = typeCaseOf(c.kind)
		c.slot = r.counter(c.tc).inc()
		if nullable {
			c.nullSlot = r.nulls.count
			r.nulls.count++
		}
		r.columns[i] = c
	}
	return r, nil
}

type countRef struct{ n *int }

func (c countRef) inc() int {
	slot := *c.n
	*c.n++
	return slot
}

func (r *record) counter(tc typeCase) countRef {
	switch tc {
	case caseBool:
		return countRef{&r.bools.count}
	case caseByte:
		return countRef{&r.bytes.count}
	case caseChar:
		return countRef{&r.chars.count}
	case caseDateTime:
		return countRef{&r.dateTimes.count}
	case caseDateTimeOffset:
		return countRef{&r.dateTimeOffsets.count}
	case caseDecimal:
		return countRef{&r.decimals.count}
	case caseFloat64:
		return countRef{&r.float64s.count}
	case caseFloat32:
		return countRef{&r.float32s.count}
	case caseGuid:
		return countRef{&r.guids.count}
	case caseInt8:
		return countRef{&r.int8s.count}
	case caseInt16:
		return countRef{&r.int16s.count}
	case caseInt32:
		return countRef{&r.int32s.count}
	case caseInt64:
		return countRef{&r.int64s.count}
	case caseUint16:
		return countRef{&r.uint16s.count}
	case caseUint32:
		return countRef{&r.uint32s.count}
	case caseUint64:
		return countRef{&r.uint64s.count}
	default:
		return countRef{&r.objects.count}
	}
}

// grow doubles the row capacity, starting at one row.
func (r *record) grow() {
	if r.capacity == 0 {
		r.capacity = 1
	} else {
		r.capacity *= 2
	}
	c := r.capacity
	r.bools.grow(c)
	r.bytes.grow(c)
	r.chars.grow(c)
	r.dateTimes.grow(c)
	r.dateTimeOffsets.grow(c)
	r.decimals.grow(c)
	r.float64s.grow(c)
	r.float32s.grow(c)
	r.guids.grow(c)
	r.int8s.grow(c)
	r.int16s.grow(c)
	r.int32s.grow(c)
	r.int64s.grow(c)
	r.uint16s.grow(c)
	r.uint32s.grow(c)
	r.uint64s.grow(c)
	r.objects.grow(c)
	r.nulls.grow(c)
}

// readRow appends the current row of the cursor.
func (r *record) readRow(cur sql.RowReader, opts Options) error {
	if r.rowCount == r.capacity {
		r.grow()
	}
	row := r.rowCount
	for i := range r.columns {
		c := &r.columns[i]
		if c.tc == caseEmpty {
			continue
		}
		if c.nullSlot >= 0 || opts.VerifyNullability {
			null, err := cur.IsNull(c.ordinal)
			if err != nil {
				return err
			}
			if c.nullSlot >= 0 {
				r.nulls.set(row, c.nullSlot, null)
			}
			if null {
				if c.nullSlot < 0 {
					return nullError(c, opts)
				}
				continue
			}
		}
		if err := r.readValue(cur, row, c); err != nil {
			if opts.DetailedErrors {
				return detailedError(cur, c, err)
			}
			return err
		}
	}
	r.rowCount++
	return nil
}

func (r *record) readValue(cur sql.RowReader, row int, c *column) error {
	i := c.ordinal
	switch c.tc {
	case caseBool:
		return readInto(&r.bools, row, c.slot, cur.GetBool, i)
	case caseByte:
		return readInto(&r.bytes, row, c.slot, cur.GetByte, i)
	case caseChar:
		return readInto(&r.chars, row, c.slot, cur.GetChar, i)
	case caseDateTime:
		return readInto(&r.dateTimes, row, c.slot, cur.GetDateTime, i)
	case caseDateTimeOffset:
		return readInto(&r.dateTimeOffsets, row, c.slot, cur.GetDateTimeOffset, i)
	case caseDecimal:
		return readInto(&r.decimals, row, c.slot, cur.GetDecimal, i)
	case caseFloat64:
		return readInto(&r.float64s, row, c.slot, cur.GetFloat64, i)
	case caseFloat32:
		return readInto(&r.float32s, row, c.slot, cur.GetFloat32, i)
	case caseGuid:
		return readInto(&r.guids, row, c.slot, cur.GetGuid, i)
	case caseInt8:
		return readInto(&r.int8s, row, c.slot, cur.GetInt8, i)
	case caseInt16:
		return readInto(&r.int16s, row, c.slot, cur.GetInt16, i)
	case caseInt32:
		return readInto(&r.int32s, row, c.slot, cur.GetInt32, i)
	case caseInt64:
		return readInto(&r.int64s, row, c.slot, cur.GetInt64, i)
	case caseUint16:
		return readInto(&r.uint16s, row, c.slot, cur.GetUint16, i)
	case caseUint32:
		return readInto(&r.uint32s, row, c.slot, cur.GetUint32, i)
	case caseUint64:
		return readInto(&r.uint64s, row, c.slot, cur.GetUint64, i)
	}

	var (
		v   interface{}
		err error
	)
	switch c.kind {
	case sql.KindString:
		v, err = cur.GetString(i)
	case sql.KindBytes:
		var b []byte
		if b, err = cur.GetBytes(i); err == nil {
			buf := make([]byte, len(b))
			copy(buf, b)
			v = buf
		}
	default:
		v, err = cur.GetValue(i)
	}
	if err != nil {
		return err
	}
	r.objects.set(row, c.slot, v)
	return nil
}

// freeze turns the bool and null cells into bitmaps once every row was read.
func (r *record) freeze() error {
	var err error
	if r.boolBits, err = bitmapOf(r.bools.values[:r.rowCount*r.bools.count]); err != nil {
		return err
	}
	if r.nullBits, err = bitmapOf(r.nulls.values[:r.rowCount*r.nulls.count]); err != nil {
		return err
	}
	r.bools.values = nil
	r.nulls.values = nil
	return nil
}

func bitmapOf(cells []bool) (*roaring.Bitmap, error) {
	b := roaring.NewBitmap()
	for i, set := range cells {
		if !set {
			continue
		}
		if _, err := b.Add(uint64(i)); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (r *record) isNull(row int, c *column) bool {
	if c.nullSlot < 0 {
		return false
	}
	return r.nullBits.Contains(uint64(row*r.nulls.count + c.nullSlot))
}

func (r *record) bool(row int, c *column) bool {
	return r.boolBits.Contains(uint64(row*r.bools.count + c.slot))
}

// value returns the boxed value of a cell, nil for null.
func (r *record) value(row int, c *column) interface{} {
	if r.isNull(row, c) {
		return nil
	}
	switch c.tc {
	case caseBool:
		return r.bool(row, c)
	case caseByte:
		return r.bytes.get(row, c.slot)
	case caseChar:
		return r.chars.get(row, c.slot)
	case caseDateTime:
		return r.dateTimes.get(row, c.slot)
	case caseDateTimeOffset:
		return r.dateTimeOffsets.get(row, c.slot)
	case caseDecimal:
		return r.decimals.get(row, c.slot)
	case caseFloat64:
		return r.float64s.get(row, c.slot)
	case caseFloat32:
		return r.float32s.get(row, c.slot)
	case caseGuid:
		return r.guids.get(row, c.slot)
	case caseInt8:
		return r.int8s.get(row, c.slot)
	case caseInt16:
		return r.int16s.get(row, c.slot)
	case caseInt32:
		return r.int32s.get(row, c.slot)
	case caseInt64:
		return r.int64s.get(row, c.slot)
	case caseUint16:
		return r.uint16s.get(row, c.slot)
	case caseUint32:
		return r.uint32s.get(row, c.slot)
	case caseUint64:
		return r.uint64s.get(row, c.slot)
	default:
		return r.objects.get(row, c.slot)
	}
}

// ordinal looks a column up by name, ignoring case. The first column with
// a matching name wins.
func (r *record) ordinal(name string) (int, error) {
	r.ordinalsOnce.Do(func() {
		r.ordinals = make(map[string]int, len(r.columns))
		for i := len(r.columns) - 1; i >= 0; i-- {
			r.ordinals[strings.ToLower(r.columns[i].name)] = i
		}
	})
	if i, ok := r.ordinals[strings.ToLower(name)]; ok {
		return i, nil
	}
	return -1, sql.ErrColumnNotFound.New(name)
}

// readRecord buffers every row of the current result set of the cursor.
func readRecord(ctx context.Context, cur sql.RowCursor, decls []*Column, opts Options) (*record, error) {
	r, err := newRecord(cur, decls)
	if err != nil {
		return nil, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := cur.Read(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if err := r.readRow(cur, opts); err != nil {
			return nil, err
		}
	}
	if err := r.freeze(); err != nil {
		return nil, err
	}
	return r, nil
}
