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
	"time"
	"unicode/utf8"

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// ValueConverter converts raw store values into the Go type of each Kind.
// The ordinal is only used to build errors.
type ValueConverter struct{}

// Values is the default converter.
var Values ValueConverter

func (ValueConverter) null(i int, k Kind) error {
	return ErrNullValue.New(i, k)
}

func (ValueConverter) invalid(i int, k Kind, v interface{}) error {
	return ErrInvalidCast.New(i, k, v)
}

// Bool converts v to bool.
func (c ValueConverter) Bool(i int, v interface{}) (bool, error) {
	if v == nil {
		return false, c.null(i, KindBool)
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		n, nerr := cast.ToInt64E(v)
		if nerr != nil {
			return false, c.invalid(i, KindBool, v)
		}
		return n != 0, nil
	}
	return b, nil
}

// Byte converts v to uint8.
func (c ValueConverter) Byte(i int, v interface{}) (uint8, error) {
	if v == nil {
		return 0, c.null(i, KindByte)
	}
	b, err := cast.ToUint8E(v)
	if err != nil {
		return 0, c.invalid(i, KindByte, v)
	}
	return b, nil
}

// Char converts v to rune. Strings must hold exactly one character.
func (c ValueConverter) Char(i int, v interface{}) (rune, error) {
	switch v := v.(type) {
	case nil:
		return 0, c.null(i, KindChar)
	case rune:
		return v, nil
	case string:
		if utf8.RuneCountInString(v) == 1 {
			r, _ := utf8.DecodeRuneInString(v)
			return r, nil
		}
	case []byte:
		if utf8.RuneCount(v) == 1 {
			r, _ := utf8.DecodeRune(v)
			return r, nil
		}
	default:
		n, err := cast.ToInt32E(v)
		if err == nil {
			return n, nil
		}
	}
	return 0, c.invalid(i, KindChar, v)
}

// Time converts v to time.Time.
func (c ValueConverter) Time(i int, k Kind, v interface{}) (time.Time, error) {
	if v == nil {
		return time.Time{}, c.null(i, k)
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}, c.invalid(i, k, v)
	}
	return t, nil
}

// Decimal converts v to decimal.Decimal.
func (c ValueConverter) Decimal(i int, v interface{}) (decimal.Decimal, error) {
	switch v := v.(type) {
	case nil:
		return decimal.Decimal{}, c.null(i, KindDecimal)
	case decimal.Decimal:
		return v, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, c.invalid(i, KindDecimal, v)
		}
		return d, nil
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return decimal.Decimal{}, c.invalid(i, KindDecimal, v)
		}
		return d, nil
	case float32, float64:
		f, _ := cast.ToFloat64E(v)
		return decimal.NewFromFloat(f), nil
	default:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return decimal.Decimal{}, c.invalid(i, KindDecimal, v)
		}
		return decimal.New(n, 0), nil
	}
}

// Float64 converts v to float64.
func (c ValueConverter) Float64(i int, v interface{}) (float64, error) {
	if v == nil {
		return 0, c.null(i, KindFloat64)
	}
	if d, ok := v.(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, c.invalid(i, KindFloat64, v)
	}
	return f, nil
}

// Float32 converts v to float32.
func (c ValueConverter) Float32(i int, v interface{}) (float32, error) {
	if v == nil {
		return 0, c.null(i, KindFloat32)
	}
	f, err := cast.ToFloat32E(v)
	if err != nil {
		return 0, c.invalid(i, KindFloat32, v)
	}
	return f, nil
}

// Guid converts v to uuid.UUID.
func (c ValueConverter) Guid(i int, v interface{}) (uuid.UUID, error) {
	switch v := v.(type) {
	case nil:
		return uuid.Nil, c.null(i, KindGuid)
	case uuid.UUID:
		return v, nil
	case string:
		u, err := uuid.FromString(v)
		if err != nil {
			return uuid.Nil, c.invalid(i, KindGuid, v)
		}
		return u, nil
	case []byte:
		u, err := uuid.FromBytes(v)
		if err != nil {
			if u, err = uuid.FromString(string(v)); err != nil {
				return uuid.Nil, c.invalid(i, KindGuid, v)
			}
		}
		return u, nil
	default:
		return uuid.Nil, c.invalid(i, KindGuid, v)
	}
}

// Int8 converts v to int8.
func (c ValueConverter) Int8(i int, v interface{}) (int8, error) {
	if v == nil {
		return 0, c.null(i, KindInt8)
	}
	n, err := cast.ToInt8E(v)
	if err != nil {
		return 0, c.invalid(i, KindInt8, v)
	}
	return n, nil
}

// Int16 converts v to int16.
func (c ValueConverter) Int16(i int, v interface{}) (int16, error) {
	if v == nil {
		return 0, c.null(i, KindInt16)
	}
	n, err := cast.ToInt16E(v)
	if err != nil {
		return 0, c.invalid(i, KindInt16, v)
	}
	return n, nil
}

// Int32 converts v to int32.
func (c ValueConverter) Int32(i int, v interface{}) (int32, error) {
	if v == nil {
		return 0, c.null(i, KindInt32)
	}
	n, err := cast.ToInt32E(v)
	if err != nil {
		return 0, c.invalid(i, KindInt32, v)
	}
	return n, nil
}

// Int64 converts v to int64.
func (c ValueConverter) Int64(i int, v interface{}) (int64, error) {
	if v == nil {
		return 0, c.null(i, KindInt64)
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, c.invalid(i, KindInt64, v)
	}
	return n, nil
}

// Uint16 converts v to uint16.
func (c ValueConverter) Uint16(i int, v interface{}) (uint16, error) {
	if v == nil {
		return 0, c.null(i, KindUint16)
	}
	n, err := cast.ToUint16E(v)
	if err != nil {
		return 0, c.invalid(i, KindUint16, v)
	}
	return n, nil
}

// Uint32 converts v to uint32.
func (c ValueConverter) Uint32(i int, v interface{}) (uint32, error) {
	if v == nil {
		return 0, c.null(i, KindUint32)
	}
	n, err := cast.ToUint32E(v)
	if err != nil {
		return 0, c.invalid(i, KindUint32, v)
	}
	return n, nil
}

// Uint64 converts v to uint64.
func (c ValueConverter) Uint64(i int, v interface{}) (uint64, error) {
	if v == nil {
		return 0, c.null(i, KindUint64)
	}
	n, err := cast.ToUint64E(v)
	if err != nil {
		return 0, c.invalid(i, KindUint64, v)
	}
	return n, nil
}

// Text converts v to string.
func (c ValueConverter) Text(i int, v interface{}) (string, error) {
	if v == nil {
		return "", c.null(i, KindString)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", c.invalid(i, KindString, v)
	}
	return s, nil
}

// Bytes converts v to []byte.
func (c ValueConverter) Bytes(i int, v interface{}) ([]byte, error) {
	switch v := v.(type) {
	case nil:
		return nil, c.null(i, KindBytes)
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, c.invalid(i, KindBytes, v)
	}
}

// Convert converts v to the Go type of kind k.
func (c ValueConverter) Convert(i int, k Kind, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch k {
	case KindBool:
		return c.Bool(i, v)
	case KindByte:
		return c.Byte(i, v)
	case KindChar:
		return c.Char(i, v)
	case KindDateTime, KindDateTimeOffset:
		return c.Time(i, k, v)
	case KindDecimal:
		return c.Decimal(i, v)
	case KindFloat64:
		return c.Float64(i, v)
	case KindFloat32:
		return c.Float32(i, v)
	case KindGuid:
		return c.Guid(i, v)
	case KindInt8:
		return c.Int8(i, v)
	case KindInt16:
		return c.Int16(i, v)
	case KindInt32:
		return c.Int32(i, v)
	case KindInt64:
		return c.Int64(i, v)
	case KindUint16:
		return c.Uint16(i, v)
	case KindUint32:
		return c.Uint32(i, v)
	case KindUint64:
		return c.Uint64(i, v)
	case KindString:
		return c.Text(i, v)
	case KindBytes:
		return c.Bytes(i, v)
	default:
		return v, nil
	}
}
