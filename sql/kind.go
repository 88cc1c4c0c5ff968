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

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
)

// Kind is the runtime value kind of a column or expression. Each kind maps
// to exactly one Go type returned by the typed accessors of a RowReader.
type Kind byte

const (
	// KindObject is any value without a dedicated accessor.
	KindObject Kind = iota
	// KindBool is read as bool.
	KindBool
	// KindByte is read as uint8.
	KindByte
	// KindChar is read as rune.
	KindChar
	// KindDateTime is read as time.Time.
	KindDateTime
	// KindDateTimeOffset is read as time.Time keeping its location.
	KindDateTimeOffset
	// KindDecimal is read as decimal.Decimal.
	KindDecimal
	// KindFloat64 is read as float64.
	KindFloat64
	// KindFloat32 is read as float32.
	KindFloat32
	// KindGuid is read as uuid.UUID.
	KindGuid
	// KindInt8 is read as int8.
	KindInt8
	// KindInt16 is read as int16.
	KindInt16
	// KindInt32 is read as int32.
	KindInt32
	// KindInt64 is read as int64.
	KindInt64
	// KindUint16 is read as uint16.
	KindUint16
	// KindUint32 is read as uint32.
	KindUint32
	// KindUint64 is read as uint64.
	KindUint64
	// KindString is read as string.
	KindString
	// KindBytes is read as []byte.
	KindBytes
)

var kindNames = map[Kind]string{
	KindObject:         "object",
	KindBool:           "bool",
	KindByte:           "byte",
	KindChar:           "char",
	KindDateTime:       "datetime",
	KindDateTimeOffset: "datetimeoffset",
	KindDecimal:        "decimal",
	KindFloat64:        "float64",
	KindFloat32:        "float32",
	KindGuid:           "guid",
	KindInt8:           "int8",
	KindInt16:          "int16",
	KindInt32:          "int32",
	KindInt64:          "int64",
	KindUint16:         "uint16",
	KindUint32:         "uint32",
	KindUint64:         "uint64",
	KindString:         "string",
	KindBytes:          "bytes",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// KindOf returns the kind matching the Go type of the given value. Values
// of unknown types and nil are KindObject.
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case bool:
		return KindBool
	case uint8:
		return KindByte
	case time.Time:
		return KindDateTime
	case decimal.Decimal:
		return KindDecimal
	case float64:
		return KindFloat64
	case float32:
		return KindFloat32
	case uuid.UUID:
		return KindGuid
	case int8:
		return KindInt8
	case int16:
		return KindInt16
	case int32:
		return KindInt32
	case int64, int:
		return KindInt64
	case uint16:
		return KindUint16
	case uint32:
		return KindUint32
	case uint64, uint:
		return KindUint64
	case string:
		return KindString
	case []byte:
		return KindBytes
	default:
		return KindObject
	}
}

// TypeMapping describes how a value is represented in the store.
type TypeMapping struct {
	// StoreType is the provider type name, e.g. "int" or "nvarchar(max)".
	StoreType string
	// Kind is the runtime kind of values with this mapping.
	Kind Kind
	// Converted is set when values go through a value converter before
	// reaching the store. Some boolean rewrites are not valid then.
	Converted bool
}

// Common type mappings.
var (
	Boolean = &TypeMapping{StoreType: "bit", Kind: KindBool}
	Int32   = &TypeMapping{StoreType: "int", Kind: KindInt32}
	Int64   = &TypeMapping{StoreType: "bigint", Kind: KindInt64}
	Float64 = &TypeMapping{StoreType: "float", Kind: KindFloat64}
	Text    = &TypeMapping{StoreType: "nvarchar(max)", Kind: KindString}
	Decimal = &TypeMapping{StoreType: "decimal(18,2)", Kind: KindDecimal}
)

// MappingFor returns a default type mapping for the given value.
func MappingFor(v interface{}) *TypeMapping {
	switch KindOf(v) {
	case KindBool:
		return Boolean
	case KindInt32:
		return Int32
	case KindInt64:
		return Int64
	case KindFloat64:
		return Float64
	case KindString:
		return Text
	case KindDecimal:
		return Decimal
	default:
		k := KindOf(v)
		return &TypeMapping{StoreType: k.String(), Kind: k}
	}
}
