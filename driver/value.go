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
	stdsql "database/sql"
	"reflect"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"

	"github.com/dolthub/go-query-shaper/sql"
)

func namedValues(params []*sql.DbParameter) []interface{} {
	if len(params) == 0 {
		return nil
	}

	args := make([]interface{}, len(params))
	for i, p := range params {
		args[i] = stdsql.Named(p.Name, p.Value)
	}
	return args
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
	bytesType   = reflect.TypeOf([]byte(nil))
)

var scanKinds = map[reflect.Type]sql.Kind{
	reflect.TypeOf(stdsql.NullBool{}):    sql.KindBool,
	reflect.TypeOf(stdsql.NullByte{}):    sql.KindByte,
	reflect.TypeOf(stdsql.NullInt16{}):   sql.KindInt16,
	reflect.TypeOf(stdsql.NullInt32{}):   sql.KindInt32,
	reflect.TypeOf(stdsql.NullInt64{}):   sql.KindInt64,
	reflect.TypeOf(stdsql.NullFloat64{}): sql.KindFloat64,
	reflect.TypeOf(stdsql.NullString{}):  sql.KindString,
	reflect.TypeOf(stdsql.NullTime{}):    sql.KindDateTime,
	reflect.TypeOf(stdsql.RawBytes{}):    sql.KindBytes,
	timeType:                             sql.KindDateTime,
	decimalType:                          sql.KindDecimal,
	uuidType:                             sql.KindGuid,
	bytesType:                            sql.KindBytes,
}

// kindOf returns the kind of the values of a column. Decimal and guid
// columns are recognized by their database type name, since drivers
// usually scan them as strings or bytes.
func kindOf(ct *stdsql.ColumnType) sql.Kind {
	switch name := strings.ToUpper(ct.DatabaseTypeName()); {
	case name == "DECIMAL" || name == "NUMERIC" || name == "MONEY":
		return sql.KindDecimal
	case name == "UUID" || name == "UNIQUEIDENTIFIER":
		return sql.KindGuid
	case name == "DATETIMEOFFSET" || name == "TIMESTAMPTZ":
		return sql.KindDateTimeOffset
	}

	t := ct.ScanType()
	if t == nil {
		return sql.KindObject
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if k, ok := scanKinds[t]; ok {
		return k
	}

	switch t.Kind() {
	case reflect.Bool:
		return sql.KindBool
	case reflect.Int8:
		return sql.KindInt8
	case reflect.Int16:
		return sql.KindInt16
	case reflect.Int32:
		return sql.KindInt32
	case reflect.Int64, reflect.Int:
		return sql.KindInt64
	case reflect.Uint8:
		return sql.KindByte
	case reflect.Uint16:
		return sql.KindUint16
	case reflect.Uint32:
		return sql.KindUint32
	case reflect.Uint64, reflect.Uint:
		return sql.KindUint64
	case reflect.Float32:
		return sql.KindFloat32
	case reflect.Float64:
		return sql.KindFloat64
	case reflect.String:
		return sql.KindString
	default:
		return sql.KindObject
	}
}

func schemaOf(types []*stdsql.ColumnType) []sql.ColumnSchema {
	schema := make([]sql.ColumnSchema, len(types))
	for i, ct := range types {
		nullable, ok := ct.Nullable()
		schema[i] = sql.ColumnSchema{
			Name:         ct.Name(),
			Ordinal:      i,
			Kind:         kindOf(ct),
			DataTypeName: ct.DatabaseTypeName(),
			Nullable:     nullable || !ok,
		}
	}
	return schema
}
