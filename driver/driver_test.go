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

package driver_test

import (
	"context"
	stdsql "database/sql"
	dsql "database/sql/driver"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-query-shaper/driver"
	"github.com/dolthub/go-query-shaper/memory"
	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/buffered"
)

var (
	int64Type  = reflect.TypeOf(int64(0))
	stringType = reflect.TypeOf("")
)

func ordersConnector() *fakeConnector {
	return &fakeConnector{sets: []fakeSet{
		{
			columns: []fakeColumn{
				{name: "id", typeName: "BIGINT", scan: int64Type},
				{name: "name", typeName: "VARCHAR", scan: reflect.TypeOf(stdsql.NullString{}), nullable: true},
				{name: "price", typeName: "DECIMAL", scan: stringType},
			},
			rows: [][]dsql.Value{
				{int64(1), "a", "1.50"},
				{int64(2), nil, "2"},
			},
		},
		{
			columns: []fakeColumn{{name: "total", typeName: "BIGINT", scan: int64Type}},
		},
	}}
}

func TestConnectionExecuteReader(t *testing.T) {
	require := require.New(t)

	connector := ordersConnector()
	db := stdsql.OpenDB(connector)
	defer db.Close()

	conn := driver.NewConnection(db, driver.Options{})
	ctx := sql.NewEmptyContext()
	cmd := &sql.Command{Text: "SELECT id, name, price FROM orders WHERE id > @p"}
	cmd.AddParameter(&sql.DbParameter{Name: "p", Value: int32(0)})

	cursor, err := conn.ExecuteReader(ctx, cmd)
	require.NoError(err)

	require.Len(connector.queries, 1)
	require.Equal(cmd.Text, connector.queries[0].text)
	require.Equal([]dsql.NamedValue{{Name: "p", Ordinal: 1, Value: int64(0)}}, connector.queries[0].args)

	require.True(cursor.HasRows())
	require.Equal(3, cursor.FieldCount())
	for i, k := range []sql.Kind{sql.KindInt64, sql.KindString, sql.KindDecimal} {
		kind, err := cursor.FieldKind(i)
		require.NoError(err)
		require.Equal(k, kind)
	}
	typeName, err := cursor.DataTypeName(2)
	require.NoError(err)
	require.Equal("DECIMAL", typeName)
	_, err = cursor.FieldKind(3)
	require.True(sql.ErrOrdinalOutOfRange.Is(err))

	i, err := cursor.Ordinal("NAME")
	require.NoError(err)
	require.Equal(1, i)
	_, err = cursor.Ordinal("missing")
	require.True(sql.ErrColumnNotFound.Is(err))

	_, err = cursor.GetValue(0)
	require.True(sql.ErrNoCurrentRow.Is(err))

	schema, err := cursor.(sql.SchemaReader).SchemaTable()
	require.NoError(err)
	require.False(schema[0].Nullable)
	require.True(schema[1].Nullable)

	ok, err := cursor.Read(ctx)
	require.NoError(err)
	require.True(ok)
	price, err := cursor.GetDecimal(2)
	require.NoError(err)
	require.True(decimal.RequireFromString("1.5").Equal(price))

	rest, err := memory.ReadAll(ctx, cursor)
	require.NoError(err)
	require.Equal([][]sql.Row{
		{{int64(2), nil, decimal.RequireFromString("2")}},
		{},
	}, rest)
	require.False(cursor.HasRows())
	require.Equal(int64(-1), cursor.RecordsAffected())

	require.NoError(cursor.Close())
	require.NoError(cursor.Close())
	require.Zero(connector.openRows())

	_, err = cursor.Read(ctx)
	require.True(sql.ErrReaderClosed.Is(err))
}

func TestConnectionSingleReader(t *testing.T) {
	require := require.New(t)

	connector := ordersConnector()
	db := stdsql.OpenDB(connector)
	defer db.Close()

	conn := driver.NewConnection(db, driver.Options{SingleReader: true})
	ctx := sql.NewEmptyContext()

	first, err := conn.ExecuteReader(ctx, &sql.Command{Text: "SELECT 1"})
	require.NoError(err)

	_, err = conn.ExecuteReader(ctx, &sql.Command{Text: "SELECT 2"})
	require.True(driver.ErrReaderOpen.Is(err))

	require.NoError(first.Close())
	_, err = conn.ExecuteReader(ctx, &sql.Command{Text: "fail"})
	require.Error(err)

	second, err := conn.ExecuteReader(ctx, &sql.Command{Text: "SELECT 2"})
	require.NoError(err)
	require.NoError(second.Close())
}

func TestConnectionBuffered(t *testing.T) {
	require := require.New(t)

	connector := ordersConnector()
	db := stdsql.OpenDB(connector)
	defer db.Close()

	conn := driver.NewConnection(db, driver.Options{SingleReader: true})
	ctx := sql.NewEmptyContext()

	cursor, err := conn.ExecuteReader(ctx, &sql.Command{Text: "SELECT 1"})
	require.NoError(err)

	r := buffered.NewReader(cursor, nil, buffered.Options{})
	require.NoError(r.Initialize(ctx))
	require.Zero(connector.openRows())

	other, err := conn.ExecuteReader(ctx, &sql.Command{Text: "SELECT 2"})
	require.NoError(err)
	require.NoError(other.Close())

	sets, err := memory.ReadAll(ctx, r)
	require.NoError(err)
	require.Len(sets, 2)
	require.Equal([]sql.Row{
		{int64(1), "a", decimal.RequireFromString("1.50")},
		{int64(2), nil, decimal.RequireFromString("2")},
	}, sets[0])
	require.NoError(r.Close())
}

func TestConnectionCancelled(t *testing.T) {
	require := require.New(t)

	connector := ordersConnector()
	db := stdsql.OpenDB(connector)
	defer db.Close()

	conn := driver.NewConnection(db, driver.Options{})
	cctx, cancel := context.WithCancel(context.Background())
	ctx := sql.NewContext(cctx)

	cursor, err := conn.ExecuteReader(ctx, &sql.Command{Text: "SELECT 1"})
	require.NoError(err)

	cancel()
	_, err = cursor.Read(ctx)
	require.ErrorIs(err, context.Canceled)
	require.NoError(cursor.Close())
}
