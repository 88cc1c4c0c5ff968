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

package shaper_test

import (
	"context"
	"fmt"

	shaper "github.com/dolthub/go-query-shaper"
	"github.com/dolthub/go-query-shaper/memory"
	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/expression"
	"github.com/dolthub/go-query-shaper/sql/plan"
	"github.com/dolthub/go-query-shaper/sql/rowexec"
)

func Example() {
	e := shaper.NewDefault()

	// Customers joined with their orders, ordered by customer.
	table := memory.NewTable("customer_orders",
		memory.Column("id", sql.KindInt32, false),
		memory.Column("item", sql.KindString, true),
	)
	table.Insert(
		sql.NewRow(int32(1), "book"),
		sql.NewRow(int32(1), "pen"),
		sql.NewRow(int32(2), nil),
		sql.NewRow(int32(3), "lamp"),
	)

	id := expression.NewColumn(0, sql.Int32, "c", "id", false)
	item := expression.NewColumn(1, sql.Text, "o", "item", true)
	q := e.Prepare(&plan.Select{
		Projections: []plan.Projection{{Expr: id}, {Expr: item}},
		Tables:      []sql.Node{plan.NewTable("customer_orders", "c")},
	}, memory.NewStaticConnection(table.ResultSet()), nil)

	items := &rowexec.Collection[string]{
		ParentIdentifier: rowexec.ColumnIdentifier(0),
		OuterIdentifier:  rowexec.ColumnIdentifier(0),
		SelfIdentifier:   rowexec.ColumnIdentifier(1),
		Shaper: func(_ *sql.Context, r sql.RowReader, _ *rowexec.ResultContext, _ *rowexec.SingleQueryResultCoordinator) (string, error) {
			return r.GetString(1)
		},
	}

	type customer struct {
		id    int32
		items *[]string
	}

	iter := shaper.Single(e, q, func(ctx *sql.Context, r sql.RowReader, rc *rowexec.ResultContext, c *rowexec.SingleQueryResultCoordinator) (customer, error) {
		if rc.Values == nil {
			id, err := r.GetInt32(0)
			if err != nil {
				return customer{}, err
			}
			coll, err := rowexec.InitializeCollection(ctx, r, c, items, id)
			if err != nil {
				return customer{}, err
			}
			rc.Values = []interface{}{customer{id: id, items: coll}}
		}
		if err := rowexec.PopulateCollection(ctx, r, c, items); err != nil {
			return customer{}, err
		}
		return rc.Values[0].(customer), nil
	})

	ctx := e.NewSession().NewContext(context.Background(), nil)
	customers, err := sql.IterToSlice[customer](ctx, iter)
	checkIfError(err)

	for _, c := range customers {
		fmt.Println(c.id, *c.items)
	}

	// Output:
	// 1 [book pen]
	// 2 []
	// 3 [lamp]
}

func checkIfError(err error) {
	if err != nil {
		panic(err)
	}
}
