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

package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-query-shaper/command"
	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/analyzer"
	"github.com/dolthub/go-query-shaper/sql/expression"
	"github.com/dolthub/go-query-shaper/sql/plan"
)

type countingProcessor struct {
	command.Processor
	calls int
}

func (p *countingProcessor) Process(ctx *sql.Context, q *plan.Select, params sql.ParameterValues) (*plan.Select, bool, error) {
	p.calls++
	return p.Processor.Process(ctx, q, params)
}

func newCache(t *testing.T, q *plan.Select) (*command.Cache, *countingProcessor, *command.Store) {
	t.Helper()
	store, err := command.NewStore(16)
	require.NoError(t, err)
	p := &countingProcessor{Processor: analyzer.NewDefault(analyzer.Options{})}
	return command.NewCache(q, p, nil, store), p, store
}

func selectWhere(pred sql.Expression) *plan.Select {
	a := expression.NewColumn(0, sql.Int32, "t", "a", false)
	return &plan.Select{
		Projections: []plan.Projection{{Expr: a}},
		Tables:      []sql.Node{plan.NewTable("t", "")},
		Predicate:   pred,
	}
}

func ctxWith(values sql.ParameterValues) *sql.Context {
	return sql.NewContext(context.Background(), sql.WithParameters(values))
}

func TestCacheReusesTemplatesByShape(t *testing.T) {
	require := require.New(t)

	a := expression.NewColumn(0, sql.Int32, "t", "a", false)
	c, p, store := newCache(t, selectWhere(expression.NewEquals(a, expression.NewParameter("p", sql.Int32))))

	t1, hit, err := c.Template(sql.NewEmptyContext(), sql.ParameterValues{"p": int32(1)})
	require.NoError(err)
	require.False(hit)
	require.Equal("SELECT t.a FROM t WHERE t.a = @p", t1.Text)

	t2, hit, err := c.Template(sql.NewEmptyContext(), sql.ParameterValues{"p": int32(2)})
	require.NoError(err)
	require.True(hit)
	require.Same(t1, t2)
	require.Equal(1, p.calls)

	t3, hit, err := c.Template(sql.NewEmptyContext(), sql.ParameterValues{"p": nil})
	require.NoError(err)
	require.False(hit)
	require.NotEqual(t1.Text, t3.Text)
	require.Equal(2, p.calls)
	require.Equal(2, store.Len())
}

func TestCacheSkipsValueDependentTemplates(t *testing.T) {
	require := require.New(t)

	a := expression.NewColumn(0, sql.Int32, "t", "a", false)
	in := expression.NewInValues(a, expression.NewParameter("p", nil), false)
	c, p, store := newCache(t, selectWhere(in))

	values := sql.ParameterValues{"p": []interface{}{int32(1), int32(2)}}
	for i := 0; i < 2; i++ {
		tmpl, hit, err := c.Template(sql.NewEmptyContext(), values)
		require.NoError(err)
		require.False(hit)
		require.Contains(tmpl.Text, "t.a IN (1, 2)")
	}
	require.Equal(2, p.calls)
	require.Equal(0, store.Len())
}

func TestCacheRentAndPopulate(t *testing.T) {
	require := require.New(t)

	a := expression.NewColumn(0, sql.Int32, "t", "a", false)
	c, _, _ := newCache(t, selectWhere(expression.NewEquals(a, expression.NewParameter("p", sql.Int32))))

	cmd, err := c.RentAndPopulate(ctxWith(sql.ParameterValues{"p": int32(5)}))
	require.NoError(err)
	require.Equal("SELECT t.a FROM t WHERE t.a = @p", cmd.Text)
	require.Len(cmd.Parameters, 1)
	require.Equal("p", cmd.Parameters[0].Name)
	require.Equal(int32(5), cmd.Parameters[0].Value)
	c.Return(cmd)
	require.Empty(cmd.Parameters)
	c.Return(nil)

	_, err = c.RentAndPopulate(ctxWith(sql.ParameterValues{}))
	require.True(sql.ErrParameterNotFound.Is(err))
}

func TestDefaultGenerator(t *testing.T) {
	require := require.New(t)

	a := expression.NewColumn(0, sql.Int32, "t", "a", false)
	p := expression.NewParameter("p", sql.Int32)
	inner := &plan.Select{
		Tables:    []sql.Node{plan.NewTable("u", "")},
		Predicate: expression.NewEquals(a, expression.NewParameter("q", sql.Int32)),
	}
	q := selectWhere(expression.NewAnd(
		expression.NewEquals(a, p),
		expression.NewOr(expression.NewExists(inner, false), expression.NewGreaterThan(a, p)),
	))

	tmpl, err := command.DefaultGenerator{}.Generate(sql.NewEmptyContext(), q)
	require.NoError(err)
	require.Equal(q.String(), tmpl.Text)
	require.Len(tmpl.Parameters, 2)
	require.Equal("p", tmpl.Parameters[0].InvariantName())
	require.Equal("q", tmpl.Parameters[1].InvariantName())

	var cmd sql.Command
	require.NoError(tmpl.Bind(&cmd, sql.ParameterValues{"p": int32(1), "q": int32(2)}))
	require.Equal(tmpl.Text, cmd.Text)
	require.Len(cmd.Parameters, 2)
}

func TestDefaultGeneratorFromSql(t *testing.T) {
	require := require.New(t)

	fixed := &sql.DbParameter{Name: "f", Value: 1}
	f := plan.NewFromSql("SELECT * FROM x WHERE a = {0} AND b = {1}", expression.NewParameter("args", nil), "x").
		WithExpansion([]plan.FromSqlArgument{{Name: "f"}, {Name: "f"}}, []sql.RelationalParameter{
			&sql.FixedParameter{Parameter: fixed},
			&sql.FixedParameter{Parameter: fixed},
		})
	q := &plan.Select{Tables: []sql.Node{f}}

	_, err := command.DefaultGenerator{}.Generate(sql.NewEmptyContext(), q)
	require.True(sql.ErrDuplicateParameterName.Is(err))
}
