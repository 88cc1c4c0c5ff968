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

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/expression"
	"github.com/dolthub/go-query-shaper/sql/plan"
)

func fromSqlQuery(args sql.Expression) *plan.Select {
	id := expression.NewColumn(0, sql.Int32, "t", "id", false)
	return &plan.Select{
		Projections: []plan.Projection{{Expr: id}},
		Tables:      []sql.Node{plan.NewFromSql("SELECT * FROM things WHERE a = {0} AND b = {1}", args, "t")},
		Predicate:   expression.NewEquals(id, expression.NewParameter("p0", sql.Int32)),
	}
}

func expandQuery(t *testing.T, q *plan.Select, params sql.ParameterValues) (*plan.FromSql, *State) {
	t.Helper()
	st := NewState(params)
	n, _, err := expandFromSql(sql.NewEmptyContext(), NewDefault(Options{}), q, st)
	require.NoError(t, err)
	f, ok := n.(*plan.Select).Tables[0].(*plan.FromSql)
	require.True(t, ok)
	return f, st
}

func TestExpandFromSqlParameterList(t *testing.T) {
	require := require.New(t)

	q := fromSqlQuery(expression.NewParameter("args", nil))
	values := sql.ParameterValues{"p0": int32(1), "args": []interface{}{int32(7), nil}}
	f, st := expandQuery(t, q, values)

	require.True(st.CanCache())
	require.Equal("(SELECT * FROM things WHERE a = @p1 AND b = @p2) AS t", f.String())
	require.False(q.Tables[0].(*plan.FromSql).IsExpanded())
	require.Len(f.Parameters, 1)

	composite, ok := f.Parameters[0].(*sql.CompositeParameter)
	require.True(ok)
	require.Equal("args", composite.InvariantName())
	require.Len(composite.Parameters, 2)
	second := composite.Parameters[1].(*sql.TypeMappedParameter)
	require.True(second.Nullable)

	var cmd sql.Command
	require.NoError(sql.BindParameters(&cmd, f.Parameters, values))
	require.Len(cmd.Parameters, 2)
	require.Equal("p1", cmd.Parameters[0].Name)
	require.Equal(int32(7), cmd.Parameters[0].Value)
	require.Equal("p2", cmd.Parameters[1].Name)
	require.Nil(cmd.Parameters[1].Value)
}

func TestExpandFromSqlDbParameters(t *testing.T) {
	require := require.New(t)

	named := &sql.DbParameter{Name: "custom", Value: "x"}
	unnamed := &sql.DbParameter{Value: "y"}
	values := sql.ParameterValues{"p0": int32(1), "args": []interface{}{named, unnamed}}
	f, st := expandQuery(t, fromSqlQuery(expression.NewParameter("args", nil)), values)

	require.False(st.CanCache())
	require.Equal("(SELECT * FROM things WHERE a = @custom AND b = @p1) AS t", f.String())

	var cmd sql.Command
	require.NoError(sql.BindParameters(&cmd, f.Parameters, values))
	require.Len(cmd.Parameters, 2)
	require.Same(named, cmd.Parameters[0])
	require.Same(unnamed, cmd.Parameters[1])
	require.Equal("p1", unnamed.Name)
}

func TestExpandFromSqlLiteralList(t *testing.T) {
	require := require.New(t)

	dbp := &sql.DbParameter{Value: int32(3)}
	args := expression.NewList([]interface{}{"x", dbp}, nil)
	f, st := expandQuery(t, fromSqlQuery(args), sql.ParameterValues{"p0": int32(1)})

	require.False(st.CanCache())
	require.Equal("(SELECT * FROM things WHERE a = 'x' AND b = @p1) AS t", f.String())
	require.Len(f.Parameters, 1)

	fixed, ok := f.Parameters[0].(*sql.FixedParameter)
	require.True(ok)
	require.Equal("p1", fixed.InvariantName())
	require.Equal("", dbp.Name)

	var cmd sql.Command
	require.NoError(sql.BindParameters(&cmd, f.Parameters, sql.ParameterValues{}))
	require.Len(cmd.Parameters, 1)
	require.Equal(int32(3), cmd.Parameters[0].Value)
}

func TestExpandFromSqlNoArguments(t *testing.T) {
	require := require.New(t)

	f, st := expandQuery(t, fromSqlQuery(nil), sql.ParameterValues{"p0": int32(1)})
	require.True(st.CanCache())
	require.True(f.IsExpanded())
	require.Empty(f.Parameters)
}

func TestExpandFromSqlErrors(t *testing.T) {
	testCases := []struct {
		name   string
		args   sql.Expression
		values sql.ParameterValues
		err    func(error) bool
	}{
		{
			name:   "missing parameter",
			args:   expression.NewParameter("args", nil),
			values: sql.ParameterValues{},
			err:    sql.ErrParameterNotFound.Is,
		},
		{
			name:   "scalar parameter",
			args:   expression.NewParameter("args", nil),
			values: sql.ParameterValues{"args": 1},
			err:    sql.ErrInvalidParameterValue.Is,
		},
		{
			name: "duplicate names",
			args: expression.NewParameter("args", nil),
			values: sql.ParameterValues{"args": []interface{}{
				&sql.DbParameter{Name: "dup"},
				&sql.DbParameter{Name: "dup"},
			}},
			err: sql.ErrDuplicateParameterName.Is,
		},
		{
			name: "name of a query parameter",
			args: expression.NewParameter("args", nil),
			values: sql.ParameterValues{"args": []interface{}{
				&sql.DbParameter{Name: "p0"},
			}},
			err: sql.ErrDuplicateParameterName.Is,
		},
		{
			name:   "unsupported arguments",
			args:   expression.NewColumn(0, sql.Int32, "t", "a", false),
			values: sql.ParameterValues{},
			err:    sql.ErrUnhandledExpression.Is,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			_, _, err := expandFromSql(sql.NewEmptyContext(), NewDefault(Options{}), fromSqlQuery(tt.args), NewState(tt.values))
			require.Error(err)
			require.True(tt.err(err), "unexpected error: %s", err)
		})
	}
}
