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

package analyzer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/analyzer"
	"github.com/dolthub/go-query-shaper/sql/expression"
	"github.com/dolthub/go-query-shaper/sql/plan"
	"github.com/dolthub/go-query-shaper/sql/transform"
)

func testQuery() *plan.Select {
	a := expression.NewColumn(0, sql.Int32, "t", "a", true)
	b := expression.NewColumn(1, sql.Int32, "t", "b", false)
	return &plan.Select{
		Projections: []plan.Projection{{Expr: a}, {Expr: b}},
		Tables:      []sql.Node{plan.NewTable("t", "")},
		Predicate: expression.NewAnd(
			expression.NewEquals(a, expression.NewParameter("p", sql.Int32)),
			expression.NewNot(expression.NewNot(expression.NewEquals(b, b))),
		),
	}
}

func TestAnalyzer_Process(t *testing.T) {
	require := require.New(t)

	a := analyzer.NewDefault(analyzer.Options{})
	query := testQuery()
	original := query.String()

	processed, canCache, err := a.Process(sql.NewEmptyContext(), query, sql.ParameterValues{"p": int32(1)})
	require.NoError(err)
	require.True(canCache)
	require.Equal("SELECT t.a, t.b FROM t WHERE (t.a = @p AND t.a IS NOT NULL)", processed.String())
	require.Equal(original, query.String())

	processed, canCache, err = a.Process(sql.NewEmptyContext(), query, sql.ParameterValues{"p": nil})
	require.NoError(err)
	require.True(canCache)
	require.Equal("SELECT t.a, t.b FROM t WHERE t.a IS NULL", processed.String())

	again, _, err := a.Process(sql.NewEmptyContext(), query, sql.ParameterValues{"p": nil})
	require.NoError(err)
	require.Equal(processed.String(), again.String())
}

func TestAnalyzer_Process_MaxIterations(t *testing.T) {
	require := require.New(t)

	i := 0
	a := analyzer.NewBuilder().AddPreRule("infinite", func(ctx *sql.Context, a *analyzer.Analyzer, n sql.Node, st *analyzer.State) (sql.Node, transform.TreeIdentity, error) {
		i++
		s := *n.(*plan.Select)
		return &s, transform.NewTree, nil
	}).Build()

	_, _, err := a.Process(sql.NewEmptyContext(), testQuery(), sql.ParameterValues{"p": int32(1)})
	require.NoError(err)
	require.Equal(16, i)
}

func TestAnalyzer_Process_Rules(t *testing.T) {
	require := require.New(t)

	var seen string
	a := analyzer.NewBuilder().
		WithDebug().
		AddPostRule("record", func(ctx *sql.Context, a *analyzer.Analyzer, n sql.Node, st *analyzer.State) (sql.Node, transform.TreeIdentity, error) {
			seen = n.String()
			return n, transform.SameTree, nil
		}).
		Build()
	require.True(a.Debug)

	processed, _, err := a.Process(sql.NewEmptyContext(), testQuery(), sql.ParameterValues{"p": int32(1)})
	require.NoError(err)
	require.Equal(processed.String(), seen)

	failing := errors.New("rule failed")
	a = analyzer.NewBuilder().AddPreRule("fail", func(*sql.Context, *analyzer.Analyzer, sql.Node, *analyzer.State) (sql.Node, transform.TreeIdentity, error) {
		return nil, transform.SameTree, failing
	}).Build()
	_, _, err = a.Process(sql.NewEmptyContext(), testQuery(), nil)
	require.Equal(failing, err)

	a = analyzer.NewBuilder().AddPostRule("replace", func(*sql.Context, *analyzer.Analyzer, sql.Node, *analyzer.State) (sql.Node, transform.TreeIdentity, error) {
		return plan.NewTable("t", ""), transform.NewTree, nil
	}).Build()
	_, _, err = a.Process(sql.NewEmptyContext(), testQuery(), sql.ParameterValues{"p": int32(1)})
	require.Error(err)
	require.True(analyzer.ErrInvalidNodeType.Is(err))
}

func TestAnalyzer_Process_MissingParameter(t *testing.T) {
	require := require.New(t)

	_, _, err := analyzer.NewDefault(analyzer.Options{}).Process(sql.NewEmptyContext(), testQuery(), nil)
	require.Error(err)
	require.True(sql.ErrParameterNotFound.Is(err))
}

func TestAnalyzer_DebugContext(t *testing.T) {
	require := require.New(t)

	a := analyzer.NewDefault(analyzer.Options{})
	a.PushDebugContext("outer")
	a.PushDebugContext("inner")
	a.PopDebugContext()
	a.PopDebugContext()
	a.PopDebugContext()

	var nilAnalyzer *analyzer.Analyzer
	require.NotPanics(func() {
		nilAnalyzer.Log("nothing")
		nilAnalyzer.PushDebugContext("x")
	})
}
