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
	"database/sql/driver"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	shaper "github.com/dolthub/go-query-shaper"
	"github.com/dolthub/go-query-shaper/memory"
	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/buffered"
	"github.com/dolthub/go-query-shaper/sql/expression"
	"github.com/dolthub/go-query-shaper/sql/plan"
	"github.com/dolthub/go-query-shaper/sql/rowexec"
)

type person struct {
	ID   int32
	Name string
}

func peopleTable() *memory.Table {
	t := memory.NewTable("people",
		memory.Column("id", sql.KindInt32, false),
		memory.Column("name", sql.KindString, true),
	)
	t.Insert(
		sql.NewRow(int32(1), "a"),
		sql.NewRow(int32(2), nil),
		sql.NewRow(int32(3), "a"),
		sql.NewRow(int32(4), "b"),
	)
	return t
}

// peopleByName answers commands filtering people by the @p parameter, or
// by a null name once the parameter was inlined as a null check.
func peopleByName(t *memory.Table) memory.Handler {
	return func(_ *sql.Context, cmd *sql.Command) ([]memory.ResultSet, error) {
		if strings.Contains(cmd.Text, "p.name IS NULL") {
			return []memory.ResultSet{t.Where(func(r sql.Row) bool { return r[1] == nil })}, nil
		}
		for _, p := range cmd.Parameters {
			if p.Name == "p" {
				return []memory.ResultSet{t.Where(func(r sql.Row) bool { return r[1] == p.Value })}, nil
			}
		}
		return []memory.ResultSet{t.ResultSet()}, nil
	}
}

func peopleQuery() *plan.Select {
	id := expression.NewColumn(0, sql.Int32, "p", "id", false)
	name := expression.NewColumn(1, sql.Text, "p", "name", true)
	return &plan.Select{
		Projections: []plan.Projection{{Expr: id}, {Expr: name}},
		Tables:      []sql.Node{plan.NewTable("people", "p")},
		Predicate:   expression.NewEquals(name, expression.NewParameter("p", sql.Text)),
	}
}

func shapePerson(_ *sql.Context, r sql.RowReader, _ *rowexec.ResultContext, _ *rowexec.SingleQueryResultCoordinator) (person, error) {
	id, err := r.GetInt32(0)
	if err != nil {
		return person{}, err
	}
	null, err := r.IsNull(1)
	if err != nil || null {
		return person{ID: id}, err
	}
	name, err := r.GetString(1)
	return person{ID: id, Name: name}, err
}

func TestEngineQuery(t *testing.T) {
	testCases := []struct {
		name     string
		value    interface{}
		expected []person
	}{
		{"by name", "a", []person{{1, "a"}, {3, "a"}}},
		{"by other name", "b", []person{{4, "b"}}},
		{"by null name", nil, []person{{2, ""}}},
		{"no match", "z", nil},
	}

	e := shaper.NewDefault()
	conn := memory.NewConnection(peopleByName(peopleTable()))
	q := e.Prepare(peopleQuery(), conn, nil)
	session := e.NewSession()

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			ctx := session.NewContext(context.Background(), sql.ParameterValues{"p": tt.value})
			result, err := sql.IterToSlice[person](ctx, shaper.Single(e, q, shapePerson))
			require.NoError(err)
			require.Equal(tt.expected, result)
		})
	}

	require.Equal(t, 2, e.Store.Len())
	require.Zero(t, conn.OpenCursors())
}

func TestEnginePrecompile(t *testing.T) {
	require := require.New(t)

	e := shaper.NewDefault()
	conn := memory.NewConnection(peopleByName(peopleTable()))
	q := e.Prepare(peopleQuery(), conn, nil)

	ctx := sql.NewEmptyContext()
	require.NoError(e.Precompile(ctx, q,
		sql.ParameterValues{"p": "a"},
		sql.ParameterValues{"p": nil},
		sql.ParameterValues{"p": "b"},
	))
	require.Equal(2, e.Store.Len())
	require.Empty(conn.Commands())

	err := e.Precompile(ctx, q, sql.ParameterValues{})
	require.True(sql.ErrParameterNotFound.Is(err))
}

func TestEngineNestedIteration(t *testing.T) {
	require := require.New(t)

	e := shaper.NewDefault()
	conn := memory.NewConnection(peopleByName(peopleTable()))
	q := e.Prepare(peopleQuery(), conn, nil)
	session := e.NewSession()
	ctx := session.NewContext(context.Background(), sql.ParameterValues{"p": "a"})

	inner := shaper.Single(e, q, shapePerson)
	outer := shaper.Single(e, q, func(ctx *sql.Context, r sql.RowReader, rc *rowexec.ResultContext, c *rowexec.SingleQueryResultCoordinator) (person, error) {
		if _, err := inner.Next(ctx); err != nil {
			return person{}, err
		}
		return shapePerson(ctx, r, rc, c)
	})

	_, err := outer.Next(ctx)
	require.True(sql.ErrConcurrentInvocation.Is(err))
	require.NoError(outer.Close(ctx))
	require.NoError(inner.Close(ctx))

	cfg := shaper.DefaultConfig()
	cfg.ConcurrencyDetection = false
	e, err = shaper.New(cfg)
	require.NoError(err)
	ctx = e.NewSession().NewContext(context.Background(), sql.ParameterValues{"p": "a"})
	inner = shaper.Single(e, q, shapePerson)
	p, err := shaper.Single(e, q, func(ctx *sql.Context, r sql.RowReader, rc *rowexec.ResultContext, c *rowexec.SingleQueryResultCoordinator) (person, error) {
		if _, err := inner.Next(ctx); err != nil {
			return person{}, err
		}
		return shapePerson(ctx, r, rc, c)
	}).Next(ctx)
	require.NoError(err)
	require.Equal(person{1, "a"}, p)
}

func TestEngineRetries(t *testing.T) {
	require := require.New(t)

	cfg := shaper.DefaultConfig()
	cfg.MaxRetryCount = 2
	cfg.RetryDelay = 0
	e, err := shaper.New(cfg)
	require.NoError(err)

	people := peopleTable()
	failures := 1
	conn := memory.NewConnection(func(ctx *sql.Context, cmd *sql.Command) ([]memory.ResultSet, error) {
		if failures > 0 {
			failures--
			return nil, driver.ErrBadConn
		}
		return peopleByName(people)(ctx, cmd)
	})
	q := e.Prepare(peopleQuery(), conn, nil)

	ctx := e.NewSession().NewContext(context.Background(), sql.ParameterValues{"p": "b"})
	result, err := sql.IterToSlice[person](ctx, shaper.Single(e, q, shapePerson))
	require.NoError(err)
	require.Equal([]person{{4, "b"}}, result)
	require.Len(conn.Commands(), 2)

	failures = 5
	_, err = sql.IterToSlice[person](ctx, shaper.Single(e, q, shapePerson))
	require.True(rowexec.ErrRetryLimitExceeded.Is(err))
	require.Len(conn.Commands(), 5)
}

func TestEngineBufferedNullability(t *testing.T) {
	require := require.New(t)

	cfg := shaper.DefaultConfig()
	cfg.BufferResults = true
	cfg.DetailedErrors = true
	cfg.Debug = true
	e, err := shaper.New(cfg)
	require.NoError(err)

	people := peopleTable()
	columns := [][]*buffered.Column{{
		{Kind: sql.KindInt32, Entity: "Person", Property: "ID"},
		{Kind: sql.KindString, Entity: "Person", Property: "Name"},
	}}
	q := e.Prepare(peopleQuery(), memory.NewConnection(peopleByName(people)), columns)

	ctx := e.NewSession().NewContext(context.Background(), sql.ParameterValues{"p": "b"})
	result, err := sql.IterToSlice[person](ctx, shaper.Single(e, q, shapePerson))
	require.NoError(err)
	require.Equal([]person{{4, "b"}}, result)

	ctx = e.NewSession().NewContext(context.Background(), sql.ParameterValues{"p": nil})
	_, err = sql.IterToSlice[person](ctx, shaper.Single(e, q, shapePerson))
	require.True(buffered.ErrMaterializingPropertyNull.Is(err))
}

func TestIsTransient(t *testing.T) {
	require := require.New(t)
	require.True(shaper.IsTransient(driver.ErrBadConn))
	require.True(shaper.IsTransient(temporaryError{}))
	require.False(shaper.IsTransient(context.Canceled))
	require.False(shaper.IsTransient(sql.ErrReaderClosed.New()))
}

type temporaryError struct{}

func (temporaryError) Error() string   { return "try again" }
func (temporaryError) Temporary() bool { return true }
