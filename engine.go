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

// Package shaper executes relational queries and shapes their rows into
// results. Queries are specialized for the values of their parameters,
// cached as command templates, executed over a sql.Connection and
// materialized by the iterators of sql/rowexec.
package shaper

import (
	"context"
	"database/sql/driver"
	"errors"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dolthub/go-query-shaper/command"
	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/analyzer"
	"github.com/dolthub/go-query-shaper/sql/buffered"
	"github.com/dolthub/go-query-shaper/sql/plan"
	"github.com/dolthub/go-query-shaper/sql/rowexec"
)

// Engine prepares queries and runs them. It is safe for concurrent use.
type Engine struct {
	Config   Config
	Analyzer *analyzer.Analyzer
	Store    *command.Store
	Strategy rowexec.ExecutionStrategy
	// Generator renders command templates. Defaults to
	// command.DefaultGenerator.
	Generator command.Generator
	log       *logrus.Entry
}

// New creates a new Engine with the given configuration.
func New(cfg Config) (*Engine, error) {
	store, err := command.NewStore(cfg.CommandCacheSize)
	if err != nil {
		return nil, err
	}

	ab := analyzer.NewBuilder().WithOptions(analyzer.Options{
		UseRelationalNulls:     cfg.UseRelationalNulls,
		OptimizedNullExpansion: cfg.OptimizedNullExpansion,
	})
	if cfg.Debug {
		ab = ab.WithDebug()
	}

	var strategy rowexec.ExecutionStrategy = rowexec.NoRetryStrategy{}
	if cfg.MaxRetryCount > 0 {
		strategy = &rowexec.RetryingStrategy{
			MaxRetries:  cfg.MaxRetryCount,
			Delay:       cfg.RetryDelay,
			IsTransient: IsTransient,
		}
	}

	return &Engine{
		Config:    cfg,
		Analyzer:  ab.Build(),
		Store:     store,
		Strategy:  strategy,
		Generator: command.DefaultGenerator{},
		log:       NewLogger(cfg),
	}, nil
}

// NewDefault creates a new Engine with the default configuration.
func NewDefault() *Engine {
	e, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return e
}

// Prepare returns the executable form of q over conn. columns declares the
// result set columns for buffering and may be nil.
func (e *Engine) Prepare(q *plan.Select, conn sql.Connection, columns [][]*buffered.Column) *rowexec.Query {
	return &rowexec.Query{
		Commands:   command.NewCache(q, e.Analyzer, e.Generator, e.Store),
		Connection: conn,
		Buffered:   e.Config.BufferResults,
		Columns:    columns,
		Options: buffered.Options{
			DetailedErrors:    e.Config.DetailedErrors,
			VerifyNullability: e.Config.Debug,
		},
	}
}

// Precompile generates the command templates of q for every set of
// values, concurrently. Templates that cannot be cached are generated and
// dropped.
func (e *Engine) Precompile(ctx *sql.Context, q *rowexec.Query, values ...sql.ParameterValues) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	qctx := ctx.WithContext(gctx)
	for _, v := range values {
		v := v
		g.Go(func() error {
			_, _, err := q.Commands.Template(qctx, v)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		e.log.WithError(err).Warn("unable to precompile query")
		return err
	}
	return nil
}

// Single returns an iterator shaping the rows of q with shaper.
func Single[T any](e *Engine, q *rowexec.Query, shaper rowexec.Shaper[T]) *rowexec.QueryingIter[T] {
	return rowexec.NewQueryingIter(q, shaper, e.Strategy)
}

// Split returns an iterator shaping the rows of q with shaper, loading
// related collections with loaders.
func Split[T any](e *Engine, q *rowexec.Query, shaper rowexec.SplitShaper[T], loaders rowexec.RelatedDataLoader) *rowexec.SplitQueryingIter[T] {
	return rowexec.NewSplitQueryingIter(q, shaper, loaders, e.Strategy)
}

// GroupBy returns an iterator over the groupings of the rows of q.
func GroupBy[K, E any](e *Engine, q *rowexec.Query, g *rowexec.GroupBy[K, E]) *rowexec.GroupBySplitIter[K, E] {
	return rowexec.NewGroupBySplitIter(q, g, e.Strategy)
}

// Session groups query executions that must not overlap.
type Session struct {
	engine   *Engine
	detector *sql.ConcurrencyDetector
}

// NewSession creates a new session of the engine.
func (e *Engine) NewSession() *Session {
	s := &Session{engine: e}
	if e.Config.ConcurrencyDetection {
		s.detector = sql.NewConcurrencyDetector()
	}
	return s
}

// NewContext creates the context of one query execution of the session
// with the given parameter values.
func (s *Session) NewContext(ctx context.Context, values sql.ParameterValues) *sql.Context {
	return sql.NewContext(ctx,
		sql.WithParameters(values),
		sql.WithConcurrencyDetector(s.detector),
		sql.WithLogger(s.engine.log),
	)
}

type temporary interface {
	Temporary() bool
}

// IsTransient reports whether err is worth retrying: a dropped driver
// connection or an error declaring itself temporary.
func IsTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var t temporary
	return errors.As(err, &t) && t.Temporary()
}
