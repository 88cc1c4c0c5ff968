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
	"context"
	"sync/atomic"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// QueryIDLogField is the logrus field holding the query execution id.
const QueryIDLogField = "queryID"

var autoQueryIDs uint64

// Context of a query execution: the bound parameter values, the concurrency
// detector guarding the owning session, the logger and the tracer.
type Context struct {
	context.Context
	// Parameters holds the values bound to the query parameters.
	Parameters ParameterValues
	// Detector guards the session against concurrent use. It may be nil.
	Detector *ConcurrencyDetector
	id       uint64
	logger   *logrus.Entry
	tracer   opentracing.Tracer
}

// ContextOption is a function to configure the context.
type ContextOption func(*Context)

// WithParameters adds the given parameter values to the context.
func WithParameters(p ParameterValues) ContextOption {
	return func(ctx *Context) {
		ctx.Parameters = p
	}
}

// WithTracer adds the given tracer to the context.
func WithTracer(t opentracing.Tracer) ContextOption {
	return func(ctx *Context) {
		ctx.tracer = t
	}
}

// WithLogger sets the base logger of the context.
func WithLogger(l *logrus.Entry) ContextOption {
	return func(ctx *Context) {
		ctx.logger = l
	}
}

// WithConcurrencyDetector adds the given detector to the context.
func WithConcurrencyDetector(d *ConcurrencyDetector) ContextOption {
	return func(ctx *Context) {
		ctx.Detector = d
	}
}

// NewContext creates a new query context. Options can be passed to configure
// the context. If some aspect of the context is not configured, the default
// value will be used.
// By default, the context will have no parameters, a noop tracer and the
// standard logrus logger.
func NewContext(ctx context.Context, opts ...ContextOption) *Context {
	c := &Context{
		Context: ctx,
		id:      atomic.AddUint64(&autoQueryIDs, 1),
		tracer:  opentracing.NoopTracer{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.Parameters == nil {
		c.Parameters = ParameterValues{}
	}

	if c.logger == nil {
		c.logger = logrus.NewEntry(logrus.StandardLogger())
	}
	c.logger = c.logger.WithField(QueryIDLogField, c.id)

	return c
}

// NewEmptyContext returns a default context with default values.
func NewEmptyContext() *Context { return NewContext(context.TODO()) }

// ID returns the id of the query execution.
func (c *Context) ID() uint64 { return c.id }

// Logger returns the logger of this context.
func (c *Context) Logger() *logrus.Entry { return c.logger }

// Span creates a new tracing span with the given context.
// It will return the span and a new context that should be passed to all
// children of this span.
func (c *Context) Span(
	opName string,
	opts ...opentracing.StartSpanOption,
) (opentracing.Span, *Context) {
	parentSpan := opentracing.SpanFromContext(c.Context)
	if parentSpan != nil {
		opts = append(opts, opentracing.ChildOf(parentSpan.Context()))
	}
	span := c.tracer.StartSpan(opName, opts...)
	ctx := opentracing.ContextWithSpan(c.Context, span)

	return span, c.WithContext(ctx)
}

// WithContext returns a new context with the given underlying context.
func (c *Context) WithContext(ctx context.Context) *Context {
	nc := *c
	nc.Context = ctx
	return &nc
}

// NewSubContext creates a new sub-context with the current context as parent. Returns the resulting context.CancelFunc
// as well as the new *sql.Context, which be used to cancel the new context before the parent is finished.
func (c *Context) NewSubContext() (*Context, context.CancelFunc) {
	ctx, cancelFunc := context.WithCancel(c.Context)

	return c.WithContext(ctx), cancelFunc
}
