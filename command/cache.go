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

package command

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/plan"
)

// Processor specializes a query for concrete parameter values. It returns
// the rewritten query and whether it can be reused for other values of the
// same shape.
type Processor interface {
	Process(ctx *sql.Context, q *plan.Select, params sql.ParameterValues) (*plan.Select, bool, error)
}

// Cache produces the commands of one query. Templates are looked up in the
// shared store by the shape of the parameter values and generated on a
// miss. Commands are pooled.
type Cache struct {
	id        uint64
	query     *plan.Select
	processor Processor
	generator Generator
	store     *Store
	commands  sync.Pool
}

// NewCache creates the command cache of the given query.
func NewCache(q *plan.Select, processor Processor, generator Generator, store *Store) *Cache {
	if generator == nil {
		generator = DefaultGenerator{}
	}
	return &Cache{
		id:        NextQueryID(),
		query:     q,
		processor: processor,
		generator: generator,
		store:     store,
		commands: sync.Pool{
			New: func() interface{} { return new(sql.Command) },
		},
	}
}

// Query returns the query the cache generates commands for.
func (c *Cache) Query() *plan.Select { return c.query }

// Template returns the command template for the given parameter values,
// and whether it was found in the store.
func (c *Cache) Template(ctx *sql.Context, values sql.ParameterValues) (*Template, bool, error) {
	key := NewKey(c.id, values)
	if t, err := c.store.Get(key); err == nil {
		return t, true, nil
	} else if !ErrKeyNotFound.Is(err) {
		return nil, false, err
	}

	span, ctx := ctx.Span("command.template")
	defer span.Finish()

	q, canCache, err := c.processor.Process(ctx, c.query, values)
	if err != nil {
		return nil, false, err
	}
	t, err := c.generator.Generate(ctx, q)
	if err != nil {
		return nil, false, err
	}

	ctx.Logger().WithFields(logrus.Fields{
		"query":    c.id,
		"canCache": canCache,
	}).Debug("generated command template")

	span.SetTag("canCache", canCache)
	if canCache {
		if err := c.store.Put(key, t); err != nil {
			return nil, false, err
		}
	}
	return t, false, nil
}

// RentAndPopulate returns a pooled command populated for the parameter
// values of the context. It must be handed back with Return.
func (c *Cache) RentAndPopulate(ctx *sql.Context) (*sql.Command, error) {
	t, _, err := c.Template(ctx, ctx.Parameters)
	if err != nil {
		return nil, err
	}

	cmd := c.commands.Get().(*sql.Command)
	if err := t.Bind(cmd, ctx.Parameters); err != nil {
		c.Return(cmd)
		return nil, err
	}
	return cmd, nil
}

// Return hands a rented command back to the pool.
func (c *Cache) Return(cmd *sql.Command) {
	if cmd == nil {
		return
	}
	cmd.Reset()
	c.commands.Put(cmd)
}
