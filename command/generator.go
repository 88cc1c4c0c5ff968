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
	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/expression"
	"github.com/dolthub/go-query-shaper/sql/plan"
	"github.com/dolthub/go-query-shaper/sql/transform"
)

// Template is the text of a command plus the parameters to bind into it.
// A template is immutable once generated and may be shared.
type Template struct {
	Text       string
	Parameters []sql.RelationalParameter
}

// Bind fills cmd with the template text and the driver parameters for the
// given values.
func (t *Template) Bind(cmd *sql.Command, values sql.ParameterValues) error {
	cmd.Text = t.Text
	return sql.BindParameters(cmd, t.Parameters, values)
}

// Generator produces the command template of a query specialized for a
// set of parameter values.
type Generator interface {
	Generate(ctx *sql.Context, q *plan.Select) (*Template, error)
}

// DefaultGenerator renders queries with their String method and binds
// every parameter they read once, in order of appearance.
type DefaultGenerator struct{}

var _ Generator = DefaultGenerator{}

// Generate implements the Generator interface.
func (DefaultGenerator) Generate(ctx *sql.Context, q *plan.Select) (*Template, error) {
	span, _ := ctx.Span("command.generate")
	defer span.Finish()

	c := parameterCollector{seen: make(map[string]struct{})}
	if err := c.collect(q); err != nil {
		return nil, err
	}
	return &Template{Text: q.String(), Parameters: c.params}, nil
}

type parameterCollector struct {
	seen   map[string]struct{}
	params []sql.RelationalParameter
}

func (c *parameterCollector) add(p sql.RelationalParameter) error {
	name := p.InvariantName()
	if _, ok := c.seen[name]; ok {
		if _, fixed := p.(*sql.FixedParameter); fixed {
			return sql.ErrDuplicateParameterName.New(name)
		}
		return nil
	}
	c.seen[name] = struct{}{}
	c.params = append(c.params, p)
	return nil
}

func (c *parameterCollector) collect(n sql.Node) error {
	var err error
	transform.Inspect(n, func(n sql.Node) bool {
		if f, ok := n.(*plan.FromSql); ok {
			for _, p := range f.Parameters {
				if err = c.add(p); err != nil {
					return false
				}
			}
			return true
		}

		e, ok := n.(sql.Expressioner)
		if !ok {
			return true
		}
		for _, expr := range e.Expressions() {
			expression.Inspect(expr, func(e sql.Expression) bool {
				if err != nil {
					return false
				}
				switch e := e.(type) {
				case *expression.Parameter:
					err = c.add(&sql.TypeMappedParameter{
						Invariant: e.Name(),
						Name:      e.Name(),
						Mapping:   e.Type(),
						Nullable:  true,
					})
				case sql.Subquerier:
					if q := e.Subquery(); q != nil {
						err = c.collect(q)
					}
				}
				return err == nil
			})
			if err != nil {
				return false
			}
		}
		return true
	})
	return err
}
