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

package expression

import "github.com/dolthub/go-query-shaper/sql"

// Parameter is a reference to a value bound at execution time. Whether it
// is null is only known once the value is bound.
type Parameter struct {
	name    string
	mapping *sql.TypeMapping
}

var _ sql.Expression = (*Parameter)(nil)
var _ sql.Nameable = (*Parameter)(nil)

// NewParameter creates a new Parameter expression.
func NewParameter(name string, mapping *sql.TypeMapping) *Parameter {
	return &Parameter{name: name, mapping: mapping}
}

// Name implements the sql.Nameable interface.
func (p *Parameter) Name() string { return p.name }

// Type implements the sql.Expression interface.
func (p *Parameter) Type() *sql.TypeMapping { return p.mapping }

// Children implements the sql.Expression interface.
func (*Parameter) Children() []sql.Expression { return nil }

// WithChildren implements the sql.Expression interface.
func (p *Parameter) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 0)
	}
	return p, nil
}

// Eval implements the sql.Expression interface.
func (p *Parameter) Eval(ctx *sql.Context, _ sql.Row) (interface{}, error) {
	v, err := ctx.Parameters.Lookup(p.name)
	if err != nil {
		return nil, err
	}
	if dbp, ok := v.(*sql.DbParameter); ok {
		return dbp.Value, nil
	}
	return v, nil
}

func (p *Parameter) String() string { return "@" + p.name }
