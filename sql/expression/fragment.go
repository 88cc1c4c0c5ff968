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

// Fragment is a piece of SQL text emitted verbatim, such as `*`.
type Fragment struct {
	Sql string
}

var _ sql.Expression = (*Fragment)(nil)

// NewFragment creates a new SQL fragment.
func NewFragment(s string) *Fragment { return &Fragment{Sql: s} }

// Type implements the sql.Expression interface.
func (*Fragment) Type() *sql.TypeMapping { return nil }

// Children implements the sql.Expression interface.
func (*Fragment) Children() []sql.Expression { return nil }

// WithChildren implements the sql.Expression interface.
func (f *Fragment) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(f, len(children), 0)
	}
	return f, nil
}

// Eval implements the sql.Expression interface.
func (f *Fragment) Eval(*sql.Context, sql.Row) (interface{}, error) {
	return nil, sql.ErrNotSupported.New("evaluating a SQL fragment", "the expression evaluator")
}

func (f *Fragment) String() string { return f.Sql }
