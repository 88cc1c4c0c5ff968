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

import (
	"fmt"
	"strings"

	"github.com/dolthub/go-query-shaper/sql"
)

// Ordering is an ORDER BY term.
type Ordering struct {
	Expr      sql.Expression
	Ascending bool
}

func (o Ordering) String() string {
	if o.Ascending {
		return o.Expr.String() + " ASC"
	}
	return o.Expr.String() + " DESC"
}

// RowNumber is the ROW_NUMBER() window function. It is never null.
type RowNumber struct {
	Partitions []sql.Expression
	Orderings  []Ordering
}

var _ sql.Expression = (*RowNumber)(nil)

// NewRowNumber creates a new ROW_NUMBER() expression.
func NewRowNumber(partitions []sql.Expression, orderings []Ordering) *RowNumber {
	return &RowNumber{Partitions: partitions, Orderings: orderings}
}

// Update returns r if all the given parts are its current ones.
func (r *RowNumber) Update(partitions []sql.Expression, orderings []Ordering) *RowNumber {
	if sameExprs(partitions, r.Partitions) && sameOrderings(orderings, r.Orderings) {
		return r
	}
	return &RowNumber{Partitions: partitions, Orderings: orderings}
}

func sameOrderings(a, b []Ordering) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Expr != b[i].Expr || a[i].Ascending != b[i].Ascending {
			return false
		}
	}
	return true
}

// Type implements the sql.Expression interface.
func (*RowNumber) Type() *sql.TypeMapping { return sql.Int64 }

// Children implements the sql.Expression interface.
func (r *RowNumber) Children() []sql.Expression {
	children := make([]sql.Expression, 0, len(r.Partitions)+len(r.Orderings))
	children = append(children, r.Partitions...)
	for _, o := range r.Orderings {
		children = append(children, o.Expr)
	}
	return children
}

// WithChildren implements the sql.Expression interface.
func (r *RowNumber) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	expected := len(r.Partitions) + len(r.Orderings)
	if len(children) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(r, len(children), expected)
	}
	orderings := make([]Ordering, len(r.Orderings))
	for i, o := range r.Orderings {
		orderings[i] = Ordering{Expr: children[len(r.Partitions)+i], Ascending: o.Ascending}
	}
	return r.Update(children[:len(r.Partitions)], orderings), nil
}

// Eval implements the sql.Expression interface.
func (*RowNumber) Eval(*sql.Context, sql.Row) (interface{}, error) {
	return nil, sql.ErrNotSupported.New("evaluating ROW_NUMBER()", "the expression evaluator")
}

func (r *RowNumber) String() string {
	var parts []string
	if len(r.Partitions) > 0 {
		exprs := make([]string, len(r.Partitions))
		for i, p := range r.Partitions {
			exprs[i] = p.String()
		}
		parts = append(parts, "PARTITION BY "+strings.Join(exprs, ", "))
	}
	if len(r.Orderings) > 0 {
		exprs := make([]string, len(r.Orderings))
		for i, o := range r.Orderings {
			exprs[i] = o.String()
		}
		parts = append(parts, "ORDER BY "+strings.Join(exprs, ", "))
	}
	return fmt.Sprintf("ROW_NUMBER() OVER(%s)", strings.Join(parts, " "))
}
