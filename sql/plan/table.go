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

package plan

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/expression"
)

// Table is a reference to a table of the store.
type Table struct {
	Name  string
	Alias string
}

var _ sql.Node = (*Table)(nil)

// NewTable creates a new table reference.
func NewTable(name, alias string) *Table {
	return &Table{Name: name, Alias: alias}
}

// Children implements the sql.Node interface.
func (*Table) Children() []sql.Node { return nil }

// WithChildren implements the sql.Node interface.
func (t *Table) WithChildren(children ...sql.Node) (sql.Node, error) {
	return NillaryWithChildren(t, children...)
}

// Equal implements the expression.NodeEqualer interface.
func (t *Table) Equal(other sql.Node) bool {
	o, ok := other.(*Table)
	return ok && *t == *o
}

func (t *Table) String() string { return aliased(t.Name, t.Alias) }

// FromSqlArgument is one positional argument of an expanded raw SQL
// fragment: either the name of a bound command parameter or an inlined
// literal.
type FromSqlArgument struct {
	Name  string
	Value *expression.Literal
}

func (a FromSqlArgument) String() string {
	if a.Value != nil {
		return a.Value.String()
	}
	return "@" + a.Name
}

// FromSql is a table source defined by raw SQL text. Arguments is either a
// Parameter bound to a list or a list Literal; positional placeholders
// `{0}`, `{1}`, ... in Sql refer to its elements. Once expanded for a
// parameter set, Expanded holds one argument per position and Parameters
// the relational parameters to bind into the command.
type FromSql struct {
	Sql        string
	Arguments  sql.Expression
	Expanded   []FromSqlArgument
	Parameters []sql.RelationalParameter
	Alias      string
}

var _ sql.Node = (*FromSql)(nil)

// NewFromSql creates a new raw SQL table source.
func NewFromSql(sqlText string, arguments sql.Expression, alias string) *FromSql {
	return &FromSql{Sql: sqlText, Arguments: arguments, Alias: alias}
}

// IsExpanded reports whether the arguments were expanded.
func (f *FromSql) IsExpanded() bool { return f.Expanded != nil }

// WithExpansion returns a copy of f with the given expansion.
func (f *FromSql) WithExpansion(args []FromSqlArgument, params []sql.RelationalParameter) *FromSql {
	if args == nil {
		args = []FromSqlArgument{}
	}
	return &FromSql{Sql: f.Sql, Arguments: f.Arguments, Expanded: args, Parameters: params, Alias: f.Alias}
}

// Children implements the sql.Node interface.
func (*FromSql) Children() []sql.Node { return nil }

// WithChildren implements the sql.Node interface.
func (f *FromSql) WithChildren(children ...sql.Node) (sql.Node, error) {
	return NillaryWithChildren(f, children...)
}

// Equal implements the expression.NodeEqualer interface.
func (f *FromSql) Equal(other sql.Node) bool {
	o, ok := other.(*FromSql)
	if !ok || f.Sql != o.Sql || f.Alias != o.Alias || !expression.EqualExprs(f.Arguments, o.Arguments) ||
		len(f.Expanded) != len(o.Expanded) || f.IsExpanded() != o.IsExpanded() {
		return false
	}
	for i := range f.Expanded {
		if f.Expanded[i].Name != o.Expanded[i].Name {
			return false
		}
		if (f.Expanded[i].Value == nil) != (o.Expanded[i].Value == nil) {
			return false
		}
		if f.Expanded[i].Value != nil && !expression.EqualExprs(f.Expanded[i].Value, o.Expanded[i].Value) {
			return false
		}
	}
	return reflect.DeepEqual(f.Parameters, o.Parameters)
}

func (f *FromSql) String() string {
	text := f.Sql
	for i, arg := range f.Expanded {
		text = strings.ReplaceAll(text, fmt.Sprintf("{%d}", i), arg.String())
	}
	return aliased("("+text+")", f.Alias)
}
