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

// Names of the built-in functions the rewriters know about.
const (
	CoalesceName = "COALESCE"
	SumName      = "SUM"
)

// Function is a call to a store function. Nullable tells whether the result
// can be null regardless of the arguments, and PropagatesNull tells, per
// argument, whether a null argument makes the result null.
type Function struct {
	Name           string
	Args           []sql.Expression
	BuiltIn        bool
	Nullable       bool
	PropagatesNull []bool
	mapping        *sql.TypeMapping
}

var _ sql.Expression = (*Function)(nil)

// NewFunction creates a new function call.
func NewFunction(
	name string,
	args []sql.Expression,
	builtIn bool,
	nullable bool,
	propagatesNull []bool,
	mapping *sql.TypeMapping,
) *Function {
	return &Function{
		Name:           name,
		Args:           args,
		BuiltIn:        builtIn,
		Nullable:       nullable,
		PropagatesNull: propagatesNull,
		mapping:        mapping,
	}
}

// NewCoalesce creates a call to the built-in COALESCE with two arguments.
func NewCoalesce(left, right sql.Expression) *Function {
	mapping := left.Type()
	if mapping == nil {
		mapping = right.Type()
	}
	return NewFunction(CoalesceName, []sql.Expression{left, right}, true, true, []bool{false, false}, mapping)
}

// NewSum creates a call to the built-in SUM aggregate.
func NewSum(arg sql.Expression) *Function {
	return NewFunction(SumName, []sql.Expression{arg}, true, true, []bool{false}, arg.Type())
}

// IsBuiltIn reports whether f is a call to the named built-in function.
func (f *Function) IsBuiltIn(name string) bool {
	return f.BuiltIn && strings.EqualFold(f.Name, name)
}

// Update returns f if args are its current arguments, and a new Function
// otherwise.
func (f *Function) Update(args []sql.Expression) *Function {
	if sameExprs(args, f.Args) {
		return f
	}
	nf := *f
	nf.Args = args
	return &nf
}

// Type implements the sql.Expression interface.
func (f *Function) Type() *sql.TypeMapping { return f.mapping }

// Children implements the sql.Expression interface.
func (f *Function) Children() []sql.Expression { return f.Args }

// WithChildren implements the sql.Expression interface.
func (f *Function) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != len(f.Args) {
		return nil, sql.ErrInvalidChildrenNumber.New(f, len(children), len(f.Args))
	}
	return f.Update(children), nil
}

// Eval implements the sql.Expression interface. Only COALESCE can be
// evaluated in memory.
func (f *Function) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	if !f.IsBuiltIn(CoalesceName) {
		return nil, sql.ErrNotSupported.New("evaluating "+f.Name, "the expression evaluator")
	}
	for _, arg := range f.Args {
		v, err := arg.Eval(ctx, row)
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
	}
	return nil, nil
}

func (f *Function) String() string {
	args := make([]string, len(f.Args))
	for i, arg := range f.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(args, ", "))
}

func sameExprs(a, b []sql.Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
