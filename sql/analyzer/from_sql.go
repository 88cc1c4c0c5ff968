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

package analyzer

import (
	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/expression"
	"github.com/dolthub/go-query-shaper/sql/plan"
	"github.com/dolthub/go-query-shaper/sql/transform"
)

// expandFromSql binds the arguments of raw SQL table sources, giving each
// element of the argument list its own command parameter or literal.
func expandFromSql(ctx *sql.Context, a *Analyzer, n sql.Node, st *State) (sql.Node, transform.TreeIdentity, error) {
	span, ctx := ctx.Span("expand_from_sql")
	defer span.Finish()

	var names []string
	collectParameterNames(n, &names)
	st.Names.Reserve(names...)

	return transform.NodeWithSubqueries(n, func(n sql.Node) (sql.Node, transform.TreeIdentity, error) {
		f, ok := n.(*plan.FromSql)
		if !ok || f.IsExpanded() {
			return n, transform.SameTree, nil
		}

		a.Log("expanding arguments of raw sql source %q", f.Alias)
		expanded, err := expandFromSqlArguments(f, st)
		if err != nil {
			return nil, transform.SameTree, err
		}
		return expanded, transform.NewTree, nil
	})
}

func expandFromSqlArguments(f *plan.FromSql, st *State) (*plan.FromSql, error) {
	switch args := f.Arguments.(type) {
	case nil:
		return f.WithExpansion(nil, nil), nil
	case *expression.Parameter:
		v, err := st.parameterValue(args.Name())
		if err != nil {
			return nil, err
		}
		values, ok := sql.ListValue(v)
		if !ok {
			return nil, sql.ErrInvalidParameterValue.New(args.Name(), "a list", v)
		}
		return expandParameterArguments(f, args.Name(), values, st)
	case *expression.Literal:
		values, ok := args.List()
		if !ok {
			values = []interface{}{args.Value()}
		}
		return expandLiteralArguments(f, values, st)
	default:
		return nil, sql.ErrUnhandledExpression.New(args, args, "raw sql arguments")
	}
}

// expandParameterArguments binds each element of a list-valued parameter
// to its own command parameter. Elements that are driver parameters are
// passed through as they are.
func expandParameterArguments(f *plan.FromSql, name string, values []interface{}, st *State) (*plan.FromSql, error) {
	args := make([]plan.FromSqlArgument, len(values))
	params := make([]sql.RelationalParameter, len(values))
	for i, v := range values {
		if dbp, ok := v.(*sql.DbParameter); ok {
			// the parameter object itself is part of the command
			st.DoNotCache()

			paramName, err := claimName(dbp.Name, st)
			if err != nil {
				return nil, err
			}
			args[i] = plan.FromSqlArgument{Name: paramName}
			params[i] = &sql.RawParameter{Invariant: paramName, Name: paramName}
			continue
		}

		paramName := st.Names.GenerateNext()
		args[i] = plan.FromSqlArgument{Name: paramName}
		params[i] = &sql.TypeMappedParameter{
			Invariant: paramName,
			Name:      paramName,
			Mapping:   sql.MappingFor(v),
			Nullable:  sql.IsNullValue(v),
		}
	}

	composite := &sql.CompositeParameter{Invariant: name, Parameters: params}
	return f.WithExpansion(args, []sql.RelationalParameter{composite}), nil
}

// expandLiteralArguments inlines the elements of a constant argument list.
// Driver parameters among them become fixed command parameters.
func expandLiteralArguments(f *plan.FromSql, values []interface{}, st *State) (*plan.FromSql, error) {
	args := make([]plan.FromSqlArgument, len(values))
	var params []sql.RelationalParameter
	for i, v := range values {
		dbp, ok := v.(*sql.DbParameter)
		if !ok {
			args[i] = plan.FromSqlArgument{Value: expression.NewLiteral(v, sql.MappingFor(v))}
			continue
		}

		st.DoNotCache()
		paramName, err := claimName(dbp.Name, st)
		if err != nil {
			return nil, err
		}

		named := *dbp
		named.Name = paramName
		args[i] = plan.FromSqlArgument{Name: paramName}
		params = append(params, &sql.FixedParameter{Parameter: &named})
	}
	return f.WithExpansion(args, params), nil
}

// claimName returns the name of a driver parameter, generating one when it
// has none.
func claimName(name string, st *State) (string, error) {
	if name == "" {
		return st.Names.GenerateNext(), nil
	}
	if err := st.Names.Use(name); err != nil {
		return "", err
	}
	return name, nil
}

// collectParameterNames appends the names of the parameters read by the
// expressions of n and its subqueries.
func collectParameterNames(n sql.Node, names *[]string) {
	transform.Inspect(n, func(n sql.Node) bool {
		e, ok := n.(sql.Expressioner)
		if !ok {
			return true
		}
		for _, expr := range e.Expressions() {
			expression.Inspect(expr, func(e sql.Expression) bool {
				switch e := e.(type) {
				case *expression.Parameter:
					*names = append(*names, e.Name())
				case sql.Subquerier:
					if q := e.Subquery(); q != nil {
						collectParameterNames(q, names)
					}
				}
				return true
			})
		}
		return true
	})
}
