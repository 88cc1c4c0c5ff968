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
	"reflect"

	"github.com/dolthub/go-query-shaper/sql"
)

// NodeEqualer is implemented by relational nodes that can be compared
// structurally.
type NodeEqualer interface {
	Equal(other sql.Node) bool
}

// EqualExprs reports whether a and b are structurally equal expressions.
func EqualExprs(a, b sql.Expression) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	switch a := a.(type) {
	case *Literal:
		b, ok := b.(*Literal)
		return ok && SameMapping(a.mapping, b.mapping) && reflect.DeepEqual(a.value, b.value)
	case *Parameter:
		b, ok := b.(*Parameter)
		return ok && a.name == b.name && SameMapping(a.mapping, b.mapping)
	case *Column:
		b, ok := b.(*Column)
		return ok && a.table == b.table && a.name == b.name && a.index == b.index &&
			a.nullable == b.nullable && SameMapping(a.mapping, b.mapping)
	case *Unary:
		b, ok := b.(*Unary)
		return ok && a.Op == b.Op && SameMapping(a.mapping, b.mapping) && EqualExprs(a.Operand, b.Operand)
	case *Binary:
		b, ok := b.(*Binary)
		return ok && a.Op == b.Op && SameMapping(a.mapping, b.mapping) &&
			EqualExprs(a.Left, b.Left) && EqualExprs(a.Right, b.Right)
	case *Case:
		b, ok := b.(*Case)
		if !ok || len(a.Branches) != len(b.Branches) || !EqualExprs(a.Expr, b.Expr) || !EqualExprs(a.Else, b.Else) {
			return false
		}
		for i := range a.Branches {
			if !EqualExprs(a.Branches[i].Cond, b.Branches[i].Cond) || !EqualExprs(a.Branches[i].Value, b.Branches[i].Value) {
				return false
			}
		}
		return true
	case *In:
		b, ok := b.(*In)
		return ok && a.Negated == b.Negated && EqualExprs(a.Item, b.Item) && EqualExprs(a.Values, b.Values) &&
			EqualNodes(a.Query, b.Query)
	case *Like:
		b, ok := b.(*Like)
		return ok && EqualExprs(a.Match, b.Match) && EqualExprs(a.Pattern, b.Pattern) && EqualExprs(a.Escape, b.Escape)
	case *Exists:
		b, ok := b.(*Exists)
		return ok && a.Negated == b.Negated && EqualNodes(a.Query, b.Query)
	case *ScalarSubquery:
		b, ok := b.(*ScalarSubquery)
		return ok && SameMapping(a.mapping, b.mapping) && EqualNodes(a.Query, b.Query)
	case *Function:
		b, ok := b.(*Function)
		return ok && a.Name == b.Name && a.BuiltIn == b.BuiltIn && a.Nullable == b.Nullable &&
			reflect.DeepEqual(a.PropagatesNull, b.PropagatesNull) && SameMapping(a.mapping, b.mapping) &&
			EqualSlices(a.Args, b.Args)
	case *RowNumber:
		b, ok := b.(*RowNumber)
		if !ok || len(a.Orderings) != len(b.Orderings) || !EqualSlices(a.Partitions, b.Partitions) {
			return false
		}
		for i := range a.Orderings {
			if a.Orderings[i].Ascending != b.Orderings[i].Ascending || !EqualExprs(a.Orderings[i].Expr, b.Orderings[i].Expr) {
				return false
			}
		}
		return true
	case *Fragment:
		b, ok := b.(*Fragment)
		return ok && a.Sql == b.Sql
	default:
		return reflect.DeepEqual(a, b)
	}
}

// EqualSlices reports whether a and b are element-wise structurally equal.
func EqualSlices(a, b []sql.Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualExprs(a[i], b[i]) {
			return false
		}
	}
	return true
}

// EqualNodes reports whether two relational nodes are structurally equal.
func EqualNodes(a, b sql.Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if eq, ok := a.(NodeEqualer); ok {
		return eq.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

// SameMapping reports whether two type mappings describe the same store
// type.
func SameMapping(a, b *sql.TypeMapping) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
