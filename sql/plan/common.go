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
	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/expression"
)

// NillaryWithChildren is a common WithChildren implementation for all nodes
// that have no children.
func NillaryWithChildren(node sql.Node, children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(node, len(children), 0)
	}
	return node, nil
}

// UnaryNode is a node that wraps a single table source.
type UnaryNode struct {
	Table sql.Node
}

// Children implements the Node interface.
func (n UnaryNode) Children() []sql.Node {
	return []sql.Node{n.Table}
}

// Alias returns the alias of the given table source, if it has one.
func Alias(n sql.Node) string {
	switch n := n.(type) {
	case *Table:
		return n.Alias
	case *FromSql:
		return n.Alias
	case *Select:
		return n.Alias
	case *SetOperation:
		return n.Alias
	case interface{ Source() sql.Node }:
		return Alias(n.Source())
	default:
		return ""
	}
}

// tableString renders a table source, wrapping subqueries in parentheses.
func tableString(n sql.Node) string {
	if s, ok := n.(*Select); ok {
		return aliased("("+s.String()+")", s.Alias)
	}
	return n.String()
}

func aliased(s, alias string) string {
	if alias == "" {
		return s
	}
	return s + " AS " + alias
}

func sameNodes(a, b []sql.Node) bool {
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

func equalNodeSlices(a, b []sql.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !expression.EqualNodes(a[i], b[i]) {
			return false
		}
	}
	return true
}
