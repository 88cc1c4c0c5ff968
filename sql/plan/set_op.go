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

	"github.com/dolthub/go-query-shaper/sql"
	"github.com/dolthub/go-query-shaper/sql/expression"
)

// SetOpType is the type of a set operation.
type SetOpType byte

const (
	UnionType SetOpType = iota
	IntersectType
	ExceptType
)

func (t SetOpType) String() string {
	switch t {
	case UnionType:
		return "UNION"
	case IntersectType:
		return "INTERSECT"
	default:
		return "EXCEPT"
	}
}

// SetOperation combines the rows of two queries.
type SetOperation struct {
	Op       SetOpType
	Left     sql.Node
	Right    sql.Node
	Distinct bool
	Alias    string
}

var _ sql.Node = (*SetOperation)(nil)

// NewUnion creates a new UNION of two queries.
func NewUnion(left, right sql.Node, distinct bool, alias string) *SetOperation {
	return &SetOperation{UnionType, left, right, distinct, alias}
}

// NewIntersect creates a new INTERSECT of two queries.
func NewIntersect(left, right sql.Node, distinct bool, alias string) *SetOperation {
	return &SetOperation{IntersectType, left, right, distinct, alias}
}

// NewExcept creates a new EXCEPT of two queries.
func NewExcept(left, right sql.Node, distinct bool, alias string) *SetOperation {
	return &SetOperation{ExceptType, left, right, distinct, alias}
}

// Update returns s if left and right are its current sources.
func (s *SetOperation) Update(left, right sql.Node) *SetOperation {
	if left == s.Left && right == s.Right {
		return s
	}
	return &SetOperation{s.Op, left, right, s.Distinct, s.Alias}
}

// Children implements the sql.Node interface.
func (s *SetOperation) Children() []sql.Node { return []sql.Node{s.Left, s.Right} }

// WithChildren implements the sql.Node interface.
func (s *SetOperation) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), 2)
	}
	return s.Update(children[0], children[1]), nil
}

// Equal implements the expression.NodeEqualer interface.
func (s *SetOperation) Equal(other sql.Node) bool {
	o, ok := other.(*SetOperation)
	return ok && s.Op == o.Op && s.Distinct == o.Distinct && s.Alias == o.Alias &&
		expression.EqualNodes(s.Left, o.Left) && expression.EqualNodes(s.Right, o.Right)
}

func (s *SetOperation) String() string {
	op := s.Op.String()
	if !s.Distinct {
		op += " ALL"
	}
	return aliased(fmt.Sprintf("(%s %s %s)", s.Left, op, s.Right), s.Alias)
}
