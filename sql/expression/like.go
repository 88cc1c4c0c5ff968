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
	"bytes"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/spf13/cast"

	"github.com/dolthub/go-query-shaper/sql"
)

// Like performs pattern matching against two strings. Escape is optional.
type Like struct {
	Match   sql.Expression
	Pattern sql.Expression
	Escape  sql.Expression
}

var _ sql.Expression = (*Like)(nil)

// NewLike creates a new LIKE expression.
func NewLike(match, pattern, escape sql.Expression) *Like {
	return &Like{Match: match, Pattern: pattern, Escape: escape}
}

// Update returns l if all the given operands are its current ones, and a new
// Like otherwise.
func (l *Like) Update(match, pattern, escape sql.Expression) *Like {
	if match == l.Match && pattern == l.Pattern && escape == l.Escape {
		return l
	}
	return &Like{Match: match, Pattern: pattern, Escape: escape}
}

// Type implements the sql.Expression interface.
func (*Like) Type() *sql.TypeMapping { return sql.Boolean }

// Children implements the sql.Expression interface.
func (l *Like) Children() []sql.Expression {
	if l.Escape == nil {
		return []sql.Expression{l.Match, l.Pattern}
	}
	return []sql.Expression{l.Match, l.Pattern, l.Escape}
}

// WithChildren implements the sql.Expression interface.
func (l *Like) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	expected := len(l.Children())
	if len(children) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(children), expected)
	}
	var escape sql.Expression
	if expected == 3 {
		escape = children[2]
	}
	return l.Update(children[0], children[1], escape), nil
}

// Eval implements the sql.Expression interface.
func (l *Like) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	span, ctx := ctx.Span("expression.Like")
	defer span.Finish()

	operands := l.Children()
	strs := make([]string, len(operands))
	for i, e := range operands {
		v, err := e.Eval(ctx, row)
		if err != nil || v == nil {
			return nil, err
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, sql.ErrInvalidCast.New(i, sql.KindString, v)
		}
		strs[i] = s
	}

	var escape rune
	if len(strs) == 3 {
		escape, _ = utf8.DecodeRuneInString(strs[2])
	}

	re, err := regexp.Compile(patternToGoRegex(strs[1], escape))
	if err != nil {
		return nil, err
	}
	return re.MatchString(strs[0]), nil
}

func (l *Like) String() string {
	if l.Escape != nil {
		return fmt.Sprintf("%s LIKE %s ESCAPE %s", l.Match, l.Pattern, l.Escape)
	}
	return fmt.Sprintf("%s LIKE %s", l.Match, l.Pattern)
}

func patternToGoRegex(pattern string, escape rune) string {
	var buf bytes.Buffer
	buf.WriteString("(?s)^")
	var escaped bool
	for _, r := range pattern {
		switch {
		case escaped:
			buf.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case escape != 0 && r == escape:
			escaped = true
		case r == '%':
			buf.WriteString(".*")
		case r == '_':
			buf.WriteRune('.')
		default:
			buf.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	buf.WriteRune('$')
	return buf.String()
}
