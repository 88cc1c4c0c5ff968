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

package command

import (
	"strconv"

	"github.com/dolthub/go-query-shaper/sql"
)

// DefaultParameterPrefix is the prefix of generated parameter names.
const DefaultParameterPrefix = "p"

// ParameterNameGenerator hands out the names of the parameters added to a
// command while it is built. Every name is given out at most once, whether
// it was generated or chosen by the caller.
type ParameterNameGenerator struct {
	prefix string
	next   int
	used   map[string]struct{}
}

// NewParameterNameGenerator creates a generator of names p0, p1, ...
func NewParameterNameGenerator() *ParameterNameGenerator {
	return &ParameterNameGenerator{prefix: DefaultParameterPrefix, used: make(map[string]struct{})}
}

// Reserve marks the given names as taken without claiming them, so that
// generated names never collide with them.
func (g *ParameterNameGenerator) Reserve(names ...string) {
	for _, n := range names {
		g.used[n] = struct{}{}
	}
}

// GenerateNext returns the next free generated name.
func (g *ParameterNameGenerator) GenerateNext() string {
	for {
		name := g.prefix + strconv.Itoa(g.next)
		g.next++
		if _, ok := g.used[name]; !ok {
			g.used[name] = struct{}{}
			return name
		}
	}
}

// Use claims a name chosen by the caller. It fails if the name was already
// claimed, generated or reserved.
func (g *ParameterNameGenerator) Use(name string) error {
	if _, ok := g.used[name]; ok {
		return sql.ErrDuplicateParameterName.New(name)
	}
	g.used[name] = struct{}{}
	return nil
}

// Reset forgets every name handed out or reserved.
func (g *ParameterNameGenerator) Reset() {
	g.next = 0
	for n := range g.used {
		delete(g.used, n)
	}
}
