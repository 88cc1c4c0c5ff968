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
	"github.com/dolthub/go-query-shaper/command"
	"github.com/dolthub/go-query-shaper/sql"
)

// State is the per call state shared by the rules of one analysis.
type State struct {
	// Parameters are the values the query is being specialized for.
	Parameters sql.ParameterValues
	// Names generates the names of the parameters created by the rules.
	Names    *command.ParameterNameGenerator
	canCache bool
}

// NewState creates the analysis state for the given parameter values.
func NewState(params sql.ParameterValues) *State {
	if params == nil {
		params = sql.ParameterValues{}
	}
	return &State{
		Parameters: params,
		Names:      command.NewParameterNameGenerator(),
		canCache:   true,
	}
}

// DoNotCache marks the result as depending on the parameter values
// themselves, not only on their shape.
func (s *State) DoNotCache() { s.canCache = false }

// CanCache reports whether the result can be reused for other values with
// the same parameter shape.
func (s *State) CanCache() bool { return s.canCache }

func (s *State) parameterValue(name string) (interface{}, error) {
	return s.Parameters.Lookup(name)
}
