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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-query-shaper/sql"
)

func TestParameterNameGenerator(t *testing.T) {
	require := require.New(t)

	g := NewParameterNameGenerator()
	g.Reserve("p1", "custom")

	require.Equal("p0", g.GenerateNext())
	require.Equal("p2", g.GenerateNext())

	require.NoError(g.Use("other"))
	err := g.Use("other")
	require.True(sql.ErrDuplicateParameterName.Is(err))
	require.True(sql.ErrDuplicateParameterName.Is(g.Use("custom")))
	require.True(sql.ErrDuplicateParameterName.Is(g.Use("p0")))

	require.NoError(g.Use("p3"))
	require.Equal("p4", g.GenerateNext())

	g.Reset()
	require.Equal("p0", g.GenerateNext())
	require.NoError(g.Use("custom"))
}
