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

package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBindParameters(t *testing.T) {
	require := require.New(t)

	raw := &DbParameter{Value: "raw"}
	params := []RelationalParameter{
		&TypeMappedParameter{Invariant: "id", Name: "id", Mapping: Int32},
		&CompositeParameter{
			Invariant: "args",
			Parameters: []RelationalParameter{
				&TypeMappedParameter{Invariant: "p0", Name: "p0", Mapping: Int32},
				&RawParameter{Invariant: "p1", Name: "p1"},
			},
		},
	}

	var cmd Command
	err := BindParameters(&cmd, params, ParameterValues{
		"id":   int32(4),
		"args": []interface{}{int32(5), raw},
	})
	require.NoError(err)
	require.Len(cmd.Parameters, 3)
	require.Equal("id", cmd.Parameters[0].Name)
	require.Equal(int32(4), cmd.Parameters[0].Value)
	require.Equal("p0", cmd.Parameters[1].Name)
	require.Same(raw, cmd.Parameters[2])
	require.Equal("p1", raw.Name)

	cmd.Reset()
	require.Empty(cmd.Parameters)
	require.Equal("", cmd.Text)
}

func TestBindParametersErrors(t *testing.T) {
	require := require.New(t)

	var cmd Command
	err := BindParameters(&cmd, []RelationalParameter{
		&TypeMappedParameter{Invariant: "missing", Name: "missing"},
	}, ParameterValues{})
	require.True(ErrParameterNotFound.Is(err))

	composite := &CompositeParameter{
		Invariant:  "args",
		Parameters: []RelationalParameter{&TypeMappedParameter{Invariant: "p0", Name: "p0"}},
	}
	err = composite.BindValue(&cmd, []interface{}{1, 2})
	require.True(ErrInvalidParameterValue.Is(err))

	err = (&RawParameter{Invariant: "p0", Name: "p0"}).BindValue(&cmd, 1)
	require.True(ErrInvalidParameterValue.Is(err))
}

func TestConcurrencyDetector(t *testing.T) {
	require := require.New(t)

	d := NewConcurrencyDetector()
	exit, err := d.EnterCriticalSection()
	require.NoError(err)

	_, err = d.EnterCriticalSection()
	require.True(ErrConcurrentInvocation.Is(err))

	exit()
	exit, err = d.EnterCriticalSection()
	require.NoError(err)
	exit()

	var none *ConcurrencyDetector
	exit, err = none.EnterCriticalSection()
	require.NoError(err)
	exit()
}

func TestFixedParameter(t *testing.T) {
	require := require.New(t)

	fixed := &DbParameter{Name: "p3", Value: "fixed"}
	var cmd Command
	err := BindParameters(&cmd, []RelationalParameter{&FixedParameter{Parameter: fixed}}, nil)
	require.NoError(err)
	require.Equal([]*DbParameter{fixed}, cmd.Parameters)
	require.Equal("p3", (&FixedParameter{Parameter: fixed}).InvariantName())
	require.Equal("SELECT 1 [@p3=fixed]", (&Command{Text: "SELECT 1", Parameters: cmd.Parameters}).String())
}
