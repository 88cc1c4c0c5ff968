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

func TestKey(t *testing.T) {
	k1 := NewKey(1, sql.ParameterValues{"b": int32(1), "a": []interface{}{1, 2}, "c": nil})
	require.Equal(t, []ParameterShape{
		{Name: "a", Length: 2},
		{Name: "b", Length: -1},
		{Name: "c", IsNull: true, Length: -1},
	}, k1.Shapes)

	testCases := []struct {
		name   string
		query  uint64
		values sql.ParameterValues
		equal  bool
	}{
		{"other values", 1, sql.ParameterValues{"b": int32(7), "a": []interface{}{3, 4}, "c": nil}, true},
		{"typed slice", 1, sql.ParameterValues{"b": int32(7), "a": []int{3, 4}, "c": nil}, true},
		{"other length", 1, sql.ParameterValues{"b": int32(1), "a": []interface{}{1}, "c": nil}, false},
		{"other null-ness", 1, sql.ParameterValues{"b": nil, "a": []interface{}{1, 2}, "c": nil}, false},
		{"missing name", 1, sql.ParameterValues{"a": []interface{}{1, 2}, "c": nil}, false},
		{"other query", 2, sql.ParameterValues{"b": int32(1), "a": []interface{}{1, 2}, "c": nil}, false},
	}

	h1, err := k1.Hash()
	require.NoError(t, err)
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			k2 := NewKey(tt.query, tt.values)
			require.Equal(tt.equal, k1.Equal(k2))

			h2, err := k2.Hash()
			require.NoError(err)
			require.Equal(tt.equal, h1 == h2)
		})
	}
}

func TestStore(t *testing.T) {
	require := require.New(t)

	s, err := NewStore(2)
	require.NoError(err)

	k1 := NewKey(1, sql.ParameterValues{"a": 1})
	k2 := NewKey(2, sql.ParameterValues{"a": 1})
	k3 := NewKey(3, sql.ParameterValues{"a": 1})

	_, err = s.Get(k1)
	require.True(ErrKeyNotFound.Is(err))

	t1 := &Template{Text: "one"}
	require.NoError(s.Put(k1, t1))
	require.NoError(s.Put(k2, &Template{Text: "two"}))

	got, err := s.Get(k1)
	require.NoError(err)
	require.Same(t1, got)

	// k2 is now the least recently used
	require.NoError(s.Put(k3, &Template{Text: "three"}))
	require.Equal(2, s.Len())
	_, err = s.Get(k2)
	require.True(ErrKeyNotFound.Is(err))
	_, err = s.Get(k1)
	require.NoError(err)

	s.Purge()
	require.Equal(0, s.Len())
}

func TestStoreHashCollision(t *testing.T) {
	require := require.New(t)

	s, err := NewStore(0)
	require.NoError(err)
	require.Equal(DefaultStoreSize, s.size)

	k := NewKey(1, sql.ParameterValues{"a": 1})
	h, err := k.Hash()
	require.NoError(err)

	other := NewKey(1, sql.ParameterValues{"a": nil})
	s.cache.Add(h, &entry{key: other, template: &Template{Text: "other"}})

	_, err = s.Get(k)
	require.True(ErrKeyNotFound.Is(err))
}
