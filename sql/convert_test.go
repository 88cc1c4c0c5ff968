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

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestValueConverter(t *testing.T) {
	guid := uuid.Must(uuid.FromString("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))

	testCases := []struct {
		name     string
		kind     Kind
		value    interface{}
		expected interface{}
	}{
		{"bool from int", KindBool, int64(1), true},
		{"byte from int64", KindByte, int64(200), uint8(200)},
		{"char from string", KindChar, "x", 'x'},
		{"decimal from string", KindDecimal, "12.50", decimal.RequireFromString("12.50")},
		{"decimal from int", KindDecimal, int64(3), decimal.New(3, 0)},
		{"float64 from float32", KindFloat64, float32(1.5), float64(1.5)},
		{"guid from string", KindGuid, guid.String(), guid},
		{"guid from bytes", KindGuid, guid.Bytes(), guid},
		{"int16 from int64", KindInt16, int64(-7), int16(-7)},
		{"int32 from string", KindInt32, "42", int32(42)},
		{"uint64 from int", KindUint64, 9, uint64(9)},
		{"string from bytes", KindString, []byte("abc"), "abc"},
		{"bytes from string", KindBytes, "abc", []byte("abc")},
		{"object passthrough", KindObject, struct{}{}, struct{}{}},
		{"null", KindInt32, nil, nil},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			v, err := Values.Convert(0, tt.kind, tt.value)
			require.NoError(err)
			if d, ok := tt.expected.(decimal.Decimal); ok {
				require.True(d.Equal(v.(decimal.Decimal)))
				return
			}
			require.Equal(tt.expected, v)
		})
	}
}

func TestValueConverterErrors(t *testing.T) {
	require := require.New(t)

	_, err := Values.Int32(2, nil)
	require.True(ErrNullValue.Is(err))

	_, err = Values.Int32(2, "not a number")
	require.True(ErrInvalidCast.Is(err))

	_, err = Values.Char(0, "too long")
	require.True(ErrInvalidCast.Is(err))

	_, err = Values.Guid(0, 12)
	require.True(ErrInvalidCast.Is(err))
}

func TestListValue(t *testing.T) {
	require := require.New(t)

	values, ok := ListValue([]int{1, 2})
	require.True(ok)
	require.Equal([]interface{}{1, 2}, values)

	_, ok = ListValue([]byte("abc"))
	require.False(ok)

	_, ok = ListValue("abc")
	require.False(ok)

	require.True(IsNullValue(nil))
	require.True(IsNullValue((*int)(nil)))
	require.True(IsNullValue(&DbParameter{Name: "p"}))
	require.False(IsNullValue(0))
}
