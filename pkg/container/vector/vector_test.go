// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colstore/pkg/container/types"
)

func TestAppendAndGet(t *testing.T) {
	vec := New(types.T_int64.ToType())
	vec.Append(int64(7), false)
	vec.Append(nil, true)
	vec.Append(int64(-3), false)
	require.Equal(t, 3, vec.Length())

	v, isNull := vec.GetValue(0)
	assert.False(t, isNull)
	assert.Equal(t, int64(7), v)
	_, isNull = vec.GetValue(1)
	assert.True(t, isNull)
	v, isNull = vec.GetValue(2)
	assert.False(t, isNull)
	assert.Equal(t, int64(-3), v)
}

func TestShowReadRoundTripFixed(t *testing.T) {
	vec := New(types.T_int32.ToType())
	expected := []any{int32(1), nil, int32(3), int32(4), nil}
	for _, v := range expected {
		vec.Append(v, v == nil)
	}
	buf, err := vec.Show()
	require.Nil(t, err)
	// two nulls contribute no payload bytes
	assert.Equal(t, 3*4, len(buf))

	back := New(types.T_int32.ToType())
	require.Nil(t, back.Read(buf, 5, vec.Nsp))
	require.Equal(t, 5, back.Length())
	for i, want := range expected {
		got, isNull := back.GetValue(i)
		if want == nil {
			assert.True(t, isNull, "row %d", i)
		} else {
			require.False(t, isNull, "row %d", i)
			assert.Equal(t, want, got)
		}
	}
}

func TestShowReadRoundTripVarchar(t *testing.T) {
	vec := New(types.T_varchar.ToType())
	vec.Append([]byte("stripe"), false)
	vec.Append(nil, true)
	vec.Append([]byte(""), false)
	vec.Append([]byte("column block"), false)

	buf, err := vec.Show()
	require.Nil(t, err)

	back := New(types.T_varchar.ToType())
	require.Nil(t, back.Read(buf, 4, vec.Nsp))
	require.Equal(t, 4, back.Length())

	v, isNull := back.GetValue(0)
	require.False(t, isNull)
	assert.Equal(t, []byte("stripe"), v)
	_, isNull = back.GetValue(1)
	assert.True(t, isNull)
	v, isNull = back.GetValue(2)
	require.False(t, isNull)
	assert.Len(t, v, 0)
	v, isNull = back.GetValue(3)
	require.False(t, isNull)
	assert.Equal(t, []byte("column block"), v)
}

func TestAllNullBlock(t *testing.T) {
	vec := New(types.T_float64.ToType())
	for i := 0; i < 4; i++ {
		vec.Append(nil, true)
	}
	buf, err := vec.Show()
	require.Nil(t, err)
	assert.Len(t, buf, 0)

	back := New(types.T_float64.ToType())
	require.Nil(t, back.Read(buf, 4, vec.Nsp))
	require.Equal(t, 4, back.Length())
	for i := 0; i < 4; i++ {
		_, isNull := back.GetValue(i)
		assert.True(t, isNull)
	}
}

func TestReadTruncatedPayload(t *testing.T) {
	vec := New(types.T_int64.ToType())
	vec.Append(int64(1), false)
	vec.Append(int64(2), false)
	buf, err := vec.Show()
	require.Nil(t, err)

	back := New(types.T_int64.ToType())
	assert.ErrorIs(t, back.Read(buf[:len(buf)-1], 2, nil), ErrShortPayload)
}

func TestResetKeepsType(t *testing.T) {
	vec := New(types.T_int16.ToType())
	vec.Append(int16(9), false)
	vec.Reset()
	assert.Equal(t, 0, vec.Length())
	vec.Append(int16(5), false)
	v, isNull := vec.GetValue(0)
	assert.False(t, isNull)
	assert.Equal(t, int16(5), v)
}
