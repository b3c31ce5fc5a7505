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

package nulls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddContains(t *testing.T) {
	nsp := New()
	assert.False(t, nsp.Any())
	assert.Equal(t, 0, nsp.Count())

	nsp.Add(0, 3, 7)
	assert.True(t, nsp.Any())
	assert.Equal(t, 3, nsp.Count())
	assert.True(t, nsp.Contains(3))
	assert.False(t, nsp.Contains(1))
}

func TestEmptyMaskShowsNil(t *testing.T) {
	nsp := New()
	buf, err := nsp.Show()
	require.Nil(t, err)
	assert.Nil(t, buf)

	back := New()
	require.Nil(t, back.Read(buf))
	assert.False(t, back.Any())
}

func TestShowReadRoundTrip(t *testing.T) {
	nsp := New()
	nsp.Add(1, 5, 9999)
	buf, err := nsp.Show()
	require.Nil(t, err)
	require.NotZero(t, len(buf))

	back := New()
	require.Nil(t, back.Read(buf))
	assert.Equal(t, 3, back.Count())
	assert.True(t, back.Contains(9999))
	assert.False(t, back.Contains(2))
}

func TestReset(t *testing.T) {
	nsp := New()
	nsp.Add(2)
	nsp.Reset()
	assert.False(t, nsp.Any())
	assert.False(t, nsp.Contains(2))
}
