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

package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLz4RoundTrip(t *testing.T) {
	src := bytes.Repeat([]byte("colstore"), 1000)
	dst := make([]byte, Maxlen(src, Lz4))
	compressed, err := Compress(src, dst, Lz4)
	require.Nil(t, err)
	require.NotZero(t, len(compressed))
	assert.Less(t, len(compressed), len(src))

	decompressed := make([]byte, len(src))
	decompressed, err = Decompress(compressed, decompressed, Lz4)
	require.Nil(t, err)
	assert.Equal(t, src, decompressed)
}

func TestNoneIsIdentity(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5}
	dst := make([]byte, Maxlen(src, None))
	out, err := Compress(src, dst, None)
	require.Nil(t, err)
	assert.Equal(t, src, out)

	back := make([]byte, len(src))
	back, err = Decompress(out, back, None)
	require.Nil(t, err)
	assert.Equal(t, src, back)
}

func TestDecompressTruncated(t *testing.T) {
	src := bytes.Repeat([]byte("abcd"), 512)
	dst := make([]byte, Maxlen(src, Lz4))
	compressed, err := Compress(src, dst, Lz4)
	require.Nil(t, err)

	back := make([]byte, len(src))
	_, err = Decompress(compressed[:len(compressed)/2], back, Lz4)
	assert.ErrorIs(t, err, ErrDecompress)
}

func TestDecompressWrongDeclaredSize(t *testing.T) {
	src := bytes.Repeat([]byte("abcd"), 512)
	dst := make([]byte, Maxlen(src, Lz4))
	compressed, err := Compress(src, dst, Lz4)
	require.Nil(t, err)

	back := make([]byte, len(src)+17)
	_, err = Decompress(compressed, back, Lz4)
	assert.ErrorIs(t, err, ErrDecompress)
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := Compress([]byte("x"), make([]byte, 8), 42)
	assert.ErrorIs(t, err, ErrUnknownAlg)
	_, err = Decompress([]byte("x"), make([]byte, 8), 42)
	assert.ErrorIs(t, err, ErrUnknownAlg)
}
