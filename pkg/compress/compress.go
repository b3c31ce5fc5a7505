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

// Package compress is the codec layer under the block encoder. A codec is
// stateless: the algorithm id is recorded in the block meta so the reader
// never needs out-of-band knowledge. None is the identity codec and the
// fallback when a payload does not shrink.
package compress

import (
	"errors"
	"fmt"

	"github.com/pierrec/lz4"
)

const (
	None = iota
	Lz4
)

var (
	ErrDecompress = errors.New("compress: malformed or truncated payload")
	ErrUnknownAlg = errors.New("compress: unknown algorithm")
)

// Maxlen returns an upper bound for the compressed size of src under alg,
// used to size destination buffers.
func Maxlen(src []byte, alg int) int {
	switch alg {
	case None:
		return len(src)
	case Lz4:
		return lz4.CompressBlockBound(len(src))
	}
	return len(src)
}

// Compress encodes src into dst and returns the encoded slice. dst must be
// at least Maxlen(src, alg) bytes. For Lz4, a zero-length result means the
// data is incompressible; callers fall back to None and record that.
func Compress(src, dst []byte, alg int) ([]byte, error) {
	switch alg {
	case None:
		dst = dst[:len(src)]
		copy(dst, src)
		return dst, nil
	case Lz4:
		n, err := lz4.CompressBlock(src, dst, nil)
		if err != nil {
			return nil, err
		}
		return dst[:n], nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownAlg, alg)
}

// Decompress decodes src into dst. dst must be sized to the recorded origin
// size; a declared-size mismatch or a truncated payload fails with
// ErrDecompress, never with a short result.
func Decompress(src, dst []byte, alg int) ([]byte, error) {
	switch alg {
	case None:
		dst = dst[:len(src)]
		copy(dst, src)
		return dst, nil
	case Lz4:
		n, err := lz4.UncompressBlock(src, dst)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
		}
		if n != len(dst) {
			return nil, fmt.Errorf("%w: decoded %d bytes, %d expected",
				ErrDecompress, n, len(dst))
		}
		return dst[:n], nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownAlg, alg)
}
