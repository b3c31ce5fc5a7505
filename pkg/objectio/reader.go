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

package objectio

import (
	"errors"
	"fmt"
	"hash/crc32"
	"os"

	"github.com/matrixorigin/colstore/pkg/compress"
	"github.com/matrixorigin/colstore/pkg/container/nulls"
	"github.com/matrixorigin/colstore/pkg/container/vector"
)

var ErrChecksum = errors.New("objectio: block checksum mismatch")

// StripeReader decodes individual column blocks of a relation data file.
// Every read is a pread of exactly one block's extent, so unprojected
// columns cost nothing. Safe for use by concurrent readers, each holding
// its own instance.
type StripeReader struct {
	file *os.File
}

func NewStripeReader(file *os.File) *StripeReader {
	return &StripeReader{file: file}
}

// ReadColumnBlock loads, verifies and decodes the block described by meta,
// yielding exactly rows values (or null markers) in original row order.
func (r *StripeReader) ReadColumnBlock(meta *ColumnMeta, rows uint32) (*vector.Vector, error) {
	stored := make([]byte, meta.StoredLen())
	if _, err := r.file.ReadAt(stored, int64(meta.Offset)); err != nil {
		return nil, err
	}
	if crc := crc32.ChecksumIEEE(stored); crc != meta.Checksum {
		return nil, fmt.Errorf("%w: col %d at %d", ErrChecksum, meta.Idx, meta.Offset)
	}

	nsp := nulls.New()
	if meta.NullMapLen > 0 {
		if err := nsp.Read(stored[:meta.NullMapLen]); err != nil {
			return nil, fmt.Errorf("%w: %v", compress.ErrDecompress, err)
		}
	}

	data := stored[meta.NullMapLen:]
	if meta.Alg != compress.None {
		decompressed := make([]byte, meta.OriginSize)
		var err error
		if decompressed, err = compress.Decompress(data, decompressed, int(meta.Alg)); err != nil {
			return nil, err
		}
		data = decompressed
	} else if uint32(len(data)) != meta.OriginSize {
		return nil, fmt.Errorf("%w: stored %d bytes, %d expected",
			compress.ErrDecompress, len(data), meta.OriginSize)
	}

	vec := vector.New(meta.Typ.ToType())
	if err := vec.Read(data, rows, nsp); err != nil {
		return nil, fmt.Errorf("%w: %v", compress.ErrDecompress, err)
	}
	if vec.Length() != int(rows) {
		return nil, fmt.Errorf("%w: decoded %d rows, %d expected",
			compress.ErrDecompress, vec.Length(), rows)
	}
	return vec, nil
}
