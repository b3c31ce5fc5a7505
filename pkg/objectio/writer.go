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
	"hash/crc32"
	"os"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/matrixorigin/colstore/pkg/compress"
	"github.com/matrixorigin/colstore/pkg/container/vector"
)

var ErrColumnRowsMismatch = errors.New("objectio: column row count mismatch")

// StripeWriter stages the column blocks of the stripe under construction
// and appends them to the relation data file in one durable write. Data
// bytes always reach disk before the descriptor is handed back, so a
// catalog entry can never reference missing bytes.
type StripeWriter struct {
	file   *os.File
	alg    int
	pool   *ants.Pool
	offset uint64
	staged []byte
	blocks []BlockMeta
	rows   uint64
}

// NewStripeWriter positions the writer at the current end of the data
// file. pool, when non-nil, fans the per-column encodes of a block out to
// the shared worker pool.
func NewStripeWriter(file *os.File, alg int, pool *ants.Pool) (*StripeWriter, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	return &StripeWriter{
		file:   file,
		alg:    alg,
		pool:   pool,
		offset: uint64(info.Size()),
	}, nil
}

func (w *StripeWriter) Rows() uint64 {
	return w.rows
}

func (w *StripeWriter) Empty() bool {
	return len(w.blocks) == 0
}

type encodedColumn struct {
	nullmap []byte
	data    []byte
	alg     uint8
	origin  uint32
	nullCnt uint32
	zm      ZoneMap
}

// WriteBlock encodes one row group: one column block per vector, all
// covering the same rows. The bytes are only staged; Finalize makes them
// durable.
func (w *StripeWriter) WriteBlock(vecs []*vector.Vector) error {
	rows := vecs[0].Length()
	for _, vec := range vecs {
		if vec.Length() != rows {
			return ErrColumnRowsMismatch
		}
	}

	encoded := make([]encodedColumn, len(vecs))
	errs := make([]error, len(vecs))
	var wg sync.WaitGroup
	for i := range vecs {
		i := i
		wg.Add(1)
		job := func() {
			defer wg.Done()
			encoded[i], errs[i] = w.encodeColumn(vecs[i])
		}
		if w.pool == nil || w.pool.Submit(job) != nil {
			job()
		}
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	meta := BlockMeta{
		Rows: uint32(rows),
		Cols: make([]ColumnMeta, len(vecs)),
	}
	for i, enc := range encoded {
		crc := crc32.ChecksumIEEE(enc.nullmap)
		crc = crc32.Update(crc, crc32.IEEETable, enc.data)
		meta.Cols[i] = ColumnMeta{
			Idx:        uint16(i),
			Typ:        vecs[i].Typ.Oid,
			Alg:        enc.alg,
			Offset:     w.offset + uint64(len(w.staged)),
			NullMapLen: uint32(len(enc.nullmap)),
			DataLen:    uint32(len(enc.data)),
			OriginSize: enc.origin,
			NullCnt:    enc.nullCnt,
			Checksum:   crc,
			ZoneMap:    enc.zm,
		}
		w.staged = append(w.staged, enc.nullmap...)
		w.staged = append(w.staged, enc.data...)
	}
	w.blocks = append(w.blocks, meta)
	w.rows += uint64(rows)
	return nil
}

func (w *StripeWriter) encodeColumn(vec *vector.Vector) (enc encodedColumn, err error) {
	if enc.nullmap, err = vec.Nsp.Show(); err != nil {
		return
	}
	enc.nullCnt = uint32(vec.Nsp.Count())

	zm := NewZoneMap(vec.Typ)
	for i := 0; i < vec.Length(); i++ {
		if v, isNull := vec.GetValue(i); !isNull {
			zm.Update(v)
		}
	}
	enc.zm = *zm

	var raw []byte
	if raw, err = vec.Show(); err != nil {
		return
	}
	enc.origin = uint32(len(raw))
	enc.alg = uint8(w.alg)
	if w.alg == compress.None || len(raw) == 0 {
		enc.alg = compress.None
		enc.data = raw
		return
	}
	dst := make([]byte, compress.Maxlen(raw, w.alg))
	var out []byte
	if out, err = compress.Compress(raw, dst, w.alg); err != nil {
		return
	}
	if len(out) == 0 || len(out) >= len(raw) {
		// incompressible, store raw so decode still has forward progress
		enc.alg = compress.None
		enc.data = raw
		return
	}
	enc.data = out
	return
}

// Finalize writes the staged stripe at the recorded offset, syncs the
// file, and returns the descriptor for the catalog append. The writer is
// then ready for the next stripe. A writer with nothing staged returns a
// nil descriptor.
func (w *StripeWriter) Finalize() (*StripeDescriptor, error) {
	if len(w.blocks) == 0 {
		return nil, nil
	}
	if _, err := w.file.WriteAt(w.staged, int64(w.offset)); err != nil {
		return nil, err
	}
	if err := w.file.Sync(); err != nil {
		return nil, err
	}
	desc := &StripeDescriptor{
		Offset: w.offset,
		Rows:   w.rows,
		Blocks: w.blocks,
	}
	w.offset += uint64(len(w.staged))
	w.staged = nil
	w.blocks = nil
	w.rows = 0
	return desc, nil
}
