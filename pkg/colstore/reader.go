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

package colstore

import (
	"fmt"
	"os"

	"github.com/matrixorigin/colstore/pkg/catalog"
	"github.com/matrixorigin/colstore/pkg/container/vector"
	"github.com/matrixorigin/colstore/pkg/objectio"
)

// ColumnFilter bounds one column for block skipping. Nil Min or Max
// leaves that side open. Skipping only drops blocks whose zonemap proves
// no row can match; the host still evaluates its predicate per row.
type ColumnFilter struct {
	Col int
	Min any
	Max any
}

// ReadState scans one relation's committed stripes in file order,
// decoding one block at a time for the projected columns only. States are
// independent: concurrent readers each hold their own and observe the
// monotonically growing stripe list the catalog had at BeginRead.
type ReadState struct {
	entry      *catalog.RelationEntry
	schema     *Schema
	projection []int
	filters    []ColumnFilter
	file       *os.File
	sr         *objectio.StripeReader

	stripeIdx  int
	blockIdx   int
	rowInBlock uint32
	decoded    []*vector.Vector
	loaded     bool
	closed     bool
}

// BeginRead opens a scan. An unknown relation is an error; a known
// relation with no stripes yields zero rows. An empty projection is a
// counting-only scan that never touches the data file.
func (s *Store) BeginRead(id uint64, schema *Schema, projection []int) (*ReadState, error) {
	entry, err := s.catalog.Read(id)
	if err != nil {
		return nil, err
	}
	for _, col := range projection {
		if col < 0 || col >= schema.ColumnCount() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidProjection, col)
		}
	}

	rs := &ReadState{
		entry:      entry,
		schema:     schema,
		projection: projection,
		decoded:    make([]*vector.Vector, len(projection)),
	}
	if len(entry.Stripes) > 0 {
		if rs.file, err = os.Open(s.dataPath(id)); err != nil {
			return nil, err
		}
		rs.sr = objectio.NewStripeReader(rs.file)
	}
	return rs, nil
}

// SetFilters installs block-skipping bounds. Call before the first
// ReadNextRow.
func (r *ReadState) SetFilters(filters ...ColumnFilter) error {
	for _, f := range filters {
		if f.Col < 0 || f.Col >= r.schema.ColumnCount() {
			return fmt.Errorf("%w: %d", ErrInvalidProjection, f.Col)
		}
	}
	r.filters = filters
	return nil
}

// ReadNextRow yields the next row in stripe order then in-stripe row
// order, reporting false once all stripes are exhausted. The sequence
// restarts only via a fresh BeginRead.
func (r *ReadState) ReadNextRow(outValues []any, outNulls []bool) (bool, error) {
	if r.closed {
		return false, ErrReadClosed
	}
	if len(outValues) < len(r.projection) || len(outNulls) < len(r.projection) {
		return false, ErrSchemaMismatch
	}
	for {
		if r.stripeIdx >= len(r.entry.Stripes) {
			return false, nil
		}
		desc := &r.entry.Stripes[r.stripeIdx]
		if r.blockIdx >= len(desc.Blocks) {
			r.stripeIdx++
			r.blockIdx = 0
			continue
		}
		blk := &desc.Blocks[r.blockIdx]
		if !r.loaded {
			if r.skippable(blk) {
				r.blockIdx++
				continue
			}
			if err := r.loadBlock(blk); err != nil {
				return false, err
			}
		}
		if r.rowInBlock >= blk.Rows {
			r.blockIdx++
			r.rowInBlock = 0
			r.loaded = false
			continue
		}
		for j := range r.projection {
			outValues[j], outNulls[j] = r.decoded[j].GetValue(int(r.rowInBlock))
		}
		r.rowInBlock++
		return true, nil
	}
}

// EndRead releases decode buffers and the data file. Idempotent.
func (r *ReadState) EndRead() {
	if r.closed {
		return
	}
	r.closed = true
	r.decoded = nil
	r.sr = nil
	if r.file != nil {
		r.file.Close()
		r.file = nil
	}
}

func (r *ReadState) skippable(blk *objectio.BlockMeta) bool {
	for _, f := range r.filters {
		if f.Col >= len(blk.Cols) {
			continue
		}
		if !blk.Cols[f.Col].ZoneMap.Contains(f.Min, f.Max) {
			return true
		}
	}
	return false
}

func (r *ReadState) loadBlock(blk *objectio.BlockMeta) error {
	for j, col := range r.projection {
		if col >= len(blk.Cols) {
			return ErrSchemaMismatch
		}
		meta := &blk.Cols[col]
		if meta.Typ != r.schema.ColDefs[col].Typ.Oid {
			return fmt.Errorf("%w: column %d stored as %s, scanned as %s",
				ErrSchemaMismatch, col, meta.Typ, r.schema.ColDefs[col].Typ.Oid)
		}
		vec, err := r.sr.ReadColumnBlock(meta, blk.Rows)
		if err != nil {
			return err
		}
		r.decoded[j] = vec
	}
	r.loaded = true
	return nil
}
