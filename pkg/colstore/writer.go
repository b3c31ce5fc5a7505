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
	"errors"
	"os"

	"github.com/matrixorigin/colstore/pkg/catalog"
	"github.com/matrixorigin/colstore/pkg/container/vector"
	"github.com/matrixorigin/colstore/pkg/logutil"
	"github.com/matrixorigin/colstore/pkg/objectio"
)

// WriteState buffers rows for one relation and drives block encode and
// stripe finalization at the configured thresholds. It is an explicit
// session object: the store hands out at most one per relation and the
// caller threads it through every write. Not safe for concurrent use; the
// host serializes writers per relation.
type WriteState struct {
	store      *Store
	id         uint64
	file       *os.File
	sw         *objectio.StripeWriter
	vecs       []*vector.Vector
	blockRows  uint32
	stripeRows uint64
	bufRows    uint32
	closed     bool
}

// BeginWrite opens the write state for a relation, registering its
// metadata on first use. While a state is open a second BeginWrite for
// the same relation returns that state instead of creating a conflicting
// one. The relation's block row count is fixed at creation; the argument
// only applies the first time. Zero sizing arguments fall back to the
// store defaults.
func (s *Store) BeginWrite(id uint64, alg int, stripeRows uint64, blockRows uint32, schema *Schema) (*WriteState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws, ok := s.writers[id]; ok {
		return ws, nil
	}

	if blockRows == 0 {
		blockRows = s.opts.StorageCfg.BlockMaxRows
	}
	if stripeRows == 0 {
		stripeRows = s.opts.StorageCfg.StripeMaxRows
	}

	entry, err := s.catalog.Read(id)
	if errors.Is(err, catalog.ErrNotFound) {
		if err = s.catalog.Initialize(id, blockRows); err != nil {
			return nil, err
		}
		entry, err = s.catalog.Read(id)
	}
	if err != nil {
		return nil, err
	}
	// sizing established at creation wins over the caller's value
	blockRows = entry.BlockRows

	file, err := os.OpenFile(s.dataPath(id), os.O_CREATE|os.O_RDWR, os.FileMode(0644))
	if err != nil {
		return nil, err
	}
	sw, err := objectio.NewStripeWriter(file, alg, s.pool)
	if err != nil {
		file.Close()
		return nil, err
	}

	vecs := make([]*vector.Vector, schema.ColumnCount())
	for i, def := range schema.ColDefs {
		vecs[i] = vector.New(def.Typ)
	}
	ws := &WriteState{
		store:      s,
		id:         id,
		file:       file,
		sw:         sw,
		vecs:       vecs,
		blockRows:  blockRows,
		stripeRows: stripeRows,
	}
	s.writers[id] = ws
	logutil.Debugf("begin write relation %d, block rows %d, stripe rows %d",
		id, blockRows, stripeRows)
	return ws, nil
}

// WriteRow appends one row to the stripe under construction, flushing a
// block or finalizing a stripe when a threshold is crossed. A flush
// failure aborts the state: buffers are released, nothing partial reaches
// the catalog, and the error surfaces to the caller.
func (w *WriteState) WriteRow(values []any, nulls []bool) error {
	if w.closed {
		return ErrWriteClosed
	}
	if len(values) != len(w.vecs) || len(nulls) != len(w.vecs) {
		return ErrSchemaMismatch
	}
	for i, vec := range w.vecs {
		vec.Append(values[i], nulls[i])
	}
	w.bufRows++
	if w.bufRows == w.blockRows {
		if err := w.flushBlock(); err != nil {
			return w.fail(err)
		}
	}
	if w.sw.Rows()+uint64(w.bufRows) >= w.stripeRows {
		if err := w.finalizeStripe(); err != nil {
			return w.fail(err)
		}
	}
	return nil
}

// EndWrite finalizes the partially filled stripe so no buffered row is
// lost, then releases the state on every path. Calling it again, or with
// nothing open, is a no-op.
func (w *WriteState) EndWrite() error {
	if w.closed {
		return nil
	}
	err := w.finalizeStripe()
	w.release()
	return err
}

func (w *WriteState) flushBlock() error {
	if w.bufRows == 0 {
		return nil
	}
	if err := w.sw.WriteBlock(w.vecs); err != nil {
		if errors.Is(err, objectio.ErrColumnRowsMismatch) {
			err = ErrSchemaMismatch
		}
		return err
	}
	for _, vec := range w.vecs {
		vec.Reset()
	}
	w.bufRows = 0
	return nil
}

// finalizeStripe flushes the partial block, makes the stripe's bytes
// durable and only then registers the descriptor. A crash between the two
// steps leaves an orphaned data region that no reader can see.
func (w *WriteState) finalizeStripe() error {
	if err := w.flushBlock(); err != nil {
		return err
	}
	desc, err := w.sw.Finalize()
	if err != nil || desc == nil {
		return err
	}
	if err = w.store.catalog.AppendStripe(w.id, *desc); err != nil {
		return err
	}
	logutil.Debugf("relation %d: stripe at %d committed, %d rows, %d blocks",
		w.id, desc.Offset, desc.Rows, len(desc.Blocks))
	return nil
}

func (w *WriteState) fail(err error) error {
	logutil.Errorf("write state for relation %d aborted: %v", w.id, err)
	w.release()
	return err
}

func (w *WriteState) release() {
	if w.closed {
		return
	}
	w.closed = true
	w.vecs = nil
	w.sw = nil
	w.file.Close()
	w.store.removeWriter(w.id)
}
