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

// Package colstore is the columnar append-only storage engine. Rows are
// buffered per column, grouped into immutable stripes of compressed column
// blocks, and reconstructed lazily during projected scans. The engine
// supports no in-place update, delete or per-row versioning; a row is
// either fully durable (stripe bytes plus catalog descriptor) or not
// visible at all.
package colstore

import (
	"errors"

	"github.com/matrixorigin/colstore/pkg/container/types"
)

var (
	// ErrSchemaMismatch flags a disagreement between the caller's row or
	// schema shape and the relation's blocks. It indicates a logic defect
	// in the caller, never a recoverable condition.
	ErrSchemaMismatch = errors.New("colstore: schema mismatch")

	ErrWriteClosed = errors.New("colstore: write state closed")
	ErrReadClosed  = errors.New("colstore: read state closed")

	ErrInvalidProjection = errors.New("colstore: projected column out of range")
)

type ColDef struct {
	Name string
	Typ  types.Type
}

// Schema is supplied by the host on every begin-write/begin-read; the
// engine persists column types in block metadata but not names.
type Schema struct {
	Name    string
	ColDefs []ColDef
}

func NewSchema(name string, defs []ColDef) *Schema {
	return &Schema{Name: name, ColDefs: defs}
}

func (s *Schema) ColumnCount() int {
	return len(s.ColDefs)
}

// Engine is the capability surface the host adapter binds to. Store is
// the single implementation; the adapter maps the host's table interface
// onto these calls one for one.
type Engine interface {
	// BeginWrite opens the single write state for a relation, creating
	// its metadata on first use. A second call while one is open returns
	// the existing state.
	BeginWrite(id uint64, alg int, stripeRows uint64, blockRows uint32, schema *Schema) (*WriteState, error)

	// BeginRead opens an independent scan over the committed stripes,
	// decoding only the projected columns.
	BeginRead(id uint64, schema *Schema, projection []int) (*ReadState, error)

	// InitializeStorage (re)creates a relation's physical storage,
	// replacing any previous stripe list.
	InitializeStorage(id uint64, blockRows uint32) error

	// DeleteMetadata discards a relation's metadata and data file.
	DeleteMetadata(id uint64) error

	EstimateRowCount(id uint64) (uint64, error)
	EstimateStorageSize(id uint64) (uint64, error)

	Close() error
}
