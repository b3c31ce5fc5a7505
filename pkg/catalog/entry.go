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

package catalog

import (
	"github.com/google/btree"

	"github.com/matrixorigin/colstore/pkg/encoding"
	"github.com/matrixorigin/colstore/pkg/objectio"
)

// RelationEntry is the catalog's view of one storage relation: the sizing
// parameter fixed at creation and the ordered, append-only stripe list.
type RelationEntry struct {
	ID        uint64
	BlockRows uint32
	Stripes   []objectio.StripeDescriptor

	// nextSeq numbers the next stripe key; persisted with every append so
	// replay and appends agree after reopen.
	nextSeq uint64
}

func (e *RelationEntry) Less(than btree.Item) bool {
	return e.ID < than.(*RelationEntry).ID
}

// RowCount sums committed rows from the stripe descriptors, no scan.
func (e *RelationEntry) RowCount() uint64 {
	var rows uint64
	for i := range e.Stripes {
		rows += e.Stripes[i].Rows
	}
	return rows
}

// StoredSize sums the on-disk bytes referenced by the stripe descriptors.
func (e *RelationEntry) StoredSize() uint64 {
	var size uint64
	for i := range e.Stripes {
		size += e.Stripes[i].StoredSize()
	}
	return size
}

// snapshot returns a reader-safe copy: the struct is copied and the stripe
// slice header pins the current length, so a later append never becomes
// visible through it.
func (e *RelationEntry) snapshot() *RelationEntry {
	clone := *e
	clone.Stripes = e.Stripes[:len(e.Stripes):len(e.Stripes)]
	return &clone
}

const headerValueSize = 4 + 8

func (e *RelationEntry) marshalHeader() []byte {
	buf := make([]byte, 0, headerValueSize)
	buf = append(buf, encoding.EncodeUint32(e.BlockRows)...)
	buf = append(buf, encoding.EncodeUint64(e.nextSeq)...)
	return buf
}

func (e *RelationEntry) unmarshalHeader(data []byte) error {
	if len(data) != headerValueSize {
		return ErrCorrupted
	}
	e.BlockRows = encoding.DecodeUint32(data)
	e.nextSeq = encoding.DecodeUint64(data[4:])
	return nil
}
