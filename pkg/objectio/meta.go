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
	"bytes"
	"errors"

	"github.com/matrixorigin/colstore/pkg/container/types"
	"github.com/matrixorigin/colstore/pkg/encoding"
)

var ErrMetaCorrupted = errors.New("objectio: corrupted meta")

// ColumnMeta locates and describes one column block inside the data file.
//
// The stored region is [null bitmap][compressed payload], contiguous at
// Offset. NullMapLen and DataLen split it; OriginSize is the payload size
// before compression and Checksum covers the whole stored region.
type ColumnMeta struct {
	Idx        uint16
	Typ        types.T
	Alg        uint8
	Offset     uint64
	NullMapLen uint32
	DataLen    uint32
	OriginSize uint32
	NullCnt    uint32
	Checksum   uint32
	ZoneMap    ZoneMap
}

const columnMetaSize = 2 + 1 + 1 + 8 + 5*4 + ZoneMapSize

// StoredLen is the byte length of the on-disk region of this column block.
func (cm *ColumnMeta) StoredLen() uint32 {
	return cm.NullMapLen + cm.DataLen
}

func (cm *ColumnMeta) marshal(w *bytes.Buffer) {
	w.Write(encoding.EncodeUint16(cm.Idx))
	w.Write(encoding.EncodeUint8(uint8(cm.Typ)))
	w.Write(encoding.EncodeUint8(cm.Alg))
	w.Write(encoding.EncodeUint64(cm.Offset))
	w.Write(encoding.EncodeUint32(cm.NullMapLen))
	w.Write(encoding.EncodeUint32(cm.DataLen))
	w.Write(encoding.EncodeUint32(cm.OriginSize))
	w.Write(encoding.EncodeUint32(cm.NullCnt))
	w.Write(encoding.EncodeUint32(cm.Checksum))
	w.Write(cm.ZoneMap.Marshal())
}

func (cm *ColumnMeta) unmarshal(data []byte) ([]byte, error) {
	if len(data) < columnMetaSize {
		return nil, ErrMetaCorrupted
	}
	cm.Idx = encoding.DecodeUint16(data)
	data = data[2:]
	cm.Typ = types.T(data[0])
	cm.Alg = data[1]
	data = data[2:]
	cm.Offset = encoding.DecodeUint64(data)
	data = data[8:]
	cm.NullMapLen = encoding.DecodeUint32(data)
	data = data[4:]
	cm.DataLen = encoding.DecodeUint32(data)
	data = data[4:]
	cm.OriginSize = encoding.DecodeUint32(data)
	data = data[4:]
	cm.NullCnt = encoding.DecodeUint32(data)
	data = data[4:]
	cm.Checksum = encoding.DecodeUint32(data)
	data = data[4:]
	cm.ZoneMap.Unmarshal(data[:ZoneMapSize], cm.Typ.ToType())
	return data[ZoneMapSize:], nil
}

// BlockMeta describes one row group of a stripe: Rows rows, one column
// block per column, all covering the same row range.
type BlockMeta struct {
	Rows uint32
	Cols []ColumnMeta
}

func (bm *BlockMeta) marshal(w *bytes.Buffer) {
	w.Write(encoding.EncodeUint32(bm.Rows))
	w.Write(encoding.EncodeUint16(uint16(len(bm.Cols))))
	for i := range bm.Cols {
		bm.Cols[i].marshal(w)
	}
}

func (bm *BlockMeta) unmarshal(data []byte) ([]byte, error) {
	if len(data) < 6 {
		return nil, ErrMetaCorrupted
	}
	bm.Rows = encoding.DecodeUint32(data)
	cnt := int(encoding.DecodeUint16(data[4:]))
	data = data[6:]
	bm.Cols = make([]ColumnMeta, cnt)
	var err error
	for i := 0; i < cnt; i++ {
		if data, err = bm.Cols[i].unmarshal(data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// StripeDescriptor is the catalog-visible record of one finalized stripe.
// It is written only after the stripe's data bytes are durable; its
// absence means the rows were never committed.
type StripeDescriptor struct {
	Offset uint64
	Rows   uint64
	Blocks []BlockMeta
}

// StoredSize sums the on-disk bytes of all column blocks of the stripe.
func (sd *StripeDescriptor) StoredSize() uint64 {
	var size uint64
	for i := range sd.Blocks {
		for j := range sd.Blocks[i].Cols {
			size += uint64(sd.Blocks[i].Cols[j].StoredLen())
		}
	}
	return size
}

func (sd *StripeDescriptor) Marshal() []byte {
	var w bytes.Buffer
	w.Write(encoding.EncodeUint64(sd.Offset))
	w.Write(encoding.EncodeUint64(sd.Rows))
	w.Write(encoding.EncodeUint32(uint32(len(sd.Blocks))))
	for i := range sd.Blocks {
		sd.Blocks[i].marshal(&w)
	}
	return w.Bytes()
}

func (sd *StripeDescriptor) Unmarshal(data []byte) error {
	if len(data) < 20 {
		return ErrMetaCorrupted
	}
	sd.Offset = encoding.DecodeUint64(data)
	sd.Rows = encoding.DecodeUint64(data[8:])
	cnt := int(encoding.DecodeUint32(data[16:]))
	data = data[20:]
	sd.Blocks = make([]BlockMeta, cnt)
	var err error
	for i := 0; i < cnt; i++ {
		if data, err = sd.Blocks[i].unmarshal(data); err != nil {
			return err
		}
	}
	return nil
}
