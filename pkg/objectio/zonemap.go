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
	"github.com/matrixorigin/colstore/pkg/container/types"
	"github.com/matrixorigin/colstore/pkg/encoding"
)

// ZoneMapValueSize bounds each serialized min/max bucket. Varchar values
// longer than the bucket leave the zonemap unset for the block: a truncated
// bound could wrongly exclude rows, so we record nothing instead.
const ZoneMapValueSize = 32

// ZoneMapSize is the fixed serialized footprint inside a column meta:
// a set flag plus two length-prefixed value buckets.
const ZoneMapSize = 1 + 2*(1+ZoneMapValueSize)

// ZoneMap tracks the min/max of one column block. It is an optional
// accelerator: an unset zonemap never excludes a block.
type ZoneMap struct {
	typ types.Type
	min any
	max any
	set bool
	// off is latched once any value overflows the bucket; the zonemap
	// then stays unset for the whole block.
	off bool
}

func NewZoneMap(typ types.Type) *ZoneMap {
	return &ZoneMap{typ: typ}
}

func (zm *ZoneMap) GetType() types.Type {
	return zm.typ
}

func (zm *ZoneMap) Inited() bool {
	return zm.set
}

func (zm *ZoneMap) GetMin() any {
	return zm.min
}

func (zm *ZoneMap) GetMax() any {
	return zm.max
}

// Update widens the bounds with one non-null value.
func (zm *ZoneMap) Update(v any) {
	if zm.off || !zm.typ.Oid.Ordered() {
		return
	}
	if s, ok := v.([]byte); ok && len(s) > ZoneMapValueSize {
		// see ZoneMapValueSize
		zm.set = false
		zm.min, zm.max = nil, nil
		zm.off = true
		return
	}
	if !zm.set {
		zm.min, zm.max = v, v
		zm.set = true
		return
	}
	if zm.typ.Oid.Compare(v, zm.min) < 0 {
		zm.min = v
	}
	if zm.typ.Oid.Compare(v, zm.max) > 0 {
		zm.max = v
	}
}

// Contains reports whether a value in [min, max] could exist in the block.
// An unset zonemap contains everything.
func (zm *ZoneMap) Contains(min, max any) bool {
	if !zm.set {
		return true
	}
	if max != nil && zm.typ.Oid.Compare(max, zm.min) < 0 {
		return false
	}
	if min != nil && zm.typ.Oid.Compare(min, zm.max) > 0 {
		return false
	}
	return true
}

func (zm *ZoneMap) Marshal() []byte {
	buf := make([]byte, 0, ZoneMapSize)
	if !zm.set {
		buf = append(buf, 0)
		buf = append(buf, make([]byte, ZoneMapSize-1)...)
		return buf
	}
	buf = append(buf, 1)
	buf = appendZoneMapValue(buf, zm.typ, zm.min)
	buf = appendZoneMapValue(buf, zm.typ, zm.max)
	return buf
}

func (zm *ZoneMap) Unmarshal(data []byte, typ types.Type) {
	zm.typ = typ
	zm.set = data[0] == 1
	if !zm.set {
		return
	}
	data = data[1:]
	zm.min, data = decodeZoneMapValue(data, typ)
	zm.max, _ = decodeZoneMapValue(data, typ)
}

func appendZoneMapValue(buf []byte, typ types.Type, v any) []byte {
	var raw []byte
	switch typ.Oid {
	case types.T_int8:
		raw = encoding.EncodeInt8(v.(int8))
	case types.T_int16:
		raw = encoding.EncodeInt16(v.(int16))
	case types.T_int32:
		raw = encoding.EncodeInt32(v.(int32))
	case types.T_int64:
		raw = encoding.EncodeInt64(v.(int64))
	case types.T_uint8:
		raw = []byte{v.(uint8)}
	case types.T_uint16:
		raw = encoding.EncodeUint16(v.(uint16))
	case types.T_uint32:
		raw = encoding.EncodeUint32(v.(uint32))
	case types.T_uint64:
		raw = encoding.EncodeUint64(v.(uint64))
	case types.T_float32:
		raw = encoding.EncodeFloat32(v.(float32))
	case types.T_float64:
		raw = encoding.EncodeFloat64(v.(float64))
	case types.T_varchar:
		raw = v.([]byte)
	}
	buf = append(buf, uint8(len(raw)))
	bucket := make([]byte, ZoneMapValueSize)
	copy(bucket, raw)
	return append(buf, bucket...)
}

func decodeZoneMapValue(data []byte, typ types.Type) (any, []byte) {
	n := int(data[0])
	raw := data[1 : 1+ZoneMapValueSize]
	rest := data[1+ZoneMapValueSize:]
	switch typ.Oid {
	case types.T_int8:
		return encoding.DecodeInt8(raw), rest
	case types.T_int16:
		return encoding.DecodeInt16(raw), rest
	case types.T_int32:
		return encoding.DecodeInt32(raw), rest
	case types.T_int64:
		return encoding.DecodeInt64(raw), rest
	case types.T_uint8:
		return raw[0], rest
	case types.T_uint16:
		return encoding.DecodeUint16(raw), rest
	case types.T_uint32:
		return encoding.DecodeUint32(raw), rest
	case types.T_uint64:
		return encoding.DecodeUint64(raw), rest
	case types.T_float32:
		return encoding.DecodeFloat32(raw), rest
	case types.T_float64:
		return encoding.DecodeFloat64(raw), rest
	case types.T_varchar:
		return append([]byte(nil), raw[:n]...), rest
	}
	return nil, rest
}
