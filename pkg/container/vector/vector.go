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

// Package vector implements the in-memory append buffer for one column.
// A vector accumulates values between block flushes; the block encoder
// serializes it and the block decoder rebuilds one from a decompressed
// payload plus the null mask.
package vector

import (
	"errors"
	"fmt"

	"github.com/matrixorigin/colstore/pkg/container/nulls"
	"github.com/matrixorigin/colstore/pkg/container/types"
	"github.com/matrixorigin/colstore/pkg/encoding"
)

var ErrShortPayload = errors.New("vector: payload truncated")

type Vector struct {
	Typ types.Type
	Nsp *nulls.Nulls
	// Col holds the typed value slice: []int64, [][]byte and so on. Null
	// rows hold the zero value and are flagged in Nsp, keeping positions
	// aligned with row order.
	Col any

	length int
}

func New(typ types.Type) *Vector {
	vec := &Vector{Typ: typ}
	vec.reset()
	return vec
}

func (v *Vector) Length() int {
	return v.length
}

func (v *Vector) reset() {
	v.length = 0
	v.Nsp = nulls.New()
	switch v.Typ.Oid {
	case types.T_bool:
		v.Col = []bool(nil)
	case types.T_int8:
		v.Col = []int8(nil)
	case types.T_int16:
		v.Col = []int16(nil)
	case types.T_int32:
		v.Col = []int32(nil)
	case types.T_int64:
		v.Col = []int64(nil)
	case types.T_uint8:
		v.Col = []uint8(nil)
	case types.T_uint16:
		v.Col = []uint16(nil)
	case types.T_uint32:
		v.Col = []uint32(nil)
	case types.T_uint64:
		v.Col = []uint64(nil)
	case types.T_float32:
		v.Col = []float32(nil)
	case types.T_float64:
		v.Col = []float64(nil)
	case types.T_varchar:
		v.Col = [][]byte(nil)
	default:
		panic(fmt.Sprintf("vector on unsupported type %s", v.Typ))
	}
}

// Reset empties the vector for the next block while keeping its type.
func (v *Vector) Reset() {
	v.reset()
}

// Append adds one row. A null row records the zero value so the slice
// stays position-aligned.
func (v *Vector) Append(val any, isNull bool) {
	if isNull {
		v.Nsp.Add(uint32(v.length))
		v.appendZero()
		v.length++
		return
	}
	switch col := v.Col.(type) {
	case []bool:
		v.Col = append(col, val.(bool))
	case []int8:
		v.Col = append(col, val.(int8))
	case []int16:
		v.Col = append(col, val.(int16))
	case []int32:
		v.Col = append(col, val.(int32))
	case []int64:
		v.Col = append(col, val.(int64))
	case []uint8:
		v.Col = append(col, val.(uint8))
	case []uint16:
		v.Col = append(col, val.(uint16))
	case []uint32:
		v.Col = append(col, val.(uint32))
	case []uint64:
		v.Col = append(col, val.(uint64))
	case []float32:
		v.Col = append(col, val.(float32))
	case []float64:
		v.Col = append(col, val.(float64))
	case [][]byte:
		buf := append([]byte(nil), val.([]byte)...)
		v.Col = append(col, buf)
	}
	v.length++
}

func (v *Vector) appendZero() {
	switch col := v.Col.(type) {
	case []bool:
		v.Col = append(col, false)
	case []int8:
		v.Col = append(col, 0)
	case []int16:
		v.Col = append(col, 0)
	case []int32:
		v.Col = append(col, 0)
	case []int64:
		v.Col = append(col, 0)
	case []uint8:
		v.Col = append(col, 0)
	case []uint16:
		v.Col = append(col, 0)
	case []uint32:
		v.Col = append(col, 0)
	case []uint64:
		v.Col = append(col, 0)
	case []float32:
		v.Col = append(col, 0)
	case []float64:
		v.Col = append(col, 0)
	case [][]byte:
		v.Col = append(col, nil)
	}
}

// GetValue returns the value at row i and whether it is null.
func (v *Vector) GetValue(i int) (any, bool) {
	if v.Nsp.Contains(uint32(i)) {
		return nil, true
	}
	switch col := v.Col.(type) {
	case []bool:
		return col[i], false
	case []int8:
		return col[i], false
	case []int16:
		return col[i], false
	case []int32:
		return col[i], false
	case []int64:
		return col[i], false
	case []uint8:
		return col[i], false
	case []uint16:
		return col[i], false
	case []uint32:
		return col[i], false
	case []uint64:
		return col[i], false
	case []float32:
		return col[i], false
	case []float64:
		return col[i], false
	case [][]byte:
		return col[i], false
	}
	return nil, true
}

// Show serializes the non-null values in row order. Null rows occupy no
// payload bytes; the null mask accounts for them. Fixed-width values use
// the raw encoding views, varchar values are length-prefixed.
func (v *Vector) Show() ([]byte, error) {
	var buf []byte
	for i := 0; i < v.length; i++ {
		if v.Nsp.Contains(uint32(i)) {
			continue
		}
		switch col := v.Col.(type) {
		case []bool:
			buf = append(buf, encoding.EncodeBool(col[i])...)
		case []int8:
			buf = append(buf, encoding.EncodeInt8(col[i])...)
		case []int16:
			buf = append(buf, encoding.EncodeInt16(col[i])...)
		case []int32:
			buf = append(buf, encoding.EncodeInt32(col[i])...)
		case []int64:
			buf = append(buf, encoding.EncodeInt64(col[i])...)
		case []uint8:
			buf = append(buf, col[i])
		case []uint16:
			buf = append(buf, encoding.EncodeUint16(col[i])...)
		case []uint32:
			buf = append(buf, encoding.EncodeUint32(col[i])...)
		case []uint64:
			buf = append(buf, encoding.EncodeUint64(col[i])...)
		case []float32:
			buf = append(buf, encoding.EncodeFloat32(col[i])...)
		case []float64:
			buf = append(buf, encoding.EncodeFloat64(col[i])...)
		case [][]byte:
			buf = append(buf, encoding.EncodeUint32(uint32(len(col[i])))...)
			buf = append(buf, col[i]...)
		}
	}
	return buf, nil
}

// Read rebuilds the vector from a decoded payload: rows is the block row
// count, nsp the block null mask. Exactly rows values (or null markers)
// come back in original order.
func (v *Vector) Read(data []byte, rows uint32, nsp *nulls.Nulls) error {
	v.reset()
	if nsp != nil {
		v.Nsp = nsp
	}
	width := v.Typ.Oid.FixedLength()
	for i := uint32(0); i < rows; i++ {
		if v.Nsp.Contains(i) {
			v.appendZero()
			v.length++
			continue
		}
		if width > 0 && len(data) < width {
			return ErrShortPayload
		}
		switch col := v.Col.(type) {
		case []bool:
			v.Col = append(col, encoding.DecodeBool(data))
		case []int8:
			v.Col = append(col, encoding.DecodeInt8(data))
		case []int16:
			v.Col = append(col, encoding.DecodeInt16(data))
		case []int32:
			v.Col = append(col, encoding.DecodeInt32(data))
		case []int64:
			v.Col = append(col, encoding.DecodeInt64(data))
		case []uint8:
			v.Col = append(col, data[0])
		case []uint16:
			v.Col = append(col, encoding.DecodeUint16(data))
		case []uint32:
			v.Col = append(col, encoding.DecodeUint32(data))
		case []uint64:
			v.Col = append(col, encoding.DecodeUint64(data))
		case []float32:
			v.Col = append(col, encoding.DecodeFloat32(data))
		case []float64:
			v.Col = append(col, encoding.DecodeFloat64(data))
		case [][]byte:
			if len(data) < 4 {
				return ErrShortPayload
			}
			n := int(encoding.DecodeUint32(data))
			data = data[4:]
			if len(data) < n {
				return ErrShortPayload
			}
			val := append([]byte(nil), data[:n]...)
			v.Col = append(col, val)
			data = data[n:]
			v.length++
			continue
		}
		data = data[width:]
		v.length++
	}
	return nil
}

func (v *Vector) String() string {
	return fmt.Sprintf("vector<%s>[%d rows, %d nulls]",
		v.Typ, v.length, v.Nsp.Count())
}
