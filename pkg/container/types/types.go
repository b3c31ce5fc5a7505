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

package types

import (
	"bytes"
	"fmt"
)

// T is the column type tag. The numeric values are persisted in block
// metadata and must not be reordered.
type T uint8

const (
	T_any T = iota
	T_bool
	T_int8
	T_int16
	T_int32
	T_int64
	T_uint8
	T_uint16
	T_uint32
	T_uint64
	T_float32
	T_float64
	T_varchar
)

type Type struct {
	Oid   T
	Width int32
}

func New(oid T) Type {
	return Type{Oid: oid}
}

func (t Type) String() string {
	return t.Oid.String()
}

func (t T) ToType() Type {
	return Type{Oid: t}
}

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_bool:
		return "BOOL"
	case T_int8:
		return "INT8"
	case T_int16:
		return "INT16"
	case T_int32:
		return "INT32"
	case T_int64:
		return "INT64"
	case T_uint8:
		return "UINT8"
	case T_uint16:
		return "UINT16"
	case T_uint32:
		return "UINT32"
	case T_uint64:
		return "UINT64"
	case T_float32:
		return "FLOAT32"
	case T_float64:
		return "FLOAT64"
	case T_varchar:
		return "VARCHAR"
	}
	return fmt.Sprintf("unexpected type tag %d", uint8(t))
}

// FixedLength returns the value width in bytes, or -1 for variable-length
// types.
func (t T) FixedLength() int {
	switch t {
	case T_bool, T_int8, T_uint8:
		return 1
	case T_int16, T_uint16:
		return 2
	case T_int32, T_uint32, T_float32:
		return 4
	case T_int64, T_uint64, T_float64:
		return 8
	}
	return -1
}

// Ordered reports whether values of t carry the total order required for
// zonemap statistics. bool is excluded: a two-value domain gains nothing
// from min/max.
func (t T) Ordered() bool {
	switch t {
	case T_int8, T_int16, T_int32, T_int64,
		T_uint8, T_uint16, T_uint32, T_uint64,
		T_float32, T_float64, T_varchar:
		return true
	}
	return false
}

// Compare orders two non-null values of type t. Callers guarantee both
// arguments hold the Go representation for t.
func (t T) Compare(a, b any) int {
	switch t {
	case T_int8:
		return compareOrdered(a.(int8), b.(int8))
	case T_int16:
		return compareOrdered(a.(int16), b.(int16))
	case T_int32:
		return compareOrdered(a.(int32), b.(int32))
	case T_int64:
		return compareOrdered(a.(int64), b.(int64))
	case T_uint8:
		return compareOrdered(a.(uint8), b.(uint8))
	case T_uint16:
		return compareOrdered(a.(uint16), b.(uint16))
	case T_uint32:
		return compareOrdered(a.(uint32), b.(uint32))
	case T_uint64:
		return compareOrdered(a.(uint64), b.(uint64))
	case T_float32:
		return compareOrdered(a.(float32), b.(float32))
	case T_float64:
		return compareOrdered(a.(float64), b.(float64))
	case T_varchar:
		return bytes.Compare(a.([]byte), b.([]byte))
	}
	panic(fmt.Sprintf("compare on unordered type %s", t))
}

func compareOrdered[V int8 | int16 | int32 | int64 |
	uint8 | uint16 | uint32 | uint64 | float32 | float64](a, b V) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}
