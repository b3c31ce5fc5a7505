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

// Package nulls wraps the roaring bitmap library as the null mask of one
// column block. Row positions are block-relative.
package nulls

import (
	"github.com/RoaringBitmap/roaring"
)

type Nulls struct {
	np *roaring.Bitmap
}

func New() *Nulls {
	return &Nulls{}
}

func (nsp *Nulls) Add(rows ...uint32) {
	if nsp.np == nil {
		nsp.np = roaring.New()
	}
	nsp.np.AddMany(rows)
}

func (nsp *Nulls) Contains(row uint32) bool {
	return nsp != nil && nsp.np != nil && nsp.np.Contains(row)
}

// Any reports whether any row is flagged null.
func (nsp *Nulls) Any() bool {
	return nsp != nil && nsp.np != nil && !nsp.np.IsEmpty()
}

func (nsp *Nulls) Count() int {
	if nsp == nil || nsp.np == nil {
		return 0
	}
	return int(nsp.np.GetCardinality())
}

func (nsp *Nulls) Reset() {
	if nsp.np != nil {
		nsp.np.Clear()
	}
}

// Show serializes the mask; an empty mask serializes to nil so an all
// non-null block spends no bytes on it.
func (nsp *Nulls) Show() ([]byte, error) {
	if nsp.np == nil || nsp.np.IsEmpty() {
		return nil, nil
	}
	return nsp.np.ToBytes()
}

func (nsp *Nulls) Read(data []byte) error {
	if len(data) == 0 {
		nsp.np = nil
		return nil
	}
	nsp.np = roaring.New()
	return nsp.np.UnmarshalBinary(data)
}
