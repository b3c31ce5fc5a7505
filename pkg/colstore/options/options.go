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

package options

import (
	"github.com/matrixorigin/colstore/pkg/compress"
)

const (
	// Sizing defaults. Block row count is fixed per relation at creation;
	// stripe row count and compression are per-write choices.
	DefaultBlockMaxRows  = uint32(10000)
	DefaultStripeMaxRows = uint64(150000)
	DefaultCompressAlg   = compress.Lz4

	DefaultEncodeWorkers = 4
)

type Options struct {
	StorageCfg   *StorageCfg
	SchedulerCfg *SchedulerCfg
}

type StorageCfg struct {
	BlockMaxRows  uint32
	StripeMaxRows uint64
	CompressAlg   int
}

type SchedulerCfg struct {
	// EncodeWorkers sizes the pool that compresses the column blocks of a
	// stripe in parallel during flush.
	EncodeWorkers int
}

func (o *Options) FillDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.StorageCfg == nil {
		o.StorageCfg = &StorageCfg{
			BlockMaxRows:  DefaultBlockMaxRows,
			StripeMaxRows: DefaultStripeMaxRows,
			CompressAlg:   DefaultCompressAlg,
		}
	}
	if o.StorageCfg.BlockMaxRows == 0 {
		o.StorageCfg.BlockMaxRows = DefaultBlockMaxRows
	}
	if o.StorageCfg.StripeMaxRows == 0 {
		o.StorageCfg.StripeMaxRows = DefaultStripeMaxRows
	}
	if o.SchedulerCfg == nil {
		o.SchedulerCfg = &SchedulerCfg{
			EncodeWorkers: DefaultEncodeWorkers,
		}
	}
	if o.SchedulerCfg.EncodeWorkers <= 0 {
		o.SchedulerCfg.EncodeWorkers = DefaultEncodeWorkers
	}
	return o
}
