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

// Package config maps a TOML file onto engine options for hosts that
// configure the storage layer from a file rather than programmatically.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/colstore/pkg/colstore/options"
	"github.com/matrixorigin/colstore/pkg/compress"
	"github.com/matrixorigin/colstore/pkg/logutil"
)

type StorageParameters struct {
	// Dir is the storage directory holding data files and the catalog.
	Dir string `toml:"dir"`

	// BlockRowCount rows per column block, fixed per relation at creation.
	BlockRowCount uint32 `toml:"blockRowCount"`

	// StripeRowCount rows per stripe flush.
	StripeRowCount uint64 `toml:"stripeRowCount"`

	// Compression is "lz4" or "none".
	Compression string `toml:"compression"`

	// EncodeWorkers sizes the block encode pool.
	EncodeWorkers int `toml:"encodeWorkers"`
}

type Configuration struct {
	Storage StorageParameters `toml:"storage"`
	Log     logutil.LogConfig `toml:"log"`
}

func Load(path string) (*Configuration, error) {
	var cfg Configuration
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Options converts the file values into engine options, leaving zero
// values to FillDefaults.
func (c *Configuration) Options() (*options.Options, error) {
	alg := options.DefaultCompressAlg
	switch c.Storage.Compression {
	case "", "lz4":
		alg = compress.Lz4
	case "none":
		alg = compress.None
	default:
		return nil, fmt.Errorf("config: unknown compression %q", c.Storage.Compression)
	}
	opts := &options.Options{
		StorageCfg: &options.StorageCfg{
			BlockMaxRows:  c.Storage.BlockRowCount,
			StripeMaxRows: c.Storage.StripeRowCount,
			CompressAlg:   alg,
		},
		SchedulerCfg: &options.SchedulerCfg{
			EncodeWorkers: c.Storage.EncodeWorkers,
		},
	}
	return opts.FillDefaults(), nil
}
