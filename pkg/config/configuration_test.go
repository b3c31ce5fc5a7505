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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colstore/pkg/colstore/options"
	"github.com/matrixorigin/colstore/pkg/compress"
	"github.com/matrixorigin/colstore/pkg/testutil"
)

const ModuleName = "CONFIG"

func writeTestConfig(t *testing.T, body string) string {
	dir := testutil.InitTestEnv(ModuleName, t)
	t.Cleanup(func() { testutil.RemoveDefaultTestPath(ModuleName, t) })
	path := filepath.Join(dir, "colstore.toml")
	require.Nil(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeTestConfig(t, `
[storage]
dir = "/data/colstore"
blockRowCount = 5000
stripeRowCount = 60000
compression = "none"
encodeWorkers = 2

[log]
level = "debug"
filename = "/var/log/colstore.log"
max-size = 128
`)
	cfg, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, "/data/colstore", cfg.Storage.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 128, cfg.Log.MaxSize)

	opts, err := cfg.Options()
	require.Nil(t, err)
	assert.Equal(t, uint32(5000), opts.StorageCfg.BlockMaxRows)
	assert.Equal(t, uint64(60000), opts.StorageCfg.StripeMaxRows)
	assert.Equal(t, compress.None, opts.StorageCfg.CompressAlg)
	assert.Equal(t, 2, opts.SchedulerCfg.EncodeWorkers)
}

func TestEmptyConfigFallsBackToDefaults(t *testing.T) {
	path := writeTestConfig(t, "")
	cfg, err := Load(path)
	require.Nil(t, err)

	opts, err := cfg.Options()
	require.Nil(t, err)
	assert.Equal(t, options.DefaultBlockMaxRows, opts.StorageCfg.BlockMaxRows)
	assert.Equal(t, options.DefaultStripeMaxRows, opts.StorageCfg.StripeMaxRows)
	assert.Equal(t, compress.Lz4, opts.StorageCfg.CompressAlg)
	assert.Equal(t, options.DefaultEncodeWorkers, opts.SchedulerCfg.EncodeWorkers)
}

func TestUnknownCompression(t *testing.T) {
	path := writeTestConfig(t, `
[storage]
compression = "zstd"
`)
	cfg, err := Load(path)
	require.Nil(t, err)
	_, err = cfg.Options()
	assert.NotNil(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/colstore.toml")
	assert.NotNil(t, err)
}
