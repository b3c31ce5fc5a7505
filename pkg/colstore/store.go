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

package colstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/matrixorigin/colstore/pkg/catalog"
	"github.com/matrixorigin/colstore/pkg/colstore/options"
	"github.com/matrixorigin/colstore/pkg/logutil"
)

const metaDirName = "meta"

// Store owns one storage directory: a data file per relation plus the
// metadata catalog. It implements Engine.
type Store struct {
	dir     string
	opts    *options.Options
	catalog *catalog.Catalog
	pool    *ants.Pool

	mu      sync.Mutex
	writers map[uint64]*WriteState
}

var _ Engine = (*Store)(nil)

func Open(dir string, opts *options.Options) (*Store, error) {
	opts = opts.FillDefaults()
	if err := os.MkdirAll(dir, os.FileMode(0755)); err != nil {
		return nil, err
	}
	c, err := catalog.Open(filepath.Join(dir, metaDirName))
	if err != nil {
		return nil, err
	}
	pool, err := ants.NewPool(opts.SchedulerCfg.EncodeWorkers)
	if err != nil {
		c.Close()
		return nil, err
	}
	logutil.Infof("colstore opened at %s", dir)
	return &Store{
		dir:     dir,
		opts:    opts,
		catalog: c,
		pool:    pool,
		writers: make(map[uint64]*WriteState),
	}, nil
}

// Close releases the worker pool and the catalog. Open write states must
// have been driven to EndWrite by the caller; there is no cancellation
// for an in-flight flush.
func (s *Store) Close() error {
	s.pool.Release()
	return s.catalog.Close()
}

func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Store) dataPath(id uint64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.dat", id))
}

// InitializeStorage registers or resets the relation. On an existing
// relation (truncate) the catalog keeps the originally chosen block row
// count and the data file is cut to zero, discarding orphaned bytes.
func (s *Store) InitializeStorage(id uint64, blockRows uint32) error {
	if blockRows == 0 {
		blockRows = s.opts.StorageCfg.BlockMaxRows
	}
	if err := s.catalog.Initialize(id, blockRows); err != nil {
		return err
	}
	if err := os.Truncate(s.dataPath(id), 0); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DeleteMetadata drops the relation's catalog entry and data file. Unknown
// relations are a no-op, matching drop-if-exists at the host boundary.
func (s *Store) DeleteMetadata(id uint64) error {
	if err := s.catalog.Delete(id); err != nil {
		return err
	}
	if err := os.Remove(s.dataPath(id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// EstimateRowCount sums stripe row counts from the catalog without a scan.
func (s *Store) EstimateRowCount(id uint64) (uint64, error) {
	entry, err := s.catalog.Read(id)
	if err != nil {
		return 0, err
	}
	return entry.RowCount(), nil
}

// EstimateStorageSize sums the stored block bytes from the catalog.
func (s *Store) EstimateStorageSize(id uint64) (uint64, error) {
	entry, err := s.catalog.Read(id)
	if err != nil {
		return 0, err
	}
	return entry.StoredSize(), nil
}

// CopyRelation rewrites every committed row of src into dst through the
// regular write path, using dst's own sizing. This is the rewrite step a
// host runs for VACUUM FULL style maintenance.
func (s *Store) CopyRelation(src, dst uint64, schema *Schema, alg int, stripeRows uint64, blockRows uint32) (uint64, error) {
	projection := make([]int, schema.ColumnCount())
	for i := range projection {
		projection[i] = i
	}
	rs, err := s.BeginRead(src, schema, projection)
	if err != nil {
		return 0, err
	}
	defer rs.EndRead()

	ws, err := s.BeginWrite(dst, alg, stripeRows, blockRows, schema)
	if err != nil {
		return 0, err
	}

	values := make([]any, schema.ColumnCount())
	nulls := make([]bool, schema.ColumnCount())
	var copied uint64
	for {
		ok, err := rs.ReadNextRow(values, nulls)
		if err != nil {
			ws.EndWrite()
			return copied, err
		}
		if !ok {
			break
		}
		if err = ws.WriteRow(values, nulls); err != nil {
			return copied, err
		}
		copied++
	}
	if err = ws.EndWrite(); err != nil {
		return copied, err
	}
	logutil.Infof("copied %d rows from relation %d to %d", copied, src, dst)
	return copied, nil
}

func (s *Store) removeWriter(id uint64) {
	s.mu.Lock()
	delete(s.writers, id)
	s.mu.Unlock()
}
