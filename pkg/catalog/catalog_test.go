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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colstore/pkg/objectio"
	"github.com/matrixorigin/colstore/pkg/testutil"
)

const ModuleName = "CATALOG"

func openTestCatalog(t *testing.T) *Catalog {
	dir := testutil.InitTestEnv(ModuleName, t)
	c, err := Open(dir)
	require.Nil(t, err)
	t.Cleanup(func() {
		c.Close()
		testutil.RemoveDefaultTestPath(ModuleName, t)
	})
	return c
}

func testDescriptor(offset, rows uint64) objectio.StripeDescriptor {
	return objectio.StripeDescriptor{
		Offset: offset,
		Rows:   rows,
		Blocks: []objectio.BlockMeta{{Rows: uint32(rows)}},
	}
}

func TestReadUnknownRelation(t *testing.T) {
	c := openTestCatalog(t)
	_, err := c.Read(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInitializeAndAppend(t *testing.T) {
	c := openTestCatalog(t)
	require.Nil(t, c.Initialize(1, 100))

	entry, err := c.Read(1)
	require.Nil(t, err)
	assert.Equal(t, uint32(100), entry.BlockRows)
	assert.Len(t, entry.Stripes, 0)
	assert.Equal(t, uint64(0), entry.RowCount())

	require.Nil(t, c.AppendStripe(1, testDescriptor(0, 150)))
	require.Nil(t, c.AppendStripe(1, testDescriptor(4096, 70)))

	entry, err = c.Read(1)
	require.Nil(t, err)
	require.Len(t, entry.Stripes, 2)
	assert.Equal(t, uint64(150), entry.Stripes[0].Rows)
	assert.Equal(t, uint64(70), entry.Stripes[1].Rows)
	assert.Equal(t, uint64(220), entry.RowCount())
}

func TestAppendToUnknownRelation(t *testing.T) {
	c := openTestCatalog(t)
	err := c.AppendStripe(7, testDescriptor(0, 10))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplayAfterReopen(t *testing.T) {
	dir := testutil.InitTestEnv(ModuleName, t)
	defer testutil.RemoveDefaultTestPath(ModuleName, t)

	c, err := Open(dir)
	require.Nil(t, err)
	require.Nil(t, c.Initialize(1, 100))
	require.Nil(t, c.Initialize(2, 200))
	require.Nil(t, c.AppendStripe(1, testDescriptor(0, 150)))
	require.Nil(t, c.AppendStripe(1, testDescriptor(4096, 70)))
	require.Nil(t, c.Close())

	c, err = Open(dir)
	require.Nil(t, err)
	defer c.Close()

	entry, err := c.Read(1)
	require.Nil(t, err)
	assert.Equal(t, uint32(100), entry.BlockRows)
	require.Len(t, entry.Stripes, 2)
	assert.Equal(t, uint64(0), entry.Stripes[0].Offset)
	assert.Equal(t, uint64(4096), entry.Stripes[1].Offset)

	entry, err = c.Read(2)
	require.Nil(t, err)
	assert.Equal(t, uint32(200), entry.BlockRows)
	assert.Len(t, entry.Stripes, 0)

	// appends after reopen must not collide with replayed sequence numbers
	require.Nil(t, c.AppendStripe(1, testDescriptor(8192, 30)))
	entry, err = c.Read(1)
	require.Nil(t, err)
	require.Len(t, entry.Stripes, 3)
	assert.Equal(t, uint64(250), entry.RowCount())
}

func TestInitializeTruncates(t *testing.T) {
	c := openTestCatalog(t)
	require.Nil(t, c.Initialize(1, 100))
	require.Nil(t, c.AppendStripe(1, testDescriptor(0, 150)))

	// re-initialize keeps the original block row count and drops stripes
	require.Nil(t, c.Initialize(1, 999))
	entry, err := c.Read(1)
	require.Nil(t, err)
	assert.Equal(t, uint32(100), entry.BlockRows)
	assert.Len(t, entry.Stripes, 0)
	assert.Equal(t, uint64(0), entry.RowCount())
}

func TestDeleteIsIdempotent(t *testing.T) {
	c := openTestCatalog(t)
	require.Nil(t, c.Initialize(1, 100))
	require.Nil(t, c.AppendStripe(1, testDescriptor(0, 10)))

	require.Nil(t, c.Delete(1))
	_, err := c.Read(1)
	assert.ErrorIs(t, err, ErrNotFound)

	require.Nil(t, c.Delete(1))
	require.Nil(t, c.Delete(12345))
}

func TestDeleteSurvivesReopen(t *testing.T) {
	dir := testutil.InitTestEnv(ModuleName, t)
	defer testutil.RemoveDefaultTestPath(ModuleName, t)

	c, err := Open(dir)
	require.Nil(t, err)
	require.Nil(t, c.Initialize(1, 100))
	require.Nil(t, c.AppendStripe(1, testDescriptor(0, 10)))
	require.Nil(t, c.Delete(1))
	require.Nil(t, c.Close())

	c, err = Open(dir)
	require.Nil(t, err)
	defer c.Close()
	_, err = c.Read(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRelations(t *testing.T) {
	c := openTestCatalog(t)
	assert.Len(t, c.ListRelations(), 0)

	require.Nil(t, c.Initialize(30, 100))
	require.Nil(t, c.Initialize(10, 100))
	require.Nil(t, c.Initialize(20, 100))
	assert.Equal(t, []uint64{10, 20, 30}, c.ListRelations())
}

func TestSnapshotIsolation(t *testing.T) {
	c := openTestCatalog(t)
	require.Nil(t, c.Initialize(1, 100))
	require.Nil(t, c.AppendStripe(1, testDescriptor(0, 10)))

	before, err := c.Read(1)
	require.Nil(t, err)
	require.Nil(t, c.AppendStripe(1, testDescriptor(4096, 20)))

	// the earlier snapshot must not observe the later append
	assert.Len(t, before.Stripes, 1)
	after, err := c.Read(1)
	require.Nil(t, err)
	assert.Len(t, after.Stripes, 2)
}
