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

// Package catalog is the durable metadata store: per relation, the block
// row count chosen at creation and the ordered list of stripe descriptors.
// It is the single source of truth for which rows are committed.
//
// Layout in pebble: key 'm'+relid holds the relation header, keys
// 's'+relid+seq hold stripe descriptors, both ids big-endian so iteration
// order is file order. All entries are replayed into an in-memory btree at
// Open; pebble carries durability, the btree serves reads. Descriptors are
// appended with a synced batch and never mutated afterwards, so concurrent
// readers always observe a consistent, monotonically growing stripe list.
package catalog

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/google/btree"

	"github.com/matrixorigin/colstore/pkg/logutil"
	"github.com/matrixorigin/colstore/pkg/objectio"
)

const (
	metaKeyPrefix   = 'm'
	stripeKeyPrefix = 's'

	btreeDegree = 8
)

type Catalog struct {
	db *pebble.DB

	mu      sync.RWMutex
	entries *btree.BTree
}

func Open(dir string) (*Catalog, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	c := &Catalog{
		db:      db,
		entries: btree.New(btreeDegree),
	}
	if err = c.replay(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// replay rebuilds the in-memory entries from pebble. Header keys sort
// before stripe keys, so every descriptor meets an existing entry.
func (c *Catalog) replay() error {
	iter := c.db.NewIter(nil)
	defer iter.Close()
	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		switch key[0] {
		case metaKeyPrefix:
			entry := &RelationEntry{ID: binary.BigEndian.Uint64(key[1:])}
			if err := entry.unmarshalHeader(iter.Value()); err != nil {
				return err
			}
			c.entries.ReplaceOrInsert(entry)
		case stripeKeyPrefix:
			id := binary.BigEndian.Uint64(key[1:])
			item := c.entries.Get(&RelationEntry{ID: id})
			if item == nil {
				return fmt.Errorf("%w: stripe for unknown relation %d", ErrCorrupted, id)
			}
			var desc objectio.StripeDescriptor
			if err := desc.Unmarshal(iter.Value()); err != nil {
				return err
			}
			entry := item.(*RelationEntry)
			entry.Stripes = append(entry.Stripes, desc)
		default:
			return fmt.Errorf("%w: unexpected key %q", ErrCorrupted, key)
		}
	}
	logutil.Infof("catalog replayed, %d relations", c.entries.Len())
	return iter.Error()
}

func metaKey(id uint64) []byte {
	var key [9]byte
	key[0] = metaKeyPrefix
	binary.BigEndian.PutUint64(key[1:], id)
	return key[:]
}

func stripeKey(id, seq uint64) []byte {
	var key [17]byte
	key[0] = stripeKeyPrefix
	binary.BigEndian.PutUint64(key[1:], id)
	binary.BigEndian.PutUint64(key[9:], seq)
	return key[:]
}

// stripeKeyBounds covers every stripe key of one relation.
func stripeKeyBounds(id uint64) (lo, hi []byte) {
	return stripeKey(id, 0), append(stripeKey(id, ^uint64(0)), 0)
}

// Read returns the layout of a relation, or ErrNotFound if it was never
// initialized. A registered relation with no stripes is a valid, empty
// layout.
func (c *Catalog) Read(id uint64) (*RelationEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item := c.entries.Get(&RelationEntry{ID: id})
	if item == nil {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return item.(*RelationEntry).snapshot(), nil
}

// Initialize registers the relation, or resets it when it already exists
// (truncate): the stripe list is replaced, never merged, while the
// previously recorded block row count wins over the argument so old
// stripes, if any survive elsewhere, stay interpretable.
func (c *Catalog) Initialize(id uint64, blockRows uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item := c.entries.Get(&RelationEntry{ID: id}); item != nil {
		blockRows = item.(*RelationEntry).BlockRows
	}
	entry := &RelationEntry{ID: id, BlockRows: blockRows}

	batch := c.db.NewBatch()
	defer batch.Close()
	lo, hi := stripeKeyBounds(id)
	if err := batch.DeleteRange(lo, hi, nil); err != nil {
		return err
	}
	if err := batch.Set(metaKey(id), entry.marshalHeader(), nil); err != nil {
		return err
	}
	if err := c.db.Apply(batch, pebble.Sync); err != nil {
		return err
	}
	c.entries.ReplaceOrInsert(entry)
	logutil.Infof("catalog: initialized relation %d, block rows %d", id, blockRows)
	return nil
}

// AppendStripe durably extends the relation's stripe list. The descriptor
// is visible to readers only once the synced batch commits.
func (c *Catalog) AppendStripe(id uint64, desc objectio.StripeDescriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.entries.Get(&RelationEntry{ID: id})
	if item == nil {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	entry := item.(*RelationEntry)

	next := *entry
	next.Stripes = append(entry.Stripes[:len(entry.Stripes):len(entry.Stripes)], desc)
	next.nextSeq = entry.nextSeq + 1

	batch := c.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(stripeKey(id, entry.nextSeq), desc.Marshal(), nil); err != nil {
		return err
	}
	if err := batch.Set(metaKey(id), next.marshalHeader(), nil); err != nil {
		return err
	}
	if err := c.db.Apply(batch, pebble.Sync); err != nil {
		return err
	}
	c.entries.ReplaceOrInsert(&next)
	return nil
}

// Delete drops the relation's metadata. Deleting an unknown relation is a
// no-op, matching drop-if-exists semantics at the host boundary.
func (c *Catalog) Delete(id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item := c.entries.Get(&RelationEntry{ID: id}); item == nil {
		return nil
	}
	batch := c.db.NewBatch()
	defer batch.Close()
	lo, hi := stripeKeyBounds(id)
	if err := batch.DeleteRange(lo, hi, nil); err != nil {
		return err
	}
	if err := batch.Delete(metaKey(id), nil); err != nil {
		return err
	}
	if err := c.db.Apply(batch, pebble.Sync); err != nil {
		return err
	}
	c.entries.Delete(&RelationEntry{ID: id})
	logutil.Infof("catalog: deleted relation %d", id)
	return nil
}

// ListRelations returns the registered relation ids in ascending order.
func (c *Catalog) ListRelations() []uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]uint64, 0, c.entries.Len())
	c.entries.Ascend(func(item btree.Item) bool {
		ids = append(ids, item.(*RelationEntry).ID)
		return true
	})
	return ids
}
