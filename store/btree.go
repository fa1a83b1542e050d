package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/tokenswap/errors"
)

// degree of every tree allocated by this package.
const degree = 2

// MemStore returns an empty store that keeps all data in memory.
func MemStore() CacheableKVStore {
	return &memStore{tree: btree.New(degree)}
}

type memStore struct {
	tree *btree.BTree
}

var _ CacheableKVStore = (*memStore)(nil)

func (m *memStore) Get(key []byte) ([]byte, error) {
	if it := m.tree.Get(entry{key: key}); it != nil {
		return it.(entry).value, nil
	}
	return nil, nil
}

func (m *memStore) Has(key []byte) (bool, error) {
	return m.tree.Has(entry{key: key}), nil
}

func (m *memStore) Set(key, value []byte) error {
	m.tree.ReplaceOrInsert(newEntry(key, value))
	return nil
}

func (m *memStore) Delete(key []byte) error {
	m.tree.Delete(entry{key: key})
	return nil
}

func (m *memStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(m)
}

// BTreeCacheWrap keeps the changes made on top of a parent store in a btree,
// deletions included, until they are written or discarded.
type BTreeCacheWrap struct {
	parent  KVStore
	pending *btree.BTree
}

var _ KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap returns an empty cache-wrap over parent.
func NewBTreeCacheWrap(parent KVStore) *BTreeCacheWrap {
	return &BTreeCacheWrap{
		parent:  parent,
		pending: btree.New(degree),
	}
}

// CacheWrap stacks a new cache-wrap on top of this one.
func (b *BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b)
}

func (b *BTreeCacheWrap) Pending() int {
	return b.pending.Len()
}

// Write applies the pending changes to the parent in key order. The cache is
// emptied even if the parent fails.
func (b *BTreeCacheWrap) Write() error {
	defer b.Discard()
	var err error
	b.pending.Ascend(func(it btree.Item) bool {
		e := it.(entry)
		if e.deleted {
			err = b.parent.Delete(e.key)
		} else {
			err = b.parent.Set(e.key, e.value)
		}
		return err == nil
	})
	return errors.Wrap(err, "write cache")
}

func (b *BTreeCacheWrap) Discard() {
	b.pending.Clear(false)
}

func (b *BTreeCacheWrap) Set(key, value []byte) error {
	b.pending.ReplaceOrInsert(newEntry(key, value))
	return nil
}

func (b *BTreeCacheWrap) Delete(key []byte) error {
	e := newEntry(key, nil)
	e.deleted = true
	b.pending.ReplaceOrInsert(e)
	return nil
}

func (b *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	it := b.pending.Get(entry{key: key})
	if it == nil {
		return b.parent.Get(key)
	}
	return it.(entry).value, nil
}

func (b *BTreeCacheWrap) Has(key []byte) (bool, error) {
	it := b.pending.Get(entry{key: key})
	if it == nil {
		return b.parent.Has(key)
	}
	return !it.(entry).deleted, nil
}

// entry is a single key of a tree. In a cache-wrap a deleted entry shadows
// the parent's value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func newEntry(key, value []byte) entry {
	if key == nil {
		panic("nil key")
	}
	return entry{key: key, value: value}
}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
