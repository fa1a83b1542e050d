/*
Package store provides the key value storage the ledger keeps accounts in.

All writes of a transaction go to a KVCacheWrap placed over the committed
store. At the end, call Write to flush the pending changes into the parent,
or Discard to drop them. Cache-wraps nest, so a cache-wrap can itself be
wrapped again.
*/
package store

// ReadOnlyKVStore is a simple interface to query data.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Panics on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Panics on nil key.
	Has(key []byte) (bool, error)
}

// SetDeleter is a minimal interface for writing.
type SetDeleter interface {
	// Set sets the key. Panics on nil key.
	Set(key, value []byte) error

	// Delete deletes the key. Panics on nil key.
	Delete(key []byte) error
}

// KVStore is a simple interface to get/set data.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
}

// CacheableKVStore is a KVStore that supports cache-wrapping.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap holds uncommitted changes on top of a parent store. Reads see
// the pending changes first and fall through to the parent.
type KVCacheWrap interface {
	CacheableKVStore

	// Pending returns the number of keys changed since the last Write or
	// Discard.
	Pending() int

	// Write flushes the pending changes into the parent and empties the
	// cache.
	Write() error

	// Discard drops the pending changes.
	Discard()
}
